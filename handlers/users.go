package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/veselovese/bronitech/models"
	"github.com/veselovese/bronitech/repository"
	"github.com/veselovese/bronitech/types"
)

type UsersHandler struct {
	usersRepo *repository.UsersRepository
}

func NewUsersHandler(usersRepo *repository.UsersRepository) *UsersHandler {
	return &UsersHandler{usersRepo: usersRepo}
}

// List returns every user except the caller, with booking and registration
// totals. Admin dashboard.
func (h *UsersHandler) List(c *gin.Context) {
	p := types.ParsePagination(c)
	users, total, err := h.usersRepo.ListUsers(c.GetInt("userId"), p.Offset, p.PageSize)
	if err != nil {
		c.JSON(http.StatusInternalServerError, types.NewErrorResponse(types.ErrorCodeInternal, err.Error()))
		return
	}
	c.JSON(http.StatusOK, types.NewSuccessResponse(p.BuildResponse(users, total)))
}

func (h *UsersHandler) MakeAdmin(c *gin.Context) {
	h.setAdmin(c, true)
}

func (h *UsersHandler) UnmakeAdmin(c *gin.Context) {
	h.setAdmin(c, false)
}

func (h *UsersHandler) setAdmin(c *gin.Context, isAdmin bool) {
	userID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, types.NewErrorResponse(types.ErrorCodeValidation, "Invalid user ID"))
		return
	}
	if !isAdmin && userID == c.GetInt("userId") {
		c.JSON(http.StatusBadRequest, types.NewErrorResponse(types.ErrorCodeValidation, "Cannot revoke your own admin access"))
		return
	}
	if err := h.usersRepo.SetAdmin(userID, isAdmin); err != nil {
		if err == models.ErrNotFound {
			c.JSON(http.StatusNotFound, types.NewErrorResponse(types.ErrorCodeNotFound, "User not found"))
			return
		}
		c.JSON(http.StatusInternalServerError, types.NewErrorResponse(types.ErrorCodeInternal, err.Error()))
		return
	}
	c.JSON(http.StatusOK, types.NewSuccessResponse(gin.H{"userId": userID, "isAdmin": isAdmin}))
}
