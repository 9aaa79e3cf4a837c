package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/veselovese/bronitech/models"
	"github.com/veselovese/bronitech/repository"
	"github.com/veselovese/bronitech/types"
)

type BuildingsHandler struct {
	buildingsRepo *repository.BuildingsRepository
}

func NewBuildingsHandler(buildingsRepo *repository.BuildingsRepository) *BuildingsHandler {
	return &BuildingsHandler{buildingsRepo: buildingsRepo}
}

func (h *BuildingsHandler) Create(c *gin.Context) {
	var req struct {
		City   string `json:"city" binding:"required"`
		Street string `json:"street" binding:"required"`
		House  string `json:"house" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, types.NewErrorResponse(types.ErrorCodeValidation, err.Error()))
		return
	}
	building, err := h.buildingsRepo.Create(req.City, req.Street, req.House)
	if err != nil {
		c.JSON(http.StatusInternalServerError, types.NewErrorResponse(types.ErrorCodeInternal, err.Error()))
		return
	}
	c.JSON(http.StatusCreated, types.NewSuccessResponse(building))
}

func (h *BuildingsHandler) List(c *gin.Context) {
	buildings, err := h.buildingsRepo.List()
	if err != nil {
		c.JSON(http.StatusInternalServerError, types.NewErrorResponse(types.ErrorCodeInternal, err.Error()))
		return
	}
	c.JSON(http.StatusOK, types.NewSuccessResponse(buildings))
}

func (h *BuildingsHandler) Cities(c *gin.Context) {
	cities, err := h.buildingsRepo.Cities()
	if err != nil {
		c.JSON(http.StatusInternalServerError, types.NewErrorResponse(types.ErrorCodeInternal, err.Error()))
		return
	}
	c.JSON(http.StatusOK, types.NewSuccessResponse(cities))
}

func (h *BuildingsHandler) Update(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, types.NewErrorResponse(types.ErrorCodeValidation, "Invalid building ID"))
		return
	}
	var req struct {
		City   string `json:"city" binding:"required"`
		Street string `json:"street" binding:"required"`
		House  string `json:"house" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, types.NewErrorResponse(types.ErrorCodeValidation, err.Error()))
		return
	}
	if err := h.buildingsRepo.Update(id, req.City, req.Street, req.House); err != nil {
		if err == models.ErrNotFound {
			c.JSON(http.StatusNotFound, types.NewErrorResponse(types.ErrorCodeNotFound, "Building not found"))
			return
		}
		c.JSON(http.StatusInternalServerError, types.NewErrorResponse(types.ErrorCodeInternal, err.Error()))
		return
	}
	building, err := h.buildingsRepo.GetByID(id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, types.NewErrorResponse(types.ErrorCodeInternal, err.Error()))
		return
	}
	c.JSON(http.StatusOK, types.NewSuccessResponse(building))
}
