package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/veselovese/bronitech/models"
	"github.com/veselovese/bronitech/repository"
	"github.com/veselovese/bronitech/types"
)

type ItemsHandler struct {
	itemsRepo *repository.ItemsRepository
}

func NewItemsHandler(itemsRepo *repository.ItemsRepository) *ItemsHandler {
	return &ItemsHandler{itemsRepo: itemsRepo}
}

func (h *ItemsHandler) ListSpaceItems(c *gin.Context) {
	items, err := h.itemsRepo.ListSpaceItems()
	if err != nil {
		c.JSON(http.StatusInternalServerError, types.NewErrorResponse(types.ErrorCodeInternal, err.Error()))
		return
	}
	c.JSON(http.StatusOK, types.NewSuccessResponse(items))
}

func (h *ItemsHandler) ListEventItems(c *gin.Context) {
	items, err := h.itemsRepo.ListEventItems()
	if err != nil {
		c.JSON(http.StatusInternalServerError, types.NewErrorResponse(types.ErrorCodeInternal, err.Error()))
		return
	}
	c.JSON(http.StatusOK, types.NewSuccessResponse(items))
}

func (h *ItemsHandler) CreateSpaceItem(c *gin.Context) {
	h.create(c, h.itemsRepo.CreateSpaceItem)
}

func (h *ItemsHandler) CreateEventItem(c *gin.Context) {
	h.create(c, h.itemsRepo.CreateEventItem)
}

func (h *ItemsHandler) create(c *gin.Context, insert func(string) (*models.Item, error)) {
	var req struct {
		Name string `json:"name" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, types.NewErrorResponse(types.ErrorCodeValidation, err.Error()))
		return
	}
	item, err := insert(req.Name)
	if err != nil {
		c.JSON(http.StatusInternalServerError, types.NewErrorResponse(types.ErrorCodeInternal, err.Error()))
		return
	}
	c.JSON(http.StatusCreated, types.NewSuccessResponse(item))
}
