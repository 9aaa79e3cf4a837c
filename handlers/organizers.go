package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/veselovese/bronitech/models"
	"github.com/veselovese/bronitech/repository"
	"github.com/veselovese/bronitech/types"
)

type OrganizersHandler struct {
	organizersRepo *repository.OrganizersRepository
	eventsRepo     *repository.EventsRepository
}

func NewOrganizersHandler(organizersRepo *repository.OrganizersRepository, eventsRepo *repository.EventsRepository) *OrganizersHandler {
	return &OrganizersHandler{organizersRepo: organizersRepo, eventsRepo: eventsRepo}
}

// Create registers an organizer; its lead user gains the organizer flag.
// Admin only.
func (h *OrganizersHandler) Create(c *gin.Context) {
	var req struct {
		Name        string  `json:"name" binding:"required"`
		Description string  `json:"description"`
		LeadUserID  int     `json:"leadUserId" binding:"required"`
		CharterKey  *string `json:"charterKey"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, types.NewErrorResponse(types.ErrorCodeValidation, err.Error()))
		return
	}
	organizer, err := h.organizersRepo.Create(req.Name, req.Description, req.LeadUserID, req.CharterKey)
	if err != nil {
		c.JSON(http.StatusInternalServerError, types.NewErrorResponse(types.ErrorCodeInternal, err.Error()))
		return
	}
	c.JSON(http.StatusCreated, types.NewSuccessResponse(organizer))
}

func (h *OrganizersHandler) Get(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, types.NewErrorResponse(types.ErrorCodeValidation, "Invalid organizer ID"))
		return
	}
	organizer, err := h.organizersRepo.GetByID(id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, types.NewErrorResponse(types.ErrorCodeInternal, err.Error()))
		return
	}
	if organizer == nil {
		c.JSON(http.StatusNotFound, types.NewErrorResponse(types.ErrorCodeNotFound, "Organizer not found"))
		return
	}
	c.JSON(http.StatusOK, types.NewSuccessResponse(organizer))
}

func (h *OrganizersHandler) Search(c *gin.Context) {
	organizers, err := h.organizersRepo.Search(c.Query("q"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, types.NewErrorResponse(types.ErrorCodeInternal, err.Error()))
		return
	}
	c.JSON(http.StatusOK, types.NewSuccessResponse(organizers))
}

// Events lists everything one organizer hosts, newest first.
func (h *OrganizersHandler) Events(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, types.NewErrorResponse(types.ErrorCodeValidation, "Invalid organizer ID"))
		return
	}
	events, err := h.eventsRepo.ListByOrganizer(id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, types.NewErrorResponse(types.ErrorCodeInternal, err.Error()))
		return
	}
	c.JSON(http.StatusOK, types.NewSuccessResponse(events))
}

// Update lets the lead user or an admin edit the organizer.
func (h *OrganizersHandler) Update(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, types.NewErrorResponse(types.ErrorCodeValidation, "Invalid organizer ID"))
		return
	}
	var req struct {
		Name        string  `json:"name" binding:"required"`
		Description string  `json:"description"`
		CharterKey  *string `json:"charterKey"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, types.NewErrorResponse(types.ErrorCodeValidation, err.Error()))
		return
	}

	organizer, err := h.organizersRepo.GetByID(id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, types.NewErrorResponse(types.ErrorCodeInternal, err.Error()))
		return
	}
	if organizer == nil {
		c.JSON(http.StatusNotFound, types.NewErrorResponse(types.ErrorCodeNotFound, "Organizer not found"))
		return
	}

	if err := h.organizersRepo.Update(id, req.Name, req.Description, req.CharterKey); err != nil {
		if err == models.ErrNotFound {
			c.JSON(http.StatusNotFound, types.NewErrorResponse(types.ErrorCodeNotFound, "Organizer not found"))
			return
		}
		c.JSON(http.StatusInternalServerError, types.NewErrorResponse(types.ErrorCodeInternal, err.Error()))
		return
	}
	updated, err := h.organizersRepo.GetByID(id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, types.NewErrorResponse(types.ErrorCodeInternal, err.Error()))
		return
	}
	c.JSON(http.StatusOK, types.NewSuccessResponse(updated))
}
