package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/veselovese/bronitech/models"
	"github.com/veselovese/bronitech/pkg/clock"
	"github.com/veselovese/bronitech/pkg/pdf"
	"github.com/veselovese/bronitech/repository"
	"github.com/veselovese/bronitech/types"
)

type EventsHandler struct {
	eventsRepo     *repository.EventsRepository
	organizersRepo *repository.OrganizersRepository
	usersRepo      *repository.UsersRepository
	clock          clock.Clock
	publicBaseURL  string
}

func NewEventsHandler(
	eventsRepo *repository.EventsRepository,
	organizersRepo *repository.OrganizersRepository,
	usersRepo *repository.UsersRepository,
	clk clock.Clock,
	publicBaseURL string,
) *EventsHandler {
	return &EventsHandler{
		eventsRepo:     eventsRepo,
		organizersRepo: organizersRepo,
		usersRepo:      usersRepo,
		clock:          clk,
		publicBaseURL:  publicBaseURL,
	}
}

// Create accepts a new event from the lead user of an organizer or an admin.
// Events start hidden until an admin publishes them.
func (h *EventsHandler) Create(c *gin.Context) {
	var req struct {
		Name        string `json:"name" binding:"required"`
		Description string `json:"description"`
		Date        string `json:"date" binding:"required"`
		SpaceID     *int   `json:"spaceId"`
		OrganizerID int    `json:"organizerId" binding:"required"`
		ItemIDs     []int  `json:"itemIds"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, types.NewErrorResponse(types.ErrorCodeValidation, err.Error()))
		return
	}
	date, err := types.ParseBookingTime(req.Date)
	if err != nil {
		c.JSON(http.StatusBadRequest, types.NewErrorResponse(types.ErrorCodeValidation, "date must be formatted as "+types.BookingTimeLayout))
		return
	}

	userID := c.GetInt("userId")
	organizer, err := h.organizersRepo.GetByID(req.OrganizerID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, types.NewErrorResponse(types.ErrorCodeInternal, err.Error()))
		return
	}
	if organizer == nil {
		c.JSON(http.StatusNotFound, types.NewErrorResponse(types.ErrorCodeNotFound, "Organizer not found"))
		return
	}
	if organizer.LeadUserID != userID {
		isAdmin, err := h.usersRepo.IsAdmin(userID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, types.NewErrorResponse(types.ErrorCodeInternal, err.Error()))
			return
		}
		if !isAdmin {
			c.JSON(http.StatusForbidden, types.NewErrorResponse(types.ErrorCodeForbidden, "Only the organizer lead can create its events"))
			return
		}
	}

	event, err := h.eventsRepo.Create(req.Name, req.Description, date, req.SpaceID, req.OrganizerID, req.ItemIDs)
	if err != nil {
		c.JSON(http.StatusInternalServerError, types.NewErrorResponse(types.ErrorCodeInternal, err.Error()))
		return
	}
	c.JSON(http.StatusCreated, types.NewSuccessResponse(event))
}

func (h *EventsHandler) Get(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, types.NewErrorResponse(types.ErrorCodeValidation, "Invalid event ID"))
		return
	}
	event, err := h.eventsRepo.GetByID(id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, types.NewErrorResponse(types.ErrorCodeInternal, err.Error()))
		return
	}
	if event == nil {
		c.JSON(http.StatusNotFound, types.NewErrorResponse(types.ErrorCodeNotFound, "Event not found"))
		return
	}
	c.JSON(http.StatusOK, types.NewSuccessResponse(event))
}

// ListUpcoming returns visible future events, most registered first.
func (h *EventsHandler) ListUpcoming(c *gin.Context) {
	limit := 50
	if raw := c.Query("limit"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 && v <= 100 {
			limit = v
		}
	}
	events, err := h.eventsRepo.ListUpcoming(h.clock.Now(), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, types.NewErrorResponse(types.ErrorCodeInternal, err.Error()))
		return
	}
	c.JSON(http.StatusOK, types.NewSuccessResponse(events))
}

func (h *EventsHandler) ListHidden(c *gin.Context) {
	p := types.ParsePagination(c)
	events, total, err := h.eventsRepo.ListHidden(p.Offset, p.PageSize)
	if err != nil {
		c.JSON(http.StatusInternalServerError, types.NewErrorResponse(types.ErrorCodeInternal, err.Error()))
		return
	}
	c.JSON(http.StatusOK, types.NewSuccessResponse(p.BuildResponse(events, total)))
}

func (h *EventsHandler) Update(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, types.NewErrorResponse(types.ErrorCodeValidation, "Invalid event ID"))
		return
	}
	var req struct {
		Name        string `json:"name" binding:"required"`
		Description string `json:"description"`
		Date        string `json:"date" binding:"required"`
		SpaceID     *int   `json:"spaceId"`
		ItemIDs     []int  `json:"itemIds"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, types.NewErrorResponse(types.ErrorCodeValidation, err.Error()))
		return
	}
	date, err := types.ParseBookingTime(req.Date)
	if err != nil {
		c.JSON(http.StatusBadRequest, types.NewErrorResponse(types.ErrorCodeValidation, "date must be formatted as "+types.BookingTimeLayout))
		return
	}

	event, err := h.eventsRepo.GetByID(id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, types.NewErrorResponse(types.ErrorCodeInternal, err.Error()))
		return
	}
	if event == nil {
		c.JSON(http.StatusNotFound, types.NewErrorResponse(types.ErrorCodeNotFound, "Event not found"))
		return
	}

	userID := c.GetInt("userId")
	if event.Organizer == nil || event.Organizer.LeadUserID != userID {
		isAdmin, err := h.usersRepo.IsAdmin(userID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, types.NewErrorResponse(types.ErrorCodeInternal, err.Error()))
			return
		}
		if !isAdmin {
			c.JSON(http.StatusForbidden, types.NewErrorResponse(types.ErrorCodeForbidden, "No permission to update this event"))
			return
		}
	}

	if err := h.eventsRepo.Update(id, req.Name, req.Description, date, req.SpaceID, req.ItemIDs); err != nil {
		if err == models.ErrNotFound {
			c.JSON(http.StatusNotFound, types.NewErrorResponse(types.ErrorCodeNotFound, "Event not found"))
			return
		}
		c.JSON(http.StatusInternalServerError, types.NewErrorResponse(types.ErrorCodeInternal, err.Error()))
		return
	}
	updated, err := h.eventsRepo.GetByID(id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, types.NewErrorResponse(types.ErrorCodeInternal, err.Error()))
		return
	}
	c.JSON(http.StatusOK, types.NewSuccessResponse(updated))
}

func (h *EventsHandler) Show(c *gin.Context) {
	h.setVisible(c, true)
}

func (h *EventsHandler) Hide(c *gin.Context) {
	h.setVisible(c, false)
}

func (h *EventsHandler) setVisible(c *gin.Context, visible bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, types.NewErrorResponse(types.ErrorCodeValidation, "Invalid event ID"))
		return
	}
	if err := h.eventsRepo.SetVisible(id, visible); err != nil {
		if err == models.ErrNotFound {
			c.JSON(http.StatusNotFound, types.NewErrorResponse(types.ErrorCodeNotFound, "Event not found"))
			return
		}
		c.JSON(http.StatusInternalServerError, types.NewErrorResponse(types.ErrorCodeInternal, err.Error()))
		return
	}
	c.JSON(http.StatusOK, types.NewSuccessResponse(gin.H{"id": id, "isVisible": visible}))
}

// Summary renders the printable one-page PDF with QR codes linking back to
// the event page.
func (h *EventsHandler) Summary(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, types.NewErrorResponse(types.ErrorCodeValidation, "Invalid event ID"))
		return
	}
	event, err := h.eventsRepo.GetByID(id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, types.NewErrorResponse(types.ErrorCodeInternal, err.Error()))
		return
	}
	if event == nil {
		c.JSON(http.StatusNotFound, types.NewErrorResponse(types.ErrorCodeNotFound, "Event not found"))
		return
	}

	data, err := pdf.EventSummary(event, h.publicBaseURL)
	if err != nil {
		c.JSON(http.StatusInternalServerError, types.NewErrorResponse(types.ErrorCodeInternal, err.Error()))
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", fmt.Sprintf("event-%d.pdf", event.ID)))
	c.Data(http.StatusOK, "application/pdf", data)
}
