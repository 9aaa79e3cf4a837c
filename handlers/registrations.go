package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/veselovese/bronitech/models"
	"github.com/veselovese/bronitech/pkg/clock"
	"github.com/veselovese/bronitech/pkg/notify"
	"github.com/veselovese/bronitech/repository"
	"github.com/veselovese/bronitech/types"
)

type RegistrationsHandler struct {
	registrationsRepo *repository.RegistrationsRepository
	eventsRepo        *repository.EventsRepository
	notificationsRepo *repository.NotificationsRepository
	notifier          notify.Notifier
	alerter           *notify.TelegramAlerter
	clock             clock.Clock
}

func NewRegistrationsHandler(
	registrationsRepo *repository.RegistrationsRepository,
	eventsRepo *repository.EventsRepository,
	notificationsRepo *repository.NotificationsRepository,
	notifier notify.Notifier,
	alerter *notify.TelegramAlerter,
	clk clock.Clock,
) *RegistrationsHandler {
	return &RegistrationsHandler{
		registrationsRepo: registrationsRepo,
		eventsRepo:        eventsRepo,
		notificationsRepo: notificationsRepo,
		notifier:          notifier,
		alerter:           alerter,
		clock:             clk,
	}
}

// Register signs the caller up for a visible upcoming event. One live
// registration per user per event.
func (h *RegistrationsHandler) Register(c *gin.Context) {
	eventID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, types.NewErrorResponse(types.ErrorCodeValidation, "Invalid event ID"))
		return
	}

	event, err := h.eventsRepo.GetByID(eventID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, types.NewErrorResponse(types.ErrorCodeInternal, err.Error()))
		return
	}
	if event == nil || !event.IsVisible {
		c.JSON(http.StatusNotFound, types.NewErrorResponse(types.ErrorCodeNotFound, "Event not found"))
		return
	}
	if event.Date.Before(h.clock.Now()) {
		c.JSON(http.StatusBadRequest, types.NewErrorResponse(types.ErrorCodeValidation, "Event has already taken place"))
		return
	}

	userID := c.GetInt("userId")
	reg, err := h.registrationsRepo.Create(eventID, userID, h.clock.Now())
	switch err {
	case nil:
	case models.ErrAlreadyRegistered:
		c.JSON(http.StatusConflict, types.NewErrorResponse(types.ErrorCodeConflict, err.Error()))
		return
	default:
		c.JSON(http.StatusInternalServerError, types.NewErrorResponse(types.ErrorCodeInternal, err.Error()))
		return
	}

	if full, err := h.registrationsRepo.GetByID(reg.ID); err == nil && full != nil {
		reg = full
		go h.alerter.RegistrationCreated(full.EventName, full.UserName)
	}
	c.JSON(http.StatusCreated, types.NewSuccessResponse(reg))
}

func (h *RegistrationsHandler) ListMine(c *gin.Context) {
	regs, err := h.registrationsRepo.ListByUser(c.GetInt("userId"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, types.NewErrorResponse(types.ErrorCodeInternal, err.Error()))
		return
	}
	c.JSON(http.StatusOK, types.NewSuccessResponse(regs))
}

// ListPending is the admin queue of NEW registrations for upcoming events.
func (h *RegistrationsHandler) ListPending(c *gin.Context) {
	p := types.ParsePagination(c)
	regs, total, err := h.registrationsRepo.ListPending(h.clock.Now(), p.Offset, p.PageSize)
	if err != nil {
		c.JSON(http.StatusInternalServerError, types.NewErrorResponse(types.ErrorCodeInternal, err.Error()))
		return
	}
	c.JSON(http.StatusOK, types.NewSuccessResponse(p.BuildResponse(regs, total)))
}

func (h *RegistrationsHandler) Confirm(c *gin.Context) {
	h.transition(c, func(current models.Status) (models.Status, error) {
		if !current.CanConfirm() {
			return "", models.ErrBadTransition
		}
		return models.StatusConfirmed, nil
	}, "confirmed")
}

func (h *RegistrationsHandler) Cancel(c *gin.Context) {
	h.transition(c, func(current models.Status) (models.Status, error) {
		return current.CancelTarget()
	}, "canceled")
}

func (h *RegistrationsHandler) transition(c *gin.Context, apply func(models.Status) (models.Status, error), verb string) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, types.NewErrorResponse(types.ErrorCodeValidation, "Invalid registration ID"))
		return
	}

	reg, err := h.registrationsRepo.UpdateStatus(id, apply)
	switch {
	case err == nil:
	case errors.Is(err, models.ErrNotFound):
		c.JSON(http.StatusNotFound, types.NewErrorResponse(types.ErrorCodeNotFound, "Registration not found"))
		return
	case errors.Is(err, models.ErrBadTransition):
		c.JSON(http.StatusConflict, types.NewErrorResponse(types.ErrorCodeConflict, err.Error()))
		return
	default:
		c.JSON(http.StatusInternalServerError, types.NewErrorResponse(types.ErrorCodeInternal, err.Error()))
		return
	}

	text := fmt.Sprintf("Your registration for %q was %s", reg.EventName, verb)
	if n, err := h.notificationsRepo.Create(reg.UserID, text); err == nil {
		h.notifier.NotifyUser(reg.UserID, n)
	}
	c.JSON(http.StatusOK, types.NewSuccessResponse(reg))
}
