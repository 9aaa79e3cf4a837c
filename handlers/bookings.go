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

type BookingsHandler struct {
	bookingsRepo      *repository.BookingsRepository
	spacesRepo        *repository.SpacesRepository
	notificationsRepo *repository.NotificationsRepository
	notifier          notify.Notifier
	alerter           *notify.TelegramAlerter
	clock             clock.Clock
}

func NewBookingsHandler(
	bookingsRepo *repository.BookingsRepository,
	spacesRepo *repository.SpacesRepository,
	notificationsRepo *repository.NotificationsRepository,
	notifier notify.Notifier,
	alerter *notify.TelegramAlerter,
	clk clock.Clock,
) *BookingsHandler {
	return &BookingsHandler{
		bookingsRepo:      bookingsRepo,
		spacesRepo:        spacesRepo,
		notificationsRepo: notificationsRepo,
		notifier:          notifier,
		alerter:           alerter,
		clock:             clk,
	}
}

// Book creates a booking request for a space. Window validation, conflict
// detection and the insert run atomically in the repository; a conflict with
// a confirmed booking is a 400, matching what the search filter would have
// shown.
func (h *BookingsHandler) Book(c *gin.Context) {
	spaceID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, types.NewErrorResponse(types.ErrorCodeValidation, "Invalid space ID"))
		return
	}

	var req struct {
		DateFrom string `json:"dateFrom" binding:"required"`
		DateTo   string `json:"dateTo" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, types.NewErrorResponse(types.ErrorCodeValidation, err.Error()))
		return
	}

	dateFrom, err := types.ParseBookingTime(req.DateFrom)
	if err != nil {
		c.JSON(http.StatusBadRequest, types.NewErrorResponse(types.ErrorCodeInvalidRange, "dateFrom must be formatted as "+types.BookingTimeLayout))
		return
	}
	dateTo, err := types.ParseBookingTime(req.DateTo)
	if err != nil {
		c.JSON(http.StatusBadRequest, types.NewErrorResponse(types.ErrorCodeInvalidRange, "dateTo must be formatted as "+types.BookingTimeLayout))
		return
	}

	userID := c.GetInt("userId")
	booking, err := h.bookingsRepo.TryBook(c.Request.Context(), spaceID, userID, dateFrom, dateTo, h.clock.Now())
	switch err {
	case nil:
	case models.ErrInvalidRange:
		c.JSON(http.StatusBadRequest, types.NewErrorResponse(types.ErrorCodeInvalidRange, err.Error()))
		return
	case models.ErrSpaceOccupied:
		c.JSON(http.StatusBadRequest, types.NewErrorResponse(types.ErrorCodeConflict, err.Error()))
		return
	case models.ErrNotFound:
		c.JSON(http.StatusNotFound, types.NewErrorResponse(types.ErrorCodeNotFound, "Space not found"))
		return
	default:
		c.JSON(http.StatusInternalServerError, types.NewErrorResponse(types.ErrorCodeInternal, err.Error()))
		return
	}

	if full, err := h.bookingsRepo.GetByID(booking.ID); err == nil && full != nil {
		booking = full
		go h.alerter.BookingCreated(full.SpaceName, full.UserName, full.DateFrom, full.DateTo)
	}
	c.JSON(http.StatusCreated, types.NewSuccessResponse(booking))
}

func (h *BookingsHandler) ListMine(c *gin.Context) {
	bookings, err := h.bookingsRepo.ListByUser(c.GetInt("userId"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, types.NewErrorResponse(types.ErrorCodeInternal, err.Error()))
		return
	}
	c.JSON(http.StatusOK, types.NewSuccessResponse(bookings))
}

// ListPending is the admin review queue: NEW bookings that start in the
// future, oldest request first.
func (h *BookingsHandler) ListPending(c *gin.Context) {
	p := types.ParsePagination(c)
	bookings, total, err := h.bookingsRepo.ListPending(h.clock.Now(), p.Offset, p.PageSize)
	if err != nil {
		c.JSON(http.StatusInternalServerError, types.NewErrorResponse(types.ErrorCodeInternal, err.Error()))
		return
	}
	c.JSON(http.StatusOK, types.NewSuccessResponse(p.BuildResponse(bookings, total)))
}

// Confirm moves a NEW booking to CONFIRMED. Admin only.
func (h *BookingsHandler) Confirm(c *gin.Context) {
	h.transition(c, func(current models.Status) (models.Status, error) {
		if !current.CanConfirm() {
			return "", models.ErrBadTransition
		}
		return models.StatusConfirmed, nil
	}, "confirmed")
}

// Cancel resolves the target from the stored status: NEW cancels before
// confirmation, CONFIRMED cancels after. Admin only.
func (h *BookingsHandler) Cancel(c *gin.Context) {
	h.transition(c, func(current models.Status) (models.Status, error) {
		return current.CancelTarget()
	}, "canceled")
}

func (h *BookingsHandler) transition(c *gin.Context, apply func(models.Status) (models.Status, error), verb string) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, types.NewErrorResponse(types.ErrorCodeValidation, "Invalid booking ID"))
		return
	}

	booking, err := h.bookingsRepo.UpdateStatus(id, apply)
	switch {
	case err == nil:
	case errors.Is(err, models.ErrNotFound):
		c.JSON(http.StatusNotFound, types.NewErrorResponse(types.ErrorCodeNotFound, "Booking not found"))
		return
	case errors.Is(err, models.ErrBadTransition):
		c.JSON(http.StatusConflict, types.NewErrorResponse(types.ErrorCodeConflict, err.Error()))
		return
	default:
		c.JSON(http.StatusInternalServerError, types.NewErrorResponse(types.ErrorCodeInternal, err.Error()))
		return
	}

	text := fmt.Sprintf("Your booking of %q from %s to %s was %s",
		booking.SpaceName,
		booking.DateFrom.Format(types.BookingTimeLayout),
		booking.DateTo.Format(types.BookingTimeLayout),
		verb,
	)
	if n, err := h.notificationsRepo.Create(booking.UserID, text); err == nil {
		h.notifier.NotifyUser(booking.UserID, n)
	}
	c.JSON(http.StatusOK, types.NewSuccessResponse(booking))
}
