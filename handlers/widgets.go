package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/veselovese/bronitech/pkg/clock"
	"github.com/veselovese/bronitech/repository"
	"github.com/veselovese/bronitech/types"
)

const widgetSize = 3

// WidgetsHandler assembles the homepage blocks: most popular spaces, the
// nearest best-attended events and the busiest organizers.
type WidgetsHandler struct {
	spacesRepo     *repository.SpacesRepository
	eventsRepo     *repository.EventsRepository
	organizersRepo *repository.OrganizersRepository
	clock          clock.Clock
}

func NewWidgetsHandler(spacesRepo *repository.SpacesRepository, eventsRepo *repository.EventsRepository, organizersRepo *repository.OrganizersRepository, clk clock.Clock) *WidgetsHandler {
	return &WidgetsHandler{spacesRepo: spacesRepo, eventsRepo: eventsRepo, organizersRepo: organizersRepo, clock: clk}
}

func (h *WidgetsHandler) Home(c *gin.Context) {
	spaces, err := h.spacesRepo.TopByPopularity(widgetSize)
	if err != nil {
		c.JSON(http.StatusInternalServerError, types.NewErrorResponse(types.ErrorCodeInternal, err.Error()))
		return
	}
	events, err := h.eventsRepo.ListUpcoming(h.clock.Now(), widgetSize)
	if err != nil {
		c.JSON(http.StatusInternalServerError, types.NewErrorResponse(types.ErrorCodeInternal, err.Error()))
		return
	}
	organizers, err := h.organizersRepo.TopByEventCount(widgetSize)
	if err != nil {
		c.JSON(http.StatusInternalServerError, types.NewErrorResponse(types.ErrorCodeInternal, err.Error()))
		return
	}

	c.JSON(http.StatusOK, types.NewSuccessResponse(gin.H{
		"popularSpaces":  spaces,
		"upcomingEvents": events,
		"topOrganizers":  organizers,
	}))
}
