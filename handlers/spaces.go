package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/veselovese/bronitech/availability"
	"github.com/veselovese/bronitech/models"
	"github.com/veselovese/bronitech/pkg/clock"
	"github.com/veselovese/bronitech/repository"
	"github.com/veselovese/bronitech/types"
)

type SpacesHandler struct {
	spacesRepo   *repository.SpacesRepository
	bookingsRepo *repository.BookingsRepository
	eventsRepo   *repository.EventsRepository
	clock        clock.Clock
}

func NewSpacesHandler(spacesRepo *repository.SpacesRepository, bookingsRepo *repository.BookingsRepository, eventsRepo *repository.EventsRepository, clk clock.Clock) *SpacesHandler {
	return &SpacesHandler{spacesRepo: spacesRepo, bookingsRepo: bookingsRepo, eventsRepo: eventsRepo, clock: clk}
}

func (h *SpacesHandler) Create(c *gin.Context) {
	var req struct {
		Name        string `json:"name" binding:"required"`
		Description string `json:"description"`
		Capacity    int    `json:"capacity" binding:"required"`
		BuildingID  int    `json:"buildingId" binding:"required"`
		RoomNumber  string `json:"roomNumber"`
		ItemIDs     []int  `json:"itemIds"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, types.NewErrorResponse(types.ErrorCodeValidation, err.Error()))
		return
	}
	space, err := h.spacesRepo.CreateSpace(req.Name, req.Description, req.Capacity, req.BuildingID, req.RoomNumber, req.ItemIDs)
	if err != nil {
		c.JSON(http.StatusInternalServerError, types.NewErrorResponse(types.ErrorCodeInternal, err.Error()))
		return
	}
	c.JSON(http.StatusCreated, types.NewSuccessResponse(space))
}

func (h *SpacesHandler) Get(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, types.NewErrorResponse(types.ErrorCodeValidation, "Invalid space ID"))
		return
	}
	space, err := h.spacesRepo.GetSpaceByID(id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, types.NewErrorResponse(types.ErrorCodeInternal, err.Error()))
		return
	}
	if space == nil {
		c.JSON(http.StatusNotFound, types.NewErrorResponse(types.ErrorCodeNotFound, "Space not found"))
		return
	}
	c.JSON(http.StatusOK, types.NewSuccessResponse(space))
}

// Search filters the visible catalog. Non-temporal filters run in SQL; the
// availability window is applied here with the same predicate tryBook uses,
// then the filtered list is paginated.
func (h *SpacesHandler) Search(c *gin.Context) {
	p := types.ParsePagination(c)

	filters := models.SpaceFilters{
		Query: c.Query("q"),
		City:  c.Query("city"),
		Item:  c.Query("item"),
	}
	if raw := c.Query("minCapacity"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 0 {
			c.JSON(http.StatusBadRequest, types.NewErrorResponse(types.ErrorCodeValidation, "Invalid minCapacity"))
			return
		}
		filters.MinCapacity = v
	}

	// An unparseable or inverted window matches nothing rather than being
	// silently ignored.
	dateFrom, errFrom := types.ParseOptionalBookingTime(c.Query("dateFrom"))
	dateTo, errTo := types.ParseOptionalBookingTime(c.Query("dateTo"))
	window := availability.Window{From: dateFrom, To: dateTo}
	if errFrom != nil || errTo != nil || !window.Valid() {
		c.JSON(http.StatusOK, types.NewSuccessResponse(p.BuildResponse([]models.Space{}, 0)))
		return
	}

	spaces, err := h.spacesRepo.Search(filters)
	if err != nil {
		c.JSON(http.StatusInternalServerError, types.NewErrorResponse(types.ErrorCodeInternal, err.Error()))
		return
	}

	if window.Bounded() && len(spaces) > 0 {
		ids := make([]int, len(spaces))
		for i, s := range spaces {
			ids[i] = s.ID
		}
		intervals, err := h.bookingsRepo.ConfirmedIntervalsBySpaces(ids)
		if err != nil {
			c.JSON(http.StatusInternalServerError, types.NewErrorResponse(types.ErrorCodeInternal, err.Error()))
			return
		}
		free := spaces[:0]
		for _, s := range spaces {
			if availability.Free(window, intervals[s.ID]) {
				free = append(free, s)
			}
		}
		spaces = free
	}

	total := len(spaces)
	start := p.Offset
	if start > total {
		start = total
	}
	end := start + p.PageSize
	if end > total {
		end = total
	}
	c.JSON(http.StatusOK, types.NewSuccessResponse(p.BuildResponse(spaces[start:end], total)))
}

// ShortList returns id/name pairs of visible spaces for pickers.
func (h *SpacesHandler) ShortList(c *gin.Context) {
	spaces, err := h.spacesRepo.ShortList()
	if err != nil {
		c.JSON(http.StatusInternalServerError, types.NewErrorResponse(types.ErrorCodeInternal, err.Error()))
		return
	}
	c.JSON(http.StatusOK, types.NewSuccessResponse(spaces))
}

func (h *SpacesHandler) ListHidden(c *gin.Context) {
	p := types.ParsePagination(c)
	spaces, total, err := h.spacesRepo.ListHidden(p.Offset, p.PageSize)
	if err != nil {
		c.JSON(http.StatusInternalServerError, types.NewErrorResponse(types.ErrorCodeInternal, err.Error()))
		return
	}
	c.JSON(http.StatusOK, types.NewSuccessResponse(p.BuildResponse(spaces, total)))
}

func (h *SpacesHandler) Update(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, types.NewErrorResponse(types.ErrorCodeValidation, "Invalid space ID"))
		return
	}
	var req struct {
		Name        string `json:"name" binding:"required"`
		Description string `json:"description"`
		Capacity    int    `json:"capacity" binding:"required"`
		BuildingID  int    `json:"buildingId" binding:"required"`
		RoomNumber  string `json:"roomNumber"`
		ItemIDs     []int  `json:"itemIds"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, types.NewErrorResponse(types.ErrorCodeValidation, err.Error()))
		return
	}
	if err := h.spacesRepo.UpdateSpace(id, req.Name, req.Description, req.Capacity, req.BuildingID, req.RoomNumber, req.ItemIDs); err != nil {
		if err == models.ErrNotFound {
			c.JSON(http.StatusNotFound, types.NewErrorResponse(types.ErrorCodeNotFound, "Space not found"))
			return
		}
		c.JSON(http.StatusInternalServerError, types.NewErrorResponse(types.ErrorCodeInternal, err.Error()))
		return
	}
	space, err := h.spacesRepo.GetSpaceByID(id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, types.NewErrorResponse(types.ErrorCodeInternal, err.Error()))
		return
	}
	c.JSON(http.StatusOK, types.NewSuccessResponse(space))
}

func (h *SpacesHandler) Show(c *gin.Context) {
	h.setVisible(c, true)
}

func (h *SpacesHandler) Hide(c *gin.Context) {
	h.setVisible(c, false)
}

func (h *SpacesHandler) setVisible(c *gin.Context, visible bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, types.NewErrorResponse(types.ErrorCodeValidation, "Invalid space ID"))
		return
	}
	if err := h.spacesRepo.SetVisible(id, visible); err != nil {
		if err == models.ErrNotFound {
			c.JSON(http.StatusNotFound, types.NewErrorResponse(types.ErrorCodeNotFound, "Space not found"))
			return
		}
		c.JSON(http.StatusInternalServerError, types.NewErrorResponse(types.ErrorCodeInternal, err.Error()))
		return
	}
	c.JSON(http.StatusOK, types.NewSuccessResponse(gin.H{"id": id, "isVisible": visible}))
}

// WeeklyStats reports the last seven days: total bookings, new events and the
// most booked space. The window is computed from the injected clock at
// request time.
func (h *SpacesHandler) WeeklyStats(c *gin.Context) {
	now := h.clock.Now()
	since := now.Add(-7 * 24 * time.Hour)

	bookings, err := h.bookingsRepo.CountBookedBetween(since, now)
	if err != nil {
		c.JSON(http.StatusInternalServerError, types.NewErrorResponse(types.ErrorCodeInternal, err.Error()))
		return
	}
	events, err := h.eventsRepo.CountCreatedBetween(since, now)
	if err != nil {
		c.JSON(http.StatusInternalServerError, types.NewErrorResponse(types.ErrorCodeInternal, err.Error()))
		return
	}
	topSpace, topCount, err := h.spacesRepo.MostBookedBetween(since, now)
	if err != nil {
		c.JSON(http.StatusInternalServerError, types.NewErrorResponse(types.ErrorCodeInternal, err.Error()))
		return
	}

	stats := gin.H{
		"weekBookings": bookings,
		"weekEvents":   events,
	}
	if topSpace != nil {
		stats["topSpace"] = gin.H{"id": topSpace.ID, "name": topSpace.Name, "bookings": topCount}
	}
	c.JSON(http.StatusOK, types.NewSuccessResponse(stats))
}
