package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/veselovese/bronitech/repository"
	"github.com/veselovese/bronitech/types"
)

type FavoritesHandler struct {
	favoritesRepo *repository.FavoritesRepository
	spacesRepo    *repository.SpacesRepository
	eventsRepo    *repository.EventsRepository
}

func NewFavoritesHandler(favoritesRepo *repository.FavoritesRepository, spacesRepo *repository.SpacesRepository, eventsRepo *repository.EventsRepository) *FavoritesHandler {
	return &FavoritesHandler{favoritesRepo: favoritesRepo, spacesRepo: spacesRepo, eventsRepo: eventsRepo}
}

// ToggleSpace adds or removes the space from the caller's favorites and
// reports the resulting state.
func (h *FavoritesHandler) ToggleSpace(c *gin.Context) {
	spaceID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, types.NewErrorResponse(types.ErrorCodeValidation, "Invalid space ID"))
		return
	}
	space, err := h.spacesRepo.GetSpaceByID(spaceID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, types.NewErrorResponse(types.ErrorCodeInternal, err.Error()))
		return
	}
	if space == nil {
		c.JSON(http.StatusNotFound, types.NewErrorResponse(types.ErrorCodeNotFound, "Space not found"))
		return
	}

	added, err := h.favoritesRepo.ToggleSpace(c.GetInt("userId"), spaceID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, types.NewErrorResponse(types.ErrorCodeInternal, err.Error()))
		return
	}
	c.JSON(http.StatusOK, types.NewSuccessResponse(gin.H{"spaceId": spaceID, "favorited": added}))
}

func (h *FavoritesHandler) ToggleEvent(c *gin.Context) {
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
	if event == nil {
		c.JSON(http.StatusNotFound, types.NewErrorResponse(types.ErrorCodeNotFound, "Event not found"))
		return
	}

	added, err := h.favoritesRepo.ToggleEvent(c.GetInt("userId"), eventID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, types.NewErrorResponse(types.ErrorCodeInternal, err.Error()))
		return
	}
	c.JSON(http.StatusOK, types.NewSuccessResponse(gin.H{"eventId": eventID, "favorited": added}))
}

func (h *FavoritesHandler) ListMine(c *gin.Context) {
	favorites, err := h.favoritesRepo.ListByUser(c.GetInt("userId"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, types.NewErrorResponse(types.ErrorCodeInternal, err.Error()))
		return
	}
	c.JSON(http.StatusOK, types.NewSuccessResponse(favorites))
}
