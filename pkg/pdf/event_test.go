package pdf

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veselovese/bronitech/models"
)

func TestEventSummary(t *testing.T) {
	spaceID := 7
	event := &models.Event{
		ID:          42,
		Name:        "Go Meetup",
		Description: "Monthly community meetup.",
		Date:        time.Date(2025, 3, 14, 18, 30, 0, 0, time.UTC),
		SpaceID:     &spaceID,
		Space: &models.Space{
			ID:   spaceID,
			Name: "Hall A",
			Building: &models.Building{
				City: "Berlin", Street: "Hauptstrasse", House: "12",
			},
		},
		Organizer: &models.Organizer{ID: 3, Name: "Go Berlin"},
		Items:     []models.Item{{Name: "projector"}, {Name: "coffee"}},
	}

	data, err := EventSummary(event, "https://example.org")
	require.NoError(t, err)
	assert.True(t, len(data) > 1000)
	assert.Equal(t, "%PDF", string(data[:4]))
}

func TestEventSummary_MinimalEvent(t *testing.T) {
	event := &models.Event{
		ID:   1,
		Name: "Bare event",
		Date: time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC),
	}
	data, err := EventSummary(event, "http://localhost:8080")
	require.NoError(t, err)
	assert.Equal(t, "%PDF", string(data[:4]))
}
