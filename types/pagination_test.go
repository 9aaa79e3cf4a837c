package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewPagination_Defaults(t *testing.T) {
	p := NewPagination(0, 0)
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, defaultPageSize, p.PageSize)
	assert.Equal(t, 0, p.Offset)
}

func TestNewPagination_Caps(t *testing.T) {
	p := NewPagination(3, 500)
	assert.Equal(t, maxPageSize, p.PageSize)
	assert.Equal(t, 2*maxPageSize, p.Offset)
}

func TestBuildResponse_TotalPages(t *testing.T) {
	p := NewPagination(1, 20)
	resp := p.BuildResponse([]int{1, 2, 3}, 41)
	assert.Equal(t, 41, resp.Meta.Total)
	assert.Equal(t, 3, resp.Meta.TotalPages)
	assert.Equal(t, 1, resp.Meta.Page)
}

func TestParseBookingTime(t *testing.T) {
	ts, err := ParseBookingTime("2025-01-01 10:00")
	assert.NoError(t, err)
	assert.Equal(t, 2025, ts.Year())
	assert.Equal(t, 10, ts.Hour())

	_, err = ParseBookingTime("01.01.2025 10:00")
	assert.Error(t, err)
}

func TestParseOptionalBookingTime(t *testing.T) {
	ts, err := ParseOptionalBookingTime("")
	assert.NoError(t, err)
	assert.Nil(t, ts)

	ts, err = ParseOptionalBookingTime("2025-01-01 10:00")
	assert.NoError(t, err)
	assert.NotNil(t, ts)
}
