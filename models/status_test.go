package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatus_Blocks(t *testing.T) {
	assert.True(t, StatusConfirmed.Blocks())
	assert.False(t, StatusNew.Blocks())
	assert.False(t, StatusCanceledBeforeConfirm.Blocks())
	assert.False(t, StatusCanceledAfterConfirm.Blocks())
}

func TestStatus_CanConfirm(t *testing.T) {
	assert.True(t, StatusNew.CanConfirm())
	assert.False(t, StatusConfirmed.CanConfirm())
	assert.False(t, StatusCanceledBeforeConfirm.CanConfirm())
	assert.False(t, StatusCanceledAfterConfirm.CanConfirm())
}

func TestStatus_CancelTarget(t *testing.T) {
	target, err := StatusNew.CancelTarget()
	require.NoError(t, err)
	assert.Equal(t, StatusCanceledBeforeConfirm, target)

	target, err = StatusConfirmed.CancelTarget()
	require.NoError(t, err)
	assert.Equal(t, StatusCanceledAfterConfirm, target)

	_, err = StatusCanceledBeforeConfirm.CancelTarget()
	require.Error(t, err)
	_, err = StatusCanceledAfterConfirm.CancelTarget()
	require.Error(t, err)
}

func TestStatus_Terminal(t *testing.T) {
	assert.False(t, StatusNew.Terminal())
	assert.False(t, StatusConfirmed.Terminal())
	assert.True(t, StatusCanceledBeforeConfirm.Terminal())
	assert.True(t, StatusCanceledAfterConfirm.Terminal())
}
