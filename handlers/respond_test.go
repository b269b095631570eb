package handlers

import (
	"net/http"
	"testing"
	"time"

	"workhub-project/backend/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusForKind(t *testing.T) {
	tests := []struct {
		kind errs.Kind
		want int
	}{
		{errs.KindBadRequest, http.StatusBadRequest},
		{errs.KindUnauthorized, http.StatusForbidden},
		{errs.KindNotFound, http.StatusNotFound},
		{errs.KindConflict, http.StatusConflict},
		{errs.KindInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, statusForKind(tt.kind))
	}
}

func TestParseObjectID(t *testing.T) {
	id, err := parseObjectID("64b64c9f2f8fb814b56fa181", "task id")
	require.NoError(t, err)
	assert.Equal(t, "64b64c9f2f8fb814b56fa181", id.Hex())

	_, err = parseObjectID("not-hex", "task id")
	require.Error(t, err)
	assert.Equal(t, errs.KindBadRequest, errs.KindOf(err))
	assert.Contains(t, err.Error(), "task id")
}

func TestParseTimeParam(t *testing.T) {
	t.Run("empty means unset", func(t *testing.T) {
		got, err := parseTimeParam("", false)
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("rfc3339 passes through", func(t *testing.T) {
		got, err := parseTimeParam("2025-06-01T08:30:00Z", true)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, time.Date(2025, 6, 1, 8, 30, 0, 0, time.UTC), got.UTC())
	})

	t.Run("bare date as range start", func(t *testing.T) {
		got, err := parseTimeParam("2025-06-01", false)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), got.UTC())
	})

	t.Run("bare date as range end covers the whole day", func(t *testing.T) {
		got, err := parseTimeParam("2025-06-01", true)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, time.Date(2025, 6, 1, 23, 59, 59, int(time.Second-time.Nanosecond), time.UTC), got.UTC())
	})

	t.Run("garbage is rejected", func(t *testing.T) {
		_, err := parseTimeParam("june first", false)
		require.Error(t, err)
		assert.Equal(t, errs.KindBadRequest, errs.KindOf(err))
	})
}
