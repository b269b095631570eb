package services

import (
	"context"
	"testing"
	"time"

	"workhub-project/backend/errs"
	"workhub-project/backend/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestElapsedWholeSeconds(t *testing.T) {
	base := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		now  time.Time
		want int64
	}{
		{"ninety seconds", base.Add(90 * time.Second), 90},
		{"sub-second stop clamps to one", base.Add(200 * time.Millisecond), 1},
		{"fraction floors", base.Add(90*time.Second + 900*time.Millisecond), 90},
		{"exactly one second", base.Add(1 * time.Second), 1},
		{"one hour", base.Add(1 * time.Hour), 3600},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, elapsedWholeSeconds(base, tt.now))
		})
	}
}

func TestLogMinutes(t *testing.T) {
	tests := []struct {
		name    string
		seconds int64
		want    int64
	}{
		{"ninety seconds is one minute", 90, 1},
		{"under a minute clamps to one", 59, 1},
		{"one second clamps to one", 1, 1},
		{"two minutes exact", 120, 2},
		{"floors not rounds", 179, 2},
		{"ten minutes", 600, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, logMinutes(tt.seconds))
		})
	}
}

func TestDerivedMinutesHasNoMinimum(t *testing.T) {
	// The task-level figure is pure floor(seconds/60): only the work-log
	// duration carries the one-minute minimum.
	assert.Equal(t, int64(0), derivedMinutes(30))
	assert.Equal(t, int64(1), derivedMinutes(90))
	assert.Equal(t, int64(2), derivedMinutes(179))
}

func TestMinutesAlwaysDerivedFromSeconds(t *testing.T) {
	// Accumulating 90s three times must give floor(270/60)=4, not 3x the
	// per-stop rounded figure.
	var totalSeconds int64
	for i := 0; i < 3; i++ {
		totalSeconds += 90
	}
	assert.Equal(t, int64(4), derivedMinutes(totalSeconds))
	assert.Equal(t, int64(1), logMinutes(90))
}

func TestAttributedUser(t *testing.T) {
	assignee := primitive.NewObjectID()
	creator := primitive.NewObjectID()
	actor := primitive.NewObjectID()

	t.Run("assignee wins", func(t *testing.T) {
		task := &models.Task{AssigneeID: &assignee, CreatedBy: creator}
		assert.Equal(t, assignee, attributedUser(task, actor))
	})

	t.Run("falls back to creator", func(t *testing.T) {
		task := &models.Task{CreatedBy: creator}
		assert.Equal(t, creator, attributedUser(task, actor))
	})

	t.Run("falls back to invoking actor", func(t *testing.T) {
		task := &models.Task{}
		assert.Equal(t, actor, attributedUser(task, actor))
	})
}

func TestTimerStateFilterGatesOnRunningFlag(t *testing.T) {
	taskID := primitive.NewObjectID()

	// Start must only match an idle timer and stop only a running one, so a
	// concurrent duplicate transition matches zero documents.
	assert.Equal(t, bson.M{"_id": taskID, "isRunning": false}, timerStateFilter(taskID, false))
	assert.Equal(t, bson.M{"_id": taskID, "isRunning": true}, timerStateFilter(taskID, true))
}

func TestStopAndLogRejectsIdleTimer(t *testing.T) {
	s := &TimerService{}
	task := &models.Task{ID: primitive.NewObjectID(), IsRunning: false}

	_, err := s.stopAndLog(context.Background(), task, primitive.NewObjectID(), StopOptions{})
	require.Error(t, err)
	assert.Equal(t, errs.KindConflict, errs.KindOf(err))
}

func TestStopAndLogRejectsRunningWithoutStart(t *testing.T) {
	// A running task without a start timestamp is a data-consistency
	// violation, not a state-machine conflict.
	s := &TimerService{}
	task := &models.Task{ID: primitive.NewObjectID(), IsRunning: true}

	_, err := s.stopAndLog(context.Background(), task, primitive.NewObjectID(), StopOptions{})
	require.Error(t, err)
	assert.Equal(t, errs.KindInternal, errs.KindOf(err))
}
