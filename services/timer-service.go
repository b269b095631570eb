package services

import (
	"context"
	"time"

	"workhub-project/backend/errs"
	"workhub-project/backend/logging"
	"workhub-project/backend/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// TimerService owns the task timer state machine and the append-only
// work-log ledger. Durations accumulate in seconds on the task; the minutes
// figure is always derived from seconds, never accumulated independently.
type TimerService struct {
	TasksCollection    *mongo.Collection
	WorkLogsCollection *mongo.Collection
	Roles              *RoleService
	Notifier           *Notifier
}

func NewTimerService(tasksCollection, workLogsCollection *mongo.Collection, roles *RoleService, notifier *Notifier) *TimerService {
	return &TimerService{
		TasksCollection:    tasksCollection,
		WorkLogsCollection: workLogsCollection,
		Roles:              roles,
		Notifier:           notifier,
	}
}

// elapsedWholeSeconds floors the elapsed time to whole seconds, clamped to a
// minimum of 1 so a near-instant start/stop pair still accounts for work.
func elapsedWholeSeconds(start, now time.Time) int64 {
	secs := int64(now.Sub(start) / time.Second)
	if secs < 1 {
		return 1
	}
	return secs
}

// logMinutes converts an elapsed-seconds figure to the work-log duration:
// floored to whole minutes, minimum 1.
func logMinutes(elapsedSeconds int64) int64 {
	mins := elapsedSeconds / 60
	if mins < 1 {
		return 1
	}
	return mins
}

// derivedMinutes is the task-level minutes figure: floor(totalSeconds/60),
// no minimum.
func derivedMinutes(totalSeconds int64) int64 {
	return totalSeconds / 60
}

// timerStateFilter matches the task only while its timer is in the expected
// state. Transitions update through it so two concurrent starts (or stops)
// race on the document write, not on the earlier read.
func timerStateFilter(taskID primitive.ObjectID, running bool) bson.M {
	return bson.M{"_id": taskID, "isRunning": running}
}

// StopOptions carries the optional fields a caller may attach to a stop.
type StopOptions struct {
	PagesCompleted *int64
	Remarks        *string
}

// checkTimerAccess allows owners/admins and the task's assignee to operate
// the timer.
func (s *TimerService) checkTimerAccess(ctx context.Context, task *models.Task, actor primitive.ObjectID) error {
	role, err := s.Roles.ResolveRole(ctx, actor, task.WorkspaceID)
	if err != nil {
		return err
	}
	if role.IsPrivileged() {
		return nil
	}
	if task.AssigneeID != nil && *task.AssigneeID == actor {
		return nil
	}
	return errs.Unauthorized("only the assignee or a workspace admin can operate this timer")
}

// StartTimer transitions the task timer from idle to running. The first-ever
// start also records the task's first-start timestamp.
func (s *TimerService) StartTimer(ctx context.Context, taskID, actor primitive.ObjectID) (*models.Task, error) {
	task, err := s.getTask(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if err := s.checkTimerAccess(ctx, task, actor); err != nil {
		return nil, err
	}
	if task.IsRunning {
		return nil, errs.Conflict("task timer is already running")
	}

	now := time.Now()
	set := bson.M{
		"isRunning":     true,
		"activeStartAt": now,
	}
	if task.FirstStartedAt == nil {
		set["firstStartedAt"] = now
	}

	res, err := s.TasksCollection.UpdateOne(ctx, timerStateFilter(taskID, false), bson.M{"$set": set})
	if err != nil {
		return nil, errs.Internal("failed to start timer", err)
	}
	if res.MatchedCount == 0 {
		return nil, errs.Conflict("task timer is already running")
	}

	return s.getTask(ctx, taskID)
}

// StopTimer transitions the task timer from running to idle, appends the
// work-log entry and folds the elapsed time into the task's totals.
func (s *TimerService) StopTimer(ctx context.Context, taskID, actor primitive.ObjectID, opts StopOptions) (*models.Task, error) {
	task, err := s.getTask(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if err := s.checkTimerAccess(ctx, task, actor); err != nil {
		return nil, err
	}

	if _, err := s.stopAndLog(ctx, task, actor, opts); err != nil {
		return nil, err
	}
	return s.getTask(ctx, taskID)
}

// stopAndLog performs the stop accounting for one task, attributing the
// work-log entry to logUser. Shared by StopTimer and StopAllTimers.
func (s *TimerService) stopAndLog(ctx context.Context, task *models.Task, logUser primitive.ObjectID, opts StopOptions) (*models.WorkLog, error) {
	if !task.IsRunning {
		return nil, errs.Conflict("task timer is not running")
	}
	if task.ActiveStartAt == nil {
		return nil, errs.Internal("task is marked running without a start timestamp", nil)
	}

	now := time.Now()
	elapsed := elapsedWholeSeconds(*task.ActiveStartAt, now)
	totalSeconds := task.TotalSecondsSpent + elapsed

	workLog := &models.WorkLog{
		ID:              primitive.NewObjectID(),
		WorkspaceID:     task.WorkspaceID,
		TaskID:          task.ID,
		UserID:          logUser,
		StartedAt:       *task.ActiveStartAt,
		StoppedAt:       now,
		DurationMinutes: logMinutes(elapsed),
	}
	if opts.PagesCompleted != nil {
		workLog.PagesCompleted = *opts.PagesCompleted
	}
	if opts.Remarks != nil {
		workLog.Remarks = *opts.Remarks
	}

	if _, err := s.WorkLogsCollection.InsertOne(ctx, workLog); err != nil {
		return nil, errs.Internal("failed to append work log", err)
	}

	set := bson.M{
		"isRunning":         false,
		"lastStoppedAt":     now,
		"totalSecondsSpent": totalSeconds,
		"totalMinutesSpent": derivedMinutes(totalSeconds),
	}
	if opts.Remarks != nil {
		set["remarks"] = *opts.Remarks
	}
	update := bson.M{
		"$set":   set,
		"$unset": bson.M{"activeStartAt": ""},
	}
	if opts.PagesCompleted != nil && *opts.PagesCompleted != 0 {
		update["$inc"] = bson.M{"pagesCompleted": *opts.PagesCompleted}
	}

	res, err := s.TasksCollection.UpdateOne(ctx, timerStateFilter(task.ID, true), update)
	if err != nil {
		return nil, errs.Internal("failed to update task totals", err)
	}
	if res.MatchedCount == 0 {
		// Lost the race to a concurrent stop; withdraw the ledger entry.
		if _, derr := s.WorkLogsCollection.DeleteOne(ctx, bson.M{"_id": workLog.ID}); derr != nil {
			logging.Logger.Warnf("Event ID: WORK_LOG_ORPHANED, Description: Failed to remove work log %s after a lost stop race: %v", workLog.ID.Hex(), derr)
		}
		return nil, errs.Conflict("task timer is not running")
	}

	return workLog, nil
}

// StopAllResult reports the outcome of a bulk stop. Failed stops are
// reported individually rather than silently dropped from the count.
type StopAllResult struct {
	StoppedCount int      `json:"stoppedCount"`
	FailedTasks  []string `json:"failedTasks,omitempty"`
}

// StopAllTimers stops every running timer in the workspace on behalf of the
// tasks' workers: each work-log is attributed to the task's assignee,
// falling back to the task's creator, then to the invoking admin. Stops are
// independent; one task's failure does not roll back the others.
func (s *TimerService) StopAllTimers(ctx context.Context, workspaceID, actor primitive.ObjectID) (*StopAllResult, error) {
	if _, err := s.Roles.Authorize(ctx, actor, workspaceID, models.PermManageWorkspace); err != nil {
		return nil, err
	}

	cursor, err := s.TasksCollection.Find(ctx, bson.M{"workspaceId": workspaceID, "isRunning": true})
	if err != nil {
		return nil, errs.Internal("failed to fetch running tasks", err)
	}
	defer cursor.Close(ctx)

	var running []models.Task
	if err := cursor.All(ctx, &running); err != nil {
		return nil, errs.Internal("failed to decode running tasks", err)
	}

	result := &StopAllResult{}
	for i := range running {
		task := &running[i]
		logUser := attributedUser(task, actor)

		if _, err := s.stopAndLog(ctx, task, logUser, StopOptions{}); err != nil {
			logging.Logger.Warnf("Event ID: STOP_ALL_TASK_FAILED, Description: Failed to stop timer for task %s: %v", task.ID.Hex(), err)
			result.FailedTasks = append(result.FailedTasks, task.ID.Hex())
			continue
		}
		result.StoppedCount++

		s.Notifier.Notify("timer.force-stopped", map[string]any{
			"workspaceId": workspaceID.Hex(),
			"taskId":      task.ID.Hex(),
			"userId":      logUser.Hex(),
			"stoppedBy":   actor.Hex(),
		})
	}

	return result, nil
}

// attributedUser picks who the bulk stop's work-log belongs to: the stop is
// performed on the worker's behalf, not reassigned to the admin.
func attributedUser(task *models.Task, actor primitive.ObjectID) primitive.ObjectID {
	if task.AssigneeID != nil {
		return *task.AssigneeID
	}
	if !task.CreatedBy.IsZero() {
		return task.CreatedBy
	}
	return actor
}

func (s *TimerService) getTask(ctx context.Context, taskID primitive.ObjectID) (*models.Task, error) {
	var task models.Task
	err := s.TasksCollection.FindOne(ctx, bson.M{"_id": taskID}).Decode(&task)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, errs.NotFound("task not found")
		}
		return nil, errs.Internal("failed to fetch task", err)
	}
	return &task, nil
}
