package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type TaskStatus string

const (
	StatusBacklog    TaskStatus = "BACKLOG"
	StatusTodo       TaskStatus = "TODO"
	StatusInProgress TaskStatus = "IN_PROGRESS"
	StatusInReview   TaskStatus = "IN_REVIEW"
	StatusDone       TaskStatus = "DONE"
)

func ValidTaskStatus(s TaskStatus) bool {
	switch s {
	case StatusBacklog, StatusTodo, StatusInProgress, StatusInReview, StatusDone:
		return true
	}
	return false
}

type TaskPriority string

const (
	PriorityLow    TaskPriority = "LOW"
	PriorityMedium TaskPriority = "MEDIUM"
	PriorityHigh   TaskPriority = "HIGH"
	PriorityUrgent TaskPriority = "URGENT"
)

func ValidTaskPriority(p TaskPriority) bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

type TaskType string

const (
	TypeFeature  TaskType = "FEATURE"
	TypeBug      TaskType = "BUG"
	TypeChore    TaskType = "CHORE"
	TypeResearch TaskType = "RESEARCH"
)

func ValidTaskType(t TaskType) bool {
	switch t {
	case TypeFeature, TypeBug, TypeChore, TypeResearch:
		return true
	}
	return false
}

// Task carries the board fields plus the work-timer accounting fields.
// Timer invariant: IsRunning is true exactly when ActiveStartAt is set.
// TotalMinutesSpent is always derived from TotalSecondsSpent, never
// accumulated on its own.
type Task struct {
	ID          primitive.ObjectID  `json:"id" bson:"_id,omitempty"`
	WorkspaceID primitive.ObjectID  `json:"workspaceId" bson:"workspaceId"`
	ProjectID   primitive.ObjectID  `json:"projectId" bson:"projectId"`
	Title       string              `json:"title" bson:"title"`
	Description string              `json:"description" bson:"description"`
	Type        TaskType            `json:"type" bson:"type"`
	Status      TaskStatus          `json:"status" bson:"status"`
	Priority    TaskPriority        `json:"priority" bson:"priority"`
	AssigneeID  *primitive.ObjectID `json:"assigneeId,omitempty" bson:"assigneeId,omitempty"`
	DependsOn   *primitive.ObjectID `json:"dependsOn,omitempty" bson:"dependsOn,omitempty"`
	DueDate     *time.Time          `json:"dueDate,omitempty" bson:"dueDate,omitempty"`
	CreatedBy   primitive.ObjectID  `json:"createdBy" bson:"createdBy"`
	CreatedAt   time.Time           `json:"createdAt" bson:"createdAt"`

	IsRunning         bool       `json:"isRunning" bson:"isRunning"`
	FirstStartedAt    *time.Time `json:"firstStartedAt,omitempty" bson:"firstStartedAt,omitempty"`
	ActiveStartAt     *time.Time `json:"activeStartAt,omitempty" bson:"activeStartAt,omitempty"`
	LastStoppedAt     *time.Time `json:"lastStoppedAt,omitempty" bson:"lastStoppedAt,omitempty"`
	TotalSecondsSpent int64      `json:"totalSecondsSpent" bson:"totalSecondsSpent"`
	TotalMinutesSpent int64      `json:"totalMinutesSpent" bson:"totalMinutesSpent"`
	PagesCompleted    int64      `json:"pagesCompleted" bson:"pagesCompleted"`
	Remarks           string     `json:"remarks" bson:"remarks"`
}
