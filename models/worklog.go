package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// WorkLog is an immutable record of one timer stop event. Records are only
// ever inserted; there is no update or delete path anywhere in the service.
type WorkLog struct {
	ID              primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	WorkspaceID     primitive.ObjectID `json:"workspaceId" bson:"workspaceId"`
	TaskID          primitive.ObjectID `json:"taskId" bson:"taskId"`
	UserID          primitive.ObjectID `json:"userId" bson:"userId"`
	StartedAt       time.Time          `json:"startedAt" bson:"startedAt"`
	StoppedAt       time.Time          `json:"stoppedAt" bson:"stoppedAt"`
	DurationMinutes int64              `json:"durationMinutes" bson:"durationMinutes"`
	PagesCompleted  int64              `json:"pagesCompleted" bson:"pagesCompleted"`
	Remarks         string             `json:"remarks" bson:"remarks"`
}
