package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ProjectStatus string

const (
	ProjectActive    ProjectStatus = "ACTIVE"
	ProjectCompleted ProjectStatus = "COMPLETED"
)

type Project struct {
	ID              primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	WorkspaceID     primitive.ObjectID `json:"workspaceId" bson:"workspaceId"`
	Name            string             `json:"name" bson:"name"`
	Description     string             `json:"description" bson:"description"`
	ClientName      string             `json:"clientName" bson:"clientName"`
	Status          ProjectStatus      `json:"status" bson:"status"`
	ExpectedEndDate time.Time          `json:"expectedEndDate" bson:"expectedEndDate"`
	CreatedBy       primitive.ObjectID `json:"createdBy" bson:"createdBy"`
	CreatedAt       time.Time          `json:"createdAt" bson:"createdAt"`
}
