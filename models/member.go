package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Member ties a user to a workspace with a role. One membership per
// (workspace, user) pair, enforced by a unique index.
type Member struct {
	ID          primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	WorkspaceID primitive.ObjectID `json:"workspaceId" bson:"workspaceId"`
	UserID      primitive.ObjectID `json:"userId" bson:"userId"`
	Username    string             `json:"username" bson:"username"`
	RoleName    string             `json:"roleName" bson:"roleName"`
	JoinedAt    time.Time          `json:"joinedAt" bson:"joinedAt"`
}
