package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Workspace struct {
	ID          primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Name        string             `json:"name" bson:"name"`
	Description string             `json:"description" bson:"description"`
	OwnerID     primitive.ObjectID `json:"ownerId" bson:"ownerId"`
	InviteCode  string             `json:"inviteCode" bson:"inviteCode"`
	CreatedAt   time.Time          `json:"createdAt" bson:"createdAt"`
}
