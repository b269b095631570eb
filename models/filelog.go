package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type FileAction string

const (
	FileActionEnter        FileAction = "ENTER"
	FileActionDownload     FileAction = "DOWNLOAD"
	FileActionUpload       FileAction = "UPLOAD"
	FileActionCreateFolder FileAction = "CREATE_FOLDER"
	FileActionDeleteFile   FileAction = "DELETE_FILE"
	FileActionDeleteFolder FileAction = "DELETE_FOLDER"
)

// FileAccessLog is an immutable audit record of one file-library operation.
type FileAccessLog struct {
	ID          primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	WorkspaceID primitive.ObjectID `json:"workspaceId" bson:"workspaceId"`
	UserID      primitive.ObjectID `json:"userId" bson:"userId"`
	Action      FileAction         `json:"action" bson:"action"`
	Path        string             `json:"path" bson:"path"`
	FileName    string             `json:"fileName,omitempty" bson:"fileName,omitempty"`
	FileSize    int64              `json:"fileSize,omitempty" bson:"fileSize,omitempty"`
	CreatedAt   time.Time          `json:"createdAt" bson:"createdAt"`
}
