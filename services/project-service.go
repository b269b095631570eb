package services

import (
	"context"
	"time"

	"workhub-project/backend/errs"
	"workhub-project/backend/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type ProjectService struct {
	ProjectsCollection *mongo.Collection
	TasksCollection    *mongo.Collection
}

func NewProjectService(projectsCollection, tasksCollection *mongo.Collection) *ProjectService {
	return &ProjectService{
		ProjectsCollection: projectsCollection,
		TasksCollection:    tasksCollection,
	}
}

// CreateProject creates a new project in the workspace. The expected end
// date, when given, must lie in the future.
func (s *ProjectService) CreateProject(ctx context.Context, workspaceID primitive.ObjectID, name, description, clientName string, expectedEndDate time.Time, createdBy primitive.ObjectID) (*models.Project, error) {
	if name == "" {
		return nil, errs.BadRequest("project name is required")
	}
	if !expectedEndDate.IsZero() && expectedEndDate.Before(time.Now()) {
		return nil, errs.BadRequest("expected end date must be in the future")
	}

	count, err := s.ProjectsCollection.CountDocuments(ctx, bson.M{"workspaceId": workspaceID, "name": name})
	if err != nil {
		return nil, errs.Internal("failed to check project name", err)
	}
	if count > 0 {
		return nil, errs.Conflict("a project with this name already exists in the workspace")
	}

	project := &models.Project{
		ID:              primitive.NewObjectID(),
		WorkspaceID:     workspaceID,
		Name:            name,
		Description:     description,
		ClientName:      clientName,
		Status:          models.ProjectActive,
		ExpectedEndDate: expectedEndDate,
		CreatedBy:       createdBy,
		CreatedAt:       time.Now(),
	}

	result, err := s.ProjectsCollection.InsertOne(ctx, project)
	if err != nil {
		return nil, errs.Internal("failed to create project", err)
	}
	project.ID = result.InsertedID.(primitive.ObjectID)
	return project, nil
}

func (s *ProjectService) GetProjectByID(ctx context.Context, projectID primitive.ObjectID) (*models.Project, error) {
	var project models.Project
	err := s.ProjectsCollection.FindOne(ctx, bson.M{"_id": projectID}).Decode(&project)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, errs.NotFound("project not found")
		}
		return nil, errs.Internal("failed to fetch project", err)
	}
	return &project, nil
}

func (s *ProjectService) ListProjectsByWorkspace(ctx context.Context, workspaceID primitive.ObjectID) ([]models.Project, error) {
	cursor, err := s.ProjectsCollection.Find(ctx, bson.M{"workspaceId": workspaceID})
	if err != nil {
		return nil, errs.Internal("failed to fetch projects", err)
	}
	defer cursor.Close(ctx)

	projects := []models.Project{}
	if err := cursor.All(ctx, &projects); err != nil {
		return nil, errs.Internal("failed to decode projects", err)
	}
	return projects, nil
}

// UpdateProject applies the changed fields. Name collisions within the
// workspace and past end dates are rejected the same way as on create.
func (s *ProjectService) UpdateProject(ctx context.Context, projectID primitive.ObjectID, name, description, clientName *string, status *models.ProjectStatus, expectedEndDate *time.Time) (*models.Project, error) {
	project, err := s.GetProjectByID(ctx, projectID)
	if err != nil {
		return nil, err
	}

	set := bson.M{}
	if name != nil && *name != project.Name {
		if *name == "" {
			return nil, errs.BadRequest("project name cannot be empty")
		}
		count, err := s.ProjectsCollection.CountDocuments(ctx, bson.M{"workspaceId": project.WorkspaceID, "name": *name})
		if err != nil {
			return nil, errs.Internal("failed to check project name", err)
		}
		if count > 0 {
			return nil, errs.Conflict("a project with this name already exists in the workspace")
		}
		set["name"] = *name
	}
	if description != nil {
		set["description"] = *description
	}
	if clientName != nil {
		set["clientName"] = *clientName
	}
	if status != nil {
		if *status != models.ProjectActive && *status != models.ProjectCompleted {
			return nil, errs.BadRequestf("invalid project status: %s", *status)
		}
		set["status"] = *status
	}
	if expectedEndDate != nil {
		if expectedEndDate.Before(time.Now()) {
			return nil, errs.BadRequest("expected end date must be in the future")
		}
		set["expectedEndDate"] = *expectedEndDate
	}

	if len(set) == 0 {
		return project, nil
	}

	if _, err := s.ProjectsCollection.UpdateOne(ctx, bson.M{"_id": projectID}, bson.M{"$set": set}); err != nil {
		return nil, errs.Internal("failed to update project", err)
	}
	return s.GetProjectByID(ctx, projectID)
}

// DeleteProject removes the project and its tasks. A project with unfinished
// tasks cannot be deleted.
func (s *ProjectService) DeleteProject(ctx context.Context, projectID primitive.ObjectID) error {
	if _, err := s.GetProjectByID(ctx, projectID); err != nil {
		return err
	}

	unfinished, err := s.TasksCollection.CountDocuments(ctx, bson.M{
		"projectId": projectID,
		"status":    bson.M{"$ne": models.StatusDone},
	})
	if err != nil {
		return errs.Internal("failed to check project tasks", err)
	}
	if unfinished > 0 {
		return errs.Conflict("project has unfinished tasks")
	}

	if _, err := s.TasksCollection.DeleteMany(ctx, bson.M{"projectId": projectID}); err != nil {
		return errs.Internal("failed to delete project tasks", err)
	}
	if _, err := s.ProjectsCollection.DeleteOne(ctx, bson.M{"_id": projectID}); err != nil {
		return errs.Internal("failed to delete project", err)
	}
	return nil
}
