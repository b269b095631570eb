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

type TaskService struct {
	TasksCollection    *mongo.Collection
	ProjectsCollection *mongo.Collection
	MembersCollection  *mongo.Collection
	Notifier           *Notifier
}

func NewTaskService(tasksCollection, projectsCollection, membersCollection *mongo.Collection, notifier *Notifier) *TaskService {
	return &TaskService{
		TasksCollection:    tasksCollection,
		ProjectsCollection: projectsCollection,
		MembersCollection:  membersCollection,
		Notifier:           notifier,
	}
}

// CreateTaskInput carries the caller-supplied task fields.
type CreateTaskInput struct {
	ProjectID   primitive.ObjectID
	Title       string
	Description string
	Type        models.TaskType
	Status      models.TaskStatus
	Priority    models.TaskPriority
	AssigneeID  *primitive.ObjectID
	DependsOn   *primitive.ObjectID
	DueDate     *time.Time
}

// CreateTask validates the enums and cross-references, then inserts the task
// into the project's workspace.
func (s *TaskService) CreateTask(ctx context.Context, in CreateTaskInput, createdBy primitive.ObjectID) (*models.Task, error) {
	if in.Title == "" {
		return nil, errs.BadRequest("task title is required")
	}

	var project models.Project
	if err := s.ProjectsCollection.FindOne(ctx, bson.M{"_id": in.ProjectID}).Decode(&project); err != nil {
		return nil, errs.NotFound("project not found")
	}

	if in.Type == "" {
		in.Type = models.TypeFeature
	}
	if !models.ValidTaskType(in.Type) {
		return nil, errs.BadRequestf("invalid task type: %s", in.Type)
	}
	if in.Status == "" {
		in.Status = models.StatusBacklog
	}
	if !models.ValidTaskStatus(in.Status) {
		return nil, errs.BadRequestf("invalid task status: %s", in.Status)
	}
	if in.Priority == "" {
		in.Priority = models.PriorityMedium
	}
	if !models.ValidTaskPriority(in.Priority) {
		return nil, errs.BadRequestf("invalid task priority: %s", in.Priority)
	}

	if in.AssigneeID != nil {
		count, err := s.MembersCollection.CountDocuments(ctx, bson.M{"workspaceId": project.WorkspaceID, "userId": *in.AssigneeID})
		if err != nil {
			return nil, errs.Internal("failed to check assignee membership", err)
		}
		if count == 0 {
			return nil, errs.BadRequest("assignee is not a member of the workspace")
		}
	}

	if in.DependsOn != nil {
		var dep models.Task
		if err := s.TasksCollection.FindOne(ctx, bson.M{"_id": *in.DependsOn}).Decode(&dep); err != nil {
			return nil, errs.NotFound("dependency task not found")
		}
		if dep.WorkspaceID != project.WorkspaceID {
			return nil, errs.BadRequest("dependency task belongs to another workspace")
		}
	}

	task := &models.Task{
		ID:          primitive.NewObjectID(),
		WorkspaceID: project.WorkspaceID,
		ProjectID:   in.ProjectID,
		Title:       in.Title,
		Description: in.Description,
		Type:        in.Type,
		Status:      in.Status,
		Priority:    in.Priority,
		AssigneeID:  in.AssigneeID,
		DependsOn:   in.DependsOn,
		DueDate:     in.DueDate,
		CreatedBy:   createdBy,
		CreatedAt:   time.Now(),
	}

	result, err := s.TasksCollection.InsertOne(ctx, task)
	if err != nil {
		return nil, errs.Internal("failed to create task", err)
	}
	task.ID = result.InsertedID.(primitive.ObjectID)

	if task.AssigneeID != nil {
		s.Notifier.Notify("task.assigned", map[string]any{
			"workspaceId": task.WorkspaceID.Hex(),
			"taskId":      task.ID.Hex(),
			"assigneeId":  task.AssigneeID.Hex(),
			"title":       task.Title,
		})
	}

	return task, nil
}

func (s *TaskService) GetTaskByID(ctx context.Context, taskID primitive.ObjectID) (*models.Task, error) {
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

func (s *TaskService) ListTasksByProject(ctx context.Context, projectID primitive.ObjectID) ([]models.Task, error) {
	cursor, err := s.TasksCollection.Find(ctx, bson.M{"projectId": projectID})
	if err != nil {
		return nil, errs.Internal("failed to fetch tasks", err)
	}
	defer cursor.Close(ctx)

	tasks := []models.Task{}
	if err := cursor.All(ctx, &tasks); err != nil {
		return nil, errs.Internal("failed to decode tasks", err)
	}
	return tasks, nil
}

// UpdateTaskInput carries optional field updates; nil means unchanged.
type UpdateTaskInput struct {
	Title       *string
	Description *string
	Type        *models.TaskType
	Status      *models.TaskStatus
	Priority    *models.TaskPriority
	AssigneeID  *primitive.ObjectID
	Unassign    bool
	DueDate     *time.Time
}

// UpdateTask applies field updates with the board rules: a task whose
// dependency is not DONE cannot move to IN_PROGRESS, and a task with a
// running timer cannot be marked DONE.
func (s *TaskService) UpdateTask(ctx context.Context, taskID primitive.ObjectID, in UpdateTaskInput) (*models.Task, error) {
	task, err := s.GetTaskByID(ctx, taskID)
	if err != nil {
		return nil, err
	}

	set := bson.M{}
	unset := bson.M{}

	if in.Title != nil {
		if *in.Title == "" {
			return nil, errs.BadRequest("task title cannot be empty")
		}
		set["title"] = *in.Title
	}
	if in.Description != nil {
		set["description"] = *in.Description
	}
	if in.Type != nil {
		if !models.ValidTaskType(*in.Type) {
			return nil, errs.BadRequestf("invalid task type: %s", *in.Type)
		}
		set["type"] = *in.Type
	}
	if in.Priority != nil {
		if !models.ValidTaskPriority(*in.Priority) {
			return nil, errs.BadRequestf("invalid task priority: %s", *in.Priority)
		}
		set["priority"] = *in.Priority
	}
	if in.DueDate != nil {
		set["dueDate"] = *in.DueDate
	}

	if in.Status != nil && *in.Status != task.Status {
		if !models.ValidTaskStatus(*in.Status) {
			return nil, errs.BadRequestf("invalid task status: %s", *in.Status)
		}
		if *in.Status == models.StatusInProgress && task.DependsOn != nil {
			var dep models.Task
			if err := s.TasksCollection.FindOne(ctx, bson.M{"_id": *task.DependsOn}).Decode(&dep); err != nil {
				return nil, errs.NotFound("dependency task not found")
			}
			if dep.Status != models.StatusDone {
				return nil, errs.Conflict("cannot start task due to unfinished dependency")
			}
		}
		if *in.Status == models.StatusDone && task.IsRunning {
			return nil, errs.Conflict("stop the task timer before marking it done")
		}
		set["status"] = *in.Status
	}

	if in.Unassign {
		unset["assigneeId"] = ""
	} else if in.AssigneeID != nil {
		count, err := s.MembersCollection.CountDocuments(ctx, bson.M{"workspaceId": task.WorkspaceID, "userId": *in.AssigneeID})
		if err != nil {
			return nil, errs.Internal("failed to check assignee membership", err)
		}
		if count == 0 {
			return nil, errs.BadRequest("assignee is not a member of the workspace")
		}
		set["assigneeId"] = *in.AssigneeID
	}

	if len(set) == 0 && len(unset) == 0 {
		return task, nil
	}

	update := bson.M{}
	if len(set) > 0 {
		update["$set"] = set
	}
	if len(unset) > 0 {
		update["$unset"] = unset
	}

	if _, err := s.TasksCollection.UpdateOne(ctx, bson.M{"_id": taskID}, update); err != nil {
		return nil, errs.Internal("failed to update task", err)
	}

	updated, err := s.GetTaskByID(ctx, taskID)
	if err != nil {
		return nil, err
	}

	if in.AssigneeID != nil && !in.Unassign {
		s.Notifier.Notify("task.assigned", map[string]any{
			"workspaceId": updated.WorkspaceID.Hex(),
			"taskId":      updated.ID.Hex(),
			"assigneeId":  in.AssigneeID.Hex(),
			"title":       updated.Title,
		})
	}

	return updated, nil
}

// DeleteTask removes the task permanently. There is no soft delete.
func (s *TaskService) DeleteTask(ctx context.Context, taskID primitive.ObjectID) error {
	result, err := s.TasksCollection.DeleteOne(ctx, bson.M{"_id": taskID})
	if err != nil {
		return errs.Internal("failed to delete task", err)
	}
	if result.DeletedCount == 0 {
		return errs.NotFound("task not found")
	}
	return nil
}
