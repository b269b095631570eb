package services

import (
	"testing"
	"time"

	"workhub-project/backend/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestBuildSummaryProjectAndClientCounts(t *testing.T) {
	workspaceID := primitive.NewObjectID()
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	projects := []models.Project{
		{ID: primitive.NewObjectID(), WorkspaceID: workspaceID, Name: "a", ClientName: "Acme", Status: models.ProjectActive},
		{ID: primitive.NewObjectID(), WorkspaceID: workspaceID, Name: "b", ClientName: "Globex", Status: models.ProjectCompleted},
		{ID: primitive.NewObjectID(), WorkspaceID: workspaceID, Name: "c", ClientName: "Globex", Status: models.ProjectActive},
		{ID: primitive.NewObjectID(), WorkspaceID: workspaceID, Name: "d", Status: models.ProjectActive},
	}

	report := buildSummary(projects, nil, nil, nil, now)

	assert.Equal(t, 4, report.Projects.Total)
	assert.Equal(t, 3, report.Projects.Active)
	assert.Equal(t, 1, report.Projects.Completed)

	// Globex leads with two projects; projects without a client are not a
	// client entry.
	require.Len(t, report.Clients, 2)
	assert.Equal(t, ClientCount{ClientName: "Globex", ProjectCount: 2}, report.Clients[0])
	assert.Equal(t, ClientCount{ClientName: "Acme", ProjectCount: 1}, report.Clients[1])
}

func TestBuildSummaryClientTiesKeepFirstSeenOrder(t *testing.T) {
	projects := []models.Project{
		{ID: primitive.NewObjectID(), Name: "a", ClientName: "Zeta", Status: models.ProjectActive},
		{ID: primitive.NewObjectID(), Name: "b", ClientName: "Alpha", Status: models.ProjectActive},
	}

	report := buildSummary(projects, nil, nil, nil, time.Now())

	require.Len(t, report.Clients, 2)
	assert.Equal(t, "Zeta", report.Clients[0].ClientName)
	assert.Equal(t, "Alpha", report.Clients[1].ClientName)
}

func TestBuildSummaryTaskCounts(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	past := now.Add(-48 * time.Hour)
	future := now.Add(48 * time.Hour)

	tasks := []models.Task{
		{ID: primitive.NewObjectID(), Status: models.StatusDone, DueDate: &past},
		{ID: primitive.NewObjectID(), Status: models.StatusInProgress, DueDate: &past},
		{ID: primitive.NewObjectID(), Status: models.StatusTodo, DueDate: &future},
		{ID: primitive.NewObjectID(), Status: models.StatusBacklog},
	}

	report := buildSummary(nil, tasks, nil, nil, now)

	assert.Equal(t, 4, report.Tasks.Total)
	assert.Equal(t, 1, report.Tasks.Done)
	assert.Equal(t, 3, report.Tasks.Pending)
	// Only the overdue-and-not-done task counts; a done task past its due
	// date is not overdue.
	assert.Equal(t, 1, report.Tasks.Overdue)
	assert.Equal(t, map[string]int{
		"DONE": 1, "IN_PROGRESS": 1, "TODO": 1, "BACKLOG": 1,
	}, report.Tasks.ByStatus)
}

func TestReduceEmployee(t *testing.T) {
	userID := primitive.NewObjectID()
	otherID := primitive.NewObjectID()
	member := models.Member{UserID: userID, Username: "mira", RoleName: models.RoleMember}

	tasks := []models.Task{
		{ID: primitive.NewObjectID(), AssigneeID: &userID, Status: models.StatusDone},
		{ID: primitive.NewObjectID(), AssigneeID: &userID, Status: models.StatusInProgress},
		{ID: primitive.NewObjectID(), AssigneeID: &otherID, Status: models.StatusTodo},
		{ID: primitive.NewObjectID(), Status: models.StatusTodo},
	}

	t1 := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	t2 := time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC)
	logs := []models.WorkLog{
		{UserID: userID, StoppedAt: t2, DurationMinutes: 45, PagesCompleted: 3},
		{UserID: userID, StoppedAt: t1, DurationMinutes: 45, PagesCompleted: 2},
	}

	stats := reduceEmployee(member, tasks, logs)

	assert.Equal(t, "mira", stats.Username)
	assert.Equal(t, 2, stats.TasksAssigned)
	assert.Equal(t, 1, stats.TasksDone)
	assert.Equal(t, 1, stats.TasksPending)
	assert.Equal(t, int64(90), stats.MinutesWorked)
	assert.InDelta(t, 1.5, stats.HoursWorked, 1e-9)
	assert.Equal(t, int64(5), stats.PagesCompleted)
	require.NotNil(t, stats.LastActivity)
	assert.True(t, stats.LastActivity.Equal(t2))
}

func TestReduceEmployeeWithoutActivity(t *testing.T) {
	member := models.Member{UserID: primitive.NewObjectID(), Username: "idle"}

	stats := reduceEmployee(member, nil, nil)

	assert.Zero(t, stats.TasksAssigned)
	assert.Zero(t, stats.MinutesWorked)
	assert.Nil(t, stats.LastActivity)
}

func TestBuildSummaryEmployeesCoverAllMembers(t *testing.T) {
	u1 := primitive.NewObjectID()
	u2 := primitive.NewObjectID()
	members := []models.Member{
		{UserID: u1, Username: "ana", RoleName: models.RoleAdmin},
		{UserID: u2, Username: "bo", RoleName: models.RoleMember},
	}
	logs := []models.WorkLog{
		{UserID: u1, StoppedAt: time.Now(), DurationMinutes: 30},
	}

	report := buildSummary(nil, nil, members, logs, time.Now())

	require.Len(t, report.Employees, 2)
	assert.Equal(t, int64(30), report.Employees[0].MinutesWorked)
	assert.Equal(t, int64(0), report.Employees[1].MinutesWorked)
}
