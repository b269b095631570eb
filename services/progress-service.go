package services

import (
	"context"
	"sort"
	"time"

	"workhub-project/backend/errs"
	"workhub-project/backend/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// ProgressService computes workspace and per-employee reporting rollups from
// tasks and the work-log ledger. Task counts reflect current state; worked
// time and pages come from the ledger so a date range can bound them.
type ProgressService struct {
	ProjectsCollection *mongo.Collection
	TasksCollection    *mongo.Collection
	MembersCollection  *mongo.Collection
	WorkLogsCollection *mongo.Collection
	Roles              *RoleService
}

func NewProgressService(projects, tasks, members, workLogs *mongo.Collection, roles *RoleService) *ProgressService {
	return &ProgressService{
		ProjectsCollection: projects,
		TasksCollection:    tasks,
		MembersCollection:  members,
		WorkLogsCollection: workLogs,
		Roles:              roles,
	}
}

type ProjectCounts struct {
	Total     int `json:"total"`
	Active    int `json:"active"`
	Completed int `json:"completed"`
}

type ClientCount struct {
	ClientName   string `json:"clientName"`
	ProjectCount int    `json:"projectCount"`
}

type TaskCounts struct {
	Total    int            `json:"total"`
	Done     int            `json:"done"`
	Pending  int            `json:"pending"`
	Overdue  int            `json:"overdue"`
	ByStatus map[string]int `json:"byStatus"`
}

type EmployeeStats struct {
	UserID         string     `json:"userId"`
	Username       string     `json:"username"`
	RoleName       string     `json:"roleName"`
	TasksAssigned  int        `json:"tasksAssigned"`
	TasksDone      int        `json:"tasksDone"`
	TasksPending   int        `json:"tasksPending"`
	MinutesWorked  int64      `json:"minutesWorked"`
	HoursWorked    float64    `json:"hoursWorked"`
	PagesCompleted int64      `json:"pagesCompleted"`
	LastActivity   *time.Time `json:"lastActivity"`
}

type SummaryReport struct {
	Projects  ProjectCounts   `json:"projects"`
	Clients   []ClientCount   `json:"clients"`
	Tasks     TaskCounts      `json:"tasks"`
	Employees []EmployeeStats `json:"employees"`
}

// WorkLogEntry is a ledger record enriched with display fields.
type WorkLogEntry struct {
	models.WorkLog `bson:",inline"`
	TaskTitle      string `json:"taskTitle"`
	TaskType       string `json:"taskType"`
	ProjectName    string `json:"projectName"`
}

type EmployeeReport struct {
	EmployeeStats
	Tasks    []models.Task  `json:"tasks"`
	WorkLogs []WorkLogEntry `json:"workLogs"`
}

// WorkspaceSummary builds the cross-employee rollup. It exposes performance
// data, so only workspace-settings level roles may call it.
func (s *ProgressService) WorkspaceSummary(ctx context.Context, workspaceID, actor primitive.ObjectID, from, to *time.Time) (*SummaryReport, error) {
	if _, err := s.Roles.Authorize(ctx, actor, workspaceID, models.PermManageWorkspace, models.PermViewReports); err != nil {
		return nil, err
	}

	projects, tasks, members, logs, err := s.fetchScope(ctx, workspaceID, from, to)
	if err != nil {
		return nil, err
	}

	report := buildSummary(projects, tasks, members, logs, time.Now())
	return report, nil
}

// EmployeeProgress narrows the rollup to one member and adds their task list
// and in-range ledger entries, enriched for display.
func (s *ProgressService) EmployeeProgress(ctx context.Context, workspaceID, employeeID, actor primitive.ObjectID, from, to *time.Time) (*EmployeeReport, error) {
	if _, err := s.Roles.Authorize(ctx, actor, workspaceID, models.PermManageWorkspace, models.PermViewReports); err != nil {
		return nil, err
	}

	var member models.Member
	if err := s.MembersCollection.FindOne(ctx, bson.M{"workspaceId": workspaceID, "userId": employeeID}).Decode(&member); err != nil {
		return nil, errs.NotFound("employee is not a member of this workspace")
	}

	projects, tasks, _, logs, err := s.fetchScope(ctx, workspaceID, from, to)
	if err != nil {
		return nil, err
	}

	assigned := []models.Task{}
	for _, t := range tasks {
		if t.AssigneeID != nil && *t.AssigneeID == employeeID {
			assigned = append(assigned, t)
		}
	}

	ownLogs := []models.WorkLog{}
	for _, l := range logs {
		if l.UserID == employeeID {
			ownLogs = append(ownLogs, l)
		}
	}

	stats := reduceEmployee(member, tasks, ownLogs)

	taskByID := map[primitive.ObjectID]models.Task{}
	for _, t := range tasks {
		taskByID[t.ID] = t
	}
	projectByID := map[primitive.ObjectID]models.Project{}
	for _, p := range projects {
		projectByID[p.ID] = p
	}

	entries := make([]WorkLogEntry, 0, len(ownLogs))
	for _, l := range ownLogs {
		entry := WorkLogEntry{WorkLog: l}
		if t, ok := taskByID[l.TaskID]; ok {
			entry.TaskTitle = t.Title
			entry.TaskType = string(t.Type)
			if p, ok := projectByID[t.ProjectID]; ok {
				entry.ProjectName = p.Name
			}
		}
		entries = append(entries, entry)
	}

	return &EmployeeReport{
		EmployeeStats: stats,
		Tasks:         assigned,
		WorkLogs:      entries,
	}, nil
}

// fetchScope loads the workspace's projects, tasks and members, plus the
// work-logs whose stop time falls within [from, to] (both ends inclusive,
// open-ended where nil).
func (s *ProgressService) fetchScope(ctx context.Context, workspaceID primitive.ObjectID, from, to *time.Time) ([]models.Project, []models.Task, []models.Member, []models.WorkLog, error) {
	var projects []models.Project
	cursor, err := s.ProjectsCollection.Find(ctx, bson.M{"workspaceId": workspaceID})
	if err != nil {
		return nil, nil, nil, nil, errs.Internal("failed to fetch projects", err)
	}
	if err := cursor.All(ctx, &projects); err != nil {
		return nil, nil, nil, nil, errs.Internal("failed to decode projects", err)
	}

	var tasks []models.Task
	cursor, err = s.TasksCollection.Find(ctx, bson.M{"workspaceId": workspaceID})
	if err != nil {
		return nil, nil, nil, nil, errs.Internal("failed to fetch tasks", err)
	}
	if err := cursor.All(ctx, &tasks); err != nil {
		return nil, nil, nil, nil, errs.Internal("failed to decode tasks", err)
	}

	var members []models.Member
	cursor, err = s.MembersCollection.Find(ctx, bson.M{"workspaceId": workspaceID})
	if err != nil {
		return nil, nil, nil, nil, errs.Internal("failed to fetch members", err)
	}
	if err := cursor.All(ctx, &members); err != nil {
		return nil, nil, nil, nil, errs.Internal("failed to decode members", err)
	}

	logFilter := bson.M{"workspaceId": workspaceID}
	if from != nil || to != nil {
		stopped := bson.M{}
		if from != nil {
			stopped["$gte"] = *from
		}
		if to != nil {
			stopped["$lte"] = *to
		}
		logFilter["stoppedAt"] = stopped
	}
	var logs []models.WorkLog
	cursor, err = s.WorkLogsCollection.Find(ctx, logFilter)
	if err != nil {
		return nil, nil, nil, nil, errs.Internal("failed to fetch work logs", err)
	}
	if err := cursor.All(ctx, &logs); err != nil {
		return nil, nil, nil, nil, errs.Internal("failed to decode work logs", err)
	}

	return projects, tasks, members, logs, nil
}

// buildSummary reduces the fetched documents into the summary report. Pure
// over its inputs.
func buildSummary(projects []models.Project, tasks []models.Task, members []models.Member, logs []models.WorkLog, now time.Time) *SummaryReport {
	report := &SummaryReport{
		Tasks: TaskCounts{ByStatus: map[string]int{}},
	}

	report.Projects.Total = len(projects)
	clientIndex := map[string]int{}
	clientOrder := []string{}
	for _, p := range projects {
		switch p.Status {
		case models.ProjectCompleted:
			report.Projects.Completed++
		default:
			report.Projects.Active++
		}
		if p.ClientName == "" {
			continue
		}
		if _, seen := clientIndex[p.ClientName]; !seen {
			clientIndex[p.ClientName] = len(clientOrder)
			clientOrder = append(clientOrder, p.ClientName)
		}
	}

	clientCounts := make([]ClientCount, len(clientOrder))
	for i, name := range clientOrder {
		clientCounts[i] = ClientCount{ClientName: name}
	}
	for _, p := range projects {
		if p.ClientName == "" {
			continue
		}
		clientCounts[clientIndex[p.ClientName]].ProjectCount++
	}
	// Descending by project count; ties keep first-seen order.
	sort.SliceStable(clientCounts, func(i, j int) bool {
		return clientCounts[i].ProjectCount > clientCounts[j].ProjectCount
	})
	report.Clients = clientCounts

	for _, t := range tasks {
		report.Tasks.Total++
		report.Tasks.ByStatus[string(t.Status)]++
		if t.Status == models.StatusDone {
			report.Tasks.Done++
			continue
		}
		report.Tasks.Pending++
		if t.DueDate != nil && t.DueDate.Before(now) {
			report.Tasks.Overdue++
		}
	}

	logsByUser := map[primitive.ObjectID][]models.WorkLog{}
	for _, l := range logs {
		logsByUser[l.UserID] = append(logsByUser[l.UserID], l)
	}

	report.Employees = make([]EmployeeStats, 0, len(members))
	for _, m := range members {
		report.Employees = append(report.Employees, reduceEmployee(m, tasks, logsByUser[m.UserID]))
	}

	return report
}

// reduceEmployee computes one member's figures from the workspace tasks and
// the member's own in-range work-logs.
func reduceEmployee(member models.Member, tasks []models.Task, ownLogs []models.WorkLog) EmployeeStats {
	stats := EmployeeStats{
		UserID:   member.UserID.Hex(),
		Username: member.Username,
		RoleName: member.RoleName,
	}

	for _, t := range tasks {
		if t.AssigneeID == nil || *t.AssigneeID != member.UserID {
			continue
		}
		stats.TasksAssigned++
		if t.Status == models.StatusDone {
			stats.TasksDone++
		} else {
			stats.TasksPending++
		}
	}

	for _, l := range ownLogs {
		stats.MinutesWorked += l.DurationMinutes
		stats.PagesCompleted += l.PagesCompleted
		if stats.LastActivity == nil || l.StoppedAt.After(*stats.LastActivity) {
			stopped := l.StoppedAt
			stats.LastActivity = &stopped
		}
	}
	stats.HoursWorked = float64(stats.MinutesWorked) / 60.0

	return stats
}
