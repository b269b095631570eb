package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"workhub-project/backend/handlers"
	"workhub-project/backend/logging"
	"workhub-project/backend/middleware"
	"workhub-project/backend/services"
	"workhub-project/backend/utils"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// missingEnvVars returns the names among the given variables that are unset
// or empty. The token signer and the server cannot run without them, so an
// empty JWT_SECRET or SERVER_PORT must never reach the request path.
func missingEnvVars(names ...string) []string {
	var missing []string
	for _, name := range names {
		if os.Getenv(name) == "" {
			missing = append(missing, name)
		}
	}
	return missing
}

// ensureIndexes creates the unique indexes the services rely on.
func ensureIndexes(ctx context.Context, users, members, roles, workspaces, projects *mongo.Collection) error {
	_, err := users.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "username", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("failed to create username index: %w", err)
	}

	_, err = members.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "workspaceId", Value: 1}, {Key: "userId", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("failed to create membership index: %w", err)
	}

	_, err = roles.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "name", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("failed to create role name index: %w", err)
	}

	_, err = workspaces.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "inviteCode", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("failed to create invite code index: %w", err)
	}

	_, err = projects.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "workspaceId", Value: 1}, {Key: "name", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("failed to create project name index: %w", err)
	}

	return nil
}

func main() {
	logging.InitLogger()

	logging.Logger.Info("Event ID: SERVICE_START, Description: Starting Workhub backend...")
	if err := godotenv.Load(".env"); err != nil {
		logging.Logger.Warnf("Event ID: ENV_LOAD_WARNING, Description: No .env file loaded: %v", err)
	}

	if missing := missingEnvVars("MONGO_URI", "MONGO_DB_NAME", "JWT_SECRET", "SERVER_PORT"); len(missing) > 0 {
		logging.Logger.Fatalf("Event ID: CONFIG_ERROR, Description: Missing required environment variables: %s", strings.Join(missing, ", "))
	}

	mongoURI := os.Getenv("MONGO_URI")
	mongoDBName := os.Getenv("MONGO_DB_NAME")

	storageRoot := os.Getenv("FILE_STORAGE_ROOT")
	if storageRoot == "" {
		storageRoot = "storage"
	}
	if err := os.MkdirAll(storageRoot, 0750); err != nil {
		logging.Logger.Fatalf("Event ID: STORAGE_INIT_FAILED, Description: Failed to prepare storage root %s: %v", storageRoot, err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(mongoURI))
	if err != nil {
		logging.Logger.Fatalf("Event ID: DB_CONNECTION_FAILED, Description: Database connection for MongoDB failed: %v", err)
	}
	defer client.Disconnect(context.Background())

	if err := client.Ping(ctx, nil); err != nil {
		logging.Logger.Fatalf("Event ID: DB_PING_FAILED, Description: MongoDB connection ping error: %v", err)
	}
	logging.Logger.Infof("Event ID: DB_CONNECTED, Description: Successfully connected to MongoDB at %s.", mongoURI)

	db := client.Database(mongoDBName)
	usersCollection := db.Collection("users")
	workspacesCollection := db.Collection("workspaces")
	membersCollection := db.Collection("members")
	rolesCollection := db.Collection("roles")
	projectsCollection := db.Collection("projects")
	tasksCollection := db.Collection("tasks")
	workLogsCollection := db.Collection("worklogs")
	fileLogsCollection := db.Collection("file_access_logs")

	if err := ensureIndexes(ctx, usersCollection, membersCollection, rolesCollection, workspacesCollection, projectsCollection); err != nil {
		logging.Logger.Fatalf("Event ID: DB_INDEX_FAILED, Description: %v", err)
	}

	httpClient := utils.NewHTTPClient()
	notifier := services.NewNotifier(os.Getenv("NOTIFY_WEBHOOK_URL"), httpClient)

	roleService := services.NewRoleService(rolesCollection, membersCollection)
	if err := roleService.EnsureRoles(ctx); err != nil {
		logging.Logger.Fatalf("Event ID: ROLE_SEED_FAILED, Description: %v", err)
	}

	authService := services.NewAuthService(usersCollection)
	workspaceService := services.NewWorkspaceService(client, workspacesCollection, membersCollection, usersCollection, tasksCollection, roleService, notifier)
	projectService := services.NewProjectService(projectsCollection, tasksCollection)
	taskService := services.NewTaskService(tasksCollection, projectsCollection, membersCollection, notifier)
	timerService := services.NewTimerService(tasksCollection, workLogsCollection, roleService, notifier)
	progressService := services.NewProgressService(projectsCollection, tasksCollection, membersCollection, workLogsCollection, roleService)
	fileService := services.NewFileService(storageRoot, fileLogsCollection)

	authHandler := handlers.NewAuthHandler(authService)
	workspaceHandler := handlers.NewWorkspaceHandler(workspaceService, roleService)
	projectHandler := handlers.NewProjectHandler(projectService, roleService)
	taskHandler := handlers.NewTaskHandler(taskService, projectService, roleService)
	timerHandler := handlers.NewTimerHandler(timerService)
	progressHandler := handlers.NewProgressHandler(progressService)
	fileHandler := handlers.NewFileHandler(fileService, roleService)

	r := mux.NewRouter()

	r.HandleFunc("/api/auth/register", authHandler.Register).Methods(http.MethodPost)
	r.HandleFunc("/api/auth/login", authHandler.Login).Methods(http.MethodPost)

	api := r.PathPrefix("/api").Subrouter()
	api.Use(middleware.JWTAuthMiddleware)

	api.HandleFunc("/workspaces", workspaceHandler.CreateWorkspace).Methods(http.MethodPost)
	api.HandleFunc("/workspaces", workspaceHandler.ListMyWorkspaces).Methods(http.MethodGet)
	api.HandleFunc("/workspaces/join", workspaceHandler.JoinWorkspace).Methods(http.MethodPost)
	api.HandleFunc("/workspaces/{id}", workspaceHandler.GetWorkspace).Methods(http.MethodGet)
	api.HandleFunc("/workspaces/{id}/members", workspaceHandler.ListMembers).Methods(http.MethodGet)
	api.HandleFunc("/workspaces/{id}/members", workspaceHandler.AddMember).Methods(http.MethodPost)
	api.HandleFunc("/workspaces/{id}/members/{userId}/role", workspaceHandler.ChangeMemberRole).Methods(http.MethodPatch)
	api.HandleFunc("/workspaces/{id}/members/{userId}", workspaceHandler.RemoveMember).Methods(http.MethodDelete)

	api.HandleFunc("/projects", projectHandler.CreateProject).Methods(http.MethodPost)
	api.HandleFunc("/workspaces/{id}/projects", projectHandler.ListProjectsByWorkspace).Methods(http.MethodGet)
	api.HandleFunc("/projects/{id}", projectHandler.GetProject).Methods(http.MethodGet)
	api.HandleFunc("/projects/{id}", projectHandler.UpdateProject).Methods(http.MethodPut)
	api.HandleFunc("/projects/{id}", projectHandler.DeleteProject).Methods(http.MethodDelete)

	api.HandleFunc("/tasks", taskHandler.CreateTask).Methods(http.MethodPost)
	api.HandleFunc("/tasks/project/{projectId}", taskHandler.ListTasksByProject).Methods(http.MethodGet)
	api.HandleFunc("/tasks/{id}", taskHandler.GetTask).Methods(http.MethodGet)
	api.HandleFunc("/tasks/{id}", taskHandler.UpdateTask).Methods(http.MethodPut)
	api.HandleFunc("/tasks/{id}", taskHandler.DeleteTask).Methods(http.MethodDelete)

	api.HandleFunc("/tasks/{id}/timer/start", timerHandler.StartTimer).Methods(http.MethodPost)
	api.HandleFunc("/tasks/{id}/timer/stop", timerHandler.StopTimer).Methods(http.MethodPost)
	api.HandleFunc("/tasks/workspace/{workspaceId}/timer/stop-all", timerHandler.StopAllTimers).Methods(http.MethodPost)

	api.HandleFunc("/workspaces/{id}/progress/summary", progressHandler.WorkspaceSummary).Methods(http.MethodGet)
	api.HandleFunc("/workspaces/{id}/progress/employees/{userId}", progressHandler.EmployeeProgress).Methods(http.MethodGet)

	api.HandleFunc("/workspaces/{id}/files", fileHandler.ListFiles).Methods(http.MethodGet)
	api.HandleFunc("/workspaces/{id}/files/download", fileHandler.Download).Methods(http.MethodGet)
	api.HandleFunc("/workspaces/{id}/files/upload", fileHandler.UploadFiles).Methods(http.MethodPost)
	api.HandleFunc("/workspaces/{id}/files/folder", fileHandler.CreateFolder).Methods(http.MethodPost)
	api.HandleFunc("/workspaces/{id}/files", fileHandler.Delete).Methods(http.MethodDelete)
	api.HandleFunc("/workspaces/{id}/file-activity", fileHandler.Activity).Methods(http.MethodGet)

	corsRouter := enableCORS(r)

	serverPort := os.Getenv("SERVER_PORT")

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", serverPort),
		Handler:      corsRouter,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
	}

	logging.Logger.Infof("Event ID: SERVER_START_INFO, Description: Server running on http://localhost:%s", serverPort)
	if err := srv.ListenAndServe(); err != nil {
		logging.Logger.Fatalf("Event ID: SERVER_FATAL_ERROR, Description: Server failed to start: %v", err)
	}
}
