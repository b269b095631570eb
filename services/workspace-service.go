package services

import (
	"context"
	"fmt"
	"time"

	"workhub-project/backend/errs"
	"workhub-project/backend/logging"
	"workhub-project/backend/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/exp/rand"
)

type WorkspaceService struct {
	Client               *mongo.Client
	WorkspacesCollection *mongo.Collection
	MembersCollection    *mongo.Collection
	UsersCollection      *mongo.Collection
	TasksCollection      *mongo.Collection
	Roles                *RoleService
	Notifier             *Notifier
}

func NewWorkspaceService(client *mongo.Client, workspaces, members, users, tasks *mongo.Collection, roles *RoleService, notifier *Notifier) *WorkspaceService {
	return &WorkspaceService{
		Client:               client,
		WorkspacesCollection: workspaces,
		MembersCollection:    members,
		UsersCollection:      users,
		TasksCollection:      tasks,
		Roles:                roles,
		Notifier:             notifier,
	}
}

func init() {
	rand.Seed(uint64(time.Now().UnixNano()))
}

// newInviteCode returns a 6-digit workspace join code.
func newInviteCode() string {
	return fmt.Sprintf("%06d", rand.Intn(1000000))
}

// inviteCodeAttempts bounds the regeneration loop when a freshly drawn code
// collides with an existing workspace.
const inviteCodeAttempts = 5

// CreateWorkspace inserts the workspace and its OWNER membership in one
// multi-document transaction. The bootstrap is all-or-nothing; only an
// invite-code collision is retried, with a freshly drawn code.
func (s *WorkspaceService) CreateWorkspace(ctx context.Context, name, description string, ownerID primitive.ObjectID) (*models.Workspace, error) {
	if name == "" {
		return nil, errs.BadRequest("workspace name is required")
	}

	var owner models.User
	if err := s.UsersCollection.FindOne(ctx, bson.M{"_id": ownerID}).Decode(&owner); err != nil {
		return nil, errs.NotFound("owner user not found")
	}

	workspace := &models.Workspace{
		ID:          primitive.NewObjectID(),
		Name:        name,
		Description: description,
		OwnerID:     ownerID,
		CreatedAt:   time.Now(),
	}

	session, err := s.Client.StartSession()
	if err != nil {
		return nil, errs.Internal("failed to start session", err)
	}
	defer session.EndSession(ctx)

	// An invite-code collision aborts the transaction through the unique
	// index; draw a fresh code and retry instead of surfacing it.
	var txErr error
	for attempt := 0; attempt < inviteCodeAttempts; attempt++ {
		workspace.InviteCode = newInviteCode()

		_, txErr = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
			if _, err := s.WorkspacesCollection.InsertOne(sc, workspace); err != nil {
				return nil, fmt.Errorf("failed to create workspace: %w", err)
			}

			membership := models.Member{
				ID:          primitive.NewObjectID(),
				WorkspaceID: workspace.ID,
				UserID:      ownerID,
				Username:    owner.Username,
				RoleName:    models.RoleOwner,
				JoinedAt:    time.Now(),
			}
			if _, err := s.MembersCollection.InsertOne(sc, membership); err != nil {
				return nil, fmt.Errorf("failed to create owner membership: %w", err)
			}
			return nil, nil
		})
		if txErr == nil {
			break
		}
		if !mongo.IsDuplicateKeyError(txErr) {
			return nil, errs.Internal("workspace bootstrap failed", txErr)
		}
	}
	if txErr != nil {
		return nil, errs.Conflict("could not allocate a unique invite code, please retry")
	}

	logging.Logger.Infof("Event ID: WORKSPACE_CREATED, Description: Workspace %s created by %s", workspace.ID.Hex(), owner.Username)
	return workspace, nil
}

// JoinByInviteCode adds the caller as a MEMBER of the workspace whose invite
// code matches.
func (s *WorkspaceService) JoinByInviteCode(ctx context.Context, userID primitive.ObjectID, inviteCode string) (*models.Workspace, error) {
	if inviteCode == "" {
		return nil, errs.BadRequest("invite code is required")
	}

	var workspace models.Workspace
	err := s.WorkspacesCollection.FindOne(ctx, bson.M{"inviteCode": inviteCode}).Decode(&workspace)
	if err != nil {
		return nil, errs.NotFound("no workspace with this invite code")
	}

	var user models.User
	if err := s.UsersCollection.FindOne(ctx, bson.M{"_id": userID}).Decode(&user); err != nil {
		return nil, errs.NotFound("user not found")
	}

	count, err := s.MembersCollection.CountDocuments(ctx, bson.M{"workspaceId": workspace.ID, "userId": userID})
	if err != nil {
		return nil, errs.Internal("failed to check membership", err)
	}
	if count > 0 {
		return nil, errs.Conflict("user is already a member of this workspace")
	}

	membership := models.Member{
		ID:          primitive.NewObjectID(),
		WorkspaceID: workspace.ID,
		UserID:      userID,
		Username:    user.Username,
		RoleName:    models.RoleMember,
		JoinedAt:    time.Now(),
	}
	if _, err := s.MembersCollection.InsertOne(ctx, membership); err != nil {
		return nil, errs.Internal("failed to create membership", err)
	}

	s.Notifier.Notify("member.joined", map[string]any{
		"workspaceId": workspace.ID.Hex(),
		"userId":      userID.Hex(),
		"username":    user.Username,
	})

	return &workspace, nil
}

// ListWorkspacesForUser returns every workspace the user is a member of.
func (s *WorkspaceService) ListWorkspacesForUser(ctx context.Context, userID primitive.ObjectID) ([]models.Workspace, error) {
	cursor, err := s.MembersCollection.Find(ctx, bson.M{"userId": userID})
	if err != nil {
		return nil, errs.Internal("failed to fetch memberships", err)
	}
	defer cursor.Close(ctx)

	var memberships []models.Member
	if err := cursor.All(ctx, &memberships); err != nil {
		return nil, errs.Internal("failed to decode memberships", err)
	}

	workspaces := []models.Workspace{}
	for _, m := range memberships {
		var ws models.Workspace
		if err := s.WorkspacesCollection.FindOne(ctx, bson.M{"_id": m.WorkspaceID}).Decode(&ws); err != nil {
			continue // membership pointing at a removed workspace
		}
		workspaces = append(workspaces, ws)
	}
	return workspaces, nil
}

func (s *WorkspaceService) GetWorkspaceByID(ctx context.Context, workspaceID primitive.ObjectID) (*models.Workspace, error) {
	var workspace models.Workspace
	err := s.WorkspacesCollection.FindOne(ctx, bson.M{"_id": workspaceID}).Decode(&workspace)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, errs.NotFound("workspace not found")
		}
		return nil, errs.Internal("failed to fetch workspace", err)
	}
	return &workspace, nil
}

// ListMembers returns the workspace's membership records.
func (s *WorkspaceService) ListMembers(ctx context.Context, workspaceID primitive.ObjectID) ([]models.Member, error) {
	cursor, err := s.MembersCollection.Find(ctx, bson.M{"workspaceId": workspaceID})
	if err != nil {
		return nil, errs.Internal("failed to fetch members", err)
	}
	defer cursor.Close(ctx)

	var members []models.Member
	if err := cursor.All(ctx, &members); err != nil {
		return nil, errs.Internal("failed to decode members", err)
	}
	return members, nil
}

// AddMember adds a user to the workspace by username with the given role.
func (s *WorkspaceService) AddMember(ctx context.Context, workspaceID primitive.ObjectID, username, roleName string) (*models.Member, error) {
	if _, ok := RolePermissions[roleName]; !ok {
		return nil, errs.BadRequestf("unknown role: %s", roleName)
	}
	if roleName == models.RoleOwner {
		return nil, errs.BadRequest("a workspace has a single owner")
	}

	var user models.User
	if err := s.UsersCollection.FindOne(ctx, bson.M{"username": username}).Decode(&user); err != nil {
		return nil, errs.NotFound("user not found")
	}

	count, err := s.MembersCollection.CountDocuments(ctx, bson.M{"workspaceId": workspaceID, "userId": user.ID})
	if err != nil {
		return nil, errs.Internal("failed to check membership", err)
	}
	if count > 0 {
		return nil, errs.Conflict("user is already a member of this workspace")
	}

	membership := models.Member{
		ID:          primitive.NewObjectID(),
		WorkspaceID: workspaceID,
		UserID:      user.ID,
		Username:    user.Username,
		RoleName:    roleName,
		JoinedAt:    time.Now(),
	}
	if _, err := s.MembersCollection.InsertOne(ctx, membership); err != nil {
		return nil, errs.Internal("failed to create membership", err)
	}

	s.Notifier.Notify("member.added", map[string]any{
		"workspaceId": workspaceID.Hex(),
		"userId":      user.ID.Hex(),
		"username":    user.Username,
		"role":        roleName,
	})

	return &membership, nil
}

// ChangeMemberRole updates a member's role. The owner's role cannot change.
func (s *WorkspaceService) ChangeMemberRole(ctx context.Context, workspaceID, userID primitive.ObjectID, roleName string) error {
	if _, ok := RolePermissions[roleName]; !ok {
		return errs.BadRequestf("unknown role: %s", roleName)
	}
	if roleName == models.RoleOwner {
		return errs.BadRequest("ownership cannot be granted through role change")
	}

	var member models.Member
	if err := s.MembersCollection.FindOne(ctx, bson.M{"workspaceId": workspaceID, "userId": userID}).Decode(&member); err != nil {
		return errs.NotFound("member not found in workspace")
	}
	if member.RoleName == models.RoleOwner {
		return errs.BadRequest("the workspace owner's role cannot be changed")
	}

	_, err := s.MembersCollection.UpdateOne(ctx,
		bson.M{"_id": member.ID},
		bson.M{"$set": bson.M{"roleName": roleName}},
	)
	if err != nil {
		return errs.Internal("failed to update member role", err)
	}
	return nil
}

// RemoveMember removes a member from the workspace. A member with a running
// task cannot be removed until the timer is stopped.
func (s *WorkspaceService) RemoveMember(ctx context.Context, workspaceID, userID primitive.ObjectID) error {
	var member models.Member
	if err := s.MembersCollection.FindOne(ctx, bson.M{"workspaceId": workspaceID, "userId": userID}).Decode(&member); err != nil {
		return errs.NotFound("member not found in workspace")
	}
	if member.RoleName == models.RoleOwner {
		return errs.BadRequest("the workspace owner cannot be removed")
	}

	running, err := s.TasksCollection.CountDocuments(ctx, bson.M{
		"workspaceId": workspaceID,
		"assigneeId":  userID,
		"isRunning":   true,
	})
	if err != nil {
		return errs.Internal("failed to check running tasks", err)
	}
	if running > 0 {
		return errs.Conflict("cannot remove a member with a running task timer")
	}

	result, err := s.MembersCollection.DeleteOne(ctx, bson.M{"_id": member.ID})
	if err != nil {
		return errs.Internal("failed to remove member", err)
	}
	if result.DeletedCount == 0 {
		return errs.NotFound("member not found or already removed")
	}

	// Unassign the departed member from their remaining tasks.
	_, err = s.TasksCollection.UpdateMany(ctx,
		bson.M{"workspaceId": workspaceID, "assigneeId": userID},
		bson.M{"$unset": bson.M{"assigneeId": ""}},
	)
	if err != nil {
		logging.Logger.Warnf("Event ID: MEMBER_UNASSIGN_FAILED, Description: Failed to unassign tasks of removed member %s: %v", userID.Hex(), err)
	}

	s.Notifier.Notify("member.removed", map[string]any{
		"workspaceId": workspaceID.Hex(),
		"userId":      userID.Hex(),
		"username":    member.Username,
	})

	return nil
}
