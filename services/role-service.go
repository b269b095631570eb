package services

import (
	"context"
	"fmt"

	"workhub-project/backend/errs"
	"workhub-project/backend/logging"
	"workhub-project/backend/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// RolePermissions is the static permission table. It is the single source of
// truth: the roles collection is seeded from it at startup and never mutated
// at runtime.
var RolePermissions = map[string][]string{
	models.RoleOwner: {
		models.PermViewWorkspace, models.PermManageWorkspace, models.PermDeleteWorkspace,
		models.PermManageMembers, models.PermCreateProject, models.PermManageProject,
		models.PermCreateTask, models.PermEditTask, models.PermDeleteTask,
		models.PermManageFiles, models.PermViewReports,
	},
	models.RoleAdmin: {
		models.PermViewWorkspace, models.PermManageWorkspace,
		models.PermManageMembers, models.PermCreateProject, models.PermManageProject,
		models.PermCreateTask, models.PermEditTask, models.PermDeleteTask,
		models.PermManageFiles, models.PermViewReports,
	},
	models.RoleMember: {
		models.PermViewWorkspace,
		models.PermCreateTask, models.PermEditTask,
		models.PermManageFiles,
	},
	models.RoleViewer: {
		models.PermViewWorkspace,
	},
}

// seedOrder keeps role seeding deterministic across restarts.
var seedOrder = []string{models.RoleOwner, models.RoleAdmin, models.RoleMember, models.RoleViewer}

type RoleService struct {
	RolesCollection   *mongo.Collection
	MembersCollection *mongo.Collection
}

func NewRoleService(rolesCollection, membersCollection *mongo.Collection) *RoleService {
	return &RoleService{
		RolesCollection:   rolesCollection,
		MembersCollection: membersCollection,
	}
}

// EnsureRoles upserts the seeded roles before the server accepts traffic.
// It is idempotent: rerunning it rewrites each role's permission set to the
// table's current contents.
func (s *RoleService) EnsureRoles(ctx context.Context) error {
	for _, name := range seedOrder {
		filter := bson.M{"name": name}
		update := bson.M{"$set": bson.M{"name": name, "permissions": RolePermissions[name]}}
		opts := options.Update().SetUpsert(true)
		if _, err := s.RolesCollection.UpdateOne(ctx, filter, update, opts); err != nil {
			return fmt.Errorf("failed to seed role %s: %w", name, err)
		}
	}
	logging.Logger.Infof("Event ID: ROLES_SEEDED, Description: Seeded %d workspace roles", len(seedOrder))
	return nil
}

// ResolveRole looks up the user's membership in the workspace and returns
// the resolved role with its permission set. A user without a membership is
// not a participant of the workspace.
func (s *RoleService) ResolveRole(ctx context.Context, userID, workspaceID primitive.ObjectID) (models.Role, error) {
	var member models.Member
	err := s.MembersCollection.FindOne(ctx, bson.M{"workspaceId": workspaceID, "userId": userID}).Decode(&member)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return models.Role{}, errs.NotFound("user is not a member of this workspace")
		}
		return models.Role{}, errs.Internal("failed to look up membership", err)
	}

	var role models.Role
	err = s.RolesCollection.FindOne(ctx, bson.M{"name": member.RoleName}).Decode(&role)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return models.Role{}, errs.NotFoundf("role %s is not defined", member.RoleName)
		}
		return models.Role{}, errs.Internal("failed to look up role", err)
	}

	return role, nil
}

// Authorize resolves the caller's role and checks it carries at least one of
// the required permissions. Every workspace-scoped mutation and privileged
// query goes through here.
func (s *RoleService) Authorize(ctx context.Context, userID, workspaceID primitive.ObjectID, required ...string) (models.Role, error) {
	role, err := s.ResolveRole(ctx, userID, workspaceID)
	if err != nil {
		return models.Role{}, err
	}
	if !role.HasAnyPermission(required...) {
		return models.Role{}, errs.Unauthorized("insufficient permissions for this operation")
	}
	return role, nil
}
