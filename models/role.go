package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Permission flags a role may carry. The set is fixed at compile time and
// seeded into the roles collection at startup.
const (
	PermViewWorkspace   = "VIEW_WORKSPACE"
	PermManageWorkspace = "MANAGE_WORKSPACE"
	PermDeleteWorkspace = "DELETE_WORKSPACE"
	PermManageMembers   = "MANAGE_MEMBERS"
	PermCreateProject   = "CREATE_PROJECT"
	PermManageProject   = "MANAGE_PROJECT"
	PermCreateTask      = "CREATE_TASK"
	PermEditTask        = "EDIT_TASK"
	PermDeleteTask      = "DELETE_TASK"
	PermManageFiles     = "MANAGE_FILES"
	PermViewReports     = "VIEW_REPORTS"
)

const (
	RoleOwner  = "OWNER"
	RoleAdmin  = "ADMIN"
	RoleMember = "MEMBER"
	RoleViewer = "VIEWER"
)

type Role struct {
	ID          primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Name        string             `json:"name" bson:"name"`
	Permissions []string           `json:"permissions" bson:"permissions"`
}

// HasAnyPermission reports whether the role carries at least one of the
// required permissions. An empty required set always passes.
func (r Role) HasAnyPermission(required ...string) bool {
	if len(required) == 0 {
		return true
	}
	for _, want := range required {
		for _, p := range r.Permissions {
			if p == want {
				return true
			}
		}
	}
	return false
}

// IsPrivileged reports whether the role is an owner/admin level role.
func (r Role) IsPrivileged() bool {
	return r.Name == RoleOwner || r.Name == RoleAdmin
}
