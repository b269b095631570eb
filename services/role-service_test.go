package services

import (
	"testing"

	"workhub-project/backend/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRolePermissionsTable(t *testing.T) {
	// Every seeded role name must resolve through the static table.
	for _, name := range seedOrder {
		perms, ok := RolePermissions[name]
		require.True(t, ok, "role %s missing from table", name)
		require.NotEmpty(t, perms)
	}

	t.Run("owner holds every permission", func(t *testing.T) {
		owner := models.Role{Name: models.RoleOwner, Permissions: RolePermissions[models.RoleOwner]}
		for _, p := range []string{
			models.PermManageWorkspace, models.PermDeleteWorkspace,
			models.PermManageMembers, models.PermDeleteTask, models.PermViewReports,
		} {
			assert.True(t, owner.HasAnyPermission(p), "owner should hold %s", p)
		}
	})

	t.Run("admin cannot delete the workspace", func(t *testing.T) {
		admin := models.Role{Name: models.RoleAdmin, Permissions: RolePermissions[models.RoleAdmin]}
		assert.False(t, admin.HasAnyPermission(models.PermDeleteWorkspace))
		assert.True(t, admin.HasAnyPermission(models.PermManageWorkspace))
	})

	t.Run("member cannot manage the workspace", func(t *testing.T) {
		member := models.Role{Name: models.RoleMember, Permissions: RolePermissions[models.RoleMember]}
		assert.False(t, member.HasAnyPermission(models.PermManageWorkspace, models.PermManageMembers))
		assert.True(t, member.HasAnyPermission(models.PermCreateTask))
	})

	t.Run("viewer is read-only", func(t *testing.T) {
		viewer := models.Role{Name: models.RoleViewer, Permissions: RolePermissions[models.RoleViewer]}
		assert.True(t, viewer.HasAnyPermission(models.PermViewWorkspace))
		assert.False(t, viewer.HasAnyPermission(
			models.PermCreateTask, models.PermEditTask, models.PermManageFiles,
			models.PermManageWorkspace, models.PermCreateProject,
		))
	})
}

func TestHasAnyPermissionSemantics(t *testing.T) {
	role := models.Role{Name: models.RoleMember, Permissions: []string{models.PermCreateTask}}

	// At least one of the required set suffices.
	assert.True(t, role.HasAnyPermission(models.PermManageWorkspace, models.PermCreateTask))
	assert.False(t, role.HasAnyPermission(models.PermManageWorkspace, models.PermDeleteTask))
	// An empty required set always passes.
	assert.True(t, role.HasAnyPermission())
}

func TestIsPrivileged(t *testing.T) {
	assert.True(t, models.Role{Name: models.RoleOwner}.IsPrivileged())
	assert.True(t, models.Role{Name: models.RoleAdmin}.IsPrivileged())
	assert.False(t, models.Role{Name: models.RoleMember}.IsPrivileged())
	assert.False(t, models.Role{Name: models.RoleViewer}.IsPrivileged())
}
