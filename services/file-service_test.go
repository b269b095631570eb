package services

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"workhub-project/backend/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestResolveWorkspacePath(t *testing.T) {
	root := "/srv/storage/ws1"

	tests := []struct {
		name    string
		rel     string
		want    string
		wantErr bool
	}{
		{"empty path is the root", "", root, false},
		{"dot is the root", ".", root, false},
		{"plain subfolder", "docs", filepath.Join(root, "docs"), false},
		{"nested path", "docs/2025/reports", filepath.Join(root, "docs/2025/reports"), false},
		{"internal dotdot that stays inside", "docs/../notes", filepath.Join(root, "notes"), false},
		{"traversal rejected", "../../etc", "", true},
		{"bare dotdot rejected", "..", "", true},
		{"dotdot after folder rejected", "docs/../../other", "", true},
		{"absolute path rejected", "/etc/passwd", "", true},
		{"backslash absolute rejected", `\windows`, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := resolveWorkspacePath(root, tt.rel)
			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, errs.KindBadRequest, errs.KindOf(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSanitizeFileName(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain name untouched", "report.pdf", "report.pdf"},
		{"path stripped", "uploads/report.pdf", "report.pdf"},
		{"traversal stripped", "../../evil.sh", "evil.sh"},
		{"backslash path stripped", `..\..\evil.sh`, "evil.sh"},
		{"unsafe characters removed", `re<po|rt>.pdf`, "report.pdf"},
		{"control characters removed", "na\x00me\n.txt", "name.txt"},
		{"dotdot becomes placeholder", "..", "file"},
		{"empty becomes placeholder", "", "file"},
		{"only unsafe becomes placeholder", `<>:"|?*`, "file"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, sanitizeFileName(tt.in))
		})
	}
}

func TestCreateFolderConflict(t *testing.T) {
	s := NewFileService(t.TempDir(), nil)
	workspaceID := primitive.NewObjectID()
	userID := primitive.NewObjectID()
	ctx := context.Background()

	require.NoError(t, s.CreateFolder(ctx, workspaceID, userID, "", "notes"))

	err := s.CreateFolder(ctx, workspaceID, userID, "", "notes")
	require.Error(t, err)
	assert.Equal(t, errs.KindConflict, errs.KindOf(err))
}

func TestDeleteMissingPath(t *testing.T) {
	s := NewFileService(t.TempDir(), nil)
	workspaceID := primitive.NewObjectID()
	userID := primitive.NewObjectID()

	err := s.Delete(context.Background(), workspaceID, userID, "nope.txt")
	require.Error(t, err)
	assert.Equal(t, errs.KindNotFound, errs.KindOf(err))
}

func TestDeleteRootRejected(t *testing.T) {
	s := NewFileService(t.TempDir(), nil)

	err := s.Delete(context.Background(), primitive.NewObjectID(), primitive.NewObjectID(), "")
	require.Error(t, err)
	assert.Equal(t, errs.KindBadRequest, errs.KindOf(err))
}

func TestListDirectoryAndFolderLifecycle(t *testing.T) {
	s := NewFileService(t.TempDir(), nil)
	workspaceID := primitive.NewObjectID()
	userID := primitive.NewObjectID()
	ctx := context.Background()

	// The workspace root is created lazily and starts empty.
	entries, err := s.ListDirectory(ctx, workspaceID, userID, "")
	require.NoError(t, err)
	assert.Empty(t, entries)

	require.NoError(t, s.CreateFolder(ctx, workspaceID, userID, "", "notes"))

	entries, err = s.ListDirectory(ctx, workspaceID, userID, "")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "notes", entries[0].Name)
	assert.True(t, entries[0].IsDir)

	require.NoError(t, s.Delete(ctx, workspaceID, userID, "notes"))

	entries, err = s.ListDirectory(ctx, workspaceID, userID, "")
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestOpenForDownload(t *testing.T) {
	s := NewFileService(t.TempDir(), nil)
	workspaceID := primitive.NewObjectID()
	userID := primitive.NewObjectID()
	ctx := context.Background()

	// Lazily create the root, then plant a file in it.
	_, err := s.ListDirectory(ctx, workspaceID, userID, "")
	require.NoError(t, err)
	target := filepath.Join(s.StorageRoot, workspaceID.Hex(), "hello.txt")
	require.NoError(t, os.WriteFile(target, []byte("hello"), 0600))

	f, info, err := s.OpenForDownload(ctx, workspaceID, userID, "hello.txt")
	require.NoError(t, err)
	defer f.Close()
	assert.Equal(t, "hello.txt", info.Name())
	assert.Equal(t, int64(5), info.Size())

	_, _, err = s.OpenForDownload(ctx, workspaceID, userID, "missing.txt")
	require.Error(t, err)
	assert.Equal(t, errs.KindNotFound, errs.KindOf(err))

	_, _, err = s.OpenForDownload(ctx, workspaceID, userID, "")
	require.Error(t, err)
	assert.Equal(t, errs.KindBadRequest, errs.KindOf(err))
}
