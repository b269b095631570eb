package services

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"workhub-project/backend/errs"
	"workhub-project/backend/logging"
	"workhub-project/backend/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	// MaxUploadFiles caps the number of files in one multipart upload.
	MaxUploadFiles = 100
	// MaxUploadFileSize caps a single uploaded file at 200MB.
	MaxUploadFileSize = 200 << 20
)

// FileService manages the per-workspace file library on disk. Every
// operation resolves the caller-supplied relative path against the workspace
// root and refuses anything that would escape it. Access-log writes are
// best-effort: a failed audit insert never fails the primary operation.
type FileService struct {
	StorageRoot        string
	FileLogsCollection *mongo.Collection
}

func NewFileService(storageRoot string, fileLogsCollection *mongo.Collection) *FileService {
	return &FileService{
		StorageRoot:        storageRoot,
		FileLogsCollection: fileLogsCollection,
	}
}

// resolveWorkspacePath maps a workspace-relative path to an absolute one.
// An empty path is the workspace root itself. Absolute paths and paths that
// normalize outside the root are rejected, not clamped.
func resolveWorkspacePath(root, rel string) (string, error) {
	if rel == "" {
		return root, nil
	}
	if strings.ContainsRune(rel, 0) {
		return "", errs.BadRequest("invalid path")
	}
	if filepath.IsAbs(rel) || strings.HasPrefix(rel, "/") || strings.HasPrefix(rel, "\\") {
		return "", errs.BadRequest("path must be relative to the workspace library")
	}

	cleaned := filepath.Clean(filepath.FromSlash(rel))
	if cleaned == ".." || strings.HasPrefix(cleaned, ".."+string(filepath.Separator)) {
		return "", errs.BadRequest("path escapes the workspace library")
	}
	if cleaned == "." {
		return root, nil
	}
	return filepath.Join(root, cleaned), nil
}

// sanitizeFileName strips path separators and unsafe characters from an
// uploaded file or folder name. The name arrives separately from the path,
// so it gets its own defense independent of the resolver.
func sanitizeFileName(name string) string {
	name = strings.ReplaceAll(name, "\\", "/")
	name = path.Base(name)
	if name == "." || name == ".." || name == "/" {
		return "file"
	}

	var b strings.Builder
	for _, r := range name {
		if r < 0x20 || r == 0x7f || strings.ContainsRune(`<>:"|?*`, r) {
			continue
		}
		b.WriteRune(r)
	}
	out := strings.TrimSpace(b.String())
	if out == "" || out == "." || out == ".." {
		return "file"
	}
	return out
}

// workspaceDir returns the workspace's storage directory, creating it lazily.
func (s *FileService) workspaceDir(workspaceID primitive.ObjectID) (string, error) {
	dir := filepath.Join(s.StorageRoot, workspaceID.Hex())
	if err := os.MkdirAll(dir, 0750); err != nil {
		return "", errs.Internal("failed to prepare workspace storage", err)
	}
	return dir, nil
}

// FileEntry is one row of a directory listing.
type FileEntry struct {
	Name       string    `json:"name"`
	IsDir      bool      `json:"isDir"`
	Size       int64     `json:"size"`
	ModifiedAt time.Time `json:"modifiedAt"`
}

// ListDirectory lists the folder at the given workspace-relative path.
func (s *FileService) ListDirectory(ctx context.Context, workspaceID, userID primitive.ObjectID, rel string) ([]FileEntry, error) {
	root, err := s.workspaceDir(workspaceID)
	if err != nil {
		return nil, err
	}
	abs, err := resolveWorkspacePath(root, rel)
	if err != nil {
		return nil, err
	}

	info, err := os.Stat(abs)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errs.NotFound("folder not found")
		}
		return nil, errs.Internal("failed to read folder", err)
	}
	if !info.IsDir() {
		return nil, errs.BadRequest("path is not a folder")
	}

	dirEntries, err := os.ReadDir(abs)
	if err != nil {
		return nil, errs.Internal("failed to list folder", err)
	}

	entries := make([]FileEntry, 0, len(dirEntries))
	for _, de := range dirEntries {
		fi, err := de.Info()
		if err != nil {
			continue
		}
		entries = append(entries, FileEntry{
			Name:       de.Name(),
			IsDir:      de.IsDir(),
			Size:       fi.Size(),
			ModifiedAt: fi.ModTime(),
		})
	}

	s.logAccess(ctx, workspaceID, userID, models.FileActionEnter, rel, "", 0)
	return entries, nil
}

// UploadedFile reports one stored file of an upload.
type UploadedFile struct {
	Name string `json:"name"`
	Size int64  `json:"size"`
}

// UploadFiles stores the multipart files into the folder at rel. File names
// are sanitized before joining; existing files are overwritten.
func (s *FileService) UploadFiles(ctx context.Context, workspaceID, userID primitive.ObjectID, rel string, files []*multipart.FileHeader) ([]UploadedFile, error) {
	if len(files) == 0 {
		return nil, errs.BadRequest("no files in upload")
	}
	if len(files) > MaxUploadFiles {
		return nil, errs.BadRequestf("too many files in one upload (max %d)", MaxUploadFiles)
	}

	root, err := s.workspaceDir(workspaceID)
	if err != nil {
		return nil, err
	}
	abs, err := resolveWorkspacePath(root, rel)
	if err != nil {
		return nil, err
	}
	info, err := os.Stat(abs)
	if err != nil || !info.IsDir() {
		return nil, errs.NotFound("destination folder not found")
	}

	stored := make([]UploadedFile, 0, len(files))
	for _, fh := range files {
		if fh.Size > MaxUploadFileSize {
			return stored, errs.BadRequestf("file %s exceeds the %dMB limit", fh.Filename, MaxUploadFileSize>>20)
		}

		name := sanitizeFileName(fh.Filename)
		src, err := fh.Open()
		if err != nil {
			return stored, errs.Internal(fmt.Sprintf("failed to open uploaded file %s", name), err)
		}

		dst, err := os.Create(filepath.Join(abs, name))
		if err != nil {
			src.Close()
			return stored, errs.Internal(fmt.Sprintf("failed to store file %s", name), err)
		}

		written, err := io.Copy(dst, src)
		src.Close()
		if cerr := dst.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			return stored, errs.Internal(fmt.Sprintf("failed to write file %s", name), err)
		}

		stored = append(stored, UploadedFile{Name: name, Size: written})
		s.logAccess(ctx, workspaceID, userID, models.FileActionUpload, rel, name, written)
	}

	return stored, nil
}

// CreateFolder creates a new folder under the given path. An existing entry
// with the same name is a conflict.
func (s *FileService) CreateFolder(ctx context.Context, workspaceID, userID primitive.ObjectID, rel, name string) error {
	if name == "" {
		return errs.BadRequest("folder name is required")
	}

	root, err := s.workspaceDir(workspaceID)
	if err != nil {
		return err
	}
	abs, err := resolveWorkspacePath(root, rel)
	if err != nil {
		return err
	}
	info, err := os.Stat(abs)
	if err != nil || !info.IsDir() {
		return errs.NotFound("parent folder not found")
	}

	folderName := sanitizeFileName(name)
	target := filepath.Join(abs, folderName)
	if _, err := os.Stat(target); err == nil {
		return errs.Conflict("folder already exists")
	}

	if err := os.Mkdir(target, 0750); err != nil {
		return errs.Internal("failed to create folder", err)
	}

	s.logAccess(ctx, workspaceID, userID, models.FileActionCreateFolder, rel, folderName, 0)
	return nil
}

// Delete removes the file or folder at the given path. Folders are removed
// recursively. The workspace root itself cannot be deleted.
func (s *FileService) Delete(ctx context.Context, workspaceID, userID primitive.ObjectID, rel string) error {
	if rel == "" {
		return errs.BadRequest("cannot delete the workspace library root")
	}

	root, err := s.workspaceDir(workspaceID)
	if err != nil {
		return err
	}
	abs, err := resolveWorkspacePath(root, rel)
	if err != nil {
		return err
	}
	if abs == root {
		return errs.BadRequest("cannot delete the workspace library root")
	}

	info, err := os.Stat(abs)
	if err != nil {
		if os.IsNotExist(err) {
			return errs.NotFound("file or folder not found")
		}
		return errs.Internal("failed to inspect path", err)
	}

	if info.IsDir() {
		if err := os.RemoveAll(abs); err != nil {
			return errs.Internal("failed to delete folder", err)
		}
		s.logAccess(ctx, workspaceID, userID, models.FileActionDeleteFolder, rel, info.Name(), 0)
		return nil
	}

	if !info.Mode().IsRegular() {
		return errs.BadRequest("path is not a regular file")
	}
	if err := os.Remove(abs); err != nil {
		return errs.Internal("failed to delete file", err)
	}
	s.logAccess(ctx, workspaceID, userID, models.FileActionDeleteFile, rel, info.Name(), info.Size())
	return nil
}

// OpenForDownload resolves and opens a regular file for streaming. The
// caller closes the handle.
func (s *FileService) OpenForDownload(ctx context.Context, workspaceID, userID primitive.ObjectID, rel string) (*os.File, os.FileInfo, error) {
	if rel == "" {
		return nil, nil, errs.BadRequest("file path is required")
	}

	root, err := s.workspaceDir(workspaceID)
	if err != nil {
		return nil, nil, err
	}
	abs, err := resolveWorkspacePath(root, rel)
	if err != nil {
		return nil, nil, err
	}

	info, err := os.Stat(abs)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil, errs.NotFound("file not found")
		}
		return nil, nil, errs.Internal("failed to inspect file", err)
	}
	if !info.Mode().IsRegular() {
		return nil, nil, errs.BadRequest("path is not a file")
	}

	f, err := os.Open(abs)
	if err != nil {
		return nil, nil, errs.Internal("failed to open file", err)
	}

	s.logAccess(ctx, workspaceID, userID, models.FileActionDownload, rel, info.Name(), info.Size())
	return f, info, nil
}

// Activity returns the workspace's file access log for the trailing window.
func (s *FileService) Activity(ctx context.Context, workspaceID primitive.ObjectID, days int) ([]models.FileAccessLog, error) {
	if days <= 0 {
		days = 7
	}
	since := time.Now().AddDate(0, 0, -days)

	opts := options.Find().SetSort(bson.M{"createdAt": -1})
	cursor, err := s.FileLogsCollection.Find(ctx, bson.M{
		"workspaceId": workspaceID,
		"createdAt":   bson.M{"$gte": since},
	}, opts)
	if err != nil {
		return nil, errs.Internal("failed to fetch file activity", err)
	}
	defer cursor.Close(ctx)

	logs := []models.FileAccessLog{}
	if err := cursor.All(ctx, &logs); err != nil {
		return nil, errs.Internal("failed to decode file activity", err)
	}
	return logs, nil
}

// logAccess appends one audit record. Failures are logged and swallowed so
// the primary file operation is never blocked by the audit trail.
func (s *FileService) logAccess(ctx context.Context, workspaceID, userID primitive.ObjectID, action models.FileAction, rel, fileName string, size int64) {
	if s.FileLogsCollection == nil {
		return // audit trail not configured
	}
	record := models.FileAccessLog{
		ID:          primitive.NewObjectID(),
		WorkspaceID: workspaceID,
		UserID:      userID,
		Action:      action,
		Path:        rel,
		FileName:    fileName,
		FileSize:    size,
		CreatedAt:   time.Now(),
	}
	if _, err := s.FileLogsCollection.InsertOne(ctx, record); err != nil {
		logging.Logger.Warnf("Event ID: FILE_ACCESS_LOG_FAILED, Description: Failed to record %s on %q: %v", action, rel, err)
	}
}
