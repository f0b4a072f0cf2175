package api

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"path/filepath"

	"kvlist-go/internal/common"
	"kvlist-go/internal/session"
	"kvlist-go/internal/snapshot"
	"kvlist-go/internal/value"

	"github.com/gin-gonic/gin"
)

// Handlers serves a session over HTTP. The session does its own locking.
// Files named in save and restore requests live under dataDir.
type Handlers struct {
	sess    *session.Session
	dataDir string
}

func NewHandlers(sess *session.Session, dataDir string) *Handlers {
	return &Handlers{sess: sess, dataDir: dataDir}
}

// dataFile maps a requested file name into the data dir. Absolute paths
// and names that climb out of it with ".." are rejected.
func (h *Handlers) dataFile(name string) (string, error) {
	if !filepath.IsLocal(name) {
		return "", fmt.Errorf("%w: file %q must be a relative path inside the data dir", common.ErrInvalidArgument, name)
	}
	return filepath.Join(h.dataDir, name), nil
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, snapshot.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, common.ErrInvalidArgument):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func abortWithError(c *gin.Context, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		slog.Error("Request failed", "path", c.FullPath(), "error", err)
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

func (h *Handlers) HandleListEntries(c *gin.Context) {
	views := h.sess.Entries()

	resp := EntriesResponse{
		Count:   len(views),
		Entries: make([]EntryResponse, 0, len(views)),
	}
	for _, v := range views {
		resp.Entries = append(resp.Entries, EntryResponse{
			Key:          v.Key,
			KeyKind:      v.KeyKind.String(),
			KeyDisplay:   v.KeyDisplay,
			Value:        v.Value,
			ValueKind:    v.ValueKind.String(),
			ValueDisplay: v.ValueDisplay,
		})
	}

	c.JSON(http.StatusOK, resp)
}

func requestBlob(name string, raw []byte, literal string) (value.Value, error) {
	if literal != "" {
		v, ok, err := value.ParseLiteral(literal)
		if err != nil {
			return value.Value{}, fmt.Errorf("%s: %w", name, err)
		}
		if !ok {
			return value.Value{}, fmt.Errorf("%w: %s: unknown literal %q", common.ErrInvalidArgument, name, literal)
		}
		return v, nil
	}
	if raw == nil {
		return value.Value{}, fmt.Errorf("%w: %s is required", common.ErrInvalidArgument, name)
	}
	return value.Untyped(raw), nil
}

func (h *Handlers) HandleInsert(c *gin.Context) {
	var payload InsertRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	key, err := requestBlob("key", payload.Key, payload.KeyLiteral)
	if err != nil {
		abortWithError(c, err)
		return
	}
	val, err := requestBlob("value", payload.Value, payload.ValueLiteral)
	if err != nil {
		abortWithError(c, err)
		return
	}

	if err := h.sess.Insert(key, val); err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, MessageResponse{Message: "Insert successful", Count: h.sess.Len()})
}

func (h *Handlers) HandleSave(c *gin.Context) {
	var payload FileRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	path, err := h.dataFile(payload.File)
	if err != nil {
		abortWithError(c, err)
		return
	}

	if err := h.sess.Save(path); err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "File saved successfully", Count: h.sess.Len()})
}

func (h *Handlers) HandleRestore(c *gin.Context) {
	var payload FileRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	path, err := h.dataFile(payload.File)
	if err != nil {
		abortWithError(c, err)
		return
	}

	if err := h.sess.Restore(path); err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "Restore successful", Count: h.sess.Len()})
}

func (h *Handlers) HandleListSnapshots(c *gin.Context) {
	names, err := h.sess.Snapshots()
	if err != nil {
		abortWithError(c, err)
		return
	}
	if names == nil {
		names = []string{}
	}

	c.JSON(http.StatusOK, SnapshotsResponse{Names: names})
}

func (h *Handlers) HandleSaveSnapshot(c *gin.Context) {
	name, err := h.sess.SaveSnapshot(c.Param("name"))
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, SnapshotResponse{Name: name})
}

func (h *Handlers) HandleRestoreSnapshot(c *gin.Context) {
	if err := h.sess.RestoreSnapshot(c.Param("name")); err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "Restore successful", Count: h.sess.Len()})
}
