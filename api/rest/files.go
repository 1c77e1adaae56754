package rest

import (
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/socialshowcase/backend/model"
	"github.com/socialshowcase/backend/store"
	"go.uber.org/zap"
)

// FilesHandler stores uploads on local disk and registers a FileRecord for
// each. Uploads are single-shot multipart.
type FilesHandler struct {
	store  *store.Store
	dir    string
	logger *zap.Logger
}

// NewFilesHandler creates a new FilesHandler rooted at dir.
func NewFilesHandler(st *store.Store, dir string, logger *zap.Logger) *FilesHandler {
	return &FilesHandler{store: st, dir: dir, logger: logger}
}

// Upload handles POST /api/upload (multipart field "file").
func (h *FilesHandler) Upload(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing file"})
		return
	}

	if err := os.MkdirAll(h.dir, 0o755); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	id := uuid.New().String()
	dst := filepath.Join(h.dir, id+filepath.Ext(fh.Filename))
	if err := c.SaveUploadedFile(fh, dst); err != nil {
		h.logger.Error("upload save failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	rec := model.FileRecord{
		ID:        id,
		Name:      fh.Filename,
		Mime:      fh.Header.Get("Content-Type"),
		Size:      fh.Size,
		Path:      dst,
		CreatedAt: time.Now(),
	}
	if err := h.store.Update(func(snap *model.Snapshot) error {
		snap.Files = append(snap.Files, rec)
		return nil
	}); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"fileId": rec.ID, "name": rec.Name, "size": rec.Size, "url": "/files/" + rec.ID})
}

// Serve handles GET /files/:id.
func (h *FilesHandler) Serve(c *gin.Context) {
	id := c.Param("id")
	var rec model.FileRecord
	found := false
	if err := h.store.View(func(snap *model.Snapshot) error {
		if f := snap.File(id); f != nil {
			rec = *f
			found = true
		}
		return nil
	}); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "file not found"})
		return
	}
	if rec.Mime != "" {
		c.Header("Content-Type", rec.Mime)
	}
	c.File(rec.Path)
}
