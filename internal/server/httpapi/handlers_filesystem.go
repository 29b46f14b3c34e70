package httpapi

import (
	"net/http"
	"time"

	"github.com/dmitrijs2005/homedrive/internal/server/models"
	"github.com/gin-gonic/gin"
)

type entryResponse struct {
	ID        string    `json:"id"`
	ParentID  *string   `json:"parent_id,omitempty"`
	Name      string    `json:"name"`
	Kind      string    `json:"kind"`
	SizeBytes int64     `json:"size_bytes"`
	CreatedAt time.Time `json:"created_at"`
}

func toEntryResponse(e *models.FSEntry) entryResponse {
	return entryResponse{
		ID:        e.ID,
		ParentID:  e.ParentID,
		Name:      e.Name,
		Kind:      e.Kind,
		SizeBytes: e.SizeBytes,
		CreatedAt: e.CreatedAt,
	}
}

func (s *Server) getStorageUsed(c *gin.Context) {
	usage, err := s.filesystem.GetStorageUsed(c.Request.Context(), s.accountID(c))
	if err != nil {
		s.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"used_bytes": usage.UsedBytes, "quota_bytes": usage.QuotaBytes})
}

type getFilesystemRequest struct {
	FolderID *string `json:"folder_id"`
}

func (s *Server) getFilesystem(c *gin.Context) {
	var req getFilesystemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	entries, err := s.filesystem.GetFilesystem(c.Request.Context(), s.accountID(c), req.FolderID)
	if err != nil {
		s.writeError(c, err)
		return
	}

	out := make([]entryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, toEntryResponse(e))
	}

	c.JSON(http.StatusOK, gin.H{"entries": out})
}

type createFolderRequest struct {
	ParentID *string `json:"parent_id"`
	Name     string  `json:"name" binding:"required"`
}

func (s *Server) createFolder(c *gin.Context) {
	var req createFolderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	entry, err := s.filesystem.CreateFolder(c.Request.Context(), s.accountID(c), req.ParentID, req.Name)
	if err != nil {
		s.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, toEntryResponse(entry))
}

type createFileRequest struct {
	ParentID  *string `json:"parent_id"`
	Name      string  `json:"name" binding:"required"`
	SizeBytes int64   `json:"size_bytes"`
}

func (s *Server) createFile(c *gin.Context) {
	var req createFileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	entry, err := s.filesystem.CreateFile(c.Request.Context(), s.accountID(c), req.ParentID, req.Name, req.SizeBytes)
	if err != nil {
		s.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, toEntryResponse(entry))
}

type renameEntryRequest struct {
	EntryID string `json:"entry_id" binding:"required"`
	NewName string `json:"new_name" binding:"required"`
}

func (s *Server) renameEntry(c *gin.Context) {
	var req renameEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	entry, err := s.filesystem.RenameEntry(c.Request.Context(), s.accountID(c), req.EntryID, req.NewName)
	if err != nil {
		s.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, toEntryResponse(entry))
}

type deleteEntryRequest struct {
	EntryID string `json:"entry_id" binding:"required"`
}

func (s *Server) deleteEntry(c *gin.Context) {
	var req deleteEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	deleted, err := s.filesystem.DeleteEntry(c.Request.Context(), s.accountID(c), req.EntryID)
	if err != nil {
		s.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"deleted": deleted})
}
