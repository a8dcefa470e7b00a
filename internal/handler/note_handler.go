package handler

import (
	"errors"
	"net/http"
	"time"

	"notes-service/internal/middleware"
	"notes-service/internal/model"
	"notes-service/pkg/database"
	"notes-service/pkg/logger"
	"notes-service/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// NoteRequest defines the structure for note creation/update requests
type NoteRequest struct {
	Content string `json:"content"`
}

// ListNotes handles retrieving all notes for the caller's tenant,
// newest first.
func ListNotes(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordNoteOperation("list")

	claims, ok := middleware.ClaimsFromContext(c)
	if !ok {
		log.Error("Missing identity claims in context")
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}

	// Initialized so an empty tenant serializes as [] rather than null
	defer prometheus.TrackDBOperation("query")(time.Now())
	notes := []model.Note{}
	result := database.GetDB().
		Where("tenant_id = ?", claims.TenantID).
		Order("created_at DESC").
		Find(&notes)
	if result.Error != nil {
		log.Error("Failed to list notes", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to retrieve notes"})
	}

	log.Info("Notes retrieved",
		zap.Uint("tenant_id", claims.TenantID),
		zap.Int("count", len(notes)))
	return c.JSON(http.StatusOK, notes)
}

// CreateNote handles creating a new note tagged with the caller's user
// and tenant. Free-plan tenants are capped; the count check and the
// insert are separate statements, so concurrent creates near the limit
// may transiently overshoot it.
func CreateNote(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordNoteOperation("create")

	claims, ok := middleware.ClaimsFromContext(c)
	if !ok {
		log.Error("Missing identity claims in context")
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}

	var req NoteRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	if req.Content == "" {
		log.Warn("Empty note content", zap.Uint("tenant_id", claims.TenantID))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "content is required"})
	}

	// Load the tenant's plan to decide whether the quota applies
	defer prometheus.TrackDBOperation("query")(time.Now())
	var tenant model.Tenant
	if result := database.GetDB().First(&tenant, claims.TenantID); result.Error != nil {
		log.Error("Failed to load tenant",
			zap.Uint("tenant_id", claims.TenantID),
			zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create note"})
	}

	if tenant.Plan == model.PlanFree {
		var count int64
		if result := database.GetDB().Model(&model.Note{}).
			Where("tenant_id = ?", claims.TenantID).
			Count(&count); result.Error != nil {
			log.Error("Failed to count notes", zap.Error(result.Error))
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create note"})
		}
		if count >= model.FreePlanNoteLimit {
			log.Warn("Free plan note limit reached",
				zap.Uint("tenant_id", claims.TenantID),
				zap.Int64("count", count))
			prometheus.QuotaExceededCounter.Inc()
			return c.JSON(http.StatusForbidden, echo.Map{
				"error": "Free plan limit of 3 notes reached. Please upgrade.",
			})
		}
	}

	note := model.Note{
		Content:  req.Content,
		UserID:   claims.UserID,
		TenantID: claims.TenantID,
	}

	defer prometheus.TrackDBOperation("insert")(time.Now())
	if result := database.GetDB().Create(&note); result.Error != nil {
		log.Error("Failed to create note",
			zap.Uint("tenant_id", claims.TenantID),
			zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create note"})
	}

	log.Info("Note created",
		zap.Uint("note_id", note.ID),
		zap.Uint("tenant_id", note.TenantID),
		zap.Uint("user_id", note.UserID))
	return c.JSON(http.StatusCreated, note)
}

// GetNote handles retrieving a single note by ID. The lookup is scoped
// to the caller's tenant, so a note belonging to another tenant is
// indistinguishable from a nonexistent one.
func GetNote(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordNoteOperation("get")

	claims, ok := middleware.ClaimsFromContext(c)
	if !ok {
		log.Error("Missing identity claims in context")
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}

	id := c.Param("id")

	defer prometheus.TrackDBOperation("query")(time.Now())
	var note model.Note
	result := database.GetDB().
		Where("id = ? AND tenant_id = ?", id, claims.TenantID).
		First(&note)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			log.Warn("Note not found",
				zap.String("note_id", id),
				zap.Uint("tenant_id", claims.TenantID))
			return c.JSON(http.StatusNotFound, echo.Map{"error": "note not found"})
		}
		log.Error("Failed to load note",
			zap.String("note_id", id),
			zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to retrieve note"})
	}

	return c.JSON(http.StatusOK, note)
}

// UpdateNote handles updating a note's content, scoped to the caller's
// tenant.
func UpdateNote(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordNoteOperation("update")

	claims, ok := middleware.ClaimsFromContext(c)
	if !ok {
		log.Error("Missing identity claims in context")
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}

	id := c.Param("id")

	var req NoteRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.String("note_id", id), zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	if req.Content == "" {
		log.Warn("Empty note content", zap.String("note_id", id))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "content is required"})
	}

	defer prometheus.TrackDBOperation("query")(time.Now())
	var note model.Note
	result := database.GetDB().
		Where("id = ? AND tenant_id = ?", id, claims.TenantID).
		First(&note)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			log.Warn("Note not found for update",
				zap.String("note_id", id),
				zap.Uint("tenant_id", claims.TenantID))
			return c.JSON(http.StatusNotFound, echo.Map{"error": "note not found"})
		}
		log.Error("Failed to load note for update",
			zap.String("note_id", id),
			zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update note"})
	}

	note.Content = req.Content

	defer prometheus.TrackDBOperation("update")(time.Now())
	if result := database.GetDB().Save(&note); result.Error != nil {
		log.Error("Failed to update note",
			zap.String("note_id", id),
			zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update note"})
	}

	log.Info("Note updated",
		zap.Uint("note_id", note.ID),
		zap.Uint("tenant_id", note.TenantID))
	return c.JSON(http.StatusOK, note)
}

// DeleteNote handles removing a note, scoped to the caller's tenant.
func DeleteNote(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordNoteOperation("delete")

	claims, ok := middleware.ClaimsFromContext(c)
	if !ok {
		log.Error("Missing identity claims in context")
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}

	id := c.Param("id")

	defer prometheus.TrackDBOperation("delete")(time.Now())
	result := database.GetDB().
		Where("id = ? AND tenant_id = ?", id, claims.TenantID).
		Delete(&model.Note{})
	if result.Error != nil {
		log.Error("Failed to delete note",
			zap.String("note_id", id),
			zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to delete note"})
	}

	if result.RowsAffected == 0 {
		log.Warn("Note not found for deletion",
			zap.String("note_id", id),
			zap.Uint("tenant_id", claims.TenantID))
		return c.JSON(http.StatusNotFound, echo.Map{"error": "note not found"})
	}

	log.Info("Note deleted",
		zap.String("note_id", id),
		zap.Uint("tenant_id", claims.TenantID))
	return c.NoContent(http.StatusNoContent)
}
