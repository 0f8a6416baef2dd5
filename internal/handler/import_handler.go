package handler

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sekolahku/pelajar-gateway/internal/importer"
	"github.com/sekolahku/pelajar-gateway/internal/middleware"
	"github.com/sekolahku/pelajar-gateway/internal/model"
	"github.com/sekolahku/pelajar-gateway/internal/response"
	"github.com/sekolahku/pelajar-gateway/internal/schoolapi"
	"github.com/sekolahku/pelajar-gateway/internal/service"
	"github.com/sekolahku/pelajar-gateway/internal/session"
	"github.com/sekolahku/pelajar-gateway/internal/validator"
)

// ImportHandler handles the admin-facing student import workflow.
type ImportHandler struct {
	importService  *service.ImportService
	maxUploadBytes int64
}

// NewImportHandler creates a new ImportHandler.
func NewImportHandler(importService *service.ImportService, maxUploadBytes int64) *ImportHandler {
	return &ImportHandler{
		importService:  importService,
		maxUploadBytes: maxUploadBytes,
	}
}

// sessionSummary shapes a session for API responses: counts and flags,
// never the full row list.
func sessionSummary(sess session.Session) gin.H {
	valid := sess.ValidCount()
	return gin.H{
		"id":               sess.ID,
		"created_at":       sess.CreatedAt,
		"expires_at":       sess.ExpiresAt,
		"reference_loaded": sess.Reference != nil,
		"reference_error":  sess.RefError,
		"total_rows":       len(sess.Rows),
		"valid_rows":       valid,
		"invalid_rows":     len(sess.Rows) - valid,
		"submitting":       sess.Submitting,
		"result":           sess.Result,
	}
}

// CreateSession godoc
// POST /api/v1/admin/imports
// Opens a new import session with a fresh reference data snapshot.
func (h *ImportHandler) CreateSession(c *gin.Context) {
	sess, err := h.importService.CreateSession(c.Request.Context(), middleware.BearerToken(c))
	if err != nil {
		if errors.Is(err, schoolapi.ErrTokenExpired) {
			response.Fail(c, http.StatusUnauthorized, response.ErrTokenExpired)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"session": sessionSummary(sess)})
}

// GetSession godoc
// GET /api/v1/admin/imports/:id
// Returns the session summary: counts, flags, and any submission result.
func (h *ImportHandler) GetSession(c *gin.Context) {
	sess, err := h.importService.GetSession(c.Param("id"))
	if err != nil {
		if errors.Is(err, session.ErrNotFound) {
			response.Fail(c, http.StatusNotFound, response.ErrSessionNotFound)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"session": sessionSummary(sess)})
}

// DeleteSession godoc
// DELETE /api/v1/admin/imports/:id
// Discards the session and its rows.
func (h *ImportHandler) DeleteSession(c *gin.Context) {
	if err := h.importService.DeleteSession(c.Param("id")); err != nil {
		if errors.Is(err, session.ErrNotFound) {
			response.Fail(c, http.StatusNotFound, response.ErrSessionNotFound)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}

// UploadFile godoc
// POST /api/v1/admin/imports/:id/file
// Parses an uploaded spreadsheet into the session, replacing any
// previously loaded rows.
func (h *ImportHandler) UploadFile(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrFileRequired)
		return
	}
	defer file.Close()

	if header.Size > h.maxUploadBytes {
		response.Fail(c, http.StatusBadRequest, response.ErrFileTooLarge)
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	sess, err := h.importService.LoadFile(c.Param("id"), header.Filename, data)
	if err != nil {
		switch {
		case errors.Is(err, session.ErrNotFound):
			response.Fail(c, http.StatusNotFound, response.ErrSessionNotFound)
		case errors.Is(err, importer.ErrUnsupportedFileType):
			response.Fail(c, http.StatusBadRequest, response.ErrUnsupportedFile)
		case errors.Is(err, importer.ErrEmptyFile):
			response.Fail(c, http.StatusUnprocessableEntity, response.ErrEmptyFile)
		case errors.Is(err, importer.ErrUnreadableFile):
			response.Fail(c, http.StatusUnprocessableEntity, response.ErrUnreadableFile)
		default:
			response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		}
		return
	}

	response.Success(c, http.StatusOK, gin.H{"session": sessionSummary(sess)})
}

// ListRows godoc
// GET /api/v1/admin/imports/:id/rows
// Lists the session's parsed rows with pagination.
func (h *ImportHandler) ListRows(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "10"))

	rows, pagination, err := h.importService.ListRows(c.Param("id"), page, perPage)
	if err != nil {
		if errors.Is(err, session.ErrNotFound) {
			response.Fail(c, http.StatusNotFound, response.ErrSessionNotFound)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.SuccessWithPagination(c, http.StatusOK, gin.H{"rows": rows}, pagination)
}

// RemoveRow godoc
// DELETE /api/v1/admin/imports/:id/rows/:row_number
// Removes one row from the session by its sheet row number.
func (h *ImportHandler) RemoveRow(c *gin.Context) {
	rowNumber, err := strconv.Atoi(c.Param("row_number"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	sess, err := h.importService.RemoveRow(c.Param("id"), rowNumber)
	if err != nil {
		switch {
		case errors.Is(err, session.ErrNotFound):
			response.Fail(c, http.StatusNotFound, response.ErrSessionNotFound)
		case errors.Is(err, session.ErrRowNotFound):
			response.Fail(c, http.StatusNotFound, response.ErrRowNotFound)
		default:
			response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		}
		return
	}

	response.Success(c, http.StatusOK, gin.H{"session": sessionSummary(sess)})
}

// RemoveRows godoc
// POST /api/v1/admin/imports/:id/rows/remove
// Removes every listed row number; used for "remove all invalid".
func (h *ImportHandler) RemoveRows(c *gin.Context) {
	var req model.RemoveRowsRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	sess, removed, err := h.importService.RemoveRows(c.Param("id"), req.RowNumbers)
	if err != nil {
		if errors.Is(err, session.ErrNotFound) {
			response.Fail(c, http.StatusNotFound, response.ErrSessionNotFound)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"session": sessionSummary(sess), "removed": removed})
}

// Submit godoc
// POST /api/v1/admin/imports/:id/submit
// Submits the session's valid rows to the school API and relays the
// upstream summary.
func (h *ImportHandler) Submit(c *gin.Context) {
	result, err := h.importService.Submit(c.Request.Context(), c.Param("id"), middleware.BearerToken(c))
	if err != nil {
		var upstream *schoolapi.UpstreamError
		switch {
		case errors.Is(err, session.ErrNotFound):
			response.Fail(c, http.StatusNotFound, response.ErrSessionNotFound)
		case errors.Is(err, session.ErrSubmitInFlight):
			response.Fail(c, http.StatusConflict, response.ErrImportInFlight)
		case errors.Is(err, service.ErrNoValidRows):
			response.Fail(c, http.StatusUnprocessableEntity, response.ErrNoValidRows)
		case errors.Is(err, schoolapi.ErrTokenExpired):
			response.Fail(c, http.StatusUnauthorized, response.ErrTokenExpired)
		case errors.As(err, &upstream):
			response.FailWithMessage(c, http.StatusBadGateway, response.ErrUpstream, upstream.Message)
		default:
			response.Fail(c, http.StatusBadGateway, response.ErrUpstream)
		}
		return
	}

	response.Success(c, http.StatusOK, gin.H{"result": result})
}
