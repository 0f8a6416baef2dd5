package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sekolahku/pelajar-gateway/internal/importer"
	"github.com/sekolahku/pelajar-gateway/internal/response"
)

// xlsxContentType is the MIME type for .xlsx workbooks.
const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// TemplateHandler serves the student import template workbook.
type TemplateHandler struct{}

// NewTemplateHandler creates a new TemplateHandler.
func NewTemplateHandler() *TemplateHandler {
	return &TemplateHandler{}
}

// DownloadTemplate godoc
// GET /api/v1/public/import-template
// Sends the import template workbook with the canonical headers and
// sample rows.
func (h *TemplateHandler) DownloadTemplate(c *gin.Context) {
	data, err := importer.TemplateBytes()
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+importer.TemplateFilename+`"`)
	c.Data(http.StatusOK, xlsxContentType, data)
}
