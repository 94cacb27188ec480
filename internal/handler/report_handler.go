package handler

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"mediscan/internal/domain"
	"mediscan/internal/service"
)

// disclaimer accompanies every analysis output.
const disclaimer = "This system is for informational purposes only and does not provide medical diagnosis."

// ReportHandler handles medical report endpoints.
type ReportHandler struct {
	svc service.ReportService
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(svc service.ReportService) *ReportHandler {
	return &ReportHandler{svc: svc}
}

// Upload handles POST /api/v1/reports/upload
func (h *ReportHandler) Upload(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		RespondError(c, http.StatusBadRequest, "MISSING_FILE", "multipart field 'file' is required")
		return
	}

	f, err := fileHeader.Open()
	if err != nil {
		RespondError(c, http.StatusBadRequest, "UNREADABLE_FILE", "could not read uploaded file")
		return
	}
	defer func() { _ = f.Close() }()

	content, err := io.ReadAll(f)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "UNREADABLE_FILE", "could not read uploaded file")
		return
	}

	report, err := h.svc.UploadAndAnalyze(c.Request.Context(), &service.UploadInput{
		Filename: fileHeader.Filename,
		Content:  content,
	})
	if err != nil {
		HandleError(c, err)
		return
	}

	if report.Status == domain.ReportStatusFailed {
		RespondError(c, http.StatusInternalServerError, "ANALYSIS_FAILED", "analysis failed, please try again later")
		return
	}

	RespondOK(c, reportView(report))
}

// List handles GET /api/v1/reports
func (h *ReportHandler) List(c *gin.Context) {
	offset, limit := pagination(c)

	reports, total, err := h.svc.List(c.Request.Context(), offset, limit)
	if err != nil {
		HandleError(c, err)
		return
	}

	items := make([]gin.H, len(reports))
	for i := range reports {
		items[i] = listItemView(&reports[i])
	}
	RespondPaginated(c, items, PagMeta{Total: total, Offset: offset, Limit: limit})
}

// GetByID handles GET /api/v1/reports/:id
func (h *ReportHandler) GetByID(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	report, err := h.svc.GetByID(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, reportView(report))
}

// Export handles GET /api/v1/reports/:id/export
func (h *ReportHandler) Export(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	report, err := h.svc.GetByID(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return
	}

	export := gin.H{
		"id":         report.ID,
		"filename":   report.Filename,
		"status":     report.Status,
		"disclaimer": disclaimer,
		"analysis":   json.RawMessage(report.Analysis),
		"metadata": gin.H{
			"processing_time_ms": report.ProcessingTimeMS,
			"cached":             report.Cached,
			"created_at":         report.CreatedAt,
		},
	}

	body, err := json.MarshalIndent(export, "", "  ")
	if err != nil {
		HandleError(c, err)
		return
	}

	filename := fmt.Sprintf("medical_analysis_%s.json", report.ID.String()[:8])
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/json", body)
}

// Delete handles DELETE /api/v1/reports/:id
func (h *ReportHandler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		HandleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func parseID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "report id must be a valid UUID")
		return uuid.Nil, false
	}
	return id, true
}

func pagination(c *gin.Context) (offset, limit int) {
	offset, _ = strconv.Atoi(c.DefaultQuery("offset", "0"))
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", "20"))
	if offset < 0 {
		offset = 0
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return offset, limit
}

func reportView(r *domain.Report) gin.H {
	return gin.H{
		"id":                 r.ID,
		"filename":           r.Filename,
		"file_type":          r.FileType,
		"file_size_bytes":    r.FileSizeBytes,
		"status":             r.Status,
		"specialty":          r.Specialty,
		"confidence_score":   r.ConfidenceScore,
		"analysis":           json.RawMessage(r.Analysis),
		"processing_time_ms": r.ProcessingTimeMS,
		"cached":             r.Cached,
		"disclaimer":         disclaimer,
		"created_at":         r.CreatedAt,
	}
}

func listItemView(r *domain.Report) gin.H {
	return gin.H{
		"id":               r.ID,
		"filename":         r.Filename,
		"file_type":        r.FileType,
		"status":           r.Status,
		"specialty":        r.Specialty,
		"confidence_score": r.ConfidenceScore,
		"cached":           r.Cached,
		"created_at":       r.CreatedAt,
	}
}
