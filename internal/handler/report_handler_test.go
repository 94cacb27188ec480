package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"mediscan/internal/domain"
	"mediscan/internal/service"
)

type mockReportService struct {
	mock.Mock
}

func (m *mockReportService) UploadAndAnalyze(ctx context.Context, input *service.UploadInput) (*domain.Report, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Report), args.Error(1)
}

func (m *mockReportService) GetByID(ctx context.Context, id uuid.UUID) (*domain.Report, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Report), args.Error(1)
}

func (m *mockReportService) List(ctx context.Context, offset, limit int) ([]domain.Report, int, error) {
	args := m.Called(ctx, offset, limit)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]domain.Report), args.Int(1), args.Error(2)
}

func (m *mockReportService) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func reportRouter(svc service.ReportService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewReportHandler(svc)
	r := gin.New()
	reports := r.Group("/api/v1/reports")
	{
		reports.POST("/upload", h.Upload)
		reports.GET("", h.List)
		reports.GET("/:id", h.GetByID)
		reports.GET("/:id/export", h.Export)
		reports.DELETE("/:id", h.Delete)
	}
	return r
}

func multipartUpload(t *testing.T, filename, content string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return &buf, w.FormDataContentType()
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) APIResponse {
	t.Helper()
	var resp APIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func completedReport() *domain.Report {
	specialty := "Cardiology"
	confidence := 0.88
	return &domain.Report{
		ID:              uuid.New(),
		Filename:        "report.txt",
		FileType:        domain.FileTypeTXT,
		FileSizeBytes:   256,
		Status:          domain.ReportStatusCompleted,
		Specialty:       &specialty,
		ConfidenceScore: &confidence,
		Analysis:        json.RawMessage(`{"symptoms":["chest pain"],"confidence_score":0.88}`),
	}
}

func TestUpload_Success(t *testing.T) {
	report := completedReport()
	svc := new(mockReportService)
	svc.On("UploadAndAnalyze", mock.Anything, mock.MatchedBy(func(in *service.UploadInput) bool {
		return in.Filename == "report.txt" && len(in.Content) > 0
	})).Return(report, nil)

	body, contentType := multipartUpload(t, "report.txt", "patient presents with chest pain")
	req := httptest.NewRequest(http.MethodPost, "/api/v1/reports/upload", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	reportRouter(svc).ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	resp := decodeEnvelope(t, w)
	assert.True(t, resp.Success)

	data := resp.Data.(map[string]interface{})
	assert.Equal(t, report.ID.String(), data["id"])
	assert.Equal(t, "completed", data["status"])
	assert.Equal(t, "Cardiology", data["specialty"])
	assert.Contains(t, data["disclaimer"], "informational purposes only")
	svc.AssertExpectations(t)
}

func TestUpload_MissingFile(t *testing.T) {
	svc := new(mockReportService)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/reports/upload", nil)
	w := httptest.NewRecorder()
	reportRouter(svc).ServeHTTP(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)
	resp := decodeEnvelope(t, w)
	assert.False(t, resp.Success)
	assert.Equal(t, "MISSING_FILE", resp.Error.Code)
	svc.AssertNotCalled(t, "UploadAndAnalyze", mock.Anything, mock.Anything)
}

func TestUpload_DomainErrorsMapped(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"unsupported type", domain.ErrUnsupportedFileType, http.StatusBadRequest, "UNSUPPORTED_FILE_TYPE"},
		{"too large", domain.ErrFileTooLarge, http.StatusRequestEntityTooLarge, "FILE_TOO_LARGE"},
		{"too short", domain.ErrTextTooShort, http.StatusBadRequest, "TEXT_TOO_SHORT"},
		{"empty file", domain.ErrEmptyFile, http.StatusBadRequest, "EMPTY_FILE"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(mockReportService)
			svc.On("UploadAndAnalyze", mock.Anything, mock.Anything).Return(nil, tt.err)

			body, contentType := multipartUpload(t, "report.bin", "content")
			req := httptest.NewRequest(http.MethodPost, "/api/v1/reports/upload", body)
			req.Header.Set("Content-Type", contentType)
			w := httptest.NewRecorder()
			reportRouter(svc).ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			resp := decodeEnvelope(t, w)
			assert.Equal(t, tt.wantCode, resp.Error.Code)
		})
	}
}

func TestUpload_FailedAnalysisReturns500(t *testing.T) {
	msg := domain.ErrAnalysisFailed.Error()
	failed := &domain.Report{
		ID:           uuid.New(),
		Filename:     "report.txt",
		Status:       domain.ReportStatusFailed,
		ErrorMessage: &msg,
	}
	svc := new(mockReportService)
	svc.On("UploadAndAnalyze", mock.Anything, mock.Anything).Return(failed, nil)

	body, contentType := multipartUpload(t, "report.txt", "some clinical text")
	req := httptest.NewRequest(http.MethodPost, "/api/v1/reports/upload", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	reportRouter(svc).ServeHTTP(w, req)

	require.Equal(t, http.StatusInternalServerError, w.Code)
	resp := decodeEnvelope(t, w)
	assert.Equal(t, "ANALYSIS_FAILED", resp.Error.Code)
}

func TestGetByID_Success(t *testing.T) {
	report := completedReport()
	svc := new(mockReportService)
	svc.On("GetByID", mock.Anything, report.ID).Return(report, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/reports/"+report.ID.String(), nil)
	w := httptest.NewRecorder()
	reportRouter(svc).ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	resp := decodeEnvelope(t, w)
	data := resp.Data.(map[string]interface{})
	assert.Equal(t, report.ID.String(), data["id"])
}

func TestGetByID_NotFound(t *testing.T) {
	svc := new(mockReportService)
	svc.On("GetByID", mock.Anything, mock.Anything).Return(nil, domain.ErrReportNotFound)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/reports/"+uuid.NewString(), nil)
	w := httptest.NewRecorder()
	reportRouter(svc).ServeHTTP(w, req)

	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "REPORT_NOT_FOUND", decodeEnvelope(t, w).Error.Code)
}

func TestGetByID_InvalidUUID(t *testing.T) {
	svc := new(mockReportService)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/reports/not-a-uuid", nil)
	w := httptest.NewRecorder()
	reportRouter(svc).ServeHTTP(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "INVALID_ID", decodeEnvelope(t, w).Error.Code)
	svc.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
}

func TestList_PaginationDefaultsAndClamping(t *testing.T) {
	tests := []struct {
		name       string
		query      string
		wantOffset int
		wantLimit  int
	}{
		{"defaults", "", 0, 20},
		{"explicit", "?offset=40&limit=10", 40, 10},
		{"limit clamped", "?limit=500", 0, 20},
		{"negative offset clamped", "?offset=-5", 0, 20},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(mockReportService)
			svc.On("List", mock.Anything, tt.wantOffset, tt.wantLimit).
				Return([]domain.Report{*completedReport()}, 1, nil)

			req := httptest.NewRequest(http.MethodGet, "/api/v1/reports"+tt.query, nil)
			w := httptest.NewRecorder()
			reportRouter(svc).ServeHTTP(w, req)

			require.Equal(t, http.StatusOK, w.Code)
			resp := decodeEnvelope(t, w)
			require.NotNil(t, resp.Meta)
			assert.Equal(t, 1, resp.Meta.Total)
			assert.Equal(t, tt.wantLimit, resp.Meta.Limit)
			svc.AssertExpectations(t)
		})
	}
}

func TestExport_AttachmentWithDisclaimer(t *testing.T) {
	report := completedReport()
	svc := new(mockReportService)
	svc.On("GetByID", mock.Anything, report.ID).Return(report, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/reports/"+report.ID.String()+"/export", nil)
	w := httptest.NewRecorder()
	reportRouter(svc).ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), "attachment")
	assert.Contains(t, w.Header().Get("Content-Disposition"), "medical_analysis_")

	var export map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &export))
	assert.Contains(t, export["disclaimer"], "informational purposes only")
	assert.NotNil(t, export["analysis"])
}

func TestDelete_Success(t *testing.T) {
	id := uuid.New()
	svc := new(mockReportService)
	svc.On("Delete", mock.Anything, id).Return(nil)

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/reports/"+id.String(), nil)
	w := httptest.NewRecorder()
	reportRouter(svc).ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	svc.AssertExpectations(t)
}
