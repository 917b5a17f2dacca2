package handlers

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strings"

	"cloud.google.com/go/civil"
	"github.com/SscSPs/statement_dashboard/internal/apperrors"
	"github.com/SscSPs/statement_dashboard/internal/core/domain"
	portssvc "github.com/SscSPs/statement_dashboard/internal/core/ports/services"
	"github.com/SscSPs/statement_dashboard/internal/dto"
	"github.com/SscSPs/statement_dashboard/internal/middleware"
	"github.com/SscSPs/statement_dashboard/internal/utils/pagination"
	"github.com/gin-gonic/gin"
)

// multipartOverhead is the slack allowed on top of the file limit for the
// other form fields and part headers.
const multipartOverhead = 1 << 20

var errUploadTooLarge = errors.New("uploaded file is too large")

// dashboardHandler handles statement uploads and dashboard queries
type dashboardHandler struct {
	dashboardService portssvc.DashboardService
	maxUploadBytes   int64
}

// newDashboardHandler creates a new dashboardHandler
func newDashboardHandler(ds portssvc.DashboardService, maxUploadBytes int64) *dashboardHandler {
	return &dashboardHandler{
		dashboardService: ds,
		maxUploadBytes:   maxUploadBytes,
	}
}

// registerDashboardRoutes registers vendor, parse and dashboard routes.
// Upload routes are wrapped by uploadMiddleware (rate limiting).
func registerDashboardRoutes(rg *gin.RouterGroup, ds portssvc.DashboardService, maxUploadBytes int64, uploadMiddleware ...gin.HandlerFunc) {
	h := newDashboardHandler(ds, maxUploadBytes)

	rg.GET("/vendors", h.listVendors)

	uploads := rg.Group("", uploadMiddleware...)
	{
		uploads.POST("/statements/parse", h.parseStatement)
		uploads.POST("/dashboard", h.buildDashboard)
	}
}

// listVendors godoc
// @Summary List statement vendors
// @Description Lists the vendor names accepted by the upload endpoints.
// @Tags statements
// @Produce json
// @Success 200 {object} dto.VendorsResponse
// @Router /vendors [get]
func (h *dashboardHandler) listVendors(c *gin.Context) {
	c.JSON(http.StatusOK, dto.VendorsResponse{Vendors: h.dashboardService.ListVendors(c.Request.Context())})
}

// parseStatement godoc
// @Summary Parse a statement
// @Description Reads an uploaded export with the given vendor adapter and returns the canonical rows.
// @Tags statements
// @Accept multipart/form-data
// @Produce json
// @Param vendor formData string true "Vendor name"
// @Param file formData file true "Statement export (CSV or XLSX)"
// @Param normalize formData bool false "Apply normalization rules"
// @Param limit formData int false "Rows per page (1-1000)"
// @Param pageToken formData string false "Token of the next page"
// @Success 200 {object} dto.StatementResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 404 {object} map[string]string "Unknown vendor"
// @Failure 413 {object} map[string]string "File too large"
// @Failure 422 {object} map[string]string "Unreadable statement"
// @Router /statements/parse [post]
func (h *dashboardHandler) parseStatement(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUploadBytes+multipartOverhead)

	var req dto.ParseStatementRequest
	if err := c.ShouldBind(&req); err != nil {
		h.writeBindError(c, logger, err)
		return
	}

	content, err := h.readUpload(req.File)
	if err != nil {
		h.writeUploadError(c, logger, err)
		return
	}

	logger = logger.With(slog.String("vendor", req.Vendor), slog.String("filename", req.File.Filename))
	logger.Info("Received request to parse statement")

	stmt, err := h.dashboardService.ParseStatement(c.Request.Context(), portssvc.ParseStatementCmd{
		Vendor:    req.Vendor,
		Content:   content,
		Normalize: req.Normalize,
	})
	if err != nil {
		writeServiceError(c, logger, err, "Failed to parse statement")
		return
	}

	resp := dto.ToStatementResponse(stmt)
	resp.Transactions, resp.NextPageToken, err = paginate(resp.Transactions, req.Vendor, req.PageToken, req.Limit)
	if err != nil {
		logger.Warn("Invalid page token", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, resp)
}

// buildDashboard godoc
// @Summary Build a dashboard
// @Description Parses an uploaded export, applies the filters and returns totals, charts and rows.
// @Tags dashboard
// @Accept multipart/form-data
// @Produce json
// @Param vendor formData string true "Vendor name"
// @Param file formData file true "Statement export (CSV or XLSX)"
// @Param from formData string false "Period start (YYYY-MM-DD)"
// @Param to formData string false "Period end (YYYY-MM-DD)"
// @Param granularity formData string false "Week or Month" default(Month)
// @Param categories formData []string false "Selected categories"
// @Param subcategories formData []string false "Selected subcategories"
// @Param operations formData []string false "Selected operations"
// @Param plotHeight formData int false "Chart height (400-800)"
// @Param topK formData int false "Vendor ranking size"
// @Param normalize formData bool false "Apply normalization rules"
// @Param limit formData int false "Rows per page (1-1000)"
// @Param pageToken formData string false "Token of the next page"
// @Success 200 {object} dto.DashboardResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 404 {object} map[string]string "Unknown vendor"
// @Failure 413 {object} map[string]string "File too large"
// @Failure 422 {object} map[string]string "Unreadable statement"
// @Router /dashboard [post]
func (h *dashboardHandler) buildDashboard(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUploadBytes+multipartOverhead)

	var req dto.DashboardRequest
	if err := c.ShouldBind(&req); err != nil {
		h.writeBindError(c, logger, err)
		return
	}

	query, err := toDashboardQuery(req)
	if err != nil {
		logger.Warn("Invalid dashboard query", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	query.Content, err = h.readUpload(req.File)
	if err != nil {
		h.writeUploadError(c, logger, err)
		return
	}

	logger = logger.With(
		slog.String("vendor", req.Vendor),
		slog.String("granularity", string(query.Granularity)),
	)
	logger.Info("Received request to build dashboard")

	dashboard, err := h.dashboardService.BuildDashboard(c.Request.Context(), query)
	if err != nil {
		writeServiceError(c, logger, err, "Failed to build dashboard")
		return
	}

	resp := dto.ToDashboardResponse(dashboard)
	resp.Transactions, resp.NextPageToken, err = paginate(resp.Transactions, req.Vendor, req.PageToken, req.Limit)
	if err != nil {
		logger.Warn("Invalid page token", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, resp)
}

// paginate cuts rows to the page addressed by pageToken. Tokens are scoped to
// the vendor and the row count of the filtered table.
func paginate(rows []dto.TransactionResponse, vendor, pageToken string, limit int) ([]dto.TransactionResponse, string, error) {
	scope := fmt.Sprintf("%s:%d", vendor, len(rows))
	offset := 0
	if pageToken != "" {
		var err error
		if offset, err = pagination.DecodeOffsetToken(pageToken, scope); err != nil {
			return nil, "", err
		}
	}
	page, next := pagination.Page(rows, offset, limit)
	if next < 0 {
		return page, "", nil
	}
	return page, pagination.EncodeOffsetToken(scope, next), nil
}

func toDashboardQuery(req dto.DashboardRequest) (portssvc.DashboardQuery, error) {
	q := portssvc.DashboardQuery{
		ParseStatementCmd: portssvc.ParseStatementCmd{Vendor: req.Vendor, Normalize: req.Normalize},
		Categories:        selection(req.Categories),
		Subcategories:     selection(req.Subcategories),
		Operations:        selection(req.Operations),
		PlotHeight:        req.PlotHeight,
		TopK:              req.TopK,
	}
	if req.Granularity != "" {
		g, err := domain.ParseGranularity(req.Granularity)
		if err != nil {
			return q, err
		}
		q.Granularity = g
	}
	var err error
	if q.From, err = optionalDate(req.From); err != nil {
		return q, err
	}
	if q.To, err = optionalDate(req.To); err != nil {
		return q, err
	}
	if q.From != nil && q.To != nil && q.From.After(*q.To) {
		return q, fmt.Errorf("from %s is after to %s", q.From, q.To)
	}
	return q, nil
}

func optionalDate(s string) (*civil.Date, error) {
	if s == "" {
		return nil, nil
	}
	d, err := civil.ParseDate(s)
	if err != nil {
		return nil, fmt.Errorf("invalid date %q, use YYYY-MM-DD", s)
	}
	return &d, nil
}

// selection maps a repeated form field to a value set. An absent field is
// nil (every value); a field sent only with blank values is an empty set.
func selection(values []string) []string {
	if values == nil {
		return nil
	}
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func (h *dashboardHandler) readUpload(fh *multipart.FileHeader) ([]byte, error) {
	if fh.Size > h.maxUploadBytes {
		return nil, errUploadTooLarge
	}
	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("opening upload: %w", err)
	}
	defer f.Close()

	content, err := io.ReadAll(io.LimitReader(f, h.maxUploadBytes+1))
	if err != nil {
		return nil, fmt.Errorf("reading upload: %w", err)
	}
	if int64(len(content)) > h.maxUploadBytes {
		return nil, errUploadTooLarge
	}
	return content, nil
}

func (h *dashboardHandler) writeBindError(c *gin.Context, logger *slog.Logger, err error) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		logger.Warn("Request body too large", slog.Int64("limit", tooLarge.Limit))
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": errUploadTooLarge.Error()})
		return
	}
	logger.Warn("Failed to bind upload form", slog.String("error", err.Error()))
	c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
}

func (h *dashboardHandler) writeUploadError(c *gin.Context, logger *slog.Logger, err error) {
	if errors.Is(err, errUploadTooLarge) {
		logger.Warn("Uploaded file too large", slog.Int64("limit", h.maxUploadBytes))
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": err.Error()})
		return
	}
	logger.Error("Failed to read uploaded file", slog.String("error", err.Error()))
	c.JSON(http.StatusBadRequest, gin.H{"error": "Could not read uploaded file"})
}

// writeServiceError maps service errors onto HTTP responses.
func writeServiceError(c *gin.Context, logger *slog.Logger, err error, msg string) {
	var parseErr *apperrors.ParseError
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		logger.Warn("Unknown vendor", slog.String("error", err.Error()))
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.As(err, &parseErr):
		logger.Warn(msg, slog.String("error", err.Error()))
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":          parseErr.Error(),
			"missingColumns": parseErr.Missing,
		})
	case errors.Is(err, apperrors.ErrValidation):
		logger.Warn(msg, slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		logger.Error(msg, slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": msg})
	}
}
