// Package api exposes the ledger analysis over HTTP: a multipart upload
// endpoint that runs one isolated analysis per request. No state is shared
// between requests and nothing is persisted between runs.
package api

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/insightdelivered/ledger-analyzer/internal/engine"
	"github.com/insightdelivered/ledger-analyzer/internal/loader"
	"github.com/insightdelivered/ledger-analyzer/internal/models"
	"github.com/insightdelivered/ledger-analyzer/internal/writer"
)

// Version is reported by the health endpoint and analysis responses.
const Version = "1.0.0"

// maxUploadSize caps the accepted workbook size (32MB).
const maxUploadSize = 32 << 20

// AnalyzeResponse is the JSON response from the /api/analyze endpoint.
type AnalyzeResponse struct {
	Success      bool                    `json:"success"`
	Error        string                  `json:"error,omitempty"`
	RequestID    string                  `json:"requestId,omitempty"`
	Policy       string                  `json:"policy,omitempty"`
	Summary      []models.AccountSummary `json:"summary"`
	Detail       []models.BalanceEvent   `json:"detail"`
	RowCount     int                     `json:"rowCount"`
	AccountCount int                     `json:"accountCount"`
	EventCount   int                     `json:"eventCount"`
	Report       string                  `json:"report,omitempty"` // base64 .xlsx, when report=true
	Version      string                  `json:"version,omitempty"`
}

// Server holds the HTTP handlers for the API.
type Server struct {
	log zerolog.Logger
}

// NewServer creates the API server with the given logger.
func NewServer(log zerolog.Logger) *Server {
	return &Server{log: log}
}

// App builds the Fiber application with all routes registered.
func (s *Server) App() *fiber.App {
	app := fiber.New(fiber.Config{
		BodyLimit: maxUploadSize,
	})
	app.Get("/api/health", s.HandleHealth)
	app.Post("/api/analyze", s.HandleAnalyze)
	return app
}

// HandleHealth reports service liveness.
func (s *Server) HandleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "ok",
		"engine":  "fiber",
		"version": Version,
	})
}

// HandleAnalyze accepts a ledger workbook upload (form field "file"), runs
// the analysis under the requested policy (form value "policy", default
// vendor), and returns both result tables. With report=true the response
// also carries the two-sheet spreadsheet report, base64-encoded.
func (s *Server) HandleAnalyze(c *fiber.Ctx) error {
	requestID := uuid.NewString()
	log := s.log.With().Str("request_id", requestID).Logger()

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return writeError(c, fiber.StatusBadRequest, "No file uploaded. Use form field 'file'.")
	}

	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	if ext != ".xlsx" && ext != ".xls" {
		return writeError(c, fiber.StatusBadRequest, fmt.Sprintf("Unsupported file type %q. Upload a .xlsx or .xls workbook.", ext))
	}

	policy, err := models.ParsePolicy(c.FormValue("policy", string(models.PolicyVendor)))
	if err != nil {
		return writeError(c, fiber.StatusBadRequest, err.Error())
	}

	file, err := fileHeader.Open()
	if err != nil {
		return writeError(c, fiber.StatusInternalServerError, "Failed to read uploaded file.")
	}
	defer file.Close()

	rows, err := loader.Load(fileHeader.Filename, file)
	if err != nil {
		log.Warn().Err(err).Str("file", fileHeader.Filename).Msg("workbook rejected")
		return writeError(c, fiber.StatusUnprocessableEntity, fmt.Sprintf("Failed to load workbook: %v", err))
	}

	result, err := engine.Analyze(rows, policy)
	if err != nil {
		return writeError(c, fiber.StatusInternalServerError, err.Error())
	}

	resp := AnalyzeResponse{
		Success:      true,
		RequestID:    requestID,
		Policy:       string(result.Policy),
		Summary:      result.Summary,
		Detail:       result.Detail,
		RowCount:     result.RowCount,
		AccountCount: result.AccountCount,
		EventCount:   len(result.Detail),
		Version:      Version,
	}

	if c.FormValue("report") == "true" {
		var buf bytes.Buffer
		w := &writer.ReportWriter{}
		if err := w.Write(&buf, result); err != nil {
			return writeError(c, fiber.StatusInternalServerError, fmt.Sprintf("Report generation failed: %v", err))
		}
		resp.Report = base64.StdEncoding.EncodeToString(buf.Bytes())
	}

	log.Info().
		Str("file", fileHeader.Filename).
		Str("policy", string(policy)).
		Int("rows", result.RowCount).
		Int("accounts", result.AccountCount).
		Int("events", len(result.Detail)).
		Msg("analysis complete")

	return c.JSON(resp)
}

func writeError(c *fiber.Ctx, status int, msg string) error {
	return c.Status(status).JSON(AnalyzeResponse{
		Success: false,
		Error:   msg,
		Summary: []models.AccountSummary{},
		Detail:  []models.BalanceEvent{},
	})
}
