package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"fraud_report/internal/output"
	"fraud_report/internal/processor"
	"fraud_report/pkg/crypto"
	"log/slog"
	"mime"
	"net/http"
	"time"
)

const (
	HeaderBatchID   = "X-Batch-ID"
	HeaderSignature = "X-Report-Signature"

	maxBodyBytes = 32 << 20
)

var ErrBatchTooLarge = errors.New("batch exceeds maximum size")

type APIHandler struct {
	processor    *processor.TransactionProcessor
	signer       *crypto.Signer
	logger       *slog.Logger
	maxBatchSize int
}

func NewAPIHandler(
	processor *processor.TransactionProcessor,
	signer *crypto.Signer,
	maxBatchSize int,
	logger *slog.Logger,
) *APIHandler {
	if logger == nil {
		logger = slog.Default()
	}

	return &APIHandler{
		processor:    processor,
		signer:       signer,
		logger:       logger,
		maxBatchSize: maxBatchSize,
	}
}

type CreateReportRequest struct {
	Records []string `json:"records"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

// CreateReportHandler scores a batch. The body is either JSON
// {"records": [...]} or text/plain with one record per line.
func (h *APIHandler) CreateReportHandler(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	records, err := h.readRecords(r)
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			h.sendError(w, "Request body too large", http.StatusRequestEntityTooLarge, "BODY_TOO_LARGE")
			return
		}
		h.sendError(w, "Invalid request body", http.StatusBadRequest, "INVALID_REQUEST")
		return
	}

	if h.maxBatchSize > 0 && len(records) > h.maxBatchSize {
		h.sendError(w, fmt.Sprintf("%v: %d > %d", ErrBatchTooLarge, len(records), h.maxBatchSize),
			http.StatusRequestEntityTooLarge, "BATCH_TOO_LARGE")
		return
	}

	result := h.processor.Process(r.Context(), records)

	body, err := output.Marshal(result.Report)
	if err != nil {
		h.logger.Error("Failed to encode report",
			slog.String("batch_id", result.ID),
			slog.String("error", err.Error()))
		h.sendError(w, "Failed to encode report", http.StatusInternalServerError, "SERVER_ERROR")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set(HeaderBatchID, result.ID)
	w.Header().Set(HeaderSignature, h.signer.SignReport(result.ID, body))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		h.logger.Error("Failed to write report", slog.String("error", err.Error()))
	}
}

func (h *APIHandler) HealthCheckHandler(w http.ResponseWriter, r *http.Request) {
	response := map[string]interface{}{
		"status":    "healthy",
		"timestamp": time.Now().UTC(),
		"version":   "1.0.0",
	}
	h.sendJSON(w, response, http.StatusOK)
}

func (h *APIHandler) readRecords(r *http.Request) ([]string, error) {
	mediaType := "application/json"
	if ct := r.Header.Get("Content-Type"); ct != "" {
		parsed, _, err := mime.ParseMediaType(ct)
		if err != nil {
			return nil, fmt.Errorf("invalid content type: %w", err)
		}
		mediaType = parsed
	}

	if mediaType == "text/plain" {
		return processor.ReadRecords(r.Body)
	}

	var req CreateReportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return nil, fmt.Errorf("invalid request body: %w", err)
	}
	if req.Records == nil {
		req.Records = []string{}
	}
	return req.Records, nil
}

func (h *APIHandler) sendJSON(w http.ResponseWriter, data interface{}, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("Failed to encode JSON response", slog.String("error", err.Error()))
	}
}

func (h *APIHandler) sendError(w http.ResponseWriter, message string, statusCode int, code string) {
	errorResponse := ErrorResponse{
		Error: message,
		Code:  code,
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(errorResponse)

	h.logger.Warn("API error response",
		slog.String("message", message),
		slog.String("code", code),
		slog.Int("status", statusCode))
}

func (h *APIHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/v1/reports", h.CreateReportHandler)
	mux.HandleFunc("GET /api/health", h.HealthCheckHandler)
}
