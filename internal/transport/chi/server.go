package chi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strconv"

	gochi "github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/loomstack/termdex/internal/domain"
	"github.com/loomstack/termdex/internal/domain/document"
	exportuc "github.com/loomstack/termdex/internal/usecase/export"
	healthuc "github.com/loomstack/termdex/internal/usecase/health"
	similarityuc "github.com/loomstack/termdex/internal/usecase/similarity"
)

// TermFile and LabelFile are the output names written by the sLDA export
// endpoint under the configured output directory.
const (
	TermFile  = exportuc.TermFile
	LabelFile = exportuc.LabelFile
)

// ErrorCode identifies an error class in the JSON error envelope.
type ErrorCode string

// Error codes returned by the API.
const (
	CodeBadRequest       ErrorCode = "bad_request"
	CodeValidationFailed ErrorCode = "validation_failed"
	CodeDocumentNotFound ErrorCode = "document_not_found"
	CodeUnknownMetric    ErrorCode = "unknown_metric"
	CodeInvalidCursor    ErrorCode = "invalid_cursor"
	CodeExportFailed     ErrorCode = "export_failed"
	CodeInternalError    ErrorCode = "internal_error"
)

// ErrorResponse is the JSON error envelope.
type ErrorResponse struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

// DocumentStore reads stored documents for the HTTP surface.
type DocumentStore interface {
	Get(id domain.DocID) (document.Document, error)
	List(cursor string, limit int) ([]document.Document, string, error)
}

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server exposes the document store and similarity services over HTTP.
type Server struct {
	docs            DocumentStore
	similarity      *similarityuc.Service
	export          *exportuc.Service
	health          *healthuc.Service
	logger          *zap.Logger
	exportDir       string
	defaultPageSize int
	maxPageSize     int
	errorHandlers   []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(
	docs DocumentStore,
	similarity *similarityuc.Service,
	export *exportuc.Service,
	health *healthuc.Service,
	logger *zap.Logger,
	exportDir string,
) *Server {
	s := &Server{
		docs:            docs,
		similarity:      similarity,
		export:          export,
		health:          health,
		logger:          logger,
		exportDir:       exportDir,
		defaultPageSize: 20,
		maxPageSize:     100,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrDocumentNotFound, http.StatusNotFound, CodeDocumentNotFound),
		sentinelHandler(domain.ErrUnknownMetric, http.StatusBadRequest, CodeUnknownMetric),
		sentinelHandler(domain.ErrInvalidCursor, http.StatusBadRequest, CodeInvalidCursor),
		sentinelHandler(domain.ErrLabelMapUnavailable, http.StatusServiceUnavailable, CodeExportFailed),
	}
	return s
}

// WithPagination configures page size limits for document listing.
func (s *Server) WithPagination(defaultPageSize, maxPageSize int) *Server {
	if defaultPageSize > 0 {
		s.defaultPageSize = defaultPageSize
	}
	if maxPageSize > 0 {
		s.maxPageSize = maxPageSize
	}
	return s
}

// Register mounts all API routes on the router.
func (s *Server) Register(r gochi.Router) {
	r.Get("/documents", s.ListDocuments)
	r.Get("/documents/{id}", s.GetDocument)
	r.Get("/documents/{id}/terms", s.GetDocumentTerms)
	r.Get("/documents/{id}/neighbors", s.GetNeighbors)
	r.Get("/similarity", s.Similarity)
	r.Post("/export/slda", s.ExportSLDA)
	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)
}

// documentResponse is the JSON shape of one document.
type documentResponse struct {
	ID            uint64  `json:"id"`
	Path          string  `json:"path"`
	Name          string  `json:"name"`
	Label         string  `json:"label"`
	Length        float64 `json:"length"`
	DistinctTerms int     `json:"distinct_terms"`
	Content       *string `json:"content,omitempty"`
}

func documentToResponse(doc *document.Document) documentResponse {
	resp := documentResponse{
		ID:            uint64(doc.ID()),
		Path:          doc.Path(),
		Name:          doc.Name(),
		Label:         string(doc.Label()),
		Length:        doc.Length(),
		DistinctTerms: len(doc.Frequencies()),
	}
	if doc.ContainsContent() {
		c := doc.Content()
		resp.Content = &c
	}
	return resp
}

// ListDocuments handles GET /documents.
func (s *Server) ListDocuments(w http.ResponseWriter, r *http.Request) {
	cursor := r.URL.Query().Get("cursor")

	limit := s.defaultPageSize
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			writeError(w, http.StatusBadRequest, CodeValidationFailed, "limit must be a positive integer")
			return
		}
		limit = parsed
	}
	if limit > s.maxPageSize {
		limit = s.maxPageSize
	}

	docs, nextCursor, err := s.docs.List(cursor, limit)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	items := make([]documentResponse, len(docs))
	for i := range docs {
		items[i] = documentToResponse(&docs[i])
	}

	resp := struct {
		Items      []documentResponse `json:"items"`
		HasMore    bool               `json:"has_more"`
		NextCursor *string            `json:"next_cursor,omitempty"`
	}{
		Items:   items,
		HasMore: nextCursor != "",
	}
	if nextCursor != "" {
		resp.NextCursor = &nextCursor
	}

	writeJSON(w, http.StatusOK, resp)
}

// GetDocument handles GET /documents/{id}.
func (s *Server) GetDocument(w http.ResponseWriter, r *http.Request) {
	id, ok := s.docID(w, r)
	if !ok {
		return
	}

	doc, err := s.docs.Get(id)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, documentToResponse(&doc))
}

// GetDocumentTerms handles GET /documents/{id}/terms. The term_data field
// carries the document's sLDA term line verbatim.
func (s *Server) GetDocumentTerms(w http.ResponseWriter, r *http.Request) {
	id, ok := s.docID(w, r)
	if !ok {
		return
	}

	doc, err := s.docs.Get(id)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, struct {
		ID       uint64 `json:"id"`
		TermData string `json:"term_data"`
	}{
		ID:       uint64(doc.ID()),
		TermData: doc.SLDATermData(),
	})
}

// neighborResponse is one ranked neighbor entry.
type neighborResponse struct {
	ID    uint64  `json:"id"`
	Name  string  `json:"name"`
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

// GetNeighbors handles GET /documents/{id}/neighbors.
func (s *Server) GetNeighbors(w http.ResponseWriter, r *http.Request) {
	id, ok := s.docID(w, r)
	if !ok {
		return
	}

	metric, err := queryMetric(r)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	topK := 0
	if raw := r.URL.Query().Get("k"); raw != "" {
		parsed, parseErr := strconv.Atoi(raw)
		if parseErr != nil || parsed <= 0 {
			writeError(w, http.StatusBadRequest, CodeValidationFailed, "k must be a positive integer")
			return
		}
		topK = parsed
	}

	neighbors, err := s.similarity.Neighbors(id, metric, topK)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	items := make([]neighborResponse, len(neighbors))
	for i, n := range neighbors {
		items[i] = neighborResponse{
			ID:    uint64(n.ID),
			Name:  n.Name,
			Label: string(n.Label),
			Score: n.Score,
		}
	}

	writeJSON(w, http.StatusOK, struct {
		Items  []neighborResponse `json:"items"`
		Metric string             `json:"metric"`
	}{Items: items, Metric: string(metric)})
}

// Similarity handles GET /similarity.
func (s *Server) Similarity(w http.ResponseWriter, r *http.Request) {
	a, err := strconv.ParseUint(r.URL.Query().Get("a"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, CodeValidationFailed, "a must be a document id")
		return
	}
	b, err := strconv.ParseUint(r.URL.Query().Get("b"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, CodeValidationFailed, "b must be a document id")
		return
	}

	metric, err := queryMetric(r)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	score, err := s.similarity.Compare(domain.DocID(a), domain.DocID(b), metric)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, struct {
		A      uint64  `json:"a"`
		B      uint64  `json:"b"`
		Metric string  `json:"metric"`
		Score  float64 `json:"score"`
	}{A: a, B: b, Metric: string(metric), Score: score})
}

// ExportSLDA handles POST /export/slda.
func (s *Server) ExportSLDA(w http.ResponseWriter, r *http.Request) {
	if err := os.MkdirAll(s.exportDir, 0o750); err != nil {
		s.logger.Error("create export dir", zap.Error(err))
		writeError(w, http.StatusInternalServerError, CodeExportFailed, "cannot create export directory")
		return
	}

	termsPath := filepath.Join(s.exportDir, TermFile)
	labelsPath := filepath.Join(s.exportDir, LabelFile)

	terms, err := os.Create(termsPath)
	if err != nil {
		s.logger.Error("create term file", zap.Error(err))
		writeError(w, http.StatusInternalServerError, CodeExportFailed, "cannot create export files")
		return
	}
	defer func() { _ = terms.Close() }()

	labels, err := os.Create(labelsPath)
	if err != nil {
		s.logger.Error("create label file", zap.Error(err))
		writeError(w, http.StatusInternalServerError, CodeExportFailed, "cannot create export files")
		return
	}
	defer func() { _ = labels.Close() }()

	n, err := s.export.Run(terms, labels)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	s.logger.Info("slda export complete",
		zap.Int("documents", n),
		zap.String("terms_path", termsPath),
		zap.String("labels_path", labelsPath),
	)

	writeJSON(w, http.StatusOK, struct {
		Documents  int    `json:"documents"`
		TermsPath  string `json:"terms_path"`
		LabelsPath string `json:"labels_path"`
	}{Documents: n, TermsPath: termsPath, LabelsPath: labelsPath})
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, struct {
		Status    string                          `json:"status"`
		Checks    map[string]healthuc.CheckResult `json:"checks"`
		Documents int                             `json:"documents"`
	}{
		Status:    string(report.Status),
		Checks:    report.Checks,
		Documents: report.Documents,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

// docID parses the {id} route parameter, writing a 400 on failure.
func (s *Server) docID(w http.ResponseWriter, r *http.Request) (domain.DocID, bool) {
	raw := gochi.URLParam(r, "id")
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, CodeValidationFailed, fmt.Sprintf("invalid document id %q", raw))
		return 0, false
	}
	return domain.DocID(id), true
}

// queryMetric reads the metric query parameter, defaulting to cosine.
func queryMetric(r *http.Request) (domain.Metric, error) {
	raw := r.URL.Query().Get("metric")
	if raw == "" {
		return domain.MetricCosine, nil
	}
	m, err := domain.ParseMetric(raw)
	if err != nil {
		return "", fmt.Errorf("parse metric: %w", err)
	}
	return m, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code ErrorCode, message string) {
	writeJSON(w, status, ErrorResponse{
		Code:    code,
		Message: message,
	})
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrDocumentNotFound,
		domain.ErrUnknownMetric,
		domain.ErrInvalidCursor,
		domain.ErrLabelMapUnavailable,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code ErrorCode) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	s.logger.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, CodeInternalError, "internal error")
}
