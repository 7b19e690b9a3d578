package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	mdwerror "github.com/msto63/lexzig/foundation/core/error"
	"github.com/msto63/lexzig/foundation/lexzig/ast"
	"github.com/msto63/lexzig/foundation/lexzig/lexer"
	"github.com/msto63/lexzig/internal/analyzer/service"
	"github.com/msto63/lexzig/internal/analyzer/store"
	"github.com/msto63/lexzig/pkg/core/health"
	"github.com/msto63/lexzig/pkg/core/logging"
	"github.com/msto63/lexzig/pkg/core/version"
)

// AnalysisRequest is the body of the analyze and tokens routes
type AnalysisRequest struct {
	Code *string `json:"code"`
}

// AnalysisData is the success payload of the analyze route
type AnalysisData struct {
	Tokens []lexer.Token `json:"tokens"`
	AST    *ast.Program  `json:"ast"`
}

// TokensData is the success payload of the tokens route
type TokensData struct {
	Tokens []lexer.Token `json:"tokens"`
}

// DataResponse wraps every successful payload
type DataResponse struct {
	Data interface{} `json:"data"`
}

// ErrorResponse is returned for every failed request
type ErrorResponse struct {
	Detail    string `json:"detail"`
	Code      string `json:"code,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

// HistoryResponse lists stored analyses
type HistoryResponse struct {
	Records []*store.Record `json:"records"`
	Total   int             `json:"total"`
	Stats   *store.Stats    `json:"stats,omitempty"`
}

// Handler routes the REST API
type Handler struct {
	svc            *service.Service
	health         *health.Registry
	logger         *logging.Logger
	maxRequestSize int64
}

// NewHandler creates a new API handler
func NewHandler(svc *service.Service, registry *health.Registry, logger *logging.Logger, maxRequestSize int64) *Handler {
	return &Handler{
		svc:            svc,
		health:         registry,
		logger:         logger,
		maxRequestSize: maxRequestSize,
	}
}

// ServeHTTP implements http.Handler
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// The bare root keeps the original single-route API
	if r.URL.Path == "/" {
		h.handleAnalyze(w, r)
		return
	}

	path := strings.TrimPrefix(r.URL.Path, "/api/v1")
	path = strings.Trim(path, "/")

	switch path {
	case "analyze":
		h.handleAnalyze(w, r)
	case "tokens":
		h.handleTokens(w, r)
	case "health":
		h.handleHealth(w, r)
	case "history":
		h.handleHistory(w, r)
	case "version":
		h.handleVersion(w, r)
	default:
		h.writeError(w, http.StatusNotFound, "not_found", "Not Found")
	}
}

func (h *Handler) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	if !h.requireMethod(w, r, http.MethodPost) {
		return
	}
	code, ok := h.decodeCode(w, r)
	if !ok {
		return
	}

	result, err := h.svc.Analyze(r.Context(), service.Request{
		Code:      code,
		Origin:    store.OriginHTTP,
		RequestID: r.Header.Get(RequestIDHeader),
	})
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	if !result.OK() {
		h.writeServiceError(w, r, result.Diagnostics.AsError())
		return
	}

	h.writeJSON(w, http.StatusOK, DataResponse{Data: AnalysisData{
		Tokens: result.Tokens,
		AST:    result.Program,
	}})
}

func (h *Handler) handleTokens(w http.ResponseWriter, r *http.Request) {
	if !h.requireMethod(w, r, http.MethodPost) {
		return
	}
	code, ok := h.decodeCode(w, r)
	if !ok {
		return
	}

	tokens, diags, err := h.svc.Tokenize(r.Context(), service.Request{
		Code:      code,
		Origin:    store.OriginHTTP,
		RequestID: r.Header.Get(RequestIDHeader),
	})
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	if len(diags) > 0 {
		h.writeServiceError(w, r, diags.AsError())
		return
	}
	if tokens == nil {
		tokens = []lexer.Token{}
	}

	h.writeJSON(w, http.StatusOK, DataResponse{Data: TokensData{Tokens: tokens}})
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	if !h.requireMethod(w, r, http.MethodGet) {
		return
	}

	report := h.health.Check(r.Context())
	status := http.StatusOK
	if !report.Healthy() {
		status = http.StatusServiceUnavailable
	}
	h.writeJSON(w, status, report)
}

func (h *Handler) handleHistory(w http.ResponseWriter, r *http.Request) {
	if !h.requireMethod(w, r, http.MethodGet) {
		return
	}

	filter := store.Filter{
		Origin:     store.Origin(r.URL.Query().Get("origin")),
		FailedOnly: r.URL.Query().Get("failed") == "true",
	}
	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 1 || limit > 1000 {
			h.writeError(w, http.StatusBadRequest, string(mdwerror.CodeInvalidInput), "limit must be between 1 and 1000")
			return
		}
		filter.Limit = limit
	}

	records, err := h.svc.History(r.Context(), filter)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	stats, err := h.svc.HistoryStats(r.Context())
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusOK, DataResponse{Data: HistoryResponse{
		Records: records,
		Total:   len(records),
		Stats:   stats,
	}})
}

func (h *Handler) handleVersion(w http.ResponseWriter, r *http.Request) {
	if !h.requireMethod(w, r, http.MethodGet) {
		return
	}
	h.writeJSON(w, http.StatusOK, DataResponse{Data: version.Get()})
}

// decodeCode reads {"code": "..."} and reports malformed bodies
func (h *Handler) decodeCode(w http.ResponseWriter, r *http.Request) (string, bool) {
	body := http.MaxBytesReader(w, r.Body, h.maxRequestSize)
	defer body.Close()

	var req AnalysisRequest
	if err := json.NewDecoder(body).Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &tooLarge):
			h.writeError(w, http.StatusRequestEntityTooLarge, string(mdwerror.CodeInputTooLarge), "request body too large")
		case errors.Is(err, io.EOF):
			h.writeError(w, http.StatusBadRequest, string(mdwerror.CodeInvalidInput), "request body is empty")
		default:
			h.writeError(w, http.StatusBadRequest, string(mdwerror.CodeInvalidInput), "invalid JSON: "+err.Error())
		}
		return "", false
	}
	if req.Code == nil {
		h.writeError(w, http.StatusBadRequest, string(mdwerror.CodeInvalidInput), "field 'code' is required")
		return "", false
	}
	return *req.Code, true
}

func (h *Handler) requireMethod(w http.ResponseWriter, r *http.Request, method string) bool {
	if r.Method == method {
		return true
	}
	w.Header().Set("Allow", method)
	h.writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "Method Not Allowed")
	return false
}

// writeServiceError maps a structured error onto its HTTP status and tags
// it with the request id
func (h *Handler) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	code := mdwerror.GetCode(err)
	switch {
	case errors.Is(err, context.Canceled):
		code = mdwerror.CodeCanceled
	case errors.Is(err, context.DeadlineExceeded):
		code = mdwerror.CodeTimeout
	}

	var mdwErr *mdwerror.Error
	if !errors.As(err, &mdwErr) {
		mdwErr = mdwerror.Wrap(err, "request failed").WithCode(code)
	}
	mdwErr.WithRequestID(r.Header.Get(RequestIDHeader))

	status := code.HTTPStatus()
	if status >= 500 {
		h.logger.WithRequestID(mdwErr.RequestID()).LogError(mdwErr)
	}
	h.writeJSON(w, status, ErrorResponse{
		Detail:    err.Error(),
		Code:      string(code),
		RequestID: mdwErr.RequestID(),
	})
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Warn("Failed to encode response", "error", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, code, detail string) {
	h.writeJSON(w, status, ErrorResponse{
		Detail: detail,
		Code:   code,
	})
}
