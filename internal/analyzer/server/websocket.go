package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"time"

	"github.com/gorilla/websocket"

	mdwerror "github.com/msto63/lexzig/foundation/core/error"
	"github.com/msto63/lexzig/foundation/lexzig/ast"
	"github.com/msto63/lexzig/foundation/lexzig/diag"
	"github.com/msto63/lexzig/foundation/lexzig/lexer"
	"github.com/msto63/lexzig/internal/analyzer/service"
	"github.com/msto63/lexzig/internal/analyzer/store"
	"github.com/msto63/lexzig/pkg/core/logging"
)

const (
	wsReadTimeout = 120 * time.Second
	wsWriteWait   = 10 * time.Second
)

// WSMessage is a client message on the analysis socket
type WSMessage struct {
	Type    string          `json:"type"` // "analyze", "tokens", "ping"
	ID      string          `json:"id,omitempty"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// WSAnalyzePayload carries the source to analyze
type WSAnalyzePayload struct {
	Code string `json:"code"`
}

// WSResponse is a server message on the analysis socket
type WSResponse struct {
	Type    string      `json:"type"` // "result", "tokens", "pong", "error"
	ID      string      `json:"id,omitempty"`
	Payload interface{} `json:"payload,omitempty"`
}

// WSResultPayload is the full outcome of one analysis. Unlike the REST
// route, diagnostics travel alongside the partial tree.
type WSResultPayload struct {
	Tokens      []lexer.Token `json:"tokens"`
	AST         *ast.Program  `json:"ast,omitempty"`
	Diagnostics diag.List     `json:"diagnostics"`
}

// WSErrorPayload describes a failed message
type WSErrorPayload struct {
	Code   string `json:"code"`
	Detail string `json:"detail"`
}

// WebSocketHandler analyzes source sent over a WebSocket connection
type WebSocketHandler struct {
	svc            *service.Service
	logger         *logging.Logger
	upgrader       websocket.Upgrader
	maxMessageSize int64
	pingInterval   time.Duration
}

// NewWebSocketHandler creates a new WebSocket handler. Origins follow the
// CORS list; "*" accepts any origin. Messages larger than
// cfg.MaxRequestSize close the connection.
func NewWebSocketHandler(svc *service.Service, logger *logging.Logger, cfg Config) *WebSocketHandler {
	return &WebSocketHandler{
		svc:    svc,
		logger: logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin:     originChecker(cfg.AllowedOrigins),
		},
		maxMessageSize: cfg.MaxRequestSize,
		pingInterval:   cfg.WSPingInterval,
	}
}

func originChecker(allowed []string) func(r *http.Request) bool {
	set := make(map[string]bool, len(allowed))
	for _, o := range allowed {
		if o == "*" {
			return func(*http.Request) bool { return true }
		}
		set[o] = true
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		if set[origin] {
			return true
		}
		u, err := url.Parse(origin)
		return err == nil && u.Host == r.Host
	}
}

// ServeHTTP handles WebSocket upgrade and connections
func (h *WebSocketHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("WebSocket upgrade failed", "error", err)
		return
	}
	h.handleConnection(r.Context(), conn, r.Header.Get(RequestIDHeader))
}

// handleConnection serves one connection until the client leaves.
// Messages are answered in order. The server pings every pingInterval;
// a client that answers neither pings nor sends messages for
// wsReadTimeout is dropped.
func (h *WebSocketHandler) handleConnection(ctx context.Context, conn *websocket.Conn, requestID string) {
	defer conn.Close()

	logger := h.logger.WithRequestID(requestID)
	logger.Info("WebSocket connection established", "remote", conn.RemoteAddr().String())

	if h.maxMessageSize > 0 {
		conn.SetReadLimit(h.maxMessageSize)
	}
	conn.SetReadDeadline(time.Now().Add(wsReadTimeout))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(wsReadTimeout))
	})

	done := make(chan struct{})
	defer close(done)
	go h.pingLoop(conn, done)

	for {
		var msg WSMessage
		if err := conn.ReadJSON(&msg); err != nil {
			switch {
			case errors.Is(err, websocket.ErrReadLimit):
				logger.Warn("WebSocket message too large", "limit", h.maxMessageSize)
			case websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure):
				logger.Warn("WebSocket read error", "error", err)
			default:
				logger.Info("WebSocket connection closed")
			}
			return
		}
		conn.SetReadDeadline(time.Now().Add(wsReadTimeout))

		switch msg.Type {
		case "ping":
			h.sendResponse(conn, WSResponse{Type: "pong", ID: msg.ID})

		case "analyze", "tokens":
			var payload WSAnalyzePayload
			if err := json.Unmarshal(msg.Payload, &payload); err != nil {
				h.sendError(conn, msg.ID, string(mdwerror.CodeInvalidInput), "invalid payload")
				continue
			}
			req := service.Request{Code: payload.Code, Origin: store.OriginWebSocket, RequestID: requestID}
			if msg.Type == "tokens" {
				h.handleTokens(ctx, conn, msg.ID, req)
			} else {
				h.handleAnalyze(ctx, conn, msg.ID, req)
			}

		default:
			h.sendError(conn, msg.ID, "unknown_type", "unknown message type: "+msg.Type)
		}
	}
}

// pingLoop keeps the read deadline alive for idle clients. WriteControl
// may run concurrently with the response writes of the read loop.
func (h *WebSocketHandler) pingLoop(conn *websocket.Conn, done <-chan struct{}) {
	if h.pingInterval <= 0 {
		return
	}
	ticker := time.NewTicker(h.pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(wsWriteWait)); err != nil {
				return
			}
		}
	}
}

func (h *WebSocketHandler) handleAnalyze(ctx context.Context, conn *websocket.Conn, id string, req service.Request) {
	result, err := h.svc.Analyze(ctx, req)
	if err != nil {
		h.sendError(conn, id, string(mdwerror.GetCode(err)), err.Error())
		return
	}

	diags := result.Diagnostics
	if diags == nil {
		diags = diag.List{}
	}
	h.sendResponse(conn, WSResponse{
		Type: "result",
		ID:   id,
		Payload: WSResultPayload{
			Tokens:      result.Tokens,
			AST:         result.Program,
			Diagnostics: diags,
		},
	})
}

func (h *WebSocketHandler) handleTokens(ctx context.Context, conn *websocket.Conn, id string, req service.Request) {
	tokens, diags, err := h.svc.Tokenize(ctx, req)
	if err != nil {
		h.sendError(conn, id, string(mdwerror.GetCode(err)), err.Error())
		return
	}
	if tokens == nil {
		tokens = []lexer.Token{}
	}
	if diags == nil {
		diags = diag.List{}
	}
	h.sendResponse(conn, WSResponse{
		Type: "tokens",
		ID:   id,
		Payload: WSResultPayload{
			Tokens:      tokens,
			Diagnostics: diags,
		},
	})
}

// sendResponse sends a response message via WebSocket
func (h *WebSocketHandler) sendResponse(conn *websocket.Conn, resp WSResponse) {
	if err := conn.WriteJSON(resp); err != nil {
		h.logger.Warn("WebSocket write failed", "error", err)
	}
}

// sendError sends an error message via WebSocket
func (h *WebSocketHandler) sendError(conn *websocket.Conn, id, code, detail string) {
	h.sendResponse(conn, WSResponse{
		Type: "error",
		ID:   id,
		Payload: WSErrorPayload{
			Code:   code,
			Detail: detail,
		},
	})
}
