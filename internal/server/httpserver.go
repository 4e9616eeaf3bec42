package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"
)

// mcpRequest is the body of a POST /mcp call.
type mcpRequest struct {
	Method string    `json:"method"`
	Params mcpParams `json:"params"`
}

// mcpParams carries the tool name and argument bag of a tools/call.
type mcpParams struct {
	Name      string         `json:"name"`
	Arguments map[string]any `json:"arguments"`
}

// HTTPServer exposes the dispatcher over a small HTTP surface: a
// health check and a single /mcp endpoint speaking the
// method-plus-params request shape.
type HTTPServer struct {
	dispatcher *Dispatcher
	addr       string
	service    string
	httpServer *http.Server
}

// NewHTTPServer creates an HTTP transport bound to the given address.
func NewHTTPServer(dispatcher *Dispatcher, addr string) *HTTPServer {
	return &HTTPServer{
		dispatcher: dispatcher,
		addr:       addr,
		service:    "boardsite-mcp",
	}
}

// Start begins serving and blocks until the listener closes.
func (h *HTTPServer) Start() error {
	mux := http.NewServeMux()
	mux.HandleFunc("/", h.handle)

	h.httpServer = &http.Server{
		Addr:         h.addr,
		Handler:      mux,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	slog.Info("Starting boardsite HTTP transport", "addr", h.addr)
	if err := h.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Stop shuts the listener down gracefully.
func (h *HTTPServer) Stop(ctx context.Context) error {
	if h.httpServer == nil {
		return nil
	}
	slog.Info("Stopping boardsite HTTP transport")
	return h.httpServer.Shutdown(ctx)
}

func (h *HTTPServer) handle(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	switch {
	case r.Method == http.MethodGet && (r.URL.Path == "/" || r.URL.Path == "/health"):
		h.writeJSON(w, http.StatusOK, map[string]string{
			"status":  "ok",
			"service": h.service,
		})

	case r.Method == http.MethodPost && r.URL.Path == "/mcp":
		h.handleMCP(w, r)

	default:
		http.Error(w, "Not Found", http.StatusNotFound)
	}
}

func (h *HTTPServer) handleMCP(w http.ResponseWriter, r *http.Request) {
	defer func() {
		if rec := recover(); rec != nil {
			slog.Error("Panic while serving /mcp", "panic", rec)
			h.writeError(w, http.StatusInternalServerError, fmt.Sprintf("%v", rec))
		}
	}()

	var req mcpRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	switch req.Method {
	case "tools/list":
		h.writeJSON(w, http.StatusOK, map[string]any{
			"tools": h.dispatcher.Tools(),
		})

	case "tools/call":
		result := h.dispatcher.Call(r.Context(), req.Params.Name, req.Params.Arguments)
		h.writeJSON(w, http.StatusOK, result)

	default:
		h.writeJSON(w, http.StatusOK, map[string]string{
			"error": "unknown method: " + req.Method,
		})
	}
}

func (h *HTTPServer) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Error("Failed to encode HTTP response", "error", err)
	}
}

func (h *HTTPServer) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, map[string]string{"error": message})
}
