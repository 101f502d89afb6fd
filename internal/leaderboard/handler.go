// Package leaderboard serves and consumes the shared score board over HTTP.
//
// The wire format is shared with the web leaderboard: GET returns a JSON array
// of {username, score}, POST accepts {username, score} and answers with
// {success, message} or {error}.
package leaderboard

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/matryer/way"

	"github.com/vovakirdan/tracksnake/internal/snake"
	"github.com/vovakirdan/tracksnake/internal/storage"
)

// Path is the leaderboard route.
const Path = "/leaderboard"

// DefaultLimit is the number of entries served on GET.
const DefaultLimit = 8

// maxBodyBytes bounds POST payloads.
const maxBodyBytes = 4 << 10

type submitRequest struct {
	Username *string `json:"username"`
	Score    *int    `json:"score"`
}

type submitResponse struct {
	Success bool   `json:"success,omitempty"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Handler exposes a snake.Leaderboard over HTTP.
type Handler struct {
	board  snake.Leaderboard
	limit  int
	logger *log.Logger
	router *way.Router
}

// NewHandler creates a handler serving board. limit <= 0 uses DefaultLimit.
func NewHandler(board snake.Leaderboard, limit int, logger *log.Logger) *Handler {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}

	h := &Handler{
		board:  board,
		limit:  limit,
		logger: logger,
	}
	h.routes()
	return h
}

func (h *Handler) routes() {
	h.router = way.NewRouter()
	h.router.HandleFunc("GET", Path, h.handleTop)
	h.router.HandleFunc("POST", Path, h.handleSubmit)
	h.router.HandleFunc("OPTIONS", Path, h.handlePreflight)
}

// Mount registers the leaderboard routes on an existing router.
func (h *Handler) Mount(r *way.Router) {
	r.Handle("*", Path, h)
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, POST")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
	h.router.ServeHTTP(w, r)
}

func (h *Handler) handleTop(w http.ResponseWriter, r *http.Request) {
	limit := h.limit
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 100 {
			limit = n
		}
	}

	entries, err := h.board.Top(r.Context(), limit)
	if err != nil {
		h.logger.Error("leaderboard query failed", "err", err)
		writeJSON(w, http.StatusInternalServerError, submitResponse{Error: err.Error()})
		return
	}
	if entries == nil {
		entries = []snake.LeaderEntry{}
	}
	writeJSON(w, http.StatusOK, entries)
}

func (h *Handler) handleSubmit(w http.ResponseWriter, r *http.Request) {
	var req submitRequest
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(&req); err != nil || req.Username == nil || req.Score == nil {
		writeJSON(w, http.StatusBadRequest, submitResponse{Error: "Missing username or score"})
		return
	}

	if err := h.board.Submit(r.Context(), *req.Username, *req.Score); err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, storage.ErrInvalidUsername) {
			status = http.StatusBadRequest
		}
		h.logger.Warn("score submit failed", "username", *req.Username, "score", *req.Score, "err", err)
		writeJSON(w, status, submitResponse{Error: err.Error()})
		return
	}

	h.logger.Info("score submitted", "username", *req.Username, "score", *req.Score)
	writeJSON(w, http.StatusOK, submitResponse{Success: true, Message: "Score added successfully"})
}

func (h *Handler) handlePreflight(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusNoContent)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // Best-effort response write
}
