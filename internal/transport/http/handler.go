package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/WordPressNewsAggregator/internal/app"
	"github.com/WordPressNewsAggregator/internal/listing"
	"github.com/gorilla/mux"
)

// NewsService is the part of the aggregator service the routes drive.
type NewsService interface {
	View() app.View
	ViewPage(page int) app.View
	GoTo(page int) (app.View, bool)
	Sort(key listing.SortKey, dir listing.Direction) app.View
	Reload(ctx context.Context) *app.Session
	Current() *app.Session
}

type Handler struct {
	ctx context.Context
	svc NewsService
}

func NewHandler(ctx context.Context, svc NewsService) *Handler {
	return &Handler{ctx: ctx, svc: svc}
}

type errorResponse struct {
	Error string `json:"error"`
}

type reloadResponse struct {
	SessionID string `json:"session_id"`
}

// GetPosts renders the current page, or the page named by a valid page
// parameter. It never moves the cursor.
func (h *Handler) GetPosts(w http.ResponseWriter, r *http.Request) {
	if raw := r.URL.Query().Get("page"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil {
			writeJSON(w, http.StatusOK, h.svc.ViewPage(n))
			return
		}
	}
	writeJSON(w, http.StatusOK, h.svc.View())
}

// GoToPage moves the cursor. Out-of-range pages leave it where it is.
func (h *Handler) GoToPage(w http.ResponseWriter, r *http.Request) {
	n, err := strconv.Atoi(mux.Vars(r)["page"])
	if err != nil {
		writeJSON(w, http.StatusOK, h.svc.View())
		return
	}
	v, _ := h.svc.GoTo(n)
	writeJSON(w, http.StatusOK, v)
}

// SortPosts re-sorts the collection. A missing key or direction keeps the
// current one.
func (h *Handler) SortPosts(w http.ResponseWriter, r *http.Request) {
	state := h.svc.Current().State()
	key, dir := state.SortKey, state.SortDir

	q := r.URL.Query()
	if raw := q.Get("key"); raw != "" {
		k, err := listing.ParseSortKey(raw)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
			return
		}
		key = k
	}
	if raw := q.Get("direction"); raw != "" {
		d, err := listing.ParseDirection(raw)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
			return
		}
		dir = d
	}

	writeJSON(w, http.StatusOK, h.svc.Sort(key, dir))
}

func (h *Handler) ReloadPosts(w http.ResponseWriter, _ *http.Request) {
	sess := h.svc.Reload(h.ctx)
	writeJSON(w, http.StatusAccepted, reloadResponse{SessionID: sess.ID()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Warn("Failed to write response", "error", err)
	}
}
