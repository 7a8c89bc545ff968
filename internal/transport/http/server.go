package http

import (
	"context"
	"fmt"
	"net/http"

	"github.com/WordPressNewsAggregator/pkg/config"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func NewHTTPServer(ctx context.Context, cfg *config.Config, svc NewsService) *http.Server {
	r := NewRouter(ctx, svc)

	return &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: r,
	}
}

// NewRouter registers the view, health and metrics routes. Loads started
// through the reload route run under ctx.
func NewRouter(ctx context.Context, svc NewsService) *mux.Router {
	h := NewHandler(ctx, svc)

	r := mux.NewRouter()
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = fmt.Fprintf(w, "OK")
	}).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.Handler())

	r.HandleFunc("/posts", h.GetPosts).Methods(http.MethodGet)
	r.HandleFunc("/posts/page/{page:[0-9]+}", h.GoToPage).Methods(http.MethodPost)
	r.HandleFunc("/posts/sort", h.SortPosts).Methods(http.MethodPost)
	r.HandleFunc("/posts/reload", h.ReloadPosts).Methods(http.MethodPost)
	return r
}
