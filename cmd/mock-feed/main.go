package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/gorilla/mux"
)

// mockPost is one generated post, rendered differently by each API.
type mockPost struct {
	id      int
	title   string
	excerpt string
	content string
	date    time.Time
}

func generatePosts(n int) []mockPost {
	posts := make([]mockPost, n)
	now := time.Now().UTC().Truncate(time.Hour)
	for i := range posts {
		id := i + 1
		posts[i] = mockPost{
			id:      id,
			title:   fmt.Sprintf("Mock Post %d", id),
			excerpt: fmt.Sprintf("<p>Excerpt of mock post %d &amp; friends.</p>", id),
			content: fmt.Sprintf(`<p>Body of mock post %d.</p><img src="https://picsum.photos/seed/%d/300/200">`, id, id),
			date:    now.Add(-time.Duration(i) * 6 * time.Hour),
		}
	}
	return posts
}

func pageBounds(total, page, perPage int) (int, int) {
	start := min((page-1)*perPage, total)
	return start, min(start+perPage, total)
}

func intParam(r *http.Request, key string, fallback int) int {
	if v, err := strconv.Atoi(r.URL.Query().Get(key)); err == nil && v > 0 {
		return v
	}
	return fallback
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

func main() {
	total := 137
	if v, err := strconv.Atoi(os.Getenv("MOCK_POST_COUNT")); err == nil && v >= 0 {
		total = v
	}
	failPrimary := os.Getenv("MOCK_FAIL_PRIMARY") == "true"
	posts := generatePosts(total)
	host := "localhost:8081"

	r := mux.NewRouter()

	r.HandleFunc("/rest/v1.1/sites/{site}/posts", func(w http.ResponseWriter, r *http.Request) {
		if failPrimary {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "unavailable"})
			return
		}
		start, end := pageBounds(len(posts), intParam(r, "page", 1), intParam(r, "number", 20))
		items := make([]map[string]any, 0, end-start)
		for _, p := range posts[start:end] {
			items = append(items, map[string]any{
				"ID":             p.id,
				"title":          p.title,
				"excerpt":        p.excerpt,
				"content":        p.content,
				"URL":            fmt.Sprintf("http://%s/%d", host, p.id),
				"featured_image": fmt.Sprintf("https://picsum.photos/seed/f%d/300/200", p.id),
				"date":           p.date.Format(time.RFC3339),
			})
		}
		writeJSON(w, http.StatusOK, map[string]any{"found": len(posts), "posts": items})
	}).Methods(http.MethodGet)

	r.HandleFunc("/wp-json/wp/v2/posts", func(w http.ResponseWriter, r *http.Request) {
		page, perPage := intParam(r, "page", 1), intParam(r, "per_page", 10)
		start, end := pageBounds(len(posts), page, perPage)
		if start == end && page > 1 {
			writeJSON(w, http.StatusBadRequest, map[string]any{
				"code":    "rest_post_invalid_page_number",
				"message": "The page number requested is larger than the number of pages available.",
			})
			return
		}
		items := make([]map[string]any, 0, end-start)
		for _, p := range posts[start:end] {
			media := 0
			if p.id%2 == 0 {
				media = p.id
			}
			items = append(items, map[string]any{
				"id":             p.id,
				"date":           p.date.Add(2 * time.Hour).Format("2006-01-02T15:04:05"),
				"date_gmt":       p.date.Format("2006-01-02T15:04:05"),
				"link":           fmt.Sprintf("http://%s/?p=%d", host, p.id),
				"title":          map[string]string{"rendered": p.title},
				"excerpt":        map[string]string{"rendered": p.excerpt},
				"content":        map[string]string{"rendered": p.content},
				"featured_media": media,
			})
		}
		writeJSON(w, http.StatusOK, items)
	}).Methods(http.MethodGet)

	r.HandleFunc("/wp-json/wp/v2/media/{id:[0-9]+}", func(w http.ResponseWriter, r *http.Request) {
		id, _ := strconv.Atoi(mux.Vars(r)["id"])
		if id%10 == 0 {
			writeJSON(w, http.StatusNotFound, map[string]string{"code": "rest_post_invalid_id"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"id":         id,
			"source_url": fmt.Sprintf("https://picsum.photos/seed/m%d/300/200", id),
		})
	}).Methods(http.MethodGet)

	slog.Info("Mock WordPress server running on :8081", "posts", total, "fail_primary", failPrimary)
	if err := http.ListenAndServe(":8081", r); err != nil {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
}
