package app

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/WordPressNewsAggregator/internal/domain"
	"github.com/WordPressNewsAggregator/internal/infra/metrics"
	"github.com/WordPressNewsAggregator/internal/listing"
	"github.com/WordPressNewsAggregator/pkg/logging"
)

// NewsAggregatorService owns the current session and runs load cycles.
type NewsAggregatorService struct {
	aggregator *Aggregator
	progress   domain.ProgressPublisher
	pageSize   int
	sortKey    listing.SortKey
	sortDir    listing.Direction
	view       ViewOptions
	sampler    *logging.ErrorSampler

	current atomic.Pointer[Session]
	wg      sync.WaitGroup // In-flight loads, for graceful shutdown
}

func NewNewsAggregatorService(
	aggregator *Aggregator,
	progress domain.ProgressPublisher,
	pageSize int,
	sortKey listing.SortKey,
	sortDir listing.Direction,
	view ViewOptions,
) *NewsAggregatorService {
	s := &NewsAggregatorService{
		aggregator: aggregator,
		progress:   progress,
		pageSize:   pageSize,
		sortKey:    sortKey,
		sortDir:    sortDir,
		view:       view,
		sampler:    logging.NewErrorSampler(10),
	}
	// An empty ready session until the first load starts.
	empty := NewSession(pageSize, sortKey, sortDir)
	empty.complete(LoadResult{})
	s.current.Store(empty)
	return s
}

// Current returns the session views are rendered from.
func (s *NewsAggregatorService) Current() *Session {
	return s.current.Load()
}

// Reload starts a new load cycle in the background and makes its session
// current immediately. A load still running for an older session keeps
// writing to that session only.
func (s *NewsAggregatorService) Reload(ctx context.Context) *Session {
	sess := s.begin()
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.run(ctx, sess)
	}()
	return sess
}

// Load runs a load cycle and returns once it finished.
func (s *NewsAggregatorService) Load(ctx context.Context) *Session {
	sess := s.begin()
	s.run(ctx, sess)
	return sess
}

// Wait blocks until background loads have returned.
func (s *NewsAggregatorService) Wait() {
	s.wg.Wait()
}

func (s *NewsAggregatorService) begin() *Session {
	sess := NewSession(s.pageSize, s.sortKey, s.sortDir)
	s.current.Store(sess)
	slog.Info("Starting load", "session_id", sess.ID())
	return sess
}

func (s *NewsAggregatorService) run(ctx context.Context, sess *Session) {
	start := time.Now()

	res, err := s.aggregator.Load(ctx, func(source domain.SourceKind, loaded int) {
		sess.progress(source, loaded)
		s.publish(ctx, domain.Progress{SessionID: sess.ID(), Source: source, Loaded: loaded})
	})
	if err != nil {
		sess.fail(err)
		metrics.LoadDuration.WithLabelValues("error").Observe(time.Since(start).Seconds())
		slog.Error("Load failed", "session_id", sess.ID(), "error", err)
		s.publish(ctx, domain.Progress{SessionID: sess.ID(), Done: true, Error: err.Error()})
		return
	}

	sess.complete(res)
	metrics.LoadDuration.WithLabelValues("success").Observe(time.Since(start).Seconds())
	metrics.PostsLoaded.WithLabelValues(string(res.Source)).Add(float64(len(res.Posts)))
	if s.current.Load() == sess {
		metrics.SessionPosts.Set(float64(len(res.Posts)))
	}
	slog.Info("Load finished",
		"session_id", sess.ID(),
		"source", res.Source,
		"fallback", res.UsedFallback,
		"posts", len(res.Posts),
		"duration", time.Since(start))
	s.publish(ctx, domain.Progress{SessionID: sess.ID(), Source: res.Source, Loaded: len(res.Posts), Done: true})
}

func (s *NewsAggregatorService) publish(ctx context.Context, p domain.Progress) {
	if s.progress == nil {
		return
	}
	if err := s.progress.PublishProgress(ctx, p); err != nil {
		metrics.ProgressPublishErrors.Inc()
		s.sampler.Warn("progress_publish", "Failed to publish progress", "session_id", p.SessionID, "error", err)
	}
}

// View renders the current page of the current session.
func (s *NewsAggregatorService) View() View {
	return s.render(s.Current().Page())
}

// ViewPage renders page without moving the cursor. Out-of-range pages
// render the current page.
func (s *NewsAggregatorService) ViewPage(page int) View {
	return s.render(s.Current().PageAt(page))
}

// GoTo moves the cursor of the current session and renders the new page.
// Out-of-range pages leave the cursor unchanged and report false.
func (s *NewsAggregatorService) GoTo(page int) (View, bool) {
	sess := s.Current()
	before := sess.CurrentPage()
	if !sess.GoTo(page) {
		slog.Debug("Ignoring out-of-range page", "session_id", sess.ID(), "page", page)
		return s.render(sess.Page()), false
	}
	v := s.render(sess.Page())
	v.ScrollToTop = page != before
	return v, true
}

// Sort re-orders the current session and renders its first page.
func (s *NewsAggregatorService) Sort(key listing.SortKey, dir listing.Direction) View {
	sess := s.Current()
	sess.Sort(key, dir)
	return s.render(sess.Page())
}
