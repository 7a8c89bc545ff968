package app

import (
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/WordPressNewsAggregator/internal/domain"
	"github.com/WordPressNewsAggregator/internal/listing"
	"github.com/google/uuid"
)

type Status string

const (
	StatusLoading Status = "loading"
	StatusReady   Status = "ready"
	StatusFailed  Status = "failed"
)

// LoadFailedMessage is shown to readers when no source could be loaded.
const LoadFailedMessage = "Error loading posts. Please check your blog URL and CORS settings."

// Session is one load cycle: the aggregated collection, its sort order and
// the pagination cursor. A session is created when a load starts and is
// never reused for another load.
type Session struct {
	mu sync.RWMutex

	id       string
	pageSize int
	sortKey  listing.SortKey
	sortDir  listing.Direction

	posts       []domain.Post
	currentPage int

	status     Status
	message    string
	source     domain.SourceKind
	loaded     int
	err        error
	startedAt  time.Time
	finishedAt time.Time
}

// NewSession creates an empty session in the loading state.
func NewSession(pageSize int, key listing.SortKey, dir listing.Direction) *Session {
	return &Session{
		id:          uuid.NewString(),
		pageSize:    pageSize,
		sortKey:     key,
		sortDir:     dir,
		currentPage: 1,
		status:      StatusLoading,
		message:     "Loading ...",
		startedAt:   time.Now(),
	}
}

func (s *Session) ID() string {
	return s.id
}

// SessionState is a point-in-time copy of a session's status.
type SessionState struct {
	ID         string
	Status     Status
	Message    string
	Source     domain.SourceKind
	Loaded     int
	Err        error
	SortKey    listing.SortKey
	SortDir    listing.Direction
	StartedAt  time.Time
	FinishedAt time.Time
}

func (s *Session) State() SessionState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.stateLocked()
}

func (s *Session) stateLocked() SessionState {
	return SessionState{
		ID:         s.id,
		Status:     s.status,
		Message:    s.message,
		Source:     s.source,
		Loaded:     s.loaded,
		Err:        s.err,
		SortKey:    s.sortKey,
		SortDir:    s.sortDir,
		StartedAt:  s.startedAt,
		FinishedAt: s.finishedAt,
	}
}

func (s *Session) progress(source domain.SourceKind, loaded int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.source = source
	s.loaded = loaded
	switch {
	case loaded == 0 && source == domain.SourceWordPressOrg:
		s.message = "Trying WordPress.org API..."
	case loaded == 0:
		s.message = "Loading ..."
	default:
		s.message = fmt.Sprintf("Loaded %d posts...", loaded)
	}
}

// complete installs the loaded posts, applies the session's sort order and
// moves to page 1.
func (s *Session) complete(res LoadResult) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.posts = res.Posts
	listing.Sort(s.posts, s.sortKey, s.sortDir)
	s.currentPage = 1
	s.status = StatusReady
	s.source = res.Source
	s.loaded = len(res.Posts)
	s.message = ""
	s.finishedAt = time.Now()
}

func (s *Session) fail(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.posts = nil
	s.currentPage = 1
	s.status = StatusFailed
	s.err = err
	s.loaded = 0
	s.message = LoadFailedMessage
	s.finishedAt = time.Now()
}

// Sort re-orders the collection and resets the cursor to page 1.
func (s *Session) Sort(key listing.SortKey, dir listing.Direction) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sortKey = key
	s.sortDir = dir
	listing.Sort(s.posts, key, dir)
	s.currentPage = 1
}

// GoTo moves the cursor to page. Pages outside [1, TotalPages] are
// rejected and leave the cursor unchanged.
func (s *Session) GoTo(page int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !listing.ValidPage(page, len(s.posts), s.pageSize) {
		return false
	}
	s.currentPage = page
	return true
}

func (s *Session) CurrentPage() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.currentPage
}

// Len returns the number of posts in the collection.
func (s *Session) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.posts)
}

// Posts returns a copy of the whole collection in its current order.
func (s *Session) Posts() []domain.Post {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.posts)
}

// Page returns the posts of the current page, the pagination controls and
// the session state.
func (s *Session) Page() ([]domain.Post, listing.Pagination, SessionState) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.pageLocked(s.currentPage)
}

// PageAt is Page for an arbitrary page without moving the cursor. Pages out
// of range render the current page instead.
func (s *Session) PageAt(page int) ([]domain.Post, listing.Pagination, SessionState) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !listing.ValidPage(page, len(s.posts), s.pageSize) {
		page = s.currentPage
	}
	return s.pageLocked(page)
}

func (s *Session) pageLocked(page int) ([]domain.Post, listing.Pagination, SessionState) {
	posts, p, err := listing.Paginate(s.posts, page, s.pageSize)
	if err != nil {
		posts, p, _ = listing.Paginate(s.posts, 1, s.pageSize)
	}
	return posts, p, s.stateLocked()
}
