package session

import (
	"bufio"
	"context"
	"errors"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/lane-analytics/backend/internal/metrics"
	"github.com/lane-analytics/backend/internal/models"
	"github.com/lane-analytics/backend/internal/parser"
	"github.com/lane-analytics/backend/internal/pipeline"
	"go.uber.org/zap"
)

// DefaultMaxSessions limits concurrent sessions to prevent memory exhaustion
const DefaultMaxSessions = 50

// ErrSessionNotFound is returned for unknown or expired session ids.
var ErrSessionNotFound = errors.New("session not found")

// Manager owns the report sessions. Every session holds the result of its
// latest upload and nothing is shared between sessions.
type Manager struct {
	sessions    map[string]*SessionState
	mu          sync.RWMutex
	registry    *parser.Registry
	pipeline    *pipeline.Pipeline
	logger      *zap.Logger
	metrics     *metrics.Metrics
	maxSessions int
	now         func() time.Time
}

// SessionState holds the session and its keep-alive timestamp.
type SessionState struct {
	Session      *models.ReportSession
	LastAccessed time.Time
}

// Option configures a Manager.
type Option func(*Manager)

// WithMaxSessions sets the session capacity. Values <= 0 keep the default.
func WithMaxSessions(n int) Option {
	return func(m *Manager) {
		if n > 0 {
			m.maxSessions = n
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(m *Manager) {
		if l != nil {
			m.logger = l
		}
	}
}

// WithMetrics records upload outcomes and active sessions.
func WithMetrics(mt *metrics.Metrics) Option {
	return func(m *Manager) {
		m.metrics = mt
	}
}

// NewManager creates a session manager.
func NewManager(registry *parser.Registry, p *pipeline.Pipeline, opts ...Option) *Manager {
	m := &Manager{
		sessions:    make(map[string]*SessionState),
		registry:    registry,
		pipeline:    p,
		logger:      zap.NewNop(),
		maxSessions: DefaultMaxSessions,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.logger = m.logger.Named("session")
	return m
}

// Process loads an uploaded file, runs the pipeline and stores the result in
// a new session. Nothing is stored when loading or the pipeline fails.
func (m *Manager) Process(ctx context.Context, fileName string, r io.Reader, opts pipeline.Options) (*models.ReportSession, error) {
	session, err := m.run(ctx, uuid.New().String(), fileName, r, opts)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	m.evictIfNeeded()
	m.sessions[session.ID] = &SessionState{Session: session, LastAccessed: session.LastAccessed}
	active := len(m.sessions)
	m.mu.Unlock()

	m.metrics.SetActiveSessions(active)
	m.logger.Info("session created", zap.String("session", shortID(session.ID)), zap.String("file", fileName))
	return copySession(session, session.LastAccessed), nil
}

// Replace runs a new upload for an existing session and discards its previous
// report. On failure the previous report stays in place.
func (m *Manager) Replace(ctx context.Context, id, fileName string, r io.Reader, opts pipeline.Options) (*models.ReportSession, error) {
	m.mu.RLock()
	prev, ok := m.sessions[id]
	var createdAt time.Time
	if ok {
		createdAt = prev.Session.CreatedAt
	}
	m.mu.RUnlock()
	if !ok {
		return nil, ErrSessionNotFound
	}

	session, err := m.run(ctx, id, fileName, r, opts)
	if err != nil {
		return nil, err
	}
	session.CreatedAt = createdAt

	m.mu.Lock()
	state, ok := m.sessions[id]
	if !ok {
		m.mu.Unlock()
		return nil, ErrSessionNotFound
	}
	state.Session = session
	state.LastAccessed = session.LastAccessed
	m.mu.Unlock()

	m.logger.Info("session replaced", zap.String("session", shortID(id)), zap.String("file", fileName))
	return copySession(session, session.LastAccessed), nil
}

func (m *Manager) run(ctx context.Context, id, fileName string, r io.Reader, opts pipeline.Options) (*models.ReportSession, error) {
	session, err := m.load(ctx, id, fileName, r, opts)
	m.metrics.ObserveUpload(Result(err))
	if err != nil {
		m.logger.Warn("upload rejected",
			zap.String("session", shortID(id)),
			zap.String("file", fileName),
			zap.String("result", Result(err)),
			zap.Error(err),
		)
		return nil, err
	}
	return session, nil
}

func (m *Manager) load(ctx context.Context, id, fileName string, r io.Reader, opts pipeline.Options) (*models.ReportSession, error) {
	if r == nil {
		return nil, pipeline.ErrMissingInput
	}

	counter := &countingReader{r: r}
	br := bufio.NewReaderSize(counter, parser.HeadSize)
	head, err := br.Peek(parser.HeadSize)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, bufio.ErrBufferFull) {
		return nil, &parser.LoadError{Loader: "detect", Err: err}
	}
	if len(head) == 0 {
		return nil, pipeline.ErrMissingInput
	}

	loader, err := m.registry.FindLoader(fileName, head)
	if err != nil {
		return nil, err
	}
	table, err := loader.Load(br)
	if err != nil {
		return nil, err
	}

	report, err := m.pipeline.Run(ctx, table, opts)
	if err != nil {
		return nil, err
	}

	session := models.NewReportSession(id)
	session.LastAccessed = m.now()
	session.CreatedAt = session.LastAccessed
	session.Status = models.SessionStatusComplete
	session.LoaderName = loader.Name()
	session.Report = report
	session.File = &models.FileInfo{
		Name:       fileName,
		Size:       counter.n,
		UploadedAt: session.CreatedAt,
		Rows:       table.Len(),
		Fields:     table.Fields,
	}
	return session, nil
}

// Result classifies an upload error for metrics and logs.
func Result(err error) string {
	var schemaErr *pipeline.SchemaError
	var loadErr *parser.LoadError
	switch {
	case err == nil:
		return metrics.ResultOK
	case errors.Is(err, pipeline.ErrMissingInput):
		return metrics.ResultMissing
	case errors.As(err, &schemaErr):
		return metrics.ResultSchemaError
	case errors.As(err, &loadErr), errors.Is(err, parser.ErrUnsupportedFormat):
		return metrics.ResultLoadError
	default:
		return metrics.ResultError
	}
}

// evictIfNeeded removes least recently accessed sessions until there is room
// for one more. Caller must hold m.mu.
func (m *Manager) evictIfNeeded() {
	if len(m.sessions) < m.maxSessions {
		return
	}
	states := make([]*SessionState, 0, len(m.sessions))
	for _, s := range m.sessions {
		states = append(states, s)
	}
	sort.Slice(states, func(i, j int) bool {
		return states[i].LastAccessed.Before(states[j].LastAccessed)
	})

	toFree := len(m.sessions) - m.maxSessions + 1
	for _, s := range states[:toFree] {
		delete(m.sessions, s.Session.ID)
		m.logger.Info("evicted session at capacity", zap.String("session", shortID(s.Session.ID)))
	}
}

// CleanupOldSessions removes sessions not accessed within maxAge and returns
// how many were removed.
func (m *Manager) CleanupOldSessions(maxAge time.Duration) int {
	m.mu.Lock()
	cutoff := m.now().Add(-maxAge)
	removed := 0
	for id, state := range m.sessions {
		if state.LastAccessed.Before(cutoff) {
			delete(m.sessions, id)
			removed++
			m.logger.Debug("cleaned up aged session",
				zap.String("session", shortID(id)),
				zap.Duration("idle", m.now().Sub(state.LastAccessed).Round(time.Second)),
			)
		}
	}
	active := len(m.sessions)
	m.mu.Unlock()

	m.metrics.SetActiveSessions(active)
	return removed
}

// RunJanitor calls CleanupOldSessions every interval until ctx is done.
func (m *Manager) RunJanitor(ctx context.Context, interval, maxAge time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := m.CleanupOldSessions(maxAge); n > 0 {
				m.logger.Info("janitor removed sessions", zap.Int("count", n))
			}
		}
	}
}

// GetSession returns a snapshot of a session by ID.
func (m *Manager) GetSession(id string) (*models.ReportSession, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	state, ok := m.sessions[id]
	if !ok {
		return nil, false
	}
	return copySession(state.Session, state.LastAccessed), true
}

// TouchSession updates the LastAccessed timestamp for a session.
// This should be called whenever a session is actively being used
// to prevent it from being cleaned up.
func (m *Manager) TouchSession(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	state, ok := m.sessions[id]
	if !ok {
		return false
	}
	state.LastAccessed = m.now()
	return true
}

// DeleteSession removes a session. It reports whether the session existed.
func (m *Manager) DeleteSession(id string) bool {
	m.mu.Lock()
	_, ok := m.sessions[id]
	delete(m.sessions, id)
	active := len(m.sessions)
	m.mu.Unlock()

	if ok {
		m.metrics.SetActiveSessions(active)
	}
	return ok
}

// Len returns the number of live sessions.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Engine returns the aggregation engine used by the pipeline.
func (m *Manager) Engine() string {
	return m.pipeline.Engine()
}

// copySession returns a shallow copy so callers never observe later keep-alive
// updates. The report itself is never modified after a run.
func copySession(s *models.ReportSession, lastAccessed time.Time) *models.ReportSession {
	out := *s
	out.LastAccessed = lastAccessed
	return &out
}

type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}

// shortID safely truncates an ID for logging (handles short IDs gracefully)
func shortID(id string) string {
	if len(id) <= 8 {
		return id
	}
	return id[:8]
}
