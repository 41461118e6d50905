package generator

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/sheetsby/metadata-api/internal/model"
)

var (
	ErrEmptyPrompt  = errors.New("prompt is required")
	ErrNotFound     = errors.New("session not found")
	ErrNotStreaming = errors.New("session not streaming")
	ErrNotComplete  = errors.New("session not complete")
)

// Streamer delivers the model's raw response text chunk by chunk.
type Streamer interface {
	StreamTags(ctx context.Context, prompt string, onChunk func(string)) error
}

// Session is one tag generation run: streaming, then exactly one terminal
// state. Cancelled stays distinct from complete so a consumer can tell
// "stopped early" from "finished".
type Session struct {
	ID        string
	CreatedAt time.Time

	mu          sync.Mutex
	status      model.SessionStatus
	tags        []model.Tag
	errMsg      string
	completedAt *time.Time

	acc      *Accumulator
	cancel   context.CancelFunc
	done     chan struct{}
	doneOnce sync.Once
}

// Done is closed once the session reaches a terminal state.
func (s *Session) Done() <-chan struct{} {
	return s.done
}

// Snapshot returns the session's current externally visible state.
func (s *Session) Snapshot() model.TagsStatusResponse {
	s.mu.Lock()
	defer s.mu.Unlock()
	return model.TagsStatusResponse{
		SessionID:   s.ID,
		Status:      s.status,
		Tags:        append([]model.Tag(nil), s.tags...),
		Error:       s.errMsg,
		CreatedAt:   s.CreatedAt,
		CompletedAt: s.completedAt,
	}
}

func (s *Session) finish() {
	s.doneOnce.Do(func() { close(s.done) })
}

// Manager owns tag generation sessions. At most one session streams at a
// time: a new Generate call cancels the prior streaming session before its
// own chunks start, so two runs can never interleave.
type Manager struct {
	mu       sync.Mutex
	sessions map[string]*Session
	active   *Session

	streamer Streamer
	notify   func(snapshot model.TagsStatusResponse)
}

// NewManager creates a session manager. notify receives every snapshot change
// and may be nil.
func NewManager(streamer Streamer, notify func(model.TagsStatusResponse)) *Manager {
	return &Manager{
		sessions: make(map[string]*Session),
		streamer: streamer,
		notify:   notify,
	}
}

// GenerateOption customizes a single Generate call.
type GenerateOption func(*generateOptions)

type generateOptions struct {
	chunkTap func(string)
}

// WithChunkTap forwards every raw chunk to fn as it arrives, in order.
func WithChunkTap(fn func(string)) GenerateOption {
	return func(o *generateOptions) { o.chunkTap = fn }
}

// Generate starts a new session for the prompt. An empty prompt is rejected;
// a session still streaming is cancelled first.
func (m *Manager) Generate(prompt string, opts ...GenerateOption) (*Session, error) {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return nil, ErrEmptyPrompt
	}

	var options generateOptions
	for _, opt := range opts {
		opt(&options)
	}

	m.mu.Lock()
	prior := m.active
	m.mu.Unlock()
	if prior != nil {
		// Supersession: the old stream must be terminal before the new
		// one emits anything.
		_, _ = m.Cancel(prior.ID)
	}

	ctx, cancel := context.WithCancel(context.Background())
	s := &Session{
		ID:        uuid.New().String(),
		CreatedAt: time.Now(),
		status:    model.SessionStreaming,
		acc:       NewAccumulator(),
		cancel:    cancel,
		done:      make(chan struct{}),
	}

	m.mu.Lock()
	m.sessions[s.ID] = s
	m.active = s
	m.mu.Unlock()

	go m.run(ctx, s, prompt, options.chunkTap)
	return s, nil
}

func (m *Manager) run(ctx context.Context, s *Session, prompt string, tap func(string)) {
	err := m.streamer.StreamTags(ctx, prompt, func(chunk string) {
		s.mu.Lock()
		if s.status != model.SessionStreaming {
			// Terminal already — a late chunk must not reappear.
			s.mu.Unlock()
			return
		}
		tags := s.acc.Write(chunk)
		s.tags = toModelTags(tags)
		s.mu.Unlock()

		if tap != nil {
			tap(chunk)
		}
		m.broadcast(s)
	})

	s.mu.Lock()
	if s.status != model.SessionStreaming {
		// Cancelled or cleared while we were streaming; nothing to finish.
		s.mu.Unlock()
		return
	}
	now := time.Now()
	s.completedAt = &now
	switch {
	case ctx.Err() != nil:
		s.status = model.SessionCancelled
	case err != nil:
		// Interrupted stream: the partial list is never presented as final.
		s.status = model.SessionFailed
		s.errMsg = err.Error()
		s.tags = nil
	default:
		final, ferr := s.acc.Finalize()
		if ferr != nil {
			s.status = model.SessionFailed
			s.errMsg = ferr.Error()
			s.tags = nil
		} else {
			s.status = model.SessionComplete
			s.tags = toModelTags(final)
		}
	}
	s.mu.Unlock()

	m.clearActive(s)
	s.finish()
	m.broadcast(s)
}

// Get returns a session by ID.
func (m *Manager) Get(id string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	return s, nil
}

// Result returns the authoritative tag list of a completed session.
func (m *Manager) Result(id string) ([]model.Tag, error) {
	s, err := m.Get(id)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.status != model.SessionComplete {
		return nil, ErrNotComplete
	}
	return append([]model.Tag(nil), s.tags...), nil
}

// Cancel stops a streaming session. Further chunks are dropped and the
// session ends in the cancelled state; partial tags remain visible as such.
func (m *Manager) Cancel(id string) (*Session, error) {
	s, err := m.Get(id)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	if s.status != model.SessionStreaming {
		s.mu.Unlock()
		return nil, ErrNotStreaming
	}
	s.status = model.SessionCancelled
	now := time.Now()
	s.completedAt = &now
	s.mu.Unlock()

	s.cancel()
	m.clearActive(s)
	s.finish()
	m.broadcast(s)
	return s, nil
}

// Clear discards a session entirely, cancelling it first if still streaming.
// This backs both the explicit clear action and the form reset.
func (m *Manager) Clear(id string) error {
	s, err := m.Get(id)
	if err != nil {
		return err
	}

	s.mu.Lock()
	streaming := s.status == model.SessionStreaming
	if streaming {
		s.status = model.SessionCancelled
		now := time.Now()
		s.completedAt = &now
	}
	s.mu.Unlock()

	if streaming {
		s.cancel()
	}
	m.clearActive(s)
	s.finish()

	m.mu.Lock()
	delete(m.sessions, s.ID)
	m.mu.Unlock()
	return nil
}

func (m *Manager) clearActive(s *Session) {
	m.mu.Lock()
	if m.active == s {
		m.active = nil
	}
	m.mu.Unlock()
}

func (m *Manager) broadcast(s *Session) {
	if m.notify != nil {
		m.notify(s.Snapshot())
	}
}

func toModelTags(tags []string) []model.Tag {
	out := make([]model.Tag, len(tags))
	for i, t := range tags {
		out[i] = model.Tag{Tag: t}
	}
	return out
}
