// Package preview drives a debounced remote lookup for one identifier
// stream, suppressing intermediate and stale results.
package preview

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/sheetsby/metadata-api/internal/client"
	"github.com/sheetsby/metadata-api/internal/debounce"
	"github.com/sheetsby/metadata-api/internal/model"
)

// LookupFunc fetches the remote representation of an identifier.
type LookupFunc func(ctx context.Context, identifier string) (*model.PreviewPayload, error)

// NotifyFunc receives every state change of the stream.
type NotifyFunc func(model.PreviewResult)

// Fetcher owns one preview stream. Observe may be called on every keystroke;
// only the last identifier within the quiet period is fetched, and a result
// that arrives for a superseded identifier is dropped, never displayed.
type Fetcher struct {
	mu      sync.Mutex
	current string
	seq     uint64

	deb      *debounce.Debouncer
	lookup   LookupFunc
	notify   NotifyFunc
	validate func(string) error
	timeout  time.Duration
}

// Option customizes a Fetcher.
type Option func(*Fetcher)

// WithValidation short-circuits invalid identifiers to a failed state before
// any network call.
func WithValidation(fn func(string) error) Option {
	return func(f *Fetcher) { f.validate = fn }
}

// WithTimeout bounds each lookup call.
func WithTimeout(d time.Duration) Option {
	return func(f *Fetcher) { f.timeout = d }
}

// New creates a fetcher with the given quiet period.
func New(quiet time.Duration, lookup LookupFunc, notify NotifyFunc, opts ...Option) *Fetcher {
	f := &Fetcher{
		deb:     debounce.New(quiet),
		lookup:  lookup,
		notify:  notify,
		timeout: 30 * time.Second,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Observe records a new identifier value. Empty resets the stream to the
// empty state immediately; non-empty moves it to loading and (re)arms the
// debounce timer for exactly one fetch of the latest value.
func (f *Fetcher) Observe(identifier string) {
	identifier = strings.TrimSpace(identifier)

	f.mu.Lock()
	f.seq++
	seq := f.seq
	f.current = identifier
	f.mu.Unlock()

	if identifier == "" {
		f.deb.Stop()
		f.notify(model.PreviewResult{State: model.PreviewEmpty})
		return
	}

	if f.validate != nil {
		if err := f.validate(identifier); err != nil {
			f.deb.Stop()
			f.notify(model.PreviewResult{
				State:      model.PreviewFailed,
				Identifier: identifier,
				Reason:     err.Error(),
			})
			return
		}
	}

	f.notify(model.PreviewResult{State: model.PreviewLoading, Identifier: identifier})
	f.deb.Schedule(func() { f.fetch(identifier, seq) })
}

// Stop cancels any pending debounced fetch. In-flight lookups finish on their
// own; their results fail the staleness check once the stream moves on.
func (f *Fetcher) Stop() {
	f.deb.Stop()
}

func (f *Fetcher) fetch(identifier string, seq uint64) {
	ctx, cancel := context.WithTimeout(context.Background(), f.timeout)
	defer cancel()

	payload, err := f.lookup(ctx, identifier)

	// The transport guarantees no ordering, so staleness is decided here, on
	// arrival, by comparing against the current identity.
	f.mu.Lock()
	stale := f.current != identifier || f.seq != seq
	f.mu.Unlock()
	if stale {
		return
	}

	if err != nil {
		reason := model.ReasonFetchFailed
		if errors.Is(err, client.ErrRateLimited) {
			reason = model.ReasonRateLimited
		}
		f.notify(model.PreviewResult{
			State:      model.PreviewFailed,
			Identifier: identifier,
			Reason:     reason,
		})
		return
	}

	f.notify(model.PreviewResult{
		State:      model.PreviewLoaded,
		Identifier: identifier,
		Payload:    payload,
	})
}

var errInvalidURL = errors.New(model.ReasonInvalidURL)

// ValidateURL accepts only absolute http(s) URLs. Anything else fails before
// a network call is issued.
func ValidateURL(raw string) error {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return errInvalidURL
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return errInvalidURL
	}
	return nil
}
