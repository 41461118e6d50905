package generator

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/sheetsby/metadata-api/internal/model"
)

// fakeStreamer replays scripted chunks, optionally pausing on a gate channel
// so tests can act mid-stream.
type fakeStreamer struct {
	chunks []string
	gate   chan struct{} // if set, received before each chunk
	err    error
}

func (f *fakeStreamer) StreamTags(ctx context.Context, prompt string, onChunk func(string)) error {
	for _, c := range f.chunks {
		if f.gate != nil {
			select {
			case <-f.gate:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		onChunk(c)
	}
	return f.err
}

func chunked(doc string, size int) []string {
	var out []string
	for len(doc) > size {
		out = append(out, doc[:size])
		doc = doc[size:]
	}
	return append(out, doc)
}

func waitDone(t *testing.T, s *Session) {
	t.Helper()
	select {
	case <-s.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("session did not reach a terminal state")
	}
}

func TestGenerateCompletes(t *testing.T) {
	doc := `{"tags":[{"tag":"piano cover"},{"tag":"john rod dondoyano"}]}`
	m := NewManager(&fakeStreamer{chunks: chunked(doc, 7)}, nil)

	s, err := m.Generate("some prompt")
	if err != nil {
		t.Fatalf("Generate() error: %v", err)
	}
	waitDone(t, s)

	snap := s.Snapshot()
	if snap.Status != model.SessionComplete {
		t.Fatalf("status = %s, want %s (error: %q)", snap.Status, model.SessionComplete, snap.Error)
	}
	if len(snap.Tags) != 2 || snap.Tags[1].Tag != "john rod dondoyano" {
		t.Errorf("tags = %v", snap.Tags)
	}
	if snap.CompletedAt == nil {
		t.Error("completed session must carry a completion time")
	}

	tags, err := m.Result(s.ID)
	if err != nil {
		t.Fatalf("Result() error: %v", err)
	}
	if len(tags) != 2 {
		t.Errorf("Result() = %v", tags)
	}
}

func TestGenerateEmptyPrompt(t *testing.T) {
	m := NewManager(&fakeStreamer{}, nil)
	if _, err := m.Generate("   "); !errors.Is(err, ErrEmptyPrompt) {
		t.Errorf("Generate(blank) error = %v, want ErrEmptyPrompt", err)
	}
}

func TestCancelKeepsPartialTags(t *testing.T) {
	doc := `{"tags":[{"tag":"first"},{"tag":"second"},{"tag":"never"}]}`
	gate := make(chan struct{})
	m := NewManager(&fakeStreamer{chunks: chunked(doc, 1), gate: gate}, nil)

	s, err := m.Generate("prompt")
	if err != nil {
		t.Fatalf("Generate() error: %v", err)
	}

	// Release chunks up to just past the second complete tag value.
	cut := strings.Index(doc, `"second"`) + len(`"second"`) + 1
	for i := 0; i < cut; i++ {
		gate <- struct{}{}
	}

	if _, err := m.Cancel(s.ID); err != nil {
		t.Fatalf("Cancel() error: %v", err)
	}
	waitDone(t, s)

	snap := s.Snapshot()
	if snap.Status != model.SessionCancelled {
		t.Fatalf("status = %s, want %s", snap.Status, model.SessionCancelled)
	}
	if len(snap.Tags) != 2 {
		t.Fatalf("partial tags = %v, want [first second]", snap.Tags)
	}

	// No late chunk may grow the list after cancellation.
	time.Sleep(50 * time.Millisecond)
	if after := s.Snapshot(); len(after.Tags) != 2 {
		t.Errorf("tags grew after cancel: %v", after.Tags)
	}

	if _, err := m.Result(s.ID); !errors.Is(err, ErrNotComplete) {
		t.Errorf("Result() on cancelled session = %v, want ErrNotComplete", err)
	}
	if _, err := m.Cancel(s.ID); !errors.Is(err, ErrNotStreaming) {
		t.Errorf("second Cancel() = %v, want ErrNotStreaming", err)
	}
}

func TestStreamErrorDiscardsPartialTags(t *testing.T) {
	m := NewManager(&fakeStreamer{
		chunks: []string{`{"tags":[{"tag":"partial"}`},
		err:    errors.New("stream interrupted"),
	}, nil)

	s, err := m.Generate("prompt")
	if err != nil {
		t.Fatalf("Generate() error: %v", err)
	}
	waitDone(t, s)

	snap := s.Snapshot()
	if snap.Status != model.SessionFailed {
		t.Fatalf("status = %s, want %s", snap.Status, model.SessionFailed)
	}
	if len(snap.Tags) != 0 {
		t.Errorf("failed session kept tags: %v", snap.Tags)
	}
	if snap.Error == "" {
		t.Error("failed session must carry an error message")
	}
}

func TestTruncatedResponseFails(t *testing.T) {
	m := NewManager(&fakeStreamer{chunks: []string{`{"tags":[{"tag":"only"}`}}, nil)

	s, _ := m.Generate("prompt")
	waitDone(t, s)

	if snap := s.Snapshot(); snap.Status != model.SessionFailed {
		t.Errorf("status = %s, want %s", snap.Status, model.SessionFailed)
	}
}

func TestGenerateSupersedesStreaming(t *testing.T) {
	gate := make(chan struct{})
	m := NewManager(&fakeStreamer{
		chunks: chunked(`{"tags":[{"tag":"a"},{"tag":"b"}]}`, 1),
		gate:   gate,
	}, nil)

	first, err := m.Generate("first prompt")
	if err != nil {
		t.Fatalf("Generate() error: %v", err)
	}

	// Starting a second run must terminate the first before any new chunks.
	second, err := m.Generate("second prompt")
	if err != nil {
		t.Fatalf("second Generate() error: %v", err)
	}
	waitDone(t, first)

	if snap := first.Snapshot(); snap.Status != model.SessionCancelled {
		t.Errorf("superseded session status = %s, want %s", snap.Status, model.SessionCancelled)
	}

	// Let the second run finish normally.
	go func() {
		for {
			select {
			case gate <- struct{}{}:
			case <-second.Done():
				return
			}
		}
	}()
	waitDone(t, second)

	if snap := second.Snapshot(); snap.Status != model.SessionComplete {
		t.Errorf("second session status = %s (error %q), want %s", snap.Status, snap.Error, model.SessionComplete)
	}
}

func TestClearRemovesSession(t *testing.T) {
	doc := `{"tags":[{"tag":"x"}]}`
	m := NewManager(&fakeStreamer{chunks: []string{doc}}, nil)

	s, _ := m.Generate("prompt")
	waitDone(t, s)

	if err := m.Clear(s.ID); err != nil {
		t.Fatalf("Clear() error: %v", err)
	}
	if _, err := m.Get(s.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get() after Clear = %v, want ErrNotFound", err)
	}
	if err := m.Clear(s.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("second Clear() = %v, want ErrNotFound", err)
	}
}

func TestClearCancelsStreamingSession(t *testing.T) {
	gate := make(chan struct{})
	m := NewManager(&fakeStreamer{chunks: chunked(`{"tags":[]}`, 1), gate: gate}, nil)

	s, _ := m.Generate("prompt")
	if err := m.Clear(s.ID); err != nil {
		t.Fatalf("Clear() error: %v", err)
	}
	waitDone(t, s)

	if _, err := m.Get(s.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get() after Clear = %v, want ErrNotFound", err)
	}
}

func TestNotifyReceivesTerminalSnapshot(t *testing.T) {
	doc := `{"tags":[{"tag":"x"}]}`
	snaps := make(chan model.TagsStatusResponse, 16)
	m := NewManager(&fakeStreamer{chunks: chunked(doc, 5)}, func(snap model.TagsStatusResponse) {
		snaps <- snap
	})

	s, _ := m.Generate("prompt")
	waitDone(t, s)

	deadline := time.After(2 * time.Second)
	for {
		select {
		case snap := <-snaps:
			if snap.Status == model.SessionComplete {
				if snap.SessionID != s.ID {
					t.Errorf("snapshot session = %s, want %s", snap.SessionID, s.ID)
				}
				return
			}
		case <-deadline:
			t.Fatal("no complete snapshot broadcast")
		}
	}
}

func TestChunkTapSeesEveryChunk(t *testing.T) {
	doc := `{"tags":[{"tag":"piano"}]}`
	chunks := chunked(doc, 4)
	m := NewManager(&fakeStreamer{chunks: chunks}, nil)

	tapped := make(chan string, len(chunks))
	s, err := m.Generate("prompt", WithChunkTap(func(c string) { tapped <- c }))
	if err != nil {
		t.Fatalf("Generate() error: %v", err)
	}
	waitDone(t, s)
	close(tapped)

	var got strings.Builder
	for c := range tapped {
		got.WriteString(c)
	}
	if got.String() != doc {
		t.Errorf("tap saw %q, want %q", got.String(), doc)
	}
}
