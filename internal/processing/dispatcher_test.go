package processing

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"
)

type stubClient struct {
	result json.RawMessage
	err    error
	panics bool
}

func (s *stubClient) Process(context.Context, string, string, map[string]any) (json.RawMessage, error) {
	if s.panics {
		panic("processor exploded")
	}
	return s.result, s.err
}

func (s *stubClient) Status(context.Context, string) (json.RawMessage, error) {
	return nil, errors.New("not implemented")
}

func (s *stubClient) ExtractText(context.Context, string, string) (json.RawMessage, error) {
	return nil, errors.New("not implemented")
}

func (s *stubClient) Summarize(context.Context, string, int) (json.RawMessage, error) {
	return nil, errors.New("not implemented")
}

func (s *stubClient) Health(context.Context) (json.RawMessage, error) {
	return nil, errors.New("not implemented")
}

type recordingOutcomes struct {
	mu        sync.Mutex
	completed map[string][]byte
	failed    map[string]string
	applied   bool
	err       error
}

func newRecordingOutcomes() *recordingOutcomes {
	return &recordingOutcomes{
		completed: map[string][]byte{},
		failed:    map[string]string{},
		applied:   true,
	}
}

func (r *recordingOutcomes) Complete(_ context.Context, id string, payload []byte) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return false, r.err
	}
	if r.applied {
		r.completed[id] = payload
	}
	return r.applied, nil
}

func (r *recordingOutcomes) Fail(_ context.Context, id, message string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.applied {
		r.failed[id] = message
	}
	return r.applied, nil
}

func TestDispatcherRecordsSuccess(t *testing.T) {
	outcomes := newRecordingOutcomes()
	d := NewDispatcher(&stubClient{result: json.RawMessage(`{"summary":"ok"}`)}, outcomes, nil)

	d.run("doc-1", "uploads/doc-1.pdf")

	if got := string(outcomes.completed["doc-1"]); got != `{"summary":"ok"}` {
		t.Fatalf("unexpected completion payload %q", got)
	}
	if len(outcomes.failed) != 0 {
		t.Fatalf("expected no failure, got %v", outcomes.failed)
	}
}

func TestDispatcherRecordsFailureWithMessage(t *testing.T) {
	outcomes := newRecordingOutcomes()
	d := NewDispatcher(&stubClient{err: errors.New("processor unreachable")}, outcomes, nil)

	d.run("doc-1", "uploads/doc-1.pdf")

	msg, ok := outcomes.failed["doc-1"]
	if !ok || msg == "" {
		t.Fatalf("expected a recorded failure message, got %v", outcomes.failed)
	}
	if len(outcomes.completed) != 0 {
		t.Fatalf("expected no completion, got %v", outcomes.completed)
	}
}

func TestDispatcherRecoversFromPanic(t *testing.T) {
	outcomes := newRecordingOutcomes()
	d := NewDispatcher(&stubClient{panics: true}, outcomes, nil)

	d.run("doc-1", "uploads/doc-1.pdf")

	msg := outcomes.failed["doc-1"]
	if !strings.Contains(msg, "panicked") {
		t.Fatalf("expected panic noted in failure message, got %q", msg)
	}
}

func TestDispatcherStaleOutcomeIsNoOp(t *testing.T) {
	outcomes := newRecordingOutcomes()
	outcomes.applied = false
	d := NewDispatcher(&stubClient{result: json.RawMessage(`{}`)}, outcomes, nil)

	d.run("doc-gone", "uploads/doc-gone.pdf")

	if len(outcomes.completed) != 0 || len(outcomes.failed) != 0 {
		t.Fatalf("expected no recorded outcome for a settled document")
	}
}

func TestDispatcherFallsBackToFailWhenCompleteErrors(t *testing.T) {
	outcomes := newRecordingOutcomes()
	outcomes.err = errors.New("write refused")
	d := NewDispatcher(&stubClient{result: json.RawMessage(`{}`)}, outcomes, nil)

	d.run("doc-1", "uploads/doc-1.pdf")

	msg := outcomes.failed["doc-1"]
	if !strings.Contains(msg, "failed to record processing result") {
		t.Fatalf("expected fallback failure message, got %q", msg)
	}
}

func TestSanitizeErrorBoundsAndFlattens(t *testing.T) {
	long := strings.Repeat("x", 600)
	if got := sanitizeError(long); len(got) != maxErrorMessage {
		t.Fatalf("expected message truncated to %d, got %d", maxErrorMessage, len(got))
	}
	if got := sanitizeError("line one\nline two\r\n"); strings.ContainsAny(got, "\n\r") {
		t.Fatalf("expected newlines stripped, got %q", got)
	}
	if got := sanitizeError("   "); got != "processing failed" {
		t.Fatalf("expected placeholder for empty message, got %q", got)
	}
}
