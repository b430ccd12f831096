package processing

import (
	"context"
	"fmt"
	"strings"
	"time"

	"docuhub-backend/internal/shared/metrics"
	"docuhub-backend/internal/shared/telemetry"
)

const maxErrorMessage = 500

// OutcomeStore records the terminal status of a dispatched document. Both
// writes are conditional on the document still being pending; applied
// reports whether the write took effect.
type OutcomeStore interface {
	Complete(ctx context.Context, id string, payload []byte) (applied bool, err error)
	Fail(ctx context.Context, id, message string) (applied bool, err error)
}

// Dispatcher hands uploaded documents to the processor in the background
// and records the outcome.
type Dispatcher struct {
	Client   Client
	Outcomes OutcomeStore
	Metrics  *metrics.Metrics
}

// NewDispatcher wires a dispatcher over the given client and outcome store.
func NewDispatcher(client Client, outcomes OutcomeStore, m *metrics.Metrics) *Dispatcher {
	return &Dispatcher{Client: client, Outcomes: outcomes, Metrics: m}
}

// Dispatch starts processing in the background. It returns immediately;
// the caller's request is never held up by the processor.
func (d *Dispatcher) Dispatch(documentID, filePath string) {
	go d.run(documentID, filePath)
}

func (d *Dispatcher) run(documentID, filePath string) {
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			telemetry.Error("dispatch.panic", map[string]any{
				"documentId": documentID,
				"panic":      fmt.Sprint(r),
			})
			d.recordFailure(documentID, fmt.Sprintf("processing panicked: %v", r))
			d.observe("panic", start)
		}
	}()

	// Terminal writes must not inherit a request context that has
	// already ended.
	ctx := context.Background()

	payload, err := d.Client.Process(ctx, documentID, filePath, nil)
	if err != nil {
		telemetry.Warn("dispatch.failed", map[string]any{
			"documentId": documentID,
			"error":      err.Error(),
		})
		d.recordFailure(documentID, err.Error())
		d.observe("error", start)
		return
	}

	applied, err := d.Outcomes.Complete(ctx, documentID, payload)
	if err != nil {
		telemetry.Error("dispatch.complete_write_failed", map[string]any{
			"documentId": documentID,
			"error":      err.Error(),
		})
		d.recordFailure(documentID, "failed to record processing result: "+err.Error())
		d.observe("error", start)
		return
	}
	if !applied {
		d.noteStale(documentID, "complete")
		d.observe("stale", start)
		return
	}

	telemetry.Info("dispatch.completed", map[string]any{"documentId": documentID})
	d.observe("processed", start)
}

func (d *Dispatcher) recordFailure(documentID, message string) {
	applied, err := d.Outcomes.Fail(context.Background(), documentID, sanitizeError(message))
	if err != nil {
		telemetry.Error("dispatch.fail_write_failed", map[string]any{
			"documentId": documentID,
			"error":      err.Error(),
		})
		return
	}
	if !applied {
		d.noteStale(documentID, "fail")
	}
}

// noteStale logs a terminal write that found the document gone or already
// settled. The write is a no-op; a deleted document is never resurrected.
func (d *Dispatcher) noteStale(documentID, outcome string) {
	telemetry.Warn("dispatch.stale", map[string]any{
		"documentId": documentID,
		"outcome":    outcome,
	})
	if d.Metrics != nil {
		d.Metrics.StaleDispatchTotal.Inc()
	}
}

func (d *Dispatcher) observe(outcome string, start time.Time) {
	if d.Metrics == nil {
		return
	}
	d.Metrics.DispatchesTotal.WithLabelValues(outcome).Inc()
	d.Metrics.DispatchDuration.Observe(time.Since(start).Seconds())
}

// sanitizeError flattens a processor error into a single line bounded for
// storage.
func sanitizeError(message string) string {
	message = strings.ReplaceAll(message, "\n", " ")
	message = strings.ReplaceAll(message, "\r", " ")
	message = strings.TrimSpace(message)
	if message == "" {
		message = "processing failed"
	}
	if len(message) > maxErrorMessage {
		message = message[:maxErrorMessage]
	}
	return message
}
