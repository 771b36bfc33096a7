// Package notify delivers stat changes to webhook subscribers.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ziadkadry99/statboard/internal/display"
	"github.com/ziadkadry99/statboard/internal/events"
	"github.com/ziadkadry99/statboard/internal/refresh"
	"github.com/ziadkadry99/statboard/internal/stats"
)

// Payload is the JSON body POSTed to webhooks.
type Payload struct {
	ID        string         `json:"id"`
	Source    string         `json:"source"`
	OK        bool           `json:"ok"`
	Reason    string         `json:"reason,omitempty"`
	Class     string         `json:"class,omitempty"`
	Record    stats.Record   `json:"record,omitempty"`
	Slots     []display.Slot `json:"slots"`
	CreatedAt time.Time      `json:"created_at"`
}

// queueSize bounds the deliveries waiting for the worker.
const queueSize = 64

type delivery struct {
	ctx     context.Context
	source  string
	payload []byte
}

// Dispatcher posts a Payload to every webhook when a source's rendered
// slots change. Unchanged refreshes are not delivered. Deliveries run on a
// worker goroutine in the order updates arrive, so a slow webhook never
// holds up the caller.
type Dispatcher struct {
	webhooks []string
	client   *http.Client

	mu   sync.Mutex
	last map[string][]display.Slot

	qmu       sync.Mutex
	closed    bool
	queue     chan delivery
	done      chan struct{}
	closeOnce sync.Once
}

// NewDispatcher creates a Dispatcher for the given webhook URLs and starts
// its delivery worker. Call Close to stop it.
func NewDispatcher(webhooks []string) *Dispatcher {
	d := &Dispatcher{
		webhooks: webhooks,
		client: &http.Client{
			Timeout:   10 * time.Second,
			Transport: http.DefaultTransport.(*http.Transport).Clone(),
		},
		last:  make(map[string][]display.Slot),
		queue: make(chan delivery, queueSize),
		done:  make(chan struct{}),
	}
	go d.worker()
	return d
}

// Close stops accepting updates and waits for queued deliveries to finish.
func (d *Dispatcher) Close() {
	d.closeOnce.Do(func() {
		d.qmu.Lock()
		d.closed = true
		close(d.queue)
		d.qmu.Unlock()
		<-d.done
	})
}

// Subscribe registers the dispatcher on bus.
func (d *Dispatcher) Subscribe(bus *events.Bus) func() {
	return events.On(bus, events.TopicOutcome, d.HandleUpdate)
}

// HandleUpdate queues u for delivery if its slots differ from the last
// delivery for the same source. It does not wait for the webhooks; when the
// queue is full the update is dropped with a warning. Delivery failures are
// logged and dropped.
func (d *Dispatcher) HandleUpdate(ctx context.Context, u refresh.Update) {
	if len(d.webhooks) == 0 || !d.changed(u) {
		return
	}

	payload, err := json.Marshal(Payload{
		ID:        uuid.New().String(),
		Source:    u.Outcome.Source,
		OK:        u.Outcome.OK(),
		Reason:    u.Outcome.Reason,
		Class:     stats.ErrorClass(u.Outcome.Err),
		Record:    u.Outcome.Record,
		Slots:     u.Slots,
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		slog.ErrorContext(ctx, "marshalling webhook payload", "error", err)
		return
	}

	d.enqueue(delivery{
		ctx:     context.WithoutCancel(ctx),
		source:  u.Outcome.Source,
		payload: payload,
	})
}

func (d *Dispatcher) enqueue(job delivery) {
	d.qmu.Lock()
	defer d.qmu.Unlock()
	if d.closed {
		slog.WarnContext(job.ctx, "webhook dispatcher closed, dropping update", "source", job.source)
		return
	}
	select {
	case d.queue <- job:
	default:
		slog.WarnContext(job.ctx, "webhook queue full, dropping update", "source", job.source)
	}
}

func (d *Dispatcher) worker() {
	defer close(d.done)
	defer d.client.CloseIdleConnections()
	for job := range d.queue {
		for _, url := range d.webhooks {
			if err := d.SendWebhook(job.ctx, url, job.payload); err != nil {
				slog.WarnContext(job.ctx, "webhook delivery failed", "url", url, "source", job.source, "error", err)
			}
		}
	}
}

func (d *Dispatcher) changed(u refresh.Update) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	prev, seen := d.last[u.Outcome.Source]
	if seen && slices.Equal(prev, u.Slots) {
		return false
	}
	d.last[u.Outcome.Source] = slices.Clone(u.Slots)
	return true
}

// SendWebhook POSTs payload to the given URL.
func (d *Dispatcher) SendWebhook(ctx context.Context, url string, payload []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("creating webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.client.Do(req)
	if err != nil {
		return fmt.Errorf("sending webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}
	return nil
}
