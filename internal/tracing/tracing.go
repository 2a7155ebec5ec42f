// Package tracing records oracle turns and capability invocations to an
// optional external sink. The sink is best-effort: recording never blocks the
// request path and delivery failures are only logged.
package tracing

import (
	"context"
	"encoding/base64"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/rutero-ai/rutero/config"
	"github.com/rutero-ai/rutero/internal/httpx"
)

// Event is one recorded observation: an oracle turn or a capability call.
type Event struct {
	ID        string         `json:"id"`
	TraceID   string         `json:"traceId"`
	Kind      string         `json:"kind"` // oracle_turn or tool_call
	Name      string         `json:"name"`
	Caller    string         `json:"caller,omitempty"`
	Model     string         `json:"model,omitempty"`
	Input     string         `json:"input,omitempty"`
	Output    string         `json:"output,omitempty"`
	StartTime time.Time      `json:"startTime"`
	EndTime   time.Time      `json:"endTime"`
	Metadata  map[string]any `json:"metadata,omitempty"`
}

type Sink interface {
	Record(ev Event)
	Flush(ctx context.Context) error
}

// Nop discards everything. It is the sink used when credentials are absent.
type Nop struct{}

func (Nop) Record(Event)                 {}
func (Nop) Flush(context.Context) error { return nil }

// HTTPSink batches events and ships them to a Langfuse-compatible ingestion
// endpoint on a fixed interval.
type HTTPSink struct {
	http      *httpx.Client
	host      string
	authToken string
	logger    *log.Logger

	mu      sync.Mutex
	pending []Event

	stop chan struct{}
	done chan struct{}
}

func NewHTTPSink(cfg config.TracingConfig) *HTTPSink {
	s := &HTTPSink{
		http:      httpx.NewClient(10*time.Second, 1, 0),
		host:      cfg.Host,
		authToken: base64.StdEncoding.EncodeToString([]byte(cfg.PublicKey + ":" + cfg.SecretKey)),
		logger:    log.New(log.Writer(), "[TRACING] ", log.LstdFlags),
		stop:      make(chan struct{}),
		done:      make(chan struct{}),
	}
	interval := cfg.FlushInterval
	if interval <= 0 {
		interval = 5 * time.Second
	}
	go s.loop(interval)
	return s
}

func (s *HTTPSink) Record(ev Event) {
	if ev.ID == "" {
		ev.ID = uuid.NewString()
	}
	s.mu.Lock()
	s.pending = append(s.pending, ev)
	s.mu.Unlock()
}

func (s *HTTPSink) loop(interval time.Duration) {
	defer close(s.done)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			if err := s.Flush(ctx); err != nil {
				s.logger.Printf("flush: %v", err)
			}
			cancel()
		case <-s.stop:
			return
		}
	}
}

type ingestionItem struct {
	ID        string `json:"id"`
	Type      string `json:"type"`
	Timestamp string `json:"timestamp"`
	Body      Event  `json:"body"`
}

type ingestionBatch struct {
	Batch []ingestionItem `json:"batch"`
}

// Flush ships all pending events. Events are requeued on failure so a
// transient outage loses nothing.
func (s *HTTPSink) Flush(ctx context.Context) error {
	s.mu.Lock()
	batch := s.pending
	s.pending = nil
	s.mu.Unlock()
	if len(batch) == 0 {
		return nil
	}

	items := make([]ingestionItem, 0, len(batch))
	for _, ev := range batch {
		items = append(items, ingestionItem{
			ID:        uuid.NewString(),
			Type:      "observation-create",
			Timestamp: time.Now().UTC().Format(time.RFC3339Nano),
			Body:      ev,
		})
	}
	headers := map[string]string{"Authorization": "Basic " + s.authToken}
	err := s.http.DoJSON(ctx, "POST", s.host+"/api/public/ingestion", headers, ingestionBatch{Batch: items}, nil)
	if err != nil {
		s.mu.Lock()
		s.pending = append(batch, s.pending...)
		s.mu.Unlock()
	}
	return err
}

// Close stops the background flusher after a final delivery attempt.
func (s *HTTPSink) Close() error {
	close(s.stop)
	<-s.done
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return s.Flush(ctx)
}

// FromConfig returns an HTTPSink when both keys are configured, otherwise a
// Nop sink.
func FromConfig(cfg config.TracingConfig) Sink {
	if !cfg.Enabled() {
		return Nop{}
	}
	return NewHTTPSink(cfg)
}
