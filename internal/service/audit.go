package service

import (
	"context"
	"fmt"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/rryowa/portfolio-backend/internal/models"
	"github.com/rryowa/portfolio-backend/internal/storage"
	"github.com/rryowa/portfolio-backend/internal/util"
)

const sinkWriteTimeout = 5 * time.Second

// AuditSink persists one entry. Sinks are interchangeable behind this
// contract: console logging is the minimum, a database table a drop-in
// replacement.
type AuditSink interface {
	Write(ctx context.Context, entry models.AuditEntry) error
}

// AuditLogger records security and administrative events. Record is
// fire-and-forget: events go onto a bounded queue drained by a background
// writer, and no failure in here ever reaches the caller. A full queue drops
// the event and counts the drop.
type AuditLogger struct {
	queue     chan models.AuditEntry
	sinks     []AuditSink
	fallback  *zap.SugaredLogger
	dropped   atomic.Uint64
	sinkFails atomic.Uint64
	done      chan struct{}
	closeOnce sync.Once
}

func NewAuditLogger(cfg *util.AuditConfig, fallback *zap.SugaredLogger, sinks ...AuditSink) *AuditLogger {
	a := &AuditLogger{
		queue:    make(chan models.AuditEntry, cfg.QueueSize),
		sinks:    sinks,
		fallback: fallback,
		done:     make(chan struct{}),
	}
	go a.run()
	return a
}

// Record enqueues an entry, filling in defaults. It never blocks and never
// panics; auditing must not break the operation being audited.
func (a *AuditLogger) Record(entry models.AuditEntry) {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "audit record panic: %v\n", r)
		}
	}()

	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now().UTC()
	}
	if entry.Severity == "" {
		entry.Severity = DefaultSeverity(entry.EventType)
	}
	if entry.ClientIP == "" {
		entry.ClientIP = util.UnknownClient
	}
	if entry.UserAgent == "" {
		entry.UserAgent = util.UnknownClient
	}

	select {
	case a.queue <- entry:
	default:
		a.dropped.Add(1)
		a.fallback.Warnw("audit queue full, event dropped",
			"eventType", entry.EventType, "dropped", a.dropped.Load())
	}
}

// Close drains the queue and stops the writer.
func (a *AuditLogger) Close() {
	a.closeOnce.Do(func() {
		close(a.queue)
		<-a.done
	})
}

// Dropped reports how many events were lost to a full queue.
func (a *AuditLogger) Dropped() uint64 { return a.dropped.Load() }

// SinkFailures reports how many sink writes failed.
func (a *AuditLogger) SinkFailures() uint64 { return a.sinkFails.Load() }

func (a *AuditLogger) run() {
	defer close(a.done)

	for entry := range a.queue {
		for _, sink := range a.sinks {
			a.writeOne(sink, entry)
		}
	}
}

// writeOne isolates one sink write: errors and panics are counted and
// reported to the fallback logger, never propagated.
func (a *AuditLogger) writeOne(sink AuditSink, entry models.AuditEntry) {
	defer func() {
		if r := recover(); r != nil {
			a.sinkFails.Add(1)
			a.fallback.Errorw("audit sink panic", "panic", r, "eventType", entry.EventType)
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), sinkWriteTimeout)
	defer cancel()

	if err := sink.Write(ctx, entry); err != nil {
		a.sinkFails.Add(1)
		a.fallback.Errorw("audit sink write failed", "error", err, "eventType", entry.EventType)
	}
}

// DefaultSeverity maps an event type to its default severity: deletions and
// security violations warn, everything else informs.
func DefaultSeverity(t models.AuditEventType) models.AuditSeverity {
	switch t {
	case models.EventDelete, models.EventFileDelete,
		models.EventRateLimitExceeded, models.EventUnauthorizedAccess:
		return models.SeverityWarning
	case models.EventLoginFailure, models.EventValidationError:
		return models.SeverityWarning
	default:
		return models.SeverityInfo
	}
}

// ZapSink writes entries to the process log; the minimum viable sink.
type ZapSink struct {
	log *zap.SugaredLogger
}

func NewZapSink(log *zap.SugaredLogger) *ZapSink {
	return &ZapSink{log: log}
}

func (s *ZapSink) Write(_ context.Context, entry models.AuditEntry) error {
	fields := []interface{}{
		"eventType", entry.EventType,
		"severity", entry.Severity,
		"action", entry.Action,
		"actor", entry.ActorName,
		"resource", entry.ResourceType,
		"resourceID", entry.ResourceID,
		"clientIP", entry.ClientIP,
		"success", entry.Success,
	}
	if entry.ErrorMessage != "" {
		fields = append(fields, "errorMessage", entry.ErrorMessage)
	}

	switch entry.Severity {
	case models.SeverityError, models.SeverityCritical:
		s.log.Errorw("audit", fields...)
	case models.SeverityWarning:
		s.log.Warnw("audit", fields...)
	default:
		s.log.Infow("audit", fields...)
	}
	return nil
}

// PostgresSink persists entries to the audit_logs table.
type PostgresSink struct {
	repo storage.AuditRepository
}

func NewPostgresSink(repo storage.AuditRepository) *PostgresSink {
	return &PostgresSink{repo: repo}
}

func (s *PostgresSink) Write(ctx context.Context, entry models.AuditEntry) error {
	return s.repo.InsertAuditEntry(ctx, entry)
}
