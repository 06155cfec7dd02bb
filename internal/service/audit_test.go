package service_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/rryowa/portfolio-backend/internal/models"
	"github.com/rryowa/portfolio-backend/internal/service"
	"github.com/rryowa/portfolio-backend/internal/util"
)

type collectingSink struct {
	mu      sync.Mutex
	entries []models.AuditEntry
}

func (s *collectingSink) Write(_ context.Context, entry models.AuditEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, entry)
	return nil
}

func (s *collectingSink) all() []models.AuditEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.AuditEntry(nil), s.entries...)
}

type failingSink struct{}

func (failingSink) Write(context.Context, models.AuditEntry) error {
	return errors.New("sink is down")
}

type panickingSink struct{}

func (panickingSink) Write(context.Context, models.AuditEntry) error {
	panic("sink exploded")
}

func TestAuditRecordDeliversToSink(t *testing.T) {
	sink := &collectingSink{}
	logger := service.NewAuditLogger(&util.AuditConfig{QueueSize: 16}, zap.NewNop().Sugar(), sink)

	logger.Record(models.AuditEntry{
		EventType: models.EventLoginSuccess,
		ActorName: "ada",
		Action:    "admin logged in",
		Success:   true,
	})
	logger.Close()

	entries := sink.all()
	require.Len(t, entries, 1)
	assert.Equal(t, models.EventLoginSuccess, entries[0].EventType)
	assert.Equal(t, models.SeverityInfo, entries[0].Severity)
	assert.False(t, entries[0].Timestamp.IsZero())
	assert.Equal(t, util.UnknownClient, entries[0].ClientIP)
	assert.Equal(t, util.UnknownClient, entries[0].UserAgent)
}

func TestAuditFailingSinkDoesNotReachCaller(t *testing.T) {
	sink := &collectingSink{}
	logger := service.NewAuditLogger(&util.AuditConfig{QueueSize: 16}, zap.NewNop().Sugar(),
		failingSink{}, sink)

	require.NotPanics(t, func() {
		logger.Record(models.AuditEntry{EventType: models.EventDelete, Action: "delete"})
	})
	logger.Close()

	// The broken sink is counted; the healthy one still got the event.
	assert.Equal(t, uint64(1), logger.SinkFailures())
	assert.Len(t, sink.all(), 1)
}

func TestAuditPanickingSinkIsContained(t *testing.T) {
	sink := &collectingSink{}
	logger := service.NewAuditLogger(&util.AuditConfig{QueueSize: 16}, zap.NewNop().Sugar(),
		panickingSink{}, sink)

	require.NotPanics(t, func() {
		logger.Record(models.AuditEntry{EventType: models.EventCreate, Action: "create"})
	})
	logger.Close()

	assert.Equal(t, uint64(1), logger.SinkFailures())
	assert.Len(t, sink.all(), 1)
}

func TestAuditQueueOverflowDropsInsteadOfBlocking(t *testing.T) {
	// A sink that never finishes would wedge an unbounded Record.
	block := make(chan struct{})
	blocked := blockingSink{release: block}
	logger := service.NewAuditLogger(&util.AuditConfig{QueueSize: 1}, zap.NewNop().Sugar(), blocked)

	for i := 0; i < 10; i++ {
		logger.Record(models.AuditEntry{EventType: models.EventRead, Action: "read"})
	}

	assert.Greater(t, logger.Dropped(), uint64(0))
	close(block)
	logger.Close()
}

type blockingSink struct {
	release chan struct{}
}

func (s blockingSink) Write(context.Context, models.AuditEntry) error {
	<-s.release
	return nil
}

func TestDefaultSeverity(t *testing.T) {
	assert.Equal(t, models.SeverityWarning, service.DefaultSeverity(models.EventDelete))
	assert.Equal(t, models.SeverityWarning, service.DefaultSeverity(models.EventRateLimitExceeded))
	assert.Equal(t, models.SeverityWarning, service.DefaultSeverity(models.EventUnauthorizedAccess))
	assert.Equal(t, models.SeverityInfo, service.DefaultSeverity(models.EventCreate))
	assert.Equal(t, models.SeverityInfo, service.DefaultSeverity(models.EventLoginSuccess))
}
