package audit

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"

	"github.com/upb/spaces-control-plane/internal/observability"
	"github.com/upb/spaces-control-plane/models"
	"github.com/upb/spaces-control-plane/repositories"
)

// insertTimeout bounds a single audit insert
const insertTimeout = 5 * time.Second

var (
	eventsRecorded metric.Int64Counter
	eventsDropped  metric.Int64Counter
)

func init() {
	m := observability.Meter("audit")

	var err error
	eventsRecorded, err = m.Int64Counter("auth_audit_events_total",
		metric.WithDescription("Authentication audit events persisted, by action"))
	if err != nil {
		panic(err)
	}
	eventsDropped, err = m.Int64Counter("auth_audit_events_dropped_total",
		metric.WithDescription("Authentication audit events dropped because the buffer was full"))
	if err != nil {
		panic(err)
	}
}

// AuditService persists authentication audit events in the background.
// Recording never blocks the request path: when the buffer is full the
// event is dropped with a warning.
type AuditService struct {
	auditRepo   repositories.AuditRepository
	logger      *zap.Logger
	eventChan   chan *models.AuditLog
	workerCount int
	bufferSize  int
	wg          sync.WaitGroup
	ctx         context.Context
	cancel      context.CancelFunc

	mu      sync.RWMutex
	started bool
	stopped bool
}

// Config holds configuration for the AuditService
type Config struct {
	BufferSize  int // Size of the event buffer channel
	WorkerCount int // Number of concurrent workers
}

// DefaultConfig returns the default configuration
func DefaultConfig() Config {
	return Config{
		BufferSize:  10000,
		WorkerCount: 5,
	}
}

// NewAuditService creates a new AuditService instance
func NewAuditService(auditRepo repositories.AuditRepository, logger *zap.Logger, config Config) *AuditService {
	defaults := DefaultConfig()
	if config.BufferSize <= 0 {
		config.BufferSize = defaults.BufferSize
	}
	if config.WorkerCount <= 0 {
		config.WorkerCount = defaults.WorkerCount
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &AuditService{
		auditRepo:   auditRepo,
		logger:      logger,
		eventChan:   make(chan *models.AuditLog, config.BufferSize),
		workerCount: config.WorkerCount,
		bufferSize:  config.BufferSize,
		ctx:         ctx,
		cancel:      cancel,
	}
}

// Start starts the background workers
func (s *AuditService) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return fmt.Errorf("audit service already started")
	}

	for i := 0; i < s.workerCount; i++ {
		s.wg.Add(1)
		go s.worker(i)
	}

	s.started = true
	s.logger.Info("started audit service",
		zap.Int("worker_count", s.workerCount),
		zap.Int("buffer_size", s.bufferSize))

	return nil
}

// Stop stops accepting events and waits up to timeout for pending ones to
// be written. Inserts still running at the deadline are cancelled.
func (s *AuditService) Stop(timeout time.Duration) error {
	s.mu.Lock()
	if !s.started || s.stopped {
		s.mu.Unlock()
		return fmt.Errorf("audit service not running")
	}
	s.stopped = true
	close(s.eventChan)
	s.mu.Unlock()

	s.logger.Info("stopping audit service", zap.Int("pending_events", len(s.eventChan)))

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case <-done:
		s.cancel()
		s.logger.Info("audit service stopped gracefully")
		return nil
	case <-timer.C:
		s.cancel()
		<-done
		return fmt.Errorf("audit service stop timeout after %v", timeout)
	}
}

// LogEvent queues an event without blocking
func (s *AuditService) LogEvent(log *models.AuditLog) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.started || s.stopped {
		return fmt.Errorf("audit service not running")
	}

	select {
	case s.eventChan <- log:
		return nil
	default:
		eventsDropped.Add(context.Background(), 1,
			metric.WithAttributes(attribute.String("action", string(log.Action))))
		s.logger.Warn("audit event channel full, dropping event",
			zap.String("action", string(log.Action)),
			zap.String("request_id", log.RequestID))
		return fmt.Errorf("audit event buffer full")
	}
}

// LogAuthEvent records an authentication event. Failures to queue are
// logged and swallowed so the caller's flow is never affected.
func (s *AuditService) LogAuthEvent(log *models.AuditLog) {
	if err := s.LogEvent(log); err != nil {
		s.logger.Debug("audit event not recorded",
			zap.String("action", string(log.Action)),
			zap.Error(err))
	}
}

// ListByUser returns the newest events for a user
func (s *AuditService) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*models.AuditLog, error) {
	logs, err := s.auditRepo.GetByUserID(ctx, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list audit logs by user: %w", err)
	}
	return logs, nil
}

// ListByDateRange returns the newest events between start and end
func (s *AuditService) ListByDateRange(ctx context.Context, start, end time.Time, limit, offset int) ([]*models.AuditLog, error) {
	logs, err := s.auditRepo.GetByDateRange(ctx, start, end, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list audit logs by date range: %w", err)
	}
	return logs, nil
}

func (s *AuditService) worker(id int) {
	defer s.wg.Done()

	s.logger.Debug("audit worker started", zap.Int("worker_id", id))

	for log := range s.eventChan {
		if err := s.processEvent(log); err != nil {
			s.logger.Error("failed to process audit event",
				zap.Int("worker_id", id),
				zap.Error(err),
				zap.String("action", string(log.Action)))
		}
	}

	s.logger.Debug("audit worker stopped", zap.Int("worker_id", id))
}

func (s *AuditService) processEvent(log *models.AuditLog) error {
	ctx, cancel := context.WithTimeout(s.ctx, insertTimeout)
	defer cancel()

	if err := s.auditRepo.Insert(ctx, log); err != nil {
		return fmt.Errorf("failed to insert audit log: %w", err)
	}

	eventsRecorded.Add(ctx, 1, metric.WithAttributes(attribute.String("action", string(log.Action))))
	return nil
}

// GetStats returns statistics about the audit service
func (s *AuditService) GetStats() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return Stats{
		BufferSize:    s.bufferSize,
		PendingEvents: len(s.eventChan),
		WorkerCount:   s.workerCount,
		Started:       s.started && !s.stopped,
	}
}

// HealthCheck fails when the writer is not running or its buffer is full,
// since new events would then be dropped
func (s *AuditService) HealthCheck(context.Context) error {
	stats := s.GetStats()
	if !stats.Started {
		return fmt.Errorf("audit service not running")
	}
	if stats.PendingEvents >= stats.BufferSize {
		return fmt.Errorf("audit event buffer full (%d pending)", stats.PendingEvents)
	}
	return nil
}

// Stats represents audit service statistics
type Stats struct {
	BufferSize    int
	PendingEvents int
	WorkerCount   int
	Started       bool
}
