package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/upb/spaces-control-plane/models"
	"github.com/upb/spaces-control-plane/services"
	"github.com/upb/spaces-control-plane/utils"
)

const (
	defaultAuditPageSize = 50
	maxAuditPageSize     = 500
	defaultAuditWindow   = 24 * time.Hour
)

// AuditReader defines the audit trail queries the handler needs
type AuditReader interface {
	ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*models.AuditLog, error)
	ListByDateRange(ctx context.Context, start, end time.Time, limit, offset int) ([]*models.AuditLog, error)
}

// AuditHandler serves the authentication audit trail
type AuditHandler struct {
	reader AuditReader
	logger *zap.Logger
	now    func() time.Time
}

// NewAuditHandler creates a new AuditHandler
func NewAuditHandler(reader AuditReader, logger *zap.Logger) *AuditHandler {
	return &AuditHandler{
		reader: reader,
		logger: logger,
		now:    time.Now,
	}
}

// HandleList handles GET /api/v1/audit/logs.
// With ?user_id= it lists that user's events, otherwise the events between
// ?from= and ?to= (RFC 3339, default the last 24 hours).
func (h *AuditHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q := r.URL.Query()

	limit, offset, err := pageParams(r)
	if err != nil {
		HandleValidationError(w, err, h.logger)
		return
	}
	if limit == 0 {
		limit = defaultAuditPageSize
	}
	if limit > maxAuditPageSize {
		limit = maxAuditPageSize
	}

	var logs []*models.AuditLog
	if raw := q.Get("user_id"); raw != "" {
		userID, err := utils.ParseUUID(raw, "user_id")
		if err != nil {
			HandleValidationError(w, err, h.logger)
			return
		}
		logs, err = h.reader.ListByUser(ctx, userID, limit, offset)
		if err != nil {
			HandleServiceError(w, services.WrapInternal("failed to list audit logs", err), h.logger)
			return
		}
	} else {
		end := h.now().UTC()
		start := end.Add(-defaultAuditWindow)
		if start, err = timeParam(q.Get("from"), start); err != nil {
			HandleServiceError(w, services.ErrInvalidInput.Wrap(err).WithDetail("from", "must be an RFC 3339 timestamp"), h.logger)
			return
		}
		if end, err = timeParam(q.Get("to"), end); err != nil {
			HandleServiceError(w, services.ErrInvalidInput.Wrap(err).WithDetail("to", "must be an RFC 3339 timestamp"), h.logger)
			return
		}
		if !start.Before(end) {
			HandleServiceError(w, services.ErrInvalidInput.Wrap(nil).WithDetail("from", "must be before to"), h.logger)
			return
		}

		logs, err = h.reader.ListByDateRange(ctx, start, end, limit, offset)
		if err != nil {
			HandleServiceError(w, services.WrapInternal("failed to list audit logs", err), h.logger)
			return
		}
	}

	if logs == nil {
		logs = []*models.AuditLog{}
	}
	_ = utils.WriteOK(w, logs)
}

func timeParam(raw string, fallback time.Time) (time.Time, error) {
	if raw == "" {
		return fallback, nil
	}
	return time.Parse(time.RFC3339, raw)
}
