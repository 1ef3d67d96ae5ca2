package services

import (
	"context"

	"github.com/upb/spaces-control-plane/models"
)

type requestMetaKey struct{}

// RequestMeta describes the HTTP request behind a service call, for auditing
type RequestMeta struct {
	RequestID string
	IPAddress string
	UserAgent string
}

// WithRequestMeta attaches request metadata to the context
func WithRequestMeta(ctx context.Context, meta RequestMeta) context.Context {
	return context.WithValue(ctx, requestMetaKey{}, meta)
}

// RequestMetaFromContext returns the request metadata, or a zero value
func RequestMetaFromContext(ctx context.Context) RequestMeta {
	meta, _ := ctx.Value(requestMetaKey{}).(RequestMeta)
	return meta
}

func (m RequestMeta) apply(log *models.AuditLog) *models.AuditLog {
	return log.WithRequest(m.RequestID, m.IPAddress, m.UserAgent)
}
