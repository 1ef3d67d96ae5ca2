package middleware

import (
	"net"
	"net/http"

	"github.com/upb/spaces-control-plane/services"
)

// RequestMeta records the request ID, client address and user agent so
// services can attach them to audit entries
func RequestMeta(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		requestID := GetRequestIDFromContext(ctx)

		ctx = WithRequestID(ctx, requestID)
		ctx = services.WithRequestMeta(ctx, services.RequestMeta{
			RequestID: requestID,
			IPAddress: clientIP(r.RemoteAddr),
			UserAgent: r.UserAgent(),
		})

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func clientIP(remoteAddr string) string {
	host, _, err := net.SplitHostPort(remoteAddr)
	if err != nil {
		return remoteAddr
	}
	return host
}
