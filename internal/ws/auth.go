package ws

import (
	"net/http"
	"strings"

	"go_attendance/internal/auth"

	"github.com/sirupsen/logrus"
)

// AuthMiddleware validates the JWT during the Socket.IO handshake. The token
// comes from the "token" query parameter (browser WebSocket clients cannot
// set headers) or a Bearer header.
func AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := extractToken(r)
		if token == "" {
			http.Error(w, "Unauthorized: no token provided", http.StatusUnauthorized)
			return
		}

		if _, err := auth.ParseToken(token); err != nil {
			logrus.WithField("remote", r.RemoteAddr).WithError(err).
				Debug("dashboard handshake rejected")
			http.Error(w, "Unauthorized: invalid token", http.StatusUnauthorized)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func extractToken(r *http.Request) string {
	if token := r.URL.Query().Get("token"); token != "" {
		return token
	}
	header := r.Header.Get("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	return ""
}
