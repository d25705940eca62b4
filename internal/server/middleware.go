package server

import (
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/resumine/resumine/internal/auth"
	"github.com/resumine/resumine/internal/service"
)

type authedHandler func(w http.ResponseWriter, r *http.Request, userID string)

// requireAuth resolves the caller's identity before the handler runs.
// Requests without a resolvable identity never reach a service.
func (h *Handler) requireAuth(next authedHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := h.identity.Resolve(r.Context(), auth.TokenFromRequest(r))
		if err != nil {
			writeError(w, service.ErrUnauthorized)
			return
		}

		next(w, r, userID)
	}
}

// requestLogger logs the request time for each request
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		logrus.Infof("%s %s took %v", r.Method, r.URL.Path, time.Since(start))
	})
}
