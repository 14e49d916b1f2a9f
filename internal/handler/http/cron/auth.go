// Package cron serves the job endpoints: the scheduled model fetch and the
// historical backfill. Both are guarded by the shared cron secret.
package cron

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"model-tracker/internal/handler/http/respond"
)

// SchedulerUserAgent is the user agent sent by the hosting scheduler.
const SchedulerUserAgent = "vercel-cron"

// Auth holds the cron credentials.
type Auth struct {
	// Secret is compared with the bearer token. Empty disables bearer auth.
	Secret string

	// Production accepts only the scheduler user agent on scheduled calls.
	Production bool
}

// hasBearer reports whether r carries "Bearer <Secret>".
func (a Auth) hasBearer(r *http.Request) bool {
	if a.Secret == "" {
		return false
	}
	token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
	if !ok {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(token), []byte(a.Secret)) == 1
}

// AllowScheduled authorises a scheduled trigger. In production only the
// scheduler user agent is accepted; elsewhere the bearer secret works too.
func (a Auth) AllowScheduled(r *http.Request) bool {
	fromScheduler := r.Header.Get("User-Agent") == SchedulerUserAgent
	if a.Production {
		return fromScheduler
	}
	return a.hasBearer(r) || fromScheduler
}

// AllowManual authorises a manual trigger, which always needs the bearer.
func (a Auth) AllowManual(r *http.Request) bool {
	return a.hasBearer(r)
}

func unauthorized(w http.ResponseWriter) {
	respond.Error(w, http.StatusUnauthorized, "Unauthorized")
}
