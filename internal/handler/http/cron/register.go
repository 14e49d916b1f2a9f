package cron

import (
	"net/http"
	"time"
)

// Register registers the job endpoints with the given mux. jobTimeout
// bounds each job; zero means DefaultJobTimeout.
func Register(mux *http.ServeMux, fetch FetchRunner, backfill BackfillRunner, auth Auth, jobTimeout time.Duration) {
	fh := FetchHandler{Runner: fetch, Auth: auth, Timeout: jobTimeout}
	mux.Handle("GET /api/cron/fetch-models", fh)
	mux.Handle("POST /api/cron/fetch-models", fh)

	mux.Handle("POST /api/backfill", BackfillHandler{Runner: backfill, Auth: auth, Timeout: jobTimeout})
	mux.Handle("GET /api/backfill", UsageHandler{})
}
