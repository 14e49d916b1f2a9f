package ingest

import "errors"

// ErrInvalidBackfillRequest is returned when a backfill request carries
// neither {year, month} nor {startDate, endDate}.
var ErrInvalidBackfillRequest = errors.New("backfill request needs year and month or start and end dates")
