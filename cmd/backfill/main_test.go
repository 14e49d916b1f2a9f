package main

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"model-tracker/internal/usecase/ingest"
)

func TestParseArgs(t *testing.T) {
	now := time.Date(2025, 1, 15, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		args    []string
		want    ingest.BackfillRequest
		wantErr string
	}{
		{"month", []string{"--month", "2024", "12"}, ingest.BackfillRequest{Year: 2024, Month: 12}, ""},
		{"month zero left to range check", []string{"--month", "2024", "0"}, ingest.BackfillRequest{Year: 2024}, ""},
		{"range", []string{"--range", "2024-12-01", "2024-12-31"}, ingest.BackfillRequest{StartDate: "2024-12-01", EndDate: "2024-12-31"}, ""},
		{"last month across year", []string{"--last-month"}, ingest.BackfillRequest{Year: 2024, Month: 12}, ""},
		{"no args", nil, ingest.BackfillRequest{}, "usage"},
		{"help", []string{"--help"}, ingest.BackfillRequest{}, "usage"},
		{"month missing value", []string{"--month", "2024"}, ingest.BackfillRequest{}, "takes a year and a month"},
		{"month not a number", []string{"--month", "2024", "dec"}, ingest.BackfillRequest{}, `invalid month "dec"`},
		{"year not a number", []string{"--month", "last", "12"}, ingest.BackfillRequest{}, `invalid year "last"`},
		{"range missing end", []string{"--range", "2024-12-01"}, ingest.BackfillRequest{}, "takes a start and an end date"},
		{"last month with value", []string{"--last-month", "2"}, ingest.BackfillRequest{}, "takes no arguments"},
		{"unknown", []string{"--week"}, ingest.BackfillRequest{}, `unknown option "--week"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseArgs(tt.args, now)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseArgs_LastMonthMidYear(t *testing.T) {
	got, err := parseArgs([]string{"--last-month"}, time.Date(2025, 3, 31, 23, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, ingest.BackfillRequest{Year: 2025, Month: 2}, got)
}

func TestPrintSummary(t *testing.T) {
	var buf bytes.Buffer
	printSummary(&buf, ingest.Summary{Discovered: 7, Inserted: 5, Skipped: 2})
	assert.Equal(t, "Backfill complete\n  Inserted: 5\n  Skipped:  2\n  Total:    7\n", buf.String())
}
