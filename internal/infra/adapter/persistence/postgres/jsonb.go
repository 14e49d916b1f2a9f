package postgres

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"time"
)

// defaultRecentLimit applies when ListRecent is called without a positive limit.
const defaultRecentLimit = 20

// marshalJSONB encodes v for a jsonb column. Nil values are stored as SQL NULL.
func marshalJSONB(v any) ([]byte, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	if bytes.Equal(b, []byte("null")) {
		return nil, nil
	}
	return b, nil
}

// unmarshalJSONB leaves dst untouched when the column is NULL.
func unmarshalJSONB(b []byte, dst any) error {
	if len(b) == 0 {
		return nil
	}
	return json.Unmarshal(b, dst)
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullInt(n int) sql.NullInt64 {
	return sql.NullInt64{Int64: int64(n), Valid: n != 0}
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}
