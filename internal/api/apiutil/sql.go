package apiutil

import (
	"database/sql"
	"strings"
)

// NullString treats blank input as NULL.
func NullString(value string) sql.NullString {
	value = strings.TrimSpace(value)
	return sql.NullString{String: value, Valid: value != ""}
}

func NullInt64(value int64, ok bool) sql.NullInt64 {
	if !ok {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: value, Valid: true}
}
