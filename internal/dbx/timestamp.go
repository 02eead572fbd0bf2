package dbx

import (
	"database/sql"
	"fmt"
	"time"
)

// sqliteLayouts are the text forms SQLite produces for CURRENT_TIMESTAMP and
// the forms modernc.org/sqlite writes for time.Time parameters.
var sqliteLayouts = []string{
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02T15:04:05.999999999-07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	time.RFC3339Nano,
}

// Time returns a scanner storing a timestamp column into dst. Drivers hand
// timestamps over either as time.Time or, for SQLite expressions without a
// declared column type, as text; both end up as UTC.
func Time(dst *time.Time) sql.Scanner {
	return timeScanner{dst: dst}
}

type timeScanner struct {
	dst *time.Time
}

func (s timeScanner) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*s.dst = time.Time{}
	case time.Time:
		*s.dst = v.UTC()
	case string:
		return s.parse(v)
	case []byte:
		return s.parse(string(v))
	case int64:
		*s.dst = time.Unix(v, 0).UTC()
	default:
		return fmt.Errorf("cannot scan %T into time.Time", src)
	}
	return nil
}

func (s timeScanner) parse(v string) error {
	for _, layout := range sqliteLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			*s.dst = t.UTC()
			return nil
		}
	}
	return fmt.Errorf("cannot parse %q as time", v)
}
