package dbx

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTime_Scan(t *testing.T) {
	want := time.Date(2026, 10, 18, 12, 30, 15, 0, time.UTC)

	tests := []struct {
		name string
		src  any
	}{
		{"time", want.In(time.FixedZone("x", 3600))},
		{"sqlite text", "2026-10-18 12:30:15"},
		{"bytes", []byte("2026-10-18T12:30:15Z")},
		{"with offset", "2026-10-18 13:30:15+01:00"},
		{"unix", want.Unix()},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var got time.Time
			require.NoError(t, Time(&got).Scan(tc.src))
			assert.True(t, want.Equal(got), "got %v", got)
			assert.Equal(t, time.UTC, got.Location())
		})
	}
}

func TestTime_ScanNilAndErrors(t *testing.T) {
	got := time.Now()
	require.NoError(t, Time(&got).Scan(nil))
	assert.True(t, got.IsZero())

	assert.Error(t, Time(&got).Scan("yesterday"))
	assert.Error(t, Time(&got).Scan(3.14))
}
