package workout

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
)

func TestParseInput(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		max     int
		want    int
		wantErr bool
	}{
		{name: "plain", raw: "45", max: 999, want: 45},
		{name: "strips non digits", raw: "4a5s", max: 999, want: 45},
		{name: "clamped", raw: "150", max: 99, want: 99},
		{name: "very long", raw: "123456789012345678901234567890", max: 999, want: 999},
		{name: "leading zeros", raw: "007", max: 99, want: 7},
		{name: "empty", raw: "", max: 99, wantErr: true},
		{name: "zero", raw: "0", max: 99, wantErr: true},
		{name: "non numeric", raw: "abc", max: 99, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseInput(tt.raw, tt.max)
			if tt.wantErr {
				assert.True(t, errors.Is(err, ErrInvalidConfig))
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseOptionalInput(t *testing.T) {
	v, err := ParseOptionalInput("  ", 99)
	assert.NoError(t, err)
	assert.Zero(t, v)

	_, err = ParseOptionalInput("x", 99)
	assert.Error(t, err)
}

func TestFormatClock(t *testing.T) {
	assert.Equal(t, "0:00", FormatClock(0))
	assert.Equal(t, "0:09", FormatClock(9))
	assert.Equal(t, "1:05", FormatClock(65))
	assert.Equal(t, "20:00", FormatClock(1200))
	assert.Equal(t, "0:00", FormatClock(-3))
}
