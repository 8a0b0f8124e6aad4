package features

import (
	"errors"
	"testing"
	"time"

	"github.com/dvloznov/rfm-pipeline/internal/domain"
)

func TestParseTimestamp(t *testing.T) {
	tests := []struct {
		input   string
		want    time.Time
		wantErr bool
	}{
		{"2019-01-01 10:00:00", time.Date(2019, 1, 1, 10, 0, 0, 0, time.UTC), false},
		{"2019-01-01T10:00:00", time.Date(2019, 1, 1, 10, 0, 0, 0, time.UTC), false},
		{"2018-11-15T02:18:49Z", time.Date(2018, 11, 15, 2, 18, 49, 0, time.UTC), false},
		{"2018-11-15T05:18:49+03:00", time.Date(2018, 11, 15, 2, 18, 49, 0, time.UTC), false},
		{"2019-01-01 10:00:00.250", time.Date(2019, 1, 1, 10, 0, 0, 250_000_000, time.UTC), false},
		{"2019-01-01 10:00", time.Date(2019, 1, 1, 10, 0, 0, 0, time.UTC), false},
		{"2019-01-01", time.Date(2019, 1, 1, 0, 0, 0, 0, time.UTC), false},
		{"  2019-01-01 10:00:00 ", time.Date(2019, 1, 1, 10, 0, 0, 0, time.UTC), false},
		{"", time.Time{}, true},
		{"01/02/2019", time.Time{}, true},
		{"2019-13-01", time.Time{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseTimestamp(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseTimestamp(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if tt.wantErr {
				if !errors.Is(err, domain.ErrParse) {
					t.Errorf("ParseTimestamp(%q) error = %v, want ErrParse", tt.input, err)
				}
				return
			}
			if !got.Equal(tt.want) || got.Location() != time.UTC {
				t.Errorf("ParseTimestamp(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}
