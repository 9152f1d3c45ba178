package timeutil_test

import (
	"errors"
	"testing"
	"time"

	"github.com/sgaunet/release-toolbox/internal/timeutil"
)

func TestParseSince(t *testing.T) {
	now := time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{name: "absolute date", input: "2024-01-31", want: "2024-01-31"},
		{name: "days ago", input: "3 days ago", want: "2024-03-12"},
		{name: "weeks ago", input: "2 weeks ago", want: "2024-03-01"},
		{name: "garbage", input: "not a date", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := timeutil.ParseSince(tt.input, now)
			if tt.wantErr {
				if !errors.Is(err, timeutil.ErrUnparsableDate) {
					t.Errorf("ParseSince(%q) error = %v, want ErrUnparsableDate", tt.input, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseSince(%q) unexpected error: %v", tt.input, err)
			}
			if got.Format(timeutil.DateLayout) != tt.want {
				t.Errorf("ParseSince(%q) = %s, want %s", tt.input, got.Format(timeutil.DateLayout), tt.want)
			}
		})
	}
}
