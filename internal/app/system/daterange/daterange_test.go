package daterange_test

import (
	"testing"
	"time"

	"github.com/dalemusser/menuhub/internal/app/system/apperr"
	"github.com/dalemusser/menuhub/internal/app/system/daterange"
)

func TestParse_EndIsInclusiveThroughEndOfDay(t *testing.T) {
	r, err := daterange.Parse("2024-03-01", "2024-03-05")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	wantStart := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	wantEnd := time.Date(2024, 3, 5, 23, 59, 59, 999_000_000, time.UTC)
	if !r.Start.Equal(wantStart) {
		t.Errorf("Start = %v, want %v", r.Start, wantStart)
	}
	if !r.End.Equal(wantEnd) {
		t.Errorf("End = %v, want %v", r.End, wantEnd)
	}
	if !r.Contains(time.Date(2024, 3, 5, 22, 0, 0, 0, time.UTC)) {
		t.Error("expected late evening of end day to be included")
	}
	if r.Contains(time.Date(2024, 3, 6, 0, 0, 0, 0, time.UTC)) {
		t.Error("expected next day to be excluded")
	}
}

func TestParse_RFC3339(t *testing.T) {
	r, err := daterange.Parse("2024-03-01T10:00:00Z", "2024-03-01T12:00:00+02:00")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if r.Start.Hour() != 10 {
		t.Errorf("Start hour = %d, want 10", r.Start.Hour())
	}
	if r.End.Hour() != 23 {
		t.Errorf("End hour = %d, want 23", r.End.Hour())
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name       string
		start, end string
	}{
		{"missing start", "", "2024-03-01"},
		{"missing end", "2024-03-01", ""},
		{"bad start", "yesterday", "2024-03-01"},
		{"bad end", "2024-03-01", "03/05/2024"},
		{"start after end", "2024-03-05", "2024-03-01"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := daterange.Parse(tt.start, tt.end)
			if !apperr.Is(err, apperr.KindValidation) {
				t.Errorf("expected validation error, got %v", err)
			}
		})
	}
}

func TestParseOrDefault_Last30Days(t *testing.T) {
	now := time.Date(2024, 6, 30, 15, 0, 0, 0, time.UTC)
	r, err := daterange.ParseOrDefault("", "", now, 30)
	if err != nil {
		t.Fatalf("ParseOrDefault failed: %v", err)
	}
	if want := time.Date(2024, 5, 31, 0, 0, 0, 0, time.UTC); !r.Start.Equal(want) {
		t.Errorf("Start = %v, want %v", r.Start, want)
	}
	if want := daterange.EndOfDay(now); !r.End.Equal(want) {
		t.Errorf("End = %v, want %v", r.End, want)
	}
}

func TestCheck_MaxDays(t *testing.T) {
	r, err := daterange.Parse("2024-01-01", "2024-01-10")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if r.Days() != 10 {
		t.Errorf("Days() = %d, want 10", r.Days())
	}
	if err := r.Check(10); err != nil {
		t.Errorf("Check(10) = %v, want nil", err)
	}
	if err := r.Check(9); !apperr.Is(err, apperr.KindValidation) {
		t.Errorf("Check(9) = %v, want validation error", err)
	}
	if err := r.Check(0); err != nil {
		t.Errorf("Check(0) = %v, want nil", err)
	}
}
