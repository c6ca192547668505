package paging_test

import (
	"net/http/httptest"
	"testing"

	"github.com/dalemusser/menuhub/internal/app/system/paging"
)

func TestParseLimit(t *testing.T) {
	tests := []struct {
		query   string
		want    int64
		wantErr bool
	}{
		{"", 100, false},
		{"?limit=25", 25, false},
		{"?limit=200", 200, false},
		{"?limit=5000", 200, false},
		{"?limit=0", 0, true},
		{"?limit=-1", 0, true},
		{"?limit=abc", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			r := httptest.NewRequest("GET", "/api/orders"+tt.query, nil)
			got, err := paging.ParseLimit(r, 100, 200)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("got %d, want %d", got, tt.want)
			}
		})
	}
}
