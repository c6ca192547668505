package formutil_test

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/dalemusser/menuhub/internal/app/system/apperr"
	"github.com/dalemusser/menuhub/internal/app/system/formutil"
)

type itemReq struct {
	Name  string  `json:"name" validate:"required,max=20"`
	Price float64 `json:"price" validate:"gte=0"`
}

func decode(body string, limit int64) (itemReq, error) {
	var req itemReq
	r := httptest.NewRequest("POST", "/", strings.NewReader(body))
	err := formutil.DecodeJSON(httptest.NewRecorder(), r, &req, limit)
	return req, err
}

func TestDecodeJSON_OK(t *testing.T) {
	req, err := decode(`{"name":"Soup","price":4.5}`, 1024)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if req.Name != "Soup" || req.Price != 4.5 {
		t.Errorf("decoded %+v", req)
	}
}

func TestDecodeJSON_Rejects(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"empty", ``},
		{"malformed", `{"name":`},
		{"unknown field", `{"name":"Soup","price":1,"color":"red"}`},
		{"wrong type", `{"name":"Soup","price":"cheap"}`},
		{"trailing data", `{"name":"Soup","price":1}{}`},
		{"missing required", `{"price":1}`},
		{"negative price", `{"name":"Soup","price":-1}`},
		{"too large", `{"name":"` + strings.Repeat("a", 200) + `","price":1}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := decode(tt.body, 128)
			if !apperr.Is(err, apperr.KindValidation) {
				t.Errorf("expected validation error, got %v", err)
			}
		})
	}
}

func TestDecodeJSON_UnknownFieldDetail(t *testing.T) {
	_, err := decode(`{"name":"Soup","price":1,"color":"red"}`, 1024)
	ae, ok := err.(*apperr.Error)
	if !ok {
		t.Fatalf("expected *apperr.Error, got %T", err)
	}
	if ae.Details["field"] != "color" {
		t.Errorf("field detail = %v", ae.Details["field"])
	}
}

func TestDecodeJSONOnly_SkipsValidation(t *testing.T) {
	var req itemReq
	r := httptest.NewRequest("POST", "/", strings.NewReader(`{"price":-3}`))
	if err := formutil.DecodeJSONOnly(httptest.NewRecorder(), r, &req, 1024); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if req.Price != -3 {
		t.Errorf("Price = %v", req.Price)
	}
}
