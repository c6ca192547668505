// Package formutil decodes submitted JSON bodies into request structs and
// validates them.
//
// Decoding is strict: unknown fields, trailing data, and oversized bodies
// are rejected. After decoding, the struct's `validate` tags are checked
// with inputval. Every failure is an apperr validation error, so handlers
// can pass it straight to the error writer:
//
//	var req createReq
//	if err := formutil.DecodeJSON(w, r, &req, limits.MaxJSONBody); err != nil {
//		h.ErrLog.Write(w, r, err)
//		return
//	}
package formutil

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/dalemusser/menuhub/internal/app/system/apperr"
	"github.com/dalemusser/menuhub/internal/app/system/inputval"
)

// DecodeJSON reads r's body into dst and validates it.
func DecodeJSON(w http.ResponseWriter, r *http.Request, dst any, maxBytes int64) error {
	if err := decode(w, r, dst, maxBytes); err != nil {
		return err
	}
	if res := inputval.Validate(dst); !res.OK() {
		return apperr.Validation(res.First()).WithDetail("fields", res.Fields())
	}
	return nil
}

// DecodeJSONOnly is DecodeJSON without tag validation, for partial updates
// whose rules depend on which fields were supplied.
func DecodeJSONOnly(w http.ResponseWriter, r *http.Request, dst any, maxBytes int64) error {
	return decode(w, r, dst, maxBytes)
}

func decode(w http.ResponseWriter, r *http.Request, dst any, maxBytes int64) error {
	if r.Body == nil {
		return apperr.Validation("request body is required")
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		return translate(err)
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return apperr.Validation("request body must contain a single JSON object")
	}
	return nil
}

func translate(err error) error {
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	var maxErr *http.MaxBytesError

	switch {
	case errors.Is(err, io.EOF):
		return apperr.Validation("request body is required")
	case errors.As(err, &syntaxErr), errors.Is(err, io.ErrUnexpectedEOF):
		return apperr.Validation("request body is not valid JSON")
	case errors.As(err, &typeErr):
		if typeErr.Field != "" {
			return apperr.Validationf("%s has the wrong type", typeErr.Field)
		}
		return apperr.Validation("request body has the wrong shape")
	case errors.As(err, &maxErr):
		return apperr.Validationf("request body must not exceed %d bytes", maxErr.Limit)
	case strings.HasPrefix(err.Error(), "json: unknown field "):
		field := strings.TrimPrefix(err.Error(), "json: unknown field ")
		return apperr.Validation(fmt.Sprintf("unknown field %s", field)).WithDetail("field", strings.Trim(field, `"`))
	default:
		return apperr.Validation("request body could not be decoded")
	}
}
