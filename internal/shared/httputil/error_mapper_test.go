package httputil

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"
)

var errMissing = errors.New("missing")

type fieldErrs map[string]string

func (f fieldErrs) Error() string                   { return "fields" }
func (f fieldErrs) FieldMessages() map[string]string { return f }

func TestErrorMapperMap(t *testing.T) {
	t.Parallel()

	mapper := NewErrorMapper().
		WithMapping(errMissing, http.StatusNotFound, "not found").
		WithDefault(http.StatusBadGateway, "upstream error")

	cases := []struct {
		name    string
		err     error
		status  int
		message string
	}{
		{name: "nil", err: nil, status: http.StatusOK},
		{name: "wrapped mapping", err: fmt.Errorf("load: %w", errMissing), status: http.StatusNotFound, message: "not found"},
		{name: "deadline", err: context.DeadlineExceeded, status: http.StatusGatewayTimeout, message: "request timeout"},
		{name: "default", err: errors.New("boom"), status: http.StatusBadGateway, message: "upstream error"},
		{name: "fields", err: fieldErrs{"name": "Requerido"}, status: http.StatusUnprocessableEntity, message: "validation failed"},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			info := mapper.Map(tc.err)
			if info.Status != tc.status || info.Message != tc.message {
				t.Fatalf("expected %d %q, got %d %q", tc.status, tc.message, info.Status, info.Message)
			}
		})
	}
}

func TestQuickMapCarriesFields(t *testing.T) {
	t.Parallel()

	info := QuickMap(fmt.Errorf("submit: %w", fieldErrs{"clientId": "Selecciona un cliente"}))
	if info.Fields["clientId"] != "Selecciona un cliente" {
		t.Fatalf("expected field message, got %+v", info.Fields)
	}
}
