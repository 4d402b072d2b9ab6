package domain

import (
	"encoding/json"
	"strings"
	"testing"

	"agendaConsole/internal/shared/validation"
)

func TestFormValidate(t *testing.T) {
	t.Parallel()

	fields, _ := validation.AsFieldErrors(Form{Description: " "}.Validate(false))
	if fields["description"] != "La descripción es obligatoria" || fields["appointmentId"] != "appointmentId inválido" {
		t.Fatalf("unexpected fields %v", fields)
	}

	fields, _ = validation.AsFieldErrors(Form{Description: strings.Repeat("x", 1001), AppointmentID: 3}.Validate(false))
	if fields["description"] != "Máximo 1000 caracteres" {
		t.Fatalf("unexpected fields %v", fields)
	}

	if err := (Form{Description: "no show", AppointmentID: 3}).Validate(false); err != nil {
		t.Fatalf("unexpected error %v", err)
	}
}

func TestExistsMapDecodesStringKeys(t *testing.T) {
	t.Parallel()

	var exists ExistsMap
	if err := json.Unmarshal([]byte(`{"1":true,"2":false}`), &exists); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !exists[1] || exists[2] || exists[3] {
		t.Fatalf("unexpected map %v", exists)
	}
}
