package domain

import (
	"testing"

	"agendaConsole/internal/shared/validation"
)

func TestFormValidate(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name   string
		form   Form
		fields map[string]string
	}{
		{name: "valid without email", form: Form{Name: "Ana"}},
		{name: "blank name", form: Form{Name: "  "}, fields: map[string]string{"name": "El nombre es obligatorio"}},
		{name: "bad email", form: Form{Name: "Ana", Email: "ana@"}, fields: map[string]string{"email": "Email inválido"}},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			err := tc.form.Validate(false)
			if len(tc.fields) == 0 {
				if err != nil {
					t.Fatalf("unexpected error %v", err)
				}
				return
			}
			fields, ok := validation.AsFieldErrors(err)
			if !ok {
				t.Fatalf("expected field errors, got %v", err)
			}
			for key, msg := range tc.fields {
				if fields[key] != msg {
					t.Fatalf("field %s: expected %q, got %q", key, msg, fields[key])
				}
			}
		})
	}
}

func TestPayloadTrimsValues(t *testing.T) {
	t.Parallel()

	payload := Form{Name: " Ana ", Email: " ", Phone: "555"}.Payload()
	if payload.Name != "Ana" || payload.Email != "" || payload.Phone != "555" {
		t.Fatalf("unexpected payload %+v", payload)
	}
	if form := ToForm(Client{ID: 1, Name: "Ana", Notes: "vip"}); form.Notes != "vip" || form.Name != "Ana" {
		t.Fatalf("unexpected form %+v", form)
	}
}
