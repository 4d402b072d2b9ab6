package domain

import (
	"encoding/json"
	"testing"

	"agendaConsole/internal/shared/validation"
)

func ptr(v int64) *int64 { return &v }

func TestCreatePayloadRequiresProfessionalAndClient(t *testing.T) {
	t.Parallel()

	form := DefaultForm()
	form.Date = "2024-01-01T10:00:00.000Z"
	for _, editing := range []bool{false, true} {
		if err := form.Validate(editing); err != nil {
			t.Fatalf("editing=%v: schema should accept missing ids, got %v", editing, err)
		}
	}

	_, err := form.CreatePayload()
	fields, ok := validation.AsFieldErrors(err)
	if !ok {
		t.Fatalf("expected field errors, got %v", err)
	}
	if fields["userId"] != MissingProfessionalMessage || fields["clientId"] != MissingClientMessage {
		t.Fatalf("unexpected fields %v", fields)
	}

	form.UserID = ptr(2)
	form.ClientID = ptr(0)
	_, err = form.CreatePayload()
	fields, _ = validation.AsFieldErrors(err)
	if _, hasUser := fields["userId"]; hasUser || fields["clientId"] != MissingClientMessage {
		t.Fatalf("unexpected fields %v", fields)
	}

	form.ClientID = ptr(3)
	payload, err := form.CreatePayload()
	if err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	if payload.UserID != 2 || payload.ClientID != 3 || payload.Status != StatusPending || payload.ServiceID != nil {
		t.Fatalf("unexpected payload %+v", payload)
	}
}

func TestValidateRequiresDateAndKnownStatus(t *testing.T) {
	t.Parallel()

	fields, _ := validation.AsFieldErrors(Form{Status: "LATE"}.Validate(true))
	if fields["date"] != "La fecha es obligatoria" || fields["status"] != "Estado inválido" {
		t.Fatalf("unexpected fields %v", fields)
	}
}

func TestPartialPayloads(t *testing.T) {
	t.Parallel()

	raw, _ := json.Marshal(ReschedulePayload("2024-01-02T09:00:00.000Z"))
	if string(raw) != `{"date":"2024-01-02T09:00:00.000Z"}` {
		t.Fatalf("unexpected reschedule body %s", raw)
	}
	raw, _ = json.Marshal(StatusPayload(StatusCompleted))
	if string(raw) != `{"status":"COMPLETED"}` {
		t.Fatalf("unexpected status body %s", raw)
	}

	update := Form{Date: "2024-01-01T10:00:00Z", Status: StatusConfirmed, ClientID: ptr(3)}.UpdatePayload()
	raw, _ = json.Marshal(update)
	var decoded map[string]any
	_ = json.Unmarshal(raw, &decoded)
	if _, ok := decoded["userId"]; ok {
		t.Fatalf("unset userId must be omitted: %s", raw)
	}
	if decoded["clientId"] != float64(3) || decoded["isRecurring"] != false {
		t.Fatalf("unexpected update body %s", raw)
	}
}

func TestToFormCarriesRelatedIDs(t *testing.T) {
	t.Parallel()

	form := ToForm(Appointment{ID: 1, Date: "d", Status: StatusPending, User: &Ref{ID: 2}, Client: &Ref{ID: 3}})
	if form.UserID == nil || *form.UserID != 2 || form.ClientID == nil || *form.ClientID != 3 || form.ServiceID != nil {
		t.Fatalf("unexpected form %+v", form)
	}
}

func TestNormalizeStatus(t *testing.T) {
	t.Parallel()

	cases := []struct {
		input string
		want  Status
	}{
		{input: " pending ", want: StatusPending},
		{input: "CONFIRMED", want: StatusConfirmed},
		{input: "delayed", want: Status("DELAYED")},
		{input: "", want: StatusUnknown},
	}
	for _, tc := range cases {
		if got := NormalizeStatus(tc.input); got != tc.want {
			t.Fatalf("NormalizeStatus(%q) = %q, want %q", tc.input, got, tc.want)
		}
	}
	if Status("DELAYED").Known() || !StatusCancelled.Known() {
		t.Fatalf("unexpected Known results")
	}
}
