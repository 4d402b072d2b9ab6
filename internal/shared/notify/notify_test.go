package notify

import "testing"

func TestFanoutDeliversToAll(t *testing.T) {
	t.Parallel()

	first, second := &Recorder{}, &Recorder{}
	fan := Fanout{Notifiers: []Notifier{first, nil, second}, Navigators: []Navigator{first}}

	Success(fan, " Registro creado ")
	fan.Navigate("/clients")

	for _, rec := range []*Recorder{first, second} {
		notes := rec.Notifications()
		if len(notes) != 1 || notes[0].Message != "Registro creado" || notes[0].Level != LevelSuccess {
			t.Fatalf("unexpected notifications %+v", notes)
		}
		if notes[0].ID == "" {
			t.Fatalf("expected notification id")
		}
	}
	if paths := first.Paths(); len(paths) != 1 || paths[0] != "/clients" {
		t.Fatalf("unexpected paths %v", paths)
	}
	if len(second.Paths()) != 0 {
		t.Fatalf("second recorder is not a navigator target")
	}
}

func TestNilNotifierIsIgnored(t *testing.T) {
	t.Parallel()

	Error(nil, "ignored")
}
