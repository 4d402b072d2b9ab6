package transport

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"agendaConsole/internal/modules/appointments/application/usecase"
	appointmentsinfra "agendaConsole/internal/modules/appointments/infrastructure"
	clientsinfra "agendaConsole/internal/modules/clients/infrastructure"
	"agendaConsole/internal/modules/console/application/form"
	"agendaConsole/internal/modules/console/application/listing"
	"agendaConsole/internal/modules/console/domain"
	"agendaConsole/internal/modules/console/infrastructure"
	reportsinfra "agendaConsole/internal/modules/reports/infrastructure"
	"agendaConsole/internal/platform/rest"
	"agendaConsole/internal/shared/auth"
	"agendaConsole/internal/shared/notify"
	"agendaConsole/internal/shared/session"
)

type fakeAuthenticator struct{}

func (fakeAuthenticator) Login(_ context.Context, email, password string) (string, error) {
	if password != "secret" {
		return "", rest.ErrUnauthorized
	}
	return "tok", nil
}

func (fakeAuthenticator) Me(context.Context, auth.Credential) (session.Profile, error) {
	return session.Profile{UserID: 1, Email: "ana@example.com", Role: "ADMIN"}, nil
}

var backendRoutes = map[string]string{
	"GET /api/clients":   `{"data":[{"id":3,"name":"Ana"}],"meta":{"total":25,"page":1,"limit":10,"totalPages":3}}`,
	"GET /api/clients/3": `{"id":3,"name":"Ana","email":"ana@example.com"}`,
	"PUT /api/clients/3": `{"id":3,"name":"Ana María"}`,
	"GET /api/appointments": `{"data":[{"id":1,"date":"2024-01-01T10:00:00.000Z","status":"PENDING","client":{"id":3,"name":"Ana"}}],` +
		`"meta":{"total":1,"page":1,"limit":500,"totalPages":1}}`,
}

type testConsole struct {
	echo     *echo.Echo
	recorder *notify.Recorder
	hub      *infrastructure.Hub
	manager  *session.Manager
}

func newTestConsole(t *testing.T) *testConsole {
	t.Helper()
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		response, ok := backendRoutes[r.Method+" "+r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(response))
	}))
	t.Cleanup(backend.Close)

	recorder := &notify.Recorder{}
	hub := infrastructure.NewHub()
	outputs := notify.Fanout{
		Notifiers:  []notify.Notifier{hub, recorder},
		Navigators: []notify.Navigator{hub, recorder},
	}
	manager := session.NewManager(fakeAuthenticator{}, session.NewMemoryStore(""), nil, recorder, nil)
	client := rest.NewClient(backend.URL+"/api", time.Second, nil)
	clients := clientsinfra.NewClientHTTPClient(client, 10)
	appointments := appointmentsinfra.NewAppointmentHTTPClient(client, 10)
	reports := reportsinfra.NewReportHTTPClient(client, 10)

	calendars := usecase.NewCalendarRegistry(usecase.CalendarDeps{
		Gateway:     appointments,
		Credentials: manager,
		Notifier:    recorder,
	})
	handlers := NewHandlers(Deps{
		Session: manager,
		Catalog: listing.NewCatalog(listing.CatalogDeps{
			Credentials:  manager,
			Clients:      clients,
			Appointments: appointments,
			Reports:      reports,
			PageSize:     10,
			Notifier:     recorder,
		}),
		Forms: form.NewRegistry(form.Builders(form.Deps{
			Credentials: manager,
			Clients:     clients,
			Notifier:    recorder,
			Navigator:   recorder,
		})),
		Clients:   clients,
		Calendars: calendars,
		Hub:       hub,
		Notifier:  outputs,
		Navigator: outputs,
	})
	e := echo.New()
	handlers.Register(e)
	return &testConsole{echo: e, recorder: recorder, hub: hub, manager: manager}
}

func (tc *testConsole) do(t *testing.T, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	tc.echo.ServeHTTP(rec, req)
	return rec
}

func (tc *testConsole) login(t *testing.T) {
	t.Helper()
	if rec := tc.do(t, http.MethodPost, "/api/auth/login", `{"email":"ana@example.com","password":"secret"}`); rec.Code != http.StatusOK {
		t.Fatalf("login: %d %s", rec.Code, rec.Body.String())
	}
}

func TestRoutesRequireSession(t *testing.T) {
	t.Parallel()

	tc := newTestConsole(t)
	if rec := tc.do(t, http.MethodGet, "/healthz", ""); rec.Code != http.StatusOK {
		t.Fatalf("healthz: %d", rec.Code)
	}
	rec := tc.do(t, http.MethodGet, "/api/clients", "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	if messages := tc.recorder.Messages(); len(messages) != 1 || messages[0] != LoginRequiredMessage {
		t.Fatalf("unexpected notifications %v", messages)
	}
	if paths := tc.recorder.Paths(); len(paths) != 1 || paths[0] != session.LoginRoute {
		t.Fatalf("unexpected navigation %v", paths)
	}
}

func TestLogin(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		body     string
		status   int
		messages []string
		paths    []string
	}{
		{name: "wrong password", body: `{"email":"ana@example.com","password":"nope"}`, status: http.StatusUnauthorized, messages: []string{LoginFailedMessage}},
		{name: "missing fields", body: `{"email":""}`, status: http.StatusBadRequest, messages: []string{LoginFailedMessage}},
		{name: "success", body: `{"email":"ana@example.com","password":"secret"}`, status: http.StatusOK, messages: []string{WelcomeMessage}, paths: []string{DashboardRoute}},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			tc := newTestConsole(t)
			rec := tc.do(t, http.MethodPost, "/api/auth/login", tt.body)
			if rec.Code != tt.status {
				t.Fatalf("expected %d, got %d %s", tt.status, rec.Code, rec.Body.String())
			}
			messages := tc.recorder.Messages()
			if len(messages) != len(tt.messages) || (len(messages) > 0 && messages[0] != tt.messages[0]) {
				t.Fatalf("unexpected notifications %v", messages)
			}
			if paths := tc.recorder.Paths(); len(paths) != len(tt.paths) || (len(paths) > 0 && paths[0] != tt.paths[0]) {
				t.Fatalf("unexpected navigation %v", paths)
			}
		})
	}
}

func TestMeAndLogout(t *testing.T) {
	t.Parallel()

	tc := newTestConsole(t)
	tc.login(t)
	rec := tc.do(t, http.MethodGet, "/api/auth/me", "")
	var profile session.Profile
	if err := json.Unmarshal(rec.Body.Bytes(), &profile); err != nil || profile.UserID != 1 {
		t.Fatalf("unexpected profile %s", rec.Body.String())
	}
	if rec := tc.do(t, http.MethodPost, "/api/auth/logout", ""); rec.Code != http.StatusNoContent {
		t.Fatalf("logout: %d", rec.Code)
	}
	if rec := tc.do(t, http.MethodGet, "/api/auth/me", ""); rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 after logout, got %d", rec.Code)
	}
}

func TestListRoutes(t *testing.T) {
	t.Parallel()

	tc := newTestConsole(t)
	tc.login(t)

	rec := tc.do(t, http.MethodGet, "/api/clients?page=1", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("list: %d %s", rec.Code, rec.Body.String())
	}
	var page struct {
		Items []map[string]any `json:"items"`
		Pager listing.Pager    `json:"pager"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &page); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if page.Pager.Label != "Página 1 de 3" || page.Pager.Next != 2 || len(page.Items) != 1 {
		t.Fatalf("unexpected page %+v", page)
	}

	if rec := tc.do(t, http.MethodDelete, "/api/clients/3", ""); rec.Code != http.StatusPreconditionRequired {
		t.Fatalf("expected 428 without confirmation, got %d", rec.Code)
	}
	if rec := tc.do(t, http.MethodDelete, "/api/clients/abc?confirm=true", ""); rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for a bad id, got %d", rec.Code)
	}
	if rec := tc.do(t, http.MethodGet, "/api/services", ""); rec.Code != http.StatusNotFound {
		t.Fatalf("expected unconfigured list to be absent, got %d", rec.Code)
	}
}

func TestFormRoutes(t *testing.T) {
	t.Parallel()

	tc := newTestConsole(t)
	tc.login(t)

	rec := tc.do(t, http.MethodPost, "/api/forms/cliente", `{"id":3}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("open: %d %s", rec.Code, rec.Body.String())
	}
	var view form.View
	if err := json.Unmarshal(rec.Body.Bytes(), &view); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if view.FormID == "" || view.State != form.StateLoaded || view.ID != 3 || !view.Editing {
		t.Fatalf("unexpected view %+v", view)
	}

	base := "/api/forms/" + view.FormID
	if rec := tc.do(t, http.MethodPut, base+"/values", `{"name":`); rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for broken json, got %d", rec.Code)
	}
	if rec := tc.do(t, http.MethodPut, base+"/values", `{"name":"Ana María"}`); rec.Code != http.StatusOK {
		t.Fatalf("values: %d %s", rec.Code, rec.Body.String())
	}
	if rec := tc.do(t, http.MethodPost, base+"/submit", ""); rec.Code != http.StatusOK {
		t.Fatalf("submit: %d %s", rec.Code, rec.Body.String())
	}
	messages := tc.recorder.Messages()
	if messages[len(messages)-1] != form.UpdatedMessage {
		t.Fatalf("unexpected notifications %v", messages)
	}
	if rec := tc.do(t, http.MethodDelete, base, ""); rec.Code != http.StatusNoContent {
		t.Fatalf("close: %d", rec.Code)
	}
	if rec := tc.do(t, http.MethodGet, base, ""); rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 after close, got %d", rec.Code)
	}
	if rec := tc.do(t, http.MethodPost, "/api/forms/tables", ""); rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for an unknown entity, got %d", rec.Code)
	}
}

func readMessage(t *testing.T, conn *websocket.Conn) domain.Message {
	t.Helper()
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var msg domain.Message
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("read: %v", err)
	}
	return msg
}

func TestCalendarSocket(t *testing.T) {
	t.Parallel()

	tc := newTestConsole(t)
	tc.login(t)
	server := httptest.NewServer(tc.echo)
	t.Cleanup(server.Close)

	url := "ws" + strings.TrimPrefix(server.URL, "http") + "/ws/calendar"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	if msg := readMessage(t, conn); msg.Topic != domain.TopicSystemConnected {
		t.Fatalf("expected connected, got %+v", msg)
	}
	err = conn.WriteJSON(map[string]any{
		"action":  "set_range",
		"payload": map[string]string{"from": "2024-01-01T00:00:00.000Z", "to": "2024-01-08T00:00:00.000Z"},
	})
	if err != nil {
		t.Fatalf("write: %v", err)
	}

	var view usecase.CalendarView
	for {
		msg := readMessage(t, conn)
		if msg.Topic != domain.TopicCalendarEvents {
			t.Fatalf("unexpected topic %s", msg.Topic)
		}
		raw, _ := json.Marshal(msg.Data)
		if err := json.Unmarshal(raw, &view); err != nil {
			t.Fatalf("decode view: %v", err)
		}
		if !view.Loading {
			break
		}
	}
	if len(view.Events) != 1 || view.Events[0].End != "2024-01-01T10:45:00.000Z" || view.Events[0].BackgroundColor != "#facc15" {
		t.Fatalf("unexpected events %+v", view.Events)
	}

	if err := conn.WriteJSON(map[string]any{"action": "cancel_move", "payload": map[string]string{"moveId": "nope"}}); err != nil {
		t.Fatalf("write: %v", err)
	}
	if msg := readMessage(t, conn); msg.Topic != domain.TopicSystemError {
		t.Fatalf("expected error for an unknown move, got %+v", msg)
	}
}

func TestNotificationsSocket(t *testing.T) {
	t.Parallel()

	tc := newTestConsole(t)
	tc.login(t)
	server := httptest.NewServer(tc.echo)
	t.Cleanup(server.Close)

	url := "ws" + strings.TrimPrefix(server.URL, "http") + "/ws/notifications"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()
	if msg := readMessage(t, conn); msg.Topic != domain.TopicSystemConnected {
		t.Fatalf("expected connected, got %+v", msg)
	}

	tc.hub.Notify(notify.New(notify.LevelSuccess, "Cita creada"))
	tc.hub.Navigate("/appointments")
	if msg := readMessage(t, conn); msg.Topic != domain.TopicSystemNotification {
		t.Fatalf("expected notification, got %+v", msg)
	}
	if msg := readMessage(t, conn); msg.Topic != domain.TopicSystemNavigate {
		t.Fatalf("expected navigation, got %+v", msg)
	}
}

func TestNotificationsSocketReachesLoginPage(t *testing.T) {
	t.Parallel()

	tc := newTestConsole(t)
	server := httptest.NewServer(tc.echo)
	t.Cleanup(server.Close)

	url := "ws" + strings.TrimPrefix(server.URL, "http") + "/ws/notifications"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial without a session: %v", err)
	}
	defer conn.Close()
	if msg := readMessage(t, conn); msg.Topic != domain.TopicSystemConnected {
		t.Fatalf("expected connected, got %+v", msg)
	}

	if rec := tc.do(t, http.MethodPost, "/api/auth/login", `{"email":"ana@example.com","password":"nope"}`); rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	msg := readMessage(t, conn)
	if msg.Topic != domain.TopicSystemNotification {
		t.Fatalf("expected notification, got %+v", msg)
	}
	if data, _ := msg.Data.(map[string]any); data["message"] != LoginFailedMessage {
		t.Fatalf("unexpected notification %+v", msg.Data)
	}

	tc.login(t)
	if msg := readMessage(t, conn); msg.Topic != domain.TopicSystemNotification {
		t.Fatalf("expected welcome notification, got %+v", msg)
	}
	msg = readMessage(t, conn)
	if data, _ := msg.Data.(map[string]any); msg.Topic != domain.TopicSystemNavigate || data["path"] != DashboardRoute {
		t.Fatalf("expected navigation to the dashboard, got %+v", msg)
	}

	calendar := "ws" + strings.TrimPrefix(server.URL, "http") + "/ws/calendar"
	if rec := tc.do(t, http.MethodPost, "/api/auth/logout", ""); rec.Code != http.StatusNoContent {
		t.Fatalf("logout: %d", rec.Code)
	}
	if _, resp, err := websocket.DefaultDialer.Dial(calendar, nil); err == nil || resp == nil || resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected calendar socket to stay protected, got %v", err)
	}
}
