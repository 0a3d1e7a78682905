package handler

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"botpanel/internal/models"
	"botpanel/internal/repository"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakePolls struct {
	repository.PollRepository
	all    []*models.Poll
	active []*models.Poll
	closed []int64
}

func (f *fakePolls) GetAll(limit int) ([]*models.Poll, error) { return f.all, nil }
func (f *fakePolls) GetActive() ([]*models.Poll, error)       { return f.active, nil }

func (f *fakePolls) Close(id int64) error {
	for _, p := range f.all {
		if p.ID == id && p.Status == models.PollActive {
			f.closed = append(f.closed, id)
			return nil
		}
	}
	return sql.ErrNoRows
}

type fakeRequests struct {
	repository.RequestRepository
	statuses map[int64]string
}

func (f *fakeRequests) UpdateStatus(id int64, status string) error {
	if _, ok := f.statuses[id]; !ok {
		return sql.ErrNoRows
	}
	f.statuses[id] = status
	return nil
}

type fakeUsers struct {
	repository.UserRepository
	deleted []string
}

func (f *fakeUsers) Delete(username string) error {
	f.deleted = append(f.deleted, username)
	return nil
}

type fakeSettings struct {
	repository.SettingsRepository
	values map[string]string
}

func (f *fakeSettings) Set(key, value string) error {
	if f.values == nil {
		f.values = map[string]string{}
	}
	f.values[key] = value
	return nil
}

func authAs(username, role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("username", username)
		c.Set("role", role)
	}
}

func perform(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestListPollsFiltersActive(t *testing.T) {
	polls := &fakePolls{
		all: []*models.Poll{
			{ID: 1, Title: "Mejor manhwa", Status: models.PollActive},
			{ID: 2, Title: "Cerrada", Status: models.PollClosed},
		},
		active: []*models.Poll{
			{ID: 1, Title: "Mejor manhwa", Status: models.PollActive},
		},
	}
	h := NewPanelHandler(nil, nil, polls, nil, nil, nil, nil, nil, zap.NewNop())

	r := gin.New()
	r.GET("/votaciones", h.ListPolls)

	w := perform(r, http.MethodGet, "/votaciones?estado=activa", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	var got []*models.Poll
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	if len(got) != 1 || got[0].ID != 1 {
		t.Fatalf("got %d polls, want only the active one", len(got))
	}
}

func TestClosePollAlreadyClosed(t *testing.T) {
	polls := &fakePolls{
		all: []*models.Poll{{ID: 2, Status: models.PollClosed}},
	}
	h := NewPanelHandler(nil, nil, polls, nil, nil, nil, nil, nil, zap.NewNop())

	r := gin.New()
	r.PUT("/votaciones/:id", h.ClosePoll)

	w := perform(r, http.MethodPut, "/votaciones/2", "")
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}
	if len(polls.closed) != 0 {
		t.Fatalf("closed %v, want no close calls recorded", polls.closed)
	}
}

func TestUpdateRequestStatusValidation(t *testing.T) {
	requests := &fakeRequests{statuses: map[int64]string{7: models.RequestPending}}
	h := NewPanelHandler(nil, requests, nil, nil, nil, nil, nil, nil, zap.NewNop())

	r := gin.New()
	r.PUT("/pedidos/:id", h.UpdateRequestStatus)

	w := perform(r, http.MethodPut, "/pedidos/7", `{"status":"inventado"}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400 for unknown state", w.Code)
	}
	if requests.statuses[7] != models.RequestPending {
		t.Fatalf("status mutated to %q on rejected input", requests.statuses[7])
	}

	w = perform(r, http.MethodPut, "/pedidos/7", `{"status":"completado"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if requests.statuses[7] != models.RequestCompleted {
		t.Fatalf("status = %q, want completado", requests.statuses[7])
	}

	w = perform(r, http.MethodPut, "/pedidos/99", `{"status":"completado"}`)
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404 for missing request", w.Code)
	}
}

func TestDeleteUserRefusesSelf(t *testing.T) {
	users := &fakeUsers{}
	h := NewPanelHandler(nil, nil, nil, nil, users, nil, nil, nil, zap.NewNop())

	r := gin.New()
	r.DELETE("/usuarios/:username", authAs("admin", models.RoleAdmin), h.DeleteUser)

	w := perform(r, http.MethodDelete, "/usuarios/admin", "")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400 when deleting own account", w.Code)
	}
	if len(users.deleted) != 0 {
		t.Fatalf("deleted %v, want nothing", users.deleted)
	}

	w = perform(r, http.MethodDelete, "/usuarios/otro", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if len(users.deleted) != 1 || users.deleted[0] != "otro" {
		t.Fatalf("deleted = %v, want [otro]", users.deleted)
	}
}

func TestUpdateUserRoleOwnerGuard(t *testing.T) {
	h := NewPanelHandler(nil, nil, nil, nil, &fakeUsers{}, nil, nil, nil, zap.NewNop())

	r := gin.New()
	r.PUT("/usuarios/:username", authAs("admin", models.RoleAdmin), h.UpdateUserRole)

	w := perform(r, http.MethodPut, "/usuarios/otro", `{"role":"owner"}`)
	if w.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403 when admin grants owner", w.Code)
	}
}

func TestUpdateSettingPersists(t *testing.T) {
	settings := &fakeSettings{}
	h := NewPanelHandler(nil, nil, nil, nil, nil, nil, nil, settings, zap.NewNop())

	r := gin.New()
	r.PUT("/config/:clave", h.UpdateSetting)

	w := perform(r, http.MethodPut, "/config/modo_privado", `{"value":"true"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if settings.values["modo_privado"] != "true" {
		t.Fatalf("setting = %q, want true", settings.values["modo_privado"])
	}
}
