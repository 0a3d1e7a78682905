package commands

import (
	"fmt"
	"strings"
	"testing"

	"botpanel/internal/analyzer"
	"botpanel/internal/models"
	"botpanel/internal/repository"

	"go.uber.org/zap"
)

type fakeUsers struct {
	repository.UserRepository
	users map[string]*models.User
}

func (f *fakeUsers) GetUserByUsername(username string) (*models.User, error) {
	return f.users[username], nil
}

type fakePolls struct {
	repository.PollRepository
	active []*models.Poll
	votes  map[string]bool // "pollID/username"
	saved  []*models.Vote
}

func (f *fakePolls) GetActive() ([]*models.Poll, error) { return f.active, nil }

func (f *fakePolls) SaveVote(v *models.Vote) error {
	key := fmt.Sprintf("%d/%s", v.PollID, v.Username)
	if f.votes[key] {
		return repository.ErrAlreadyVoted
	}
	if f.votes == nil {
		f.votes = map[string]bool{}
	}
	f.votes[key] = true
	f.saved = append(f.saved, v)
	return nil
}

type fakeLogs struct {
	repository.LogRepository
	entries []*models.LogEntry
}

func (f *fakeLogs) Save(e *models.LogEntry) error {
	f.entries = append(f.entries, e)
	return nil
}

type fakeSettings struct {
	repository.SettingsRepository
	values map[string]string
}

func (f *fakeSettings) Get(key string) (*models.Setting, error) {
	v, found := f.values[key]
	if !found {
		return nil, nil
	}
	return &models.Setting{Key: key, Value: v}, nil
}

func (f *fakeSettings) GetBool(key string, def bool) (bool, error) {
	v, found := f.values[key]
	if !found {
		return def, nil
	}
	return v == "true", nil
}

func (f *fakeSettings) Set(key, value string) error {
	if f.values == nil {
		f.values = map[string]string{}
	}
	f.values[key] = value
	return nil
}

func newHandlers(users *fakeUsers, polls *fakePolls, settings *fakeSettings) *Handlers {
	logger := zap.NewNop()
	return NewHandlers(users, nil, nil, nil, polls, nil, &fakeLogs{}, settings,
		analyzer.New(nil, nil, logger), nil, logger)
}

func adminUsers() *fakeUsers {
	return &fakeUsers{users: map[string]*models.User{
		"admin": {Username: "admin", Role: models.RoleAdmin},
		"pepe":  {Username: "pepe", Role: models.RoleUser},
	}}
}

func TestVoteRejectsSecondBallot(t *testing.T) {
	polls := &fakePolls{
		active: []*models.Poll{{ID: 1, Title: "favorito", Status: models.PollActive}},
		votes:  map[string]bool{},
	}
	h := newHandlers(adminUsers(), polls, nil)

	first := h.Vote("Solo Leveling", "pepe", nil)
	if !first.Success {
		t.Fatalf("first vote = %+v", first)
	}

	second := h.Vote("Tower of God", "pepe", nil)
	if second.Success {
		t.Fatal("second vote accepted")
	}
	if !strings.Contains(second.Message, "Ya has votado") {
		t.Errorf("message = %q", second.Message)
	}
	if len(polls.saved) != 1 {
		t.Errorf("saved %d votes, want 1", len(polls.saved))
	}
}

func TestVoteWithoutActivePoll(t *testing.T) {
	h := newHandlers(adminUsers(), &fakePolls{}, nil)

	res := h.Vote("opcion", "pepe", nil)
	if res.Success || !strings.Contains(res.Message, "No hay votaciones") {
		t.Errorf("result = %+v", res)
	}
}

func TestCreatePollRequiresPrivilege(t *testing.T) {
	polls := &fakePolls{}
	h := newHandlers(adminUsers(), polls, nil)

	res := h.CreatePoll("pregunta", []string{"a", "b"}, "pepe", nil)
	if res.Success {
		t.Fatal("user role created a poll")
	}
	if !strings.Contains(res.Message, "Owner/Admin") {
		t.Errorf("message = %q", res.Message)
	}
}

func TestPrivateModePersistsToggle(t *testing.T) {
	settings := &fakeSettings{values: map[string]string{}}
	h := newHandlers(adminUsers(), nil, settings)

	res := h.PrivateMode("admin", nil)
	if !res.Success {
		t.Fatalf("toggle failed: %+v", res)
	}
	if settings.values[repository.SettingPrivateMode] != "true" {
		t.Error("toggle not persisted")
	}

	res = h.PrivateMode("admin", nil)
	if !res.Success || settings.values[repository.SettingPrivateMode] != "false" {
		t.Errorf("second toggle: %+v, stored %q", res, settings.values[repository.SettingPrivateMode])
	}
}

func TestPrivateModeDeniedForUserRole(t *testing.T) {
	settings := &fakeSettings{values: map[string]string{}}
	h := newHandlers(adminUsers(), nil, settings)

	res := h.PrivateMode("pepe", nil)
	if res.Success {
		t.Fatal("user role toggled private mode")
	}
	if len(settings.values) != 0 {
		t.Error("setting written despite denial")
	}
}

// Role downgrades apply on the very next command because the role is
// re-read from storage each time.
func TestRoleDowngradeImmediate(t *testing.T) {
	users := adminUsers()
	settings := &fakeSettings{values: map[string]string{}}
	h := newHandlers(users, nil, settings)

	if res := h.PrivateMode("admin", nil); !res.Success {
		t.Fatalf("admin toggle failed: %+v", res)
	}

	users.users["admin"].Role = models.RoleUser

	if res := h.PrivateMode("admin", nil); res.Success {
		t.Fatal("downgraded actor still privileged")
	}
}

func TestWarningsExplicitState(t *testing.T) {
	settings := &fakeSettings{values: map[string]string{}}
	h := newHandlers(adminUsers(), nil, settings)

	if res := h.Warnings(true, "admin", nil); !res.Success {
		t.Fatalf("enable failed: %+v", res)
	}
	if settings.values[repository.SettingWarningsActive] != "true" {
		t.Error("warnings not persisted")
	}

	if res := h.Warnings(false, "admin", nil); !res.Success {
		t.Fatalf("disable failed: %+v", res)
	}
	if settings.values[repository.SettingWarningsActive] != "false" {
		t.Error("warnings disable not persisted")
	}
}
