package router

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"botpanel/internal/analyzer"
	"botpanel/internal/commands"
	"botpanel/internal/models"
	"botpanel/internal/provider"
	"botpanel/internal/repository"
	"botpanel/internal/storage"
	"botpanel/internal/transport"

	"go.uber.org/zap"
)

type fakeUsers struct {
	repository.UserRepository
	banned  map[string]bool
	banErr  error
	users   map[string]*models.User
	banRows []*models.Ban
}

func (f *fakeUsers) IsBanned(username string) (bool, error) {
	if f.banErr != nil {
		return false, f.banErr
	}
	return f.banned[username], nil
}
func (f *fakeUsers) GetUserByUsername(username string) (*models.User, error) {
	return f.users[username], nil
}
func (f *fakeUsers) Ban(b *models.Ban) error {
	f.banRows = append(f.banRows, b)
	return nil
}

type fakeGroups struct {
	repository.GroupRepository
	groups map[string]*models.Group
}

func (f *fakeGroups) GetByJID(jid string) (*models.Group, error) { return f.groups[jid], nil }

type fakeContribs struct {
	repository.ContributionRepository
	saved []*models.Contribution
}

func (f *fakeContribs) Save(c *models.Contribution) error {
	f.saved = append(f.saved, c)
	return nil
}
func (f *fakeContribs) SaveIfNew(c *models.Contribution) (bool, error) {
	f.saved = append(f.saved, c)
	return true, nil
}
func (f *fakeContribs) GetByUsername(username string, limit int) ([]*models.Contribution, error) {
	return nil, nil
}

type fakeLogs struct {
	repository.LogRepository
	entries []*models.LogEntry
}

func (f *fakeLogs) Save(e *models.LogEntry) error {
	f.entries = append(f.entries, e)
	return nil
}

type fakeStore struct{ calls int }

func (f *fakeStore) Store(data []byte, mediaType, mime, category, owner string) (*storage.StoredFile, error) {
	f.calls++
	return &storage.StoredFile{Path: "/media/x", Size: int64(len(data)), MediaType: mediaType, Filename: "x"}, nil
}

type fakeClient struct{}

func (fakeClient) SendText(ctx context.Context, chatID, text string) error { return nil }
func (fakeClient) DownloadAttachment(ctx context.Context, msg *transport.Message) ([]byte, error) {
	return []byte("data"), nil
}

type testEnv struct {
	router   *Router
	users    *fakeUsers
	contribs *fakeContribs
	logs     *fakeLogs
	store    *fakeStore
}

func newTestEnv(groups map[string]*models.Group) *testEnv {
	logger := zap.NewNop()
	users := &fakeUsers{
		banned: map[string]bool{"malo": true},
		users: map[string]*models.User{
			"admin": {Username: "admin", Role: models.RoleAdmin},
			"pepe":  {Username: "pepe", Role: models.RoleUser},
		},
	}
	grp := &fakeGroups{groups: groups}
	contribs := &fakeContribs{}
	logs := &fakeLogs{}
	store := &fakeStore{}

	an := analyzer.New(nil, nil, logger)
	h := commands.NewHandlers(users, grp, contribs, nil, nil, nil, logs, nil, an, nil, logger)
	p := provider.NewPipeline(grp, contribs, logs, an, store, fakeClient{}, logger)

	return &testEnv{
		router:   New(h, p, users, grp, logger),
		users:    users,
		contribs: contribs,
		logs:     logs,
		store:    store,
	}
}

func groupMsg(sender, text string) *transport.Message {
	return &transport.Message{
		ID:        "m1",
		ChatID:    "g1",
		Sender:    sender,
		Text:      text,
		Timestamp: time.Now(),
		IsGroup:   true,
	}
}

func TestBannedSenderNeverReachesHandlers(t *testing.T) {
	env := newTestEnv(nil)

	reply := env.router.Handle(context.Background(), groupMsg("malo", "/addaporte manhwa Jinx 45"))

	if !strings.Contains(reply, "baneado") {
		t.Errorf("reply = %q, want ban notice", reply)
	}
	if len(env.contribs.saved) != 0 {
		t.Error("banned user reached persistence")
	}
}

func TestBanCheckFailureStillServesCommand(t *testing.T) {
	env := newTestEnv(nil)
	env.users.banErr = errors.New("db connection reset")

	reply := env.router.Handle(context.Background(), groupMsg("pepe", "/help"))

	if reply == "" {
		t.Fatal("reply is empty, command dropped on ban-check error")
	}
	if strings.Contains(reply, "baneado") {
		t.Errorf("reply = %q, sender treated as banned on lookup error", reply)
	}
}

func TestUnknownCommandReply(t *testing.T) {
	env := newTestEnv(nil)

	reply := env.router.Handle(context.Background(), groupMsg("pepe", "/inexistente"))

	if !strings.Contains(reply, "no reconocido") {
		t.Errorf("reply = %q, want unrecognized notice", reply)
	}
}

func TestUsageErrorReply(t *testing.T) {
	env := newTestEnv(nil)

	reply := env.router.Handle(context.Background(), groupMsg("pepe", "/addaporte"))

	if reply != "Uso: /addaporte <tipo> <contenido>" {
		t.Errorf("reply = %q", reply)
	}
}

func TestSearchFileWithoutNameReportsUsage(t *testing.T) {
	env := newTestEnv(nil)

	reply := env.router.Handle(context.Background(), groupMsg("pepe", "/buscararchivo"))

	if reply != "Uso: /buscararchivo <nombre>" {
		t.Errorf("reply = %q", reply)
	}
}

func TestNonCommandTextIgnored(t *testing.T) {
	env := newTestEnv(nil)

	if reply := env.router.Handle(context.Background(), groupMsg("pepe", "hola a todos")); reply != "" {
		t.Errorf("reply = %q, want empty", reply)
	}
}

func TestGroupAuthGateSilentlyDropsAportes(t *testing.T) {
	env := newTestEnv(nil) // g1 not authorized

	if reply := env.router.Handle(context.Background(), groupMsg("pepe", "/aportes")); reply != "" {
		t.Errorf("reply = %q, want silent drop", reply)
	}
}

func TestInsufficientRoleDenied(t *testing.T) {
	env := newTestEnv(nil)

	reply := env.router.Handle(context.Background(), groupMsg("pepe", "/ban @otro spam"))

	if !strings.Contains(reply, "Owner/Admin") {
		t.Errorf("reply = %q, want denial", reply)
	}
	if len(env.users.banRows) != 0 {
		t.Error("ban row inserted despite denial")
	}
}

func TestDualDispatchCommandAndProviderMedia(t *testing.T) {
	env := newTestEnv(map[string]*models.Group{
		"g1": {JID: "g1", Name: "Prov", Kind: models.GroupProvider, Provider: "Prov"},
	})

	msg := groupMsg("pepe", "/extra Jinx especial")
	msg.Attachment = transport.Image{Text: "Jinx cap 45", MIME: "image/jpeg"}

	reply := env.router.Handle(context.Background(), msg)

	if !strings.Contains(reply, "registrado") {
		t.Errorf("command reply = %q", reply)
	}
	// Both paths persisted: the /extra contribution and the pipeline's row.
	if len(env.contribs.saved) != 2 {
		t.Fatalf("saved %d contributions, want 2", len(env.contribs.saved))
	}
	if env.store.calls != 1 {
		t.Errorf("store calls = %d, want 1", env.store.calls)
	}
}

func TestProviderMediaWithoutCommand(t *testing.T) {
	env := newTestEnv(map[string]*models.Group{
		"g1": {JID: "g1", Name: "Prov", Kind: models.GroupProvider, Provider: "Prov"},
	})

	msg := groupMsg("pepe", "")
	msg.Attachment = transport.Image{Text: "Jinx cap 45", MIME: "image/jpeg"}

	if reply := env.router.Handle(context.Background(), msg); reply != "" {
		t.Errorf("reply = %q, pipeline results must stay silent", reply)
	}
	if len(env.contribs.saved) != 1 {
		t.Fatalf("saved %d contributions, want 1", len(env.contribs.saved))
	}
}
