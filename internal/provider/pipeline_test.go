package provider

import (
	"context"
	"errors"
	"testing"
	"time"

	"botpanel/internal/analyzer"
	"botpanel/internal/models"
	"botpanel/internal/repository"
	"botpanel/internal/storage"
	"botpanel/internal/transport"

	"go.uber.org/zap"
)

type fakeGroups struct {
	repository.GroupRepository
	group *models.Group
}

func (f *fakeGroups) GetByJID(jid string) (*models.Group, error) { return f.group, nil }

type fakeContributions struct {
	repository.ContributionRepository
	saved     []*models.Contribution
	duplicate bool
	err       error
}

func (f *fakeContributions) SaveIfNew(c *models.Contribution) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	if f.duplicate {
		return false, nil
	}
	f.saved = append(f.saved, c)
	return true, nil
}

type fakeLogs struct {
	repository.LogRepository
	entries []*models.LogEntry
}

func (f *fakeLogs) Save(e *models.LogEntry) error {
	f.entries = append(f.entries, e)
	return nil
}

type fakeStore struct {
	err   error
	calls int
}

func (f *fakeStore) Store(data []byte, mediaType, mime, category, owner string) (*storage.StoredFile, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return &storage.StoredFile{Path: "/media/images/x.jpg", Size: int64(len(data)), MediaType: mediaType, Filename: "x.jpg"}, nil
}

type fakeClient struct {
	data []byte
	err  error
}

func (f *fakeClient) SendText(ctx context.Context, chatID, text string) error { return nil }
func (f *fakeClient) DownloadAttachment(ctx context.Context, msg *transport.Message) ([]byte, error) {
	return f.data, f.err
}

func providerGroup() *models.Group {
	return &models.Group{JID: "g1", Name: "Grupo X", Kind: models.GroupProvider, Provider: "Proveedor X"}
}

func imageMessage() *transport.Message {
	return &transport.Message{
		ID:         "msg-1",
		ChatID:     "g1",
		Sender:     "user1",
		Attachment: transport.Image{Text: "Jinx cap 45", MIME: "image/jpeg"},
		Timestamp:  time.Now(),
		IsGroup:    true,
	}
}

func newTestPipeline(groups *fakeGroups, contribs *fakeContributions, logs *fakeLogs, store *fakeStore, client *fakeClient) *Pipeline {
	an := analyzer.New(nil, nil, zap.NewNop())
	return NewPipeline(groups, contribs, logs, an, store, client, zap.NewNop())
}

func TestHandleIgnoresNonProviderGroup(t *testing.T) {
	contribs := &fakeContributions{}
	logs := &fakeLogs{}
	store := &fakeStore{}
	p := newTestPipeline(
		&fakeGroups{group: &models.Group{JID: "g1", Kind: models.GroupNormal}},
		contribs, logs, store, &fakeClient{data: []byte("x")})

	if res := p.Handle(context.Background(), imageMessage()); res != nil {
		t.Fatalf("Handle = %+v, want nil", res)
	}
	if len(contribs.saved) != 0 || len(logs.entries) != 0 || store.calls != 0 {
		t.Error("non-applicable message caused side effects")
	}
}

func TestHandleIgnoresTextOnlyMessage(t *testing.T) {
	contribs := &fakeContributions{}
	logs := &fakeLogs{}
	p := newTestPipeline(&fakeGroups{group: providerGroup()}, contribs, logs, &fakeStore{}, &fakeClient{})

	msg := imageMessage()
	msg.Attachment = nil
	msg.Text = "solo texto"

	if res := p.Handle(context.Background(), msg); res != nil {
		t.Fatalf("Handle = %+v, want nil", res)
	}
	if len(contribs.saved) != 0 || len(logs.entries) != 0 {
		t.Error("text-only message caused side effects")
	}
}

func TestHandleStoresContribution(t *testing.T) {
	contribs := &fakeContributions{}
	logs := &fakeLogs{}
	p := newTestPipeline(&fakeGroups{group: providerGroup()}, contribs, logs, &fakeStore{}, &fakeClient{data: []byte("payload")})

	res := p.Handle(context.Background(), imageMessage())

	if res == nil || !res.Success {
		t.Fatalf("Handle = %+v, want success", res)
	}
	if res.Title != "Jinx" || res.ContentType != "capitulo" {
		t.Errorf("classification = %q/%q", res.Title, res.ContentType)
	}
	if len(contribs.saved) != 1 {
		t.Fatalf("saved %d contributions, want 1", len(contribs.saved))
	}

	c := contribs.saved[0]
	if c.Kind != ContributionKind || c.Username != SystemUser {
		t.Errorf("Kind/Username = %q/%q", c.Kind, c.Username)
	}
	if c.OriginMsgID == nil || *c.OriginMsgID != "msg-1" {
		t.Errorf("OriginMsgID = %v", c.OriginMsgID)
	}
	if c.OriginRaw == nil || *c.OriginRaw == "" {
		t.Error("OriginRaw snapshot missing")
	}

	if len(logs.entries) != 1 || logs.entries[0].Category != "proveedor" {
		t.Fatalf("audit log = %+v", logs.entries)
	}
	if logs.entries[0].Command != "auto_procesado" {
		t.Errorf("audit command = %q", logs.entries[0].Command)
	}
}

func TestHandleStorageFailureAbortsBeforeInsert(t *testing.T) {
	contribs := &fakeContributions{}
	logs := &fakeLogs{}
	p := newTestPipeline(&fakeGroups{group: providerGroup()}, contribs, logs,
		&fakeStore{err: errors.New("disk full")}, &fakeClient{data: []byte("payload")})

	res := p.Handle(context.Background(), imageMessage())

	if res == nil || res.Success {
		t.Fatalf("Handle = %+v, want failure result", res)
	}
	if len(contribs.saved) != 0 {
		t.Error("contribution inserted despite storage failure")
	}
	if len(logs.entries) != 1 || logs.entries[0].Command != "error" {
		t.Fatalf("audit log = %+v, want one error entry", logs.entries)
	}
}

func TestHandleDuplicateMessage(t *testing.T) {
	contribs := &fakeContributions{duplicate: true}
	logs := &fakeLogs{}
	p := newTestPipeline(&fakeGroups{group: providerGroup()}, contribs, logs, &fakeStore{}, &fakeClient{data: []byte("payload")})

	res := p.Handle(context.Background(), imageMessage())

	if res == nil || !res.Success || !res.Duplicate {
		t.Fatalf("Handle = %+v, want duplicate success", res)
	}
}
