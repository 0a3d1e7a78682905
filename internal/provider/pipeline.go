// Package provider processes attachments dropped in designated provider
// groups: classify, store the file, insert exactly one contribution row,
// and leave an audit trail. Failures never escape the pipeline boundary.
package provider

import (
	"context"
	"encoding/json"
	"time"

	"botpanel/internal/analyzer"
	"botpanel/internal/models"
	"botpanel/internal/repository"
	"botpanel/internal/storage"
	"botpanel/internal/transport"

	"go.uber.org/zap"
)

// SystemUser owns every automatically processed contribution.
const SystemUser = "sistema_auto"

// ContributionKind tags rows created by this pipeline.
const ContributionKind = "proveedor_auto"

// MediaStore persists attachment bytes.
type MediaStore interface {
	Store(data []byte, mediaType, mime, category, owner string) (*storage.StoredFile, error)
}

// Result is the pipeline outcome for an applicable message.
type Result struct {
	Success     bool   `json:"success"`
	Title       string `json:"title,omitempty"`
	ContentType string `json:"content_type,omitempty"`
	Provider    string `json:"provider,omitempty"`
	FilePath    string `json:"file_path,omitempty"`
	Size        int64  `json:"size,omitempty"`
	Description string `json:"description,omitempty"`
	Duplicate   bool   `json:"duplicate,omitempty"`
	Err         string `json:"error,omitempty"`
}

type Pipeline struct {
	groups        repository.GroupRepository
	contributions repository.ContributionRepository
	logs          repository.LogRepository
	analyzer      *analyzer.Analyzer
	store         MediaStore
	client        transport.Client
	logger        *zap.Logger
}

func NewPipeline(
	groups repository.GroupRepository,
	contributions repository.ContributionRepository,
	logs repository.LogRepository,
	an *analyzer.Analyzer,
	store MediaStore,
	client transport.Client,
	logger *zap.Logger,
) *Pipeline {
	return &Pipeline{
		groups:        groups,
		contributions: contributions,
		logs:          logs,
		analyzer:      an,
		store:         store,
		client:        client,
		logger:        logger,
	}
}

// Handle runs the pipeline for one inbound message. It returns nil when the
// message is not applicable (not a provider group, or no attachment); any
// later failure is absorbed into a Result with Success=false.
func (p *Pipeline) Handle(ctx context.Context, msg *transport.Message) *Result {
	group, err := p.groups.GetByJID(msg.ChatID)
	if err != nil {
		p.logger.Error("provider group lookup failed", zap.Error(err), zap.String("chat_id", msg.ChatID))
		return nil
	}
	if group == nil || group.Kind != models.GroupProvider {
		return nil
	}
	if msg.Attachment == nil {
		return nil
	}

	res := p.process(ctx, msg, group)
	if res.Success {
		p.audit("auto_procesado", res.Description, msg.ChatID, group.Provider)
	} else {
		p.audit("error", res.Err, msg.ChatID, group.Provider)
	}
	return res
}

func (p *Pipeline) process(ctx context.Context, msg *transport.Message, group *models.Group) *Result {
	// Explicit message text wins over the attachment caption.
	text := msg.Text
	if text == "" {
		text = msg.Attachment.Caption()
	}
	filename := msg.Attachment.Filename()

	analysis := p.analyzer.Analyze(ctx, text, filename, group.Provider)

	data, err := p.client.DownloadAttachment(ctx, msg)
	if err != nil {
		p.logger.Error("attachment download failed", zap.Error(err), zap.String("message_id", msg.ID))
		return &Result{Err: "download failed: " + err.Error()}
	}

	mime := attachmentMIME(msg.Attachment)
	stored, err := p.store.Store(data, msg.Attachment.MediaType(), mime, analysis.Type, SystemUser)
	if err != nil {
		p.logger.Error("media storage failed", zap.Error(err), zap.String("message_id", msg.ID))
		return &Result{Err: "storage failed: " + err.Error()}
	}

	snapshot, _ := json.Marshal(map[string]interface{}{
		"messageText": text,
		"filename":    filename,
		"mediaType":   stored.MediaType,
		"originalMessage": map[string]interface{}{
			"id":        msg.ID,
			"timestamp": msg.Timestamp.Unix(),
		},
	})
	snapshotStr := string(snapshot)

	contribution := &models.Contribution{
		Content:     analysis.Description,
		Kind:        ContributionKind,
		Username:    SystemUser,
		GroupID:     &msg.ChatID,
		CreatedAt:   time.Now(),
		FilePath:    &stored.Path,
		FileSize:    &stored.Size,
		Provider:    &group.Provider,
		Title:       &analysis.Title,
		ContentType: &analysis.Type,
		OriginMsgID: &msg.ID,
		OriginRaw:   &snapshotStr,
	}

	inserted, err := p.contributions.SaveIfNew(contribution)
	if err != nil {
		p.logger.Error("contribution insert failed", zap.Error(err), zap.String("message_id", msg.ID))
		return &Result{Err: "insert failed: " + err.Error()}
	}
	if !inserted {
		p.logger.Info("duplicate provider message skipped", zap.String("message_id", msg.ID))
		return &Result{Success: true, Duplicate: true, Description: analysis.Description, Provider: group.Provider}
	}

	p.logger.Info("provider contribution processed",
		zap.String("title", analysis.Title),
		zap.String("type", analysis.Type),
		zap.String("provider", group.Provider),
		zap.String("path", stored.Path))

	return &Result{
		Success:     true,
		Title:       analysis.Title,
		ContentType: analysis.Type,
		Provider:    group.Provider,
		FilePath:    stored.Path,
		Size:        stored.Size,
		Description: analysis.Description,
	}
}

// audit writes the provider activity row; its own failure is only logged.
func (p *Pipeline) audit(event, description, chatID, providerName string) {
	details, _ := json.Marshal(map[string]string{
		"descripcion": description,
		"proveedor":   providerName,
	})
	detailsStr := string(details)

	entry := &models.LogEntry{
		Category:  "proveedor",
		Command:   event,
		Username:  SystemUser,
		GroupID:   &chatID,
		CreatedAt: time.Now(),
		Details:   &detailsStr,
	}
	if err := p.logs.Save(entry); err != nil {
		p.logger.Error("provider audit log failed", zap.Error(err))
	}
}

func attachmentMIME(a transport.Attachment) string {
	switch v := a.(type) {
	case transport.Image:
		return v.MIME
	case transport.Video:
		return v.MIME
	case transport.Document:
		return v.MIME
	case transport.Audio:
		return v.MIME
	}
	return "application/octet-stream"
}
