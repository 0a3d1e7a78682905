// Package router is the entry point for inbound chat events: it decides
// whether a message is a command, a provider-group content drop, both, or
// nothing, and dispatches accordingly.
package router

import (
	"context"
	"errors"
	"strings"

	"botpanel/internal/commands"
	"botpanel/internal/models"
	"botpanel/internal/provider"
	"botpanel/internal/repository"
	"botpanel/internal/transport"

	"go.uber.org/zap"
)

// groupAuthRequired lists the commands that must originate in an authorized
// group. It is a static allow-list, deliberately not universal.
var groupAuthRequired = map[string]bool{
	"/aportes": true,
}

type Router struct {
	handlers *commands.Handlers
	pipeline *provider.Pipeline
	users    repository.UserRepository
	groups   repository.GroupRepository
	logger   *zap.Logger
}

func New(
	handlers *commands.Handlers,
	pipeline *provider.Pipeline,
	users repository.UserRepository,
	groups repository.GroupRepository,
	logger *zap.Logger,
) *Router {
	return &Router{
		handlers: handlers,
		pipeline: pipeline,
		users:    users,
		groups:   groups,
		logger:   logger,
	}
}

// Handle processes one inbound message and returns the reply text, or ""
// when nothing should be sent.
//
// A message can be a recognized command AND a provider-group attachment at
// the same time; both paths run, in that order. This dual dispatch is
// intentional: a provider may caption a content drop with a command, and
// neither path may starve the other. Pipeline outcomes are never surfaced
// to the chat, only audited.
func (r *Router) Handle(ctx context.Context, msg *transport.Message) string {
	var reply string
	if IsCommandText(msg.Text) {
		reply = r.dispatchCommand(ctx, msg)
	}

	if msg.Attachment != nil {
		if res := r.pipeline.Handle(ctx, msg); res != nil && !res.Success {
			r.logger.Warn("provider pipeline failed",
				zap.String("message_id", msg.ID),
				zap.String("error", res.Err))
		}
	}

	return reply
}

func (r *Router) dispatchCommand(ctx context.Context, msg *transport.Message) string {
	// A failed lookup counts as not banned; commands keep working while
	// the ban table is unreachable.
	banned, err := r.users.IsBanned(msg.Sender)
	if err != nil {
		r.logger.Error("ban check failed", zap.Error(err), zap.String("sender", msg.Sender))
		banned = false
	}
	if banned {
		return "Estas baneado y no puedes usar comandos."
	}

	name := strings.ToLower(strings.Fields(msg.Text)[0])
	if msg.IsGroup && groupAuthRequired[name] && !r.isGroupAuthorized(msg.ChatID) {
		return ""
	}

	cmd, err := ParseCommand(msg.Text)
	if err != nil {
		var usage *UsageError
		if errors.As(err, &usage) {
			return usage.Usage
		}
		r.logger.Error("command parse failed", zap.Error(err))
		return ""
	}

	r.logger.Info("command received",
		zap.String("command", name),
		zap.String("sender", msg.Sender),
		zap.Bool("group", msg.IsGroup))

	var groupID *string
	if msg.IsGroup {
		groupID = &msg.ChatID
	}

	res := r.execute(ctx, cmd, msg, groupID)
	if res == nil {
		return ""
	}
	return res.Message
}

// execute matches the command union exhaustively.
func (r *Router) execute(ctx context.Context, cmd Command, msg *transport.Message, groupID *string) *commands.Result {
	actor := msg.Sender

	switch c := cmd.(type) {
	case HelpCommand:
		return r.handlers.Help(actor, groupID)
	case StatusCommand:
		return r.handlers.Status(actor, groupID)
	case AskAICommand:
		return r.handlers.AskAI(ctx, c.Question, actor, groupID)
	case ClassifyCommand:
		return r.handlers.Classify(ctx, c.Text, actor, groupID)
	case MyContributionsCommand:
		return r.handlers.MyContributions(actor, groupID)
	case ContributionsCommand:
		return r.handlers.Contributions(actor, groupID, msg.IsGroup)
	case AddContributionCommand:
		return r.handlers.AddContribution(c.Kind, c.Content, actor, groupID)
	case ManhwasCommand:
		return r.handlers.Manhwas(actor, groupID)
	case SeriesCommand:
		return r.handlers.Series(actor, groupID)
	case AddSeriesCommand:
		return r.handlers.AddSeries(c.Title, c.Genre, c.Status, c.Description, actor, groupID, msg.IsGroup)
	case AddManhwaCommand:
		return r.handlers.AddManhwa(models.Manhwa{
			Title:       c.Title,
			Author:      c.Author,
			Genre:       c.Genre,
			Status:      c.Status,
			Description: c.Description,
			URL:         c.URL,
			Provider:    c.Provider,
		}, actor, groupID)
	case RequestCommand:
		return r.handlers.Request(c.Text, actor, groupID)
	case RequestsCommand:
		return r.handlers.Requests(actor, groupID)
	case ExtraCommand:
		return r.handlers.Extra(c.Name, actor, groupID)
	case IllustrationsCommand:
		return r.handlers.Illustrations(actor, groupID)
	case GetManhwaCommand:
		return r.handlers.GetManhwa(c.Name, actor, groupID)
	case GetExtraCommand:
		return r.handlers.GetExtra(c.Name, actor, groupID)
	case GetIllustrationCommand:
		return r.handlers.GetIllustration(c.Name, actor, groupID)
	case GetPackCommand:
		return r.handlers.GetPack(c.Name, actor, groupID)
	case ListFilesCommand:
		return r.handlers.ListFiles(c.Category, actor, groupID)
	case MyFilesCommand:
		return r.handlers.MyFiles(actor, groupID)
	case FileStatsCommand:
		return r.handlers.FileStats(actor, groupID)
	case SearchFileCommand:
		return r.handlers.SearchFile(c.Name, actor, groupID)
	case ListClassifiedCommand:
		return r.handlers.ListClassified(actor, groupID)
	case AddGroupCommand:
		return r.handlers.AddGroup(c.Name, actor, groupID)
	case DelGroupCommand:
		return r.handlers.DelGroup(actor, groupID)
	case LogsCommand:
		return r.handlers.Logs(c.Category, actor, groupID)
	case PrivateModeCommand:
		return r.handlers.PrivateMode(actor, groupID)
	case FriendsModeCommand:
		return r.handlers.FriendsMode(actor, groupID)
	case WarningsCommand:
		return r.handlers.Warnings(c.Enable, actor, groupID)
	case ConfigCommand:
		return r.handlers.Config(c.Key, c.Value, actor, groupID)
	case VoteCommand:
		return r.handlers.Vote(c.Option, actor, groupID)
	case CreatePollCommand:
		return r.handlers.CreatePoll(c.Question, c.Options, actor, groupID)
	case ClosePollCommand:
		return r.handlers.ClosePoll(c.ID, actor, groupID)
	case BanCommand:
		return r.handlers.Ban(c.Username, c.Reason, actor, groupID)
	case UnbanCommand:
		return r.handlers.Unban(c.Username, actor, groupID)
	case UnknownCommand:
		return &commands.Result{Success: false, Message: "Comando no reconocido. Usa /help para ver los comandos disponibles."}
	}
	return nil
}

func (r *Router) isGroupAuthorized(jid string) bool {
	g, err := r.groups.GetByJID(jid)
	if err != nil {
		r.logger.Error("group lookup failed", zap.Error(err), zap.String("group", jid))
		return false
	}
	return g != nil
}
