package router

import (
	"strconv"
	"strings"
)

// Command is a closed union of every recognized slash command, each carrying
// its own typed arguments. Dispatch switches over these variants
// exhaustively; UnknownCommand is the explicit terminal case, not a silent
// default.
type Command interface {
	isCommand()
}

// UsageError reports missing or malformed arguments. Its text is the
// user-facing usage string, returned verbatim.
type UsageError struct {
	Usage string
}

func (e *UsageError) Error() string { return e.Usage }

type (
	HelpCommand   struct{}
	StatusCommand struct{}

	AskAICommand struct{ Question string }

	MyContributionsCommand struct{}
	ContributionsCommand   struct{}
	AddContributionCommand struct {
		Kind    string
		Content string
	}

	ManhwasCommand   struct{}
	SeriesCommand    struct{}
	AddSeriesCommand struct {
		Title       string
		Genre       string
		Status      string
		Description string
	}
	AddManhwaCommand struct {
		Title       string
		Author      string
		Genre       string
		Status      string
		Description string
		URL         string
		Provider    string
	}

	RequestCommand  struct{ Text string }
	RequestsCommand struct{}

	ExtraCommand         struct{ Name string }
	IllustrationsCommand struct{}

	GetManhwaCommand       struct{ Name string }
	GetExtraCommand        struct{ Name string }
	GetIllustrationCommand struct{ Name string }
	GetPackCommand         struct{ Name string }

	ListFilesCommand      struct{ Category string }
	MyFilesCommand        struct{}
	FileStatsCommand      struct{}
	SearchFileCommand     struct{ Name string }
	ListClassifiedCommand struct{}

	AddGroupCommand struct{ Name string }
	DelGroupCommand struct{}

	LogsCommand struct{ Category string }

	PrivateModeCommand struct{}
	FriendsModeCommand struct{}
	WarningsCommand    struct{ Enable bool }

	ConfigCommand struct {
		Key   string
		Value string
	}

	VoteCommand       struct{ Option string }
	CreatePollCommand struct {
		Question string
		Options  []string
	}
	ClosePollCommand struct{ ID int64 }

	BanCommand struct {
		Username string
		Reason   string
	}
	UnbanCommand struct{ Username string }

	ClassifyCommand struct{ Text string }

	UnknownCommand struct{ Name string }
)

func (HelpCommand) isCommand()            {}
func (StatusCommand) isCommand()          {}
func (AskAICommand) isCommand()           {}
func (MyContributionsCommand) isCommand() {}
func (ContributionsCommand) isCommand()   {}
func (AddContributionCommand) isCommand() {}
func (ManhwasCommand) isCommand()         {}
func (SeriesCommand) isCommand()          {}
func (AddSeriesCommand) isCommand()       {}
func (AddManhwaCommand) isCommand()       {}
func (RequestCommand) isCommand()         {}
func (RequestsCommand) isCommand()        {}
func (ExtraCommand) isCommand()           {}
func (IllustrationsCommand) isCommand()   {}
func (GetManhwaCommand) isCommand()       {}
func (GetExtraCommand) isCommand()        {}
func (GetIllustrationCommand) isCommand() {}
func (GetPackCommand) isCommand()         {}
func (ListFilesCommand) isCommand()       {}
func (MyFilesCommand) isCommand()         {}
func (FileStatsCommand) isCommand()       {}
func (SearchFileCommand) isCommand()      {}
func (ListClassifiedCommand) isCommand()  {}
func (AddGroupCommand) isCommand()        {}
func (DelGroupCommand) isCommand()        {}
func (LogsCommand) isCommand()            {}
func (PrivateModeCommand) isCommand()     {}
func (FriendsModeCommand) isCommand()     {}
func (WarningsCommand) isCommand()        {}
func (ConfigCommand) isCommand()          {}
func (VoteCommand) isCommand()            {}
func (CreatePollCommand) isCommand()      {}
func (ClosePollCommand) isCommand()       {}
func (BanCommand) isCommand()             {}
func (UnbanCommand) isCommand()           {}
func (ClassifyCommand) isCommand()        {}
func (UnknownCommand) isCommand()         {}

// IsCommandText reports whether the text carries the command prefix.
func IsCommandText(text string) bool {
	return strings.HasPrefix(text, "/") || strings.HasPrefix(text, "!")
}

// ParseCommand tokenizes the message and builds the typed command. A
// *UsageError is returned for a recognized command with bad arguments.
func ParseCommand(text string) (Command, error) {
	parts := strings.Fields(strings.TrimSpace(text))
	if len(parts) == 0 {
		return UnknownCommand{}, nil
	}
	name := strings.ToLower(parts[0])
	args := parts[1:]

	switch name {
	case "/help", "/ayuda", "/menu", "!help", "!menu":
		return HelpCommand{}, nil

	case "/estado":
		return StatusCommand{}, nil

	case "/ia", "/ai":
		if len(args) == 0 {
			return nil, &UsageError{Usage: "Uso: /ia <pregunta>"}
		}
		return AskAICommand{Question: strings.Join(args, " ")}, nil

	case "/myaportes":
		return MyContributionsCommand{}, nil

	case "/aportes":
		return ContributionsCommand{}, nil

	case "/addaporte":
		if len(args) < 2 {
			return nil, &UsageError{Usage: "Uso: /addaporte <tipo> <contenido>"}
		}
		return AddContributionCommand{Kind: args[0], Content: strings.Join(args[1:], " ")}, nil

	case "/manhwas":
		return ManhwasCommand{}, nil

	case "/series":
		return SeriesCommand{}, nil

	case "/addserie":
		if len(args) == 0 {
			return nil, &UsageError{Usage: "Uso: /addserie <titulo|genero|estado|descripcion>"}
		}
		fields := splitPipe(strings.Join(args, " "))
		cmd := AddSeriesCommand{Title: fields[0]}
		if cmd.Title == "" {
			return nil, &UsageError{Usage: "Uso: /addserie <titulo|genero|estado|descripcion>"}
		}
		if len(fields) > 1 {
			cmd.Genre = fields[1]
		}
		if len(fields) > 2 {
			cmd.Status = fields[2]
		}
		if len(fields) > 3 {
			cmd.Description = fields[3]
		}
		return cmd, nil

	case "/addmanhwa":
		if len(args) == 0 {
			return nil, &UsageError{Usage: "Uso: /addmanhwa <titulo|autor|genero|estado|descripcion|url|proveedor>"}
		}
		fields := splitPipe(strings.Join(args, " "))
		cmd := AddManhwaCommand{Title: fields[0]}
		if cmd.Title == "" {
			return nil, &UsageError{Usage: "Uso: /addmanhwa <titulo|autor|genero|estado|descripcion|url|proveedor>"}
		}
		if len(fields) > 1 {
			cmd.Author = fields[1]
		}
		if len(fields) > 2 {
			cmd.Genre = fields[2]
		}
		if len(fields) > 3 {
			cmd.Status = fields[3]
		}
		if len(fields) > 4 {
			cmd.Description = fields[4]
		}
		if len(fields) > 5 {
			cmd.URL = fields[5]
		}
		if len(fields) > 6 {
			cmd.Provider = fields[6]
		}
		return cmd, nil

	case "/pedido":
		if len(args) == 0 {
			return nil, &UsageError{Usage: "Uso: /pedido <contenido que buscas>"}
		}
		return RequestCommand{Text: strings.Join(args, " ")}, nil

	case "/pedidos":
		return RequestsCommand{}, nil

	case "/extra":
		if len(args) == 0 {
			return nil, &UsageError{Usage: "Uso: /extra <nombre>"}
		}
		return ExtraCommand{Name: strings.Join(args, " ")}, nil

	case "/ilustraciones":
		return IllustrationsCommand{}, nil

	case "/obtenermanhwa":
		if len(args) == 0 {
			return nil, &UsageError{Usage: "Uso: /obtenermanhwa <nombre>"}
		}
		return GetManhwaCommand{Name: strings.Join(args, " ")}, nil

	case "/obtenerextra":
		if len(args) == 0 {
			return nil, &UsageError{Usage: "Uso: /obtenerextra <nombre>"}
		}
		return GetExtraCommand{Name: strings.Join(args, " ")}, nil

	case "/obtenerilustracion":
		if len(args) == 0 {
			return nil, &UsageError{Usage: "Uso: /obtenerilustracion <nombre>"}
		}
		return GetIllustrationCommand{Name: strings.Join(args, " ")}, nil

	case "/obtenerpack":
		if len(args) == 0 {
			return nil, &UsageError{Usage: "Uso: /obtenerpack <nombre>"}
		}
		return GetPackCommand{Name: strings.Join(args, " ")}, nil

	case "/archivos":
		cmd := ListFilesCommand{}
		if len(args) > 0 {
			cmd.Category = strings.ToLower(args[0])
		}
		return cmd, nil

	case "/misarchivos":
		return MyFilesCommand{}, nil

	case "/estadisticas":
		return FileStatsCommand{}, nil

	case "/buscararchivo":
		if len(args) == 0 {
			return nil, &UsageError{Usage: "Uso: /buscararchivo <nombre>"}
		}
		return SearchFileCommand{Name: strings.Join(args, " ")}, nil

	case "/listclasificados":
		return ListClassifiedCommand{}, nil

	case "/addgroup":
		name := strings.Join(args, " ")
		if name == "" {
			name = "Grupo Autorizado"
		}
		return AddGroupCommand{Name: name}, nil

	case "/delgroup":
		return DelGroupCommand{}, nil

	case "/logs", "/logssystem", "/systemlogs":
		cmd := LogsCommand{}
		if len(args) > 0 {
			cmd.Category = args[0]
		}
		return cmd, nil

	case "/privado":
		return PrivateModeCommand{}, nil

	case "/amigos":
		return FriendsModeCommand{}, nil

	case "/advertencias":
		if len(args) == 0 || (args[0] != "on" && args[0] != "off") {
			return nil, &UsageError{Usage: "Uso: /advertencias <on|off>"}
		}
		return WarningsCommand{Enable: args[0] == "on"}, nil

	case "/config":
		cmd := ConfigCommand{}
		if len(args) > 0 {
			cmd.Key = args[0]
		}
		if len(args) > 1 {
			cmd.Value = args[1]
		}
		return cmd, nil

	case "/votar":
		if len(args) == 0 {
			return nil, &UsageError{Usage: "Uso: /votar <opcion>"}
		}
		return VoteCommand{Option: strings.Join(args, " ")}, nil

	case "/crearvotacion":
		if len(args) == 0 {
			return nil, &UsageError{Usage: "Uso: /crearvotacion <pregunta | opcion1 | opcion2 | ...>"}
		}
		fields := splitPipe(strings.Join(args, " "))
		if len(fields) < 3 {
			return nil, &UsageError{Usage: "Uso: /crearvotacion <pregunta | opcion1 | opcion2 | ...>"}
		}
		return CreatePollCommand{Question: fields[0], Options: fields[1:]}, nil

	case "/cerrarvotacion":
		if len(args) == 0 {
			return nil, &UsageError{Usage: "Uso: /cerrarvotacion <ID>"}
		}
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return nil, &UsageError{Usage: "Uso: /cerrarvotacion <ID>"}
		}
		return ClosePollCommand{ID: id}, nil

	case "/ban":
		if len(args) < 2 {
			return nil, &UsageError{Usage: "Uso: /ban @usuario <motivo>"}
		}
		return BanCommand{
			Username: strings.TrimPrefix(args[0], "@"),
			Reason:   strings.Join(args[1:], " "),
		}, nil

	case "/unban":
		if len(args) == 0 {
			return nil, &UsageError{Usage: "Uso: /unban @usuario"}
		}
		return UnbanCommand{Username: strings.TrimPrefix(args[0], "@")}, nil

	case "/clasificar":
		if len(args) == 0 {
			return nil, &UsageError{Usage: "Uso: /clasificar <texto>"}
		}
		return ClassifyCommand{Text: strings.Join(args, " ")}, nil
	}

	return UnknownCommand{Name: name}, nil
}

func splitPipe(s string) []string {
	raw := strings.Split(s, "|")
	out := make([]string, len(raw))
	for i, f := range raw {
		out[i] = strings.TrimSpace(f)
	}
	return out
}
