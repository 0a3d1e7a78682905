// Package commands implements one handler per slash command. Every handler
// re-reads the actor's role from storage, performs a single logical
// persistence operation, and returns a user-facing result. Nothing here
// panics or propagates errors upward: failures become {success:false}.
package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"botpanel/internal/analyzer"
	"botpanel/internal/models"
	"botpanel/internal/repository"

	"go.uber.org/zap"
)

// Result is the uniform handler outcome, serialized upward unchanged.
type Result struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// QA is the free-form question answering collaborator behind /ia.
type QA interface {
	Ask(ctx context.Context, question string) (string, error)
}

type Handlers struct {
	users    repository.UserRepository
	groups   repository.GroupRepository
	contribs repository.ContributionRepository
	requests repository.RequestRepository
	polls    repository.PollRepository
	manhwas  repository.ManhwaRepository
	logs     repository.LogRepository
	settings repository.SettingsRepository
	analyzer *analyzer.Analyzer
	qa       QA // nil when no generator is configured
	logger   *zap.Logger

	startedAt time.Time
}

func NewHandlers(
	users repository.UserRepository,
	groups repository.GroupRepository,
	contribs repository.ContributionRepository,
	requests repository.RequestRepository,
	polls repository.PollRepository,
	manhwas repository.ManhwaRepository,
	logs repository.LogRepository,
	settings repository.SettingsRepository,
	an *analyzer.Analyzer,
	qa QA,
	logger *zap.Logger,
) *Handlers {
	return &Handlers{
		users:     users,
		groups:    groups,
		contribs:  contribs,
		requests:  requests,
		polls:     polls,
		manhwas:   manhwas,
		logs:      logs,
		settings:  settings,
		analyzer:  an,
		qa:        qa,
		logger:    logger,
		startedAt: time.Now(),
	}
}

// isOwnerOrAdmin re-queries the stored role on every call so a downgrade
// takes effect on the next command.
func (h *Handlers) isOwnerOrAdmin(username string) bool {
	u, err := h.users.GetUserByUsername(username)
	if err != nil {
		h.logger.Error("role lookup failed", zap.Error(err), zap.String("username", username))
		return false
	}
	return u != nil && (u.Role == models.RoleOwner || u.Role == models.RoleAdmin)
}

func (h *Handlers) isGroupAuthorized(groupID *string) bool {
	if groupID == nil {
		return false
	}
	g, err := h.groups.GetByJID(*groupID)
	if err != nil {
		h.logger.Error("group lookup failed", zap.Error(err), zap.String("group", *groupID))
		return false
	}
	return g != nil
}

func (h *Handlers) isProviderGroup(groupID *string) bool {
	if groupID == nil {
		return false
	}
	g, err := h.groups.GetByJID(*groupID)
	if err != nil {
		h.logger.Error("group lookup failed", zap.Error(err), zap.String("group", *groupID))
		return false
	}
	return g != nil && g.Kind == models.GroupProvider
}

// logCommand appends the audit row; its failure never affects the handler.
func (h *Handlers) logCommand(category, command, username string, groupID *string) {
	entry := &models.LogEntry{
		Category:  category,
		Command:   command,
		Username:  username,
		GroupID:   groupID,
		CreatedAt: time.Now(),
	}
	if err := h.logs.Save(entry); err != nil {
		h.logger.Error("command audit log failed", zap.Error(err), zap.String("command", command))
	}
}

func (h *Handlers) logCommandDetails(category, command, username string, groupID *string, details map[string]string) {
	raw, _ := json.Marshal(details)
	rawStr := string(raw)
	entry := &models.LogEntry{
		Category:  category,
		Command:   command,
		Username:  username,
		GroupID:   groupID,
		CreatedAt: time.Now(),
		Details:   &rawStr,
	}
	if err := h.logs.Save(entry); err != nil {
		h.logger.Error("command audit log failed", zap.Error(err), zap.String("command", command))
	}
}

func ok(format string, args ...interface{}) *Result {
	return &Result{Success: true, Message: fmt.Sprintf(format, args...)}
}

func fail(format string, args ...interface{}) *Result {
	return &Result{Success: false, Message: fmt.Sprintf(format, args...)}
}

// Help lists the command surface; the admin block only shows a note for
// unprivileged users.
func (h *Handlers) Help(username string, groupID *string) *Result {
	isAdmin := h.isOwnerOrAdmin(username)

	text := "*Lista de comandos:*\n\n" +
		"*Generales:*\n" +
		"/help, /menu - Mostrar esta ayuda\n" +
		"/ia <pregunta> - Consultar IA\n" +
		"/clasificar <texto> - Clasificar contenido\n" +
		"/myaportes - Ver tus aportes\n" +
		"/addaporte <tipo> <contenido> - Enviar aporte\n" +
		"/pedido <contenido> - Hacer pedido\n" +
		"/pedidos - Ver tus pedidos\n" +
		"/manhwas - Lista de manhwas\n" +
		"/series - Lista de series\n" +
		"/addserie <titulo|genero|estado|descripcion> - Agregar serie\n" +
		"/ilustraciones - Ver ilustraciones\n" +
		"/extra <nombre> - Registrar extra\n" +
		"/votar <opcion> - Votar en votacion activa\n" +
		"/archivos [categoria] - Ver archivos guardados\n" +
		"/misarchivos - Ver tus archivos\n" +
		"/buscararchivo <nombre> - Buscar archivos\n" +
		"/listclasificados - Ultimas clasificaciones automaticas\n" +
		"/estado - Estado del bot\n\n" +
		"*Grupos autorizados:*\n" +
		"/aportes - Ver todos los aportes\n\n" +
		"*Administracion:*\n" +
		"/addgroup <nombre> - Autorizar grupo actual\n" +
		"/delgroup - Quitar grupo autorizado\n" +
		"/addmanhwa <titulo|autor|genero|estado|descripcion|url|proveedor> - Agregar manhwa\n" +
		"/logs [categoria] - Ver registros\n" +
		"/estadisticas - Estadisticas de archivos\n" +
		"/privado - Modo privado on/off\n" +
		"/amigos - Modo amigos on/off\n" +
		"/advertencias on|off - Sistema de advertencias\n" +
		"/config [clave] [valor] - Configuracion del bot\n" +
		"/crearvotacion <pregunta | op1 | op2> - Crear votacion\n" +
		"/cerrarvotacion <ID> - Cerrar votacion\n" +
		"/obtenermanhwa /obtenerextra /obtenerilustracion /obtenerpack - Obtener contenido (grupos proveedor)\n" +
		"/ban @usuario <motivo> - Banear\n" +
		"/unban @usuario - Desbanear\n"

	if !isAdmin {
		text += "\nNota: algunos comandos requieren permisos de Owner/Admin."
	}

	h.logCommand("consulta", "help", username, groupID)
	return ok("%s", text)
}

// AskAI answers a free-form question through the generator.
func (h *Handlers) AskAI(ctx context.Context, question, username string, groupID *string) *Result {
	if h.qa == nil {
		return fail("La IA no esta disponible en este momento.")
	}

	answer, err := h.qa.Ask(ctx, question)
	if err != nil {
		h.logger.Error("AI query failed", zap.Error(err))
		return fail("Error al procesar consulta de IA.")
	}

	h.logCommand("comando", "ia", username, groupID)
	return ok("%s", answer)
}

// Classify runs the analyzer over free text and shows the structured result.
func (h *Handlers) Classify(ctx context.Context, text, username string, groupID *string) *Result {
	a := h.analyzer.Analyze(ctx, text, "", "")

	msg := fmt.Sprintf("*Clasificacion:*\nTitulo: %s\nTipo: %s\n", a.Title, a.Type)
	if a.Chapter != nil {
		msg += fmt.Sprintf("Capitulo: %d\n", *a.Chapter)
	}
	msg += fmt.Sprintf("Confianza: %.0f%%\nMetodo: %s", a.Confidence*100, a.Method)

	h.logCommand("comando", "clasificar", username, groupID)
	return ok("%s", msg)
}

// Status reports process-level health.
func (h *Handlers) Status(username string, groupID *string) *Result {
	uptime := time.Since(h.startedAt).Round(time.Second)
	msg := fmt.Sprintf("*Estado del Bot:*\nEstado: conectado\nUsuario: %s\nActivo desde hace: %s", username, uptime)
	if groupID != nil {
		msg += fmt.Sprintf("\nGrupo: %s", *groupID)
	}
	return ok("%s", msg)
}
