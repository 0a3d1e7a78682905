package commands

import (
	"fmt"
	"strings"
	"time"

	"botpanel/internal/models"
	"botpanel/internal/repository"

	"go.uber.org/zap"
)

// AddGroup authorizes the current group. Owner/Admin only.
func (h *Handlers) AddGroup(name, username string, groupID *string) *Result {
	if !h.isOwnerOrAdmin(username) {
		return fail("Solo Owner/Admin pueden autorizar grupos.")
	}
	if groupID == nil {
		return fail("Este comando solo funciona dentro de un grupo.")
	}

	g := &models.Group{
		JID:             *groupID,
		Name:            name,
		Kind:            models.GroupNormal,
		Provider:        "General",
		MinMessages:     100,
		MaxWarnings:     3,
		WarningsEnabled: true,
	}
	if err := h.groups.Save(g); err != nil {
		h.logger.Error("group save failed", zap.Error(err))
		return fail("Error al autorizar grupo.")
	}

	h.logCommandDetails("administracion", "addgroup", username, groupID, map[string]string{"nombre": name})
	return ok("Grupo autorizado correctamente.")
}

// DelGroup removes the current group's authorization. Owner/Admin only.
func (h *Handlers) DelGroup(username string, groupID *string) *Result {
	if !h.isOwnerOrAdmin(username) {
		return fail("Solo Owner/Admin pueden eliminar grupos.")
	}
	if groupID == nil {
		return fail("Este comando solo funciona dentro de un grupo.")
	}

	if err := h.groups.Delete(*groupID); err != nil {
		h.logger.Error("group delete failed", zap.Error(err))
		return fail("Error al eliminar grupo.")
	}

	h.logCommand("administracion", "delgroup", username, groupID)
	return ok("Grupo eliminado de la lista de autorizados.")
}

// Logs shows recent audit entries, optionally filtered. Owner/Admin only.
func (h *Handlers) Logs(category, username string, groupID *string) *Result {
	if !h.isOwnerOrAdmin(username) {
		return fail("Solo Owner/Admin pueden ver logs.")
	}

	var (
		items []*models.LogEntry
		err   error
	)
	if category != "" {
		items, err = h.logs.GetByCategory(category, listLimit)
	} else {
		items, err = h.logs.GetAll(listLimit)
	}
	if err != nil {
		h.logger.Error("logs query failed", zap.Error(err))
		return fail("Error al obtener logs.")
	}
	if len(items) == 0 {
		return ok("No hay logs registrados.")
	}

	var b strings.Builder
	fmt.Fprintf(&b, "*Ultimos registros (%d):*\n\n", len(items))
	for _, e := range items {
		fmt.Fprintf(&b, "- [%s] %s por @%s (%s)\n", e.Category, e.Command, e.Username, e.CreatedAt.Format("02/01 15:04"))
	}

	h.logCommand("consulta", "logs", username, groupID)
	return ok("%s", b.String())
}

// togglePersisted flips a bot_config boolean and persists it, so the mode
// survives restarts and the panel sees the change.
func (h *Handlers) togglePersisted(key, command, label, username string, groupID *string) *Result {
	if !h.isOwnerOrAdmin(username) {
		return fail("Solo Owner/Admin pueden cambiar el modo %s.", label)
	}

	current, err := h.settings.GetBool(key, false)
	if err != nil {
		h.logger.Error("setting read failed", zap.Error(err), zap.String("key", key))
		return fail("Error al cambiar el modo %s.", label)
	}

	next := "true"
	if current {
		next = "false"
	}
	if err := h.settings.Set(key, next); err != nil {
		h.logger.Error("setting write failed", zap.Error(err), zap.String("key", key))
		return fail("Error al cambiar el modo %s.", label)
	}

	h.logCommand("configuracion", command, username, groupID)
	state := "activado"
	if current {
		state = "desactivado"
	}
	return ok("Modo %s %s.", label, state)
}

func (h *Handlers) PrivateMode(username string, groupID *string) *Result {
	return h.togglePersisted(repository.SettingPrivateMode, "privado", "privado", username, groupID)
}

func (h *Handlers) FriendsMode(username string, groupID *string) *Result {
	return h.togglePersisted(repository.SettingFriendsOnly, "amigos", "amigos", username, groupID)
}

// Warnings sets the warnings toggle to an explicit state.
func (h *Handlers) Warnings(enable bool, username string, groupID *string) *Result {
	if !h.isOwnerOrAdmin(username) {
		return fail("Solo Owner/Admin pueden configurar advertencias.")
	}

	value := "false"
	state := "desactivadas"
	if enable {
		value = "true"
		state = "activadas"
	}
	if err := h.settings.Set(repository.SettingWarningsActive, value); err != nil {
		h.logger.Error("setting write failed", zap.Error(err))
		return fail("Error al configurar advertencias.")
	}

	h.logCommand("configuracion", "advertencias", username, groupID)
	return ok("Advertencias %s.", state)
}

// Config lists settings, shows one, or sets one, depending on arguments.
func (h *Handlers) Config(key, value, username string, groupID *string) *Result {
	if !h.isOwnerOrAdmin(username) {
		return fail("Solo Owner/Admin pueden ver la configuracion.")
	}

	switch {
	case key == "":
		items, err := h.settings.GetAll()
		if err != nil {
			h.logger.Error("settings query failed", zap.Error(err))
			return fail("Error al obtener configuracion.")
		}
		if len(items) == 0 {
			return ok("No hay parametros configurados.")
		}
		var b strings.Builder
		b.WriteString("*Configuracion del bot:*\n\n")
		for _, s := range items {
			fmt.Fprintf(&b, "- %s = %s\n", s.Key, s.Value)
		}
		return ok("%s", b.String())

	case value == "":
		s, err := h.settings.Get(key)
		if err != nil {
			h.logger.Error("setting read failed", zap.Error(err), zap.String("key", key))
			return fail("Error al obtener configuracion.")
		}
		if s == nil {
			return fail("Parametro %q no encontrado.", key)
		}
		return ok("%s = %s (modificado %s)", s.Key, s.Value, s.ModifiedAt.Format("02/01/2006 15:04"))

	default:
		if err := h.settings.Set(key, value); err != nil {
			h.logger.Error("setting write failed", zap.Error(err), zap.String("key", key))
			return fail("Error al guardar configuracion.")
		}
		h.logCommandDetails("configuracion", "config", username, groupID, map[string]string{"clave": key, "valor": value})
		return ok("Parametro %q actualizado a %q.", key, value)
	}
}

// Ban blocks a chat identity from every command. Owner/Admin only.
func (h *Handlers) Ban(target, reason, username string, groupID *string) *Result {
	if !h.isOwnerOrAdmin(username) {
		return fail("Solo Owner/Admin pueden banear usuarios.")
	}

	b := &models.Ban{Username: target, Reason: reason, CreatedAt: time.Now()}
	if err := h.users.Ban(b); err != nil {
		h.logger.Error("ban failed", zap.Error(err), zap.String("target", target))
		return fail("Error al banear usuario.")
	}

	h.logCommandDetails("administracion", "ban", username, groupID, map[string]string{"usuario": target, "motivo": reason})
	return ok("Usuario @%s baneado correctamente.", target)
}

// Unban lifts a ban. Owner/Admin only.
func (h *Handlers) Unban(target, username string, groupID *string) *Result {
	if !h.isOwnerOrAdmin(username) {
		return fail("Solo Owner/Admin pueden desbanear usuarios.")
	}

	if err := h.users.Unban(target); err != nil {
		h.logger.Error("unban failed", zap.Error(err), zap.String("target", target))
		return fail("Error al desbanear usuario.")
	}

	h.logCommandDetails("administracion", "unban", username, groupID, map[string]string{"usuario": target})
	return ok("Usuario @%s desbaneado correctamente.", target)
}
