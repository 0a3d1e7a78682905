package commands

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"botpanel/internal/models"
	"botpanel/internal/repository"

	"go.uber.org/zap"
)

// Vote casts a ballot in the most recent active poll. Duplicate votes are
// rejected by the storage constraint, so two rapid votes from the same user
// cannot both land.
func (h *Handlers) Vote(option, username string, groupID *string) *Result {
	active, err := h.polls.GetActive()
	if err != nil {
		h.logger.Error("active poll query failed", zap.Error(err))
		return fail("Error al registrar voto.")
	}
	if len(active) == 0 {
		return fail("No hay votaciones activas.")
	}
	poll := active[0]

	v := &models.Vote{
		PollID:    poll.ID,
		Username:  username,
		Option:    option,
		CreatedAt: time.Now(),
	}
	if err := h.polls.SaveVote(v); err != nil {
		if errors.Is(err, repository.ErrAlreadyVoted) {
			return fail("Ya has votado en esta votacion.")
		}
		h.logger.Error("vote save failed", zap.Error(err))
		return fail("Error al registrar voto.")
	}

	h.logCommand("comando", "votar", username, groupID)
	return ok("Voto registrado: %q", option)
}

// CreatePoll opens a new poll. Owner/Admin only.
func (h *Handlers) CreatePoll(question string, options []string, username string, groupID *string) *Result {
	if !h.isOwnerOrAdmin(username) {
		return fail("Solo Owner/Admin pueden crear votaciones.")
	}

	serialized, err := json.Marshal(options)
	if err != nil {
		return fail("Error al crear votacion.")
	}

	p := &models.Poll{
		Title:    question,
		Options:  string(serialized),
		StartsAt: time.Now(),
		Status:   models.PollActive,
		Creator:  username,
	}
	if err := h.polls.Save(p); err != nil {
		h.logger.Error("poll save failed", zap.Error(err))
		return fail("Error al crear votacion.")
	}

	var b strings.Builder
	fmt.Fprintf(&b, "*Votacion #%d creada:*\n%s\n\n", p.ID, question)
	for i, opt := range options {
		fmt.Fprintf(&b, "%d. %s\n", i+1, opt)
	}
	b.WriteString("\nVota con /votar <opcion>")

	h.logCommandDetails("administracion", "crearvotacion", username, groupID, map[string]string{"pregunta": question})
	return ok("%s", b.String())
}

// ClosePoll closes an active poll and reports the tallies. Owner/Admin only.
func (h *Handlers) ClosePoll(id int64, username string, groupID *string) *Result {
	if !h.isOwnerOrAdmin(username) {
		return fail("Solo Owner/Admin pueden cerrar votaciones.")
	}

	if err := h.polls.Close(id); err != nil {
		h.logger.Error("poll close failed", zap.Error(err), zap.Int64("poll_id", id))
		return fail("Error al cerrar votacion. Verifica que el ID exista y este activa.")
	}

	counts, err := h.polls.CountVotes(id)
	if err != nil {
		h.logger.Error("vote count failed", zap.Error(err), zap.Int64("poll_id", id))
		return ok("Votacion #%d cerrada correctamente.", id)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "*Votacion #%d cerrada.*\n\nResultados:\n", id)
	if len(counts) == 0 {
		b.WriteString("Sin votos registrados.\n")
	}
	for _, c := range counts {
		fmt.Fprintf(&b, "- %s: %d votos\n", c.Option, c.Count)
	}

	h.logCommand("administracion", "cerrarvotacion", username, groupID)
	return ok("%s", b.String())
}
