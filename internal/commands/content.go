package commands

import (
	"fmt"
	"strings"
	"time"

	"botpanel/internal/models"

	"go.uber.org/zap"
)

const listLimit = 10

// MyContributions lists the actor's own contributions.
func (h *Handlers) MyContributions(username string, groupID *string) *Result {
	items, err := h.contribs.GetByUsername(username, listLimit)
	if err != nil {
		h.logger.Error("contributions query failed", zap.Error(err))
		return fail("Error al obtener tus aportes.")
	}
	if len(items) == 0 {
		return ok("No tienes aportes registrados.")
	}

	var b strings.Builder
	fmt.Fprintf(&b, "*Tus aportes (%d):*\n\n", len(items))
	for _, c := range items {
		fmt.Fprintf(&b, "- [%s] %s (%s)\n", c.Kind, c.Content, c.CreatedAt.Format("02/01/2006"))
	}

	h.logCommand("consulta", "myaportes", username, groupID)
	return ok("%s", b.String())
}

// Contributions lists everything; group chats must be authorized first.
func (h *Handlers) Contributions(username string, groupID *string, isGroup bool) *Result {
	if isGroup && !h.isGroupAuthorized(groupID) {
		return fail("Este grupo no esta autorizado.")
	}

	items, err := h.contribs.GetAll(listLimit)
	if err != nil {
		h.logger.Error("contributions query failed", zap.Error(err))
		return fail("Error al obtener aportes.")
	}
	if len(items) == 0 {
		return ok("No hay aportes registrados.")
	}

	var b strings.Builder
	fmt.Fprintf(&b, "*Ultimos aportes (%d):*\n\n", len(items))
	for _, c := range items {
		fmt.Fprintf(&b, "- [%s] %s por @%s\n", c.Kind, c.Content, c.Username)
	}

	h.logCommand("consulta", "aportes", username, groupID)
	return ok("%s", b.String())
}

// AddContribution stores a manual contribution with a free-form kind tag.
func (h *Handlers) AddContribution(kind, content, username string, groupID *string) *Result {
	c := &models.Contribution{
		Content:   content,
		Kind:      kind,
		Username:  username,
		GroupID:   groupID,
		CreatedAt: time.Now(),
	}
	if err := h.contribs.Save(c); err != nil {
		h.logger.Error("contribution save failed", zap.Error(err))
		return fail("Error al guardar aporte.")
	}

	h.logCommand("comando", "addaporte", username, groupID)
	return ok("Aporte de tipo %q guardado correctamente.", kind)
}

// Manhwas lists the catalog.
func (h *Handlers) Manhwas(username string, groupID *string) *Result {
	items, err := h.manhwas.GetAll(20)
	if err != nil {
		h.logger.Error("manhwas query failed", zap.Error(err))
		return fail("Error al obtener manhwas.")
	}
	if len(items) == 0 {
		return ok("No hay manhwas registrados.")
	}

	var b strings.Builder
	fmt.Fprintf(&b, "*Manhwas disponibles (%d):*\n\n", len(items))
	for _, m := range items {
		fmt.Fprintf(&b, "- *%s* (%s) - %s\n", m.Title, m.Status, m.Author)
	}

	h.logCommand("consulta", "manhwas", username, groupID)
	return ok("%s", b.String())
}

// Series lists catalog entries registered as series.
func (h *Handlers) Series(username string, groupID *string) *Result {
	items, err := h.manhwas.GetSeries(20)
	if err != nil {
		h.logger.Error("series query failed", zap.Error(err))
		return fail("Error al obtener series.")
	}
	if len(items) == 0 {
		return ok("No hay series registradas.")
	}

	var b strings.Builder
	fmt.Fprintf(&b, "*Series disponibles (%d):*\n\n", len(items))
	for _, m := range items {
		genre := strings.TrimPrefix(m.Genre, "Serie - ")
		fmt.Fprintf(&b, "- *%s* (%s) - %s\n", m.Title, m.Status, genre)
	}

	h.logCommand("consulta", "series", username, groupID)
	return ok("%s", b.String())
}

// AddSeries registers a series in the shared catalog. Group chats must be
// authorized unless the actor is privileged.
func (h *Handlers) AddSeries(title, genre, status, description, username string, groupID *string, isGroup bool) *Result {
	if isGroup && !h.isGroupAuthorized(groupID) && !h.isOwnerOrAdmin(username) {
		return fail("Este grupo no esta autorizado para agregar series.")
	}

	existing, err := h.manhwas.GetByTitle(title)
	if err != nil {
		h.logger.Error("series lookup failed", zap.Error(err))
		return fail("Error al agregar serie.")
	}
	if existing != nil {
		return fail("La serie %q ya existe en la base de datos.", title)
	}

	if genre == "" {
		genre = "General"
	}
	if status == "" {
		status = "En emision"
	}

	m := &models.Manhwa{
		Title:        title,
		Author:       "Varios",
		Genre:        "Serie - " + genre,
		Status:       status,
		Description:  description,
		Provider:     "General",
		RegisteredAt: time.Now(),
		RegisteredBy: username,
	}
	if err := h.manhwas.Save(m); err != nil {
		h.logger.Error("series save failed", zap.Error(err))
		return fail("Error al agregar serie.")
	}

	h.logCommand("comando", "addserie", username, groupID)
	return ok("Serie %q agregada correctamente.", title)
}

// AddManhwa registers a full catalog entry. Owner/Admin only.
func (h *Handlers) AddManhwa(m models.Manhwa, username string, groupID *string) *Result {
	if !h.isOwnerOrAdmin(username) {
		return fail("Solo Owner/Admin pueden agregar manhwas.")
	}

	if m.Author == "" {
		m.Author = "Varios"
	}
	if m.Provider == "" {
		m.Provider = "General"
	}
	m.RegisteredAt = time.Now()
	m.RegisteredBy = username

	if err := h.manhwas.Save(&m); err != nil {
		h.logger.Error("manhwa save failed", zap.Error(err))
		return fail("Error al agregar manhwa.")
	}

	h.logCommandDetails("administracion", "addmanhwa", username, groupID, map[string]string{"titulo": m.Title})
	return ok("Manhwa %q agregado correctamente.", m.Title)
}

// Request records a pedido and cross-searches the catalog and existing
// contributions so the user learns immediately if the content exists.
func (h *Handlers) Request(text, username string, groupID *string) *Result {
	foundManhwas, err := h.manhwas.Search(text, 1)
	if err != nil {
		h.logger.Error("manhwa search failed", zap.Error(err))
	}
	foundContribution, err := h.contribs.SearchByContent(text)
	if err != nil {
		h.logger.Error("contribution search failed", zap.Error(err))
	}

	req := &models.Request{
		Text:      text,
		Status:    models.RequestPending,
		Username:  username,
		GroupID:   groupID,
		CreatedAt: time.Now(),
	}
	if err := h.requests.Save(req); err != nil {
		h.logger.Error("request save failed", zap.Error(err))
		return fail("Error al procesar pedido.")
	}

	var b strings.Builder
	fmt.Fprintf(&b, "*Pedido registrado:* %q\n\n", text)

	if len(foundManhwas) > 0 {
		m := foundManhwas[0]
		fmt.Fprintf(&b, "*Encontrado en manhwas!*\n*%s*\nAutor: %s\nEstado: %s\n", m.Title, m.Author, m.Status)
		if m.URL != "" {
			fmt.Fprintf(&b, "%s\n", m.URL)
		}
		b.WriteString("\n")
	}
	if foundContribution != nil {
		fmt.Fprintf(&b, "*Encontrado en aportes!*\n%s\nTipo: %s\nAportado por: @%s\n\n",
			foundContribution.Content, foundContribution.Kind, foundContribution.Username)
	}
	if len(foundManhwas) == 0 && foundContribution == nil {
		b.WriteString("No encontrado en la base de datos.\nTu pedido sera revisado por los administradores.\n")
	}

	h.logCommand("comando", "pedido", username, groupID)
	return ok("%s", b.String())
}

// Requests lists the actor's own pedidos.
func (h *Handlers) Requests(username string, groupID *string) *Result {
	items, err := h.requests.GetByUsername(username, listLimit)
	if err != nil {
		h.logger.Error("requests query failed", zap.Error(err))
		return fail("Error al obtener pedidos.")
	}
	if len(items) == 0 {
		return ok("No tienes pedidos registrados.")
	}

	var b strings.Builder
	fmt.Fprintf(&b, "*Tus pedidos (%d):*\n\n", len(items))
	for _, r := range items {
		fmt.Fprintf(&b, "- %s [%s] (%s)\n", r.Text, r.Status, r.CreatedAt.Format("02/01/2006"))
	}

	h.logCommand("consulta", "pedidos", username, groupID)
	return ok("%s", b.String())
}

// Extra records a named extra as a contribution.
func (h *Handlers) Extra(name, username string, groupID *string) *Result {
	c := &models.Contribution{
		Content:   name,
		Kind:      "extra",
		Username:  username,
		GroupID:   groupID,
		CreatedAt: time.Now(),
	}
	if err := h.contribs.Save(c); err != nil {
		h.logger.Error("extra save failed", zap.Error(err))
		return fail("Error al registrar extra.")
	}

	h.logCommand("comando", "extra", username, groupID)
	return ok("Extra %q registrado correctamente.", name)
}

// Illustrations lists stored illustration contributions.
func (h *Handlers) Illustrations(username string, groupID *string) *Result {
	items, err := h.contribs.GetByKind("ilustracion", listLimit)
	if err != nil {
		h.logger.Error("illustrations query failed", zap.Error(err))
		return fail("Error al obtener ilustraciones.")
	}
	if len(items) == 0 {
		return ok("No hay ilustraciones registradas.")
	}

	var b strings.Builder
	fmt.Fprintf(&b, "*Ilustraciones (%d):*\n\n", len(items))
	for _, c := range items {
		fmt.Fprintf(&b, "- %s (%s)\n", c.Content, c.CreatedAt.Format("02/01/2006"))
	}

	h.logCommand("consulta", "ilustraciones", username, groupID)
	return ok("%s", b.String())
}

// fetchContent implements the four /obtener* commands, which differ only
// in the kind tag they record.
func (h *Handlers) fetchContent(kind, label, name, username string, groupID *string) *Result {
	if !h.isOwnerOrAdmin(username) {
		return fail("Solo Owner/Admin pueden obtener contenido.")
	}
	if !h.isProviderGroup(groupID) {
		return fail("Este comando solo funciona en grupos proveedor.")
	}

	c := &models.Contribution{
		Content:   name,
		Kind:      kind,
		Username:  username,
		GroupID:   groupID,
		CreatedAt: time.Now(),
	}
	if err := h.contribs.Save(c); err != nil {
		h.logger.Error("content fetch save failed", zap.Error(err))
		return fail("Error al obtener %s.", strings.ToLower(label))
	}

	h.logCommandDetails("comando", "obtener"+kind, username, groupID, map[string]string{"nombre": name})
	return ok("%s %q obtenido y guardado.", label, name)
}

func (h *Handlers) GetManhwa(name, username string, groupID *string) *Result {
	return h.fetchContent("manhwa", "Manhwa", name, username, groupID)
}

func (h *Handlers) GetExtra(name, username string, groupID *string) *Result {
	return h.fetchContent("extra", "Extra", name, username, groupID)
}

func (h *Handlers) GetIllustration(name, username string, groupID *string) *Result {
	return h.fetchContent("ilustracion", "Ilustracion", name, username, groupID)
}

func (h *Handlers) GetPack(name, username string, groupID *string) *Result {
	return h.fetchContent("pack", "Pack", name, username, groupID)
}
