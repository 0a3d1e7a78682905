package handler

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"botpanel/internal/models"
	"botpanel/internal/repository"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const defaultListLimit = 50

type PanelHandler interface {
	ListPolls(c *gin.Context)
	CreatePoll(c *gin.Context)
	ClosePoll(c *gin.Context)
	DeletePoll(c *gin.Context)
	PollResults(c *gin.Context)

	ListManhwas(c *gin.Context)
	CreateManhwa(c *gin.Context)
	UpdateManhwa(c *gin.Context)
	DeleteManhwa(c *gin.Context)

	ListContributions(c *gin.Context)
	DeleteContribution(c *gin.Context)

	ListRequests(c *gin.Context)
	UpdateRequestStatus(c *gin.Context)
	DeleteRequest(c *gin.Context)

	ListGroups(c *gin.Context)
	SaveGroup(c *gin.Context)
	UpdateGroupSettings(c *gin.Context)
	DeleteGroup(c *gin.Context)

	ListUsers(c *gin.Context)
	UpdateUserRole(c *gin.Context)
	DeleteUser(c *gin.Context)

	ListBans(c *gin.Context)
	BanUser(c *gin.Context)
	UnbanUser(c *gin.Context)

	ListLogs(c *gin.Context)
	LogsByCategory(c *gin.Context)
	LogStats(c *gin.Context)
	PurgeLogs(c *gin.Context)

	ListSettings(c *gin.Context)
	UpdateSetting(c *gin.Context)

	DashboardStats(c *gin.Context)
}

type panelHandler struct {
	contributions repository.ContributionRepository
	requests      repository.RequestRepository
	polls         repository.PollRepository
	groups        repository.GroupRepository
	users         repository.UserRepository
	manhwas       repository.ManhwaRepository
	logs          repository.LogRepository
	settings      repository.SettingsRepository
	logger        *zap.Logger
}

func NewPanelHandler(
	contributions repository.ContributionRepository,
	requests repository.RequestRepository,
	polls repository.PollRepository,
	groups repository.GroupRepository,
	users repository.UserRepository,
	manhwas repository.ManhwaRepository,
	logs repository.LogRepository,
	settings repository.SettingsRepository,
	logger *zap.Logger,
) PanelHandler {
	return &panelHandler{
		contributions: contributions,
		requests:      requests,
		polls:         polls,
		groups:        groups,
		users:         users,
		manhwas:       manhwas,
		logs:          logs,
		settings:      settings,
		logger:        logger,
	}
}

func queryLimit(c *gin.Context) int {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultListLimit)))
	if err != nil || limit <= 0 || limit > 500 {
		return defaultListLimit
	}
	return limit
}

func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return id, true
}

// Polls

func (h *panelHandler) ListPolls(c *gin.Context) {
	var (
		polls []*models.Poll
		err   error
	)
	if c.Query("estado") == models.PollActive {
		polls, err = h.polls.GetActive()
	} else {
		polls, err = h.polls.GetAll(queryLimit(c))
	}
	if err != nil {
		h.logger.Error("Failed to list polls", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to retrieve polls"})
		return
	}
	c.JSON(http.StatusOK, polls)
}

type CreatePollRequest struct {
	Title       string   `json:"title" binding:"required"`
	Description string   `json:"description"`
	Options     []string `json:"options" binding:"required,min=2"`
}

func (h *panelHandler) CreatePoll(c *gin.Context) {
	var req CreatePollRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	options, err := json.Marshal(req.Options)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid options"})
		return
	}

	poll := &models.Poll{
		Title:       req.Title,
		Description: req.Description,
		Options:     string(options),
		StartsAt:    time.Now(),
		Status:      models.PollActive,
		Creator:     c.MustGet("username").(string),
	}
	if err := h.polls.Save(poll); err != nil {
		h.logger.Error("Failed to create poll", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create poll"})
		return
	}
	c.JSON(http.StatusCreated, poll)
}

func (h *panelHandler) ClosePoll(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.polls.Close(id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			c.JSON(http.StatusNotFound, gin.H{"error": "poll not found or already closed"})
			return
		}
		h.logger.Error("Failed to close poll", zap.Int64("id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to close poll"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "poll closed"})
}

func (h *panelHandler) DeletePoll(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.polls.Delete(id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			c.JSON(http.StatusNotFound, gin.H{"error": "poll not found"})
			return
		}
		h.logger.Error("Failed to delete poll", zap.Int64("id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete poll"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "poll deleted"})
}

func (h *panelHandler) PollResults(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	poll, err := h.polls.GetByID(id)
	if err != nil {
		h.logger.Error("Failed to load poll", zap.Int64("id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to retrieve poll"})
		return
	}
	if poll == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "poll not found"})
		return
	}
	counts, err := h.polls.CountVotes(id)
	if err != nil {
		h.logger.Error("Failed to count votes", zap.Int64("id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to count votes"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"poll": poll, "results": counts})
}

// Manhwas

func (h *panelHandler) ListManhwas(c *gin.Context) {
	var (
		out []*models.Manhwa
		err error
	)
	if term := c.Query("q"); term != "" {
		out, err = h.manhwas.Search(term, queryLimit(c))
	} else {
		out, err = h.manhwas.GetAll(queryLimit(c))
	}
	if err != nil {
		h.logger.Error("Failed to list manhwas", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to retrieve manhwas"})
		return
	}
	c.JSON(http.StatusOK, out)
}

type ManhwaRequest struct {
	Title       string `json:"title" binding:"required"`
	Author      string `json:"author"`
	Genre       string `json:"genre"`
	Status      string `json:"status"`
	Description string `json:"description"`
	URL         string `json:"url"`
	Provider    string `json:"provider"`
}

func (h *panelHandler) CreateManhwa(c *gin.Context) {
	var req ManhwaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	existing, err := h.manhwas.GetByTitle(req.Title)
	if err != nil {
		h.logger.Error("Failed to check manhwa title", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save manhwa"})
		return
	}
	if existing != nil {
		c.JSON(http.StatusConflict, gin.H{"error": "a manhwa with that title already exists"})
		return
	}

	m := &models.Manhwa{
		Title:        req.Title,
		Author:       req.Author,
		Genre:        req.Genre,
		Status:       req.Status,
		Description:  req.Description,
		URL:          req.URL,
		Provider:     req.Provider,
		RegisteredAt: time.Now(),
		RegisteredBy: c.MustGet("username").(string),
	}
	if err := h.manhwas.Save(m); err != nil {
		h.logger.Error("Failed to save manhwa", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save manhwa"})
		return
	}
	c.JSON(http.StatusCreated, m)
}

func (h *panelHandler) UpdateManhwa(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req ManhwaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	m := &models.Manhwa{
		ID:          id,
		Title:       req.Title,
		Author:      req.Author,
		Genre:       req.Genre,
		Status:      req.Status,
		Description: req.Description,
		URL:         req.URL,
		Provider:    req.Provider,
	}
	if err := h.manhwas.Update(m); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			c.JSON(http.StatusNotFound, gin.H{"error": "manhwa not found"})
			return
		}
		h.logger.Error("Failed to update manhwa", zap.Int64("id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update manhwa"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "manhwa updated"})
}

func (h *panelHandler) DeleteManhwa(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.manhwas.Delete(id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			c.JSON(http.StatusNotFound, gin.H{"error": "manhwa not found"})
			return
		}
		h.logger.Error("Failed to delete manhwa", zap.Int64("id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete manhwa"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "manhwa deleted"})
}

// Contributions

func (h *panelHandler) ListContributions(c *gin.Context) {
	var (
		out []*models.Contribution
		err error
	)
	switch {
	case c.Query("usuario") != "":
		out, err = h.contributions.GetByUsername(c.Query("usuario"), queryLimit(c))
	case c.Query("tipo") != "":
		out, err = h.contributions.GetByKind(c.Query("tipo"), queryLimit(c))
	default:
		out, err = h.contributions.GetAll(queryLimit(c))
	}
	if err != nil {
		h.logger.Error("Failed to list contributions", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to retrieve contributions"})
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h *panelHandler) DeleteContribution(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.contributions.Delete(id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			c.JSON(http.StatusNotFound, gin.H{"error": "contribution not found"})
			return
		}
		h.logger.Error("Failed to delete contribution", zap.Int64("id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete contribution"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "contribution deleted"})
}

// Requests

func (h *panelHandler) ListRequests(c *gin.Context) {
	var (
		out []*models.Request
		err error
	)
	if c.Query("estado") == models.RequestPending {
		out, err = h.requests.GetPending(queryLimit(c))
	} else {
		out, err = h.requests.GetAll(queryLimit(c))
	}
	if err != nil {
		h.logger.Error("Failed to list requests", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to retrieve requests"})
		return
	}
	c.JSON(http.StatusOK, out)
}

type RequestStatusUpdate struct {
	Status string `json:"status" binding:"required"`
}

func (h *panelHandler) UpdateRequestStatus(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req RequestStatusUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	switch req.Status {
	case models.RequestPending, models.RequestInProgress, models.RequestCompleted, models.RequestRejected:
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid status"})
		return
	}

	if err := h.requests.UpdateStatus(id, req.Status); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			c.JSON(http.StatusNotFound, gin.H{"error": "request not found"})
			return
		}
		h.logger.Error("Failed to update request", zap.Int64("id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update request"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "request updated"})
}

func (h *panelHandler) DeleteRequest(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.requests.Delete(id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			c.JSON(http.StatusNotFound, gin.H{"error": "request not found"})
			return
		}
		h.logger.Error("Failed to delete request", zap.Int64("id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete request"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "request deleted"})
}

// Groups

func (h *panelHandler) ListGroups(c *gin.Context) {
	var (
		out []*models.Group
		err error
	)
	if c.Query("tipo") == models.GroupProvider {
		out, err = h.groups.GetProviders()
	} else {
		out, err = h.groups.GetAll()
	}
	if err != nil {
		h.logger.Error("Failed to list groups", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to retrieve groups"})
		return
	}
	c.JSON(http.StatusOK, out)
}

type GroupRequest struct {
	JID         string `json:"jid" binding:"required"`
	Name        string `json:"name" binding:"required"`
	Kind        string `json:"kind"`
	Provider    string `json:"provider"`
	MinMessages int    `json:"min_messages"`
	MaxWarnings int    `json:"max_warnings"`
}

func (h *panelHandler) SaveGroup(c *gin.Context) {
	var req GroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	kind := req.Kind
	if kind == "" {
		kind = models.GroupNormal
	}
	g := &models.Group{
		JID:             req.JID,
		Name:            req.Name,
		Kind:            kind,
		Provider:        req.Provider,
		MinMessages:     req.MinMessages,
		MaxWarnings:     req.MaxWarnings,
		WarningsEnabled: true,
	}
	if g.MinMessages <= 0 {
		g.MinMessages = 100
	}
	if g.MaxWarnings <= 0 {
		g.MaxWarnings = 3
	}

	if err := h.groups.Save(g); err != nil {
		h.logger.Error("Failed to save group", zap.String("jid", req.JID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save group"})
		return
	}
	c.JSON(http.StatusCreated, g)
}

type GroupSettingsUpdate struct {
	WarningsEnabled     bool `json:"warnings_enabled"`
	RestrictionsEnabled bool `json:"restrictions_enabled"`
}

func (h *panelHandler) UpdateGroupSettings(c *gin.Context) {
	jid := c.Param("jid")
	var req GroupSettingsUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.groups.UpdateSettings(jid, req.WarningsEnabled, req.RestrictionsEnabled); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			c.JSON(http.StatusNotFound, gin.H{"error": "group not found"})
			return
		}
		h.logger.Error("Failed to update group", zap.String("jid", jid), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update group"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "group updated"})
}

func (h *panelHandler) DeleteGroup(c *gin.Context) {
	jid := c.Param("jid")
	if err := h.groups.Delete(jid); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			c.JSON(http.StatusNotFound, gin.H{"error": "group not found"})
			return
		}
		h.logger.Error("Failed to delete group", zap.String("jid", jid), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete group"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "group deleted"})
}

// Users

func (h *panelHandler) ListUsers(c *gin.Context) {
	out, err := h.users.GetAll()
	if err != nil {
		h.logger.Error("Failed to list users", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to retrieve users"})
		return
	}
	c.JSON(http.StatusOK, out)
}

type RoleUpdate struct {
	Role string `json:"role" binding:"required"`
}

func (h *panelHandler) UpdateUserRole(c *gin.Context) {
	username := c.Param("username")
	var req RoleUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	switch req.Role {
	case models.RoleOwner, models.RoleAdmin, models.RoleCollaborator, models.RoleUser:
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid role"})
		return
	}
	if req.Role == models.RoleOwner && c.GetString("role") != models.RoleOwner {
		c.JSON(http.StatusForbidden, gin.H{"error": "only an owner can grant the owner role"})
		return
	}

	if err := h.users.UpdateRole(username, req.Role); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		h.logger.Error("Failed to update role", zap.String("username", username), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update role"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "role updated"})
}

func (h *panelHandler) DeleteUser(c *gin.Context) {
	username := c.Param("username")
	if username == c.MustGet("username").(string) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cannot delete your own account"})
		return
	}
	if err := h.users.Delete(username); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		h.logger.Error("Failed to delete user", zap.String("username", username), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete user"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "user deleted"})
}

// Bans

func (h *panelHandler) ListBans(c *gin.Context) {
	out, err := h.users.GetBans()
	if err != nil {
		h.logger.Error("Failed to list bans", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to retrieve bans"})
		return
	}
	c.JSON(http.StatusOK, out)
}

type BanRequest struct {
	Username string `json:"username" binding:"required"`
	Reason   string `json:"reason"`
}

func (h *panelHandler) BanUser(c *gin.Context) {
	var req BanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	b := &models.Ban{
		Username:  req.Username,
		Reason:    req.Reason,
		CreatedAt: time.Now(),
	}
	if err := h.users.Ban(b); err != nil {
		h.logger.Error("Failed to ban user", zap.String("username", req.Username), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to ban user"})
		return
	}
	c.JSON(http.StatusCreated, b)
}

func (h *panelHandler) UnbanUser(c *gin.Context) {
	username := c.Param("username")
	if err := h.users.Unban(username); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			c.JSON(http.StatusNotFound, gin.H{"error": "ban not found"})
			return
		}
		h.logger.Error("Failed to unban user", zap.String("username", username), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to unban user"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "user unbanned"})
}

// Logs

func (h *panelHandler) ListLogs(c *gin.Context) {
	out, err := h.logs.GetAll(queryLimit(c))
	if err != nil {
		h.logger.Error("Failed to list logs", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to retrieve logs"})
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h *panelHandler) LogsByCategory(c *gin.Context) {
	category := c.Param("categoria")
	out, err := h.logs.GetByCategory(category, queryLimit(c))
	if err != nil {
		h.logger.Error("Failed to list logs", zap.String("category", category), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to retrieve logs"})
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h *panelHandler) LogStats(c *gin.Context) {
	out, err := h.logs.GetStats()
	if err != nil {
		h.logger.Error("Failed to get log stats", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to retrieve log stats"})
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h *panelHandler) PurgeLogs(c *gin.Context) {
	keepDays, err := strconv.Atoi(c.DefaultQuery("keep_days", "30"))
	if err != nil || keepDays < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid keep_days"})
		return
	}
	removed, err := h.logs.Purge(keepDays)
	if err != nil {
		h.logger.Error("Failed to purge logs", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to purge logs"})
		return
	}
	h.logger.Info("Purged audit logs",
		zap.Int("keep_days", keepDays),
		zap.Int64("removed", removed),
		zap.String("by", c.MustGet("username").(string)))
	c.JSON(http.StatusOK, gin.H{"removed": removed})
}

// Settings

func (h *panelHandler) ListSettings(c *gin.Context) {
	out, err := h.settings.GetAll()
	if err != nil {
		h.logger.Error("Failed to list settings", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to retrieve settings"})
		return
	}
	c.JSON(http.StatusOK, out)
}

type SettingUpdate struct {
	Value string `json:"value" binding:"required"`
}

func (h *panelHandler) UpdateSetting(c *gin.Context) {
	key := c.Param("clave")
	var req SettingUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.settings.Set(key, req.Value); err != nil {
		h.logger.Error("Failed to update setting", zap.String("key", key), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update setting"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "setting updated"})
}

// Dashboard

func (h *panelHandler) DashboardStats(c *gin.Context) {
	contributions, err := h.contributions.Count()
	if err != nil {
		h.logger.Error("Failed to count contributions", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to compute stats"})
		return
	}
	requests, err := h.requests.Count()
	if err != nil {
		h.logger.Error("Failed to count requests", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to compute stats"})
		return
	}
	manhwas, err := h.manhwas.Count()
	if err != nil {
		h.logger.Error("Failed to count manhwas", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to compute stats"})
		return
	}
	active, err := h.polls.GetActive()
	if err != nil {
		h.logger.Error("Failed to load active polls", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to compute stats"})
		return
	}
	users, err := h.users.GetAll()
	if err != nil {
		h.logger.Error("Failed to load users", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to compute stats"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"aportes":            contributions,
		"pedidos":            requests,
		"manhwas":            manhwas,
		"votaciones_activas": len(active),
		"usuarios":           len(users),
	})
}
