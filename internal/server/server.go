package server

import (
	"context"
	"net/http"
	"time"

	"botpanel/internal/handler"
	"botpanel/internal/middleware"
	"botpanel/internal/models"
	"botpanel/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Server struct {
	router *gin.Engine
	http   *http.Server
	logger *zap.Logger
}

func NewServer(
	authService service.AuthService,
	authHandler handler.AuthHandler,
	panelHandler handler.PanelHandler,
	providerHandler handler.ProviderHandler,
	logger *zap.Logger,
) *Server {
	router := gin.Default()

	s := &Server{
		router: router,
		logger: logger,
	}
	s.setupRoutes(authService, authHandler, panelHandler, providerHandler)

	return s
}

func (s *Server) setupRoutes(
	authService service.AuthService,
	authHandler handler.AuthHandler,
	panelHandler handler.PanelHandler,
	providerHandler handler.ProviderHandler,
) {
	s.router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	s.router.POST("/api/auth/login", authHandler.Login)

	// Read endpoints the panel dashboard polls without a session.
	public := s.router.Group("/api")
	{
		public.GET("/votaciones", panelHandler.ListPolls)
		public.GET("/votaciones/:id/resultados", panelHandler.PollResults)
		public.GET("/manhwas", panelHandler.ListManhwas)
		public.GET("/aportes", panelHandler.ListContributions)
		public.GET("/pedidos", panelHandler.ListRequests)
		public.GET("/logs", panelHandler.ListLogs)
		public.GET("/logs/categoria/:categoria", panelHandler.LogsByCategory)
		public.GET("/logs/stats", panelHandler.LogStats)
		public.GET("/grupos", panelHandler.ListGroups)
		public.GET("/dashboard/stats", panelHandler.DashboardStats)
	}

	authed := s.router.Group("/api")
	authed.Use(middleware.AuthMiddleware(authService.JWTSecret(), s.logger))
	{
		authed.GET("/auth/me", authHandler.Me)
		authed.GET("/proveedores/estadisticas", providerHandler.Stats)
		authed.GET("/proveedores/aportes", providerHandler.Contributions)
		authed.GET("/proveedores/download/:id", providerHandler.Download)

		staff := authed.Group("")
		staff.Use(middleware.RequireRole(models.RoleOwner, models.RoleAdmin, models.RoleCollaborator))
		{
			staff.POST("/votaciones", panelHandler.CreatePoll)
			staff.PUT("/votaciones/:id", panelHandler.ClosePoll)
			staff.POST("/manhwas", panelHandler.CreateManhwa)
			staff.PUT("/manhwas/:id", panelHandler.UpdateManhwa)
			staff.DELETE("/aportes/:id", panelHandler.DeleteContribution)
			staff.PUT("/pedidos/:id", panelHandler.UpdateRequestStatus)
			staff.DELETE("/pedidos/:id", panelHandler.DeleteRequest)
		}

		admin := authed.Group("")
		admin.Use(middleware.RequireRole(models.RoleOwner, models.RoleAdmin))
		{
			admin.POST("/auth/register", authHandler.Register)
			admin.DELETE("/votaciones/:id", panelHandler.DeletePoll)
			admin.DELETE("/manhwas/:id", panelHandler.DeleteManhwa)
			admin.POST("/grupos", panelHandler.SaveGroup)
			admin.PUT("/grupos/:jid", panelHandler.UpdateGroupSettings)
			admin.DELETE("/grupos/:jid", panelHandler.DeleteGroup)
			admin.GET("/usuarios", panelHandler.ListUsers)
			admin.PUT("/usuarios/:username", panelHandler.UpdateUserRole)
			admin.DELETE("/usuarios/:username", panelHandler.DeleteUser)
			admin.GET("/baneados", panelHandler.ListBans)
			admin.POST("/baneados", panelHandler.BanUser)
			admin.DELETE("/baneados/:username", panelHandler.UnbanUser)
			admin.DELETE("/logs", panelHandler.PurgeLogs)
			admin.GET("/config", panelHandler.ListSettings)
			admin.PUT("/config/:clave", panelHandler.UpdateSetting)
		}
	}
}

func (s *Server) Run(addr string) error {
	s.http = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	s.logger.Info("HTTP server starting", zap.String("addr", addr))
	if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.http == nil {
		return nil
	}
	return s.http.Shutdown(ctx)
}
