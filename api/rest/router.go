package rest

import (
	"github.com/gin-gonic/gin"
	mw "github.com/warchest-gg/server/middleware"
)

// Handlers bundles the REST handlers for route registration.
type Handlers struct {
	Lobby    *LobbyHandler
	Purchase *PurchaseHandler
	Referee  *RefereeHandler
	Catalog  *CatalogHandler
	Admin    *AdminHandler
}

// Register mounts all REST routes under /api.
func Register(r *gin.Engine, h *Handlers, adminKey string) {
	api := r.Group("/api")
	{
		lobbyG := api.Group("/lobby")
		lobbyG.POST("", h.Lobby.Create)
		lobbyG.POST("/join", h.Lobby.Join)
		lobbyG.GET("/:id", h.Lobby.State)
		lobbyG.POST("/:id/budget", h.Lobby.SetBudget)
		lobbyG.POST("/:id/teams", h.Lobby.AddTeam)
		lobbyG.POST("/:id/close", h.Lobby.Close)
		lobbyG.GET("/:id/budgets", h.Lobby.Budgets)
		lobbyG.GET("/:id/leaderboard", h.Lobby.Leaderboard)

		playerG := api.Group("/player")
		playerG.POST("/:id/buy", h.Purchase.Buy)
		playerG.POST("/:id/sell", h.Purchase.Sell)
		playerG.POST("/:id/clear", h.Purchase.Clear)
		playerG.POST("/:id/reset", h.Purchase.Reset)
		playerG.GET("/:id/army", h.Purchase.Army)

		api.POST("/referee/audit", h.Referee.Audit)

		catalogG := api.Group("/catalog")
		catalogG.GET("", h.Catalog.List)
		catalogG.GET("/:id", h.Catalog.Item)
		catalogG.GET("/:id/quote", h.Catalog.Quote)

		adminG := api.Group("/admin")
		adminG.Use(mw.AdminKey(adminKey))
		adminG.GET("/lobbies", h.Admin.Lobbies)
		adminG.POST("/sweep", h.Admin.Sweep)
		adminG.POST("/lobby/:id/close", h.Admin.ForceClose)
	}
}
