package rest

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/warchest-gg/server/game/lobby"
	"github.com/warchest-gg/server/model"
	"gorm.io/gorm"
)

// AdminHandler serves operator endpoints, guarded by the admin-key
// middleware.
type AdminHandler struct {
	db    *gorm.DB
	lobby *lobby.Service
}

func NewAdminHandler(db *gorm.DB, lobbySvc *lobby.Service) *AdminHandler {
	return &AdminHandler{db: db, lobby: lobbySvc}
}

// Lobbies lists all lobbies, newest first.
// GET /api/admin/lobbies
func (h *AdminHandler) Lobbies(c *gin.Context) {
	var lobbies []model.Lobby
	if err := h.db.Order("id DESC").Limit(200).Find(&lobbies).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"lobbies": lobbies})
}

// Sweep closes lobbies idle for more than the given minutes.
// POST /api/admin/sweep?idle_minutes=60
func (h *AdminHandler) Sweep(c *gin.Context) {
	minutes, err := strconv.Atoi(c.DefaultQuery("idle_minutes", "60"))
	if err != nil || minutes <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid idle_minutes"})
		return
	}
	closed, err := h.lobby.SweepIdle(c.Request.Context(), time.Duration(minutes)*time.Minute)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "sweep failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"closed": closed})
}

// ForceClose closes a lobby without the moderator passcode.
// POST /api/admin/lobby/:id/close
func (h *AdminHandler) ForceClose(c *gin.Context) {
	lobbyID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	now := time.Now()
	res := h.db.Model(&model.Lobby{}).Where("id = ?", lobbyID).
		Updates(map[string]interface{}{
			"status":    model.LobbyClosed,
			"closed_at": &now,
		})
	if res.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "close failed"})
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "lobby not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}
