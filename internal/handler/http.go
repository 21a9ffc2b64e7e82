package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"lastday/internal/account"
	"lastday/internal/core"
	"lastday/internal/dao"
	"lastday/internal/inventory"
	"lastday/internal/log"
)

// KillHistory pages through the persisted kill feed.
type KillHistory interface {
	KillsOf(ctx context.Context, userID int64, page, limit int) ([]dao.Kill, error)
}

// API holds what the HTTP endpoints need.
type API struct {
	// Accounts may be nil; the account routes are then not served.
	Accounts *account.Service
	// Kills may be nil when no database is configured.
	Kills    KillHistory
	Catalog  *inventory.Catalog
	ServerID string
}

func (a *API) Routes(r *gin.Engine) {
	r.Use(Cors())
	r.GET("/healthz", HandleHealth)
	r.GET("/ws", core.HandleWebSocket)

	api := r.Group("/api")
	{
		api.GET("/items", a.HandleItems)
		api.GET("/presence", a.HandlePresence)

		// 账号功能需要数据库
		if a.Accounts != nil {
			auth := api.Group("/auth")
			{
				auth.POST("/register", a.HandleRegister)
				auth.POST("/login", a.HandleLogin)
				auth.POST("/logout", a.HandleLogout)
			}

			user := api.Group("/user")
			user.Use(a.AuthMiddleware())
			{
				user.GET("/kills", a.HandleKills)
			}
		}
	}
}

func Cors() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

// AuthMiddleware checks the bearer token and stores the account id as "uid".
func (a *API) AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token := strings.TrimPrefix(header, "Bearer ")
		if token == "" || token == header {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
			return
		}
		claims, err := a.Accounts.ParseToken(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}
		c.Set("uid", claims.UserID)
		c.Set("username", claims.Username)
		c.Next()
	}
}

type credentials struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (a *API) HandleRegister(c *gin.Context) {
	var req credentials
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	uid, err := a.Accounts.Register(ctx, req.Username, req.Password)
	switch {
	case errors.Is(err, account.ErrAccountExists):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	case errors.Is(err, account.ErrInvalidName):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	case err != nil:
		log.Error("register failed", "username", req.Username, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "register failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"uid": uid})
}

func (a *API) HandleLogin(c *gin.Context) {
	var req credentials
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	res, err := a.Accounts.Login(ctx, req.Username, req.Password)
	if errors.Is(err, account.ErrBadCredentials) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		log.Error("login failed", "username", req.Username, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "login failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token":    res.Token,
		"ticket":   res.Ticket,
		"uid":      res.UserID,
		"username": res.Username,
	})
}

// HandleLogout drops a websocket ticket that was never used.
func (a *API) HandleLogout(c *gin.Context) {
	var req struct {
		Ticket string `json:"ticket" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if dao.RDB != nil {
		if err := dao.DeleteSession(c.Request.Context(), req.Ticket); err != nil {
			log.Warn("delete session failed", "error", err)
		}
	}
	c.Status(http.StatusNoContent)
}

type killsQuery struct {
	Page  int `form:"page"`
	Limit int `form:"limit"`
}

func (a *API) HandleKills(c *gin.Context) {
	if a.Kills == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "no kill history"})
		return
	}
	uid := c.GetInt64("uid")
	var q killsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "page and limit must be numbers"})
		return
	}
	page, limit := q.Page, q.Limit
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 10
	}

	kills, err := a.Kills.KillsOf(c.Request.Context(), uid, page, limit)
	if err != nil {
		log.Error("fetch kills failed", "uid", uid, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "fetch kills failed"})
		return
	}

	history := make([]gin.H, 0, len(kills))
	for _, k := range kills {
		history = append(history, gin.H{
			"room":      k.RoomID,
			"victim":    k.VictimName,
			"weapon":    k.Weapon,
			"timestamp": k.Timestamp,
		})
	}
	c.JSON(http.StatusOK, gin.H{"kills": history})
}

func (a *API) HandleItems(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"items": a.Catalog.Names()})
}

// HandlePresence reports the rooms of this server and their player counts.
func (a *API) HandlePresence(c *gin.Context) {
	if dao.RDB != nil {
		rooms, err := dao.GetPresence(c.Request.Context(), a.ServerID)
		if err == nil {
			c.JSON(http.StatusOK, gin.H{"server": a.ServerID, "rooms": rooms})
			return
		}
		log.Warn("presence lookup failed", "error", err)
	}
	rooms, players := core.RoomCount()
	c.JSON(http.StatusOK, gin.H{"server": a.ServerID, "room_count": rooms, "players": players})
}

func HandleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
