package router

import (
	"time"

	"github.com/MeldyTheCoder/AnovaIncomingsBackend/internal/auth"
	"github.com/MeldyTheCoder/AnovaIncomingsBackend/internal/config"
	"github.com/MeldyTheCoder/AnovaIncomingsBackend/internal/handler"
	"github.com/MeldyTheCoder/AnovaIncomingsBackend/internal/middleware"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// SetupRouter configures the Gin engine and all API routes.
func SetupRouter(cfg *config.Config, db *gorm.DB) *gin.Engine {
	if cfg.Server.Mode != "" {
		gin.SetMode(cfg.Server.Mode)
	}
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	hasher := auth.NewHasher(cfg.JWT.Secret)
	tokens := auth.NewTokenService(cfg.JWT.Secret, time.Duration(cfg.JWT.ExpireMinutes)*time.Minute)
	requireAuth := middleware.AuthMiddleware(tokens, db)

	authHandler := handler.NewAuthHandler(db, hasher, tokens)

	users := r.Group("/users")
	users.POST("/token", authHandler.Token)
	users.POST("/register", authHandler.Register)
	users.POST("/registration/username/:username", authHandler.CheckUsername)
	users.GET("/", handler.GetUsers(db))

	usersAuthed := users.Group("")
	usersAuthed.Use(requireAuth)
	usersAuthed.GET("/me", handler.GetMe)
	usersAuthed.POST("/change-password", handler.ChangePassword(db, hasher))
	usersAuthed.POST("/edit", handler.EditProfile(db, hasher))

	historyHandler := handler.NewHistoryHandler(db)
	exportHandler := handler.NewExportHandler(db)

	history := r.Group("/history")
	history.Use(requireAuth)
	history.GET("/", historyHandler.List)
	history.PUT("/create", historyHandler.Create)
	history.DELETE("/:id", historyHandler.Delete)
	history.GET("/export/csv", exportHandler.ExportCSV)
	history.GET("/export/xlsx", exportHandler.ExportXLSX)

	return r
}
