package handler

import (
	"net/http"

	"github.com/MeldyTheCoder/AnovaIncomingsBackend/internal/middleware"
	"github.com/MeldyTheCoder/AnovaIncomingsBackend/internal/models"
	"github.com/MeldyTheCoder/AnovaIncomingsBackend/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// GetUsers lists every registered user. Unauthenticated, as the original
// surface was; password digests are never serialized.
func GetUsers(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var users []models.User
		if err := db.Find(&users).Error; err != nil {
			util.ServerError(c, "failed to query users")
			return
		}
		c.JSON(http.StatusOK, users)
	}
}

// GetMe returns the authenticated caller (requires AuthMiddleware).
func GetMe(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if user == nil {
		util.AuthError(c)
		return
	}
	c.JSON(http.StatusOK, user)
}
