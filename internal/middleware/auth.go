package middleware

import (
	"strings"

	"github.com/MeldyTheCoder/AnovaIncomingsBackend/internal/auth"
	"github.com/MeldyTheCoder/AnovaIncomingsBackend/internal/models"
	"github.com/MeldyTheCoder/AnovaIncomingsBackend/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// CurrentUserKey is the gin context key the middleware stores the resolved
// user under.
const CurrentUserKey = "currentUser"

// AuthMiddleware verifies the bearer token and puts the resolved user into
// the request context. A token that verifies but whose subject no longer
// exists in storage still fails authentication.
func AuthMiddleware(tokens *auth.TokenService, db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var tokenStr string

		// 1) Header: Authorization: Bearer xxx
		authHeader := c.GetHeader("Authorization")
		if authHeader != "" {
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
				tokenStr = parts[1]
			}
		}

		// 2) URL query ?token=xxx, for export downloads where clients
		// cannot set headers
		if tokenStr == "" {
			tokenStr = c.Query("token")
		}

		if tokenStr == "" {
			util.AuthError(c)
			c.Abort()
			return
		}

		username, err := tokens.Verify(tokenStr)
		if err != nil {
			util.AuthError(c)
			c.Abort()
			return
		}

		var user models.User
		if err := db.Where("username = ?", username).First(&user).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				util.AuthError(c)
			} else {
				util.ServerError(c, "failed to resolve user")
			}
			c.Abort()
			return
		}

		c.Set(CurrentUserKey, &user)
		c.Next()
	}
}

// CurrentUser returns the user stored by AuthMiddleware, or nil.
func CurrentUser(c *gin.Context) *models.User {
	v, ok := c.Get(CurrentUserKey)
	if !ok {
		return nil
	}
	user, ok := v.(*models.User)
	if !ok {
		return nil
	}
	return user
}
