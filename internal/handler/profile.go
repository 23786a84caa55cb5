package handler

import (
	"net/http"
	"strings"

	"github.com/MeldyTheCoder/AnovaIncomingsBackend/internal/auth"
	"github.com/MeldyTheCoder/AnovaIncomingsBackend/internal/middleware"
	"github.com/MeldyTheCoder/AnovaIncomingsBackend/internal/models"
	"github.com/MeldyTheCoder/AnovaIncomingsBackend/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// ChangePasswordReq carries the guarded password-change request.
type ChangePasswordReq struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,max=256"`
}

// EditProfileReq is a merge patch: only non-nil fields are applied, so an
// omitted field and a field set to "" stay distinguishable.
type EditProfileReq struct {
	Username *string `json:"username" binding:"omitempty,min=3,max=50"`
	Password *string `json:"password" binding:"omitempty,max=256"`
	Email    *string `json:"email" binding:"omitempty,min=5,max=255,email"`
}

// ChangePassword replaces the caller's password after verifying the old one.
func ChangePassword(db *gorm.DB, hasher *auth.Hasher) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := middleware.CurrentUser(c)
		if user == nil {
			util.AuthError(c)
			return
		}

		var req ChangePasswordReq
		if err := c.ShouldBindJSON(&req); err != nil {
			util.ValidationError(c, "incorrect request data")
			return
		}

		if !hasher.Verify(req.OldPassword, user.Password) {
			util.Error(c, http.StatusBadRequest, util.CodeAuth, "invalid old password")
			return
		}

		digest := hasher.Hash(req.NewPassword)
		if err := db.Model(user).Update("password", digest).Error; err != nil {
			util.ServerError(c, "failed to update password")
			return
		}
		user.Password = digest

		c.JSON(http.StatusOK, user)
	}
}

// EditProfile applies a partial update of username/password/email.
// A supplied password is stored hashed but is not guarded by the old
// password; the guarded path is /users/change-password.
func EditProfile(db *gorm.DB, hasher *auth.Hasher) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := middleware.CurrentUser(c)
		if user == nil {
			util.AuthError(c)
			return
		}

		var req EditProfileReq
		if err := c.ShouldBindJSON(&req); err != nil {
			util.ValidationError(c, "incorrect request data")
			return
		}

		updates := map[string]interface{}{}

		if req.Username != nil {
			username := strings.TrimSpace(*req.Username)
			if !usernameRe.MatchString(username) {
				util.ValidationError(c, "username must be 3-50 characters of letters, digits, '_', '.' or '-'")
				return
			}
			if username != user.Username {
				var count int64
				if err := db.Model(&models.User{}).
					Where("username = ?", username).
					Count(&count).Error; err != nil {
					util.ServerError(c, "failed to query users")
					return
				}
				if count > 0 {
					util.ConflictError(c, "user is already registered")
					return
				}
			}
			updates["username"] = username
		}
		if req.Password != nil {
			updates["password"] = hasher.Hash(*req.Password)
		}
		if req.Email != nil {
			updates["email"] = *req.Email
		}

		if len(updates) > 0 {
			if err := db.Model(user).Updates(updates).Error; err != nil {
				util.ServerError(c, "failed to update profile")
				return
			}
		}

		c.JSON(http.StatusOK, user)
	}
}
