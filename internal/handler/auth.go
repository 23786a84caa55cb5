package handler

import (
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/MeldyTheCoder/AnovaIncomingsBackend/internal/auth"
	"github.com/MeldyTheCoder/AnovaIncomingsBackend/internal/models"
	"github.com/MeldyTheCoder/AnovaIncomingsBackend/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// AuthHandler serves registration and token endpoints.
type AuthHandler struct {
	DB     *gorm.DB
	Hasher *auth.Hasher
	Tokens *auth.TokenService
}

func NewAuthHandler(db *gorm.DB, hasher *auth.Hasher, tokens *auth.TokenService) *AuthHandler {
	return &AuthHandler{
		DB:     db,
		Hasher: hasher,
		Tokens: tokens,
	}
}

// username: 3-50 chars of letters, digits, underscore, dot, dash
var usernameRe = regexp.MustCompile(`^[a-zA-Z0-9_.-]{3,50}$`)

// ---------- register ----------

type registerReq struct {
	Username string `json:"username" binding:"required,min=3,max=50"`
	Password string `json:"password" binding:"required,max=256"`
	Email    string `json:"email" binding:"required,min=5,max=255,email"`
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req registerReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.ValidationError(c, "incorrect registration data")
		return
	}

	req.Username = strings.TrimSpace(req.Username)
	if !usernameRe.MatchString(req.Username) {
		util.ValidationError(c, "username must be 3-50 characters of letters, digits, '_', '.' or '-'")
		return
	}

	// checked here for a clean conflict response; the unique index is the
	// backstop for the race between check and create
	var count int64
	if err := h.DB.Model(&models.User{}).
		Where("username = ?", req.Username).
		Count(&count).Error; err != nil {
		util.ServerError(c, "failed to query users")
		return
	}
	if count > 0 {
		util.ConflictError(c, "user is already registered")
		return
	}

	user := models.User{
		Username:   req.Username,
		Password:   h.Hasher.Hash(req.Password),
		Email:      req.Email,
		DateJoined: time.Now(),
	}
	if err := h.DB.Create(&user).Error; err != nil {
		util.ServerError(c, "failed to create user")
		return
	}

	c.JSON(http.StatusOK, user)
}

// ---------- token ----------

// the token endpoint takes form data, matching the OAuth2 password flow
// shape the original clients send
type tokenReq struct {
	Username string `form:"username" binding:"required"`
	Password string `form:"password" binding:"required"`
}

func (h *AuthHandler) Token(c *gin.Context) {
	var req tokenReq
	if err := c.ShouldBind(&req); err != nil {
		util.AuthError(c)
		return
	}

	var user models.User
	if err := h.DB.Where("username = ?", req.Username).First(&user).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			util.AuthError(c)
		} else {
			util.ServerError(c, "failed to query users")
		}
		return
	}

	if !h.Hasher.Verify(req.Password, user.Password) {
		util.AuthError(c)
		return
	}

	token, err := h.Tokens.Issue(&user)
	if err != nil {
		util.ServerError(c, "failed to issue token")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user":  user,
		"token": token,
	})
}

// ---------- username availability ----------

// CheckUsername reports whether a username can still be registered,
// for client-side validation. detail=true means available.
func (h *AuthHandler) CheckUsername(c *gin.Context) {
	username := c.Param("username")

	var count int64
	if err := h.DB.Model(&models.User{}).
		Where("username = ?", username).
		Count(&count).Error; err != nil {
		util.ServerError(c, "failed to query users")
		return
	}

	c.JSON(http.StatusOK, gin.H{"detail": count == 0})
}
