package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/MeldyTheCoder/AnovaIncomingsBackend/internal/middleware"
	"github.com/MeldyTheCoder/AnovaIncomingsBackend/internal/models"
	"github.com/MeldyTheCoder/AnovaIncomingsBackend/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// HistoryHandler serves the owner-scoped record endpoints.
type HistoryHandler struct {
	DB *gorm.DB
}

func NewHistoryHandler(db *gorm.DB) *HistoryHandler {
	return &HistoryHandler{DB: db}
}

type createHistoryReq struct {
	Title    string `json:"title" binding:"required,max=50"`
	Price    int64  `json:"price" binding:"required,min=1"`
	Category string `json:"category" binding:"required,oneof=supermarkets games taxi house marketplaces another animals transfers deposit withdrawal purchase_return"`
	Type     string `json:"type" binding:"required,oneof=incoming outcoming"`
}

// List returns every record owned by the caller.
func (h *HistoryHandler) List(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if user == nil {
		util.AuthError(c)
		return
	}

	var records []models.IncomingHistory
	if err := h.DB.Where("from_user_id = ?", user.ID).Find(&records).Error; err != nil {
		util.ServerError(c, "failed to query history")
		return
	}

	c.JSON(http.StatusOK, records)
}

// Create stores a new record attributed to the caller.
func (h *HistoryHandler) Create(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if user == nil {
		util.AuthError(c)
		return
	}

	var req createHistoryReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.ValidationError(c, "incorrect record data")
		return
	}

	record := models.IncomingHistory{
		Title:      req.Title,
		Category:   models.Category(req.Category),
		Type:       models.HistoryType(req.Type),
		Price:      req.Price,
		Date:       time.Now(),
		FromUserID: user.ID,
	}
	if err := h.DB.Create(&record).Error; err != nil {
		util.ServerError(c, "failed to create record")
		return
	}

	c.JSON(http.StatusOK, record)
}

// Delete removes a record by id iff the caller owns it. A record owned by
// someone else is indistinguishable from a missing one.
func (h *HistoryHandler) Delete(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if user == nil {
		util.AuthError(c)
		return
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		util.NotFoundError(c, "record not found")
		return
	}

	var record models.IncomingHistory
	if err := h.DB.Where("id = ? AND from_user_id = ?", id, user.ID).
		First(&record).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			util.NotFoundError(c, "record not found")
		} else {
			util.ServerError(c, "failed to query history")
		}
		return
	}

	if err := h.DB.Delete(&record).Error; err != nil {
		util.ServerError(c, "failed to delete record")
		return
	}

	c.JSON(http.StatusOK, record)
}
