package handler

import (
	"encoding/csv"
	"fmt"
	"strconv"

	"github.com/MeldyTheCoder/AnovaIncomingsBackend/internal/middleware"
	"github.com/MeldyTheCoder/AnovaIncomingsBackend/internal/models"
	"github.com/MeldyTheCoder/AnovaIncomingsBackend/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

// ExportHandler serves CSV/XLSX downloads of the caller's history.
type ExportHandler struct {
	DB *gorm.DB
}

func NewExportHandler(db *gorm.DB) *ExportHandler {
	return &ExportHandler{DB: db}
}

var exportHeaders = []string{"Title", "Category", "Type", "Price", "Date"}

func (h *ExportHandler) callerRecords(c *gin.Context) ([]models.IncomingHistory, bool) {
	user := middleware.CurrentUser(c)
	if user == nil {
		util.AuthError(c)
		return nil, false
	}

	var records []models.IncomingHistory
	if err := h.DB.Where("from_user_id = ?", user.ID).
		Order("date DESC").
		Find(&records).Error; err != nil {
		util.ServerError(c, "failed to query history")
		return nil, false
	}
	return records, true
}

// ExportCSV streams the caller's records as a CSV attachment.
func (h *ExportHandler) ExportCSV(c *gin.Context) {
	records, ok := h.callerRecords(c)
	if !ok {
		return
	}

	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"history_%s.csv\"",
		uuid.New().String()))

	writer := csv.NewWriter(c.Writer)
	defer writer.Flush()

	writer.Write(exportHeaders)
	for _, r := range records {
		writer.Write([]string{
			r.Title,
			string(r.Category),
			string(r.Type),
			strconv.FormatInt(r.Price, 10),
			r.Date.Format("2006-01-02 15:04:05"),
		})
	}
}

// ExportXLSX streams the caller's records as an XLSX attachment.
func (h *ExportHandler) ExportXLSX(c *gin.Context) {
	records, ok := h.callerRecords(c)
	if !ok {
		return
	}

	f := excelize.NewFile()
	sheetName := "History"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		util.ServerError(c, "failed to create sheet")
		return
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	for i, header := range exportHeaders {
		cell := fmt.Sprintf("%c1", 'A'+i)
		f.SetCellValue(sheetName, cell, header)
	}

	for idx, r := range records {
		row := idx + 2
		f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), r.Title)
		f.SetCellValue(sheetName, fmt.Sprintf("B%d", row), string(r.Category))
		f.SetCellValue(sheetName, fmt.Sprintf("C%d", row), string(r.Type))
		f.SetCellValue(sheetName, fmt.Sprintf("D%d", row), r.Price)
		f.SetCellValue(sheetName, fmt.Sprintf("E%d", row), r.Date.Format("2006-01-02 15:04:05"))
	}

	f.SetColWidth(sheetName, "A", "A", 25)
	f.SetColWidth(sheetName, "B", "C", 15)
	f.SetColWidth(sheetName, "D", "D", 12)
	f.SetColWidth(sheetName, "E", "E", 20)

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"history_%s.xlsx\"",
		uuid.New().String()))

	if err := f.Write(c.Writer); err != nil {
		util.ServerError(c, "failed to export history")
	}
}
