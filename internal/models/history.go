package models

import "time"

// History record type: money coming in or going out.
type HistoryType string

const (
	TypeIncoming  HistoryType = "incoming"
	TypeOutcoming HistoryType = "outcoming"
)

// IncomingHistory is a single income/outcome record owned by a user.
// Price is an integer amount, no fractional currency.
type IncomingHistory struct {
	ID         uint        `gorm:"primaryKey" json:"id"`
	Title      string      `gorm:"size:50;not null" json:"title"`
	Category   Category    `gorm:"size:32;index;not null" json:"category"`
	Type       HistoryType `gorm:"size:16;index;not null" json:"type"`
	Price      int64       `gorm:"not null" json:"price"`
	Date       time.Time   `gorm:"index;not null" json:"date"`
	FromUserID uint        `gorm:"index;not null" json:"from_user"`

	FromUser User `gorm:"foreignKey:FromUserID;constraint:OnDelete:CASCADE,OnUpdate:CASCADE" json:"-"`
}

// TableName keeps the table name used by earlier deployments.
func (IncomingHistory) TableName() string {
	return "history"
}
