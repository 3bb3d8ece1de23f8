package model

import (
	"time"
)

// StatementItem 账单行项表
// Seq 保留行项在请求中的输入顺序。
type StatementItem struct {
	StatementItemID string    `gorm:"primaryKey;type:varchar(64)"`
	StatementID     string    `gorm:"type:varchar(36);not null;index:idx_statement_seq,priority:1"`
	Seq             int       `gorm:"not null;index:idx_statement_seq,priority:2"`
	CounterName     string    `gorm:"type:varchar(64);not null"`
	CounterType     string    `gorm:"type:varchar(32);not null"`
	Unit            string    `gorm:"type:varchar(32)"`
	Quantity        float64   `gorm:"type:decimal(20,6);not null;default:0"`
	UnitPrice       int64     `gorm:"not null;default:0"`
	Amount          int64     `gorm:"not null;default:0"`
	ResourceID      string    `gorm:"type:varchar(64);index"`
	ResourceName    string    `gorm:"type:varchar(128)"`
	ProjectID       string    `gorm:"type:varchar(36);index"`
	AppKey          string    `gorm:"type:varchar(64)"`
	CreatedAt       time.Time `gorm:"autoCreateTime"`
}

// TableName 指定表名
func (StatementItem) TableName() string {
	return "statement_item"
}
