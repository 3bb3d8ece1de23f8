package model

import (
	"time"
)

// Statement 账单表
type Statement struct {
	StatementID     string    `gorm:"primaryKey;type:varchar(36)"`
	RequestUUID     string    `gorm:"type:varchar(36);not null;uniqueIndex:uk_request_uuid"`
	BillingGroupID  string    `gorm:"type:varchar(36);not null;index:idx_group_month,priority:1"`
	Month           string    `gorm:"type:varchar(7);not null;index:idx_group_month,priority:2"` // 2024-11
	SubtotalAmount  int64     `gorm:"not null;default:0"`
	AdjustmentTotal int64     `gorm:"not null;default:0"`
	CreditTotal     int64     `gorm:"not null;default:0"`
	CarryoverAmount int64     `gorm:"not null;default:0"`
	PayableAmount   int64     `gorm:"not null;default:0"`
	Adjustments     string    `gorm:"type:json"` // 调整明细 JSON
	Consumptions    string    `gorm:"type:json"` // 抵扣明细 JSON
	CreatedAt       time.Time `gorm:"autoCreateTime;index:idx_group_month,priority:3"`
}

// TableName 指定表名
func (Statement) TableName() string {
	return "statement"
}
