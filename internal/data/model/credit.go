package model

import (
	"time"
)

// Credit 信用额度表
// rest_amount 只会单调递减，回写时带 rest_amount >= ? 守护条件，永不为负。
type Credit struct {
	CreditCode     string    `gorm:"primaryKey;type:varchar(64)"`
	BillingGroupID string    `gorm:"type:varchar(36);not null;index"`
	Type           string    `gorm:"type:enum('PROMOTIONAL','FREE','PAID');not null"`
	CampaignID     string    `gorm:"type:varchar(36)"`
	Name           string    `gorm:"type:varchar(128)"`
	Amount         int64     `gorm:"not null;default:0"`
	RestAmount     int64     `gorm:"not null;default:0"`
	ExpireDate     time.Time `gorm:"not null;index"`
	CreatedAt      time.Time `gorm:"autoCreateTime"`
	UpdatedAt      time.Time `gorm:"autoUpdateTime"`
}

// TableName 指定表名
func (Credit) TableName() string {
	return "credit"
}
