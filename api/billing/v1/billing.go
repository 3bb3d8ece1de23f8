// Package v1 定义出账服务的 HTTP JSON 数据结构。
// 面向 mock 计费后端的契约测试，字段名与上游负载保持一致（camelCase）。
package v1

// UsageItem 一条计量事实
type UsageItem struct {
	UUID          string  `json:"uuid"`
	CounterName   string  `json:"counterName"`
	CounterType   string  `json:"counterType"`
	CounterUnit   string  `json:"counterUnit"`
	CounterVolume float64 `json:"counterVolume"`
	ResourceID    string  `json:"resourceId"`
	ResourceName  string  `json:"resourceName"`
	ProjectID     string  `json:"projectId"`
	AppKey        string  `json:"appKey"`
}

// CreditItem 一条信用额度授予记录
type CreditItem struct {
	CreditCode string `json:"creditCode"`
	Type       string `json:"type"` // PROMOTIONAL/FREE/PAID
	CampaignID string `json:"campaignId"`
	Name       string `json:"name"`
	Amount     int64  `json:"amount"`
	RestAmount int64  `json:"restAmount"`
	ExpireDate string `json:"expireDate"` // YYYY-MM-DD
}

// AdjustmentItem 一条调整规则
// type/value 为规范字段；adjustmentType/adjustmentValue 为旧版同义字段，
// 在入口处归一化为规范表示。
type AdjustmentItem struct {
	Type            string   `json:"type,omitempty"`
	Value           *float64 `json:"value,omitempty"`
	AdjustmentType  string   `json:"adjustmentType,omitempty"`  // 旧字段，等价于 type
	AdjustmentValue *float64 `json:"adjustmentValue,omitempty"` // 旧字段，等价于 value
	Method          string   `json:"method"`                    // FIXED/RATE
	Level           string   `json:"level"`                     // PROJECT/BILLING_GROUP
	TargetProjectID string   `json:"targetProjectId,omitempty"` // level=PROJECT 时必填
	Month           string   `json:"month,omitempty"`           // YYYY-MM
}

// CalculateStatementRequest 出账请求
type CalculateStatementRequest struct {
	UUID           string            `json:"uuid"`
	BillingGroupID string            `json:"billingGroupId"`
	TargetDate     string            `json:"targetDate"` // YYYY-MM-DD
	Month          string            `json:"month"`      // YYYY-MM
	UnpaidAmount   int64             `json:"unpaidAmount"`
	IsOverdue      bool              `json:"isOverdue"`
	Usage          []*UsageItem      `json:"usage"`
	Credits        []*CreditItem     `json:"credits"`
	Adjustments    []*AdjustmentItem `json:"adjustments"`
}

// LineItem 账单行项
type LineItem struct {
	ID           string  `json:"id"`
	CounterName  string  `json:"counterName"`
	CounterType  string  `json:"counterType"`
	Unit         string  `json:"unit"`
	Quantity     float64 `json:"quantity"`
	UnitPrice    int64   `json:"unitPrice"`
	Amount       int64   `json:"amount"`
	ResourceID   string  `json:"resourceId"`
	ResourceName string  `json:"resourceName"`
	ProjectID    string  `json:"projectId"`
	AppKey       string  `json:"appKey"`
}

// AdjustmentEffect 一条已应用的调整明细
type AdjustmentEffect struct {
	Level           string `json:"level"`
	TargetProjectID string `json:"targetProjectId,omitempty"`
	Type            string `json:"type"`
	Method          string `json:"method"`
	Applied         int64  `json:"applied"`
}

// CreditConsumption 一条信用额度抵扣明细
type CreditConsumption struct {
	CreditCode string `json:"creditCode"`
	Type       string `json:"type"`
	Amount     int64  `json:"amount"`
}

// StatementReply 出账结果
type StatementReply struct {
	StatementID     string               `json:"statementId"`
	RequestUUID     string               `json:"requestUuid"`
	BillingGroupID  string               `json:"billingGroupId"`
	Month           string               `json:"month"`
	LineItems       []*LineItem          `json:"lineItems"`
	SubtotalAmount  int64                `json:"subtotalAmount"`
	AdjustmentTotal int64                `json:"adjustmentTotal"` // 正数表示净减免
	Adjustments     []*AdjustmentEffect  `json:"adjustments"`
	CreditTotal     int64                `json:"creditTotal"`
	Consumptions    []*CreditConsumption `json:"consumptions"`
	CarryoverAmount int64                `json:"carryoverAmount"`
	PayableAmount   int64                `json:"payableAmount"`
	CreatedAt       string               `json:"createdAt"` // YYYY-MM-DD HH:MM:SS
}

// GetStatementRequest 查询单个账单
type GetStatementRequest struct {
	StatementID string `json:"statement_id"`
}

// ListStatementsRequest 查询计费组账单列表
type ListStatementsRequest struct {
	BillingGroupID string `json:"billing_group_id"`
	Page           int32  `json:"page"`
	PageSize       int32  `json:"page_size"`
}

// ListStatementsReply 账单列表
type ListStatementsReply struct {
	Total      int32             `json:"total"`
	Statements []*StatementReply `json:"statements"`
}

// GetPricesReply 单价表
type GetPricesReply struct {
	Prices map[string]map[string]int64 `json:"prices"`
}
