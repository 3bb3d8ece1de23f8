package biz

import "time"

// StatementEvent is the message sent to RocketMQ after a statement commit
type StatementEvent struct {
	StatementID     string    `json:"statement_id"`
	RequestUUID     string    `json:"request_uuid"`
	BillingGroupID  string    `json:"billing_group_id"`
	Month           string    `json:"month"`
	SubtotalAmount  int64     `json:"subtotal_amount"`
	CreditTotal     int64     `json:"credit_total"`
	CarryoverAmount int64     `json:"carryover_amount"`
	PayableAmount   int64     `json:"payable_amount"`
	CommitTime      time.Time `json:"commit_time"`
}
