package biz

import (
	"statement-service/internal/constants"

	"github.com/shopspring/decimal"
)

// AdjustmentItem 一条调整规则（规范表示）
// 旧版 adjustmentType/adjustmentValue 字段在 service 层入口归一化后，
// 流水线内只存在这一种表示，不再按字段来源分支。
type AdjustmentItem struct {
	Type            string // DISCOUNT/SURCHARGE
	Method          string // FIXED/RATE
	Level           string // PROJECT/BILLING_GROUP
	TargetProjectID string // Level=PROJECT 时必填
	Month           string
	FixedAmount     int64           // Method=FIXED 时生效（最小货币单位）
	Rate            decimal.Decimal // Method=RATE 时生效（小数比例，0.10 = 10%）
}

// AdjustmentEffect 一条已应用调整的结果明细
type AdjustmentEffect struct {
	Level           string
	TargetProjectID string
	Type            string
	Method          string
	Applied         int64
}

// amountFor 计算一条调整在当前小计上的金额
func (a *AdjustmentItem) amountFor(subtotal int64) int64 {
	if a.Method == constants.AdjustmentMethodRate {
		return roundHalfUp(decimal.NewFromInt(subtotal).Mul(a.Rate))
	}
	return a.FixedAmount
}

// applyToScope 在一个作用域小计上依次应用调整
// 同一作用域内先折扣后附加费：折扣基于附加费前的基数计算，
// 附加费基于折扣后的基数计算。折扣不允许把小计打穿为负，超出部分截断丢弃。
func applyToScope(subtotal int64, adjustments []*AdjustmentItem, level, targetProjectID string) (int64, []*AdjustmentEffect) {
	var effects []*AdjustmentEffect
	for _, pass := range []string{constants.AdjustmentTypeDiscount, constants.AdjustmentTypeSurcharge} {
		for _, adj := range adjustments {
			if adj.Type != pass {
				continue
			}
			applied := adj.amountFor(subtotal)
			if adj.Type == constants.AdjustmentTypeDiscount {
				if applied > subtotal {
					applied = subtotal
				}
				subtotal -= applied
			} else {
				subtotal += applied
			}
			effects = append(effects, &AdjustmentEffect{
				Level:           level,
				TargetProjectID: targetProjectID,
				Type:            adj.Type,
				Method:          adj.Method,
				Applied:         applied,
			})
		}
	}
	return subtotal, effects
}

// applyAdjustments 调整应用阶段
// PROJECT 级先作用于目标项目的行项小计，BILLING_GROUP 级再作用于
// 项目调整后的总计。返回应用明细与调整后的应付总额。
func applyAdjustments(lineItems []*LineItem, adjustments []*AdjustmentItem) (int64, []*AdjustmentEffect) {
	// 按首次出现顺序统计各项目小计，保证结果确定
	projectOrder := make([]string, 0)
	projectTotals := make(map[string]int64)
	for _, li := range lineItems {
		if _, ok := projectTotals[li.ProjectID]; !ok {
			projectOrder = append(projectOrder, li.ProjectID)
		}
		projectTotals[li.ProjectID] += li.Amount
	}

	projectAdjustments := make(map[string][]*AdjustmentItem)
	groupAdjustments := make([]*AdjustmentItem, 0)
	for _, adj := range adjustments {
		if adj.Level == constants.AdjustmentLevelProject {
			if _, ok := projectTotals[adj.TargetProjectID]; !ok {
				// 目标项目本期没有行项：小计按 0 处理
				projectOrder = append(projectOrder, adj.TargetProjectID)
				projectTotals[adj.TargetProjectID] = 0
			}
			projectAdjustments[adj.TargetProjectID] = append(projectAdjustments[adj.TargetProjectID], adj)
		} else {
			groupAdjustments = append(groupAdjustments, adj)
		}
	}

	effects := make([]*AdjustmentEffect, 0, len(adjustments))
	var grandTotal int64
	for _, projectID := range projectOrder {
		subtotal := projectTotals[projectID]
		if adjs := projectAdjustments[projectID]; len(adjs) > 0 {
			adjusted, projectEffects := applyToScope(subtotal, adjs, constants.AdjustmentLevelProject, projectID)
			subtotal = adjusted
			effects = append(effects, projectEffects...)
		}
		grandTotal += subtotal
	}

	if len(groupAdjustments) > 0 {
		adjusted, groupEffects := applyToScope(grandTotal, groupAdjustments, constants.AdjustmentLevelBillingGroup, "")
		grandTotal = adjusted
		effects = append(effects, groupEffects...)
	}

	return grandTotal, effects
}

// adjustmentNet 调整的净减免金额（折扣为正贡献，附加费为负贡献）
func adjustmentNet(effects []*AdjustmentEffect) int64 {
	var net int64
	for _, e := range effects {
		if e.Type == constants.AdjustmentTypeDiscount {
			net += e.Applied
		} else {
			net -= e.Applied
		}
	}
	return net
}
