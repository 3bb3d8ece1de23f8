package biz

import (
	"context"
	"fmt"
	"time"

	"statement-service/internal/constants"
	stmtErrors "statement-service/internal/errors"
	"statement-service/internal/metrics"

	pkgErrors "github.com/gaoyong06/go-pkg/errors"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/google/uuid"
)

// ChargeUseCase 出账计算业务逻辑
// 纯计算：不访问存储，不跨请求共享可变状态，多个请求可完全并行。
type ChargeUseCase struct {
	prices  *PriceTable
	log     *log.Helper
	metrics *metrics.StatementMetrics
}

// NewChargeUseCase 创建出账计算 UseCase
func NewChargeUseCase(prices *PriceTable, logger log.Logger) *ChargeUseCase {
	return &ChargeUseCase{
		prices:  prices,
		log:     log.NewHelper(logger),
		metrics: metrics.GetMetrics(),
	}
}

// newStatementID 生成账单ID
func newStatementID() string {
	return uuid.New().String()
}

// Calculate 计算一个账期的账单
// 流水线：用量聚合 -> 调整应用 -> 信用额度消耗 -> 欠费结转 -> 组装与一致性检查。
// 先整体校验再变换：任何校验失败都发生在信用额度工作副本被扣减之前，
// 被拒绝的请求不产生任何部分应用，也就无需回滚。
func (uc *ChargeUseCase) Calculate(ctx context.Context, req *BillingRequest) (*BillingStatement, error) {
	start := time.Now()
	stmt, result, err := uc.calculate(ctx, req)
	if uc.metrics != nil {
		uc.metrics.CalcDuration.Observe(time.Since(start).Seconds())
		uc.metrics.CalcTotal.WithLabelValues(result).Inc()
		if err == nil {
			uc.metrics.LineItems.Observe(float64(len(stmt.LineItems)))
		}
	}
	return stmt, err
}

func (uc *ChargeUseCase) calculate(ctx context.Context, req *BillingRequest) (*BillingStatement, string, error) {
	if err := uc.validate(ctx, req); err != nil {
		return nil, constants.CalcResultRejected, err
	}

	lineItems, err := uc.priceUsage(ctx, req.UUID, req.Usage)
	if err != nil {
		return nil, constants.CalcResultRejected, err
	}
	var subtotal int64
	for _, li := range lineItems {
		subtotal += li.Amount
	}

	adjusted, effects := applyAdjustments(lineItems, req.Adjustments)
	uc.observeAdjustments(effects)

	consumptions, creditTotal, remaining := consumeCredits(req.Credits, req.TargetDate, adjusted)
	uc.observeConsumptions(consumptions)

	// 欠费结转在信用额度之后：历史欠款不吃本期额度
	var carryover int64
	if req.IsOverdue {
		carryover = req.UnpaidAmount
		remaining += carryover
	}

	stmt, err := uc.assemble(ctx, req, lineItems, subtotal, effects, consumptions, creditTotal, carryover, remaining)
	if err != nil {
		return nil, constants.CalcResultDefect, err
	}
	return stmt, constants.CalcResultSuccess, nil
}

// validate 整体校验出账请求
// 所有输入问题都在这里拦截，后续阶段只处理合法数据。
func (uc *ChargeUseCase) validate(ctx context.Context, req *BillingRequest) error {
	if req.UUID == "" || req.BillingGroupID == "" {
		return pkgErrors.WrapErrorWithLang(ctx,
			fmt.Errorf("uuid and billingGroupId are required"),
			stmtErrors.ErrCodeInvalidRequest)
	}
	if req.UnpaidAmount < 0 {
		return pkgErrors.WrapErrorWithLang(ctx,
			fmt.Errorf("unpaidAmount %d is negative", req.UnpaidAmount),
			stmtErrors.ErrCodeInvalidRequest)
	}

	for _, u := range req.Usage {
		if u.CounterVolume < 0 {
			return pkgErrors.WrapErrorWithLang(ctx,
				fmt.Errorf("usage %s: counterVolume %v is negative", u.UUID, u.CounterVolume),
				stmtErrors.ErrCodeInvalidUsage)
		}
		if _, err := uc.prices.Lookup(ctx, u.CounterType, u.CounterName); err != nil {
			return err
		}
	}

	for _, adj := range req.Adjustments {
		if err := validateAdjustment(ctx, adj, req.Month); err != nil {
			return err
		}
	}

	for _, c := range req.Credits {
		if c.Amount < 0 || c.RestAmount < 0 || c.RestAmount > c.Amount {
			return pkgErrors.WrapErrorWithLang(ctx,
				fmt.Errorf("credit %s: restAmount %d out of range [0, %d]", c.CreditCode, c.RestAmount, c.Amount),
				stmtErrors.ErrCodeInvalidCredit)
		}
	}

	return nil
}

// validateAdjustment 校验一条规范化后的调整规则
func validateAdjustment(ctx context.Context, adj *AdjustmentItem, month string) error {
	if adj.Type != constants.AdjustmentTypeDiscount && adj.Type != constants.AdjustmentTypeSurcharge {
		return pkgErrors.WrapErrorWithLang(ctx,
			fmt.Errorf("adjustment type %q is not DISCOUNT/SURCHARGE", adj.Type),
			stmtErrors.ErrCodeInvalidAdjustment)
	}
	if adj.Method != constants.AdjustmentMethodFixed && adj.Method != constants.AdjustmentMethodRate {
		return pkgErrors.WrapErrorWithLang(ctx,
			fmt.Errorf("adjustment method %q is not FIXED/RATE", adj.Method),
			stmtErrors.ErrCodeInvalidAdjustment)
	}
	switch adj.Level {
	case constants.AdjustmentLevelProject:
		if adj.TargetProjectID == "" {
			return pkgErrors.WrapErrorWithLang(ctx,
				fmt.Errorf("PROJECT adjustment requires targetProjectId"),
				stmtErrors.ErrCodeInvalidAdjustment)
		}
	case constants.AdjustmentLevelBillingGroup:
	default:
		return pkgErrors.WrapErrorWithLang(ctx,
			fmt.Errorf("adjustment level %q is not PROJECT/BILLING_GROUP", adj.Level),
			stmtErrors.ErrCodeInvalidAdjustment)
	}
	if adj.Month != "" && month != "" && adj.Month != month {
		return pkgErrors.WrapErrorWithLang(ctx,
			fmt.Errorf("adjustment month %q does not match statement month %q", adj.Month, month),
			stmtErrors.ErrCodeInvalidAdjustment)
	}
	return nil
}

func (uc *ChargeUseCase) observeAdjustments(effects []*AdjustmentEffect) {
	if uc.metrics == nil {
		return
	}
	for _, e := range effects {
		uc.metrics.AdjustmentApplied.WithLabelValues(e.Level, e.Type).Inc()
		uc.metrics.AdjustmentAmount.WithLabelValues(e.Level, e.Type).Add(float64(e.Applied))
	}
}

func (uc *ChargeUseCase) observeConsumptions(consumptions []*CreditConsumption) {
	if uc.metrics == nil {
		return
	}
	for _, c := range consumptions {
		uc.metrics.CreditConsumedTotal.WithLabelValues(c.Type).Inc()
		uc.metrics.CreditConsumedAmount.WithLabelValues(c.Type).Add(float64(c.Amount))
	}
}
