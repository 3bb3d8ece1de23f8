package biz

import (
	"context"
	"time"

	"statement-service/internal/constants"
	stmtErrors "statement-service/internal/errors"
	"statement-service/internal/metrics"

	pkgErrors "github.com/gaoyong06/go-pkg/errors"
	"github.com/go-kratos/kratos/v2/log"
)

// BillingRequest 出账请求聚合（service 层从 wire 负载构造，引擎只读）
type BillingRequest struct {
	UUID           string
	BillingGroupID string
	TargetDate     time.Time
	Month          string
	UnpaidAmount   int64
	IsOverdue      bool
	Usage          []*UsageItem
	Credits        []*CreditItem
	Adjustments    []*AdjustmentItem
}

// LineItem 账单行项
type LineItem struct {
	ID           string
	CounterName  string
	CounterType  string
	Unit         string
	Quantity     float64
	UnitPrice    int64
	Amount       int64
	ResourceID   string
	ResourceName string
	ProjectID    string
	AppKey       string
}

// BillingStatement 最终账单
// 所有对外金额均为整数最小货币单位，行项保持输入顺序。
type BillingStatement struct {
	StatementID     string
	RequestUUID     string
	BillingGroupID  string
	Month           string
	LineItems       []*LineItem
	SubtotalAmount  int64
	AdjustmentTotal int64 // 净减免金额（折扣为正，附加费为负贡献）
	Adjustments     []*AdjustmentEffect
	CreditTotal     int64
	Consumptions    []*CreditConsumption
	CarryoverAmount int64
	PayableAmount   int64
	CreatedAt       time.Time
}

// assemble 账单组装与一致性闸门
// 行项合计 - 调整净减免 - 信用额度抵扣 + 欠费结转 必须与应付金额完全相等。
// 各阶段的中间舍入已经落到整数最小货币单位，这里不再有任何舍入，
// 检查失败意味着引擎自身缺陷，按缺陷上报而不是当作输入错误。
func (uc *ChargeUseCase) assemble(
	ctx context.Context,
	req *BillingRequest,
	lineItems []*LineItem,
	subtotal int64,
	effects []*AdjustmentEffect,
	consumptions []*CreditConsumption,
	creditTotal int64,
	carryover int64,
	payable int64,
) (*BillingStatement, error) {
	net := adjustmentNet(effects)
	if subtotal-net-creditTotal+carryover != payable {
		uc.log.WithContext(ctx).Errorf(
			"statement integrity check failed: request=%s subtotal=%d adjustmentNet=%d creditTotal=%d carryover=%d payable=%d",
			req.UUID, subtotal, net, creditTotal, carryover, payable)
		if uc.metrics != nil {
			uc.metrics.IntegrityFailureTotal.Inc()
		}
		return nil, pkgErrors.NewBizErrorWithLang(ctx, stmtErrors.ErrCodeStatementIntegrity)
	}

	return &BillingStatement{
		StatementID:     newStatementID(),
		RequestUUID:     req.UUID,
		BillingGroupID:  req.BillingGroupID,
		Month:           req.Month,
		LineItems:       lineItems,
		SubtotalAmount:  subtotal,
		AdjustmentTotal: net,
		Adjustments:     effects,
		CreditTotal:     creditTotal,
		Consumptions:    consumptions,
		CarryoverAmount: carryover,
		PayableAmount:   payable,
		CreatedAt:       time.Now(),
	}, nil
}

// StatementRepo 账单数据层接口（定义在 biz 层）
type StatementRepo interface {
	// CommitStatement 落库账单并回写被消耗信用额度的 restAmount（事务）
	// 同一 requestUUID 重放时返回最初提交的账单。
	CommitStatement(ctx context.Context, stmt *BillingStatement) (*BillingStatement, error)
	GetStatement(ctx context.Context, statementID string) (*BillingStatement, error)
	ListStatements(ctx context.Context, billingGroupID string, page, pageSize int) ([]*BillingStatement, int64, error)
}

// StatementUseCase 账单业务逻辑（计算 + 持久化协调）
type StatementUseCase struct {
	charge  *ChargeUseCase
	repo    StatementRepo
	log     *log.Helper
	metrics *metrics.StatementMetrics
}

// NewStatementUseCase 创建账单 UseCase
func NewStatementUseCase(charge *ChargeUseCase, repo StatementRepo, logger log.Logger) *StatementUseCase {
	return &StatementUseCase{
		charge:  charge,
		repo:    repo,
		log:     log.NewHelper(logger),
		metrics: metrics.GetMetrics(),
	}
}

// Preview 试算：只跑引擎，不落库
func (uc *StatementUseCase) Preview(ctx context.Context, req *BillingRequest) (*BillingStatement, error) {
	return uc.charge.Calculate(ctx, req)
}

// Commit 出账并提交：计算成功后账单与信用额度回写一并落库
func (uc *StatementUseCase) Commit(ctx context.Context, req *BillingRequest) (*BillingStatement, error) {
	stmt, err := uc.charge.Calculate(ctx, req)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	committed, err := uc.repo.CommitStatement(ctx, stmt)
	if uc.metrics != nil {
		uc.metrics.CommitDuration.Observe(time.Since(start).Seconds())
		if err != nil {
			uc.metrics.CommitTotal.WithLabelValues(constants.CommitResultFailed).Inc()
		}
	}
	if err != nil {
		return nil, err
	}
	return committed, nil
}

// Get 查询单个账单
func (uc *StatementUseCase) Get(ctx context.Context, statementID string) (*BillingStatement, error) {
	return uc.repo.GetStatement(ctx, statementID)
}

// List 查询计费组的账单列表
func (uc *StatementUseCase) List(ctx context.Context, billingGroupID string, page, pageSize int) ([]*BillingStatement, int64, error) {
	return uc.repo.ListStatements(ctx, billingGroupID, page, pageSize)
}
