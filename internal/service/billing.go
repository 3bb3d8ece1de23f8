package service

import (
	"context"
	"fmt"
	"math"
	"time"

	v1 "statement-service/api/billing/v1"
	"statement-service/internal/biz"
	"statement-service/internal/constants"
	stmtErrors "statement-service/internal/errors"

	pkgErrors "github.com/gaoyong06/go-pkg/errors"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/shopspring/decimal"
)

// BillingService 面向 mock 计费后端契约测试的出账服务
type BillingService struct {
	uc     *biz.StatementUseCase
	prices *biz.PriceTable
	log    *log.Helper
}

// NewBillingService 创建 BillingService
func NewBillingService(uc *biz.StatementUseCase, prices *biz.PriceTable, logger log.Logger) *BillingService {
	return &BillingService{
		uc:     uc,
		prices: prices,
		log:    log.NewHelper(logger),
	}
}

// PreviewStatement 出账试算（只计算，不落库）
func (s *BillingService) PreviewStatement(ctx context.Context, req *v1.CalculateStatementRequest) (*v1.StatementReply, error) {
	bizReq, err := toBizRequest(ctx, req)
	if err != nil {
		return nil, err
	}
	stmt, err := s.uc.Preview(ctx, bizReq)
	if err != nil {
		s.log.Errorf("PreviewStatement failed: request=%s, error=%v", req.UUID, err)
		return nil, err
	}
	return toStatementReply(stmt), nil
}

// CommitStatement 出账并提交
func (s *BillingService) CommitStatement(ctx context.Context, req *v1.CalculateStatementRequest) (*v1.StatementReply, error) {
	bizReq, err := toBizRequest(ctx, req)
	if err != nil {
		return nil, err
	}
	stmt, err := s.uc.Commit(ctx, bizReq)
	if err != nil {
		s.log.Errorf("CommitStatement failed: request=%s, error=%v", req.UUID, err)
		return nil, err
	}
	return toStatementReply(stmt), nil
}

// GetStatement 查询单个账单
func (s *BillingService) GetStatement(ctx context.Context, req *v1.GetStatementRequest) (*v1.StatementReply, error) {
	stmt, err := s.uc.Get(ctx, req.StatementID)
	if err != nil {
		s.log.Errorf("GetStatement failed: statement_id=%s, error=%v", req.StatementID, err)
		return nil, err
	}
	return toStatementReply(stmt), nil
}

// ListStatements 查询计费组的账单列表
func (s *BillingService) ListStatements(ctx context.Context, req *v1.ListStatementsRequest) (*v1.ListStatementsReply, error) {
	page := int(req.Page)
	if page <= 0 {
		page = 1
	}
	pageSize := int(req.PageSize)
	if pageSize <= 0 {
		pageSize = 20
	}

	stmts, total, err := s.uc.List(ctx, req.BillingGroupID, page, pageSize)
	if err != nil {
		s.log.Errorf("ListStatements failed: billing_group=%s, error=%v", req.BillingGroupID, err)
		return nil, err
	}

	reply := &v1.ListStatementsReply{
		Total:      int32(total),
		Statements: make([]*v1.StatementReply, 0, len(stmts)),
	}
	for _, stmt := range stmts {
		reply.Statements = append(reply.Statements, toStatementReply(stmt))
	}
	return reply, nil
}

// GetPrices 查询单价表
func (s *BillingService) GetPrices(ctx context.Context) (*v1.GetPricesReply, error) {
	return &v1.GetPricesReply{Prices: s.prices.All()}, nil
}

// toBizRequest wire 负载 -> 领域请求
// 旧版调整字段在这里归一化，流水线内不再分支。
func toBizRequest(ctx context.Context, req *v1.CalculateStatementRequest) (*biz.BillingRequest, error) {
	if req.Month == "" {
		return nil, pkgErrors.WrapErrorWithLang(ctx,
			fmt.Errorf("month is required"), stmtErrors.ErrCodeInvalidMonth)
	}
	if _, err := time.Parse(constants.TimeFormatMonth, req.Month); err != nil {
		return nil, pkgErrors.WrapErrorWithLang(ctx,
			fmt.Errorf("month %q is not in YYYY-MM format", req.Month), stmtErrors.ErrCodeInvalidMonth)
	}
	targetDate, err := time.Parse(constants.TimeFormatDate, req.TargetDate)
	if err != nil {
		return nil, pkgErrors.WrapErrorWithLang(ctx,
			fmt.Errorf("targetDate %q is not in YYYY-MM-DD format", req.TargetDate), stmtErrors.ErrCodeInvalidTargetDate)
	}

	usage := make([]*biz.UsageItem, 0, len(req.Usage))
	for _, u := range req.Usage {
		usage = append(usage, &biz.UsageItem{
			UUID:          u.UUID,
			CounterName:   u.CounterName,
			CounterType:   u.CounterType,
			CounterUnit:   u.CounterUnit,
			CounterVolume: u.CounterVolume,
			ResourceID:    u.ResourceID,
			ResourceName:  u.ResourceName,
			ProjectID:     u.ProjectID,
			AppKey:        u.AppKey,
		})
	}

	credits := make([]*biz.CreditItem, 0, len(req.Credits))
	for _, c := range req.Credits {
		expireDate, err := time.Parse(constants.TimeFormatDate, c.ExpireDate)
		if err != nil {
			return nil, pkgErrors.WrapErrorWithLang(ctx,
				fmt.Errorf("credit %s: expireDate %q is not in YYYY-MM-DD format", c.CreditCode, c.ExpireDate),
				stmtErrors.ErrCodeInvalidCredit)
		}
		credits = append(credits, &biz.CreditItem{
			CreditCode: c.CreditCode,
			Type:       c.Type,
			CampaignID: c.CampaignID,
			Name:       c.Name,
			Amount:     c.Amount,
			RestAmount: c.RestAmount,
			ExpireDate: expireDate,
		})
	}

	adjustments := make([]*biz.AdjustmentItem, 0, len(req.Adjustments))
	for _, a := range req.Adjustments {
		adj, err := normalizeAdjustment(ctx, a)
		if err != nil {
			return nil, err
		}
		adjustments = append(adjustments, adj)
	}

	return &biz.BillingRequest{
		UUID:           req.UUID,
		BillingGroupID: req.BillingGroupID,
		TargetDate:     targetDate,
		Month:          req.Month,
		UnpaidAmount:   req.UnpaidAmount,
		IsOverdue:      req.IsOverdue,
		Usage:          usage,
		Credits:        credits,
		Adjustments:    adjustments,
	}, nil
}

// normalizeAdjustment 新旧字段归一化为规范表示
// adjustmentType/adjustmentValue 是 type/value 的旧版同义字段，
// 两套字段同时出现且不一致视为非法输入。
func normalizeAdjustment(ctx context.Context, a *v1.AdjustmentItem) (*biz.AdjustmentItem, error) {
	adjType := a.Type
	if adjType == "" {
		adjType = a.AdjustmentType
	} else if a.AdjustmentType != "" && a.AdjustmentType != a.Type {
		return nil, pkgErrors.WrapErrorWithLang(ctx,
			fmt.Errorf("adjustment type %q conflicts with legacy adjustmentType %q", a.Type, a.AdjustmentType),
			stmtErrors.ErrCodeInvalidAdjustment)
	}

	value := a.Value
	if value == nil {
		value = a.AdjustmentValue
	} else if a.AdjustmentValue != nil && *a.AdjustmentValue != *a.Value {
		return nil, pkgErrors.WrapErrorWithLang(ctx,
			fmt.Errorf("adjustment value %v conflicts with legacy adjustmentValue %v", *a.Value, *a.AdjustmentValue),
			stmtErrors.ErrCodeInvalidAdjustment)
	}
	if value == nil {
		return nil, pkgErrors.WrapErrorWithLang(ctx,
			fmt.Errorf("adjustment value is required"), stmtErrors.ErrCodeInvalidAdjustment)
	}
	// 方向由 type 表达，金额/比例本身不允许为负
	if *value < 0 {
		return nil, pkgErrors.WrapErrorWithLang(ctx,
			fmt.Errorf("adjustment value %v is negative", *value),
			stmtErrors.ErrCodeInvalidAdjustment)
	}

	adj := &biz.AdjustmentItem{
		Type:            adjType,
		Method:          a.Method,
		Level:           a.Level,
		TargetProjectID: a.TargetProjectID,
		Month:           a.Month,
	}
	switch a.Method {
	case constants.AdjustmentMethodFixed:
		// FIXED 金额是整数最小货币单位
		if *value != math.Trunc(*value) {
			return nil, pkgErrors.WrapErrorWithLang(ctx,
				fmt.Errorf("FIXED adjustment value %v is not an integer amount of minor units", *value),
				stmtErrors.ErrCodeInvalidAdjustment)
		}
		adj.FixedAmount = int64(*value)
	case constants.AdjustmentMethodRate:
		adj.Rate = decimal.NewFromFloat(*value)
	default:
		return nil, pkgErrors.WrapErrorWithLang(ctx,
			fmt.Errorf("adjustment method %q is not FIXED/RATE", a.Method),
			stmtErrors.ErrCodeInvalidAdjustment)
	}
	return adj, nil
}

// toStatementReply 领域对象 -> wire 负载
func toStatementReply(stmt *biz.BillingStatement) *v1.StatementReply {
	reply := &v1.StatementReply{
		StatementID:     stmt.StatementID,
		RequestUUID:     stmt.RequestUUID,
		BillingGroupID:  stmt.BillingGroupID,
		Month:           stmt.Month,
		LineItems:       make([]*v1.LineItem, 0, len(stmt.LineItems)),
		SubtotalAmount:  stmt.SubtotalAmount,
		AdjustmentTotal: stmt.AdjustmentTotal,
		Adjustments:     make([]*v1.AdjustmentEffect, 0, len(stmt.Adjustments)),
		CreditTotal:     stmt.CreditTotal,
		Consumptions:    make([]*v1.CreditConsumption, 0, len(stmt.Consumptions)),
		CarryoverAmount: stmt.CarryoverAmount,
		PayableAmount:   stmt.PayableAmount,
		CreatedAt:       stmt.CreatedAt.Format(constants.TimeFormatDateTime),
	}
	for _, li := range stmt.LineItems {
		reply.LineItems = append(reply.LineItems, &v1.LineItem{
			ID:           li.ID,
			CounterName:  li.CounterName,
			CounterType:  li.CounterType,
			Unit:         li.Unit,
			Quantity:     li.Quantity,
			UnitPrice:    li.UnitPrice,
			Amount:       li.Amount,
			ResourceID:   li.ResourceID,
			ResourceName: li.ResourceName,
			ProjectID:    li.ProjectID,
			AppKey:       li.AppKey,
		})
	}
	for _, e := range stmt.Adjustments {
		reply.Adjustments = append(reply.Adjustments, &v1.AdjustmentEffect{
			Level:           e.Level,
			TargetProjectID: e.TargetProjectID,
			Type:            e.Type,
			Method:          e.Method,
			Applied:         e.Applied,
		})
	}
	for _, c := range stmt.Consumptions {
		reply.Consumptions = append(reply.Consumptions, &v1.CreditConsumption{
			CreditCode: c.CreditCode,
			Type:       c.Type,
			Amount:     c.Amount,
		})
	}
	return reply
}
