package service

import (
	"context"
	"fmt"
	"io"
	"testing"

	v1 "statement-service/api/billing/v1"
	"statement-service/internal/biz"
	"statement-service/internal/conf"
	"statement-service/internal/constants"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStatementRepo struct {
	committed    []*biz.BillingStatement
	stored       map[string]*biz.BillingStatement
	lastPage     int
	lastPageSize int
}

func newFakeStatementRepo() *fakeStatementRepo {
	return &fakeStatementRepo{stored: make(map[string]*biz.BillingStatement)}
}

func (f *fakeStatementRepo) CommitStatement(_ context.Context, stmt *biz.BillingStatement) (*biz.BillingStatement, error) {
	f.committed = append(f.committed, stmt)
	f.stored[stmt.StatementID] = stmt
	return stmt, nil
}

func (f *fakeStatementRepo) GetStatement(_ context.Context, statementID string) (*biz.BillingStatement, error) {
	stmt, ok := f.stored[statementID]
	if !ok {
		return nil, fmt.Errorf("statement %s not found", statementID)
	}
	return stmt, nil
}

func (f *fakeStatementRepo) ListStatements(_ context.Context, billingGroupID string, page, pageSize int) ([]*biz.BillingStatement, int64, error) {
	f.lastPage = page
	f.lastPageSize = pageSize
	var out []*biz.BillingStatement
	for _, stmt := range f.stored {
		if stmt.BillingGroupID == billingGroupID {
			out = append(out, stmt)
		}
	}
	return out, int64(len(out)), nil
}

func newTestService(repo biz.StatementRepo) *BillingService {
	logger := log.NewStdLogger(io.Discard)
	prices := biz.NewPriceTable(&conf.Bootstrap{
		Billing: &conf.Billing{
			Prices: map[string]map[string]int64{
				"GAUGE": {"storage_gb": 100},
			},
		},
	})
	charge := biz.NewChargeUseCase(prices, logger)
	uc := biz.NewStatementUseCase(charge, repo, logger)
	return NewBillingService(uc, prices, logger)
}

func floatPtr(v float64) *float64 { return &v }

func baseWireRequest() *v1.CalculateStatementRequest {
	return &v1.CalculateStatementRequest{
		UUID:           "req-001",
		BillingGroupID: "bg-001",
		TargetDate:     "2026-02-01",
		Month:          "2026-01",
		Usage: []*v1.UsageItem{
			{UUID: "u-1", CounterType: "GAUGE", CounterName: "storage_gb", CounterUnit: "GB", CounterVolume: 10, ProjectID: "p-1"},
		},
	}
}

func TestPreviewStatement(t *testing.T) {
	repo := newFakeStatementRepo()
	svc := newTestService(repo)

	t.Run("happy path does not persist", func(t *testing.T) {
		reply, err := svc.PreviewStatement(context.Background(), baseWireRequest())
		require.NoError(t, err)
		assert.Equal(t, int64(1000), reply.SubtotalAmount)
		assert.Equal(t, int64(1000), reply.PayableAmount)
		require.Len(t, reply.LineItems, 1)
		assert.Equal(t, "req-001-0001", reply.LineItems[0].ID)
		assert.Empty(t, repo.committed)
	})

	t.Run("missing month", func(t *testing.T) {
		req := baseWireRequest()
		req.Month = ""
		_, err := svc.PreviewStatement(context.Background(), req)
		require.Error(t, err)
	})

	t.Run("malformed month", func(t *testing.T) {
		req := baseWireRequest()
		req.Month = "2026/01"
		_, err := svc.PreviewStatement(context.Background(), req)
		require.Error(t, err)
	})

	t.Run("malformed target date", func(t *testing.T) {
		req := baseWireRequest()
		req.TargetDate = "01-02-2026"
		_, err := svc.PreviewStatement(context.Background(), req)
		require.Error(t, err)
	})

	t.Run("malformed credit expire date", func(t *testing.T) {
		req := baseWireRequest()
		req.Credits = []*v1.CreditItem{
			{CreditCode: "c-1", Type: constants.CreditTypePaid, Amount: 100, RestAmount: 100, ExpireDate: "soon"},
		}
		_, err := svc.PreviewStatement(context.Background(), req)
		require.Error(t, err)
	})
}

func TestCommitGetList(t *testing.T) {
	repo := newFakeStatementRepo()
	svc := newTestService(repo)
	ctx := context.Background()

	committed, err := svc.CommitStatement(ctx, baseWireRequest())
	require.NoError(t, err)
	require.Len(t, repo.committed, 1)

	t.Run("get committed statement", func(t *testing.T) {
		got, err := svc.GetStatement(ctx, &v1.GetStatementRequest{StatementID: committed.StatementID})
		require.NoError(t, err)
		assert.Equal(t, committed.StatementID, got.StatementID)
		assert.Equal(t, int64(1000), got.PayableAmount)
	})

	t.Run("get missing statement", func(t *testing.T) {
		_, err := svc.GetStatement(ctx, &v1.GetStatementRequest{StatementID: "missing"})
		require.Error(t, err)
	})

	t.Run("list with explicit paging", func(t *testing.T) {
		reply, err := svc.ListStatements(ctx, &v1.ListStatementsRequest{
			BillingGroupID: "bg-001", Page: 2, PageSize: 5,
		})
		require.NoError(t, err)
		assert.Equal(t, 2, repo.lastPage)
		assert.Equal(t, 5, repo.lastPageSize)
		assert.Equal(t, int32(1), reply.Total)
	})

	t.Run("list paging defaults", func(t *testing.T) {
		_, err := svc.ListStatements(ctx, &v1.ListStatementsRequest{BillingGroupID: "bg-001"})
		require.NoError(t, err)
		assert.Equal(t, 1, repo.lastPage)
		assert.Equal(t, 20, repo.lastPageSize)
	})
}

func TestGetPrices(t *testing.T) {
	svc := newTestService(newFakeStatementRepo())
	reply, err := svc.GetPrices(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(100), reply.Prices["GAUGE"]["storage_gb"])
}

func TestNormalizeAdjustment(t *testing.T) {
	ctx := context.Background()

	t.Run("canonical fields", func(t *testing.T) {
		adj, err := normalizeAdjustment(ctx, &v1.AdjustmentItem{
			Type:   constants.AdjustmentTypeDiscount,
			Value:  floatPtr(500),
			Method: constants.AdjustmentMethodFixed,
			Level:  constants.AdjustmentLevelBillingGroup,
		})
		require.NoError(t, err)
		assert.Equal(t, constants.AdjustmentTypeDiscount, adj.Type)
		assert.Equal(t, int64(500), adj.FixedAmount)
	})

	t.Run("legacy fields normalized", func(t *testing.T) {
		adj, err := normalizeAdjustment(ctx, &v1.AdjustmentItem{
			AdjustmentType:  constants.AdjustmentTypeSurcharge,
			AdjustmentValue: floatPtr(0.1),
			Method:          constants.AdjustmentMethodRate,
			Level:           constants.AdjustmentLevelBillingGroup,
		})
		require.NoError(t, err)
		assert.Equal(t, constants.AdjustmentTypeSurcharge, adj.Type)
		assert.True(t, adj.Rate.Equal(decimal.NewFromFloat(0.1)))
	})

	t.Run("consistent duplicate fields accepted", func(t *testing.T) {
		adj, err := normalizeAdjustment(ctx, &v1.AdjustmentItem{
			Type:            constants.AdjustmentTypeDiscount,
			AdjustmentType:  constants.AdjustmentTypeDiscount,
			Value:           floatPtr(100),
			AdjustmentValue: floatPtr(100),
			Method:          constants.AdjustmentMethodFixed,
			Level:           constants.AdjustmentLevelBillingGroup,
		})
		require.NoError(t, err)
		assert.Equal(t, int64(100), adj.FixedAmount)
	})

	t.Run("conflicting type fields rejected", func(t *testing.T) {
		_, err := normalizeAdjustment(ctx, &v1.AdjustmentItem{
			Type:           constants.AdjustmentTypeDiscount,
			AdjustmentType: constants.AdjustmentTypeSurcharge,
			Value:          floatPtr(100),
			Method:         constants.AdjustmentMethodFixed,
			Level:          constants.AdjustmentLevelBillingGroup,
		})
		require.Error(t, err)
	})

	t.Run("conflicting value fields rejected", func(t *testing.T) {
		_, err := normalizeAdjustment(ctx, &v1.AdjustmentItem{
			Type:            constants.AdjustmentTypeDiscount,
			Value:           floatPtr(100),
			AdjustmentValue: floatPtr(200),
			Method:          constants.AdjustmentMethodFixed,
			Level:           constants.AdjustmentLevelBillingGroup,
		})
		require.Error(t, err)
	})

	t.Run("missing value rejected", func(t *testing.T) {
		_, err := normalizeAdjustment(ctx, &v1.AdjustmentItem{
			Type:   constants.AdjustmentTypeDiscount,
			Method: constants.AdjustmentMethodFixed,
			Level:  constants.AdjustmentLevelBillingGroup,
		})
		require.Error(t, err)
	})

	t.Run("negative fixed amount rejected", func(t *testing.T) {
		_, err := normalizeAdjustment(ctx, &v1.AdjustmentItem{
			Type:   constants.AdjustmentTypeDiscount,
			Value:  floatPtr(-500),
			Method: constants.AdjustmentMethodFixed,
			Level:  constants.AdjustmentLevelBillingGroup,
		})
		require.Error(t, err)
	})

	t.Run("negative rate rejected", func(t *testing.T) {
		_, err := normalizeAdjustment(ctx, &v1.AdjustmentItem{
			Type:   constants.AdjustmentTypeSurcharge,
			Value:  floatPtr(-0.1),
			Method: constants.AdjustmentMethodRate,
			Level:  constants.AdjustmentLevelBillingGroup,
		})
		require.Error(t, err)
	})

	t.Run("fractional fixed amount rejected", func(t *testing.T) {
		_, err := normalizeAdjustment(ctx, &v1.AdjustmentItem{
			Type:   constants.AdjustmentTypeDiscount,
			Value:  floatPtr(10.5),
			Method: constants.AdjustmentMethodFixed,
			Level:  constants.AdjustmentLevelBillingGroup,
		})
		require.Error(t, err)
	})

	t.Run("unknown method rejected", func(t *testing.T) {
		_, err := normalizeAdjustment(ctx, &v1.AdjustmentItem{
			Type:   constants.AdjustmentTypeDiscount,
			Value:  floatPtr(10),
			Method: "PERCENT",
			Level:  constants.AdjustmentLevelBillingGroup,
		})
		require.Error(t, err)
	})
}

func TestLegacyAdjustmentEndToEnd(t *testing.T) {
	svc := newTestService(newFakeStatementRepo())

	req := baseWireRequest()
	req.Adjustments = []*v1.AdjustmentItem{{
		AdjustmentType:  constants.AdjustmentTypeDiscount,
		AdjustmentValue: floatPtr(0.2),
		Method:          constants.AdjustmentMethodRate,
		Level:           constants.AdjustmentLevelBillingGroup,
	}}
	reply, err := svc.PreviewStatement(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, int64(200), reply.AdjustmentTotal)
	assert.Equal(t, int64(800), reply.PayableAmount)
}
