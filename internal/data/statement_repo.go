package data

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"statement-service/internal/biz"
	"statement-service/internal/conf"
	"statement-service/internal/constants"
	"statement-service/internal/data/model"
	stmtErrors "statement-service/internal/errors"
	"statement-service/internal/metrics"

	"github.com/apache/rocketmq-client-go/v2/primitive"
	pkgErrors "github.com/gaoyong06/go-pkg/errors"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/go-redsync/redsync/v4"
	"gorm.io/gorm"
)

// statementRepo 账单数据访问
type statementRepo struct {
	data    *Data
	sync    *redsync.Redsync
	topic   string
	log     *log.Helper
	metrics *metrics.StatementMetrics
}

// NewStatementRepo 创建账单 repo（返回 biz.StatementRepo 接口）
func NewStatementRepo(data *Data, sync *redsync.Redsync, c *conf.Bootstrap, logger log.Logger) biz.StatementRepo {
	topic := ""
	if c.Data != nil && c.Data.Rocketmq != nil {
		topic = c.Data.Rocketmq.Topic
	}
	return &statementRepo{
		data:    data,
		sync:    sync,
		topic:   topic,
		log:     log.NewHelper(logger),
		metrics: metrics.GetMetrics(),
	}
}

// CommitStatement 账单提交（事务）
// 加分布式锁（按计费组+账期）防止并发重复提交；同一 requestUUID 重放时
// 返回最初提交的账单；账单、行项与信用额度回写在同一事务内完成。
func (r *statementRepo) CommitStatement(ctx context.Context, stmt *biz.BillingStatement) (*biz.BillingStatement, error) {
	// 获取分布式锁（按计费组+账期）
	lockKey := fmt.Sprintf("%s%s:%s", constants.RedisKeyStatementLock, stmt.BillingGroupID, stmt.Month)
	if r.sync != nil {
		lockStartTime := time.Now()
		mutex := r.sync.NewMutex(lockKey, redsync.WithExpiry(5*time.Second))
		if err := mutex.Lock(); err != nil {
			r.log.Errorf("Failed to acquire lock for statement commit: billing_group=%s, month=%s, error=%v",
				stmt.BillingGroupID, stmt.Month, err)
			if r.metrics != nil {
				r.metrics.LockAcquireTotal.WithLabelValues(constants.LockResultFailed).Inc()
				r.metrics.LockAcquireDuration.Observe(time.Since(lockStartTime).Seconds())
			}
			return nil, pkgErrors.NewBizErrorWithLang(ctx, stmtErrors.ErrCodeStatementLockFailed)
		}
		if r.metrics != nil {
			r.metrics.LockAcquireTotal.WithLabelValues(constants.LockResultSuccess).Inc()
			r.metrics.LockAcquireDuration.Observe(time.Since(lockStartTime).Seconds())
		}
		defer func() {
			if ok, err := mutex.Unlock(); !ok || err != nil {
				r.log.Warnf("Failed to unlock for statement commit: billing_group=%s, month=%s, error=%v",
					stmt.BillingGroupID, stmt.Month, err)
			}
		}()
	}

	// 幂等检查：先查 Redis 快路径，再查 DB 唯一索引
	if existing, err := r.findByRequestUUID(ctx, stmt.RequestUUID); err != nil {
		return nil, err
	} else if existing != nil {
		if r.metrics != nil {
			r.metrics.CommitTotal.WithLabelValues(constants.CommitResultReplayed).Inc()
		}
		return existing, nil
	}

	err := r.data.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		m, items, err := toStatementModel(stmt)
		if err != nil {
			return err
		}
		if err := tx.Create(m).Error; err != nil {
			return err
		}
		if len(items) > 0 {
			if err := tx.Create(items).Error; err != nil {
				return err
			}
		}

		// 回写被消耗信用额度的 restAmount（带守护条件，永不为负）
		for _, c := range stmt.Consumptions {
			res := tx.Model(&model.Credit{}).
				Where("credit_code = ? AND rest_amount >= ?", c.CreditCode, c.Amount).
				Update("rest_amount", gorm.Expr("rest_amount - ?", c.Amount))
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected != 1 {
				return pkgErrors.NewBizErrorWithLang(ctx, stmtErrors.ErrCodeCreditCommitConflict)
			}
		}
		return nil
	})
	if err != nil {
		r.log.Errorf("CommitStatement failed: request=%s, error=%v", stmt.RequestUUID, err)
		return nil, pkgErrors.WrapErrorWithLang(ctx, err, stmtErrors.ErrCodeStatementSaveFailed)
	}

	// 更新幂等缓存（失败不影响主流程，DB 唯一索引兜底）
	requestKey := fmt.Sprintf("%s%s", constants.RedisKeyStatementRequest, stmt.RequestUUID)
	if err := r.data.rdb.Set(ctx, requestKey, stmt.StatementID, 24*time.Hour).Err(); err != nil {
		r.log.Warnf("failed to update statement request cache: %v", err)
	}

	r.publishStatementEvent(ctx, stmt)

	if r.metrics != nil {
		r.metrics.CommitTotal.WithLabelValues(constants.CommitResultCreated).Inc()
	}
	return stmt, nil
}

// findByRequestUUID 按请求 UUID 查找已提交账单（幂等重放路径）
func (r *statementRepo) findByRequestUUID(ctx context.Context, requestUUID string) (*biz.BillingStatement, error) {
	requestKey := fmt.Sprintf("%s%s", constants.RedisKeyStatementRequest, requestUUID)
	if statementID, err := r.data.rdb.Get(ctx, requestKey).Result(); err == nil && statementID != "" {
		stmt, err := r.GetStatement(ctx, statementID)
		if err == nil {
			return stmt, nil
		}
		// 缓存指向的账单读不到时回落到 DB 查询
	}

	var m model.Statement
	if err := r.data.db.WithContext(ctx).Where("request_uuid = ?", requestUUID).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, pkgErrors.WrapErrorWithLang(ctx, err, stmtErrors.ErrCodeStatementSaveFailed)
	}
	return r.loadStatement(ctx, &m)
}

// GetStatement 查询单个账单
func (r *statementRepo) GetStatement(ctx context.Context, statementID string) (*biz.BillingStatement, error) {
	var m model.Statement
	if err := r.data.db.WithContext(ctx).Where("statement_id = ?", statementID).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgErrors.NewBizErrorWithLang(ctx, stmtErrors.ErrCodeStatementNotFound)
		}
		r.log.Errorf("GetStatement failed: statement_id=%s, error=%v", statementID, err)
		return nil, pkgErrors.WrapErrorWithLang(ctx, err, stmtErrors.ErrCodeStatementListFailed)
	}
	return r.loadStatement(ctx, &m)
}

// ListStatements 查询计费组的账单列表（按创建时间倒序）
func (r *statementRepo) ListStatements(ctx context.Context, billingGroupID string, page, pageSize int) ([]*biz.BillingStatement, int64, error) {
	var total int64
	q := r.data.db.WithContext(ctx).Model(&model.Statement{}).Where("billing_group_id = ?", billingGroupID)
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, pkgErrors.WrapErrorWithLang(ctx, err, stmtErrors.ErrCodeStatementListFailed)
	}

	var ms []model.Statement
	if err := q.Order("created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&ms).Error; err != nil {
		return nil, 0, pkgErrors.WrapErrorWithLang(ctx, err, stmtErrors.ErrCodeStatementListFailed)
	}

	stmts := make([]*biz.BillingStatement, 0, len(ms))
	for i := range ms {
		stmt, err := r.loadStatement(ctx, &ms[i])
		if err != nil {
			return nil, 0, err
		}
		stmts = append(stmts, stmt)
	}
	return stmts, total, nil
}

// loadStatement 补齐行项并转换为领域对象
func (r *statementRepo) loadStatement(ctx context.Context, m *model.Statement) (*biz.BillingStatement, error) {
	var items []model.StatementItem
	if err := r.data.db.WithContext(ctx).
		Where("statement_id = ?", m.StatementID).
		Order("seq ASC").
		Find(&items).Error; err != nil {
		return nil, pkgErrors.WrapErrorWithLang(ctx, err, stmtErrors.ErrCodeStatementListFailed)
	}
	return toStatementBiz(m, items)
}

// publishStatementEvent 发送账单提交事件（尽力而为，失败只记日志）
func (r *statementRepo) publishStatementEvent(ctx context.Context, stmt *biz.BillingStatement) {
	if r.data.mq == nil {
		return
	}
	event := &biz.StatementEvent{
		StatementID:     stmt.StatementID,
		RequestUUID:     stmt.RequestUUID,
		BillingGroupID:  stmt.BillingGroupID,
		Month:           stmt.Month,
		SubtotalAmount:  stmt.SubtotalAmount,
		CreditTotal:     stmt.CreditTotal,
		CarryoverAmount: stmt.CarryoverAmount,
		PayableAmount:   stmt.PayableAmount,
		CommitTime:      time.Now(),
	}
	msgBytes, _ := json.Marshal(event)
	msg := primitive.NewMessage(r.topic, msgBytes)
	if _, err := r.data.mq.SendSync(ctx, msg); err != nil {
		r.log.Errorf("Send statement event failed: statement_id=%s, error=%v", stmt.StatementID, err)
	}
}

// toStatementModel 领域对象 -> gorm 模型
func toStatementModel(stmt *biz.BillingStatement) (*model.Statement, []model.StatementItem, error) {
	adjustments, err := json.Marshal(stmt.Adjustments)
	if err != nil {
		return nil, nil, err
	}
	consumptions, err := json.Marshal(stmt.Consumptions)
	if err != nil {
		return nil, nil, err
	}

	m := &model.Statement{
		StatementID:     stmt.StatementID,
		RequestUUID:     stmt.RequestUUID,
		BillingGroupID:  stmt.BillingGroupID,
		Month:           stmt.Month,
		SubtotalAmount:  stmt.SubtotalAmount,
		AdjustmentTotal: stmt.AdjustmentTotal,
		CreditTotal:     stmt.CreditTotal,
		CarryoverAmount: stmt.CarryoverAmount,
		PayableAmount:   stmt.PayableAmount,
		Adjustments:     string(adjustments),
		Consumptions:    string(consumptions),
	}

	items := make([]model.StatementItem, 0, len(stmt.LineItems))
	for i, li := range stmt.LineItems {
		items = append(items, model.StatementItem{
			StatementItemID: li.ID,
			StatementID:     stmt.StatementID,
			Seq:             i + 1,
			CounterName:     li.CounterName,
			CounterType:     li.CounterType,
			Unit:            li.Unit,
			Quantity:        li.Quantity,
			UnitPrice:       li.UnitPrice,
			Amount:          li.Amount,
			ResourceID:      li.ResourceID,
			ResourceName:    li.ResourceName,
			ProjectID:       li.ProjectID,
			AppKey:          li.AppKey,
		})
	}
	return m, items, nil
}

// toStatementBiz gorm 模型 -> 领域对象
func toStatementBiz(m *model.Statement, items []model.StatementItem) (*biz.BillingStatement, error) {
	var adjustments []*biz.AdjustmentEffect
	if m.Adjustments != "" {
		if err := json.Unmarshal([]byte(m.Adjustments), &adjustments); err != nil {
			return nil, err
		}
	}
	var consumptions []*biz.CreditConsumption
	if m.Consumptions != "" {
		if err := json.Unmarshal([]byte(m.Consumptions), &consumptions); err != nil {
			return nil, err
		}
	}

	lineItems := make([]*biz.LineItem, 0, len(items))
	for i := range items {
		it := &items[i]
		lineItems = append(lineItems, &biz.LineItem{
			ID:           it.StatementItemID,
			CounterName:  it.CounterName,
			CounterType:  it.CounterType,
			Unit:         it.Unit,
			Quantity:     it.Quantity,
			UnitPrice:    it.UnitPrice,
			Amount:       it.Amount,
			ResourceID:   it.ResourceID,
			ResourceName: it.ResourceName,
			ProjectID:    it.ProjectID,
			AppKey:       it.AppKey,
		})
	}

	return &biz.BillingStatement{
		StatementID:     m.StatementID,
		RequestUUID:     m.RequestUUID,
		BillingGroupID:  m.BillingGroupID,
		Month:           m.Month,
		LineItems:       lineItems,
		SubtotalAmount:  m.SubtotalAmount,
		AdjustmentTotal: m.AdjustmentTotal,
		Adjustments:     adjustments,
		CreditTotal:     m.CreditTotal,
		Consumptions:    consumptions,
		CarryoverAmount: m.CarryoverAmount,
		PayableAmount:   m.PayableAmount,
		CreatedAt:       m.CreatedAt,
	}, nil
}
