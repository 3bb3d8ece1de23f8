package biz

import (
	"context"
	"sort"
	"time"

	"statement-service/internal/constants"
	"statement-service/internal/metrics"

	"github.com/go-kratos/kratos/v2/log"
)

// CreditItem 一条信用额度授予记录
// RestAmount 是计算过程中唯一会变化的字段，且只在单次请求的工作副本上变化，
// 引擎不回写共享的信用额度存储（落库由 data 层在提交时完成）。
type CreditItem struct {
	CreditCode string
	Type       string // PROMOTIONAL/FREE/PAID
	CampaignID string
	Name       string
	Amount     int64
	RestAmount int64
	ExpireDate time.Time
}

// CreditConsumption 一条信用额度抵扣明细
type CreditConsumption struct {
	CreditCode string
	Type       string
	Amount     int64
}

// creditTypeRank 信用额度类型的消耗优先级（小者先消耗）
// 到期日相同时先消耗流通性最差的类型：活动赠送 > 免费 > 付费。
func creditTypeRank(creditType string) int {
	switch creditType {
	case constants.CreditTypePromotional:
		return 0
	case constants.CreditTypeFree:
		return 1
	case constants.CreditTypePaid:
		return 2
	default:
		return 3
	}
}

// CreditLess 信用额度消耗顺序比较器
// 策略表：到期日升序（先用快到期的，减少浪费），同日按类型优先级，
// 再按 creditCode 升序兜底，保证输入乱序时结果一致。
func CreditLess(a, b *CreditItem) bool {
	if !a.ExpireDate.Equal(b.ExpireDate) {
		return a.ExpireDate.Before(b.ExpireDate)
	}
	if ra, rb := creditTypeRank(a.Type), creditTypeRank(b.Type); ra != rb {
		return ra < rb
	}
	return a.CreditCode < b.CreditCode
}

// creditExpired 判断信用额度在出账日是否已过期（到期日当天仍可用）
func creditExpired(c *CreditItem, targetDate time.Time) bool {
	return c.ExpireDate.Before(targetDate)
}

// consumeCredits 信用额度消耗阶段
// 在调整后的应付金额上按策略顺序抵扣，单条消耗不超过 restAmount，
// 总消耗不超过应付金额（不产生负账单，也不退现）。
// 只在克隆出的工作副本上扣减，调用方传入的 credits 原样保留。
func consumeCredits(credits []*CreditItem, targetDate time.Time, payable int64) ([]*CreditConsumption, int64, int64) {
	eligible := make([]*CreditItem, 0, len(credits))
	for _, c := range credits {
		if c.RestAmount <= 0 || creditExpired(c, targetDate) {
			continue
		}
		clone := *c
		eligible = append(eligible, &clone)
	}
	sort.SliceStable(eligible, func(i, j int) bool {
		return CreditLess(eligible[i], eligible[j])
	})

	consumptions := make([]*CreditConsumption, 0, len(eligible))
	remaining := payable
	var consumed int64
	for _, c := range eligible {
		if remaining == 0 {
			break
		}
		take := c.RestAmount
		if take > remaining {
			take = remaining
		}
		c.RestAmount -= take
		remaining -= take
		consumed += take
		consumptions = append(consumptions, &CreditConsumption{
			CreditCode: c.CreditCode,
			Type:       c.Type,
			Amount:     take,
		})
	}
	return consumptions, consumed, remaining
}

// CreditRepo 信用额度数据层接口（定义在 biz 层）
type CreditRepo interface {
	// ExpireCredits 清零到期日早于 cutoff 且仍有余额的信用额度，返回条数
	ExpireCredits(ctx context.Context, cutoff time.Time) (int64, error)
}

// CreditUseCase 信用额度业务逻辑（周期性维护）
type CreditUseCase struct {
	repo    CreditRepo
	log     *log.Helper
	metrics *metrics.StatementMetrics
}

// NewCreditUseCase 创建信用额度 UseCase
func NewCreditUseCase(repo CreditRepo, logger log.Logger) *CreditUseCase {
	return &CreditUseCase{
		repo:    repo,
		log:     log.NewHelper(logger),
		metrics: metrics.GetMetrics(),
	}
}

// SweepExpired 清理已过期的信用额度（每月1日执行）
// 清零上月底前到期且仍有余额的记录，之后的出账请求不会再读到它们。
func (uc *CreditUseCase) SweepExpired(ctx context.Context) (int64, error) {
	now := time.Now()
	cutoff := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)

	count, err := uc.repo.ExpireCredits(ctx, cutoff)
	if err != nil {
		return 0, err
	}

	if uc.metrics != nil {
		uc.metrics.CreditExpiredTotal.Add(float64(count))
	}
	uc.log.Infof("Expired credit sweep completed: cutoff=%s, count=%d",
		cutoff.Format(constants.TimeFormatDate), count)
	return count, nil
}
