package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// StatementMetrics 出账服务指标
type StatementMetrics struct {
	// 计算相关指标
	CalcTotal    *prometheus.CounterVec // 出账计算总数（按结果）
	CalcDuration prometheus.Histogram   // 出账计算耗时
	LineItems    prometheus.Histogram   // 单次账单行项数量

	// 调整相关指标
	AdjustmentApplied *prometheus.CounterVec // 调整应用总数（按范围、类型）
	AdjustmentAmount  *prometheus.CounterVec // 调整金额（按范围、类型）

	// 信用额度相关指标
	CreditConsumedTotal  *prometheus.CounterVec // 信用额度消耗次数（按类型）
	CreditConsumedAmount *prometheus.CounterVec // 信用额度消耗金额（按类型）
	CreditExpiredTotal   prometheus.Counter     // 过期清理的信用额度条数

	// 一致性检查指标
	IntegrityFailureTotal prometheus.Counter // 一致性检查失败总数（引擎缺陷）

	// 提交相关指标
	CommitTotal    *prometheus.CounterVec // 账单提交总数（按结果）
	CommitDuration prometheus.Histogram   // 账单提交耗时

	// 分布式锁相关指标
	LockAcquireTotal    *prometheus.CounterVec // 锁获取总数（按结果）
	LockAcquireDuration prometheus.Histogram   // 锁获取耗时
}

// NewStatementMetrics 创建出账服务指标
func NewStatementMetrics() *StatementMetrics {
	return &StatementMetrics{
		// 计算指标
		CalcTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "statement_calc_total",
				Help: "Total number of statement calculations",
			},
			[]string{"result"}, // result: success/rejected/defect
		),
		CalcDuration: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "statement_calc_duration_seconds",
				Help:    "Duration of statement calculations",
				Buckets: prometheus.DefBuckets,
			},
		),
		LineItems: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "statement_line_items",
				Help:    "Number of line items per statement",
				Buckets: []float64{1, 5, 10, 25, 50, 100, 250, 500},
			},
		),

		// 调整指标
		AdjustmentApplied: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "statement_adjustment_applied_total",
				Help: "Total number of adjustments applied",
			},
			[]string{"level", "type"}, // level: PROJECT/BILLING_GROUP, type: DISCOUNT/SURCHARGE
		),
		AdjustmentAmount: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "statement_adjustment_amount_total",
				Help: "Total adjustment amount in minor units",
			},
			[]string{"level", "type"},
		),

		// 信用额度指标
		CreditConsumedTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "statement_credit_consumed_total",
				Help: "Total number of credit consumptions",
			},
			[]string{"type"}, // type: PROMOTIONAL/FREE/PAID
		),
		CreditConsumedAmount: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "statement_credit_consumed_amount_total",
				Help: "Total credit amount consumed in minor units",
			},
			[]string{"type"},
		),
		CreditExpiredTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "statement_credit_expired_total",
				Help: "Total number of credits zeroed by the expiry sweep",
			},
		),

		// 一致性检查指标
		IntegrityFailureTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "statement_integrity_failure_total",
				Help: "Total number of statement integrity check failures",
			},
		),

		// 提交指标
		CommitTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "statement_commit_total",
				Help: "Total number of statement commits",
			},
			[]string{"result"}, // result: created/replayed/failed
		),
		CommitDuration: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "statement_commit_duration_seconds",
				Help:    "Duration of statement commits",
				Buckets: prometheus.DefBuckets,
			},
		),

		// 分布式锁指标
		LockAcquireTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "statement_lock_acquire_total",
				Help: "Total number of lock acquisition attempts",
			},
			[]string{"result"}, // result: success/failed
		),
		LockAcquireDuration: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "statement_lock_acquire_duration_seconds",
				Help:    "Duration of lock acquisition",
				Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0}, // 毫秒级
			},
		),
	}
}

// 全局指标实例
var defaultMetrics *StatementMetrics

// InitMetrics 初始化全局指标
func InitMetrics() {
	defaultMetrics = NewStatementMetrics()
}

// GetMetrics 获取全局指标实例
func GetMetrics() *StatementMetrics {
	if defaultMetrics == nil {
		InitMetrics()
	}
	return defaultMetrics
}
