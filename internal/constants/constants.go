package constants

// 时间格式常量
const (
	// TimeFormatMonth 月份格式 (YYYY-MM)
	TimeFormatMonth = "2006-01"
	// TimeFormatDate 日期格式 (YYYY-MM-DD)
	TimeFormatDate = "2006-01-02"
	// TimeFormatDateTime 日期时间格式 (YYYY-MM-DD HH:MM:SS)
	TimeFormatDateTime = "2006-01-02 15:04:05"
)

// Redis Key 前缀常量
const (
	// RedisKeyStatementRequest 账单请求幂等缓存 key 前缀（request uuid -> statement id）
	RedisKeyStatementRequest = "stmt:req:"
	// RedisKeyStatementLock 账单提交锁 key 前缀
	RedisKeyStatementLock = "stmt:lock:"
)

// 信用额度类型常量
const (
	// CreditTypePromotional 活动赠送额度
	CreditTypePromotional = "PROMOTIONAL"
	// CreditTypeFree 免费额度
	CreditTypeFree = "FREE"
	// CreditTypePaid 付费额度
	CreditTypePaid = "PAID"
)

// 调整类型常量
const (
	// AdjustmentTypeDiscount 折扣
	AdjustmentTypeDiscount = "DISCOUNT"
	// AdjustmentTypeSurcharge 附加费
	AdjustmentTypeSurcharge = "SURCHARGE"
)

// 调整方式常量
const (
	// AdjustmentMethodFixed 固定金额
	AdjustmentMethodFixed = "FIXED"
	// AdjustmentMethodRate 按比例
	AdjustmentMethodRate = "RATE"
)

// 调整范围常量
const (
	// AdjustmentLevelProject 项目级
	AdjustmentLevelProject = "PROJECT"
	// AdjustmentLevelBillingGroup 计费组级
	AdjustmentLevelBillingGroup = "BILLING_GROUP"
)

// 计算结果常量（用于指标）
const (
	// CalcResultSuccess 成功
	CalcResultSuccess = "success"
	// CalcResultRejected 请求被拒绝（校验失败）
	CalcResultRejected = "rejected"
	// CalcResultDefect 引擎自身缺陷（一致性检查失败）
	CalcResultDefect = "defect"
)

// 锁结果常量（用于指标）
const (
	// LockResultSuccess 成功
	LockResultSuccess = "success"
	// LockResultFailed 失败
	LockResultFailed = "failed"
)

// 提交结果常量（用于指标）
const (
	// CommitResultCreated 新建
	CommitResultCreated = "created"
	// CommitResultReplayed 幂等重放（返回已提交账单）
	CommitResultReplayed = "replayed"
	// CommitResultFailed 失败
	CommitResultFailed = "failed"
)
