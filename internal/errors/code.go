package errors

import (
	pkgErrors "github.com/gaoyong06/go-pkg/errors"
	i18nPkg "github.com/gaoyong06/go-pkg/middleware/i18n"
)

func init() {
	// 初始化全局错误管理器（使用项目特定的配置）
	pkgErrors.InitGlobalErrorManager("i18n", i18nPkg.Language)
}

// Statement Service 错误码定义
// 错误码格式：SSMMEE (6位数字)
//   SS: 服务标识，Statement 固定为 23
//   MM: 模块标识，按业务划分
//   EE: 模块内错误序号
//
// 模块划分：
//   00: 通用模块（复用 go-pkg 通用错误码）
//   01: 请求模块
//   02: 用量模块
//   03: 调整模块
//   04: 信用额度模块
//   05: 引擎模块
//   06: 账单模块
//   07-99: 预留扩展

// 请求模块错误码 (230100-230199)
const (
	// ErrCodeInvalidRequest 请求顶层字段非法（如 unpaidAmount 为负）
	ErrCodeInvalidRequest = 230101
	// ErrCodeInvalidMonth 账期月份格式非法
	ErrCodeInvalidMonth = 230102
	// ErrCodeInvalidTargetDate 出账日期格式非法
	ErrCodeInvalidTargetDate = 230103
)

// 用量模块错误码 (230200-230299)
const (
	// ErrCodeUnknownCounter 计量项未登记单价
	ErrCodeUnknownCounter = 230201
	// ErrCodeInvalidUsage 用量记录非法（如 counterVolume 为负）
	ErrCodeInvalidUsage = 230202
)

// 调整模块错误码 (230300-230399)
const (
	// ErrCodeInvalidAdjustment 调整规则非法（缺少目标项目、方式未知等）
	ErrCodeInvalidAdjustment = 230301
)

// 信用额度模块错误码 (230400-230499)
const (
	// ErrCodeInvalidCredit 信用额度数据损坏（restAmount > amount）
	ErrCodeInvalidCredit = 230401
	// ErrCodeCreditCommitConflict 信用额度落库时发生并发冲突
	ErrCodeCreditCommitConflict = 230402
	// ErrCodeCreditExpireFailed 过期信用额度清理失败
	ErrCodeCreditExpireFailed = 230403
)

// 引擎模块错误码 (230500-230599)
const (
	// ErrCodeStatementIntegrity 账单一致性检查失败（引擎缺陷，非输入问题）
	ErrCodeStatementIntegrity = 230501
)

// 账单模块错误码 (230600-230699)
const (
	// ErrCodeStatementNotFound 账单不存在
	ErrCodeStatementNotFound = 230601
	// ErrCodeStatementSaveFailed 账单落库失败
	ErrCodeStatementSaveFailed = 230602
	// ErrCodeStatementLockFailed 获取账单提交锁失败
	ErrCodeStatementLockFailed = 230603
	// ErrCodeStatementListFailed 账单列表查询失败
	ErrCodeStatementListFailed = 230604
)
