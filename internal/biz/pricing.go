package biz

import (
	"context"
	"fmt"

	"statement-service/internal/conf"
	stmtErrors "statement-service/internal/errors"

	pkgErrors "github.com/gaoyong06/go-pkg/errors"
)

// PriceTable 单价表
// 进程启动时从配置加载一次，引擎只读（定价数据归属于外部协作方）。
type PriceTable struct {
	// counterType -> counterName -> 单价（最小货币单位）
	prices map[string]map[string]int64
}

// NewPriceTable 从配置创建单价表
func NewPriceTable(c *conf.Bootstrap) *PriceTable {
	t := &PriceTable{
		prices: make(map[string]map[string]int64),
	}
	if c.Billing == nil {
		return t
	}
	for counterType, names := range c.Billing.Prices {
		m := make(map[string]int64, len(names))
		for name, price := range names {
			m[name] = price
		}
		t.prices[counterType] = m
	}
	return t
}

// Lookup 解析计量项单价
// 未登记的计量项返回 ErrCodeUnknownCounter。
func (t *PriceTable) Lookup(ctx context.Context, counterType, counterName string) (int64, error) {
	names, ok := t.prices[counterType]
	if !ok {
		return 0, pkgErrors.WrapErrorWithLang(ctx,
			fmt.Errorf("no price registered for counter type %q", counterType),
			stmtErrors.ErrCodeUnknownCounter)
	}
	price, ok := names[counterName]
	if !ok {
		return 0, pkgErrors.WrapErrorWithLang(ctx,
			fmt.Errorf("no price registered for counter %q/%q", counterType, counterName),
			stmtErrors.ErrCodeUnknownCounter)
	}
	return price, nil
}

// All 返回单价表的拷贝（用于对外查询接口）
func (t *PriceTable) All() map[string]map[string]int64 {
	out := make(map[string]map[string]int64, len(t.prices))
	for counterType, names := range t.prices {
		m := make(map[string]int64, len(names))
		for name, price := range names {
			m[name] = price
		}
		out[counterType] = m
	}
	return out
}
