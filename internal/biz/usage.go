package biz

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
)

// UsageItem 一条计量事实（请求输入，只读）
type UsageItem struct {
	UUID          string
	CounterName   string
	CounterType   string
	CounterUnit   string
	CounterVolume float64
	ResourceID    string
	ResourceName  string
	ProjectID     string
	AppKey        string
}

// roundHalfUp 四舍五入到整数最小货币单位
// 引擎内金额均为非负，decimal.Round 的 half away from zero 在此等价于 half up。
func roundHalfUp(d decimal.Decimal) int64 {
	return d.Round(0).IntPart()
}

// priceUsage 用量聚合：每条用量产出一个行项，保持输入顺序
// 同资源的多条用量不合并，保留审计链路。
func (uc *ChargeUseCase) priceUsage(ctx context.Context, requestUUID string, usage []*UsageItem) ([]*LineItem, error) {
	items := make([]*LineItem, 0, len(usage))
	for i, u := range usage {
		unitPrice, err := uc.prices.Lookup(ctx, u.CounterType, u.CounterName)
		if err != nil {
			return nil, err
		}
		amount := roundHalfUp(decimal.NewFromFloat(u.CounterVolume).Mul(decimal.NewFromInt(unitPrice)))
		items = append(items, &LineItem{
			ID:           fmt.Sprintf("%s-%04d", requestUUID, i+1),
			CounterName:  u.CounterName,
			CounterType:  u.CounterType,
			Unit:         u.CounterUnit,
			Quantity:     u.CounterVolume,
			UnitPrice:    unitPrice,
			Amount:       amount,
			ResourceID:   u.ResourceID,
			ResourceName: u.ResourceName,
			ProjectID:    u.ProjectID,
			AppKey:       u.AppKey,
		})
	}
	return items, nil
}
