package data

import (
	"context"
	"time"

	"statement-service/internal/biz"
	stmtErrors "statement-service/internal/errors"

	pkgErrors "github.com/gaoyong06/go-pkg/errors"
	"github.com/go-kratos/kratos/v2/log"

	"statement-service/internal/data/model"
)

// creditRepo 信用额度数据访问
type creditRepo struct {
	data *Data
	log  *log.Helper
}

// NewCreditRepo 创建信用额度 repo（返回 biz.CreditRepo 接口）
func NewCreditRepo(data *Data, logger log.Logger) biz.CreditRepo {
	return &creditRepo{
		data: data,
		log:  log.NewHelper(logger),
	}
}

// ExpireCredits 清零到期日早于 cutoff 且仍有余额的信用额度
func (r *creditRepo) ExpireCredits(ctx context.Context, cutoff time.Time) (int64, error) {
	res := r.data.db.WithContext(ctx).Model(&model.Credit{}).
		Where("expire_date < ? AND rest_amount > 0", cutoff).
		Update("rest_amount", 0)
	if res.Error != nil {
		r.log.Errorf("ExpireCredits failed: cutoff=%s, error=%v", cutoff, res.Error)
		return 0, pkgErrors.WrapErrorWithLang(ctx, res.Error, stmtErrors.ErrCodeCreditExpireFailed)
	}
	return res.RowsAffected, nil
}
