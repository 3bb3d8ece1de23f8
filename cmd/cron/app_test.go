package main

import (
	"context"
	"testing"
	"time"

	"statement-service/internal/biz"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCreditRepo struct {
	calls int
}

func (f *fakeCreditRepo) ExpireCredits(_ context.Context, _ time.Time) (int64, error) {
	f.calls++
	return 0, nil
}

// CronApp 必须在非 wireinject 构建下可见（main 与 wire_gen 都引用它）
func TestCronAppSweep(t *testing.T) {
	repo := &fakeCreditRepo{}
	app := &CronApp{
		creditUsecase: biz.NewCreditUseCase(repo, log.DefaultLogger),
	}
	require.NotNil(t, app.creditUsecase)

	_, err := app.creditUsecase.SweepExpired(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, repo.calls)
}
