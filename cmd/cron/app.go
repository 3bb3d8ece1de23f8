package main

import (
	"statement-service/internal/biz"
)

// CronApp Cron 应用结构
type CronApp struct {
	creditUsecase *biz.CreditUseCase
}
