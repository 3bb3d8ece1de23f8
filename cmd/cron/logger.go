package main

import (
	"os"

	"github.com/go-kratos/kratos/v2/log"
)

// newLogger 创建 wire 注入用 logger
func newLogger() log.Logger {
	return log.With(log.NewStdLogger(os.Stdout),
		"ts", log.DefaultTimestamp,
		"caller", log.DefaultCaller,
		"service.name", "statement-cron",
	)
}
