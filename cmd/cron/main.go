package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"statement-service/internal/conf"

	"github.com/gaoyong06/go-pkg/logger"
	"github.com/go-kratos/kratos/v2/config"
	"github.com/go-kratos/kratos/v2/config/file"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/robfig/cron/v3"
	_ "go.uber.org/automaxprocs"
)

var (
	flagconf string
)

func init() {
	flag.StringVar(&flagconf, "conf", "../../configs/config.yaml", "config path, eg: -conf config.yaml")
}

func main() {
	flag.Parse()

	// 初始化配置
	c := config.New(
		config.WithSource(
			file.NewSource(flagconf),
		),
	)
	defer c.Close()

	if err := c.Load(); err != nil {
		panic(err)
	}

	var bc conf.Bootstrap
	if err := c.Scan(&bc); err != nil {
		panic(err)
	}

	// 初始化日志 (使用 go-pkg/logger)
	logConfig := &logger.Config{
		Level:         "info",
		Format:        "json",
		Output:        "stdout",
		FilePath:      "logs/statement-cron.log",
		MaxSize:       100,
		MaxAge:        30,
		MaxBackups:    10,
		Compress:      true,
		EnableConsole: true,
	}

	loggerInstance := logger.NewLogger(logConfig)

	// 添加基本字段
	loggerInstance = log.With(loggerInstance,
		"ts", log.DefaultTimestamp,
		"caller", log.DefaultCaller,
		"service.name", "statement-cron",
	)

	logHelper := log.NewHelper(loggerInstance)

	// 初始化应用
	app, cleanup, err := wireApp(&bc)
	if err != nil {
		panic(err)
	}
	defer cleanup()

	// 创建定时任务调度器（支持秒级调度）
	cronScheduler := cron.New(cron.WithSeconds())

	// 过期额度清零 - 每月1日 00:00 执行
	_, err = cronScheduler.AddFunc("0 0 0 1 * *", func() {
		logHelper.Info("[CRON] Starting expired credit sweep...")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
		defer cancel()

		count, err := app.creditUsecase.SweepExpired(ctx)
		if err != nil {
			logHelper.Errorf("[CRON] Error sweeping expired credits: %v", err)
		} else {
			logHelper.Infof("[CRON] Expired credit sweep completed: count=%d", count)
			logHelper.Info("[CRON] Finished expired credit sweep")
		}
	})
	if err != nil {
		logHelper.Errorf("Failed to add expired credit sweep job: %v", err)
	}

	// 启动定时任务
	cronScheduler.Start()
	logHelper.Info("========================================")
	logHelper.Info("Cron jobs started successfully")
	logHelper.Info("Scheduled jobs:")
	logHelper.Info("  - Expired credit sweep: Every month on the 1st at 00:00")
	logHelper.Info("========================================")

	// 优雅退出
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logHelper.Info("Shutting down gracefully...")

	// 停止定时任务
	ctx := cronScheduler.Stop()
	select {
	case <-ctx.Done():
		logHelper.Info("Cron jobs stopped gracefully")
	case <-time.After(5 * time.Second):
		logHelper.Info("Cron jobs forced to stop after timeout")
	}
}
