package data

import (
	"fmt"
	"time"

	"statement-service/internal/conf"

	"github.com/apache/rocketmq-client-go/v2"
	"github.com/apache/rocketmq-client-go/v2/primitive"
	"github.com/apache/rocketmq-client-go/v2/producer"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/go-redis/redis/v8"
	"github.com/go-redsync/redsync/v4"
	goredis "github.com/go-redsync/redsync/v4/redis/goredis/v8"
	"github.com/google/wire"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

// ProviderSet is data providers.
var ProviderSet = wire.NewSet(
	NewDB,
	NewRedis,
	NewRedsync,
	NewRocketMQProducer,
	NewData,
	NewStatementRepo,
	NewCreditRepo,
)

// Data 数据层结构体
type Data struct {
	db  *gorm.DB
	rdb *redis.Client
	mq  rocketmq.Producer
}

// NewDB 创建数据库连接
func NewDB(c *conf.Bootstrap) (*gorm.DB, error) {
	if c.Data == nil || c.Data.Database == nil {
		return nil, fmt.Errorf("database config is nil")
	}
	db, err := gorm.Open(mysql.Open(c.Data.Database.Source), &gorm.Config{})
	if err != nil {
		return nil, err
	}
	return db, nil
}

// NewRedis 创建 Redis 连接
func NewRedis(c *conf.Bootstrap) (*redis.Client, error) {
	if c.Data == nil || c.Data.Redis == nil {
		return nil, fmt.Errorf("redis config is nil")
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:         c.Data.Redis.Addr,
		ReadTimeout:  time.Duration(c.Data.Redis.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(c.Data.Redis.WriteTimeout) * time.Second,
	})

	// 测试连接
	if err := rdb.Ping(rdb.Context()).Err(); err != nil {
		return nil, err
	}

	return rdb, nil
}

// NewRedsync 创建分布式锁客户端
func NewRedsync(rdb *redis.Client) *redsync.Redsync {
	return redsync.New(goredis.NewPool(rdb))
}

// NewRocketMQProducer 创建 RocketMQ 生产者
// 未启用或初始化失败时返回 nil，账单提交事件降级为不发送。
func NewRocketMQProducer(c *conf.Bootstrap, logger log.Logger) (rocketmq.Producer, func(), error) {
	helper := log.NewHelper(logger)
	if c.Data == nil || c.Data.Rocketmq == nil || !c.Data.Rocketmq.Enabled {
		return nil, func() {}, nil
	}

	p, err := rocketmq.NewProducer(
		producer.WithNsResolver(primitive.NewPassthroughResolver(c.Data.Rocketmq.NameServers)),
		producer.WithGroupName(c.Data.Rocketmq.GroupName),
		producer.WithRetry(int(c.Data.Rocketmq.RetryTimes)),
	)
	if err != nil {
		helper.Errorf("init rocketmq producer error: %v", err)
		return nil, func() {}, nil
	}
	if err := p.Start(); err != nil {
		helper.Errorf("start rocketmq producer error: %v", err)
		return nil, func() {}, nil
	}

	cleanup := func() {
		if err := p.Shutdown(); err != nil {
			helper.Errorf("failed to shutdown rocketmq producer: %v", err)
		}
	}
	return p, cleanup, nil
}

// NewData 创建数据层实例
func NewData(c *conf.Bootstrap, logger log.Logger, db *gorm.DB, rdb *redis.Client, mq rocketmq.Producer) (*Data, func(), error) {
	cleanup := func() {
		log.NewHelper(logger).Info("closing the data resources")
		sqlDB, err := db.DB()
		if err == nil {
			sqlDB.Close()
		}
		if err := rdb.Close(); err != nil {
			log.NewHelper(logger).Errorf("failed to close redis: %v", err)
		}
	}

	return &Data{
		db:  db,
		rdb: rdb,
		mq:  mq,
	}, cleanup, nil
}
