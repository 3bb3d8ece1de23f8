package conf

// Bootstrap 服务启动配置（对应 configs/config.yaml）
type Bootstrap struct {
	Server  *Server  `json:"server"`
	Data    *Data    `json:"data"`
	Billing *Billing `json:"billing"`
}

// Server 服务器配置
type Server struct {
	Http *HTTP `json:"http"`
}

// HTTP HTTP 服务器配置
type HTTP struct {
	Network string `json:"network"`
	Addr    string `json:"addr"`
	// Timeout 请求超时时间（秒）
	Timeout int64 `json:"timeout"`
}

// Data 数据层配置
type Data struct {
	Database *Database `json:"database"`
	Redis    *Redis    `json:"redis"`
	Rocketmq *Rocketmq `json:"rocketmq"`
}

// Database 数据库配置
type Database struct {
	Driver string `json:"driver"`
	Source string `json:"source"`
}

// Redis Redis 配置
type Redis struct {
	Addr string `json:"addr"`
	// ReadTimeout / WriteTimeout 读写超时时间（秒）
	ReadTimeout  int64 `json:"read_timeout"`
	WriteTimeout int64 `json:"write_timeout"`
}

// Rocketmq RocketMQ 配置
type Rocketmq struct {
	Enabled     bool     `json:"enabled"`
	NameServers []string `json:"name_servers"`
	Topic       string   `json:"topic"`
	GroupName   string   `json:"group_name"`
	RetryTimes  int32    `json:"retry_times"`
}

// Billing 计费配置
type Billing struct {
	// Prices 单价表：counterType -> counterName -> 单价（最小货币单位）
	Prices map[string]map[string]int64 `json:"prices"`
}
