package server

import (
	"time"

	"statement-service/internal/conf"
	"statement-service/internal/service"

	"github.com/go-kratos/kratos/v2/middleware/recovery"
	"github.com/go-kratos/kratos/v2/transport/http"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewHTTPServer 创建 HTTP 服务器
func NewHTTPServer(c *conf.Bootstrap, billingService *service.BillingService) *http.Server {
	var opts = []http.ServerOption{
		http.Middleware(
			recovery.Recovery(),
		),
	}
	if c.Server != nil && c.Server.Http != nil {
		if c.Server.Http.Network != "" {
			opts = append(opts, http.Network(c.Server.Http.Network))
		}
		if c.Server.Http.Addr != "" {
			opts = append(opts, http.Address(c.Server.Http.Addr))
		}
		if c.Server.Http.Timeout > 0 {
			opts = append(opts, http.Timeout(time.Duration(c.Server.Http.Timeout)*time.Second))
		}
	}
	srv := http.NewServer(opts...)
	srv.Handle("/metrics", promhttp.Handler())
	registerBillingRoutes(srv, billingService)
	return srv
}
