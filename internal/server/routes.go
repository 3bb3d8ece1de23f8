package server

import (
	"context"

	v1 "statement-service/api/billing/v1"
	"statement-service/internal/service"

	"github.com/go-kratos/kratos/v2/transport/http"
)

// API 为手写 JSON 契约（mock 后端的对外边界是 HTTP/JSON），
// 路由注册沿用 kratos HTTP transport 的 Bind/Middleware/Result 约定。

func registerBillingRoutes(s *http.Server, svc *service.BillingService) {
	r := s.Route("/")
	r.POST("/v1/statements/preview", previewStatementHandler(svc))
	r.POST("/v1/statements", commitStatementHandler(svc))
	r.GET("/v1/statements/{statement_id}", getStatementHandler(svc))
	r.GET("/v1/billing-groups/{billing_group_id}/statements", listStatementsHandler(svc))
	r.GET("/v1/prices", getPricesHandler(svc))
}

func previewStatementHandler(svc *service.BillingService) http.HandlerFunc {
	return func(ctx http.Context) error {
		var in v1.CalculateStatementRequest
		if err := ctx.Bind(&in); err != nil {
			return err
		}
		http.SetOperation(ctx, "/billing.v1.BillingService/PreviewStatement")
		h := ctx.Middleware(func(c context.Context, req interface{}) (interface{}, error) {
			return svc.PreviewStatement(c, req.(*v1.CalculateStatementRequest))
		})
		out, err := h(ctx, &in)
		if err != nil {
			return err
		}
		return ctx.Result(200, out.(*v1.StatementReply))
	}
}

func commitStatementHandler(svc *service.BillingService) http.HandlerFunc {
	return func(ctx http.Context) error {
		var in v1.CalculateStatementRequest
		if err := ctx.Bind(&in); err != nil {
			return err
		}
		http.SetOperation(ctx, "/billing.v1.BillingService/CommitStatement")
		h := ctx.Middleware(func(c context.Context, req interface{}) (interface{}, error) {
			return svc.CommitStatement(c, req.(*v1.CalculateStatementRequest))
		})
		out, err := h(ctx, &in)
		if err != nil {
			return err
		}
		return ctx.Result(200, out.(*v1.StatementReply))
	}
}

func getStatementHandler(svc *service.BillingService) http.HandlerFunc {
	return func(ctx http.Context) error {
		var in v1.GetStatementRequest
		if err := ctx.BindVars(&in); err != nil {
			return err
		}
		http.SetOperation(ctx, "/billing.v1.BillingService/GetStatement")
		h := ctx.Middleware(func(c context.Context, req interface{}) (interface{}, error) {
			return svc.GetStatement(c, req.(*v1.GetStatementRequest))
		})
		out, err := h(ctx, &in)
		if err != nil {
			return err
		}
		return ctx.Result(200, out.(*v1.StatementReply))
	}
}

func listStatementsHandler(svc *service.BillingService) http.HandlerFunc {
	return func(ctx http.Context) error {
		var in v1.ListStatementsRequest
		if err := ctx.BindQuery(&in); err != nil {
			return err
		}
		if err := ctx.BindVars(&in); err != nil {
			return err
		}
		http.SetOperation(ctx, "/billing.v1.BillingService/ListStatements")
		h := ctx.Middleware(func(c context.Context, req interface{}) (interface{}, error) {
			return svc.ListStatements(c, req.(*v1.ListStatementsRequest))
		})
		out, err := h(ctx, &in)
		if err != nil {
			return err
		}
		return ctx.Result(200, out.(*v1.ListStatementsReply))
	}
}

func getPricesHandler(svc *service.BillingService) http.HandlerFunc {
	return func(ctx http.Context) error {
		http.SetOperation(ctx, "/billing.v1.BillingService/GetPrices")
		h := ctx.Middleware(func(c context.Context, _ interface{}) (interface{}, error) {
			return svc.GetPrices(c)
		})
		out, err := h(ctx, nil)
		if err != nil {
			return err
		}
		return ctx.Result(200, out.(*v1.GetPricesReply))
	}
}
