package router

import (
	"github.com/cloudwego/hertz/pkg/app/server"

	"WellCheck/internal/handler"
	"WellCheck/internal/middleware"
)

func Register(h *server.Hertz) {

	h.Use(middleware.RecoverMiddleware())
	h.Use(middleware.CORSMiddleware())
	h.Use(middleware.OpenTelemetryMiddleware())

	v1 := h.Group("/v1")

	// 认证相关路由
	auth := v1.Group("/auth")
	auth.Use(middleware.AuthRateLimitMiddleware()) // 认证接口限流
	{
		auth.POST("/login", handler.Login)
		auth.POST("/token/refresh", handler.RefreshToken)
	}

	// 入站短信回调，网关侧调用，不走 JWT
	messages := v1.Group("/messages")
	messages.Use(middleware.WebhookRateLimitMiddleware())
	{
		messages.POST("/reply", handler.HandleInboundReply)
	}

	// 账户设置路由
	accounts := v1.Group("/accounts")
	accounts.Use(middleware.AuthMiddleware())
	{
		accounts.GET("/me", handler.GetMyAccount)
		accounts.PATCH("/me", handler.UpdateMyAccount)
	}

	// 接收人路由
	recipients := v1.Group("/recipients")
	recipients.Use(middleware.AuthMiddleware())
	{
		recipients.GET("", handler.ListRecipients)
		recipients.POST("", handler.CreateRecipient)
		recipients.GET("/:recipient_id", handler.GetRecipient)
		recipients.PATCH("/:recipient_id", handler.UpdateRecipient)
		recipients.DELETE("/:recipient_id", handler.DeleteRecipient)
	}

	// 健康确认记录路由
	attestations := v1.Group("/attestations")
	attestations.Use(middleware.AuthMiddleware())
	{
		attestations.GET("", handler.ListAttestations)
		attestations.POST("", handler.UpsertAttestation)
		attestations.GET("/:attestation_id", handler.GetAttestation)
	}
}
