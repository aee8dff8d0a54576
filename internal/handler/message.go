package handler

import (
	"context"
	"errors"
	"time"

	"github.com/cloudwego/hertz/pkg/app"
	"go.uber.org/zap"

	"WellCheck/internal/model/dto"
	"WellCheck/internal/service"
	"WellCheck/pkg/logger"
	"WellCheck/pkg/response"
	"WellCheck/utils"
)

var errMissingFromPhone = errors.New("missing From field")

// HandleInboundReply 短信网关的入站回调。
// 对网关始终返回 200 + 回复文案，内部错误不往外抛，避免网关重试风暴
// POST /v1/messages/reply
func HandleInboundReply(ctx context.Context, c *app.RequestContext) {
	var req dto.InboundReplyRequest
	if err := c.Bind(&req); err != nil {
		response.BindError(ctx, c, err)
		return
	}

	if req.FromPhone == "" {
		response.BindError(ctx, c, errMissingFromPhone)
		return
	}

	reply, err := service.Reply().HandleInbound(ctx, req.FromPhone, req.BodyText, time.Now())
	if err != nil {
		logger.Logger.Error("Failed to handle inbound reply",
			zap.String("from_phone", utils.MaskPhone(req.FromPhone)),
			zap.Error(err),
		)
		reply = service.ReplyToUnknown
	}

	response.Success(ctx, c, dto.InboundReplyResponse{Reply: reply})
}
