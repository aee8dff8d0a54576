package handler

import (
	"context"

	"github.com/cloudwego/hertz/pkg/app"

	"WellCheck/internal/model/dto"
	"WellCheck/internal/service"
	"WellCheck/pkg/response"
)

// GetMyAccount 查询当前用户所属账户
// GET /v1/accounts/me
func GetMyAccount(ctx context.Context, c *app.RequestContext) {
	accountID, err := currentAccountID(ctx, c)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	result, err := service.Accounts().GetAccount(ctx, accountID)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, result)
}

// UpdateMyAccount 更新账户设置（名称、发送时点、启停）
// PATCH /v1/accounts/me
func UpdateMyAccount(ctx context.Context, c *app.RequestContext) {
	accountID, err := currentAccountID(ctx, c)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	var req dto.UpdateAccountRequest
	if err := c.BindAndValidate(&req); err != nil {
		response.BindError(ctx, c, err)
		return
	}

	result, err := service.Accounts().UpdateAccount(ctx, accountID, req)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, result)
}
