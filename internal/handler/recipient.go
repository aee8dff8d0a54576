package handler

import (
	"context"

	"github.com/cloudwego/hertz/pkg/app"

	"WellCheck/internal/model/dto"
	"WellCheck/internal/service"
	"WellCheck/pkg/response"
)

// ListRecipients 分页查询账户下的接收人
// GET /v1/recipients
func ListRecipients(ctx context.Context, c *app.RequestContext) {
	accountID, err := currentAccountID(ctx, c)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	var query dto.ListRecipientsQuery
	if err := c.BindQuery(&query); err != nil {
		response.BindError(ctx, c, err)
		return
	}

	items, total, err := service.Recipients().List(ctx, accountID, query)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.SuccessWithMeta(ctx, c, items, map[string]interface{}{
		"total": total,
	})
}

// CreateRecipient 创建接收人
// POST /v1/recipients
func CreateRecipient(ctx context.Context, c *app.RequestContext) {
	accountID, err := currentAccountID(ctx, c)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	var req dto.CreateRecipientRequest
	if err := c.BindAndValidate(&req); err != nil {
		response.BindError(ctx, c, err)
		return
	}

	result, err := service.Recipients().Create(ctx, accountID, req)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, result)
}

// GetRecipient 查询单个接收人
// GET /v1/recipients/:recipient_id
func GetRecipient(ctx context.Context, c *app.RequestContext) {
	accountID, err := currentAccountID(ctx, c)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	result, err := service.Recipients().Get(ctx, accountID, c.Param("recipient_id"))
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, result)
}

// UpdateRecipient 更新接收人资料
// PATCH /v1/recipients/:recipient_id
func UpdateRecipient(ctx context.Context, c *app.RequestContext) {
	accountID, err := currentAccountID(ctx, c)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	var req dto.UpdateRecipientRequest
	if err := c.BindAndValidate(&req); err != nil {
		response.BindError(ctx, c, err)
		return
	}

	result, err := service.Recipients().Update(ctx, accountID, c.Param("recipient_id"), req)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, result)
}

// DeleteRecipient 停用接收人（软删除，历史记录保留）
// DELETE /v1/recipients/:recipient_id
func DeleteRecipient(ctx context.Context, c *app.RequestContext) {
	accountID, err := currentAccountID(ctx, c)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	if err := service.Recipients().Delete(ctx, accountID, c.Param("recipient_id")); err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.NoContent(ctx, c)
}
