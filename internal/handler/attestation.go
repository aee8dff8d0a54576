package handler

import (
	"context"

	"github.com/cloudwego/hertz/pkg/app"

	"WellCheck/internal/model/dto"
	"WellCheck/internal/service"
	"WellCheck/pkg/response"
)

// ListAttestations 分页查询健康确认记录
// GET /v1/attestations
func ListAttestations(ctx context.Context, c *app.RequestContext) {
	accountID, err := currentAccountID(ctx, c)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	var query dto.ListAttestationsQuery
	if err := c.BindQuery(&query); err != nil {
		response.BindError(ctx, c, err)
		return
	}

	items, total, err := service.Attestations().List(ctx, accountID, query)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.SuccessWithMeta(ctx, c, items, map[string]interface{}{
		"total": total,
	})
}

// UpsertAttestation 手工补录/刷新某接收人当天的记录
// POST /v1/attestations
func UpsertAttestation(ctx context.Context, c *app.RequestContext) {
	accountID, err := currentAccountID(ctx, c)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	var req dto.UpsertAttestationRequest
	if err := c.BindAndValidate(&req); err != nil {
		response.BindError(ctx, c, err)
		return
	}

	result, err := service.Attestations().Upsert(ctx, accountID, req)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, result)
}

// GetAttestation 查询单条记录
// GET /v1/attestations/:attestation_id
func GetAttestation(ctx context.Context, c *app.RequestContext) {
	accountID, err := currentAccountID(ctx, c)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	result, err := service.Attestations().Get(ctx, accountID, c.Param("attestation_id"))
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, result)
}
