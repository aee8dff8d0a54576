package handler

import (
	"context"
	"fmt"

	"github.com/cloudwego/hertz/pkg/app"

	"WellCheck/internal/middleware"
	"WellCheck/internal/service"
)

// currentAccountID 从认证上下文解析出账户内部 ID，鉴权路由的公共入口
func currentAccountID(ctx context.Context, c *app.RequestContext) (int64, error) {
	userID, ok := middleware.GetUserID(ctx, c)
	if !ok {
		return 0, fmt.Errorf("user ID not found in context")
	}

	_, accountID, err := service.Auth().ResolveUser(ctx, userID)
	if err != nil {
		return 0, err
	}

	return accountID, nil
}
