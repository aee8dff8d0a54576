package sms

import (
	"context"
	"encoding/json"
	"fmt"

	openapi "github.com/alibabacloud-go/darabonba-openapi/v2/client"
	openapiutil "github.com/alibabacloud-go/openapi-util/service"
	util "github.com/alibabacloud-go/tea-utils/v2/service"
	"github.com/alibabacloud-go/tea/tea"
	credential "github.com/aliyun/credentials-go/credentials"
	"go.uber.org/zap"

	"WellCheck/config"
	"WellCheck/pkg/logger"
	"WellCheck/utils"
)

// AliyunClient 通过内容模板发送自由文本，模板参数固定为 {"content": body}
type AliyunClient struct {
	client       *openapi.Client
	signName     string
	templateCode string
}

// NewAliyunClient 创建阿里云 SMS 客户端
// 需要设置环境变量：ALIBABA_CLOUD_ACCESS_KEY_ID 和 ALIBABA_CLOUD_ACCESS_KEY_SECRET
func NewAliyunClient() (*AliyunClient, error) {
	cfg := config.Cfg

	if cfg.SMSSignName == "" {
		return nil, fmt.Errorf("SMS sign name is required")
	}
	if cfg.SMSTemplateCode == "" {
		return nil, fmt.Errorf("SMS template code is required")
	}

	cred, err := credential.NewCredential(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create aliyun credential: %w", err)
	}

	openapiConfig := &openapi.Config{
		Credential: cred,
		Endpoint:   tea.String("dysmsapi.aliyuncs.com"),
	}

	client, err := openapi.NewClient(openapiConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create aliyun client: %w", err)
	}

	return &AliyunClient{
		client:       client,
		signName:     cfg.SMSSignName,
		templateCode: cfg.SMSTemplateCode,
	}, nil
}

func (c *AliyunClient) createApiInfo(action string) *openapi.Params {
	return &openapi.Params{
		Action:      tea.String(action),
		Version:     tea.String("2017-05-25"),
		Protocol:    tea.String("HTTPS"),
		Method:      tea.String("POST"),
		AuthType:    tea.String("AK"),
		Style:       tea.String("RPC"),
		Pathname:    tea.String("/"),
		ReqBodyType: tea.String("json"),
		BodyType:    tea.String("json"),
	}
}

// Send 发送单条短信
func (c *AliyunClient) Send(ctx context.Context, phone, body string) (*SendResponse, error) {
	templateParam, err := json.Marshal(map[string]string{"content": body})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal template param: %w", err)
	}

	params := c.createApiInfo("SendSms")

	queries := map[string]interface{}{
		"PhoneNumbers":  tea.String(phone),
		"SignName":      tea.String(c.signName),
		"TemplateCode":  tea.String(c.templateCode),
		"TemplateParam": tea.String(string(templateParam)),
	}

	logger.Logger.Debug("Sending SMS to Aliyun",
		zap.String("phone", utils.MaskPhone(phone)),
		zap.String("template_code", c.templateCode),
	)

	runtime := &util.RuntimeOptions{}
	request := &openapi.OpenApiRequest{
		Query: openapiutil.Query(queries),
	}

	resp, err := c.client.CallApi(params, request, runtime)
	if err != nil {
		logger.Logger.Error("Failed to send SMS",
			zap.String("phone", utils.MaskPhone(phone)),
			zap.Error(err),
		)
		return nil, fmt.Errorf("failed to send SMS: %w", err)
	}

	if resp["statusCode"] != nil {
		statusCode, err := parseStatusCode(resp["statusCode"])
		if err != nil {
			return nil, err
		}
		if statusCode != 200 {
			logger.Logger.Error("SMS API returned error",
				zap.Int("statusCode", statusCode),
				zap.Any("body", resp["body"]),
			)
			return nil, fmt.Errorf("SMS API error: statusCode=%d", statusCode)
		}
	}

	response := &SendResponse{
		Provider: "aliyun",
	}

	if resp["body"] != nil {
		bodyBytes, err := json.Marshal(resp["body"])
		if err != nil {
			return nil, fmt.Errorf("failed to marshal response body: %w", err)
		}

		var bodyMap map[string]interface{}
		if err := json.Unmarshal(bodyBytes, &bodyMap); err == nil {
			if bizID, ok := bodyMap["BizId"].(string); ok {
				response.MessageID = bizID
			}
			if code, ok := bodyMap["Code"].(string); ok {
				response.Code = code
				response.StatusCode = code
			}
			if msg, ok := bodyMap["Message"].(string); ok {
				response.Message = msg
			}
			if requestID, ok := bodyMap["RequestId"].(string); ok {
				response.RequestID = requestID
			}

			if response.Code != "OK" {
				logger.Logger.Error("SMS gateway rejected message",
					zap.String("code", response.Code),
					zap.String("message", response.Message),
					zap.String("request_id", response.RequestID),
				)
				return response, fmt.Errorf("SMS gateway error: %s (%s)", response.Code, response.Message)
			}
		}
	}

	return response, nil
}

func parseStatusCode(v interface{}) (int, error) {
	switch code := v.(type) {
	case int:
		return code, nil
	case float64:
		return int(code), nil
	default:
		return 0, fmt.Errorf("unexpected status code type %T", v)
	}
}
