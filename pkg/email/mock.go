package email

import (
	"context"
	"errors"
	"sync"
)

type MockMessage struct {
	ToName  string
	ToEmail string
	Subject string
	Body    string
}

// MockClient 可配置的邮件客户端 mock，实现 Client 接口
type MockClient struct {
	mu       sync.Mutex
	Messages []MockMessage

	FailNext bool
}

func NewMockClient() *MockClient {
	return &MockClient{
		Messages: make([]MockMessage, 0),
	}
}

func (m *MockClient) Send(ctx context.Context, toName, toEmail, subject, plainBody string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Messages = append(m.Messages, MockMessage{
		ToName:  toName,
		ToEmail: toEmail,
		Subject: subject,
		Body:    plainBody,
	})

	if m.FailNext {
		m.FailNext = false
		return errors.New("mock email send failure")
	}

	return nil
}
