package mq

import (
	"context"
	"fmt"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"

	"WellCheck/config"
)

var (
	conn   *amqp.Connection
	once   sync.Once
	initErr error
)

// 通知任务的交换机和队列拓扑，worker 消费这两个队列
const (
	NotifyExchange    = "notify.direct"
	AdminAlertQueue   = "notify.admin_alert"
	DailySummaryQueue = "notify.daily_summary"
)

func Init() error {
	once.Do(func() {
		url := config.Cfg.GetRabbitMQURL()
		conn, initErr = amqp.Dial(url)
		if initErr != nil {
			return
		}

		ch, err := conn.Channel()
		if err != nil {
			initErr = err
			return
		}
		defer ch.Close()

		initErr = declareTopology(ch)
	})

	return initErr
}

// declareTopology 声明交换机和队列，幂等
func declareTopology(ch *amqp.Channel) error {
	if err := ch.ExchangeDeclare(
		NotifyExchange,
		"direct",
		true,  // durable
		false, // auto-delete
		false, // internal
		false, // no-wait
		nil,
	); err != nil {
		return fmt.Errorf("failed to declare exchange: %w", err)
	}

	for _, queue := range []string{AdminAlertQueue, DailySummaryQueue} {
		if _, err := ch.QueueDeclare(
			queue,
			true,  // durable
			false, // auto-delete
			false, // exclusive
			false, // no-wait
			nil,
		); err != nil {
			return fmt.Errorf("failed to declare queue %s: %w", queue, err)
		}

		// routing key 与队列名一致
		if err := ch.QueueBind(queue, queue, NotifyExchange, false, nil); err != nil {
			return fmt.Errorf("failed to bind queue %s: %w", queue, err)
		}
	}

	return nil
}

func Connection() *amqp.Connection {
	return conn
}

func Close(ctx context.Context) error {
	if conn == nil {
		return nil
	}

	done := make(chan error, 1)
	go func() {
		done <- conn.Close()
	}()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case err := <-done:
		return err
	}
}
