package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/baechuer/commerce-api/internal/application/auth"
	"github.com/baechuer/commerce-api/internal/domain"
	"github.com/baechuer/commerce-api/internal/logger"
)

const (
	DefaultExchange = "commerce.events"

	RoutingKeyPasswordReset = "auth.password_reset.requested"

	// How long to wait for the broker's Confirm or Return.
	publishWait = 2 * time.Second
)

// Publisher delivers auth events to a durable topic exchange with publisher
// confirms and mandatory routing. It implements auth.ResetNotifier.
type Publisher struct {
	url      string
	exchange string

	mu sync.Mutex

	conn *amqp.Connection
	ch   *amqp.Channel

	confirmCh <-chan amqp.Confirmation
	returnCh  <-chan amqp.Return
}

func NewPublisher(url, exchange string) (*Publisher, error) {
	if exchange == "" {
		exchange = DefaultExchange
	}
	p := &Publisher{
		url:      url,
		exchange: exchange,
	}
	if err := p.connect(); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.resetConn()
	return nil
}

// passwordResetMessage is the wire format consumed by the mail worker.
type passwordResetMessage struct {
	UserID    int64     `json:"user_id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Token     string    `json:"token"`
	URL       string    `json:"url,omitempty"`
	ExpiresAt time.Time `json:"expires_at"`
}

func newPasswordResetMessage(evt auth.PasswordResetEvent) passwordResetMessage {
	return passwordResetMessage{
		UserID:    evt.UserID,
		Email:     evt.Email,
		Name:      evt.Name,
		Token:     evt.Token,
		URL:       evt.URL,
		ExpiresAt: evt.ExpiresAt.UTC(),
	}
}

func (p *Publisher) PublishPasswordReset(ctx context.Context, evt auth.PasswordResetEvent) error {
	return p.publishJSON(ctx, RoutingKeyPasswordReset, newPasswordResetMessage(evt))
}

// ---- internal ----

func (p *Publisher) connect() error {
	conn, err := amqp.Dial(p.url)
	if err != nil {
		return domain.ErrRabbitUnavailable(fmt.Errorf("dial: %w", err))
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return domain.ErrRabbitUnavailable(fmt.Errorf("channel: %w", err))
	}

	if err := ch.ExchangeDeclare(
		p.exchange,
		"topic",
		true,  // durable
		false, // auto-delete
		false,
		false,
		nil,
	); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return domain.ErrRabbitUnavailable(fmt.Errorf("exchange declare: %w", err))
	}

	if err := ch.Confirm(false); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return domain.ErrRabbitUnavailable(fmt.Errorf("confirm mode: %w", err))
	}

	p.confirmCh = ch.NotifyPublish(make(chan amqp.Confirmation, 1))
	p.returnCh = ch.NotifyReturn(make(chan amqp.Return, 1))

	p.conn = conn
	p.ch = ch
	return nil
}

func (p *Publisher) ensureConnected() error {
	if p.conn != nil && !p.conn.IsClosed() && p.ch != nil {
		return nil
	}
	return p.connect()
}

func (p *Publisher) publishJSON(ctx context.Context, routingKey string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return domain.ErrInternal(fmt.Errorf("marshal payload: %w", err))
	}

	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, publishWait)
		defer cancel()
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.ensureConnected(); err != nil {
		return err
	}

	// Drop stale confirms/returns from an earlier timed-out publish.
drain:
	for {
		select {
		case <-p.confirmCh:
		case <-p.returnCh:
		default:
			break drain
		}
	}

	if err := p.ch.PublishWithContext(
		ctx,
		p.exchange,
		routingKey,
		true,  // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now(),
			Body:         body,
		},
	); err != nil {
		p.resetConn()
		return domain.ErrRabbitUnavailable(fmt.Errorf("publish: %w", err))
	}

	// The broker sends basic.return before basic.ack for unroutable
	// mandatory messages.
	select {
	case ret := <-p.returnCh:
		select {
		case <-p.confirmCh:
		case <-ctx.Done():
		}
		return domain.ErrRabbitUnavailable(fmt.Errorf(
			"unroutable: key=%s code=%d text=%s", routingKey, ret.ReplyCode, ret.ReplyText,
		))

	case conf := <-p.confirmCh:
		if !conf.Ack {
			return domain.ErrRabbitUnavailable(fmt.Errorf("nack: key=%s tag=%d", routingKey, conf.DeliveryTag))
		}
		logger.WithCtx(ctx).Debug().
			Str("routing_key", routingKey).
			Uint64("delivery_tag", conf.DeliveryTag).
			Msg("event published")
		return nil

	case <-ctx.Done():
		return domain.ErrRabbitUnavailable(ctx.Err())
	}
}

func (p *Publisher) resetConn() {
	if p.ch != nil {
		_ = p.ch.Close()
		p.ch = nil
	}
	if p.conn != nil {
		_ = p.conn.Close()
		p.conn = nil
	}
}
