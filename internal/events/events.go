// Package events публикует доменные события: отброшенные позиции корзины,
// оплаченные заказы и неотправленные чеки.
package events

import (
	"context"

	"go.uber.org/zap"

	"github.com/mmeshcher/orderdesk/internal/model"
)

// Publisher публикует событие.
type Publisher interface {
	Publish(ctx context.Context, e model.Event) error
}

// LogPublisher пишет события в лог.
type LogPublisher struct {
	logger *zap.Logger
}

// NewLogPublisher создаёт LogPublisher.
func NewLogPublisher(logger *zap.Logger) *LogPublisher {
	return &LogPublisher{logger: logger}
}

// Publish пишет событие в лог на уровне Info.
func (p *LogPublisher) Publish(ctx context.Context, e model.Event) error {
	fields := make([]zap.Field, 0, len(e.Attributes)+3)
	fields = append(fields,
		zap.String("kind", e.Kind),
		zap.String("subject", e.Subject),
		zap.Time("occurredAt", e.OccurredAt),
	)
	for k, v := range e.Attributes {
		fields = append(fields, zap.String(k, v))
	}
	p.logger.Info("event", fields...)
	return nil
}

// WithFallback возвращает Publisher, который при ошибке основного
// публикатора пишет событие в fallback. Ошибка основного публикатора
// логируется и не возвращается.
func WithFallback(primary, fallback Publisher, logger *zap.Logger) Publisher {
	return &fallbackPublisher{primary: primary, fallback: fallback, logger: logger}
}

type fallbackPublisher struct {
	primary  Publisher
	fallback Publisher
	logger   *zap.Logger
}

func (p *fallbackPublisher) Publish(ctx context.Context, e model.Event) error {
	err := p.primary.Publish(ctx, e)
	if err == nil {
		return nil
	}
	p.logger.Warn("publish event failed, using fallback",
		zap.String("kind", e.Kind),
		zap.Error(err),
	)
	return p.fallback.Publish(ctx, e)
}
