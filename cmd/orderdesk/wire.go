package main

import (
	"go.uber.org/zap"

	"github.com/mmeshcher/orderdesk/internal/catalog"
	"github.com/mmeshcher/orderdesk/internal/config"
	"github.com/mmeshcher/orderdesk/internal/events"
	"github.com/mmeshcher/orderdesk/internal/notify"
	"github.com/mmeshcher/orderdesk/internal/payment"
	"github.com/mmeshcher/orderdesk/internal/repository"
	"github.com/mmeshcher/orderdesk/internal/service"
)

// openStore выбирает хранилище записей: Postgres, если задан DATABASE_URI,
// память для DATA_DIR=memory, иначе каталог с JSON-файлами.
func openStore(cfg *config.Config, logger *zap.Logger) (repository.Backend, func(), error) {
	switch {
	case cfg.DatabaseURI != "":
		pg, err := repository.NewPostgresStore(cfg.DatabaseURI)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("using postgres record store")
		return pg, func() { _ = pg.Close() }, nil
	case cfg.DataDir == config.MemoryStore:
		logger.Warn("using in-memory record store, data is lost on restart")
		return repository.NewMemoryStore(), func() {}, nil
	default:
		fs, err := repository.NewFileStore(cfg.DataDir)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("using file record store", zap.String("dir", cfg.DataDir))
		return fs, func() {}, nil
	}
}

func loadMenu(cfg *config.Config) (*catalog.Catalog, error) {
	if cfg.MenuFile != "" {
		return catalog.LoadFile(cfg.MenuFile)
	}
	return catalog.Default()
}

func newPaymentGateway(cfg *config.Config, logger *zap.Logger) service.PaymentGateway {
	if cfg.StripeSecretKey == "" {
		logger.Warn("STRIPE_SECRET_KEY is not set, checkout will fail")
	}
	return payment.NewStripeClient(cfg.StripeAPIURL, cfg.StripeSecretKey)
}

func newNotifier(cfg *config.Config, logger *zap.Logger) service.Notifier {
	if cfg.SendGridAPIKey == "" {
		logger.Warn("SENDGRID_API_KEY is not set, receipts are written to the log")
		return notify.NewLogNotifier(logger)
	}
	return notify.NewSendGridClient(cfg.SendGridAPIKey, cfg.SendGridHost, cfg.MailFrom, logger)
}

// newPublisher подключается к RabbitMQ, если задан AMQP_URL. Без брокера
// или при ошибке подключения события пишутся в лог.
func newPublisher(cfg *config.Config, logger *zap.Logger) (events.Publisher, func()) {
	logPublisher := events.NewLogPublisher(logger)
	if cfg.AMQPURL == "" {
		return logPublisher, func() {}
	}

	rabbit, err := events.NewRabbitPublisher(cfg.AMQPURL, cfg.EventsQueue)
	if err != nil {
		logger.Error("rabbitmq unavailable, events are written to the log", zap.Error(err))
		return logPublisher, func() {}
	}
	return events.WithFallback(rabbit, logPublisher, logger), func() { _ = rabbit.Close() }
}
