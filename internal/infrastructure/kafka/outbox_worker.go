package kafka

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/DRSN-tech/calories-backend/internal/repository/pgdb"
	"github.com/DRSN-tech/calories-backend/internal/usecase"
	"github.com/DRSN-tech/calories-backend/pkg/e"
	"github.com/DRSN-tech/calories-backend/pkg/jitter"
	"github.com/DRSN-tech/calories-backend/pkg/logger"
	"github.com/jackc/pgx/v5"
)

const (
	batchSize        = 10
	requeueInterval  = time.Minute
	staleAfter       = 5 * time.Minute
	listenTimeout    = 30 * time.Second
	reconnectBase    = 2 * time.Second
	reconnectMaxWait = 30 * time.Second
)

type OutboxMetrics interface {
	OutboxPublished()
	OutboxFailed()
}

type OutboxWorker struct {
	repo      usecase.OutboxRepository
	logger    logger.Logger
	producer  usecase.MessageProducer
	metrics   OutboxMetrics
	stop      chan struct{}
	stopOnce  sync.Once
	wg        sync.WaitGroup
	dbConnStr string
}

// NewOutboxWorker создаёт воркер. Пустой dbConnStr отключает LISTEN:
// тогда outbox разбирается только при старте и по таймеру.
func NewOutboxWorker(
	repo usecase.OutboxRepository,
	logger logger.Logger,
	producer usecase.MessageProducer,
	metrics OutboxMetrics,
	dbConnStr string,
) *OutboxWorker {
	return &OutboxWorker{
		repo:      repo,
		logger:    logger,
		producer:  producer,
		metrics:   metrics,
		stop:      make(chan struct{}),
		dbConnStr: dbConnStr,
	}
}

func (w *OutboxWorker) Start(ctx context.Context) {
	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		w.run(ctx)
	}()

	if w.dbConnStr == "" {
		return
	}

	// Запускаем слушатель уведомлений
	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		w.listenOutboxNotifications(ctx)
	}()
}

func (w *OutboxWorker) Stop() {
	w.stopOnce.Do(func() { close(w.stop) })
	w.wg.Wait()
}

func (w *OutboxWorker) run(ctx context.Context) {
	// Обрабатываем "остатки" при старте
	w.logger.Infof("Draining pending outbox events on startup...")
	w.Drain(ctx)

	ticker := time.NewTicker(requeueInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.logger.Infof("Outbox worker stopped by context cancellation")
			return
		case <-w.stop:
			w.logger.Infof("Outbox worker stopped")
			return
		case <-ticker.C:
			w.requeueStale(ctx)
			w.Drain(ctx)
		}
	}
}

// Drain публикует события пачками, пока в outbox есть pending.
func (w *OutboxWorker) Drain(ctx context.Context) {
	for {
		hasMore, err := w.processBatch(ctx)
		if err != nil {
			w.logger.Warnf("outbox batch failed: %v", err)
			return
		}
		if !hasMore {
			return
		}
	}
}

// requeueStale возвращает в pending события, застрявшие в processing после сбоя публикации.
func (w *OutboxWorker) requeueStale(ctx context.Context) {
	n, err := w.repo.RequeueStale(ctx, staleAfter)
	if err != nil {
		w.logger.Warnf("requeue stale outbox events failed: %v", err)
		return
	}
	if n > 0 {
		w.logger.Infof("Requeued %d stale outbox events", n)
	}
}

func (w *OutboxWorker) listenOutboxNotifications(ctx context.Context) {
	var conn *pgx.Conn

	connect := func() error {
		c, err := pgx.Connect(ctx, w.dbConnStr)
		if err != nil {
			return e.Wrap("failed to connect for LISTEN", err)
		}

		if _, err = c.Exec(ctx, "LISTEN "+pgdb.OutboxChannel); err != nil {
			c.Close(ctx)
			return e.Wrap("failed to LISTEN", err)
		}

		conn = c
		w.logger.Infof("Subscribed to '%s' channel", pgdb.OutboxChannel)
		return nil
	}

	// reconnect повторяет подключение с растущей задержкой, пока не получится или не придёт остановка.
	reconnect := func() bool {
		for attempt := 0; ; attempt++ {
			err := connect()
			if err == nil {
				return true
			}
			w.logger.Warnf("LISTEN connect failed: %v", err)

			if err := jitter.Sleep(ctx, jitter.ExponentialBackoff(reconnectBase, reconnectMaxWait, attempt, jitter.DefaultJitter)); err != nil {
				return false
			}
			if w.stopped() {
				return false
			}
		}
	}

	if !reconnect() {
		return
	}
	defer func() { conn.Close(context.Background()) }()

	for {
		if w.stopped() || ctx.Err() != nil {
			return
		}

		waitCtx, cancel := context.WithTimeout(ctx, listenTimeout)
		notif, err := conn.WaitForNotification(waitCtx)
		cancel()

		if err != nil {
			if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
				continue
			}
			w.logger.Warnf("Connection lost: %v. Reconnecting...", err)
			conn.Close(ctx)

			if !reconnect() {
				return
			}
			// Пока соединения не было, уведомления могли потеряться.
			w.Drain(ctx)
			continue
		}

		if notif != nil && notif.Channel == pgdb.OutboxChannel {
			w.logger.Debugf("Received outbox notification, draining outbox events")
			w.Drain(ctx)
		}
	}
}

func (w *OutboxWorker) stopped() bool {
	select {
	case <-w.stop:
		return true
	default:
		return false
	}
}

func (w *OutboxWorker) processBatch(ctx context.Context) (bool, error) {
	events, err := w.repo.GetAndMarkAsProcessing(ctx, batchSize)
	if err != nil {
		return false, err
	}

	if len(events) == 0 {
		return false, nil
	}

	published := 0
	for _, event := range events {
		if err := w.processEvent(ctx, event); err != nil {
			w.metrics.OutboxFailed()
			w.logger.Warnf("publish outbox event %s failed: %v", event.EventID, err)
			continue
		}
		published++
		w.metrics.OutboxPublished()

		if err := w.repo.MarkAsProcessed(ctx, event.ID); err != nil {
			w.logger.Warnf("mark processed failed: %v", err)
		}
	}

	// Если вся пачка упала, Kafka недоступна: не крутимся вхолостую, ждём requeue.
	return published > 0, nil
}

func (w *OutboxWorker) processEvent(ctx context.Context, event *usecase.OutboxEvent) error {
	if err := w.SendBytes(ctx, event.UserID, event.Payload); err != nil {
		if isRetryableError(err) {
			return e.Wrap("Temporary Kafka failure, will retry", err)
		}
		return e.Wrap("Permanent Kafka failure", err)
	}
	return nil
}

func (w *OutboxWorker) SendBytes(ctx context.Context, userID int64, payload []byte) error {
	return w.producer.WriteRawMessage(ctx, usecase.NewWriteRawMessageReq(userID, payload))
}

func isRetryableError(err error) bool {
	if err == nil {
		return false
	}
	errStr := strings.ToLower(err.Error())
	retryablePhrases := []string{
		"connection refused",
		"i/o timeout",
		"network is unreachable",
		"broker not available",
		"connection reset",
		"broken pipe",
		"no such host",
	}
	for _, phrase := range retryablePhrases {
		if strings.Contains(errStr, phrase) {
			return true
		}
	}
	return false
}
