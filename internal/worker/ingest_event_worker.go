package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"

	"docuquery/internal/model"
	"docuquery/internal/progress"
	"docuquery/internal/repository"
)

// IngestEventWorker drains the progress queue and persists each update as an
// IngestEvent row, giving the upload UI a pollable per-file trail.
type IngestEventWorker struct {
	conn      *amqp.Connection
	repo      *repository.IngestEventRepository
	queueName string

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewIngestEventWorker(conn *amqp.Connection, repo *repository.IngestEventRepository, queueName string) *IngestEventWorker {
	return &IngestEventWorker{
		conn:      conn,
		repo:      repo,
		queueName: queueName,
	}
}

func (w *IngestEventWorker) Start(ctx context.Context) error {
	if w.cancel != nil {
		return nil
	}

	workerCtx, cancel := context.WithCancel(ctx)
	w.cancel = cancel

	ch, err := w.conn.Channel()
	if err != nil {
		cancel()
		return fmt.Errorf("open worker channel failed: %w", err)
	}

	_, err = ch.QueueDeclare(
		w.queueName,
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		_ = ch.Close()
		cancel()
		return fmt.Errorf("declare worker queue failed: %w", err)
	}

	deliveries, err := ch.Consume(
		w.queueName,
		"",
		false,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		_ = ch.Close()
		cancel()
		return fmt.Errorf("consume queue failed: %w", err)
	}

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		defer ch.Close()

		for {
			select {
			case <-workerCtx.Done():
				return
			case d, ok := <-deliveries:
				if !ok {
					return
				}

				var u progress.Update
				if err := json.Unmarshal(d.Body, &u); err != nil {
					log.Printf("worker decode progress update failed: %v", err)
					_ = d.Nack(false, false)
					continue
				}

				event := model.IngestEvent{
					FileName:     u.FileName,
					Stage:        u.Stage,
					Progress:     u.Progress,
					Message:      u.Message,
					IsProcessing: u.IsProcessing,
				}
				if err := w.repo.Create(&event); err != nil {
					log.Printf("worker persist ingest event failed: %v", err)
					_ = d.Nack(false, false)
					continue
				}

				_ = d.Ack(false)
			}
		}
	}()

	return nil
}

func (w *IngestEventWorker) Close() {
	if w.cancel != nil {
		w.cancel()
	}
	w.wg.Wait()
}
