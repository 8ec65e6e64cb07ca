// Package approvals flips pending transaction records to approved once their
// scheduled delay elapses. Jobs live in the approvals table, so a restart
// picks up where the previous process stopped instead of stranding records.
package approvals

import (
	"context"
	"log"
	"time"

	"netbank/internal/db"
	"netbank/internal/models"
	"netbank/internal/store"
	"netbank/internal/websocket"

	"github.com/jmoiron/sqlx"
)

const batchSize = 50

type ApprovalStore interface {
	Due(ctx context.Context, now time.Time, limit int) ([]models.ApprovalJob, error)
	MarkProcessed(ctx context.Context, tx store.Execer, jobID string, processedAt time.Time) (int64, error)
}

type TransactionStore interface {
	UpdateStatus(ctx context.Context, tx store.Execer, transactionID, status string) (int64, error)
}

type EventHub interface {
	Broadcast(userID string, event websocket.Event)
}

type Worker struct {
	txRunner     db.TxRunner
	approvals    ApprovalStore
	transactions TransactionStore
	hub          EventHub
	poll         time.Duration
}

func NewWorker(txRunner db.TxRunner, approvals ApprovalStore, transactions TransactionStore, hub EventHub, poll time.Duration) *Worker {
	return &Worker{
		txRunner:     txRunner,
		approvals:    approvals,
		transactions: transactions,
		hub:          hub,
		poll:         poll,
	}
}

// Run polls until the context is cancelled.
func (w *Worker) Run(ctx context.Context) {
	ticker := time.NewTicker(w.poll)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := w.ProcessDue(ctx); err != nil {
				log.Printf("approval worker: %v", err)
			}
		}
	}
}

// ProcessDue approves every due job. The processed_at stamp and the status
// flip share a transaction; a second worker claiming the same job sees zero
// rows and moves on.
func (w *Worker) ProcessDue(ctx context.Context) error {
	jobs, err := w.approvals.Due(ctx, time.Now(), batchSize)
	if err != nil {
		return err
	}
	for _, job := range jobs {
		claimed := false
		err := w.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
			rows, err := w.approvals.MarkProcessed(ctx, tx, job.ID, time.Now())
			if err != nil {
				return err
			}
			if rows == 0 {
				return nil
			}
			if _, err := w.transactions.UpdateStatus(ctx, tx, job.TransactionID, models.TxApproved); err != nil {
				return err
			}
			claimed = true
			return nil
		})
		if err != nil {
			return err
		}
		if claimed {
			w.hub.Broadcast(job.UserID, websocket.Event{
				Type:          websocket.EventTransaction,
				TransactionID: job.TransactionID,
				Status:        models.TxApproved,
			})
		}
	}
	return nil
}
