package ledger

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
)

type postgresRecorder struct{ db *sql.DB }

// NewPostgresRecorder creates a PostgreSQL-backed settlement sink.
func NewPostgresRecorder(db *sql.DB) Recorder { return &postgresRecorder{db: db} }

func (r *postgresRecorder) Record(ctx context.Context, rec *SettlementRecord) (uuid.UUID, error) {
	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
	}
	// session_id carries a unique constraint; a retried finalize hits the
	// conflict and falls through to the read of the original row.
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO transactions
		  (id, session_id, nozzle_id, product_id, liters, gross_amount, discount,
		   promotion_id, net_amount, payment_method, member_id, received_amount,
		   change_amount, items)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)
		ON CONFLICT (session_id) DO NOTHING`,
		rec.ID, rec.SessionID, rec.NozzleID, rec.ProductID, rec.Liters,
		rec.GrossAmount, rec.Discount, rec.PromotionID, rec.NetAmount,
		rec.PaymentMethod, rec.MemberID, rec.ReceivedAmount, rec.ChangeAmount,
		rec.Items)
	if err != nil {
		return uuid.Nil, err
	}

	var id uuid.UUID
	err = r.db.QueryRowContext(ctx,
		`SELECT id FROM transactions WHERE session_id=$1`, rec.SessionID).Scan(&id)
	if err != nil {
		return uuid.Nil, err
	}
	return id, nil
}
