package postgres

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/xenking/salon-receipt/internal/domain/bill"
	"github.com/xenking/salon-receipt/internal/domain/checkout"
)

const (
	insertReceiptSQL = `INSERT INTO receipts (
		id, client_name, phone_number, notes, beautician,
		tax_enabled, tax_rate, subtotal, tax_amount, discount, grand_total,
		filename, location, created_at
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`

	insertItemSQL = `INSERT INTO receipt_items (
		receipt_id, position, item_id, name, unit_price, quantity, kind
	) VALUES ($1, $2, $3, $4, $5, $6, $7)`

	selectReceiptSQL = `SELECT
		id::text, client_name, phone_number, notes, beautician,
		tax_enabled, tax_rate, subtotal, tax_amount, discount, grand_total,
		filename, location, created_at
	FROM receipts WHERE id = $1`

	selectItemsSQL = `SELECT item_id, name, unit_price, quantity, kind
	FROM receipt_items WHERE receipt_id = $1 ORDER BY position`
)

var _ checkout.Repository = (*ReceiptRepository)(nil)

// ReceiptRepository implements checkout.Repository backed by PostgreSQL.
type ReceiptRepository struct {
	pool *pgxpool.Pool
}

// NewReceiptRepository returns a ReceiptRepository that uses the given pool.
func NewReceiptRepository(pool *pgxpool.Pool) *ReceiptRepository {
	return &ReceiptRepository{pool: pool}
}

// Create stores the receipt header and its items in one transaction. Amounts
// are stored at full precision.
func (r *ReceiptRepository) Create(ctx context.Context, rc *checkout.Receipt) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning receipt tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	b, t := rc.Bill, rc.Totals
	if _, err := tx.Exec(ctx, insertReceiptSQL,
		rc.ID, b.ClientName, b.PhoneNumber, b.Notes, b.Beautician,
		b.Tax.Enabled, b.Tax.RatePercent, t.Subtotal, t.TaxAmount, t.Discount, t.GrandTotal,
		rc.Filename, rc.Location, rc.CreatedAt,
	); err != nil {
		return fmt.Errorf("creating receipt %q: %w", rc.ID, err)
	}

	batch := &pgx.Batch{}
	for i, item := range b.Items {
		batch.Queue(insertItemSQL,
			rc.ID, i, item.ID, item.Name, item.UnitPrice, item.Quantity, string(item.Kind),
		)
	}
	if batch.Len() > 0 {
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return fmt.Errorf("creating receipt %q items: %w", rc.ID, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing receipt %q: %w", rc.ID, err)
	}
	return nil
}

// GetByID loads a receipt with its items in their original order.
// Returns checkout.ErrReceiptNotFound for unknown or malformed IDs.
func (r *ReceiptRepository) GetByID(ctx context.Context, id string) (*checkout.Receipt, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, checkout.ErrReceiptNotFound
	}

	var (
		rc checkout.Receipt
		b  = &rc.Bill
		t  = &rc.Totals
	)
	err := r.pool.QueryRow(ctx, selectReceiptSQL, id).Scan(
		&rc.ID, &b.ClientName, &b.PhoneNumber, &b.Notes, &b.Beautician,
		&b.Tax.Enabled, &b.Tax.RatePercent, &t.Subtotal, &t.TaxAmount, &t.Discount, &t.GrandTotal,
		&rc.Filename, &rc.Location, &rc.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, checkout.ErrReceiptNotFound
		}
		return nil, fmt.Errorf("finding receipt %q: %w", id, err)
	}
	b.Discount = t.Discount
	b.CreatedAt = rc.CreatedAt

	rows, err := r.pool.Query(ctx, selectItemsSQL, id)
	if err != nil {
		return nil, fmt.Errorf("listing receipt %q items: %w", id, err)
	}
	b.Items, err = pgx.CollectRows(rows, func(row pgx.CollectableRow) (bill.LineItem, error) {
		var (
			item bill.LineItem
			kind string
		)
		if err := row.Scan(&item.ID, &item.Name, &item.UnitPrice, &item.Quantity, &kind); err != nil {
			return item, err
		}
		item.Kind = bill.SourceKind(kind)
		return item, nil
	})
	if err != nil {
		return nil, fmt.Errorf("scanning receipt %q items: %w", id, err)
	}

	return &rc, nil
}
