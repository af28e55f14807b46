//go:build integration

package postgres

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/xenking/salon-receipt/internal/domain/bill"
	"github.com/xenking/salon-receipt/internal/domain/checkout"
)

func d(v string) decimal.Decimal {
	return decimal.RequireFromString(v)
}

// startPostgres runs a disposable PostgreSQL container and returns a migrated
// pool connected to it.
func startPostgres(t *testing.T) *pgxpool.Pool {
	t.Helper()
	ctx := context.Background()

	ctr, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "postgres:17-alpine",
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     "receipt",
				"POSTGRES_PASSWORD": "receipt",
				"POSTGRES_DB":       "receipt",
			},
			WaitingFor: wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(time.Minute),
		},
		Started: true,
	})
	testcontainers.CleanupContainer(t, ctr)
	require.NoError(t, err)

	host, err := ctr.Host(ctx)
	require.NoError(t, err)
	port, err := ctr.MappedPort(ctx, "5432/tcp")
	require.NoError(t, err)

	dsn := fmt.Sprintf("postgres://receipt:receipt@%s:%s/receipt?sslmode=disable", host, port.Port())
	pool, err := NewPool(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	require.NoError(t, RunMigrations(ctx, pool))
	// Migrations are idempotent.
	require.NoError(t, RunMigrations(ctx, pool))
	return pool
}

func TestReceiptRepository(t *testing.T) {
	pool := startPostgres(t)
	repo := NewReceiptRepository(pool)
	ctx := context.Background()

	createdAt := time.Date(2026, 3, 14, 15, 9, 26, 0, time.UTC)
	b := bill.Build([]bill.RawItem{
		{ID: "svc-1", Name: "Haircut", Price: "1000", Quantity: 1, Kind: "service"},
		{ID: "prd-7", Name: "Serum", Price: "333.3333", Quantity: 3, Kind: "product"},
	}, bill.ClientMeta{ClientName: "Ayesha", Beautician: "Sara"}, "200",
		bill.TaxConfig{Enabled: true, RatePercent: d("10")}, createdAt)
	rc := &checkout.Receipt{
		ID:        uuid.New().String(),
		Bill:      b,
		Totals:    bill.ComputeTotals(b),
		Filename:  "receipt-ayesha.html",
		Location:  "/var/lib/receipts/receipt-ayesha.html",
		CreatedAt: createdAt,
	}

	t.Run("create and get", func(t *testing.T) {
		require.NoError(t, repo.Create(ctx, rc))

		got, err := repo.GetByID(ctx, rc.ID)
		require.NoError(t, err)

		assert.Equal(t, rc.ID, got.ID)
		assert.Equal(t, "Ayesha", got.Bill.ClientName)
		assert.Equal(t, "Sara", got.Bill.Beautician)
		assert.True(t, rc.Totals.GrandTotal.Equal(got.Totals.GrandTotal), "grand total %s", got.Totals.GrandTotal)
		assert.True(t, d("200").Equal(got.Bill.Discount))
		assert.True(t, createdAt.Equal(got.CreatedAt))

		require.Len(t, got.Bill.Items, 2)
		assert.Equal(t, "svc-1", got.Bill.Items[0].ID)
		assert.Equal(t, bill.KindProduct, got.Bill.Items[1].Kind)
		assert.Equal(t, 3, got.Bill.Items[1].Quantity)
		assert.True(t, d("333.3333").Equal(got.Bill.Items[1].UnitPrice))
	})

	t.Run("duplicate id", func(t *testing.T) {
		require.Error(t, repo.Create(ctx, rc))
	})

	t.Run("not found", func(t *testing.T) {
		_, err := repo.GetByID(ctx, uuid.New().String())
		require.ErrorIs(t, err, checkout.ErrReceiptNotFound)
	})

	t.Run("malformed id", func(t *testing.T) {
		_, err := repo.GetByID(ctx, "not-a-uuid")
		require.ErrorIs(t, err, checkout.ErrReceiptNotFound)
	})
}
