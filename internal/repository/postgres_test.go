package repository

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/Lovemore-dev/Karibu-Groceries-LTD-Management-System/internal/allocation"
	"github.com/Lovemore-dev/Karibu-Groceries-LTD-Management-System/internal/model"
)

func newPostgresRepository(t *testing.T) *PostgresRepository {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping postgres integration test in short mode")
	}

	ctx := context.Background()
	container, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("kgl_test"),
		tcpostgres.WithUsername("postgres"),
		tcpostgres.WithPassword("postgres"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	if err != nil {
		t.Skipf("postgres container unavailable: %v", err)
	}
	t.Cleanup(func() {
		_ = container.Terminate(context.Background())
	})

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	repo, err := NewPostgresRepository(dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close() })

	return repo
}

func TestPostgresRepository_SaleFlow(t *testing.T) {
	repo := newPostgresRepository(t)
	ctx := context.Background()

	first, err := repo.CreateBatch(ctx, newBatch("maize", model.BranchMaganjo, 100, time.Time{}))
	require.NoError(t, err)
	second, err := repo.CreateBatch(ctx, newBatch("maize", model.BranchMaganjo, 200, time.Time{}))
	require.NoError(t, err)

	batches, err := repo.ListAvailableBatches(ctx, "maize", model.BranchMaganjo)
	require.NoError(t, err)
	require.Len(t, batches, 2)
	assert.Equal(t, first.ID, batches[0].ID)

	plan, err := allocation.Build(batches, decimal.NewFromInt(150))
	require.NoError(t, err)

	sale, err := repo.CreateCashSale(ctx, plan.Entries, model.Sale{
		ProduceName: "maize",
		Tonnage:     plan.Quantity,
		AmountPaid:  plan.TotalValue,
		BuyersName:  "Buyer",
		SaleAgent:   "Agent",
		Branch:      model.BranchMaganjo,
		Date:        time.Now(),
	})
	require.NoError(t, err)
	assert.NotZero(t, sale.ID)

	got, err := repo.GetBatch(ctx, first.ID)
	require.NoError(t, err)
	assert.True(t, got.Tonnage.IsZero())

	got, err = repo.GetBatch(ctx, second.ID)
	require.NoError(t, err)
	assert.True(t, got.Tonnage.Equal(decimal.NewFromInt(150)), "got %s", got.Tonnage)

	revenue, _, err := repo.SalesTotals(ctx)
	require.NoError(t, err)
	assert.True(t, revenue.Equal(decimal.NewFromInt(1800000)), "revenue %s", revenue)
}

func TestPostgresRepository_ConcurrentDeductionNeverOversells(t *testing.T) {
	repo := newPostgresRepository(t)
	ctx := context.Background()

	b, err := repo.CreateBatch(ctx, newBatch("beans", model.BranchMatugga, 100, time.Time{}))
	require.NoError(t, err)

	entries := []allocation.Entry{{BatchID: b.ID, Quantity: decimal.NewFromInt(60), UnitPrice: b.SellingPrice}}

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
		conflicts int
	)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := repo.CreateCashSale(ctx, entries, model.Sale{
				ProduceName: "beans",
				Tonnage:     decimal.NewFromInt(60),
				AmountPaid:  decimal.NewFromInt(720000),
				BuyersName:  "Buyer",
				SaleAgent:   "Agent",
				Branch:      model.BranchMatugga,
				Date:        time.Now(),
			})
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				succeeded++
				return
			}
			assert.ErrorIs(t, err, ErrStockConflict)
			conflicts++
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, succeeded)
	assert.Equal(t, 1, conflicts)

	got, err := repo.GetBatch(ctx, b.ID)
	require.NoError(t, err)
	assert.True(t, got.Tonnage.Equal(decimal.NewFromInt(40)), "got %s", got.Tonnage)
}

func TestPostgresRepository_DuplicateUser(t *testing.T) {
	repo := newPostgresRepository(t)
	ctx := context.Background()

	u := model.User{
		FullName:     "Alice",
		Username:     "alice",
		Email:        "alice@kgl.ug",
		PasswordHash: []byte("hash"),
		Role:         model.RoleManager,
		Branch:       model.BranchMaganjo,
		Status:       model.UserStatusActive,
	}
	_, err := repo.CreateUser(ctx, u)
	require.NoError(t, err)

	_, err = repo.CreateUser(ctx, u)
	assert.ErrorIs(t, err, ErrUserExists)

	found, err := repo.GetUserByLogin(ctx, "alice@kgl.ug")
	require.NoError(t, err)
	assert.Equal(t, model.RoleManager, found.Role)
}

func TestPostgresRepository_UpdateBatchKeepsConcurrentDeduction(t *testing.T) {
	repo := newPostgresRepository(t)
	ctx := context.Background()

	b, err := repo.CreateBatch(ctx, newBatch("beans", model.BranchMaganjo, 1000, time.Time{}))
	require.NoError(t, err)

	entries := []allocation.Entry{{BatchID: b.ID, Quantity: decimal.NewFromInt(600), UnitPrice: b.SellingPrice}}
	_, err = repo.CreateCashSale(ctx, entries, model.Sale{
		ProduceName: "beans",
		Tonnage:     decimal.NewFromInt(600),
		AmountPaid:  decimal.NewFromInt(7200000),
		BuyersName:  "Buyer",
		SaleAgent:   "Agent",
		Branch:      model.BranchMaganjo,
		Date:        time.Now(),
	})
	require.NoError(t, err)

	dealer := "New Dealer"
	updated, err := repo.UpdateBatch(ctx, b.ID, model.BatchPatch{DealerName: &dealer}, b.Tonnage)
	require.NoError(t, err)
	assert.Equal(t, dealer, updated.DealerName)
	assert.True(t, updated.Tonnage.Equal(decimal.NewFromInt(400)), "tonnage %s", updated.Tonnage)
	assert.Equal(t, "cereal", updated.ProduceType)

	restocked := decimal.NewFromInt(2000)
	_, err = repo.UpdateBatch(ctx, b.ID, model.BatchPatch{Tonnage: &restocked}, b.Tonnage)
	require.ErrorIs(t, err, ErrStockConflict)

	updated, err = repo.UpdateBatch(ctx, b.ID, model.BatchPatch{Tonnage: &restocked}, decimal.NewFromInt(400))
	require.NoError(t, err)
	assert.True(t, updated.Tonnage.Equal(restocked), "tonnage %s", updated.Tonnage)

	_, err = repo.UpdateBatch(ctx, b.ID+1000, model.BatchPatch{Tonnage: &restocked}, decimal.Zero)
	require.ErrorIs(t, err, ErrBatchNotFound)
}
