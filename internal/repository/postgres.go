package repository

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/shopspring/decimal"

	"github.com/Lovemore-dev/Karibu-Groceries-LTD-Management-System/internal/allocation"
	"github.com/Lovemore-dev/Karibu-Groceries-LTD-Management-System/internal/model"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// PostgresRepository предоставляет доступ к хранилищу данных в PostgreSQL.
type PostgresRepository struct {
	pool   *pgxpool.Pool
	delays []time.Duration
}

// NewPostgresRepository создаёт новый репозиторий и инициализирует схему БД через миграции.
func NewPostgresRepository(dsn string) (*PostgresRepository, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse pool config: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	r := &PostgresRepository{
		pool:   pool,
		delays: []time.Duration{1 * time.Second, 3 * time.Second, 5 * time.Second},
	}

	if err := r.runMigrations(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return r, nil
}

func (r *PostgresRepository) runMigrations(ctx context.Context) error {
	db := stdlib.OpenDBFromPool(r.pool)
	defer db.Close()

	goose.SetBaseFS(migrationsFS)

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("set dialect: %w", err)
	}

	if err := goose.UpContext(ctx, db, "migrations"); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}

	return nil
}

func (r *PostgresRepository) withRetry(ctx context.Context, fn func() error) error {
	var err error

	for i := 0; i <= len(r.delays); i++ {
		err = fn()
		if err == nil {
			return nil
		}

		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return err
		}

		if !isRetryable(err) || i == len(r.delays) {
			break
		}

		timer := time.NewTimer(r.delays[i])
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
	return err
}

func isRetryable(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgerrcode.SerializationFailure || pgErr.Code == pgerrcode.DeadlockDetected
	}
	return isConnectionError(err)
}

func isConnectionError(err error) bool {
	return strings.Contains(err.Error(), "connection refused") ||
		strings.Contains(err.Error(), "broken pipe") ||
		strings.Contains(err.Error(), "connection reset by peer")
}

// Close закрывает пул соединений с БД.
func (r *PostgresRepository) Close() error {
	r.pool.Close()
	return nil
}

// CreateUser создаёт нового пользователя.
func (r *PostgresRepository) CreateUser(ctx context.Context, u model.User) (int64, error) {
	var id int64
	err := r.pool.QueryRow(ctx,
		`INSERT INTO users (full_name, username, email, password_hash, role, branch, status)
		 VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`,
		u.FullName, u.Username, u.Email, u.PasswordHash, string(u.Role), string(u.Branch), string(u.Status),
	).Scan(&id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return 0, fmt.Errorf("%w: %s", ErrUserExists, u.Username)
		}
		return 0, fmt.Errorf("create user: %w", err)
	}
	return id, nil
}

const userColumns = `id, full_name, username, email, password_hash, role, branch, status, created_at`

func scanUser(row pgx.Row) (*model.User, error) {
	var (
		u                    model.User
		role, branch, status string
	)
	if err := row.Scan(&u.ID, &u.FullName, &u.Username, &u.Email, &u.PasswordHash, &role, &branch, &status, &u.CreatedAt); err != nil {
		return nil, err
	}
	u.Role = model.Role(role)
	u.Branch = model.Branch(branch)
	u.Status = model.UserStatus(status)
	return &u, nil
}

// GetUserByLogin возвращает пользователя по имени пользователя или email.
func (r *PostgresRepository) GetUserByLogin(ctx context.Context, login string) (*model.User, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE username = $1 OR email = $1 LIMIT 1`,
		login,
	)

	u, err := scanUser(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	return u, nil
}

// ListUsers возвращает всех пользователей.
func (r *PostgresRepository) ListUsers(ctx context.Context) ([]model.User, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+userColumns+` FROM users ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("select users: %w", err)
	}
	defer rows.Close()

	var users []model.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, *u)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return users, nil
}

const batchColumns = `id, produce_name, produce_type, date, tonnage, cost, dealer_name, branch, contact,
	selling_price, procured_by, created_at, updated_at`

func scanBatch(row pgx.Row) (*model.Batch, error) {
	var (
		b      model.Batch
		branch string
	)
	err := row.Scan(&b.ID, &b.ProduceName, &b.ProduceType, &b.Date, &b.Tonnage, &b.Cost, &b.DealerName,
		&branch, &b.Contact, &b.SellingPrice, &b.ProcuredBy, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return nil, err
	}
	b.Branch = model.Branch(branch)
	return &b, nil
}

func collectBatches(rows pgx.Rows) ([]model.Batch, error) {
	defer rows.Close()

	var res []model.Batch
	for rows.Next() {
		b, err := scanBatch(rows)
		if err != nil {
			return nil, fmt.Errorf("scan batch: %w", err)
		}
		res = append(res, *b)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return res, nil
}

// CreateBatch сохраняет новую партию продукции.
func (r *PostgresRepository) CreateBatch(ctx context.Context, b model.Batch) (*model.Batch, error) {
	row := r.pool.QueryRow(ctx,
		`INSERT INTO produce (produce_name, produce_type, date, tonnage, cost, dealer_name, branch, contact,
		                      selling_price, procured_by)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		 RETURNING `+batchColumns,
		b.ProduceName, b.ProduceType, b.Date, b.Tonnage, b.Cost, b.DealerName, string(b.Branch), b.Contact,
		b.SellingPrice, b.ProcuredBy,
	)

	created, err := scanBatch(row)
	if err != nil {
		return nil, fmt.Errorf("insert batch: %w", err)
	}
	return created, nil
}

// GetBatch возвращает партию по идентификатору.
func (r *PostgresRepository) GetBatch(ctx context.Context, id int64) (*model.Batch, error) {
	b, err := scanBatch(r.pool.QueryRow(ctx, `SELECT `+batchColumns+` FROM produce WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrBatchNotFound
		}
		return nil, fmt.Errorf("get batch: %w", err)
	}
	return b, nil
}

// UpdateBatch изменяет только переданные в patch поля партии.
// Остаток перезаписывается условно: если он уже не равен expectedTonnage,
// строка не обновляется и возвращается ErrStockConflict.
func (r *PostgresRepository) UpdateBatch(ctx context.Context, id int64, patch model.BatchPatch, expectedTonnage decimal.Decimal) (*model.Batch, error) {
	var date *time.Time
	if patch.Date != nil {
		date = &patch.Date.Time
	}

	row := r.pool.QueryRow(ctx,
		`UPDATE produce
		 SET produce_name  = COALESCE($2, produce_name),
		     produce_type  = COALESCE($3, produce_type),
		     date          = COALESCE($4, date),
		     tonnage       = COALESCE($5::numeric, tonnage),
		     cost          = COALESCE($6::numeric, cost),
		     dealer_name   = COALESCE($7, dealer_name),
		     contact       = COALESCE($8, contact),
		     selling_price = COALESCE($9::numeric, selling_price),
		     updated_at    = clock_timestamp()
		 WHERE id = $1 AND ($5::numeric IS NULL OR tonnage = $10)
		 RETURNING `+batchColumns,
		id, patch.ProduceName, patch.ProduceType, date, patch.Tonnage, patch.Cost, patch.DealerName,
		patch.Contact, patch.SellingPrice, expectedTonnage,
	)

	updated, err := scanBatch(row)
	if err == nil {
		return updated, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("update batch: %w", err)
	}
	if patch.Tonnage == nil {
		return nil, ErrBatchNotFound
	}

	if _, err := r.GetBatch(ctx, id); err != nil {
		return nil, err
	}
	return nil, ErrStockConflict
}

// DeleteBatch удаляет партию.
func (r *PostgresRepository) DeleteBatch(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM produce WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete batch: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrBatchNotFound
	}
	return nil
}

// ListBatchesByBranch возвращает партии филиала, начиная с последних.
func (r *PostgresRepository) ListBatchesByBranch(ctx context.Context, branch model.Branch) ([]model.Batch, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+batchColumns+` FROM produce WHERE branch = $1 ORDER BY created_at DESC, id DESC`,
		string(branch),
	)
	if err != nil {
		return nil, fmt.Errorf("select batches: %w", err)
	}
	return collectBatches(rows)
}

// ListAvailableBatches возвращает партии с положительным остатком в порядке поступления.
func (r *PostgresRepository) ListAvailableBatches(ctx context.Context, produceName string, branch model.Branch) ([]model.Batch, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+batchColumns+`
		 FROM produce
		 WHERE produce_name = $1 AND branch = $2 AND tonnage > 0
		 ORDER BY created_at, id`,
		produceName, string(branch),
	)
	if err != nil {
		return nil, fmt.Errorf("select available batches: %w", err)
	}
	return collectBatches(rows)
}

// StockByBranch возвращает суммарный остаток и его стоимость по каждому филиалу.
func (r *PostgresRepository) StockByBranch(ctx context.Context) ([]model.BranchStock, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT branch, COALESCE(SUM(tonnage), 0), COALESCE(SUM(tonnage * cost), 0)
		 FROM produce
		 GROUP BY branch
		 ORDER BY branch`,
	)
	if err != nil {
		return nil, fmt.Errorf("aggregate stock: %w", err)
	}
	defer rows.Close()

	var res []model.BranchStock
	for rows.Next() {
		var (
			branch string
			s      model.BranchStock
		)
		if err := rows.Scan(&branch, &s.TotalTonnage, &s.TotalStockValue); err != nil {
			return nil, fmt.Errorf("scan stock: %w", err)
		}
		s.Branch = model.Branch(branch)
		res = append(res, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return res, nil
}

// applyDeductions списывает остатки по плану внутри транзакции.
// Каждое списание условное: если остатка уже не хватает, возвращается ErrStockConflict.
func applyDeductions(ctx context.Context, tx pgx.Tx, entries []allocation.Entry) error {
	for _, e := range entries {
		tag, err := tx.Exec(ctx,
			`UPDATE produce
			 SET tonnage = tonnage - $1, updated_at = clock_timestamp()
			 WHERE id = $2 AND tonnage >= $1`,
			e.Quantity, e.BatchID,
		)
		if err != nil {
			return fmt.Errorf("deduct batch %d: %w", e.BatchID, err)
		}
		if tag.RowsAffected() != 1 {
			return fmt.Errorf("%w: batch %d", ErrStockConflict, e.BatchID)
		}
	}
	return nil
}

// CreateCashSale списывает остатки по плану и сохраняет продажу за наличные одной транзакцией.
func (r *PostgresRepository) CreateCashSale(ctx context.Context, entries []allocation.Entry, s model.Sale) (*model.Sale, error) {
	var created model.Sale

	err := r.withRetry(ctx, func() error {
		tx, err := r.pool.Begin(ctx)
		if err != nil {
			return fmt.Errorf("begin tx: %w", err)
		}
		defer tx.Rollback(ctx)

		if err := applyDeductions(ctx, tx, entries); err != nil {
			return err
		}

		created = s
		err = tx.QueryRow(ctx,
			`INSERT INTO sales (produce_name, tonnage, amount_paid, buyers_name, sale_agent, branch, date)
			 VALUES ($1, $2, $3, $4, $5, $6, $7)
			 RETURNING id, created_at`,
			s.ProduceName, s.Tonnage, s.AmountPaid, s.BuyersName, s.SaleAgent, string(s.Branch), s.Date,
		).Scan(&created.ID, &created.CreatedAt)
		if err != nil {
			return fmt.Errorf("insert sale: %w", err)
		}

		if err := tx.Commit(ctx); err != nil {
			return fmt.Errorf("commit tx: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &created, nil
}

// CreateCreditSale списывает остатки по плану и сохраняет продажу в кредит одной транзакцией.
func (r *PostgresRepository) CreateCreditSale(ctx context.Context, entries []allocation.Entry, s model.CreditSale) (*model.CreditSale, error) {
	var created model.CreditSale

	err := r.withRetry(ctx, func() error {
		tx, err := r.pool.Begin(ctx)
		if err != nil {
			return fmt.Errorf("begin tx: %w", err)
		}
		defer tx.Rollback(ctx)

		if err := applyDeductions(ctx, tx, entries); err != nil {
			return err
		}

		created = s
		err = tx.QueryRow(ctx,
			`INSERT INTO credit_sales (buyers_name, national_id, contact, location, amount_due, sale_agent, due_date,
			                           produce_name, produce_type, tonnage, branch, date_of_dispatch)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
			 RETURNING id, created_at`,
			s.BuyersName, s.NationalID, s.Contact, s.Location, s.AmountDue, s.SaleAgent, s.DueDate,
			s.ProduceName, s.ProduceType, s.Tonnage, string(s.Branch), s.DateOfDispatch,
		).Scan(&created.ID, &created.CreatedAt)
		if err != nil {
			return fmt.Errorf("insert credit sale: %w", err)
		}

		if err := tx.Commit(ctx); err != nil {
			return fmt.Errorf("commit tx: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &created, nil
}

// ListCashSales возвращает продажи за наличные филиала, начиная с последних.
func (r *PostgresRepository) ListCashSales(ctx context.Context, branch model.Branch) ([]model.Sale, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, produce_name, tonnage, amount_paid, buyers_name, sale_agent, branch, date, created_at
		 FROM sales
		 WHERE branch = $1
		 ORDER BY created_at DESC, id DESC`,
		string(branch),
	)
	if err != nil {
		return nil, fmt.Errorf("select sales: %w", err)
	}
	defer rows.Close()

	var res []model.Sale
	for rows.Next() {
		var (
			s  model.Sale
			br string
		)
		if err := rows.Scan(&s.ID, &s.ProduceName, &s.Tonnage, &s.AmountPaid, &s.BuyersName, &s.SaleAgent, &br, &s.Date, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan sale: %w", err)
		}
		s.Branch = model.Branch(br)
		res = append(res, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return res, nil
}

// ListCreditSales возвращает продажи в кредит филиала, начиная с последних.
func (r *PostgresRepository) ListCreditSales(ctx context.Context, branch model.Branch) ([]model.CreditSale, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, buyers_name, national_id, contact, location, amount_due, sale_agent, due_date,
		        produce_name, produce_type, tonnage, branch, date_of_dispatch, created_at
		 FROM credit_sales
		 WHERE branch = $1
		 ORDER BY created_at DESC, id DESC`,
		string(branch),
	)
	if err != nil {
		return nil, fmt.Errorf("select credit sales: %w", err)
	}
	defer rows.Close()

	var res []model.CreditSale
	for rows.Next() {
		var (
			s  model.CreditSale
			br string
		)
		err := rows.Scan(&s.ID, &s.BuyersName, &s.NationalID, &s.Contact, &s.Location, &s.AmountDue, &s.SaleAgent,
			&s.DueDate, &s.ProduceName, &s.ProduceType, &s.Tonnage, &br, &s.DateOfDispatch, &s.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("scan credit sale: %w", err)
		}
		s.Branch = model.Branch(br)
		res = append(res, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return res, nil
}

// CashTotalsByBranch возвращает выручку и проданный объём по филиалам.
func (r *PostgresRepository) CashTotalsByBranch(ctx context.Context) ([]model.BranchCashTotals, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT branch, COALESCE(SUM(amount_paid), 0), COALESCE(SUM(tonnage), 0)
		 FROM sales
		 GROUP BY branch
		 ORDER BY branch`,
	)
	if err != nil {
		return nil, fmt.Errorf("aggregate sales: %w", err)
	}
	defer rows.Close()

	var res []model.BranchCashTotals
	for rows.Next() {
		var (
			t      model.BranchCashTotals
			branch string
		)
		if err := rows.Scan(&branch, &t.TotalRevenue, &t.TotalTonnage); err != nil {
			return nil, fmt.Errorf("scan sales totals: %w", err)
		}
		t.Branch = model.Branch(branch)
		res = append(res, t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return res, nil
}

// CreditTotalsByBranch возвращает сумму долга и проданный в кредит объём по филиалам.
func (r *PostgresRepository) CreditTotalsByBranch(ctx context.Context) ([]model.BranchCreditTotals, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT branch, COALESCE(SUM(amount_due), 0), COALESCE(SUM(tonnage), 0)
		 FROM credit_sales
		 GROUP BY branch
		 ORDER BY branch`,
	)
	if err != nil {
		return nil, fmt.Errorf("aggregate credit sales: %w", err)
	}
	defer rows.Close()

	var res []model.BranchCreditTotals
	for rows.Next() {
		var (
			t      model.BranchCreditTotals
			branch string
		)
		if err := rows.Scan(&branch, &t.TotalOwed, &t.TotalTonnage); err != nil {
			return nil, fmt.Errorf("scan credit totals: %w", err)
		}
		t.Branch = model.Branch(branch)
		res = append(res, t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return res, nil
}

// SalesTotals возвращает общую выручку и общую сумму долга по продажам в кредит.
func (r *PostgresRepository) SalesTotals(ctx context.Context) (decimal.Decimal, decimal.Decimal, error) {
	var revenue decimal.Decimal
	err := r.pool.QueryRow(ctx, `SELECT COALESCE(SUM(amount_paid), 0) FROM sales`).Scan(&revenue)
	if err != nil {
		return decimal.Zero, decimal.Zero, fmt.Errorf("sum revenue: %w", err)
	}

	var owed decimal.Decimal
	err = r.pool.QueryRow(ctx, `SELECT COALESCE(SUM(amount_due), 0) FROM credit_sales`).Scan(&owed)
	if err != nil {
		return decimal.Zero, decimal.Zero, fmt.Errorf("sum credit: %w", err)
	}

	return revenue, owed, nil
}

// CreateRestockAlert сохраняет уведомление о нехватке остатков.
func (r *PostgresRepository) CreateRestockAlert(ctx context.Context, a model.RestockAlert) (int64, error) {
	var id int64
	err := r.pool.QueryRow(ctx,
		`INSERT INTO restock_alerts (branch, produce_name, requested, available, status)
		 VALUES ($1, $2, $3, $4, $5) RETURNING id`,
		string(a.Branch), a.ProduceName, a.Requested, a.Available, string(model.RestockAlertNew),
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert restock alert: %w", err)
	}
	return id, nil
}

func collectAlerts(rows pgx.Rows) ([]model.RestockAlert, error) {
	defer rows.Close()

	var res []model.RestockAlert
	for rows.Next() {
		var (
			a              model.RestockAlert
			branch, status string
		)
		if err := rows.Scan(&a.ID, &branch, &a.ProduceName, &a.Requested, &a.Available, &status, &a.CreatedAt, &a.SentAt); err != nil {
			return nil, fmt.Errorf("scan restock alert: %w", err)
		}
		a.Branch = model.Branch(branch)
		a.Status = model.RestockAlertStatus(status)
		res = append(res, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return res, nil
}

// ListRestockAlerts возвращает уведомления филиала, начиная с последних.
func (r *PostgresRepository) ListRestockAlerts(ctx context.Context, branch model.Branch) ([]model.RestockAlert, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, branch, produce_name, requested, available, status, created_at, sent_at
		 FROM restock_alerts
		 WHERE branch = $1
		 ORDER BY created_at DESC, id DESC`,
		string(branch),
	)
	if err != nil {
		return nil, fmt.Errorf("select restock alerts: %w", err)
	}
	return collectAlerts(rows)
}

// GetPendingRestockAlerts возвращает недоставленные уведомления в порядке создания.
func (r *PostgresRepository) GetPendingRestockAlerts(ctx context.Context, limit int) ([]model.RestockAlert, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, branch, produce_name, requested, available, status, created_at, sent_at
		 FROM restock_alerts
		 WHERE status = $1
		 ORDER BY created_at, id
		 LIMIT $2`,
		string(model.RestockAlertNew), limit,
	)
	if err != nil {
		return nil, fmt.Errorf("select pending restock alerts: %w", err)
	}
	return collectAlerts(rows)
}

// MarkRestockAlertSent отмечает уведомление доставленным.
func (r *PostgresRepository) MarkRestockAlertSent(ctx context.Context, id int64, sentAt time.Time) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE restock_alerts SET status = $2, sent_at = $3 WHERE id = $1`,
		id, string(model.RestockAlertSent), sentAt,
	)
	if err != nil {
		return fmt.Errorf("update restock alert: %w", err)
	}
	return nil
}
