package database

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/tracelog"
	"go.uber.org/zap"

	"github.com/lavrik91/test-task-1/internal/domain"
)

// DB is the subset of *pgxpool.Pool the repository needs.
type DB interface {
	TxBeginner
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type Repo struct {
	db  DB
	now func() time.Time
}

func New(db DB) *Repo { return &Repo{db: db, now: time.Now} }

// Connect opens a pool, logs queries through log at sqlLevel and pings once.
func Connect(ctx context.Context, dsn string, log *zap.Logger, sqlLevel string) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}
	cfg.ConnConfig.Tracer = &tracelog.TraceLog{
		Logger:   newZapTracer(log.Named("pgx")),
		LogLevel: traceLevel(sqlLevel),
	}
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("open pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}
	return pool, nil
}

const orderColumns = `id, name, weight, cost, delivery_cost, order_type_name, session_uuid, background_task_id, celery_task_id`

// Create inserts o with a fresh id, registering its session if it is new.
func (r *Repo) Create(ctx context.Context, o *domain.Order) error {
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	err := WithTx(ctx, r.db, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `
			INSERT INTO user_sessions (session_id) VALUES ($1)
			ON CONFLICT (session_id) DO NOTHING
		`, o.SessionUUID); err != nil {
			return err
		}
		_, err := tx.Exec(ctx, `
			INSERT INTO orders (`+orderColumns+`)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
		`, o.ID, o.Name, o.Weight, o.Cost, o.DeliveryCost, string(o.OrderTypeName),
			o.SessionUUID, o.BackgroundTaskID, o.CeleryTaskID,
		)
		return err
	})
	return mapError("create order "+o.TaskID(), err)
}

// UpdateDeliveryCost stores the delivery cost once. It returns
// domain.ErrAlreadyPriced when the order no longer carries the pending sentinel.
func (r *Repo) UpdateDeliveryCost(ctx context.Context, id, deliveryCost string) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE orders SET delivery_cost=$2
		WHERE id=$1 AND delivery_cost=$3
	`, id, deliveryCost, domain.DeliveryCostPending)
	if err != nil {
		return mapError("update delivery cost", err)
	}
	if tag.RowsAffected() > 0 {
		return nil
	}

	var current string
	err = r.db.QueryRow(ctx, `SELECT delivery_cost FROM orders WHERE id=$1`, id).Scan(&current)
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		return fmt.Errorf("%w: update delivery cost: order %s: %w", domain.ErrStorage, id, domain.ErrNotFound)
	case err != nil:
		return mapError("update delivery cost", err)
	}
	return fmt.Errorf("%w: order %s has %s", domain.ErrAlreadyPriced, id, current)
}

// Find resolves key against the order id and both task id columns.
func (r *Repo) Find(ctx context.Context, key string) (*domain.Order, error) {
	row := r.db.QueryRow(ctx, `
		SELECT `+orderColumns+` FROM orders
		WHERE id=$1 OR background_task_id=$1 OR celery_task_id=$1
		ORDER BY (id=$1) DESC
		LIMIT 1
	`, key)
	o, err := scanOrder(row)
	if err != nil {
		return nil, mapError("find order", err)
	}
	return o, nil
}

func (r *Repo) ListPending(ctx context.Context, olderThan time.Duration, limit int) ([]domain.Order, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+orderColumns+` FROM orders
		WHERE delivery_cost=$1 AND created_at < $2
		ORDER BY created_at
		LIMIT $3
	`, domain.DeliveryCostPending, r.now().Add(-olderThan), limit)
	if err != nil {
		return nil, mapError("list pending", err)
	}
	return collectOrders(rows)
}

func (r *Repo) ListForSession(ctx context.Context, f domain.OrderFilter) ([]domain.Order, error) {
	query, args := buildSessionQuery(f)
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, mapError("list session orders", err)
	}
	return collectOrders(rows)
}

func buildSessionQuery(f domain.OrderFilter) (string, []any) {
	var b strings.Builder
	args := []any{f.SessionUUID}
	b.WriteString(`SELECT ` + orderColumns + ` FROM orders WHERE session_uuid=$1`)

	if f.OrderType != nil {
		args = append(args, string(*f.OrderType))
		fmt.Fprintf(&b, ` AND order_type_name=$%d`, len(args))
	}
	if f.Priced != nil {
		args = append(args, domain.DeliveryCostPending)
		if *f.Priced {
			fmt.Fprintf(&b, ` AND delivery_cost<>$%d`, len(args))
		} else {
			fmt.Fprintf(&b, ` AND delivery_cost=$%d`, len(args))
		}
	}

	page, size := f.Page, f.PageSize
	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = 10
	}
	args = append(args, size, (page-1)*size)
	fmt.Fprintf(&b, ` ORDER BY created_at DESC, id LIMIT $%d OFFSET $%d`, len(args)-1, len(args))
	return b.String(), args
}

// RecentOrderIDs returns the newest priced orders, for warming the read cache.
func (r *Repo) RecentOrderIDs(ctx context.Context, limit int) ([]string, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id FROM orders
		WHERE delivery_cost<>$1
		ORDER BY created_at DESC
		LIMIT $2
	`, domain.DeliveryCostPending, limit)
	if err != nil {
		return nil, mapError("recent order ids", err)
	}
	ids, err := pgx.CollectRows(rows, pgx.RowTo[string])
	return ids, mapError("recent order ids", err)
}

// CreateSession returns the session row, inserting it on first contact.
func (r *Repo) CreateSession(ctx context.Context, sessionID string) (*domain.UserSession, error) {
	var s domain.UserSession
	err := r.db.QueryRow(ctx, `
		INSERT INTO user_sessions (session_id) VALUES ($1)
		ON CONFLICT (session_id) DO UPDATE SET session_id=EXCLUDED.session_id
		RETURNING id, session_id
	`, sessionID).Scan(&s.ID, &s.SessionID)
	if err != nil {
		return nil, mapError("create session", err)
	}
	return &s, nil
}

func (r *Repo) OrderTypes(ctx context.Context) ([]domain.OrderTypeRecord, error) {
	rows, err := r.db.Query(ctx, `SELECT id, name FROM order_types ORDER BY id`)
	if err != nil {
		return nil, mapError("order types", err)
	}
	types, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.OrderTypeRecord, error) {
		var t domain.OrderTypeRecord
		var name string
		err := row.Scan(&t.ID, &name)
		t.Name = domain.OrderType(name)
		return t, err
	})
	return types, mapError("order types", err)
}

func scanOrder(row pgx.Row) (*domain.Order, error) {
	var (
		o        domain.Order
		typeName string
	)
	if err := row.Scan(&o.ID, &o.Name, &o.Weight, &o.Cost, &o.DeliveryCost, &typeName,
		&o.SessionUUID, &o.BackgroundTaskID, &o.CeleryTaskID); err != nil {
		return nil, err
	}
	o.OrderTypeName = domain.OrderType(typeName)
	return &o, nil
}

func collectOrders(rows pgx.Rows) ([]domain.Order, error) {
	orders, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Order, error) {
		o, err := scanOrder(row)
		if err != nil {
			return domain.Order{}, err
		}
		return *o, nil
	})
	if err != nil {
		return nil, mapError("scan orders", err)
	}
	return orders, nil
}
