package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

type unitOfWorkKey struct{}

// CommitHook runs after the owning transaction has committed.
type CommitHook func(ctx context.Context) error

type namedHook struct {
	name string
	fn   CommitHook
}

// UnitOfWork carries one open transaction and the hooks queued for after its commit.
type UnitOfWork struct {
	name  string
	tx    *sqlx.Tx
	hooks []namedHook
}

// Tx returns the underlying transaction; nil for detached units used in tests.
func (u *UnitOfWork) Tx() *sqlx.Tx {
	return u.tx
}

// AfterCommit queues a hook. Hooks run in registration order and only when the
// transaction commits. A failing hook never affects the other hooks or the caller.
func (u *UnitOfWork) AfterCommit(name string, hook CommitHook) {
	if hook == nil {
		return
	}
	u.hooks = append(u.hooks, namedHook{name: name, fn: hook})
}

// RunHooks executes the queued hooks, logging and discarding every failure.
func (u *UnitOfWork) RunHooks(ctx context.Context, logger *zap.Logger) {
	if logger == nil {
		logger = zap.NewNop()
	}
	for _, hook := range u.hooks {
		runHook(ctx, logger, u.name, hook)
	}
	u.hooks = nil
}

func runHook(ctx context.Context, logger *zap.Logger, unit string, hook namedHook) {
	defer func() {
		if p := recover(); p != nil {
			logger.Error("post-commit hook panicked",
				zap.String("unit", unit),
				zap.String("hook", hook.name),
				zap.Any("panic", p))
		}
	}()
	if err := hook.fn(ctx); err != nil {
		logger.Warn("post-commit hook failed",
			zap.String("unit", unit),
			zap.String("hook", hook.name),
			zap.Error(err))
	}
}

// TxObserver receives transaction timings.
type TxObserver interface {
	ObserveDBQuery(label string, duration time.Duration)
}

// Transactor opens units of work against a shared pool.
type Transactor struct {
	db       *sqlx.DB
	logger   *zap.Logger
	observer TxObserver
}

// NewTransactor constructs a Transactor. observer may be nil.
func NewTransactor(db *sqlx.DB, logger *zap.Logger, observer TxObserver) *Transactor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Transactor{db: db, logger: logger, observer: observer}
}

// Run executes fn inside a single transaction. Any error or panic from fn rolls
// the transaction back before it is returned (or re-raised). Commit hooks run
// against the caller's ctx after a successful commit. Nested calls join the
// outer unit of work.
func (t *Transactor) Run(ctx context.Context, name string, fn func(ctx context.Context, uow *UnitOfWork) error) (err error) {
	if outer, ok := ctx.Value(unitOfWorkKey{}).(*UnitOfWork); ok && outer != nil {
		return fn(ctx, outer)
	}

	start := time.Now()
	tx, err := t.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin %s transaction: %w", name, err)
	}
	uow := &UnitOfWork{name: name, tx: tx}
	txCtx := context.WithValue(ctx, unitOfWorkKey{}, uow)

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			t.logger.Error("transaction panicked, rolled back", zap.String("unit", name), zap.Any("panic", p))
			panic(p)
		}
	}()

	if err = fn(txCtx, uow); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			t.logger.Error("failed to rollback transaction", zap.String("unit", name), zap.Error(rbErr))
		}
		t.observe(name, start)
		return err
	}

	if err = tx.Commit(); err != nil {
		t.observe(name, start)
		return fmt.Errorf("commit %s transaction: %w", name, err)
	}
	t.observe(name, start)

	uow.RunHooks(ctx, t.logger)
	return nil
}

func (t *Transactor) observe(name string, start time.Time) {
	if t.observer != nil {
		t.observer.ObserveDBQuery("tx:"+name, time.Since(start))
	}
}

// Conn returns the transaction bound to ctx by Run, or db when none is active.
func Conn(ctx context.Context, db *sqlx.DB) sqlx.ExtContext {
	if uow, ok := ctx.Value(unitOfWorkKey{}).(*UnitOfWork); ok && uow != nil && uow.tx != nil {
		return uow.tx
	}
	return db
}
