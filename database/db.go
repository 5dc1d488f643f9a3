package database

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"gorm.io/gorm"

	"github.com/kbukum/voicy/logger"
)

// DB is an open GORM handle with its pool settings applied.
type DB struct {
	gorm *gorm.DB
	log  *logger.Logger

	closeOnce sync.Once
	closeErr  error
}

// Open connects through dialector. Failed attempts are retried after
// attempt*1s until cfg.MaxRetries is reached or ctx ends.
func Open(ctx context.Context, dialector gorm.Dialector, cfg Config, log *logger.Logger) (*DB, error) {
	cfg.ApplyDefaults()
	slow, _ := time.ParseDuration(cfg.SlowQueryThreshold)
	gcfg := &gorm.Config{Logger: newGormLogger(log, slow, parseLogLevel(cfg.LogLevel))}

	var lastErr error
	for attempt := 1; ; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("database open canceled: %w", err)
		}
		gdb, err := dial(ctx, dialector, gcfg, cfg)
		if err == nil {
			log.Info("database connected", logger.Fields("driver", cfg.Driver, "attempt", attempt))
			return &DB{gorm: gdb, log: log}, nil
		}
		lastErr = err
		if attempt >= cfg.MaxRetries {
			break
		}
		wait := time.Duration(attempt) * time.Second
		log.WithError(err).Warn("database connect failed", logger.Fields("attempt", attempt, "retry_in", wait.String()))
		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, fmt.Errorf("database open canceled: %w", ctx.Err())
		case <-timer.C:
		}
	}
	return nil, fmt.Errorf("database unreachable after %d attempts: %w", cfg.MaxRetries, lastErr)
}

func dial(ctx context.Context, dialector gorm.Dialector, gcfg *gorm.Config, cfg Config) (*gorm.DB, error) {
	gdb, err := gorm.Open(dialector, gcfg)
	if err != nil {
		return nil, err
	}
	pool, err := gdb.DB()
	if err != nil {
		return nil, err
	}
	if err := pool.PingContext(ctx); err != nil {
		_ = pool.Close()
		return nil, err
	}
	pool.SetMaxOpenConns(cfg.MaxOpenConns)
	pool.SetMaxIdleConns(cfg.MaxIdleConns)
	if d, err := time.ParseDuration(cfg.ConnMaxLifetime); err == nil {
		pool.SetConnMaxLifetime(d)
	}
	return gdb, nil
}

func (d *DB) pool() (*sql.DB, error) { return d.gorm.DB() }

// Close closes the pool once; later calls return the first result.
func (d *DB) Close() error {
	d.closeOnce.Do(func() {
		pool, err := d.pool()
		if err != nil {
			d.closeErr = err
			return
		}
		d.log.Info("database closed")
		d.closeErr = pool.Close()
	})
	return d.closeErr
}

// PingContext checks that a pooled connection answers.
func (d *DB) PingContext(ctx context.Context) error {
	pool, err := d.pool()
	if err != nil {
		return err
	}
	return pool.PingContext(ctx)
}

// WithContext returns a session bound to ctx.
func (d *DB) WithContext(ctx context.Context) *gorm.DB {
	return d.gorm.WithContext(ctx)
}

// AutoMigrate creates or alters the tables of models.
func (d *DB) AutoMigrate(models ...any) error {
	if err := d.gorm.AutoMigrate(models...); err != nil {
		return fmt.Errorf("auto-migrate: %w", err)
	}
	d.log.Debug("auto-migrate done", logger.Fields("models", len(models)))
	return nil
}

// Transact runs fn inside a transaction, committing when fn returns nil.
// A panic in fn rolls back before propagating.
func (d *DB) Transact(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return d.gorm.WithContext(ctx).Transaction(fn)
}
