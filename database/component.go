package database

import (
	"context"
	"fmt"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/kbukum/voicy/component"
	"github.com/kbukum/voicy/logger"
)

var _ component.Component = (*Component)(nil)
var _ component.Describable = (*Component)(nil)

// Component wraps DB for registry lifecycle management.
type Component struct {
	db     *DB
	cfg    Config
	log    *logger.Logger
	models []any
	open   func(dsn string) gorm.Dialector
}

// NewComponent creates a database component. The sqlite driver is used
// unless WithDriver overrides it.
func NewComponent(cfg Config) *Component {
	cfg.ApplyDefaults()
	return &Component{
		cfg:  cfg,
		log:  logger.Get("database"),
		open: sqlite.Open,
	}
}

// WithDriver replaces the dialector constructor.
func (c *Component) WithDriver(open func(dsn string) gorm.Dialector) *Component {
	c.open = open
	return c
}

// WithAutoMigrate registers models migrated on Start when AutoMigrate is set.
func (c *Component) WithAutoMigrate(models ...any) *Component {
	c.models = append(c.models, models...)
	return c
}

// DB returns the underlying *DB, or nil before Start.
func (c *Component) DB() *DB {
	return c.db
}

// Name implements component.Component.
func (c *Component) Name() string { return "database" }

// Start connects and runs auto-migration.
func (c *Component) Start(ctx context.Context) error {
	db, err := Open(ctx, c.open(c.cfg.DSN), c.cfg, c.log)
	if err != nil {
		return fmt.Errorf("database start: %w", err)
	}
	c.db = db

	if c.cfg.AutoMigrate && len(c.models) > 0 {
		if err := c.db.AutoMigrate(c.models...); err != nil {
			return fmt.Errorf("database auto-migrate: %w", err)
		}
	}
	return nil
}

// Stop closes the connection pool.
func (c *Component) Stop(_ context.Context) error {
	if c.db == nil {
		return nil
	}
	return c.db.Close()
}

// Health pings the database.
func (c *Component) Health(ctx context.Context) component.Health {
	var ping func(context.Context) error
	if c.db != nil {
		ping = c.db.PingContext
	}
	return component.Check(ctx, c.Name(), ping)
}

// Describe implements component.Describable.
func (c *Component) Describe() component.Description {
	details := fmt.Sprintf("%s %s", c.cfg.Driver, c.cfg.DSN)
	if c.cfg.AutoMigrate {
		details += " auto-migrate=on"
	}
	return component.Description{Name: "Database", Type: "database", Details: details}
}
