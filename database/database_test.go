package database

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"gorm.io/gorm"

	"github.com/kbukum/voicy/component"
	apperrors "github.com/kbukum/voicy/errors"
)

type widget struct {
	Record
	Name string `gorm:"uniqueIndex"`
}

func memoryConfig(t *testing.T) Config {
	return Config{
		Enabled:     true,
		DSN:         fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name()),
		AutoMigrate: true,
		LogLevel:    "silent",
	}
}

func startComponent(t *testing.T) *Component {
	t.Helper()
	c := NewComponent(memoryConfig(t)).WithAutoMigrate(&widget{})
	if err := c.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	t.Cleanup(func() { _ = c.Stop(context.Background()) })
	return c
}

func TestComponentLifecycle(t *testing.T) {
	c := NewComponent(memoryConfig(t))
	if h := c.Health(context.Background()); h.Status != component.StatusUnhealthy {
		t.Errorf("health before start = %s", h.Status)
	}
	if err := c.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if h := c.Health(context.Background()); h.Status != component.StatusHealthy {
		t.Errorf("health after start = %+v", h)
	}
	if err := c.Stop(context.Background()); err != nil {
		t.Fatalf("Stop: %v", err)
	}
	if err := c.DB().Close(); err != nil {
		t.Errorf("second Close: %v", err)
	}
}

func TestAutoMigrateAndUUID(t *testing.T) {
	db := startComponent(t).DB()
	ctx := context.Background()

	w := widget{Name: "a"}
	if err := db.WithContext(ctx).Create(&w).Error; err != nil {
		t.Fatalf("Create: %v", err)
	}
	if w.ID.String() == "00000000-0000-0000-0000-000000000000" {
		t.Error("expected a generated id")
	}
	var got widget
	if err := db.WithContext(ctx).First(&got, "id = ?", w.ID).Error; err != nil || got.Name != "a" {
		t.Errorf("First = %+v, %v", got, err)
	}
}

func TestTransact(t *testing.T) {
	db := startComponent(t).DB()
	ctx := context.Background()

	boom := errors.New("boom")
	err := db.Transact(ctx, func(tx *gorm.DB) error {
		if err := tx.Create(&widget{Name: "rolled"}).Error; err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v", err)
	}
	var n int64
	db.WithContext(ctx).Model(&widget{}).Count(&n)
	if n != 0 {
		t.Errorf("rollback left %d rows", n)
	}

	if err := db.Transact(ctx, func(tx *gorm.DB) error {
		return tx.Create(&widget{Name: "kept"}).Error
	}); err != nil {
		t.Fatalf("commit: %v", err)
	}
	db.WithContext(ctx).Model(&widget{}).Count(&n)
	if n != 1 {
		t.Errorf("expected 1 row, got %d", n)
	}
}

func TestOpenCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	c := NewComponent(memoryConfig(t))
	if err := c.Start(ctx); err == nil {
		t.Error("expected error for canceled context")
	}
}

func TestFromDatabase(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		code      apperrors.ErrorCode
		retryable bool
	}{
		{"not found", gorm.ErrRecordNotFound, apperrors.ErrCodeNotFound, false},
		{"duplicate", gorm.ErrDuplicatedKey, apperrors.ErrCodeAlreadyExists, false},
		{"locked", errors.New("database is locked"), apperrors.ErrCodeDatabaseError, true},
		{"other", errors.New("no such table: chats"), apperrors.ErrCodeDatabaseError, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FromDatabase(tt.err, "chat")
			if got.Code != tt.code || got.Retryable != tt.retryable {
				t.Errorf("got %s retryable=%v", got.Code, got.Retryable)
			}
			if !errors.Is(got, tt.err) {
				t.Error("cause not preserved")
			}
		})
	}
	if FromDatabase(nil, "chat") != nil {
		t.Error("nil error must map to nil")
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(*Config) {}, false},
		{"disabled skips checks", func(c *Config) { c.Enabled = false; c.Driver = "oracle" }, false},
		{"unknown driver", func(c *Config) { c.Driver = "oracle" }, true},
		{"idle above open", func(c *Config) { c.MaxIdleConns = 5 }, true},
		{"bad lifetime", func(c *Config) { c.ConnMaxLifetime = "forever" }, true},
		{"bad slow threshold", func(c *Config) { c.SlowQueryThreshold = "fast" }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Config{Enabled: true}
			cfg.ApplyDefaults()
			tt.mutate(&cfg)
			if err := cfg.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
