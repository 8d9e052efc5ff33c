package database

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"go.uber.org/zap"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Migrator 基于内嵌 SQL 文件的 schema 迁移
type Migrator struct {
	m      *migrate.Migrate
	logger *zap.Logger
}

// SchemaVersion 当前 schema 版本；Version 为 0 且 Dirty 为 false 表示尚未迁移
type SchemaVersion struct {
	Version uint
	Dirty   bool
}

// NewMigrator 在已有连接上创建迁移器，不负责关闭 db
func NewMigrator(db *sql.DB, logger *zap.Logger) (*Migrator, error) {
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return nil, fmt.Errorf("加载迁移文件失败: %w", err)
	}
	drv, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return nil, fmt.Errorf("创建迁移驱动失败: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", src, "postgres", drv)
	if err != nil {
		return nil, fmt.Errorf("初始化迁移实例失败: %w", err)
	}
	return &Migrator{m: m, logger: logger}, nil
}

// Up 应用全部未执行的迁移；已是最新版本时不报错
func (mg *Migrator) Up() (SchemaVersion, error) {
	if err := mg.m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return SchemaVersion{}, fmt.Errorf("执行迁移失败: %w", err)
	}
	return mg.Version()
}

// Down 回滚 steps 个版本
func (mg *Migrator) Down(steps int) (SchemaVersion, error) {
	if steps <= 0 {
		return SchemaVersion{}, fmt.Errorf("回滚步数必须为正数: %d", steps)
	}
	if err := mg.m.Steps(-steps); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return SchemaVersion{}, fmt.Errorf("回滚迁移失败: %w", err)
	}
	return mg.Version()
}

// Version 读取 schema_migrations 中的版本
func (mg *Migrator) Version() (SchemaVersion, error) {
	v, dirty, err := mg.m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return SchemaVersion{}, nil
	}
	if err != nil {
		return SchemaVersion{}, fmt.Errorf("读取迁移版本失败: %w", err)
	}
	return SchemaVersion{Version: v, Dirty: dirty}, nil
}

// RunMigrations 服务启动时调用：迁移到最新版本并记录结果
func RunMigrations(db *sql.DB, logger *zap.Logger) error {
	mg, err := NewMigrator(db, logger)
	if err != nil {
		return err
	}
	sv, err := mg.Up()
	if err != nil {
		return err
	}
	if sv.Dirty {
		logger.Warn("数据库迁移处于 dirty 状态", zap.Uint("version", sv.Version))
		return nil
	}
	logger.Info("数据库迁移完成", zap.Uint("version", sv.Version))
	return nil
}
