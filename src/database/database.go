package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"
	"github.com/sirupsen/logrus"
)

// DB represents the hosted store connection
type DB struct {
	*sql.DB
	logger *logrus.Logger
}

// NewDB opens a connection to the hosted store using the configured endpoint DSN
func NewDB(endpoint string, logger *logrus.Logger) (*DB, error) {
	db, err := sql.Open("postgres", endpoint)
	if err != nil {
		return nil, fmt.Errorf("failed to open store connection: %w", err)
	}

	// 接続をテスト
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping store: %w", err)
	}

	// 接続プールの設定
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(5 * time.Minute)

	logger.Info("ストアに接続しました")

	return &DB{
		DB:     db,
		logger: logger,
	}, nil
}

// Close closes the store connection
func (db *DB) Close() error {
	db.logger.Info("ストア接続を閉じています")
	return db.DB.Close()
}

// Health checks store health
func (db *DB) Health() error {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	return db.PingContext(ctx)
}
