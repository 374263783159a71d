package storage

import (
	"database/sql"
	"fmt"

	_ "github.com/go-sql-driver/mysql"
	"go.uber.org/zap"
)

var mysqlSchema = []string{
	`CREATE TABLE IF NOT EXISTS medications (
		seq BIGINT AUTO_INCREMENT PRIMARY KEY,
		name VARCHAR(255) NOT NULL UNIQUE
	)`,
	`CREATE TABLE IF NOT EXISTS history (
		seq BIGINT AUTO_INCREMENT PRIMARY KEY,
		id CHAR(36) NOT NULL,
		drug1 VARCHAR(255) NOT NULL,
		drug2 VARCHAR(255) NOT NULL,
		severity VARCHAR(16) NOT NULL,
		summary TEXT NOT NULL,
		timestamp VARCHAR(40) NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS interaction_cache (
		pair_key VARCHAR(511) PRIMARY KEY,
		severity VARCHAR(16) NOT NULL,
		summary TEXT NOT NULL,
		timestamp VARCHAR(40) NOT NULL
	)`,
}

// NewMySQLStore connects to MySQL and creates the tables if needed
func NewMySQLStore(dsn string, logger *zap.Logger) (*SQLStore, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open MySQL database: %w", err)
	}

	// Test the connection
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to MySQL database: %w", err)
	}

	return newSQLStore(db, "MySQL", mysqlSchema, logger)
}
