package database

import (
	"database/sql"
	"fmt"
	"os"

	"fitclub_backend/pkg/utils"

	_ "github.com/lib/pq" // PostgreSQL driver
)

var db *sql.DB

// InitDB opens the connection pool and optionally applies the schema script.
func InitDB(host, port, user, password, dbname, sslmode, schemaPath string) error {
	connStr := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		host, port, user, password, dbname, sslmode)

	var err error
	db, err = sql.Open("postgres", connStr)
	if err != nil {
		return fmt.Errorf("error opening database: %w", err)
	}

	if err = db.Ping(); err != nil {
		return fmt.Errorf("error connecting to database: %w", err)
	}

	utils.LogInfo("Successfully connected to the database", map[string]interface{}{"host": host, "database": dbname})

	if err = applySchema(db, schemaPath); err != nil {
		return fmt.Errorf("error applying database schema: %w", err)
	}
	return nil
}

// applySchema reads and executes the schema SQL file. All statements use
// IF NOT EXISTS so re-running against an initialized database is a no-op.
func applySchema(db *sql.DB, schemaPath string) error {
	if schemaPath == "" {
		utils.LogInfo("No schema path provided, skipping schema application", nil)
		return nil
	}
	content, err := os.ReadFile(schemaPath)
	if err != nil {
		return fmt.Errorf("could not read schema file %s: %w", schemaPath, err)
	}

	if _, err = db.Exec(string(content)); err != nil {
		return fmt.Errorf("could not execute schema script: %w", err)
	}
	utils.LogInfo("Database schema applied", map[string]interface{}{"path": schemaPath})
	return nil
}

// GetDB returns the database connection pool.
func GetDB() *sql.DB {
	return db
}
