//go:build ignore

// One-shot schema bootstrap: applies scripts/db/01_schema.sql.
// Run from the repo root: go run scripts/create_tables.go
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"optitrack-data/internal/config"
	"optitrack-data/internal/database"

	_ "github.com/lib/pq"
)

func main() {
	cfg := config.Load()

	db, err := database.NewPostgresDB(&cfg.Database)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to connect to database: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	sqlFile := filepath.Join("scripts", "db", "01_schema.sql")
	sqlBytes, err := os.ReadFile(sqlFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to read SQL file: %v\n", err)
		os.Exit(1)
	}

	if _, err := db.Exec(string(sqlBytes)); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to execute SQL: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("optitrack-data tables created successfully")
}
