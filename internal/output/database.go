// internal/output/database.go
package output

import (
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/go-sql-driver/mysql" // MySQL driver
	_ "github.com/lib/pq"              // PostgreSQL driver
	_ "github.com/mattn/go-sqlite3"    // SQLite driver

	"github.com/fundscope/lpcrawler/internal/config"
	"github.com/fundscope/lpcrawler/internal/scraper"
)

// DatabaseWriter archives records into a SQL table through database/sql.
// The driver comes from configuration, so the same sink serves an embedded
// sqlite3 file, a MySQL server or a PostgreSQL server.
type DatabaseWriter struct {
	db     *sql.DB
	driver string
	table  string
}

// NewDatabaseWriter opens the configured database and ensures the archive
// table exists.
func NewDatabaseWriter(cfg *config.DatabaseConfig) (*DatabaseWriter, error) {
	db, err := sql.Open(cfg.Driver, cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database: %w", cfg.Driver, err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping %s database: %w", cfg.Driver, err)
	}
	if cfg.Driver == "sqlite3" {
		// SQLite works best with a single writer connection.
		db.SetMaxOpenConns(1)
	}

	w := &DatabaseWriter{db: db, driver: cfg.Driver, table: cfg.Table}
	if err := w.ensureTable(); err != nil {
		db.Close()
		return nil, err
	}
	return w, nil
}

func (w *DatabaseWriter) ensureTable() error {
	textType := "TEXT"
	if w.driver == "mysql" {
		// MySQL TEXT columns cannot be primary keys; descriptions need room.
		textType = "VARCHAR(2048)"
	}
	query := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
		fund_name %[2]s,
		fund_url %[2]s,
		aum %[2]s,
		linkedin_url %[2]s,
		investment_geographies %[2]s,
		fund_description %[2]s,
		fund_portfolio %[2]s
	)`, w.table, textType)

	if _, err := w.db.Exec(query); err != nil {
		return fmt.Errorf("failed to create table %s: %w", w.table, err)
	}
	return nil
}

// placeholders returns the parameter markers for n columns in the dialect
// the open driver speaks.
func (w *DatabaseWriter) placeholders(n int) string {
	marks := make([]string, n)
	for i := range marks {
		if w.driver == "postgres" {
			marks[i] = fmt.Sprintf("$%d", i+1)
		} else {
			marks[i] = "?"
		}
	}
	return strings.Join(marks, ", ")
}

// Write inserts one record row
func (w *DatabaseWriter) Write(rec *scraper.FundRecord) error {
	query := fmt.Sprintf(`INSERT INTO %s (
		fund_name, fund_url, aum, linkedin_url,
		investment_geographies, fund_description, fund_portfolio
	) VALUES (%s)`, w.table, w.placeholders(7))

	_, err := w.db.Exec(query,
		rec.FundName,
		rec.FundURL,
		rec.AUM,
		rec.LinkedInURL,
		rec.Geographies,
		rec.Description,
		rec.Portfolio,
	)
	if err != nil {
		return fmt.Errorf("failed to insert record: %w", err)
	}
	return nil
}

// Close closes the database connection
func (w *DatabaseWriter) Close() error {
	return w.db.Close()
}
