// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	_ "github.com/go-sql-driver/mysql" // registers "mysql"
	_ "github.com/lib/pq"              // registers "postgres"
	_ "modernc.org/sqlite"             // registers "sqlite"

	"github.com/apalominor/lakehouse-challenge/internal/logger"
)

// Drivers accepted by NewSQLCatalog.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverMySQL    = "mysql"
)

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS catalog_tables (
		db_name VARCHAR(255) NOT NULL,
		table_name VARCHAR(255) NOT NULL,
		location TEXT NOT NULL,
		description TEXT NOT NULL,
		updated_at VARCHAR(40) NOT NULL,
		PRIMARY KEY (db_name, table_name)
	)`,
	`CREATE TABLE IF NOT EXISTS catalog_columns (
		db_name VARCHAR(255) NOT NULL,
		table_name VARCHAR(255) NOT NULL,
		ordinal INTEGER NOT NULL,
		column_name VARCHAR(255) NOT NULL,
		column_type VARCHAR(255) NOT NULL,
		partition_key INTEGER NOT NULL,
		PRIMARY KEY (db_name, table_name, column_name)
	)`,
	`CREATE TABLE IF NOT EXISTS catalog_partitions (
		db_name VARCHAR(255) NOT NULL,
		table_name VARCHAR(255) NOT NULL,
		part_name VARCHAR(255) NOT NULL,
		location TEXT NOT NULL,
		PRIMARY KEY (db_name, table_name, part_name)
	)`,
}

// SQLCatalog keeps table definitions in a relational metastore.
type SQLCatalog struct {
	db     *sql.DB
	driver string
	log    logger.Logger
	now    func() time.Time
}

// NewSQLCatalog opens dsn with driver and creates the metastore tables.
func NewSQLCatalog(ctx context.Context, driver, dsn string, log logger.Logger) (*SQLCatalog, error) {
	switch driver {
	case DriverSQLite, DriverPostgres, DriverMySQL:
	default:
		return nil, fmt.Errorf("unsupported catalog driver %q", driver)
	}
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", driver, err)
	}
	if driver == DriverSQLite {
		// one writer at a time
		db.SetMaxOpenConns(1)
	}
	if log == nil {
		log = logger.NopLogger
	}
	c := &SQLCatalog{db: db, driver: driver, log: log, now: time.Now}
	if err := c.migrate(ctx); err != nil {
		db.Close() //nolint:errcheck
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return c, nil
}

// Close closes the database connection.
func (c *SQLCatalog) Close() error {
	return c.db.Close()
}

func (c *SQLCatalog) migrate(ctx context.Context) error {
	for _, m := range migrations {
		if _, err := c.db.ExecContext(ctx, m); err != nil {
			return err
		}
	}
	return nil
}

// SyncTable implements Catalog. The table row and its columns are replaced
// and partitions are added, all in one transaction.
func (c *SQLCatalog) SyncTable(ctx context.Context, def TableDef) (err error) {
	if err := def.Validate(); err != nil {
		return err
	}
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() {
		if err != nil {
			tx.Rollback() //nolint:errcheck
		}
	}()

	exec := func(query string, args ...any) error {
		_, err := tx.ExecContext(ctx, c.rebind(query), args...)
		return err
	}

	if err = exec(`DELETE FROM catalog_tables WHERE db_name = ? AND table_name = ?`, def.Database, def.Name); err != nil {
		return fmt.Errorf("sync %s: %w", def.QualifiedName(), err)
	}
	if err = exec(`INSERT INTO catalog_tables (db_name, table_name, location, description, updated_at) VALUES (?, ?, ?, ?, ?)`,
		def.Database, def.Name, def.Location, def.Description, c.now().UTC().Format(time.RFC3339)); err != nil {
		return fmt.Errorf("sync %s: %w", def.QualifiedName(), err)
	}

	if err = exec(`DELETE FROM catalog_columns WHERE db_name = ? AND table_name = ?`, def.Database, def.Name); err != nil {
		return fmt.Errorf("sync columns of %s: %w", def.QualifiedName(), err)
	}
	ordinal := 0
	for _, set := range []struct {
		cols []Column
		key  int
	}{{def.Columns, 0}, {def.PartitionKeys, 1}} {
		for _, col := range set.cols {
			if err = exec(`INSERT INTO catalog_columns (db_name, table_name, ordinal, column_name, column_type, partition_key) VALUES (?, ?, ?, ?, ?, ?)`,
				def.Database, def.Name, ordinal, col.Name, col.Type, set.key); err != nil {
				return fmt.Errorf("sync column %s of %s: %w", col.Name, def.QualifiedName(), err)
			}
			ordinal++
		}
	}

	if def.ReplacePartitions {
		if err = exec(`DELETE FROM catalog_partitions WHERE db_name = ? AND table_name = ?`, def.Database, def.Name); err != nil {
			return fmt.Errorf("sync partitions of %s: %w", def.QualifiedName(), err)
		}
	}
	for _, p := range def.Partitions {
		name := def.PartitionName(p)
		if err = exec(`DELETE FROM catalog_partitions WHERE db_name = ? AND table_name = ? AND part_name = ?`, def.Database, def.Name, name); err != nil {
			return fmt.Errorf("sync partition %s of %s: %w", name, def.QualifiedName(), err)
		}
		if err = exec(`INSERT INTO catalog_partitions (db_name, table_name, part_name, location) VALUES (?, ?, ?, ?)`,
			def.Database, def.Name, name, p.Location); err != nil {
			return fmt.Errorf("sync partition %s of %s: %w", name, def.QualifiedName(), err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	c.log.Infof("synchronized %s (%d partitions)", def.QualifiedName(), len(def.Partitions))
	return nil
}

// Columns returns the stored columns of a table in ordinal order.
func (c *SQLCatalog) Columns(ctx context.Context, database, table string) (cols, keys []Column, err error) {
	rows, err := c.db.QueryContext(ctx, c.rebind(
		`SELECT column_name, column_type, partition_key FROM catalog_columns WHERE db_name = ? AND table_name = ? ORDER BY ordinal`),
		database, table)
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close() //nolint:errcheck
	for rows.Next() {
		var col Column
		var key int
		if err := rows.Scan(&col.Name, &col.Type, &key); err != nil {
			return nil, nil, err
		}
		if key == 1 {
			keys = append(keys, col)
		} else {
			cols = append(cols, col)
		}
	}
	return cols, keys, rows.Err()
}

// Partitions returns the registered partition names of a table, sorted.
func (c *SQLCatalog) Partitions(ctx context.Context, database, table string) ([]string, error) {
	rows, err := c.db.QueryContext(ctx, c.rebind(
		`SELECT part_name FROM catalog_partitions WHERE db_name = ? AND table_name = ? ORDER BY part_name`),
		database, table)
	if err != nil {
		return nil, err
	}
	defer rows.Close() //nolint:errcheck
	var names []string
	for rows.Next() {
		var n string
		if err := rows.Scan(&n); err != nil {
			return nil, err
		}
		names = append(names, n)
	}
	return names, rows.Err()
}

// rebind converts ? placeholders to the driver's style.
func (c *SQLCatalog) rebind(query string) string {
	if c.driver != DriverPostgres {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteString("$" + strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
