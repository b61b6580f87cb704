package testutil

import (
	"database/sql"
	"fmt"
	"testing"

	_ "github.com/go-sql-driver/mysql"
)

// SetupTestDB expects a MySQL database named 'cafetab_test' on
// localhost:3306; tests skip when it is not reachable.
func SetupTestDB(t *testing.T) *sql.DB {
	dsn := "root:@tcp(localhost:3306)/cafetab_test?parseTime=true"
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	if err := db.Ping(); err != nil {
		t.Skipf("test database not available: %v", err)
	}

	return db
}

func CleanupTestDB(t *testing.T, db *sql.DB) {
	if db == nil {
		return
	}

	tables := []string{"OrderItems", "Orders", "MenuItems", "Tables", "CafeSettings"}
	for _, table := range tables {
		if _, err := db.Exec(fmt.Sprintf("DELETE FROM %s", table)); err != nil {
			t.Logf("failed to clean table %s: %v", table, err)
		}
	}

	db.Close()
}

func SetupTestTables(t *testing.T, db *sql.DB) {
	createTablesTable := `
	CREATE TABLE IF NOT EXISTS Tables (
		id INT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
		number VARCHAR(20) NOT NULL,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`

	createMenuItemsTable := `
	CREATE TABLE IF NOT EXISTS MenuItems (
		id INT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
		name VARCHAR(255) NOT NULL,
		price DECIMAL(10,2) NOT NULL,
		category VARCHAR(100) NOT NULL DEFAULT '',
		image_url VARCHAR(500),
		is_available TINYINT(1) NOT NULL DEFAULT 1,
		display_order INT NOT NULL DEFAULT 0,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP
	)`

	createOrdersTable := `
	CREATE TABLE IF NOT EXISTS Orders (
		id INT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
		order_number VARCHAR(30) NOT NULL UNIQUE,
		table_id INT UNSIGNED NOT NULL,
		status VARCHAR(20) NOT NULL DEFAULT 'pending',
		payment_type VARCHAR(10),
		notes TEXT,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		INDEX idx_status_created (status, created_at)
	)`

	createOrderItemsTable := `
	CREATE TABLE IF NOT EXISTS OrderItems (
		id INT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
		order_id INT UNSIGNED NOT NULL,
		item_id INT UNSIGNED NOT NULL,
		name VARCHAR(255) NOT NULL,
		price DECIMAL(10,2) NOT NULL,
		quantity INT NOT NULL DEFAULT 1,
		category VARCHAR(100) NOT NULL DEFAULT '',
		image_url VARCHAR(500),
		note TEXT,
		FOREIGN KEY (order_id) REFERENCES Orders(id) ON DELETE CASCADE,
		INDEX idx_order (order_id)
	)`

	createCafeSettingsTable := `
	CREATE TABLE IF NOT EXISTS CafeSettings (
		id INT NOT NULL PRIMARY KEY,
		latitude DOUBLE NOT NULL,
		longitude DOUBLE NOT NULL,
		geofence_radius_m DOUBLE NOT NULL
	)`

	tables := []struct {
		name  string
		query string
	}{
		{"Tables", createTablesTable},
		{"MenuItems", createMenuItemsTable},
		{"Orders", createOrdersTable},
		{"OrderItems", createOrderItemsTable},
		{"CafeSettings", createCafeSettingsTable},
	}

	for _, tbl := range tables {
		if _, err := db.Exec(tbl.query); err != nil {
			t.Logf("failed to create table %s: %v", tbl.name, err)
		}
	}
}
