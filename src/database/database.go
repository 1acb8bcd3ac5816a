package database

import (
	"database/sql"
	stdlog "log"

	"github.com/canerthemaster123/receipto-tr-rewards-sub001/src/logger"
	_ "modernc.org/sqlite"
)

var DB *sql.DB

func InitDB(databasePath string) {
	db, err := sql.Open("sqlite", databasePath)
	if err != nil {
		stdlog.Fatalf("failed to open database at %s: %v", databasePath, err)
	}

	DB = db

	if logger.L != nil {
		logger.L.Info("Checking database migrations", "databasePath", databasePath)
	} else {
		stdlog.Println("Checking database migrations for:", databasePath)
	}
	migrateStoreLocations()
	migrateReceipts()

	createTableStatement := `
	CREATE TABLE IF NOT EXISTS users (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		username TEXT NOT NULL UNIQUE,
		password TEXT NOT NULL,
		email TEXT NOT NULL UNIQUE,
		is_admin BOOLEAN DEFAULT FALSE,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS sessions (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id INTEGER NOT NULL,
		token TEXT NOT NULL,
		refresh_token TEXT NOT NULL,
		user_agent TEXT,
		client_ip TEXT,
		is_blocked BOOLEAN DEFAULT FALSE,
		expires_at TIMESTAMP,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY(user_id) REFERENCES users(id)
	);

	CREATE TABLE IF NOT EXISTS chain_mappings (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		raw_merchant_pattern TEXT NOT NULL,
		chain_group TEXT NOT NULL,
		priority INTEGER NOT NULL DEFAULT 0,
		active BOOLEAN NOT NULL DEFAULT TRUE,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS store_locations (
		id TEXT PRIMARY KEY,
		chain_group TEXT NOT NULL,
		city TEXT NOT NULL DEFAULT '',
		district TEXT NOT NULL DEFAULT '',
		neighborhood TEXT NOT NULL DEFAULT '',
		street TEXT NOT NULL DEFAULT '',
		lat REAL,
		lng REAL,
		geo_cell TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		UNIQUE(chain_group, city, district, neighborhood)
	);

	CREATE TABLE IF NOT EXISTS receipts (
		id TEXT PRIMARY KEY,
		user_id INTEGER NOT NULL,
		merchant_raw TEXT,
		merchant_brand TEXT,
		chain_group TEXT,
		store_id TEXT,
		purchase_date TEXT,
		purchase_time TEXT,
		store_address TEXT,
		total TEXT NOT NULL DEFAULT '0',
		payment_method TEXT,
		receipt_unique_no TEXT,
		fis_no TEXT,
		image_url TEXT,
		raw_text TEXT NOT NULL,
		hash_id TEXT NOT NULL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY(user_id) REFERENCES users(id),
		FOREIGN KEY(store_id) REFERENCES store_locations(id),
		UNIQUE(user_id, hash_id)
	);

	CREATE TABLE IF NOT EXISTS receipt_items (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		receipt_id TEXT NOT NULL,
		position INTEGER NOT NULL,
		name TEXT NOT NULL,
		qty TEXT,
		unit_price TEXT,
		line_total TEXT,
		product_code TEXT,
		raw_line TEXT NOT NULL,
		FOREIGN KEY(receipt_id) REFERENCES receipts(id)
	);

	CREATE INDEX IF NOT EXISTS idx_receipts_user ON receipts(user_id, created_at);
	CREATE INDEX IF NOT EXISTS idx_receipt_items_receipt ON receipt_items(receipt_id, position);
	CREATE INDEX IF NOT EXISTS idx_store_locations_chain ON store_locations(chain_group);
	`

	_, err = DB.Exec(createTableStatement)
	if err != nil {
		if logger.L != nil {
			logger.L.Error("failed to create tables", "error", err)
		}
		stdlog.Fatalf("failed to create tables: %v", err)
	}
	if logger.L != nil {
		logger.L.Info("Database tables ensured/created.")
	} else {
		stdlog.Println("Database tables ensured/created.")
	}
}

func tableColumns(table string) (map[string]bool, bool) {
	var name string
	err := DB.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&name)
	if err != nil {
		if err != sql.ErrNoRows {
			stdlog.Printf("Error checking for %q table: %v", table, err)
		}
		return nil, false
	}

	rows, err := DB.Query("PRAGMA table_info(" + table + ")")
	if err != nil {
		stdlog.Printf("Error querying table schema for %q: %v", table, err)
		return nil, false
	}
	defer rows.Close()

	columns := make(map[string]bool)
	for rows.Next() {
		var cid, pk int
		var colName, dataType string
		var notnullVal int
		var dfltValue interface{}
		if err := rows.Scan(&cid, &colName, &dataType, &notnullVal, &dfltValue, &pk); err != nil {
			stdlog.Printf("Error scanning column info for %q: %v", table, err)
			return nil, false
		}
		columns[colName] = true
	}
	if err := rows.Err(); err != nil {
		stdlog.Printf("Error iterating over column info for %q: %v", table, err)
		return nil, false
	}
	return columns, true
}

func addColumnIfMissing(table, column, definition string, existing map[string]bool) {
	if existing[column] {
		return
	}
	_, err := DB.Exec("ALTER TABLE " + table + " ADD COLUMN " + column + " " + definition)
	if err != nil {
		if logger.L != nil {
			logger.L.Error("Error adding column", "table", table, "column", column, "error", err)
		} else {
			stdlog.Printf("Error adding %q column to %q: %v", column, table, err)
		}
		return
	}
	if logger.L != nil {
		logger.L.Info("Added column", "table", table, "column", column)
	} else {
		stdlog.Printf("Added %q column to %q", column, table)
	}
}

// geo_cell arrived after the first deployments; older databases get the
// column added in place.
func migrateStoreLocations() {
	columns, ok := tableColumns("store_locations")
	if !ok {
		return
	}
	addColumnIfMissing("store_locations", "geo_cell", "TEXT NOT NULL DEFAULT ''", columns)
}

// image_url and store_id came with the store resolver; same in-place
// treatment.
func migrateReceipts() {
	columns, ok := tableColumns("receipts")
	if !ok {
		return
	}
	addColumnIfMissing("receipts", "image_url", "TEXT", columns)
	addColumnIfMissing("receipts", "store_id", "TEXT", columns)
}
