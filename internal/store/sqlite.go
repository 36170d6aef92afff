package store

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

type Store struct {
	db *sql.DB
}

func New(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(`PRAGMA journal_mode=WAL; PRAGMA foreign_keys=ON;`); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply sqlite pragmas: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) AutoMigrate(ctx context.Context) error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS distribution_centers (
			id INTEGER PRIMARY KEY,
			name TEXT NOT NULL,
			latitude REAL NOT NULL,
			longitude REAL NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS products (
			id INTEGER PRIMARY KEY,
			cost REAL NOT NULL,
			category TEXT NOT NULL,
			name TEXT NOT NULL,
			brand TEXT NOT NULL,
			retail_price REAL NOT NULL,
			department TEXT NOT NULL,
			sku TEXT NOT NULL,
			distribution_center_id INTEGER,
			FOREIGN KEY(distribution_center_id) REFERENCES distribution_centers(id)
		);`,
		`CREATE TABLE IF NOT EXISTS inventory_items (
			id INTEGER PRIMARY KEY,
			product_id INTEGER NOT NULL,
			created_at TEXT NOT NULL DEFAULT (datetime('now')),
			sold_at TEXT,
			cost REAL NOT NULL,
			product_category TEXT NOT NULL,
			product_name TEXT NOT NULL,
			product_brand TEXT NOT NULL,
			product_retail_price REAL NOT NULL,
			product_department TEXT NOT NULL,
			product_sku TEXT NOT NULL,
			product_distribution_center_id INTEGER,
			FOREIGN KEY(product_id) REFERENCES products(id)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_inventory_items_product_sold
			ON inventory_items(product_id, sold_at);`,
		`CREATE TABLE IF NOT EXISTS users (
			id INTEGER PRIMARY KEY,
			first_name TEXT NOT NULL,
			last_name TEXT NOT NULL,
			email TEXT NOT NULL UNIQUE,
			age INTEGER,
			gender TEXT,
			state TEXT,
			street_address TEXT,
			postal_code TEXT,
			city TEXT,
			country TEXT,
			latitude REAL,
			longitude REAL,
			traffic_source TEXT,
			created_at TEXT NOT NULL DEFAULT (datetime('now'))
		);`,
		`CREATE TABLE IF NOT EXISTS orders (
			order_id INTEGER PRIMARY KEY,
			user_id INTEGER NOT NULL,
			status TEXT NOT NULL,
			gender TEXT,
			created_at TEXT NOT NULL DEFAULT (datetime('now')),
			returned_at TEXT,
			shipped_at TEXT,
			delivered_at TEXT,
			num_of_item INTEGER NOT NULL,
			FOREIGN KEY(user_id) REFERENCES users(id)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_orders_user_created
			ON orders(user_id, created_at);`,
		`CREATE TABLE IF NOT EXISTS order_items (
			id INTEGER PRIMARY KEY,
			order_id INTEGER NOT NULL,
			user_id INTEGER NOT NULL,
			product_id INTEGER NOT NULL,
			inventory_item_id INTEGER,
			status TEXT NOT NULL,
			created_at TEXT NOT NULL DEFAULT (datetime('now')),
			shipped_at TEXT,
			delivered_at TEXT,
			returned_at TEXT,
			FOREIGN KEY(order_id) REFERENCES orders(order_id),
			FOREIGN KEY(user_id) REFERENCES users(id),
			FOREIGN KEY(product_id) REFERENCES products(id),
			FOREIGN KEY(inventory_item_id) REFERENCES inventory_items(id)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_order_items_order
			ON order_items(order_id);`,
		`CREATE INDEX IF NOT EXISTS idx_order_items_product
			ON order_items(product_id);`,
		`CREATE TABLE IF NOT EXISTS chat_sessions (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id INTEGER NOT NULL,
			session_id TEXT NOT NULL UNIQUE,
			created_at TEXT NOT NULL DEFAULT (datetime('now')),
			is_active INTEGER NOT NULL DEFAULT 1
		);`,
		`CREATE TABLE IF NOT EXISTS chat_messages (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			session_id INTEGER NOT NULL,
			message_type TEXT NOT NULL,
			content TEXT NOT NULL,
			timestamp TEXT NOT NULL DEFAULT (datetime('now')),
			FOREIGN KEY(session_id) REFERENCES chat_sessions(id) ON DELETE CASCADE
		);`,
		`CREATE INDEX IF NOT EXISTS idx_chat_messages_session
			ON chat_messages(session_id, timestamp, id);`,
	}

	for _, query := range queries {
		if _, err := s.db.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("migrate schema: %w", err)
		}
	}
	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Store) Close() error {
	return s.db.Close()
}
