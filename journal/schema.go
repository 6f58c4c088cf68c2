// journal/schema.go
package journal

const Schema = `
CREATE TABLE IF NOT EXISTS trades (
	trade_id TEXT PRIMARY KEY,
	entry_datetime DATETIME NOT NULL,
	exit_datetime DATETIME NOT NULL,
	instrument TEXT NOT NULL,
	order_type TEXT NOT NULL,
	entry_price REAL NOT NULL,
	exit_price REAL NOT NULL,
	initial_stop_loss REAL NOT NULL,
	initial_take_profit REAL NOT NULL,
	position_size REAL NOT NULL,
	status TEXT NOT NULL,
	net_profit REAL NOT NULL,
	r_value REAL NOT NULL,
	rationale TEXT,
	review TEXT,
	emotions TEXT,
	tags TEXT,
	created_at DATETIME NOT NULL,
	updated_at DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_trades_entry ON trades(entry_datetime);

CREATE TABLE IF NOT EXISTS trade_images (
	image_id TEXT PRIMARY KEY,
	trade_id TEXT NOT NULL REFERENCES trades(trade_id),
	image_path TEXT NOT NULL,
	image_type TEXT NOT NULL,
	description TEXT,
	created_at DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_trade_images_trade ON trade_images(trade_id);
`
