package store

const Schema = `
CREATE TABLE IF NOT EXISTS trade (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	date DATETIME NOT NULL,
	name TEXT NOT NULL,
	type INTEGER NOT NULL DEFAULT 0,
	direction INTEGER NOT NULL DEFAULT 1,
	number REAL NOT NULL DEFAULT 0,
	price REAL NOT NULL DEFAULT 0,
	link TEXT NOT NULL DEFAULT '无'
);

CREATE TABLE IF NOT EXISTS note (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	date DATETIME NOT NULL,
	name TEXT NOT NULL,
	note TEXT NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS idx_trade_date ON trade(date);
`
