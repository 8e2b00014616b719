package store

// migration holds a single schema migration with its target version and SQL.
type migration struct {
	version int
	sql     string
}

// migrations is the ordered list of schema migrations.
// Each migration's version must be sequential starting from 1.
var migrations = []migration{
	{
		version: 1,
		sql: `
CREATE TABLE IF NOT EXISTS schema_version (
	version INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS kv (
	key        TEXT PRIMARY KEY,
	value      BLOB NOT NULL,
	updated_at INTEGER NOT NULL
);

INSERT INTO schema_version (version) VALUES (1);
`,
	},
	{
		version: 2,
		sql: `
CREATE TABLE IF NOT EXISTS notifications (
	id         TEXT PRIMARY KEY,
	title      TEXT NOT NULL,
	subtitle   TEXT NOT NULL DEFAULT '',
	body       TEXT NOT NULL DEFAULT '',
	fire_at    INTEGER NOT NULL,
	badge      INTEGER NOT NULL DEFAULT 1,
	created_at INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_notifications_fire_at ON notifications(fire_at);

INSERT INTO schema_version (version) VALUES (2);
`,
	},
}
