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

CREATE TABLE IF NOT EXISTS projects (
	id              TEXT PRIMARY KEY,
	title           TEXT NOT NULL DEFAULT '',
	detail          TEXT NOT NULL DEFAULT '',
	color           TEXT NOT NULL DEFAULT 'Light Blue',
	closed          INTEGER NOT NULL DEFAULT 0 CHECK(closed IN (0, 1)),
	creation_date   DATETIME NOT NULL,
	reminder_hour   INTEGER CHECK(reminder_hour BETWEEN 0 AND 23),
	reminder_minute INTEGER CHECK(reminder_minute BETWEEN 0 AND 59)
);

CREATE TABLE IF NOT EXISTS items (
	id            TEXT PRIMARY KEY,
	project_id    TEXT NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
	title         TEXT NOT NULL DEFAULT '',
	detail        TEXT NOT NULL DEFAULT '',
	completed     INTEGER NOT NULL DEFAULT 0 CHECK(completed IN (0, 1)),
	priority      INTEGER NOT NULL DEFAULT 1 CHECK(priority BETWEEN 1 AND 3),
	creation_date DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_items_project_id ON items(project_id);
CREATE INDEX IF NOT EXISTS idx_items_completed ON items(completed);
CREATE INDEX IF NOT EXISTS idx_projects_closed ON projects(closed);

CREATE TABLE IF NOT EXISTS settings (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL
);

INSERT INTO schema_version (version) VALUES (1);
`,
	},
	{
		version: 2,
		sql: `
CREATE TABLE IF NOT EXISTS search_index (
	id         TEXT PRIMARY KEY,
	domain     TEXT NOT NULL DEFAULT '',
	title      TEXT NOT NULL DEFAULT '',
	content    TEXT NOT NULL DEFAULT '',
	updated_at DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_search_index_domain ON search_index(domain);

INSERT INTO schema_version (version) VALUES (2);
`,
	},
	{
		version: 3,
		sql: `
CREATE TABLE IF NOT EXISTS notification_requests (
	id         TEXT PRIMARY KEY,
	title      TEXT NOT NULL DEFAULT '',
	subtitle   TEXT NOT NULL DEFAULT '',
	sound      INTEGER NOT NULL DEFAULT 1 CHECK(sound IN (0, 1)),
	hour       INTEGER NOT NULL CHECK(hour BETWEEN 0 AND 23),
	minute     INTEGER NOT NULL CHECK(minute BETWEEN 0 AND 59),
	repeats    INTEGER NOT NULL DEFAULT 1 CHECK(repeats IN (0, 1)),
	created_at DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS notification_authorization (
	id     INTEGER PRIMARY KEY CHECK(id = 1),
	status TEXT NOT NULL
);

INSERT INTO schema_version (version) VALUES (3);
`,
	},
}
