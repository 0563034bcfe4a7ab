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

CREATE TABLE IF NOT EXISTS system_notifications (
	id         TEXT PRIMARY KEY,
	title      TEXT NOT NULL,
	message    TEXT NOT NULL,
	severity   TEXT NOT NULL DEFAULT 'INFORMATIONAL'
		CHECK(severity IN ('INFORMATIONAL', 'WARNING', 'CRITICAL')),
	start_date DATETIME NOT NULL,
	end_date   DATETIME,
	created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_system_notifications_start ON system_notifications(start_date);

INSERT INTO schema_version (version) VALUES (1);
`,
	},
	{
		version: 2,
		sql: `
CREATE INDEX IF NOT EXISTS idx_system_notifications_window
	ON system_notifications(start_date, end_date);

CREATE INDEX IF NOT EXISTS idx_system_notifications_severity
	ON system_notifications(severity);

INSERT INTO schema_version (version) VALUES (2);
`,
	},
}
