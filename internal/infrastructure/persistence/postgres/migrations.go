package postgres

// ══════════════════════════════════════════════════════════════════════════════
// EMBEDDED MIGRATIONS
// ══════════════════════════════════════════════════════════════════════════════

// GetMigrations returns all embedded migrations in order.
func GetMigrations() []Migration {
	return []Migration{
		{
			Version: 1,
			Name:    "create_enrollments",
			UpSQL:   migration001Up,
			DownSQL: migration001Down,
		},
		{
			Version: 2,
			Name:    "create_learning_records",
			UpSQL:   migration002Up,
			DownSQL: migration002Down,
		},
		{
			Version: 3,
			Name:    "create_predictions",
			UpSQL:   migration003Up,
			DownSQL: migration003Down,
		},
	}
}

const migration001Up = `
CREATE TABLE IF NOT EXISTS enrollments (
	student_id  UUID NOT NULL,
	course_id   TEXT NOT NULL,
	enrolled_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	active      BOOLEAN NOT NULL DEFAULT TRUE,
	PRIMARY KEY (student_id, course_id)
);

CREATE INDEX IF NOT EXISTS idx_enrollments_course
	ON enrollments (course_id) WHERE active;
`

const migration001Down = `
DROP TABLE IF EXISTS enrollments;
`

const migration002Up = `
CREATE TABLE IF NOT EXISTS activity_events (
	id            UUID PRIMARY KEY,
	student_id    UUID NOT NULL,
	course_id     TEXT NOT NULL DEFAULT '',
	activity_type TEXT NOT NULL,
	occurred_at   TIMESTAMPTZ NOT NULL,
	duration_secs BIGINT NOT NULL DEFAULT 0,
	score         DOUBLE PRECISION,
	difficulty    SMALLINT,
	deadline      TIMESTAMPTZ,
	submitted_at  TIMESTAMPTZ,
	metadata      JSONB NOT NULL DEFAULT '{}'::jsonb
);

CREATE INDEX IF NOT EXISTS idx_activity_events_student_time
	ON activity_events (student_id, occurred_at);

CREATE TABLE IF NOT EXISTS session_records (
	id            UUID PRIMARY KEY,
	student_id    UUID NOT NULL,
	started_at    TIMESTAMPTZ NOT NULL,
	duration_secs BIGINT NOT NULL DEFAULT 0
);

CREATE INDEX IF NOT EXISTS idx_session_records_student_time
	ON session_records (student_id, started_at);

CREATE TABLE IF NOT EXISTS daily_analytics (
	student_id       UUID NOT NULL,
	course_id        TEXT NOT NULL DEFAULT '',
	day              DATE NOT NULL,
	engagement_score DOUBLE PRECISION NOT NULL DEFAULT 0,
	avg_quiz_score   DOUBLE PRECISION,
	time_spent_secs  BIGINT NOT NULL DEFAULT 0,
	activity_count   INTEGER NOT NULL DEFAULT 0,
	PRIMARY KEY (student_id, course_id, day)
);

CREATE INDEX IF NOT EXISTS idx_daily_analytics_student_day
	ON daily_analytics (student_id, day);
`

const migration002Down = `
DROP TABLE IF EXISTS daily_analytics;
DROP TABLE IF EXISTS session_records;
DROP TABLE IF EXISTS activity_events;
`

const migration003Up = `
CREATE TABLE IF NOT EXISTS predictions (
	id           UUID PRIMARY KEY,
	student_id   UUID NOT NULL,
	course_id    TEXT NOT NULL DEFAULT '',
	risk_score   DOUBLE PRECISION NOT NULL,
	risk_level   TEXT NOT NULL,
	confidence   DOUBLE PRECISION NOT NULL,
	payload      JSONB NOT NULL,
	generated_at TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_predictions_student_generated
	ON predictions (student_id, course_id, generated_at DESC);

CREATE INDEX IF NOT EXISTS idx_predictions_level
	ON predictions (risk_level, generated_at DESC);
`

const migration003Down = `
DROP TABLE IF EXISTS predictions;
`
