package data

import "context"

var schema = []string{
	`CREATE TABLE IF NOT EXISTS reference_toc (
		code TEXT PRIMARY KEY,
		name TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS tiploc (
		tiploc_code     TEXT PRIMARY KEY,
		description     TEXT,
		tps_description TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS pex_event (
		timetable              TEXT NOT NULL,
		line_in_file           INTEGER NOT NULL,
		batch_id               TEXT NOT NULL,
		train_headcode         TEXT NOT NULL,
		operator_code          TEXT,
		tsc                    TEXT,
		train_speed_load       TEXT,
		run_type               TEXT NOT NULL,
		run_time_range         TEXT,
		from_time              TEXT,
		to_time                TEXT,
		from_code              TEXT,
		to_code                TEXT,
		route                  TEXT,
		running_line           TEXT,
		platform               TEXT,
		movement_type          TEXT,
		sectional_running_time DOUBLE PRECISION,
		runtime                DOUBLE PRECISION,
		dwell                  DOUBLE PRECISION,
		engineering_allowance  DOUBLE PRECISION,
		pathing_allowance      DOUBLE PRECISION,
		performance_allowance  DOUBLE PRECISION,
		adjustment_allowance   DOUBLE PRECISION,
		train_description      TEXT,
		PRIMARY KEY (timetable, line_in_file)
	)`,
}

// EnsureSchema creates the reference and event tables if they do not exist.
func (dc *DataClient) EnsureSchema(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := dc.pg.Exec(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
