package sessiondb

import (
	"github.com/BurntSushi/migration"
	"github.com/cyclopcam/dbh"
	"github.com/cyclopcam/logs"
)

func Migrations(log logs.Log) []migration.Migrator {
	migs := []migration.Migrator{}
	idx := 0

	migs = append(migs, dbh.MakeMigrationFromSQL(log, &idx,
		`
		CREATE TABLE session(
			id INTEGER PRIMARY KEY,
			uuid TEXT NOT NULL,
			start_time INT NOT NULL,
			duration INT NOT NULL,
			frames INT NOT NULL,
			state TEXT NOT NULL,
			emotion TEXT NOT NULL,
			confidence REAL NOT NULL,
			report BLOB
		);
		CREATE UNIQUE INDEX idx_session_uuid ON session(uuid);
		CREATE INDEX idx_session_start_time ON session(start_time);
	`))

	return migs
}
