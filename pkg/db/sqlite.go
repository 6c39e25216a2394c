package db

import (
	"database/sql"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog/log"
)

func NewSQLLite(dbpath string) (*SQLLiteDB, error) {
	rawDB, err := sql.Open("sqlite3", dbpath)
	if err != nil {
		return nil, err
	}
	return &SQLLiteDB{rawDB: rawDB}, nil
}

type SQLLiteDB struct {
	rawDB *sql.DB
}

var _ DB = (*SQLLiteDB)(nil)

func (db *SQLLiteDB) runStatement(sql string) (sql.Result, error) {
	statement, err := db.rawDB.Prepare(sql)
	if err != nil {
		return nil, err
	}
	defer statement.Close()
	return statement.Exec()
}

func (db *SQLLiteDB) Init() (err error) {
	_, err = db.runStatement(
		"CREATE TABLE IF NOT EXISTS runs (" +
			"id INTEGER PRIMARY KEY AUTOINCREMENT, " +
			"directory TEXT NOT NULL, " +
			"archive TEXT, " +
			"manifest TEXT, " +
			"original_size INTEGER, " +
			"archive_size INTEGER, " +
			"status TEXT NOT NULL, " +
			"message TEXT, " +
			"created INTEGER" +
			")")
	if err != nil {
		return err
	}
	log.Debug().Msg("Created runs table")

	_, err = db.runStatement("CREATE INDEX IF NOT EXISTS runs_directory ON runs (directory)")
	return err
}

func (db *SQLLiteDB) AddRun(run *Run) (int64, error) {
	if run.Created == 0 {
		run.Created = time.Now().Unix()
	}
	result, err := db.rawDB.Exec("INSERT INTO runs (directory, archive, manifest, original_size, archive_size, status, message, created) VALUES(?, ?, ?, ?, ?, ?, ?, ?)",
		run.Directory, run.Archive, run.Manifest, run.OriginalSize, run.ArchiveSize, string(run.Status), run.Message, run.Created)
	if err != nil {
		return -1, err
	}

	run.ID, err = result.LastInsertId()
	log.Debug().Int64("id", run.ID).Str("directory", run.Directory).Str("status", string(run.Status)).Msg("run recorded")
	return run.ID, err
}

const runColumns = "id, directory, archive, manifest, original_size, archive_size, status, message, created"

func (db *SQLLiteDB) GetRuns(limit int) ([]*Run, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := db.rawDB.Query("SELECT "+runColumns+" FROM runs ORDER BY created DESC, id DESC LIMIT ?", limit)
	if err != nil {
		return nil, err
	}
	return scanRuns(rows)
}

func (db *SQLLiteDB) GetRunsForDirectory(directory string) ([]*Run, error) {
	rows, err := db.rawDB.Query("SELECT "+runColumns+" FROM runs WHERE directory=? ORDER BY created DESC, id DESC", directory)
	if err != nil {
		return nil, err
	}
	return scanRuns(rows)
}

func (db *SQLLiteDB) Close() error {
	return db.rawDB.Close()
}

func scanRuns(rows *sql.Rows) (runs []*Run, err error) {
	defer rows.Close()

	for rows.Next() {
		run := &Run{}
		var status string
		var archive, manifest, message sql.NullString
		var originalSize, archiveSize sql.NullInt64
		err := rows.Scan(&run.ID, &run.Directory, &archive, &manifest, &originalSize, &archiveSize, &status, &message, &run.Created)
		if err != nil {
			return nil, err
		}
		run.Archive = archive.String
		run.Manifest = manifest.String
		run.Message = message.String
		run.OriginalSize = originalSize.Int64
		run.ArchiveSize = archiveSize.Int64
		run.Status = Status(status)
		runs = append(runs, run)
	}
	return runs, rows.Err()
}
