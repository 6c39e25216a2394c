package db

type DB interface {
	Init() error
	AddRun(run *Run) (int64, error)
	GetRuns(limit int) ([]*Run, error)
	GetRunsForDirectory(directory string) ([]*Run, error)
	Close() error
}
