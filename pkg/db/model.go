package db

type Status string

const (
	StatusSuccess  Status = "success"
	StatusFailed   Status = "failed"
	StatusDeclined Status = "declined"
)

// Run is the outcome of processing one directory.
type Run struct {
	ID           int64
	Directory    string
	Archive      string
	Manifest     string
	OriginalSize int64
	ArchiveSize  int64
	Status       Status
	Message      string
	Created      int64
}
