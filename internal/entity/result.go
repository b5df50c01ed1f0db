package entity

// FileStatus is the terminal state of one file in a batch.
type FileStatus string

const (
	StatusArchived FileStatus = "ARCHIVED"
	StatusFailed   FileStatus = "FAILED"
)

// ProcessingResult is the per-file outcome of a batch run.
type ProcessingResult struct {
	SourcePath   string
	Status       FileStatus
	ArchivedPath string
	Err          string
}

// BatchSummary aggregates a batch's per-file outcomes.
type BatchSummary struct {
	Scanned   uint32
	Matched   uint32
	Processed uint32
	Failed    uint32
}
