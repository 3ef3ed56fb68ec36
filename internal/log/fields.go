package log

// Component names stamped on log records, one per process.
const (
	ComponentApp    = "app"
	ComponentWorker = "worker"
)
