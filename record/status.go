package record

// Status is the job status reported by the upstream producer. The set is
// open: values other than the constants below are valid and stored as-is.
type Status string

// Well-known statuses, in the order producers normally emit them:
//
//	SUBMITTED → PENDING → RUNNABLE → STARTING → RUNNING → SUCCEEDED | FAILED
//
// Nothing in this module enforces the order.
const (
	StatusSubmitted Status = "SUBMITTED"
	StatusPending   Status = "PENDING"
	StatusRunnable  Status = "RUNNABLE"
	StatusStarting  Status = "STARTING"
	StatusRunning   Status = "RUNNING"
	StatusSucceeded Status = "SUCCEEDED"
	StatusFailed    Status = "FAILED"
)

// Category groups statuses for presentation.
type Category string

const (
	CategorySuccess Category = "success"
	CategoryFailure Category = "failure"
	CategoryActive  Category = "active"
	CategoryQueued  Category = "queued"
	CategoryUnknown Category = "unknown"
)

// Category returns the presentation category of s. Statuses this package
// does not know map to CategoryUnknown.
func (s Status) Category() Category {
	switch s {
	case StatusSucceeded:
		return CategorySuccess
	case StatusFailed:
		return CategoryFailure
	case StatusRunning, StatusStarting:
		return CategoryActive
	case StatusSubmitted, StatusPending, StatusRunnable:
		return CategoryQueued
	default:
		return CategoryUnknown
	}
}

// Terminal reports whether s is a final status.
func (s Status) Terminal() bool {
	return s == StatusSucceeded || s == StatusFailed
}
