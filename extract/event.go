package extract

// Event is the view of an ingestion payload that strategies inspect.
type Event struct {
	// JobName is the job name, used by name-based strategies.
	JobName string

	// Fields holds explicit top-level fields: job detail fields, then
	// envelope fields for keys the detail does not carry.
	Fields map[string]string

	// Parameters is the job parameter bag.
	Parameters map[string]string

	// Tags is the job tag set.
	Tags map[string]string

	// Command is the container command line.
	Command []string
}
