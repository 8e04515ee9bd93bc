package record

import "strings"

// Unknown is the placeholder used when a reference carries no usable name.
const Unknown = "Unknown"

// QueueName extracts the queue name from a queue reference such as
// "arn:aws:batch:eu-west-1:123:job-queue/orchestrator-standard-pre".
// References without a "/" are returned unchanged.
func QueueName(ref string) string {
	if ref == "" {
		return Unknown
	}
	if i := strings.LastIndex(ref, "/"); i >= 0 && i < len(ref)-1 {
		return ref[i+1:]
	}
	return ref
}

// ParseDefinition extracts the name and optional version from a job
// definition reference such as ".../job-definition/storage-pre-v2:129".
func ParseDefinition(ref string) (name, version string) {
	if ref == "" {
		return Unknown, ""
	}
	i := strings.LastIndex(ref, "/")
	if i < 0 || i == len(ref)-1 {
		return ref, ""
	}
	tail := ref[i+1:]
	if j := strings.Index(tail, ":"); j >= 0 {
		return tail[:j], tail[j+1:]
	}
	return tail, ""
}

// Task types.
const (
	TaskTypeIngest          = "Ingest"
	TaskTypeAssembly        = "Assembly (Zip Package)"
	TaskTypeTextRecognition = "Text Recognition"
	TaskTypeStorage         = "Storage"
)

// TaskType classifies a job from its queue and definition names. The queue
// name is consulted first; when neither name matches a known family the
// queue name is returned, or the definition name if the queue is Unknown.
func TaskType(queueName, definitionName string) string {
	q := strings.ToLower(queueName)
	switch {
	case strings.Contains(q, "orchestrator") && strings.Contains(q, "ingest"):
		return TaskTypeIngest
	case strings.Contains(q, "assembly"):
		return TaskTypeAssembly
	case strings.Contains(q, "text-recognition"), strings.Contains(q, "text_recognition"):
		return TaskTypeTextRecognition
	}

	d := strings.ToLower(definitionName)
	switch {
	case strings.Contains(d, "storage"):
		return TaskTypeStorage
	case strings.Contains(d, "assembly"):
		return TaskTypeAssembly
	case strings.Contains(d, "text") && strings.Contains(d, "recognition"):
		return TaskTypeTextRecognition
	case strings.Contains(d, "ingest"), strings.Contains(d, "orchestrator"):
		return TaskTypeIngest
	}

	if queueName != Unknown && queueName != "" {
		return queueName
	}
	return definitionName
}
