package record

import (
	"fmt"

	"github.com/xraph/batchwatch"
)

// Record is the latest known state of a single batch job. The store keeps
// exactly one Record per JobID; every new event replaces it wholesale.
type Record struct {
	JobID         string `json:"jobId"                   msgpack:"jobId"`
	Timestamp     string `json:"timestamp"               msgpack:"timestamp"`
	JobName       string `json:"jobName"                 msgpack:"jobName"`
	Status        Status `json:"status"                  msgpack:"status"`
	JobQueue      string `json:"jobQueue"                msgpack:"jobQueue"`
	JobDefinition string `json:"jobDefinition"           msgpack:"jobDefinition"`
	Region        string `json:"region"                  msgpack:"region"`
	Account       string `json:"account"                 msgpack:"account"`
	StatusReason  string `json:"statusReason"            msgpack:"statusReason"`
	FullEvent     string `json:"fullEvent"               msgpack:"fullEvent"`
	MediaID       string `json:"media_id,omitempty"      msgpack:"media_id,omitempty"`
	TaskID        string `json:"task_id,omitempty"       msgpack:"task_id,omitempty"`
	WorkspaceUID  string `json:"workspace_uid,omitempty" msgpack:"workspace_uid,omitempty"`
	AssemblyID    string `json:"assembly_id,omitempty"   msgpack:"assembly_id,omitempty"`
}

// Validate reports whether r can be stored. The JobID is the store key and
// the scan cursor, so it must be non-empty.
func Validate(r *Record) error {
	if r == nil {
		return fmt.Errorf("%w: nil record", batchwatch.ErrInvalidRecord)
	}
	if r.JobID == "" {
		return fmt.Errorf("%w: empty job id", batchwatch.ErrInvalidRecord)
	}
	return nil
}

// Clone returns a copy of r. Records hold only value fields, so a shallow
// copy is independent of the original.
func (r *Record) Clone() *Record {
	if r == nil {
		return nil
	}
	cp := *r
	return &cp
}

// QueueName returns the queue name parsed from JobQueue.
func (r *Record) QueueName() string { return QueueName(r.JobQueue) }

// DefinitionName returns the job definition name parsed from JobDefinition.
func (r *Record) DefinitionName() string {
	name, _ := ParseDefinition(r.JobDefinition)
	return name
}

// TaskType returns the human task classification of the record.
func (r *Record) TaskType() string {
	return TaskType(r.QueueName(), r.DefinitionName())
}
