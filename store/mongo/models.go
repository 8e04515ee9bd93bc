package mongo

import "github.com/xraph/batchwatch/record"

// ── Record model ──────────────────────────────────────────────────

type recordModel struct {
	JobID         string `bson:"_id"`
	Timestamp     string `bson:"timestamp"`
	JobName       string `bson:"job_name"`
	Status        string `bson:"status"`
	JobQueue      string `bson:"job_queue"`
	JobDefinition string `bson:"job_definition"`
	Region        string `bson:"region"`
	Account       string `bson:"account"`
	StatusReason  string `bson:"status_reason"`
	FullEvent     string `bson:"full_event"`
	MediaID       string `bson:"media_id,omitempty"`
	TaskID        string `bson:"task_id,omitempty"`
	WorkspaceUID  string `bson:"workspace_uid,omitempty"`
	AssemblyID    string `bson:"assembly_id,omitempty"`
}

func toRecordModel(r *record.Record) *recordModel {
	return &recordModel{
		JobID:         r.JobID,
		Timestamp:     r.Timestamp,
		JobName:       r.JobName,
		Status:        string(r.Status),
		JobQueue:      r.JobQueue,
		JobDefinition: r.JobDefinition,
		Region:        r.Region,
		Account:       r.Account,
		StatusReason:  r.StatusReason,
		FullEvent:     r.FullEvent,
		MediaID:       r.MediaID,
		TaskID:        r.TaskID,
		WorkspaceUID:  r.WorkspaceUID,
		AssemblyID:    r.AssemblyID,
	}
}

func fromRecordModel(m *recordModel) *record.Record {
	return &record.Record{
		JobID:         m.JobID,
		Timestamp:     m.Timestamp,
		JobName:       m.JobName,
		Status:        record.Status(m.Status),
		JobQueue:      m.JobQueue,
		JobDefinition: m.JobDefinition,
		Region:        m.Region,
		Account:       m.Account,
		StatusReason:  m.StatusReason,
		FullEvent:     m.FullEvent,
		MediaID:       m.MediaID,
		TaskID:        m.TaskID,
		WorkspaceUID:  m.WorkspaceUID,
		AssemblyID:    m.AssemblyID,
	}
}
