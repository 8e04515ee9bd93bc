package bunstore

import (
	"github.com/uptrace/bun"

	"github.com/xraph/batchwatch/record"
)

// ── Record model ──────────────────────────────────────────────────

type recordModel struct {
	bun.BaseModel `bun:"table:batchwatch_records,alias:r"`

	JobID         string `bun:"job_id,pk"`
	Timestamp     string `bun:"timestamp,notnull,default:''"`
	JobName       string `bun:"job_name,notnull,default:''"`
	Status        string `bun:"status,notnull,default:''"`
	JobQueue      string `bun:"job_queue,notnull,default:''"`
	JobDefinition string `bun:"job_definition,notnull,default:''"`
	Region        string `bun:"region,notnull,default:''"`
	Account       string `bun:"account,notnull,default:''"`
	StatusReason  string `bun:"status_reason,notnull,default:''"`
	FullEvent     string `bun:"full_event,notnull"`
	MediaID       string `bun:"media_id,nullzero"`
	TaskID        string `bun:"task_id,nullzero"`
	WorkspaceUID  string `bun:"workspace_uid,nullzero"`
	AssemblyID    string `bun:"assembly_id,nullzero"`
}

func toRecordModel(r *record.Record) *recordModel {
	return &recordModel{
		JobID:         pgText(r.JobID),
		Timestamp:     pgText(r.Timestamp),
		JobName:       pgText(r.JobName),
		Status:        pgText(string(r.Status)),
		JobQueue:      pgText(r.JobQueue),
		JobDefinition: pgText(r.JobDefinition),
		Region:        pgText(r.Region),
		Account:       pgText(r.Account),
		StatusReason:  pgText(r.StatusReason),
		FullEvent:     pgText(r.FullEvent),
		MediaID:       pgText(r.MediaID),
		TaskID:        pgText(r.TaskID),
		WorkspaceUID:  pgText(r.WorkspaceUID),
		AssemblyID:    pgText(r.AssemblyID),
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
