package sqlite

import (
	"database/sql"

	"github.com/xraph/batchwatch/record"
)

// recordColumns lists the table columns in scan order.
const recordColumns = `job_id, timestamp, job_name, status, job_queue, job_definition,
	region, account, status_reason, full_event,
	media_id, task_id, workspace_uid, assembly_id`

// recordRow mirrors one table row. Absent identifiers are NULL.
type recordRow struct {
	JobID         string
	Timestamp     string
	JobName       string
	Status        string
	JobQueue      string
	JobDefinition string
	Region        string
	Account       string
	StatusReason  string
	FullEvent     string
	MediaID       sql.NullString
	TaskID        sql.NullString
	WorkspaceUID  sql.NullString
	AssemblyID    sql.NullString
}

func (m *recordRow) dest() []any {
	return []any{
		&m.JobID, &m.Timestamp, &m.JobName, &m.Status, &m.JobQueue, &m.JobDefinition,
		&m.Region, &m.Account, &m.StatusReason, &m.FullEvent,
		&m.MediaID, &m.TaskID, &m.WorkspaceUID, &m.AssemblyID,
	}
}

func (m *recordRow) args() []any {
	return []any{
		m.JobID, m.Timestamp, m.JobName, m.Status, m.JobQueue, m.JobDefinition,
		m.Region, m.Account, m.StatusReason, m.FullEvent,
		m.MediaID, m.TaskID, m.WorkspaceUID, m.AssemblyID,
	}
}

func toRecordRow(r *record.Record) *recordRow {
	return &recordRow{
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
		MediaID:       nullString(r.MediaID),
		TaskID:        nullString(r.TaskID),
		WorkspaceUID:  nullString(r.WorkspaceUID),
		AssemblyID:    nullString(r.AssemblyID),
	}
}

func fromRecordRow(m *recordRow) *record.Record {
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
		MediaID:       m.MediaID.String,
		TaskID:        m.TaskID.String,
		WorkspaceUID:  m.WorkspaceUID.String,
		AssemblyID:    m.AssemblyID.String,
	}
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
