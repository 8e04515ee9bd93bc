// Package ingest turns job state-change events into stored records.
//
// An event is a JSON object in one of two shapes. The envelope shape
// carries the job fields in a "detail" object, with "time", "region" and
// "account" on the envelope itself:
//
//	{"time": "...", "region": "eu-west-1", "account": "...",
//	 "detail": {"jobId": "...", "jobName": "...", "status": "RUNNING", ...}}
//
// The flat shape carries the job fields at the top level. Only a non-empty
// "jobId" is required; every other field is optional and tolerated when
// malformed. The verbatim payload is kept on the record as FullEvent.
//
// [Service.Ingest] decodes the event, runs the identifier [extract.Engine]
// and writes the record, replacing any previous state for the job.
package ingest
