package redis

// Redis key naming conventions for record data.
// All keys live under a configurable namespace, "batchwatch:" by default.

const defaultNamespace = "batchwatch:"

// recordKey returns the key holding an encoded record: {ns}record:{jobID}
func (s *Store) recordKey(jobID string) string { return s.namespace + "record:" + jobID }

// indexKey returns the sorted set key indexing every stored job ID.
func (s *Store) indexKey() string { return s.namespace + "record_ids" }

// lexAfter returns the exclusive ZRANGEBYLEX lower bound following cursor.
func lexAfter(cursor string) string {
	if cursor == "" {
		return "-"
	}
	return "(" + cursor
}
