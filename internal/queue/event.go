// Package queue defines message payloads exchanged over the message broker.
package queue

// AuditEvent is published whenever an admin mutates a record or a password
// is rotated.  It carries enough information for downstream consumers to
// build an audit trail without querying the primary database.
type AuditEvent struct {
	Action   string `json:"action"`              // created | updated | deleted | password_changed
	Entity   string `json:"entity"`              // male_stud | breeding_stud | user
	EntityID uint64 `json:"entity_id,omitempty"` // id of the touched record
	ActorID  uint64 `json:"actor_id,omitempty"`  // admin user id, zero for the reset flow
	At       string `json:"at"`                  // RFC3339 UTC timestamp
}
