// Package queue defines message payloads exchanged over the message broker.
package queue

// VisitCompletedEvent is published when an admin marks a visit Complete.
// It carries enough for downstream consumers to write the audit line and to
// decide whether a pass email is due, without re-querying on every message.
type VisitCompletedEvent struct {
	VisitorID     uint64 `json:"visitor_id"`
	VisitorNumber int    `json:"visitor_number"`
	Username      string `json:"username"`
	Email         string `json:"email,omitempty"`
	DateOfVisit   string `json:"date_of_visit"`
	CompletedAt   string `json:"completed_at"`
}
