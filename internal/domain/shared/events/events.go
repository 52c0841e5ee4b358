package events

import "time"

// DomainEvent is something that happened in the domain worth telling the
// outside world about.
type DomainEvent interface {
	EventName() string
	AggregateID() string
	OccurredAt() time.Time
}
