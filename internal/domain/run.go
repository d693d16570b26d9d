package domain

import "time"

// Run identifies one assessment run. Sinks tag what they store with it.
type Run struct {
	ID        string
	StartedAt time.Time
}
