package domain

import "github.com/google/uuid"

// JobLock is a lock row keyed by a fixed per-job id. Its existence means
// the job is currently running somewhere.
type JobLock struct {
	ID uuid.UUID
}
