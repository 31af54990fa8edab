package domain

import (
	"context"

	"github.com/google/uuid"
)

// JobLockRepository is the persistence port for cross-instance job locks.
type JobLockRepository interface {
	SaveLock(ctx context.Context, l *JobLock) (*JobLock, error)
	DeleteLock(ctx context.Context, id uuid.UUID) error
}

// JobsUseCase serializes scheduled jobs across service instances: a job
// runs only while it holds its lock row.
type JobsUseCase interface {
	AcquireLock(ctx context.Context, id uuid.UUID) error
	ReleaseLock(ctx context.Context, id uuid.UUID) error
}
