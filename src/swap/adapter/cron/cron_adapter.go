package cron

import (
	"context"

	"github.com/MMN3003/metaswap/src/jobs/domain"
	"github.com/google/uuid"
)

type CronAdapter interface {
	AcquireLock(ctx context.Context, id uuid.UUID) error
	ReleaseLock(ctx context.Context, id uuid.UUID) error
}

var _ CronAdapter = (*CronPort)(nil)

func NewCronPort(jobsService domain.JobsUseCase) CronAdapter {
	return &CronPort{jobsService: jobsService}
}

type CronPort struct {
	jobsService domain.JobsUseCase
}

func (c *CronPort) AcquireLock(ctx context.Context, id uuid.UUID) error {
	return c.jobsService.AcquireLock(ctx, id)
}

func (c *CronPort) ReleaseLock(ctx context.Context, id uuid.UUID) error {
	return c.jobsService.ReleaseLock(ctx, id)
}
