package usecase

import (
	"context"

	"github.com/MMN3003/metaswap/src/jobs/domain"
	"github.com/MMN3003/metaswap/src/logger"
	"github.com/google/uuid"
)

var _ domain.JobsUseCase = (*Service)(nil)

type Service struct {
	locks  domain.JobLockRepository
	logger *logger.Logger
}

func NewService(locks domain.JobLockRepository, logg *logger.Logger) *Service {
	return &Service{
		locks:  locks,
		logger: logg,
	}
}

func (s *Service) AcquireLock(ctx context.Context, id uuid.UUID) error {
	_, err := s.locks.SaveLock(ctx, &domain.JobLock{ID: id})
	return err
}

func (s *Service) ReleaseLock(ctx context.Context, id uuid.UUID) error {
	return s.locks.DeleteLock(ctx, id)
}
