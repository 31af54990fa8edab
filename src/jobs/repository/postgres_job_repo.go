package repository

import (
	"context"
	"errors"
	"time"

	"github.com/MMN3003/metaswap/src/jobs/domain"
	"github.com/MMN3003/metaswap/src/logger"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var _ domain.JobLockRepository = (*JobRepo)(nil)

// JobLock rows act as mutexes: creating one with a taken id fails on the
// primary key, which is exactly the signal the jobs usecase wants.
type JobLock struct {
	ID        uuid.UUID `gorm:"primarykey"`
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

type JobRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewJobRepo(db *gorm.DB, log *logger.Logger) *JobRepo {
	if err := db.AutoMigrate(&JobLock{}); err != nil {
		log.Fatalf("failed to migrate schema: %v", err)
	}
	return &JobRepo{db: db, log: log}
}

func (r *JobRepo) SaveLock(ctx context.Context, l *domain.JobLock) (*domain.JobLock, error) {
	model := JobLock{
		ID: l.ID,
	}
	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		return nil, err
	}
	return r.GetLockByID(ctx, model.ID)
}

func (r *JobRepo) GetLockByID(ctx context.Context, id uuid.UUID) (*domain.JobLock, error) {
	var l JobLock
	if err := r.db.WithContext(ctx).First(&l, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &domain.JobLock{ID: l.ID}, nil
}

func (r *JobRepo) DeleteLock(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Unscoped().Delete(&JobLock{}, id).Error
}
