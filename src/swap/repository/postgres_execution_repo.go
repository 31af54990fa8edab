package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/MMN3003/metaswap/src/logger"
	"github.com/MMN3003/metaswap/src/swap/domain"
)

var _ domain.ExecutionRepository = (*ExecutionRepo)(nil)

// Execution is the persisted trace of one swap execution attempt.
type Execution struct {
	ID           uint   `gorm:"primarykey"`
	RequestID    string `gorm:"index"`
	ProviderName string
	FromChain    string
	FromToken    string
	ToChain      string
	ToToken      string
	AmountIn     decimal.Decimal `gorm:"type:numeric"`
	TxHash       string          `gorm:"index"`
	Status       string
	CreatedAt    time.Time
	UpdatedAt    time.Time
	DeletedAt    gorm.DeletedAt `gorm:"index"`
}

type ExecutionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewExecutionRepo(db *gorm.DB, log *logger.Logger) *ExecutionRepo {
	if err := db.AutoMigrate(&Execution{}); err != nil {
		log.Fatalf("failed to migrate schema: %v", err)
	}
	return &ExecutionRepo{db: db, log: log}
}

func (r *ExecutionRepo) SaveExecution(ctx context.Context, rec *domain.ExecutionRecord) (*domain.ExecutionRecord, error) {
	model := Execution{
		RequestID:    rec.RequestID,
		ProviderName: rec.ProviderName,
		FromChain:    string(rec.FromChain),
		FromToken:    rec.FromToken,
		ToChain:      string(rec.ToChain),
		ToToken:      rec.ToToken,
		AmountIn:     rec.AmountIn,
		TxHash:       rec.TxHash,
		Status:       string(rec.Status),
	}
	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		return nil, err
	}
	return toDomain(&model), nil
}

func (r *ExecutionRepo) ListRecent(ctx context.Context, limit int) ([]domain.ExecutionRecord, error) {
	var models []Execution
	if err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Find(&models).Error; err != nil {
		return nil, err
	}

	records := make([]domain.ExecutionRecord, 0, len(models))
	for i := range models {
		records = append(records, *toDomain(&models[i]))
	}
	return records, nil
}

func toDomain(m *Execution) *domain.ExecutionRecord {
	return &domain.ExecutionRecord{
		ID:           m.ID,
		RequestID:    m.RequestID,
		ProviderName: m.ProviderName,
		FromChain:    domain.ChainID(m.FromChain),
		FromToken:    m.FromToken,
		ToChain:      domain.ChainID(m.ToChain),
		ToToken:      m.ToToken,
		AmountIn:     m.AmountIn,
		TxHash:       m.TxHash,
		Status:       domain.ExecutionStatus(m.Status),
		CreatedAt:    m.CreatedAt,
	}
}
