package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/amirfagh/justeat/entity"
	"gorm.io/gorm"
)

type SequenceRepository struct {
	DB *gorm.DB
}

func NewSequenceRepository(db *gorm.DB) *SequenceRepository {
	return &SequenceRepository{DB: db}
}

// FormatOrderID renders a sequence value as an order id: 42 -> "0042".
func FormatOrderID(n int64) string {
	return fmt.Sprintf("%04d", n)
}

// Current reads the counter inside tx.
func (r *SequenceRepository) Current(tx *gorm.DB) (int64, error) {
	var seq entity.OrderSequence
	err := tx.Where("id = ?", entity.SequenceDocID).First(&seq).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, ErrSequenceMissing
	}
	if err != nil {
		return 0, fmt.Errorf("read sequence: %w", err)
	}
	return seq.CurrentSequence, nil
}

// Advance moves the counter from -> to only if nobody moved it in between.
func (r *SequenceRepository) Advance(tx *gorm.DB, from, to int64) error {
	res := tx.Model(&entity.OrderSequence{}).
		Where("id = ? AND current_sequence = ?", entity.SequenceDocID, from).
		Update("current_sequence", to)
	if res.Error != nil {
		return fmt.Errorf("advance sequence: %w", res.Error)
	}
	if res.RowsAffected != 1 {
		return ErrConflict
	}
	return nil
}

// Next reserves the next order id inside tx. The reservation only holds if tx commits.
func (r *SequenceRepository) Next(tx *gorm.DB) (string, error) {
	cur, err := r.Current(tx)
	if err != nil {
		return "", err
	}
	if err := r.Advance(tx, cur, cur+1); err != nil {
		return "", err
	}
	return FormatOrderID(cur + 1), nil
}

// Seed creates the counter. It never overwrites an existing one.
func (r *SequenceRepository) Seed(ctx context.Context, start int64) error {
	db := r.DB.WithContext(ctx)

	var cnt int64
	if err := db.Model(&entity.OrderSequence{}).Where("id = ?", entity.SequenceDocID).Count(&cnt).Error; err != nil {
		return fmt.Errorf("check sequence: %w", err)
	}
	if cnt > 0 {
		return ErrSequenceExists
	}

	err := db.Create(&entity.OrderSequence{ID: entity.SequenceDocID, CurrentSequence: start}).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrSequenceExists
	}
	if err != nil {
		return fmt.Errorf("seed sequence: %w", err)
	}
	return nil
}

func (r *SequenceRepository) Get(ctx context.Context) (int64, error) {
	return r.Current(r.DB.WithContext(ctx))
}
