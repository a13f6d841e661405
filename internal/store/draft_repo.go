// Package store persists editor drafts locally so an interrupted editing
// session can resume. This is the only state this service owns; listings
// themselves live in the platform backend.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"hourlystay/internal/domain"
)

type DraftRepository struct {
	db *gorm.DB
}

func NewDraftRepository(db *gorm.DB) *DraftRepository {
	return &DraftRepository{db: db}
}

type draftModel struct {
	ID        int64     `gorm:"column:id;primaryKey"`
	OwnerID   int64     `gorm:"column:owner_id;uniqueIndex:idx_drafts_owner_listing"`
	ListingID int64     `gorm:"column:listing_id;uniqueIndex:idx_drafts_owner_listing"`
	Payload   string    `gorm:"column:payload;type:text"`
	CreatedAt time.Time `gorm:"column:created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (draftModel) TableName() string { return "editor_drafts" }

// Migrate creates the drafts table.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&draftModel{})
}

// Save upserts the draft keyed by (owner, listing).
func (r *DraftRepository) Save(ctx context.Context, ownerID, listingID int64, draft domain.ListingDraft) error {
	payload, err := json.Marshal(draft)
	if err != nil {
		return fmt.Errorf("encode draft: %w", err)
	}

	tx := r.db.WithContext(ctx).
		Model(&draftModel{}).
		Where("owner_id = ? AND listing_id = ?", ownerID, listingID).
		Updates(map[string]interface{}{"payload": string(payload), "updated_at": time.Now()})
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected > 0 {
		return nil
	}

	m := draftModel{OwnerID: ownerID, ListingID: listingID, Payload: string(payload)}
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		// гонка двух первых автосохранений: строка уже появилась
		if isUniqueViolation(err) {
			return r.db.WithContext(ctx).
				Model(&draftModel{}).
				Where("owner_id = ? AND listing_id = ?", ownerID, listingID).
				Update("payload", string(payload)).Error
		}
		return err
	}
	return nil
}

// Load returns the stored draft or (nil, nil) when none exists.
func (r *DraftRepository) Load(ctx context.Context, ownerID, listingID int64) (*domain.ListingDraft, error) {
	var m draftModel
	err := r.db.WithContext(ctx).
		Where("owner_id = ? AND listing_id = ?", ownerID, listingID).
		First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var draft domain.ListingDraft
	if err := json.Unmarshal([]byte(m.Payload), &draft); err != nil {
		return nil, fmt.Errorf("decode draft: %w", err)
	}
	return &draft, nil
}

func (r *DraftRepository) Delete(ctx context.Context, ownerID, listingID int64) error {
	return r.db.WithContext(ctx).
		Where("owner_id = ? AND listing_id = ?", ownerID, listingID).
		Delete(&draftModel{}).Error
}

// DeleteOlderThan prunes drafts not touched since the cutoff. Used by the
// cleanup binary.
func (r *DraftRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	tx := r.db.WithContext(ctx).
		Where("updated_at < ?", cutoff).
		Delete(&draftModel{})
	return tx.RowsAffected, tx.Error
}

// isUniqueViolation detects a postgres duplicate-key error; sqlite reports
// the same condition through its own error text.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return errors.Is(err, gorm.ErrDuplicatedKey)
}
