// Package storage persists progress documents through GORM.
package storage

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"materias-progress-backend/models"
	"materias-progress-backend/models/progress"
)

var (
	// ErrNotFound means no document is stored under the key.
	ErrNotFound = errors.New("progress not found")
	// ErrDocumentTooLarge means the encoded state exceeds the configured cap.
	ErrDocumentTooLarge = errors.New("progress document too large")
)

// ProgressStore reads and writes whole progress states.
type ProgressStore struct {
	db       *gorm.DB
	maxBytes int
}

// NewProgressStore wraps db. maxBytes <= 0 disables the size cap.
func NewProgressStore(db *gorm.DB, maxBytes int) *ProgressStore {
	return &ProgressStore{db: db, maxBytes: maxBytes}
}

// Load returns ErrNotFound for a missing key and a *progress.ParseError for a corrupt document.
func (s *ProgressStore) Load(ctx context.Context, key string) (progress.State, error) {
	return load(s.db.WithContext(ctx), key)
}

func load(db *gorm.DB, key string) (progress.State, error) {
	var doc models.ProgressDocument
	if err := db.Where("profile_key = ?", key).First(&doc).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return progress.State{}, ErrNotFound
		}
		return progress.State{}, fmt.Errorf("load progress %q: %w", key, err)
	}
	return progress.Decode([]byte(doc.Document))
}

// Save overwrites whatever is stored under key.
func (s *ProgressStore) Save(ctx context.Context, key string, st progress.State) error {
	return s.save(s.db.WithContext(ctx), key, st)
}

func (s *ProgressStore) save(db *gorm.DB, key string, st progress.State) error {
	data, err := progress.Encode(st)
	if err != nil {
		return fmt.Errorf("encode progress: %w", err)
	}
	if s.maxBytes > 0 && len(data) > s.maxBytes {
		return fmt.Errorf("%w: %d bytes (max %d)", ErrDocumentTooLarge, len(data), s.maxBytes)
	}

	doc := models.ProgressDocument{ProfileKey: key, Document: string(data)}
	err = db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "profile_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"document", "updated_at"}),
	}).Create(&doc).Error
	if err != nil {
		return fmt.Errorf("save progress %q: %w", key, err)
	}
	return nil
}

// Update loads the state under key, passes it to fn and saves the result, all in one transaction.
// A missing or corrupt document reaches fn as an empty state.
func (s *ProgressStore) Update(ctx context.Context, key string, fn func(*progress.State) error) (progress.State, error) {
	var out progress.State
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if tx.Dialector.Name() == "postgres" {
			tx = tx.Clauses(clause.Locking{Strength: "UPDATE"})
		}
		st, err := load(tx, key)
		var perr *progress.ParseError
		switch {
		case errors.Is(err, ErrNotFound), errors.As(err, &perr):
			st = progress.NewState()
		case err != nil:
			return err
		}

		if err := fn(&st); err != nil {
			return err
		}
		if err := s.save(tx.Session(&gorm.Session{NewDB: true}), key, st); err != nil {
			return err
		}
		out = st
		return nil
	})
	if err != nil {
		return progress.State{}, err
	}
	return out, nil
}

// Delete removes the document under key. Deleting a missing key is not an error.
func (s *ProgressStore) Delete(ctx context.Context, key string) error {
	err := s.db.WithContext(ctx).Where("profile_key = ?", key).Delete(&models.ProgressDocument{}).Error
	if err != nil {
		return fmt.Errorf("delete progress %q: %w", key, err)
	}
	return nil
}
