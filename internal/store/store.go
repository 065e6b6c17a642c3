package store

import (
	"database/sql"
	"fmt"

	"github.com/mj8star/cn-stock-monitor/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Store wraps the daily_records table. Appends deduplicate on the
// (date, code) primary key, so replaying an already-stored range is a
// content no-op.
type Store struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// MaxDate returns the latest stored date for an instrument's display
// name. ok is false when no rows exist for that name.
func (s *Store) MaxDate(name string) (date string, ok bool, err error) {
	var max sql.NullString
	err = s.db.Model(&models.DailyRecord{}).
		Where("name = ?", name).
		Select("MAX(date)").
		Scan(&max).Error
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve checkpoint for %s: %w", name, err)
	}
	if !max.Valid {
		return "", false, nil
	}
	return max.String, true, nil
}

// Append inserts rows, silently skipping (date, code) pairs already
// present. Returns the number of rows actually inserted.
func (s *Store) Append(rows []models.DailyRecord) (int, error) {
	if len(rows) == 0 {
		return 0, nil
	}
	res := s.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&rows)
	if res.Error != nil {
		return 0, fmt.Errorf("failed to append daily records: %w", res.Error)
	}
	return int(res.RowsAffected), nil
}

// Query returns all records with date in [start, end], ordered by date
// then code. This is the read surface the viewer consumes.
func (s *Store) Query(start, end string) ([]models.DailyRecord, error) {
	var records []models.DailyRecord
	err := s.db.
		Where("date BETWEEN ? AND ?", start, end).
		Order("date, code").
		Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query daily records: %w", err)
	}
	return records, nil
}

// Count reports the total number of stored rows.
func (s *Store) Count() (int64, error) {
	var n int64
	if err := s.db.Model(&models.DailyRecord{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("failed to count daily records: %w", err)
	}
	return n, nil
}
