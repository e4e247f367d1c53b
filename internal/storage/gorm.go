package storage

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"studentrecords/internal/model"
)

// studentRow is the SQL shape of a student. Position keeps table order,
// which an ORDER BY on id would not.
type studentRow struct {
	model.Student
	Position int `gorm:"index"`
}

func (studentRow) TableName() string { return "students" }

// GormStore keeps the table in a SQL database through gorm.
type GormStore struct {
	db *gorm.DB
}

// NewGormStore migrates the students table and returns the store.
func NewGormStore(db *gorm.DB) (*GormStore, error) {
	if err := db.AutoMigrate(&studentRow{}); err != nil {
		return nil, fmt.Errorf("%w: migrate students table: %w", ErrUnavailable, err)
	}
	return &GormStore{db: db}, nil
}

func (g *GormStore) Load(ctx context.Context) ([]model.Student, error) {
	var rows []studentRow
	if err := g.db.WithContext(ctx).Order("position").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("%w: load students: %w", ErrUnavailable, err)
	}

	students := make([]model.Student, 0, len(rows))
	for _, r := range rows {
		students = append(students, r.Student)
	}
	return students, nil
}

// Save deletes every row and inserts the new table in one transaction.
func (g *GormStore) Save(ctx context.Context, students []model.Student) error {
	rows := make([]studentRow, len(students))
	for i, s := range students {
		rows[i] = studentRow{Student: s, Position: i}
	}

	err := g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&studentRow{}).Error; err != nil {
			return err
		}
		if len(rows) == 0 {
			return nil
		}
		return tx.CreateInBatches(rows, 500).Error
	})
	if err != nil {
		return fmt.Errorf("%w: save students: %w", ErrUnavailable, err)
	}
	return nil
}
