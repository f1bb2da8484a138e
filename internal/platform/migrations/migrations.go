package migrations

import (
	"time"

	"gorm.io/gorm"
)

// Run creates the dogs schema. It only adds missing tables, columns and indexes.
func Run(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	return db.AutoMigrate(&dogRecord{})
}

// Dog schema mirrors the dogs Postgres adapter.
type dogRecord struct {
	Name       string    `gorm:"primaryKey;column:name"`
	Color      string    `gorm:"column:color"`
	TailLength int       `gorm:"column:tail_length"`
	Weight     int       `gorm:"column:weight"`
	CreatedAt  time.Time `gorm:"column:created_at;index"`
	UpdatedAt  time.Time `gorm:"column:updated_at"`
}

func (dogRecord) TableName() string { return "dogs" }
