package migration

import (
	"fmt"
	"log"
	"sort"
	"time"

	"gorm.io/gorm"
)

// SchemaMigration records one applied step.
type SchemaMigration struct {
	Version   int       `gorm:"primaryKey;autoIncrement:false"`
	Name      string    `gorm:"size:100;not null"`
	AppliedAt time.Time `gorm:"not null"`
}

type Step struct {
	Version int
	Name    string
	Up      func(tx *gorm.DB) error
}

// Run applies every step newer than the recorded schema version, in order,
// each inside its own transaction.
func Run(db *gorm.DB) error {
	return RunSteps(db, Steps())
}

func RunSteps(db *gorm.DB, steps []Step) error {
	if err := db.AutoMigrate(&SchemaMigration{}); err != nil {
		return fmt.Errorf("create schema_migrations: %w", err)
	}

	var applied []SchemaMigration
	if err := db.Find(&applied).Error; err != nil {
		return fmt.Errorf("read schema_migrations: %w", err)
	}
	done := make(map[int]bool, len(applied))
	for _, m := range applied {
		done[m.Version] = true
	}

	ordered := make([]Step, len(steps))
	copy(ordered, steps)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].Version < ordered[j].Version })

	for i, step := range ordered {
		if i > 0 && ordered[i-1].Version == step.Version {
			return fmt.Errorf("duplicate migration version %d", step.Version)
		}
		if done[step.Version] {
			continue
		}

		log.Printf("applying migration %03d_%s", step.Version, step.Name)
		err := db.Transaction(func(tx *gorm.DB) error {
			if err := step.Up(tx); err != nil {
				return err
			}
			return tx.Create(&SchemaMigration{
				Version:   step.Version,
				Name:      step.Name,
				AppliedAt: time.Now().UTC(),
			}).Error
		})
		if err != nil {
			return fmt.Errorf("migration %03d_%s: %w", step.Version, step.Name, err)
		}
	}

	log.Println("migrations complete")
	return nil
}

// Version returns the highest applied migration, or 0 on a fresh database.
func Version(db *gorm.DB) (int, error) {
	var version int
	err := db.Model(&SchemaMigration{}).Select("COALESCE(MAX(version), 0)").Scan(&version).Error
	return version, err
}
