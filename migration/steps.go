package migration

import (
	"time"

	"folio-cms/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Table shapes are frozen per step so later model changes cannot rewrite
// history.

type userV1 struct {
	ID           uint   `gorm:"primarykey"`
	Username     string `gorm:"size:80;uniqueIndex;not null"`
	Email        string `gorm:"size:120;uniqueIndex;not null"`
	PasswordHash string `gorm:"not null"`
	IsAdmin      bool   `gorm:"not null;default:false"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
	DeletedAt    gorm.DeletedAt `gorm:"index"`
}

func (userV1) TableName() string { return "users" }

type userV2 struct {
	LastLoginAt *time.Time
}

func (userV2) TableName() string { return "users" }

type categoryV1 struct {
	ID        uint   `gorm:"primarykey"`
	Name      string `gorm:"size:50;uniqueIndex;not null"`
	Slug      string `gorm:"size:50;uniqueIndex;not null"`
	Icon      string `gorm:"size:50"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (categoryV1) TableName() string { return "categories" }

type postV1 struct {
	ID            uint      `gorm:"primarykey"`
	Title         string    `gorm:"size:200;not null"`
	Slug          string    `gorm:"size:200;uniqueIndex;not null"`
	Content       string    `gorm:"type:text;not null"`
	Summary       string    `gorm:"size:300"`
	FeaturedImage string    `gorm:"size:200"`
	ReadTime      int       `gorm:"not null;default:5"`
	Published     bool      `gorm:"not null;default:false;index"`
	CategoryID    uint      `gorm:"not null;index"`
	UserID        uint      `gorm:"not null;index"`
	CreatedAt     time.Time `gorm:"index"`
	UpdatedAt     time.Time
}

func (postV1) TableName() string { return "posts" }

type projectV1 struct {
	ID           uint   `gorm:"primarykey"`
	Title        string `gorm:"size:200;not null"`
	Description  string `gorm:"type:text;not null"`
	Image        string `gorm:"size:200"`
	URL          string `gorm:"size:300;not null"`
	GithubURL    string `gorm:"size:300"`
	Technologies string `gorm:"size:300"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (projectV1) TableName() string { return "projects" }

type contentMarkerV1 struct {
	Scope     string    `gorm:"primaryKey;size:20"`
	Version   uint64    `gorm:"not null;default:0"`
	UpdatedAt time.Time `gorm:"autoUpdateTime:false"`
}

func (contentMarkerV1) TableName() string { return "content_markers" }

func Steps() []Step {
	return []Step{
		{
			Version: 1,
			Name:    "create_content_tables",
			Up: func(tx *gorm.DB) error {
				return tx.AutoMigrate(&userV1{}, &categoryV1{}, &postV1{}, &projectV1{})
			},
		},
		{
			Version: 2,
			Name:    "add_users_last_login_at",
			Up: func(tx *gorm.DB) error {
				if tx.Migrator().HasColumn(&userV2{}, "LastLoginAt") {
					return nil
				}
				return tx.Migrator().AddColumn(&userV2{}, "LastLoginAt")
			},
		},
		{
			Version: 3,
			Name:    "create_content_markers",
			Up: func(tx *gorm.DB) error {
				if err := tx.AutoMigrate(&contentMarkerV1{}); err != nil {
					return err
				}
				now := time.Now().UTC().Truncate(time.Microsecond)
				for _, scope := range models.MarkerScopes {
					marker := contentMarkerV1{Scope: string(scope), UpdatedAt: now}
					if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&marker).Error; err != nil {
						return err
					}
				}
				return nil
			},
		},
	}
}
