// Package testutil builds throwaway databases and fixtures for package tests.
package testutil

import (
	"testing"
	"time"

	"folio-cms/config"
	"folio-cms/migration"
	"folio-cms/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const Password = "password123"

// Config returns a test configuration backed by a private in-memory sqlite
// database.
func Config(t testing.TB) *config.Config {
	return &config.Config{
		Env:  config.EnvTest,
		Port: "0",
		Database: config.DatabaseConfig{
			Driver: "sqlite",
			Path:   "file:" + uuid.NewString() + "?mode=memory&cache=shared",
		},
		Auth: config.AuthConfig{
			JWTSecret:        []byte("test-secret"),
			SessionLifetime:  time.Hour,
			RememberLifetime: 30 * 24 * time.Hour,
		},
		UploadDir:   t.TempDir(),
		MaxUploadMB: 1,
		CORSOrigins: []string{"*"},
	}
}

// OpenDB opens cfg's database and applies every migration.
func OpenDB(t testing.TB, cfg *config.Config) *gorm.DB {
	db, err := config.InitDB(cfg)
	require.NoError(t, err)
	require.NoError(t, migration.Run(db))

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

// NewDB is Config followed by OpenDB.
func NewDB(t testing.TB) *gorm.DB {
	return OpenDB(t, Config(t))
}

// CreateUser inserts a user whose password is Password.
func CreateUser(t testing.TB, db *gorm.DB, username string, admin bool) *models.User {
	hash, err := bcrypt.GenerateFromPassword([]byte(Password), bcrypt.MinCost)
	require.NoError(t, err)

	user := &models.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: string(hash),
		IsAdmin:      admin,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func CreateCategory(t testing.TB, db *gorm.DB, name, slug string) *models.Category {
	category := &models.Category{Name: name, Slug: slug}
	require.NoError(t, db.Create(category).Error)
	return category
}

// CreatePost inserts a post directly, bypassing the service rules.
func CreatePost(t testing.TB, db *gorm.DB, author *models.User, category *models.Category, slug string, published bool) *models.Post {
	post := &models.Post{
		Title:      slug,
		Slug:       slug,
		Content:    "body of " + slug,
		ReadTime:   1,
		Published:  published,
		CategoryID: category.ID,
		UserID:     author.ID,
	}
	require.NoError(t, db.Omit("Category", "Author").Create(post).Error)
	return post
}
