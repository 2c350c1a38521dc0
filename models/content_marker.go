package models

import "time"

type MarkerScope string

const (
	ScopePosts      MarkerScope = "posts"
	ScopeCategories MarkerScope = "categories"
	ScopeProjects   MarkerScope = "projects"
)

var MarkerScopes = []MarkerScope{ScopePosts, ScopeCategories, ScopeProjects}

// ContentMarker records the last mutation of one content table. Version only
// grows and UpdatedAt never moves backwards.
type ContentMarker struct {
	Scope     MarkerScope `json:"scope" gorm:"primaryKey;size:20"`
	Version   uint64      `json:"version" gorm:"not null;default:0"`
	UpdatedAt time.Time   `json:"updated_at" gorm:"autoUpdateTime:false"`
}

type ChangeStatus struct {
	HasUpdates bool      `json:"has_updates"`
	LastUpdate time.Time `json:"last_update"`
	Version    uint64    `json:"version"`
}
