package models

import "time"

type Post struct {
	ID            uint      `json:"id" gorm:"primarykey"`
	Title         string    `json:"title" gorm:"size:200;not null"`
	Slug          string    `json:"slug" gorm:"size:200;uniqueIndex;not null"`
	Content       string    `json:"content" gorm:"type:text;not null"`
	Summary       string    `json:"summary" gorm:"size:300"`
	FeaturedImage string    `json:"featured_image" gorm:"size:200"`
	ReadTime      int       `json:"read_time" gorm:"not null;default:5"`
	Published     bool      `json:"published" gorm:"not null;default:false;index"`
	CategoryID    uint      `json:"category_id" gorm:"not null;index"`
	Category      Category  `json:"category" gorm:"foreignKey:CategoryID"`
	UserID        uint      `json:"user_id" gorm:"not null;index"`
	Author        User      `json:"author" gorm:"foreignKey:UserID"`
	CreatedAt     time.Time `json:"created_at" gorm:"index"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// PostSummary is the list projection of a post. It never carries the body.
type PostSummary struct {
	ID            uint        `json:"id"`
	Title         string      `json:"title"`
	Slug          string      `json:"slug"`
	Summary       string      `json:"summary"`
	FeaturedImage string      `json:"featured_image"`
	ReadTime      int         `json:"read_time"`
	Published     bool        `json:"published"`
	Category      CategoryRef `json:"category"`
	Author        string      `json:"author"`
	CreatedAt     time.Time   `json:"created_at"`
	UpdatedAt     time.Time   `json:"updated_at"`
}

// PostDetail is the full projection returned for a single post.
type PostDetail struct {
	PostSummary
	Content string `json:"content"`
}

type CategoryRef struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

func (p *Post) ToSummary() PostSummary {
	return PostSummary{
		ID:            p.ID,
		Title:         p.Title,
		Slug:          p.Slug,
		Summary:       p.Summary,
		FeaturedImage: p.FeaturedImage,
		ReadTime:      p.ReadTime,
		Published:     p.Published,
		Category: CategoryRef{
			ID:   p.Category.ID,
			Name: p.Category.Name,
			Slug: p.Category.Slug,
		},
		Author:    p.Author.Username,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

func (p *Post) ToDetail() PostDetail {
	return PostDetail{
		PostSummary: p.ToSummary(),
		Content:     p.Content,
	}
}
