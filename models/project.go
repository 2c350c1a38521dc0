package models

import (
	"encoding/json"
	"strings"
	"time"
)

type Project struct {
	ID           uint      `json:"id" gorm:"primarykey"`
	Title        string    `json:"title" gorm:"size:200;not null"`
	Description  string    `json:"description" gorm:"type:text;not null"`
	Image        string    `json:"image" gorm:"size:200"`
	URL          string    `json:"url" gorm:"size:300;not null"`
	GithubURL    string    `json:"github_url" gorm:"size:300"`
	Technologies string    `json:"-" gorm:"size:300"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// TechList splits the stored comma-delimited technology list.
func (p Project) TechList() []string {
	return SplitTechnologies(p.Technologies)
}

func (p Project) MarshalJSON() ([]byte, error) {
	type plain Project
	return json.Marshal(struct {
		plain
		Technologies []string `json:"technologies"`
	}{plain(p), p.TechList()})
}

func SplitTechnologies(raw string) []string {
	techs := []string{}
	for _, t := range strings.Split(raw, ",") {
		if t = strings.TrimSpace(t); t != "" {
			techs = append(techs, t)
		}
	}
	return techs
}

// JoinTechnologies normalises a comma list: trimmed, no empty entries.
func JoinTechnologies(raw string) string {
	return strings.Join(SplitTechnologies(raw), ", ")
}
