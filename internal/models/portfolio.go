package models

import "time"

type Biography struct {
	ID              int64     `json:"id"`
	FullName        string    `json:"full_name"`
	Title           string    `json:"title"`
	Bio             string    `json:"bio"`
	Email           string    `json:"email"`
	Phone           string    `json:"phone,omitempty"`
	Location        string    `json:"location,omitempty"`
	LinkedinURL     string    `json:"linkedin_url,omitempty"`
	GithubURL       string    `json:"github_url,omitempty"`
	ResumeURL       string    `json:"resume_url,omitempty"`
	ProfilePhotoURL string    `json:"profile_photo_url,omitempty"`
	UpdatedAt       time.Time `json:"updated_at"`
}

type Project struct {
	ID           int64     `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	RepoURL      string    `json:"repo_url,omitempty"`
	LiveURL      string    `json:"live_url,omitempty"`
	ImageURL     string    `json:"image_url,omitempty"`
	PdfURL       string    `json:"pdf_url,omitempty"`
	DisplayOrder int       `json:"display_order"`
	Featured     bool      `json:"featured"`
	SkillIDs     []int64   `json:"skill_ids,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type Skill struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	CategoryID   int64  `json:"category_id"`
	DisplayOrder int    `json:"display_order"`
}

type SkillCategory struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	Description  string `json:"description,omitempty"`
	DisplayOrder int    `json:"display_order"`
}

type ContactRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

type Message struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Subject   string    `json:"subject"`
	Message   string    `json:"message"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"created_at"`
}
