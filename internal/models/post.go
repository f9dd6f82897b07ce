package models

import (
	"time"

	"github.com/lib/pq"
)

// Post types.
const (
	PostTypeText     = "text"
	PostTypeImage    = "image"
	PostTypePDF      = "pdf"
	PostTypeQuestion = "question"
)

// Privacy scopes. Posts default to PrivacyPublic.
const (
	PrivacyPublic = "public"
	PrivacyClass  = "class"
)

// Post represents a feed post. LikesCount and CommentsCount are
// denormalized and maintained by the storage layer on every like,
// unlike and comment; they are never recomputed on read.
type Post struct {
	ID            int            `json:"id" gorm:"primaryKey;autoIncrement"`
	AuthorID      string         `json:"authorId" gorm:"index;not null"`
	Content       string         `json:"content" gorm:"not null"`
	Subject       string         `json:"subject"`
	Type          string         `json:"type" gorm:"not null"`
	Attachments   pq.StringArray `json:"attachments" gorm:"type:text[]"`
	Privacy       string         `json:"privacy" gorm:"default:'public'"`
	LikesCount    int            `json:"likesCount" gorm:"default:0"`
	CommentsCount int            `json:"commentsCount" gorm:"default:0"`
	IsReported    bool           `json:"isReported" gorm:"default:false"`
	CreatedAt     time.Time      `json:"createdAt"`
	UpdatedAt     time.Time      `json:"updatedAt"`

	Author *User `json:"author,omitempty" gorm:"foreignKey:AuthorID"`
}

// InsertPost is the storage-level input for creating a post. The
// attachment filenames are produced by the upload layer, not the client.
type InsertPost struct {
	Content     string
	Subject     string
	Type        string
	Attachments []string
	Privacy     string
}

// CreatePostRequest defines the multipart form fields for creating a post.
type CreatePostRequest struct {
	Content string `form:"content" json:"content" validate:"required,min=1,max=2000"`
	Subject string `form:"subject" json:"subject" validate:"omitempty,max=100"`
	Type    string `form:"type" json:"type" validate:"required,oneof=text image pdf question"`
	Privacy string `form:"privacy" json:"privacy" validate:"omitempty,oneof=public class"`
}
