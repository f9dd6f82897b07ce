package models

import "time"

// Comment represents a comment on a post. Comments are append-only:
// there is no edit or delete.
type Comment struct {
	ID        int       `json:"id" gorm:"primaryKey;autoIncrement"`
	UserID    string    `json:"userId" gorm:"index;not null"`
	PostID    int       `json:"postId" gorm:"index;not null"`
	Content   string    `json:"content" gorm:"not null"`
	CreatedAt time.Time `json:"createdAt"`

	Author *User `json:"author,omitempty" gorm:"foreignKey:UserID"`
}

// InsertComment is the storage-level input for creating a comment.
type InsertComment struct {
	PostID  int
	Content string
}

// CreateCommentRequest defines the request body for commenting on a post.
type CreateCommentRequest struct {
	Content string `json:"content" validate:"required,min=1,max=500"`
}
