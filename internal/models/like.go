package models

import "time"

// Like marks that a user likes a post. The (UserID, PostID) pair is
// unique; the ID exists for audit purposes only.
type Like struct {
	ID        int       `json:"id" gorm:"primaryKey;autoIncrement"`
	UserID    string    `json:"userId" gorm:"uniqueIndex:idx_likes_user_post;not null"`
	PostID    int       `json:"postId" gorm:"uniqueIndex:idx_likes_user_post;not null"`
	CreatedAt time.Time `json:"createdAt"`
}
