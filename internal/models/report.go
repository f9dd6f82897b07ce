package models

import "time"

// Report statuses. A report starts pending and moves to exactly one of
// the two terminal statuses via admin resolution.
const (
	ReportStatusPending   = "pending"
	ReportStatusResolved  = "resolved"
	ReportStatusDismissed = "dismissed"
)

// Report is a user complaint about a post. Creating a report flags the
// target post as reported; the flag is not cleared on resolution.
type Report struct {
	ID         int       `json:"id" gorm:"primaryKey;autoIncrement"`
	ReporterID string    `json:"reporterId" gorm:"index;not null"`
	PostID     int       `json:"postId" gorm:"index;not null"`
	Reason     string    `json:"reason" gorm:"not null"`
	Status     string    `json:"status" gorm:"default:'pending'"`
	CreatedAt  time.Time `json:"createdAt"`

	Reporter *User `json:"reporter,omitempty" gorm:"foreignKey:ReporterID"`
	Post     *Post `json:"post,omitempty" gorm:"foreignKey:PostID"`
}

// InsertReport is the storage-level input for filing a report.
type InsertReport struct {
	PostID int
	Reason string
}

// CreateReportRequest defines the request body for reporting a post.
type CreateReportRequest struct {
	Reason string `json:"reason" validate:"required,min=1,max=500"`
}

// ResolveReportRequest defines the request body for triaging a report.
type ResolveReportRequest struct {
	Status string `json:"status" validate:"required,oneof=resolved dismissed"`
}
