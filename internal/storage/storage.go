package storage

import (
	"context"
	"errors"

	"github.com/taleb-app/backend/internal/models"
)

// ErrNotFound is returned when a referenced entity does not exist.
// Handlers translate it into a 404.
var ErrNotFound = errors.New("not found")

// ErrInvalidStatus is returned by ResolveReport for a status that is
// not one of the two terminal report statuses.
var ErrInvalidStatus = errors.New("invalid report status")

// Storage is the sole owner of all domain entities. It maintains the
// denormalized post counters and the one-like-per-user-per-post
// invariant on every mutation.
type Storage interface {
	// User operations
	GetUser(ctx context.Context, id string) (*models.User, error)
	UpsertUser(ctx context.Context, data models.UpsertUser) (*models.User, error)

	// Post operations
	CreatePost(ctx context.Context, authorID string, data models.InsertPost) (*models.Post, error)
	GetPosts(ctx context.Context) ([]models.Post, error)
	GetUserPosts(ctx context.Context, userID string) ([]models.Post, error)
	GetPost(ctx context.Context, id int) (*models.Post, error)
	DeletePost(ctx context.Context, id int) error

	// Like operations
	LikePost(ctx context.Context, userID string, postID int) (*models.Like, error)
	UnlikePost(ctx context.Context, userID string, postID int) error
	IsPostLiked(ctx context.Context, userID string, postID int) (bool, error)

	// Comment operations
	CreateComment(ctx context.Context, userID string, data models.InsertComment) (*models.Comment, error)
	GetPostComments(ctx context.Context, postID int) ([]models.Comment, error)

	// Report operations
	CreateReport(ctx context.Context, reporterID string, data models.InsertReport) (*models.Report, error)
	GetReports(ctx context.Context) ([]models.Report, error)
	ResolveReport(ctx context.Context, id int, status string) error

	// Admin stats
	GetUsersCount(ctx context.Context) (int, error)
	GetPostsCount(ctx context.Context) (int, error)
	GetReportsCount(ctx context.Context) (int, error)
}

func terminalStatus(status string) bool {
	return status == models.ReportStatusResolved || status == models.ReportStatusDismissed
}

func normalizeRole(role string) string {
	if role == "" {
		return models.RoleStudent
	}
	return role
}

func normalizePrivacy(privacy string) string {
	if privacy == "" {
		return models.PrivacyPublic
	}
	return privacy
}
