package storage

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/taleb-app/backend/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PostgresStorage implements Storage on PostgreSQL via GORM. It is the
// durable backend; MemStorage mirrors its contract for development.
type PostgresStorage struct {
	db *gorm.DB
}

// NewPostgresStorage connects to PostgreSQL and migrates the schema.
func NewPostgresStorage(connStr string) (*PostgresStorage, error) {
	db, err := gorm.Open(postgres.Open(connStr), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	if err = sqlDB.Ping(); err != nil {
		return nil, err
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.Post{},
		&models.Like{},
		&models.Comment{},
		&models.Report{},
	); err != nil {
		return nil, fmt.Errorf("failed to auto migrate models: %w", err)
	}

	log.Println("Successfully connected to PostgreSQL!")
	return &PostgresStorage{db: db}, nil
}

// Close closes the underlying database connection.
func (s *PostgresStorage) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// GetUser returns the user with the given id, or ErrNotFound.
func (s *PostgresStorage) GetUser(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("user %s: %w", id, ErrNotFound)
		}
		return nil, err
	}
	return &user, nil
}

// UpsertUser inserts or fully replaces the user keyed by data.ID,
// preserving the stored CreatedAt on conflict.
func (s *PostgresStorage) UpsertUser(ctx context.Context, data models.UpsertUser) (*models.User, error) {
	now := time.Now()
	user := models.User{
		ID:              data.ID,
		Email:           data.Email,
		FirstName:       data.FirstName,
		LastName:        data.LastName,
		ProfileImageURL: data.ProfileImageURL,
		Grade:           data.Grade,
		School:          data.School,
		Role:            normalizeRole(data.Role),
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"email", "first_name", "last_name", "profile_image_url",
			"grade", "school", "role", "updated_at",
		}),
	}).Create(&user).Error
	if err != nil {
		return nil, err
	}

	// Re-read so the caller sees the preserved created_at.
	return s.GetUser(ctx, data.ID)
}

// CreatePost stores a new post with zeroed counters.
func (s *PostgresStorage) CreatePost(ctx context.Context, authorID string, data models.InsertPost) (*models.Post, error) {
	post := models.Post{
		AuthorID:    authorID,
		Content:     data.Content,
		Subject:     data.Subject,
		Type:        data.Type,
		Attachments: data.Attachments,
		Privacy:     normalizePrivacy(data.Privacy),
	}
	if err := s.db.WithContext(ctx).Create(&post).Error; err != nil {
		return nil, err
	}
	return &post, nil
}

// GetPosts returns all posts newest-first with their authors joined.
func (s *PostgresStorage) GetPosts(ctx context.Context) ([]models.Post, error) {
	var posts []models.Post
	err := s.db.WithContext(ctx).
		Preload("Author").
		Order("created_at DESC, id DESC").
		Find(&posts).Error
	if err != nil {
		return nil, err
	}

	// Drop posts whose author row is gone; defensive, users are never deleted.
	result := posts[:0]
	for _, post := range posts {
		if post.Author != nil {
			result = append(result, post)
		}
	}
	return result, nil
}

// GetUserPosts returns the user's posts newest-first.
func (s *PostgresStorage) GetUserPosts(ctx context.Context, userID string) ([]models.Post, error) {
	var posts []models.Post
	err := s.db.WithContext(ctx).
		Where("author_id = ?", userID).
		Order("created_at DESC, id DESC").
		Find(&posts).Error
	if err != nil {
		return nil, err
	}
	return posts, nil
}

// GetPost returns the post with the given id, or ErrNotFound.
func (s *PostgresStorage) GetPost(ctx context.Context, id int) (*models.Post, error) {
	var post models.Post
	if err := s.db.WithContext(ctx).First(&post, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("post %d: %w", id, ErrNotFound)
		}
		return nil, err
	}
	return &post, nil
}

// DeletePost removes the post and cascades to its likes, comments and
// reports in one transaction.
func (s *PostgresStorage) DeletePost(ctx context.Context, id int) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", id).Delete(&models.Like{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", id).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", id).Delete(&models.Report{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.Post{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("post %d: %w", id, ErrNotFound)
		}
		return nil
	})
}

// LikePost records a like and increments the post's likes counter,
// idempotently for an already-liked post.
func (s *PostgresStorage) LikePost(ctx context.Context, userID string, postID int) (*models.Like, error) {
	var like models.Like
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Post{}).Where("id = ?", postID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return fmt.Errorf("post %d: %w", postID, ErrNotFound)
		}

		err := tx.Where("user_id = ? AND post_id = ?", userID, postID).First(&like).Error
		if err == nil {
			return nil // already liked, counter untouched
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		like = models.Like{UserID: userID, PostID: postID}
		if err := tx.Create(&like).Error; err != nil {
			return err
		}
		return tx.Model(&models.Post{}).Where("id = ?", postID).
			UpdateColumn("likes_count", gorm.Expr("likes_count + 1")).Error
	})
	if err != nil {
		return nil, err
	}
	return &like, nil
}

// UnlikePost removes the like if present and decrements the post's
// likes counter, floored at zero. Absent like is a no-op.
func (s *PostgresStorage) UnlikePost(ctx context.Context, userID string, postID int) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("user_id = ? AND post_id = ?", userID, postID).Delete(&models.Like{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}
		return tx.Model(&models.Post{}).Where("id = ? AND likes_count > 0", postID).
			UpdateColumn("likes_count", gorm.Expr("likes_count - 1")).Error
	})
}

// IsPostLiked reports whether the user currently likes the post.
func (s *PostgresStorage) IsPostLiked(ctx context.Context, userID string, postID int) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.Like{}).
		Where("user_id = ? AND post_id = ?", userID, postID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// CreateComment stores a comment and increments the post's comments
// counter. Commenting on a missing post fails with ErrNotFound.
func (s *PostgresStorage) CreateComment(ctx context.Context, userID string, data models.InsertComment) (*models.Comment, error) {
	comment := models.Comment{
		UserID:  userID,
		PostID:  data.PostID,
		Content: data.Content,
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Post{}).Where("id = ?", data.PostID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return fmt.Errorf("post %d: %w", data.PostID, ErrNotFound)
		}
		if err := tx.Create(&comment).Error; err != nil {
			return err
		}
		return tx.Model(&models.Post{}).Where("id = ?", data.PostID).
			UpdateColumn("comments_count", gorm.Expr("comments_count + 1")).Error
	})
	if err != nil {
		return nil, err
	}
	return &comment, nil
}

// GetPostComments returns the post's comments oldest-first with their
// authors joined.
func (s *PostgresStorage) GetPostComments(ctx context.Context, postID int) ([]models.Comment, error) {
	var comments []models.Comment
	err := s.db.WithContext(ctx).
		Preload("Author").
		Where("post_id = ?", postID).
		Order("created_at ASC, id ASC").
		Find(&comments).Error
	if err != nil {
		return nil, err
	}

	result := comments[:0]
	for _, comment := range comments {
		if comment.Author != nil {
			result = append(result, comment)
		}
	}
	return result, nil
}

// CreateReport files a pending report and flags the target post.
func (s *PostgresStorage) CreateReport(ctx context.Context, reporterID string, data models.InsertReport) (*models.Report, error) {
	report := models.Report{
		ReporterID: reporterID,
		PostID:     data.PostID,
		Reason:     data.Reason,
		Status:     models.ReportStatusPending,
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Post{}).Where("id = ?", data.PostID).
			UpdateColumn("is_reported", true)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("post %d: %w", data.PostID, ErrNotFound)
		}
		return tx.Create(&report).Error
	})
	if err != nil {
		return nil, err
	}
	return &report, nil
}

// GetReports returns pending reports newest-first with reporter and
// post joined.
func (s *PostgresStorage) GetReports(ctx context.Context) ([]models.Report, error) {
	var reports []models.Report
	err := s.db.WithContext(ctx).
		Preload("Reporter").
		Preload("Post").
		Where("status = ?", models.ReportStatusPending).
		Order("created_at DESC, id DESC").
		Find(&reports).Error
	if err != nil {
		return nil, err
	}

	result := reports[:0]
	for _, report := range reports {
		if report.Reporter != nil && report.Post != nil {
			result = append(result, report)
		}
	}
	return result, nil
}

// ResolveReport moves a pending report to a terminal status.
func (s *PostgresStorage) ResolveReport(ctx context.Context, id int, status string) error {
	if !terminalStatus(status) {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}

	res := s.db.WithContext(ctx).Model(&models.Report{}).Where("id = ?", id).
		Update("status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("report %d: %w", id, ErrNotFound)
	}
	return nil
}

// GetUsersCount returns the total number of users.
func (s *PostgresStorage) GetUsersCount(ctx context.Context) (int, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.User{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return int(count), nil
}

// GetPostsCount returns the total number of posts.
func (s *PostgresStorage) GetPostsCount(ctx context.Context) (int, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.Post{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return int(count), nil
}

// GetReportsCount returns the number of reports still pending.
func (s *PostgresStorage) GetReportsCount(ctx context.Context) (int, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.Report{}).
		Where("status = ?", models.ReportStatusPending).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return int(count), nil
}
