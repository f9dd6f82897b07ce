package storage

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/taleb-app/backend/internal/models"
)

// likeKey is the composite key for the like index. One like per
// (user, post) pair.
type likeKey struct {
	UserID string
	PostID int
}

// MemStorage keeps all entities in process memory. It is the
// development stand-in for PostgresStorage: same contract, no
// durability. All state is lost on restart.
//
// Every operation takes the mutex for its full duration, so the
// check-then-mutate sequences that maintain the post counters are
// atomic with respect to concurrent requests.
type MemStorage struct {
	mu sync.RWMutex

	users    map[string]*models.User
	posts    map[int]*models.Post
	likes    map[likeKey]*models.Like
	comments map[int]*models.Comment
	reports  map[int]*models.Report

	// Id counters start at 1 and are never reused, even after deletes.
	nextPostID    int
	nextCommentID int
	nextReportID  int
	nextLikeID    int
}

// NewMemStorage creates an empty in-memory store.
func NewMemStorage() *MemStorage {
	return &MemStorage{
		users:         make(map[string]*models.User),
		posts:         make(map[int]*models.Post),
		likes:         make(map[likeKey]*models.Like),
		comments:      make(map[int]*models.Comment),
		reports:       make(map[int]*models.Report),
		nextPostID:    1,
		nextCommentID: 1,
		nextReportID:  1,
		nextLikeID:    1,
	}
}

// GetUser returns the user with the given id, or ErrNotFound.
func (s *MemStorage) GetUser(ctx context.Context, id string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[id]
	if !ok {
		return nil, fmt.Errorf("user %s: %w", id, ErrNotFound)
	}
	u := *user
	return &u, nil
}

// UpsertUser inserts or fully replaces the user with data.ID. On
// replace, every field is overwritten from data (not patched) except
// CreatedAt, which keeps its original value. UpdatedAt is always
// stamped.
func (s *MemStorage) UpsertUser(ctx context.Context, data models.UpsertUser) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	user := &models.User{
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
	if existing, ok := s.users[data.ID]; ok {
		user.CreatedAt = existing.CreatedAt
	}
	s.users[data.ID] = user

	u := *user
	return &u, nil
}

// CreatePost allocates the next post id and stores the post with zeroed
// counters.
func (s *MemStorage) CreatePost(ctx context.Context, authorID string, data models.InsertPost) (*models.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	post := &models.Post{
		ID:          s.nextPostID,
		AuthorID:    authorID,
		Content:     data.Content,
		Subject:     data.Subject,
		Type:        data.Type,
		Attachments: data.Attachments,
		Privacy:     normalizePrivacy(data.Privacy),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	s.nextPostID++
	s.posts[post.ID] = post

	p := *post
	return &p, nil
}

// GetPosts returns all posts newest-first, each joined with its author.
// Posts whose author no longer exists are dropped; that cannot happen
// today since users are never deleted.
func (s *MemStorage) GetPosts(ctx context.Context) ([]models.Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	posts := make([]models.Post, 0, len(s.posts))
	for _, post := range s.posts {
		author, ok := s.users[post.AuthorID]
		if !ok {
			continue
		}
		p := *post
		a := *author
		p.Author = &a
		posts = append(posts, p)
	}
	sortPostsNewestFirst(posts)
	return posts, nil
}

// GetUserPosts returns the user's posts newest-first, without authors.
func (s *MemStorage) GetUserPosts(ctx context.Context, userID string) ([]models.Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var posts []models.Post
	for _, post := range s.posts {
		if post.AuthorID == userID {
			posts = append(posts, *post)
		}
	}
	sortPostsNewestFirst(posts)
	return posts, nil
}

// GetPost returns the post with the given id, or ErrNotFound.
func (s *MemStorage) GetPost(ctx context.Context, id int) (*models.Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	post, ok := s.posts[id]
	if !ok {
		return nil, fmt.Errorf("post %d: %w", id, ErrNotFound)
	}
	p := *post
	return &p, nil
}

// DeletePost removes the post along with its likes, comments and
// reports, so no orphaned rows keep pointing at a dead post.
func (s *MemStorage) DeletePost(ctx context.Context, id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.posts[id]; !ok {
		return fmt.Errorf("post %d: %w", id, ErrNotFound)
	}
	delete(s.posts, id)

	for key := range s.likes {
		if key.PostID == id {
			delete(s.likes, key)
		}
	}
	for cid, comment := range s.comments {
		if comment.PostID == id {
			delete(s.comments, cid)
		}
	}
	for rid, report := range s.reports {
		if report.PostID == id {
			delete(s.reports, rid)
		}
	}
	return nil
}

// LikePost records a like and bumps the post's likes counter. It is
// idempotent: liking an already-liked post returns the existing like
// without touching the counter.
func (s *MemStorage) LikePost(ctx context.Context, userID string, postID int) (*models.Like, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	post, ok := s.posts[postID]
	if !ok {
		return nil, fmt.Errorf("post %d: %w", postID, ErrNotFound)
	}

	key := likeKey{UserID: userID, PostID: postID}
	if existing, ok := s.likes[key]; ok {
		l := *existing
		return &l, nil
	}

	like := &models.Like{
		ID:        s.nextLikeID,
		UserID:    userID,
		PostID:    postID,
		CreatedAt: time.Now(),
	}
	s.nextLikeID++
	s.likes[key] = like
	post.LikesCount++

	l := *like
	return &l, nil
}

// UnlikePost removes the like for the pair if present and decrements
// the post's likes counter, never below zero. Absent like is a no-op.
func (s *MemStorage) UnlikePost(ctx context.Context, userID string, postID int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := likeKey{UserID: userID, PostID: postID}
	if _, ok := s.likes[key]; !ok {
		return nil
	}
	delete(s.likes, key)

	if post, ok := s.posts[postID]; ok && post.LikesCount > 0 {
		post.LikesCount--
	}
	return nil
}

// IsPostLiked reports whether the user currently likes the post.
func (s *MemStorage) IsPostLiked(ctx context.Context, userID string, postID int) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.likes[likeKey{UserID: userID, PostID: postID}]
	return ok, nil
}

// CreateComment stores a comment and bumps the post's comments counter.
// Commenting on a missing post fails with ErrNotFound.
func (s *MemStorage) CreateComment(ctx context.Context, userID string, data models.InsertComment) (*models.Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	post, ok := s.posts[data.PostID]
	if !ok {
		return nil, fmt.Errorf("post %d: %w", data.PostID, ErrNotFound)
	}

	comment := &models.Comment{
		ID:        s.nextCommentID,
		UserID:    userID,
		PostID:    data.PostID,
		Content:   data.Content,
		CreatedAt: time.Now(),
	}
	s.nextCommentID++
	s.comments[comment.ID] = comment
	post.CommentsCount++

	c := *comment
	return &c, nil
}

// GetPostComments returns the post's comments oldest-first (chronological
// reading order, the opposite of the feed), each joined with its author.
func (s *MemStorage) GetPostComments(ctx context.Context, postID int) ([]models.Comment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	comments := make([]models.Comment, 0)
	for _, comment := range s.comments {
		if comment.PostID != postID {
			continue
		}
		author, ok := s.users[comment.UserID]
		if !ok {
			continue
		}
		c := *comment
		a := *author
		c.Author = &a
		comments = append(comments, c)
	}
	sort.Slice(comments, func(i, j int) bool {
		if !comments[i].CreatedAt.Equal(comments[j].CreatedAt) {
			return comments[i].CreatedAt.Before(comments[j].CreatedAt)
		}
		return comments[i].ID < comments[j].ID
	})
	return comments, nil
}

// CreateReport files a pending report and flags the target post as
// reported. Reporting a missing post fails with ErrNotFound.
func (s *MemStorage) CreateReport(ctx context.Context, reporterID string, data models.InsertReport) (*models.Report, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	post, ok := s.posts[data.PostID]
	if !ok {
		return nil, fmt.Errorf("post %d: %w", data.PostID, ErrNotFound)
	}

	report := &models.Report{
		ID:         s.nextReportID,
		ReporterID: reporterID,
		PostID:     data.PostID,
		Reason:     data.Reason,
		Status:     models.ReportStatusPending,
		CreatedAt:  time.Now(),
	}
	s.nextReportID++
	s.reports[report.ID] = report
	post.IsReported = true

	r := *report
	return &r, nil
}

// GetReports returns pending reports newest-first, each joined with its
// reporter and target post. Reports whose reporter or post vanished are
// dropped.
func (s *MemStorage) GetReports(ctx context.Context) ([]models.Report, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	reports := make([]models.Report, 0)
	for _, report := range s.reports {
		if report.Status != models.ReportStatusPending {
			continue
		}
		reporter, ok := s.users[report.ReporterID]
		if !ok {
			continue
		}
		post, ok := s.posts[report.PostID]
		if !ok {
			continue
		}
		r := *report
		u := *reporter
		p := *post
		r.Reporter = &u
		r.Post = &p
		reports = append(reports, r)
	}
	sort.Slice(reports, func(i, j int) bool {
		if !reports[i].CreatedAt.Equal(reports[j].CreatedAt) {
			return reports[i].CreatedAt.After(reports[j].CreatedAt)
		}
		return reports[i].ID > reports[j].ID
	})
	return reports, nil
}

// ResolveReport moves a pending report to one of the two terminal
// statuses. Any other status is rejected.
func (s *MemStorage) ResolveReport(ctx context.Context, id int, status string) error {
	if !terminalStatus(status) {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	report, ok := s.reports[id]
	if !ok {
		return fmt.Errorf("report %d: %w", id, ErrNotFound)
	}
	report.Status = status
	return nil
}

// GetUsersCount returns the total number of users.
func (s *MemStorage) GetUsersCount(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.users), nil
}

// GetPostsCount returns the total number of posts.
func (s *MemStorage) GetPostsCount(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.posts), nil
}

// GetReportsCount returns the number of reports still pending.
func (s *MemStorage) GetReportsCount(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	count := 0
	for _, report := range s.reports {
		if report.Status == models.ReportStatusPending {
			count++
		}
	}
	return count, nil
}

func sortPostsNewestFirst(posts []models.Post) {
	sort.Slice(posts, func(i, j int) bool {
		if !posts[i].CreatedAt.Equal(posts[j].CreatedAt) {
			return posts[i].CreatedAt.After(posts[j].CreatedAt)
		}
		return posts[i].ID > posts[j].ID
	})
}
