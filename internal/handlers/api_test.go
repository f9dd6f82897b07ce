package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/taleb-app/backend/internal/middleware"
	"github.com/taleb-app/backend/internal/models"
	"github.com/taleb-app/backend/internal/router"
	"github.com/taleb-app/backend/internal/storage"
	"github.com/taleb-app/backend/internal/uploads"
	"github.com/taleb-app/backend/internal/validators"
)

const testSecret = "test-secret"

// pngHeader is enough for content-type sniffing to see image/png.
var pngHeader = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 0}

func newTestAPI(t *testing.T) *echo.Echo {
	t.Helper()

	store := storage.NewMemStorage()
	if err := storage.SeedDevUsers(context.Background(), store); err != nil {
		t.Fatalf("seed: %v", err)
	}
	files, err := uploads.NewSaver(t.TempDir())
	if err != nil {
		t.Fatalf("saver: %v", err)
	}

	e := echo.New()
	e.Validator = validators.NewValidator()
	router.SetupRoutes(e, store, files, middleware.DevAuth(testSecret))
	return e
}

// tokenFor mints a dev token acting as the given user id.
func tokenFor(t *testing.T, userID string) string {
	t.Helper()
	token, err := middleware.SignDevToken(testSecret, models.AuthClaims{
		Email: userID + "@example.com",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject: userID,
		},
	})
	if err != nil {
		t.Fatalf("SignDevToken: %v", err)
	}
	return token
}

func doJSON(e *echo.Echo, method, path, token string, body string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

// createPost posts a multipart form as the default mock student and
// returns the created post.
func createPost(t *testing.T, e *echo.Echo, content string, attachments int) models.Post {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	w.WriteField("content", content)
	w.WriteField("type", models.PostTypeText)
	for i := 0; i < attachments; i++ {
		part, err := w.CreateFormFile("attachments", "pic.png")
		if err != nil {
			t.Fatalf("form file: %v", err)
		}
		part.Write(pngHeader)
	}
	w.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/posts", &buf)
	req.Header.Set(echo.HeaderContentType, w.FormDataContentType())
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("create post: status %d, body %s", rec.Code, rec.Body.String())
	}
	var post models.Post
	if err := json.Unmarshal(rec.Body.Bytes(), &post); err != nil {
		t.Fatalf("decode post: %v", err)
	}
	return post
}

func TestCurrentUserMockFallback(t *testing.T) {
	e := newTestAPI(t)

	rec := doJSON(e, http.MethodGet, "/api/auth/user", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d, body %s", rec.Code, rec.Body.String())
	}
	var user models.User
	json.Unmarshal(rec.Body.Bytes(), &user)
	if user.ID != "student-1" {
		t.Errorf("user id = %q, want student-1", user.ID)
	}
}

func TestCurrentUserUnknownToken(t *testing.T) {
	e := newTestAPI(t)

	rec := doJSON(e, http.MethodGet, "/api/auth/user", tokenFor(t, "ghost"), "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("status %d, want 404", rec.Code)
	}
}

func TestAuthSyncCreatesUser(t *testing.T) {
	e := newTestAPI(t)
	token := tokenFor(t, "u9")

	rec := doJSON(e, http.MethodPost, "/api/auth/sync", token, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("sync status %d, body %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(e, http.MethodGet, "/api/auth/user", token, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d after sync", rec.Code)
	}
	var user models.User
	json.Unmarshal(rec.Body.Bytes(), &user)
	if user.ID != "u9" || user.Role != models.RoleStudent {
		t.Errorf("unexpected synced user: %+v", user)
	}
}

func TestInvalidTokenRejected(t *testing.T) {
	e := newTestAPI(t)

	rec := doJSON(e, http.MethodGet, "/api/auth/user", "not-a-token", "")
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status %d, want 401", rec.Code)
	}
}

func TestCreatePostAndFeed(t *testing.T) {
	e := newTestAPI(t)
	post := createPost(t, e, "hello world", 1)

	if len(post.Attachments) != 1 {
		t.Fatalf("attachments = %v, want one generated name", post.Attachments)
	}

	// The attachment is served from /uploads.
	rec := doJSON(e, http.MethodGet, "/uploads/"+post.Attachments[0], "", "")
	if rec.Code != http.StatusOK {
		t.Errorf("attachment fetch status %d", rec.Code)
	}

	rec = doJSON(e, http.MethodGet, "/api/posts", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("feed status %d", rec.Code)
	}
	var feed []struct {
		models.Post
		IsLiked bool `json:"isLiked"`
	}
	json.Unmarshal(rec.Body.Bytes(), &feed)
	if len(feed) != 1 {
		t.Fatalf("feed length %d, want 1", len(feed))
	}
	if feed[0].IsLiked {
		t.Error("fresh post should not be liked")
	}
	if feed[0].Author == nil || feed[0].Author.ID != "student-1" {
		t.Errorf("author not joined in feed")
	}

	rec = doJSON(e, http.MethodGet, "/api/posts/user/student-1", "", "")
	var userPosts []models.Post
	json.Unmarshal(rec.Body.Bytes(), &userPosts)
	if rec.Code != http.StatusOK || len(userPosts) != 1 {
		t.Errorf("user posts: status %d, len %d", rec.Code, len(userPosts))
	}
}

func TestCreatePostValidation(t *testing.T) {
	e := newTestAPI(t)

	for _, body := range []string{
		`{"type":"text"}`,                    // missing content
		`{"content":"hi","type":"carousel"}`, // unknown type
		`{"content":"hi","type":"text","privacy":"secret"}`, // unknown privacy
	} {
		rec := doJSON(e, http.MethodPost, "/api/posts", "", body)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("body %s: status %d, want 400", body, rec.Code)
		}
	}
}

func TestLikeToggle(t *testing.T) {
	e := newTestAPI(t)
	post := createPost(t, e, "likeable", 0)
	path := "/api/posts/" + itoa(post.ID) + "/like"

	var result map[string]bool

	rec := doJSON(e, http.MethodPost, path, "", "")
	json.Unmarshal(rec.Body.Bytes(), &result)
	if rec.Code != http.StatusOK || !result["liked"] {
		t.Fatalf("first toggle: status %d, body %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(e, http.MethodPost, path, "", "")
	json.Unmarshal(rec.Body.Bytes(), &result)
	if result["liked"] {
		t.Error("second toggle should unlike")
	}

	rec = doJSON(e, http.MethodPost, "/api/posts/999/like", "", "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("like missing post: status %d, want 404", rec.Code)
	}
}

func TestCommentFlow(t *testing.T) {
	e := newTestAPI(t)
	post := createPost(t, e, "discuss", 0)
	path := "/api/posts/" + itoa(post.ID) + "/comments"

	rec := doJSON(e, http.MethodPost, path, "", `{"content":"nice"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("comment status %d, body %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(e, http.MethodPost, path, "", `{}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("empty comment: status %d, want 400", rec.Code)
	}

	rec = doJSON(e, http.MethodPost, "/api/posts/999/comments", "", `{"content":"hi"}`)
	if rec.Code != http.StatusNotFound {
		t.Errorf("comment on missing post: status %d, want 404", rec.Code)
	}

	rec = doJSON(e, http.MethodGet, path, "", "")
	var comments []models.Comment
	json.Unmarshal(rec.Body.Bytes(), &comments)
	if len(comments) != 1 {
		t.Fatalf("got %d comments, want 1", len(comments))
	}
	if comments[0].Author == nil {
		t.Error("comment author not joined")
	}
}

func TestDeletePostAuthorization(t *testing.T) {
	e := newTestAPI(t)
	post := createPost(t, e, "mine", 0)
	path := "/api/posts/" + itoa(post.ID)

	// A different, non-admin user may not delete it.
	stranger := tokenFor(t, "u2")
	doJSON(e, http.MethodPost, "/api/auth/sync", stranger, "")
	rec := doJSON(e, http.MethodDelete, path, stranger, "")
	if rec.Code != http.StatusForbidden {
		t.Errorf("stranger delete: status %d, want 403", rec.Code)
	}

	// An admin may.
	rec = doJSON(e, http.MethodDelete, path, tokenFor(t, "admin-1"), "")
	if rec.Code != http.StatusOK {
		t.Errorf("admin delete: status %d, body %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(e, http.MethodDelete, path, "", "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("delete deleted post: status %d, want 404", rec.Code)
	}
}

func TestAdminSurface(t *testing.T) {
	e := newTestAPI(t)
	post := createPost(t, e, "offensive", 0)
	admin := tokenFor(t, "admin-1")

	rec := doJSON(e, http.MethodPost, "/api/posts/"+itoa(post.ID)+"/report", "", `{"reason":"spam"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("report status %d, body %s", rec.Code, rec.Body.String())
	}
	var report models.Report
	json.Unmarshal(rec.Body.Bytes(), &report)

	// The admin surface is closed to students.
	rec = doJSON(e, http.MethodGet, "/api/admin/reports", "", "")
	if rec.Code != http.StatusForbidden {
		t.Errorf("student on admin route: status %d, want 403", rec.Code)
	}

	rec = doJSON(e, http.MethodGet, "/api/admin/reports", admin, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("admin reports status %d", rec.Code)
	}
	var reports []models.Report
	json.Unmarshal(rec.Body.Bytes(), &reports)
	if len(reports) != 1 {
		t.Fatalf("got %d pending reports, want 1", len(reports))
	}

	patchPath := "/api/admin/reports/" + itoa(report.ID)
	rec = doJSON(e, http.MethodPatch, patchPath, admin, `{"status":"whatever"}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("invalid status: status %d, want 400", rec.Code)
	}

	rec = doJSON(e, http.MethodPatch, patchPath, admin, `{"status":"resolved"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("resolve status %d, body %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(e, http.MethodGet, "/api/admin/stats", admin, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("stats status %d", rec.Code)
	}
	var stats struct {
		TotalStudents int `json:"totalStudents"`
		TotalPosts    int `json:"totalPosts"`
		ReportedPosts int `json:"reportedPosts"`
	}
	json.Unmarshal(rec.Body.Bytes(), &stats)
	if stats.TotalStudents != 2 {
		t.Errorf("totalStudents = %d, want 2 (seeded users)", stats.TotalStudents)
	}
	if stats.TotalPosts != 1 {
		t.Errorf("totalPosts = %d, want 1", stats.TotalPosts)
	}
	if stats.ReportedPosts != 0 {
		t.Errorf("reportedPosts = %d, want 0 after resolution", stats.ReportedPosts)
	}
}

func TestLoginLogoutRedirect(t *testing.T) {
	e := newTestAPI(t)

	for _, path := range []string{"/api/login", "/api/logout"} {
		rec := doJSON(e, http.MethodGet, path, "", "")
		if rec.Code != http.StatusFound {
			t.Errorf("%s: status %d, want 302", path, rec.Code)
		}
	}
}

func itoa(n int) string {
	return strconv.Itoa(n)
}
