package storage

import (
	"context"

	"github.com/taleb-app/backend/internal/models"
)

// SeedDevUsers upserts the two development accounts so the dev auth
// middleware has identities to fall back on. Safe to call repeatedly.
func SeedDevUsers(ctx context.Context, store Storage) error {
	_, err := store.UpsertUser(ctx, models.UpsertUser{
		ID:              "student-1",
		Email:           "student@example.com",
		FirstName:       "أحمد",
		LastName:        "محمد",
		ProfileImageURL: "https://images.unsplash.com/photo-1507003211169-0a1dd7228f2d?ixlib=rb-4.0.3&auto=format&fit=crop&w=100&h=100",
		Grade:           "الصف الحادي عشر - علمي",
		School:          "مدرسة الشارقة الثانوية",
		Role:            models.RoleStudent,
	})
	if err != nil {
		return err
	}

	_, err = store.UpsertUser(ctx, models.UpsertUser{
		ID:              "admin-1",
		Email:           "admin@school.edu",
		FirstName:       "إدارة",
		LastName:        "المدرسة",
		ProfileImageURL: "https://images.unsplash.com/photo-1472099645785-5658abf4ff4e?ixlib=rb-4.0.3&auto=format&fit=crop&w=100&h=100",
		Role:            models.RoleAdmin,
	})
	return err
}
