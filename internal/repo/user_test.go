package repo

import (
	"context"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/hoangminh-dev/streetstore/internal/models"
)

func initTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Product{},
		&models.CartItem{},
		&models.Order{},
		&models.OrderItem{},
	))
	return db
}

func seedUser(t *testing.T, db *gorm.DB, username, email string, role models.Role) *models.User {
	t.Helper()
	u := &models.User{
		Username:     username,
		Email:        email,
		PasswordHash: "hashed",
		Role:         role,
	}
	require.NoError(t, db.Create(u).Error)
	return u
}

func TestUserRepoFind(t *testing.T) {
	db := initTestDB(t)
	r := &UserRepo{DB: db}
	ctx := context.Background()

	seeded := seedUser(t, db, "bob", "bob@example.com", models.RoleUser)

	byEmail, err := r.FindByEmail(ctx, "bob@example.com")
	require.NoError(t, err)
	require.Equal(t, seeded.ID, byEmail.ID)

	byUsername, err := r.FindByUsername(ctx, "bob")
	require.NoError(t, err)
	require.Equal(t, seeded.ID, byUsername.ID)

	byID, err := r.FindByID(ctx, seeded.ID)
	require.NoError(t, err)
	require.Equal(t, "bob", byID.Username)

	_, err = r.FindByEmail(ctx, "nobody@example.com")
	require.ErrorIs(t, err, ErrNotFound)

	_, err = r.FindByID(ctx, 9999)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestUserRepoCreateConflict(t *testing.T) {
	db := initTestDB(t)
	r := &UserRepo{DB: db}
	ctx := context.Background()

	seedUser(t, db, "bob", "bob@example.com", models.RoleUser)

	sameUsername := &models.User{Username: "bob", Email: "other@example.com", PasswordHash: "h", Role: models.RoleUser}
	require.ErrorIs(t, r.Create(ctx, sameUsername), ErrConflict)

	sameEmail := &models.User{Username: "alice", Email: "bob@example.com", PasswordHash: "h", Role: models.RoleUser}
	require.ErrorIs(t, r.Create(ctx, sameEmail), ErrConflict)

	var count int64
	require.NoError(t, db.Model(&models.User{}).Count(&count).Error)
	require.EqualValues(t, 1, count)
}

func TestUserRepoUpdateProfileRestrictedFields(t *testing.T) {
	db := initTestDB(t)
	r := &UserRepo{DB: db}
	ctx := context.Background()

	seeded := seedUser(t, db, "bob", "bob@example.com", models.RoleUser)

	updated, err := r.UpdateProfile(ctx, seeded.ID, "Bob Builder", "0901234567")
	require.NoError(t, err)
	require.Equal(t, "Bob Builder", updated.Name)
	require.Equal(t, "0901234567", updated.PhoneNumber)

	// Empty values keep the previous ones.
	updated, err = r.UpdateProfile(ctx, seeded.ID, "", "")
	require.NoError(t, err)
	require.Equal(t, "Bob Builder", updated.Name)
	require.Equal(t, "0901234567", updated.PhoneNumber)

	// Identity and role are untouched by profile updates.
	fresh, err := r.FindByID(ctx, seeded.ID)
	require.NoError(t, err)
	require.Equal(t, "bob", fresh.Username)
	require.Equal(t, "bob@example.com", fresh.Email)
	require.Equal(t, models.RoleUser, fresh.Role)

	_, err = r.UpdateProfile(ctx, 9999, "x", "")
	require.ErrorIs(t, err, ErrNotFound)
}
