package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/cartkeeper/internal/models"
	"github.com/iudanet/cartkeeper/internal/server/storage"
)

func TestUserStorage_CreateUser(t *testing.T) {
	ctx := context.Background()
	s, cleanup := setupTestStorage(t)
	defer cleanup()

	tests := []struct {
		wantError error
		user      *models.User
		wantRole  models.Role
		name      string
	}{
		{
			name: "create shopper",
			user: &models.User{
				ID:           uuid.New().String(),
				Username:     "shopper1",
				PasswordHash: "hash123",
				Role:         models.RoleShopper,
				CreatedAt:    time.Now(),
			},
			wantRole: models.RoleShopper,
		},
		{
			name: "create admin with last login",
			user: &models.User{
				ID:           uuid.New().String(),
				Username:     "admin1",
				PasswordHash: "hash456",
				Role:         models.RoleAdministrator,
				CreatedAt:    time.Now(),
				LastLogin:    timePtr(time.Now()),
			},
			wantRole: models.RoleAdministrator,
		},
		{
			name: "empty role defaults to shopper",
			user: &models.User{
				ID:           uuid.New().String(),
				Username:     "norole",
				PasswordHash: "hash789",
				CreatedAt:    time.Now(),
			},
			wantRole: models.RoleShopper,
		},
		{
			name: "duplicate username",
			user: &models.User{
				ID:           uuid.New().String(),
				Username:     "shopper1",
				PasswordHash: "other",
				CreatedAt:    time.Now(),
			},
			wantError: storage.ErrUserAlreadyExists,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := s.CreateUser(ctx, tt.user)
			if tt.wantError != nil {
				assert.ErrorIs(t, err, tt.wantError)
				return
			}
			require.NoError(t, err)

			got, err := s.GetUserByID(ctx, tt.user.ID)
			require.NoError(t, err)
			assert.Equal(t, tt.user.Username, got.Username)
			assert.Equal(t, tt.user.PasswordHash, got.PasswordHash)
			assert.Equal(t, tt.wantRole, got.Role)
			assert.Equal(t, tt.user.LastLogin != nil, got.LastLogin != nil)
		})
	}
}

func TestUserStorage_GetUserByUsername(t *testing.T) {
	ctx := context.Background()
	s, cleanup := setupTestStorage(t)
	defer cleanup()

	userID := createTestUser(t, ctx, s)
	created, err := s.GetUserByID(ctx, userID)
	require.NoError(t, err)

	got, err := s.GetUserByUsername(ctx, created.Username)
	require.NoError(t, err)
	assert.Equal(t, userID, got.ID)

	_, err = s.GetUserByUsername(ctx, "missing")
	assert.ErrorIs(t, err, storage.ErrUserNotFound)

	_, err = s.GetUserByID(ctx, uuid.New().String())
	assert.ErrorIs(t, err, storage.ErrUserNotFound)
}

func TestUserStorage_UpdateLastLogin(t *testing.T) {
	ctx := context.Background()
	s, cleanup := setupTestStorage(t)
	defer cleanup()

	userID := createTestUser(t, ctx, s)
	loginTime := time.Now().Truncate(time.Second)

	require.NoError(t, s.UpdateLastLogin(ctx, userID, loginTime))

	got, err := s.GetUserByID(ctx, userID)
	require.NoError(t, err)
	require.NotNil(t, got.LastLogin)
	assert.True(t, got.LastLogin.Equal(loginTime))

	err = s.UpdateLastLogin(ctx, uuid.New().String(), loginTime)
	assert.ErrorIs(t, err, storage.ErrUserNotFound)
}
