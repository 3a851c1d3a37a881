package services

import (
	"context"
	"testing"

	"campuslink_server/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserProfileCRUD(t *testing.T) {
	fake := newFakeDynamo()
	ups := &UserProfileService{Dynamo: fake}
	ctx := context.Background()

	_, err := ups.AddUserProfile(ctx, models.UserProfile{Name: "No ID"})
	assert.ErrorIs(t, err, models.ErrValidation)

	created, err := ups.AddUserProfile(ctx, models.UserProfile{
		UserID:  "user-1",
		Name:    "Maya Patel",
		EmailID: "maya@example.edu",
		Campus:  "North",
	})
	require.NoError(t, err)
	assert.Equal(t, "user-1", created.UserID)

	got, err := ups.GetUserProfile(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, "Maya Patel", got.Name)

	byEmail, err := ups.GetUserProfileByEmail(ctx, "maya@example.edu")
	require.NoError(t, err)
	assert.Equal(t, "user-1", byEmail.UserID)

	updated, err := ups.UpdateUserProfile(ctx, "user-1", map[string]string{"campus": "South"})
	require.NoError(t, err)
	assert.Equal(t, "South", updated.Campus)

	require.NoError(t, ups.DeleteUserProfile(ctx, "user-1"))
	_, err = ups.GetUserProfile(ctx, "user-1")
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestGetUserProfileByEmailNotFound(t *testing.T) {
	ups := &UserProfileService{Dynamo: newFakeDynamo()}

	_, err := ups.GetUserProfileByEmail(context.Background(), "nobody@example.edu")
	assert.ErrorIs(t, err, models.ErrNotFound)
}
