package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	apperrors "halflips/internal/errors"
	"halflips/internal/model"
	"halflips/internal/repository"
)

func TestUserService_GetByID(t *testing.T) {
	mockRepo := new(MockUserRepository)
	mockRepo.On("FindByID", mock.Anything, uint(1)).Return(&model.User{ID: 1, Username: "alice"}, nil)
	mockRepo.On("FindByID", mock.Anything, uint(2)).Return(nil, gorm.ErrRecordNotFound)

	svc := NewUserService(mockRepo, nil)

	user, err := svc.GetByID(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)

	_, err = svc.GetByID(context.Background(), 2)
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)

	mockRepo.AssertExpectations(t)
}

func TestUserService_Reload(t *testing.T) {
	mockRepo := new(MockUserRepository)
	mockRepo.On("FindByID", mock.Anything, uint(1)).Return(&model.User{ID: 1, Username: "alice"}, nil).Twice()
	mockRepo.On("FindByID", mock.Anything, uint(2)).Return(nil, gorm.ErrRecordNotFound).Once()

	svc := NewUserService(mockRepo, nil)

	for i := 0; i < 2; i++ {
		user, err := svc.Reload(context.Background(), 1)
		require.NoError(t, err)
		assert.Equal(t, "alice", user.Username)
	}

	_, err := svc.Reload(context.Background(), 2)
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)

	mockRepo.AssertExpectations(t)
	mockRepo.AssertNumberOfCalls(t, "FindByID", 3)
}

func TestUserService_GetByUsername(t *testing.T) {
	mockRepo := new(MockUserRepository)
	mockRepo.On("FindByUsername", mock.Anything, "alice").Return(&model.User{ID: 1, Username: "alice"}, nil)
	mockRepo.On("FindByUsername", mock.Anything, "ghost").Return(nil, gorm.ErrRecordNotFound)

	svc := NewUserService(mockRepo, nil)

	user, err := svc.GetByUsername(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, uint(1), user.ID)

	_, err = svc.GetByUsername(context.Background(), "ghost")
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
}

func TestUserService_UpdateProfile(t *testing.T) {
	tests := []struct {
		name    string
		update  ProfileUpdate
		wantPic *string
	}{
		{
			name:   "text fields only keep picture",
			update: ProfileUpdate{DisplayName: "Alice", Bio: "hi"},
		},
		{
			name:    "new picture",
			update:  ProfileUpdate{DisplayName: "", Bio: "", ProfilePic: strPtr("alice.png")},
			wantPic: strPtr("alice.png"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockUserRepository)
			mockRepo.On("Update", mock.Anything, uint(1), mock.MatchedBy(func(f repository.ProfileFields) bool {
				if f.DisplayName == nil || *f.DisplayName != tt.update.DisplayName {
					return false
				}
				if f.Bio == nil || *f.Bio != tt.update.Bio {
					return false
				}
				if tt.wantPic == nil {
					return f.ProfilePic == nil
				}
				return f.ProfilePic != nil && *f.ProfilePic == *tt.wantPic
			})).Return(&model.User{ID: 1, Username: "alice", Bio: tt.update.Bio}, nil)

			updated, err := NewUserService(mockRepo, nil).UpdateProfile(context.Background(), &model.User{ID: 1}, tt.update)

			require.NoError(t, err)
			assert.Equal(t, tt.update.Bio, updated.Bio)
			mockRepo.AssertExpectations(t)
		})
	}
}

func strPtr(s string) *string {
	return &s
}
