package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"socialhub/internal/models"
	"socialhub/internal/service"
	"socialhub/internal/storage"

	"github.com/gofiber/fiber/v2"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockPostRepository is a mock of the PostRepository interface
type MockPostRepository struct {
	mock.Mock
}

func (m *MockPostRepository) Create(ctx context.Context, post *models.Post) error {
	args := m.Called(ctx, post)
	return args.Error(0)
}

func (m *MockPostRepository) GetByID(ctx context.Context, id uint, currentUserID uint) (*models.Post, error) {
	args := m.Called(ctx, id, currentUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Post), args.Error(1)
}

func (m *MockPostRepository) List(ctx context.Context, limit, offset int, currentUserID uint) ([]*models.Post, error) {
	args := m.Called(ctx, limit, offset, currentUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Post), args.Error(1)
}

func (m *MockPostRepository) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockPostRepository) Delete(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockPostRepository) ToggleLike(ctx context.Context, userID, postID uint) (bool, int, error) {
	args := m.Called(ctx, userID, postID)
	return args.Bool(0), args.Int(1), args.Error(2)
}

// newPostTestApp mounts the post handlers behind a fake auth step for user 1.
func newPostTestApp(repo *MockPostRepository) *fiber.App {
	s := &Server{postService: service.NewPostService(repo, storage.New(afero.NewMemMapFs(), "uploads"))}

	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("userID", uint(1))
		return c.Next()
	})
	app.Post("/posts", s.CreatePost)
	app.Get("/posts", s.GetPosts)
	app.Post("/posts/:id/like", s.ToggleLike)
	app.Delete("/posts/:id", s.DeletePost)
	return app
}

func decodeError(t *testing.T, resp *http.Response) models.ErrorResponse {
	t.Helper()
	var body models.ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body
}

func TestCreatePost(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		mockSetup      func(*MockPostRepository)
		expectedStatus int
		expectedError  string
	}{
		{
			name: "Success",
			body: `{"content":"Hello world"}`,
			mockSetup: func(m *MockPostRepository) {
				m.On("Create", mock.Anything, mock.Anything).Return(nil)
				m.On("GetByID", mock.Anything, mock.Anything, uint(1)).
					Return(&models.Post{ID: 1, UserID: 1, Content: "Hello world"}, nil)
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "Missing content",
			body:           `{"content":"   "}`,
			mockSetup:      func(*MockPostRepository) {},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "Post content is required",
		},
		{
			name:           "Too long",
			body:           `{"content":"` + strings.Repeat("x", 1001) + `"}`,
			mockSetup:      func(*MockPostRepository) {},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "Post content too long (max 1000 characters)",
		},
		{
			name:           "Bad media type",
			body:           `{"content":"hi","media_type":"audio"}`,
			mockSetup:      func(*MockPostRepository) {},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "media_type must be one of: image, video",
		},
		{
			name:           "Malformed JSON",
			body:           `{"content":`,
			mockSetup:      func(*MockPostRepository) {},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "Invalid request body",
		},
		{
			name: "Storage failure",
			body: `{"content":"Hello"}`,
			mockSetup: func(m *MockPostRepository) {
				m.On("Create", mock.Anything, mock.Anything).
					Return(models.NewInternalError(errors.New("disk full")))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedError:  "Internal server error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockPostRepository)
			tt.mockSetup(repo)
			app := newPostTestApp(repo)

			req := httptest.NewRequest(http.MethodPost, "/posts", bytes.NewReader([]byte(tt.body)))
			req.Header.Set("Content-Type", "application/json")

			resp, err := app.Test(req)
			require.NoError(t, err)
			defer func() { _ = resp.Body.Close() }()
			assert.Equal(t, tt.expectedStatus, resp.StatusCode)
			if tt.expectedError != "" {
				assert.Equal(t, tt.expectedError, decodeError(t, resp).Error)
			}
			repo.AssertExpectations(t)
		})
	}
}

func TestGetPostsPaging(t *testing.T) {
	repo := new(MockPostRepository)
	repo.On("Count", mock.Anything).Return(int64(25), nil)
	repo.On("List", mock.Anything, 10, 10, uint(1)).Return([]*models.Post{
		{ID: 3, Content: "newest", LikesCount: 2, IsLiked: true, User: models.User{ID: 2, Username: "bob"}},
	}, nil)
	app := newPostTestApp(repo)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/posts?page=2&per_page=10", nil))
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Posts      []models.PostView `json:"posts"`
		Pagination models.Pagination `json:"pagination"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Len(t, body.Posts, 1)
	assert.Equal(t, "bob", body.Posts[0].User.Username)
	assert.True(t, body.Posts[0].IsLiked)
	assert.Nil(t, body.Posts[0].MediaURL)
	assert.Equal(t, models.Pagination{Page: 2, PerPage: 10, Total: 25, Pages: 3, HasNext: true, HasPrev: true}, body.Pagination)
	repo.AssertExpectations(t)
}

func TestToggleLike(t *testing.T) {
	tests := []struct {
		name           string
		path           string
		mockSetup      func(*MockPostRepository)
		expectedStatus int
		expectedBody   map[string]any
	}{
		{
			name: "Like",
			path: "/posts/7/like",
			mockSetup: func(m *MockPostRepository) {
				m.On("GetByID", mock.Anything, uint(7), uint(0)).Return(&models.Post{ID: 7, UserID: 2}, nil)
				m.On("ToggleLike", mock.Anything, uint(1), uint(7)).Return(true, 1, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   map[string]any{"message": "Post liked successfully", "likes_count": float64(1), "is_liked": true},
		},
		{
			name: "Unlike",
			path: "/posts/7/like",
			mockSetup: func(m *MockPostRepository) {
				m.On("GetByID", mock.Anything, uint(7), uint(0)).Return(&models.Post{ID: 7, UserID: 2}, nil)
				m.On("ToggleLike", mock.Anything, uint(1), uint(7)).Return(false, 0, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   map[string]any{"message": "Post unliked successfully", "likes_count": float64(0), "is_liked": false},
		},
		{
			name: "Unknown post",
			path: "/posts/8/like",
			mockSetup: func(m *MockPostRepository) {
				m.On("GetByID", mock.Anything, uint(8), uint(0)).Return(nil, models.NewNotFoundError("Post", 8))
			},
			expectedStatus: http.StatusNotFound,
		},
		{
			name:           "Invalid id",
			path:           "/posts/abc/like",
			mockSetup:      func(*MockPostRepository) {},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockPostRepository)
			tt.mockSetup(repo)
			app := newPostTestApp(repo)

			resp, err := app.Test(httptest.NewRequest(http.MethodPost, tt.path, nil))
			require.NoError(t, err)
			defer func() { _ = resp.Body.Close() }()
			assert.Equal(t, tt.expectedStatus, resp.StatusCode)
			if tt.expectedBody != nil {
				var body map[string]any
				require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
				assert.Equal(t, tt.expectedBody, body)
			}
			repo.AssertExpectations(t)
		})
	}
}

func TestDeletePost(t *testing.T) {
	t.Run("Owner", func(t *testing.T) {
		repo := new(MockPostRepository)
		repo.On("GetByID", mock.Anything, uint(4), uint(0)).Return(&models.Post{ID: 4, UserID: 1}, nil)
		repo.On("Delete", mock.Anything, uint(4)).Return(nil)

		resp, err := newPostTestApp(repo).Test(httptest.NewRequest(http.MethodDelete, "/posts/4", nil))
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusNoContent, resp.StatusCode)
		repo.AssertExpectations(t)
	})

	t.Run("Not owner", func(t *testing.T) {
		repo := new(MockPostRepository)
		repo.On("GetByID", mock.Anything, uint(4), uint(0)).Return(&models.Post{ID: 4, UserID: 2}, nil)

		resp, err := newPostTestApp(repo).Test(httptest.NewRequest(http.MethodDelete, "/posts/4", nil))
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
		repo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})
}

func TestMapServiceError(t *testing.T) {
	assert.Equal(t, fiber.StatusBadRequest, mapServiceError(models.NewValidationError("x")))
	assert.Equal(t, fiber.StatusUnauthorized, mapServiceError(models.NewUnauthorizedError("x")))
	assert.Equal(t, fiber.StatusForbidden, mapServiceError(models.NewForbiddenError("x")))
	assert.Equal(t, fiber.StatusNotFound, mapServiceError(models.NewNotFoundError("Post", 1)))
	assert.Equal(t, fiber.StatusInternalServerError, mapServiceError(errors.New("boom")))
}
