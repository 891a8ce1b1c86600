package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"socialhub/internal/models"
	"socialhub/internal/observability"
	"socialhub/internal/repository"
	"socialhub/internal/storage"

	"go.opentelemetry.io/otel/attribute"
)

const (
	DefaultPerPage = 10
	MaxPerPage     = 100
)

// MediaURLPrefix is where stored post media is served from.
const MediaURLPrefix = "/api/posts/uploads/"

type PostService struct {
	posts repository.PostRepository
	store *storage.Store
}

type CreatePostInput struct {
	UserID    uint
	Content   string
	MediaURL  string
	MediaType string
}

type ListPostsInput struct {
	Page          int
	PerPage       int
	CurrentUserID uint
}

type DeletePostInput struct {
	UserID uint
	PostID uint
}

// UploadInput is a file received from a multipart form.
type UploadInput struct {
	UserID   uint
	Filename string
	Content  []byte
}

// LikeResult is the state of a post after a like toggle.
type LikeResult struct {
	Liked      bool
	LikesCount int
	AuthorID   uint
}

// MediaUpload describes a stored post attachment.
type MediaUpload struct {
	URL       string `json:"media_url"`
	MediaType string `json:"media_type"`
	Filename  string `json:"filename"`
}

func NewPostService(posts repository.PostRepository, store *storage.Store) *PostService {
	return &PostService{posts: posts, store: store}
}

func (s *PostService) CreatePost(ctx context.Context, in CreatePostInput) (*models.Post, error) {
	content := strings.TrimSpace(in.Content)
	if content == "" {
		return nil, models.NewValidationError("Post content is required")
	}
	if utf8.RuneCountInString(content) > models.MaxPostContentLength {
		return nil, models.NewValidationError(fmt.Sprintf("Post content too long (max %d characters)", models.MaxPostContentLength))
	}

	mediaType := strings.TrimSpace(in.MediaType)
	switch mediaType {
	case "", models.MediaTypeImage, models.MediaTypeVideo:
	default:
		return nil, models.NewValidationError("Invalid media type")
	}
	mediaURL := strings.TrimSpace(in.MediaURL)
	if utf8.RuneCountInString(mediaURL) > 256 {
		return nil, models.NewValidationError("Media URL too long")
	}

	post := &models.Post{
		UserID:    in.UserID,
		Content:   content,
		MediaURL:  mediaURL,
		MediaType: mediaType,
	}
	if err := s.posts.Create(ctx, post); err != nil {
		return nil, err
	}
	observability.PostsCreated.Inc()

	return s.posts.GetByID(ctx, post.ID, in.UserID)
}

// ListPosts returns one page of the feed. Out-of-range pages are empty, not errors.
func (s *PostService) ListPosts(ctx context.Context, in ListPostsInput) ([]*models.Post, models.Pagination, error) {
	page := in.Page
	if page < 1 {
		page = 1
	}
	perPage := in.PerPage
	if perPage < 1 {
		perPage = DefaultPerPage
	}
	if perPage > MaxPerPage {
		perPage = MaxPerPage
	}

	total, err := s.posts.Count(ctx)
	if err != nil {
		return nil, models.Pagination{}, err
	}
	posts, err := s.posts.List(ctx, perPage, (page-1)*perPage, in.CurrentUserID)
	if err != nil {
		return nil, models.Pagination{}, err
	}
	return posts, models.NewPagination(page, perPage, total), nil
}

func (s *PostService) GetPost(ctx context.Context, postID, currentUserID uint) (*models.Post, error) {
	return s.posts.GetByID(ctx, postID, currentUserID)
}

func (s *PostService) DeletePost(ctx context.Context, in DeletePostInput) error {
	post, err := s.posts.GetByID(ctx, in.PostID, 0)
	if err != nil {
		return err
	}
	if post.UserID != in.UserID {
		return models.NewForbiddenError("You can only delete your own posts")
	}
	return s.posts.Delete(ctx, in.PostID)
}

func (s *PostService) ToggleLike(ctx context.Context, userID, postID uint) (result *LikeResult, err error) {
	ctx, end := observability.StartSpan(ctx, "posts.ToggleLike",
		attribute.Int64("post.id", int64(postID)))
	defer func() { end(err) }()

	post, err := s.posts.GetByID(ctx, postID, 0)
	if err != nil {
		return nil, err
	}

	liked, count, err := s.posts.ToggleLike(ctx, userID, postID)
	if err != nil {
		return nil, err
	}

	state := "unliked"
	if liked {
		state = "liked"
	}
	observability.LikeToggles.WithLabelValues(state).Inc()

	return &LikeResult{Liked: liked, LikesCount: count, AuthorID: post.UserID}, nil
}

func (s *PostService) UploadMedia(ctx context.Context, in UploadInput) (*MediaUpload, error) {
	name, err := s.store.Save(storage.PostMedia, in.Filename, in.Content)
	if err != nil {
		return nil, uploadError(storage.PostMedia, err)
	}
	observability.UploadBytes.WithLabelValues(storage.PostMedia.Dir).Observe(float64(len(in.Content)))

	mediaType := models.MediaTypeImage
	if storage.IsVideo(name) {
		mediaType = models.MediaTypeVideo
	}
	return &MediaUpload{
		URL:       MediaURLPrefix + name,
		MediaType: mediaType,
		Filename:  name,
	}, nil
}

func (s *PostService) ReadMedia(ctx context.Context, filename string) ([]byte, error) {
	return readUpload(s.store, storage.PostMedia, filename)
}

// uploadError maps storage failures onto client-facing messages.
func uploadError(kind storage.Kind, err error) error {
	switch {
	case errors.Is(err, storage.ErrNoFilename):
		return models.NewValidationError("No selected file")
	case errors.Is(err, storage.ErrInvalidType):
		return models.NewValidationError("Invalid file type")
	case errors.Is(err, storage.ErrTooLarge):
		return models.NewValidationError(fmt.Sprintf("File too large. Maximum %dMB allowed", kind.MaxMB()))
	case errors.Is(err, storage.ErrInvalidImage):
		return models.NewValidationError("Invalid image file")
	default:
		return models.NewInternalError(err)
	}
}

func readUpload(store *storage.Store, kind storage.Kind, filename string) ([]byte, error) {
	data, err := store.Read(kind, filename)
	switch {
	case err == nil:
		return data, nil
	case errors.Is(err, storage.ErrInvalidName):
		return nil, models.NewValidationError("Invalid filename")
	case errors.Is(err, storage.ErrFileNotFound):
		return nil, models.NewNotFoundError("File", filename)
	default:
		return nil, models.NewInternalError(err)
	}
}
