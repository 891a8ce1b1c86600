package server

import (
	"strings"
	"time"

	"socialhub/internal/models"
	"socialhub/internal/service"
	"socialhub/internal/storage"

	"github.com/gofiber/fiber/v2"
)

type createPostRequest struct {
	Content   string `json:"content" validate:"notblank"`
	MediaURL  string `json:"media_url" validate:"omitempty,max=256"`
	MediaType string `json:"media_type" validate:"omitempty,oneof=image video"`
}

func (r *createPostRequest) normalize() {
	r.MediaURL = strings.TrimSpace(r.MediaURL)
	r.MediaType = strings.TrimSpace(r.MediaType)
}

// CreatePost handles POST /api/posts
func (s *Server) CreatePost(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userID := currentUserID(c)

	var req createPostRequest
	if err := parseBody(c, &req, "Post content is required"); err != nil {
		return respondError(c, err)
	}

	post, err := s.postService.CreatePost(ctx, service.CreatePostInput{
		UserID:    userID,
		Content:   req.Content,
		MediaURL:  req.MediaURL,
		MediaType: req.MediaType,
	})
	if err != nil {
		return respondError(c, err)
	}

	s.publishBroadcastEvent(ctx, EventPostCreated, map[string]interface{}{
		"post_id":    post.ID,
		"author_id":  post.UserID,
		"created_at": time.Now().UTC().Format(time.RFC3339Nano),
	})

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Post created successfully",
		"post":    post.View(),
	})
}

// GetPosts handles GET /api/posts?page=&per_page=
func (s *Server) GetPosts(c *fiber.Ctx) error {
	posts, page, err := s.postService.ListPosts(c.UserContext(), service.ListPostsInput{
		Page:          c.QueryInt("page", 1),
		PerPage:       c.QueryInt("per_page", service.DefaultPerPage),
		CurrentUserID: currentUserID(c),
	})
	if err != nil {
		return respondError(c, err)
	}

	views := make([]models.PostView, 0, len(posts))
	for _, p := range posts {
		views = append(views, p.View())
	}
	return c.JSON(fiber.Map{
		"posts":      views,
		"pagination": page,
	})
}

// GetPost handles GET /api/posts/:id
func (s *Server) GetPost(c *fiber.Ctx) error {
	id, err := parseID(c, "id", "post ID")
	if err != nil {
		return nil
	}

	post, err := s.postService.GetPost(c.UserContext(), id, currentUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"post": post.View()})
}

// DeletePost handles DELETE /api/posts/:id
func (s *Server) DeletePost(c *fiber.Ctx) error {
	ctx := c.UserContext()
	id, err := parseID(c, "id", "post ID")
	if err != nil {
		return nil
	}

	if err := s.postService.DeletePost(ctx, service.DeletePostInput{UserID: currentUserID(c), PostID: id}); err != nil {
		return respondError(c, err)
	}

	s.publishBroadcastEvent(ctx, EventPostDeleted, map[string]interface{}{
		"post_id": id,
	})
	return c.SendStatus(fiber.StatusNoContent)
}

// ToggleLike handles POST /api/posts/:id/like
func (s *Server) ToggleLike(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userID := currentUserID(c)
	postID, err := parseID(c, "id", "post ID")
	if err != nil {
		return nil
	}

	result, err := s.postService.ToggleLike(ctx, userID, postID)
	if err != nil {
		return respondError(c, err)
	}

	s.publishBroadcastEvent(ctx, EventPostReactionUpdated, map[string]interface{}{
		"post_id":     postID,
		"user_id":     userID,
		"likes_count": result.LikesCount,
		"liked":       result.Liked,
	})
	if result.Liked && result.AuthorID != userID {
		s.publishUserEvent(ctx, result.AuthorID, EventPostLiked, map[string]interface{}{
			"post_id": postID,
			"user_id": userID,
		})
	}

	message := "Post unliked successfully"
	if result.Liked {
		message = "Post liked successfully"
	}
	return c.JSON(fiber.Map{
		"message":     message,
		"likes_count": result.LikesCount,
		"is_liked":    result.Liked,
	})
}

// UploadPostMedia handles POST /api/posts/media (multipart field "media")
func (s *Server) UploadPostMedia(c *fiber.Ctx) error {
	file, content, err := readUpload(c, "media")
	if err != nil {
		return respondError(c, err)
	}

	upload, err := s.postService.UploadMedia(c.UserContext(), service.UploadInput{
		UserID:   currentUserID(c),
		Filename: file.Filename,
		Content:  content,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(upload)
}

// ServePostMedia handles GET /api/posts/uploads/:filename
func (s *Server) ServePostMedia(c *fiber.Ctx) error {
	filename := c.Params("filename")
	data, err := s.postService.ReadMedia(c.UserContext(), filename)
	if err != nil {
		return respondError(c, err)
	}
	c.Type(storage.Extension(filename))
	return c.Send(data)
}
