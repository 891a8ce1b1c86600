package server

import (
	"socialhub/internal/service"
	"socialhub/internal/storage"

	"github.com/gofiber/fiber/v2"
)

// updateProfileRequest keeps absent fields nil so they are left untouched;
// an empty list is a request to clear.
type updateProfileRequest struct {
	Bio         *string                    `json:"bio"`
	Skills      *[]service.SkillInput      `json:"skills"`
	Experiences *[]service.ExperienceInput `json:"experiences"`
	Educations  *[]service.EducationInput  `json:"educations"`
}

// GetMyProfile handles GET /api/profile
func (s *Server) GetMyProfile(c *fiber.Ctx) error {
	profile, err := s.profileService.GetOwnProfile(c.UserContext(), currentUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"profile": profile})
}

// GetUserProfile handles GET /api/profile/:userId
func (s *Server) GetUserProfile(c *fiber.Ctx) error {
	userID, err := parseID(c, "userId", "user ID")
	if err != nil {
		return nil
	}

	profile, err := s.profileService.GetPublicProfile(c.UserContext(), userID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"profile": profile})
}

// UpdateMyProfile handles PUT /api/profile
func (s *Server) UpdateMyProfile(c *fiber.Ctx) error {
	var req updateProfileRequest
	if err := parseBody(c, &req, ""); err != nil {
		return respondError(c, err)
	}

	profile, err := s.profileService.UpdateProfile(c.UserContext(), service.UpdateProfileInput{
		UserID:      currentUserID(c),
		Bio:         req.Bio,
		Skills:      req.Skills,
		Experiences: req.Experiences,
		Educations:  req.Educations,
	})
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "Profile updated successfully",
		"profile": profile,
	})
}

// UploadProfileImage handles POST /api/profile/image (multipart field "image")
func (s *Server) UploadProfileImage(c *fiber.Ctx) error {
	file, content, err := readUpload(c, "image")
	if err != nil {
		return respondError(c, err)
	}

	url, err := s.profileService.UploadImage(c.UserContext(), service.UploadInput{
		UserID:   currentUserID(c),
		Filename: file.Filename,
		Content:  content,
	})
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"message":   "Profile image uploaded successfully",
		"image_url": url,
	})
}

// ServeProfileImage handles GET /api/profile/uploads/:filename
func (s *Server) ServeProfileImage(c *fiber.Ctx) error {
	filename := c.Params("filename")
	data, err := s.profileService.ReadImage(c.UserContext(), filename)
	if err != nil {
		return respondError(c, err)
	}
	c.Type(storage.Extension(filename))
	return c.Send(data)
}
