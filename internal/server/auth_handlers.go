package server

import (
	"strings"

	"socialhub/internal/service"

	"github.com/gofiber/fiber/v2"
)

type signupRequest struct {
	Name            string `json:"name" validate:"notblank"`
	Username        string `json:"username"`
	Email           string `json:"email" validate:"notblank"`
	Password        string `json:"password" validate:"required"`
	ConfirmPassword string `json:"confirm_password" validate:"required"`
}

func (r *signupRequest) normalize() {
	if strings.TrimSpace(r.Name) == "" {
		r.Name = r.Username
	}
}

type loginRequest struct {
	Identifier string `json:"identifier" validate:"notblank"`
	Email      string `json:"email"`
	Username   string `json:"username"`
	Password   string `json:"password" validate:"required"`
}

func (r *loginRequest) normalize() {
	if strings.TrimSpace(r.Identifier) != "" {
		return
	}
	if strings.TrimSpace(r.Email) != "" {
		r.Identifier = r.Email
	} else {
		r.Identifier = r.Username
	}
}

// Signup handles POST /api/auth/signup
func (s *Server) Signup(c *fiber.Ctx) error {
	var req signupRequest
	if err := parseBody(c, &req, "All fields are required"); err != nil {
		return respondError(c, err)
	}

	user, err := s.authService.Signup(c.UserContext(), service.SignupInput{
		Name:            req.Name,
		Email:           req.Email,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
	})
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Signup successful!",
		"user":    user.Account(),
	})
}

// Login handles POST /api/auth/login
func (s *Server) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := parseBody(c, &req, "Email/username and password are required"); err != nil {
		return respondError(c, err)
	}

	result, err := s.authService.Login(c.UserContext(), service.LoginInput{
		Identifier: req.Identifier,
		Password:   req.Password,
	})
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"success":    true,
		"message":    "Login successful!",
		"token":      result.Token,
		"expires_in": result.ExpiresIn,
		"user":       result.User.Account(),
	})
}
