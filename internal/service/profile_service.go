package service

import (
	"context"
	"strings"

	"socialhub/internal/cache"
	"socialhub/internal/models"
	"socialhub/internal/observability"
	"socialhub/internal/repository"
	"socialhub/internal/storage"
)

// ProfileImageURLPrefix is where stored avatars are served from.
const ProfileImageURLPrefix = "/api/profile/uploads/"

type ProfileService struct {
	profiles repository.ProfileRepository
	users    repository.UserRepository
	cache    *cache.Cache
	store    *storage.Store
}

type SkillInput struct {
	Name string `json:"name"`
}

type ExperienceInput struct {
	Company string `json:"company"`
	Role    string `json:"role"`
	Years   *int   `json:"years"`
}

type EducationInput struct {
	Institution string `json:"institution"`
	Degree      string `json:"degree"`
	Year        *int   `json:"year"`
}

// UpdateProfileInput carries only the fields present in the request; nil
// means "leave as is".
type UpdateProfileInput struct {
	UserID      uint
	Bio         *string
	Skills      *[]SkillInput
	Experiences *[]ExperienceInput
	Educations  *[]EducationInput
}

func NewProfileService(
	profiles repository.ProfileRepository,
	users repository.UserRepository,
	c *cache.Cache,
	store *storage.Store,
) *ProfileService {
	return &ProfileService{
		profiles: profiles,
		users:    users,
		cache:    c,
		store:    store,
	}
}

// GetOwnProfile returns the requester's profile including their email.
func (s *ProfileService) GetOwnProfile(ctx context.Context, userID uint) (*models.ProfileView, error) {
	profile, err := s.profiles.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	view := profile.View(&profile.User, true)
	return &view, nil
}

// GetPublicProfile returns another user's profile without their email.
func (s *ProfileService) GetPublicProfile(ctx context.Context, userID uint) (*models.ProfileView, error) {
	var view models.ProfileView
	err := s.cache.Aside(ctx, cache.ProfileKey(userID), &view, cache.ProfileTTL, func() error {
		profile, err := s.profiles.GetByUserID(ctx, userID)
		if err != nil {
			return err
		}
		view = profile.View(&profile.User, false)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &view, nil
}

// UpdateProfile writes the present fields, truncating text to column limits
// and skipping list entries that lack their required parts.
func (s *ProfileService) UpdateProfile(ctx context.Context, in UpdateProfileInput) (*models.ProfileView, error) {
	var changes repository.ProfileChanges

	if in.Bio != nil {
		bio := truncateRunes(*in.Bio, models.MaxBioLength)
		changes.Bio = &bio
	}
	if in.Skills != nil {
		skills := make([]models.Skill, 0, len(*in.Skills))
		for _, sk := range *in.Skills {
			name := strings.TrimSpace(sk.Name)
			if name == "" {
				continue
			}
			skills = append(skills, models.Skill{Name: truncateRunes(name, models.MaxSkillNameLength)})
		}
		changes.Skills = &skills
	}
	if in.Experiences != nil {
		experiences := make([]models.Experience, 0, len(*in.Experiences))
		for _, ex := range *in.Experiences {
			company, role := strings.TrimSpace(ex.Company), strings.TrimSpace(ex.Role)
			if company == "" || role == "" {
				continue
			}
			experiences = append(experiences, models.Experience{
				Company: truncateRunes(company, models.MaxCompanyLength),
				Role:    truncateRunes(role, models.MaxRoleLength),
				Years:   ex.Years,
			})
		}
		changes.Experiences = &experiences
	}
	if in.Educations != nil {
		educations := make([]models.Education, 0, len(*in.Educations))
		for _, ed := range *in.Educations {
			institution, degree := strings.TrimSpace(ed.Institution), strings.TrimSpace(ed.Degree)
			if institution == "" || degree == "" {
				continue
			}
			educations = append(educations, models.Education{
				Institution: truncateRunes(institution, models.MaxInstitutionLength),
				Degree:      truncateRunes(degree, models.MaxDegreeLength),
				Year:        ed.Year,
			})
		}
		changes.Educations = &educations
	}

	profile, err := s.profiles.Apply(ctx, in.UserID, changes)
	if err != nil {
		return nil, err
	}
	s.cache.Invalidate(ctx, cache.ProfileKey(in.UserID))

	view := profile.View(&profile.User, true)
	return &view, nil
}

// UploadImage stores a new avatar and points the user at it.
func (s *ProfileService) UploadImage(ctx context.Context, in UploadInput) (string, error) {
	if err := s.store.Check(storage.ProfileImage, in.Filename, int64(len(in.Content))); err != nil {
		return "", uploadError(storage.ProfileImage, err)
	}
	content, err := storage.FitImage(in.Content, storage.MaxAvatarEdge)
	if err != nil {
		return "", uploadError(storage.ProfileImage, err)
	}

	name, err := s.store.Save(storage.ProfileImage, in.Filename, content)
	if err != nil {
		return "", uploadError(storage.ProfileImage, err)
	}
	observability.UploadBytes.WithLabelValues(storage.ProfileImage.Dir).Observe(float64(len(content)))

	url := ProfileImageURLPrefix + name
	if err := s.users.UpdateAvatar(ctx, in.UserID, url); err != nil {
		return "", err
	}
	return url, nil
}

func (s *ProfileService) ReadImage(ctx context.Context, filename string) ([]byte, error) {
	return readUpload(s.store, storage.ProfileImage, filename)
}

func truncateRunes(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	n := 0
	for i := range s {
		if n == limit {
			return s[:i]
		}
		n++
	}
	return s
}
