package models

// Column limits for profile fields, in runes.
const (
	MaxBioLength         = 256
	MaxSkillNameLength   = 64
	MaxCompanyLength     = 128
	MaxRoleLength        = 128
	MaxInstitutionLength = 128
	MaxDegreeLength      = 128
)

// Profile holds the free-form details a user shows on their page.
// There is one row per user by convention; it is created on first update.
type Profile struct {
	ID          uint         `gorm:"primaryKey" json:"id"`
	UserID      uint         `gorm:"not null;index" json:"user_id"`
	User        User         `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Bio         string       `gorm:"size:256" json:"bio"`
	Skills      []Skill      `gorm:"foreignKey:ProfileID;constraint:OnDelete:CASCADE" json:"skills"`
	Experiences []Experience `gorm:"foreignKey:ProfileID;constraint:OnDelete:CASCADE" json:"experiences"`
	Educations  []Education  `gorm:"foreignKey:ProfileID;constraint:OnDelete:CASCADE" json:"educations"`
}

type Skill struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	ProfileID uint   `gorm:"not null;index" json:"-"`
	Name      string `gorm:"size:64;not null" json:"name"`
}

type Experience struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	ProfileID uint   `gorm:"not null;index" json:"-"`
	Company   string `gorm:"size:128" json:"company"`
	Role      string `gorm:"size:128" json:"role"`
	Years     *int   `json:"years"`
}

type Education struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	ProfileID   uint   `gorm:"not null;index" json:"-"`
	Institution string `gorm:"size:128" json:"institution"`
	Degree      string `gorm:"size:128" json:"degree"`
	Year        *int   `json:"year"`
}

// ProfileUser is the user block embedded in a profile. Email is only set
// when the profile is shown to its owner.
type ProfileUser struct {
	ID        uint    `json:"id"`
	Username  string  `json:"username"`
	Email     string  `json:"email,omitempty"`
	AvatarURL *string `json:"avatar_url"`
}

// ProfileView is the wire representation of a profile.
type ProfileView struct {
	ID          uint         `json:"id"`
	UserID      uint         `json:"user_id"`
	Bio         string       `json:"bio"`
	User        ProfileUser  `json:"user"`
	Skills      []Skill      `json:"skills"`
	Experiences []Experience `json:"experiences"`
	Educations  []Education  `json:"educations"`
}

// View converts p into its wire representation. user must be the owner of p.
func (p *Profile) View(user *User, includeEmail bool) ProfileView {
	v := ProfileView{
		ID:          p.ID,
		UserID:      p.UserID,
		Bio:         p.Bio,
		Skills:      nonNil(p.Skills),
		Experiences: nonNil(p.Experiences),
		Educations:  nonNil(p.Educations),
	}
	if user != nil {
		v.User = ProfileUser{
			ID:        user.ID,
			Username:  user.Username,
			AvatarURL: NullableString(user.AvatarURL),
		}
		if includeEmail {
			v.User.Email = user.Email
		}
	}
	return v
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
