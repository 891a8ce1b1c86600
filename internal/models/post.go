package models

import "time"

// Media types accepted on a post.
const (
	MediaTypeImage = "image"
	MediaTypeVideo = "video"
)

// MaxPostContentLength is measured in runes.
const MaxPostContentLength = 1000

// Post represents a text post with optional attached media.
type Post struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	UserID    uint   `gorm:"not null;index" json:"user_id"`
	User      User   `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"user"`
	Content   string `gorm:"type:text;not null" json:"content"`
	MediaURL  string `gorm:"size:256" json:"media_url"`
	MediaType string `gorm:"size:20" json:"media_type"`
	Likes     []Like `gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE" json:"-"`
	// LikesCount is not persisted; computed at query time
	LikesCount int `gorm:"->;-:migration" json:"likes_count"`
	// IsLiked reports whether the requesting user liked this post (computed)
	IsLiked   bool      `gorm:"->;-:migration" json:"is_liked"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// PostView is the wire representation of a post.
type PostView struct {
	ID         uint        `json:"id"`
	Content    string      `json:"content"`
	MediaURL   *string     `json:"media_url"`
	MediaType  *string     `json:"media_type"`
	CreatedAt  time.Time   `json:"created_at"`
	UpdatedAt  time.Time   `json:"updated_at"`
	User       UserSummary `json:"user"`
	LikesCount int         `json:"likes_count"`
	IsLiked    bool        `json:"is_liked"`
}

// View converts p into its wire representation.
func (p *Post) View() PostView {
	return PostView{
		ID:         p.ID,
		Content:    p.Content,
		MediaURL:   NullableString(p.MediaURL),
		MediaType:  NullableString(p.MediaType),
		CreatedAt:  p.CreatedAt,
		UpdatedAt:  p.UpdatedAt,
		User:       p.User.Summary(),
		LikesCount: p.LikesCount,
		IsLiked:    p.IsLiked,
	}
}

// Like represents a user's like on a post.
// The combination of UserID and PostID must be unique.
type Like struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_user_post" json:"user_id"`
	PostID    uint      `gorm:"not null;uniqueIndex:idx_user_post;index" json:"post_id"`
	CreatedAt time.Time `json:"created_at"`

	User User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

// Pagination describes one page of a listing.
type Pagination struct {
	Page    int   `json:"page"`
	PerPage int   `json:"per_page"`
	Total   int64 `json:"total"`
	Pages   int   `json:"pages"`
	HasNext bool  `json:"has_next"`
	HasPrev bool  `json:"has_prev"`
}

// NewPagination computes page counts for total items split into perPage chunks.
func NewPagination(page, perPage int, total int64) Pagination {
	pages := 0
	if perPage > 0 {
		pages = int((total + int64(perPage) - 1) / int64(perPage))
	}
	return Pagination{
		Page:    page,
		PerPage: perPage,
		Total:   total,
		Pages:   pages,
		HasNext: page < pages,
		HasPrev: page > 1,
	}
}
