package repository

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"socialhub/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestPostRepository_ListNewestFirstWithDetails(t *testing.T) {
	db := newTestDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()

	author := createUser(t, db, "author")
	reader := createUser(t, db, "reader")

	base := time.Now().Add(-time.Hour)
	for i := 0; i < 3; i++ {
		post := &models.Post{UserID: author.ID, Content: fmt.Sprintf("post %d", i), CreatedAt: base.Add(time.Duration(i) * time.Minute)}
		require.NoError(t, repo.Create(ctx, post))
	}
	require.NoError(t, db.Create(&models.Like{UserID: reader.ID, PostID: 1}).Error)
	require.NoError(t, db.Create(&models.Like{UserID: author.ID, PostID: 1}).Error)

	posts, err := repo.List(ctx, 10, 0, reader.ID)
	require.NoError(t, err)
	require.Len(t, posts, 3)
	assert.Equal(t, "post 2", posts[0].Content)
	assert.Equal(t, "post 0", posts[2].Content)
	assert.Equal(t, "author", posts[0].User.Username)

	assert.Equal(t, 2, posts[2].LikesCount)
	assert.True(t, posts[2].IsLiked)
	assert.Zero(t, posts[0].LikesCount)
	assert.False(t, posts[0].IsLiked)

	page, err := repo.List(ctx, 2, 2, reader.ID)
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, "post 0", page[0].Content)

	empty, err := repo.List(ctx, 10, 30, reader.ID)
	require.NoError(t, err)
	assert.Empty(t, empty)

	total, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
}

func TestPostRepository_ListSameTimestampOrdersByID(t *testing.T) {
	db := newTestDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()
	author := createUser(t, db, "author")

	at := time.Now()
	for i := 0; i < 2; i++ {
		require.NoError(t, repo.Create(ctx, &models.Post{UserID: author.ID, Content: fmt.Sprintf("p%d", i), CreatedAt: at}))
	}

	posts, err := repo.List(ctx, 10, 0, 0)
	require.NoError(t, err)
	require.Len(t, posts, 2)
	assert.Greater(t, posts[0].ID, posts[1].ID)
}

func TestPostRepository_GetByID(t *testing.T) {
	db := newTestDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()
	author := createUser(t, db, "author")

	post := &models.Post{UserID: author.ID, Content: "hello", MediaType: models.MediaTypeImage}
	require.NoError(t, repo.Create(ctx, post))

	got, err := repo.GetByID(ctx, post.ID, author.ID)
	require.NoError(t, err)
	assert.Equal(t, "hello", got.Content)
	assert.Equal(t, "author", got.User.Username)
	assert.False(t, got.IsLiked)

	_, err = repo.GetByID(ctx, 404, author.ID)
	require.Error(t, err)
	assert.Equal(t, models.CodeNotFound, models.AsAppError(err).Code)
}

func TestPostRepository_ToggleLikeTwiceRestoresCount(t *testing.T) {
	db := newTestDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()
	author := createUser(t, db, "author")
	fan := createUser(t, db, "fan")

	post := &models.Post{UserID: author.ID, Content: "like me"}
	require.NoError(t, repo.Create(ctx, post))
	require.NoError(t, db.Create(&models.Like{UserID: author.ID, PostID: post.ID}).Error)

	liked, count, err := repo.ToggleLike(ctx, fan.ID, post.ID)
	require.NoError(t, err)
	assert.True(t, liked)
	assert.Equal(t, 2, count)

	liked, count, err = repo.ToggleLike(ctx, fan.ID, post.ID)
	require.NoError(t, err)
	assert.False(t, liked)
	assert.Equal(t, 1, count)
}

func TestPostRepository_DeleteRemovesLikes(t *testing.T) {
	db := newTestDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()
	author := createUser(t, db, "author")

	post := &models.Post{UserID: author.ID, Content: "bye"}
	require.NoError(t, repo.Create(ctx, post))
	_, _, err := repo.ToggleLike(ctx, author.ID, post.ID)
	require.NoError(t, err)

	require.NoError(t, repo.Delete(ctx, post.ID))

	var likes int64
	require.NoError(t, db.Model(&models.Like{}).Where("post_id = ?", post.ID).Count(&likes).Error)
	assert.Zero(t, likes)

	err = repo.Delete(ctx, post.ID)
	require.Error(t, err)
	assert.Equal(t, models.CodeNotFound, models.AsAppError(err).Code)
}

func TestPostRepository_ListQueryShape(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewPostRepository(db)

	mock.ExpectQuery(`SELECT posts\.\*, \(SELECT COUNT\(\*\) FROM likes WHERE likes\.post_id = posts\.id\) AS likes_count, `+
		`EXISTS\(SELECT 1 FROM likes WHERE likes\.post_id = posts\.id AND likes\.user_id = \$1\) AS is_liked `+
		`FROM "posts" ORDER BY posts\.created_at DESC,\s*posts\.id DESC LIMIT \$2 OFFSET \$3`).
		WithArgs(7, 10, 20).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "content", "likes_count", "is_liked"}).
			AddRow(5, 3, "hi", 4, true))
	mock.ExpectQuery(`SELECT \* FROM "users" WHERE "users"\."id" = \$1`).
		WithArgs(3).
		WillReturnRows(sqlmock.NewRows([]string{"id", "username"}).AddRow(3, "carol"))

	posts, err := repo.List(context.Background(), 10, 20, 7)
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, 4, posts[0].LikesCount)
	assert.True(t, posts[0].IsLiked)
	assert.Equal(t, "carol", posts[0].User.Username)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIsUniqueConstraintError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"gorm translated", gorm.ErrDuplicatedKey, true},
		{"wrapped gorm", fmt.Errorf("create: %w", gorm.ErrDuplicatedKey), true},
		{"postgres unique", &pgconn.PgError{Code: "23505"}, true},
		{"postgres fk", &pgconn.PgError{Code: "23503"}, false},
		{"sqlite text", errors.New("UNIQUE constraint failed: users.email"), true},
		{"other", errors.New("connection reset"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isUniqueConstraintError(tt.err))
		})
	}
}
