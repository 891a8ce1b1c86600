package repository

import (
	"context"
	"testing"

	"socialhub/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }

func TestProfileRepository_GetByUserIDMissing(t *testing.T) {
	repo := NewProfileRepository(newTestDB(t))

	_, err := repo.GetByUserID(context.Background(), 1)
	require.Error(t, err)
	assert.Equal(t, models.CodeNotFound, models.AsAppError(err).Code)
}

func TestProfileRepository_ApplyCreatesOnFirstWrite(t *testing.T) {
	db := newTestDB(t)
	repo := NewProfileRepository(db)
	ctx := context.Background()
	user := createUser(t, db, "ada")

	bio := "analyst"
	skills := []models.Skill{{Name: "math"}, {Name: "poetry"}}
	experiences := []models.Experience{{Company: "Babbage & Co", Role: "Programmer", Years: intPtr(3)}}

	profile, err := repo.Apply(ctx, user.ID, ProfileChanges{Bio: &bio, Skills: &skills, Experiences: &experiences})
	require.NoError(t, err)
	assert.Equal(t, user.ID, profile.UserID)
	assert.Equal(t, "analyst", profile.Bio)
	assert.Equal(t, "ada", profile.User.Username)
	require.Len(t, profile.Skills, 2)
	assert.Equal(t, "math", profile.Skills[0].Name)
	require.Len(t, profile.Experiences, 1)
	assert.Equal(t, 3, *profile.Experiences[0].Years)
	assert.Empty(t, profile.Educations)

	stored, err := repo.GetByUserID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, profile.ID, stored.ID)
}

func TestProfileRepository_ApplyReplacesOnlyPresentFields(t *testing.T) {
	db := newTestDB(t)
	repo := NewProfileRepository(db)
	ctx := context.Background()
	user := createUser(t, db, "grace")

	bio := "compilers"
	skills := []models.Skill{{Name: "COBOL"}}
	educations := []models.Education{{Institution: "Yale", Degree: "PhD", Year: intPtr(1934)}}
	first, err := repo.Apply(ctx, user.ID, ProfileChanges{Bio: &bio, Skills: &skills, Educations: &educations})
	require.NoError(t, err)
	oldSkillID := first.Skills[0].ID

	replacement := []models.Skill{{ID: oldSkillID, Name: "FLOW-MATIC"}}
	second, err := repo.Apply(ctx, user.ID, ProfileChanges{Skills: &replacement})
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "compilers", second.Bio)
	require.Len(t, second.Skills, 1)
	assert.Equal(t, "FLOW-MATIC", second.Skills[0].Name)
	require.Len(t, second.Educations, 1)

	cleared := []models.Skill{}
	third, err := repo.Apply(ctx, user.ID, ProfileChanges{Skills: &cleared})
	require.NoError(t, err)
	assert.Empty(t, third.Skills)
	assert.Len(t, third.Educations, 1)

	var skillRows int64
	require.NoError(t, db.Model(&models.Skill{}).Count(&skillRows).Error)
	assert.Zero(t, skillRows)
}

func TestProfileRepository_ApplyClearsBio(t *testing.T) {
	db := newTestDB(t)
	repo := NewProfileRepository(db)
	ctx := context.Background()
	user := createUser(t, db, "linus")

	bio := "kernels"
	_, err := repo.Apply(ctx, user.ID, ProfileChanges{Bio: &bio})
	require.NoError(t, err)

	empty := ""
	profile, err := repo.Apply(ctx, user.ID, ProfileChanges{Bio: &empty})
	require.NoError(t, err)
	assert.Empty(t, profile.Bio)
}
