package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/justsurfingit/medstaff/internal/dtos"
	"github.com/justsurfingit/medstaff/internal/models"
	"github.com/justsurfingit/medstaff/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResumeLifecycle(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewResumeService(db)
	ctx := context.Background()
	owner := testutil.CreateUser(t, db, "owner", models.RoleUser)

	created, err := svc.Create(ctx, &owner.ID, &dtos.ResumeCreationRequest{Language: "en"})
	require.NoError(t, err)
	_, err = uuid.Parse(created.UniqueID)
	require.NoError(t, err)

	r, err := svc.GetByUniqueID(ctx, created.UniqueID)
	require.NoError(t, err)
	assert.Equal(t, models.English, r.Language)
	assert.Equal(t, "classic", r.TemplateID)

	updated, err := svc.Update(ctx, created.UniqueID, &dtos.ResumeUpdateRequest{
		FullName:    testutil.Ptr("سارة أحمد"),
		HeadingSize: testutil.Ptr(24),
		Skills:      []string{"الإسعافات الأولية", "BLS"},
		Education: []models.Education{
			{Degree: "بكالوريوس تمريض", Institution: "جامعة الملك سعود", Year: "2020"},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "سارة أحمد", *updated.FullName)
	assert.Equal(t, 24, *updated.HeadingSize)
	assert.Equal(t, []string{"الإسعافات الأولية", "BLS"}, []string(updated.Skills))
	require.Len(t, updated.Education, 1)
	assert.Equal(t, "2020", updated.Education[0].Year)
	// untouched
	assert.Equal(t, models.English, updated.Language)

	mine, err := svc.ListByUser(ctx, owner.ID)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, created.UniqueID, mine[0].UniqueID)

	_, err = svc.Update(ctx, "missing", &dtos.ResumeUpdateRequest{Summary: testutil.Ptr("x")})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestResumeCreate_DefaultsToArabic(t *testing.T) {
	svc := NewResumeService(testutil.NewDB(t))

	created, err := svc.Create(context.Background(), nil, &dtos.ResumeCreationRequest{TemplateID: "modern"})
	require.NoError(t, err)

	r, err := svc.GetByUniqueID(context.Background(), created.UniqueID)
	require.NoError(t, err)
	assert.Equal(t, models.Arabic, r.Language)
	assert.Equal(t, "modern", r.TemplateID)
	assert.Nil(t, r.UserID)
}

func TestResumeDelete_Ownership(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewResumeService(db)
	ctx := context.Background()
	owner := testutil.CreateUser(t, db, "owner", models.RoleUser)
	other := testutil.CreateUser(t, db, "other", models.RoleUser)
	admin := testutil.CreateUser(t, db, "admin", models.RoleAdmin)

	owned, err := svc.Create(ctx, &owner.ID, &dtos.ResumeCreationRequest{})
	require.NoError(t, err)
	anonymous, err := svc.Create(ctx, nil, &dtos.ResumeCreationRequest{})
	require.NoError(t, err)

	assert.ErrorIs(t, svc.Delete(ctx, owned.UniqueID, nil), ErrForbidden)
	assert.ErrorIs(t, svc.Delete(ctx, owned.UniqueID, other), ErrForbidden)
	assert.NoError(t, svc.Delete(ctx, owned.UniqueID, owner))
	assert.ErrorIs(t, svc.Delete(ctx, owned.UniqueID, admin), ErrNotFound)

	assert.NoError(t, svc.Delete(ctx, anonymous.UniqueID, other))

	again, err := svc.Create(ctx, &owner.ID, &dtos.ResumeCreationRequest{})
	require.NoError(t, err)
	assert.NoError(t, svc.Delete(ctx, again.UniqueID, admin))
}
