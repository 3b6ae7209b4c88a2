package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/justsurfingit/medstaff/internal/models"
	"github.com/justsurfingit/medstaff/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

type fakeResearcher struct {
	candidates map[string][]FacilityCandidate
	failCity   string
	details    *FacilityDetails
	jobs       []JobSuggestion
	lookups    []string
}

func (f *fakeResearcher) DiscoverFacilities(_ context.Context, city string) ([]FacilityCandidate, error) {
	if city == f.failCity {
		return nil, errors.New("upstream timeout")
	}
	return f.candidates[city], nil
}

func (f *fakeResearcher) LookupFacility(_ context.Context, name, _ string) (*FacilityDetails, error) {
	f.lookups = append(f.lookups, name)
	return f.details, nil
}

func (f *fakeResearcher) SuggestJobs(context.Context, []models.Facility) ([]JobSuggestion, error) {
	return f.jobs, nil
}

func TestDiscover_InsertsUnseenAsPending(t *testing.T) {
	db := testutil.NewDB(t)
	testutil.CreateFacility(t, db, "مستشفى الحبيب", riyadh, models.Verified)
	researcher := &fakeResearcher{
		failCity: jeddah,
		candidates: map[string][]FacilityCandidate{
			riyadh: {
				{Name: "مستشفى الحبيب", Type: "hospital"},
				{Name: "عيادة الشفاء", Type: "clinic", Phone: "0110000000"},
				{Name: "مركز غامض", Type: "lab"},
				{Name: "  "},
			},
		},
	}
	svc := NewEnrichmentService(db, researcher, 0)

	res, err := svc.Discover(context.Background(), []string{riyadh, jeddah})
	require.NoError(t, err)
	assert.Equal(t, 1, res.CitiesProcessed)
	assert.Equal(t, 2, res.FacilitiesAdded)
	assert.Len(t, res.Errors, 1)

	var added []models.Facility
	require.NoError(t, db.Where("verification_status = ?", models.Pending).Order("id").Find(&added).Error)
	require.Len(t, added, 2)
	assert.Equal(t, models.FacilityClinic, added[0].Type)
	assert.Equal(t, riyadh, added[0].City)
	assert.Equal(t, "0110000000", *added[0].Phone)
	assert.Equal(t, models.FacilityOther, added[1].Type)

	var verified int64
	db.Model(&models.Facility{}).Where("verification_status = ?", models.Verified).Count(&verified)
	assert.Equal(t, int64(1), verified)
}

func TestVerify_NeverMarksVerified(t *testing.T) {
	db := testutil.NewDB(t)
	incomplete := testutil.CreateFacility(t, db, "مستشفى", riyadh, models.Unverified)
	require.NoError(t, db.Model(incomplete).Update("phone", "0111111111").Error)
	published := testutil.CreateFacility(t, db, "مجمع", riyadh, models.Verified)

	researcher := &fakeResearcher{details: &FacilityDetails{
		Phone:    "0999999999",
		Address:  "طريق الملك فهد",
		Website:  "https://example.sa",
		Verified: true,
	}}
	svc := NewEnrichmentService(db, researcher, 0)

	res, err := svc.Verify(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, res.Processed)
	assert.Equal(t, 2, res.Updated)
	assert.Equal(t, 2, res.ClaimedVerified)

	var got models.Facility
	require.NoError(t, db.First(&got, incomplete.ID).Error)
	assert.Equal(t, models.Pending, got.VerificationStatus)
	// known values are kept
	assert.Equal(t, "0111111111", *got.Phone)
	assert.Equal(t, "طريق الملك فهد", *got.Address)
	assert.Nil(t, got.VerifiedAt)

	var pub models.Facility
	require.NoError(t, db.First(&pub, published.ID).Error)
	assert.Equal(t, models.Verified, pub.VerificationStatus)
	require.NotNil(t, pub.Website)
	assert.Equal(t, "https://example.sa", *pub.Website)
	require.NotNil(t, pub.Phone)
	assert.Equal(t, "0999999999", *pub.Phone)
}

func TestSearchJobs_LandInactivePending(t *testing.T) {
	db := testutil.NewDB(t)
	f := testutil.CreateFacility(t, db, "مستشفى الحبيب", riyadh, models.Verified)
	researcher := &fakeResearcher{jobs: []JobSuggestion{
		{Title: "طبيب طوارئ", Facility: "مستشفى الحبيب", Description: "مناوبات"},
		{Title: "ممرض", Facility: "مستشفى غير موجود", City: riyadh},
	}}
	svc := NewEnrichmentService(db, researcher, 0)
	svc.Now = fixedNow

	res, err := svc.SearchJobs(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, res.Suggested)
	assert.Equal(t, 1, res.Added)
	assert.Len(t, res.Errors, 1)

	var job models.Job
	require.NoError(t, db.Where("facility_id = ?", f.ID).First(&job).Error)
	assert.False(t, job.IsActive)
	assert.Equal(t, models.Pending, job.VerificationStatus)
	assert.Equal(t, riyadh, job.City)
	assert.True(t, job.ExpiresAt.Equal(testNow.Add(DefaultJobTTL)))

	// not matchable until confirmed
	matcher := NewMatcherService(db, 0)
	matcher.Now = fixedNow
	matches, err := matcher.FindMatchingJobs(context.Background(), riyadh, "طبيب")
	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestEnrichment_RequiresCollaborator(t *testing.T) {
	svc := NewEnrichmentService(testutil.NewDB(t), nil, 0)

	_, err := svc.Discover(context.Background(), []string{riyadh})
	assert.ErrorIs(t, err, ErrAIUnavailable)
	_, err = svc.Verify(context.Background())
	assert.ErrorIs(t, err, ErrAIUnavailable)

	_, err = NewEnrichmentService(nil, &fakeResearcher{}, 0).SearchJobs(context.Background())
	assert.ErrorIs(t, err, ErrDatabaseUnavailable)
}

func TestLLMResearcher_ParsesJSON(t *testing.T) {
	model := &fakeModel{responses: []string{
		"```json\n{\"facilities\":[{\"name\":\"مستشفى دله\",\"type\":\"hospital\",\"city\":\"الرياض\"}]}\n```",
		`{"phone":"011","verified":true}`,
		"not json",
	}}
	r := &LLMResearcher{LLM: &LLMService{Client: model}, Limiter: rate.NewLimiter(rate.Every(time.Millisecond), 1)}
	ctx := context.Background()

	candidates, err := r.DiscoverFacilities(ctx, riyadh)
	require.NoError(t, err)
	require.Len(t, candidates, 1)
	assert.Equal(t, "مستشفى دله", candidates[0].Name)
	assert.Contains(t, model.prompts[0], riyadh)

	details, err := r.LookupFacility(ctx, "مستشفى دله", riyadh)
	require.NoError(t, err)
	assert.Equal(t, "011", details.Phone)
	assert.True(t, details.Verified)

	_, err = r.SuggestJobs(ctx, []models.Facility{{Name: "مستشفى دله", City: riyadh}})
	assert.ErrorContains(t, err, "invalid JSON")
	assert.Contains(t, model.prompts[2], "- مستشفى دله (الرياض)")
}

func TestLLMResearcher_HonoursContext(t *testing.T) {
	r := &LLMResearcher{
		LLM:     &LLMService{Client: &fakeModel{}},
		Limiter: rate.NewLimiter(rate.Every(time.Hour), 1),
	}
	ctx, cancel := context.WithCancel(context.Background())
	require.True(t, r.Limiter.Allow()) // drain the burst
	cancel()

	_, err := r.DiscoverFacilities(ctx, riyadh)
	assert.Error(t, err)
}
