package services

import (
	"context"
	"testing"
	"time"

	"github.com/justsurfingit/medstaff/internal/dtos"
	"github.com/justsurfingit/medstaff/internal/models"
	"github.com/justsurfingit/medstaff/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const jeddah = "جدة"

func TestFacilityList_Filters(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewFacilityService(db)
	ctx := context.Background()

	verified := testutil.CreateFacility(t, db, "مستشفى الحبيب", riyadh, models.Verified)
	testutil.CreateFacility(t, db, "عيادة النور", riyadh, models.Pending)
	testutil.CreateFacility(t, db, "مستشفى جدة", jeddah, models.Unverified)
	require.NoError(t, db.Model(verified).Update("name_en", "Habib Hospital").Error)

	status, err := models.ParseVerificationStatus("verified")
	require.NoError(t, err)
	got, err := svc.List(ctx, FacilityFilter{Status: &status})
	require.NoError(t, err)
	require.Len(t, got, 1)
	for _, f := range got {
		assert.Equal(t, models.Verified, f.VerificationStatus)
	}

	got, err = svc.List(ctx, FacilityFilter{City: riyadh})
	require.NoError(t, err)
	assert.Len(t, got, 2)

	got, err = svc.List(ctx, FacilityFilter{Search: "Habib"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, verified.ID, got[0].ID)

	got, err = svc.List(ctx, FacilityFilter{Search: "مستشفى", City: jeddah})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "مستشفى جدة", got[0].Name)

	hospital := models.FacilityHospital
	got, err = svc.List(ctx, FacilityFilter{Type: &hospital})
	require.NoError(t, err)
	assert.Len(t, got, 3)
}

func TestFacilityList_SearchIsLiteral(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewFacilityService(db)
	ctx := context.Background()

	testutil.CreateFacility(t, db, "مستشفى الحبيب", riyadh, models.Verified)
	promo := testutil.CreateFacility(t, db, "عيادة 100% صحة", riyadh, models.Verified)
	under := testutil.CreateFacility(t, db, "clinic_a", riyadh, models.Verified)
	testutil.CreateFacility(t, db, "clinicXa", riyadh, models.Verified)

	for _, term := range []string{"_", "%", "!"} {
		got, err := svc.List(ctx, FacilityFilter{Search: term})
		require.NoError(t, err)
		switch term {
		case "_":
			require.Len(t, got, 1)
			assert.Equal(t, under.ID, got[0].ID)
		case "%":
			require.Len(t, got, 1)
			assert.Equal(t, promo.ID, got[0].ID)
		case "!":
			assert.Empty(t, got)
		}
	}

	got, err := svc.List(ctx, FacilityFilter{Search: "clinic_a"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, under.ID, got[0].ID)
}

func TestNewFacilityFilter_RejectsUnknownValues(t *testing.T) {
	_, err := NewFacilityFilter("spa", "", "", "")
	assert.ErrorIs(t, err, ErrValidation)

	_, err = NewFacilityFilter("", "", "approved", "")
	assert.ErrorIs(t, err, ErrValidation)

	f, err := NewFacilityFilter("clinic", riyadh, "pending", "نور")
	require.NoError(t, err)
	assert.Equal(t, models.FacilityClinic, *f.Type)
	assert.Equal(t, models.Pending, *f.Status)
}

func TestNewJobFilter(t *testing.T) {
	f, err := NewJobFilter(riyadh, "3", "verified", "true")
	require.NoError(t, err)
	assert.Equal(t, uint(3), f.FacilityID)
	assert.True(t, f.ActiveOnly)

	_, err = NewJobFilter("", "abc", "", "")
	assert.ErrorIs(t, err, ErrValidation)
	_, err = NewJobFilter("", "", "", "maybe")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestFacilityGetByID_NotFound(t *testing.T) {
	svc := NewFacilityService(testutil.NewDB(t))
	_, err := svc.GetByID(context.Background(), 42)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFacilityCities(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewFacilityService(db)
	svc.Now = fixedNow
	ctx := context.Background()

	r := testutil.CreateFacility(t, db, "أ", riyadh, models.Verified)
	testutil.CreateFacility(t, db, "ب", riyadh, models.Verified)
	j := testutil.CreateFacility(t, db, "ج", jeddah, models.Verified)
	inactive := testutil.CreateFacility(t, db, "د", "تبوك", models.Verified)
	require.NoError(t, db.Model(inactive).Update("is_active", false).Error)

	cities, err := svc.Cities(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{riyadh, jeddah}, cities)

	testutil.CreateJob(t, db, r.ID, "طبيب", riyadh, true, testNow, testNow.Add(time.Hour))
	testutil.CreateJob(t, db, j.ID, "ممرض", jeddah, true, testNow, testNow.Add(-time.Hour))

	withJobs, err := svc.CitiesWithJobs(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{riyadh}, withJobs)
}

func TestFacilityCreateUpdateDelete(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewFacilityService(db)
	svc.Now = fixedNow
	ctx := context.Background()

	f, err := svc.Create(ctx, &dtos.FacilityCreationRequest{Name: "مجمع الشفاء", Type: "complex", City: riyadh})
	require.NoError(t, err)
	assert.True(t, f.IsActive)
	assert.Equal(t, models.Unverified, f.VerificationStatus)

	job := testutil.CreateJob(t, db, f.ID, "طبيب", riyadh, true, testNow, testNow.Add(time.Hour))

	updated, err := svc.Update(ctx, f.ID, &dtos.FacilityUpdateRequest{
		Phone:              testutil.Ptr("0112345678"),
		VerificationStatus: testutil.Ptr("verified"),
		IsActive:           testutil.Ptr(false),
	})
	require.NoError(t, err)
	assert.Equal(t, "0112345678", *updated.Phone)
	assert.Equal(t, models.Verified, updated.VerificationStatus)
	assert.NotNil(t, updated.VerifiedAt)
	assert.False(t, updated.IsActive)
	assert.Equal(t, "مجمع الشفاء", updated.Name)

	_, err = svc.Update(ctx, 999, &dtos.FacilityUpdateRequest{Name: testutil.Ptr("x")})
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, svc.Delete(ctx, f.ID))
	assert.ErrorIs(t, svc.Delete(ctx, f.ID), ErrNotFound)

	// jobs of a deleted facility are left in place
	var count int64
	db.Model(&models.Job{}).Where("id = ?", job.ID).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestJobList_ActiveOnly(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewJobService(db, 0)
	svc.Now = fixedNow
	ctx := context.Background()

	f := testutil.CreateFacility(t, db, "مستشفى", riyadh, models.Verified)
	live := testutil.CreateJob(t, db, f.ID, "طبيب", riyadh, true, testNow, testNow.Add(time.Hour))
	testutil.CreateJob(t, db, f.ID, "ممرض", riyadh, false, testNow, testNow.Add(time.Hour))
	testutil.CreateJob(t, db, f.ID, "صيدلي", riyadh, true, testNow, testNow.Add(-time.Hour))

	all, err := svc.List(ctx, JobFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	active, err := svc.List(ctx, JobFilter{ActiveOnly: true})
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, live.ID, active[0].ID)
	for _, j := range active {
		assert.True(t, j.IsListable(testNow))
	}

	byFacility, err := svc.List(ctx, JobFilter{FacilityID: f.ID, City: jeddah})
	require.NoError(t, err)
	assert.Empty(t, byFacility)
}

func TestJobQueries(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewJobService(db, 0)
	svc.Now = fixedNow
	ctx := context.Background()

	f := testutil.CreateFacility(t, db, "مستشفى", riyadh, models.Verified)
	testutil.CreateJob(t, db, f.ID, "طبيب", riyadh, true, testNow.Add(-time.Hour), testNow.Add(time.Hour))
	newest := testutil.CreateJob(t, db, f.ID, "طبيب", riyadh, true, testNow, testNow.Add(time.Hour))
	testutil.CreateJob(t, db, f.ID, "ممرض", riyadh, false, testNow, testNow.Add(time.Hour))

	jobs, err := svc.ByFacility(ctx, f.ID)
	require.NoError(t, err)
	require.Len(t, jobs, 2)
	assert.Equal(t, newest.ID, jobs[0].ID)

	titles, err := svc.TitlesByCity(ctx, riyadh)
	require.NoError(t, err)
	assert.Equal(t, []string{"طبيب"}, titles)

	job, err := svc.GetByID(ctx, newest.ID)
	require.NoError(t, err)
	require.NotNil(t, job.Facility)
	assert.Equal(t, "مستشفى", job.Facility.Name)

	_, err = svc.GetByID(ctx, 999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestJobCreate_SetsExpiry(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewJobService(db, 10*24*time.Hour)
	svc.Now = fixedNow
	ctx := context.Background()
	f := testutil.CreateFacility(t, db, "مستشفى", riyadh, models.Verified)

	job, err := svc.CreateJob(ctx, &dtos.JobCreationRequest{FacilityID: f.ID, Title: "فني مختبر", City: riyadh})
	require.NoError(t, err)
	assert.True(t, job.IsActive)
	assert.Equal(t, models.FullTime, job.JobType)
	assert.True(t, job.PublishedAt.Equal(testNow))
	assert.True(t, job.ExpiresAt.Equal(testNow.Add(10*24*time.Hour)))

	_, err = svc.CreateJob(ctx, &dtos.JobCreationRequest{FacilityID: 999, Title: "x", City: riyadh})
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.CreateJob(ctx, &dtos.JobCreationRequest{
		FacilityID: f.ID, Title: "x", City: riyadh,
		SalaryMin: testutil.Ptr(9000), SalaryMax: testutil.Ptr(5000),
	})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestJobUpdateDelete(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewJobService(db, 0)
	svc.Now = fixedNow
	ctx := context.Background()
	f := testutil.CreateFacility(t, db, "مستشفى", riyadh, models.Verified)
	job := testutil.CreateJob(t, db, f.ID, "طبيب", riyadh, true, testNow, testNow.Add(time.Hour))

	updated, err := svc.UpdateJob(ctx, job.ID, &dtos.JobUpdateRequest{
		Title:    testutil.Ptr("طبيب طوارئ"),
		JobType:  testutil.Ptr("part_time"),
		IsActive: testutil.Ptr(false),
	})
	require.NoError(t, err)
	assert.Equal(t, "طبيب طوارئ", updated.Title)
	assert.Equal(t, models.PartTime, updated.JobType)
	assert.False(t, updated.IsActive)

	_, err = svc.UpdateJob(ctx, job.ID, &dtos.JobUpdateRequest{FacilityID: testutil.Ptr(uint(999))})
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, svc.DeleteJob(ctx, job.ID))
	assert.ErrorIs(t, svc.DeleteJob(ctx, job.ID), ErrNotFound)
}

func TestSweepExpiredJobs_FlagsWithoutDeleting(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewJobService(db, 0)
	svc.Now = fixedNow
	ctx := context.Background()
	f := testutil.CreateFacility(t, db, "مستشفى", riyadh, models.Verified)

	expired := testutil.CreateJob(t, db, f.ID, "طبيب", riyadh, true, testNow.Add(-48*time.Hour), testNow.Add(-time.Hour))
	live := testutil.CreateJob(t, db, f.ID, "ممرض", riyadh, true, testNow, testNow.Add(time.Hour))

	n, err := svc.SweepExpiredJobs(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	var total int64
	db.Model(&models.Job{}).Count(&total)
	assert.Equal(t, int64(2), total)

	var got models.Job
	require.NoError(t, db.First(&got, expired.ID).Error)
	assert.False(t, got.IsActive)
	require.NoError(t, db.First(&got, live.ID).Error)
	assert.True(t, got.IsActive)

	// idempotent
	n, err = svc.SweepExpiredJobs(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestNotes(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewNoteService(db)
	ctx := context.Background()
	admin := testutil.CreateUser(t, db, "admin-token", models.RoleAdmin)
	f := testutil.CreateFacility(t, db, "مستشفى", riyadh, models.Verified)

	note, err := svc.Create(ctx, f.ID, admin.ID, &dtos.NoteCreationRequest{
		Note:   "تم التواصل مع الموارد البشرية",
		Images: []string{"https://example.com/a.png"},
	})
	require.NoError(t, err)
	assert.Equal(t, admin.ID, note.CreatedBy)

	_, err = svc.Create(ctx, 999, admin.ID, &dtos.NoteCreationRequest{Note: "x"})
	assert.ErrorIs(t, err, ErrNotFound)

	notes, err := svc.List(ctx, f.ID)
	require.NoError(t, err)
	require.Len(t, notes, 1)
	assert.Equal(t, []string{"https://example.com/a.png"}, []string(notes[0].Images))

	require.NoError(t, svc.Delete(ctx, note.ID))
	assert.ErrorIs(t, svc.Delete(ctx, note.ID), ErrNotFound)
}

func TestDashboardStats(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewDashboardService(db)
	svc.Now = fixedNow
	ctx := context.Background()

	testutil.CreateUser(t, db, "u1", models.RoleUser)
	f := testutil.CreateFacility(t, db, "مستشفى", riyadh, models.Verified)
	testutil.CreateFacility(t, db, "عيادة", riyadh, models.Pending)
	testutil.CreateJob(t, db, f.ID, "طبيب", riyadh, true, testNow, testNow.Add(time.Hour))
	testutil.CreateJob(t, db, f.ID, "ممرض", riyadh, true, testNow, testNow.Add(-time.Hour))

	apps, _, _ := newApplicationServiceOn(t, db)
	_, err := apps.Create(ctx, validRequest())
	require.NoError(t, err)

	stats, err := svc.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.TotalJobs)
	assert.Equal(t, int64(2), stats.TotalFacilities)
	assert.Equal(t, int64(1), stats.PendingFacilities)
	assert.Equal(t, int64(1), stats.TotalUsers)
	assert.Equal(t, int64(1), stats.TotalApplications)
	assert.Equal(t, int64(1), stats.ApplicationsByStatus[models.StatusProcessing])
	assert.Equal(t, int64(0), stats.ApplicationsByStatus[models.StatusDelivered])
}

func TestReadsDegradeWithoutDatabase(t *testing.T) {
	ctx := context.Background()

	facilities, err := NewFacilityService(nil).List(ctx, FacilityFilter{})
	assert.NoError(t, err)
	assert.Empty(t, facilities)

	cities, err := NewFacilityService(nil).Cities(ctx)
	assert.NoError(t, err)
	assert.Empty(t, cities)

	jobs, err := NewJobService(nil, 0).List(ctx, JobFilter{ActiveOnly: true})
	assert.NoError(t, err)
	assert.Empty(t, jobs)

	stats, err := NewDashboardService(nil).Stats(ctx)
	require.NoError(t, err)
	assert.Zero(t, stats.TotalJobs)

	_, err = NewFacilityService(nil).Create(ctx, &dtos.FacilityCreationRequest{Name: "x", Type: "clinic", City: riyadh})
	assert.ErrorIs(t, err, ErrDatabaseUnavailable)
	_, err = NewJobService(nil, 0).SweepExpiredJobs(ctx)
	assert.ErrorIs(t, err, ErrDatabaseUnavailable)
}
