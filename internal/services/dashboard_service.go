package services

import (
	"context"
	"time"

	"github.com/justsurfingit/medstaff/internal/models"
	"gorm.io/gorm"
)

type DashboardStats struct {
	TotalJobs            int64                              `json:"total_jobs"`
	TotalFacilities      int64                              `json:"total_facilities"`
	TotalUsers           int64                              `json:"total_users"`
	TotalApplications    int64                              `json:"total_applications"`
	ApplicationsByStatus map[models.ApplicationStatus]int64 `json:"applications_by_status"`
	PendingFacilities    int64                              `json:"pending_facilities"`
}

type DashboardService struct {
	DB  *gorm.DB
	Now func() time.Time
}

func NewDashboardService(db *gorm.DB) *DashboardService {
	return &DashboardService{DB: db, Now: time.Now}
}

// Stats aggregates admin counters. TotalJobs counts only active, unexpired
// jobs. Without a database every counter is zero.
func (s *DashboardService) Stats(ctx context.Context) (*DashboardStats, error) {
	stats := &DashboardStats{
		ApplicationsByStatus: map[models.ApplicationStatus]int64{
			models.StatusSubmitted:  0,
			models.StatusProcessing: 0,
			models.StatusDelivered:  0,
		},
	}
	if s.DB == nil {
		return stats, nil
	}
	db := s.DB.WithContext(ctx)

	if err := db.Model(&models.Job{}).
		Where("is_active = ? AND expires_at >= ?", true, s.Now().UTC()).
		Count(&stats.TotalJobs).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.Facility{}).Count(&stats.TotalFacilities).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.Facility{}).
		Where("verification_status = ?", models.Pending).
		Count(&stats.PendingFacilities).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.User{}).Count(&stats.TotalUsers).Error; err != nil {
		return nil, err
	}

	var rows []struct {
		Status models.ApplicationStatus
		Count  int64
	}
	if err := db.Model(&models.JobApplication{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	for _, r := range rows {
		stats.ApplicationsByStatus[r.Status] = r.Count
		stats.TotalApplications += r.Count
	}
	return stats, nil
}
