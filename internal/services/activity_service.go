package services

import (
	"database/sql"

	"github.com/google/uuid"
	"github.com/scriberly/scriberly-be/internal/models"
)

// ActivityServiceProvider defines the interface for the dashboard
// activity feed.
type ActivityServiceProvider interface {
	Record(activityType, message, userID string) error
	Recent(limit int) ([]models.Activity, error)
}

// ActivityService records dashboard actions for the homepage feed.
type ActivityService struct {
	db *sql.DB
}

// NewActivityService creates a new ActivityService.
func NewActivityService(db *sql.DB) *ActivityService {
	return &ActivityService{db: db}
}

// Record logs a new activity entry.
func (s *ActivityService) Record(activityType, message, userID string) error {
	stmt, err := s.db.Prepare("INSERT INTO activities (id, type, message, user_id) VALUES (?, ?, ?, ?)")
	if err != nil {
		return err
	}
	defer stmt.Close()

	_, err = stmt.Exec(uuid.New().String(), activityType, message, userID)
	return err
}

// Recent retrieves the most recent activity entries.
func (s *ActivityService) Recent(limit int) ([]models.Activity, error) {
	rows, err := s.db.Query("SELECT id, type, message, user_id, created_at FROM activities ORDER BY created_at DESC LIMIT ?", limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var activities []models.Activity
	for rows.Next() {
		var activity models.Activity
		if err := rows.Scan(&activity.ID, &activity.Type, &activity.Message, &activity.UserID, &activity.CreatedAt); err != nil {
			return nil, err
		}
		activities = append(activities, activity)
	}
	return activities, rows.Err()
}
