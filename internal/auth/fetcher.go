package auth

import (
	"github.com/QuadraMap/QM-Backend/internal/db"
	"github.com/QuadraMap/QM-Backend/internal/utils"
)

// SessionInfo satisfies middleware.SessionFetcher against the sessions table.
type SessionInfo struct{}

func (SessionInfo) FindSessionByID(id string) (utils.SessionData, error) {
	var session Session
	if err := db.DB.First(&session, "session_id = ?", id).Error; err != nil {
		return utils.SessionData{}, err
	}
	return utils.SessionData{
		UserID:    session.UserID,
		ExpiresAt: session.ExpiresAt,
	}, nil
}
