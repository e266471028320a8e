package worklog

import (
	"context"
	"log"
	"time"

	"github.com/QuadraMap/QM-Backend/internal/db"
)

// Entry is one recorded status transition. The quadra name and number are
// denormalized at record time so the log stays meaningful even if the
// quadra is renamed or deleted later.
type Entry struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	QuadraID     string    `gorm:"index" json:"quadra_id"`
	QuadraNome   string    `json:"quadra_nome"`
	QuadraNumber string    `json:"quadra_number"`
	FromStatus   string    `json:"from_status"`
	ToStatus     string    `json:"to_status"`
	CreatedAt    time.Time `json:"created_at"`
}

func (Entry) TableName() string {
	return "territory.status_logs"
}

func Init() {
	if err := db.EnsureSchema(db.DB, "territory"); err != nil {
		log.Fatalf("failed to create territory schema: %v", err)
	}
	if err := db.DB.AutoMigrate(&Entry{}); err != nil {
		log.Fatalf("failed to migrate status log table: %v", err)
	}
}

// Service records and reads transitions. It satisfies the recorder interface
// the quadra handlers expect.
type Service struct{}

func (Service) Record(ctx context.Context, quadraID, quadraNome, quadraNumber, from, to string) error {
	return db.DB.WithContext(ctx).Create(&Entry{
		QuadraID:     quadraID,
		QuadraNome:   quadraNome,
		QuadraNumber: quadraNumber,
		FromStatus:   from,
		ToStatus:     to,
	}).Error
}

// Entries returns every transition in chronological order.
func (Service) Entries(ctx context.Context) ([]Entry, error) {
	var entries []Entry
	err := db.DB.WithContext(ctx).Order("created_at asc, id asc").Find(&entries).Error
	return entries, err
}

// DeleteForQuadra removes every transition recorded for one quadra.
func (Service) DeleteForQuadra(ctx context.Context, quadraID string) (int64, error) {
	res := db.DB.WithContext(ctx).Delete(&Entry{}, "quadra_id = ?", quadraID)
	return res.RowsAffected, res.Error
}
