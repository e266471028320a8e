package card

import (
	"log"
	"time"

	"github.com/lib/pq"

	"github.com/QuadraMap/QM-Backend/internal/db"
)

// Card is a named group of quadras rendered as one merged shape. Members
// (ids, names, geometry, properties) are snapshotted at build time, so
// editing a quadra later does not rewrite existing cards.
type Card struct {
	CardID       string         `gorm:"primaryKey" json:"id"`
	Name         string         `gorm:"column:nome" json:"nome"`
	Bairro       string         `json:"bairro"`
	Status       string         `json:"status"`
	TotalQuadras int            `json:"total_quadras"`
	QuadraIDs    pq.StringArray `gorm:"type:text[]" json:"quadra_ids"`
	QuadraNames  pq.StringArray `gorm:"type:text[]" json:"quadra_names"`
	FillColor    string         `json:"fill_color"`
	StrokeColor  string         `json:"stroke_color"`
	Quadras      string         `gorm:"type:jsonb" json:"-"`
	Geometry     string         `gorm:"type:jsonb" json:"-"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
}

func (Card) TableName() string {
	return "territory.cards"
}

func Init() {
	if err := db.EnsureSchema(db.DB, "territory"); err != nil {
		log.Fatalf("failed to create territory schema: %v", err)
	}
	if err := db.DB.AutoMigrate(&Card{}); err != nil {
		log.Fatalf("failed to migrate cards table: %v", err)
	}
}
