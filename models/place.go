package models

import (
	"strings"
	"time"
)

// Place categories, one per tab of the memories screen.
const (
	CategoryRestaurant = "Restaurante"
	CategoryTrip       = "Viagem"
	CategoryMovie      = "Filme"
)

// Categories lists the accepted Place categories in tab order.
var Categories = []string{CategoryRestaurant, CategoryTrip, CategoryMovie}

// Place is a visited restaurant, city or watched movie.
type Place struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"not null" json:"name"`
	Category  string    `gorm:"size:32;index" json:"category"`
	Rating    int       `json:"rating"`
	Notes     string    `gorm:"type:text" json:"notes"`
	CreatedAt time.Time `gorm:"index" json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (Place) TableName() string { return "places" }

func (p Place) Key() uint          { return p.ID }
func (p Place) Created() time.Time { return p.CreatedAt }

func (p *Place) Stamp(id uint, at time.Time) {
	p.ID, p.CreatedAt, p.UpdatedAt = id, at, at
}

func (p *Place) Touch(at time.Time) { p.UpdatedAt = at }

// PlacePatch carries the editable Place fields.
type PlacePatch struct {
	Name     *string `json:"name,omitempty"`
	Category *string `json:"category,omitempty" binding:"omitempty,oneof=Restaurante Viagem Filme"`
	Rating   *int    `json:"rating,omitempty" binding:"omitempty,min=0,max=5"`
	Notes    *string `json:"notes,omitempty"`
}

func (p PlacePatch) Validate(creating bool) error {
	if err := checkName(p.Name, creating); err != nil {
		return err
	}
	if p.Category != nil && *p.Category != "" && !validCategory(*p.Category) {
		return invalidf("category must be one of %s", strings.Join(Categories, ", "))
	}
	if p.Rating != nil && (*p.Rating < 0 || *p.Rating > 5) {
		return invalidf("rating must be between 0 and 5")
	}
	return nil
}

func (p PlacePatch) Apply(rec *Place) {
	if p.Name != nil {
		rec.Name = strings.TrimSpace(*p.Name)
	}
	if p.Category != nil && *p.Category != "" {
		rec.Category = *p.Category
	}
	if rec.Category == "" {
		rec.Category = CategoryRestaurant
	}
	if p.Rating != nil {
		rec.Rating = *p.Rating
	}
	if p.Notes != nil {
		rec.Notes = *p.Notes
	}
}

func (p PlacePatch) Columns() map[string]any {
	cols := map[string]any{}
	if p.Name != nil {
		cols["name"] = strings.TrimSpace(*p.Name)
	}
	if p.Category != nil && *p.Category != "" {
		cols["category"] = *p.Category
	}
	if p.Rating != nil {
		cols["rating"] = *p.Rating
	}
	if p.Notes != nil {
		cols["notes"] = *p.Notes
	}
	return cols
}

func validCategory(c string) bool {
	for _, v := range Categories {
		if v == c {
			return true
		}
	}
	return false
}
