package models

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// TravelIdea is a trip the couple is saving for.
type TravelIdea struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	Name      string          `gorm:"not null" json:"name"`
	Date      string          `json:"date"` // free text, e.g. "Dezembro 2026"
	Cost      decimal.Decimal `gorm:"type:decimal(10,2)" json:"cost"`
	Saved     decimal.Decimal `gorm:"type:decimal(10,2)" json:"saved"`
	ImageURL  string          `gorm:"column:image_url;type:text" json:"imageUrl"`
	CreatedAt time.Time       `gorm:"index" json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

func (TravelIdea) TableName() string { return "travel_ideas" }

func (t TravelIdea) Key() uint          { return t.ID }
func (t TravelIdea) Created() time.Time { return t.CreatedAt }

func (t *TravelIdea) Stamp(id uint, at time.Time) {
	t.ID, t.CreatedAt, t.UpdatedAt = id, at, at
}

func (t *TravelIdea) Touch(at time.Time) { t.UpdatedAt = at }

// Completed reports whether the savings cover the trip cost.
func (t TravelIdea) Completed() bool { return Completed(t.Saved, t.Cost) }

// Progress is the saved share of the cost in percent.
func (t TravelIdea) Progress() float64 { return Progress(t.Saved, t.Cost) }

// MarshalJSON adds the derived completed and progress fields.
func (t TravelIdea) MarshalJSON() ([]byte, error) {
	type plain TravelIdea
	return json.Marshal(struct {
		plain
		Completed bool    `json:"completed"`
		Progress  float64 `json:"progress"`
	}{plain(t), t.Completed(), t.Progress()})
}

// TravelIdeaPatch carries the editable TravelIdea fields.
type TravelIdeaPatch struct {
	Name     *string          `json:"name,omitempty"`
	Date     *string          `json:"date,omitempty"`
	Cost     *decimal.Decimal `json:"cost,omitempty"`
	Saved    *decimal.Decimal `json:"saved,omitempty"`
	ImageURL *string          `json:"imageUrl,omitempty"`
}

func (p TravelIdeaPatch) Validate(creating bool) error {
	if err := checkName(p.Name, creating); err != nil {
		return err
	}
	if err := checkAmount("cost", p.Cost); err != nil {
		return err
	}
	return checkAmount("saved", p.Saved)
}

func (p TravelIdeaPatch) Apply(rec *TravelIdea) {
	if p.Name != nil {
		rec.Name = strings.TrimSpace(*p.Name)
	}
	if p.Date != nil {
		rec.Date = *p.Date
	}
	if p.Cost != nil {
		rec.Cost = money(*p.Cost)
	}
	if p.Saved != nil {
		rec.Saved = money(*p.Saved)
	}
	if imageSupplied(p.ImageURL) {
		rec.ImageURL = *p.ImageURL
	}
}

func (p TravelIdeaPatch) Columns() map[string]any {
	cols := map[string]any{}
	if p.Name != nil {
		cols["name"] = strings.TrimSpace(*p.Name)
	}
	if p.Date != nil {
		cols["date"] = *p.Date
	}
	if p.Cost != nil {
		cols["cost"] = money(*p.Cost)
	}
	if p.Saved != nil {
		cols["saved"] = money(*p.Saved)
	}
	if imageSupplied(p.ImageURL) {
		cols["image_url"] = *p.ImageURL
	}
	return cols
}

func (p TravelIdeaPatch) Image() (string, bool) {
	if !imageSupplied(p.ImageURL) {
		return "", false
	}
	return *p.ImageURL, true
}

func (p *TravelIdeaPatch) SetImage(dataURL string) { p.ImageURL = &dataURL }
