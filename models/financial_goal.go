package models

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// FinancialGoal is a savings target with an optional picture.
type FinancialGoal struct {
	ID           uint            `gorm:"primaryKey" json:"id"`
	Name         string          `gorm:"not null" json:"name"`
	Deadline     string          `json:"deadline"`
	TargetAmount decimal.Decimal `gorm:"column:target_amount;type:decimal(10,2)" json:"targetAmount"`
	SavedAmount  decimal.Decimal `gorm:"column:saved_amount;type:decimal(10,2)" json:"savedAmount"`
	ImageURL     string          `gorm:"column:image_url;type:text" json:"imageUrl"`
	CreatedAt    time.Time       `gorm:"index" json:"createdAt"`
	UpdatedAt    time.Time       `json:"updatedAt"`
}

func (FinancialGoal) TableName() string { return "financial_goals" }

func (g FinancialGoal) Key() uint          { return g.ID }
func (g FinancialGoal) Created() time.Time { return g.CreatedAt }

func (g *FinancialGoal) Stamp(id uint, at time.Time) {
	g.ID, g.CreatedAt, g.UpdatedAt = id, at, at
}

func (g *FinancialGoal) Touch(at time.Time) { g.UpdatedAt = at }

func (g FinancialGoal) Completed() bool { return Completed(g.SavedAmount, g.TargetAmount) }

func (g FinancialGoal) Progress() float64 { return Progress(g.SavedAmount, g.TargetAmount) }

func (g FinancialGoal) MarshalJSON() ([]byte, error) {
	type plain FinancialGoal
	return json.Marshal(struct {
		plain
		Completed bool    `json:"completed"`
		Progress  float64 `json:"progress"`
	}{plain(g), g.Completed(), g.Progress()})
}

// FinancialGoalPatch carries the editable FinancialGoal fields.
type FinancialGoalPatch struct {
	Name         *string          `json:"name,omitempty"`
	Deadline     *string          `json:"deadline,omitempty"`
	TargetAmount *decimal.Decimal `json:"targetAmount,omitempty"`
	SavedAmount  *decimal.Decimal `json:"savedAmount,omitempty"`
	ImageURL     *string          `json:"imageUrl,omitempty"`
}

func (p FinancialGoalPatch) Validate(creating bool) error {
	if err := checkName(p.Name, creating); err != nil {
		return err
	}
	if err := checkAmount("targetAmount", p.TargetAmount); err != nil {
		return err
	}
	return checkAmount("savedAmount", p.SavedAmount)
}

func (p FinancialGoalPatch) Apply(rec *FinancialGoal) {
	if p.Name != nil {
		rec.Name = strings.TrimSpace(*p.Name)
	}
	if p.Deadline != nil {
		rec.Deadline = *p.Deadline
	}
	if p.TargetAmount != nil {
		rec.TargetAmount = money(*p.TargetAmount)
	}
	if p.SavedAmount != nil {
		rec.SavedAmount = money(*p.SavedAmount)
	}
	if imageSupplied(p.ImageURL) {
		rec.ImageURL = *p.ImageURL
	}
}

func (p FinancialGoalPatch) Columns() map[string]any {
	cols := map[string]any{}
	if p.Name != nil {
		cols["name"] = strings.TrimSpace(*p.Name)
	}
	if p.Deadline != nil {
		cols["deadline"] = *p.Deadline
	}
	if p.TargetAmount != nil {
		cols["target_amount"] = money(*p.TargetAmount)
	}
	if p.SavedAmount != nil {
		cols["saved_amount"] = money(*p.SavedAmount)
	}
	if imageSupplied(p.ImageURL) {
		cols["image_url"] = *p.ImageURL
	}
	return cols
}

func (p FinancialGoalPatch) Image() (string, bool) {
	if !imageSupplied(p.ImageURL) {
		return "", false
	}
	return *p.ImageURL, true
}

func (p *FinancialGoalPatch) SetImage(dataURL string) { p.ImageURL = &dataURL }
