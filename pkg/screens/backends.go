package screens

import (
	"context"
	"slices"

	"memories/models"
	"memories/pkg/client"
)

// Screens of the three resource kinds.
type (
	PlacesScreen         = Screen[models.Place, models.PlacePatch]
	TravelIdeasScreen    = Screen[models.TravelIdea, models.TravelIdeaPatch]
	FinancialGoalsScreen = Screen[models.FinancialGoal, models.FinancialGoalPatch]
)

// NewPlaces returns the places screen backed by c.
func NewPlaces(c *client.Client) *PlacesScreen {
	return NewScreen[models.Place, models.PlacePatch](placesAPI{c}, PlaceForm)
}

func NewTravelIdeas(c *client.Client) *TravelIdeasScreen {
	return NewScreen[models.TravelIdea, models.TravelIdeaPatch](travelIdeasAPI{c}, TravelIdeaForm)
}

func NewFinancialGoals(c *client.Client) *FinancialGoalsScreen {
	return NewScreen[models.FinancialGoal, models.FinancialGoalPatch](financialGoalsAPI{c}, FinancialGoalForm)
}

// PlaceForm resends every field of p.
func PlaceForm(p models.Place) models.PlacePatch {
	return models.PlacePatch{Name: &p.Name, Category: &p.Category, Rating: &p.Rating, Notes: &p.Notes}
}

// TravelIdeaForm resends every field but the image.
func TravelIdeaForm(t models.TravelIdea) models.TravelIdeaPatch {
	return models.TravelIdeaPatch{Name: &t.Name, Date: &t.Date, Cost: &t.Cost, Saved: &t.Saved}
}

// FinancialGoalForm resends every field but the image.
func FinancialGoalForm(g models.FinancialGoal) models.FinancialGoalPatch {
	return models.FinancialGoalPatch{Name: &g.Name, Deadline: &g.Deadline, TargetAmount: &g.TargetAmount, SavedAmount: &g.SavedAmount}
}

// FilterByCategory keeps the places of one tab, in list order.
func FilterByCategory(places []models.Place, category string) []models.Place {
	out := slices.Clone(places)
	return slices.DeleteFunc(out, func(p models.Place) bool { return p.Category != category })
}

type placesAPI struct{ c *client.Client }

func (a placesAPI) List(ctx context.Context) ([]models.Place, error) { return a.c.ListPlaces(ctx) }
func (a placesAPI) Create(ctx context.Context, p models.PlacePatch) (models.Place, error) {
	return a.c.CreatePlace(ctx, p)
}
func (a placesAPI) Update(ctx context.Context, id uint, p models.PlacePatch) (models.Place, error) {
	return a.c.UpdatePlace(ctx, id, p)
}
func (a placesAPI) Delete(ctx context.Context, id uint) error { return a.c.DeletePlace(ctx, id) }

type travelIdeasAPI struct{ c *client.Client }

func (a travelIdeasAPI) List(ctx context.Context) ([]models.TravelIdea, error) {
	return a.c.ListTravelIdeas(ctx)
}
func (a travelIdeasAPI) Create(ctx context.Context, p models.TravelIdeaPatch) (models.TravelIdea, error) {
	return a.c.CreateTravelIdea(ctx, p)
}
func (a travelIdeasAPI) Update(ctx context.Context, id uint, p models.TravelIdeaPatch) (models.TravelIdea, error) {
	return a.c.UpdateTravelIdea(ctx, id, p)
}
func (a travelIdeasAPI) Delete(ctx context.Context, id uint) error {
	return a.c.DeleteTravelIdea(ctx, id)
}

type financialGoalsAPI struct{ c *client.Client }

func (a financialGoalsAPI) List(ctx context.Context) ([]models.FinancialGoal, error) {
	return a.c.ListFinancialGoals(ctx)
}
func (a financialGoalsAPI) Create(ctx context.Context, p models.FinancialGoalPatch) (models.FinancialGoal, error) {
	return a.c.CreateFinancialGoal(ctx, p)
}
func (a financialGoalsAPI) Update(ctx context.Context, id uint, p models.FinancialGoalPatch) (models.FinancialGoal, error) {
	return a.c.UpdateFinancialGoal(ctx, id, p)
}
func (a financialGoalsAPI) Delete(ctx context.Context, id uint) error {
	return a.c.DeleteFinancialGoal(ctx, id)
}
