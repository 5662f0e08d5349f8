package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"memories/models"
	"memories/pkg/screens"
)

// kind wires one resource screen to the command line.
type kind[T screens.Keyed, P models.Patch[T]] struct {
	noun   string
	screen *screens.Screen[T, P]
	render func(w io.Writer, items []T)
	// fields registers the form flags and returns a function that copies the
	// flags the user actually passed into a form.
	fields func(fs *flag.FlagSet) func(set func(string) bool, form *P)
	filter func(items []T, category string) []T
	images bool
}

func (a *app) places(ctx context.Context, args []string) error {
	return runKind(ctx, a, kind[models.Place, models.PlacePatch]{
		noun:   "lugar",
		screen: screens.NewPlaces(a.client),
		render: renderPlaces,
		filter: screens.FilterByCategory,
		fields: func(fs *flag.FlagSet) func(func(string) bool, *models.PlacePatch) {
			name := fs.String("name", "", "name")
			category := fs.String("category", models.CategoryRestaurant, "Restaurante, Viagem or Filme")
			rating := fs.Int("rating", 0, "rating 0-5")
			notes := fs.String("notes", "", "notes")
			return func(set func(string) bool, p *models.PlacePatch) {
				if set("name") {
					p.Name = name
				}
				if set("category") || p.Category == nil {
					p.Category = category
				}
				if set("rating") {
					p.Rating = rating
				}
				if set("notes") {
					p.Notes = notes
				}
			}
		},
	}, args)
}

func (a *app) travel(ctx context.Context, args []string) error {
	return runKind(ctx, a, kind[models.TravelIdea, models.TravelIdeaPatch]{
		noun:   "viagem",
		screen: screens.NewTravelIdeas(a.client),
		render: renderTravelIdeas,
		images: true,
		fields: func(fs *flag.FlagSet) func(func(string) bool, *models.TravelIdeaPatch) {
			name := fs.String("name", "", "destination")
			date := fs.String("date", "", "when, free text")
			cost := decimalFlag(fs, "cost", "estimated cost")
			saved := decimalFlag(fs, "saved", "amount saved so far")
			return func(set func(string) bool, p *models.TravelIdeaPatch) {
				if set("name") {
					p.Name = name
				}
				if set("date") {
					p.Date = date
				}
				if set("cost") {
					p.Cost = cost
				}
				if set("saved") {
					p.Saved = saved
				}
			}
		},
	}, args)
}

func (a *app) goals(ctx context.Context, args []string) error {
	return runKind(ctx, a, kind[models.FinancialGoal, models.FinancialGoalPatch]{
		noun:   "meta",
		screen: screens.NewFinancialGoals(a.client),
		render: renderFinancialGoals,
		images: true,
		fields: func(fs *flag.FlagSet) func(func(string) bool, *models.FinancialGoalPatch) {
			name := fs.String("name", "", "goal")
			deadline := fs.String("deadline", "", "deadline, free text")
			target := decimalFlag(fs, "target", "target amount")
			saved := decimalFlag(fs, "saved", "amount saved so far")
			return func(set func(string) bool, p *models.FinancialGoalPatch) {
				if set("name") {
					p.Name = name
				}
				if set("deadline") {
					p.Deadline = deadline
				}
				if set("target") {
					p.TargetAmount = target
				}
				if set("saved") {
					p.SavedAmount = saved
				}
			}
		},
	}, args)
}

func runKind[T screens.Keyed, P models.Patch[T]](ctx context.Context, a *app, k kind[T, P], args []string) error {
	if len(args) == 0 {
		return errUsage
	}
	action, rest := args[0], args[1:]
	fs := flag.NewFlagSet(k.noun+" "+action, flag.ContinueOnError)
	fs.SetOutput(a.out)

	if err := k.screen.Load(ctx); err != nil {
		return fmt.Errorf("%s: %w", k.screen.Message(), err)
	}

	switch action {
	case "list":
		var category *string
		if k.filter != nil {
			category = fs.String("category", "", "only this category")
		}
		if err := fs.Parse(rest); err != nil {
			return err
		}
		items := k.screen.Records()
		if category != nil && *category != "" {
			items = k.filter(items, *category)
		}
		k.render(a.out, items)
		return nil

	case "add", "edit":
		var id uint
		if action == "edit" {
			if len(rest) == 0 {
				return errUsage
			}
			n, err := parseID(rest[0])
			if err != nil {
				return err
			}
			id, rest = n, rest[1:]
		}
		apply := k.fields(fs)
		var image *string
		if k.images {
			image = fs.String("image", "", "photo to attach")
		}
		if err := fs.Parse(rest); err != nil {
			return err
		}
		if id == 0 {
			if err := k.screen.OpenNew(); err != nil {
				return err
			}
		} else if err := k.screen.OpenEdit(id); err != nil {
			return err
		}
		if err := k.screen.Edit(func(p *P) { apply(visited(fs), p) }); err != nil {
			return err
		}
		if image != nil && *image != "" {
			if err := k.screen.AttachImage(*image); err != nil {
				return err
			}
		}
		if err := k.screen.Submit(ctx); err != nil {
			return fmt.Errorf("%s: %w", k.screen.Message(), err)
		}
		fmt.Fprintln(a.out, k.screen.Message())
		k.render(a.out, k.screen.Records())
		return nil

	case "delete":
		if len(rest) == 0 {
			return errUsage
		}
		id, err := parseID(rest[0])
		if err != nil {
			return err
		}
		yes := fs.Bool("yes", false, "do not ask for confirmation")
		if err := fs.Parse(rest[1:]); err != nil {
			return err
		}
		if err := k.screen.RequestDelete(id); err != nil {
			return err
		}
		if !*yes && !confirm(a.in, a.out, fmt.Sprintf("Tem certeza que deseja excluir %s #%d? [s/N] ", k.noun, id)) {
			k.screen.CancelDelete()
			fmt.Fprintln(a.out, "Cancelado.")
			return nil
		}
		if err := k.screen.ConfirmDelete(ctx); err != nil {
			return fmt.Errorf("%s: %w", k.screen.Message(), err)
		}
		fmt.Fprintln(a.out, k.screen.Message())
		return nil
	}
	return errUsage
}

func visited(fs *flag.FlagSet) func(string) bool {
	set := map[string]bool{}
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })
	return func(name string) bool { return set[name] }
}

func parseID(s string) (uint, error) {
	n, err := strconv.ParseUint(s, 10, 64)
	if err != nil || n == 0 {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return uint(n), nil
}

func confirm(in io.Reader, out io.Writer, prompt string) bool {
	fmt.Fprint(out, prompt)
	line, _ := bufio.NewReader(in).ReadString('\n')
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "s", "sim", "y", "yes":
		return true
	}
	return false
}

// decimalFlag registers a money flag. Both "1234.56" and "1.234,56" are accepted.
func decimalFlag(fs *flag.FlagSet, name, usage string) *decimal.Decimal {
	d := new(decimal.Decimal)
	fs.Func(name, usage, func(s string) error {
		v, err := parseMoney(s)
		if err != nil {
			return err
		}
		*d = v
		return nil
	})
	return d
}

func parseMoney(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(s), "R$"))
	if strings.Contains(s, ",") {
		s = strings.ReplaceAll(strings.ReplaceAll(s, ".", ""), ",", ".")
	}
	return decimal.NewFromString(s)
}
