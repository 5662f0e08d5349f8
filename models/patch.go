package models

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// ErrInvalid is wrapped by every validation failure so handlers can map it to 400.
var ErrInvalid = errors.New("invalid record")

func init() {
	// amounts travel as JSON numbers, not quoted strings
	decimal.MarshalJSONWithoutQuotes = true
}

// Patch is the partial-update document of one resource kind. A nil field means
// "not supplied": Apply leaves the record's value alone and Columns omits it.
// Create applies the patch onto a zero record, which is how unset numerics become 0.
type Patch[T any] interface {
	Apply(rec *T)
	Columns() map[string]any
	Validate(creating bool) error
}

// ImageCarrier is implemented by patches of kinds that store an inline image.
type ImageCarrier interface {
	Image() (string, bool)
	SetImage(dataURL string)
}

// Entity gives storage backends without an ORM access to identity and timestamps.
type Entity[T any] interface {
	*T
	Key() uint
	Created() time.Time
	Stamp(id uint, at time.Time)
	Touch(at time.Time)
}

func invalidf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalid, fmt.Sprintf(format, args...))
}

func checkName(name *string, creating bool) error {
	if name == nil {
		if creating {
			return invalidf("name is required")
		}
		return nil
	}
	if strings.TrimSpace(*name) == "" {
		return invalidf("name must not be empty")
	}
	return nil
}

func checkAmount(field string, v *decimal.Decimal) error {
	if v != nil && v.IsNegative() {
		return invalidf("%s must be >= 0", field)
	}
	return nil
}

// imageSupplied reports whether an image field carries a new value. An empty
// string counts as absent so a client can never blank a stored image.
func imageSupplied(v *string) bool {
	return v != nil && strings.TrimSpace(*v) != ""
}

func money(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// Completed is true once saved covers a positive target.
func Completed(saved, target decimal.Decimal) bool {
	return target.IsPositive() && saved.GreaterThanOrEqual(target)
}

// Progress returns saved/target as a percentage clamped to [0,100]; 0 for a non-positive target.
func Progress(saved, target decimal.Decimal) float64 {
	if !target.IsPositive() {
		return 0
	}
	p := saved.Div(target).Mul(decimal.NewFromInt(100))
	if p.GreaterThan(decimal.NewFromInt(100)) {
		return 100
	}
	if p.IsNegative() {
		return 0
	}
	return p.Round(2).InexactFloat64()
}

// Ptr returns a pointer to v; handy when building patches.
func Ptr[V any](v V) *V {
	return &v
}
