// Package point holds the opaque location type stored in PostgreSQL point columns.
// Points are compared only for filtering; no distance math lives here.
package point

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

var ErrInvalidPoint = errors.New("invalid point")

// Point is a location in the PostgreSQL "(x,y)" text form.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Parse reads "(x,y)" or "x,y".
func Parse(s string) (Point, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "(")
	s = strings.TrimSuffix(s, ")")

	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return Point{}, fmt.Errorf("%w: %q", ErrInvalidPoint, s)
	}

	x, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return Point{}, fmt.Errorf("%w: %q", ErrInvalidPoint, s)
	}
	y, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return Point{}, fmt.Errorf("%w: %q", ErrInvalidPoint, s)
	}

	p := Point{X: x, Y: y}
	if !p.Valid() {
		return Point{}, fmt.Errorf("%w: %q", ErrInvalidPoint, s)
	}
	return p, nil
}

// Valid reports whether both coordinates are finite.
func (p Point) Valid() bool {
	return !math.IsNaN(p.X) && !math.IsInf(p.X, 0) && !math.IsNaN(p.Y) && !math.IsInf(p.Y, 0)
}

func (p Point) String() string {
	return "(" + strconv.FormatFloat(p.X, 'g', -1, 64) + "," + strconv.FormatFloat(p.Y, 'g', -1, 64) + ")"
}

// Value implements driver.Valuer.
func (p Point) Value() (driver.Value, error) {
	if !p.Valid() {
		return nil, ErrInvalidPoint
	}
	return p.String(), nil
}

// Scan implements sql.Scanner.
func (p *Point) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		return fmt.Errorf("%w: NULL", ErrInvalidPoint)
	case string:
		parsed, err := Parse(v)
		if err != nil {
			return err
		}
		*p = parsed
	case []byte:
		parsed, err := Parse(string(v))
		if err != nil {
			return err
		}
		*p = parsed
	default:
		return fmt.Errorf("%w: unsupported source %T", ErrInvalidPoint, src)
	}
	return nil
}

// Box is an axis-aligned rectangle used to narrow searches.
type Box struct {
	Min Point
	Max Point
}

// Contains reports whether p lies inside the box, borders included.
func (b Box) Contains(p Point) bool {
	return p.X >= b.Min.X && p.X <= b.Max.X && p.Y >= b.Min.Y && p.Y <= b.Max.Y
}
