// Package drawing models user-drawn shapes as immutable values.
package drawing

import "errors"

// ErrUnknownKind is returned for unsupported shape kinds.
var ErrUnknownKind = errors.New("unknown drawing kind")

// Kind is the tool that produced a shape.
type Kind string

const (
	Trendline  Kind = "trendline"
	Horizontal Kind = "horizontal"
)

// Point is a shape vertex in data coordinates.
type Point struct {
	Time  float64 `json:"time"`
	Price float64 `json:"price"`
}

// Shape is a drawing in progress or finished.
type Shape struct {
	Kind     Kind    `json:"kind"`
	Points   []Point `json:"points"`
	Complete bool    `json:"complete"`
}

// Start begins a shape at p.
func Start(kind Kind, p Point) (Shape, error) {
	switch kind {
	case Trendline, Horizontal:
	default:
		return Shape{}, ErrUnknownKind
	}
	return Shape{Kind: kind, Points: []Point{p}}, nil
}

// Update appends p as a committed vertex.
func Update(s Shape, p Point) Shape {
	out := s.Clone()
	out.Points = append(out.Points, p)
	return out
}

// Preview returns s with its floating end point moved to p. The first
// vertex stays anchored; a horizontal line keeps the first price.
func Preview(s Shape, p Point) Shape {
	if len(s.Points) == 0 {
		return s.Clone()
	}
	if s.Kind == Horizontal {
		p.Price = s.Points[0].Price
	}
	out := Shape{Kind: s.Kind, Complete: s.Complete}
	out.Points = []Point{s.Points[0], p}
	return out
}

// Finish marks the shape complete.
func Finish(s Shape) Shape {
	out := s.Clone()
	out.Complete = true
	return out
}

// Clone returns a deep copy.
func (s Shape) Clone() Shape {
	s.Points = append([]Point(nil), s.Points...)
	return s
}

// CloneAll deep-copies a shape list.
func CloneAll(shapes []Shape) []Shape {
	if shapes == nil {
		return nil
	}
	out := make([]Shape, len(shapes))
	for i, s := range shapes {
		out[i] = s.Clone()
	}
	return out
}
