package math

import "math"

// BoundBox is an axis-aligned bounding box.
// An empty box has Min above Max on every axis so that the first Grow
// establishes both corners.
type BoundBox struct {
	Min, Max Vec3
}

// EmptyBounds returns an inside-out box that any Grow call will reset.
func EmptyBounds() BoundBox {
	inf := float32(math.Inf(1))
	return BoundBox{
		Min: Vec3{inf, inf, inf},
		Max: Vec3{-inf, -inf, -inf},
	}
}

// Grow expands the box to contain point p.
func (b *BoundBox) Grow(p Vec3) {
	b.Min = b.Min.Min(p)
	b.Max = b.Max.Max(p)
}

// GrowSafe expands the box to contain p, ignoring points with
// non-finite coordinates.
func (b *BoundBox) GrowSafe(p Vec3) {
	if p.IsFinite() {
		b.Grow(p)
	}
}

// GrowBox expands the box to contain another box.
func (b *BoundBox) GrowBox(other BoundBox) {
	b.Min = b.Min.Min(other.Min)
	b.Max = b.Max.Max(other.Max)
}

// Valid reports whether the box encloses at least one point and has
// finite corners.
func (b BoundBox) Valid() bool {
	return b.Min.X <= b.Max.X && b.Min.Y <= b.Max.Y && b.Min.Z <= b.Max.Z &&
		b.Min.IsFinite() && b.Max.IsFinite()
}

// Center returns the midpoint of the box.
func (b BoundBox) Center() Vec3 {
	return b.Min.Add(b.Max).Scale(0.5)
}

// Size returns the extent of the box along each axis.
func (b BoundBox) Size() Vec3 {
	return b.Max.Sub(b.Min)
}
