package layout

import (
	"fmt"
	"math"
)

// ErrInvalidDimension reports a negative or non-finite measurement. A
// malformed dimension indicates a host measurement bug and is never clamped.
var ErrInvalidDimension = fmt.Errorf("layout: invalid dimension")

// Dimension is one viewport sample in device-independent units. It is
// immutable once constructed; the host builds a fresh Dimension on every
// layout pass.
type Dimension struct {
	Width  float64
	Height float64
}

func NewDimension(width, height float64) (Dimension, error) {
	if !validMeasure(width) || !validMeasure(height) {
		return Dimension{}, fmt.Errorf("%w: %gx%g", ErrInvalidDimension, width, height)
	}
	return Dimension{Width: width, Height: height}, nil
}

func validMeasure(v float64) bool {
	return v >= 0 && !math.IsInf(v, 1) && !math.IsNaN(v)
}

// SizeBucket is an ordinal classification of one dimension axis. Buckets are
// contiguous, non-overlapping, and totally ordered.
type SizeBucket int

const (
	BucketCompact SizeBucket = iota
	BucketMedium
	BucketExpanded
	BucketExtraLarge
)

func (b SizeBucket) String() string {
	switch b {
	case BucketCompact:
		return "compact"
	case BucketMedium:
		return "medium"
	case BucketExpanded:
		return "expanded"
	case BucketExtraLarge:
		return "extra_large"
	default:
		return fmt.Sprintf("bucket(%d)", int(b))
	}
}

// Width breakpoints. Each bucket is a closed-lower/open-upper interval; a
// value exactly at a threshold belongs to the higher bucket.
const (
	WidthMedium     = 600.0
	WidthExpanded   = 840.0
	WidthExtraLarge = 1240.0
)

// Height breakpoints. The height axis is classified against its own table
// but never gates navigation selection.
const (
	HeightMedium   = 480.0
	HeightExpanded = 900.0
)

var (
	widthThresholds  = []float64{WidthMedium, WidthExpanded, WidthExtraLarge}
	heightThresholds = []float64{HeightMedium, HeightExpanded}
)

// WindowClass is the per-axis classification of one Dimension.
type WindowClass struct {
	Width  SizeBucket
	Height SizeBucket
}

// Classify buckets both axes of a viewport sample. It is pure and total over
// non-negative finite inputs; anything else fails with ErrInvalidDimension.
func Classify(width, height float64) (WindowClass, error) {
	d, err := NewDimension(width, height)
	if err != nil {
		return WindowClass{}, err
	}
	return ClassifyDimension(d), nil
}

// ClassifyDimension buckets an already-validated Dimension.
func ClassifyDimension(d Dimension) WindowClass {
	return WindowClass{
		Width:  classifyAxis(d.Width, widthThresholds),
		Height: classifyAxis(d.Height, heightThresholds),
	}
}

func classifyAxis(v float64, thresholds []float64) SizeBucket {
	bucket := BucketCompact
	for _, t := range thresholds {
		if v < t {
			break
		}
		bucket++
	}
	return bucket
}
