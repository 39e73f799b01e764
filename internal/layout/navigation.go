package layout

import "fmt"

// NavigationVariant is the single active navigation chrome. Exactly one
// variant is active for any valid Dimension.
type NavigationVariant int

const (
	NavBar NavigationVariant = iota
	NavRail
	NavPermanentDrawer
)

// ID returns the stable element identifier used by the host to address the
// mounted chrome.
func (v NavigationVariant) ID() string {
	switch v {
	case NavBar:
		return "navigationBar"
	case NavRail:
		return "navigationRail"
	case NavPermanentDrawer:
		return "permanentDrawer"
	default:
		return fmt.Sprintf("navigationVariant(%d)", int(v))
	}
}

func (v NavigationVariant) String() string { return v.ID() }

// Variants lists all chrome variants in ascending width order.
func Variants() []NavigationVariant {
	return []NavigationVariant{NavBar, NavRail, NavPermanentDrawer}
}

// SelectNavigation maps a width bucket to its navigation chrome. The mapping
// is total over the bucket enumeration, stateless, and re-run on every
// viewport change; height plays no part in it.
func SelectNavigation(width SizeBucket) NavigationVariant {
	switch width {
	case BucketCompact:
		return NavBar
	case BucketMedium, BucketExpanded:
		return NavRail
	case BucketExtraLarge:
		return NavPermanentDrawer
	default:
		panic(fmt.Sprintf("layout: unreachable width bucket %d", int(width)))
	}
}

// SelectForDimension classifies a raw viewport sample and selects its chrome
// in one step.
func SelectForDimension(width, height float64) (NavigationVariant, error) {
	class, err := Classify(width, height)
	if err != nil {
		return NavBar, err
	}
	return SelectNavigation(class.Width), nil
}
