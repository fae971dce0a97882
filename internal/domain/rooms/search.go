package rooms

import (
	"fmt"
	"time"
)

type SearchVariant string

const (
	SearchWithGeo SearchVariant = "with-geo"
	SearchNoGeo   SearchVariant = "no-geo"
)

// PageSize is the number of rooms shown per carousel page.
const PageSize = 10

type Location struct {
	Lat  float64 `json:"lat"`
	Long float64 `json:"long"`
}

// Pagination addresses page Offset of size Limit; the absolute first row is
// Offset*Limit.
type Pagination struct {
	Offset int
	Limit  int
}

func (p Pagination) Skip() int { return p.Offset * p.Limit }

// AbsoluteIndex is the row number of the local-th result on this page.
func (p Pagination) AbsoluteIndex(local int) int { return p.Skip() + local }

type SearchConstraints struct {
	Variant    SearchVariant
	From       time.Time
	Location   *Location
	Pagination Pagination
}

func (c SearchConstraints) Validate() error {
	switch c.Variant {
	case SearchWithGeo:
		if c.Location == nil {
			return fmt.Errorf("with-geo search requires a location")
		}
	case SearchNoGeo:
	default:
		return fmt.Errorf("unknown search variant %q", c.Variant)
	}
	if c.Pagination.Offset < 0 || c.Pagination.Limit < 0 {
		return fmt.Errorf("negative pagination %+v", c.Pagination)
	}
	if c.From.IsZero() {
		return fmt.Errorf("search start time is required")
	}
	return nil
}
