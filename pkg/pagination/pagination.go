package pagination

import "math"

const (
	// DefaultPage is the first page number.
	DefaultPage = 1
	// DefaultPageSize is the standard page size when one is not provided.
	DefaultPageSize = 10
	// MaxPageSize caps how many records any list request can return.
	MaxPageSize = 100
)

// Params holds page-number pagination inputs from controllers.
type Params struct {
	Page     int
	PageSize int
}

// Normalize fills defaults and clamps the page size to MaxPageSize.
func (p Params) Normalize() Params {
	if p.Page < 1 {
		p.Page = DefaultPage
	}
	if p.PageSize < 1 {
		p.PageSize = DefaultPageSize
	}
	if p.PageSize > MaxPageSize {
		p.PageSize = MaxPageSize
	}
	return p
}

// Offset returns (page-1)*page_size, saturating instead of overflowing.
func (p Params) Offset() int {
	p = p.Normalize()
	if p.Page-1 > math.MaxInt/p.PageSize {
		return math.MaxInt
	}
	return (p.Page - 1) * p.PageSize
}

// Limit returns the normalized page size.
func (p Params) Limit() int {
	return p.Normalize().PageSize
}

// Window converts offset/limit into [start, end) bounds over a sequence of
// length total. Offsets past the end yield an empty window.
func Window(total, offset, limit int) (int, int) {
	if offset < 0 {
		offset = 0
	}
	if limit < 0 {
		limit = 0
	}
	if offset >= total {
		return total, total
	}
	end := total
	if limit < total-offset {
		end = offset + limit
	}
	return offset, end
}
