package scanner

import (
	"fmt"

	"JournalHarvester/internal/domain"
)

// Plan bounds the coordinate space of one site and fixes its traversal order:
// page, then volume, then year. Volumes == 0 means the site paginates by
// (year, page) only.
type Plan struct {
	Years   []int
	Volumes int
	Pages   int
	Start   domain.Coordinate
}

// Validate reports plans that cannot produce a coordinate.
func (p Plan) Validate() error {
	if len(p.Years) == 0 {
		return fmt.Errorf("plan has no years")
	}
	if p.Pages <= 0 {
		return fmt.Errorf("plan needs a positive page bound")
	}
	if p.Volumes < 0 {
		return fmt.Errorf("plan has negative volume bound")
	}
	if p.Start != (domain.Coordinate{}) {
		if p.yearIndex(p.Start.Year) < 0 {
			return fmt.Errorf("start coordinate %s is outside the planned years", p.Start)
		}
		if p.Start.Page > p.Pages || (p.Volumes > 0 && p.Start.Volume > p.Volumes) {
			return fmt.Errorf("start coordinate %s exceeds the plan bounds", p.Start)
		}
	}
	return nil
}

// First returns the coordinate the run begins at.
func (p Plan) First() (domain.Coordinate, bool) {
	if p.Validate() != nil {
		return domain.Coordinate{}, false
	}

	if p.Start == (domain.Coordinate{}) {
		return p.firstOf(p.Years[0]), true
	}

	c := p.Start
	if c.Page == 0 {
		c.Page = 1
	}
	if p.Volumes > 0 && c.Volume == 0 {
		c.Volume = 1
	}
	if p.Volumes == 0 {
		c.Volume = 0
	}
	return c, true
}

// Next advances c. When exhausted is true the remaining pages of the current
// branch are skipped: the next volume, or the next year when the plan has no
// volumes. The boolean is false once the plan is complete.
func (p Plan) Next(c domain.Coordinate, exhausted bool) (domain.Coordinate, bool) {
	if !exhausted && c.Page < p.Pages {
		c.Page++
		return c, true
	}

	if p.Volumes > 0 && c.Volume < p.Volumes {
		return domain.Coordinate{Year: c.Year, Volume: c.Volume + 1, Page: 1}, true
	}

	idx := p.yearIndex(c.Year)
	if idx < 0 || idx+1 >= len(p.Years) {
		return domain.Coordinate{}, false
	}
	return p.firstOf(p.Years[idx+1]), true
}

// Coordinates lists every coordinate of the plan in traversal order.
func (p Plan) Coordinates() []domain.Coordinate {
	var out []domain.Coordinate
	for c, ok := p.First(); ok; c, ok = p.Next(c, false) {
		out = append(out, c)
	}
	return out
}

func (p Plan) firstOf(year int) domain.Coordinate {
	c := domain.Coordinate{Year: year, Page: 1}
	if p.Volumes > 0 {
		c.Volume = 1
	}
	return c
}

func (p Plan) yearIndex(year int) int {
	for i, y := range p.Years {
		if y == year {
			return i
		}
	}
	return -1
}
