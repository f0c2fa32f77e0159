package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// Coordinate identifies one unit of pagination and one checkpoint file.
// Volume is zero for (year, page) granularity.
type Coordinate struct {
	Year   int
	Volume int
	Page   int
}

// Name encodes the coordinate into a file-name fragment: 2012_vol3_7 or 2012_7.
func (c Coordinate) Name() string {
	if c.Volume > 0 {
		return fmt.Sprintf("%d_vol%d_%d", c.Year, c.Volume, c.Page)
	}
	return fmt.Sprintf("%d_%d", c.Year, c.Page)
}

func (c Coordinate) String() string {
	return c.Name()
}

// ParseCoordinate accepts "year:volume:page" or "year:page".
func ParseCoordinate(value string) (Coordinate, error) {
	parts := strings.Split(strings.TrimSpace(value), ":")
	nums := make([]int, 0, len(parts))
	for _, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil || n < 0 {
			return Coordinate{}, fmt.Errorf("invalid coordinate %q", value)
		}
		nums = append(nums, n)
	}

	switch len(nums) {
	case 2:
		return Coordinate{Year: nums[0], Page: nums[1]}, nil
	case 3:
		return Coordinate{Year: nums[0], Volume: nums[1], Page: nums[2]}, nil
	default:
		return Coordinate{}, fmt.Errorf("invalid coordinate %q: want year:page or year:volume:page", value)
	}
}

// ParseCoordinateName is the inverse of Coordinate.Name.
func ParseCoordinateName(name string) (Coordinate, error) {
	parts := strings.Split(name, "_")
	switch len(parts) {
	case 2:
		return ParseCoordinate(parts[0] + ":" + parts[1])
	case 3:
		if !strings.HasPrefix(parts[1], "vol") {
			return Coordinate{}, fmt.Errorf("invalid coordinate name %q", name)
		}
		return ParseCoordinate(parts[0] + ":" + strings.TrimPrefix(parts[1], "vol") + ":" + parts[2])
	default:
		return Coordinate{}, fmt.Errorf("invalid coordinate name %q", name)
	}
}
