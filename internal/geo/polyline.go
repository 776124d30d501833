package geo

import (
	"encoding/json"
	"fmt"

	"github.com/nestorcad/viewercore/pkg/core"
)

// ParsePath parses a JSON array of coordinates into an ordered point list.
// Input format: "[[x1,y1],[x2,y2],...]"
func ParsePath(input string) ([]core.Point2D, error) {
	var coords [][]float64
	if err := json.Unmarshal([]byte(input), &coords); err != nil {
		return nil, fmt.Errorf("failed to parse path JSON: %w", err)
	}

	if len(coords) == 0 {
		return nil, fmt.Errorf("path must have at least 1 point, got %d", len(coords))
	}

	path := make([]core.Point2D, len(coords))
	for i, coord := range coords {
		if len(coord) < 2 {
			return nil, fmt.Errorf("coordinate %d has insufficient values", i)
		}
		path[i] = core.Point2D{X: coord[0], Y: coord[1]}
	}

	return path, nil
}
