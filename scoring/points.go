// Package scoring turns finish positions into points and race lists into standings.
package scoring

// PointsTable maps finish rank (index+1) to points. Ranks past the table score nothing.
var PointsTable = [...]int{15, 12, 10, 8, 7, 6, 5, 4, 3, 2, 1, 0}

// NoPosition is the best-position placeholder for a player without results; it loses every tie-break.
const NoPosition = 99

// Points returns the points awarded for a finish position. Out-of-range
// positions, including zero and negatives, are worth 0.
func Points(position int) int {
	if position < 1 || position > len(PointsTable) {
		return 0
	}
	return PointsTable[position-1]
}

// BestPosition returns the lowest recorded position or NoPosition.
func BestPosition(positions []int) int {
	best := NoPosition
	for _, p := range positions {
		if p < best {
			best = p
		}
	}
	return best
}
