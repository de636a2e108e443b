package grid

import "fmt"

// Stats describes how full a grid is.
type Stats struct {
	Cells        int
	EmptyCells   int
	Entries      int
	MaxOccupancy int
}

// MeanOccupancy is the average candidate count of a non-empty cell.
func (s Stats) MeanOccupancy() float64 {
	filled := s.Cells - s.EmptyCells
	if filled == 0 {
		return 0
	}
	return float64(s.Entries) / float64(filled)
}

func (s Stats) String() string {
	return fmt.Sprintf("%d cells, %d empty, %d entries, max %d per cell",
		s.Cells, s.EmptyCells, s.Entries, s.MaxOccupancy)
}

// Stats computes occupancy figures for the grid.
func (g *Grid) Stats() Stats {
	s := Stats{Cells: g.cells, Entries: len(g.entries)}
	for c := 0; c < g.cells; c++ {
		n := int(g.offsets[c+1] - g.offsets[c])
		if n == 0 {
			s.EmptyCells++
		}
		if n > s.MaxOccupancy {
			s.MaxOccupancy = n
		}
	}
	return s
}
