// Package munkres implements the Kuhn-Munkres (Hungarian) algorithm for
// the linear assignment problem: given an n x m cost matrix, find an
// assignment of rows to columns that minimizes total cost, assigning
// every row when n <= m and every column when m <= n.
package munkres

import "math"

const (
	normal = 0
	star   = 1
	prime  = 2
)

// Solve finds a minimum-cost assignment for the cost matrix, rows by
// columns. It returns one entry per row: the assigned column index,
// or -1 if that row goes unassigned (only possible when there are
// more rows than columns). The input matrix is not modified.
func Solve(cost [][]float64) []int {
	rows := len(cost)
	if rows == 0 {
		return nil
	}
	cols := len(cost[0])
	size := rows
	if cols > size {
		size = cols
	}

	m := newMatrix(size, cost, rows, cols)
	s := &solver{
		matrix: m,
		mask:   make([][]int, size),
		rowCov: make([]bool, size),
		colCov: make([]bool, size),
	}
	for i := range s.mask {
		s.mask[i] = make([]int, size)
	}

	s.replaceInfinities()
	s.minimizeAlongRows()
	s.minimizeAlongColumns()

	step := 1
	for step != 0 {
		switch step {
		case 1:
			step = s.step1()
		case 2:
			step = s.step2()
		case 3:
			step = s.step3()
		case 4:
			step = s.step4()
		case 5:
			step = s.step5()
		}
	}

	assignment := make([]int, rows)
	for r := 0; r < rows; r++ {
		assignment[r] = -1
		for c := 0; c < cols; c++ {
			if s.mask[r][c] == star {
				assignment[r] = c
				break
			}
		}
	}
	return assignment
}

// newMatrix copies cost into a size x size working matrix, padding any
// extra rows or columns with one more than the largest finite value
// present so they never undercut a genuine assignment.
func newMatrix(size int, cost [][]float64, rows, cols int) [][]float64 {
	max := 0.0
	found := false
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			v := cost[r][c]
			if math.IsInf(v, 1) {
				continue
			}
			if !found || v > max {
				max, found = v, true
			}
		}
	}
	pad := max
	if found {
		pad++
	}

	m := make([][]float64, size)
	for r := 0; r < size; r++ {
		m[r] = make([]float64, size)
		for c := 0; c < size; c++ {
			switch {
			case r < rows && c < cols:
				m[r][c] = cost[r][c]
			default:
				m[r][c] = pad
			}
		}
	}
	return m
}

type solver struct {
	matrix  [][]float64
	mask    [][]int
	rowCov  []bool
	colCov  []bool
	saveRow int
	saveCol int
}

func (s *solver) size() int { return len(s.matrix) }

// replaceInfinities substitutes any +Inf cost (an explicitly forbidden
// pairing) with a value one greater than the largest finite cost, so
// the algorithm never selects it unless no finite assignment exists.
func (s *solver) replaceInfinities() {
	n := s.size()
	max := 0.0
	found := false
	for r := 0; r < n; r++ {
		for c := 0; c < n; c++ {
			v := s.matrix[r][c]
			if math.IsInf(v, 1) {
				continue
			}
			if !found || v > max {
				max, found = v, true
			}
		}
	}
	if found {
		max++
	}
	for r := 0; r < n; r++ {
		for c := 0; c < n; c++ {
			if math.IsInf(s.matrix[r][c], 1) {
				s.matrix[r][c] = max
			}
		}
	}
}

func (s *solver) minimizeAlongRows() {
	n := s.size()
	for r := 0; r < n; r++ {
		min := s.matrix[r][0]
		for c := 1; c < n && min > 0; c++ {
			if s.matrix[r][c] < min {
				min = s.matrix[r][c]
			}
		}
		if min > 0 {
			for c := 0; c < n; c++ {
				s.matrix[r][c] -= min
			}
		}
	}
}

func (s *solver) minimizeAlongColumns() {
	n := s.size()
	for c := 0; c < n; c++ {
		min := s.matrix[0][c]
		for r := 1; r < n && min > 0; r++ {
			if s.matrix[r][c] < min {
				min = s.matrix[r][c]
			}
		}
		if min > 0 {
			for r := 0; r < n; r++ {
				s.matrix[r][c] -= min
			}
		}
	}
}

// step1 stars the first uncovered zero in each row and column that has
// no star yet.
func (s *solver) step1() int {
	n := s.size()
	for r := 0; r < n; r++ {
		for c := 0; c < n; c++ {
			if s.matrix[r][c] != 0 {
				continue
			}
			starred := false
			for nr := 0; nr < n; nr++ {
				if s.mask[nr][c] == star {
					starred = true
					break
				}
			}
			if !starred {
				for nc := 0; nc < n; nc++ {
					if s.mask[r][nc] == star {
						starred = true
						break
					}
				}
			}
			if !starred {
				s.mask[r][c] = star
			}
		}
	}
	return 2
}

// step2 covers every column containing a starred zero. If that covers
// the whole matrix the assignment is complete.
func (s *solver) step2() int {
	n := s.size()
	covered := 0
	for r := 0; r < n; r++ {
		for c := 0; c < n; c++ {
			if s.mask[r][c] == star {
				s.colCov[c] = true
				covered++
			}
		}
	}
	if covered >= n {
		return 0
	}
	return 3
}

// step3 primes an uncovered zero. If its row has a starred zero, the
// row is covered and the star's column uncovered to keep searching;
// otherwise an augmenting path has been found and step4 runs.
func (s *solver) step3() int {
	n := s.size()
	row, col, found := s.findUncoveredZero()
	if !found {
		return 5
	}
	s.mask[row][col] = prime
	s.saveRow, s.saveCol = row, col

	for nc := 0; nc < n; nc++ {
		if s.mask[row][nc] == star {
			s.rowCov[row] = true
			s.colCov[nc] = false
			return 3
		}
	}
	return 4
}

func (s *solver) findUncoveredZero() (row, col int, found bool) {
	n := s.size()
	for r := 0; r < n; r++ {
		if s.rowCov[r] {
			continue
		}
		for c := 0; c < n; c++ {
			if !s.colCov[c] && s.matrix[r][c] == 0 {
				return r, c, true
			}
		}
	}
	return 0, 0, false
}

// step4 walks the alternating sequence of primed and starred zeros
// rooted at the prime found in step3, flips stars and primes along it,
// clears all primes and covers, and hands control back to step2.
func (s *solver) step4() int {
	n := s.size()
	seq := []cell{{s.saveRow, s.saveCol}}

	col := s.saveCol
	for {
		row, ok := s.starInColumn(col, seq)
		if !ok {
			break
		}
		seq = append(seq, cell{row, col})

		nc, ok := s.primeInRow(row, seq)
		if !ok {
			break
		}
		seq = append(seq, cell{row, nc})
		col = nc
	}

	for _, z := range seq {
		switch s.mask[z.r][z.c] {
		case star:
			s.mask[z.r][z.c] = normal
		case prime:
			s.mask[z.r][z.c] = star
		}
	}

	for r := 0; r < n; r++ {
		for c := 0; c < n; c++ {
			if s.mask[r][c] == prime {
				s.mask[r][c] = normal
			}
		}
		s.rowCov[r] = false
		s.colCov[r] = false
	}
	return 2
}

type cell struct{ r, c int }

func contains(seq []cell, row, col int) bool {
	for _, z := range seq {
		if z.r == row && z.c == col {
			return true
		}
	}
	return false
}

func (s *solver) starInColumn(col int, seq []cell) (int, bool) {
	n := s.size()
	for r := 0; r < n; r++ {
		if s.mask[r][col] == star && !contains(seq, r, col) {
			return r, true
		}
	}
	return 0, false
}

func (s *solver) primeInRow(row int, seq []cell) (int, bool) {
	n := s.size()
	for c := 0; c < n; c++ {
		if s.mask[row][c] == prime && !contains(seq, row, c) {
			return c, true
		}
	}
	return 0, false
}

// step5 raises every covered row and lowers every uncovered column by
// the smallest uncovered value, manufacturing a new zero without
// disturbing any star, prime, or cover.
func (s *solver) step5() int {
	n := s.size()
	h := 0.0
	haveH := false
	for r := 0; r < n; r++ {
		if s.rowCov[r] {
			continue
		}
		for c := 0; c < n; c++ {
			if s.colCov[c] {
				continue
			}
			v := s.matrix[r][c]
			if !haveH || v < h {
				h, haveH = v, true
			}
		}
	}

	for r := 0; r < n; r++ {
		if s.rowCov[r] {
			for c := 0; c < n; c++ {
				s.matrix[r][c] += h
			}
		}
	}
	for c := 0; c < n; c++ {
		if !s.colCov[c] {
			for r := 0; r < n; r++ {
				s.matrix[r][c] -= h
			}
		}
	}
	return 3
}
