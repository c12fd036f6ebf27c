package sequence

// IndexSequence is the ordered list of author indices, one per decoded block,
// in input order. The decode pass appends to it; the analytics below run over
// the finished sequence. Runs are single-threaded, so there is no locking.
type IndexSequence struct {
	indexes []int
}

// Pair is an adjacent (first, second) author-index pattern.
type Pair struct {
	First  int
	Second int
}

func New() *IndexSequence {
	return &IndexSequence{indexes: make([]int, 0, 1024)}
}

// Append records the author index of the next block.
func (s *IndexSequence) Append(idx int) {
	s.indexes = append(s.indexes, idx)
}

func (s *IndexSequence) Len() int {
	return len(s.indexes)
}

// Values returns the underlying indices. Callers must not modify the slice.
func (s *IndexSequence) Values() []int {
	return s.indexes
}

// Rows splits the sequence into rows of width entries; the last row may be
// shorter. Width is the roster size, never a hard-coded constant.
func (s *IndexSequence) Rows(width int) [][]int {
	if width <= 0 {
		return nil
	}

	rows := make([][]int, 0, (len(s.indexes)+width-1)/width)
	for start := 0; start < len(s.indexes); start += width {
		end := start + width
		if end > len(s.indexes) {
			end = len(s.indexes)
		}
		rows = append(rows, s.indexes[start:end])
	}
	return rows
}

// CountPairs counts adjacent occurrences of any of the given patterns. This
// backs the loss heuristic: each pattern is a pair believed to indicate a
// skipped turn. It is an approximate count, not a reconstruction of the
// consensus schedule.
func (s *IndexSequence) CountPairs(pairs []Pair) int {
	count := 0
	for i := 0; i+1 < len(s.indexes); i++ {
		for _, p := range pairs {
			if s.indexes[i] == p.First && s.indexes[i+1] == p.Second {
				count++
				break
			}
		}
	}
	return count
}

// Cycles counts occurrences of the single adjacent pair used as a rough
// full-rotation marker.
func (s *IndexSequence) Cycles(p Pair) int {
	return s.CountPairs([]Pair{p})
}

// Tally returns how many blocks each roster index authored. Indices outside
// [0, size) are ignored; the decode pass never produces them.
func (s *IndexSequence) Tally(size int) []int {
	counts := make([]int, size)
	for _, idx := range s.indexes {
		if idx >= 0 && idx < size {
			counts[idx]++
		}
	}
	return counts
}
