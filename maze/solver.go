package maze

// path is a partial route in the breadth-first search: where it ends and the moves that got there.
type path struct {
	end   CellPosition
	moves []Direction
}

// ShortestPath returns a minimal sequence of moves from `from` to `to` over open passages.
// The result is empty when from equals to, when the target is unreachable, or when either
// position lies outside the maze.
func ShortestPath(m *Maze, from, to CellPosition) []Direction {
	if !m.InBound(from) || !m.InBound(to) {
		return []Direction{}
	}

	queue := []path{{end: from, moves: []Direction{}}}
	visited := map[CellPosition]struct{}{from: {}}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		if current.end == to {
			return current.moves
		}

		for _, dir := range m.OpenPaths(current.end) {
			next := current.end.Step(dir)
			if _, seen := visited[next]; seen {
				continue
			}
			visited[next] = struct{}{}

			moves := make([]Direction, len(current.moves), len(current.moves)+1)
			copy(moves, current.moves)
			queue = append(queue, path{end: next, moves: append(moves, dir)})
		}
	}

	return []Direction{}
}

// Reachable returns every cell reachable from `from` through open passages, including `from`.
func Reachable(m *Maze, from CellPosition) map[CellPosition]struct{} {
	seen := map[CellPosition]struct{}{}
	if !m.InBound(from) {
		return seen
	}

	seen[from] = struct{}{}
	stack := []CellPosition{from}
	for len(stack) > 0 {
		cell := pop(&stack)
		for _, dir := range m.OpenPaths(cell) {
			next := cell.Step(dir)
			if _, ok := seen[next]; !ok {
				seen[next] = struct{}{}
				stack = append(stack, next)
			}
		}
	}
	return seen
}
