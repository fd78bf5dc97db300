package picklist

// Strike marks team as struck. Struck teams keep their list positions.
func (g *Group) Strike(team int) {
	if _, ok := g.struck[team]; ok {
		return
	}
	g.struck[team] = struct{}{}
	g.struckOrder = append(g.struckOrder, team)
}

// Unstrike clears the mark on team.
func (g *Group) Unstrike(team int) {
	if _, ok := g.struck[team]; !ok {
		return
	}
	delete(g.struck, team)
	for i, t := range g.struckOrder {
		if t == team {
			g.struckOrder = append(g.struckOrder[:i], g.struckOrder[i+1:]...)
			break
		}
	}
}

// IsStruck reports whether team is marked.
func (g *Group) IsStruck(team int) bool {
	_, ok := g.struck[team]
	return ok
}

// Struck returns the marked teams in the order they were struck.
func (g *Group) Struck() []int {
	out := make([]int, len(g.struckOrder))
	copy(out, g.struckOrder)
	return out
}
