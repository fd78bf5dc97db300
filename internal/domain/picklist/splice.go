package picklist

import "fmt"

// detach unlinks r from its owning list, relinking its former neighbours.
// r's own next/prev are left stale; every caller overwrites them at once.
func (g *Group) detach(r Ref) {
	n := &g.nodes[r]
	l := n.owner
	if l == nil {
		return
	}
	if n.prev != none {
		g.nodes[n.prev].next = n.next
	} else {
		l.head = n.next
	}
	if n.next != none {
		g.nodes[n.next].prev = n.prev
	}
	n.owner = nil
}

// Remove takes r out of its list. Removing an unattached entry is a no-op.
func (g *Group) Remove(r Ref) error {
	if !g.valid(r) {
		return fmt.Errorf("%w: %d", ErrInvalidRef, r)
	}
	g.detach(r)
	n := &g.nodes[r]
	n.next, n.prev = none, none
	return nil
}

// InsertAfter moves moved to directly after anchor, in anchor's list.
// moved may come from any list of the group or be unattached. When moved
// already follows anchor nothing changes.
func (g *Group) InsertAfter(anchor, moved Ref) (Ref, error) {
	if !g.valid(anchor) {
		return none, fmt.Errorf("%w: anchor %d", ErrInvalidRef, anchor)
	}
	if !g.valid(moved) {
		return none, fmt.Errorf("%w: moved %d", ErrInvalidRef, moved)
	}
	if anchor == moved {
		return none, fmt.Errorf("%w: %d", ErrSelfAnchor, anchor)
	}
	if g.nodes[anchor].owner == nil {
		return none, fmt.Errorf("%w: anchor %d", ErrUnattached, anchor)
	}
	if g.nodes[anchor].next == moved && g.nodes[moved].owner == g.nodes[anchor].owner {
		return moved, nil
	}

	g.detach(moved)
	a := &g.nodes[anchor]
	m := &g.nodes[moved]
	m.prev = anchor
	m.next = a.next
	if a.next != none {
		g.nodes[a.next].prev = moved
	}
	a.next = moved
	m.owner = a.owner
	return moved, nil
}

// SetHead moves r to the front of l.
func (g *Group) SetHead(l *List, r Ref) (Ref, error) {
	if err := g.owns(l); err != nil {
		return none, err
	}
	if !g.valid(r) {
		return none, fmt.Errorf("%w: %d", ErrInvalidRef, r)
	}
	if l.head == r {
		return r, nil
	}

	g.detach(r)
	n := &g.nodes[r]
	n.prev = none
	n.next = l.head
	if l.head != none {
		g.nodes[l.head].prev = r
	}
	l.head = r
	n.owner = l
	return r, nil
}

// Append creates an entry for team at the end of l.
func (g *Group) Append(l *List, team int) (Ref, error) {
	if err := g.owns(l); err != nil {
		return none, err
	}
	r := g.NewEntry(team)
	if tail := l.Tail(); tail != none {
		return g.InsertAfter(tail, r)
	}
	return g.SetHead(l, r)
}
