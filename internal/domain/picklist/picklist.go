// Package picklist maintains ranked lists of teams that strategy staff
// reorder by dragging entries within a list or across sibling lists.
//
// All entries of a Group live in one append-only arena; links between
// entries are arena indices, so a move is a constant number of index writes
// and no entry is ever reachable from two lists. A Group is not safe for
// concurrent use; callers serialize mutations per group.
package picklist

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// none marks an absent link.
const none Ref = -1

// Ref addresses an entry in its group's arena.
type Ref int

// Hook is invoked by the orchestration layer when it wants a list persisted
// or dropped. The engine threads hooks onto lists but never calls them itself.
type Hook func(l *List) error

// Entry is a read-only view of an arena record.
type Entry struct {
	Ref  Ref    `json:"-"`
	ID   string `json:"id"`
	Team int    `json:"team"`
	// List is the owning list's name, empty when unattached.
	List string `json:"list,omitempty"`
}

type node struct {
	id    string
	team  int
	next  Ref
	prev  Ref
	owner *List
	freed bool
}

// List is one ranked list inside a Group.
type List struct {
	name     string
	index    int
	head     Ref
	group    *Group
	onUpdate Hook
	onDelete Hook
}

// Group is the set of sibling lists entries may migrate between, plus the
// struck-team marker set.
type Group struct {
	nodes []node
	free  []Ref // released slots, reused by newEntry
	lists []*List
	byID  map[string]Ref

	struck      map[int]struct{}
	struckOrder []int

	onUpdate Hook
	onDelete Hook
}

// NewGroup returns an empty group whose lists will carry the given hooks.
func NewGroup(onUpdate, onDelete Hook) *Group {
	return &Group{
		byID:     make(map[string]Ref),
		struck:   make(map[int]struct{}),
		onUpdate: onUpdate,
		onDelete: onDelete,
	}
}

// Name returns the list label.
func (l *List) Name() string { return l.name }

// Index returns the list position among its siblings.
func (l *List) Index() int { return l.index }

// Head returns the first entry, or -1 for an empty list.
func (l *List) Head() Ref { return l.head }

// Len counts entries by walking from the head.
func (l *List) Len() int {
	n := 0
	for r := l.head; r != none; r = l.group.nodes[r].next {
		n++
	}
	return n
}

// Flatten returns the teams in list order.
func (l *List) Flatten() []int {
	out := make([]int, 0, l.Len())
	for r := l.head; r != none; r = l.group.nodes[r].next {
		out = append(out, l.group.nodes[r].team)
	}
	return out
}

// Entries returns views of the list's entries in order.
func (l *List) Entries() []Entry {
	out := make([]Entry, 0, l.Len())
	for r := l.head; r != none; r = l.group.nodes[r].next {
		out = append(out, l.group.view(r))
	}
	return out
}

// Tail returns the last entry, or -1 for an empty list.
func (l *List) Tail() Ref {
	tail := none
	for r := l.head; r != none; r = l.group.nodes[r].next {
		tail = r
	}
	return tail
}

// NotifyUpdate runs the list's update hook, if any.
func (l *List) NotifyUpdate() error {
	if l.onUpdate == nil {
		return nil
	}
	return l.onUpdate(l)
}

// NotifyDelete runs the list's delete hook, if any.
func (l *List) NotifyDelete() error {
	if l.onDelete == nil {
		return nil
	}
	return l.onDelete(l)
}

// AddList appends an empty list named name.
func (g *Group) AddList(name string) (*List, error) {
	if strings.TrimSpace(name) == "" {
		return nil, ErrBlankName
	}
	if g.List(name) != nil {
		return nil, fmt.Errorf("%w: %q", ErrListExists, name)
	}
	l := &List{
		name:     name,
		index:    len(g.lists),
		head:     none,
		group:    g,
		onUpdate: g.onUpdate,
		onDelete: g.onDelete,
	}
	g.lists = append(g.lists, l)
	return l, nil
}

// DeleteList drops the named list. Its entries become unattached and the
// remaining siblings are renumbered. The caller decides whether to run the
// returned list's delete hook.
func (g *Group) DeleteList(name string) (*List, error) {
	l := g.List(name)
	if l == nil {
		return nil, fmt.Errorf("%w: %q", ErrListNotFound, name)
	}
	for r := l.head; r != none; {
		n := &g.nodes[r]
		next := n.next
		n.next, n.prev, n.owner = none, none, nil
		r = next
	}
	l.head = none
	g.lists = append(g.lists[:l.index], g.lists[l.index+1:]...)
	for i, sib := range g.lists {
		sib.index = i
	}
	return l, nil
}

// List returns the list named name, or nil.
func (g *Group) List(name string) *List {
	for _, l := range g.lists {
		if l.name == name {
			return l
		}
	}
	return nil
}

// Lists returns the lists in sibling order.
func (g *Group) Lists() []*List {
	out := make([]*List, len(g.lists))
	copy(out, g.lists)
	return out
}

// NewEntry creates an unattached entry for team with a fresh identifier.
func (g *Group) NewEntry(team int) Ref {
	return g.newEntry(uuid.NewString(), team)
}

func (g *Group) newEntry(id string, team int) Ref {
	n := node{id: id, team: team, next: none, prev: none}
	var r Ref
	if k := len(g.free); k > 0 {
		r = g.free[k-1]
		g.free = g.free[:k-1]
		g.nodes[r] = n
	} else {
		r = Ref(len(g.nodes))
		g.nodes = append(g.nodes, n)
	}
	g.byID[id] = r
	return r
}

// Release destroys r. It leaves its list, its identifier stops resolving and
// the slot may be handed to a later entry, so r must not be used again.
func (g *Group) Release(r Ref) error {
	if !g.valid(r) {
		return fmt.Errorf("%w: %d", ErrInvalidRef, r)
	}
	g.detach(r)
	delete(g.byID, g.nodes[r].id)
	g.nodes[r] = node{next: none, prev: none, freed: true}
	g.free = append(g.free, r)
	return nil
}

// Size returns the number of live entries, attached or not.
func (g *Group) Size() int { return len(g.byID) }

// Lookup resolves an entry identifier.
func (g *Group) Lookup(id string) (Ref, bool) {
	r, ok := g.byID[id]
	return r, ok
}

// Entry returns a view of r.
func (g *Group) Entry(r Ref) (Entry, error) {
	if !g.valid(r) {
		return Entry{}, fmt.Errorf("%w: %d", ErrInvalidRef, r)
	}
	return g.view(r), nil
}

// Owner returns the list holding r, or nil when r is unattached or invalid.
func (g *Group) Owner(r Ref) *List {
	if !g.valid(r) {
		return nil
	}
	return g.nodes[r].owner
}

func (g *Group) view(r Ref) Entry {
	n := g.nodes[r]
	e := Entry{Ref: r, ID: n.id, Team: n.team}
	if n.owner != nil {
		e.List = n.owner.name
	}
	return e
}

func (g *Group) valid(r Ref) bool {
	return r >= 0 && int(r) < len(g.nodes) && !g.nodes[r].freed
}

func (g *Group) owns(l *List) error {
	if l == nil {
		return ErrNilList
	}
	if l.group != g {
		return fmt.Errorf("%w: %q", ErrForeignList, l.name)
	}
	return nil
}
