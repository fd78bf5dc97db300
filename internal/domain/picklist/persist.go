package picklist

import (
	"fmt"

	"github.com/google/uuid"
)

// PersistedList is the durable form of one list.
type PersistedList struct {
	Name  string `json:"name"`
	Teams []int  `json:"teams"`
	// IDs optionally carries entry identifiers parallel to Teams.
	IDs []string `json:"ids,omitempty"`
}

// Persisted is the durable form of a group: its lists in sibling order and
// the struck teams.
type Persisted struct {
	Lists  []PersistedList `json:"lists"`
	Struck []int           `json:"struck"`
}

// Flatten captures the group in its persisted form.
func (g *Group) Flatten() Persisted {
	p := Persisted{
		Lists:  make([]PersistedList, 0, len(g.lists)),
		Struck: g.Struck(),
	}
	for _, l := range g.lists {
		pl := PersistedList{Name: l.name, Teams: l.Flatten(), IDs: make([]string, 0, l.Len())}
		for r := l.head; r != none; r = g.nodes[r].next {
			pl.IDs = append(pl.IDs, g.nodes[r].id)
		}
		p.Lists = append(p.Lists, pl)
	}
	return p
}

// Rehydrate rebuilds a group from its persisted form. Every produced list
// carries onUpdate and onDelete. Entries without a stored identifier get a
// fresh one; stored identifiers are normalized to the canonical UUID form.
// Team numbers must be positive.
func Rehydrate(p Persisted, onUpdate, onDelete Hook) (*Group, error) {
	g := NewGroup(onUpdate, onDelete)
	for _, pl := range p.Lists {
		l, err := g.AddList(pl.Name)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidPersisted, err)
		}
		if len(pl.IDs) != 0 && len(pl.IDs) != len(pl.Teams) {
			return nil, fmt.Errorf("%w: list %q has %d ids for %d teams", ErrInvalidPersisted, pl.Name, len(pl.IDs), len(pl.Teams))
		}
		prev := none
		for i, team := range pl.Teams {
			if team <= 0 {
				return nil, fmt.Errorf("%w: list %q entry %d: %w", ErrInvalidPersisted, pl.Name, i, ErrInvalidTeam)
			}
			id, err := entryID(g, pl.IDs, i)
			if err != nil {
				return nil, fmt.Errorf("%w: list %q: %w", ErrInvalidPersisted, pl.Name, err)
			}
			r := g.newEntry(id, team)
			if prev == none {
				_, err = g.SetHead(l, r)
			} else {
				_, err = g.InsertAfter(prev, r)
			}
			if err != nil {
				return nil, err
			}
			prev = r
		}
	}
	for _, team := range p.Struck {
		if team <= 0 {
			return nil, fmt.Errorf("%w: struck %d: %w", ErrInvalidPersisted, team, ErrInvalidTeam)
		}
		g.Strike(team)
	}
	return g, nil
}

func entryID(g *Group, ids []string, i int) (string, error) {
	if len(ids) == 0 || ids[i] == "" {
		return uuid.NewString(), nil
	}
	u, err := uuid.Parse(ids[i])
	if err != nil {
		return "", fmt.Errorf("entry %d: %w", i, err)
	}
	id := u.String()
	if _, dup := g.byID[id]; dup {
		return "", fmt.Errorf("entry %d: duplicate id %s", i, id)
	}
	return id, nil
}
