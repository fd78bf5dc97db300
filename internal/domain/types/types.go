// Package types contains the read shapes shared by the service and HTTP API.
package types

import "github.com/okian/scoutops/internal/domain/picklist"

// List is one ranked list with its entries in order.
type List struct {
	Name    string           `json:"name"`
	Index   int              `json:"index"`
	Entries []picklist.Entry `json:"entries"`
}

// Picklist is a group as returned to clients.
type Picklist struct {
	Key      string `json:"key"`
	Revision int64  `json:"revision"`
	Lists    []List `json:"lists"`
	Struck   []int  `json:"struck"`
}

// NewPicklist builds the read shape of g.
func NewPicklist(key string, revision int64, g *picklist.Group) Picklist {
	p := Picklist{Key: key, Revision: revision, Struck: g.Struck()}
	lists := g.Lists()
	p.Lists = make([]List, len(lists))
	for i, l := range lists {
		p.Lists[i] = List{Name: l.Name(), Index: l.Index(), Entries: l.Entries()}
	}
	return p
}
