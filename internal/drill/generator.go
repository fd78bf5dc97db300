package drill

import (
	"math/rand/v2"
	"strconv"

	"github.com/google/uuid"
	"github.com/okian/scoutops/internal/domain/picklist"
	"github.com/okian/scoutops/internal/domain/types"
)

// seedGroup spreads teams 1..cfg.Teams round-robin over cfg.Lists lists.
func seedGroup(cfg *Config) picklist.Persisted {
	p := picklist.Persisted{
		Lists:  make([]picklist.PersistedList, cfg.Lists),
		Struck: []int{},
	}
	for i := range p.Lists {
		p.Lists[i] = picklist.PersistedList{Name: "list-" + strconv.Itoa(i), Teams: []int{}}
	}
	for team := 1; team <= cfg.Teams; team++ {
		l := &p.Lists[(team-1)%cfg.Lists]
		l.Teams = append(l.Teams, team)
	}
	return p
}

// generateMoves builds cfg.Moves distinct moves over the entries of view plus
// the retries, shuffled together.
func generateMoves(cfg *Config, view types.Picklist, stats *Stats) []Move {
	var ids, lists []string
	for _, l := range view.Lists {
		lists = append(lists, l.Name)
		for _, e := range l.Entries {
			ids = append(ids, e.ID)
		}
	}
	if len(ids) < 2 || len(lists) == 0 {
		return nil
	}

	rng := rand.New(rand.NewPCG(cfg.Seed, cfg.Seed^0x5c0a7))
	moves := make([]Move, 0, cfg.Moves)
	var retries []Move
	for i := 0; i < cfg.Moves; i++ {
		m := Move{RequestID: uuid.NewString(), Entry: ids[rng.IntN(len(ids))]}
		if rng.IntN(2) == 0 {
			anchor := ids[rng.IntN(len(ids))]
			for anchor == m.Entry {
				anchor = ids[rng.IntN(len(ids))]
			}
			m.After = anchor
		} else {
			m.List = lists[rng.IntN(len(lists))]
		}
		moves = append(moves, m)
		if rng.Float64() < cfg.RetryRate {
			retries = append(retries, m)
		}
	}

	all := append(moves, retries...)
	rng.Shuffle(len(all), func(i, j int) { all[i], all[j] = all[j], all[i] })

	stats.MovesGenerated = len(moves)
	stats.Retries = len(retries)
	return all
}
