package drill

import (
	"errors"
	"fmt"

	"github.com/okian/scoutops/internal/domain/types"
)

// ErrVerification reports a group that does not match what the drill sent.
var ErrVerification = errors.New("drill verification failed")

// verifyResults checks that final holds exactly the entries of seeded, each
// once, and that every distinct move bumped the revision exactly once.
func verifyResults(seeded, final types.Picklist, stats *Stats) error {
	if stats.Failed > 0 {
		return fmt.Errorf("%w: %d requests failed", ErrVerification, stats.Failed)
	}
	if len(final.Lists) != len(seeded.Lists) {
		return fmt.Errorf("%w: %d lists, want %d", ErrVerification, len(final.Lists), len(seeded.Lists))
	}

	want := make(map[string]int)
	for _, l := range seeded.Lists {
		for _, e := range l.Entries {
			want[e.ID] = e.Team
		}
	}
	seen := make(map[string]bool, len(want))
	for _, l := range final.Lists {
		for _, e := range l.Entries {
			team, ok := want[e.ID]
			switch {
			case !ok:
				return fmt.Errorf("%w: unknown entry %s in %q", ErrVerification, e.ID, l.Name)
			case seen[e.ID]:
				return fmt.Errorf("%w: entry %s appears twice", ErrVerification, e.ID)
			case team != e.Team:
				return fmt.Errorf("%w: entry %s changed team %d -> %d", ErrVerification, e.ID, team, e.Team)
			}
			seen[e.ID] = true
		}
	}
	if len(seen) != len(want) {
		return fmt.Errorf("%w: %d entries left, want %d", ErrVerification, len(seen), len(want))
	}

	if wantRev := seeded.Revision + int64(stats.MovesGenerated); final.Revision != wantRev {
		return fmt.Errorf("%w: revision %d, want %d", ErrVerification, final.Revision, wantRev)
	}
	return nil
}
