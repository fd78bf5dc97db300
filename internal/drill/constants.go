package drill

import "time"

// Defaults applied by Config.normalize.
const (
	DefaultLists   = 3
	DefaultTeams   = 60
	DefaultMoves   = 2_000
	DefaultTimeout = 10 * time.Second

	workerChannelMultiplier = 2
)
