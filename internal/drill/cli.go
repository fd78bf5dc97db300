package drill

import (
	"os"
)

// ShowHelp prints usage information for the drill tool.
func ShowHelp() {
	_, _ = os.Stdout.WriteString(`Picklist Drill
==============

Seeds a picklist group on a running scouting service, sends concurrent
drag-and-drop moves (some retried with the same request id) and verifies the
final group.

Usage:
  go run ./cmd/drill [options]

Options:
  -url string       Base URL of the service (default "http://localhost:9080")
  -key string       Competition key to drill on (default "drill")
  -lists int        Lists in the seeded group (default 3)
  -teams int        Teams spread over the lists (default 60)
  -moves int        Distinct moves to send (default 2000)
  -workers int      Concurrent clients (default CPU cores * 2)
  -retry float      Fraction of moves re-sent with the same request id (default 0.1)
  -seed uint        Move generation seed (default 1)
  -timeout duration HTTP request timeout (default 10s)
  -log-format string  text or json (default "text")
  -verbose          Log every failed request
  -help             Show this help message
`)
}
