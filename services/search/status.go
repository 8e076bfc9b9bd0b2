package search

const (
	StatusSearching   = "Searching..."
	StatusSearchingIn = "Searching in the following offices: %s"
	StatusNoResults   = "No appointments found"
	StatusFound       = "Found %d rows"
	StatusReady       = "Press search to look for available appointments"
)

// StatusSink receives the one-line status shown next to the results.
type StatusSink interface {
	SetStatus(status string)
}

// StatusFunc adapts a function to StatusSink.
type StatusFunc func(status string)

func (f StatusFunc) SetStatus(status string) { f(status) }

// StatusLine keeps the latest status in memory.
type StatusLine struct {
	Text string
}

func (s *StatusLine) SetStatus(status string) { s.Text = status }
