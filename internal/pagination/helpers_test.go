package pagination

import "time"

const (
	testTimeout = time.Second
	testTick    = 5 * time.Millisecond
)
