package services

import "time"

// Clock lets tests pin campaign windows to a fixed time.
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }
