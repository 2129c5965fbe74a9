package game

import "time"

// Input is one press or release as it was fed to a session
type Input struct {
	Track  int
	Action Action
	At     time.Duration
}
