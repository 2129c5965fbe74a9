package game

import (
	"fmt"
	"strings"
)

type Difficulty uint8

const (
	Easy Difficulty = iota
	Normal
	Hard
	Expert
	Master
)

var difficultyNames = [...]string{
	Easy:   "easy",
	Normal: "normal",
	Hard:   "hard",
	Expert: "expert",
	Master: "master",
}

// Window scale per difficulty, in percent of the base window
var difficultyScale = [...]int64{
	Easy:   130,
	Normal: 100,
	Hard:   80,
	Expert: 60,
	Master: 50,
}

func (d Difficulty) String() string {
	if int(d) < len(difficultyNames) {
		return difficultyNames[d]
	}
	return fmt.Sprintf("difficulty(%d)", uint8(d))
}

func (d Difficulty) Valid() bool {
	return int(d) < len(difficultyNames)
}

func ParseDifficulty(s string) (Difficulty, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, name := range difficultyNames {
		if name == s {
			return Difficulty(i), nil
		}
	}
	return Normal, fmt.Errorf("unknown difficulty %q", s)
}

// Difficulties lists every difficulty from the widest windows to the tightest
func Difficulties() []Difficulty {
	return []Difficulty{Easy, Normal, Hard, Expert, Master}
}
