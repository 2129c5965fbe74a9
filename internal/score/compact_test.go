package score

import (
	"testing"
	"time"

	"git.lost.host/meutraa/trg/internal/game"
)

type compactTest struct {
	Inputs  []game.Input
	Compact []InputsCompact
}

var compactTests = []compactTest{
	{Inputs: []game.Input{}, Compact: []InputsCompact{}},
	{
		Inputs: []game.Input{
			{Track: 0, Action: game.Press, At: 100},
			{Track: 3, Action: game.Press, At: 200},
			{Track: 0, Action: game.Release, At: 250},
		},
		Compact: []InputsCompact{
			{Track: 0, Times: []time.Duration{100, 250}},
			{Track: 1, Times: []time.Duration{}},
			{Track: 2, Times: []time.Duration{}},
			{Track: 3, Times: []time.Duration{200}},
		},
	},
	{
		Inputs: []game.Input{
			{Track: 1, Action: game.Press, At: 1},
			{Track: 1, Action: game.Release, At: 1},
			{Track: 1, Action: game.Press, At: 2},
		},
		Compact: []InputsCompact{
			{Track: 0, Times: []time.Duration{}},
			{Track: 1, Times: []time.Duration{1, 1, 2}},
		},
	},
}

func equalCompact(p, q []InputsCompact) bool {
	if len(p) != len(q) {
		return false
	}
	for i := 0; i < len(p); i++ {
		pi, qi := p[i], q[i]
		if pi.Track != qi.Track {
			return false
		}
		if len(pi.Times) != len(qi.Times) {
			return false
		}
		for j := 0; j < len(pi.Times); j++ {
			if pi.Times[j] != qi.Times[j] {
				return false
			}
		}
	}
	return true
}

func equalInputs(p, q []game.Input) bool {
	if len(p) != len(q) {
		return false
	}
	for i := 0; i < len(p); i++ {
		if p[i] != q[i] {
			return false
		}
	}
	return true
}

func TestCompactInputs(t *testing.T) {
	for _, test := range compactTests {
		out := compactInputs(test.Inputs)
		if !equalCompact(out, test.Compact) {
			t.Log("out     ", out)
			t.Log("expected", test.Compact)
			t.Fail()
		}
	}
}

func TestCompactInputsDropsRepeats(t *testing.T) {
	in := []game.Input{
		{Track: 0, Action: game.Press, At: 10},
		{Track: 0, Action: game.Press, At: 20},
		{Track: 0, Action: game.Release, At: 30},
		{Track: 0, Action: game.Release, At: 40},
	}
	expected := []InputsCompact{{Track: 0, Times: []time.Duration{10, 30}}}
	if out := compactInputs(in); !equalCompact(out, expected) {
		t.Fatalf("expected %v, got %v", expected, out)
	}
}

func TestUncompactInputs(t *testing.T) {
	for _, test := range compactTests {
		out := uncompactInputs(test.Compact)
		if !equalInputs(out, test.Inputs) {
			t.Log("in      ", test.Compact)
			t.Log("out     ", out)
			t.Log("expected", test.Inputs)
			t.Fail()
		}
	}
}
