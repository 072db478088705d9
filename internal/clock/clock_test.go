package clock

import (
	"testing"
	"time"
)

func TestFixed(t *testing.T) {
	at := time.Date(2024, time.June, 21, 18, 0, 0, 0, time.UTC)
	c := Fixed{T: at}

	if !c.Now().Equal(at) || !c.Now().Equal(c.Now()) {
		t.Errorf("Fixed clock should always return %s", at)
	}
}

func TestReal(t *testing.T) {
	before := time.Now()
	got := Real{}.Now()
	if got.Before(before) {
		t.Errorf("Real clock went backwards: %s < %s", got, before)
	}
}
