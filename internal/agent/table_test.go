package agent

import (
	"math"
	"testing"
)

const epsilon = 1e-9

func TestNewTableIsZero(t *testing.T) {
	tbl := NewTable(7, 21)
	xs, ys := tbl.Dims()
	if xs != 7 || ys != 21 {
		t.Fatalf("Dims() = %d, %d", xs, ys)
	}

	count := 0
	tbl.Each(func(s State, a Action, v float64) {
		count++
		if v != 0 {
			t.Errorf("cell %+v/%s = %v, expected 0", s, a, v)
		}
	})
	if count != 7*21*NumActions {
		t.Errorf("Each visited %d cells, expected %d", count, 7*21*NumActions)
	}
}

func TestTableGetSetMax(t *testing.T) {
	tbl := NewTable(7, 21)
	s := State{X: 3, Y: 11}

	tbl.Set(s, ActionFlap, -5)
	if got := tbl.Get(s, ActionFlap); got != -5 {
		t.Errorf("Get() = %v, expected -5", got)
	}
	if got := tbl.MaxOverActions(s); got != 0 {
		t.Errorf("MaxOverActions() = %v, expected 0 (idle untouched)", got)
	}

	tbl.Set(s, ActionFlap, 12)
	if got := tbl.MaxOverActions(s); got != 12 {
		t.Errorf("MaxOverActions() = %v, expected 12", got)
	}
	if tbl.Get(State{X: 3, Y: 12}, ActionFlap) != 0 {
		t.Error("neighbouring state should be untouched")
	}
}

func TestTableOutOfRangePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("indexing outside the table should panic, not wrap")
		}
	}()
	NewTable(7, 21).Get(State{X: 0, Y: 21}, ActionIdle)
}

func TestTableSnapshotRestore(t *testing.T) {
	src := NewTable(2, 3)
	src.Set(State{X: 1, Y: 2}, ActionFlap, 9)
	src.Set(State{X: 0, Y: 1}, ActionIdle, -591)

	dst := NewTable(2, 3)
	if err := dst.Restore(src.Snapshot()); err != nil {
		t.Fatalf("Restore() failed: %v", err)
	}
	if dst.Get(State{X: 1, Y: 2}, ActionFlap) != 9 || dst.Get(State{X: 0, Y: 1}, ActionIdle) != -591 {
		t.Error("restored table does not match the snapshot")
	}
	if dst.Visited() != 2 {
		t.Errorf("Visited() = %d, expected 2", dst.Visited())
	}
}

func TestTableRestoreRejectsForeignShape(t *testing.T) {
	tbl := NewTable(2, 3)
	err := tbl.Restore([]Cell{{X: 0, Y: 0, Action: ActionFlap, Value: 1}, {X: 5, Y: 0, Action: ActionIdle, Value: 1}})
	if err == nil {
		t.Fatal("expected an error for a cell outside the table")
	}
	if tbl.Get(State{}, ActionFlap) != 0 {
		t.Error("a rejected restore must not partially apply")
	}
}

func TestPolicyTieFavorsIdle(t *testing.T) {
	tbl := NewTable(7, 21)
	for _, s := range []State{{0, 0}, {3, 10}, {6, 20}} {
		if got := Decide(tbl, s); got != ActionIdle {
			t.Errorf("Decide(%+v) on a fresh table = %s, expected idle", s, got)
		}
	}

	s := State{X: 2, Y: 4}
	tbl.Set(s, ActionIdle, 7)
	tbl.Set(s, ActionFlap, 7)
	if Decide(tbl, s) != ActionIdle {
		t.Error("equal non-zero values should still pick idle")
	}

	tbl.Set(s, ActionFlap, 7.0001)
	if Decide(tbl, s) != ActionFlap {
		t.Error("strictly greater flap value should flap")
	}
}

func TestUpdateArithmetic(t *testing.T) {
	tbl := NewTable(7, 21)
	prev := State{X: 4, Y: 5}
	next := State{X: 4, Y: 6}

	got := Update(tbl, Transition{Prev: prev, Action: ActionIdle, Reward: Reward(false), Next: next})
	if math.Abs(got-9.0) > epsilon {
		t.Fatalf("first update = %v, expected 9.0", got)
	}

	tbl.Set(next, ActionIdle, 9.0)
	got = Update(tbl, Transition{Prev: prev, Action: ActionIdle, Reward: Reward(true), Next: next})
	if math.Abs(got-(-591.0)) > epsilon {
		t.Fatalf("crash update = %v, expected -591.0", got)
	}
	if tbl.Get(prev, ActionIdle) != got {
		t.Error("Update should write the new value back")
	}
	if tbl.Get(prev, ActionFlap) != 0 {
		t.Error("Update must only touch the taken action")
	}
}

func TestUpdateUsesBestNextAction(t *testing.T) {
	tbl := NewTable(3, 3)
	prev, next := State{X: 0, Y: 0}, State{X: 1, Y: 1}
	tbl.Set(prev, ActionFlap, 10)
	tbl.Set(next, ActionIdle, -20)
	tbl.Set(next, ActionFlap, 5)

	got := Update(tbl, Transition{Prev: prev, Action: ActionFlap, Reward: 15, Next: next})
	want := 0.4*10 + 0.6*(15+5)
	if math.Abs(got-want) > epsilon {
		t.Errorf("Update() = %v, expected %v", got, want)
	}
}

func TestRewardAsymmetry(t *testing.T) {
	if Reward(true) != -1000 {
		t.Errorf("crash reward = %v, expected -1000", Reward(true))
	}
	if Reward(false) != 15 {
		t.Errorf("survival reward = %v, expected 15", Reward(false))
	}
}

func TestActionString(t *testing.T) {
	if ActionIdle.String() != "idle" || ActionFlap.String() != "flap" || Action(7).String() != "unknown" {
		t.Error("unexpected action names")
	}
	if ActionIdle.Flap() || !ActionFlap.Flap() {
		t.Error("Flap() should only hold for ActionFlap")
	}
}
