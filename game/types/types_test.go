package types

import "testing"

func TestDirectionOpposite(t *testing.T) {
	tests := []struct {
		d, want Direction
	}{
		{UP, DOWN},
		{DOWN, UP},
		{LEFT, RIGHT},
		{RIGHT, LEFT},
		{NONE, NONE},
	}
	for _, tt := range tests {
		if got := tt.d.Opposite(); got != tt.want {
			t.Errorf("%v.Opposite() = %v, want %v", tt.d, got, tt.want)
		}
	}
}

func TestCellAddUsesRowsForVerticalMoves(t *testing.T) {
	c := Cell{Row: 5, Col: 5}
	if got := c.Add(UP); got != (Cell{Row: 4, Col: 5}) {
		t.Errorf("up: got %+v", got)
	}
	if got := c.Add(RIGHT); got != (Cell{Row: 5, Col: 6}) {
		t.Errorf("right: got %+v", got)
	}
	if got := c.Add(DOWN); got != (Cell{Row: 6, Col: 5}) {
		t.Errorf("down: got %+v", got)
	}
	if got := c.Add(LEFT); got != (Cell{Row: 5, Col: 4}) {
		t.Errorf("left: got %+v", got)
	}
}

func TestGridContains(t *testing.T) {
	g := Grid{Rows: 10, Cols: 8}
	inside := []Cell{{0, 0}, {9, 7}, {5, 3}}
	outside := []Cell{{-1, 0}, {0, -1}, {10, 0}, {0, 8}}

	for _, c := range inside {
		if !g.Contains(c) {
			t.Errorf("expected %+v inside", c)
		}
	}
	for _, c := range outside {
		if g.Contains(c) {
			t.Errorf("expected %+v outside", c)
		}
	}
}

func TestDirectionValid(t *testing.T) {
	if NONE.Valid() || !RIGHT.Valid() {
		t.Error("Valid() mismatch")
	}
}

func TestReasonFor(t *testing.T) {
	if ReasonFor(WallCollision) != ReasonWall || ReasonFor(SelfCollision) != ReasonSelf || ReasonFor(BoomCollision) != ReasonBoom {
		t.Error("unexpected reason mapping")
	}
	if ReasonFor(NoCollision) != ReasonNone {
		t.Error("no collision should have no reason")
	}
}
