package entity

import (
	"snake-boom/game/types"
)

// Snake is an ordered list of cells, head first.
type Snake struct {
	Body      []types.Cell
	Direction types.Direction
}

// NewSnake builds a horizontal snake of the given length with its head at
// head and the body trailing to the left, moving right.
func NewSnake(head types.Cell, length int) *Snake {
	if length < 1 {
		length = 1
	}
	body := make([]types.Cell, length)
	for i := range body {
		body[i] = types.Cell{Row: head.Row, Col: head.Col - i}
	}
	return &Snake{
		Body:      body,
		Direction: types.RIGHT,
	}
}

// Move pushes newHead to the front. Without grow the tail is dropped so the
// length is unchanged.
func (s *Snake) Move(newHead types.Cell, grow bool) {
	s.Body = append([]types.Cell{newHead}, s.Body...)
	if !grow {
		s.RemoveTail()
	}
}

func (s *Snake) RemoveTail() {
	if len(s.Body) > 1 {
		s.Body = s.Body[:len(s.Body)-1]
	}
}

func (s *Snake) GetHead() types.Cell {
	return s.Body[0]
}

// NextHead is the cell the head would enter on the next move.
func (s *Snake) NextHead() types.Cell {
	return s.GetHead().Add(s.Direction)
}

// Contains reports whether c is part of the body (head included).
func (s *Snake) Contains(c types.Cell) bool {
	for _, p := range s.Body {
		if p == c {
			return true
		}
	}
	return false
}

// SetDirection changes the heading unless dir is invalid or would reverse
// the snake onto itself. It reports whether the change was accepted.
func (s *Snake) SetDirection(dir types.Direction) bool {
	if !dir.Valid() || dir == s.Direction.Opposite() {
		return false
	}
	s.Direction = dir
	return true
}

// Cells returns a copy of the body.
func (s *Snake) Cells() []types.Cell {
	out := make([]types.Cell, len(s.Body))
	copy(out, s.Body)
	return out
}
