package grid

import (
	"errors"
	"fmt"

	"github.com/youryharchenko/go-forager/planning"
)

// Cell - координата клітинки (рядок, стовпчик). Рядки ростуть донизу.
type Cell struct {
	Row, Col int
}

// String реалізує fmt.Stringer (вимога planning.State).
func (c Cell) String() string {
	return fmt.Sprintf("(%d,%d)", c.Row, c.Col)
}

func (c Cell) Equals(other planning.State) bool {
	if o, ok := other.(Cell); ok {
		return c == o
	}
	return false
}

// Add зсуває клітинку на (dr, dc).
func (c Cell) Add(dr, dc int) Cell {
	return Cell{Row: c.Row + dr, Col: c.Col + dc}
}

// Manhattan повертає Манхеттенську відстань між клітинками.
func (c Cell) Manhattan(o Cell) int {
	return abs(c.Row-o.Row) + abs(c.Col-o.Col)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// Moves - чотири напрямки руху без діагоналей.
// Порядок фіксований: від нього залежить детермінованість пошуку.
var Moves = []struct {
	DR, DC int
	Name   planning.Action
}{
	{0, 1, "RIGHT"},
	{0, -1, "LEFT"},
	{1, 0, "DOWN"},
	{-1, 0, "UP"},
}

// Step повертає клітинку після дії. Невідома дія лишає клітинку на місці.
func Step(c Cell, a planning.Action) Cell {
	for _, m := range Moves {
		if m.Name == a {
			return c.Add(m.DR, m.DC)
		}
	}
	return c
}

var (
	// ErrOutOfBounds - координата поза сіткою. Це помилка програміста, а не світу.
	ErrOutOfBounds = errors.New("cell out of bounds")
	// ErrNoTarget - у клітинці немає цілі.
	ErrNoTarget = errors.New("no target at cell")
	// ErrInvalidLayout - карта порушує інваріанти сітки.
	ErrInvalidLayout = errors.New("invalid grid layout")
)

// OutOfBoundsError несе клітинку і розмір сітки.
type OutOfBoundsError struct {
	Cell          Cell
	Height, Width int
}

func (e *OutOfBoundsError) Error() string {
	return fmt.Sprintf("%v: %v outside %dx%d", ErrOutOfBounds, e.Cell, e.Height, e.Width)
}

func (e *OutOfBoundsError) Unwrap() error {
	return ErrOutOfBounds
}

// Bounds - прямокутник height x width з початком у (0,0).
type Bounds struct {
	Height, Width int
}

// Contains перевіряє, чи лежить клітинка в межах.
func (b Bounds) Contains(c Cell) bool {
	return c.Row >= 0 && c.Row < b.Height && c.Col >= 0 && c.Col < b.Width
}

// Check повертає *OutOfBoundsError для клітинки поза межами.
func (b Bounds) Check(c Cell) error {
	if !b.Contains(c) {
		return &OutOfBoundsError{Cell: c, Height: b.Height, Width: b.Width}
	}
	return nil
}
