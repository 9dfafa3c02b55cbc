package arena

import "github.com/Mshel/mineopoly/internal/game"

// Economy prices resources. Every unit sold lowers that resource's price by
// drop down to floor; prices creep back toward base by one each turn.
type Economy struct {
	base   map[game.ItemKind]int
	prices map[game.ItemKind]int
	drop   int
	floor  int
}

func NewEconomy(base map[game.ItemKind]int, drop, floor int) *Economy {
	e := &Economy{
		base:   make(map[game.ItemKind]int, len(base)),
		prices: make(map[game.ItemKind]int, len(base)),
		drop:   max(0, drop),
		floor:  max(0, floor),
	}
	for kind, price := range base {
		e.base[kind] = price
	}
	e.Reset()
	return e
}

func (e *Economy) Price(kind game.ItemKind) int {
	return e.prices[kind]
}

// Sell prices items in order and returns the total.
func (e *Economy) Sell(items []game.ItemKind) int {
	total := 0
	for _, item := range items {
		total += e.prices[item]
		e.prices[item] = max(e.floor, e.prices[item]-e.drop)
	}
	return total
}

func (e *Economy) Tick() {
	for kind, base := range e.base {
		if e.prices[kind] < base {
			e.prices[kind]++
		}
	}
}

func (e *Economy) Reset() {
	for kind, price := range e.base {
		e.prices[kind] = price
	}
}

// Prices returns a copy of the current price table.
func (e *Economy) Prices() map[game.ItemKind]int {
	out := make(map[game.ItemKind]int, len(e.prices))
	for kind, price := range e.prices {
		out[kind] = price
	}
	return out
}
