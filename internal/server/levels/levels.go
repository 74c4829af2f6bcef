// Package levels implements the level authority: an immutable, process-wide
// table mapping named privilege levels to ordered integer ranks, loaded once
// at startup from configuration. The table is safe for unsynchronized
// concurrent reads.
//
// Instead of generating per-level predicate methods, the table exposes one
// generic comparison API (Is, IsAtLeast, IsAtMost) keyed by level name, so
// adding a level to configuration needs no new code.
package levels

import (
	"fmt"
	"sort"

	"github.com/dmitrijs2005/boardkeeper/internal/common"
	"github.com/dmitrijs2005/boardkeeper/internal/server/models"
)

// Names of the levels the core itself needs to resolve. All of them must be
// present in the configured table.
const (
	Admin       = "Admin"
	Mod         = "Mod"
	Contributor = "Contributor"
	Member      = "Member"
	Unactivated = "Unactivated"
)

// Table is the immutable level table.
type Table struct {
	rankByName map[string]int
	nameByRank map[int]string
	names      []string // ascending by rank
}

// NewTable validates and builds a Table from a name -> rank mapping. The
// mapping must be non-empty, free of duplicate ranks, and Admin must exist
// and hold the highest rank.
func NewTable(ranks map[string]int) (*Table, error) {
	if len(ranks) == 0 {
		return nil, fmt.Errorf("level table is empty")
	}

	t := &Table{
		rankByName: make(map[string]int, len(ranks)),
		nameByRank: make(map[int]string, len(ranks)),
		names:      make([]string, 0, len(ranks)),
	}
	for name, rank := range ranks {
		if other, ok := t.nameByRank[rank]; ok {
			return nil, fmt.Errorf("levels %q and %q share rank %d", other, name, rank)
		}
		t.rankByName[name] = rank
		t.nameByRank[rank] = name
		t.names = append(t.names, name)
	}
	sort.Slice(t.names, func(i, j int) bool {
		return t.rankByName[t.names[i]] < t.rankByName[t.names[j]]
	})

	adminRank, ok := t.rankByName[Admin]
	if !ok {
		return nil, fmt.Errorf("level table is missing %q", Admin)
	}
	if adminRank != t.rankByName[t.names[len(t.names)-1]] {
		return nil, fmt.Errorf("%q must hold the highest rank", Admin)
	}

	return t, nil
}

// DefaultRanks returns the stock image-board level table.
func DefaultRanks() map[string]int {
	return map[string]int{
		Unactivated:  0,
		"Blocked":    10,
		Member:       20,
		"Privileged": 30,
		Contributor:  33,
		"Janitor":    35,
		Mod:          40,
		Admin:        50,
	}
}

// RankOf returns the rank for a level name, or common.ErrUnknownLevel.
func (t *Table) RankOf(name string) (int, error) {
	rank, ok := t.rankByName[name]
	if !ok {
		return 0, fmt.Errorf("%w: %q", common.ErrUnknownLevel, name)
	}
	return rank, nil
}

// NameOf returns the level name for a rank, or common.ErrUnknownLevel.
func (t *Table) NameOf(rank int) (string, error) {
	name, ok := t.nameByRank[rank]
	if !ok {
		return "", fmt.Errorf("%w: rank %d", common.ErrUnknownLevel, rank)
	}
	return name, nil
}

// Names returns the configured level names in ascending rank order.
func (t *Table) Names() []string {
	out := make([]string, len(t.names))
	copy(out, t.names)
	return out
}

// LowestRank returns the smallest configured rank. Used for the anonymous
// actor.
func (t *Table) LowestRank() int {
	return t.rankByName[t.names[0]]
}

// InitialLevel decides the rank granted at account creation. The very first
// account in the system becomes Admin unconditionally; later accounts get
// Unactivated while email activation is enabled, and the configured starting
// level otherwise. The decision is made once and never re-evaluated.
func (t *Table) InitialLevel(isFirstAccount, activationRequired bool, startingLevel string) (int, error) {
	switch {
	case isFirstAccount:
		return t.RankOf(Admin)
	case activationRequired:
		return t.RankOf(Unactivated)
	default:
		return t.RankOf(startingLevel)
	}
}

// Is reports whether the account's rank exactly matches the named level.
func (t *Table) Is(a *models.Account, name string) (bool, error) {
	rank, err := t.RankOf(name)
	if err != nil {
		return false, err
	}
	return a.Level == rank, nil
}

// IsAtLeast reports whether the account's rank is the named level or higher.
func (t *Table) IsAtLeast(a *models.Account, name string) (bool, error) {
	rank, err := t.RankOf(name)
	if err != nil {
		return false, err
	}
	return a.Level >= rank, nil
}

// IsAtMost reports whether the account's rank is the named level or lower.
func (t *Table) IsAtMost(a *models.Account, name string) (bool, error) {
	rank, err := t.RankOf(name)
	if err != nil {
		return false, err
	}
	return a.Level <= rank, nil
}
