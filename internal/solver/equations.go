// Package solver estimates latent team-strength ratings from observed point
// spreads: it builds a weighted linear system from game observations, solves
// it with a ridge prior, and selects the regularization strength by
// leave-one-week-out cross-validation.
package solver

import (
	"math"
	"sort"

	"github.com/firemansghost/Gridiron-Edge-V1-sub007/internal/models"
)

// BuilderConfig bounds the leverage of implausible blowout lines and enforces
// a minimum sample size.
type BuilderConfig struct {
	OutlierCap float64
	MinGames   int
}

// DefaultBuilderConfig returns the production defaults.
func DefaultBuilderConfig() BuilderConfig {
	return BuilderConfig{OutlierCap: 35, MinGames: 50}
}

// Equation is one sparse row of the design matrix: +1 at the home team
// column, -1 at the away team column, and HFA 1 for true home games.
type Equation struct {
	Home     int
	Away     int
	HFA      float64
	Target   float64
	Weight   float64
	Week     int
	SetLabel string
}

// System is the weighted linear system built from game observations. Team
// columns are ordered by sorted team ID so identical inputs always index
// identically.
type System struct {
	Teams     []string
	Index     map[string]int
	Equations []Equation
	Filtered  int
}

// NumTeams returns the number of team columns.
func (s *System) NumTeams() int { return len(s.Teams) }

// BuildSystem filters outlier rows and assembles the sparse system. It fails
// with InsufficientDataError when fewer than cfg.MinGames valid rows remain.
func BuildSystem(games []models.Game, cfg BuilderConfig) (*System, error) {
	valid := make([]models.Game, 0, len(games))
	filtered := 0
	for _, g := range games {
		if math.Abs(g.TargetSpread) > cfg.OutlierCap {
			filtered++
			continue
		}
		valid = append(valid, g)
	}
	if len(valid) < cfg.MinGames {
		return nil, &models.InsufficientDataError{
			Valid:    len(valid),
			Required: cfg.MinGames,
			Filtered: filtered,
		}
	}

	teamSet := make(map[string]bool)
	for _, g := range valid {
		teamSet[g.HomeTeamID] = true
		teamSet[g.AwayTeamID] = true
	}
	teams := make([]string, 0, len(teamSet))
	for t := range teamSet {
		teams = append(teams, t)
	}
	sort.Strings(teams)
	index := make(map[string]int, len(teams))
	for i, t := range teams {
		index[t] = i
	}

	equations := make([]Equation, 0, len(valid))
	for _, g := range valid {
		hfa := 1.0
		if g.NeutralSite {
			hfa = 0
		}
		equations = append(equations, Equation{
			Home:     index[g.HomeTeamID],
			Away:     index[g.AwayTeamID],
			HFA:      hfa,
			Target:   g.TargetSpread,
			Weight:   g.RowWeight,
			Week:     g.Week,
			SetLabel: g.SetLabel,
		})
	}

	return &System{
		Teams:     teams,
		Index:     index,
		Equations: equations,
		Filtered:  filtered,
	}, nil
}

// Subset returns a shallow copy of the system containing only equations for
// which keep returns true. Team indexing is preserved so solutions remain
// comparable across subsets.
func (s *System) Subset(keep func(Equation) bool) *System {
	sub := &System{Teams: s.Teams, Index: s.Index, Filtered: s.Filtered}
	for _, eq := range s.Equations {
		if keep(eq) {
			sub.Equations = append(sub.Equations, eq)
		}
	}
	return sub
}

// Weeks returns the distinct weeks present in the system, ascending.
func (s *System) Weeks() []int {
	seen := make(map[int]bool)
	for _, eq := range s.Equations {
		seen[eq.Week] = true
	}
	weeks := make([]int, 0, len(seen))
	for w := range seen {
		weeks = append(weeks, w)
	}
	sort.Ints(weeks)
	return weeks
}
