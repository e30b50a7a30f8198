package cmd

import (
	"fmt"
	"log/slog"

	"github.com/alexiusacademia/gorail/internal/scenario"
)

// loadModel loads and builds the scenario of a command
func loadModel(path string) (*scenario.Model, error) {
	s, err := scenario.LoadFromFile(path)
	if err != nil {
		return nil, fmt.Errorf("loading scenario: %w", err)
	}
	if s.Tolerance == 0 {
		s.Tolerance = settings().Tolerance
	}
	m, err := s.Build(slog.Default())
	if err != nil {
		return nil, fmt.Errorf("building scenario: %w", err)
	}
	return m, nil
}

func printScenarioHeader(m *scenario.Model) {
	s := m.Scenario
	if s.Name != "" {
		fmt.Printf("  Scenario: %s\n", s.Name)
	}
	if s.Description != "" {
		fmt.Printf("  Description: %s\n", s.Description)
	}
	fmt.Printf("  Deck: %.2f × %.2f m, %d nodes, %d shells\n", s.Deck.Length, s.Deck.Width,
		len(m.DeckSet.Nodes()), len(m.DeckSet.Elements()))
	fmt.Printf("  Track: %.3f m, gauge %.3f m", m.Track.Length(), m.Track.Gauge)
	if m.Track.Cant != 0 {
		fmt.Printf(", cant %.3f m", m.Track.Cant)
	}
	fmt.Println()
	if s.Position != nil {
		fmt.Printf("  Vehicle: %s at λ = %.3f\n", s.Locomotive.Name, *s.Position)
	} else {
		fmt.Println("  Vehicle: not on the track")
	}
	fmt.Println()
}
