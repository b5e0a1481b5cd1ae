// Package results defines the structured output format for simulation runs
package results

import "time"

const SchemaVersion = "1.0.0"

// CompartmentNames lists the compartment labels in model order.
var CompartmentNames = []string{"S", "E1", "E2", "A", "I", "R", "D", "V"}

// Results contains complete run output
type Results struct {
	Version  string    `json:"version"`
	Metadata Metadata  `json:"metadata"`
	Scenario Scenario  `json:"scenario"`
	Results  Data      `json:"results"`
	Analysis *Analysis `json:"analysis,omitempty"`
}

// Metadata contains run execution information
type Metadata struct {
	RunID       string    `json:"runId"`
	Timestamp   time.Time `json:"timestamp"`
	Policy      string    `json:"policy"`
	Seed        int64     `json:"seed"`
	Stochastic  bool      `json:"stochastic"`
	StopReason  string    `json:"stopReason"`
	ComputeTime float64   `json:"computeTime"` // seconds
}

// Scenario echoes the run parameters
type Scenario struct {
	Regions       int       `json:"regions"`
	AgeGroups     int       `json:"ageGroups"`
	Horizon       int       `json:"horizon"`
	SubPeriods    int       `json:"subPeriods"`
	PeriodsPerDay int       `json:"periodsPerDay"`
	R0            float64   `json:"r0"`
	StartDate     time.Time `json:"startDate"`
	Population    float64   `json:"population"`
}

// Data contains the run output
type Data struct {
	Summary    Summary    `json:"summary"`
	Timeseries Timeseries `json:"timeseries"`
}

// Summary provides a quick overview of the final state
type Summary struct {
	Periods           int                `json:"periods"`
	FinalState        map[string]float64 `json:"finalState"` // compartment totals
	TotalInfected     float64            `json:"totalInfected"`
	TotalDeaths       float64            `json:"totalDeaths"`
	VaccinesGiven     float64            `json:"vaccinesGiven"`
	RecoveredFraction float64            `json:"recoveredFraction"`
	YLL               float64            `json:"yll"`
}

// Timeseries contains per-period compartment totals
type Timeseries struct {
	Periods      []int                `json:"periods"`
	Compartments map[string][]float64 `json:"compartments"`
	NewInfected  []float64            `json:"newInfected"`
	NewDeaths    []float64            `json:"newDeaths"`
}

// Analysis contains automatically computed insights
type Analysis struct {
	Conservation *Conservation   `json:"conservation,omitempty"`
	Peaks        []Peak          `json:"peaks,omitempty"`
	Statistics   map[string]Stat `json:"statistics,omitempty"`
}

// Conservation tracks population balance across the run
type Conservation struct {
	Initial   float64 `json:"initial"`
	Final     float64 `json:"final"`
	MaxDrift  float64 `json:"maxDrift"`
	Conserved bool    `json:"conserved"`
}

// Peak represents a local maximum of a compartment series
type Peak struct {
	Variable string  `json:"variable"`
	Period   int     `json:"period"`
	Value    float64 `json:"value"`
}

// Stat contains a statistical summary of a compartment series
type Stat struct {
	Min  float64 `json:"min"`
	Max  float64 `json:"max"`
	Mean float64 `json:"mean"`
	Std  float64 `json:"std"`
}
