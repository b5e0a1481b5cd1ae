package main

import (
	"fmt"
	"math/rand"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/epiflow-xyz/go-epiflow/epidemic"
	"github.com/epiflow-xyz/go-epiflow/inputs"
	"github.com/epiflow-xyz/go-epiflow/policy"
	"github.com/epiflow-xyz/go-epiflow/process"
	"github.com/epiflow-xyz/go-epiflow/response"
	"github.com/epiflow-xyz/go-epiflow/state"
)

// Scenario is the YAML run configuration consumed by the CLI.
type Scenario struct {
	Name string `yaml:"name"`

	// Disease parameters.
	R0                    float64 `yaml:"r0"`
	PeriodsPerDay         int     `yaml:"periodsPerDay"`
	LatentPeriod          float64 `yaml:"latentPeriod"`
	PresymptomaticPeriod  float64 `yaml:"presymptomaticPeriod"`
	PostsymptomaticPeriod float64 `yaml:"postsymptomaticPeriod"`
	Efficacy              float64 `yaml:"efficacy"`
	ProportionSymptomatic float64 `yaml:"proportionSymptomatic"`
	PresymptomaticInfect  float64 `yaml:"presymptomaticInfectiousness"`
	AsymptomaticInfect    float64 `yaml:"asymptomaticInfectiousness"`

	ContactWeights []float64 `yaml:"contactWeights"` // home, school, work, public
	Alphas         []float64 `yaml:"alphas"`         // E2, A, I
	FlowScale      float64   `yaml:"flowScale"`

	// Input files. When PopulationFile is empty a synthetic uniform
	// population of Regions × AgeGroups × CellPopulation is used.
	PopulationFile string `yaml:"populationFile"`
	ContactsFile   string `yaml:"contactsFile"`
	CommutingFile  string `yaml:"commutingFile"`
	SupplyFile     string `yaml:"supplyFile"`

	Regions        int     `yaml:"regions"`
	AgeGroups      int     `yaml:"ageGroups"`
	CellPopulation float64 `yaml:"cellPopulation"`

	FatalityRates  []float64 `yaml:"fatalityRates"`
	AgeFlowScaling []float64 `yaml:"ageFlowScaling"`
	LifeExpectancy []float64 `yaml:"lifeExpectancy"`

	// Run shape.
	Policy          string             `yaml:"policy"`
	PolicyWeights   map[string]float64 `yaml:"policyWeights"`
	Horizon         int                `yaml:"horizon"`
	SubPeriods      int                `yaml:"subPeriods"`
	StartDate       string             `yaml:"startDate"`
	SeedInfected    float64            `yaml:"seedInfected"`
	HubRegion       int                `yaml:"hubRegion"`
	HubBoost        float64            `yaml:"hubBoost"`
	InitialVaccines float64            `yaml:"initialVaccines"`
	WeeklySupply    float64            `yaml:"weeklySupply"` // used when SupplyFile is empty

	Stochastic       bool    `yaml:"stochastic"`
	UseWaves         bool    `yaml:"useWaves"`
	WaveAmplitude    float64 `yaml:"waveAmplitude"`
	WavePeriods      int     `yaml:"wavePeriods"`
	ResponseMeasures bool    `yaml:"responseMeasures"`
}

// LoadScenario reads and validates a scenario file.
func LoadScenario(filename string) (*Scenario, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("read scenario: %w", err)
	}
	sc := defaultScenario()
	if err := yaml.Unmarshal(data, sc); err != nil {
		return nil, fmt.Errorf("parse scenario: %w", err)
	}
	return sc, nil
}

func defaultScenario() *Scenario {
	cfg := epidemic.DefaultConfig()
	return &Scenario{
		Name:                  "default",
		R0:                    cfg.R0,
		PeriodsPerDay:         cfg.PeriodsPerDay,
		LatentPeriod:          cfg.LatentPeriod,
		PresymptomaticPeriod:  cfg.PresymptomaticPeriod,
		PostsymptomaticPeriod: cfg.PostsymptomaticPeriod,
		Efficacy:              cfg.Efficacy,
		ProportionSymptomatic: cfg.ProportionSymptomatic,
		PresymptomaticInfect:  cfg.PresymptomaticInfect,
		AsymptomaticInfect:    cfg.AsymptomaticInfect,
		ContactWeights:        cfg.InitialContactWeights[:],
		Alphas:                cfg.InitialAlphas[:],
		FlowScale:             cfg.InitialFlowScale,
		Regions:               3,
		AgeGroups:             5,
		CellPopulation:        10000,
		FatalityRates:         []float64{0.0001, 0.0005, 0.002, 0.02, 0.08},
		AgeFlowScaling:        []float64{0.2, 1.0, 1.0, 0.3, 0.05},
		LifeExpectancy:        []float64{70, 50, 30, 15, 5},
		Policy:                "population",
		Horizon:               52,
		SubPeriods:            28,
		StartDate:             "2021-01-04",
		SeedInfected:          50,
		HubRegion:             0,
		HubBoost:              5,
		WeeklySupply:          500,
		WaveAmplitude:         0.8,
		WavePeriods:           16,
	}
}

// Config converts the scenario's disease parameters to an engine config.
func (sc *Scenario) Config() (epidemic.Config, error) {
	cfg := epidemic.Config{
		R0:                    sc.R0,
		PeriodsPerDay:         sc.PeriodsPerDay,
		LatentPeriod:          sc.LatentPeriod,
		PresymptomaticPeriod:  sc.PresymptomaticPeriod,
		PostsymptomaticPeriod: sc.PostsymptomaticPeriod,
		Efficacy:              sc.Efficacy,
		ProportionSymptomatic: sc.ProportionSymptomatic,
		PresymptomaticInfect:  sc.PresymptomaticInfect,
		AsymptomaticInfect:    sc.AsymptomaticInfect,
		InitialFlowScale:      sc.FlowScale,
	}
	if len(sc.ContactWeights) != epidemic.NumContactCategories {
		return cfg, fmt.Errorf("scenario: contactWeights needs %d entries, got %d",
			epidemic.NumContactCategories, len(sc.ContactWeights))
	}
	copy(cfg.InitialContactWeights[:], sc.ContactWeights)
	if len(sc.Alphas) != 3 {
		return cfg, fmt.Errorf("scenario: alphas needs 3 entries, got %d", len(sc.Alphas))
	}
	copy(cfg.InitialAlphas[:], sc.Alphas)
	return cfg, cfg.Validate()
}

// Run holds everything needed to execute one simulation of the scenario.
type Run struct {
	Scenario *Scenario
	Process  *process.DecisionProcess
	Policy   policy.Policy
	Seed     int64
}

// BuildRun assembles engine, policy, initial state and decision process for
// the given policy name and seed.
func (sc *Scenario) BuildRun(policyName string, seed int64) (*Run, error) {
	cfg, err := sc.Config()
	if err != nil {
		return nil, err
	}

	population, err := sc.population()
	if err != nil {
		return nil, err
	}
	ageGroups := population.Cols()

	if len(sc.FatalityRates) != ageGroups {
		return nil, fmt.Errorf("scenario: fatalityRates needs %d entries, got %d", ageGroups, len(sc.FatalityRates))
	}

	contacts, err := sc.contacts(ageGroups)
	if err != nil {
		return nil, err
	}

	engine, err := epidemic.NewEngine(cfg, contacts, sc.FatalityRates)
	if err != nil {
		return nil, err
	}
	if sc.CommutingFile != "" {
		if sc.PopulationFile == "" {
			return nil, fmt.Errorf("scenario: commutingFile requires populationFile for region ordering")
		}
		pop, err := inputs.LoadPopulation(sc.PopulationFile, inputs.DefaultPopulationConfig())
		if err != nil {
			return nil, err
		}
		pattern, err := inputs.LoadCommuting(sc.CommutingFile, pop, inputs.DefaultCommutingConfig())
		if err != nil {
			return nil, err
		}
		if engine, err = engine.WithCommuting(pattern, sc.AgeFlowScaling); err != nil {
			return nil, err
		}
	}
	if sc.Stochastic {
		engine = engine.WithStochastic(rand.New(rand.NewSource(seed)))
	}
	if sc.UseWaves {
		engine = engine.WithWaves()
	}

	pol, err := policy.New(policyName, policy.Options{
		SubPeriods: sc.SubPeriods,
		Rng:        rand.New(rand.NewSource(seed + 1)),
		Weights:    sc.PolicyWeights,
	})
	if err != nil {
		return nil, err
	}

	start, err := time.Parse("2006-01-02", sc.StartDate)
	if err != nil {
		return nil, fmt.Errorf("scenario: startDate: %w", err)
	}

	initial := state.NewInitial(state.Options{
		Population:        population,
		SeedInfected:      sc.SeedInfected,
		HubRegion:         sc.HubRegion,
		HubBoost:          sc.HubBoost,
		VaccinesAvailable: sc.InitialVaccines,
		StartDate:         start,
		ContactWeights:    cfg.InitialContactWeights,
		Alphas:            cfg.InitialAlphas,
		FlowScale:         cfg.InitialFlowScale,
	})

	waves := process.ConstantWaves(sc.R0, sc.Horizon)
	if sc.UseWaves {
		waves = process.SeasonalWaves(sc.R0, sc.WaveAmplitude, sc.WavePeriods, sc.Horizon)
	}

	supply, err := sc.supply(start)
	if err != nil {
		return nil, err
	}

	var mapper *response.Mapper
	if sc.ResponseMeasures {
		mapper, err = response.NewMapper(response.IdentityModels(), population.Sum())
		if err != nil {
			return nil, err
		}
	}

	proc, err := process.New(process.Config{
		Simulator:      engine,
		Policy:         pol,
		Initial:        initial,
		Horizon:        sc.Horizon,
		SubPeriods:     sc.SubPeriods,
		PeriodsPerDay:  sc.PeriodsPerDay,
		Waves:          waves,
		Supply:         supply,
		Mapper:         mapper,
		LifeExpectancy: sc.LifeExpectancy,
	})
	if err != nil {
		return nil, err
	}
	return &Run{Scenario: sc, Process: proc, Policy: pol, Seed: seed}, nil
}

// population loads the population file or builds a synthetic uniform table.
func (sc *Scenario) population() (epidemic.Matrix, error) {
	if sc.PopulationFile != "" {
		pop, err := inputs.LoadPopulation(sc.PopulationFile, inputs.DefaultPopulationConfig())
		if err != nil {
			return nil, err
		}
		return pop.Counts, nil
	}
	if sc.Regions <= 0 || sc.AgeGroups <= 0 {
		return nil, fmt.Errorf("scenario: regions and ageGroups must be positive without a population file")
	}
	m := epidemic.NewMatrix(sc.Regions, sc.AgeGroups)
	for r := range m {
		for a := range m[r] {
			m[r][a] = sc.CellPopulation
		}
	}
	return m, nil
}

// contacts loads the contact matrices or builds a uniform mixing set.
func (sc *Scenario) contacts(ageGroups int) (epidemic.ContactSet, error) {
	if sc.ContactsFile != "" {
		return inputs.LoadContactMatrices(sc.ContactsFile)
	}
	return epidemic.UniformContactSet(ageGroups, 1.0/float64(ageGroups)), nil
}

// supply loads the dated supply table or synthesizes a weekly schedule.
func (sc *Scenario) supply(start time.Time) (process.SupplySchedule, error) {
	if sc.SupplyFile != "" {
		return inputs.LoadSupply(sc.SupplyFile, inputs.DefaultSupplyConfig())
	}
	var schedule process.SupplySchedule
	for i := 0; i < sc.Horizon; i++ {
		schedule = append(schedule, process.SupplyEntry{
			Date:  start.AddDate(0, 0, 7*i),
			Doses: sc.WeeklySupply,
		})
	}
	return schedule, nil
}
