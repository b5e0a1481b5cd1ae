// Package inputs loads the static tables a simulation run borrows read-only:
// population by region and age group, origin-destination commuting flows,
// dated vaccine supply, and baseline contact matrices.
package inputs

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/epiflow-xyz/go-epiflow/epidemic"
	"github.com/epiflow-xyz/go-epiflow/process"
)

// Population is the region/age-group population table.
type Population struct {
	IDs    []string        // region identifiers, row order
	Names  []string        // region display names
	Counts epidemic.Matrix // population per region/age group
	Ages   []string        // age-group column labels
}

// Regions returns the number of regions in the table.
func (p *Population) Regions() int { return len(p.IDs) }

// AgeGroups returns the number of age-group columns.
func (p *Population) AgeGroups() int { return len(p.Ages) }

// Index returns the row index of a region ID, or -1.
func (p *Population) Index(id string) int {
	for i, v := range p.IDs {
		if v == id {
			return i
		}
	}
	return -1
}

// PopulationConfig configures population CSV parsing.
type PopulationConfig struct {
	IDColumn   string   // region ID column (required)
	NameColumn string   // region name column (required)
	AgeColumns []string // one column per age group, in model order (required)
	Delimiter  rune     // default comma
}

// DefaultPopulationConfig returns a configuration with common defaults.
func DefaultPopulationConfig() PopulationConfig {
	return PopulationConfig{
		IDColumn:   "region_id",
		NameColumn: "region",
		AgeColumns: []string{"age_0_19", "age_20_39", "age_40_59", "age_60_79", "age_80_plus"},
		Delimiter:  ',',
	}
}

// LoadPopulation parses a population table from a CSV file.
func LoadPopulation(filename string, config PopulationConfig) (*Population, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("opening population file: %w", err)
	}
	defer f.Close()
	return ParsePopulation(f, config)
}

// ParsePopulation parses a population table from a reader.
func ParsePopulation(r io.Reader, config PopulationConfig) (*Population, error) {
	if len(config.AgeColumns) == 0 {
		return nil, fmt.Errorf("population: at least one age column required")
	}
	rows, header, err := readCSV(r, config.Delimiter)
	if err != nil {
		return nil, fmt.Errorf("population: %w", err)
	}

	idIdx, ok := header[config.IDColumn]
	if !ok {
		return nil, fmt.Errorf("population: missing column %q", config.IDColumn)
	}
	nameIdx, ok := header[config.NameColumn]
	if !ok {
		return nil, fmt.Errorf("population: missing column %q", config.NameColumn)
	}
	ageIdx := make([]int, len(config.AgeColumns))
	for i, col := range config.AgeColumns {
		idx, ok := header[col]
		if !ok {
			return nil, fmt.Errorf("population: missing age column %q", col)
		}
		ageIdx[i] = idx
	}

	pop := &Population{
		Ages:   append([]string(nil), config.AgeColumns...),
		Counts: epidemic.NewMatrix(len(rows), len(config.AgeColumns)),
	}
	for i, row := range rows {
		pop.IDs = append(pop.IDs, row[idIdx])
		pop.Names = append(pop.Names, row[nameIdx])
		for a, idx := range ageIdx {
			v, err := strconv.ParseFloat(row[idx], 64)
			if err != nil {
				return nil, fmt.Errorf("population row %d, column %q: %w", i+2, config.AgeColumns[a], err)
			}
			if v < 0 {
				return nil, fmt.Errorf("population row %d, column %q: negative count %g", i+2, config.AgeColumns[a], v)
			}
			pop.Counts[i][a] = v
		}
	}
	return pop, nil
}

// CommutingConfig configures commuting CSV parsing.
type CommutingConfig struct {
	FromColumn  string // origin region ID column
	ToColumn    string // destination region ID column
	CountColumn string // commuter count column
	Delimiter   rune
}

// DefaultCommutingConfig returns a configuration with common defaults.
func DefaultCommutingConfig() CommutingConfig {
	return CommutingConfig{FromColumn: "from", ToColumn: "to", CountColumn: "n", Delimiter: ','}
}

// LoadCommuting parses origin-destination commuter counts from a CSV file
// into a commuting pattern over the population's region ordering.
func LoadCommuting(filename string, pop *Population, config CommutingConfig) (*epidemic.CommutingPattern, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("opening commuting file: %w", err)
	}
	defer f.Close()
	return ParseCommuting(f, pop, config)
}

// ParseCommuting parses origin-destination commuter counts from a reader.
func ParseCommuting(r io.Reader, pop *Population, config CommutingConfig) (*epidemic.CommutingPattern, error) {
	rows, header, err := readCSV(r, config.Delimiter)
	if err != nil {
		return nil, fmt.Errorf("commuting: %w", err)
	}
	fromIdx, ok := header[config.FromColumn]
	if !ok {
		return nil, fmt.Errorf("commuting: missing column %q", config.FromColumn)
	}
	toIdx, ok := header[config.ToColumn]
	if !ok {
		return nil, fmt.Errorf("commuting: missing column %q", config.ToColumn)
	}
	countIdx, ok := header[config.CountColumn]
	if !ok {
		return nil, fmt.Errorf("commuting: missing column %q", config.CountColumn)
	}

	flows := epidemic.NewMatrix(pop.Regions(), pop.Regions())
	for i, row := range rows {
		from := pop.Index(row[fromIdx])
		if from < 0 {
			return nil, fmt.Errorf("commuting row %d: unknown origin region %q", i+2, row[fromIdx])
		}
		to := pop.Index(row[toIdx])
		if to < 0 {
			return nil, fmt.Errorf("commuting row %d: unknown destination region %q", i+2, row[toIdx])
		}
		n, err := strconv.ParseFloat(row[countIdx], 64)
		if err != nil {
			return nil, fmt.Errorf("commuting row %d: %w", i+2, err)
		}
		flows[from][to] += n
	}
	return epidemic.NewCommutingPattern(flows)
}

// SupplyConfig configures vaccine-supply CSV parsing.
type SupplyConfig struct {
	DateColumn  string
	DosesColumn string
	DateFormats []string // formats to try, in order
	Delimiter   rune
}

// DefaultSupplyConfig returns a configuration with common defaults.
func DefaultSupplyConfig() SupplyConfig {
	return SupplyConfig{
		DateColumn:  "date",
		DosesColumn: "doses",
		DateFormats: []string{"2006-01-02", time.RFC3339, "01/02/2006"},
		Delimiter:   ',',
	}
}

// LoadSupply parses a dated vaccine-supply schedule from a CSV file.
func LoadSupply(filename string, config SupplyConfig) (process.SupplySchedule, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("opening supply file: %w", err)
	}
	defer f.Close()
	return ParseSupply(f, config)
}

// ParseSupply parses a dated vaccine-supply schedule from a reader.
func ParseSupply(r io.Reader, config SupplyConfig) (process.SupplySchedule, error) {
	rows, header, err := readCSV(r, config.Delimiter)
	if err != nil {
		return nil, fmt.Errorf("supply: %w", err)
	}
	dateIdx, ok := header[config.DateColumn]
	if !ok {
		return nil, fmt.Errorf("supply: missing column %q", config.DateColumn)
	}
	dosesIdx, ok := header[config.DosesColumn]
	if !ok {
		return nil, fmt.Errorf("supply: missing column %q", config.DosesColumn)
	}

	var schedule process.SupplySchedule
	for i, row := range rows {
		date, err := parseDate(row[dateIdx], config.DateFormats)
		if err != nil {
			return nil, fmt.Errorf("supply row %d: %w", i+2, err)
		}
		doses, err := strconv.ParseFloat(row[dosesIdx], 64)
		if err != nil {
			return nil, fmt.Errorf("supply row %d: %w", i+2, err)
		}
		schedule = append(schedule, process.SupplyEntry{Date: date, Doses: doses})
	}
	return schedule, nil
}

// contactFile is the JSON document holding the four baseline matrices.
type contactFile struct {
	Home   epidemic.Matrix `json:"home"`
	School epidemic.Matrix `json:"school"`
	Work   epidemic.Matrix `json:"work"`
	Public epidemic.Matrix `json:"public"`
}

// LoadContactMatrices parses the baseline contact matrices from a JSON file.
func LoadContactMatrices(filename string) (epidemic.ContactSet, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return epidemic.ContactSet{}, fmt.Errorf("opening contact file: %w", err)
	}
	var doc contactFile
	if err := json.Unmarshal(data, &doc); err != nil {
		return epidemic.ContactSet{}, fmt.Errorf("contact matrices: %w", err)
	}
	return epidemic.NewContactSet(doc.Home, doc.School, doc.Work, doc.Public)
}

// readCSV reads all records and returns data rows plus a column-name index.
func readCSV(r io.Reader, delimiter rune) ([][]string, map[string]int, error) {
	reader := csv.NewReader(r)
	if delimiter != 0 {
		reader.Comma = delimiter
	}
	records, err := reader.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("reading CSV: %w", err)
	}
	if len(records) < 1 {
		return nil, nil, fmt.Errorf("empty CSV")
	}
	header := make(map[string]int, len(records[0]))
	for i, col := range records[0] {
		header[col] = i
	}
	return records[1:], header, nil
}

// parseDate tries each format in order.
func parseDate(s string, formats []string) (time.Time, error) {
	for _, f := range formats {
		if t, err := time.Parse(f, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable date %q", s)
}
