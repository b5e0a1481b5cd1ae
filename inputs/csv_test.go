package inputs

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

const populationCSV = `region_id,region,age_0_19,age_20_39,age_40_59,age_60_79,age_80_plus
0301,Oslo,150000,220000,180000,90000,20000
1103,Stavanger,35000,40000,38000,18000,4000
`

func TestParsePopulation(t *testing.T) {
	pop, err := ParsePopulation(strings.NewReader(populationCSV), DefaultPopulationConfig())
	if err != nil {
		t.Fatalf("ParsePopulation failed: %v", err)
	}

	if pop.Regions() != 2 {
		t.Errorf("Expected 2 regions, got %d", pop.Regions())
	}
	if pop.AgeGroups() != 5 {
		t.Errorf("Expected 5 age groups, got %d", pop.AgeGroups())
	}
	if pop.IDs[0] != "0301" || pop.Names[0] != "Oslo" {
		t.Errorf("Expected first region 0301/Oslo, got %s/%s", pop.IDs[0], pop.Names[0])
	}
	if pop.Counts[1][2] != 38000 {
		t.Errorf("Expected 38000 in cell [1][2], got %f", pop.Counts[1][2])
	}
	if pop.Index("1103") != 1 {
		t.Errorf("Expected index 1 for region 1103, got %d", pop.Index("1103"))
	}
	if pop.Index("9999") != -1 {
		t.Errorf("Expected -1 for unknown region, got %d", pop.Index("9999"))
	}
}

func TestParsePopulationMissingColumn(t *testing.T) {
	csv := "region_id,age_0_19\n0301,150000\n"
	if _, err := ParsePopulation(strings.NewReader(csv), DefaultPopulationConfig()); err == nil {
		t.Error("Expected error for missing columns")
	}
}

func TestParsePopulationInvalidCount(t *testing.T) {
	csv := strings.Replace(populationCSV, "150000", "many", 1)
	if _, err := ParsePopulation(strings.NewReader(csv), DefaultPopulationConfig()); err == nil {
		t.Error("Expected error for non-numeric count")
	}
}

func TestParsePopulationNegativeCount(t *testing.T) {
	csv := strings.Replace(populationCSV, "150000", "-5", 1)
	if _, err := ParsePopulation(strings.NewReader(csv), DefaultPopulationConfig()); err == nil {
		t.Error("Expected error for negative count")
	}
}

func TestParseCommuting(t *testing.T) {
	pop, err := ParsePopulation(strings.NewReader(populationCSV), DefaultPopulationConfig())
	if err != nil {
		t.Fatalf("ParsePopulation failed: %v", err)
	}

	csv := "from,to,n\n0301,1103,1200\n1103,0301,800\n1103,0301,200\n"
	pattern, err := ParseCommuting(strings.NewReader(csv), pop, DefaultCommutingConfig())
	if err != nil {
		t.Fatalf("ParseCommuting failed: %v", err)
	}

	if pattern.Flows[0][1] != 1200 {
		t.Errorf("Expected flow 1200 from region 0 to 1, got %f", pattern.Flows[0][1])
	}
	// Duplicate origin-destination rows accumulate.
	if pattern.Flows[1][0] != 1000 {
		t.Errorf("Expected accumulated flow 1000, got %f", pattern.Flows[1][0])
	}
	if pattern.Visitors[0] != 1000 {
		t.Errorf("Expected 1000 visitors to region 0, got %f", pattern.Visitors[0])
	}
}

func TestParseCommutingUnknownRegion(t *testing.T) {
	pop, err := ParsePopulation(strings.NewReader(populationCSV), DefaultPopulationConfig())
	if err != nil {
		t.Fatalf("ParsePopulation failed: %v", err)
	}
	csv := "from,to,n\n0301,5555,1200\n"
	if _, err := ParseCommuting(strings.NewReader(csv), pop, DefaultCommutingConfig()); err == nil {
		t.Error("Expected error for unknown destination region")
	}
}

func TestParseSupply(t *testing.T) {
	csv := "date,doses\n2021-01-04,5000\n2021-01-11,7500\n"
	schedule, err := ParseSupply(strings.NewReader(csv), DefaultSupplyConfig())
	if err != nil {
		t.Fatalf("ParseSupply failed: %v", err)
	}

	if len(schedule) != 2 {
		t.Fatalf("Expected 2 entries, got %d", len(schedule))
	}
	want := time.Date(2021, 1, 4, 0, 0, 0, 0, time.UTC)
	if !schedule[0].Date.Equal(want) {
		t.Errorf("Expected date %v, got %v", want, schedule[0].Date)
	}
	if schedule[1].Doses != 7500 {
		t.Errorf("Expected 7500 doses, got %f", schedule[1].Doses)
	}
}

func TestParseSupplyAlternateDateFormat(t *testing.T) {
	csv := "date,doses\n01/18/2021,1000\n"
	schedule, err := ParseSupply(strings.NewReader(csv), DefaultSupplyConfig())
	if err != nil {
		t.Fatalf("ParseSupply failed: %v", err)
	}
	want := time.Date(2021, 1, 18, 0, 0, 0, 0, time.UTC)
	if !schedule[0].Date.Equal(want) {
		t.Errorf("Expected date %v, got %v", want, schedule[0].Date)
	}
}

func TestParseSupplyBadDate(t *testing.T) {
	csv := "date,doses\nlast tuesday,1000\n"
	if _, err := ParseSupply(strings.NewReader(csv), DefaultSupplyConfig()); err == nil {
		t.Error("Expected error for unparseable date")
	}
}

func TestLoadContactMatrices(t *testing.T) {
	doc := `{
		"home":   [[1,0],[0,1]],
		"school": [[0.5,0.5],[0.5,0.5]],
		"work":   [[0.2,0.8],[0.8,0.2]],
		"public": [[0.1,0.1],[0.1,0.1]]
	}`
	path := filepath.Join(t.TempDir(), "contacts.json")
	if err := os.WriteFile(path, []byte(doc), 0644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	set, err := LoadContactMatrices(path)
	if err != nil {
		t.Fatalf("LoadContactMatrices failed: %v", err)
	}
	if set.AgeGroups() != 2 {
		t.Errorf("Expected 2 age groups, got %d", set.AgeGroups())
	}
	if set[1][0][1] != 0.5 {
		t.Errorf("Expected school matrix entry 0.5, got %f", set[1][0][1])
	}
}

func TestLoadContactMatricesDimensionMismatch(t *testing.T) {
	doc := `{
		"home":   [[1,0],[0,1]],
		"school": [[1]],
		"work":   [[0.2,0.8],[0.8,0.2]],
		"public": [[0.1,0.1],[0.1,0.1]]
	}`
	path := filepath.Join(t.TempDir(), "contacts.json")
	if err := os.WriteFile(path, []byte(doc), 0644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	if _, err := LoadContactMatrices(path); err == nil {
		t.Error("Expected error for mismatched matrix dimensions")
	}
}

func TestEmptyCSV(t *testing.T) {
	if _, err := ParseSupply(strings.NewReader(""), DefaultSupplyConfig()); err == nil {
		t.Error("Expected error for empty CSV")
	}
}
