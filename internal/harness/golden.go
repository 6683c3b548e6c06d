package harness

import (
	"fmt"
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"
)

// Snapshot renders the parts of a result that golden files pin: the viewed
// week and the exact stored document.
func Snapshot(scenarioName string, r *Result) []byte {
	var sb strings.Builder
	fmt.Fprintf(&sb, "scenario: %s\n", scenarioName)
	fmt.Fprintf(&sb, "week: %s\n", r.Week)
	if r.Present {
		fmt.Fprintf(&sb, "stored: %s\n", r.Stored)
	} else {
		sb.WriteString("stored: <none>\n")
	}
	return []byte(sb.String())
}

// RunWithGolden runs scenario, fails t on any step or assertion failure and
// compares the snapshot with testdata/golden/<name>.golden.
func RunWithGolden(t *testing.T, scenario *Scenario) *Result {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		t.Fatalf("run %s: %v", scenario.Name, err)
	}
	for _, e := range result.Errors {
		t.Errorf("%s: %s", scenario.Name, e)
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenario.Name, Snapshot(scenario.Name, result))
	return result
}
