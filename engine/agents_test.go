package engine

import (
	"math"
	"testing"
)

// ============================================================================
// AGENT BREAKDOWN TESTS
// ============================================================================

func TestBreakdownByAgentSample(t *testing.T) {
	breakdown := BreakdownByAgent(sampleRecords())

	if len(breakdown) != 3 {
		t.Fatalf("got %d entries, want 3", len(breakdown))
	}

	// Juan Pérez sorts before María García; each of Juan's two routes is
	// 50% of his own subtotal, María's single route is 100% of hers.
	juan := breakdown[:2]
	for _, c := range juan {
		if c.Agent != "Juan Pérez" {
			t.Fatalf("expected Juan Pérez first, got %q", c.Agent)
		}
		if c.Frequency != 1 {
			t.Errorf("route %q frequency = %d, want 1", c.Route, c.Frequency)
		}
		if math.Abs(c.Percentage-50.0) > 0.001 {
			t.Errorf("route %q percentage = %f, want 50", c.Route, c.Percentage)
		}
	}

	maria := breakdown[2]
	if maria.Agent != "María García" {
		t.Fatalf("expected María García last, got %q", maria.Agent)
	}
	if maria.Route != "Gestión | Fallo Del Sistema | Incidencia" {
		t.Errorf("route = %q", maria.Route)
	}
	if math.Abs(maria.Percentage-100.0) > 0.001 {
		t.Errorf("percentage = %f, want 100", maria.Percentage)
	}
}

func TestBreakdownExcludesUnassigned(t *testing.T) {
	records := []Record{
		{Primary: "Información", Agent: "Juan Pérez"},
		{Primary: "Información", Agent: "Sin asignar"},
		{Primary: "Información", Agent: "  SIN ASIGNAR  "},
		{Primary: "Información", Agent: "sin asignar"},
		{Primary: "Información", Agent: ""},
		{Primary: "Información", Agent: "   "},
	}
	breakdown := BreakdownByAgent(records)

	if len(breakdown) != 1 {
		t.Fatalf("got %d entries, want 1", len(breakdown))
	}
	if breakdown[0].Agent != "Juan Pérez" {
		t.Errorf("agent = %q, want Juan Pérez", breakdown[0].Agent)
	}
	if breakdown[0].Frequency != 1 {
		t.Errorf("frequency = %d, want 1", breakdown[0].Frequency)
	}
	// Excluded records must not dilute the kept agent's percentage.
	if math.Abs(breakdown[0].Percentage-100.0) > 0.001 {
		t.Errorf("percentage = %f, want 100", breakdown[0].Percentage)
	}
}

func TestBreakdownPerAgentClosure(t *testing.T) {
	records := []Record{
		{Primary: "Información", Specifics: []string{"Contratación"}, Agent: "Ana"},
		{Primary: "Información", Specifics: []string{"Formación"}, Agent: "Ana"},
		{Primary: "Gestión", Agent: "Ana"},
		{Primary: "Gestión", Specifics: []string{"Avería"}, Agent: "Luis"},
	}
	breakdown := BreakdownByAgent(records)

	sums := make(map[string]float64)
	for _, c := range breakdown {
		sums[c.Agent] += c.Percentage
	}
	for agent, sum := range sums {
		if math.Abs(sum-100.0) > 0.01 {
			t.Errorf("agent %q percentages sum to %f, want ~100", agent, sum)
		}
	}
}

func TestBreakdownPrimaryOnlyFallsBackToBarePrimary(t *testing.T) {
	records := []Record{
		{Primary: "Gestión", Agent: "Ana"},
		{Primary: "Gestión", Agent: "Ana"},
	}
	breakdown := BreakdownByAgent(records)

	if len(breakdown) != 1 {
		t.Fatalf("got %d entries, want 1", len(breakdown))
	}
	if breakdown[0].Route != "Gestión" {
		t.Errorf("route = %q, want bare primary", breakdown[0].Route)
	}
	if breakdown[0].Frequency != 2 {
		t.Errorf("frequency = %d, want 2", breakdown[0].Frequency)
	}
}

func TestBreakdownTrimsAgentWhitespace(t *testing.T) {
	records := []Record{
		{Primary: "Información", Agent: "Ana"},
		{Primary: "Información", Agent: "  Ana "},
	}
	breakdown := BreakdownByAgent(records)

	if len(breakdown) != 1 {
		t.Fatalf("got %d entries, want 1 (whitespace variants must merge)", len(breakdown))
	}
	if breakdown[0].Frequency != 2 {
		t.Errorf("frequency = %d, want 2", breakdown[0].Frequency)
	}
}

func TestBreakdownEmpty(t *testing.T) {
	if got := BreakdownByAgent(nil); len(got) != 0 {
		t.Errorf("got %d entries, want 0", len(got))
	}
}

func TestAgentTotals(t *testing.T) {
	breakdown := BreakdownByAgent(sampleRecords())
	totals := AgentTotals(breakdown)

	if len(totals) != 2 {
		t.Fatalf("got %d agents, want 2", len(totals))
	}
	if totals[0].Category != "Juan Pérez" || totals[0].Frequency != 2 || totals[0].Rank != 1 {
		t.Errorf("top agent = %+v, want Juan Pérez / 2 calls / rank 1", totals[0])
	}
	if totals[1].Category != "María García" || totals[1].Frequency != 1 || totals[1].Rank != 2 {
		t.Errorf("second agent = %+v, want María García / 1 call / rank 2", totals[1])
	}
}
