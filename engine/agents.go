package engine

import (
	"sort"
	"strings"
)

// ============================================================================
// AGENT BREAKDOWN — Per-agent category distributions
// ============================================================================
// Groups calls by (agent, route) with percentages over the agent's OWN
// subtotal, so each agent's profile sums to 100% independently of everyone
// else's volume. The "Sin asignar" sentinel and empty agent fields are
// dropped before any grouping — they never reach an AgentCategoryCount.
// ============================================================================

// BreakdownByAgent computes the per-agent route distribution, sorted by
// agent name ascending then frequency descending. Consumers wanting a
// different order sort the slice themselves.
func BreakdownByAgent(records []Record) []AgentCategoryCount {
	type key struct {
		agent string
		route string
	}

	counts := make(map[key]*AgentCategoryCount)
	agentTotals := make(map[string]int)

	for _, r := range records {
		agent := strings.TrimSpace(r.Agent)
		if agent == "" || strings.EqualFold(agent, Unassigned) {
			continue
		}

		// Calls with only a primary category still belong to the agent's
		// profile; they group under the bare primary label.
		route := r.Route()
		if route == "" {
			route = r.Primary
		}

		k := key{agent: agent, route: route}
		c, ok := counts[k]
		if !ok {
			c = &AgentCategoryCount{
				Agent:    agent,
				Primary:  r.Primary,
				Specific: r.Specific(),
				Subtype:  r.Subtype(),
				Route:    route,
			}
			counts[k] = c
		}
		c.Frequency++
		agentTotals[agent]++
	}

	breakdown := make([]AgentCategoryCount, 0, len(counts))
	for _, c := range counts {
		c.Percentage = percentage(c.Frequency, agentTotals[c.Agent])
		breakdown = append(breakdown, *c)
	}

	sort.Slice(breakdown, func(i, j int) bool {
		if breakdown[i].Agent != breakdown[j].Agent {
			return breakdown[i].Agent < breakdown[j].Agent
		}
		if breakdown[i].Frequency != breakdown[j].Frequency {
			return breakdown[i].Frequency > breakdown[j].Frequency
		}
		return breakdown[i].Route < breakdown[j].Route
	})
	return breakdown
}

// AgentTotals sums each agent's call volume from an existing breakdown,
// sorted by volume descending then name ascending.
func AgentTotals(breakdown []AgentCategoryCount) []CategoryCount {
	totals := make(map[string]int)
	var overall int
	for _, c := range breakdown {
		totals[c.Agent] += c.Frequency
		overall += c.Frequency
	}

	out := make([]CategoryCount, 0, len(totals))
	for agent, n := range totals {
		out = append(out, CategoryCount{
			Category:   agent,
			Frequency:  n,
			Percentage: percentage(n, overall),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Frequency != out[j].Frequency {
			return out[i].Frequency > out[j].Frequency
		}
		return out[i].Category < out[j].Category
	})
	for i := range out {
		out[i].Rank = i + 1
	}
	return out
}
