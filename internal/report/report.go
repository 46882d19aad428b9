// Package report renders and persists the final research report.
package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/wonny/vantage/backend/internal/contracts"
)

const disclaimer = "This report is generated by an automated research system for " +
	"informational purposes only. It is not financial advice. Past performance " +
	"does not guarantee future results. Always do your own research before investing."

// Input carries everything the markdown renderer needs.
type Input struct {
	GeneratedAt    time.Time
	Budget         float64
	RiskPreference contracts.RiskPreference
	AssetClasses   []string
	UniverseSize   int
	Picks          []contracts.RankedPick
}

// Generate renders the research report as markdown.
func Generate(in Input) string {
	var b strings.Builder

	b.WriteString("# Investment Research Report\n\n")
	fmt.Fprintf(&b, "Generated: %s\n\n", in.GeneratedAt.UTC().Format("2006-01-02 15:04:05 UTC"))

	b.WriteString("## Summary\n\n")
	fmt.Fprintf(&b, "- Budget: $%.2f\n", in.Budget)
	fmt.Fprintf(&b, "- Risk Profile: %s\n", titleCase(string(in.RiskPreference)))
	fmt.Fprintf(&b, "- Asset Classes: %s\n", strings.Join(in.AssetClasses, ", "))
	fmt.Fprintf(&b, "- Universe Screened: %d assets\n\n", in.UniverseSize)

	fmt.Fprintf(&b, "## Top %d Investment Picks\n\n", len(in.Picks))
	for _, pick := range in.Picks {
		fmt.Fprintf(&b, "### %d. %s\n\n", pick.Rank, pick.Ticker)
		fmt.Fprintf(&b, "- Current Price: $%.2f\n", pick.CurrentPrice)
		fmt.Fprintf(&b, "- Expected 1Y Yield: %.1f%%\n", pick.ExpectedYield*100)
		fmt.Fprintf(&b, "- Confidence Score: %.0f%%\n", pick.Confidence*100)
		fmt.Fprintf(&b, "- Risk Level: %s\n", titleCase(pick.RiskLevel))
		fmt.Fprintf(&b, "- Recommended Allocation: %.1f%% ($%.2f)\n", pick.AllocationPercent, pick.AllocationAmount)
		if pick.Rationale != "" {
			fmt.Fprintf(&b, "- Rationale: %s\n", pick.Rationale)
		}
		b.WriteString("\n")
	}

	b.WriteString("## Disclaimer\n\n")
	b.WriteString(disclaimer)
	b.WriteString("\n")

	return b.String()
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
