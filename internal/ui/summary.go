package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/tenantctl/tenantctl/internal/config"
	"github.com/tenantctl/tenantctl/internal/deploy"
)

// DeploySummary renders the end-of-run report for a successful deploy.
// Secrets never appear here; only endpoints and per-unit outcomes.
func DeploySummary(cfg *config.Config, state *deploy.State, styled bool) string {
	var b strings.Builder

	writeTitle(&b, fmt.Sprintf("Tenant %q deployed", cfg.Slug), styled)

	writeSection(&b, "Units", styled)
	for _, unit := range cfg.Units() {
		switch {
		case state.Skipped[unit.Name]:
			writeLine(&b, skipMark, fmt.Sprintf("%-14s skipped (no source)", unit.Name), dimStyle, styled)
		case state.Published[unit.Name]:
			writeLine(&b, checkMark, fmt.Sprintf("%-14s %s", unit.Name, unit.Tag), okStyle, styled)
		default:
			writeLine(&b, warnMark, unit.Name, warnStyle, styled)
		}
	}

	writeSection(&b, "Endpoints", styled)
	writeKV(&b, "load balancer", state.LoadBalancerDNS, styled)
	writeKV(&b, "cdn domain", state.CDNDomain, styled)
	if state.LogBucket != "" {
		writeKV(&b, "log bucket", state.LogBucket, styled)
	}
	if cfg.Domain != "" {
		writeKV(&b, "custom domain", cfg.Domain, styled)
	}

	return b.String()
}

// DestroyWarning renders the pre-confirmation banner for a teardown. The
// degraded flag marks runs where no persisted variable set was found.
func DestroyWarning(slug string, degraded bool, styled bool) string {
	var b strings.Builder

	header := fmt.Sprintf("About to DESTROY every resource of tenant %q.", slug)
	if styled {
		header = warnStyle.Render(header)
	}
	b.WriteString(header)
	b.WriteString("\nThis removes the database, stored objects, and serverless functions. It cannot be undone.\n")

	if degraded {
		note := "No saved variable set was found. Teardown will use slug-scoped defaults and may leave renamed resources behind."
		if styled {
			note = failStyle.Render(note)
		}
		b.WriteString(note)
		b.WriteString("\n")
	}

	return b.String()
}

func writeTitle(b *strings.Builder, text string, styled bool) {
	if styled {
		text = titleStyle.Render(text)
	}
	b.WriteString(text)
	b.WriteString("\n")
}

func writeSection(b *strings.Builder, text string, styled bool) {
	if styled {
		text = sectionStyle.Render(text)
	}
	b.WriteString(text)
	b.WriteString("\n")
}

func writeLine(b *strings.Builder, mark, text string, style lipgloss.Style, styled bool) {
	if styled {
		mark = style.Render(mark)
	}
	fmt.Fprintf(b, "  %s %s\n", mark, text)
}

func writeKV(b *strings.Builder, key, value string, styled bool) {
	key = fmt.Sprintf("%-14s", key)
	if styled {
		key = dimStyle.Render(key)
	}
	fmt.Fprintf(b, "  %s %s\n", key, value)
}
