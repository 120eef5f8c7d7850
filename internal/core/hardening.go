package core

import (
	"context"
	"fmt"
	"sort"

	"github.com/reachskumar/ai-ops-guardian-angel/internal/model"
)

// HardeningRecommendation is one suggested remediation action, either derived
// from open findings or part of the static baseline.
type HardeningRecommendation struct {
	ID          string `json:"id"`
	Category    string `json:"category"`
	Title       string `json:"title"`
	Severity    string `json:"severity"`
	Description string `json:"description"`
	Remediation string `json:"remediation"`
	OpenCount   int    `json:"open_count"`
}

// HardeningService builds hardening recommendations from the current set of
// open findings plus a static always-applicable baseline.
type HardeningService struct {
	db DB
}

func NewHardeningService(db DB) *HardeningService {
	return &HardeningService{db: db}
}

// baselineRecommendations apply regardless of scan results.
var baselineRecommendations = []HardeningRecommendation{
	{
		ID:          "baseline-mfa",
		Category:    "identity",
		Title:       "Enforce multi-factor authentication",
		Severity:    model.SeverityHigh,
		Description: "Accounts without a second factor are vulnerable to credential stuffing and phishing.",
		Remediation: "Require MFA for all console and API users, starting with privileged roles.",
	},
	{
		ID:          "baseline-patching",
		Category:    "patching",
		Title:       "Apply security patches on a fixed cadence",
		Severity:    model.SeverityMedium,
		Description: "Unpatched hosts accumulate known-exploitable vulnerabilities over time.",
		Remediation: "Schedule automated patch windows at least monthly and track exceptions.",
	},
	{
		ID:          "baseline-backups",
		Category:    "resilience",
		Title:       "Verify backup restore procedures",
		Severity:    model.SeverityMedium,
		Description: "Backups that have never been restored cannot be trusted during an incident.",
		Remediation: "Run a quarterly restore drill against a non-production environment.",
	},
	{
		ID:          "baseline-logging",
		Category:    "monitoring",
		Title:       "Centralize audit logging",
		Severity:    model.SeverityLow,
		Description: "Scattered logs slow down incident investigation and allow tampering.",
		Remediation: "Ship authentication and administrative logs to a write-once central store.",
	},
}

// severityRank orders severities for sorting, most urgent first.
func severityRank(severity string) int {
	for i, s := range model.Severities {
		if s == severity {
			return i
		}
	}
	return len(model.Severities)
}

// Recommendations groups open findings by rule and prepends them, ordered by
// severity then open count, to the static baseline.
func (s *HardeningService) Recommendations(ctx context.Context) ([]HardeningRecommendation, error) {
	rows, err := s.db.Query(ctx,
		`SELECT rule_id, title, severity, category, description, remediation, COUNT(*)
		 FROM vulnerabilities
		 WHERE status NOT IN ($1, $2)
		 GROUP BY rule_id, title, severity, category, description, remediation`,
		model.VulnResolved, model.VulnFalsePositive,
	)
	if err != nil {
		return nil, fmt.Errorf("group open findings: %w", err)
	}
	defer rows.Close()

	var derived []HardeningRecommendation
	for rows.Next() {
		var r HardeningRecommendation
		if err := rows.Scan(&r.ID, &r.Title, &r.Severity, &r.Category, &r.Description, &r.Remediation, &r.OpenCount); err != nil {
			return nil, fmt.Errorf("scan recommendation: %w", err)
		}
		derived = append(derived, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate recommendations: %w", err)
	}

	sort.SliceStable(derived, func(i, j int) bool {
		ri, rj := severityRank(derived[i].Severity), severityRank(derived[j].Severity)
		if ri != rj {
			return ri < rj
		}
		if derived[i].OpenCount != derived[j].OpenCount {
			return derived[i].OpenCount > derived[j].OpenCount
		}
		return derived[i].ID < derived[j].ID
	})

	return append(derived, baselineRecommendations...), nil
}
