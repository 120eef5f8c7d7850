package core

import (
	"context"
	"fmt"
	"time"

	"github.com/reachskumar/ai-ops-guardian-angel/internal/model"
)

// Overview is the aggregate security posture returned by the overview
// endpoint.
type Overview struct {
	SecurityScore   float64        `json:"security_score"`
	OpenVulns       map[string]int `json:"open_vulnerabilities"`
	ActiveThreats   int            `json:"active_threats"`
	LastScan        *time.Time     `json:"last_scan,omitempty"`
	ComplianceScore float64        `json:"compliance_score"`
	GeneratedAt     time.Time      `json:"generated_at"`
}

// OverviewService aggregates findings, threats and compliance results into a
// single posture summary.
type OverviewService struct {
	db DB
}

func NewOverviewService(db DB) *OverviewService {
	return &OverviewService{db: db}
}

// Severity weights used when deriving the posture score from open findings
// and active threats.
var severityWeights = map[string]float64{
	model.SeverityCritical: 15,
	model.SeverityHigh:     8,
	model.SeverityMedium:   3,
	model.SeverityLow:      1,
}

// Get computes the current security overview.
func (s *OverviewService) Get(ctx context.Context) (*Overview, error) {
	o := &Overview{
		OpenVulns:   make(map[string]int, len(model.Severities)),
		GeneratedAt: time.Now().UTC(),
	}
	for _, sev := range model.Severities {
		o.OpenVulns[sev] = 0
	}

	rows, err := s.db.Query(ctx,
		`SELECT severity, COUNT(*) FROM vulnerabilities
		 WHERE status NOT IN ($1, $2)
		 GROUP BY severity`,
		model.VulnResolved, model.VulnFalsePositive,
	)
	if err != nil {
		return nil, fmt.Errorf("count open vulnerabilities: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var severity string
		var count int
		if err := rows.Scan(&severity, &count); err != nil {
			return nil, fmt.Errorf("scan vulnerability count: %w", err)
		}
		o.OpenVulns[severity] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate vulnerability counts: %w", err)
	}

	row := s.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM threats WHERE status = $1`, model.ThreatActive)
	if err := row.Scan(&o.ActiveThreats); err != nil {
		return nil, fmt.Errorf("count active threats: %w", err)
	}

	row = s.db.QueryRow(ctx,
		`SELECT MAX(completed_at) FROM scans WHERE status = $1`, model.ScanCompleted)
	if err := row.Scan(&o.LastScan); err != nil {
		return nil, fmt.Errorf("last completed scan: %w", err)
	}

	row = s.db.QueryRow(ctx, `SELECT COALESCE(AVG(score), 100) FROM compliance_reports`)
	if err := row.Scan(&o.ComplianceScore); err != nil {
		return nil, fmt.Errorf("average compliance score: %w", err)
	}

	o.SecurityScore = postureScore(o.OpenVulns, o.ActiveThreats, o.ComplianceScore)
	return o, nil
}

// postureScore starts from the compliance average and subtracts weighted
// penalties for open findings and active threats, clamped to [0, 100].
func postureScore(openVulns map[string]int, activeThreats int, complianceScore float64) float64 {
	score := complianceScore
	for severity, count := range openVulns {
		score -= severityWeights[severity] * float64(count)
	}
	score -= 10 * float64(activeThreats)
	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}
	return score
}
