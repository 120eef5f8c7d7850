package core

import (
	"context"
	"fmt"
	"time"

	"github.com/reachskumar/ai-ops-guardian-angel/internal/model"
)

// VulnerabilityService reads and updates stored findings.
type VulnerabilityService struct {
	db DB
}

func NewVulnerabilityService(db DB) *VulnerabilityService {
	return &VulnerabilityService{db: db}
}

// VulnerabilityFilter narrows List results.
type VulnerabilityFilter struct {
	Severity string
	Status   string
}

const vulnColumns = `id, scan_id, rule_id, title, severity, category, description, remediation,
	target, status, resolution, detected_at, resolved_at, updated_at`

func scanVuln(row interface{ Scan(...any) error }, v *model.Vulnerability) error {
	return row.Scan(&v.ID, &v.ScanID, &v.RuleID, &v.Title, &v.Severity, &v.Category,
		&v.Description, &v.Remediation, &v.Target, &v.Status, &v.Resolution,
		&v.DetectedAt, &v.ResolvedAt, &v.UpdatedAt)
}

// List returns vulnerabilities matching the filter, keyset-paginated by ID.
func (s *VulnerabilityService) List(ctx context.Context, filter VulnerabilityFilter, limit int, cursor string) ([]model.Vulnerability, bool, error) {
	query := `SELECT ` + vulnColumns + ` FROM vulnerabilities`
	var args []any
	argIdx := 1
	where := ""

	appendClause := func(clause string, value any) {
		if where == "" {
			where = " WHERE "
		} else {
			where += " AND "
		}
		where += fmt.Sprintf(clause, argIdx)
		args = append(args, value)
		argIdx++
	}

	if filter.Severity != "" {
		appendClause("severity = $%d", filter.Severity)
	}
	if filter.Status != "" {
		appendClause("status = $%d", filter.Status)
	}
	if cursor != "" {
		appendClause("id > $%d", cursor)
	}

	query += where + fmt.Sprintf(" ORDER BY id LIMIT $%d", argIdx)
	args = append(args, limit+1)

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, false, fmt.Errorf("list vulnerabilities: %w", err)
	}
	defer rows.Close()

	var vulns []model.Vulnerability
	for rows.Next() {
		var v model.Vulnerability
		if err := scanVuln(rows, &v); err != nil {
			return nil, false, fmt.Errorf("scan vulnerability: %w", err)
		}
		vulns = append(vulns, v)
	}
	if err := rows.Err(); err != nil {
		return nil, false, fmt.Errorf("iterate vulnerabilities: %w", err)
	}

	hasMore := len(vulns) > limit
	if hasMore {
		vulns = vulns[:limit]
	}
	return vulns, hasMore, nil
}

// Get returns one vulnerability by ID.
func (s *VulnerabilityService) Get(ctx context.Context, id string) (*model.Vulnerability, error) {
	var v model.Vulnerability
	row := s.db.QueryRow(ctx, `SELECT `+vulnColumns+` FROM vulnerabilities WHERE id = $1`, id)
	if err := scanVuln(row, &v); err != nil {
		return nil, fmt.Errorf("get vulnerability %s: %w", id, notFoundIfNoRows(err))
	}
	return &v, nil
}

// allowedTransitions maps each status to the statuses it may move to.
var allowedTransitions = map[string][]string{
	model.VulnOpen:         {model.VulnAcknowledged, model.VulnInProgress, model.VulnResolved, model.VulnFalsePositive},
	model.VulnAcknowledged: {model.VulnInProgress, model.VulnResolved, model.VulnFalsePositive},
	model.VulnInProgress:   {model.VulnResolved, model.VulnFalsePositive},
}

func transitionAllowed(from, to string) bool {
	for _, s := range allowedTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// UpdateStatus transitions a vulnerability. Resolving requires a resolution
// note; resolved and false-positive findings are terminal.
func (s *VulnerabilityService) UpdateStatus(ctx context.Context, id, status string, resolution *string) (*model.Vulnerability, error) {
	v, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if !transitionAllowed(v.Status, status) {
		return nil, fmt.Errorf("cannot move vulnerability from %s to %s: %w", v.Status, status, ErrInvalidTransition)
	}
	if status == model.VulnResolved && (resolution == nil || *resolution == "") {
		return nil, fmt.Errorf("resolving requires a resolution note: %w", ErrInvalidTransition)
	}

	now := time.Now().UTC()
	v.Status = status
	v.Resolution = resolution
	v.UpdatedAt = now
	if status == model.VulnResolved || status == model.VulnFalsePositive {
		v.ResolvedAt = &now
	}

	_, err = s.db.Exec(ctx,
		`UPDATE vulnerabilities SET status = $1, resolution = $2, resolved_at = $3, updated_at = $4 WHERE id = $5`,
		v.Status, v.Resolution, v.ResolvedAt, v.UpdatedAt, v.ID,
	)
	if err != nil {
		return nil, fmt.Errorf("update vulnerability %s: %w", id, err)
	}
	return v, nil
}
