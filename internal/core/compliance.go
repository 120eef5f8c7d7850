package core

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/reachskumar/ai-ops-guardian-angel/internal/compliance"
	"github.com/reachskumar/ai-ops-guardian-angel/internal/model"
	"github.com/reachskumar/ai-ops-guardian-angel/internal/platform"
)

// ComplianceService runs compliance checks and stores their reports.
type ComplianceService struct {
	db      DB
	checker *compliance.Checker
}

func NewComplianceService(db DB, checker *compliance.Checker) *ComplianceService {
	return &ComplianceService{db: db, checker: checker}
}

// Standards returns the catalog of supported standards.
func (s *ComplianceService) Standards() []compliance.Standard {
	return s.checker.Standards()
}

// Check evaluates the standard against the target and persists the report.
func (s *ComplianceService) Check(ctx context.Context, standard, target string) (*model.ComplianceReport, error) {
	result, err := s.checker.Check(standard, target)
	if err != nil {
		return nil, err
	}

	controls, err := json.Marshal(result.Controls)
	if err != nil {
		return nil, fmt.Errorf("encode control results: %w", err)
	}

	report := &model.ComplianceReport{
		ID:        platform.NewID(),
		Standard:  result.Standard,
		Target:    result.Target,
		Passed:    result.Passed,
		Failed:    result.Failed,
		Score:     result.Score,
		Controls:  controls,
		CreatedAt: time.Now().UTC(),
	}

	_, err = s.db.Exec(ctx,
		`INSERT INTO compliance_reports (id, standard, target, passed, failed, score, controls, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		report.ID, report.Standard, report.Target, report.Passed, report.Failed, report.Score, report.Controls, report.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("store compliance report: %w", err)
	}
	return report, nil
}

const reportColumns = `id, standard, target, passed, failed, score, controls, created_at`

// ListReports returns stored reports, optionally filtered by standard.
func (s *ComplianceService) ListReports(ctx context.Context, standard string, limit int, cursor string) ([]model.ComplianceReport, bool, error) {
	query := `SELECT ` + reportColumns + ` FROM compliance_reports`
	var args []any
	argIdx := 1
	where := ""

	if standard != "" {
		where = fmt.Sprintf(" WHERE standard = $%d", argIdx)
		args = append(args, standard)
		argIdx++
	}
	if cursor != "" {
		if where == "" {
			where = fmt.Sprintf(" WHERE id > $%d", argIdx)
		} else {
			where += fmt.Sprintf(" AND id > $%d", argIdx)
		}
		args = append(args, cursor)
		argIdx++
	}

	query += where + fmt.Sprintf(" ORDER BY id LIMIT $%d", argIdx)
	args = append(args, limit+1)

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, false, fmt.Errorf("list compliance reports: %w", err)
	}
	defer rows.Close()

	var reports []model.ComplianceReport
	for rows.Next() {
		var r model.ComplianceReport
		if err := rows.Scan(&r.ID, &r.Standard, &r.Target, &r.Passed, &r.Failed, &r.Score, &r.Controls, &r.CreatedAt); err != nil {
			return nil, false, fmt.Errorf("scan compliance report: %w", err)
		}
		reports = append(reports, r)
	}
	if err := rows.Err(); err != nil {
		return nil, false, fmt.Errorf("iterate compliance reports: %w", err)
	}

	hasMore := len(reports) > limit
	if hasMore {
		reports = reports[:limit]
	}
	return reports, hasMore, nil
}

// GetReport returns one stored report by ID.
func (s *ComplianceService) GetReport(ctx context.Context, id string) (*model.ComplianceReport, error) {
	var r model.ComplianceReport
	err := s.db.QueryRow(ctx,
		`SELECT `+reportColumns+` FROM compliance_reports WHERE id = $1`, id,
	).Scan(&r.ID, &r.Standard, &r.Target, &r.Passed, &r.Failed, &r.Score, &r.Controls, &r.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("get compliance report %s: %w", id, notFoundIfNoRows(err))
	}
	return &r, nil
}
