package core

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/reachskumar/ai-ops-guardian-angel/internal/model"
	"github.com/reachskumar/ai-ops-guardian-angel/internal/platform"
	"github.com/reachskumar/ai-ops-guardian-angel/internal/scanner"
)

// ScanService runs vulnerability scans and persists their findings.
type ScanService struct {
	db     DB
	engine *scanner.Engine
}

func NewScanService(db DB, engine *scanner.Engine) *ScanService {
	return &ScanService{db: db, engine: engine}
}

// Run executes a scan against the target and stores the scan row plus one
// vulnerability row per finding.
func (s *ScanService) Run(ctx context.Context, target, scanType string) (*model.Scan, error) {
	scan := &model.Scan{
		ID:        platform.NewID(),
		Target:    target,
		ScanType:  scanType,
		Status:    model.ScanRunning,
		StartedAt: time.Now().UTC(),
	}

	_, err := s.db.Exec(ctx,
		`INSERT INTO scans (id, target, scan_type, status, findings, by_severity, started_at)
		 VALUES ($1, $2, $3, $4, 0, '{}', $5)`,
		scan.ID, scan.Target, scan.ScanType, scan.Status, scan.StartedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("create scan: %w", err)
	}

	findings, err := s.engine.Scan(target, scanType)
	if err != nil {
		s.markFailed(ctx, scan.ID)
		return nil, err
	}

	now := time.Now().UTC()
	for _, f := range findings {
		_, err := s.db.Exec(ctx,
			`INSERT INTO vulnerabilities
			 (id, scan_id, rule_id, title, severity, category, description, remediation, target, status, detected_at, updated_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $11)`,
			platform.NewID(), scan.ID, f.Rule.ID, f.Rule.Title, f.Rule.Severity, f.Rule.Category,
			f.Rule.Description, f.Rule.Remediation, target, model.VulnOpen, now,
		)
		if err != nil {
			s.markFailed(ctx, scan.ID)
			return nil, fmt.Errorf("store finding %s: %w", f.Rule.ID, err)
		}
	}

	scan.Status = model.ScanCompleted
	scan.Findings = len(findings)
	scan.BySeverity = scanner.CountBySeverity(findings)
	scan.CompletedAt = &now

	bySeverity, err := json.Marshal(scan.BySeverity)
	if err != nil {
		return nil, fmt.Errorf("encode severity counts: %w", err)
	}
	_, err = s.db.Exec(ctx,
		`UPDATE scans SET status = $1, findings = $2, by_severity = $3, completed_at = $4 WHERE id = $5`,
		scan.Status, scan.Findings, bySeverity, now, scan.ID,
	)
	if err != nil {
		return nil, fmt.Errorf("complete scan: %w", err)
	}
	return scan, nil
}

func (s *ScanService) markFailed(ctx context.Context, id string) {
	// Best effort; the caller already has the primary error.
	s.db.Exec(ctx, `UPDATE scans SET status = $1, completed_at = now() WHERE id = $2`, model.ScanFailed, id)
}

// Get returns one scan by ID.
func (s *ScanService) Get(ctx context.Context, id string) (*model.Scan, error) {
	var scan model.Scan
	var bySeverity []byte
	err := s.db.QueryRow(ctx,
		`SELECT id, target, scan_type, status, findings, by_severity, started_at, completed_at
		 FROM scans WHERE id = $1`, id,
	).Scan(&scan.ID, &scan.Target, &scan.ScanType, &scan.Status, &scan.Findings, &bySeverity, &scan.StartedAt, &scan.CompletedAt)
	if err != nil {
		return nil, fmt.Errorf("get scan %s: %w", id, notFoundIfNoRows(err))
	}
	if len(bySeverity) > 0 {
		if err := json.Unmarshal(bySeverity, &scan.BySeverity); err != nil {
			return nil, fmt.Errorf("decode severity counts: %w", err)
		}
	}
	return &scan, nil
}
