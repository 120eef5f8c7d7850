package core

import (
	"context"
	"fmt"
	"time"

	"github.com/reachskumar/ai-ops-guardian-angel/internal/model"
	"github.com/reachskumar/ai-ops-guardian-angel/internal/platform"
	"github.com/reachskumar/ai-ops-guardian-angel/internal/threatdetect"
)

// ThreatService runs threat detection over event batches and manages the
// detected threats.
type ThreatService struct {
	db DB
}

func NewThreatService(db DB) *ThreatService {
	return &ThreatService{db: db}
}

const threatColumns = `id, type, severity, status, source, source_ip, user_name, detail,
	evidence, resolution, detected_at, resolved_at`

func scanThreat(row interface{ Scan(...any) error }, t *model.Threat) error {
	return row.Scan(&t.ID, &t.Type, &t.Severity, &t.Status, &t.Source, &t.SourceIP,
		&t.User, &t.Detail, &t.Evidence, &t.Resolution, &t.DetectedAt, &t.ResolvedAt)
}

// Detect analyzes the event batch and persists every detection as an active
// threat.
func (s *ThreatService) Detect(ctx context.Context, source string, events []model.SecurityEvent) ([]model.Threat, error) {
	detections := threatdetect.Analyze(events)

	now := time.Now().UTC()
	threats := make([]model.Threat, 0, len(detections))
	for _, d := range detections {
		t := model.Threat{
			ID:         platform.NewID(),
			Type:       d.Type,
			Severity:   d.Severity,
			Status:     model.ThreatActive,
			Source:     source,
			SourceIP:   d.SourceIP,
			User:       d.User,
			Detail:     d.Detail,
			Evidence:   d.Evidence,
			DetectedAt: now,
		}
		_, err := s.db.Exec(ctx,
			`INSERT INTO threats (id, type, severity, status, source, source_ip, user_name, detail, evidence, detected_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
			t.ID, t.Type, t.Severity, t.Status, t.Source, t.SourceIP, t.User, t.Detail, t.Evidence, t.DetectedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("store threat %s: %w", t.Type, err)
		}
		threats = append(threats, t)
	}
	return threats, nil
}

// ThreatFilter narrows List results.
type ThreatFilter struct {
	Severity string
	Status   string
}

// List returns threats matching the filter, keyset-paginated by ID.
func (s *ThreatService) List(ctx context.Context, filter ThreatFilter, limit int, cursor string) ([]model.Threat, bool, error) {
	query := `SELECT ` + threatColumns + ` FROM threats`
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
		return nil, false, fmt.Errorf("list threats: %w", err)
	}
	defer rows.Close()

	var threats []model.Threat
	for rows.Next() {
		var t model.Threat
		if err := scanThreat(rows, &t); err != nil {
			return nil, false, fmt.Errorf("scan threat: %w", err)
		}
		threats = append(threats, t)
	}
	if err := rows.Err(); err != nil {
		return nil, false, fmt.Errorf("iterate threats: %w", err)
	}

	hasMore := len(threats) > limit
	if hasMore {
		threats = threats[:limit]
	}
	return threats, hasMore, nil
}

// Get returns one threat by ID.
func (s *ThreatService) Get(ctx context.Context, id string) (*model.Threat, error) {
	var t model.Threat
	row := s.db.QueryRow(ctx, `SELECT `+threatColumns+` FROM threats WHERE id = $1`, id)
	if err := scanThreat(row, &t); err != nil {
		return nil, fmt.Errorf("get threat %s: %w", id, notFoundIfNoRows(err))
	}
	return &t, nil
}

// Resolve marks an active threat resolved with the given note.
func (s *ThreatService) Resolve(ctx context.Context, id, resolution string) (*model.Threat, error) {
	t, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if t.Status != model.ThreatActive {
		return nil, fmt.Errorf("threat %s is already %s: %w", id, t.Status, ErrInvalidTransition)
	}

	now := time.Now().UTC()
	t.Status = model.ThreatResolved
	t.Resolution = &resolution
	t.ResolvedAt = &now

	_, err = s.db.Exec(ctx,
		`UPDATE threats SET status = $1, resolution = $2, resolved_at = $3 WHERE id = $4`,
		t.Status, t.Resolution, t.ResolvedAt, t.ID,
	)
	if err != nil {
		return nil, fmt.Errorf("resolve threat %s: %w", id, err)
	}
	return t, nil
}
