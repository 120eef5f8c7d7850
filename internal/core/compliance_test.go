package core

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/reachskumar/ai-ops-guardian-angel/internal/compliance"
	"github.com/reachskumar/ai-ops-guardian-angel/internal/model"
)

func newComplianceService(t *testing.T, db DB) *ComplianceService {
	t.Helper()
	checker, err := compliance.New()
	require.NoError(t, err)
	return NewComplianceService(db, checker)
}

// ---------- Check ----------

func TestComplianceService_Check_Success(t *testing.T) {
	db := &mockDB{}
	svc := newComplianceService(t, db)
	ctx := context.Background()

	db.On("Exec", ctx, mock.AnythingOfType("string"), mock.Anything).Return(pgconn.CommandTag{}, nil)

	report, err := svc.Check(ctx, "cis", "prod-account")
	require.NoError(t, err)
	require.NotNil(t, report)
	assert.NotEmpty(t, report.ID)
	assert.Equal(t, "cis", report.Standard)
	assert.Equal(t, "prod-account", report.Target)
	assert.InDelta(t, 100*float64(report.Passed)/float64(report.Passed+report.Failed), report.Score, 0.001)

	var controls []model.ControlResult
	require.NoError(t, json.Unmarshal(report.Controls, &controls))
	assert.Equal(t, report.Passed+report.Failed, len(controls))
	db.AssertExpectations(t)
}

func TestComplianceService_Check_UnknownStandard(t *testing.T) {
	db := &mockDB{}
	svc := newComplianceService(t, db)

	report, err := svc.Check(context.Background(), "iso27001", "prod-account")
	require.Error(t, err)
	assert.Nil(t, report)
	assert.Contains(t, err.Error(), "unknown standard")
}

func TestComplianceService_Check_Deterministic(t *testing.T) {
	db := &mockDB{}
	svc := newComplianceService(t, db)
	ctx := context.Background()

	db.On("Exec", ctx, mock.AnythingOfType("string"), mock.Anything).Return(pgconn.CommandTag{}, nil)

	first, err := svc.Check(ctx, "soc2", "prod-account")
	require.NoError(t, err)
	second, err := svc.Check(ctx, "soc2", "prod-account")
	require.NoError(t, err)

	assert.Equal(t, first.Passed, second.Passed)
	assert.Equal(t, first.Score, second.Score)
}

// ---------- Standards ----------

func TestComplianceService_Standards(t *testing.T) {
	svc := newComplianceService(t, &mockDB{})

	standards := svc.Standards()
	require.Len(t, standards, 5)

	ids := make([]string, len(standards))
	for i, s := range standards {
		ids[i] = s.ID
	}
	assert.Contains(t, ids, "cis")
	assert.Contains(t, ids, "gdpr")
}

// ---------- ListReports ----------

func TestComplianceService_ListReports_FilterArgs(t *testing.T) {
	db := &mockDB{}
	svc := newComplianceService(t, db)
	ctx := context.Background()

	now := time.Now().UTC().Truncate(time.Microsecond)
	rows := newMockRows(func(dest ...any) error {
		*(dest[0].(*string)) = "report-1"
		*(dest[1].(*string)) = "hipaa"
		*(dest[2].(*string)) = "prod-account"
		*(dest[3].(*int)) = 6
		*(dest[4].(*int)) = 2
		*(dest[5].(*float64)) = 75.0
		*(dest[6].(*json.RawMessage)) = json.RawMessage(`[]`)
		*(dest[7].(*time.Time)) = now
		return nil
	})
	db.On("Query", ctx, mock.AnythingOfType("string"), []any{"hipaa", 51}).Return(rows, nil)

	reports, hasMore, err := svc.ListReports(ctx, "hipaa", 50, "")
	require.NoError(t, err)
	require.Len(t, reports, 1)
	assert.False(t, hasMore)
	assert.Equal(t, "hipaa", reports[0].Standard)
	db.AssertExpectations(t)
}

// ---------- GetReport ----------

func TestComplianceService_GetReport_NotFound(t *testing.T) {
	db := &mockDB{}
	svc := newComplianceService(t, db)
	ctx := context.Background()

	row := &mockRow{scanFunc: func(dest ...any) error { return pgx.ErrNoRows }}
	db.On("QueryRow", ctx, mock.AnythingOfType("string"), mock.Anything).Return(row)

	report, err := svc.GetReport(ctx, "missing")
	require.Error(t, err)
	assert.Nil(t, report)
	assert.ErrorIs(t, err, ErrNotFound)
}
