package core

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/reachskumar/ai-ops-guardian-angel/internal/model"
)

func sqlContaining(substr string) any {
	return mock.MatchedBy(func(sql string) bool { return strings.Contains(sql, substr) })
}

func TestOverviewService_Get(t *testing.T) {
	db := &mockDB{}
	svc := NewOverviewService(db)
	ctx := context.Background()

	vulnRows := newMockRows(
		func(dest ...any) error {
			*(dest[0].(*string)) = model.SeverityCritical
			*(dest[1].(*int)) = 1
			return nil
		},
		func(dest ...any) error {
			*(dest[0].(*string)) = model.SeverityLow
			*(dest[1].(*int)) = 4
			return nil
		},
	)
	db.On("Query", ctx, sqlContaining("FROM vulnerabilities"), mock.Anything).Return(vulnRows, nil)

	lastScan := time.Now().UTC().Add(-2 * time.Hour).Truncate(time.Microsecond)
	db.On("QueryRow", ctx, sqlContaining("FROM threats"), mock.Anything).Return(&mockRow{
		scanFunc: func(dest ...any) error {
			*(dest[0].(*int)) = 2
			return nil
		},
	})
	db.On("QueryRow", ctx, sqlContaining("FROM scans"), mock.Anything).Return(&mockRow{
		scanFunc: func(dest ...any) error {
			*(dest[0].(**time.Time)) = &lastScan
			return nil
		},
	})
	db.On("QueryRow", ctx, sqlContaining("FROM compliance_reports"), mock.Anything).Return(&mockRow{
		scanFunc: func(dest ...any) error {
			*(dest[0].(*float64)) = 90.0
			return nil
		},
	})

	overview, err := svc.Get(ctx)
	require.NoError(t, err)
	require.NotNil(t, overview)

	assert.Equal(t, 1, overview.OpenVulns[model.SeverityCritical])
	assert.Equal(t, 4, overview.OpenVulns[model.SeverityLow])
	assert.Equal(t, 0, overview.OpenVulns[model.SeverityHigh])
	assert.Equal(t, 2, overview.ActiveThreats)
	require.NotNil(t, overview.LastScan)
	assert.Equal(t, lastScan, *overview.LastScan)
	assert.InDelta(t, 90.0, overview.ComplianceScore, 0.001)
	// 90 - 15 (critical) - 4 (low) - 20 (threats) = 51.
	assert.InDelta(t, 51.0, overview.SecurityScore, 0.001)
	db.AssertExpectations(t)
}

func TestOverviewService_Get_CleanPosture(t *testing.T) {
	db := &mockDB{}
	svc := NewOverviewService(db)
	ctx := context.Background()

	db.On("Query", ctx, sqlContaining("FROM vulnerabilities"), mock.Anything).Return(newEmptyMockRows(), nil)
	db.On("QueryRow", ctx, sqlContaining("FROM threats"), mock.Anything).Return(&mockRow{
		scanFunc: func(dest ...any) error {
			*(dest[0].(*int)) = 0
			return nil
		},
	})
	db.On("QueryRow", ctx, sqlContaining("FROM scans"), mock.Anything).Return(&mockRow{
		scanFunc: func(dest ...any) error {
			*(dest[0].(**time.Time)) = nil
			return nil
		},
	})
	db.On("QueryRow", ctx, sqlContaining("FROM compliance_reports"), mock.Anything).Return(&mockRow{
		scanFunc: func(dest ...any) error {
			*(dest[0].(*float64)) = 100.0
			return nil
		},
	})

	overview, err := svc.Get(ctx)
	require.NoError(t, err)
	assert.Nil(t, overview.LastScan)
	assert.InDelta(t, 100.0, overview.SecurityScore, 0.001)
}

func TestPostureScore_Clamped(t *testing.T) {
	score := postureScore(map[string]int{model.SeverityCritical: 10}, 5, 50)
	assert.Equal(t, 0.0, score)

	score = postureScore(nil, 0, 100)
	assert.Equal(t, 100.0, score)
}
