package compliance

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_LoadsCatalog(t *testing.T) {
	c, err := New()
	require.NoError(t, err)

	standards := c.Standards()
	require.NotEmpty(t, standards)

	ids := make(map[string]bool)
	for _, s := range standards {
		ids[s.ID] = true
		assert.NotEmpty(t, s.Name)
		assert.NotEmpty(t, s.Controls, "standard %s has no controls", s.ID)
	}
	for _, want := range []string{"cis", "soc2", "hipaa", "pci-dss", "gdpr"} {
		assert.True(t, ids[want], "missing standard %s", want)
	}
}

func TestCheck_UnknownStandard(t *testing.T) {
	c, err := New()
	require.NoError(t, err)

	_, err = c.Check("iso42", "prod-account")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown standard")
}

func TestCheck_RequiresTarget(t *testing.T) {
	c, err := New()
	require.NoError(t, err)

	_, err = c.Check("cis", "")
	assert.Error(t, err)
}

func TestCheck_ScoreMatchesCounts(t *testing.T) {
	c, err := New()
	require.NoError(t, err)

	res, err := c.Check("cis", "prod-account")
	require.NoError(t, err)

	total := res.Passed + res.Failed
	assert.Equal(t, len(res.Controls), total)
	assert.InDelta(t, 100.0*float64(res.Passed)/float64(total), res.Score, 0.001)

	for _, ctrl := range res.Controls {
		if !ctrl.Passed {
			assert.NotEmpty(t, ctrl.Detail)
			assert.NotEmpty(t, ctrl.Remediation)
		}
	}
}

func TestCheck_Deterministic(t *testing.T) {
	c, err := New()
	require.NoError(t, err)

	a, err := c.Check("soc2", "prod-account")
	require.NoError(t, err)
	b, err := c.Check("soc2", "prod-account")
	require.NoError(t, err)

	assert.Equal(t, a, b)
}
