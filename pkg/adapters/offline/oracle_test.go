package offline_test

import (
	"context"
	"testing"

	"github.com/aretw0/careerpath"
	"github.com/aretw0/careerpath/pkg/adapters/offline"
	"github.com/aretw0/careerpath/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOfflinePlanUsesFallbacks(t *testing.T) {
	eng, err := careerpath.New(offline.New())
	require.NoError(t, err)

	res, err := eng.Plan(context.Background(), domain.PlanRequest{Message: "What salary can I expect?"})
	require.NoError(t, err)

	// The offline reply is not an agent name, so keyword routing applies.
	assert.Equal(t, domain.IndustryAgent, res.Route)
	assert.Nil(t, res.SkillsAssessment)
	assert.Equal(t, 70000, res.IndustryInsights.SalaryRange.Min)
	assert.Equal(t, "6-8 months total", res.LearningPath.Timeline)
}

func TestOfflineHonorsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := offline.New().Invoke(ctx, domain.OracleRequest{})
	assert.ErrorIs(t, err, context.Canceled)
}
