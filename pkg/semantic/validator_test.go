package semantic

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/lookgen/pkg/core"
)

func TestValidateMetric_UnreachableMeasure(t *testing.T) {
	// users and sessions share no foreign-key relationship, so a ratio
	// metric pinned to the user entity cannot reach session_count.
	idx := BuildIndex(modelSet(
		newModel("users", []string{"primary:user"}, "user_count"),
		newModel("sessions", []string{"primary:session"}, "session_count"),
	))
	v := NewValidator(idx, nil)

	result, err := v.ValidateMetric(ratioMetric("sessions_per_user", "session_count", "user_count", "user"))
	require.NoError(t, err)

	issues := result.Issues()
	require.Len(t, issues, 1)
	assert.Equal(t, IssueUnreachableMeasure, issues[0].Type)
	assert.Equal(t, "session_count", issues[0].MeasureName)
	assert.Equal(t, "sessions", issues[0].ModelName)
	assert.Equal(t, "user", issues[0].PrimaryEntity)
	assert.Len(t, issues[0].Suggestions, 3)
}

func TestValidateMetric_ReachableWithinOneHop(t *testing.T) {
	idx := BuildIndex(modelSet(
		newModel("rental_orders", []string{"primary:rental", "foreign:user"}, "rental_count", "rental_revenue"),
		newModel("users", []string{"primary:user"}, "user_count"),
	))
	v := NewValidator(idx, nil)

	result, err := v.ValidateMetric(ratioMetric("revenue_per_rental", "rental_revenue", "rental_count", "rental"))
	require.NoError(t, err)
	assert.Empty(t, result.Issues())
}

func TestValidateMetric_MissingPrimaryEntity(t *testing.T) {
	idx := BuildIndex(modelSet(
		newModel("users", []string{"primary:user"}, "user_count"),
	))
	v := NewValidator(idx, nil)

	// Simple metrics never auto-infer.
	result, err := v.ValidateMetric(simpleMetric("total_users", "user_count", ""))
	require.NoError(t, err)

	issues := result.Issues()
	require.Len(t, issues, 1)
	assert.Equal(t, IssueMissingPrimaryEntity, issues[0].Type)
	assert.Equal(t, core.SeverityError, issues[0].Severity)
	assert.Contains(t, issues[0].Message, `measure "user_count" belongs to model "users"`)
}

func TestValidateMetric_RatioInfersFromDenominator(t *testing.T) {
	idx := BuildIndex(modelSet(
		newModel("orders", []string{"primary:order", "foreign:user"}, "order_count"),
		newModel("users", []string{"primary:user"}, "user_count"),
	))
	v := NewValidator(idx, nil)

	// No override: the denominator's model (orders) anchors the metric,
	// and users is one hop away.
	result, err := v.ValidateMetric(ratioMetric("orders_per_user", "user_count", "order_count", ""))
	require.NoError(t, err)
	assert.Empty(t, result.Issues())
}

func TestValidateMetric_MissingMeasureShortCircuits(t *testing.T) {
	idx := BuildIndex(modelSet(
		newModel("users", []string{"primary:user"}, "user_count"),
	))
	v := NewValidator(idx, nil)

	result, err := v.ValidateMetric(simpleMetric("bogus", "nonexistent_measure", "user"))
	require.NoError(t, err)

	issues := result.Issues()
	require.Len(t, issues, 1)
	assert.Equal(t, IssueMissingMeasure, issues[0].Type)
	assert.Equal(t, "nonexistent_measure", issues[0].MeasureName)
	// No unreachable_measure follow-up for the same metric.
	for _, is := range issues {
		assert.NotEqual(t, IssueUnreachableMeasure, is.Type)
	}
}

func TestValidateMetric_MissingMeasureExampleCap(t *testing.T) {
	models := []*core.SemanticModel{newModel("users", []string{"primary:user"},
		"m01", "m02", "m03", "m04", "m05", "m06", "m07", "m08", "m09", "m10", "m11", "m12")}
	v := NewValidator(BuildIndex(models), nil)

	result, err := v.ValidateMetric(simpleMetric("bogus", "missing", "user"))
	require.NoError(t, err)

	issues := result.Issues()
	require.Len(t, issues, 1)
	require.Len(t, issues[0].Suggestions, 1)
	assert.Contains(t, issues[0].Suggestions[0], "m10")
	assert.NotContains(t, issues[0].Suggestions[0], "m11")
	assert.Contains(t, issues[0].Suggestions[0], "(and 2 more)")
}

func TestValidateMetric_InvalidPrimaryEntity(t *testing.T) {
	idx := BuildIndex(modelSet(
		newModel("users", []string{"primary:user"}, "user_count"),
		newModel("orders", []string{"primary:order"}, "order_count"),
	))
	v := NewValidator(idx, nil)

	result, err := v.ValidateMetric(simpleMetric("total_users", "user_count", "ghost"))
	require.NoError(t, err)

	issues := result.Issues()
	require.Len(t, issues, 1)
	assert.Equal(t, IssueInvalidPrimaryEntity, issues[0].Type)
	assert.Equal(t, []string{"order", "user"}, issues[0].AvailableEntities)
}

func TestValidateMetric_UnsupportedTypes(t *testing.T) {
	v := NewValidator(BuildIndex(nil), nil)

	for _, typ := range []core.MetricType{core.MetricDerived, core.MetricConversion} {
		result, err := v.ValidateMetric(&core.Metric{Name: "m", Type: typ})
		require.NoError(t, err)

		issues := result.Issues()
		require.Len(t, issues, 1, "type %s", typ)
		assert.Equal(t, IssueUnsupportedMetricType, issues[0].Type)
		assert.Equal(t, core.SeverityWarning, issues[0].Severity)
	}
}

func TestValidateMetric_ContractViolations(t *testing.T) {
	v := NewValidator(BuildIndex(nil), nil)

	_, err := v.ValidateMetric(nil)
	assert.Error(t, err)

	_, err = v.ValidateMetric(&core.Metric{Name: "m", Type: core.MetricSimple})
	assert.Error(t, err)

	_, err = v.ValidateMetric(&core.Metric{
		Name:       "m",
		Type:       core.MetricRatio,
		TypeParams: core.MetricTypeParams{Numerator: &core.MeasureRef{Name: "x"}},
	})
	assert.Error(t, err)
}

func TestValidateMetrics_BatchAggregates(t *testing.T) {
	idx := BuildIndex(modelSet(
		newModel("users", []string{"primary:user"}, "user_count"),
		newModel("sessions", []string{"primary:session"}, "session_count"),
	))
	v := NewValidator(idx, nil)

	result, err := v.ValidateMetrics([]*core.Metric{
		simpleMetric("bad_entity", "user_count", "ghost"),
		simpleMetric("good", "user_count", "user"),
		ratioMetric("cross", "session_count", "user_count", "user"),
	})
	require.NoError(t, err)

	// One metric failing must not stop validation of the others.
	issues := result.Issues()
	require.Len(t, issues, 2)
	assert.Equal(t, "bad_entity", issues[0].MetricName)
	assert.Equal(t, "cross", issues[1].MetricName)
	assert.True(t, result.HasErrors())
	assert.True(t, result.MetricHasErrors("cross"))
	assert.False(t, result.MetricHasErrors("good"))
}

func TestValidateMetrics_IncludesIndexIssues(t *testing.T) {
	idx := BuildIndex(modelSet(
		newModel("users", []string{"primary:user"}, "total"),
		newModel("orders", []string{"primary:order"}, "total"),
	))
	v := NewValidator(idx, nil)

	result, err := v.ValidateMetrics(nil)
	require.NoError(t, err)

	issues := result.Issues()
	require.Len(t, issues, 1)
	assert.Equal(t, IssueDuplicateMeasure, issues[0].Type)
	assert.False(t, result.HasErrors())
	assert.True(t, result.HasWarnings())
}

func TestValidator_WarnJoinDepth(t *testing.T) {
	idx := BuildIndex(modelSet(
		newModel("a", []string{"primary:a_id", "foreign:b_id"}, "a_count"),
		newModel("b", []string{"primary:b_id", "foreign:c_id"}),
		newModel("c", []string{"primary:c_id"}, "c_count"),
	))
	cfg := NewValidatorConfig()
	cfg.WarnJoinDepth = 1
	v := NewValidator(idx, cfg)

	result, err := v.ValidateMetric(ratioMetric("deep", "c_count", "a_count", "a_id"))
	require.NoError(t, err)

	issues := result.Issues()
	require.Len(t, issues, 1)
	assert.Equal(t, IssueExceedsHopLimit, issues[0].Type)
	assert.Equal(t, core.SeverityWarning, issues[0].Severity)
	assert.Equal(t, 2, issues[0].HopCount)
	assert.False(t, result.HasErrors())
}

func TestValidator_SeverityOverrideAndDisable(t *testing.T) {
	idx := BuildIndex(modelSet(
		newModel("users", []string{"primary:user"}, "user_count"),
	))

	cfg := NewValidatorConfig()
	cfg.SeverityOverrides[IssueMissingPrimaryEntity] = core.SeverityWarning
	v := NewValidator(idx, cfg)

	result, err := v.ValidateMetric(simpleMetric("m", "user_count", ""))
	require.NoError(t, err)
	require.Len(t, result.Issues(), 1)
	assert.Equal(t, core.SeverityWarning, result.Issues()[0].Severity)
	assert.False(t, result.HasErrors())

	cfg = NewValidatorConfig()
	cfg.DisabledChecks[IssueMissingPrimaryEntity] = true
	v = NewValidator(idx, cfg)

	result, err = v.ValidateMetric(simpleMetric("m", "user_count", ""))
	require.NoError(t, err)
	assert.Empty(t, result.Issues())
}

func TestValidator_GraphCacheReused(t *testing.T) {
	idx := BuildIndex(modelSet(
		newModel("users", []string{"primary:user"}, "user_count"),
	))
	v := NewValidator(idx, nil)

	g1 := v.JoinGraphFor("user")
	g2 := v.JoinGraphFor("user")
	assert.Same(t, g1, g2)
}
