package loader

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/lookgen/pkg/core"
)

const ordersYAML = `
semantic_models:
  - name: orders
    description: One row per order.
    model: ref('orders')
    entities:
      - name: order
        type: primary
      - name: user
        type: foreign
    dimensions:
      - name: status
        type: categorical
      - name: ordered_at
        type: time
    measures:
      - name: order_count
        agg: count
      - name: revenue
        agg: sum
        expr: amount

metrics:
  - name: total_revenue
    type: simple
    type_params:
      measure: revenue
    meta:
      primary_entity: order
  - name: revenue_per_order
    type: ratio
    type_params:
      numerator:
        name: revenue
      denominator: order_count
`

func TestParseFile_SemanticModels(t *testing.T) {
	models, metrics, err := parseFile("models/orders.yml", []byte(ordersYAML))
	require.NoError(t, err)
	require.Len(t, models, 1)
	require.Len(t, metrics, 2)

	m := models[0]
	assert.Equal(t, "orders", m.Name)
	assert.Equal(t, "orders", m.Table)
	assert.Equal(t, "models/orders.yml", m.FilePath)

	require.Len(t, m.Entities, 2)
	assert.Equal(t, core.EntityPrimary, m.Entities[0].Kind)
	assert.Equal(t, core.EntityForeign, m.Entities[1].Kind)

	require.Len(t, m.Dimensions, 2)
	assert.Equal(t, core.DimTime, m.Dimensions[1].Type)

	require.Len(t, m.Measures, 2)
	assert.Equal(t, core.AggSum, m.Measures[1].Agg)
	assert.Equal(t, "amount", m.Measures[1].Expr)
}

func TestParseFile_Metrics(t *testing.T) {
	_, metrics, err := parseFile("models/orders.yml", []byte(ordersYAML))
	require.NoError(t, err)
	require.Len(t, metrics, 2)

	simple := metrics[0]
	assert.Equal(t, core.MetricSimple, simple.Type)
	require.NotNil(t, simple.TypeParams.Measure)
	assert.Equal(t, "revenue", simple.TypeParams.Measure.Name)
	assert.Equal(t, "order", simple.PrimaryEntity)

	ratio := metrics[1]
	assert.Equal(t, core.MetricRatio, ratio.Type)
	require.NotNil(t, ratio.TypeParams.Numerator)
	require.NotNil(t, ratio.TypeParams.Denominator)
	// Both the mapping and the bare-string spellings decode to refs.
	assert.Equal(t, "revenue", ratio.TypeParams.Numerator.Name)
	assert.Equal(t, "order_count", ratio.TypeParams.Denominator.Name)
	assert.Empty(t, ratio.PrimaryEntity)
}

func TestParseFile_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{
			name: "unknown entity type",
			yaml: `
semantic_models:
  - name: users
    entities:
      - name: user
        type: sideways
`,
			wantErr: "unknown type",
		},
		{
			name: "two primary entities",
			yaml: `
semantic_models:
  - name: users
    entities:
      - name: user
        type: primary
      - name: account
        type: primary
`,
			wantErr: "more than one primary entity",
		},
		{
			name: "unknown aggregation",
			yaml: `
semantic_models:
  - name: users
    measures:
      - name: user_count
        agg: tally
`,
			wantErr: "unknown agg",
		},
		{
			name: "simple metric without measure",
			yaml: `
metrics:
  - name: broken
    type: simple
`,
			wantErr: "requires type_params.measure",
		},
		{
			name: "ratio metric without denominator",
			yaml: `
metrics:
  - name: broken
    type: ratio
    type_params:
      numerator: revenue
`,
			wantErr: "requires type_params.denominator",
		},
		{
			name: "unknown metric type",
			yaml: `
metrics:
  - name: broken
    type: cumulative
`,
			wantErr: "unknown type",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := parseFile("bad.yml", []byte(tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestResolveTable(t *testing.T) {
	assert.Equal(t, "orders", resolveTable("ref('orders')", "x"))
	assert.Equal(t, "orders", resolveTable(`ref("orders")`, "x"))
	assert.Equal(t, "analytics.orders", resolveTable("analytics.orders", "x"))
	assert.Equal(t, "fallback", resolveTable("", "fallback"))
}
