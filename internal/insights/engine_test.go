package insights

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blackwell-systems/shopwatch/internal/features"
	"github.com/blackwell-systems/shopwatch/internal/schema"
)

func engineFixture() (*features.SessionTable, *features.UserTable, *features.BrandTable, *features.CategoryTable) {
	sessions := sessionTable(
		features.SessionRow{
			Session: "s1", UserID: "u1", Brand: "acme",
			ViewCount: 4, CartCount: 2, PurchaseCount: 1,
			UniqueBrands: 2, UniqueCategories: 1,
			StartedAt:     time.Date(2019, time.October, 5, 9, 0, 0, 0, time.UTC),
			TotalSpending: 120, Duration: 900, ViewToPurchaseRate: 0.25, IsWeekend: true,
		},
		features.SessionRow{
			Session: "s2", UserID: "u2", Brand: "bolt",
			ViewCount: 6, CartCount: 1,
			UniqueBrands: 1, UniqueCategories: 2,
			StartedAt: time.Date(2019, time.October, 7, 20, 0, 0, 0, time.UTC),
			Duration:  120, ViewToPurchaseRate: 0,
		},
		features.SessionRow{
			Session: "s3", UserID: "u1", Brand: "acme",
			ViewCount: 2, PurchaseCount: 1,
			UniqueBrands: 1, UniqueCategories: 1,
			StartedAt:     time.Date(2019, time.November, 2, 14, 0, 0, 0, time.UTC),
			TotalSpending: 60, Duration: 300, ViewToPurchaseRate: 0.5, IsWeekend: true,
		},
	)
	users := userTable(
		features.UserRow{UserID: "u1", TotalSessions: 2, TotalSpending: 180, ViewToPurchaseRate: 0.33, PurchasePerSession: 1},
		features.UserRow{UserID: "u2", TotalSessions: 1, TotalSpending: 0, ViewToPurchaseRate: 0},
	)
	brands := brandTable(
		features.BrandRow{Brand: "acme", ViewUnique: 5, PurchaseUnique: 2, ViewToPurchaseRate: 0.4, PurchaseSpending: 180},
		features.BrandRow{Brand: "bolt", ViewUnique: 6, ViewToPurchaseRate: 0},
	)
	categories := categoryTable(
		features.CategoryRow{CategoryCode: "electronics.phone", ViewUnique: 8, PurchaseUnique: 2, ViewToPurchaseRate: 0.25, PurchaseSpending: 180},
	)
	return sessions, users, brands, categories
}

func TestGenerate_FullSummary(t *testing.T) {
	sessions, users, brands, categories := engineFixture()

	s, err := Generate(sessions, users, brands, categories, nil, DefaultConfig())
	require.NoError(t, err)
	require.NotNil(t, s)

	assert.Equal(t, 3, s.Funnel.TotalSessions)
	assert.Equal(t, 2, s.Funnel.SessionsWithPurchases)
	assert.Equal(t, Float(180), s.Revenue.TotalRevenue)
	assert.Equal(t, 1, s.Revenue.CartAbandonmentSessions)
	assert.Len(t, s.ProductPerformance.TopBrands, 2)
	assert.NotNil(t, s.Insights)
}

func TestGenerate_Deterministic(t *testing.T) {
	sessions, users, brands, categories := engineFixture()
	cfg := DefaultConfig()

	first, err := Generate(sessions, users, brands, categories, nil, cfg)
	require.NoError(t, err)
	second, err := Generate(sessions, users, brands, categories, nil, cfg)
	require.NoError(t, err)

	// Compare through the serialized form: NaN marshals to null, so two
	// runs agree byte for byte even where a mean was undefined.
	a, err := json.Marshal(first)
	require.NoError(t, err)
	b, err := json.Marshal(second)
	require.NoError(t, err)
	assert.Equal(t, string(a), string(b))
}

func TestGenerate_ZeroPurchaseDataset(t *testing.T) {
	sessions := sessionTable(
		features.SessionRow{Session: "s1", UserID: "u1", ViewCount: 5, Duration: 60},
		features.SessionRow{Session: "s2", UserID: "u2", ViewCount: 2, CartCount: 1, Duration: 120},
	)
	users := userTable(
		features.UserRow{UserID: "u1", TotalSessions: 1},
		features.UserRow{UserID: "u2", TotalSessions: 1},
	)

	s, err := Generate(sessions, users, brandTable(), categoryTable(), nil, DefaultConfig())
	require.NoError(t, err)

	assert.Equal(t, Float(0), s.Funnel.ViewToPurchase)
	assert.Equal(t, Float(0), s.Revenue.TotalRevenue)

	joined := strings.Join(s.Insights, "\n")
	assert.Contains(t, joined, "Total revenue is zero")
}

func TestGenerate_SchemaErrorAborts(t *testing.T) {
	sessions, users, brands, _ := engineFixture()
	categories := &features.CategoryTable{Columns: []string{"category_code"}}

	s, err := Generate(sessions, users, brands, categories, nil, DefaultConfig())
	require.Error(t, err)
	assert.Nil(t, s)

	var schemaErr *schema.Error
	require.ErrorAs(t, err, &schemaErr)
	assert.Equal(t, "category_features", schemaErr.Table)
}

func TestGenerate_BaselineInsightsIncluded(t *testing.T) {
	sessions, users, brands, categories := engineFixture()

	baseline := baselineWithFunnel(map[string]any{"view_to_cart": 0.95})
	s, err := Generate(sessions, users, brands, categories, baseline, DefaultConfig())
	require.NoError(t, err)

	joined := strings.Join(s.Insights, "\n")
	assert.Contains(t, joined, "view_to_cart dropped")
}

func TestSummary_JSONShape(t *testing.T) {
	sessions, users, brands, categories := engineFixture()

	s, err := Generate(sessions, users, brands, categories, nil, DefaultConfig())
	require.NoError(t, err)

	data, err := json.Marshal(s)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	for _, key := range []string{"funnel", "segmentation", "temporal", "product_performance", "revenue", "advanced", "insights"} {
		assert.Contains(t, decoded, key)
	}
}
