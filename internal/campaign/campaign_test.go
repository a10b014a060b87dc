package campaign

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/toko-checkout/internal/catalog"
	"github.com/noah-isme/toko-checkout/internal/common"
	"github.com/noah-isme/toko-checkout/internal/pricing"
)

var (
	shoes  = Campaign{Category: "Shoes", Discount: pricing.AmountOf(pricing.MustParse("30")), MinQuantity: 2}
	food   = Campaign{Category: "Food", Discount: pricing.RateOf(pricing.MustParse("50")), MinQuantity: 5}
	fruit  = Campaign{Category: "Fruit", Discount: pricing.RateOf(pricing.MustParse("40")), MinQuantity: 4}
	apples = Campaign{Category: "Apple", Discount: pricing.AmountOf(pricing.MustParse("30")), MinQuantity: 3}
)

func fixtures() ([]Campaign, *catalog.Hierarchy) {
	campaigns := []Campaign{shoes, food, fruit, apples}
	categories := catalog.NewHierarchy([]catalog.Category{
		{Name: "Shoes"},
		{Name: "Food"},
		{Name: "Fruit", Parent: "Food"},
		{Name: "Apple", Parent: "Fruit"},
		{Name: "MobilePhone"},
	})
	return campaigns, categories
}

func TestFindApplicableRequiresArguments(t *testing.T) {
	campaigns, categories := fixtures()

	_, err := FindApplicable("", 5, campaigns, categories)
	name, ok := common.MissingArgument(err)
	require.True(t, ok)
	require.Equal(t, "category", name)

	_, err = FindApplicable("Food", 0, campaigns, categories)
	name, ok = common.MissingArgument(err)
	require.True(t, ok)
	require.Equal(t, "quantity", name)
}

func TestFindApplicableInheritsAncestors(t *testing.T) {
	campaigns, categories := fixtures()

	got, err := FindApplicable("Apple", 5, campaigns, categories)
	require.NoError(t, err)
	require.Equal(t, []Campaign{apples, fruit, food}, got)

	got, err = FindApplicable("Fruit", 5, campaigns, categories)
	require.NoError(t, err)
	require.Equal(t, []Campaign{fruit, food}, got)

	got, err = FindApplicable("Food", 5, campaigns, categories)
	require.NoError(t, err)
	require.Equal(t, []Campaign{food}, got)
}

func TestFindApplicableUsesSameQuantityForAncestors(t *testing.T) {
	campaigns, categories := fixtures()

	got, err := FindApplicable("Apple", 4, campaigns, categories)
	require.NoError(t, err)
	require.Equal(t, []Campaign{apples, fruit}, got)

	got, err = FindApplicable("Apple", 2, campaigns, categories)
	require.NoError(t, err)
	require.Empty(t, got)
}

func TestFindApplicableUnknownOrUncovered(t *testing.T) {
	campaigns, categories := fixtures()

	got, err := FindApplicable("MobilePhone", 4, campaigns, categories)
	require.NoError(t, err)
	require.Empty(t, got)

	got, err = FindApplicable("Computer", 10, campaigns, categories)
	require.NoError(t, err)
	require.Empty(t, got)
}

func TestFindApplicableCyclicHierarchy(t *testing.T) {
	categories := catalog.NewHierarchy([]catalog.Category{{Name: "A", Parent: "B"}, {Name: "B", Parent: "A"}})
	_, err := FindApplicable("A", 1, []Campaign{{Category: "A"}}, categories)
	require.ErrorIs(t, err, catalog.ErrCyclicCategoryHierarchy)
}

func TestFindApplicableDoesNotMutateInput(t *testing.T) {
	campaigns, categories := fixtures()
	before := append([]Campaign(nil), campaigns...)
	_, err := FindApplicable("Apple", 5, campaigns, categories)
	require.NoError(t, err)
	require.Equal(t, before, campaigns)
}

func TestMaxDiscountRequiresAmount(t *testing.T) {
	_, err := MaxDiscount([]Campaign{food}, pricing.None())
	name, ok := common.MissingArgument(err)
	require.True(t, ok)
	require.Equal(t, "categoryAmount", name)
}

func TestMaxDiscount(t *testing.T) {
	cases := []struct {
		name      string
		campaigns []Campaign
		amount    string
		want      string
	}{
		{
			name: "rate beats smaller rate and amount",
			campaigns: []Campaign{
				{Category: "Food", Discount: pricing.RateOf(pricing.MustParse("50")), MinQuantity: 5},
				{Category: "Food", Discount: pricing.RateOf(pricing.MustParse("20")), MinQuantity: 3},
				{Category: "Food", Discount: pricing.AmountOf(pricing.MustParse("5")), MinQuantity: 5},
			},
			amount: "200",
			want:   "100",
		},
		{
			name: "rate wins on large subtotal",
			campaigns: []Campaign{
				{Category: "Food", Discount: pricing.RateOf(pricing.MustParse("20")), MinQuantity: 3},
				{Category: "Food", Discount: pricing.AmountOf(pricing.MustParse("5")), MinQuantity: 5},
			},
			amount: "200",
			want:   "40",
		},
		{
			name: "amount wins on small subtotal",
			campaigns: []Campaign{
				{Category: "Food", Discount: pricing.RateOf(pricing.MustParse("20")), MinQuantity: 3},
				{Category: "Food", Discount: pricing.AmountOf(pricing.MustParse("5")), MinQuantity: 5},
			},
			amount: "9",
			want:   "5",
		},
		{
			name:      "single campaign",
			campaigns: []Campaign{fruit},
			amount:    "100",
			want:      "40",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := MaxDiscount(tc.campaigns, pricing.Some(pricing.MustParse(tc.amount)))
			require.NoError(t, err)
			require.True(t, got.Valid)
			require.Truef(t, got.Decimal.Equal(pricing.MustParse(tc.want)), "got %s", got.Decimal)
		})
	}
}

func TestMaxDiscountEmptyIsAbsent(t *testing.T) {
	got, err := MaxDiscount(nil, pricing.Some(pricing.MustParse("100")))
	require.NoError(t, err)
	require.False(t, got.Valid)
}

func TestBestReportsWinner(t *testing.T) {
	winner, discount, err := Best([]Campaign{fruit, food}, pricing.Some(pricing.MustParse("200")))
	require.NoError(t, err)
	require.Equal(t, food, winner)
	require.True(t, discount.Decimal.Equal(pricing.MustParse("100")))
}

func TestMaxDiscountUnsupportedKind(t *testing.T) {
	_, err := MaxDiscount([]Campaign{{Category: "Food", Discount: pricing.Discount{Kind: 9}}}, pricing.Some(pricing.MustParse("1")))
	require.ErrorIs(t, err, pricing.ErrUnsupportedDiscountKind)
}
