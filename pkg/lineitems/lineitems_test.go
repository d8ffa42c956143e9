package lineitems

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr(v int64) *int64 { return &v }

func TestNormalizeFiltersByQuantityAndIdentity(t *testing.T) {
	input := []map[string]any{
		{"type": "meta", "branch": "downtown", "table": "t4", "discount_pct": 5},
		{"type": "item", "product_id": 1, "name": "Shawarma", "qty": 0, "price": 4.5},
		{"type": "item", "product_id": 2, "name": "Falafel", "qty": -1, "price": 2},
		{"type": "item", "product_id": 3, "name": "Hummus", "qty": "abc", "price": 3},
		{"type": "item", "product_id": 4, "name": "Kebab", "qty": 3, "price": 7.5},
		{"type": "item", "qty": 2, "price": 1}, // no product, no name
	}

	items := Normalize(input)

	require.Len(t, items, 1)
	assert.Equal(t, "Kebab", items[0].Name)
	assert.Equal(t, ptr(4), items[0].ProductID)
	assert.Equal(t, 3.0, items[0].Qty)
	assert.Equal(t, 7.5, items[0].Price)
}

func TestNormalizeDropsNonItemRows(t *testing.T) {
	input := []map[string]any{
		{"type": "tax", "qty": 1, "name": "VAT"},
		{"type": "discount", "qty": 1, "name": "promo"},
		{"type": "item", "name": "Tea", "qty": 1, "price": 1.5},
	}

	items := Normalize(input)

	require.Len(t, items, 1)
	assert.Equal(t, "Tea", items[0].Name)
}

func TestNormalizeKeepsUntaggedRows(t *testing.T) {
	input := []map[string]any{
		{"name": "Water", "quantity": 2, "price": 0.5},
	}

	items := Normalize(input)

	require.Len(t, items, 1)
	assert.Equal(t, TypeItem, items[0].Type)
	assert.Equal(t, 2.0, items[0].Qty)
}

func TestNormalizeDecodesEncodedString(t *testing.T) {
	payload := `[{"type":"item","product_id":9,"name":"Kofta","qty":1,"price":6}]`

	items := Normalize(payload)

	require.Len(t, items, 1)
	assert.Equal(t, ptr(9), items[0].ProductID)
}

func TestNormalizeDecodesDoublyEncodedString(t *testing.T) {
	inner := `[{"type":"item","product_id":9,"name":"Kofta","qty":1,"price":6}]`
	outer, err := json.Marshal(inner)
	require.NoError(t, err)

	items := Normalize(string(outer))

	require.Len(t, items, 1)
	assert.Equal(t, "Kofta", items[0].Name)
}

func TestNormalizeDropsUndecodableElements(t *testing.T) {
	input := []any{
		"not json at all",
		map[string]any{"type": "item", "name": "Tea", "qty": 1, "price": 1.5},
	}

	items := Normalize(input)

	require.Len(t, items, 1)
	assert.Equal(t, "Tea", items[0].Name)
}

func TestNormalizeCoercesNumericStrings(t *testing.T) {
	input := []map[string]any{
		{"type": "item", "product_id": "12", "name": "Lamb", "qty": "2", "price": "10.5", "discount": "1"},
	}

	items := Normalize(input)

	require.Len(t, items, 1)
	assert.Equal(t, ptr(12), items[0].ProductID)
	assert.Equal(t, 2.0, items[0].Qty)
	assert.Equal(t, 10.5, items[0].Price)
	assert.Equal(t, 1.0, items[0].Discount)
}

func TestNormalizeMalformedProductIDBecomesNil(t *testing.T) {
	input := []map[string]any{
		{"type": "item", "product_id": "oops", "name": "Soup", "qty": 1, "price": 3},
	}

	items := Normalize(input)

	require.Len(t, items, 1)
	assert.Nil(t, items[0].ProductID)
}

func TestNormalizeIsIdempotent(t *testing.T) {
	canonical := []Item{
		{Type: TypeItem, ProductID: ptr(7), Name: "X", NameEn: "", Qty: 2, Price: 10, Discount: 0},
	}

	once := Normalize(canonical)
	twice := Normalize(once)

	assert.Equal(t, canonical, once)
	assert.Equal(t, once, twice)
}

func TestNormalizePreservesOrdering(t *testing.T) {
	input := []map[string]any{
		{"type": "item", "name": "A", "qty": 1, "price": 1},
		{"type": "item", "name": "B", "qty": 1, "price": 1},
		{"type": "item", "name": "C", "qty": 1, "price": 1},
	}

	items := Normalize(input)

	require.Len(t, items, 3)
	assert.Equal(t, "A", items[0].Name)
	assert.Equal(t, "B", items[1].Name)
	assert.Equal(t, "C", items[2].Name)
}

func TestMetaFindsMetaRow(t *testing.T) {
	input := []map[string]any{
		{"type": "item", "name": "A", "qty": 1},
		{"type": "meta", "discount_pct": 10, "tax_pct": 15, "payment_method": "cash"},
	}

	meta, ok := Meta(input)

	require.True(t, ok)
	assert.Equal(t, "cash", meta["payment_method"])
}

func TestMetaAbsent(t *testing.T) {
	_, ok := Meta([]map[string]any{{"type": "item", "name": "A", "qty": 1}})
	assert.False(t, ok)
}

func TestItemTotal(t *testing.T) {
	item := Item{Qty: 3, Price: 4, Discount: 2}
	assert.Equal(t, 10.0, item.Total())
}

func TestItemListRoundTrip(t *testing.T) {
	list := ItemList{{Type: TypeItem, ProductID: ptr(1), Name: "A", Qty: 1, Price: 2}}

	val, err := list.Value()
	require.NoError(t, err)

	var decoded ItemList
	require.NoError(t, decoded.Scan(val))
	assert.Equal(t, list, decoded)
}

func TestItemListValueNilEncodesEmptyArray(t *testing.T) {
	var list ItemList
	val, err := list.Value()
	require.NoError(t, err)
	assert.JSONEq(t, "[]", string(val.([]byte)))
}
