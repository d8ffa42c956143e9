package lineitems

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Line type tags as they appear in stored order lines.
const (
	TypeItem = "item"
	TypeMeta = "meta"
)

// Item is a canonical sale line, fully typed and numerically coerced,
// ready for persistence on an invoice.
type Item struct {
	Type      string  `json:"type"`
	ProductID *int64  `json:"product_id"`
	Name      string  `json:"name"`
	NameEn    string  `json:"name_en"`
	Qty       float64 `json:"qty"`
	Price     float64 `json:"price"`
	Discount  float64 `json:"discount"`
}

// Total returns the line total (qty * price - discount).
func (i Item) Total() float64 {
	return i.Qty*i.Price - i.Discount
}

// ItemList is a jsonb-persisted collection of canonical items.
type ItemList []Item

// Value implements driver.Valuer so GORM can store the list as jsonb.
func (l ItemList) Value() (driver.Value, error) {
	if l == nil {
		l = ItemList{}
	}
	return json.Marshal(l)
}

// Scan implements sql.Scanner.
func (l *ItemList) Scan(value any) error {
	if value == nil {
		*l = nil
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, l)
	case string:
		return json.Unmarshal([]byte(v), l)
	default:
		return fmt.Errorf("unsupported type %T for ItemList", value)
	}
}

// GormDataType tells GORM which column type to use.
func (ItemList) GormDataType() string {
	return "jsonb"
}

// Normalize takes an arbitrary line-like input (a slice, a JSON-encoded
// string, or a string encoding another encoded string) and returns the
// canonical item lines it contains. Non-item rows (meta, tax and discount
// markers) are dropped, as is any row without a positive quantity or
// without at least a product reference or a name. Re-normalizing an
// already-canonical list yields the same list.
func Normalize(input any) []Item {
	elems := Elements(input)
	items := make([]Item, 0, len(elems))
	for _, el := range elems {
		if t, present := el["type"]; present && toString(t) != TypeItem {
			continue
		}
		qty, ok := numberField(el, "qty", "quantity")
		if !ok || qty <= 0 {
			continue
		}
		item := Item{
			Type:      TypeItem,
			ProductID: toProductID(el["product_id"]),
			Name:      toString(el["name"]),
			NameEn:    toString(el["name_en"]),
			Qty:       qty,
			Discount:  toNumber(el["discount"]),
		}
		if price, ok := numberField(el, "price", "amount"); ok {
			item.Price = price
		}
		if item.ProductID == nil && strings.TrimSpace(item.Name) == "" {
			continue
		}
		items = append(items, item)
	}
	return items
}

// Meta returns the first meta-tagged row of the input, or false when the
// input carries none.
func Meta(input any) (map[string]any, bool) {
	for _, el := range Elements(input) {
		if toString(el["type"]) == TypeMeta {
			return el, true
		}
	}
	return nil, false
}

// Elements resolves the input to a flat slice of decoded line objects.
// A string input is decoded at most twice (clients have been observed to
// double-encode the payload); string elements inside a decoded slice get
// the same two-attempt treatment. Anything that does not resolve to an
// object is dropped.
func Elements(input any) []map[string]any {
	raw, ok := toSlice(input)
	if !ok {
		return nil
	}
	elems := make([]map[string]any, 0, len(raw))
	for _, el := range raw {
		if m, ok := toObject(el); ok {
			elems = append(elems, m)
		}
	}
	return elems
}

func toSlice(input any) ([]any, bool) {
	switch v := input.(type) {
	case nil:
		return nil, false
	case []any:
		return v, true
	case []map[string]any:
		out := make([]any, len(v))
		for i := range v {
			out[i] = v[i]
		}
		return out, true
	case string:
		decoded, err := decodeTwice(v)
		if err != nil {
			return nil, false
		}
		if s, ok := decoded.([]any); ok {
			return s, true
		}
		return nil, false
	case json.RawMessage:
		return toSlice(string(v))
	default:
		// Typed slices (e.g. ItemList, []Item) go through one JSON
		// round trip into the generic shape.
		b, err := json.Marshal(input)
		if err != nil {
			return nil, false
		}
		var s []any
		if err := json.Unmarshal(b, &s); err != nil {
			return nil, false
		}
		return s, true
	}
}

// decodeTwice decodes a JSON string, and once more if the first decode
// yields another string. Two failed attempts mean the value is unusable.
func decodeTwice(s string) (any, error) {
	var first any
	if err := json.Unmarshal([]byte(s), &first); err != nil {
		return nil, err
	}
	inner, ok := first.(string)
	if !ok {
		return first, nil
	}
	var second any
	if err := json.Unmarshal([]byte(inner), &second); err != nil {
		return nil, err
	}
	if _, still := second.(string); still {
		return nil, errors.New("line payload nested more than twice")
	}
	return second, nil
}

func toObject(el any) (map[string]any, bool) {
	switch v := el.(type) {
	case map[string]any:
		return v, true
	case string:
		decoded, err := decodeTwice(v)
		if err != nil {
			return nil, false
		}
		m, ok := decoded.(map[string]any)
		return m, ok
	default:
		return nil, false
	}
}

// Number coerces an arbitrary value to a number; non-numeric input
// becomes 0. Exposed for callers reading fields out of meta rows.
func Number(v any) float64 {
	return toNumber(v)
}

// Text coerces an arbitrary value to a string.
func Text(v any) string {
	return toString(v)
}

// numberField returns the first of the named keys that is present,
// coerced to a number. The bool reports key presence, not coercibility;
// a present but non-numeric value coerces to 0.
func numberField(m map[string]any, keys ...string) (float64, bool) {
	for _, k := range keys {
		if v, present := m[k]; present {
			return toNumber(v), true
		}
	}
	return 0, false
}

func toNumber(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case float32:
		return float64(n)
	case int:
		return float64(n)
	case int64:
		return float64(n)
	case json.Number:
		f, err := n.Float64()
		if err != nil {
			return 0
		}
		return f
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0
		}
		return f
	default:
		return 0
	}
}

// toProductID coerces a product reference to a positive integer id,
// or nil when absent or malformed.
func toProductID(v any) *int64 {
	if v == nil {
		return nil
	}
	n := toNumber(v)
	if n <= 0 || n != float64(int64(n)) {
		return nil
	}
	id := int64(n)
	return &id
}

func toString(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case nil:
		return ""
	default:
		return fmt.Sprintf("%v", s)
	}
}
