package models

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// Item is one line of an invoice. It is kept as a loose JSON object so
// fields the API does not know about survive a merge untouched. The keys
// the server reads are id, description, quantity, price, currency and status.
type Item map[string]any

type Items []Item

// ID returns the item id in canonical string form ("" when absent), so the
// JSON number 1 and the path segment "1" compare equal.
func (it Item) ID() string {
	return ItemKey(it["id"])
}

func (it Item) Status() Status {
	s, _ := it["status"].(string)
	return Status(s)
}

// Clone returns a shallow copy of the item.
func (it Item) Clone() Item {
	out := make(Item, len(it))
	for k, v := range it {
		out[k] = v
	}
	return out
}

// Clone returns a copy of the collection whose elements can be mutated
// without touching the receiver.
func (items Items) Clone() Items {
	out := make(Items, len(items))
	for i, it := range items {
		out[i] = it.Clone()
	}
	return out
}

// ItemKey canonicalizes an item id value.
func ItemKey(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(t), 'f', -1, 32)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case uint:
		return strconv.FormatUint(uint64(t), 10)
	case uint64:
		return strconv.FormatUint(t, 10)
	case json.Number:
		return t.String()
	default:
		return fmt.Sprint(t)
	}
}
