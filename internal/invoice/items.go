// Package invoice holds the line-item rules shared by every invoice
// mutation: bulk merge, single-item patch and delete, and derivation of the
// aggregate payment status.
package invoice

import (
	"errors"

	"github.com/google/uuid"

	"go-invoice-api/internal/models"
)

var ErrItemNotFound = errors.New("item not found in invoice")

// IDFunc mints ids for items that arrive without one.
type IDFunc func() string

// NewItemID is the default IDFunc.
func NewItemID() string { return uuid.NewString() }

// DeriveStatus returns paid only when there is at least one item and every
// item is paid.
func DeriveStatus(items models.Items) models.Status {
	if len(items) == 0 {
		return models.StatusPending
	}
	for _, it := range items {
		if it.Status() != models.StatusPaid {
			return models.StatusPending
		}
	}
	return models.StatusPaid
}

// MergeItems applies upserts to a copy of existing, then drops every item
// whose id is listed in deleteIDs. An upsert whose id matches an element is
// shallow-merged into it in place; otherwise it is appended. Deletion runs
// after the merge, so an id that is both upserted and deleted ends up gone.
func MergeItems(existing, upserts models.Items, deleteIDs []string, newID IDFunc) models.Items {
	if newID == nil {
		newID = NewItemID
	}
	merged := existing.Clone()

	for _, u := range upserts {
		if u == nil {
			continue
		}
		id := u.ID()
		if id == "" {
			added := u.Clone()
			added["id"] = newID()
			merged = append(merged, added)
			continue
		}
		if idx := indexOf(merged, id); idx >= 0 {
			for k, v := range u {
				merged[idx][k] = v
			}
			continue
		}
		merged = append(merged, u.Clone())
	}

	if len(deleteIDs) == 0 {
		return merged
	}
	drop := make(map[string]struct{}, len(deleteIDs))
	for _, id := range deleteIDs {
		drop[id] = struct{}{}
	}
	kept := merged[:0]
	for _, it := range merged {
		if _, ok := drop[it.ID()]; ok {
			continue
		}
		kept = append(kept, it)
	}
	return kept
}

// AssignMissingIDs returns a copy of items in which every element has an id.
func AssignMissingIDs(items models.Items, newID IDFunc) models.Items {
	if newID == nil {
		newID = NewItemID
	}
	out := items.Clone()
	for _, it := range out {
		if it.ID() == "" {
			it["id"] = newID()
		}
	}
	return out
}

// ItemPatch carries the fields a single-item update may change. Nil fields
// are left as they are.
type ItemPatch struct {
	Currency    *string        `json:"currency"`
	Description *string        `json:"description"`
	Quantity    *float64       `json:"quantity" binding:"omitempty,gte=0"`
	Status      *models.Status `json:"status" binding:"omitempty,oneof=pending paid"`
	Price       *float64       `json:"price" binding:"omitempty,gte=0"`
}

// PatchItem applies patch to the item with the given id and returns the new
// collection along with the updated item.
func PatchItem(items models.Items, itemID string, patch ItemPatch) (models.Items, models.Item, error) {
	idx := indexOf(items, itemID)
	if idx < 0 {
		return nil, nil, ErrItemNotFound
	}
	out := items.Clone()
	it := out[idx]
	if patch.Price != nil {
		it["price"] = *patch.Price
	}
	if patch.Currency != nil {
		it["currency"] = *patch.Currency
	}
	if patch.Description != nil {
		it["description"] = *patch.Description
	}
	if patch.Quantity != nil {
		it["quantity"] = *patch.Quantity
	}
	if patch.Status != nil {
		it["status"] = string(*patch.Status)
	}
	return out, it, nil
}

// RemoveItem drops exactly the item with the given id.
func RemoveItem(items models.Items, itemID string) (models.Items, error) {
	idx := indexOf(items, itemID)
	if idx < 0 {
		return nil, ErrItemNotFound
	}
	out := make(models.Items, 0, len(items)-1)
	out = append(out, items[:idx]...)
	out = append(out, items[idx+1:]...)
	return out.Clone(), nil
}

func indexOf(items models.Items, id string) int {
	if id == "" {
		return -1
	}
	for i, it := range items {
		if it.ID() == id {
			return i
		}
	}
	return -1
}
