package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// WishlistCategory is the category given to items created through the wishlist flow.
const WishlistCategory = "Wish List"

// Item is a single catalogued object, either owned (collection) or desired (wishlist).
type Item struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Category     string    `json:"category"`
	PurchaseDate time.Time `json:"purchaseDate"`
	Condition    Condition `json:"condition"`
	Notes        string    `json:"notes"`
	ImageData    []byte    `json:"imageData,omitempty"`
	IsInWishlist bool      `json:"isInWishlist"`
	Priority     Priority  `json:"priority"`
}

// UnmarshalJSON decodes an item, defaulting a missing priority to Medium.
func (i *Item) UnmarshalJSON(data []byte) error {
	type plain Item
	p := plain{Priority: PriorityMedium}
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*i = Item(p)
	return nil
}

// Normalize replaces an unknown condition with New and an unknown priority
// with Medium, so the item always decodes again after encoding.
func (i *Item) Normalize() {
	if !i.Condition.Valid() {
		i.Condition = ConditionNew
	}
	if !i.Priority.Valid() {
		i.Priority = PriorityMedium
	}
}

// Validate reports a missing or unknown condition. Decoding already rejects
// unknown labels, so this only catches items that omitted the field.
func (i Item) Validate() error {
	if !i.Condition.Valid() {
		return fmt.Errorf("item %q: unknown condition %q", i.ID, i.Condition)
	}
	if !i.Priority.Valid() {
		return fmt.Errorf("item %q: unknown priority %q", i.ID, i.Priority)
	}
	return nil
}

// Clone returns a copy of i that shares no memory with it.
func (i Item) Clone() Item {
	i.ImageData = bytes.Clone(i.ImageData)
	return i
}

// NewItem creates a collection item with a fresh ID.
func NewItem(name, category string, purchased time.Time, condition Condition, notes string, image []byte) Item {
	return Item{
		ID:           uuid.NewString(),
		Name:         name,
		Category:     category,
		PurchaseDate: purchased,
		Condition:    condition,
		Notes:        notes,
		ImageData:    image,
		Priority:     PriorityMedium,
	}
}

// NewWishlistItem creates a wishlist item. The purchase date is set to now and
// carries no meaning until the item is moved into the collection.
func NewWishlistItem(name, notes string, image []byte, priority Priority, now time.Time) Item {
	return Item{
		ID:           uuid.NewString(),
		Name:         name,
		Category:     WishlistCategory,
		PurchaseDate: now,
		Condition:    ConditionNew,
		Notes:        notes,
		ImageData:    image,
		IsInWishlist: true,
		Priority:     priority,
	}
}

// Condition is the physical state of an owned item.
type Condition string

// Item conditions.
const (
	ConditionNew  Condition = "New"
	ConditionUsed Condition = "Used"
	ConditionRare Condition = "Rare"
)

// Conditions lists every condition in display order.
var Conditions = []Condition{ConditionNew, ConditionUsed, ConditionRare}

// Valid reports whether c is one of the known conditions.
func (c Condition) Valid() bool {
	switch c {
	case ConditionNew, ConditionUsed, ConditionRare:
		return true
	}
	return false
}

// UnmarshalJSON accepts only the known condition labels.
func (c *Condition) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if !Condition(s).Valid() {
		return fmt.Errorf("unknown condition %q", s)
	}
	*c = Condition(s)
	return nil
}

// Priority ranks how much a wishlist item is wanted.
type Priority string

// Wishlist priorities.
const (
	PriorityLow    Priority = "Low"
	PriorityMedium Priority = "Medium"
	PriorityHigh   Priority = "High"
)

// Priorities lists every priority from lowest to highest.
var Priorities = []Priority{PriorityLow, PriorityMedium, PriorityHigh}

// Valid reports whether p is one of the known priorities.
func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// Rank orders priorities for the wishlist: High sorts first.
func (p Priority) Rank() int {
	switch p {
	case PriorityHigh:
		return 0
	case PriorityMedium:
		return 1
	default:
		return 2
	}
}

// UnmarshalJSON accepts only the known priority labels.
func (p *Priority) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if !Priority(s).Valid() {
		return fmt.Errorf("unknown priority %q", s)
	}
	*p = Priority(s)
	return nil
}
