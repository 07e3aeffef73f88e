package contentmodel

import "encoding/json"

// ItemConstructor creates one new collection item.
type ItemConstructor func() (any, error)

// Collection is the runtime value of a collection region: an ordered,
// growable sequence of region-shaped items. It starts empty.
type Collection struct {
	items  []any
	create ItemConstructor
}

// NewCollection creates an empty collection whose items are built by create.
func NewCollection(create ItemConstructor) *Collection {
	return &Collection{create: create}
}

// CreateItem builds a new item shaped like the region without adding it.
func (c *Collection) CreateItem() (any, error) {
	return c.create()
}

// AddNew builds a new item, appends it and returns it.
func (c *Collection) AddNew() (any, error) {
	item, err := c.create()
	if err != nil {
		return nil, err
	}
	c.items = append(c.items, item)
	return item, nil
}

// Add appends item.
func (c *Collection) Add(item any) {
	c.items = append(c.items, item)
}

// Remove deletes the item at index i and reports whether i was in range.
func (c *Collection) Remove(i int) bool {
	if i < 0 || i >= len(c.items) {
		return false
	}
	c.items = append(c.items[:i], c.items[i+1:]...)
	return true
}

// At returns the item at index i.
func (c *Collection) At(i int) any {
	return c.items[i]
}

// Items returns a copy of the items in order.
func (c *Collection) Items() []any {
	return append([]any(nil), c.items...)
}

// Len returns the number of items.
func (c *Collection) Len() int {
	return len(c.items)
}

// MarshalJSON encodes the collection as a JSON array; empty is [].
func (c *Collection) MarshalJSON() ([]byte, error) {
	if len(c.items) == 0 {
		return []byte("[]"), nil
	}
	return json.Marshal(c.items)
}
