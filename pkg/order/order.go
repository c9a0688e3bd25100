// Package order tracks a customer's in-progress coffee order and persists
// finalized orders as JSON files.
package order

import (
	"strings"
	"sync"
)

// Order is the state of a single customer's order. All fields start empty
// and are filled in as the conversation progresses.
type Order struct {
	DrinkType string   `json:"drinkType"`
	Size      string   `json:"size"`
	Milk      string   `json:"milk"`
	Extras    []string `json:"extras"`
	Name      string   `json:"name"`
}

// Fields that must be set before an order can be finalized.
// Extras are optional.
var requiredFields = []string{"drinkType", "size", "milk", "name"}

// Update carries a partial change to an order. Nil fields leave the
// corresponding slot untouched; a non-nil field overwrites it, so providing
// an empty string clears the slot and makes the field missing again. A
// non-nil Extras slice replaces the list entirely.
type Update struct {
	DrinkType *string
	Size      *string
	Milk      *string
	Extras    []string
	Name      *string
}

// Tracker holds one customer's order and applies partial updates.
// It is safe for concurrent use; providers may run tool calls in parallel.
type Tracker struct {
	mu    sync.Mutex
	order Order
}

// NewTracker returns a Tracker with an empty order.
func NewTracker() *Tracker {
	return &Tracker{order: Order{Extras: []string{}}}
}

// Apply merges the update into the order and returns the new snapshot
// along with the fields still missing. Only provided fields are changed.
func (t *Tracker) Apply(u Update) (Order, []string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if u.DrinkType != nil {
		t.order.DrinkType = strings.TrimSpace(*u.DrinkType)
	}
	if u.Size != nil {
		t.order.Size = strings.TrimSpace(*u.Size)
	}
	if u.Milk != nil {
		t.order.Milk = strings.TrimSpace(*u.Milk)
	}
	if u.Name != nil {
		t.order.Name = strings.TrimSpace(*u.Name)
	}
	if u.Extras != nil {
		extras := make([]string, 0, len(u.Extras))
		for _, e := range u.Extras {
			if e = strings.TrimSpace(e); e != "" {
				extras = append(extras, e)
			}
		}
		t.order.Extras = extras
	}

	return t.snapshot(), missing(t.order, false)
}

// Current returns a snapshot of the order.
func (t *Tracker) Current() Order {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.snapshot()
}

// MissingRequired returns the required fields that are still empty.
func (t *Tracker) MissingRequired() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return missing(t.order, true)
}

// Reset clears the order for a new customer.
func (t *Tracker) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.order = Order{Extras: []string{}}
}

// snapshot copies the order so callers never share the extras slice.
// Must be called with the mutex held.
func (t *Tracker) snapshot() Order {
	o := t.order
	o.Extras = append([]string{}, t.order.Extras...)
	return o
}

func missing(o Order, requiredOnly bool) []string {
	out := []string{}
	if o.DrinkType == "" {
		out = append(out, "drinkType")
	}
	if o.Size == "" {
		out = append(out, "size")
	}
	if o.Milk == "" {
		out = append(out, "milk")
	}
	if !requiredOnly && len(o.Extras) == 0 {
		out = append(out, "extras")
	}
	if o.Name == "" {
		out = append(out, "name")
	}
	return out
}

// Summary returns a one-line human-readable description of the order,
// e.g. "Order for Ana: large latte with oat milk, extras: vanilla syrup".
func (o Order) Summary() string {
	var b strings.Builder
	b.WriteString("Order for ")
	b.WriteString(o.Name)
	b.WriteString(": ")
	b.WriteString(o.Size)
	b.WriteString(" ")
	b.WriteString(o.DrinkType)
	b.WriteString(" with ")
	b.WriteString(o.Milk)
	b.WriteString(" milk")
	if len(o.Extras) > 0 {
		b.WriteString(", extras: ")
		b.WriteString(strings.Join(o.Extras, ", "))
	}
	return b.String()
}
