package order

import (
	"encoding/json"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"
)

// strp builds the pointer arguments Update takes.
func strp(s string) *string { return &s }

func TestTracker_Apply(t *testing.T) {
	tr := NewTracker()

	o, missing := tr.Apply(Update{DrinkType: strp("latte"), Size: strp("large")})
	if o.DrinkType != "latte" || o.Size != "large" {
		t.Errorf("unexpected order after update: %+v", o)
	}
	want := []string{"milk", "extras", "name"}
	if !reflect.DeepEqual(missing, want) {
		t.Errorf("expected missing %v, got %v", want, missing)
	}

	o, missing = tr.Apply(Update{Milk: strp("oat"), Name: strp("Ana")})
	if o.Milk != "oat" || o.Name != "Ana" {
		t.Errorf("unexpected order after update: %+v", o)
	}
	if !reflect.DeepEqual(missing, []string{"extras"}) {
		t.Errorf("expected only extras missing, got %v", missing)
	}
}

func TestTracker_Apply_TrimsWhitespace(t *testing.T) {
	tr := NewTracker()

	o, _ := tr.Apply(Update{DrinkType: strp("  cappuccino  "), Name: strp(" Ana Torres ")})
	if o.DrinkType != "cappuccino" {
		t.Errorf("expected trimmed drink type, got %q", o.DrinkType)
	}
	if o.Name != "Ana Torres" {
		t.Errorf("expected trimmed name, got %q", o.Name)
	}
}

func TestTracker_Apply_NilLeavesField(t *testing.T) {
	tr := NewTracker()
	tr.Apply(Update{DrinkType: strp("mocha")})

	o, _ := tr.Apply(Update{Size: strp("small")})
	if o.DrinkType != "mocha" {
		t.Errorf("omitted field should not change, got %q", o.DrinkType)
	}
	if o.Size != "small" {
		t.Errorf("expected size small, got %q", o.Size)
	}
}

func TestTracker_Apply_EmptyStringClearsField(t *testing.T) {
	tr := NewTracker()
	tr.Apply(Update{Milk: strp("oat"), DrinkType: strp("latte")})

	// An explicitly provided empty value overwrites the slot
	o, missing := tr.Apply(Update{Milk: strp("")})
	if o.Milk != "" {
		t.Errorf("empty update should clear milk, got %q", o.Milk)
	}
	found := false
	for _, f := range missing {
		found = found || f == "milk"
	}
	if !found {
		t.Errorf("cleared field should be missing again, got %v", missing)
	}

	// Whitespace-only trims down to empty and clears too
	o, _ = tr.Apply(Update{DrinkType: strp("   ")})
	if o.DrinkType != "" {
		t.Errorf("whitespace update should clear drink type, got %q", o.DrinkType)
	}
}

func TestTracker_Apply_ExtrasReplacement(t *testing.T) {
	tr := NewTracker()

	o, _ := tr.Apply(Update{Extras: []string{" vanilla syrup ", "", "whip"}})
	if !reflect.DeepEqual(o.Extras, []string{"vanilla syrup", "whip"}) {
		t.Errorf("unexpected extras: %v", o.Extras)
	}

	// Full replacement, not a merge
	o, _ = tr.Apply(Update{Extras: []string{"caramel"}})
	if !reflect.DeepEqual(o.Extras, []string{"caramel"}) {
		t.Errorf("expected extras replaced, got %v", o.Extras)
	}

	// Nil leaves extras untouched
	o, _ = tr.Apply(Update{Size: strp("medium")})
	if !reflect.DeepEqual(o.Extras, []string{"caramel"}) {
		t.Errorf("nil extras should not change extras, got %v", o.Extras)
	}

	// Explicit empty list clears them
	o, _ = tr.Apply(Update{Extras: []string{}})
	if len(o.Extras) != 0 {
		t.Errorf("expected extras cleared, got %v", o.Extras)
	}
}

func TestTracker_MissingRequired(t *testing.T) {
	tr := NewTracker()

	if got := tr.MissingRequired(); !reflect.DeepEqual(got, []string{"drinkType", "size", "milk", "name"}) {
		t.Errorf("unexpected missing required: %v", got)
	}

	tr.Apply(Update{DrinkType: strp("flat white"), Size: strp("small"), Milk: strp("whole"), Name: strp("Sam")})

	// Extras are not required
	if got := tr.MissingRequired(); len(got) != 0 {
		t.Errorf("expected no missing required fields, got %v", got)
	}
}

func TestTracker_Reset(t *testing.T) {
	tr := NewTracker()
	tr.Apply(Update{DrinkType: strp("latte"), Name: strp("Ana")})
	tr.Reset()

	o := tr.Current()
	if o.DrinkType != "" || o.Name != "" {
		t.Errorf("expected empty order after reset, got %+v", o)
	}
}

func TestOrder_Summary(t *testing.T) {
	o := Order{
		DrinkType: "latte",
		Size:      "large",
		Milk:      "oat",
		Name:      "Ana",
	}

	got := o.Summary()
	want := "Order for Ana: large latte with oat milk"
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}

	o.Extras = []string{"vanilla syrup", "extra shot"}
	got = o.Summary()
	want = "Order for Ana: large latte with oat milk, extras: vanilla syrup, extra shot"
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func testDirStore(t *testing.T) *DirStore {
	t.Helper()
	dir, err := os.MkdirTemp("", "orders-*")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(dir) })

	s := NewDirStore(filepath.Join(dir, "orders"))
	s.now = func() time.Time {
		return time.Date(2026, 8, 30, 14, 15, 2, 0, time.UTC)
	}
	return s
}

func TestDirStore_SaveOrder(t *testing.T) {
	s := testDirStore(t)

	o := Order{
		DrinkType: "latte",
		Size:      "large",
		Milk:      "oat",
		Extras:    []string{"vanilla syrup"},
		Name:      "Ana Torres",
	}

	path, err := s.SaveOrder(o)
	if err != nil {
		t.Fatalf("SaveOrder failed: %v", err)
	}

	if filepath.Base(path) != "order_Ana_Torres_20260830T141502Z.json" {
		t.Errorf("unexpected filename: %s", filepath.Base(path))
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read saved order: %v", err)
	}

	var loaded Order
	if err := json.Unmarshal(data, &loaded); err != nil {
		t.Fatalf("saved order is not valid JSON: %v", err)
	}
	if !reflect.DeepEqual(loaded, o) {
		t.Errorf("loaded order %+v != saved %+v", loaded, o)
	}

	// Indented output
	if !strings.Contains(string(data), "\n  ") {
		t.Error("expected indented JSON output")
	}
}

func TestDirStore_SaveOrder_EmptyName(t *testing.T) {
	s := testDirStore(t)

	path, err := s.SaveOrder(Order{DrinkType: "mocha"})
	if err != nil {
		t.Fatalf("SaveOrder failed: %v", err)
	}
	if filepath.Base(path) != "order_customer_20260830T141502Z.json" {
		t.Errorf("unexpected filename for empty name: %s", filepath.Base(path))
	}
}

func TestSanitizeName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Ana Torres", "Ana_Torres"},
		{"  Ana   Torres  ", "Ana_Torres"},
		{"Ana", "Ana"},
		{"", "customer"},
		{"   ", "customer"},
	}

	for _, tt := range tests {
		if got := sanitizeName(tt.in); got != tt.want {
			t.Errorf("sanitizeName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
