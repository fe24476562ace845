package cart

import (
	"testing"

	"github.com/A-Mayank/Order-FollowUp-System/internal/catalog"
)

func TestEmptyCartTotal(t *testing.T) {
	c := New()
	if c.Total() != 0 {
		t.Errorf("empty cart total = %d, want 0", c.Total())
	}
	if c.ProductNames() != "" {
		t.Errorf("empty cart names = %q, want empty", c.ProductNames())
	}
}

func TestAddRemoveTotal(t *testing.T) {
	rohu := catalog.Product{Name: "Rohu", PriceNum: 300}
	pomfret := catalog.Product{Name: "Pomfret", PriceNum: 450}
	hilsa := catalog.Product{Name: "Hilsa", PriceNum: 1250}

	c := New()
	c.Add(rohu)
	c.Add(pomfret)
	if c.Total() != 750 {
		t.Errorf("total = %d, want 750", c.Total())
	}
	if c.ProductNames() != "Rohu, Pomfret" {
		t.Errorf("names = %q, want %q", c.ProductNames(), "Rohu, Pomfret")
	}

	// duplicates are separate entries
	c.Add(rohu)
	c.Add(hilsa)
	if c.Len() != 4 {
		t.Fatalf("len = %d, want 4", c.Len())
	}
	if c.Total() != 300+450+300+1250 {
		t.Errorf("total = %d, want %d", c.Total(), 300+450+300+1250)
	}

	// removal shifts later entries down
	if err := c.Remove(1); err != nil {
		t.Fatalf("Remove(1) failed: %v", err)
	}
	if c.ProductNames() != "Rohu, Rohu, Hilsa" {
		t.Errorf("names after remove = %q", c.ProductNames())
	}
	if c.Total() != 300+300+1250 {
		t.Errorf("total after remove = %d", c.Total())
	}
}

func TestRemoveBadIndex(t *testing.T) {
	c := New()
	c.Add(catalog.Product{Name: "Rohu", PriceNum: 300})

	for _, i := range []int{-1, 1, 42} {
		if err := c.Remove(i); err != ErrBadIndex {
			t.Errorf("Remove(%d) = %v, want ErrBadIndex", i, err)
		}
	}
	if c.Len() != 1 {
		t.Errorf("cart modified by failed removals, len = %d", c.Len())
	}
}

func TestClear(t *testing.T) {
	c := New()
	c.Add(catalog.Product{Name: "Rohu", PriceNum: 300})
	c.Add(catalog.Product{Name: "Katla", PriceNum: 350})
	c.Clear()
	if c.Len() != 0 || c.Total() != 0 {
		t.Errorf("cart not empty after Clear: len=%d total=%d", c.Len(), c.Total())
	}
}

func TestItemsIsACopy(t *testing.T) {
	c := New()
	c.Add(catalog.Product{Name: "Rohu", PriceNum: 300})
	items := c.Items()
	items[0].PriceNum = 9999
	if c.Total() != 300 {
		t.Errorf("mutating Items() copy changed the cart, total = %d", c.Total())
	}
}
