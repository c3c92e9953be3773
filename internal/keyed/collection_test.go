package keyed

import (
	"testing"

	"github.com/pixil98/go-testutil"
)

type item struct {
	id    string
	value int
}

func newTestCollection() *Collection[*item] {
	return NewCollection(func(i *item) string { return i.id })
}

func TestCollection_Add(t *testing.T) {
	tests := map[string]struct {
		seed     []*item
		add      *item
		expOk    bool
		expLen   int
		expValue int // value stored under add.id after the call
	}{
		"add to empty": {
			add:      &item{id: "a", value: 1},
			expOk:    true,
			expLen:   1,
			expValue: 1,
		},
		"add second key": {
			seed:     []*item{{id: "a", value: 1}},
			add:      &item{id: "b", value: 2},
			expOk:    true,
			expLen:   2,
			expValue: 2,
		},
		"duplicate key is a no-op": {
			seed:     []*item{{id: "a", value: 1}},
			add:      &item{id: "a", value: 99},
			expOk:    false,
			expLen:   1,
			expValue: 1,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			c := newTestCollection()
			for _, s := range tt.seed {
				if !c.Add(s) {
					t.Fatalf("seeding %q failed", s.id)
				}
			}

			got := c.Add(tt.add)

			testutil.AssertEqual(t, "add result", got, tt.expOk)
			testutil.AssertEqual(t, "length", c.Len(), tt.expLen)

			stored, ok := c.Get(tt.add.id)
			if !ok {
				t.Fatalf("expected %q to be present", tt.add.id)
			}
			testutil.AssertEqual(t, "stored value", stored.value, tt.expValue)
		})
	}
}

func TestCollection_Remove(t *testing.T) {
	tests := map[string]struct {
		seed   []*item
		remove *item
		expOk  bool
		expLen int
	}{
		"remove existing": {
			seed:   []*item{{id: "a"}, {id: "b"}},
			remove: &item{id: "a"},
			expOk:  true,
			expLen: 1,
		},
		"remove absent": {
			seed:   []*item{{id: "a"}},
			remove: &item{id: "zzz"},
			expOk:  false,
			expLen: 1,
		},
		"remove from empty": {
			remove: &item{id: "a"},
			expOk:  false,
			expLen: 0,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			c := newTestCollection()
			for _, s := range tt.seed {
				c.Add(s)
			}

			got := c.Remove(tt.remove)

			testutil.AssertEqual(t, "remove result", got, tt.expOk)
			testutil.AssertEqual(t, "length", c.Len(), tt.expLen)

			if tt.expOk {
				if _, ok := c.Get(tt.remove.id); ok {
					t.Errorf("expected %q to be gone", tt.remove.id)
				}
			}
		})
	}
}

func TestCollection_Get(t *testing.T) {
	c := newTestCollection()
	c.Add(&item{id: "a", value: 42})

	got, ok := c.Get("a")
	if !ok {
		t.Fatal("expected key to be present")
	}
	testutil.AssertEqual(t, "value", got.value, 42)

	if _, ok := c.Get("missing"); ok {
		t.Error("expected absent key to report false")
	}
}

func TestCollection_ItemsPreservesInsertionOrder(t *testing.T) {
	c := newTestCollection()
	ids := []string{"c", "a", "b", "e", "d"}
	for _, id := range ids {
		c.Add(&item{id: id})
	}

	// Removing from the middle keeps the remaining order intact.
	c.Remove(&item{id: "b"})

	got := c.Items()
	exp := []string{"c", "a", "e", "d"}

	testutil.AssertEqual(t, "count", len(got), len(exp))
	for i, id := range exp {
		testutil.AssertEqual(t, "order", got[i].id, id)
	}
}

func TestCollection_ItemsReturnsCopy(t *testing.T) {
	c := newTestCollection()
	c.Add(&item{id: "a"})
	c.Add(&item{id: "b"})

	got := c.Items()
	got[0] = &item{id: "mutated"}

	testutil.AssertEqual(t, "first item", c.Items()[0].id, "a")
}

func TestCollection_ReAddAfterRemove(t *testing.T) {
	c := newTestCollection()
	c.Add(&item{id: "a", value: 1})

	if !c.Remove(&item{id: "a"}) {
		t.Fatal("remove failed")
	}
	if !c.Add(&item{id: "a", value: 2}) {
		t.Fatal("re-add after remove should succeed")
	}

	got, _ := c.Get("a")
	testutil.AssertEqual(t, "value after re-add", got.value, 2)
}
