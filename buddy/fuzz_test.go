package buddy

import (
	"testing"
)

// Fuzz arbitrary allocate/free sequences. Each input byte is one operation:
// the low bit selects allocate or free, the rest picks a size or a live block.
// Guards against panics and checks the tree invariants after every step.
func FuzzTree_AllocFree(f *testing.F) {
	f.Add([]byte{0, 2, 4, 1, 3, 5})
	f.Add([]byte{254, 254, 1, 1, 0, 0, 0, 0})
	f.Add([]byte{10, 20, 30, 40, 50, 61, 71, 81, 91})

	f.Fuzz(func(t *testing.T, ops []byte) {
		tr, err := New(2, 9)
		if err != nil {
			t.Fatal(err)
		}
		var live []int
		for i, op := range ops {
			if op&1 == 0 {
				off, err := tr.Allocate(int(op) * 2)
				if err == nil {
					live = append(live, off)
				}
			} else if len(live) > 0 {
				j := int(op>>1) % len(live)
				if !tr.Deallocate(live[j]) {
					t.Fatalf("op %d: live offset %d was not freed", i, live[j])
				}
				live = append(live[:j], live[j+1:]...)
			} else if tr.Deallocate(int(op)) {
				t.Fatalf("op %d: freed offset %d with nothing allocated", i, op)
			}
			if err := tr.Check(); err != nil {
				t.Fatalf("op %d: %v", i, err)
			}
		}
	})
}
