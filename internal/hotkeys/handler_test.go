package hotkeys

import (
	"sort"
	"testing"
)

func TestLockCombinations(t *testing.T) {
	tests := []struct {
		name string
		base []uint16
		want []uint16
	}{
		{name: "none", base: nil, want: []uint16{}},
		{name: "caps only", base: []uint16{2}, want: []uint16{2}},
		{name: "caps and numlock", base: []uint16{2, 16}, want: []uint16{2, 16, 18}},
		{name: "three locks", base: []uint16{2, 16, 128}, want: []uint16{2, 16, 18, 128, 130, 144, 146}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := lockCombinations(tt.base)
			sort.Slice(got, func(i, j int) bool { return got[i] < got[j] })
			if len(got) != len(tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Fatalf("got %v, want %v", got, tt.want)
				}
			}
		})
	}
}
