package util

import (
	"reflect"
	"testing"
)

func TestSplitCommaSeparated(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"", nil},
		{"ip", []string{"ip"}},
		{"ip,ipv6", []string{"ip", "ipv6"}},
		{" a , b ,", []string{"a", "b"}},
	}

	for _, tt := range tests {
		got := SplitCommaSeparated(tt.in)
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("SplitCommaSeparated(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestSortNaturally(t *testing.T) {
	items := []string{"ether10", "ether2", "ether1", "sfp-sfpplus1", "bridge"}
	SortNaturally(items)
	want := []string{"bridge", "ether1", "ether2", "ether10", "sfp-sfpplus1"}
	if !reflect.DeepEqual(items, want) {
		t.Errorf("SortNaturally = %v, want %v", items, want)
	}
}
