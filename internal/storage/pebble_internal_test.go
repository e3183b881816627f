package storage

import "testing"

func TestPrefixEnd(t *testing.T) {
	tc := []struct {
		name   string
		prefix []byte
		want   []byte
	}{
		{name: "simple", prefix: []byte("breakfast/"), want: []byte("breakfast0")},
		{name: "trailing 0xff", prefix: []byte{'a', 0xff}, want: []byte{'b'}},
		{name: "all 0xff", prefix: []byte{0xff, 0xff}, want: nil},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			got := prefixEnd(tt.prefix)
			if string(got) != string(tt.want) {
				t.Errorf("prefixEnd(%q) = %q, want %q", tt.prefix, got, tt.want)
			}
		})
	}
}

func TestPebbleKey(t *testing.T) {
	if got := string(pebbleKey(KeyCurrentIndex)); got != "breakfast/currentIndex" {
		t.Errorf("pebbleKey() = %q", got)
	}
	// The shared prefix slice must not be aliased by appends.
	_ = pebbleKey(KeyMenuName)
	if string(keyPrefix) != "breakfast/" {
		t.Errorf("keyPrefix mutated: %q", keyPrefix)
	}
}
