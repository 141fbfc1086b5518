// File: /models/types_test.go
package models

import (
	"testing"
)

func TestStringSliceScan(t *testing.T) {
	var tags StringSlice
	if err := tags.Scan([]byte(`["trail","hilly"]`)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(tags) != 2 || tags[0] != "trail" || tags[1] != "hilly" {
		t.Errorf("expected [trail hilly], got %v", tags)
	}

	// MySQL drivers may hand back a string instead of bytes
	var fromString StringSlice
	if err := fromString.Scan(`["urban"]`); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(fromString) != 1 || fromString[0] != "urban" {
		t.Errorf("expected [urban], got %v", fromString)
	}

	var fromNil StringSlice
	if err := fromNil.Scan(nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fromNil != nil {
		t.Errorf("nil column should scan to nil, got %v", fromNil)
	}

	if err := tags.Scan(42); err == nil {
		t.Error("expected error for unsupported scan type")
	}
}

func TestStringSliceValue(t *testing.T) {
	tags := StringSlice{"trail", "hilly"}
	v, err := tags.Value()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(v.([]byte)) != `["trail","hilly"]` {
		t.Errorf("unexpected stored value %s", v)
	}

	var empty StringSlice
	v, err = empty.Value()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != nil {
		t.Errorf("nil slice should store NULL, got %v", v)
	}
}

func TestStringSliceMarshalNilAsEmptyArray(t *testing.T) {
	var tags StringSlice
	b, err := tags.MarshalJSON()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(b) != "[]" {
		t.Errorf("nil tags should marshal as [], got %s", b)
	}
}
