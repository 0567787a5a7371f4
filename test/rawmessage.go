package test_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/wavesense/n2k"
)

// AssertPgnValueEqual compares two n2k.PgnValue instances, tolerating a delta
// on the floating-point kinds (F32/F64) where exact equality would be
// fragile across resolution-scaled round trips.
func AssertPgnValueEqual(t *testing.T, expect, actual n2k.PgnValue, delta float64) {
	t.Helper()
	if expect.Kind() != actual.Kind() {
		t.Errorf("PgnValue kind mismatch: expected %v, got %v", expect.Kind(), actual.Kind())
		return
	}
	switch expect.Kind() {
	case n2k.PgnValueF32, n2k.PgnValueF64:
		assert.InDelta(t, expect.AsFloat64(), actual.AsFloat64(), delta)
	case n2k.PgnValueBytes:
		assert.Equal(t, expect.AsBytes().Bytes(), actual.AsBytes().Bytes())
	default:
		assert.Equal(t, expect.AsUint64(), actual.AsUint64())
	}
}
