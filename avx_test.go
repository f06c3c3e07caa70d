package simdfix

import (
	"fmt"
	"os"
	"testing"
)

func TestMain(m *testing.M) {
	fmt.Fprintf(os.Stderr, "simdfix: vector=%v kernel=%s\n", SupportsVector(), VectorKernel())
	os.Exit(m.Run())
}

func TestSupportsVectorStable(t *testing.T) {
	first := SupportsVector()
	for i := 0; i < 10; i++ {
		if got := SupportsVector(); got != first {
			t.Fatalf("SupportsVector() changed between calls: %v then %v", first, got)
		}
	}
}

func TestSetVectorSupport(t *testing.T) {
	detected := SupportsVector()

	for _, want := range []bool{true, false} {
		restore := SetVectorSupport(want)
		if got := SupportsVector(); got != want {
			t.Errorf("SupportsVector() with override %v = %v", want, got)
		}
		restore()
		if got := SupportsVector(); got != detected {
			t.Errorf("SupportsVector() after restore = %v, want detected %v", got, detected)
		}
	}
}

func TestSetVectorSupportNested(t *testing.T) {
	detected := SupportsVector()

	restoreOuter := SetVectorSupport(false)
	restoreInner := SetVectorSupport(true)
	if !SupportsVector() {
		t.Error("inner override not applied")
	}
	restoreInner()
	if SupportsVector() {
		t.Error("restoring inner override did not return to outer override")
	}
	restoreOuter()
	if got := SupportsVector(); got != detected {
		t.Errorf("SupportsVector() after restore = %v, want %v", got, detected)
	}
}

func TestVectorKernelName(t *testing.T) {
	switch k := VectorKernel(); k {
	case "avx512", "swar64":
	default:
		t.Errorf("VectorKernel() = %q, want avx512 or swar64", k)
	}
}
