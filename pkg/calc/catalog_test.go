package calc

import "testing"

func TestLookupKnownAndUnknown(t *testing.T) {
	if op := Lookup("add"); op == nil || op.Arity != 2 {
		t.Fatalf("Lookup(add) = %v", op)
	}
	if op := Lookup("frobnicate"); op != nil {
		t.Fatalf("Lookup(frobnicate) = %v, want nil", op)
	}
}

func TestRealOnlyOperatorsHaveNoZKernel(t *testing.T) {
	for _, name := range []string{"acos", "asin", "atan", "min", "max", "lt", "gt", "le", "ge", "round", "ceil", "floor"} {
		op := Lookup(name)
		if op == nil {
			t.Fatalf("missing catalogue entry %q", name)
		}
		if op.Z != nil {
			t.Errorf("%q: expected no Z kernel, got one", name)
		}
		if op.R == nil {
			t.Errorf("%q: expected an R kernel", name)
		}
	}
}

func TestComplexOnlyOperatorsHaveNoRKernel(t *testing.T) {
	for _, name := range []string{"real", "imag", "phase", "conj"} {
		op := Lookup(name)
		if op == nil {
			t.Fatalf("missing catalogue entry %q", name)
		}
		if op.R != nil {
			t.Errorf("%q: expected no R kernel, got one", name)
		}
		if op.Z == nil {
			t.Errorf("%q: expected a Z kernel", name)
		}
	}
}

func TestAddKernelsAgree(t *testing.T) {
	op := Lookup("add")
	got := op.R([]float32{3, 4})
	if got != complex(float32(7), 0) {
		t.Errorf("add.R(3,4) = %v, want 7", got)
	}
	gotZ := op.Z([]Scalar{complex(1, 2), complex(3, 4)})
	if gotZ != complex(float32(4), float32(6)) {
		t.Errorf("add.Z = %v, want 4+6i", gotZ)
	}
}

func TestComplexOperatorIsRtoZ(t *testing.T) {
	op := Lookup("complex")
	if !op.RtoZ {
		t.Fatal("complex operator should be flagged RtoZ")
	}
	got := op.R([]float32{1, 2})
	if got != complex(float32(1), float32(2)) {
		t.Errorf("complex.R(1,2) = %v, want 1+2i", got)
	}
}

func TestAbsIsZtoR(t *testing.T) {
	op := Lookup("abs")
	if !op.ZtoR {
		t.Fatal("abs operator should be flagged ZtoR")
	}
	got := op.Z([]Scalar{complex(3, 4)})
	if got != complex(float32(5), 0) {
		t.Errorf("abs.Z(3+4i) = %v, want 5", got)
	}
}

func TestIfTernarySelectsBranch(t *testing.T) {
	op := Lookup("if")
	if op.Arity != 3 {
		t.Fatalf("if arity = %d, want 3", op.Arity)
	}
	if got := op.R([]float32{1, 10, 20}); got != complex(float32(10), 0) {
		t.Errorf("if(1,10,20) = %v, want 10", got)
	}
	if got := op.R([]float32{0, 10, 20}); got != complex(float32(20), 0) {
		t.Errorf("if(0,10,20) = %v, want 20", got)
	}
}

func TestIsnanIsinfFiniteAreIndependentOnComplex(t *testing.T) {
	nan := Lookup("isnan")
	v := complex(float32(1), float32(parseNaN()))
	if got := nan.Z([]Scalar{v}); got != 1 {
		t.Errorf("isnan(1+NaNi) = %v, want 1", got)
	}
	if got := Lookup("isinf").Z([]Scalar{v}); got != 0 {
		t.Errorf("isinf(1+NaNi) = %v, want 0", got)
	}
	if got := Lookup("finite").Z([]Scalar{v}); got != 1 {
		t.Errorf("finite(1+NaNi) = %v, want 1", got)
	}
}

func parseNaN() float32 {
	v, _ := parseReservedWord("nan")
	return real(v)
}
