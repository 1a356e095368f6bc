package quantum

import (
	"math"
	"math/cmplx"
	"testing"
)

func TestNewZeroState(t *testing.T) {
	s := NewZeroState(3)

	amps := s.Amplitudes()
	if len(amps) != 8 {
		t.Fatalf("Expected 8 amplitudes, got %d", len(amps))
	}
	if amps[0] != 1 {
		t.Errorf("Expected amplitude 1 at |000>, got %v", amps[0])
	}
	if math.Abs(s.Norm()-1) > 1e-12 {
		t.Errorf("Norm = %g, want 1", s.Norm())
	}
}

func TestNewBasisState(t *testing.T) {
	s, err := NewBasisState([]int{1, 1, 0, 0})
	if err != nil {
		t.Fatalf("NewBasisState failed: %v", err)
	}

	// Wire 0 is the most significant bit: |1100> is index 12.
	amps := s.Amplitudes()
	if amps[12] != 1 {
		t.Errorf("Expected amplitude 1 at index 12, got %v", amps[12])
	}
}

func TestNewBasisState_InvalidBits(t *testing.T) {
	if _, err := NewBasisState([]int{0, 2}); err == nil {
		t.Error("Expected error for bit value 2")
	}
}

func TestApplyX(t *testing.T) {
	s := NewZeroState(2)
	if err := s.ApplyX(0); err != nil {
		t.Fatalf("ApplyX failed: %v", err)
	}

	// |00> -> |10>, index 2
	amps := s.Amplitudes()
	if amps[2] != 1 {
		t.Errorf("Expected amplitude 1 at |10>, got %v", amps[2])
	}
}

func TestApplyX_InvalidWire(t *testing.T) {
	s := NewZeroState(2)
	if err := s.ApplyX(2); err == nil {
		t.Error("Expected error for out-of-range wire")
	}
	if err := s.ApplyX(-1); err == nil {
		t.Error("Expected error for negative wire")
	}
}

func TestApplyRY(t *testing.T) {
	s := NewZeroState(1)
	theta := 0.7
	if err := s.ApplyRY(0, theta); err != nil {
		t.Fatalf("ApplyRY failed: %v", err)
	}

	amps := s.Amplitudes()
	want0 := math.Cos(theta / 2)
	want1 := math.Sin(theta / 2)

	if cmplx.Abs(amps[0]-complex(want0, 0)) > 1e-12 {
		t.Errorf("amp[0] = %v, want %g", amps[0], want0)
	}
	if cmplx.Abs(amps[1]-complex(want1, 0)) > 1e-12 {
		t.Errorf("amp[1] = %v, want %g", amps[1], want1)
	}
}

func TestApplyRY_FullRotationFlips(t *testing.T) {
	s := NewZeroState(1)
	s.ApplyRY(0, math.Pi)

	// RY(pi)|0> = |1>
	amps := s.Amplitudes()
	if cmplx.Abs(amps[1]-1) > 1e-12 {
		t.Errorf("amp[1] = %v, want 1", amps[1])
	}
}

func TestApplyCNOT(t *testing.T) {
	// |10> -> |11>
	s, _ := NewBasisState([]int{1, 0})
	if err := s.ApplyCNOT(0, 1); err != nil {
		t.Fatalf("ApplyCNOT failed: %v", err)
	}

	amps := s.Amplitudes()
	if amps[3] != 1 {
		t.Errorf("Expected amplitude 1 at |11>, got %v", amps[3])
	}

	// Control off: |01> stays |01>
	s2, _ := NewBasisState([]int{0, 1})
	s2.ApplyCNOT(0, 1)
	if s2.Amplitudes()[1] != 1 {
		t.Error("CNOT should not act when control is 0")
	}
}

func TestApplyCNOT_SameWire(t *testing.T) {
	s := NewZeroState(2)
	if err := s.ApplyCNOT(1, 1); err == nil {
		t.Error("Expected error for control == target")
	}
}

func TestApplyDoubleExcitation_ZeroAngleIsIdentity(t *testing.T) {
	s, _ := NewBasisState([]int{1, 1, 0, 0})
	if err := s.ApplyDoubleExcitation([4]int{0, 1, 2, 3}, 0); err != nil {
		t.Fatalf("ApplyDoubleExcitation failed: %v", err)
	}

	amps := s.Amplitudes()
	if cmplx.Abs(amps[12]-1) > 1e-12 {
		t.Errorf("Zero-angle gate should be identity, amp[12] = %v", amps[12])
	}
}

func TestApplyDoubleExcitation_Rotation(t *testing.T) {
	theta := 1.1
	s, _ := NewBasisState([]int{1, 1, 0, 0})
	s.ApplyDoubleExcitation([4]int{0, 1, 2, 3}, theta)

	amps := s.Amplitudes()
	// |1100> = index 12, |0011> = index 3
	if cmplx.Abs(amps[12]-complex(math.Cos(theta/2), 0)) > 1e-12 {
		t.Errorf("amp[1100] = %v, want %g", amps[12], math.Cos(theta/2))
	}
	if cmplx.Abs(amps[3]-complex(math.Sin(theta/2), 0)) > 1e-12 {
		t.Errorf("amp[0011] = %v, want %g", amps[3], math.Sin(theta/2))
	}

	if math.Abs(s.Norm()-1) > 1e-12 {
		t.Errorf("Norm not preserved: %g", s.Norm())
	}
}

func TestApplyDoubleExcitation_DuplicateWire(t *testing.T) {
	s := NewZeroState(4)
	if err := s.ApplyDoubleExcitation([4]int{0, 1, 2, 2}, 0.5); err == nil {
		t.Error("Expected error for duplicate wire")
	}
}

func TestGatesPreserveNorm(t *testing.T) {
	s := NewZeroState(4)
	s.ApplyRY(0, 0.3)
	s.ApplyRY(1, -1.2)
	s.ApplyCNOT(0, 1)
	s.ApplyX(2)
	s.ApplyDoubleExcitation([4]int{0, 1, 2, 3}, 2.5)

	if math.Abs(s.Norm()-1) > 1e-12 {
		t.Errorf("Norm = %g after circuit, want 1", s.Norm())
	}
}

func TestInnerProduct(t *testing.T) {
	a := NewZeroState(2)
	b := NewZeroState(2)

	ip, err := a.InnerProduct(b)
	if err != nil {
		t.Fatalf("InnerProduct failed: %v", err)
	}
	if cmplx.Abs(ip-1) > 1e-12 {
		t.Errorf("<0|0> = %v, want 1", ip)
	}

	b.ApplyX(0)
	ip, _ = a.InnerProduct(b)
	if cmplx.Abs(ip) > 1e-12 {
		t.Errorf("<00|10> = %v, want 0", ip)
	}
}

func TestInnerProduct_SizeMismatch(t *testing.T) {
	a := NewZeroState(2)
	b := NewZeroState(3)
	if _, err := a.InnerProduct(b); err == nil {
		t.Error("Expected error for qubit count mismatch")
	}
}
