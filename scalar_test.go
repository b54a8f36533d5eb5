package zkp256k1

import (
	"bytes"
	"crypto/rand"
	"math/big"
	"testing"
)

var curveOrder, _ = new(big.Int).SetString(
	"FFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFEBAAEDCE6AF48A03BBFD25E8CD0364141", 16)

func scalarFromBig(v *big.Int) Scalar {
	var s Scalar
	var b [32]byte
	v.FillBytes(b[:])
	s.setB32(b[:])
	return s
}

func scalarToBig(s *Scalar) *big.Int {
	var b [32]byte
	s.getB32(b[:])
	return new(big.Int).SetBytes(b[:])
}

func randScalarBytes(t *testing.T) []byte {
	t.Helper()
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		t.Fatalf("rand: %v", err)
	}
	return b
}

func TestScalarBasics(t *testing.T) {
	var zero Scalar
	zero.setInt(0)
	if !zero.isZero() {
		t.Error("zero scalar should be zero")
	}

	var one Scalar
	one.setInt(1)
	if one.isZero() {
		t.Error("one scalar should not be zero")
	}
	if !one.isOne() {
		t.Error("one scalar should be one")
	}
	if one.isEven() {
		t.Error("one should be odd")
	}

	var one2 Scalar
	one2.setInt(1)
	if !one.equal(&one2) {
		t.Error("two ones should be equal")
	}
}

func TestScalarRoundTrip(t *testing.T) {
	for i := 0; i < 256; i++ {
		in := randScalarBytes(t)
		var s Scalar
		overflow := s.setB32(in)

		v := new(big.Int).SetBytes(in)
		if overflow != (v.Cmp(curveOrder) >= 0) {
			t.Fatalf("overflow flag mismatch for %x", in)
		}

		v.Mod(v, curveOrder)
		var want [32]byte
		v.FillBytes(want[:])
		var out [32]byte
		s.getB32(out[:])
		if !bytes.Equal(out[:], want[:]) {
			t.Fatalf("round trip mismatch: got %x want %x", out, want)
		}
	}
}

func TestScalarSetB32Boundaries(t *testing.T) {
	cases := []struct {
		delta    int64 // offset from the group order
		overflow bool
	}{
		{-2, false},
		{-1, false},
		{0, true},
		{1, true},
	}
	for _, tc := range cases {
		v := new(big.Int).Add(curveOrder, big.NewInt(tc.delta))
		var b [32]byte
		v.FillBytes(b[:])
		var s Scalar
		if got := s.setB32(b[:]); got != tc.overflow {
			t.Errorf("order%+d: overflow = %v, want %v", tc.delta, got, tc.overflow)
		}
	}
}

func TestScalarAddMulAgainstBig(t *testing.T) {
	for i := 0; i < 128; i++ {
		a := new(big.Int).SetBytes(randScalarBytes(t))
		b := new(big.Int).SetBytes(randScalarBytes(t))
		a.Mod(a, curveOrder)
		b.Mod(b, curveOrder)

		sa := scalarFromBig(a)
		sb := scalarFromBig(b)

		var sum Scalar
		sum.add(&sa, &sb)
		want := new(big.Int).Add(a, b)
		want.Mod(want, curveOrder)
		if scalarToBig(&sum).Cmp(want) != 0 {
			t.Fatalf("add mismatch")
		}

		var prod Scalar
		prod.mul(&sa, &sb)
		want.Mul(a, b)
		want.Mod(want, curveOrder)
		if scalarToBig(&prod).Cmp(want) != 0 {
			t.Fatalf("mul mismatch: %v * %v", a, b)
		}
	}
}

func TestScalarMulEdgeCases(t *testing.T) {
	nm1 := new(big.Int).Sub(curveOrder, big.NewInt(1))

	// (n-1)*(n-1) mod n == 1
	s := scalarFromBig(nm1)
	var prod Scalar
	prod.mul(&s, &s)
	if !prod.isOne() {
		t.Error("(n-1)^2 mod n should be 1")
	}

	var zero Scalar
	prod.mul(&s, &zero)
	if !prod.isZero() {
		t.Error("a*0 should be 0")
	}
}

func TestScalarNegate(t *testing.T) {
	var zero, negZero Scalar
	negZero.negate(&zero)
	if !negZero.isZero() {
		t.Error("-0 should be 0")
	}

	for i := 0; i < 64; i++ {
		a := new(big.Int).SetBytes(randScalarBytes(t))
		a.Mod(a, curveOrder)
		sa := scalarFromBig(a)

		var neg, sum Scalar
		neg.negate(&sa)
		sum.add(&sa, &neg)
		if !sum.isZero() {
			t.Fatalf("a + (-a) != 0")
		}
	}
}

func TestScalarInverse(t *testing.T) {
	for i := 0; i < 16; i++ {
		a := new(big.Int).SetBytes(randScalarBytes(t))
		a.Mod(a, curveOrder)
		if a.Sign() == 0 {
			continue
		}
		sa := scalarFromBig(a)

		var inv, prod Scalar
		inv.inverse(&sa)
		prod.mul(&inv, &sa)
		if !prod.isOne() {
			t.Fatalf("a * a^-1 != 1")
		}

		want := new(big.Int).ModInverse(a, curveOrder)
		if scalarToBig(&inv).Cmp(want) != 0 {
			t.Fatalf("inverse disagrees with big.Int")
		}
	}
}

func TestScalarIsHigh(t *testing.T) {
	half := new(big.Int).Rsh(curveOrder, 1) // floor(n/2)

	s := scalarFromBig(half)
	if s.isHigh() {
		t.Error("floor(n/2) should not be high")
	}

	halfPlus := new(big.Int).Add(half, big.NewInt(1))
	s = scalarFromBig(halfPlus)
	if !s.isHigh() {
		t.Error("floor(n/2)+1 should be high")
	}

	var one Scalar
	one.setInt(1)
	if one.isHigh() {
		t.Error("1 should not be high")
	}

	nm1 := new(big.Int).Sub(curveOrder, big.NewInt(1))
	s = scalarFromBig(nm1)
	if !s.isHigh() {
		t.Error("n-1 should be high")
	}
}

func TestScalarCondNegate(t *testing.T) {
	a := new(big.Int).SetBytes(randScalarBytes(t))
	a.Mod(a, curveOrder)
	sa := scalarFromBig(a)

	s := sa
	if got := s.condNegate(0); got != 1 {
		t.Error("condNegate(0) should report 1")
	}
	if !s.equal(&sa) {
		t.Error("condNegate(0) changed the value")
	}

	s = sa
	if got := s.condNegate(1); got != -1 {
		t.Error("condNegate(1) should report -1")
	}
	var sum Scalar
	sum.add(&s, &sa)
	if !sum.isZero() {
		t.Error("condNegate(1) did not negate")
	}
}

func TestScalarHalf(t *testing.T) {
	for i := 0; i < 64; i++ {
		a := new(big.Int).SetBytes(randScalarBytes(t))
		a.Mod(a, curveOrder)
		sa := scalarFromBig(a)

		var h, sum Scalar
		h.half(&sa)
		sum.add(&h, &h)
		if !sum.equal(&sa) {
			t.Fatalf("2*(a/2) != a")
		}
	}
}

func TestScalarSplitLambda(t *testing.T) {
	for i := 0; i < 32; i++ {
		k := new(big.Int).SetBytes(randScalarBytes(t))
		k.Mod(k, curveOrder)
		sk := scalarFromBig(k)

		var r1, r2 Scalar
		splitLambda(&r1, &r2, &sk)

		// r1 + lambda*r2 == k (mod n)
		var t1, sum Scalar
		t1.mul(&r2, &lambdaConstant)
		sum.add(&r1, &t1)
		if !sum.equal(&sk) {
			t.Fatalf("r1 + lambda*r2 != k")
		}

		// Both halves must be small or negations of small values
		for _, r := range []*Scalar{&r1, &r2} {
			v := scalarToBig(r)
			neg := new(big.Int).Sub(curveOrder, v)
			bound := new(big.Int).Lsh(big.NewInt(1), 128)
			if v.Cmp(bound) > 0 && neg.Cmp(bound) > 0 {
				t.Fatalf("split half not 128-bit representable")
			}
		}
	}
}

func TestScalarGetBits(t *testing.T) {
	var s Scalar
	b := make([]byte, 32)
	b[31] = 0xA5 // 1010 0101
	s.setB32(b)

	if got := s.getBits(0, 4); got != 0x5 {
		t.Errorf("low nibble = %x, want 5", got)
	}
	if got := s.getBits(4, 4); got != 0xA {
		t.Errorf("high nibble = %x, want A", got)
	}

	// Spanning a limb boundary
	var v Scalar
	v.d[0] = 1 << 63
	v.d[1] = 1
	if got := v.getBits(63, 3); got != 0x3 {
		t.Errorf("spanning bits = %x, want 3", got)
	}
}

func TestScalarWnaf(t *testing.T) {
	for i := 0; i < 32; i++ {
		a := new(big.Int).SetBytes(randScalarBytes(t))
		a.Mod(a, curveOrder)
		sa := scalarFromBig(a)

		var wnaf [256]int
		bits := ecmultWnaf(wnaf[:], &sa, 5)

		// Reconstruct: sum of wnaf[i]*2^i must equal a or a-n
		sum := new(big.Int)
		for j := 0; j < bits; j++ {
			term := new(big.Int).Lsh(big.NewInt(int64(wnaf[j])), uint(j))
			sum.Add(sum, term)
		}
		sum.Mod(sum, curveOrder)
		if sum.Cmp(a) != 0 {
			t.Fatalf("wnaf does not reconstruct scalar")
		}

		// Digits are odd and within the window
		for j := 0; j < bits; j++ {
			d := wnaf[j]
			if d == 0 {
				continue
			}
			if d%2 == 0 || d > 15 || d < -15 {
				t.Fatalf("invalid wnaf digit %d", d)
			}
		}
	}
}
