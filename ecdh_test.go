package zkp256k1

import (
	"bytes"
	"testing"
)

func TestPointMultiplyCommutes(t *testing.T) {
	ctx := ContextCreate(ContextSign)

	a, err := ECSeckeyGenerate()
	if err != nil {
		t.Fatalf("keygen: %v", err)
	}
	b, err := ECSeckeyGenerate()
	if err != nil {
		t.Fatalf("keygen: %v", err)
	}

	var pa, pb PublicKey
	ECPubkeyCreate(ctx, &pa, a)
	ECPubkeyCreate(ctx, &pb, b)

	// a * (b*G)
	buf1 := make([]byte, 33)
	len1 := 0
	ECPubkeySerialize(ctx, buf1, &len1, &pb, true)
	if PointMultiply(buf1, &len1, a) != 1 {
		t.Fatal("point multiply failed")
	}

	// b * (a*G)
	buf2 := make([]byte, 33)
	len2 := 0
	ECPubkeySerialize(ctx, buf2, &len2, &pa, true)
	if PointMultiply(buf2, &len2, b) != 1 {
		t.Fatal("point multiply failed")
	}

	if !bytes.Equal(buf1[:len1], buf2[:len2]) {
		t.Fatal("a*(b*G) != b*(a*G)")
	}
}

func TestPointMultiplyMatchesEcmult(t *testing.T) {
	ctx := ContextCreate(ContextSign | ContextVerify)

	seckey, err := ECSeckeyGenerate()
	if err != nil {
		t.Fatalf("keygen: %v", err)
	}
	scalar := randScalarBytes(t)
	var s Scalar
	if s.setB32(scalar) || s.isZero() {
		t.Skip("scalar out of range")
	}

	var pubkey PublicKey
	ECPubkeyCreate(ctx, &pubkey, seckey)
	buf := make([]byte, 33)
	buflen := 0
	ECPubkeySerialize(ctx, buf, &buflen, &pubkey, true)

	if PointMultiply(buf, &buflen, scalar) != 1 {
		t.Fatal("point multiply failed")
	}

	// Reference through the variable-time path
	var p GroupElementAffine
	if !eckeyPubkeyParse(&p, func() []byte {
		out := make([]byte, 33)
		outlen := 0
		ECPubkeySerialize(ctx, out, &outlen, &pubkey, true)
		return out[:outlen]
	}()) {
		t.Fatal("parse failed")
	}
	var pj, rj GroupElementJacobian
	pj.setGE(&p)
	var zero Scalar
	ctx.ecmultCtx.ecmult(&rj, &pj, &s, &zero)
	var r GroupElementAffine
	r.setGEJ(&rj)
	want := make([]byte, 33)
	wantlen := 0
	if !eckeyPubkeySerialize(&r, want, &wantlen, true) {
		t.Fatal("serialize failed")
	}

	if !bytes.Equal(buf[:buflen], want[:wantlen]) {
		t.Fatal("constant-time and var-time multiplication disagree")
	}
}

func TestPointMultiplyErrors(t *testing.T) {
	ctx := ContextCreate(ContextSign)
	seckey, err := ECSeckeyGenerate()
	if err != nil {
		t.Fatalf("keygen: %v", err)
	}
	var pubkey PublicKey
	ECPubkeyCreate(ctx, &pubkey, seckey)
	buf := make([]byte, 33)
	buflen := 0
	ECPubkeySerialize(ctx, buf, &buflen, &pubkey, true)

	// Zero scalar
	zero := make([]byte, 32)
	cp := append([]byte(nil), buf...)
	cplen := buflen
	if got := PointMultiply(cp, &cplen, zero); got != -1 {
		t.Errorf("zero scalar: got %d, want -1", got)
	}

	// Overflowing scalar
	over := make([]byte, 32)
	for i := range over {
		over[i] = 0xFF
	}
	cp = append([]byte(nil), buf...)
	cplen = buflen
	if got := PointMultiply(cp, &cplen, over); got != -2 {
		t.Errorf("overflow scalar: got %d, want -2", got)
	}

	// Invalid point
	bad := make([]byte, 33)
	badlen := 33
	if got := PointMultiply(bad, &badlen, seckey); got != -3 {
		t.Errorf("invalid point: got %d, want -3", got)
	}
}

func TestECDHSharedSecret(t *testing.T) {
	ctx := ContextCreate(ContextSign)

	a, err := ECSeckeyGenerate()
	if err != nil {
		t.Fatalf("keygen: %v", err)
	}
	b, err := ECSeckeyGenerate()
	if err != nil {
		t.Fatalf("keygen: %v", err)
	}

	var pa, pb PublicKey
	ECPubkeyCreate(ctx, &pa, a)
	ECPubkeyCreate(ctx, &pb, b)

	s1 := make([]byte, 32)
	s2 := make([]byte, 32)
	if ECDH(s1, &pb, a) != 1 {
		t.Fatal("ECDH failed")
	}
	if ECDH(s2, &pa, b) != 1 {
		t.Fatal("ECDH failed")
	}
	if !bytes.Equal(s1, s2) {
		t.Fatal("shared secrets differ")
	}
}
