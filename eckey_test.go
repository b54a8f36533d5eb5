package zkp256k1

import (
	"bytes"
	"testing"
)

func TestPubkeyParseFormats(t *testing.T) {
	ctx := ContextCreate(ContextSign)
	seckey, err := ECSeckeyGenerate()
	if err != nil {
		t.Fatalf("keygen: %v", err)
	}

	var pubkey PublicKey
	if ECPubkeyCreate(ctx, &pubkey, seckey) != 1 {
		t.Fatal("pubkey create failed")
	}

	comp := make([]byte, 33)
	compLen := 0
	ECPubkeySerialize(ctx, comp, &compLen, &pubkey, true)
	uncomp := make([]byte, 65)
	uncompLen := 0
	ECPubkeySerialize(ctx, uncomp, &uncompLen, &pubkey, false)

	// Compressed parse
	var p2 PublicKey
	if ECPubkeyParse(ctx, &p2, comp) != 1 {
		t.Fatal("compressed parse failed")
	}
	if p2.data != pubkey.data {
		t.Fatal("compressed parse does not round trip")
	}

	// Uncompressed parse
	if ECPubkeyParse(ctx, &p2, uncomp) != 1 {
		t.Fatal("uncompressed parse failed")
	}
	if p2.data != pubkey.data {
		t.Fatal("uncompressed parse does not round trip")
	}

	// Hybrid: 0x06 for even Y, 0x07 for odd Y
	hybrid := make([]byte, 65)
	copy(hybrid, uncomp)
	hybrid[0] = 0x06 | (comp[0] & 1)
	if ECPubkeyParse(ctx, &p2, hybrid) != 1 {
		t.Fatal("hybrid parse failed")
	}
	if p2.data != pubkey.data {
		t.Fatal("hybrid parse does not round trip")
	}

	// Hybrid with the wrong parity must fail
	hybrid[0] ^= 1
	if ECPubkeyParse(ctx, &p2, hybrid) != 0 {
		t.Fatal("hybrid key with wrong parity accepted")
	}

	// Uncompressed with a corrupted Y must fail the curve check
	bad := make([]byte, 65)
	copy(bad, uncomp)
	bad[64] ^= 1
	if ECPubkeyParse(ctx, &p2, bad) != 0 {
		t.Fatal("off-curve point accepted")
	}

	// Wrong lengths
	if ECPubkeyParse(ctx, &p2, comp[:32]) != 0 {
		t.Fatal("truncated key accepted")
	}
}

func TestPubkeyDecompress(t *testing.T) {
	ctx := ContextCreate(ContextSign)
	seckey, err := ECSeckeyGenerate()
	if err != nil {
		t.Fatalf("keygen: %v", err)
	}

	var pubkey PublicKey
	ECPubkeyCreate(ctx, &pubkey, seckey)

	buf := make([]byte, 65)
	buflen := 0
	ECPubkeySerialize(ctx, buf, &buflen, &pubkey, true)

	want := make([]byte, 65)
	wantlen := 0
	ECPubkeySerialize(ctx, want, &wantlen, &pubkey, false)

	if ECPubkeyDecompress(ctx, buf, &buflen) != 1 {
		t.Fatal("decompress failed")
	}
	if buflen != 65 || !bytes.Equal(buf, want) {
		t.Fatal("decompressed key mismatch")
	}
}

func TestPrivkeyDERRoundTrip(t *testing.T) {
	ctx := ContextCreate(ContextSign)
	seckey, err := ECSeckeyGenerate()
	if err != nil {
		t.Fatalf("keygen: %v", err)
	}

	for _, compressed := range []bool{true, false} {
		der := make([]byte, 300)
		derlen := 0
		if ECPrivkeyExport(ctx, seckey, der, &derlen, compressed) != 1 {
			t.Fatalf("export failed (compressed=%v)", compressed)
		}

		back := make([]byte, 32)
		if ECPrivkeyImport(ctx, back, der[:derlen]) != 1 {
			t.Fatalf("import failed (compressed=%v)", compressed)
		}
		if !bytes.Equal(back, seckey) {
			t.Fatalf("DER round trip mismatch (compressed=%v)", compressed)
		}
	}

	// Garbage must be rejected
	if ECPrivkeyImport(ctx, make([]byte, 32), []byte{0x30, 0x02, 0x01, 0x01}) != 0 {
		t.Fatal("garbage DER accepted")
	}
}

func TestTweakLinearity(t *testing.T) {
	ctx := ContextCreate(ContextSign | ContextVerify)
	seckey, err := ECSeckeyGenerate()
	if err != nil {
		t.Fatalf("keygen: %v", err)
	}
	tweak := randScalarBytes(t)

	// (d + t)*G
	tweakedSec := append([]byte(nil), seckey...)
	if ECPrivkeyTweakAdd(ctx, tweakedSec, tweak) != 1 {
		t.Skip("tweak produced an invalid key (negligible probability)")
	}
	var fromSec PublicKey
	if ECPubkeyCreate(ctx, &fromSec, tweakedSec) != 1 {
		t.Fatal("pubkey create failed")
	}

	// d*G + t*G
	var pubkey PublicKey
	ECPubkeyCreate(ctx, &pubkey, seckey)
	pub := make([]byte, 33)
	publen := 0
	ECPubkeySerialize(ctx, pub, &publen, &pubkey, true)
	if ECPubkeyTweakAdd(ctx, pub, publen, tweak) != 1 {
		t.Fatal("pubkey tweak failed")
	}

	want := make([]byte, 33)
	wantlen := 0
	ECPubkeySerialize(ctx, want, &wantlen, &fromSec, true)
	if !bytes.Equal(pub[:publen], want[:wantlen]) {
		t.Fatal("privkey and pubkey tweak paths disagree")
	}

	// Multiplicative tweak linearity
	mulSec := append([]byte(nil), seckey...)
	if ECPrivkeyTweakMul(ctx, mulSec, tweak) != 1 {
		t.Skip("tweak invalid (negligible probability)")
	}
	var fromMulSec PublicKey
	ECPubkeyCreate(ctx, &fromMulSec, mulSec)

	pub2 := make([]byte, 33)
	publen2 := 0
	ECPubkeySerialize(ctx, pub2, &publen2, &pubkey, true)
	if ECPubkeyTweakMul(ctx, pub2, publen2, tweak) != 1 {
		t.Fatal("pubkey mul tweak failed")
	}
	ECPubkeySerialize(ctx, want, &wantlen, &fromMulSec, true)
	if !bytes.Equal(pub2[:publen2], want[:wantlen]) {
		t.Fatal("privkey and pubkey mul tweak paths disagree")
	}
}

func TestTweakComplementFails(t *testing.T) {
	ctx := ContextCreate(ContextSign | ContextVerify)
	seckey, err := ECSeckeyGenerate()
	if err != nil {
		t.Fatalf("keygen: %v", err)
	}

	// tweak = n - d: the private tweak result would be zero, the public
	// tweak result would be infinity
	var d Scalar
	d.setB32(seckey)
	var comp Scalar
	comp.negate(&d)
	tweak := make([]byte, 32)
	comp.getB32(tweak)

	sk := append([]byte(nil), seckey...)
	if ECPrivkeyTweakAdd(ctx, sk, tweak) != 0 {
		t.Fatal("complement private tweak accepted")
	}

	var pubkey PublicKey
	ECPubkeyCreate(ctx, &pubkey, seckey)
	pub := make([]byte, 33)
	publen := 0
	ECPubkeySerialize(ctx, pub, &publen, &pubkey, true)
	if ECPubkeyTweakAdd(ctx, pub, publen, tweak) != 0 {
		t.Fatal("complement public tweak accepted")
	}
}

func TestTweakRangeChecks(t *testing.T) {
	ctx := ContextCreate(ContextSign | ContextVerify)
	seckey, err := ECSeckeyGenerate()
	if err != nil {
		t.Fatalf("keygen: %v", err)
	}

	// Tweak >= n must be rejected everywhere
	over := make([]byte, 32)
	for i := range over {
		over[i] = 0xFF
	}
	sk := append([]byte(nil), seckey...)
	if ECPrivkeyTweakAdd(ctx, sk, over) != 0 {
		t.Fatal("overflowing additive tweak accepted")
	}
	if ECPrivkeyTweakMul(ctx, sk, over) != 0 {
		t.Fatal("overflowing multiplicative tweak accepted")
	}

	// Zero multiplicative tweak
	zero := make([]byte, 32)
	if ECPrivkeyTweakMul(ctx, sk, zero) != 0 {
		t.Fatal("zero multiplicative tweak accepted")
	}
}

func TestSeckeyNegate(t *testing.T) {
	ctx := ContextCreate(ContextNone)
	seckey, err := ECSeckeyGenerate()
	if err != nil {
		t.Fatalf("keygen: %v", err)
	}

	neg := append([]byte(nil), seckey...)
	if ECSeckeyNegate(ctx, neg) != 1 {
		t.Fatal("negate failed")
	}
	if ECSeckeyNegate(ctx, neg) != 1 {
		t.Fatal("second negate failed")
	}
	if !bytes.Equal(neg, seckey) {
		t.Fatal("double negation is not the identity")
	}
}

func TestSeckeyVerify(t *testing.T) {
	ctx := ContextCreate(ContextNone)

	zero := make([]byte, 32)
	if ECSeckeyVerify(ctx, zero) != 0 {
		t.Error("zero key accepted")
	}

	one := make([]byte, 32)
	one[31] = 1
	if ECSeckeyVerify(ctx, one) != 1 {
		t.Error("key 1 rejected")
	}

	over := make([]byte, 32)
	for i := range over {
		over[i] = 0xFF
	}
	if ECSeckeyVerify(ctx, over) != 0 {
		t.Error("overflowing key accepted")
	}

	if ECSeckeyVerify(ctx, one[:31]) != 0 {
		t.Error("short key accepted")
	}
}
