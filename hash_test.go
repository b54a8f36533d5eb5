package zkp256k1

import (
	"bytes"
	"testing"
)

func TestSHA256Fixture(t *testing.T) {
	h := NewSHA256()
	h.Write([]byte("abc"))
	var out [32]byte
	h.Finalize(out[:])

	want := mustHex(t, "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad")
	if !bytes.Equal(out[:], want) {
		t.Fatalf("sha256(abc) = %x, want %x", out, want)
	}

	// Empty input
	h = NewSHA256()
	h.Finalize(out[:])
	want = mustHex(t, "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855")
	if !bytes.Equal(out[:], want) {
		t.Fatalf("sha256() = %x, want %x", out, want)
	}
}

func TestHMACSHA256Fixture(t *testing.T) {
	// RFC 4231 test case 1
	key := make([]byte, 20)
	for i := range key {
		key[i] = 0x0b
	}
	h := NewHMACSHA256(key)
	h.Write([]byte("Hi There"))
	var out [32]byte
	h.Finalize(out[:])

	want := mustHex(t, "b0344c61d8db38535ca8afceaf0bf12b881dc200c9833da726e9376c2e32cff7")
	if !bytes.Equal(out[:], want) {
		t.Fatalf("hmac = %x, want %x", out, want)
	}

	// RFC 4231 test case 2: short key, short data
	h = NewHMACSHA256([]byte("Jefe"))
	h.Write([]byte("what do ya want for nothing?"))
	h.Finalize(out[:])
	want = mustHex(t, "5bdcc146bf60754e6a042426089575c75a003f089d2739839dec58b964ec3843")
	if !bytes.Equal(out[:], want) {
		t.Fatalf("hmac = %x, want %x", out, want)
	}
}

func TestRFC6979Deterministic(t *testing.T) {
	key := make([]byte, 64)
	for i := range key {
		key[i] = byte(i)
	}

	rng1 := NewRFC6979HMACSHA256(key)
	rng2 := NewRFC6979HMACSHA256(key)

	var a, b [32]byte
	rng1.Generate(a[:])
	rng2.Generate(b[:])
	if !bytes.Equal(a[:], b[:]) {
		t.Fatal("same key produced different streams")
	}

	// Subsequent draws must differ from the first
	rng1.Generate(b[:])
	if bytes.Equal(a[:], b[:]) {
		t.Fatal("stream repeated itself")
	}

	// Different keys diverge
	key[0] ^= 1
	rng3 := NewRFC6979HMACSHA256(key)
	rng3.Generate(b[:])
	if bytes.Equal(a[:], b[:]) {
		t.Fatal("different keys produced the same stream")
	}

	rng1.Clear()
	rng2.Clear()
	rng3.Clear()
}

func TestNonceFunctionRFC6979(t *testing.T) {
	msg := make([]byte, 32)
	key := make([]byte, 32)
	key[31] = 1

	var n0, n0b, n1, ne [32]byte
	if !NonceFunctionRFC6979(n0[:], msg, key, 0, nil) {
		t.Fatal("nonce function failed")
	}
	if !NonceFunctionRFC6979(n0b[:], msg, key, 0, nil) {
		t.Fatal("nonce function failed")
	}
	if !bytes.Equal(n0[:], n0b[:]) {
		t.Fatal("nonce function not deterministic")
	}

	// Attempt counter must change the nonce
	if !NonceFunctionRFC6979(n1[:], msg, key, 1, nil) {
		t.Fatal("nonce function failed")
	}
	if bytes.Equal(n0[:], n1[:]) {
		t.Fatal("attempt counter did not change the nonce")
	}

	// Extra entropy must change the nonce
	extra := make([]byte, 32)
	extra[0] = 0xAA
	if !NonceFunctionRFC6979(ne[:], msg, key, 0, extra) {
		t.Fatal("nonce function failed")
	}
	if bytes.Equal(n0[:], ne[:]) {
		t.Fatal("extra entropy did not change the nonce")
	}

	// Extra entropy of the wrong size is refused
	if NonceFunctionRFC6979(ne[:], msg, key, 0, extra[:16]) {
		t.Fatal("16-byte extra entropy accepted")
	}
}

func TestRFC6979LongOutput(t *testing.T) {
	key := []byte("stream key")
	rng := NewRFC6979HMACSHA256(key)

	// A single 64-byte draw equals two chained 32-byte blocks of the
	// underlying generator state machine
	long := make([]byte, 64)
	rng.Generate(long)
	if bytes.Equal(long[:32], long[32:]) {
		t.Fatal("consecutive stream blocks identical")
	}
	rng.Clear()
}
