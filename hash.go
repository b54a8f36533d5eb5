package zkp256k1

import (
	"crypto/sha256"
	"hash"
	"unsafe"

	sha256simd "github.com/minio/sha256-simd"
)

// SHA256 represents a SHA-256 hash context
type SHA256 struct {
	hasher hash.Hash
}

// NewSHA256 creates a new SHA-256 hash context
func NewSHA256() *SHA256 {
	h := &SHA256{}
	h.hasher = sha256simd.New()
	return h
}

// Write writes data to the hash
func (h *SHA256) Write(data []byte) {
	h.hasher.Write(data)
}

// Finalize finalizes the hash and writes the result to out32 (must be 32 bytes)
func (h *SHA256) Finalize(out32 []byte) {
	if len(out32) != 32 {
		panic("output buffer must be 32 bytes")
	}
	sum := h.hasher.Sum(nil)
	copy(out32, sum)
}

// Clear clears the hash context to prevent leaking sensitive information
func (h *SHA256) Clear() {
	memclear(unsafe.Pointer(h), unsafe.Sizeof(*h))
}

// HMACSHA256 represents an HMAC-SHA256 context
type HMACSHA256 struct {
	inner, outer SHA256
}

// NewHMACSHA256 creates a new HMAC-SHA256 context with the given key
func NewHMACSHA256(key []byte) *HMACSHA256 {
	h := &HMACSHA256{}

	// Prepare key: if keylen > 64, hash it first
	var rkey [64]byte
	if len(key) <= 64 {
		copy(rkey[:], key)
	} else {
		hasher := sha256.New()
		hasher.Write(key)
		sum := hasher.Sum(nil)
		copy(rkey[:32], sum)
	}

	// Initialize outer hash with key XOR 0x5c
	h.outer = SHA256{hasher: sha256simd.New()}
	for i := 0; i < 64; i++ {
		rkey[i] ^= 0x5c
	}
	h.outer.hasher.Write(rkey[:])

	// Initialize inner hash with key XOR 0x36
	h.inner = SHA256{hasher: sha256simd.New()}
	for i := 0; i < 64; i++ {
		rkey[i] ^= 0x5c ^ 0x36
	}
	h.inner.hasher.Write(rkey[:])

	memclear(unsafe.Pointer(&rkey), unsafe.Sizeof(rkey))
	return h
}

// Write writes data to the inner hash
func (h *HMACSHA256) Write(data []byte) {
	h.inner.Write(data)
}

// Finalize finalizes the HMAC and writes the result to out32 (must be 32 bytes)
func (h *HMACSHA256) Finalize(out32 []byte) {
	if len(out32) != 32 {
		panic("output buffer must be 32 bytes")
	}

	var temp [32]byte
	h.inner.Finalize(temp[:])

	h.outer.Write(temp[:])
	h.outer.Finalize(out32)

	memclear(unsafe.Pointer(&temp), unsafe.Sizeof(temp))
}

// Clear clears the HMAC context
func (h *HMACSHA256) Clear() {
	h.inner.Clear()
	h.outer.Clear()
	memclear(unsafe.Pointer(h), unsafe.Sizeof(*h))
}

// RFC6979HMACSHA256 implements the RFC 6979 section 3.2 HMAC-DRBG used for
// deterministic nonce generation.
type RFC6979HMACSHA256 struct {
	v     [32]byte
	k     [32]byte
	retry bool
}

// NewRFC6979HMACSHA256 initializes a new RFC6979 HMAC-SHA256 context.
// The key is the concatenation of the private key, message and any
// additional entropy, as assembled by the caller.
func NewRFC6979HMACSHA256(key []byte) *RFC6979HMACSHA256 {
	rng := &RFC6979HMACSHA256{}

	// RFC6979 3.2.b: V = 0x01 0x01 ... 0x01
	for i := 0; i < 32; i++ {
		rng.v[i] = 0x01
	}

	// RFC6979 3.2.c: K = 0x00 0x00 ... 0x00

	// RFC6979 3.2.d: K = HMAC_K(V || 0x00 || key)
	hmac := NewHMACSHA256(rng.k[:])
	hmac.Write(rng.v[:])
	hmac.Write([]byte{0x00})
	hmac.Write(key)
	hmac.Finalize(rng.k[:])
	hmac.Clear()

	// RFC6979 3.2.e: V = HMAC_K(V)
	hmac = NewHMACSHA256(rng.k[:])
	hmac.Write(rng.v[:])
	hmac.Finalize(rng.v[:])
	hmac.Clear()

	// RFC6979 3.2.f: K = HMAC_K(V || 0x01 || key)
	hmac = NewHMACSHA256(rng.k[:])
	hmac.Write(rng.v[:])
	hmac.Write([]byte{0x01})
	hmac.Write(key)
	hmac.Finalize(rng.k[:])
	hmac.Clear()

	// RFC6979 3.2.g: V = HMAC_K(V)
	hmac = NewHMACSHA256(rng.k[:])
	hmac.Write(rng.v[:])
	hmac.Finalize(rng.v[:])
	hmac.Clear()

	rng.retry = false
	return rng
}

// Generate fills out with the next bytes of the RFC6979 stream
func (rng *RFC6979HMACSHA256) Generate(out []byte) {
	// RFC6979 3.2.h: re-key on every call after the first
	if rng.retry {
		hmac := NewHMACSHA256(rng.k[:])
		hmac.Write(rng.v[:])
		hmac.Write([]byte{0x00})
		hmac.Finalize(rng.k[:])
		hmac.Clear()

		hmac = NewHMACSHA256(rng.k[:])
		hmac.Write(rng.v[:])
		hmac.Finalize(rng.v[:])
		hmac.Clear()
	}

	outlen := len(out)
	for outlen > 0 {
		hmac := NewHMACSHA256(rng.k[:])
		hmac.Write(rng.v[:])
		hmac.Finalize(rng.v[:])
		hmac.Clear()

		now := outlen
		if now > 32 {
			now = 32
		}
		copy(out, rng.v[:now])
		out = out[now:]
		outlen -= now
	}

	rng.retry = true
}

// Clear clears the RFC6979 context
func (rng *RFC6979HMACSHA256) Clear() {
	memclear(unsafe.Pointer(rng), unsafe.Sizeof(*rng))
}

// NonceFunction deterministically generates a 32-byte nonce for signing.
// Returns false to make the signing operation fail. attempt counts nonce
// retries and must yield a different nonce for each value; data is an
// opaque payload passed through from the caller.
type NonceFunction func(nonce32, msg32, key32 []byte, attempt uint, data []byte) bool

// nonceFunctionRFC6979 seeds the DRBG with key || msg || data, where data,
// if present, is 32 bytes of extra entropy.
func nonceFunctionRFC6979(nonce32, msg32, key32 []byte, attempt uint, data []byte) bool {
	var keydata [96]byte
	copy(keydata[:32], key32)
	copy(keydata[32:64], msg32)
	keyLen := 64
	if data != nil {
		if len(data) != 32 {
			return false
		}
		copy(keydata[64:], data)
		keyLen = 96
	}

	rng := NewRFC6979HMACSHA256(keydata[:keyLen])
	memclear(unsafe.Pointer(&keydata[0]), 96)
	for i := uint(0); i <= attempt; i++ {
		rng.Generate(nonce32)
	}
	rng.Clear()
	return true
}

// NonceFunctionRFC6979 is the RFC6979 deterministic nonce function
var NonceFunctionRFC6979 NonceFunction = nonceFunctionRFC6979

// NonceFunctionDefault is the nonce function used when none is supplied
var NonceFunctionDefault NonceFunction = nonceFunctionRFC6979
