// Package zkp256k1 implements optimized secp256k1 elliptic-curve
// cryptography together with the confidential-transaction primitives built
// on top of it: ECDSA signing, verification and public-key recovery, key
// tweaking, ECDH-style point multiplication, Pedersen commitments,
// Borromean ring signatures and range proofs.
//
// All operations on secret data (signing, generator multiplication, key
// tweaks, commitment creation) run in constant time with no secret-indexed
// table lookups; verification paths are free to use variable-time
// algorithms.
package zkp256k1

import (
	"crypto/rand"
	"unsafe"
)

// PublicKey is an opaque parsed public key. The 64-byte content is the
// storage form of the affine point and is not a wire format; use
// ECPubkeyParse and ECPubkeySerialize for wire conversion. It can be copied
// and compared bytewise.
type PublicKey struct {
	data [64]byte
}

func pubkeyLoad(ge *GroupElementAffine, pubkey *PublicKey) bool {
	var s GroupElementStorage
	memcpyStorage(&s, pubkey.data[:])
	ge.fromStorage(&s)
	ge.x.normalize()
	ge.y.normalize()
	return !ge.x.isZero() || !ge.y.isZero()
}

func pubkeySave(pubkey *PublicKey, ge *GroupElementAffine) {
	var s GroupElementStorage
	ge.toStorage(&s)
	storageCopyOut(pubkey.data[:], &s)
}

func memcpyStorage(s *GroupElementStorage, b []byte) {
	s.x.n[0] = readBE64(b[24:32])
	s.x.n[1] = readBE64(b[16:24])
	s.x.n[2] = readBE64(b[8:16])
	s.x.n[3] = readBE64(b[0:8])
	s.y.n[0] = readBE64(b[56:64])
	s.y.n[1] = readBE64(b[48:56])
	s.y.n[2] = readBE64(b[40:48])
	s.y.n[3] = readBE64(b[32:40])
}

func storageCopyOut(b []byte, s *GroupElementStorage) {
	writeBE64(b[0:8], s.x.n[3])
	writeBE64(b[8:16], s.x.n[2])
	writeBE64(b[16:24], s.x.n[1])
	writeBE64(b[24:32], s.x.n[0])
	writeBE64(b[32:40], s.y.n[3])
	writeBE64(b[40:48], s.y.n[2])
	writeBE64(b[48:56], s.y.n[1])
	writeBE64(b[56:64], s.y.n[0])
}

// ECDSASignature is an opaque parsed ECDSA signature holding the r and s
// scalars in 32-byte big-endian form each. Not a wire format; use the
// compact and DER conversion functions.
type ECDSASignature struct {
	data [64]byte
}

func signatureLoad(sig *ecdsaSig, in *ECDSASignature) {
	sig.r.setB32(in.data[:32])
	sig.s.setB32(in.data[32:])
}

func signatureSave(out *ECDSASignature, sig *ecdsaSig) {
	sig.r.getB32(out.data[:32])
	sig.s.getB32(out.data[32:])
}

// ECSeckeyVerify returns 1 if seckey encodes a valid secret key: 32 bytes,
// nonzero and below the group order.
func ECSeckeyVerify(ctx *Context, seckey []byte) int {
	if len(seckey) != 32 {
		return 0
	}
	var sec Scalar
	ok := sec.setB32Seckey(seckey)
	sec.clear()
	return boolToInt(ok)
}

// ECSeckeyNegate replaces seckey with its additive inverse mod n.
func ECSeckeyNegate(ctx *Context, seckey []byte) int {
	if len(seckey) != 32 {
		panic("secret key must be 32 bytes")
	}
	var sec Scalar
	if !sec.setB32Seckey(seckey) {
		return 0
	}
	sec.negate(&sec)
	sec.getB32(seckey)
	sec.clear()
	return 1
}

// ECSeckeyGenerate draws a uniformly random valid secret key from the
// system RNG.
func ECSeckeyGenerate() ([]byte, error) {
	seckey := make([]byte, 32)
	for {
		if _, err := rand.Read(seckey); err != nil {
			return nil, err
		}
		var sec Scalar
		ok := sec.setB32Seckey(seckey)
		sec.clear()
		if ok {
			return seckey, nil
		}
	}
}

// ECPubkeyCreate computes the public key for seckey. Requires a context
// built for signing. Returns 0 if the secret key is invalid.
func ECPubkeyCreate(ctx *Context, pubkey *PublicKey, seckey []byte) int {
	if !ctx.ecmultGenCtx.isBuilt() {
		panic("context not built for signing")
	}
	if len(seckey) != 32 {
		panic("secret key must be 32 bytes")
	}
	memclearBytes(pubkey.data[:])

	var sec Scalar
	if !sec.setB32Seckey(seckey) {
		return 0
	}

	var pj GroupElementJacobian
	ctx.ecmultGenCtx.ecmultGen(&pj, &sec)
	sec.clear()

	var p GroupElementAffine
	p.setGEJ(&pj)
	pj.clear()
	pubkeySave(pubkey, &p)
	p.clear()
	return 1
}

// ECPubkeyCreateSerialized is the old-style key derivation: it writes the
// serialized public key for seckey directly to pubkey (33 or 65 bytes per
// the compressed flag) and its length to pubkeylen. Requires a context
// built for signing.
func ECPubkeyCreateSerialized(ctx *Context, pubkey []byte, pubkeylen *int, seckey []byte, compressed bool) int {
	var pk PublicKey
	if ECPubkeyCreate(ctx, &pk, seckey) != 1 {
		*pubkeylen = 0
		return 0
	}
	return ECPubkeySerialize(ctx, pubkey, pubkeylen, &pk, compressed)
}

// ECKeyPairGenerate draws a fresh secret key from the system RNG and
// derives its public key.
func ECKeyPairGenerate(ctx *Context) (seckey []byte, pubkey *PublicKey, err error) {
	seckey, err = ECSeckeyGenerate()
	if err != nil {
		return nil, nil, err
	}
	pubkey = &PublicKey{}
	if ECPubkeyCreate(ctx, pubkey, seckey) != 1 {
		// Cannot happen for a key that passed validation
		panic("pubkey derivation failed for a valid key")
	}
	return seckey, pubkey, nil
}

// ECPubkeyParse parses a compressed, uncompressed or hybrid public key.
func ECPubkeyParse(ctx *Context, pubkey *PublicKey, input []byte) int {
	memclearBytes(pubkey.data[:])
	var q GroupElementAffine
	if !eckeyPubkeyParse(&q, input) {
		return 0
	}
	pubkeySave(pubkey, &q)
	q.clear()
	return 1
}

// ECPubkeySerialize writes pubkey to output in compressed (33 byte) or
// uncompressed (65 byte) form and stores the written length in outputlen.
func ECPubkeySerialize(ctx *Context, output []byte, outputlen *int, pubkey *PublicKey, compressed bool) int {
	need := 65
	if compressed {
		need = 33
	}
	if len(output) < need {
		panic("output buffer too small for public key")
	}

	var q GroupElementAffine
	if !pubkeyLoad(&q, pubkey) {
		*outputlen = 0
		return 0
	}
	if !eckeyPubkeySerialize(&q, output, outputlen, compressed) {
		*outputlen = 0
		return 0
	}
	return 1
}

// ECPubkeyVerify returns 1 if input parses as a valid public key.
func ECPubkeyVerify(ctx *Context, input []byte) int {
	var q GroupElementAffine
	return boolToInt(eckeyPubkeyParse(&q, input))
}

// ECPubkeyDecompress replaces the serialized key in pubkey (of length
// *pubkeylen) with its 65-byte uncompressed serialization.
func ECPubkeyDecompress(ctx *Context, pubkey []byte, pubkeylen *int) int {
	if len(pubkey) < 65 {
		panic("buffer must hold 65 bytes")
	}
	var p GroupElementAffine
	if !eckeyPubkeyParse(&p, pubkey[:*pubkeylen]) {
		return 0
	}
	return boolToInt(eckeyPubkeySerialize(&p, pubkey, pubkeylen, false))
}

// ECDSASign signs the 32-byte message hash msg32 with seckey, writing the
// DER encoding to sig and its length to siglen. noncefp defaults to
// NonceFunctionDefault; ndata is passed through to it. Requires a context
// built for signing. Returns 0 if the nonce source fails or the secret key
// is invalid.
func ECDSASign(ctx *Context, msg32 []byte, sig []byte, siglen *int, seckey []byte, noncefp NonceFunction, ndata []byte) int {
	if !ctx.ecmultGenCtx.isBuilt() {
		panic("context not built for signing")
	}
	if len(msg32) != 32 {
		panic("message hash must be 32 bytes")
	}
	if len(seckey) != 32 {
		panic("secret key must be 32 bytes")
	}
	if noncefp == nil {
		noncefp = NonceFunctionDefault
	}

	var s ecdsaSig
	ret := ecdsaSignInner(ctx, &s, msg32, seckey, noncefp, ndata, nil)
	if ret != 0 {
		if !sigSerialize(sig, siglen, &s) {
			ret = 0
		}
	}
	if ret == 0 {
		*siglen = 0
	}
	return ret
}

// ecdsaSignInner runs the nonce-retry signing loop shared by the DER,
// compact and opaque-signature entry points.
func ecdsaSignInner(ctx *Context, sig *ecdsaSig, msg32, seckey []byte, noncefp NonceFunction, ndata []byte, recid *int) int {
	var sec Scalar
	if !sec.setB32Seckey(seckey) {
		return 0
	}

	var msg Scalar
	msg.setB32(msg32)

	ret := 0
	var nonce32 [32]byte
	for attempt := uint(0); ; attempt++ {
		if !noncefp(nonce32[:], msg32, seckey, attempt, ndata) {
			break
		}
		var non Scalar
		overflow := non.setB32(nonce32[:])
		if !overflow && !non.isZero() {
			if sigSign(&ctx.ecmultGenCtx, sig, &sec, &msg, &non, recid) {
				non.clear()
				ret = 1
				break
			}
		}
		non.clear()
	}

	memclear(unsafe.Pointer(&nonce32[0]), 32)
	sec.clear()
	msg.clear()
	return ret
}

// ECDSAVerify verifies a DER signature over msg32 with a serialized public
// key.
// Returns 1 for a correct signature, 0 for an incorrect signature,
// -1 for an invalid public key, -2 for an invalid signature encoding.
// Signatures with a high S value are rejected. Requires a context built for
// verification.
func ECDSAVerify(ctx *Context, msg32 []byte, sig []byte, pubkey []byte) int {
	if !ctx.ecmultCtx.isBuilt() {
		panic("context not built for verification")
	}
	if len(msg32) != 32 {
		panic("message hash must be 32 bytes")
	}

	var m Scalar
	m.setB32(msg32)

	var q GroupElementAffine
	if !eckeyPubkeyParse(&q, pubkey) {
		return -1
	}
	var s ecdsaSig
	if !sigParse(&s, sig) {
		return -2
	}
	if s.s.isHigh() {
		return 0
	}
	return boolToInt(sigVerify(&ctx.ecmultCtx, &s, &q, &m))
}

// ECDSASignCompact signs msg32 and writes the 64-byte r || s form to sig64.
// If recid is not nil it receives the recovery id. Returns 0 on nonce
// failure or invalid secret key, with sig64 zeroed.
func ECDSASignCompact(ctx *Context, msg32 []byte, sig64 []byte, seckey []byte, noncefp NonceFunction, ndata []byte, recid *int) int {
	if !ctx.ecmultGenCtx.isBuilt() {
		panic("context not built for signing")
	}
	if len(msg32) != 32 {
		panic("message hash must be 32 bytes")
	}
	if len(sig64) != 64 {
		panic("signature buffer must be 64 bytes")
	}
	if len(seckey) != 32 {
		panic("secret key must be 32 bytes")
	}
	if noncefp == nil {
		noncefp = NonceFunctionDefault
	}

	var s ecdsaSig
	ret := ecdsaSignInner(ctx, &s, msg32, seckey, noncefp, ndata, recid)
	if ret != 0 {
		s.r.getB32(sig64[:32])
		s.s.getB32(sig64[32:])
	} else {
		memclearBytes(sig64)
	}
	return ret
}

// ECDSARecoverCompact recovers the public key from a compact signature,
// message hash and recovery id, serializing it into pubkey (33 or 65 bytes
// per the compressed flag). Returns 1 iff recovery succeeded, which also
// implies the signature is valid for the recovered key.
func ECDSARecoverCompact(ctx *Context, msg32 []byte, sig64 []byte, pubkey []byte, pubkeylen *int, compressed bool, recid int) int {
	if !ctx.ecmultCtx.isBuilt() {
		panic("context not built for verification")
	}
	if len(msg32) != 32 {
		panic("message hash must be 32 bytes")
	}
	if len(sig64) != 64 {
		panic("signature must be 64 bytes")
	}
	if recid < 0 || recid > 3 {
		panic("recovery id must be in [0, 3]")
	}

	var s ecdsaSig
	if s.r.setB32(sig64[:32]) {
		return 0
	}
	if s.s.setB32(sig64[32:]) {
		return 0
	}

	var m Scalar
	m.setB32(msg32)

	var q GroupElementAffine
	if !sigRecover(&ctx.ecmultCtx, &s, &q, &m, recid) {
		return 0
	}
	return boolToInt(eckeyPubkeySerialize(&q, pubkey, pubkeylen, compressed))
}

// ECPrivkeyTweakAdd replaces seckey with seckey + tweak mod n. Fails if the
// tweak is out of range or the result would be zero.
func ECPrivkeyTweakAdd(ctx *Context, seckey []byte, tweak []byte) int {
	if len(seckey) != 32 || len(tweak) != 32 {
		panic("secret key and tweak must be 32 bytes")
	}

	var term, sec Scalar
	overflow := term.setB32(tweak)
	sec.setB32(seckey)

	ret := !overflow && eckeyPrivkeyTweakAdd(&sec, &term)
	if ret {
		sec.getB32(seckey)
	}

	sec.clear()
	term.clear()
	return boolToInt(ret)
}

// ECPrivkeyTweakMul replaces seckey with seckey * tweak mod n. Fails if the
// tweak is out of range or zero.
func ECPrivkeyTweakMul(ctx *Context, seckey []byte, tweak []byte) int {
	if len(seckey) != 32 || len(tweak) != 32 {
		panic("secret key and tweak must be 32 bytes")
	}

	var factor, sec Scalar
	overflow := factor.setB32(tweak)
	sec.setB32(seckey)

	ret := !overflow && eckeyPrivkeyTweakMul(&sec, &factor)
	if ret {
		sec.getB32(seckey)
	}

	sec.clear()
	factor.clear()
	return boolToInt(ret)
}

// ECPubkeyTweakAdd replaces the serialized key in pubkey (of length
// pubkeylen, whose form is kept) with pubkey + tweak*G. Requires a context built
// for verification.
func ECPubkeyTweakAdd(ctx *Context, pubkey []byte, pubkeylen int, tweak []byte) int {
	if !ctx.ecmultCtx.isBuilt() {
		panic("context not built for verification")
	}
	if len(tweak) != 32 {
		panic("tweak must be 32 bytes")
	}

	var term Scalar
	if term.setB32(tweak) {
		return 0
	}
	var p GroupElementAffine
	if !eckeyPubkeyParse(&p, pubkey[:pubkeylen]) {
		return 0
	}
	if !eckeyPubkeyTweakAdd(&ctx.ecmultCtx, &p, &term) {
		return 0
	}
	newLen := 0
	if !eckeyPubkeySerialize(&p, pubkey, &newLen, pubkeylen <= 33) {
		return 0
	}
	return 1
}

// ECPubkeyTweakMul replaces the serialized key in pubkey (of length
// pubkeylen, whose form is kept) with tweak*pubkey. Requires a context built for
// verification.
func ECPubkeyTweakMul(ctx *Context, pubkey []byte, pubkeylen int, tweak []byte) int {
	if !ctx.ecmultCtx.isBuilt() {
		panic("context not built for verification")
	}
	if len(tweak) != 32 {
		panic("tweak must be 32 bytes")
	}

	var factor Scalar
	if factor.setB32(tweak) {
		return 0
	}
	var p GroupElementAffine
	if !eckeyPubkeyParse(&p, pubkey[:pubkeylen]) {
		return 0
	}
	if !eckeyPubkeyTweakMul(&ctx.ecmultCtx, &p, &factor) {
		return 0
	}
	newLen := 0
	if !eckeyPubkeySerialize(&p, pubkey, &newLen, pubkeylen <= 33) {
		return 0
	}
	return 1
}

// ECPubkeyTweakAddOpaque is ECPubkeyTweakAdd over the opaque container.
func ECPubkeyTweakAddOpaque(ctx *Context, pubkey *PublicKey, tweak []byte) int {
	if !ctx.ecmultCtx.isBuilt() {
		panic("context not built for verification")
	}
	if len(tweak) != 32 {
		panic("tweak must be 32 bytes")
	}

	var term Scalar
	overflow := term.setB32(tweak)
	var p GroupElementAffine
	ret := !overflow && pubkeyLoad(&p, pubkey)
	memclearBytes(pubkey.data[:])
	if ret {
		if eckeyPubkeyTweakAdd(&ctx.ecmultCtx, &p, &term) {
			pubkeySave(pubkey, &p)
		} else {
			ret = false
		}
	}
	return boolToInt(ret)
}

// ECPrivkeyExport serializes seckey in the historical SEC1 DER form with
// embedded curve parameters. Requires a context built for signing.
func ECPrivkeyExport(ctx *Context, seckey []byte, privkey []byte, privkeylen *int, compressed bool) int {
	if !ctx.ecmultGenCtx.isBuilt() {
		panic("context not built for signing")
	}
	if len(seckey) != 32 {
		panic("secret key must be 32 bytes")
	}

	var key Scalar
	key.setB32(seckey)
	*privkeylen = len(privkey)
	ret := eckeyPrivkeySerialize(&ctx.ecmultGenCtx, privkey, privkeylen, &key, compressed)
	key.clear()
	return boolToInt(ret)
}

// ECPrivkeyImport extracts the 32-byte secret key from a SEC1 DER
// serialization.
func ECPrivkeyImport(ctx *Context, seckey []byte, privkey []byte) int {
	if len(seckey) != 32 {
		panic("secret key buffer must be 32 bytes")
	}

	var key Scalar
	ret := eckeyPrivkeyParse(&key, privkey)
	if ret {
		key.getB32(seckey)
	}
	key.clear()
	return boolToInt(ret)
}

// ECDSASignatureParseCompact parses a 64-byte r || s signature. r and s
// must be below the group order; zero values are accepted and produce a
// signature that fails all verification.
func ECDSASignatureParseCompact(ctx *Context, sig *ECDSASignature, input64 []byte) int {
	if len(input64) != 64 {
		panic("compact signature must be 64 bytes")
	}

	var r, s Scalar
	ret := true
	ret = !r.setB32(input64[:32]) && ret
	ret = !s.setB32(input64[32:]) && ret
	if ret {
		e := ecdsaSig{r: r, s: s}
		signatureSave(sig, &e)
	} else {
		memclearBytes(sig.data[:])
	}
	return boolToInt(ret)
}

// ECDSASignatureSerializeCompact writes the 64-byte r || s form.
func ECDSASignatureSerializeCompact(ctx *Context, output64 []byte, sig *ECDSASignature) int {
	if len(output64) != 64 {
		panic("output buffer must be 64 bytes")
	}
	copy(output64, sig.data[:])
	return 1
}

// ECDSASignatureParseDER parses a strict DER signature into the opaque form.
func ECDSASignatureParseDER(ctx *Context, sig *ECDSASignature, input []byte) int {
	var s ecdsaSig
	if !sigParse(&s, input) {
		memclearBytes(sig.data[:])
		return 0
	}
	signatureSave(sig, &s)
	return 1
}

// ECDSASignatureSerializeDER writes the strict DER encoding of sig. Returns
// 0 if output is too small, with the required size in outputlen.
func ECDSASignatureSerializeDER(ctx *Context, output []byte, outputlen *int, sig *ECDSASignature) int {
	var s ecdsaSig
	signatureLoad(&s, sig)
	*outputlen = len(output)
	return boolToInt(sigSerialize(output, outputlen, &s))
}

// ECDSASignatureNormalize writes the lower-S form of sigin to sigout (which
// may be nil to only query). Returns 1 if sigin was not already normalized.
func ECDSASignatureNormalize(ctx *Context, sigout, sigin *ECDSASignature) int {
	var s ecdsaSig
	signatureLoad(&s, sigin)
	high := s.s.isHigh()
	if sigout != nil {
		if high {
			s.s.negate(&s.s)
		}
		signatureSave(sigout, &s)
	}
	return boolToInt(high)
}

// ECDSASignOpaque signs msg32 into the opaque signature container.
// The result is always in lower-S form.
func ECDSASignOpaque(ctx *Context, sig *ECDSASignature, msg32, seckey []byte, noncefp NonceFunction, ndata []byte) int {
	if !ctx.ecmultGenCtx.isBuilt() {
		panic("context not built for signing")
	}
	if len(msg32) != 32 {
		panic("message hash must be 32 bytes")
	}
	if len(seckey) != 32 {
		panic("secret key must be 32 bytes")
	}
	if noncefp == nil {
		noncefp = NonceFunctionDefault
	}

	var s ecdsaSig
	ret := ecdsaSignInner(ctx, &s, msg32, seckey, noncefp, ndata, nil)
	if ret != 0 {
		signatureSave(sig, &s)
	} else {
		memclearBytes(sig.data[:])
	}
	return ret
}

// ECDSAVerifyOpaque verifies an opaque signature against an opaque public
// key. Returns 1 for a valid signature, 0 otherwise; high-S signatures are
// rejected.
func ECDSAVerifyOpaque(ctx *Context, sig *ECDSASignature, msg32 []byte, pubkey *PublicKey) int {
	if !ctx.ecmultCtx.isBuilt() {
		panic("context not built for verification")
	}
	if len(msg32) != 32 {
		panic("message hash must be 32 bytes")
	}

	var m Scalar
	m.setB32(msg32)
	var s ecdsaSig
	signatureLoad(&s, sig)
	var q GroupElementAffine
	return boolToInt(!s.s.isHigh() &&
		pubkeyLoad(&q, pubkey) &&
		sigVerify(&ctx.ecmultCtx, &s, &q, &m))
}
