package zkp256k1

import "encoding/binary"

// Borromean ring signatures: m rings over public keys P_ij, one secret per
// ring, producing a single 32-byte closure challenge e0 plus one scalar per
// ring member. Each ring's chain of challenges is seeded from e0 and closes
// back into the hash that produced it.

// borromeanHash derives the next ring challenge:
// SHA256(e || m || ridx || eidx) with the indices in 4-byte big-endian
// form. e is either the 33-byte serialization of the ring's running
// R point, or e0 at the start of a ring.
func borromeanHash(hash []byte, m []byte, e []byte, ridx, eidx int) {
	var idx [4]byte

	sha := NewSHA256()
	sha.Write(e)
	sha.Write(m)
	binary.BigEndian.PutUint32(idx[:], uint32(ridx))
	sha.Write(idx[:])
	binary.BigEndian.PutUint32(idx[:], uint32(eidx))
	sha.Write(idx[:])
	sha.Finalize(hash)
	sha.Clear()
}

// borromeanHashScalar is borromeanHash reduced into a scalar; a zero result
// (negligible probability) is reported so callers can reject.
func borromeanHashScalar(s *Scalar, m []byte, e []byte, ridx, eidx int) bool {
	var buf [32]byte
	borromeanHash(buf[:], m, e, ridx, eidx)
	s.setB32(buf[:])
	memclearBytes(buf[:])
	return !s.isZero()
}

// ringStep computes R = s*G + e*P and its 33-byte serialization
func ringStep(ctx *EcmultContext, out []byte, pub *GroupElementJacobian, e, s *Scalar) bool {
	var rgej GroupElementJacobian
	ctx.ecmult(&rgej, pub, e, s)
	if rgej.isInfinity() {
		return false
	}
	var rge GroupElementAffine
	rge.setGEJ(&rgej)
	size := 0
	return eckeyPubkeySerialize(&rge, out, &size, true)
}

// borromeanSign produces (e0, s) over the given rings. pubs is the
// flattened ring members; rsizes the ring lengths; secidx the position of
// the known secret in each ring; sec the per-ring secret keys; k the
// per-ring nonces. Entries of s at non-signer positions must be
// pre-populated by the caller; the signer positions are written. Returns
// false on a degenerate hash or nonce, in which case the caller retries
// with fresh randomness.
func borromeanSign(ecmultCtx *EcmultContext, ecmultGenCtx *EcmultGenContext,
	e0 []byte, s []Scalar, pubs []GroupElementJacobian, rsizes []int, secidx []int,
	sec []Scalar, k []Scalar, m []byte) bool {

	if len(e0) != 32 {
		panic("e0 buffer must be 32 bytes")
	}
	if len(rsizes) != len(secidx) || len(rsizes) != len(sec) || len(rsizes) != len(k) {
		panic("per-ring slice lengths must agree")
	}

	var tmp [33]byte
	var rgej GroupElementJacobian
	var rge GroupElementAffine
	var ens Scalar

	// Phase 1: walk each ring forward from its signer with the nonce,
	// collecting the final R serializations into the e0 hash.
	e0Hash := NewSHA256()
	count := 0
	for i := range rsizes {
		ecmultGenCtx.ecmultGen(&rgej, &k[i])
		rge.setGEJ(&rgej)
		size := 0
		if !eckeyPubkeySerialize(&rge, tmp[:], &size, true) {
			return false
		}
		for j := secidx[i] + 1; j < rsizes[i]; j++ {
			if !borromeanHashScalar(&ens, m, tmp[:33], i, j) {
				return false
			}
			if !ringStep(ecmultCtx, tmp[:], &pubs[count+j], &ens, &s[count+j]) {
				return false
			}
		}
		e0Hash.Write(tmp[:33])
		count += rsizes[i]
	}
	e0Hash.Write(m)
	e0Hash.Finalize(e0)
	e0Hash.Clear()

	// Phase 2: walk each ring from the start with e0 and close it at the
	// signer: s = k - e*sec.
	count = 0
	for i := range rsizes {
		if !borromeanHashScalar(&ens, m, e0, i, 0) {
			return false
		}
		for j := 0; j < secidx[i]; j++ {
			if !ringStep(ecmultCtx, tmp[:], &pubs[count+j], &ens, &s[count+j]) {
				return false
			}
			if !borromeanHashScalar(&ens, m, tmp[:33], i, j+1) {
				return false
			}
		}
		var t Scalar
		t.mul(&ens, &sec[i])
		s[count+secidx[i]].sub(&k[i], &t)
		t.clear()
		if s[count+secidx[i]].isZero() {
			return false
		}
		count += rsizes[i]
	}

	ens.clear()
	rgej.clear()
	rge.clear()
	memclearBytes(tmp[:])
	return true
}

// borromeanVerify recomputes every ring chain from e0 and the s values and
// checks that the closure hash reproduces e0. If ev is non-nil it must have
// one slot per ring member and receives the challenge scalar used at each
// position (consumed by range-proof rewinding).
func borromeanVerify(ctx *EcmultContext, e0 []byte, s []Scalar,
	pubs []GroupElementJacobian, rsizes []int, m []byte, ev []Scalar) bool {

	if len(e0) != 32 {
		panic("e0 must be 32 bytes")
	}

	var tmp [33]byte
	var ens Scalar

	e0Hash := NewSHA256()
	count := 0
	for i := range rsizes {
		if !borromeanHashScalar(&ens, m, e0, i, 0) {
			return false
		}
		for j := 0; j < rsizes[i]; j++ {
			if ev != nil {
				ev[count+j] = ens
			}
			if s[count+j].isZero() {
				return false
			}
			if !ringStep(ctx, tmp[:], &pubs[count+j], &ens, &s[count+j]) {
				return false
			}
			if j != rsizes[i]-1 {
				if !borromeanHashScalar(&ens, m, tmp[:33], i, j+1) {
					return false
				}
			} else {
				e0Hash.Write(tmp[:33])
			}
		}
		count += rsizes[i]
	}
	e0Hash.Write(m)

	var e0Computed [32]byte
	e0Hash.Finalize(e0Computed[:])
	e0Hash.Clear()

	for i := 0; i < 32; i++ {
		if e0Computed[i] != e0[i] {
			return false
		}
	}
	return true
}
