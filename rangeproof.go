package zkp256k1

import (
	"math/bits"
	"unsafe"
)

// RangeproofMaxSize is the largest possible proof serialization: a 64-bit
// mantissa with a nonzero minimum produces 10 header bytes, a 4-byte parity
// bitmap, 31 sub-commitment x coordinates, e0 and 128 ring scalars.
const RangeproofMaxSize = 10 + 4 + 31*32 + 32 + 128*32 // 5134

// RangeproofMaxMessage is the message capacity of a proof: one 32-byte
// chunk per ring member slot. Chunks that fall on a ring's signing slot are
// consumed by the signature and read back as zero on rewind.
const RangeproofMaxMessage = 4096

// RangeproofContext holds the helper table of 4^i multiples of H used to
// build the per-digit ring keys.
type RangeproofContext struct {
	hPow  [32]GroupElementAffine
	built bool
}

func (ctx *RangeproofContext) build() {
	if ctx.built {
		return
	}

	jac := make([]GroupElementJacobian, 32)
	var base GroupElementJacobian
	base.setGE(&GeneratorH)
	for i := 0; i < 32; i++ {
		jac[i] = base
		base.doubleVar(&base, nil)
		base.doubleVar(&base, nil)
	}
	aff := make([]GroupElementAffine, 32)
	geSetAllGEJVar(aff, jac)
	copy(ctx.hPow[:], aff)

	ctx.built = true
}

func (ctx *RangeproofContext) isBuilt() bool {
	return ctx.built
}

func (ctx *RangeproofContext) clone() RangeproofContext {
	return *ctx
}

func (ctx *RangeproofContext) clear() {
	*ctx = RangeproofContext{}
}

// Header flag bits
const (
	rangeproofFlagHasMin = 0x80
	rangeproofFlagPublic = 0x40
	rangeproofExpMask    = 0x1F
)

// rangeproofHeader is the decoded proof header plus the ring geometry it
// implies.
type rangeproofHeader struct {
	exp       int // -1 when the value is public
	mantissa  int // 0 when public
	minValue  uint64
	publicVal uint64 // value - minValue, present only when public
	isPublic  bool
	scale     uint64
	headerLen int
	rings     int
	rsizes    []int
	npub      int
}

func pow10(e int) uint64 {
	r := uint64(1)
	for i := 0; i < e; i++ {
		r *= 10
	}
	return r
}

// mulCheck returns a*b and whether it fits in 64 bits
func mulCheck(a, b uint64) (uint64, bool) {
	hi, lo := bits.Mul64(a, b)
	return lo, hi == 0
}

// rangeWidth computes scale*(2^mantissa - 1), reporting overflow
func rangeWidth(scale uint64, mantissa int) (uint64, bool) {
	var span uint64
	if mantissa >= 64 {
		span = ^uint64(0)
	} else {
		span = (uint64(1) << uint(mantissa)) - 1
	}
	return mulCheck(scale, span)
}

// computeRings derives the ring geometry from the mantissa: one ring per
// base-4 digit, the last ring shrinking to two members for an odd mantissa.
func (h *rangeproofHeader) computeRings() {
	if h.isPublic {
		h.rings = 1
		h.rsizes = []int{1}
		h.npub = 1
		return
	}
	h.rings = (h.mantissa + 1) / 2
	h.rsizes = make([]int, h.rings)
	h.npub = 0
	for i := range h.rsizes {
		h.rsizes[i] = 4
		if i == h.rings-1 && h.mantissa%2 == 1 {
			h.rsizes[i] = 2
		}
		h.npub += h.rsizes[i]
	}
}

// layout offsets within the serialized proof
func (h *rangeproofHeader) bitmapLen() int {
	return (h.rings - 1 + 7) / 8
}

func (h *rangeproofHeader) totalLen() int {
	return h.headerLen + h.bitmapLen() + (h.rings-1)*32 + 32 + h.npub*32
}

// encode writes the header bytes and records headerLen
func (h *rangeproofHeader) encode(proof []byte) {
	flags := byte(0)
	if h.minValue != 0 {
		flags |= rangeproofFlagHasMin
	}
	off := 2
	if h.isPublic {
		flags |= rangeproofFlagPublic
		proof[1] = 0
	} else {
		flags |= byte(h.exp) & rangeproofExpMask
		proof[1] = byte(h.mantissa - 1)
	}
	proof[0] = flags
	if h.minValue != 0 {
		writeBE64(proof[off:off+8], h.minValue)
		off += 8
	}
	if h.isPublic {
		writeBE64(proof[off:off+8], h.publicVal)
		off += 8
	}
	h.headerLen = off
}

// rangeproofHeaderParse decodes the proof header and ring geometry
func rangeproofHeaderParse(proof []byte) (*rangeproofHeader, bool) {
	if len(proof) < 2 {
		return nil, false
	}
	h := &rangeproofHeader{}
	flags := proof[0]
	if flags&0x20 != 0 {
		return nil, false
	}
	h.isPublic = flags&rangeproofFlagPublic != 0
	exp := int(flags & rangeproofExpMask)
	off := 2

	if h.isPublic {
		if exp != 0 || proof[1] != 0 {
			return nil, false
		}
		h.exp = -1
		h.mantissa = 0
		h.scale = 1
	} else {
		if exp > 18 {
			return nil, false
		}
		h.exp = exp
		h.mantissa = int(proof[1]) + 1
		if h.mantissa > 64 {
			return nil, false
		}
		h.scale = pow10(exp)
	}

	if flags&rangeproofFlagHasMin != 0 {
		if len(proof) < off+8 {
			return nil, false
		}
		h.minValue = readBE64(proof[off : off+8])
		if h.minValue == 0 {
			return nil, false
		}
		off += 8
	}
	if h.isPublic {
		if len(proof) < off+8 {
			return nil, false
		}
		h.publicVal = readBE64(proof[off : off+8])
		off += 8
	}
	h.headerLen = off
	h.computeRings()
	return h, true
}

// provenRange computes the [min, max] interval the proof covers
func (h *rangeproofHeader) provenRange() (uint64, uint64, bool) {
	if h.isPublic {
		v := h.minValue + h.publicVal
		if v < h.minValue {
			return 0, 0, false
		}
		return v, v, true
	}
	rw, ok := rangeWidth(h.scale, h.mantissa)
	if !ok {
		return 0, 0, false
	}
	max := h.minValue + rw
	if max < h.minValue {
		return 0, 0, false
	}
	return h.minValue, max, true
}

// ringWeight computes scale*4^i, the value of a unit digit in ring i
func (h *rangeproofHeader) ringWeight(i int) (uint64, bool) {
	if 2*i >= 64 {
		return 0, false
	}
	return mulCheck(h.scale, uint64(1)<<uint(2*i))
}

// pointMulSmallVar computes r = v*base by double-and-add.
// Variable-time; v is always public (a digit weight or tally excess).
func pointMulSmallVar(r *GroupElementJacobian, base *GroupElementAffine, v uint64) {
	r.setInfinity()
	if v == 0 {
		return
	}
	for i := bits.Len64(v) - 1; i >= 0; i-- {
		r.doubleVar(r, nil)
		if (v>>uint(i))&1 != 0 {
			r.addGEVar(r, base, nil)
		}
	}
}

// rangeproofStream derives the deterministic per-proof randomness: the ring
// blinding factors followed by one 32-byte draw per ring member slot, all
// keyed on nonce || commit || header.
func rangeproofStream(nonce, commit, header []byte) *RFC6979HMACSHA256 {
	keydata := make([]byte, 0, 32+33+len(header))
	keydata = append(keydata, nonce...)
	keydata = append(keydata, commit...)
	keydata = append(keydata, header...)
	rng := NewRFC6979HMACSHA256(keydata)
	memclearBytes(keydata)
	return rng
}

// rangeproofPubkeys builds the flattened ring member keys
// P_ij = C_i - j*w_i*H, where C_i runs over the stored sub-commitments and
// the derived last commitment.
func rangeproofPubkeys(rpCtx *RangeproofContext, h *rangeproofHeader, subs []GroupElementAffine, last *GroupElementJacobian) ([]GroupElementJacobian, bool) {
	pubs := make([]GroupElementJacobian, h.npub)
	count := 0
	for i := 0; i < h.rings; i++ {
		if i == h.rings-1 {
			pubs[count] = *last
		} else {
			pubs[count].setGE(&subs[i])
		}
		if h.rsizes[i] > 1 {
			if _, ok := h.ringWeight(i); !ok {
				return nil, false
			}
			// w*H = scale * (4^i*H) via the precomputed power point
			var whj GroupElementJacobian
			pointMulSmallVar(&whj, &rpCtx.hPow[i], h.scale)
			var wh GroupElementAffine
			wh.setGEJ(&whj)
			var negWH GroupElementAffine
			negWH.negate(&wh)
			for j := 1; j < h.rsizes[i]; j++ {
				pubs[count+j].addGEVar(&pubs[count+j-1], &negWH, nil)
			}
		}
		count += h.rsizes[i]
	}
	return pubs, true
}

// rangeproofMessageHash computes the Fiat-Shamir statement binding: the
// commitment, header and all stored sub-commitments.
func rangeproofMessageHash(m []byte, commit, proofPrefix []byte) {
	sha := NewSHA256()
	sha.Write(commit)
	sha.Write(proofPrefix)
	sha.Finalize(m)
	sha.Clear()
}

// RangeproofSign authors a proof that the value committed to by commit
// (with blinding factor blind) lies in [minValue, minValue + scale*(2^m-1)].
// exp selects the base-10 scale (-1 reveals the value exactly), minBits the
// minimum mantissa width. message, up to 4096 bytes, is XORed into the
// proof one 32-byte chunk per ring member slot and recovered with the nonce
// by RangeproofRewind. Only the proof's own slots (32 bytes per ring member)
// carry message bytes: bytes past them are dropped, and the chunk that falls
// on each ring's signing slot is not carried. proof must be able to hold the
// serialization; on success *plen is set to the written size.
//
// Can fail for rare degenerate nonce-derived values; retry with a
// different nonce.
func RangeproofSign(ctx *Context, proof []byte, plen *int, minValue uint64, commit []byte, blind []byte, nonce []byte, exp int, minBits int, value uint64, message []byte) int {
	if !ctx.ecmultCtx.isBuilt() {
		panic("context not built for verification")
	}
	if !ctx.ecmultGenCtx.isBuilt() {
		panic("context not built for signing")
	}
	if !ctx.ecmultGen2Ctx.isBuilt() {
		panic("context not built for commitment")
	}
	if !ctx.rangeproofCtx.isBuilt() {
		panic("context not built for range proofs")
	}
	if len(commit) != 33 {
		panic("commitment must be 33 bytes")
	}
	if len(blind) != 32 {
		panic("blinding factor must be 32 bytes")
	}
	if len(nonce) != 32 {
		panic("nonce must be 32 bytes")
	}
	if len(message) > RangeproofMaxMessage {
		return 0
	}
	if exp < -1 || exp > 18 {
		return 0
	}
	if minBits < 0 || minBits > 64 {
		return 0
	}
	if value < minValue {
		return 0
	}
	if (minValue != 0 || exp > 0) && value >= uint64(1)<<63 {
		return 0
	}

	var commitPoint GroupElementAffine
	if !pedersenCommitmentParse(&commitPoint, commit) {
		return 0
	}

	h := &rangeproofHeader{}
	var v uint64
	if exp == -1 {
		h.isPublic = true
		h.exp = -1
		h.scale = 1
		h.minValue = minValue
		h.publicVal = value - minValue
	} else {
		v = value - minValue
		h.scale = pow10(exp)
		if exp > 0 {
			// Low base-10 digits below the scale are made public through
			// the minimum
			vv := v / h.scale
			minValue += v - vv*h.scale
			v = vv
		}
		h.exp = exp
		mantissa := bits.Len64(v)
		if mantissa < 1 {
			mantissa = 1
		}
		if minBits > mantissa {
			mantissa = minBits
		}
		h.mantissa = mantissa
		rw, ok := rangeWidth(h.scale, mantissa)
		if !ok || minValue > ^uint64(0)-rw {
			return 0
		}
		h.minValue = minValue
	}
	h.computeRings()

	var hbuf [18]byte
	h.encode(hbuf[:])
	if len(proof) < h.totalLen() || *plen < h.totalLen() {
		return 0
	}
	copy(proof, hbuf[:h.headerLen])

	// Per-ring secrets: digits of v
	secidx := make([]int, h.rings)
	for i := 0; i < h.rings-1; i++ {
		secidx[i] = int((v >> uint(2*i)) & 3)
	}
	if !h.isPublic {
		secidx[h.rings-1] = int(v >> uint(2*(h.rings-1)))
	}

	var blindTotal Scalar
	if blindTotal.setB32(blind) {
		return 0
	}

	// Deterministic stream: ring blinds, then one draw per member slot
	rng := rangeproofStream(nonce, commit, proof[:h.headerLen])
	defer rng.Clear()

	var draw [32]byte
	ringBlinds := make([]Scalar, h.rings)
	var blindSum Scalar
	for i := 0; i < h.rings-1; i++ {
		rng.Generate(draw[:])
		ringBlinds[i].setB32(draw[:])
		if ringBlinds[i].isZero() {
			return 0
		}
		blindSum.add(&blindSum, &ringBlinds[i])
	}
	ringBlinds[h.rings-1].sub(&blindTotal, &blindSum)
	if ringBlinds[h.rings-1].isZero() {
		return 0
	}
	blindSum.clear()
	blindTotal.clear()

	// Sub-commitments for all but the last ring
	bitmapOff := h.headerLen
	xsOff := bitmapOff + h.bitmapLen()
	for i := 0; i < h.bitmapLen(); i++ {
		proof[bitmapOff+i] = 0
	}
	subs := make([]GroupElementAffine, h.rings-1)
	for i := 0; i < h.rings-1; i++ {
		w, ok := h.ringWeight(i)
		if !ok {
			return 0
		}
		dw, ok := mulCheck(w, uint64(secidx[i]))
		if !ok {
			return 0
		}
		var cj GroupElementJacobian
		ecmultGenGen2(&ctx.ecmultGenCtx, &ctx.ecmultGen2Ctx, &cj, &ringBlinds[i], dw)
		if cj.isInfinity() {
			return 0
		}
		subs[i].setGEJ(&cj)
		cj.clear()
		subs[i].x.normalizeVar()
		subs[i].y.normalizeVar()
		subs[i].x.getB32(proof[xsOff+32*i : xsOff+32*i+32])
		if subs[i].y.isOdd() {
			proof[bitmapOff+i/8] |= 1 << uint(i%8)
		}
	}

	// Derived last ring base: C - offset*H - sum of stored sub-commitments
	offset := h.minValue
	if h.isPublic {
		offset += h.publicVal
	}
	var last GroupElementJacobian
	last.setGE(&commitPoint)
	if offset != 0 {
		var oh GroupElementJacobian
		ctx.ecmultGen2Ctx.ecmultGen2Small(&oh, offset)
		oh.negate(&oh)
		last.addVar(&last, &oh)
	}
	for i := range subs {
		var negSub GroupElementAffine
		negSub.negate(&subs[i])
		last.addGEVar(&last, &negSub, nil)
	}
	if last.isInfinity() {
		return 0
	}

	pubs, ok := rangeproofPubkeys(&ctx.rangeproofCtx, h, subs, &last)
	if !ok {
		return 0
	}

	var m [32]byte
	e0Off := xsOff + (h.rings-1)*32
	sOff := e0Off + 32
	rangeproofMessageHash(m[:], commit, proof[:e0Off])

	// Slot draws: the signer slot of each ring yields the nonce, the others
	// the s values carrying the embedded message
	s := make([]Scalar, h.npub)
	k := make([]Scalar, h.rings)
	count := 0
	failed := false
	for i := 0; i < h.rings; i++ {
		for j := 0; j < h.rsizes[i]; j++ {
			rng.Generate(draw[:])
			if j == secidx[i] {
				k[i].setB32(draw[:])
				if k[i].isZero() {
					failed = true
				}
			} else {
				slot := count + j
				for b := 0; b < 32; b++ {
					off := slot*32 + b
					if off < len(message) {
						draw[b] ^= message[off]
					}
				}
				s[slot].setB32(draw[:])
				if s[slot].isZero() {
					failed = true
				}
			}
		}
		count += h.rsizes[i]
	}
	memclear(unsafe.Pointer(&draw[0]), 32)
	if failed {
		clearScalars(s)
		clearScalars(k)
		clearScalars(ringBlinds)
		return 0
	}

	if !borromeanSign(&ctx.ecmultCtx, &ctx.ecmultGenCtx, proof[e0Off:e0Off+32], s, pubs, h.rsizes, secidx, ringBlinds, k, m[:]) {
		clearScalars(s)
		clearScalars(k)
		clearScalars(ringBlinds)
		return 0
	}

	for i := range s {
		s[i].getB32(proof[sOff+32*i : sOff+32*i+32])
	}

	clearScalars(s)
	clearScalars(k)
	clearScalars(ringBlinds)

	*plen = h.totalLen()
	return 1
}

func clearScalars(s []Scalar) {
	for i := range s {
		s[i].clear()
	}
}

// rangeproofVerifyImpl is the shared verification path. When rewinding,
// nonce must be the prover's nonce and the recovered value, blinding factor
// and message are returned through the out parameters.
func rangeproofVerifyImpl(ctx *Context, minOut, maxOut *uint64, commit []byte, proof []byte,
	rewind bool, nonce []byte, blindOut []byte, valueOut *uint64, messageOut []byte, outlen *int) int {

	h, ok := rangeproofHeaderParse(proof)
	if !ok || h.totalLen() != len(proof) {
		return 0
	}

	var commitPoint GroupElementAffine
	if !pedersenCommitmentParse(&commitPoint, commit) {
		return 0
	}

	min, max, ok := h.provenRange()
	if !ok {
		return 0
	}

	// Stored sub-commitments
	bitmapOff := h.headerLen
	xsOff := bitmapOff + h.bitmapLen()
	subs := make([]GroupElementAffine, h.rings-1)
	for i := range subs {
		var x FieldElement
		if x.setB32(proof[xsOff+32*i : xsOff+32*i+32]) {
			return 0
		}
		odd := proof[bitmapOff+i/8]&(1<<uint(i%8)) != 0
		if !subs[i].setXOVar(&x, odd) {
			return 0
		}
	}
	// Reserved bitmap bits must be zero
	for i := h.rings - 1; i < h.bitmapLen()*8; i++ {
		if proof[bitmapOff+i/8]&(1<<uint(i%8)) != 0 {
			return 0
		}
	}

	// Derived last ring base
	offset := h.minValue
	if h.isPublic {
		offset += h.publicVal
	}
	var last GroupElementJacobian
	last.setGE(&commitPoint)
	if offset != 0 {
		var oh GroupElementJacobian
		ctx.ecmultGen2Ctx.ecmultGen2Small(&oh, offset)
		oh.negate(&oh)
		last.addVar(&last, &oh)
	}
	for i := range subs {
		var negSub GroupElementAffine
		negSub.negate(&subs[i])
		last.addGEVar(&last, &negSub, nil)
	}
	if last.isInfinity() {
		return 0
	}

	pubs, ok := rangeproofPubkeys(&ctx.rangeproofCtx, h, subs, &last)
	if !ok {
		return 0
	}

	e0Off := xsOff + (h.rings-1)*32
	sOff := e0Off + 32

	s := make([]Scalar, h.npub)
	for i := range s {
		if s[i].setB32(proof[sOff+32*i : sOff+32*i+32]) {
			return 0
		}
	}

	var m [32]byte
	rangeproofMessageHash(m[:], commit, proof[:e0Off])

	var ev []Scalar
	if rewind {
		ev = make([]Scalar, h.npub)
	}
	if !borromeanVerify(&ctx.ecmultCtx, proof[e0Off:e0Off+32], s, pubs, h.rsizes, m[:], ev) {
		return 0
	}

	if minOut != nil {
		*minOut = min
	}
	if maxOut != nil {
		*maxOut = max
	}
	if !rewind {
		return 1
	}

	return rangeproofRewindInner(ctx, h, commit, proof, nonce, s, ev, blindOut, valueOut, messageOut, outlen)
}

// rangeproofRewindInner re-derives the prover's deterministic stream and
// recovers the digits, blinding factor, value and embedded message.
func rangeproofRewindInner(ctx *Context, h *rangeproofHeader, commit, proof []byte, nonce []byte,
	s []Scalar, ev []Scalar, blindOut []byte, valueOut *uint64, messageOut []byte, outlen *int) int {

	rng := rangeproofStream(nonce, commit, proof[:h.headerLen])
	defer rng.Clear()

	var draw [32]byte
	ringBlinds := make([]Scalar, h.rings-1)
	for i := range ringBlinds {
		rng.Generate(draw[:])
		ringBlinds[i].setB32(draw[:])
	}

	// Slot draws, retained for signer detection and message recovery
	raw := make([][32]byte, h.npub)
	for i := range raw {
		rng.Generate(raw[i][:])
	}

	// Signing-slot chunks carry no message and read back as zero
	if messageOut != nil {
		n := h.npub * 32
		if n > len(messageOut) {
			n = len(messageOut)
		}
		memclearBytes(messageOut[:n])
	}

	writeMessage := func(slot int) {
		if messageOut == nil {
			return
		}
		sOff := h.headerLen + h.bitmapLen() + (h.rings-1)*32 + 32
		for b := 0; b < 32; b++ {
			off := slot*32 + b
			if off >= len(messageOut) {
				return
			}
			messageOut[off] = proof[sOff+32*slot+b] ^ raw[slot][b]
		}
	}

	var v uint64
	var blindAcc Scalar
	count := 0
	for i := 0; i < h.rings-1; i++ {
		found := -1
		var kc, expect, t Scalar
		for j := 0; j < h.rsizes[i]; j++ {
			kc.setB32(raw[count+j][:])
			t.mul(&ev[count+j], &ringBlinds[i])
			expect.sub(&kc, &t)
			if expect.equal(&s[count+j]) {
				found = j
				break
			}
		}
		kc.clear()
		expect.clear()
		t.clear()
		if found < 0 {
			clearScalars(ringBlinds)
			blindAcc.clear()
			return 0
		}
		v |= uint64(found) << uint(2*i)
		blindAcc.add(&blindAcc, &ringBlinds[i])
		for j := 0; j < h.rsizes[i]; j++ {
			if j != found {
				writeMessage(count + j)
			}
		}
		count += h.rsizes[i]
	}

	// Last ring: the blinding factor is unknown, so solve for it per
	// candidate digit and confirm against the outer commitment.
	lastRing := h.rings - 1
	foundLast := -1
	var totalBlind Scalar
	var totalValue uint64
	for j := 0; j < h.rsizes[lastRing]; j++ {
		var kc, diff, einv, bc Scalar
		kc.setB32(raw[count+j][:])
		diff.sub(&kc, &s[count+j])
		einv.inverseVar(&ev[count+j])
		bc.mul(&diff, &einv)
		kc.clear()
		diff.clear()

		vc := v
		if !h.isPublic {
			vc |= uint64(j) << uint(2*lastRing)
		}
		candValue := h.minValue + h.scale*vc
		if h.isPublic {
			candValue = h.minValue + h.publicVal
		}

		var cand Scalar
		cand.add(&blindAcc, &bc)
		bc.clear()

		var cj GroupElementJacobian
		ecmultGenGen2(&ctx.ecmultGenCtx, &ctx.ecmultGen2Ctx, &cj, &cand, candValue)
		var ser [33]byte
		okCommit := false
		if !cj.isInfinity() {
			var cge GroupElementAffine
			cge.setGEJ(&cj)
			if pedersenCommitmentSerialize(ser[:], &cge) {
				okCommit = true
				for b := 0; b < 33; b++ {
					if ser[b] != commit[b] {
						okCommit = false
						break
					}
				}
			}
			cge.clear()
		}
		cj.clear()

		if okCommit {
			foundLast = j
			totalBlind = cand
			totalValue = candValue
			break
		}
		cand.clear()
	}
	clearScalars(ringBlinds)
	blindAcc.clear()
	memclear(unsafe.Pointer(&draw[0]), 32)

	if foundLast < 0 {
		return 0
	}
	for j := 0; j < h.rsizes[lastRing]; j++ {
		if j != foundLast {
			writeMessage(count + j)
		}
	}

	if blindOut != nil {
		totalBlind.getB32(blindOut)
	}
	totalBlind.clear()
	if valueOut != nil {
		*valueOut = totalValue
	}
	if outlen != nil {
		n := h.npub * 32
		if messageOut != nil && n > len(messageOut) {
			n = len(messageOut)
		}
		if messageOut == nil {
			n = 0
		}
		*outlen = n
	}
	for i := range raw {
		memclear(unsafe.Pointer(&raw[i][0]), 32)
	}
	return 1
}

// RangeproofVerify checks a proof against a commitment. On success the
// proven range is stored in minValue and maxValue. Requires a context built
// for verification, commitment and range proofs.
func RangeproofVerify(ctx *Context, minValue, maxValue *uint64, commit []byte, proof []byte) int {
	if !ctx.ecmultCtx.isBuilt() {
		panic("context not built for verification")
	}
	if !ctx.ecmultGen2Ctx.isBuilt() {
		panic("context not built for commitment")
	}
	if !ctx.rangeproofCtx.isBuilt() {
		panic("context not built for range proofs")
	}
	if len(commit) != 33 {
		panic("commitment must be 33 bytes")
	}
	return rangeproofVerifyImpl(ctx, minValue, maxValue, commit, proof, false, nil, nil, nil, nil, nil)
}

// RangeproofRewind verifies a proof and, given the prover's nonce, recovers
// the committed value, blinding factor and embedded message. messageOut may
// be nil to skip message recovery; otherwise up to 4096 bytes are written
// and *outlen reports the recovered length.
func RangeproofRewind(ctx *Context, blindOut []byte, valueOut *uint64, messageOut []byte, outlen *int,
	nonce []byte, minValue, maxValue *uint64, commit []byte, proof []byte) int {
	if !ctx.ecmultCtx.isBuilt() {
		panic("context not built for verification")
	}
	if !ctx.ecmultGenCtx.isBuilt() {
		panic("context not built for signing")
	}
	if !ctx.ecmultGen2Ctx.isBuilt() {
		panic("context not built for commitment")
	}
	if !ctx.rangeproofCtx.isBuilt() {
		panic("context not built for range proofs")
	}
	if len(commit) != 33 {
		panic("commitment must be 33 bytes")
	}
	if len(nonce) != 32 {
		panic("nonce must be 32 bytes")
	}
	if blindOut != nil && len(blindOut) != 32 {
		panic("blinding output buffer must be 32 bytes")
	}
	return rangeproofVerifyImpl(ctx, minValue, maxValue, commit, proof, true, nonce, blindOut, valueOut, messageOut, outlen)
}

// RangeproofInfo extracts the exponent, mantissa width and value bounds
// from a proof without verifying it.
func RangeproofInfo(ctx *Context, exp, mantissa *int, minValue, maxValue *uint64, proof []byte) int {
	h, ok := rangeproofHeaderParse(proof)
	if !ok || h.totalLen() != len(proof) {
		return 0
	}
	min, max, ok := h.provenRange()
	if !ok {
		return 0
	}
	*exp = h.exp
	*mantissa = h.mantissa
	*minValue = min
	*maxValue = max
	return 1
}
