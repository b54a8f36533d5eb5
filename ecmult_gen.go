package zkp256k1

import (
	"crypto/rand"
	"sync"
	"unsafe"
)

// Comb configuration for constant-time generator multiplication: 64 windows
// of 4 bits, each with all 16 possible partial sums precomputed.
const (
	ecmultGenWindowSize = 4
	ecmultGenTableSize  = 1 << ecmultGenWindowSize                          // 16
	ecmultGenWindows    = (256 + ecmultGenWindowSize - 1) / ecmultGenWindowSize // 64
)

// ecmultGenTable holds the shared, immutable comb table for G.
// prec[j][i] = (i+1) * 16^j * G, so no entry is ever the point at infinity;
// the off-by-one is compensated by folding corr = sum_j 16^j * G into the
// per-context initial point.
type ecmultGenTable struct {
	prec    [ecmultGenWindows][ecmultGenTableSize]GroupElementStorage
	negCorr GroupElementAffine
}

var (
	sharedGenTable     *ecmultGenTable
	sharedGenTableOnce sync.Once
)

func buildGenTable() *ecmultGenTable {
	t := &ecmultGenTable{}

	// base_j = 16^j * G
	var base GroupElementJacobian
	base.setGE(&Generator)

	var corr GroupElementJacobian
	corr.setInfinity()

	jac := make([]GroupElementJacobian, ecmultGenWindows*ecmultGenTableSize)
	for j := 0; j < ecmultGenWindows; j++ {
		corr.addVar(&corr, &base)

		// (i+1) * base for i = 0..15
		acc := base
		for i := 0; i < ecmultGenTableSize; i++ {
			jac[j*ecmultGenTableSize+i] = acc
			acc.addVar(&acc, &base)
		}

		// base *= 16
		for k := 0; k < ecmultGenWindowSize; k++ {
			base.doubleVar(&base, nil)
		}
	}

	// One inversion for the whole table
	aff := make([]GroupElementAffine, len(jac))
	geSetAllGEJVar(aff, jac)
	for j := 0; j < ecmultGenWindows; j++ {
		for i := 0; i < ecmultGenTableSize; i++ {
			aff[j*ecmultGenTableSize+i].toStorage(&t.prec[j][i])
		}
	}

	var corrAff GroupElementAffine
	corrAff.setGEJ(&corr)
	t.negCorr.negate(&corrAff)
	t.negCorr.x.normalize()
	t.negCorr.y.normalize()

	return t
}

func genTable() *ecmultGenTable {
	sharedGenTableOnce.Do(func() {
		sharedGenTable = buildGenTable()
	})
	return sharedGenTable
}

// EcmultGenContext holds the comb table for G together with the per-context
// blinding state: a scalar blind and initial = -blind*G - corr, so the
// running accumulator inside ecmultGen never holds the true multiple.
type EcmultGenContext struct {
	table   *ecmultGenTable
	blind   Scalar
	initial GroupElementJacobian
	built   bool
}

func (ctx *EcmultGenContext) build() {
	if ctx.built {
		return
	}
	ctx.table = genTable()
	ctx.reset()
	ctx.built = true

	// Seed the blinding from the system RNG. On failure the context stays in
	// the deterministic reset state, which is still correct, just unblinded;
	// the caller can randomize later.
	var seed [32]byte
	if _, err := rand.Read(seed[:]); err == nil {
		ctx.blindReseed(seed[:])
		memclear(unsafe.Pointer(&seed[0]), 32)
	}
}

func (ctx *EcmultGenContext) isBuilt() bool {
	return ctx.built
}

// reset returns the blinding state to blind = 1, initial = -G - corr
func (ctx *EcmultGenContext) reset() {
	ctx.blind = ScalarOne
	var negG GroupElementAffine
	negG.negate(&Generator)
	ctx.initial.setGE(&negG)
	ctx.initial.addGEVar(&ctx.initial, &ctx.table.negCorr, nil)
}

func (ctx *EcmultGenContext) clone() EcmultGenContext {
	// The table pointer is shared; blinding state is copied by value.
	return *ctx
}

func (ctx *EcmultGenContext) clear() {
	ctx.blind.clear()
	ctx.initial.clear()
	ctx.table = nil
	ctx.built = false
}

// ecmultGen computes r = gn*G in constant time. Every window scans all 16
// table entries with a branchless select, and the accumulator runs on
// gn + blind starting from -blind*G, so neither the memory access pattern
// nor the intermediate values depend on gn alone.
func (ctx *EcmultGenContext) ecmultGen(r *GroupElementJacobian, gn *Scalar) {
	if !ctx.built {
		panic("ecmult_gen context not built")
	}

	var gnb Scalar
	gnb.add(gn, &ctx.blind)

	*r = ctx.initial
	ctx.scanWindows(r, &gnb)

	gnb.clear()
}

// scanWindows adds the comb selection for all 64 windows of gnb to r
func (ctx *EcmultGenContext) scanWindows(r *GroupElementJacobian, gnb *Scalar) {
	var adds GroupElementStorage
	var add GroupElementAffine

	for j := 0; j < ecmultGenWindows; j++ {
		bits := gnb.getBits(uint(j*ecmultGenWindowSize), ecmultGenWindowSize)
		for i := 0; i < ecmultGenTableSize; i++ {
			adds.cmov(&ctx.table.prec[j][i], boolToInt(uint32(i) == bits))
		}
		add.fromStorage(&adds)
		r.addGE(r, &add)
	}

	memclear(unsafe.Pointer(&adds), unsafe.Sizeof(adds))
	add.clear()
}

// blindReseed rederives the blinding scalar and initial point from the
// current blind chained with an optional caller-provided 32-byte seed.
// A nil seed resets to the deterministic unblinded state first.
func (ctx *EcmultGenContext) blindReseed(seed32 []byte) {
	if !ctx.built {
		panic("ecmult_gen context not built")
	}
	if seed32 != nil && len(seed32) != 32 {
		panic("blinding seed must be 32 bytes")
	}

	if seed32 == nil {
		ctx.reset()
	}

	// Chain the prior blinding value forward by including it in the hash
	var keydata [64]byte
	ctx.blind.getB32(keydata[:32])
	keyLen := 32
	if seed32 != nil {
		copy(keydata[32:], seed32)
		keyLen = 64
	}
	rng := NewRFC6979HMACSHA256(keydata[:keyLen])
	memclear(unsafe.Pointer(&keydata[0]), 64)

	var nonce32 [32]byte

	// Randomize the projection to defend against side channels on Z
	var s FieldElement
	for {
		rng.Generate(nonce32[:])
		if s.setB32(nonce32[:]) {
			continue
		}
		s.normalize()
		if !s.isZero() {
			break
		}
	}
	ctx.initial.rescale(&s)
	s.clear()

	var b Scalar
	for {
		rng.Generate(nonce32[:])
		// A blinding value of 0 works but would undermine the projection hardening
		if !b.setB32(nonce32[:]) && !b.isZero() {
			break
		}
	}
	rng.Clear()
	memclear(unsafe.Pointer(&nonce32[0]), 32)

	var gb GroupElementJacobian
	ctx.ecmultGen(&gb, &b)
	gb.addGEVar(&gb, &ctx.table.negCorr, nil)

	b.negate(&b)
	ctx.blind = b
	ctx.initial = gb

	b.clear()
	gb.clear()
}
