package zkp256k1

import (
	"sync"
	"unsafe"
)

// Generator H: the second generator used for value commitments. Its x
// coordinate is SHA256 of the uncompressed encoding of G, lifted to the
// curve; no party knows its discrete log with respect to G.
var (
	GeneratorH GroupElementAffine
)

func init() {
	hxBytes := []byte{
		0x50, 0x92, 0x9b, 0x74, 0xc1, 0xa0, 0x49, 0x54, 0xb7, 0x8b, 0x4b, 0x60, 0x35, 0xe9, 0x7a, 0x5e,
		0x07, 0x8a, 0x5a, 0x0f, 0x28, 0xec, 0x96, 0xd5, 0x47, 0xbf, 0xee, 0x9a, 0xce, 0x80, 0x3a, 0xc0,
	}
	hyBytes := []byte{
		0x31, 0xd3, 0xc6, 0x86, 0x39, 0x73, 0x92, 0x6e, 0x04, 0x9e, 0x63, 0x7c, 0xb1, 0xb5, 0xf4, 0x0a,
		0x36, 0xda, 0xc2, 0x8a, 0xf1, 0x76, 0x69, 0x68, 0xc3, 0x0c, 0x23, 0x13, 0xf3, 0xa3, 0x89, 0x04,
	}

	var hx, hy FieldElement
	hx.setB32(hxBytes)
	hx.normalize()
	hy.setB32(hyBytes)
	hy.normalize()
	GeneratorH.setXY(&hx, &hy)
}

// Comb configuration for H: committed values are 64-bit, so 16 windows of
// 4 bits suffice.
const (
	ecmultGen2WindowSize = 4
	ecmultGen2TableSize  = 1 << ecmultGen2WindowSize // 16
	ecmultGen2Windows    = 64 / ecmultGen2WindowSize // 16
)

// ecmultGen2Table holds the shared comb table for H, with the same
// (i+1)-multiple layout and correction point as the G comb.
type ecmultGen2Table struct {
	prec    [ecmultGen2Windows][ecmultGen2TableSize]GroupElementStorage
	negCorr GroupElementAffine
}

var (
	sharedGen2Table     *ecmultGen2Table
	sharedGen2TableOnce sync.Once
)

func buildGen2Table() *ecmultGen2Table {
	t := &ecmultGen2Table{}

	var base GroupElementJacobian
	base.setGE(&GeneratorH)

	var corr GroupElementJacobian
	corr.setInfinity()

	jac := make([]GroupElementJacobian, ecmultGen2Windows*ecmultGen2TableSize)
	for j := 0; j < ecmultGen2Windows; j++ {
		corr.addVar(&corr, &base)

		acc := base
		for i := 0; i < ecmultGen2TableSize; i++ {
			jac[j*ecmultGen2TableSize+i] = acc
			acc.addVar(&acc, &base)
		}

		for k := 0; k < ecmultGen2WindowSize; k++ {
			base.doubleVar(&base, nil)
		}
	}

	aff := make([]GroupElementAffine, len(jac))
	geSetAllGEJVar(aff, jac)
	for j := 0; j < ecmultGen2Windows; j++ {
		for i := 0; i < ecmultGen2TableSize; i++ {
			aff[j*ecmultGen2TableSize+i].toStorage(&t.prec[j][i])
		}
	}

	var corrAff GroupElementAffine
	corrAff.setGEJ(&corr)
	t.negCorr.negate(&corrAff)
	t.negCorr.x.normalize()
	t.negCorr.y.normalize()

	return t
}

func gen2Table() *ecmultGen2Table {
	sharedGen2TableOnce.Do(func() {
		sharedGen2Table = buildGen2Table()
	})
	return sharedGen2Table
}

// EcmultGen2Context holds the comb table for the value generator H
type EcmultGen2Context struct {
	table *ecmultGen2Table
	built bool
}

func (ctx *EcmultGen2Context) build() {
	if ctx.built {
		return
	}
	ctx.table = gen2Table()
	ctx.built = true
}

func (ctx *EcmultGen2Context) isBuilt() bool {
	return ctx.built
}

func (ctx *EcmultGen2Context) clone() EcmultGen2Context {
	return *ctx
}

func (ctx *EcmultGen2Context) clear() {
	ctx.table = nil
	ctx.built = false
}

// scanWindows adds the comb selection for the 16 windows of the 64-bit value
// to r, scanning every table entry with a branchless select.
func (ctx *EcmultGen2Context) scanWindows(r *GroupElementJacobian, value uint64) {
	var adds GroupElementStorage
	var add GroupElementAffine

	for j := 0; j < ecmultGen2Windows; j++ {
		bits := uint32(value>>(j*ecmultGen2WindowSize)) & (ecmultGen2TableSize - 1)
		for i := 0; i < ecmultGen2TableSize; i++ {
			adds.cmov(&ctx.table.prec[j][i], boolToInt(uint32(i) == bits))
		}
		add.fromStorage(&adds)
		r.addGE(r, &add)
	}

	memclear(unsafe.Pointer(&adds), unsafe.Sizeof(adds))
	add.clear()
}

// ecmultGen2 computes r = value*H in constant time
func (ctx *EcmultGen2Context) ecmultGen2(r *GroupElementJacobian, value uint64) {
	if !ctx.built {
		panic("ecmult_gen2 context not built")
	}

	r.setGE(&ctx.table.negCorr)
	ctx.scanWindows(r, value)
}

// ecmultGen2Small computes r = value*H by plain double-and-add.
// Variable-time; for public values only (commitment tallies).
func (ctx *EcmultGen2Context) ecmultGen2Small(r *GroupElementJacobian, value uint64) {
	if !ctx.built {
		panic("ecmult_gen2 context not built")
	}

	r.setInfinity()
	if value == 0 {
		return
	}

	top := 63
	for (value>>uint(top))&1 == 0 {
		top--
	}
	for i := top; i >= 0; i-- {
		r.doubleVar(r, nil)
		if (value>>uint(i))&1 != 0 {
			r.addGEVar(r, &GeneratorH, nil)
		}
	}
}

// ecmultGenGen2 computes r = gn*G + value*H in constant time, sharing one
// accumulator between the G comb (blinded) and the H comb.
func ecmultGenGen2(genCtx *EcmultGenContext, gen2Ctx *EcmultGen2Context, r *GroupElementJacobian, gn *Scalar, value uint64) {
	if !genCtx.built {
		panic("ecmult_gen context not built")
	}
	if !gen2Ctx.built {
		panic("ecmult_gen2 context not built")
	}

	var gnb Scalar
	gnb.add(gn, &genCtx.blind)

	*r = genCtx.initial
	genCtx.scanWindows(r, &gnb)
	gen2Ctx.scanWindows(r, value)
	r.addGE(r, &gen2Ctx.table.negCorr)

	gnb.clear()
}
