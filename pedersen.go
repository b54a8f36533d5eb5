package zkp256k1

// pedersenCommitmentSerialize writes the 33-byte commitment encoding of a
// point: header 0x08 | y-parity, then the x coordinate. The distinct header
// keeps commitments and public keys apart on the wire.
func pedersenCommitmentSerialize(commit []byte, ge *GroupElementAffine) bool {
	if ge.isInfinity() {
		return false
	}
	ge.x.normalizeVar()
	ge.y.normalizeVar()
	commit[0] = 0x08
	if ge.y.isOdd() {
		commit[0] = 0x09
	}
	ge.x.getB32(commit[1:33])
	return true
}

// pedersenCommitmentParse parses a 33-byte commitment
func pedersenCommitmentParse(ge *GroupElementAffine, commit []byte) bool {
	if len(commit) != 33 || (commit[0] != 0x08 && commit[0] != 0x09) {
		return false
	}
	var x FieldElement
	if x.setB32(commit[1:33]) {
		return false
	}
	return ge.setXOVar(&x, commit[0] == 0x09)
}

// PedersenCommit creates the commitment blind*G + value*H and serializes it
// into commit (33 bytes). Requires a context built for signing and
// commitment. Returns 0 on an out-of-range blinding factor.
//
// The blinding factor is only checked against the group order: a zero blind
// is accepted and then commits to value*H alone.
func PedersenCommit(ctx *Context, commit []byte, blind []byte, value uint64) int {
	if !ctx.ecmultGenCtx.isBuilt() {
		panic("context not built for signing")
	}
	if !ctx.ecmultGen2Ctx.isBuilt() {
		panic("context not built for commitment")
	}
	if len(commit) != 33 {
		panic("commitment buffer must be 33 bytes")
	}
	if len(blind) != 32 {
		panic("blinding factor must be 32 bytes")
	}

	var sec Scalar
	if sec.setB32(blind) {
		return 0
	}

	var rj GroupElementJacobian
	ecmultGenGen2(&ctx.ecmultGenCtx, &ctx.ecmultGen2Ctx, &rj, &sec, value)
	sec.clear()

	ret := 0
	if !rj.isInfinity() {
		var r GroupElementAffine
		r.setGEJ(&rj)
		ret = boolToInt(pedersenCommitmentSerialize(commit, &r))
		r.clear()
	}
	rj.clear()
	return ret
}

// PedersenBlindSum computes the sum of the first npositive blinding factors
// minus the sum of the remaining ones, writing the 32-byte result to
// blindOut. Returns 0 if any input is out of range.
func PedersenBlindSum(ctx *Context, blindOut []byte, blinds [][]byte, npositive int) int {
	if len(blindOut) != 32 {
		panic("output buffer must be 32 bytes")
	}
	if npositive < 0 || npositive > len(blinds) {
		panic("npositive out of range")
	}

	var acc, x Scalar
	for i, blind := range blinds {
		if len(blind) != 32 {
			panic("blinding factors must be 32 bytes")
		}
		if x.setB32(blind) {
			acc.clear()
			x.clear()
			return 0
		}
		if i >= npositive {
			x.negate(&x)
		}
		acc.add(&acc, &x)
	}
	acc.getB32(blindOut)
	acc.clear()
	x.clear()
	return 1
}

// signAndAbs64 splits a signed value into sign and magnitude
func signAndAbs64(excess int64) (uint64, bool) {
	if excess < 0 {
		return uint64(-excess), true
	}
	return uint64(excess), false
}

// PedersenVerifyTally checks that
// sum(commits) - sum(ncommits) - excess*H == 0, i.e. that the blinding
// factors and values of the two commitment sets cancel against the stated
// excess. Requires a context built for commitment.
func PedersenVerifyTally(ctx *Context, commits [][]byte, ncommits [][]byte, excess int64) int {
	if !ctx.ecmultGen2Ctx.isBuilt() {
		panic("context not built for commitment")
	}

	var accj GroupElementJacobian
	accj.setInfinity()

	if excess != 0 {
		ex, neg := signAndAbs64(excess)
		ctx.ecmultGen2Ctx.ecmultGen2Small(&accj, ex)
		if neg {
			accj.negate(&accj)
		}
	}

	var add GroupElementAffine
	for _, c := range ncommits {
		if !pedersenCommitmentParse(&add, c) {
			return 0
		}
		accj.addGEVar(&accj, &add, nil)
	}
	accj.negate(&accj)
	for _, c := range commits {
		if !pedersenCommitmentParse(&add, c) {
			return 0
		}
		accj.addGEVar(&accj, &add, nil)
	}
	return boolToInt(accj.isInfinity())
}
