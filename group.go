package zkp256k1

// GroupElementAffine represents a point on the secp256k1 curve in affine coordinates (x, y)
type GroupElementAffine struct {
	x, y     FieldElement
	infinity bool
}

// GroupElementJacobian represents a point on the secp256k1 curve in Jacobian coordinates (x, y, z)
// where the affine coordinates are (x/z^2, y/z^3)
type GroupElementJacobian struct {
	x, y, z  FieldElement
	infinity bool
}

// GroupElementStorage represents an affine point in storage format: the packed
// 4x64 forms of normalized x and y. Never the point at infinity.
type GroupElementStorage struct {
	x, y FieldElementStorage
}

// Generator point G for secp256k1 curve
var (
	// Generator point in affine coordinates
	// G = (0x79BE667EF9DCBBAC55A06295CE870B07029BFCDB2DCE28D959F2815B16F81798,
	//      0x483ADA7726A3C4655DA4FBFC0E1108A8FD17B448A68554199C47D08FFB10D4B8)
	GeneratorX FieldElement
	GeneratorY FieldElement
	Generator  GroupElementAffine
)

func init() {
	gxBytes := []byte{
		0x79, 0xBE, 0x66, 0x7E, 0xF9, 0xDC, 0xBB, 0xAC, 0x55, 0xA0, 0x62, 0x95, 0xCE, 0x87, 0x0B, 0x07,
		0x02, 0x9B, 0xFC, 0xDB, 0x2D, 0xCE, 0x28, 0xD9, 0x59, 0xF2, 0x81, 0x5B, 0x16, 0xF8, 0x17, 0x98,
	}

	gyBytes := []byte{
		0x48, 0x3A, 0xDA, 0x77, 0x26, 0xA3, 0xC4, 0x65, 0x5D, 0xA4, 0xFB, 0xFC, 0x0E, 0x11, 0x08, 0xA8,
		0xFD, 0x17, 0xB4, 0x48, 0xA6, 0x85, 0x54, 0x19, 0x9C, 0x47, 0xD0, 0x8F, 0xFB, 0x10, 0xD4, 0xB8,
	}

	GeneratorX.setB32(gxBytes)
	GeneratorX.normalize()
	GeneratorY.setB32(gyBytes)
	GeneratorY.normalize()

	Generator = GroupElementAffine{
		x:        GeneratorX,
		y:        GeneratorY,
		infinity: false,
	}
}

// setXY sets a group element to the point with given coordinates
func (r *GroupElementAffine) setXY(x, y *FieldElement) {
	r.x = *x
	r.y = *y
	r.infinity = false
}

// setXOVar sets a group element to the point with given X coordinate and Y oddness
func (r *GroupElementAffine) setXOVar(x *FieldElement, odd bool) bool {
	// y^2 = x^3 + 7
	var x2, x3, y2 FieldElement
	x2.sqr(x)
	x3.mul(&x2, x)

	y2 = x3
	y2.addInt(7)

	var y FieldElement
	if !y.sqrt(&y2) {
		return false
	}

	y.normalize()
	if y.isOdd() != odd {
		y.negate(&y, 1)
		y.normalize()
	}

	r.setXY(x, &y)
	return true
}

// isInfinity returns true if the group element is the point at infinity
func (r *GroupElementAffine) isInfinity() bool {
	return r.infinity
}

// isValidVar checks if the group element satisfies the curve equation
func (r *GroupElementAffine) isValidVar() bool {
	if r.infinity {
		return false
	}

	// y^2 = x^3 + 7
	var lhs, rhs, x2 FieldElement

	lhs.sqr(&r.y)
	x2.sqr(&r.x)
	rhs.mul(&x2, &r.x)
	rhs.addInt(7)

	lhs.normalize()
	rhs.normalize()

	return lhs.equal(&rhs)
}

// negate sets r to the negation of a (mirror around the X axis)
func (r *GroupElementAffine) negate(a *GroupElementAffine) {
	r.x = a.x
	m := a.y.magnitude
	if m < 1 {
		m = 1
	}
	r.y.negate(&a.y, m)
	r.y.normalizeWeak()
	r.infinity = a.infinity
}

// setInfinity sets the group element to the point at infinity
func (r *GroupElementAffine) setInfinity() {
	r.x = FieldElementZero
	r.y = FieldElementZero
	r.infinity = true
}

// equal returns true if two group elements are equal
func (r *GroupElementAffine) equal(a *GroupElementAffine) bool {
	if r.infinity && a.infinity {
		return true
	}
	if r.infinity || a.infinity {
		return false
	}

	var rNorm, aNorm GroupElementAffine
	rNorm = *r
	aNorm = *a
	rNorm.x.normalize()
	rNorm.y.normalize()
	aNorm.x.normalize()
	aNorm.y.normalize()

	return rNorm.x.equal(&aNorm.x) && rNorm.y.equal(&aNorm.y)
}

// clear clears a group element to prevent leaking sensitive information
func (r *GroupElementAffine) clear() {
	r.x.clear()
	r.y.clear()
	r.infinity = true
}

// toStorage converts a group element to storage format.
// The point must not be at infinity.
func (r *GroupElementAffine) toStorage(s *GroupElementStorage) {
	if r.infinity {
		panic("cannot store the point at infinity")
	}
	r.x.toStorage(&s.x)
	r.y.toStorage(&s.y)
}

// fromStorage converts from storage format to group element
func (r *GroupElementAffine) fromStorage(s *GroupElementStorage) {
	r.x.fromStorage(&s.x)
	r.y.fromStorage(&s.y)
	r.infinity = false
}

// cmov conditionally moves a storage-form group element, branchless on the data.
func (r *GroupElementStorage) cmov(a *GroupElementStorage, flag int) {
	r.x.cmov(&a.x, flag)
	r.y.cmov(&a.y, flag)
}

// mulLambda sets r = lambda*a using the endomorphism: lambda*(x, y) = (beta*x, y)
func (r *GroupElementAffine) mulLambda(a *GroupElementAffine) {
	*r = *a
	r.x.mul(&r.x, &betaConstant)
}

// Jacobian coordinate operations

// setInfinity sets the Jacobian group element to the point at infinity
func (r *GroupElementJacobian) setInfinity() {
	r.x = FieldElementZero
	r.y = FieldElementOne
	r.z = FieldElementZero
	r.infinity = true
}

// isInfinity returns true if the Jacobian group element is the point at infinity
func (r *GroupElementJacobian) isInfinity() bool {
	return r.infinity
}

// setGE sets a Jacobian element from an affine element
func (r *GroupElementJacobian) setGE(a *GroupElementAffine) {
	if a.infinity {
		r.setInfinity()
		return
	}

	r.x = a.x
	r.y = a.y
	r.z = FieldElementOne
	r.infinity = false
}

// setGEJ sets an affine element from a Jacobian element, at the cost of one
// field inversion.
func (r *GroupElementAffine) setGEJ(a *GroupElementJacobian) {
	if a.infinity {
		r.setInfinity()
		return
	}

	var zInv, z2, z3 FieldElement
	zInv.inv(&a.z)
	z2.sqr(&zInv)
	z3.mul(&zInv, &z2)

	r.x.mul(&a.x, &z2)
	r.y.mul(&a.y, &z3)
	r.infinity = false
}

// setGEJZinv sets an affine element from a Jacobian element whose Z inverse
// is already known.
func (r *GroupElementAffine) setGEJZinv(a *GroupElementJacobian, zi *FieldElement) {
	var zi2, zi3 FieldElement
	zi2.sqr(zi)
	zi3.mul(&zi2, zi)
	r.x.mul(&a.x, &zi2)
	r.y.mul(&a.y, &zi3)
	r.infinity = a.infinity
}

// geSetAllGEJVar converts a batch of Jacobian points to affine using
// Montgomery's trick: a single inversion, three multiplications per point.
func geSetAllGEJVar(r []GroupElementAffine, a []GroupElementJacobian) {
	if len(r) != len(a) {
		panic("input and output slices must have the same length")
	}

	zs := make([]FieldElement, 0, len(a))
	for i := range a {
		if !a[i].infinity {
			zs = append(zs, a[i].z)
		}
	}
	zInvs := make([]FieldElement, len(zs))
	batchInverse(zInvs, zs)

	j := 0
	for i := range a {
		if a[i].infinity {
			r[i].setInfinity()
			continue
		}
		r[i].setGEJZinv(&a[i], &zInvs[j])
		j++
	}
}

// negate sets r to the negation of a Jacobian point
func (r *GroupElementJacobian) negate(a *GroupElementJacobian) {
	r.x = a.x
	m := a.y.magnitude
	if m < 1 {
		m = 1
	}
	r.y.negate(&a.y, m)
	r.y.normalizeWeak()
	r.z = a.z
	r.infinity = a.infinity
}

// rescale multiplies the Z coordinate by the nonzero field element s,
// leaving the represented point unchanged.
func (r *GroupElementJacobian) rescale(s *FieldElement) {
	var zz FieldElement
	zz.sqr(s)
	r.x.mul(&r.x, &zz)
	r.y.mul(&r.y, &zz)
	r.y.mul(&r.y, s)
	r.z.mul(&r.z, s)
}

// eqXVar checks whether the affine x coordinate of a equals x, without
// converting a to affine. Variable-time.
func (a *GroupElementJacobian) eqXVar(x *FieldElement) bool {
	if a.infinity {
		return false
	}
	var r2, d FieldElement
	r2.sqr(&a.z)
	r2.mul(&r2, x) /* x*Z^2 */
	m := a.x.magnitude
	if m < 1 {
		m = 1
	}
	d.negate(&a.x, m)
	d.add(&r2)
	return d.normalizesToZeroVar()
}

// double sets r = 2*a (point doubling in Jacobian coordinates).
// Constant time; the formula is valid for the infinity input as well since
// Z3 = Y1*Z1 keeps Z at zero.
func (r *GroupElementJacobian) double(a *GroupElementJacobian) {
	var l, s, t FieldElement

	r.infinity = a.infinity

	r.z.mul(&a.z, &a.y) /* Z3 = Y1*Z1 (1) */
	s.sqr(&a.y)         /* S = Y1^2 (1) */
	l.sqr(&a.x)         /* L = X1^2 (1) */
	l.mulInt(3)         /* L = 3*X1^2 (3) */
	l.half(&l)          /* L = 3/2*X1^2 (2) */
	t.negate(&s, 1)     /* T = -S (2) */
	t.mul(&t, &a.x)     /* T = -X1*Y1^2 (1) */
	r.x.sqr(&l)         /* X3 = L^2 (1) */
	r.x.add(&t)         /* X3 = L^2 + T (2) */
	r.x.add(&t)         /* X3 = L^2 + 2*T (3) */
	s.sqr(&s)           /* S' = Y1^4 (1) */
	t.add(&r.x)         /* T' = X3 - X1*Y1^2 (4) */
	r.y.mul(&t, &l)     /* Y3 = L*(X3 + T) (1) */
	r.y.add(&s)         /* Y3 = L*(X3 + T) + Y1^4 (2) */
	r.y.negate(&r.y, 2) /* Y3 = -(L*(X3 + T) + Y1^4) (3) */
}

// doubleVar sets r = 2*a. If rzr is not nil, it is set to the value t such
// that r.z == a.z * t (used when building tables of odd multiples).
func (r *GroupElementJacobian) doubleVar(a *GroupElementJacobian, rzr *FieldElement) {
	if a.infinity {
		if rzr != nil {
			rzr.setInt(1)
		}
		r.setInfinity()
		return
	}
	if rzr != nil {
		*rzr = a.y
		rzr.normalizeWeak()
	}
	r.double(a)
}

// addVar sets r = a + b (variable-time point addition in Jacobian coordinates).
// Operations: 12 mul, 4 sqr
func (r *GroupElementJacobian) addVar(a, b *GroupElementJacobian) {
	if a.infinity {
		*r = *b
		return
	}
	if b.infinity {
		*r = *a
		return
	}

	var z22, z12, u1, u2, s1, s2, h, i, h2, h3, t FieldElement

	z22.sqr(&b.z)
	z12.sqr(&a.z)
	u1.mul(&a.x, &z22)
	u2.mul(&b.x, &z12)
	s1.mul(&a.y, &z22)
	s1.mul(&s1, &b.z)
	s2.mul(&b.y, &z12)
	s2.mul(&s2, &a.z)

	/* h = u2 - u1 */
	h.negate(&u1, 1)
	h.add(&u2)

	/* i = s1 - s2 */
	i.negate(&s2, 1)
	i.add(&s1)

	if h.normalizesToZeroVar() {
		if i.normalizesToZeroVar() {
			r.doubleVar(a, nil)
			return
		}
		r.setInfinity()
		return
	}

	r.infinity = false

	t.mul(&h, &b.z)
	r.z.mul(&a.z, &t)

	h2.sqr(&h)
	h2.negate(&h2, 1)
	h3.mul(&h2, &h)
	t.mul(&u1, &h2)

	r.x.sqr(&i)
	r.x.add(&h3)
	r.x.add(&t)
	r.x.add(&t)

	t.add(&r.x)
	r.y.mul(&t, &i)
	h3.mul(&h3, &s1)
	r.y.add(&h3)
}

// addGEVar sets r = a + b where a is Jacobian and b is affine.
// If rzr is not nil, it is set to the value t such that r.z == a.z * t.
// Operations: 8 mul, 3 sqr
func (r *GroupElementJacobian) addGEVar(a *GroupElementJacobian, b *GroupElementAffine, rzr *FieldElement) {
	if a.infinity {
		r.setGE(b)
		return
	}
	if b.infinity {
		if rzr != nil {
			rzr.setInt(1)
		}
		*r = *a
		return
	}

	var z12, u1, u2, s1, s2, h, i, h2, h3, t FieldElement

	z12.sqr(&a.z)
	u1 = a.x
	u1.normalizeWeak()
	u2.mul(&b.x, &z12)
	s1 = a.y
	s1.normalizeWeak()
	s2.mul(&b.y, &z12)
	s2.mul(&s2, &a.z)

	/* h = u2 - u1 */
	h.negate(&u1, 1)
	h.add(&u2)

	/* i = s1 - s2 */
	i.negate(&s2, 1)
	i.add(&s1)

	if h.normalizesToZeroVar() {
		if i.normalizesToZeroVar() {
			r.doubleVar(a, rzr)
			return
		}
		if rzr != nil {
			rzr.setInt(0)
		}
		r.setInfinity()
		return
	}

	if rzr != nil {
		*rzr = h
	}

	r.infinity = false

	r.z.mul(&a.z, &h)

	h2.sqr(&h)
	h2.negate(&h2, 1)
	h3.mul(&h2, &h)
	t.mul(&u1, &h2)

	r.x.sqr(&i)
	r.x.add(&h3)
	r.x.add(&t)
	r.x.add(&t)

	t.add(&r.x)
	r.y.mul(&t, &i)
	h3.mul(&h3, &s1)
	r.y.add(&h3)
}

// addGE sets r = a + b where b is affine and never the point at infinity.
// Constant time: covers a == b (doubling), a == -b (infinity output) and a at
// infinity without branching on the point values, following the unified
// mixed-addition formula of libsecp256k1's group module.
func (r *GroupElementJacobian) addGE(a *GroupElementJacobian, b *GroupElementAffine) {
	var zz, u1, u2, s1, s2, t, tt, m, n, q, rr FieldElement
	var mAlt, rrAlt FieldElement

	aInf := boolToInt(a.infinity)

	zz.sqr(&a.z) /* zz = Z1^2 */
	u1 = a.x
	u1.normalizeWeak() /* u1 = U1 = X1*Z2^2 (Z2 = 1) */
	u2.mul(&b.x, &zz)  /* u2 = U2 = X2*Z1^2 */
	s1 = a.y
	s1.normalizeWeak() /* s1 = S1 = Y1*Z2^3 */
	s2.mul(&b.y, &zz)
	s2.mul(&s2, &a.z) /* s2 = S2 = Y2*Z1^3 */
	t = u1
	t.add(&u2) /* t = T = U1+U2 (2) */
	m = s1
	m.add(&s2)      /* m = M = S1+S2 (2) */
	rr.sqr(&t)      /* rr = T^2 (1) */
	mAlt.negate(&u2, 1) /* Malt = -X2*Z1^2 */
	tt.mul(&u1, &mAlt)  /* tt = -U1*U2 */
	rr.add(&tt)         /* rr = R = T^2-U1*U2 (2) */

	// Degenerate case: M == 0, i.e. Y1 == -Y2. If X1 == X2 the result is
	// infinity; otherwise switch to the alternate slope
	// lambda = (Y1-Y2)/(X1-X2) = 2*Y1/(X1-X2).
	degenerate := boolToInt(m.normalizesToZero())
	rrAlt = s1
	rrAlt.mulInt(2) /* rrAlt = Y1*2 */
	mAlt.add(&u1)   /* Malt = U1-U2 (3) */

	rrAlt.cmov(&rr, 1-degenerate)
	mAlt.cmov(&m, 1-degenerate)

	// From here, rrAlt / Malt is the slope of the addition
	n.sqr(&mAlt)    /* n = Malt^2 (1) */
	q.negate(&t, 2) /* q = -T (3) */
	q.mul(&q, &n)   /* q = Q = -T*Malt^2 (1) */
	n.sqr(&n)       /* n = Malt^4 (1) */
	n.cmov(&m, degenerate)
	t.sqr(&rrAlt)        /* t = Ralt^2 (1) */
	r.z.mul(&a.z, &mAlt) /* Z3 = Malt*Z1 (1) */
	t.add(&q)            /* t = Ralt^2 + Q (2) */
	r.x = t              /* X3 = Ralt^2 + Q (2) */
	t.mulInt(2)          /* t = 2*X3 (4) */
	t.add(&q)            /* t = 2*X3 + Q (5) */
	t.mul(&t, &rrAlt)    /* t = Ralt*(2*X3 + Q) (1) */
	t.add(&n)            /* t = Ralt*(2*X3 + Q) + M^3 (3) */
	r.y.negate(&t, 3)    /* Y3 = -(Ralt*(2*X3 + Q) + M^3) (4) */
	r.y.half(&r.y)       /* Y3 = -(Ralt*(2*X3 + Q) + M^3)/2 (3) */

	// If a was infinity, the result is simply b
	r.x.cmov(&b.x, aInf)
	r.y.cmov(&b.y, aInf)
	r.z.cmov(&FieldElementOne, aInf)

	// The formula yields Z3 == 0 exactly when the result is infinity
	r.infinity = r.z.normalizesToZero()
}

// clear clears a Jacobian group element
func (r *GroupElementJacobian) clear() {
	r.x.clear()
	r.y.clear()
	r.z.clear()
	r.infinity = true
}
