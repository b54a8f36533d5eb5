package zkp256k1

// eckeyPubkeyParse parses a serialized public key in compressed (33 bytes,
// 0x02/0x03), uncompressed (65 bytes, 0x04) or hybrid (65 bytes, 0x06/0x07)
// form. Hybrid keys must additionally carry the correct Y parity in the
// header byte.
func eckeyPubkeyParse(elem *GroupElementAffine, pub []byte) bool {
	if len(pub) == 33 && (pub[0] == 0x02 || pub[0] == 0x03) {
		var x FieldElement
		if x.setB32(pub[1:33]) {
			return false
		}
		return elem.setXOVar(&x, pub[0] == 0x03)
	}
	if len(pub) == 65 && (pub[0] == 0x04 || pub[0] == 0x06 || pub[0] == 0x07) {
		var x, y FieldElement
		if x.setB32(pub[1:33]) || y.setB32(pub[33:65]) {
			return false
		}
		elem.setXY(&x, &y)
		elem.y.normalizeVar()
		if (pub[0] == 0x06 || pub[0] == 0x07) && elem.y.isOdd() != (pub[0] == 0x07) {
			return false
		}
		return elem.isValidVar()
	}
	return false
}

// eckeyPubkeySerialize writes a point in compressed or uncompressed form.
// Fails only for the point at infinity.
func eckeyPubkeySerialize(elem *GroupElementAffine, pub []byte, size *int, compressed bool) bool {
	if elem.isInfinity() {
		return false
	}
	elem.x.normalizeVar()
	elem.y.normalizeVar()
	elem.x.getB32(pub[1:33])
	if compressed {
		*size = 33
		pub[0] = 0x02
		if elem.y.isOdd() {
			pub[0] = 0x03
		}
	} else {
		*size = 65
		pub[0] = 0x04
		elem.y.getB32(pub[33:65])
	}
	return true
}

// The historical SEC1 ECPrivateKey templates with embedded secp256k1
// parameters, as emitted by OpenSSL. The key and derived public key are
// spliced into fixed positions.
var (
	privkeyDERCompressedBegin = []byte{
		0x30, 0x81, 0xD3, 0x02, 0x01, 0x01, 0x04, 0x20,
	}
	privkeyDERCompressedMiddle = []byte{
		0xA0, 0x81, 0x85, 0x30, 0x81, 0x82, 0x02, 0x01, 0x01, 0x30, 0x2C, 0x06, 0x07, 0x2A, 0x86, 0x48,
		0xCE, 0x3D, 0x01, 0x01, 0x02, 0x21, 0x00, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF,
		0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF,
		0xFF, 0xFF, 0xFE, 0xFF, 0xFF, 0xFC, 0x2F, 0x30, 0x06, 0x04, 0x01, 0x00, 0x04, 0x01, 0x07, 0x04,
		0x21, 0x02, 0x79, 0xBE, 0x66, 0x7E, 0xF9, 0xDC, 0xBB, 0xAC, 0x55, 0xA0, 0x62, 0x95, 0xCE, 0x87,
		0x0B, 0x07, 0x02, 0x9B, 0xFC, 0xDB, 0x2D, 0xCE, 0x28, 0xD9, 0x59, 0xF2, 0x81, 0x5B, 0x16, 0xF8,
		0x17, 0x98, 0x02, 0x21, 0x00, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF,
		0xFF, 0xFF, 0xFF, 0xFF, 0xFE, 0xBA, 0xAE, 0xDC, 0xE6, 0xAF, 0x48, 0xA0, 0x3B, 0xBF, 0xD2, 0x5E,
		0x8C, 0xD0, 0x36, 0x41, 0x41, 0x02, 0x01, 0x01, 0xA1, 0x24, 0x03, 0x22, 0x00,
	}
	privkeyDERUncompressedBegin = []byte{
		0x30, 0x82, 0x01, 0x13, 0x02, 0x01, 0x01, 0x04, 0x20,
	}
	privkeyDERUncompressedMiddle = []byte{
		0xA0, 0x81, 0xA5, 0x30, 0x81, 0xA2, 0x02, 0x01, 0x01, 0x30, 0x2C, 0x06, 0x07, 0x2A, 0x86, 0x48,
		0xCE, 0x3D, 0x01, 0x01, 0x02, 0x21, 0x00, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF,
		0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF,
		0xFF, 0xFF, 0xFE, 0xFF, 0xFF, 0xFC, 0x2F, 0x30, 0x06, 0x04, 0x01, 0x00, 0x04, 0x01, 0x07, 0x04,
		0x41, 0x04, 0x79, 0xBE, 0x66, 0x7E, 0xF9, 0xDC, 0xBB, 0xAC, 0x55, 0xA0, 0x62, 0x95, 0xCE, 0x87,
		0x0B, 0x07, 0x02, 0x9B, 0xFC, 0xDB, 0x2D, 0xCE, 0x28, 0xD9, 0x59, 0xF2, 0x81, 0x5B, 0x16, 0xF8,
		0x17, 0x98, 0x48, 0x3A, 0xDA, 0x77, 0x26, 0xA3, 0xC4, 0x65, 0x5D, 0xA4, 0xFB, 0xFC, 0x0E, 0x11,
		0x08, 0xA8, 0xFD, 0x17, 0xB4, 0x48, 0xA6, 0x85, 0x54, 0x19, 0x9C, 0x47, 0xD0, 0x8F, 0xFB, 0x10,
		0xD4, 0xB8, 0x02, 0x21, 0x00, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF,
		0xFF, 0xFF, 0xFF, 0xFF, 0xFE, 0xBA, 0xAE, 0xDC, 0xE6, 0xAF, 0x48, 0xA0, 0x3B, 0xBF, 0xD2, 0x5E,
		0x8C, 0xD0, 0x36, 0x41, 0x41, 0x02, 0x01, 0x01, 0xA1, 0x44, 0x03, 0x42, 0x00,
	}
)

// eckeyPrivkeySerialize writes the SEC1 DER wrapper around a secret key,
// including the derived public key in the requested form.
func eckeyPrivkeySerialize(ctx *EcmultGenContext, privkey []byte, size *int, key *Scalar, compressed bool) bool {
	var pj GroupElementJacobian
	ctx.ecmultGen(&pj, key)
	var p GroupElementAffine
	p.setGEJ(&pj)
	pj.clear()

	var pub [65]byte
	pubLen := 0

	var begin, middle []byte
	if compressed {
		begin = privkeyDERCompressedBegin
		middle = privkeyDERCompressedMiddle
		if !eckeyPubkeySerialize(&p, pub[:], &pubLen, true) {
			return false
		}
	} else {
		begin = privkeyDERUncompressedBegin
		middle = privkeyDERUncompressedMiddle
		if !eckeyPubkeySerialize(&p, pub[:], &pubLen, false) {
			return false
		}
	}

	need := len(begin) + 32 + len(middle) + pubLen
	if *size < need {
		return false
	}
	ptr := privkey
	copy(ptr, begin)
	ptr = ptr[len(begin):]
	key.getB32(ptr[:32])
	ptr = ptr[32:]
	copy(ptr, middle)
	ptr = ptr[len(middle):]
	copy(ptr, pub[:pubLen])
	*size = need
	return true
}

// eckeyPrivkeyParse extracts the secret key from a SEC1 DER wrapper.
// Only the version and octet-string fields are interpreted; the embedded
// parameters are skipped over.
func eckeyPrivkeyParse(key *Scalar, privkey []byte) bool {
	pos := 0
	end := len(privkey)

	// sequence header
	if pos+1 > end || privkey[pos] != 0x30 {
		return false
	}
	pos++
	// sequence length constructor
	if pos+1 > end || privkey[pos]&0x80 == 0 {
		return false
	}
	lenb := int(privkey[pos] & 0x7F)
	pos++
	if lenb < 1 || lenb > 2 {
		return false
	}
	if pos+lenb > end {
		return false
	}
	// sequence length
	length := int(privkey[pos+lenb-1])
	if lenb > 1 {
		length |= int(privkey[pos+lenb-2]) << 8
	}
	pos += lenb
	if pos+length > end {
		return false
	}
	// sequence element 0: version number (=1)
	if pos+3 > end || privkey[pos] != 0x02 || privkey[pos+1] != 0x01 || privkey[pos+2] != 0x01 {
		return false
	}
	pos += 3
	// sequence element 1: octet string, up to 32 bytes
	if pos+2 > end || privkey[pos] != 0x04 || int(privkey[pos+1]) > 32 {
		return false
	}
	n := int(privkey[pos+1])
	pos += 2
	if pos+n > end {
		return false
	}

	var b [32]byte
	copy(b[32-n:], privkey[pos:pos+n])
	ok := key.setB32Seckey(b[:])
	memclearBytes(b[:])
	return ok
}

// eckeyPrivkeyTweakAdd computes key = key + tweak mod n.
// Fails if the result is zero.
func eckeyPrivkeyTweakAdd(key, tweak *Scalar) bool {
	key.add(key, tweak)
	return !key.isZero()
}

// eckeyPubkeyTweakAdd computes key = key + tweak*G.
// Fails if the result is the point at infinity.
func eckeyPubkeyTweakAdd(ctx *EcmultContext, key *GroupElementAffine, tweak *Scalar) bool {
	var pt GroupElementJacobian
	pt.setGE(key)
	var one Scalar
	one.setInt(1)
	ctx.ecmult(&pt, &pt, &one, tweak)

	if pt.isInfinity() {
		return false
	}
	key.setGEJ(&pt)
	return true
}

// eckeyPrivkeyTweakMul computes key = key * tweak mod n.
// Fails for a zero tweak.
func eckeyPrivkeyTweakMul(key, tweak *Scalar) bool {
	if tweak.isZero() {
		return false
	}
	key.mul(key, tweak)
	return true
}

// eckeyPubkeyTweakMul computes key = tweak*key.
// Fails for a zero tweak.
func eckeyPubkeyTweakMul(ctx *EcmultContext, key *GroupElementAffine, tweak *Scalar) bool {
	if tweak.isZero() {
		return false
	}
	var pt GroupElementJacobian
	pt.setGE(key)
	var zero Scalar
	ctx.ecmult(&pt, &pt, tweak, &zero)
	if pt.isInfinity() {
		return false
	}
	key.setGEJ(&pt)
	return true
}
