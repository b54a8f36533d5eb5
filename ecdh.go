package zkp256k1

// PointMultiply multiplies the EC point in point (serialized, *pointlen
// bytes, updated in place) by a 32-byte scalar, in constant time with
// respect to the scalar.
// Returns 1 on success, -1 if the scalar is zero, -2 on scalar overflow,
// -3 if the input point is invalid.
func PointMultiply(point []byte, pointlen *int, scalar []byte) int {
	if len(scalar) != 32 {
		panic("scalar must be 32 bytes")
	}

	var pt GroupElementAffine
	if !eckeyPubkeyParse(&pt, point[:*pointlen]) {
		return -3
	}

	var s Scalar
	if s.setB32(scalar) {
		return -2
	}
	if s.isZero() {
		return -1
	}

	var res GroupElementJacobian
	ecmultConst(&res, &pt, &s)
	pt.setGEJ(&res)

	res.clear()
	s.clear()

	compressed := *pointlen <= 33
	ret := boolToInt(eckeyPubkeySerialize(&pt, point, pointlen, compressed))
	pt.clear()
	return ret
}

// ECDH computes a shared secret from a public key and a secret key:
// SHA256 of the compressed serialization of seckey * pubkey. output must be
// 32 bytes. Constant time in the secret key.
func ECDH(output []byte, pubkey *PublicKey, seckey []byte) int {
	if len(output) != 32 {
		panic("output buffer must be 32 bytes")
	}
	if len(seckey) != 32 {
		panic("secret key must be 32 bytes")
	}

	var pt GroupElementAffine
	if !pubkeyLoad(&pt, pubkey) {
		return 0
	}

	var s Scalar
	if !s.setB32Seckey(seckey) {
		return 0
	}

	var res GroupElementJacobian
	ecmultConst(&res, &pt, &s)
	pt.setGEJ(&res)
	res.clear()
	s.clear()

	var ser [33]byte
	serLen := 0
	if !eckeyPubkeySerialize(&pt, ser[:], &serLen, true) {
		pt.clear()
		return 0
	}
	pt.clear()

	sha := NewSHA256()
	sha.Write(ser[:serLen])
	sha.Finalize(output)
	sha.Clear()
	memclearBytes(ser[:])
	return 1
}
