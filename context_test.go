package zkp256k1

import (
	"bytes"
	"crypto/sha256"
	"testing"
)

func TestContextCapabilities(t *testing.T) {
	signOnly := ContextCreate(ContextSign)
	if !signOnly.ecmultGenCtx.isBuilt() {
		t.Error("sign context not built")
	}
	if signOnly.ecmultCtx.isBuilt() {
		t.Error("verify context built without the flag")
	}
	if signOnly.ecmultGen2Ctx.isBuilt() {
		t.Error("commit context built without the flag")
	}

	full := ContextCreate(ContextSign | ContextVerify | ContextCommit | ContextRangeproof)
	if !full.ecmultCtx.isBuilt() || !full.ecmultGenCtx.isBuilt() ||
		!full.ecmultGen2Ctx.isBuilt() || !full.rangeproofCtx.isBuilt() {
		t.Error("full context missing a sub-context")
	}
}

func TestContextCapabilityPanics(t *testing.T) {
	ctx := ContextCreate(ContextNone)
	msg := sha256.Sum256([]byte("x"))
	seckey := testKeyOnes()

	assertPanics := func(name string, f func()) {
		t.Helper()
		defer func() {
			if recover() == nil {
				t.Errorf("%s did not panic on an unbuilt context", name)
			}
		}()
		f()
	}

	assertPanics("sign", func() {
		sig := make([]byte, 72)
		siglen := len(sig)
		ECDSASign(ctx, msg[:], sig, &siglen, seckey, nil, nil)
	})
	assertPanics("verify", func() {
		ECDSAVerify(ctx, msg[:], []byte{0x30, 0x00}, make([]byte, 33))
	})
	assertPanics("commit", func() {
		PedersenVerifyTally(ctx, nil, nil, 1)
	})
	assertPanics("randomize", func() {
		ContextRandomize(ctx, nil)
	})
}

func TestContextClone(t *testing.T) {
	ctx := ContextCreate(ContextSign | ContextVerify)
	seckey := testKeyOnes()
	msg := sha256.Sum256([]byte("clone"))

	sig1 := make([]byte, 64)
	if ECDSASignCompact(ctx, msg[:], sig1, seckey, nil, nil, nil) != 1 {
		t.Fatal("signing failed")
	}

	clone := ctx.Clone()

	// Randomizing the original must not disturb the clone, and signatures
	// stay deterministic across both.
	seed := randScalarBytes(t)
	ContextRandomize(ctx, seed)

	sig2 := make([]byte, 64)
	if ECDSASignCompact(clone, msg[:], sig2, seckey, nil, nil, nil) != 1 {
		t.Fatal("signing with the clone failed")
	}
	if !bytes.Equal(sig1, sig2) {
		t.Fatal("clone produced a different signature")
	}

	sig3 := make([]byte, 64)
	if ECDSASignCompact(ctx, msg[:], sig3, seckey, nil, nil, nil) != 1 {
		t.Fatal("signing after randomize failed")
	}
	if !bytes.Equal(sig1, sig3) {
		t.Fatal("blinding changed the deterministic signature")
	}
}

func TestContextDestroy(t *testing.T) {
	ctx := ContextCreate(ContextSign | ContextVerify)
	ctx.Destroy()
	if ctx.ecmultGenCtx.isBuilt() || ctx.ecmultCtx.isBuilt() {
		t.Error("destroyed context still reports built sub-contexts")
	}
}

func TestContextConcurrentReaders(t *testing.T) {
	ctx := ContextCreate(ContextSign | ContextVerify)
	seckey := testKeyOnes()
	msg := sha256.Sum256([]byte("concurrent"))

	want := make([]byte, 64)
	if ECDSASignCompact(ctx, msg[:], want, seckey, nil, nil, nil) != 1 {
		t.Fatal("signing failed")
	}

	done := make(chan error, 8)
	for i := 0; i < 8; i++ {
		go func() {
			sig := make([]byte, 64)
			if ECDSASignCompact(ctx, msg[:], sig, seckey, nil, nil, nil) != 1 {
				done <- errSigFailed
				return
			}
			if !bytes.Equal(sig, want) {
				done <- errSigMismatch
				return
			}
			done <- nil
		}()
	}
	for i := 0; i < 8; i++ {
		if err := <-done; err != nil {
			t.Fatal(err)
		}
	}
}

var (
	errSigFailed   = &contextTestError{"concurrent signing failed"}
	errSigMismatch = &contextTestError{"concurrent signature mismatch"}
)

type contextTestError struct{ msg string }

func (e *contextTestError) Error() string { return e.msg }
