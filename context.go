package zkp256k1

// Context capability flags. A context only supports the operations whose
// sub-context it was built with; invoking an operation on an unbuilt
// sub-context is a programming error and panics.
const (
	ContextNone       = 0
	ContextVerify     = 1 << 0
	ContextSign       = 1 << 1
	ContextCommit     = 1 << 7
	ContextRangeproof = 1 << 8
)

// Context bundles the four independently buildable sub-contexts: the
// variable-base multiplication table for verification, the blinded G comb
// for signing, the H comb for commitments, and the range-proof helper
// table.
//
// A context may be used concurrently by any number of readers. The mutating
// operations, ContextRandomize and Destroy, require exclusive access; no
// internal locking is provided.
type Context struct {
	ecmultCtx     EcmultContext
	ecmultGenCtx  EcmultGenContext
	ecmultGen2Ctx EcmultGen2Context
	rangeproofCtx RangeproofContext
}

// ContextCreate creates a context with the sub-contexts selected by flags
// built. The precomputed tables behind the sub-contexts are computed once
// per process and shared; building is cheap after the first call.
func ContextCreate(flags uint) *Context {
	ctx := &Context{}

	if flags&ContextSign != 0 {
		ctx.ecmultGenCtx.build()
	}
	if flags&ContextVerify != 0 {
		ctx.ecmultCtx.build()
	}
	if flags&ContextCommit != 0 {
		ctx.ecmultGen2Ctx.build()
	}
	if flags&ContextRangeproof != 0 {
		ctx.rangeproofCtx.build()
	}

	return ctx
}

// Clone returns a deep copy of the context. The immutable shared tables are
// referenced, the per-context blinding state is copied by value.
func (ctx *Context) Clone() *Context {
	return &Context{
		ecmultCtx:     ctx.ecmultCtx.clone(),
		ecmultGenCtx:  ctx.ecmultGenCtx.clone(),
		ecmultGen2Ctx: ctx.ecmultGen2Ctx.clone(),
		rangeproofCtx: ctx.rangeproofCtx.clone(),
	}
}

// Destroy zeroizes the blinding state and detaches the tables. The context
// must not be used afterwards.
func (ctx *Context) Destroy() {
	ctx.ecmultCtx.clear()
	ctx.ecmultGenCtx.clear()
	ctx.ecmultGen2Ctx.clear()
	ctx.rangeproofCtx.clear()
}

// ContextRandomize rekeys the signing blind from a 32-byte seed, chaining
// the previous blinding value forward. A nil seed resets to the initial
// deterministic state. Requires a context built for signing, and exclusive
// access to the context.
func ContextRandomize(ctx *Context, seed32 []byte) int {
	if !ctx.ecmultGenCtx.isBuilt() {
		panic("context not built for signing")
	}
	ctx.ecmultGenCtx.blindReseed(seed32)
	return 1
}
