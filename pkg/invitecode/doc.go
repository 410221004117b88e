// Package invitecode generates human-shareable organization invite codes in the
// form "LLL-NNNN" (three uppercase letters, a dash, four digits), e.g. "QKT-0481".
//
// Characters are drawn uniformly from crypto/rand. Generate asks a caller
// supplied existence check whether a candidate is taken and retries up to
// MaxAttempts times (10 by default). When every attempt collides it falls
// back to random letters plus the last four digits of the current Unix
// millisecond timestamp, so it always returns a well-formed code.
//
// The existence check is advisory: two concurrent callers may receive the same
// code. Storage must enforce uniqueness and the caller must retry on conflict.
//
//	gen := invitecode.New()
//	code, err := gen.Generate(ctx, func(ctx context.Context, code string) (bool, error) {
//	    return store.InviteCodeExists(ctx, code)
//	})
package invitecode
