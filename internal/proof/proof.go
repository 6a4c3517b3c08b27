// Package proof holds the completion token returned by response finalizers
// and continuations. The constructor is internal so that only this module can
// mint a valid token.
package proof

// Done proves that a response was finalized or that control was handed on to
// the next middleware. The zero value is not a valid proof.
type Done struct {
	s *seal
}

type seal struct{}

var sealed = &seal{}

// Seal returns a valid token.
func Seal() Done {
	return Done{s: sealed}
}

// Valid reports whether d was minted by Seal.
func (d Done) Valid() bool {
	return d.s == sealed
}
