/*
Package transport implements the generic tagged value exchanged between
domain code and the store, and the bidirectional converter over it.

A Value exists only within one call's scope: byte payloads are copied
into a Scope on the way in, and copied back out on the way out, so no
transport value ever escapes the invocation that produced it. Scopes are
pooled; acquire with NewScope and release with Close on every exit path:

	sc := transport.NewScope()
	defer sc.Close()

	val, err := transport.ToValue(sc, schema.KindBytes, payload)

Conversion covers every declared storage kind. Polymorphic (any) values
are tagged per runtime value via Infer. Values whose runtime shape
matches no declared kind fail with errors.ErrUnsupportedValue.
*/
package transport
