// Package tablecodec serializes Cayley tables to a self-describing binary
// form and computes the content digests used for integrity verification.
//
// The codec is a breaking-change boundary: bytes written by one version must
// decode with the same version, and the header carries magic, version and
// compression so corrupt or foreign bytes are rejected instead of guessed at.
package tablecodec
