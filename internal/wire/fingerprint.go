package wire

import "github.com/cespare/xxhash/v2"

// Fingerprint returns the xxHash64 of v's transport encoding. Because
// marshalling is deterministic, equal values always share a fingerprint.
func Fingerprint(v *Value) uint64 {
	return xxhash.Sum64(v.Marshal())
}

// FingerprintBytes returns the xxHash64 of an already marshalled value.
func FingerprintBytes(b []byte) uint64 {
	return xxhash.Sum64(b)
}
