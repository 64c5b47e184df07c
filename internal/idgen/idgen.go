// Package idgen provides short, URL-safe unique ID generation backed by nanoid.
package idgen

import (
	nanoid "github.com/matoous/go-nanoid/v2"
)

// Entity prefixes. Every generated ID carries one so log lines and API
// payloads identify the record type at a glance.
const (
	PrefixPost   = "post-"
	PrefixPlace  = "plc-"
	PrefixEvent  = "evt-"
	PrefixFollow = "fol-"
	PrefixBadge  = "bdg-"
	PrefixUpload = "up-"
)

// Alphabet defines the character set used for the random portion of the ID.
var Alphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// Length is the number of random characters generated (excluding the prefix).
var Length = 12

// Generate returns a new unique ID with the given prefix. The alphabet and
// length are fixed and valid, so generation cannot fail.
func Generate(prefix string) string {
	return prefix + nanoid.MustGenerate(Alphabet, Length)
}
