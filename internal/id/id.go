// Package id generates prefixed NanoID identifiers, e.g.
// "recipe-V1StGXR8_Z5jdHi6B-myT". The prefix makes an ID
// self-describing in logs and database dumps.
package id

import (
	"fmt"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

// Generate returns a new "<prefix>-<nanoid>" identifier, using the
// default 21-character URL-safe alphabet. It fails only when the
// system cannot supply secure randomness.
func Generate(prefix string) (string, error) {
	id, err := gonanoid.New()
	if err != nil {
		return "", fmt.Errorf("generate nanoid: %w", err)
	}
	return prefix + "-" + id, nil
}

// MustGenerate panics instead of returning an error. Reserved for
// startup paths and tooling where there is no caller to hand the
// error to.
func MustGenerate(prefix string) string {
	id, err := Generate(prefix)
	if err != nil {
		panic(fmt.Sprintf("failed to generate ID: %v", err))
	}
	return id
}
