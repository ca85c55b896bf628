// Package mock provides a deterministic ai.Embedder test double.
//
// The default behavior derives every vector from a pseudo-random
// generator re-seeded from (configured seed, input text) immediately
// before each call, so repeated calls with the same inputs are
// bit-for-bit identical regardless of call order or interleaving. Tests
// can override behavior per call via function fields.
package mock
