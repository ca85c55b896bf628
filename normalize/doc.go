// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


// Package normalize implements the deterministic text-cleaning pipeline
// that runs before embedding.
//
// The pipeline is a fixed sequence of stages: case folding, mojibake
// repair, punctuation and contraction normalization, abbreviation
// expansion, social-media tokenization with placeholder substitution for
// mentions and URLs, placeholder run collapsing, COVID-term
// canonicalization, optional hashtag segmentation, markup stripping, and
// optional ASCII transliteration. Stage order is load-bearing: later
// stages assume earlier ones already ran.
//
// The same Normalizer (and therefore the same Config) must be applied to
// both corpus questions and user queries, or similarity scores between
// their embeddings become incomparable.
//
// Normalization is pure: no I/O, no randomness, no shared mutable state.
// A Normalizer is safe for concurrent use.
package normalize
