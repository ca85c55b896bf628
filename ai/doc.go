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


// Package ai defines the embedding provider abstraction.
//
// The matching pipeline depends only on the Embedder interface; concrete
// providers live in sub-packages:
//
//   - ai/openai: OpenAI-compatible embedding APIs via langchaingo
//   - ai/fastembed: local ONNX models via fastembed-go
//   - ai/mock: deterministic test double, no external dependencies
//
// # Determinism contract
//
// For a fixed model, fixed seed and fixed input text, repeated calls must
// return numerically equivalent vectors. Providers with stochastic
// inference paths must reset their pseudo-random state from the
// configured seed immediately before each call. Providers must release
// per-call transient buffers before returning; memory use must not grow
// across repeated calls.
//
// # Constructor Return Type Pattern
//
// Public provider constructors return the ai.Embedder interface to
// enforce abstraction. The mock constructor returns a concrete type so
// tests can inject behavior and assert on call counts.
package ai
