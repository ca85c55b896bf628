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


// Package match ties the pipeline together: normalize incoming text,
// embed it, rank it against the stored corpus, then apply the matching
// policy.
//
// The policy has two steps. First an exact-match override: when the
// question equals a corpus question under a case/whitespace-insensitive
// comparison, that entry is forced to the top with the maximum score —
// a lexical exact match is ground truth and is never second-guessed by
// an approximate embedding score. Second an acceptance threshold: if the
// best score (after the override) falls below the configured minimum,
// the result is core.ErrNoMatch rather than a low-confidence answer.
//
// RefreshCorpus rebuilds the corpus snapshot (entries, exact-match index
// and embedding matrix together) and swaps it in atomically, so
// concurrent lookups observe either the old corpus in full or the new
// one in full, never a mixture.
package match
