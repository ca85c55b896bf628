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


package core

import "errors"

// Domain errors
var (
	// ErrInvalidConfig indicates malformed or missing configuration.
	// Fatal at startup.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrInvalidEntry indicates an Entry failed validation.
	ErrInvalidEntry = errors.New("invalid faq entry")

	// ErrInvalidFeedback indicates a Feedback record failed validation.
	ErrInvalidFeedback = errors.New("invalid feedback")

	// ErrEmptyQuestion indicates the Question field is empty.
	ErrEmptyQuestion = errors.New("question cannot be empty")

	// ErrEmptyAnswer indicates the Answer field is empty.
	ErrEmptyAnswer = errors.New("answer cannot be empty")

	// ErrEmptyCorpus indicates ranking was requested before any corpus
	// was set. Reported to the caller, not fatal to the process.
	ErrEmptyCorpus = errors.New("corpus is empty")

	// ErrInvalidTopK indicates k is out of the range [1, corpus size].
	ErrInvalidTopK = errors.New("top-k out of range")

	// ErrEmbeddingProvider indicates the embedding model call failed.
	// Distinct from ErrNoMatch so callers can tell "no match" apart
	// from "the model broke".
	ErrEmbeddingProvider = errors.New("embedding provider failure")

	// ErrNoMatch is the matching policy's normal negative result: the
	// best score fell below the acceptance threshold. Not a failure.
	ErrNoMatch = errors.New("no match found")
)
