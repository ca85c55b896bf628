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

import "fmt"

// ValidateEntry validates an Entry according to domain rules.
//
// Validation rules:
//   - Question must not be empty
//   - Answer must not be empty
//
// NOT validated:
//   - ID (0 is valid; storage assigns content-based IDs)
//   - Metadata (optional)
func ValidateEntry(entry *Entry) error {
	if entry == nil {
		return fmt.Errorf("%w: entry is nil", ErrInvalidEntry)
	}

	if entry.Question == "" {
		return fmt.Errorf("%w: %w", ErrInvalidEntry, ErrEmptyQuestion)
	}

	if entry.Answer == "" {
		return fmt.Errorf("%w: %w", ErrInvalidEntry, ErrEmptyAnswer)
	}

	return nil
}

// ValidateFeedback validates a Feedback record according to domain rules.
//
// Validation rules:
//   - UserQuestion must not be empty
//   - MatchedQuestion must not be empty
func ValidateFeedback(fb *Feedback) error {
	if fb == nil {
		return fmt.Errorf("%w: feedback is nil", ErrInvalidFeedback)
	}

	if fb.UserQuestion == "" {
		return fmt.Errorf("%w: user question cannot be empty", ErrInvalidFeedback)
	}

	if fb.MatchedQuestion == "" {
		return fmt.Errorf("%w: matched question cannot be empty", ErrInvalidFeedback)
	}

	return nil
}
