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


// Package storage provides the storage abstraction layer for faqmatch.
//
// This package defines repository interfaces that decouple the FAQ and
// feedback stores from the matching pipeline, so different backends
// (BadgerDB, in-memory) can be used interchangeably.
//
// # Constructor Return Type Pattern
//
// Public constructors return interface types to enforce abstraction:
//
//	repo, err := badger.NewFAQRepository(backend)  // returns storage.FAQRepository
//
// Internal package constructors may return concrete types since they are
// only used within the implementation package.
//
// # Ordering
//
// ListEntries returns entries in insertion order. Ranking joins results
// back to answers by index position, so order stability across one
// ranking call matters; the badger backend keeps a monotonic sequence in
// the entry keys to make iteration order deterministic.
//
// # Thread Safety
//
// All repository implementations must be thread-safe and support
// concurrent access from multiple goroutines.
package storage
