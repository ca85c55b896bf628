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


package storage

import (
	"fmt"
	"sort"
	"time"

	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/raw"
	"github.com/mus-format/mus-go/varint"
	"github.com/poiesic/faqmatch/core"
)

// MUS binary codec for stored records. Timestamps are serialized as
// microsecond unix values; metadata maps are written with sorted keys so
// encoding is deterministic. Embedding vectors are never persisted — the
// matrix is rebuilt in full from text whenever the corpus loads.

// MarshalID serializes an ID to bytes.
func MarshalID(id core.ID) []byte {
	buf := make([]byte, varint.Uint64.Size(uint64(id)))
	varint.Uint64.Marshal(uint64(id), buf)
	return buf
}

// UnmarshalID deserializes an ID from bytes.
func UnmarshalID(data []byte) (core.ID, error) {
	v, _, err := varint.Uint64.Unmarshal(data)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
	}
	return core.ID(v), nil
}

// MarshalEntry serializes an Entry to bytes.
func MarshalEntry(entry *core.Entry) []byte {
	keys := sortedKeys(entry.Metadata)

	size := varint.Uint64.Size(uint64(entry.Id)) +
		ord.String.Size(entry.Question) +
		ord.String.Size(entry.Answer) +
		ord.String.Size(entry.Source) +
		varint.Int64.Size(entry.InsertedAt.UnixMicro()) +
		varint.Int64.Size(entry.UpdatedAt.UnixMicro()) +
		varint.Int.Size(len(keys))
	for _, k := range keys {
		size += ord.String.Size(k) + ord.String.Size(entry.Metadata[k])
	}

	buf := make([]byte, size)
	n := varint.Uint64.Marshal(uint64(entry.Id), buf)
	n += ord.String.Marshal(entry.Question, buf[n:])
	n += ord.String.Marshal(entry.Answer, buf[n:])
	n += ord.String.Marshal(entry.Source, buf[n:])
	n += varint.Int64.Marshal(entry.InsertedAt.UnixMicro(), buf[n:])
	n += varint.Int64.Marshal(entry.UpdatedAt.UnixMicro(), buf[n:])
	n += varint.Int.Marshal(len(keys), buf[n:])
	for _, k := range keys {
		n += ord.String.Marshal(k, buf[n:])
		n += ord.String.Marshal(entry.Metadata[k], buf[n:])
	}
	return buf
}

// UnmarshalEntry deserializes an Entry from bytes.
func UnmarshalEntry(data []byte) (*core.Entry, error) {
	var (
		entry core.Entry
		n     int
	)

	id, c, err := varint.Uint64.Unmarshal(data[n:])
	if err != nil {
		return nil, fmt.Errorf("%w: id: %w", ErrSerializationFailed, err)
	}
	n += c
	entry.Id = core.ID(id)

	if entry.Question, c, err = ord.String.Unmarshal(data[n:]); err != nil {
		return nil, fmt.Errorf("%w: question: %w", ErrSerializationFailed, err)
	}
	n += c
	if entry.Answer, c, err = ord.String.Unmarshal(data[n:]); err != nil {
		return nil, fmt.Errorf("%w: answer: %w", ErrSerializationFailed, err)
	}
	n += c
	if entry.Source, c, err = ord.String.Unmarshal(data[n:]); err != nil {
		return nil, fmt.Errorf("%w: source: %w", ErrSerializationFailed, err)
	}
	n += c

	inserted, c, err := varint.Int64.Unmarshal(data[n:])
	if err != nil {
		return nil, fmt.Errorf("%w: inserted at: %w", ErrSerializationFailed, err)
	}
	n += c
	entry.InsertedAt = time.UnixMicro(inserted).UTC()

	updated, c, err := varint.Int64.Unmarshal(data[n:])
	if err != nil {
		return nil, fmt.Errorf("%w: updated at: %w", ErrSerializationFailed, err)
	}
	n += c
	entry.UpdatedAt = time.UnixMicro(updated).UTC()

	count, c, err := varint.Int.Unmarshal(data[n:])
	if err != nil {
		return nil, fmt.Errorf("%w: metadata length: %w", ErrSerializationFailed, err)
	}
	n += c
	if count > 0 {
		entry.Metadata = make(map[string]string, count)
		for i := 0; i < count; i++ {
			k, c, err := ord.String.Unmarshal(data[n:])
			if err != nil {
				return nil, fmt.Errorf("%w: metadata key: %w", ErrSerializationFailed, err)
			}
			n += c
			v, c, err := ord.String.Unmarshal(data[n:])
			if err != nil {
				return nil, fmt.Errorf("%w: metadata value: %w", ErrSerializationFailed, err)
			}
			n += c
			entry.Metadata[k] = v
		}
	}

	return &entry, nil
}

// MarshalFeedback serializes a Feedback record to bytes.
func MarshalFeedback(fb *core.Feedback) []byte {
	size := varint.Uint64.Size(uint64(fb.Id)) +
		ord.String.Size(fb.UserQuestion) +
		ord.Bool.Size(fb.Related) +
		ord.String.Size(fb.MatchedQuestion) +
		ord.String.Size(fb.MatchedAnswer) +
		raw.Float32.Size(fb.Score) +
		varint.Int64.Size(fb.InsertedAt.UnixMicro())

	buf := make([]byte, size)
	n := varint.Uint64.Marshal(uint64(fb.Id), buf)
	n += ord.String.Marshal(fb.UserQuestion, buf[n:])
	n += ord.Bool.Marshal(fb.Related, buf[n:])
	n += ord.String.Marshal(fb.MatchedQuestion, buf[n:])
	n += ord.String.Marshal(fb.MatchedAnswer, buf[n:])
	n += raw.Float32.Marshal(fb.Score, buf[n:])
	n += varint.Int64.Marshal(fb.InsertedAt.UnixMicro(), buf[n:])
	return buf
}

// UnmarshalFeedback deserializes a Feedback record from bytes.
func UnmarshalFeedback(data []byte) (*core.Feedback, error) {
	var (
		fb core.Feedback
		n  int
	)

	id, c, err := varint.Uint64.Unmarshal(data[n:])
	if err != nil {
		return nil, fmt.Errorf("%w: id: %w", ErrSerializationFailed, err)
	}
	n += c
	fb.Id = core.ID(id)

	if fb.UserQuestion, c, err = ord.String.Unmarshal(data[n:]); err != nil {
		return nil, fmt.Errorf("%w: user question: %w", ErrSerializationFailed, err)
	}
	n += c
	if fb.Related, c, err = ord.Bool.Unmarshal(data[n:]); err != nil {
		return nil, fmt.Errorf("%w: related: %w", ErrSerializationFailed, err)
	}
	n += c
	if fb.MatchedQuestion, c, err = ord.String.Unmarshal(data[n:]); err != nil {
		return nil, fmt.Errorf("%w: matched question: %w", ErrSerializationFailed, err)
	}
	n += c
	if fb.MatchedAnswer, c, err = ord.String.Unmarshal(data[n:]); err != nil {
		return nil, fmt.Errorf("%w: matched answer: %w", ErrSerializationFailed, err)
	}
	n += c
	if fb.Score, c, err = raw.Float32.Unmarshal(data[n:]); err != nil {
		return nil, fmt.Errorf("%w: score: %w", ErrSerializationFailed, err)
	}
	n += c

	inserted, _, err := varint.Int64.Unmarshal(data[n:])
	if err != nil {
		return nil, fmt.Errorf("%w: inserted at: %w", ErrSerializationFailed, err)
	}
	fb.InsertedAt = time.UnixMicro(inserted).UTC()

	return &fb, nil
}

func sortedKeys(m map[string]string) []string {
	if len(m) == 0 {
		return nil
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
