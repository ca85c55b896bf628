package badger

import (
	"encoding/binary"

	"github.com/poiesic/faqmatch/core"
)

// Key prefixes for different data types
const (
	faqEntryPrefix    = "faqent"
	faqQuestionPrefix = "faqque"
	faqEntrySeq       = "faqentseq"
	feedbackPrefix    = "fbkrec"
	feedbackSeq       = "fbkrecseq"
)

// makeEntryKey generates a key for an FAQ entry at a corpus position.
// Format: prefix:position. The position is written in BigEndian order so
// lexicographic key order matches insertion order.
func makeEntryKey(pos uint64) []byte {
	prefix := faqEntryPrefix + ":"
	buf := make([]byte, len(prefix)+8)
	offset := copy(buf, []byte(prefix))
	binary.BigEndian.PutUint64(buf[offset:], pos)
	return buf
}

// makeQuestionKey generates a key for the question index. The index maps
// the canonical form of a question to the entry's corpus position.
// Format: prefix:canonicalKey
func makeQuestionKey(question string) []byte {
	prefix := faqQuestionPrefix + ":"
	canonical := core.CanonicalKey(question)
	buf := make([]byte, len(prefix)+len(canonical))
	offset := copy(buf, []byte(prefix))
	copy(buf[offset:], []byte(canonical))
	return buf
}

// makeFeedbackKey generates a key for a feedback record.
// Format: prefix:position, BigEndian for insertion-order iteration.
func makeFeedbackKey(pos uint64) []byte {
	prefix := feedbackPrefix + ":"
	buf := make([]byte, len(prefix)+8)
	offset := copy(buf, []byte(prefix))
	binary.BigEndian.PutUint64(buf[offset:], pos)
	return buf
}

// marshalPosition encodes a corpus position for index values.
func marshalPosition(pos uint64) []byte {
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, pos)
	return buf
}

// unmarshalPosition decodes a corpus position from an index value.
func unmarshalPosition(data []byte) uint64 {
	if len(data) < 8 {
		return 0
	}
	return binary.BigEndian.Uint64(data)
}
