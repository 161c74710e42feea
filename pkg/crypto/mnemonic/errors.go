package mnemonic

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidEntropyLength = errors.New("invalid entropy length")
	ErrInvalidWordCount     = errors.New("invalid word count")
	ErrUnknownWord          = errors.New("unknown word")
	ErrChecksumMismatch     = errors.New("checksum mismatch")
	ErrShortDigest          = errors.New("checksum digest too short")
)

// EntropyLengthError reports entropy whose byte length is not one of
// 16, 20, 24, 28 or 32.
type EntropyLengthError struct {
	Length int
}

func (e *EntropyLengthError) Error() string {
	return fmt.Sprintf("%s: got %d bytes, want 16, 20, 24, 28 or 32", ErrInvalidEntropyLength, e.Length)
}

func (e *EntropyLengthError) Unwrap() error { return ErrInvalidEntropyLength }

// WordCountError reports a phrase whose word count does not correspond to
// any allowed entropy length.
type WordCountError struct {
	Count int
}

func (e *WordCountError) Error() string {
	return fmt.Sprintf("%s: got %d words, want 12, 15, 18, 21 or 24", ErrInvalidWordCount, e.Count)
}

func (e *WordCountError) Unwrap() error { return ErrInvalidWordCount }

// UnknownWordError names the first phrase word missing from the wordlist.
// Position is zero-based; the message uses the one-based position a user
// would count.
type UnknownWordError struct {
	Word     string
	Position int
}

func (e *UnknownWordError) Error() string {
	return fmt.Sprintf("%s %q at position %d", ErrUnknownWord, e.Word, e.Position+1)
}

func (e *UnknownWordError) Unwrap() error { return ErrUnknownWord }

// DigestSizeError reports a ChecksumFunc that returned fewer than 32 bytes.
type DigestSizeError struct {
	Size int
}

func (e *DigestSizeError) Error() string {
	return fmt.Sprintf("%s: got %d bytes, want at least %d", ErrShortDigest, e.Size, minDigestSize)
}

func (e *DigestSizeError) Unwrap() error { return ErrShortDigest }
