package mutf8

import "testing"

func TestRoundTrip(t *testing.T) {
	cases := []string{
		"",
		"hello",
		string(rune(0)),
		"a b",
		"café",       // U+00E9, 2-byte range
		"߿",          // top of 2-byte range
		"ࠀ￿",    // 3-byte range
		"\U0001F600",      // non-BMP, needs surrogate pair
		"mix\U0001F600ed", // non-BMP embedded in ASCII
	}

	for _, s := range cases {
		enc := Encode(s)
		got, err := Decode(enc)
		if err != nil {
			t.Fatalf("Decode(%q) error: %v", s, err)
		}
		if got != s {
			t.Fatalf("round trip mismatch: want %q got %q", s, got)
		}
	}
}

func TestDecodeEmbeddedNulEncoding(t *testing.T) {
	// U+0000 must be the two-byte sequence C0 80, not a bare zero byte.
	got, err := Decode([]byte{0xC0, 0x80})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "\x00" {
		t.Fatalf("expected NUL, got %q", got)
	}
}

func TestDecodeTruncated(t *testing.T) {
	_, err := Decode([]byte{0xC0})
	if err == nil {
		t.Fatalf("expected truncation error")
	}
	var trunc *ErrTruncated
	if !isTruncated(err, &trunc) {
		t.Fatalf("expected ErrTruncated, got %T: %v", err, err)
	}
}

func isTruncated(err error, target **ErrTruncated) bool {
	if e, ok := err.(*ErrTruncated); ok {
		*target = e
		return true
	}
	return false
}

func TestDecodeIllegalContinuation(t *testing.T) {
	_, err := Decode([]byte{0xC2, 0x00})
	if err == nil {
		t.Fatalf("expected illegal sequence error")
	}
}

func TestDecodeUnknownLeadByte(t *testing.T) {
	_, err := Decode([]byte{0xFF})
	if err == nil {
		t.Fatalf("expected illegal sequence error for unknown lead byte")
	}
}
