package common

import (
	"encoding/base64"
	"encoding/hex"
	"testing"
)

func TestMakeRandHexString_LengthAndHex(t *testing.T) {
	n := 16
	s, err := MakeRandHexString(n)
	if err != nil {
		t.Fatalf("MakeRandHexString error: %v", err)
	}
	if len(s) != 2*n {
		t.Fatalf("expected length %d, got %d", 2*n, len(s))
	}
	if _, err := hex.DecodeString(s); err != nil {
		t.Fatalf("result is not valid hex: %v", err)
	}
}

func TestMakeRandHexString_ZeroSize(t *testing.T) {
	s, err := MakeRandHexString(0)
	if err != nil {
		t.Fatalf("MakeRandHexString error: %v", err)
	}
	if s != "" {
		t.Fatalf("expected empty string, got %q", s)
	}
}

func TestMakeRandURLSafeString_DecodableAndDistinct(t *testing.T) {
	a, err := MakeRandURLSafeString(24)
	if err != nil {
		t.Fatalf("MakeRandURLSafeString error: %v", err)
	}
	b, err := MakeRandURLSafeString(24)
	if err != nil {
		t.Fatalf("MakeRandURLSafeString error: %v", err)
	}
	if _, err := base64.RawURLEncoding.DecodeString(a); err != nil {
		t.Fatalf("result is not valid base64url: %v", err)
	}
	if a == b {
		t.Logf("warning: two MakeRandURLSafeString(24) results are identical; extremely unlikely")
	}
}

func TestGenerateRandByteArray_Basic(t *testing.T) {
	n := 32
	buf := GenerateRandByteArray(n)
	if len(buf) != n {
		t.Fatalf("expected %d bytes, got %d", n, len(buf))
	}
}

func TestGenerateRandByteArray_EntropyHint(t *testing.T) {
	n := 32
	a := GenerateRandByteArray(n)
	b := GenerateRandByteArray(n)
	same := true
	for i := range a {
		if a[i] != b[i] {
			same = false
			break
		}
	}
	if same {
		t.Logf("warning: two GenerateRandByteArray(%d) results are identical; extremely unlikely", n)
	}
}
