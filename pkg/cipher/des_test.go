package cipher

import (
	"bytes"
	"encoding/hex"
	"testing"
)

var testDESKey = []byte("!@#)(*$%123ZXC!@!@#)(NHL")

func TestTripleDESDecryptKnownAnswer(t *testing.T) {
	// 线上歌词密文的前两个分组，明文开头是 zlib 魔数 0x789c
	ct, err := hex.DecodeString("00367FE8E50542ABECE8E677924C7C2D")
	if err != nil {
		t.Fatal(err)
	}
	plain, err := TripleDESDecrypt(ct, testDESKey)
	if err != nil {
		t.Fatalf("TripleDESDecrypt() error = %v", err)
	}
	want, _ := hex.DecodeString("789C4558DB6E55D7")
	if !bytes.Equal(plain[:8], want) {
		t.Errorf("plain[:8] = %X, want %X", plain[:8], want)
	}
}

func TestTripleDESRoundTrip(t *testing.T) {
	tests := []struct {
		name  string
		plain []byte
	}{
		{"single block", []byte("8 bytes!")},
		{"two blocks", []byte("16 byte message.")},
		{"long", bytes.Repeat([]byte("0123456789abcdef"), 7)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ct, err := TripleDESEncrypt(tt.plain, testDESKey)
			if err != nil {
				t.Fatalf("TripleDESEncrypt() error = %v", err)
			}
			got, err := TripleDESDecrypt(ct, testDESKey)
			if err != nil {
				t.Fatalf("TripleDESDecrypt() error = %v", err)
			}
			if !bytes.Equal(got, tt.plain) {
				t.Errorf("round trip = %X, want %X", got, tt.plain)
			}
		})
	}
}

func TestTripleDESBadKeyLength(t *testing.T) {
	if _, err := TripleDESDecrypt([]byte("12345678"), []byte("short")); err == nil {
		t.Error("expected error for short key")
	}
}
