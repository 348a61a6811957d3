package cipher

import (
	"encoding/base64"
	"errors"
	"testing"
)

var (
	testNonce = []byte("0CoJUm6Qyw8W8jud")
	testIV    = []byte("0102030405060708")
)

const (
	testModulus = "00e0b509f6259df8642dbc35662901477df22677ec152b5ff68ace615bb" +
		"7b725152b3ab17a876aea8a5aa76d2e417629ec4ee341f56135fccf695280104e031" +
		"2ecbda92557c93870114af6c9d05c4f7f0c3685b7a46bee255932575cce10b424d81" +
		"3cfe4875d3e82047b97ddef52741d546b8e289dc6935b3ece0462db0a22b8e7"
	testExponent = "010001"
)

func TestAESEncryptCBC(t *testing.T) {
	got, err := AESEncryptCBC([]byte("hello world"), testNonce, testIV)
	if err != nil {
		t.Fatalf("AESEncryptCBC() error = %v", err)
	}
	want := "4DSisWgkBZuTDBMRpiz81g=="
	if b64 := base64.StdEncoding.EncodeToString(got); b64 != want {
		t.Errorf("ciphertext = %s, want %s", b64, want)
	}
}

func TestAESEncryptCBCTwoStage(t *testing.T) {
	// 和线上抓包一致的两段加密: 先固定 nonce，再用会话密钥
	raw := `{"csrf_token":"","s":"海阔天空","type":"1","limit":"20","offset":"0"}`
	secKey := []byte("vTcAxl9s2XWGUq7p")

	stage1, err := AESEncryptCBC([]byte(raw), testNonce, testIV)
	if err != nil {
		t.Fatalf("stage1 error = %v", err)
	}
	stage1B64 := base64.StdEncoding.EncodeToString(stage1)
	wantStage1 := "eHhjXckqrtZkqcwCalCMx9rWqWWzqF/mKPKHGk49IDqhBJ0OXnb+rSLO" +
		"z9PKp7MdnqG+d5cu8SeWAxU4iZygx5pIgOgj/pWx2hiiHVFssog="
	if stage1B64 != wantStage1 {
		t.Errorf("stage1 = %s, want %s", stage1B64, wantStage1)
	}

	stage2, err := AESEncryptCBC([]byte(stage1B64), secKey, testIV)
	if err != nil {
		t.Fatalf("stage2 error = %v", err)
	}
	wantParams := "ZDsSJDvb9QRdRZ7WhxbG33q38pMhYL+8W6eew005uSZMfTdf5m2G22wY" +
		"kdHGSmgplvchZb9+uwlbQv7kpoZx7Xs1u5oDNkkTrcihV0q3q6UKjCGZZV3F5GDSOQkb" +
		"jTLkivxvM5AS2hVjzDiMRG5eOg=="
	if got := base64.StdEncoding.EncodeToString(stage2); got != wantParams {
		t.Errorf("params = %s, want %s", got, wantParams)
	}
}

func TestAESEncryptCBCBadKey(t *testing.T) {
	if _, err := AESEncryptCBC([]byte("x"), []byte("short"), testIV); err == nil {
		t.Error("expected error for invalid key length")
	}
}

func TestRSAEncryptNoPad(t *testing.T) {
	got, err := RSAEncryptNoPad("vTcAxl9s2XWGUq7p", testExponent, testModulus)
	if err != nil {
		t.Fatalf("RSAEncryptNoPad() error = %v", err)
	}
	want := "7316b06029ab5f22abc000232288eebfb832cdda4a01abad33b39722681212" +
		"87297c186f008b883c33c5dbfee496f7bec218515004b3b4f908adb1b1c9166b052e" +
		"ac7424b5818cbd2504d051b8c28e3a0c26df3314bb9fca77fdfddce27ea066b63891" +
		"dabe757e9e8f28408c29432b8291893d78a54e8a97b4529fbd6ed2816a"
	if got != want {
		t.Errorf("RSAEncryptNoPad() =\n%s\nwant\n%s", got, want)
	}
	if len(got) != 256 {
		t.Errorf("len = %d, want 256", len(got))
	}
}

func TestRSAEncryptNoPadBadModulus(t *testing.T) {
	if _, err := RSAEncryptNoPad("abc", testExponent, "zz"); err == nil {
		t.Error("expected error for invalid modulus hex")
	}
}

func TestInflateBadStream(t *testing.T) {
	_, err := Inflate([]byte{0x00, 0x01, 0x02})
	if err == nil {
		t.Fatal("expected error for corrupt stream")
	}
	var de *DecompressError
	if !errors.As(err, &de) {
		t.Errorf("error type = %T, want *DecompressError", err)
	}
}
