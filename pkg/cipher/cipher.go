// Package cipher 实现音乐服务商接口所需的底层加解密原语。
// 这里的算法必须和服务端逐字节一致，不能替换为"更安全"的标准方案。
package cipher

import (
	"bytes"
	"compress/zlib"
	"crypto/aes"
	stdcipher "crypto/cipher"
	"encoding/hex"
	"fmt"
	"io"
	"math/big"
)

// EncryptError 构造加密请求体时的失败
type EncryptError struct {
	Stage string
	Err   error
}

func (e *EncryptError) Error() string {
	return fmt.Sprintf("encrypt %s: %v", e.Stage, e.Err)
}

func (e *EncryptError) Unwrap() error { return e.Err }

// DecryptError 解密服务端负载时的失败
type DecryptError struct {
	Stage string
	Err   error
}

func (e *DecryptError) Error() string {
	return fmt.Sprintf("decrypt %s: %v", e.Stage, e.Err)
}

func (e *DecryptError) Unwrap() error { return e.Err }

// DecompressError zlib 解压失败
type DecompressError struct {
	Err error
}

func (e *DecompressError) Error() string {
	return fmt.Sprintf("inflate: %v", e.Err)
}

func (e *DecompressError) Unwrap() error { return e.Err }

// pkcs7Padding 填充到块大小整数倍
func pkcs7Padding(data []byte, blockSize int) []byte {
	padding := blockSize - len(data)%blockSize
	padtext := bytes.Repeat([]byte{byte(padding)}, padding)
	return append(data, padtext...)
}

// AESEncryptCBC AES-128-CBC 加密，PKCS#7 填充。
// 固定输入必定产生固定输出，服务端会校验密文，填充差一个字节请求就会整体失败。
func AESEncryptCBC(plaintext, key, iv []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, &EncryptError{Stage: "aes-cbc", Err: err}
	}

	padded := pkcs7Padding(plaintext, block.BlockSize())
	crypted := make([]byte, len(padded))
	stdcipher.NewCBCEncrypter(block, iv).CryptBlocks(crypted, padded)
	return crypted, nil
}

// RSAEncryptNoPad 裸 RSA 加密 (无 OAEP/PKCS1 填充)。
// 流程: 反转明文 -> hex -> 大数 text^e mod n -> 补齐 256 位小写 hex。
// 这是服务商自定义的弱加密方案，必须按位复刻。
func RSAEncryptNoPad(text, exponentHex, modulusHex string) (string, error) {
	reversed := reverseString(text)
	hexText := hex.EncodeToString([]byte(reversed))

	biText, ok := new(big.Int).SetString(hexText, 16)
	if !ok {
		return "", &EncryptError{Stage: "rsa", Err: fmt.Errorf("bad plaintext hex")}
	}
	biExp, ok := new(big.Int).SetString(exponentHex, 16)
	if !ok {
		return "", &EncryptError{Stage: "rsa", Err: fmt.Errorf("bad exponent hex")}
	}
	biMod, ok := new(big.Int).SetString(modulusHex, 16)
	if !ok {
		return "", &EncryptError{Stage: "rsa", Err: fmt.Errorf("bad modulus hex")}
	}

	result := new(big.Int).Exp(biText, biExp, biMod)

	key := fmt.Sprintf("%x", result)
	if len(key) < 256 {
		key = fmt.Sprintf("%0256s", key)
	} else if len(key) > 256 {
		key = key[len(key)-256:]
	}
	return key, nil
}

// Inflate zlib 解压。压缩流损坏时返回 DecompressError，
// 调用方可据此区分"确实没有歌词"和"负载损坏"。
func Inflate(data []byte) ([]byte, error) {
	r, err := zlib.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, &DecompressError{Err: err}
	}
	defer r.Close()

	out, err := io.ReadAll(r)
	if err != nil {
		return nil, &DecompressError{Err: err}
	}
	return out, nil
}

func reverseString(s string) string {
	runes := []rune(s)
	for i, j := 0, len(runes)-1; i < j; i, j = i+1, j-1 {
		runes[i], runes[j] = runes[j], runes[i]
	}
	return string(runes)
}
