package netease

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"

	"music-search/pkg/cipher"
)

// weapi 加密常量。modulus/exponent 是服务商网页端公开发布的 RSA 公钥，
// nonce 和 iv 同样硬编码在网页端 JS 里，三者都不能改动。
const (
	weapiNonce    = "0CoJUm6Qyw8W8jud"
	weapiIV       = "0102030405060708"
	weapiExponent = "010001"
	weapiModulus  = "00e0b509f6259df8642dbc35662901477df22677ec152b5ff68ace615bb" +
		"7b725152b3ab17a876aea8a5aa76d2e417629ec4ee341f56135fccf695280104e031" +
		"2ecbda92557c93870114af6c9d05c4f7f0c3685b7a46bee255932575cce10b424d81" +
		"3cfe4875d3e82047b97ddef52741d546b8e289dc6935b3ece0462db0a22b8e7"

	secretKeyCharset = "0123456789abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"
	secretKeyLength  = 16
)

// randomSecretKey 生成二段加密用的随机会话密钥
func randomSecretKey(length int) (string, error) {
	buf := make([]byte, length)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate secret key: %w", err)
	}
	for i, b := range buf {
		buf[i] = secretKeyCharset[int(b)%len(secretKeyCharset)]
	}
	return string(buf), nil
}

// aesEncodeBase64 AES-CBC 加密后 base64 编码，weapi 两段加密各调一次
func aesEncodeBase64(data, key string) (string, error) {
	ct, err := cipher.AESEncryptCBC([]byte(data), []byte(key), []byte(weapiIV))
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(ct), nil
}

// encryptParams 把明文 JSON 变成 weapi 要求的 params 字段:
// 先用固定 nonce 加密，再用会话密钥对上一步的 base64 结果加密
func encryptParams(raw, secretKey string) (string, error) {
	stage1, err := aesEncodeBase64(raw, weapiNonce)
	if err != nil {
		return "", err
	}
	return aesEncodeBase64(stage1, secretKey)
}

// cipherRSA 用公开模数加密会话密钥，产出 encSecKey 表单字段
func cipherRSA(secretKey string) (string, error) {
	return cipher.RSAEncryptNoPad(secretKey, weapiExponent, weapiModulus)
}
