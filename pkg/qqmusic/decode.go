package qqmusic

import (
	"encoding/hex"
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"music-search/pkg/cipher"
)

// lyricKey 歌词接口的固定 3DES 密钥，来自桌面客户端逆向，不可更换
var lyricKey = []byte("!@#)(*$%123ZXC!@!@#)(NHL")

// DecodeError 歌词负载解码失败 (hex 或 XML 阶段)。
// 只终止当前这一次调用，批量任务里的其他调用不受影响。
type DecodeError struct {
	Stage string
	Err   error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode lyric %s: %v", e.Stage, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// stripWhitespace 服务端返回的 hex 文本夹杂换行和缩进，全部去掉
func stripWhitespace(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\t', '\n', '\r':
			return -1
		}
		return r
	}, s)
}

// decryptLyric 还原一段加密歌词: hex 解码 -> 3DES 解密 -> zlib 解压。
// 部分曲目解密后就是明文 XML，解压失败时按明文处理而不是报错。
func decryptLyric(encHex string) (string, error) {
	data, err := hex.DecodeString(encHex)
	if err != nil {
		return "", &DecodeError{Stage: "hex", Err: err}
	}

	plain, err := cipher.TripleDESDecrypt(data, lyricKey)
	if err != nil {
		return "", err
	}

	inflated, err := cipher.Inflate(plain)
	if err != nil {
		return string(plain), nil
	}
	return string(inflated), nil
}

// extractLyricSections 从歌词接口的外层 XML 里取出
// content/contentts/contentroma 三段密文
func extractLyricSections(xmlStr string) (map[string]string, error) {
	sections := make(map[string]string)
	wanted := map[string]bool{"content": true, "contentts": true, "contentroma": true}

	decoder := xml.NewDecoder(strings.NewReader(xmlStr))
	current := ""
	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, &DecodeError{Stage: "xml", Err: err}
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if wanted[t.Name.Local] {
				current = t.Name.Local
			}
		case xml.CharData:
			if current != "" {
				text := string(t)
				if strings.TrimSpace(text) != "" {
					sections[current] = text
				}
				current = ""
			}
		case xml.EndElement:
			current = ""
		}
	}
	return sections, nil
}

// qrcInfo 解密后的内层 QRC 文档，逐字歌词藏在 Lyric_1 的属性里
type qrcInfo struct {
	XMLName xml.Name `xml:"QrcInfos"`
	Lyric   struct {
		LyricContent string `xml:"LyricContent,attr"`
	} `xml:"LyricInfo>Lyric_1"`
}

// extractQRCContent 从内层 QRC XML 里取出 LyricContent 属性。
// 解析不动或属性缺失时原样返回，调用方拿到什么算什么。
func extractQRCContent(doc string) string {
	var info qrcInfo
	if err := xml.Unmarshal([]byte(doc), &info); err != nil {
		logger.Warn().Err(err).Msg("Failed to parse QRC document, returning raw text")
		return doc
	}
	if info.Lyric.LyricContent == "" {
		return doc
	}
	return info.Lyric.LyricContent
}

// decodeLyricSection 处理一段密文: 去空白、解密、内层 QRC 解包
func decodeLyricSection(encHex string) (string, error) {
	stripped := stripWhitespace(encHex)
	if stripped == "" {
		return "", nil
	}
	decrypted, err := decryptLyric(stripped)
	if err != nil {
		return "", err
	}
	if strings.Contains(decrypted, "<?xml") {
		return extractQRCContent(decrypted), nil
	}
	return decrypted, nil
}
