// Package music 定义各音乐服务商共享的数据模型和统一检索接口。
package music

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Source 音乐服务商类型
type Source string

const (
	// SourceNetEase 网易云音乐
	SourceNetEase Source = "netease"
	// SourceQQMusic QQ音乐
	SourceQQMusic Source = "qqmusic"
)

// Name 服务商展示名称
func (s Source) Name() string {
	switch s {
	case SourceNetEase:
		return "NetEase Cloud Music"
	case SourceQQMusic:
		return "QQ Music"
	default:
		return string(s)
	}
}

// ParseSource 根据名称识别服务商
func ParseSource(name string) (Source, error) {
	switch strings.ToLower(name) {
	case "netease", "网易云", "163":
		return SourceNetEase, nil
	case "qqmusic", "qq", "腾讯":
		return SourceQQMusic, nil
	default:
		return "", fmt.Errorf("unknown music source: %s", name)
	}
}

// SearchKind 搜索类型
type SearchKind int

const (
	KindSong SearchKind = iota
	KindAlbum
	KindPlaylist
)

func (k SearchKind) String() string {
	switch k {
	case KindSong:
		return "song"
	case KindAlbum:
		return "album"
	case KindPlaylist:
		return "playlist"
	default:
		return fmt.Sprintf("SearchKind(%d)", int(k))
	}
}

// ParseSearchKind 解析搜索类型名称
func ParseSearchKind(s string) (SearchKind, error) {
	switch s {
	case "song":
		return KindSong, nil
	case "album":
		return KindAlbum, nil
	case "playlist":
		return KindPlaylist, nil
	default:
		return 0, fmt.Errorf("unknown search kind: %s", s)
	}
}

// SearchQuery 单次搜索请求，按调用构造，不可变
type SearchQuery struct {
	Keyword string
	Kind    SearchKind
}

// FlexID 兼容数字或字符串两种 JSON 形式的标识符。
// 两家服务商都会在不同接口、甚至同一列表的不同条目里混用这两种编码，
// 下游把标识符当不透明键使用，所以必须在反序列化时统一成文本。
type FlexID string

// UnmarshalJSON 接受 JSON 字符串或数字
func (f *FlexID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		*f = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = FlexID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("id is neither string nor number: %w", err)
	}
	*f = FlexID(n.String())
	return nil
}

func (f FlexID) String() string { return string(f) }

// StringList 兼容单个字符串或字符串数组的多值字段 (如歌手名)。
type StringList []string

// UnmarshalJSON 接受字符串或字符串数组
func (l *StringList) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		*l = nil
		return nil
	}
	if data[0] == '[' {
		var arr []string
		if err := json.Unmarshal(data, &arr); err != nil {
			return err
		}
		*l = arr
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("value is neither string nor array: %w", err)
	}
	*l = StringList{s}
	return nil
}

// SongSummary 搜索结果中的歌曲条目
type SongSummary struct {
	DisplayID string   `json:"display_id"`
	Title     string   `json:"title"`
	Artists   []string `json:"artists"`
	Album     string   `json:"album"`
	// Duration 毫秒
	Duration int64 `json:"duration"`
}

// AlbumSummary 搜索结果中的专辑条目
type AlbumSummary struct {
	DisplayID   string   `json:"display_id"`
	Name        string   `json:"name"`
	Artists     []string `json:"artists"`
	SongCount   int64    `json:"song_count"`
	PublishTime string   `json:"publish_time,omitempty"`
}

// PlaylistSummary 搜索结果中的歌单条目
type PlaylistSummary struct {
	DisplayID   string `json:"display_id"`
	Name        string `json:"name"`
	Creator     string `json:"creator"`
	Description string `json:"description,omitempty"`
	PlayCount   int64  `json:"play_count"`
	SongCount   int64  `json:"song_count"`
}

// SearchResultSet 一次搜索的全部命中，保持服务商返回的相关性顺序
type SearchResultSet struct {
	Kind      SearchKind        `json:"kind"`
	Source    Source            `json:"source"`
	Songs     []SongSummary     `json:"songs,omitempty"`
	Albums    []AlbumSummary    `json:"albums,omitempty"`
	Playlists []PlaylistSummary `json:"playlists,omitempty"`
}

// Empty 判断是否没有任何命中
func (r *SearchResultSet) Empty() bool {
	return len(r.Songs) == 0 && len(r.Albums) == 0 && len(r.Playlists) == 0
}

// Song 歌曲详情
type Song struct {
	ID        string   `json:"id"`
	DisplayID string   `json:"display_id"`
	Title     string   `json:"title"`
	Artists   []string `json:"artists"`
	Album     string   `json:"album"`
	PicURL    string   `json:"pic_url,omitempty"`
	// Duration 毫秒
	Duration int64 `json:"duration"`
}

// SimpleSong 歌单/专辑里内嵌的简化歌曲
type SimpleSong struct {
	ID        string   `json:"id"`
	DisplayID string   `json:"display_id"`
	Title     string   `json:"title"`
	Artists   []string `json:"artists"`
}

// Playlist 歌单详情
type Playlist struct {
	Name        string       `json:"name"`
	Creator     string       `json:"creator"`
	Description string       `json:"description,omitempty"`
	Songs       []SimpleSong `json:"songs"`
}

// Album 专辑详情
type Album struct {
	Name        string       `json:"name"`
	Company     string       `json:"company,omitempty"`
	Description string       `json:"description,omitempty"`
	PublishTime string       `json:"publish_time,omitempty"`
	Songs       []SimpleSong `json:"songs"`
}

// LyricMetadata 歌词附加信息
type LyricMetadata struct {
	Contributor string `json:"contributor,omitempty"`
	Copyright   string `json:"copyright,omitempty"`
	UpdatedAt   string `json:"updated_at,omitempty"`
}

// LyricPayload 一次歌词抓取的完整结果
type LyricPayload struct {
	// Content 原文歌词，可能是纯文本、LRC 或逐字 LRC (见 Format)
	Content string      `json:"content"`
	Format  LyricFormat `json:"format"`
	// Translation 翻译歌词 (如有)
	Translation string `json:"translation,omitempty"`
	// Transliteration 音译歌词 (如有)
	Transliteration string        `json:"transliteration,omitempty"`
	Language        string        `json:"language,omitempty"`
	Source          Source        `json:"source"`
	URL             string        `json:"url,omitempty"`
	Metadata        LyricMetadata `json:"metadata"`
}
