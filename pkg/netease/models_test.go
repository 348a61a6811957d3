package netease

import (
	"encoding/json"
	"testing"

	"music-search/pkg/music"
)

func TestSearchResultConvertSongs(t *testing.T) {
	payload := `{
		"songs": [
			{"id": 107192078, "name": "海阔天空", "ar": [{"id": 1, "name": "Beyond"}],
			 "al": {"id": 2, "name": "乐与怒", "picUrl": "http://p1.example/x.jpg"}, "dt": 326000},
			{"id": "28755209", "name": "唯一", "ar": [{"id": 3, "name": "G.E.M. 邓紫棋"}],
			 "al": {"id": 4, "name": "新的心跳", "picUrl": ""}, "dt": 240000}
		],
		"songCount": 2
	}`
	var result searchResult
	if err := json.Unmarshal([]byte(payload), &result); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}

	set := result.convert(music.KindSong)
	if len(set.Songs) != 2 {
		t.Fatalf("len(Songs) = %d, want 2", len(set.Songs))
	}
	// 数字和字符串形式的 id 都归一成文本
	if set.Songs[0].DisplayID != "107192078" {
		t.Errorf("Songs[0].DisplayID = %q", set.Songs[0].DisplayID)
	}
	if set.Songs[1].DisplayID != "28755209" {
		t.Errorf("Songs[1].DisplayID = %q", set.Songs[1].DisplayID)
	}
	if set.Songs[0].Artists[0] != "Beyond" || set.Songs[0].Album != "乐与怒" {
		t.Errorf("Songs[0] = %+v", set.Songs[0])
	}
	if set.Source != music.SourceNetEase || set.Kind != music.KindSong {
		t.Errorf("set meta = %v/%v", set.Source, set.Kind)
	}
}

func TestSearchResultConvertDropsMalformedItem(t *testing.T) {
	// 第二条的 id 是布尔值，解析失败只能丢这一条，不能拖垮整个列表
	payload := `{
		"songs": [
			{"id": 1, "name": "good", "ar": [], "al": {"id": 0, "name": "", "picUrl": ""}, "dt": 1000},
			{"id": true, "name": "bad"},
			{"id": 3, "name": "also good", "ar": [], "al": {"id": 0, "name": "", "picUrl": ""}, "dt": 2000}
		],
		"songCount": 3
	}`
	var result searchResult
	if err := json.Unmarshal([]byte(payload), &result); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}

	set := result.convert(music.KindSong)
	if len(set.Songs) != 2 {
		t.Fatalf("len(Songs) = %d, want 2", len(set.Songs))
	}
	if set.Songs[0].DisplayID != "1" || set.Songs[1].DisplayID != "3" {
		t.Errorf("surviving ids = %q, %q", set.Songs[0].DisplayID, set.Songs[1].DisplayID)
	}
}

func TestSearchResultConvertPlaylists(t *testing.T) {
	payload := `{
		"playlists": [
			{"id": "7171732069", "name": "粤语经典", "creator": {"userId": 9, "nickname": "someone"},
			 "description": "desc", "playCount": 12345, "trackCount": 60}
		],
		"playlistCount": 1
	}`
	var result searchResult
	if err := json.Unmarshal([]byte(payload), &result); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}

	set := result.convert(music.KindPlaylist)
	if len(set.Playlists) != 1 {
		t.Fatalf("len(Playlists) = %d, want 1", len(set.Playlists))
	}
	p := set.Playlists[0]
	if p.DisplayID != "7171732069" || p.Creator != "someone" || p.SongCount != 60 {
		t.Errorf("playlist = %+v", p)
	}
}

func TestDecodeSongs(t *testing.T) {
	raws := []json.RawMessage{
		json.RawMessage(`{"id": 5, "name": "ok", "ar": [{"id": 1, "name": "a"}], "al": {"id": 0, "name": "al", "picUrl": "u"}, "dt": 100}`),
		json.RawMessage(`{"id": [], "name": "broken"}`),
	}
	songs := decodeSongs(raws)
	if len(songs) != 1 {
		t.Fatalf("len(songs) = %d, want 1", len(songs))
	}
	song := songs[0].toSong()
	if song.ID != "5" || song.Album != "al" || song.PicURL != "u" {
		t.Errorf("song = %+v", song)
	}
}

func TestFormatTimestamp(t *testing.T) {
	if got := formatTimestamp(0); got != "" {
		t.Errorf("formatTimestamp(0) = %q, want empty", got)
	}
	// 1993-05-01 前后发行的专辑时间戳
	if got := formatTimestamp(736185600000); got != "1993-04-30" {
		t.Errorf("formatTimestamp() = %q", got)
	}
}
