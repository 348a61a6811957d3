package qqmusic

import (
	"encoding/json"
	"testing"

	"music-search/pkg/music"
)

func TestResolveJSONP(t *testing.T) {
	got := resolveJSONP("getOneSongInfoCallback", `getOneSongInfoCallback({"code": 0})`)
	if got != `{"code": 0}` {
		t.Errorf("resolveJSONP() = %q", got)
	}

	if got := resolveJSONP("callback", `other({"x":1})`); got != "" {
		t.Errorf("mismatched callback should yield empty, got %q", got)
	}
}

func TestIsNumeric(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"107192078", true},
		{"003OUlho2HcRHC", false},
		{"", false},
		{"12a", false},
	}
	for _, tt := range tests {
		if got := isNumeric(tt.in); got != tt.want {
			t.Errorf("isNumeric(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestRandomGUID(t *testing.T) {
	guid := randomGUID()
	if len(guid) != 10 {
		t.Fatalf("len(guid) = %d, want 10", len(guid))
	}
	if !isNumeric(guid) {
		t.Errorf("guid %q is not all digits", guid)
	}
}

func TestSearchBodyConvertSongs(t *testing.T) {
	payload := `{
		"song": {"list": [
			{"id": 107192078, "mid": "003OUlho2HcRHC", "name": "唯一", "title": "唯一 (Live)",
			 "interval": 240, "album": {"id": 1, "mid": "a", "pmid": "p", "name": "T.I.M.E."},
			 "singer": [{"id": 9, "mid": "s", "name": "G.E.M. 邓紫棋"}]},
			{"id": {"bad": true}, "name": "broken"}
		]}
	}`
	var body fcgSearchBody
	if err := json.Unmarshal([]byte(payload), &body); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}

	set := body.convert(music.KindSong)
	if len(set.Songs) != 1 {
		t.Fatalf("len(Songs) = %d, want 1", len(set.Songs))
	}
	s := set.Songs[0]
	if s.DisplayID != "107192078" {
		t.Errorf("DisplayID = %q", s.DisplayID)
	}
	if s.Title != "唯一 (Live)" {
		t.Errorf("Title = %q, want title field over name", s.Title)
	}
	if s.Duration != 240000 {
		t.Errorf("Duration = %d, want 240000", s.Duration)
	}
	if set.Source != music.SourceQQMusic {
		t.Errorf("Source = %v", set.Source)
	}
}

func TestSearchBodyConvertPlaylistCountAlias(t *testing.T) {
	// 服务端两种拼写的 song_count 都要认
	for _, field := range []string{"song_count", "song_Count"} {
		payload := `{
			"songlist": {"list": [
				{"dissid": "7171732069", "dissname": "粤语经典", "introduction": "",
				 "` + field + `": 60, "listennum": 12345, "creator": {"name": "someone"}}
			]}
		}`
		var body fcgSearchBody
		if err := json.Unmarshal([]byte(payload), &body); err != nil {
			t.Fatalf("Unmarshal() error = %v", err)
		}
		set := body.convert(music.KindPlaylist)
		if len(set.Playlists) != 1 {
			t.Fatalf("len(Playlists) = %d, want 1", len(set.Playlists))
		}
		if set.Playlists[0].SongCount != 60 {
			t.Errorf("SongCount via %s = %d, want 60", field, set.Playlists[0].SongCount)
		}
	}
}

func TestAlbumSongToSimple(t *testing.T) {
	payload := `{"songid": 102896328, "songmid": "001Qu4I30eVFYb", "songname": "光年之外",
		"singer": [{"id": 1, "mid": "x", "name": "G.E.M. 邓紫棋"}]}`
	var s albumSong
	if err := json.Unmarshal([]byte(payload), &s); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	simple := s.toSimple()
	if simple.ID != "102896328" || simple.DisplayID != "001Qu4I30eVFYb" {
		t.Errorf("simple = %+v", simple)
	}
}
