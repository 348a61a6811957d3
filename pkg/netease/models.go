package netease

import (
	"encoding/json"
	"time"

	"music-search/pkg/music"
)

// 网易云各接口的响应结构。字段命名和大小写跟着服务端走，
// 列表字段先收成 RawMessage，逐条解码，坏条目丢弃而不是整体失败。

type artist struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

func artistNames(list []artist) []string {
	names := make([]string, 0, len(list))
	for _, a := range list {
		names = append(names, a.Name)
	}
	return names
}

type albumRef struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	PicURL string `json:"picUrl"`
}

type songItem struct {
	ID   music.FlexID `json:"id"`
	Name string       `json:"name"`
	// Ar/Al/Dt 是服务端的缩写字段名
	Ar []artist `json:"ar"`
	Al albumRef `json:"al"`
	Dt int64    `json:"dt"`
}

func (s *songItem) toSong() music.Song {
	return music.Song{
		ID:        s.ID.String(),
		DisplayID: s.ID.String(),
		Title:     s.Name,
		Artists:   artistNames(s.Ar),
		Album:     s.Al.Name,
		PicURL:    s.Al.PicURL,
		Duration:  s.Dt,
	}
}

func (s *songItem) toSimple() music.SimpleSong {
	return music.SimpleSong{
		ID:        s.ID.String(),
		DisplayID: s.ID.String(),
		Title:     s.Name,
		Artists:   artistNames(s.Ar),
	}
}

type albumItem struct {
	ID          music.FlexID `json:"id"`
	Name        string       `json:"name"`
	Artists     []artist     `json:"artists"`
	Size        int64        `json:"size"`
	PublishTime int64        `json:"publishTime"`
}

type creator struct {
	UserID   int64  `json:"userId"`
	Nickname string `json:"nickname"`
}

type playlistItem struct {
	ID          music.FlexID `json:"id"`
	Name        string       `json:"name"`
	Creator     creator      `json:"creator"`
	Description string       `json:"description"`
	PlayCount   int64        `json:"playCount"`
	TrackCount  int64        `json:"trackCount"`
}

type searchResponse struct {
	Code   int          `json:"code"`
	Result searchResult `json:"result"`
}

type searchResult struct {
	Songs     []json.RawMessage `json:"songs"`
	SongCount int64             `json:"songCount"`

	Albums     []json.RawMessage `json:"albums"`
	AlbumCount int64             `json:"albumCount"`

	Playlists     []json.RawMessage `json:"playlists"`
	PlaylistCount int64             `json:"playlistCount"`
}

func (r *searchResult) convert(kind music.SearchKind) *music.SearchResultSet {
	set := &music.SearchResultSet{Kind: kind, Source: music.SourceNetEase}

	switch kind {
	case music.KindSong:
		for _, raw := range r.Songs {
			var s songItem
			if err := json.Unmarshal(raw, &s); err != nil {
				logger.Warn().Err(err).Msg("Dropping malformed song item in search result")
				continue
			}
			set.Songs = append(set.Songs, music.SongSummary{
				DisplayID: s.ID.String(),
				Title:     s.Name,
				Artists:   artistNames(s.Ar),
				Album:     s.Al.Name,
				Duration:  s.Dt,
			})
		}
	case music.KindAlbum:
		for _, raw := range r.Albums {
			var a albumItem
			if err := json.Unmarshal(raw, &a); err != nil {
				logger.Warn().Err(err).Msg("Dropping malformed album item in search result")
				continue
			}
			set.Albums = append(set.Albums, music.AlbumSummary{
				DisplayID:   a.ID.String(),
				Name:        a.Name,
				Artists:     artistNames(a.Artists),
				SongCount:   a.Size,
				PublishTime: formatTimestamp(a.PublishTime),
			})
		}
	case music.KindPlaylist:
		for _, raw := range r.Playlists {
			var p playlistItem
			if err := json.Unmarshal(raw, &p); err != nil {
				logger.Warn().Err(err).Msg("Dropping malformed playlist item in search result")
				continue
			}
			set.Playlists = append(set.Playlists, music.PlaylistSummary{
				DisplayID:   p.ID.String(),
				Name:        p.Name,
				Creator:     p.Creator.Nickname,
				Description: p.Description,
				PlayCount:   p.PlayCount,
				SongCount:   p.TrackCount,
			})
		}
	}
	return set
}

type trackRef struct {
	ID music.FlexID `json:"id"`
}

type playlistDetail struct {
	Name        string     `json:"name"`
	Creator     creator    `json:"creator"`
	Description string     `json:"description"`
	TrackIDs    []trackRef `json:"trackIds"`
}

type playlistResponse struct {
	Code     int            `json:"code"`
	Playlist playlistDetail `json:"playlist"`
}

type albumInfo struct {
	Name        string `json:"name"`
	Company     string `json:"company"`
	Description string `json:"description"`
	PublishTime int64  `json:"publishTime"`
}

type albumResponse struct {
	Code  int               `json:"code"`
	Album albumInfo         `json:"album"`
	Songs []json.RawMessage `json:"songs"`
}

type detailResponse struct {
	Code  int               `json:"code"`
	Songs []json.RawMessage `json:"songs"`
}

// decodeSongs 逐条解码歌曲列表，坏条目记警告后丢弃
func decodeSongs(raws []json.RawMessage) []songItem {
	songs := make([]songItem, 0, len(raws))
	for _, raw := range raws {
		var s songItem
		if err := json.Unmarshal(raw, &s); err != nil {
			logger.Warn().Err(err).Msg("Dropping malformed song item")
			continue
		}
		songs = append(songs, s)
	}
	return songs
}

type urlDatum struct {
	ID  music.FlexID `json:"id"`
	URL string       `json:"url"`
}

type songURLResponse struct {
	Code int        `json:"code"`
	Data []urlDatum `json:"data"`
}

type lyricBody struct {
	Lyric string `json:"lyric"`
}

type lyricUser struct {
	Nickname string `json:"nickname"`
}

type lyricResponse struct {
	Code      int        `json:"code"`
	Lrc       *lyricBody `json:"lrc"`
	Tlyric    *lyricBody `json:"tlyric"`
	Romalrc   *lyricBody `json:"romalrc"`
	LyricUser *lyricUser `json:"lyricUser"`
}

func formatTimestamp(ms int64) string {
	if ms <= 0 {
		return ""
	}
	return time.UnixMilli(ms).UTC().Format("2006-01-02")
}
