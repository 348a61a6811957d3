package qqmusic

import (
	"encoding/json"
	"fmt"

	"music-search/pkg/music"
)

// QQ音乐各接口的响应结构。搜索走 musicu.fcg 的信封格式，
// 其余接口还是老的 fcg cgi，字段命名很不统一，以服务端为准。

type singer struct {
	ID   int64  `json:"id"`
	Mid  string `json:"mid"`
	Name string `json:"name"`
}

func singerNames(list []singer) []string {
	names := make([]string, 0, len(list))
	for _, s := range list {
		names = append(names, s.Name)
	}
	return names
}

type songAlbum struct {
	ID   int64  `json:"id"`
	Mid  string `json:"mid"`
	Pmid string `json:"pmid"`
	Name string `json:"name"`
}

type songItem struct {
	ID       music.FlexID `json:"id"`
	Mid      string       `json:"mid"`
	Name     string       `json:"name"`
	Title    string       `json:"title"`
	Interval int64        `json:"interval"`
	Album    songAlbum    `json:"album"`
	Singer   []singer     `json:"singer"`
}

// displayTitle 新接口在 title 字段返回带修饰的歌名，老字段是 name
func (s *songItem) displayTitle() string {
	if s.Title != "" {
		return s.Title
	}
	return s.Name
}

func (s *songItem) toSong() music.Song {
	return music.Song{
		ID:        s.ID.String(),
		DisplayID: s.Mid,
		Title:     s.displayTitle(),
		Artists:   singerNames(s.Singer),
		Album:     s.Album.Name,
		PicURL:    fmt.Sprintf(albumPicURL, s.Album.Pmid),
		// interval 的单位是秒
		Duration: s.Interval * 1000,
	}
}

func (s *songItem) toSimple() music.SimpleSong {
	return music.SimpleSong{
		ID:        s.ID.String(),
		DisplayID: s.Mid,
		Title:     s.Name,
		Artists:   singerNames(s.Singer),
	}
}

type albumEntry struct {
	AlbumID    music.FlexID `json:"albumID"`
	AlbumMid   string       `json:"albumMID"`
	AlbumName  string       `json:"albumName"`
	SongCount  int64        `json:"song_count"`
	PublicTime string       `json:"publicTime"`
	SingerList []singer     `json:"singer_list"`
}

type playlistEntry struct {
	Dissid       music.FlexID `json:"dissid"`
	Dissname     string       `json:"dissname"`
	Introduction string       `json:"introduction"`
	// 服务端在不同版本里给过 song_count 和 song_Count 两种拼写，
	// encoding/json 的大小写不敏感匹配把两者都吃掉
	SongCount int64           `json:"song_count"`
	Listennum int64           `json:"listennum"`
	Creator   playlistCreator `json:"creator"`
}

type playlistCreator struct {
	Name string `json:"name"`
}

type fcgSearchResponse struct {
	Code int          `json:"code"`
	Req1 fcgSearchReq `json:"req_1"`
}

type fcgSearchReq struct {
	Code int           `json:"code"`
	Data fcgSearchData `json:"data"`
}

type fcgSearchData struct {
	Code int           `json:"code"`
	Body fcgSearchBody `json:"body"`
}

type fcgSearchBody struct {
	Song     *fcgList `json:"song"`
	Album    *fcgList `json:"album"`
	Songlist *fcgList `json:"songlist"`
}

type fcgList struct {
	List []json.RawMessage `json:"list"`
}

func (b *fcgSearchBody) convert(kind music.SearchKind) *music.SearchResultSet {
	set := &music.SearchResultSet{Kind: kind, Source: music.SourceQQMusic}

	switch kind {
	case music.KindSong:
		if b.Song == nil {
			return set
		}
		for _, raw := range b.Song.List {
			var s songItem
			if err := json.Unmarshal(raw, &s); err != nil {
				logger.Warn().Err(err).Msg("Dropping malformed song item in search result")
				continue
			}
			set.Songs = append(set.Songs, music.SongSummary{
				DisplayID: s.ID.String(),
				Title:     s.displayTitle(),
				Artists:   singerNames(s.Singer),
				Album:     s.Album.Name,
				Duration:  s.Interval * 1000,
			})
		}
	case music.KindAlbum:
		if b.Album == nil {
			return set
		}
		for _, raw := range b.Album.List {
			var a albumEntry
			if err := json.Unmarshal(raw, &a); err != nil {
				logger.Warn().Err(err).Msg("Dropping malformed album item in search result")
				continue
			}
			set.Albums = append(set.Albums, music.AlbumSummary{
				DisplayID:   a.AlbumMid,
				Name:        a.AlbumName,
				Artists:     singerNames(a.SingerList),
				SongCount:   a.SongCount,
				PublishTime: a.PublicTime,
			})
		}
	case music.KindPlaylist:
		if b.Songlist == nil {
			return set
		}
		for _, raw := range b.Songlist.List {
			var p playlistEntry
			if err := json.Unmarshal(raw, &p); err != nil {
				logger.Warn().Err(err).Msg("Dropping malformed playlist item in search result")
				continue
			}
			set.Playlists = append(set.Playlists, music.PlaylistSummary{
				DisplayID:   p.Dissid.String(),
				Name:        p.Dissname,
				Creator:     p.Creator.Name,
				Description: p.Introduction,
				PlayCount:   p.Listennum,
				SongCount:   p.SongCount,
			})
		}
	}
	return set
}

// decodeSongItems 逐条解码歌曲列表，坏条目记警告后丢弃
func decodeSongItems(raws []json.RawMessage) []songItem {
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

type songResult struct {
	Code int               `json:"code"`
	Data []json.RawMessage `json:"data"`
}

type playlistResult struct {
	Code   int          `json:"code"`
	Cdlist []cdPlaylist `json:"cdlist"`
}

type cdPlaylist struct {
	Dissname string            `json:"dissname"`
	Nickname string            `json:"nickname"`
	Desc     string            `json:"desc"`
	SongList []json.RawMessage `json:"songList"`
}

type albumResult struct {
	Code int       `json:"code"`
	Data albumData `json:"data"`
}

type albumData struct {
	ADate   string            `json:"aDate"`
	Company string            `json:"company"`
	Desc    string            `json:"desc"`
	Name    string            `json:"name"`
	List    []json.RawMessage `json:"list"`
}

type albumSong struct {
	Songid   music.FlexID `json:"songid"`
	Songmid  string       `json:"songmid"`
	Songname string       `json:"songname"`
	Singer   []singer     `json:"singer"`
}

func (s *albumSong) toSimple() music.SimpleSong {
	return music.SimpleSong{
		ID:        s.Songid.String(),
		DisplayID: s.Songmid,
		Title:     s.Songname,
		Artists:   singerNames(s.Singer),
	}
}

// vkeyResponse 直链接口信封: req 是 CDN 调度，req_0 是 vkey 签发
type vkeyResponse struct {
	Req struct {
		Code int `json:"code"`
		Data struct {
			Sip []string `json:"sip"`
		} `json:"data"`
	} `json:"req"`
	Req0 struct {
		Code int `json:"code"`
		Data struct {
			Midurlinfo []struct {
				Purl string `json:"purl"`
			} `json:"midurlinfo"`
		} `json:"data"`
	} `json:"req_0"`
}
