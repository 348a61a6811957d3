// Package qqmusic 对接QQ音乐的 cgi 接口。
// 请求本身不加密，但歌词负载要走 hex -> 3DES -> zlib 的解码链，
// 见 decode.go。
package qqmusic

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"music-search/pkg/music"
)

var logger = log.With().Str("component", "qqmusic").Logger()

const (
	refererURL  = "https://c.y.qq.com/"
	userAgent   = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"
	songPageURL = "https://y.qq.com/n/ryqq/songDetail/"
	albumPicURL = "https://y.qq.com/music/photo_new/T002R800x800M000%s.jpg"

	musicuURL   = "https://u.y.qq.com/cgi-bin/musicu.fcg"
	songInfoURL = "https://c.y.qq.com/v8/fcg-bin/fcg_play_single_song.fcg"
	playlistURL = "https://c.y.qq.com/qzone/fcg-bin/fcg_ucc_getcdinfo_byids_cp.fcg"
	albumURL    = "https://c.y.qq.com/v8/fcg-bin/fcg_v8_album_info_cp.fcg"
	lyricURL    = "https://c.y.qq.com/qqmusic/fcgi-bin/lyric_download.fcg"

	songInfoCallback = "getOneSongInfoCallback"
)

// Client QQ音乐客户端
type Client struct {
	http   *http.Client
	cookie string
}

// NewClient 创建客户端。cookie 可以为空，匿名访问对这组接口基本够用。
func NewClient(cookie string) *Client {
	return &Client{
		http:   &http.Client{},
		cookie: cookie,
	}
}

// Source 实现 music.MusicAPI
func (c *Client) Source() music.Source {
	return music.SourceQQMusic
}

// Search 按关键词搜索歌曲/专辑/歌单
func (c *Client) Search(ctx context.Context, query music.SearchQuery) (*music.SearchResultSet, error) {
	// 0: 歌曲, 2: 专辑, 3: 歌单
	var typeCode int
	switch query.Kind {
	case music.KindAlbum:
		typeCode = 2
	case music.KindPlaylist:
		typeCode = 3
	default:
		typeCode = 0
	}

	body := map[string]any{
		"req_1": map[string]any{
			"method": "DoSearchForQQMusicDesktop",
			"module": "music.search.SearchCgiService",
			"param": map[string]any{
				"num_per_page": "20",
				"page_num":     "1",
				"query":        query.Keyword,
				"search_type":  typeCode,
			},
		},
	}

	data, err := c.postJSON(ctx, "search", musicuURL, body)
	if err != nil {
		return nil, err
	}
	var resp fcgSearchResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, music.NewProviderError(music.SourceQQMusic, "decode", err)
	}
	if resp.Code != 0 || resp.Req1.Code != 0 || resp.Req1.Data.Code != 0 {
		return nil, music.NewProviderError(music.SourceQQMusic, "search",
			fmt.Errorf("search failed with codes %d/%d/%d",
				resp.Code, resp.Req1.Code, resp.Req1.Data.Code))
	}

	set := resp.Req1.Data.Body.convert(query.Kind)
	logger.Info().Str("keyword", query.Keyword).Str("kind", query.Kind.String()).
		Int("songs", len(set.Songs)).Int("albums", len(set.Albums)).
		Int("playlists", len(set.Playlists)).Msg("Search complete")
	return set, nil
}

// GetSongs 批量获取歌曲详情。这家没有批量接口，逐条查询，
// 未收录的 id 不出现在结果里。
func (c *Client) GetSongs(ctx context.Context, songIDs []string) (map[string]music.Song, error) {
	result := make(map[string]music.Song, len(songIDs))
	for _, id := range songIDs {
		song, err := c.getSong(ctx, id)
		if err != nil {
			if errors.Is(err, music.ErrSongNotFound) {
				continue
			}
			return nil, err
		}
		result[id] = *song
	}
	return result, nil
}

// getSong 获取单曲详情，jsonp 接口。数字 id 当 songid 查，
// 其他当 songmid 查。
func (c *Client) getSong(ctx context.Context, id string) (*music.Song, error) {
	params := url.Values{}
	if isNumeric(id) {
		params.Set("songid", id)
	} else {
		params.Set("songmid", id)
	}
	params.Set("tpl", "yqq_song_detail")
	params.Set("format", "jsonp")
	params.Set("callback", songInfoCallback)
	params.Set("g_tk", "5381")
	params.Set("jsonpCallback", songInfoCallback)
	params.Set("loginUin", "0")
	params.Set("hostUin", "0")
	params.Set("outCharset", "utf8")
	params.Set("notice", "0")
	params.Set("platform", "yqq")
	params.Set("needNewCode", "0")

	data, err := c.postForm(ctx, "song-info", songInfoURL, params)
	if err != nil {
		return nil, err
	}

	var resp songResult
	if err := json.Unmarshal([]byte(resolveJSONP(songInfoCallback, string(data))), &resp); err != nil {
		return nil, music.NewProviderError(music.SourceQQMusic, "decode", err)
	}
	songs := decodeSongItems(resp.Data)
	if resp.Code != 0 || len(songs) == 0 {
		return nil, music.NewProviderError(music.SourceQQMusic, "song-info", music.ErrSongNotFound)
	}

	song := songs[0].toSong()
	return &song, nil
}

// GetPlaylist 获取歌单详情
func (c *Client) GetPlaylist(ctx context.Context, playlistID string) (*music.Playlist, error) {
	params := url.Values{}
	params.Set("disstid", playlistID)
	params.Set("format", "json")
	params.Set("outCharset", "utf8")
	params.Set("type", "1")
	params.Set("json", "1")
	params.Set("utf8", "1")
	params.Set("onlysong", "0")
	params.Set("new_format", "1")

	data, err := c.postForm(ctx, "playlist", playlistURL, params)
	if err != nil {
		return nil, err
	}
	var resp playlistResult
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, music.NewProviderError(music.SourceQQMusic, "decode", err)
	}
	if resp.Code != 0 || len(resp.Cdlist) == 0 {
		return nil, music.NewProviderError(music.SourceQQMusic, "playlist", music.ErrPlaylistNotFound)
	}

	cd := resp.Cdlist[0]
	playlist := &music.Playlist{
		Name:        cd.Dissname,
		Creator:     cd.Nickname,
		Description: cd.Desc,
	}
	for _, item := range decodeSongItems(cd.SongList) {
		playlist.Songs = append(playlist.Songs, item.toSimple())
	}
	logger.Info().Str("playlist", playlistID).Int("tracks", len(playlist.Songs)).Msg("Playlist fetched")
	return playlist, nil
}

// GetAlbum 获取专辑详情。数字 id 当 albumid 查，其他当 albummid 查。
func (c *Client) GetAlbum(ctx context.Context, albumID string) (*music.Album, error) {
	params := url.Values{}
	if isNumeric(albumID) {
		params.Set("albumid", albumID)
	} else {
		params.Set("albummid", albumID)
	}

	data, err := c.postForm(ctx, "album", albumURL, params)
	if err != nil {
		return nil, err
	}
	var resp albumResult
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, music.NewProviderError(music.SourceQQMusic, "decode", err)
	}
	if resp.Code != 0 {
		return nil, music.NewProviderError(music.SourceQQMusic, "album", music.ErrAlbumNotFound)
	}

	album := &music.Album{
		Name:        resp.Data.Name,
		Company:     resp.Data.Company,
		Description: resp.Data.Desc,
		PublishTime: resp.Data.ADate,
	}
	for _, raw := range resp.Data.List {
		var s albumSong
		if err := json.Unmarshal(raw, &s); err != nil {
			logger.Warn().Err(err).Msg("Dropping malformed album song")
			continue
		}
		album.Songs = append(album.Songs, s.toSimple())
	}
	return album, nil
}

// GetSongLink 获取歌曲播放直链: 先要 CDN 调度拿 sip，
// 再签 vkey 拿 purl，两段拼起来才是完整 URL
func (c *Client) GetSongLink(ctx context.Context, songID string) (string, error) {
	body := map[string]any{
		"req": map[string]any{
			"method": "GetCdnDispatch",
			"module": "CDN.SrfCdnDispatchServer",
			"param": map[string]any{
				"guid":     randomGUID(),
				"calltype": "0",
				"userip":   "",
			},
		},
		"req_0": map[string]any{
			"method": "CgiGetVkey",
			"module": "vkey.GetVkeyServer",
			"param": map[string]any{
				"guid":      "8348972662",
				"songmid":   []string{songID},
				"songtype":  []int{1},
				"uin":       "0",
				"loginflag": 1,
				"platform":  "20",
			},
		},
		"comm": map[string]any{
			"uin":    0,
			"format": "json",
			"ct":     24,
			"cv":     0,
		},
	}

	data, err := c.postJSON(ctx, "song-link", musicuURL, body)
	if err != nil {
		return "", err
	}
	var resp vkeyResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return "", music.NewProviderError(music.SourceQQMusic, "decode", err)
	}
	if resp.Req.Code != 0 || resp.Req0.Code != 0 {
		return "", music.NewProviderError(music.SourceQQMusic, "song-link", music.ErrSongLinkNotFound)
	}
	if len(resp.Req.Data.Sip) == 0 || len(resp.Req0.Data.Midurlinfo) == 0 ||
		resp.Req0.Data.Midurlinfo[0].Purl == "" {
		return "", music.NewProviderError(music.SourceQQMusic, "song-link", music.ErrSongLinkNotFound)
	}
	return resp.Req.Data.Sip[0] + resp.Req0.Data.Midurlinfo[0].Purl, nil
}

// GetLyric 获取歌词。查询用数字 musicid (接口参数 id)，
// displayID (songmid) 只用来拼来源链接。返回的原文歌词
// 在服务端有逐字版本时就是逐字 LRC，verbatim 标志不改变请求本身。
func (c *Client) GetLyric(ctx context.Context, id, displayID string, verbatim bool) (*music.LyricPayload, error) {
	_ = verbatim

	params := url.Values{}
	params.Set("version", "15")
	params.Set("miniversion", "82")
	params.Set("lrctype", "4")
	params.Set("musicid", id)

	data, err := c.postForm(ctx, "lyric", lyricURL, params)
	if err != nil {
		return nil, err
	}

	// 响应整体包在 <!-- --> 注释里
	doc := strings.ReplaceAll(string(data), "<!--", "")
	doc = strings.ReplaceAll(doc, "-->", "")

	sections, err := extractLyricSections(doc)
	if err != nil {
		return nil, music.NewProviderError(music.SourceQQMusic, "decode", err)
	}

	content, err := decodeLyricSection(sections["content"])
	if err != nil {
		return nil, music.NewProviderError(music.SourceQQMusic, "decrypt", err)
	}
	if strings.TrimSpace(content) == "" {
		return nil, music.NewProviderError(music.SourceQQMusic, "lyric", music.ErrLyricNotFound)
	}

	payload := &music.LyricPayload{
		Content: content,
		Format:  music.DetectFormat(content),
		Source:  music.SourceQQMusic,
	}
	if displayID != "" {
		payload.URL = songPageURL + displayID
	}

	// 翻译和音译段坏了只丢该段，原文照常返回
	if trans, err := decodeLyricSection(sections["contentts"]); err != nil {
		logger.Warn().Err(err).Msg("Failed to decode translation lyric")
	} else {
		payload.Translation = trans
	}
	if roma, err := decodeLyricSection(sections["contentroma"]); err != nil {
		logger.Warn().Err(err).Msg("Failed to decode transliteration lyric")
	} else {
		payload.Transliteration = roma
	}
	if payload.Translation != "" {
		payload.Language = "zh"
	}
	return payload, nil
}

func (c *Client) postForm(ctx context.Context, op, endpoint string, params url.Values) ([]byte, error) {
	return c.post(ctx, op, endpoint, "application/x-www-form-urlencoded",
		strings.NewReader(params.Encode()))
}

func (c *Client) postJSON(ctx context.Context, op, endpoint string, body any) ([]byte, error) {
	raw, err := json.Marshal(body)
	if err != nil {
		return nil, music.NewProviderError(music.SourceQQMusic, "encode", err)
	}
	return c.post(ctx, op, endpoint, "application/json", bytes.NewReader(raw))
}

func (c *Client) post(ctx context.Context, op, endpoint, contentType string, body io.Reader) ([]byte, error) {
	requestID := uuid.NewString()
	logger.Debug().Str("request_id", requestID).Str("op", op).Msg("Sending request")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, body)
	if err != nil {
		return nil, music.NewProviderError(music.SourceQQMusic, "request", err)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Referer", refererURL)
	req.Header.Set("User-Agent", userAgent)
	if c.cookie != "" {
		req.Header.Set("Cookie", c.cookie)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, music.NewProviderError(music.SourceQQMusic, "request", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, music.NewProviderError(music.SourceQQMusic, "request", err)
	}
	logger.Debug().Str("request_id", requestID).Int("bytes", len(data)).Msg("Response received")
	return data, nil
}

// resolveJSONP 剥掉 jsonp 回调包装，留下纯 JSON
func resolveJSONP(callback, val string) string {
	if !strings.HasPrefix(val, callback) {
		return ""
	}
	val = strings.TrimPrefix(val, callback+"(")
	return strings.TrimSuffix(strings.TrimSpace(val), ")")
}

func isNumeric(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// randomGUID CDN 调度要的 10 位数字设备标识，每次调用随机生成
func randomGUID() string {
	digits := make([]byte, 10)
	for i := range digits {
		digits[i] = byte('0' + rand.Intn(10))
	}
	return string(digits)
}
