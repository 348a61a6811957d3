// Package netease 对接网易云音乐的 weapi 接口。
// 每个请求体都要经过两段 AES + RSA 的签名流程，见 crypto.go。
package netease

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"music-search/pkg/music"
)

var logger = log.With().Str("component", "netease").Logger()

const (
	refererURL  = "https://music.163.com/"
	userAgent   = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"
	songPageURL = "https://music.163.com/#/song?id="

	searchURL   = "https://music.163.com/weapi/cloudsearch/get/web?csrf_token="
	detailURL   = "https://music.163.com/weapi/v3/song/detail?csrf_token="
	playlistURL = "https://music.163.com/weapi/v6/playlist/detail?csrf_token="
	albumURL    = "https://music.163.com/weapi/v1/album/%s?csrf_token="
	lyricURL    = "https://music.163.com/weapi/song/lyric?csrf_token="
	songURL     = "https://music.163.com/weapi/song/enhance/player/url?csrf_token="
)

// 服务端业务码
const (
	codeOK         = 200
	codeNeedLogin  = 50000005
	codeNeedLogin2 = 20001
)

// Client 网易云音乐客户端。会话密钥在构造时生成一次，
// RSA 只依赖密钥本身，同一个实例的所有请求可以复用 encSecKey。
type Client struct {
	http      *http.Client
	cookie    string
	secretKey string
	encSecKey string
}

// NewClient 创建客户端。cookie 可以为空，但部分接口会要求登录态。
func NewClient(cookie string) (*Client, error) {
	secretKey, err := randomSecretKey(secretKeyLength)
	if err != nil {
		return nil, music.NewProviderError(music.SourceNetEase, "init", err)
	}
	encSecKey, err := cipherRSA(secretKey)
	if err != nil {
		return nil, music.NewProviderError(music.SourceNetEase, "encrypt", err)
	}

	if cookie == "" {
		logger.Debug().Msg("No cookie provided, using anonymous access")
	}

	return &Client{
		http:      &http.Client{},
		cookie:    cookie,
		secretKey: secretKey,
		encSecKey: encSecKey,
	}, nil
}

// Source 实现 music.MusicAPI
func (c *Client) Source() music.Source {
	return music.SourceNetEase
}

// Search 按关键词搜索歌曲/专辑/歌单
func (c *Client) Search(ctx context.Context, query music.SearchQuery) (*music.SearchResultSet, error) {
	// 1: 歌曲, 10: 专辑, 1000: 歌单
	var typeCode string
	switch query.Kind {
	case music.KindAlbum:
		typeCode = "10"
	case music.KindPlaylist:
		typeCode = "1000"
	default:
		typeCode = "1"
	}

	body := map[string]string{
		"csrf_token": "",
		"s":          query.Keyword,
		"type":       typeCode,
		"limit":      "20",
		"offset":     "0",
	}

	var resp searchResponse
	if err := c.postWeapi(ctx, "search", searchURL, body, &resp); err != nil {
		return nil, err
	}
	if resp.Code == codeNeedLogin || resp.Code == codeNeedLogin2 {
		return nil, music.NewProviderError(music.SourceNetEase, "search", music.ErrNeedLogin)
	}
	if resp.Code != codeOK {
		return nil, music.NewProviderError(music.SourceNetEase, "search",
			fmt.Errorf("unexpected response code %d: %w", resp.Code, music.ErrSongNotFound))
	}

	set := resp.Result.convert(query.Kind)
	logger.Info().Str("keyword", query.Keyword).Str("kind", query.Kind.String()).
		Int("songs", len(set.Songs)).Int("albums", len(set.Albums)).
		Int("playlists", len(set.Playlists)).Msg("Search complete")
	return set, nil
}

// GetSongs 批量获取歌曲详情
func (c *Client) GetSongs(ctx context.Context, songIDs []string) (map[string]music.Song, error) {
	result := make(map[string]music.Song, len(songIDs))
	if len(songIDs) == 0 {
		return result, nil
	}

	type idRef struct {
		ID string `json:"id"`
	}
	refs := make([]idRef, 0, len(songIDs))
	for _, id := range songIDs {
		refs = append(refs, idRef{ID: id})
	}
	refsJSON, err := json.Marshal(refs)
	if err != nil {
		return nil, music.NewProviderError(music.SourceNetEase, "encode", err)
	}

	body := map[string]string{
		"c":          string(refsJSON),
		"csrf_token": "",
	}

	var resp detailResponse
	if err := c.postWeapi(ctx, "song-detail", detailURL, body, &resp); err != nil {
		return nil, err
	}
	if resp.Code != codeOK {
		logger.Warn().Int("code", resp.Code).Msg("Song detail lookup failed")
		return result, nil
	}

	for _, item := range decodeSongs(resp.Songs) {
		result[item.ID.String()] = item.toSong()
	}
	return result, nil
}

// GetPlaylist 获取歌单详情。歌单接口只返回曲目 id，
// 完整曲目信息要再走一次歌曲详情接口展开。
func (c *Client) GetPlaylist(ctx context.Context, playlistID string) (*music.Playlist, error) {
	body := map[string]string{
		"csrf_token": "",
		"id":         playlistID,
		"offset":     "0",
		"total":      "true",
		"limit":      "1000",
		"n":          "1000",
	}

	var resp playlistResponse
	if err := c.postWeapi(ctx, "playlist", playlistURL, body, &resp); err != nil {
		return nil, err
	}
	if resp.Code == codeNeedLogin || resp.Code == codeNeedLogin2 {
		return nil, music.NewProviderError(music.SourceNetEase, "playlist", music.ErrNeedLogin)
	}
	if resp.Code != codeOK {
		return nil, music.NewProviderError(music.SourceNetEase, "playlist", music.ErrPlaylistNotFound)
	}

	trackIDs := make([]string, 0, len(resp.Playlist.TrackIDs))
	for _, t := range resp.Playlist.TrackIDs {
		trackIDs = append(trackIDs, t.ID.String())
	}
	songs, err := c.GetSongs(ctx, trackIDs)
	if err != nil {
		return nil, err
	}

	playlist := &music.Playlist{
		Name:        resp.Playlist.Name,
		Creator:     resp.Playlist.Creator.Nickname,
		Description: resp.Playlist.Description,
	}
	// 保持歌单原始顺序，未收录的曲目跳过
	for _, id := range trackIDs {
		song, ok := songs[id]
		if !ok {
			continue
		}
		playlist.Songs = append(playlist.Songs, music.SimpleSong{
			ID:        song.ID,
			DisplayID: song.DisplayID,
			Title:     song.Title,
			Artists:   song.Artists,
		})
	}
	logger.Info().Str("playlist", playlistID).Int("tracks", len(playlist.Songs)).Msg("Playlist fetched")
	return playlist, nil
}

// GetAlbum 获取专辑详情
func (c *Client) GetAlbum(ctx context.Context, albumID string) (*music.Album, error) {
	body := map[string]string{"csrf_token": ""}

	var resp albumResponse
	if err := c.postWeapi(ctx, "album", fmt.Sprintf(albumURL, url.PathEscape(albumID)), body, &resp); err != nil {
		return nil, err
	}
	if resp.Code != codeOK {
		return nil, music.NewProviderError(music.SourceNetEase, "album", music.ErrAlbumNotFound)
	}

	album := &music.Album{
		Name:        resp.Album.Name,
		Company:     resp.Album.Company,
		Description: resp.Album.Description,
		PublishTime: formatTimestamp(resp.Album.PublishTime),
	}
	for _, item := range decodeSongs(resp.Songs) {
		album.Songs = append(album.Songs, item.toSimple())
	}
	return album, nil
}

// GetSongLink 获取歌曲播放直链
func (c *Client) GetSongLink(ctx context.Context, songID string) (string, error) {
	body := map[string]string{
		"ids":        "[" + songID + "]",
		"br":         "999000",
		"csrf_token": "",
	}

	var resp songURLResponse
	if err := c.postWeapi(ctx, "song-url", songURL, body, &resp); err != nil {
		return "", err
	}
	if resp.Code != codeOK {
		return "", music.NewProviderError(music.SourceNetEase, "song-url", music.ErrSongLinkNotFound)
	}
	for _, datum := range resp.Data {
		if datum.ID.String() == songID && datum.URL != "" {
			return datum.URL, nil
		}
	}
	return "", music.NewProviderError(music.SourceNetEase, "song-url", music.ErrSongLinkNotFound)
}

// GetLyric 获取歌词。这组接口只有行级时间轴，verbatim 标志被忽略，
// 查询用的是 displayID (对网易云两者是同一个值)。
func (c *Client) GetLyric(ctx context.Context, id, displayID string, verbatim bool) (*music.LyricPayload, error) {
	_ = id
	_ = verbatim

	body := map[string]string{
		"id":         displayID,
		"os":         "pc",
		"lv":         "-1",
		"kv":         "-1",
		"tv":         "-1",
		"rv":         "-1",
		"yv":         "-1",
		"ytv":        "-1",
		"yrv":        "-1",
		"csrf_token": "",
	}

	var resp lyricResponse
	if err := c.postWeapi(ctx, "lyric", lyricURL, body, &resp); err != nil {
		return nil, err
	}
	if resp.Code != codeOK || resp.Lrc == nil || strings.TrimSpace(resp.Lrc.Lyric) == "" {
		return nil, music.NewProviderError(music.SourceNetEase, "lyric", music.ErrLyricNotFound)
	}

	payload := &music.LyricPayload{
		Content: resp.Lrc.Lyric,
		Format:  music.DetectFormat(resp.Lrc.Lyric),
		Source:  music.SourceNetEase,
		URL:     songPageURL + displayID,
	}
	if resp.Tlyric != nil {
		payload.Translation = resp.Tlyric.Lyric
	}
	if resp.Romalrc != nil {
		payload.Transliteration = resp.Romalrc.Lyric
	}
	// 带中文翻译的歌词基本都是外语原文；没有翻译时默认是中文曲库内容
	if payload.Translation != "" {
		payload.Language = "zh"
	}
	if resp.LyricUser != nil {
		payload.Metadata.Contributor = resp.LyricUser.Nickname
	}
	return payload, nil
}

// postWeapi 加密请求体并发送表单 POST，把响应 JSON 解码到 out
func (c *Client) postWeapi(ctx context.Context, op, endpoint string, body map[string]string, out any) error {
	raw, err := json.Marshal(body)
	if err != nil {
		return music.NewProviderError(music.SourceNetEase, "encode", err)
	}
	params, err := encryptParams(string(raw), c.secretKey)
	if err != nil {
		return music.NewProviderError(music.SourceNetEase, "encrypt", err)
	}

	form := url.Values{}
	form.Set("params", params)
	form.Set("encSecKey", c.encSecKey)

	requestID := uuid.NewString()
	logger.Debug().Str("request_id", requestID).Str("op", op).Msg("Sending weapi request")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return music.NewProviderError(music.SourceNetEase, "request", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Referer", refererURL)
	req.Header.Set("User-Agent", userAgent)
	if c.cookie != "" {
		req.Header.Set("Cookie", c.cookie)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return music.NewProviderError(music.SourceNetEase, "request", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return music.NewProviderError(music.SourceNetEase, "request", err)
	}
	logger.Debug().Str("request_id", requestID).Int("bytes", len(data)).Msg("Response received")

	if err := json.Unmarshal(data, out); err != nil {
		return music.NewProviderError(music.SourceNetEase, "decode", err)
	}
	return nil
}
