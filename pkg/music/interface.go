package music

import (
	"context"
)

// MusicAPI 音乐服务商统一接口。
// 两家服务商各实现一次，调用方在构造时选定实现，之后不再按服务商分支。
type MusicAPI interface {
	// Source 返回服务商标识
	Source() Source

	// Search 按关键词搜索歌曲/专辑/歌单
	Search(ctx context.Context, query SearchQuery) (*SearchResultSet, error)

	// GetPlaylist 获取歌单详情 (含曲目列表)
	GetPlaylist(ctx context.Context, playlistID string) (*Playlist, error)

	// GetAlbum 获取专辑详情 (含曲目列表)
	GetAlbum(ctx context.Context, albumID string) (*Album, error)

	// GetSongs 批量获取歌曲详情，返回 id -> 歌曲 映射；
	// 未收录的 id 不出现在映射里
	GetSongs(ctx context.Context, songIDs []string) (map[string]Song, error)

	// GetSongLink 获取歌曲播放直链
	GetSongLink(ctx context.Context, songID string) (string, error)

	// GetLyric 获取歌词。netease 用 displayID 查询并忽略 verbatim
	// (它的这组接口没有逐字歌词)；qqmusic 用 id 查询，verbatim 为 true
	// 时返回的内容可能带逐字时间轴。两边的不对称是服务商决定的，
	// 接口不做掩盖。
	GetLyric(ctx context.Context, id, displayID string, verbatim bool) (*LyricPayload, error)
}
