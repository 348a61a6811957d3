package music

import (
	"errors"
	"fmt"
)

// 服务商正常返回"没有这条数据"时的哨兵错误。
// 这些不是故障：歌词不存在和加解密失败必须能被调用方区分开，
// 否则下游存储会把损坏的负载当成"无歌词"落库。
var (
	// ErrLyricNotFound 服务商确实没有这首歌的歌词
	ErrLyricNotFound = errors.New("lyric not found")
	// ErrSongNotFound 歌曲不存在或未被收录
	ErrSongNotFound = errors.New("song not found")
	// ErrAlbumNotFound 专辑不存在或未被收录
	ErrAlbumNotFound = errors.New("album not found")
	// ErrPlaylistNotFound 歌单不存在或未被收录
	ErrPlaylistNotFound = errors.New("playlist not found")
	// ErrSongLinkNotFound 拿不到歌曲直链 (可能是 VIP 或版权限制)
	ErrSongLinkNotFound = errors.New("song link not found")
	// ErrNeedLogin 该接口需要登录态，请检查 Cookie 是否填写或过期
	ErrNeedLogin = errors.New("login required, check cookie")
)

// ProviderError 带服务商和失败阶段的错误，供运维定位问题
type ProviderError struct {
	Source Source
	// Stage 失败环节: request / decode / encrypt / decrypt 等
	Stage string
	Err   error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Source, e.Stage, e.Err)
}

func (e *ProviderError) Unwrap() error { return e.Err }

// NewProviderError 包装一个阶段性失败
func NewProviderError(source Source, stage string, err error) *ProviderError {
	return &ProviderError{Source: source, Stage: stage, Err: err}
}
