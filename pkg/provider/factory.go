// Package provider 把两家服务商的客户端挂到统一接口后面，
// 并提供带回退和置信度挑选的聚合器。
package provider

import (
	"fmt"

	"music-search/pkg/music"
	"music-search/pkg/netease"
	"music-search/pkg/qqmusic"
)

// CreateProvider 按服务商标识创建客户端，cookie 可以为空
func CreateProvider(source music.Source, cookie string) (music.MusicAPI, error) {
	switch source {
	case music.SourceNetEase:
		logger.Info().Msg("Creating NetEase music client")
		return netease.NewClient(cookie)
	case music.SourceQQMusic:
		logger.Info().Msg("Creating QQ Music client")
		return qqmusic.NewClient(cookie), nil
	default:
		return nil, fmt.Errorf("unknown music source: %s", source)
	}
}

// CreateDefaultManager 按默认优先级 (网易云优先) 创建聚合器。
// 单个服务商创建失败只记警告，全挂才报错。
func CreateDefaultManager(cookies map[music.Source]string) (*Manager, error) {
	order := []music.Source{music.SourceNetEase, music.SourceQQMusic}

	var providers []music.MusicAPI
	for _, source := range order {
		p, err := CreateProvider(source, cookies[source])
		if err != nil {
			logger.Warn().Err(err).Str("source", string(source)).Msg("Failed to create provider")
			continue
		}
		providers = append(providers, p)
	}
	if len(providers) == 0 {
		return nil, fmt.Errorf("no music providers available")
	}
	return NewManager(providers), nil
}
