package provider

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"music-search/pkg/music"
)

var logger = log.With().Str("component", "music-manager").Logger()

// fetchThreshold 低于这个置信度的搜索命中不值得去拉歌词
const fetchThreshold = 0.5

// ScoredSong 带匹配置信度的搜索命中
type ScoredSong struct {
	music.SongSummary
	Source music.Source
	// Confidence 0.0 到 1.0
	Confidence float64
}

// Manager 多服务商聚合器，按构造顺序回退
type Manager struct {
	providers []music.MusicAPI
}

// NewManager 创建聚合器，providers 的顺序就是回退优先级
func NewManager(providers []music.MusicAPI) *Manager {
	if len(providers) == 0 {
		logger.Warn().Msg("No music providers configured")
		return &Manager{}
	}
	logger.Info().
		Int("provider_count", len(providers)).
		Str("primary_provider", string(providers[0].Source())).
		Msg("Music manager initialized")
	return &Manager{providers: providers}
}

// Sources 返回所有服务商标识，按优先级排序
func (m *Manager) Sources() []music.Source {
	sources := make([]music.Source, len(m.providers))
	for i, p := range m.providers {
		sources[i] = p.Source()
	}
	return sources
}

// Provider 按标识取出具体客户端
func (m *Manager) Provider(source music.Source) (music.MusicAPI, bool) {
	for _, p := range m.providers {
		if p.Source() == source {
			return p, true
		}
	}
	return nil, false
}

// Search 依次尝试各服务商，返回第一个非空结果
func (m *Manager) Search(ctx context.Context, query music.SearchQuery) (*music.SearchResultSet, error) {
	if len(m.providers) == 0 {
		return nil, fmt.Errorf("no music providers available")
	}

	var lastErr error
	for i, p := range m.providers {
		logger.Info().
			Str("provider", string(p.Source())).
			Int("attempt", i+1).
			Int("total_providers", len(m.providers)).
			Msg("Trying provider")

		set, err := p.Search(ctx, query)
		if err != nil {
			logger.Warn().Str("provider", string(p.Source())).Err(err).Msg("Provider failed")
			lastErr = err
			continue
		}
		if set.Empty() {
			logger.Info().Str("provider", string(p.Source())).Msg("Provider returned no hits")
			continue
		}
		return set, nil
	}

	if lastErr != nil {
		return nil, fmt.Errorf("all providers failed, last error: %w", lastErr)
	}
	return nil, music.ErrSongNotFound
}

// SearchBest 搜索歌曲并返回置信度最高的命中。
// 低于阈值的命中会继续问下一家服务商，最后实在没有更好的才返回。
func (m *Manager) SearchBest(ctx context.Context, title, artist string) (*ScoredSong, error) {
	if len(m.providers) == 0 {
		return nil, fmt.Errorf("no music providers available")
	}

	keyword := title
	if artist != "" {
		keyword = title + " " + artist
	}
	query := music.SearchQuery{Keyword: keyword, Kind: music.KindSong}

	var best *ScoredSong
	var lastErr error
	for _, p := range m.providers {
		set, err := p.Search(ctx, query)
		if err != nil {
			logger.Warn().Str("provider", string(p.Source())).Err(err).Msg("Provider search failed")
			lastErr = err
			continue
		}

		for _, song := range set.Songs {
			scored := ScoredSong{
				SongSummary: song,
				Source:      p.Source(),
				Confidence:  scoreSong(song, title, artist),
			}
			if best == nil || scored.Confidence > best.Confidence {
				s := scored
				best = &s
			}
		}

		// 这家已经给出高置信命中，不用再问下一家
		if best != nil && best.Confidence > fetchThreshold {
			break
		}
	}

	if best == nil {
		if lastErr != nil {
			return nil, fmt.Errorf("all providers failed, last error: %w", lastErr)
		}
		return nil, music.ErrSongNotFound
	}
	logger.Info().
		Str("provider", string(best.Source)).
		Str("title", best.Title).
		Float64("confidence", best.Confidence).
		Msg("Best search hit selected")
	return best, nil
}

// GetLyricByInfo 按歌名/歌手直接拿歌词 (搜索 + 取词一条龙)。
// 只有置信度过阈值的命中才去拉歌词。
func (m *Manager) GetLyricByInfo(ctx context.Context, title, artist string) (*music.LyricPayload, error) {
	best, err := m.SearchBest(ctx, title, artist)
	if err != nil {
		return nil, err
	}
	if best.Confidence <= fetchThreshold {
		logger.Info().
			Str("title", title).
			Float64("confidence", best.Confidence).
			Msg("Skipping lyric fetch, confidence too low")
		return nil, music.ErrLyricNotFound
	}

	p, ok := m.Provider(best.Source)
	if !ok {
		return nil, fmt.Errorf("provider %s disappeared", best.Source)
	}
	// 搜索结果里的 DisplayID 对两家都能直接用于歌词查询
	return p.GetLyric(ctx, best.DisplayID, best.DisplayID, true)
}

// GetLyric 依次向各服务商要歌词，song id 必须对所有服务商有效
// 时才有意义，通常只在单服务商配置下使用
func (m *Manager) GetLyric(ctx context.Context, id, displayID string, verbatim bool) (*music.LyricPayload, error) {
	if len(m.providers) == 0 {
		return nil, fmt.Errorf("no music providers available")
	}

	var lastErr error
	for _, p := range m.providers {
		payload, err := p.GetLyric(ctx, id, displayID, verbatim)
		if err == nil {
			return payload, nil
		}
		logger.Warn().Str("provider", string(p.Source())).Err(err).Msg("Provider lyric fetch failed")
		lastErr = err
	}
	return nil, fmt.Errorf("all providers failed, last error: %w", lastErr)
}

// scoreSong 标题命中 +0.3，任一歌手命中 +0.2，基础分 0.5，封顶 1.0
func scoreSong(song music.SongSummary, title, artist string) float64 {
	confidence := 0.5

	if title != "" && strings.Contains(strings.ToLower(song.Title), strings.ToLower(title)) {
		confidence += 0.3
	}
	if artist != "" {
		for _, name := range song.Artists {
			if strings.Contains(strings.ToLower(name), strings.ToLower(artist)) {
				confidence += 0.2
				break
			}
		}
	}
	if confidence > 1.0 {
		confidence = 1.0
	}
	return confidence
}
