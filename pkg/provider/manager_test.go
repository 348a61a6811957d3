package provider

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"music-search/pkg/music"
)

// mockProvider 模拟音乐提供商
type mockProvider struct {
	source     music.Source
	searchFail bool
	lyricFail  bool
	songs      []music.SongSummary
	lyric      string
}

func (m *mockProvider) Source() music.Source { return m.source }

func (m *mockProvider) Search(ctx context.Context, query music.SearchQuery) (*music.SearchResultSet, error) {
	if m.searchFail {
		return nil, music.NewProviderError(m.source, "search", errors.New("mock search failure"))
	}
	return &music.SearchResultSet{
		Kind:   query.Kind,
		Source: m.source,
		Songs:  m.songs,
	}, nil
}

func (m *mockProvider) GetPlaylist(ctx context.Context, id string) (*music.Playlist, error) {
	return nil, music.ErrPlaylistNotFound
}

func (m *mockProvider) GetAlbum(ctx context.Context, id string) (*music.Album, error) {
	return nil, music.ErrAlbumNotFound
}

func (m *mockProvider) GetSongs(ctx context.Context, ids []string) (map[string]music.Song, error) {
	return map[string]music.Song{}, nil
}

func (m *mockProvider) GetSongLink(ctx context.Context, id string) (string, error) {
	return "", music.ErrSongLinkNotFound
}

func (m *mockProvider) GetLyric(ctx context.Context, id, displayID string, verbatim bool) (*music.LyricPayload, error) {
	if m.lyricFail {
		return nil, music.NewProviderError(m.source, "lyric", music.ErrLyricNotFound)
	}
	return &music.LyricPayload{
		Content: m.lyric,
		Format:  music.DetectFormat(m.lyric),
		Source:  m.source,
	}, nil
}

func TestManagerSearchFallback(t *testing.T) {
	t.Run("PrimarySucceeds", func(t *testing.T) {
		primary := &mockProvider{
			source: music.SourceNetEase,
			songs:  []music.SongSummary{{DisplayID: "1", Title: "海阔天空"}},
		}
		backup := &mockProvider{source: music.SourceQQMusic, searchFail: true}

		m := NewManager([]music.MusicAPI{primary, backup})
		set, err := m.Search(context.Background(), music.SearchQuery{Keyword: "海阔天空"})
		require.NoError(t, err)
		assert.Equal(t, music.SourceNetEase, set.Source)
		assert.Len(t, set.Songs, 1)
	})

	t.Run("FailoverToBackup", func(t *testing.T) {
		primary := &mockProvider{source: music.SourceNetEase, searchFail: true}
		backup := &mockProvider{
			source: music.SourceQQMusic,
			songs:  []music.SongSummary{{DisplayID: "2", Title: "唯一"}},
		}

		m := NewManager([]music.MusicAPI{primary, backup})
		set, err := m.Search(context.Background(), music.SearchQuery{Keyword: "唯一"})
		require.NoError(t, err)
		assert.Equal(t, music.SourceQQMusic, set.Source)
	})

	t.Run("AllFail", func(t *testing.T) {
		m := NewManager([]music.MusicAPI{
			&mockProvider{source: music.SourceNetEase, searchFail: true},
			&mockProvider{source: music.SourceQQMusic, searchFail: true},
		})
		_, err := m.Search(context.Background(), music.SearchQuery{Keyword: "x"})
		require.Error(t, err)
	})

	t.Run("NoProviders", func(t *testing.T) {
		m := NewManager(nil)
		_, err := m.Search(context.Background(), music.SearchQuery{Keyword: "x"})
		require.Error(t, err)
	})
}

func TestScoreSong(t *testing.T) {
	song := music.SongSummary{
		Title:   "海阔天空 (Live)",
		Artists: []string{"Beyond"},
	}

	assert.InDelta(t, 1.0, scoreSong(song, "海阔天空", "beyond"), 1e-9)
	assert.InDelta(t, 0.8, scoreSong(song, "海阔天空", "别人"), 1e-9)
	assert.InDelta(t, 0.7, scoreSong(song, "别的歌", "Beyond"), 1e-9)
	assert.InDelta(t, 0.5, scoreSong(song, "别的歌", "别人"), 1e-9)
}

func TestSearchBestPicksHighestConfidence(t *testing.T) {
	p := &mockProvider{
		source: music.SourceNetEase,
		songs: []music.SongSummary{
			{DisplayID: "1", Title: "无关的歌", Artists: []string{"别人"}},
			{DisplayID: "2", Title: "海阔天空", Artists: []string{"Beyond"}},
			{DisplayID: "3", Title: "海阔天空", Artists: []string{"信乐团"}},
		},
	}
	m := NewManager([]music.MusicAPI{p})

	best, err := m.SearchBest(context.Background(), "海阔天空", "Beyond")
	require.NoError(t, err)
	assert.Equal(t, "2", best.DisplayID)
	assert.InDelta(t, 1.0, best.Confidence, 1e-9)
}

func TestSearchBestFallsThroughOnLowConfidence(t *testing.T) {
	weak := &mockProvider{
		source: music.SourceNetEase,
		songs:  []music.SongSummary{{DisplayID: "1", Title: "别的", Artists: []string{"谁"}}},
	}
	strong := &mockProvider{
		source: music.SourceQQMusic,
		songs:  []music.SongSummary{{DisplayID: "2", Title: "唯一", Artists: []string{"G.E.M. 邓紫棋"}}},
	}
	m := NewManager([]music.MusicAPI{weak, strong})

	best, err := m.SearchBest(context.Background(), "唯一", "邓紫棋")
	require.NoError(t, err)
	assert.Equal(t, music.SourceQQMusic, best.Source)
	assert.Equal(t, "2", best.DisplayID)
}

func TestGetLyricByInfo(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		p := &mockProvider{
			source: music.SourceNetEase,
			songs:  []music.SongSummary{{DisplayID: "1", Title: "海阔天空", Artists: []string{"Beyond"}}},
			lyric:  "[00:10.00]今天我",
		}
		m := NewManager([]music.MusicAPI{p})

		payload, err := m.GetLyricByInfo(context.Background(), "海阔天空", "Beyond")
		require.NoError(t, err)
		assert.Equal(t, "[00:10.00]今天我", payload.Content)
		assert.Equal(t, music.FormatLrc, payload.Format)
	})

	t.Run("LowConfidenceSkipsFetch", func(t *testing.T) {
		p := &mockProvider{
			source: music.SourceNetEase,
			songs:  []music.SongSummary{{DisplayID: "1", Title: "完全无关", Artists: []string{"谁"}}},
			lyric:  "should not be fetched",
		}
		m := NewManager([]music.MusicAPI{p})

		_, err := m.GetLyricByInfo(context.Background(), "海阔天空", "Beyond")
		require.ErrorIs(t, err, music.ErrLyricNotFound)
	})
}

func TestManagerGetLyricFallback(t *testing.T) {
	failing := &mockProvider{source: music.SourceNetEase, lyricFail: true}
	working := &mockProvider{source: music.SourceQQMusic, lyric: "plain text lyric"}
	m := NewManager([]music.MusicAPI{failing, working})

	payload, err := m.GetLyric(context.Background(), "1", "1", false)
	require.NoError(t, err)
	assert.Equal(t, music.SourceQQMusic, payload.Source)
	assert.Equal(t, music.FormatPlain, payload.Format)
}
