// Package app 命令行入口的装配层: 日志初始化、服务商装配和子命令分发。
package app

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"music-search/internal/config"
	"music-search/pkg/music"
	"music-search/pkg/provider"
)

type App struct {
	cfg     *config.Config
	manager *provider.Manager
}

func New(cfg *config.Config) *App {
	// 设置 zerolog 的全局配置
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	if level, err := zerolog.ParseLevel(cfg.App.LogLevel); err == nil {
		zerolog.SetGlobalLevel(level)
	} else {
		log.Warn().Str("log_level", cfg.App.LogLevel).Msg("Invalid log level, using info")
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	manager, err := provider.CreateDefaultManager(map[music.Source]string{
		music.SourceNetEase: cfg.NetEase.Cookie,
		music.SourceQQMusic: cfg.QQMusic.Cookie,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create music providers")
	}

	return &App{cfg: cfg, manager: manager}
}

func usage() {
	fmt.Fprintf(os.Stderr, `Usage: music-search <command> [flags] <args>

Commands:
  search   <keyword>         search songs, albums or playlists
  song     <id> [id...]      fetch song details
  album    <id>              fetch an album with its track list
  playlist <id>              fetch a playlist with its track list
  link     <id>              fetch a playable song URL
  lyric    <id>              fetch and classify lyrics
  best     <title> [artist]  pick the best match and fetch its lyrics

Common flags:
  -source netease|qqmusic    query one vendor instead of the fallback chain
`)
}

// Run 分发子命令。返回的错误由 main 统一处理。
func (a *App) Run(args []string) error {
	if len(args) == 0 {
		usage()
		return fmt.Errorf("missing command")
	}

	ctx := context.Background()
	cmd, rest := args[0], args[1:]

	switch cmd {
	case "search":
		return a.runSearch(ctx, rest)
	case "song":
		return a.runSong(ctx, rest)
	case "album":
		return a.runAlbum(ctx, rest)
	case "playlist":
		return a.runPlaylist(ctx, rest)
	case "link":
		return a.runLink(ctx, rest)
	case "lyric":
		return a.runLyric(ctx, rest)
	case "best":
		return a.runBest(ctx, rest)
	case "help", "-h", "--help":
		usage()
		return nil
	default:
		usage()
		return fmt.Errorf("unknown command: %s", cmd)
	}
}

// pickProvider 解析 -source 的值, 为空时返回 nil 表示走聚合器的回退链。
func (a *App) pickProvider(sourceName string) (music.MusicAPI, error) {
	if sourceName == "" {
		return nil, nil
	}
	source, err := music.ParseSource(sourceName)
	if err != nil {
		return nil, err
	}
	p, ok := a.manager.Provider(source)
	if !ok {
		return nil, fmt.Errorf("provider %s not configured", source)
	}
	return p, nil
}

func (a *App) runSearch(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("search", flag.ContinueOnError)
	sourceName := fs.String("source", "", "vendor to query")
	kindName := fs.String("kind", "song", "search kind: song, album or playlist")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 1 {
		return fmt.Errorf("search needs a keyword")
	}

	kind, err := music.ParseSearchKind(*kindName)
	if err != nil {
		return err
	}
	query := music.SearchQuery{Keyword: fs.Arg(0), Kind: kind}

	p, err := a.pickProvider(*sourceName)
	if err != nil {
		return err
	}

	var set *music.SearchResultSet
	if p != nil {
		set, err = p.Search(ctx, query)
	} else {
		set, err = a.manager.Search(ctx, query)
	}
	if err != nil {
		return err
	}
	return printJSON(set)
}

func (a *App) runSong(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("song", flag.ContinueOnError)
	sourceName := fs.String("source", "netease", "vendor to query")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 1 {
		return fmt.Errorf("song needs at least one id")
	}

	p, err := a.pickProvider(*sourceName)
	if err != nil {
		return err
	}
	songs, err := p.GetSongs(ctx, fs.Args())
	if err != nil {
		return err
	}
	return printJSON(songs)
}

func (a *App) runAlbum(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("album", flag.ContinueOnError)
	sourceName := fs.String("source", "netease", "vendor to query")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("album needs exactly one id")
	}

	p, err := a.pickProvider(*sourceName)
	if err != nil {
		return err
	}
	album, err := p.GetAlbum(ctx, fs.Arg(0))
	if err != nil {
		return err
	}
	return printJSON(album)
}

func (a *App) runPlaylist(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("playlist", flag.ContinueOnError)
	sourceName := fs.String("source", "netease", "vendor to query")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("playlist needs exactly one id")
	}

	p, err := a.pickProvider(*sourceName)
	if err != nil {
		return err
	}
	playlist, err := p.GetPlaylist(ctx, fs.Arg(0))
	if err != nil {
		return err
	}
	return printJSON(playlist)
}

func (a *App) runLink(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("link", flag.ContinueOnError)
	sourceName := fs.String("source", "netease", "vendor to query")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("link needs exactly one id")
	}

	p, err := a.pickProvider(*sourceName)
	if err != nil {
		return err
	}
	link, err := p.GetSongLink(ctx, fs.Arg(0))
	if err != nil {
		return err
	}
	fmt.Println(link)
	return nil
}

func (a *App) runLyric(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("lyric", flag.ContinueOnError)
	sourceName := fs.String("source", "netease", "vendor to query")
	displayID := fs.String("display-id", "", "display id, defaults to the lookup id")
	verbatim := fs.Bool("verbatim", false, "request word-level timing when available")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("lyric needs exactly one id")
	}

	p, err := a.pickProvider(*sourceName)
	if err != nil {
		return err
	}
	id := fs.Arg(0)
	display := *displayID
	if display == "" {
		display = id
	}
	payload, err := p.GetLyric(ctx, id, display, *verbatim)
	if err != nil {
		return err
	}
	return printJSON(payload)
}

func (a *App) runBest(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("best", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 1 {
		return fmt.Errorf("best needs a song title")
	}
	title := fs.Arg(0)
	artist := ""
	if fs.NArg() > 1 {
		artist = fs.Arg(1)
	}

	payload, err := a.manager.GetLyricByInfo(ctx, title, artist)
	if err != nil {
		return err
	}
	return printJSON(payload)
}

func printJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}
