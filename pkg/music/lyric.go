package music

import (
	"bufio"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// LyricFormat 歌词编码格式
type LyricFormat string

const (
	// FormatPlain 纯文本，无时间轴
	FormatPlain LyricFormat = "plain"
	// FormatLrc 标准 LRC，每行一个时间戳
	FormatLrc LyricFormat = "lrc"
	// FormatLrcWord 扩展 LRC，行时间戳外每个字还带相对偏移和时长
	FormatLrcWord LyricFormat = "lrc_word"
)

func (f LyricFormat) String() string { return string(f) }

// ParseLyricFormat 解析格式名称。lrc_word 额外接受 lrcword/word/extended
// 三个别名 (仅输入侧)；未知值一律按 plain 处理。
func ParseLyricFormat(s string) LyricFormat {
	switch strings.ToLower(s) {
	case "lrc":
		return FormatLrc
	case "lrc_word", "lrcword", "word", "extended":
		return FormatLrcWord
	default:
		return FormatPlain
	}
}

var (
	// 逐字时间轴: 非空白串后紧跟 (偏移,时长)
	wordTimingRe = regexp.MustCompile(`\S+\(\d+,\d+\)`)
	// 行级时间戳: [分:秒.小数] 或 [毫秒偏移,时长]，必须在行首
	lineTimingRe = regexp.MustCompile(`(?m)^(?:\[\d+:\d{2}\.\d{2,3}\]|\[\d+,\d+\])`)

	lineTagRe = regexp.MustCompile(`^\[(\d+):(\d{2})(?:\.(\d{1,3}))?\]|^\[(\d+),(\d+)\]`)
	wordTagRe = regexp.MustCompile(`\((\d+),(\d+)\)`)
	metaTagRe = regexp.MustCompile(`^\[(ti|ar|al|by|offset):`)
)

// DetectFormat 根据内容自动识别歌词格式。
// 逐字歌词同时满足 LRC 模式，所以必须先测逐字再测行级。
func DetectFormat(content string) LyricFormat {
	if wordTimingRe.MatchString(content) {
		return FormatLrcWord
	}
	if lineTimingRe.MatchString(content) {
		return FormatLrc
	}
	return FormatPlain
}

// LyricWord 一行里的单个字及其时间轴
type LyricWord struct {
	Text string
	// Time 绝对时间 (秒)，已经加上所属行的起始时间
	Time float64
	// Duration 时长 (秒)
	Duration float64
}

// LyricLine 一行歌词
type LyricLine struct {
	// Time 行起始时间 (秒)
	Time float64
	Text string
	// Words 逐字时间轴，非逐字歌词时为空
	Words []LyricWord
}

// ParseSyncedLyric 解析带时间轴的歌词 (LRC 或逐字 LRC)。
// [ti:] [ar:] [al:] [by:] [offset:] 元数据行会被跳过；
// 有时间戳但没有逐字标注的行保留为一条空字表的记录。
func ParseSyncedLyric(content string) []LyricLine {
	var result []LyricLine

	scanner := bufio.NewScanner(strings.NewReader(content))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		raw := scanner.Text()
		if metaTagRe.MatchString(raw) {
			continue
		}

		m := lineTagRe.FindStringSubmatch(raw)
		if m == nil {
			continue
		}

		var lineTime float64
		if m[1] != "" {
			min, _ := strconv.Atoi(m[1])
			sec, _ := strconv.Atoi(m[2])
			ms := 0
			if m[3] != "" {
				ms, _ = strconv.Atoi(m[3])
				// 小数位数决定倍率: .1 是 100ms，.49 是 490ms
				switch len(m[3]) {
				case 1:
					ms *= 100
				case 2:
					ms *= 10
				}
			}
			lineTime = float64(min*60+sec) + float64(ms)/1000
		} else {
			offsetMs, _ := strconv.Atoi(m[4])
			lineTime = float64(offsetMs) / 1000
		}

		rest := raw[len(m[0]):]
		line := parseLyricWords(rest, lineTime)
		result = append(result, line)
	}

	sort.SliceStable(result, func(i, j int) bool { return result[i].Time < result[j].Time })
	return result
}

// parseLyricWords 扫描行内重复出现的 字(偏移,时长) 组。
// 偏移是相对本行起始时间的毫秒数。
func parseLyricWords(rest string, lineTime float64) LyricLine {
	line := LyricLine{Time: lineTime}

	groups := wordTagRe.FindAllStringSubmatchIndex(rest, -1)
	if len(groups) == 0 {
		line.Text = strings.TrimSpace(rest)
		return line
	}

	var texts []string
	prevEnd := 0
	for _, g := range groups {
		text := rest[prevEnd:g[0]]
		prevEnd = g[1]
		if text == "" {
			// 括号组前没有字面文本，不构成一个字
			continue
		}
		offsetMs, _ := strconv.Atoi(rest[g[2]:g[3]])
		durationMs, _ := strconv.Atoi(rest[g[4]:g[5]])
		line.Words = append(line.Words, LyricWord{
			Text:     text,
			Time:     lineTime + float64(offsetMs)/1000,
			Duration: float64(durationMs) / 1000,
		})
		texts = append(texts, text)
	}
	line.Text = strings.TrimSpace(strings.Join(texts, ""))
	return line
}
