package music

import (
	"encoding/json"
	"testing"
)

func TestFlexIDUnmarshal(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"number", `{"id":107192078}`, "107192078"},
		{"string", `{"id":"107192078"}`, "107192078"},
		{"alphanumeric string", `{"id":"003OUlho2HcRHC"}`, "003OUlho2HcRHC"},
		{"null", `{"id":null}`, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var v struct {
				ID FlexID `json:"id"`
			}
			if err := json.Unmarshal([]byte(tt.in), &v); err != nil {
				t.Fatalf("Unmarshal() error = %v", err)
			}
			if string(v.ID) != tt.want {
				t.Errorf("ID = %q, want %q", v.ID, tt.want)
			}
		})
	}
}

func TestStringListUnmarshal(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{"single string", `{"singer":"伍佰"}`, []string{"伍佰"}},
		{"array", `{"singer":["伍佰","China Blue"]}`, []string{"伍佰", "China Blue"}},
		{"empty array", `{"singer":[]}`, nil},
		{"null", `{"singer":null}`, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var v struct {
				Singer StringList `json:"singer"`
			}
			if err := json.Unmarshal([]byte(tt.in), &v); err != nil {
				t.Fatalf("Unmarshal() error = %v", err)
			}
			if len(v.Singer) != len(tt.want) {
				t.Fatalf("Singer = %v, want %v", v.Singer, tt.want)
			}
			for i := range tt.want {
				if v.Singer[i] != tt.want[i] {
					t.Errorf("Singer[%d] = %q, want %q", i, v.Singer[i], tt.want[i])
				}
			}
		})
	}
}

func TestParseSource(t *testing.T) {
	tests := []struct {
		in      string
		want    Source
		wantErr bool
	}{
		{"netease", SourceNetEase, false},
		{"网易云", SourceNetEase, false},
		{"163", SourceNetEase, false},
		{"qqmusic", SourceQQMusic, false},
		{"QQ", SourceQQMusic, false},
		{"腾讯", SourceQQMusic, false},
		{"spotify", "", true},
	}
	for _, tt := range tests {
		got, err := ParseSource(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseSource(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseSource(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestSearchKindRoundTrip(t *testing.T) {
	for _, k := range []SearchKind{KindSong, KindAlbum, KindPlaylist} {
		got, err := ParseSearchKind(k.String())
		if err != nil {
			t.Fatalf("ParseSearchKind(%q) error = %v", k.String(), err)
		}
		if got != k {
			t.Errorf("round trip %v -> %v", k, got)
		}
	}
	if _, err := ParseSearchKind("artist"); err == nil {
		t.Error("ParseSearchKind should reject unknown kind")
	}
}
