package normalize

import (
	"testing"

	"voxscribe/internal/media/format"
)

func TestPlanDecisionTable(t *testing.T) {
	tool := transcoderStrategy{}
	lib := libraryStrategy{}
	cases := []struct {
		tag       format.Tag
		available bool
		want      []string
	}{
		{format.WavAudio, true, nil},
		{format.WavAudio, false, nil},
		{format.Video, true, []string{StrategyTranscoder, StrategyLibrary}},
		{format.Video, false, []string{StrategyLibrary}},
		{format.CompressedAudio, true, []string{StrategyLibrary}},
		{format.CompressedAudio, false, []string{StrategyLibrary}},
		{format.Unknown, true, []string{StrategyLibrary}},
		{format.Unknown, false, []string{StrategyLibrary}},
	}
	for _, tc := range cases {
		got := plan(tc.tag, tc.available, tool, lib)
		if len(got) != len(tc.want) {
			t.Fatalf("plan(%s, %v) returned %d strategies, want %d", tc.tag, tc.available, len(got), len(tc.want))
		}
		for i, s := range got {
			if s.Name() != tc.want[i] {
				t.Fatalf("plan(%s, %v)[%d] = %s, want %s", tc.tag, tc.available, i, s.Name(), tc.want[i])
			}
		}
	}
}
