package normalize

import (
	"context"

	"voxscribe/internal/decode"
	"voxscribe/internal/media"
	"voxscribe/internal/media/format"
)

// Extractor is the external transcoder.
type Extractor interface {
	Probe(ctx context.Context) error
	Extract(ctx context.Context, source, dest string) error
}

// Decoder is the in-process library decoder.
type Decoder interface {
	Open(path string, codec format.Codec) (*decode.Audio, error)
}

// Strategy produces canonical audio for ref at dest.
type Strategy interface {
	Name() string
	Produce(ctx context.Context, ref media.Reference, dest string) error
}

const (
	StrategyPassthrough = "passthrough"
	StrategyTranscoder  = "transcoder"
	StrategyLibrary     = "library"
)

type transcoderStrategy struct {
	tool Extractor
}

func (transcoderStrategy) Name() string { return StrategyTranscoder }

func (s transcoderStrategy) Produce(ctx context.Context, ref media.Reference, dest string) error {
	return s.tool.Extract(ctx, ref.Path, dest)
}

type libraryStrategy struct {
	decoder Decoder
}

func (libraryStrategy) Name() string { return StrategyLibrary }

func (s libraryStrategy) Produce(ctx context.Context, ref media.Reference, dest string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	audio, err := s.decoder.Open(ref.Path, ref.Class.Codec)
	if err != nil {
		return err
	}
	defer audio.Close()
	return decode.Export(audio, dest)
}

// plan is the strategy decision table. A nil plan means passthrough.
//
//	tag              tool up                  tool down
//	wav              passthrough              passthrough
//	video            transcoder, library      library
//	compressed       library                  library
//	unknown          library                  library
func plan(tag format.Tag, toolAvailable bool, tool Strategy, library Strategy) []Strategy {
	switch tag {
	case format.WavAudio:
		return nil
	case format.Video:
		if toolAvailable {
			return []Strategy{tool, library}
		}
		return []Strategy{library}
	default:
		return []Strategy{library}
	}
}
