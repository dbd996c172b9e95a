package main

import (
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"voxscribe/internal/logging"
	"voxscribe/internal/recognize"
	"voxscribe/internal/services"
	"voxscribe/internal/session"
	"voxscribe/internal/transcript"
)

func newTranscribeCommand(ctx *commandContext) *cobra.Command {
	var languageFlag string
	var chunkFlag bool

	cmd := &cobra.Command{
		Use:   "transcribe <media> [language] [chunk_mode]",
		Short: "Transcribe an audio or video file",
		Long: "Transcribe an audio or video file and print the text between " +
			transcript.StartMarker + " and " + transcript.EndMarker + " lines on stdout.\n" +
			"The optional positional language and chunk_mode arguments mirror the --language and --chunk flags.",
		Args: cobra.RangeArgs(1, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}

			opts := session.Options{Language: strings.TrimSpace(languageFlag), ChunkMode: chunkFlag}
			if len(args) > 1 && strings.TrimSpace(args[1]) != "" {
				opts.Language = strings.TrimSpace(args[1])
			}
			if len(args) > 2 {
				opts.ChunkMode = parseChunkMode(args[2])
			}

			sess, err := session.New(cmd.Context(), cfg, logger, ctx.sessionOptions...)
			if err != nil {
				return err
			}
			defer sess.Close()

			result, err := sess.TranscribeFile(cmd.Context(), args[0], opts)
			if err != nil {
				logging.ErrorWithContext(logger, "transcription failed", "transcription_failed",
					logging.String("kind", services.KindOf(err).String()),
					logging.String("detail", services.Detail(err)),
					logging.String(logging.FieldErrorHint, hintFor(services.KindOf(err))),
				)
				return err
			}
			if result.Status == recognize.StatusNoSpeech {
				logger.Info("no speech detected in input", logging.String("path", args[0]))
				return nil
			}
			return transcript.WriteFramed(cmd.OutOrStdout(), result.Text)
		},
	}

	cmd.Flags().StringVarP(&languageFlag, "language", "l", "", "Recognition language tag (defaults to recognizer.language)")
	cmd.Flags().BoolVar(&chunkFlag, "chunk", false, "Accepted for compatibility; has no effect")
	return cmd
}

// parseChunkMode never fails: anything that is not a recognised true value
// disables chunk mode.
func parseChunkMode(value string) bool {
	parsed, err := strconv.ParseBool(strings.TrimSpace(value))
	if err != nil {
		return strings.EqualFold(strings.TrimSpace(value), "yes")
	}
	return parsed
}

func hintFor(kind services.Kind) string {
	switch kind {
	case services.KindInputNotFound:
		return "check the media path"
	case services.KindUnsupportedMedia:
		return "install ffmpeg or convert the file to wav, mp3, flac or ogg"
	case services.KindRecognitionUnavailable:
		return "check network access and recognizer.api_key"
	case services.KindPrecondition:
		return "run voxscribe deps and voxscribe config validate"
	default:
		return "rerun with --log-level debug"
	}
}
