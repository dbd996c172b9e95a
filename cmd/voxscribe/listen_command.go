package main

import (
	"strings"

	"github.com/spf13/cobra"

	"voxscribe/internal/listen"
	"voxscribe/internal/session"
	"voxscribe/internal/transcode"
)

func newListenCommand(ctx *commandContext) *cobra.Command {
	var device string
	var inputFormat string
	var segmentSeconds int

	cmd := &cobra.Command{
		Use:   "listen [language]",
		Short: "Transcribe live microphone input until interrupted",
		Long:  "Record fixed-length segments from an ffmpeg input device and print each recognised phrase on its own stdout line. Stop with Ctrl+C.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}

			sess, err := session.New(cmd.Context(), cfg, logger, ctx.sessionOptions...)
			if err != nil {
				return err
			}
			defer sess.Close()

			recognizer := sess.Recognizer()
			if len(args) == 1 && strings.TrimSpace(args[0]) != "" {
				if recognizer, err = recognizer.WithLanguage(args[0]); err != nil {
					return err
				}
			}

			capturer := ctx.capturer
			if capturer == nil {
				settings := cfg.Listen
				if device != "" {
					settings.Device = device
				}
				if inputFormat != "" {
					settings.InputFormat = inputFormat
				}
				if segmentSeconds > 0 {
					settings.SegmentSeconds = segmentSeconds
				}
				capturer = listen.FFmpegCapturer{
					Recorder:    transcode.New(cfg.Transcoder.FFmpegBinary, cfg.TranscoderTimeout(), logger),
					InputFormat: settings.InputFormat,
					Device:      settings.Device,
					Seconds:     settings.SegmentSeconds,
				}
			}

			listener := listen.New(listen.Config{
				LockDir:   cfg.Paths.LockDir,
				QueueSize: cfg.Listen.QueueSize,
			}, capturer, recognizer, sess.Janitor(), logger)
			return listener.Run(cmd.Context(), cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&device, "device", "", "Override listen.device")
	cmd.Flags().StringVar(&inputFormat, "input-format", "", "Override listen.input_format")
	cmd.Flags().IntVar(&segmentSeconds, "segment-seconds", 0, "Override listen.segment_seconds")
	return cmd
}
