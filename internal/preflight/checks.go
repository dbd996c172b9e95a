package preflight

import (
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/sys/unix"

	"voxscribe/internal/config"
	"voxscribe/internal/decode"
	"voxscribe/internal/janitor"
	"voxscribe/internal/logging"
	"voxscribe/internal/media/format"
)

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

// CheckSpeechAPIKey reports whether a speech API key is configured. The
// public Google endpoint rejects keyless requests, so the key is required
// there; custom endpoints may accept requests without one.
func CheckSpeechAPIKey(rec config.Recognizer) Result {
	const name = "Speech API key"
	required := rec.UsesDefaultEndpoint()
	if rec.APIKey == "" {
		if required {
			return Result{Name: name, Detail: "not set (set recognizer.api_key or " + config.SpeechAPIKeyEnv + ")"}
		}
		return Result{Name: name, Optional: true, Detail: "not set (requests are sent without a key)"}
	}
	return Result{Name: name, Passed: true, Optional: !required, Detail: "configured"}
}

// CheckLibraryDecoder round-trips one second of generated silence through the
// in-process decoder and verifies the canonical output.
func CheckLibraryDecoder(tempDir string) Result {
	const name = "Library decoder"
	jan := janitor.New(tempDir, logging.NewNop())
	defer jan.ReleaseAll()

	src, err := jan.Create(".wav")
	if err != nil {
		return Result{Name: name, Detail: err.Error()}
	}
	if err := writeSilence(src.Path()); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("write sample: %v", err)}
	}
	out, err := jan.Scoped(".wav", func(dest string) error {
		audio, err := decode.New(nil).Open(src.Path(), format.CodecAuto)
		if err != nil {
			return err
		}
		defer audio.Close()
		return decode.Export(audio, dest)
	})
	if err != nil {
		return Result{Name: name, Detail: err.Error()}
	}
	got, err := decode.Inspect(out.Path())
	if err != nil {
		return Result{Name: name, Detail: err.Error()}
	}
	if !decode.IsCanonical(got) {
		return Result{Name: name, Detail: fmt.Sprintf("unexpected output format %+v", got)}
	}
	return Result{Name: name, Passed: true, Detail: "wav, mp3, flac, ogg vorbis (" + filepath.Base(tempDir) + ")"}
}
