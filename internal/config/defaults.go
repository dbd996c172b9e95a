package config

const (
	defaultConfigPath             = "~/.config/voxscribe/config.toml"
	defaultLockDir                = "~/.local/share/voxscribe"
	defaultLanguage               = "en-US"
	defaultEnergyThreshold        = 300
	defaultAmbientDurationSeconds = 1.0
	defaultSpeechBaseURL          = "http://www.google.com/speech-api/v2/recognize"
	defaultRecognizerTimeout      = 30
	defaultFFmpegBinary           = "ffmpeg"
	defaultFFprobeBinary          = "ffprobe"
	defaultTranscoderTimeout      = 300
	defaultListenInputFormat      = "alsa"
	defaultListenDevice           = "default"
	defaultListenSegmentSeconds   = 5
	defaultListenQueueSize        = 16
	defaultLogFormat              = "console"
	defaultLogLevel               = "info"

	// SpeechAPIKeyEnv overrides recognizer.api_key when the file leaves it empty.
	SpeechAPIKeyEnv = "VOXSCRIBE_SPEECH_API_KEY"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			LockDir: defaultLockDir,
		},
		Recognizer: Recognizer{
			Language:               defaultLanguage,
			EnergyThreshold:        defaultEnergyThreshold,
			DynamicEnergyThreshold: true,
			AmbientDurationSeconds: defaultAmbientDurationSeconds,
			BaseURL:                defaultSpeechBaseURL,
			TimeoutSeconds:         defaultRecognizerTimeout,
		},
		Transcoder: Transcoder{
			FFmpegBinary:   defaultFFmpegBinary,
			FFprobeBinary:  defaultFFprobeBinary,
			TimeoutSeconds: defaultTranscoderTimeout,
		},
		Listen: Listen{
			InputFormat:    defaultListenInputFormat,
			Device:         defaultListenDevice,
			SegmentSeconds: defaultListenSegmentSeconds,
			QueueSize:      defaultListenQueueSize,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
