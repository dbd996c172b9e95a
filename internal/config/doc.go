// Package config loads, normalizes, and validates voxscribe configuration.
//
// Configuration is read from TOML (default ~/.config/voxscribe/config.toml,
// falling back to ./voxscribe.toml), layered over repository defaults, and
// then expanded so every path is absolute. Language tags are canonicalised
// and the speech API key may come from VOXSCRIBE_SPEECH_API_KEY.
//
// CreateSample writes the embedded sample configuration used by
// `voxscribe config init`.
package config
