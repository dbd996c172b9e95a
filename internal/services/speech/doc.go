// Package speech is the HTTP client for the web speech recognition endpoint.
//
// The endpoint accepts raw 16 kHz linear PCM and answers with newline
// delimited JSON. Each call makes exactly one request: there are no retries
// and no backoff.
package speech
