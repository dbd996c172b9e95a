// Package transcript writes recognised text to the primary output stream.
//
// Editors parse stdout, so nothing may appear there except the framed block
// produced by WriteFramed or the single lines produced by WriteLine.
package transcript

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

const (
	StartMarker = "TRANSCRIPTION_START"
	EndMarker   = "TRANSCRIPTION_END"
)

// WriteFramed writes text between the start and end sentinel lines. Empty
// text writes nothing.
func WriteFramed(w io.Writer, text string) error {
	if text == "" {
		return nil
	}
	bw := bufio.NewWriter(w)
	if _, err := fmt.Fprintf(bw, "%s\n%s\n%s\n", StartMarker, text, EndMarker); err != nil {
		return err
	}
	return bw.Flush()
}

// WriteLine writes one recognised phrase for live listening, collapsing
// embedded newlines so each phrase stays on its own line.
func WriteLine(w io.Writer, text string) error {
	text = strings.Join(strings.Fields(text), " ")
	if text == "" {
		return nil
	}
	_, err := io.WriteString(w, text+"\n")
	return err
}

// ParseFramed extracts the text between the sentinels. ok is false when no
// complete frame is present.
func ParseFramed(output string) (text string, ok bool) {
	lines := strings.Split(output, "\n")
	start := -1
	for i, line := range lines {
		switch strings.TrimRight(line, "\r") {
		case StartMarker:
			start = i
		case EndMarker:
			if start >= 0 {
				return strings.Join(lines[start+1:i], "\n"), true
			}
		}
	}
	return "", false
}
