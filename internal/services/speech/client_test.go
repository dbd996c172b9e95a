package speech

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"voxscribe/internal/recognize"
)

func TestRecognizeSendsPCMAndParsesBestAlternative(t *testing.T) {
	pcm := []byte{0x01, 0x02, 0x03, 0x04}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("unexpected method %s", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "audio/l16; rate=16000;" {
			t.Errorf("unexpected content type %q", ct)
		}
		q := r.URL.Query()
		if q.Get("client") != "chromium" || q.Get("lang") != "en-GB" || q.Get("key") != "secret" || q.Get("pFilter") != "0" {
			t.Errorf("unexpected query %v", q)
		}
		body, _ := io.ReadAll(r.Body)
		if string(body) != string(pcm) {
			t.Errorf("unexpected body %v", body)
		}
		_, _ = io.WriteString(w, "{\"result\":[]}\n")
		_, _ = io.WriteString(w, `{"result":[{"alternative":[{"transcript":"hello there"},{"transcript":"hello their","confidence":0.91}],"final":true}],"result_index":0}`+"\n")
	}))
	defer server.Close()

	client := NewClient(Config{BaseURL: server.URL, APIKey: "secret"})
	text, err := client.Recognize(context.Background(), recognize.Request{PCM: pcm, Language: "en-GB"})
	if err != nil {
		t.Fatalf("Recognize: %v", err)
	}
	if text != "hello their" {
		t.Fatalf("expected alternative with confidence, got %q", text)
	}
}

func TestRecognizeNoSpeech(t *testing.T) {
	for name, body := range map[string]string{
		"only empty results": "{\"result\":[]}\n",
		"no alternatives":    "{\"result\":[]}\n{\"result\":[{\"final\":true}]}\n",
		"empty body":         "",
	} {
		t.Run(name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				_, _ = io.WriteString(w, body)
			}))
			defer server.Close()
			_, err := NewClient(Config{BaseURL: server.URL}).Recognize(context.Background(), recognize.Request{Language: "en-US"})
			if !errors.Is(err, recognize.ErrUnintelligible) {
				t.Fatalf("expected ErrUnintelligible, got %v", err)
			}
		})
	}
}

func TestRecognizeRequestErrors(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls++
		w.WriteHeader(http.StatusForbidden)
		_, _ = io.WriteString(w, "quota exhausted")
	}))
	defer server.Close()

	_, err := NewClient(Config{BaseURL: server.URL}).Recognize(context.Background(), recognize.Request{Language: "en-US"})
	var statusErr *httpStatusError
	if !errors.As(err, &statusErr) || statusErr.StatusCode != http.StatusForbidden {
		t.Fatalf("expected http status error, got %v", err)
	}
	if !strings.Contains(err.Error(), "quota exhausted") {
		t.Fatalf("expected backend message in error, got %v", err)
	}
	if calls != 1 {
		t.Fatalf("expected a single attempt, got %d", calls)
	}
	if errors.Is(err, recognize.ErrUnintelligible) {
		t.Fatal("request errors must not look like no-speech")
	}
}

func TestRecognizeMalformedJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, "<html>oops</html>\n")
	}))
	defer server.Close()
	_, err := NewClient(Config{BaseURL: server.URL}).Recognize(context.Background(), recognize.Request{Language: "en-US"})
	if err == nil || errors.Is(err, recognize.ErrUnintelligible) {
		t.Fatalf("expected parse error, got %v", err)
	}
}

func TestRecognizeTransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := server.URL
	server.Close()
	_, err := NewClient(Config{BaseURL: url}).Recognize(context.Background(), recognize.Request{Language: "en-US"})
	if err == nil {
		t.Fatal("expected transport error")
	}
}

func TestEndpointProfanityFilter(t *testing.T) {
	client := NewClient(Config{ProfanityFilter: true})
	endpoint, err := client.endpoint("de-DE")
	if err != nil {
		t.Fatalf("endpoint: %v", err)
	}
	if !strings.HasPrefix(endpoint, defaultBaseURL+"?") || !strings.Contains(endpoint, "pFilter=1") || strings.Contains(endpoint, "key=") {
		t.Fatalf("unexpected endpoint %q", endpoint)
	}
}
