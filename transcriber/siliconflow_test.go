package transcriber

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func siliconFlowServer(t *testing.T, transcript string, status int) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/audio/transcriptions", func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(32 << 20); err != nil {
			t.Errorf("bad multipart request: %v", err)
		}
		if r.FormValue("model") == "" {
			t.Error("model field missing")
		}
		if _, _, err := r.FormFile("file"); err != nil {
			t.Errorf("file field missing: %v", err)
		}
		if status != http.StatusOK {
			http.Error(w, "backend unhappy", status)
			return
		}
		json.NewEncoder(w).Encode(map[string]string{"text": transcript})
	})
	mux.HandleFunc("/chat/completions", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]string{"role": "assistant", "content": "hello world"}},
			},
		})
	})
	return httptest.NewServer(mux)
}

func TestSiliconFlowTranscribe(t *testing.T) {
	srv := siliconFlowServer(t, "你好世界", http.StatusOK)
	defer srv.Close()

	s := newSiliconFlow("key", "", srv.URL)
	text, err := s.Process(context.Background(), testBuffer(), ModeTranscribe)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if text != "你好世界" {
		t.Errorf("text = %q", text)
	}
}

func TestSiliconFlowTranslate(t *testing.T) {
	srv := siliconFlowServer(t, "你好世界", http.StatusOK)
	defer srv.Close()

	s := newSiliconFlow("key", "", srv.URL)
	text, err := s.Process(context.Background(), testBuffer(), ModeTranslate)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if text != "hello world" {
		t.Errorf("text = %q, want hello world", text)
	}
}

func TestSiliconFlowRemoteError(t *testing.T) {
	srv := siliconFlowServer(t, "", http.StatusTooManyRequests)
	defer srv.Close()

	s := newSiliconFlow("key", "", srv.URL)
	_, err := s.Process(context.Background(), testBuffer(), ModeTranscribe)

	var remote *RemoteError
	if !errors.As(err, &remote) {
		t.Fatalf("err = %v, want *RemoteError", err)
	}
	if remote.Status != http.StatusTooManyRequests {
		t.Errorf("Status = %d, want 429", remote.Status)
	}
	if remote.Provider != "siliconflow" {
		t.Errorf("Provider = %q", remote.Provider)
	}
}

func TestSiliconFlowEmptyResult(t *testing.T) {
	srv := siliconFlowServer(t, "   ", http.StatusOK)
	defer srv.Close()

	s := newSiliconFlow("key", "", srv.URL)
	if _, err := s.Process(context.Background(), testBuffer(), ModeTranscribe); !errors.Is(err, ErrEmptyResult) {
		t.Fatalf("err = %v, want ErrEmptyResult", err)
	}
}

func TestSiliconFlowTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	s := newSiliconFlow("key", "", srv.URL)
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	if _, err := s.Process(ctx, testBuffer(), ModeTranscribe); !errors.Is(err, ErrTimeout) {
		t.Fatalf("err = %v, want ErrTimeout", err)
	}
}

func TestNewRequiresCredentials(t *testing.T) {
	if _, err := New(Config{Platform: "groq"}); err == nil {
		t.Error("groq without key should fail")
	}
	if _, err := New(Config{Platform: "siliconflow"}); err == nil {
		t.Error("siliconflow without key should fail")
	}
	if _, err := New(Config{Platform: "hybrid"}); err == nil {
		t.Error("hybrid without any key should fail")
	}
	if _, err := New(Config{Platform: "xunfei"}); err == nil {
		t.Error("unknown platform should fail")
	}
	if _, err := New(Config{Platform: "hybrid", GroqAPIKey: "k"}); err != nil {
		t.Errorf("hybrid with one key should work: %v", err)
	}
}
