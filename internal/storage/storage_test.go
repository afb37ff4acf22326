package storage

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
)

func TestParseLocation(t *testing.T) {
	tests := []struct {
		raw        string
		wantScheme Scheme
		wantBucket string
		wantPath   string
		wantErr    bool
	}{
		{"./media/talk.mp3", SchemeFile, "", "./media/talk.mp3", false},
		{"file:///var/audio/talk.mp3", SchemeFile, "", "/var/audio/talk.mp3", false},
		{"s3://recordings/2024/talk.mp3", SchemeS3, "recordings", "2024/talk.mp3", false},
		{"https://cdn.example.com/a/talk.mp3?sig=abc", SchemeHTTPS, "", "/a/talk.mp3", false},
		{"s3://recordings", "", "", "", true},
		{"ftp://host/talk.mp3", "", "", "", true},
		{"", "", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			loc, err := ParseLocation(tt.raw)
			if tt.wantErr {
				if !errors.Is(err, ErrUnsupportedSource) {
					t.Fatalf("ParseLocation(%q) err = %v, want ErrUnsupportedSource", tt.raw, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseLocation(%q) unexpected error: %v", tt.raw, err)
			}
			if loc.Scheme != tt.wantScheme || loc.Bucket != tt.wantBucket || loc.Path != tt.wantPath {
				t.Errorf("ParseLocation(%q) = %+v", tt.raw, loc)
			}
		})
	}
}

func TestLocationName(t *testing.T) {
	loc, _ := ParseLocation("https://cdn.example.com/a/example_audio.mp3?table=block")
	if loc.Name() != "example_audio.mp3" {
		t.Errorf("Name() = %q", loc.Name())
	}
}

func TestClientOpenLocal(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "talk.mp3")
	os.WriteFile(p, []byte("ID3fake"), 0o644)

	c := NewClient(map[Scheme]Provider{SchemeFile: NewLocalProvider("")})
	obj, err := c.Open(context.Background(), p)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer obj.Body.Close()
	if obj.ContentLength != 7 {
		t.Errorf("ContentLength = %d", obj.ContentLength)
	}

	if _, err := c.Open(context.Background(), "s3://bucket/key.mp3"); !errors.Is(err, ErrUnsupportedSource) {
		t.Errorf("missing provider err = %v", err)
	}
}

func TestCacheManagerStagesHTTPOnce(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		io.WriteString(w, strings.Repeat("a", 1024))
	}))
	defer srv.Close()

	client := NewClient(map[Scheme]Provider{SchemeHTTP: NewHTTPProvider(0)})
	cache := NewCacheManager(client, t.TempDir())
	uri := srv.URL + "/talk.mp3"

	var wg sync.WaitGroup
	paths := make([]string, 4)
	for i := range paths {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			p, err := cache.GetLocalPath(context.Background(), uri)
			if err != nil {
				t.Errorf("GetLocalPath: %v", err)
			}
			paths[i] = p
		}(i)
	}
	wg.Wait()

	for _, p := range paths[1:] {
		if p != paths[0] {
			t.Fatalf("callers got different paths: %v", paths)
		}
	}
	if got := atomic.LoadInt32(&hits); got != 1 {
		t.Errorf("downloaded %d times, want 1", got)
	}
	if filepath.Ext(paths[0]) != ".mp3" {
		t.Errorf("staged file lost its extension: %s", paths[0])
	}

	cache.Remove(uri)
	if _, err := os.Stat(paths[0]); !os.IsNotExist(err) {
		t.Errorf("staged file still exists after Remove")
	}
}

func TestCacheManagerHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	client := NewClient(map[Scheme]Provider{SchemeHTTP: NewHTTPProvider(0)})
	cache := NewCacheManager(client, t.TempDir())

	if _, err := cache.GetLocalPath(context.Background(), srv.URL+"/missing.mp3"); err == nil {
		t.Error("expected error for 404 source")
	}
}

func TestCacheManagerLocalPassthrough(t *testing.T) {
	cache := NewCacheManager(NewClient(nil), t.TempDir())
	got, err := cache.GetLocalPath(context.Background(), "./media/talk.mp3")
	if err != nil || got != "./media/talk.mp3" {
		t.Errorf("GetLocalPath local = %q, %v", got, err)
	}
}
