package storage

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"path"
	"strings"
	"time"

	"transcript-player/internal/config"
)

type Scheme string

const (
	SchemeFile  Scheme = "file"
	SchemeS3    Scheme = "s3"
	SchemeHTTP  Scheme = "http"
	SchemeHTTPS Scheme = "https"
)

// Location is a parsed audio source URI.
type Location struct {
	Raw    string
	Scheme Scheme
	Bucket string // s3 only
	Path   string // file path or object key
}

// Name is the base file name of the location, without query parameters.
func (l Location) Name() string {
	return path.Base(l.Path)
}

// ParseLocation accepts file://, s3://bucket/key, http(s):// URIs and bare paths.
func ParseLocation(raw string) (Location, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Location{}, fmt.Errorf("%w: empty uri", ErrUnsupportedSource)
	}

	if !strings.Contains(raw, "://") {
		return Location{Raw: raw, Scheme: SchemeFile, Path: raw}, nil
	}

	u, err := url.Parse(raw)
	if err != nil {
		return Location{}, fmt.Errorf("%w: %v", ErrUnsupportedSource, err)
	}

	switch Scheme(strings.ToLower(u.Scheme)) {
	case SchemeFile:
		return Location{Raw: raw, Scheme: SchemeFile, Path: u.Path}, nil
	case SchemeS3:
		key := strings.TrimPrefix(u.Path, "/")
		if u.Host == "" || key == "" {
			return Location{}, fmt.Errorf("%w: s3 uri needs bucket and key: %s", ErrUnsupportedSource, raw)
		}
		return Location{Raw: raw, Scheme: SchemeS3, Bucket: u.Host, Path: key}, nil
	case SchemeHTTP, SchemeHTTPS:
		return Location{Raw: raw, Scheme: Scheme(strings.ToLower(u.Scheme)), Path: u.Path}, nil
	default:
		return Location{}, fmt.Errorf("%w: scheme %q", ErrUnsupportedSource, u.Scheme)
	}
}

// Client routes a source URI to the provider for its scheme.
type Client struct {
	providers map[Scheme]Provider
}

func New(cfg *config.Config) *Client {
	c := NewClient(map[Scheme]Provider{
		SchemeFile:  NewLocalProvider(""),
		SchemeHTTP:  NewHTTPProvider(5 * time.Minute),
		SchemeHTTPS: NewHTTPProvider(5 * time.Minute),
	})

	s3p, err := NewS3Provider(cfg)
	if err != nil {
		log.Printf("⚠️ S3 provider disabled: %v", err)
	} else {
		c.providers[SchemeS3] = s3p
	}
	return c
}

func NewClient(providers map[Scheme]Provider) *Client {
	c := &Client{providers: make(map[Scheme]Provider, len(providers))}
	for s, p := range providers {
		c.providers[s] = p
	}
	return c
}

// Open fetches the object behind uri.
func (c *Client) Open(ctx context.Context, uri string) (*FileObject, error) {
	loc, err := ParseLocation(uri)
	if err != nil {
		return nil, err
	}
	p, ok := c.providers[loc.Scheme]
	if !ok {
		return nil, fmt.Errorf("%w: no provider for %s", ErrUnsupportedSource, loc.Scheme)
	}
	return p.Get(ctx, loc)
}
