package storage

import (
	"context"
	"fmt"
	"net/http"
	"time"
)

type HTTPProvider struct {
	client *http.Client
}

func NewHTTPProvider(timeout time.Duration) *HTTPProvider {
	return &HTTPProvider{client: &http.Client{Timeout: timeout}}
}

func (h *HTTPProvider) Get(ctx context.Context, loc Location) (*FileObject, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, loc.Raw, nil)
	if err != nil {
		return nil, err
	}

	resp, err := h.client.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("GET %s: %s", loc.Raw, resp.Status)
	}

	obj := &FileObject{
		Body:          resp.Body,
		ContentLength: resp.ContentLength,
		ContentType:   resp.Header.Get("Content-Type"),
	}
	if lm, err := http.ParseTime(resp.Header.Get("Last-Modified")); err == nil {
		obj.LastModified = lm
	}
	return obj, nil
}
