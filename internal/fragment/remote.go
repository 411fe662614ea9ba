package fragment

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"strings"
	"time"
)

// RemoteSource fetches fragments from a key-value template store over HTTP.
// A fragment lives at GET {baseURL}/kv/{prefix}{name} and the response body
// is a JSON node whose "value" is the fragment markup.
type RemoteSource struct {
	baseURL    string
	apiKey     string
	prefix     string
	httpClient *http.Client
}

func NewRemoteSource(baseURL, apiKey, prefix string) *RemoteSource {
	return &RemoteSource{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		prefix:  prefix,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

type remoteNode struct {
	Key   string `json:"key_path"`
	Value any    `json:"value"`
}

func (s *RemoteSource) Load(ctx context.Context, name Name) ([]byte, error) {
	key := s.prefix + string(name)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"/kv/"+key, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	if s.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+s.apiKey)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("get fragment: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusNotFound {
		return nil, &FragmentMissingError{Name: name, Err: fs.ErrNotExist}
	}
	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("get fragment %s: status %d: %s", key, resp.StatusCode, string(respBody))
	}

	var node remoteNode
	if err := json.NewDecoder(resp.Body).Decode(&node); err != nil {
		return nil, fmt.Errorf("decode fragment %s: %w", key, err)
	}
	markup, ok := node.Value.(string)
	if !ok {
		return nil, fmt.Errorf("fragment %s: value is %T, want string", key, node.Value)
	}
	return []byte(markup), nil
}

// Close releases idle connections.
func (s *RemoteSource) Close() {
	s.httpClient.CloseIdleConnections()
}
