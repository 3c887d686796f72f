// Package gist publishes the current seed's tracker to a GitHub gist. One
// gist is reused across seeds: the file of the previous seed is blanked when a
// new seed is published.
package gist

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"
)

// DefaultAPIURL is the GitHub gists endpoint.
const DefaultAPIURL = "https://api.github.com/gists"

const apiVersion = "2022-11-28"

// ErrUnexpectedStatus is returned for non-2xx responses.
var ErrUnexpectedStatus = errors.New("unexpected gist api status")

// State is what the tracker remembers between runs.
type State struct {
	GistID   string
	GistURL  string
	LastSeed string
}

// StateStore persists tracker state.
type StateStore interface {
	LoadState(ctx context.Context) (State, error)
	SaveState(ctx context.Context, s State) error
}

// MemoryStore keeps tracker state in memory.
type MemoryStore struct {
	mu sync.Mutex
	s  State
}

func (m *MemoryStore) LoadState(context.Context) (State, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.s, nil
}

func (m *MemoryStore) SaveState(_ context.Context, s State) error {
	m.mu.Lock()
	m.s = s
	m.mu.Unlock()
	return nil
}

// Client talks to the gist API.
type Client struct {
	token  string
	apiURL string
	http   *http.Client
	store  StateStore
}

// New creates a client. An empty apiURL selects DefaultAPIURL.
func New(token, apiURL string, timeout time.Duration, store StateStore) *Client {
	if apiURL == "" {
		apiURL = DefaultAPIURL
	}
	return &Client{
		token:  token,
		apiURL: apiURL,
		http:   &http.Client{Timeout: timeout},
		store:  store,
	}
}

// Enabled reports whether a token is configured.
func (c *Client) Enabled() bool { return c.token != "" }

type file struct {
	Content string `json:"content"`
}

type payload struct {
	Description string          `json:"description"`
	Public      *bool           `json:"public,omitempty"`
	Files       map[string]file `json:"files"`
}

type created struct {
	ID      string `json:"id"`
	HTMLURL string `json:"html_url"`
}

// Update publishes content as the tracker file of seed. Without a token it
// does nothing.
func (c *Client) Update(ctx context.Context, seed, content string) error {
	if !c.Enabled() {
		return nil
	}

	st, err := c.store.LoadState(ctx)
	if err != nil {
		return fmt.Errorf("loading tracker state: %w", err)
	}

	body := payload{
		Description: "Tracker for " + seed,
		Files:       map[string]file{seed: {Content: content}},
	}
	switch {
	case st.LastSeed == seed:
	case st.LastSeed != "" && st.GistID != "":
		body.Files[st.LastSeed] = file{}
	default:
		public := true
		body.Public = &public
	}

	method, url := http.MethodPost, c.apiURL
	if st.GistID != "" {
		method, url = http.MethodPatch, c.apiURL+"/"+st.GistID
	}

	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encoding gist payload: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("building gist request: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("X-GitHub-Api-Version", apiVersion)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, url, err)
	}
	defer resp.Body.Close()

	// последний сид запоминается при любом ответе
	st.LastSeed = seed
	var decodeErr error
	if resp.StatusCode == http.StatusCreated {
		var g created
		if err := json.NewDecoder(resp.Body).Decode(&g); err != nil {
			decodeErr = fmt.Errorf("decoding created gist: %w", err)
		} else {
			st.GistID, st.GistURL = g.ID, g.HTMLURL
		}
	}
	if err := c.store.SaveState(ctx, st); err != nil {
		return fmt.Errorf("saving tracker state: %w", err)
	}
	if decodeErr != nil {
		return decodeErr
	}

	if resp.StatusCode/100 != 2 {
		return fmt.Errorf("%s %s: %d: %w", method, url, resp.StatusCode, ErrUnexpectedStatus)
	}

	slog.Info("seed tracker published", "seed", seed, "gist", st.GistID, "url", st.GistURL)
	return nil
}
