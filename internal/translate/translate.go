// Package translate provides best-effort translation of Japanese-script
// text to English through the public translate endpoint. Failures of
// any kind return the original text unchanged; callers never need to
// handle an error.
package translate

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
	"unicode"
)

const defaultBaseURL = "https://translate.googleapis.com"

var japaneseRanges = []*unicode.RangeTable{unicode.Hiragana, unicode.Katakana, unicode.Han}

// ContainsJapanese reports whether s contains kana or kanji characters.
func ContainsJapanese(s string) bool {
	for _, r := range s {
		if unicode.IsOneOf(japaneseRanges, r) {
			return true
		}
	}
	return false
}

// Client calls the translation endpoint.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

func New(baseURL string) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		BaseURL:    baseURL,
		HTTPClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// ToEnglish translates Japanese text to English. Text that does not
// look Japanese, and any request or parse failure, yields the input.
func (c *Client) ToEnglish(ctx context.Context, text string) string {
	if c == nil || !ContainsJapanese(text) {
		return text
	}

	u := fmt.Sprintf("%s/translate_a/single?client=gtx&sl=ja&tl=en&dt=t&q=%s", c.BaseURL, url.QueryEscape(text))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return text
	}
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return text
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return text
	}
	b, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return text
	}

	translated, ok := firstSegment(b)
	if !ok || translated == "" {
		return text
	}
	return translated
}

// firstSegment digs the translated string out of the endpoint's nested
// array response; the payload shape is [[["translated","original",...],...],...].
func firstSegment(body []byte) (string, bool) {
	var root []json.RawMessage
	if err := json.Unmarshal(body, &root); err != nil || len(root) == 0 {
		return "", false
	}
	var segments []json.RawMessage
	if err := json.Unmarshal(root[0], &segments); err != nil || len(segments) == 0 {
		return "", false
	}
	var leaf []json.RawMessage
	if err := json.Unmarshal(segments[0], &leaf); err != nil || len(leaf) == 0 {
		return "", false
	}
	var s string
	if err := json.Unmarshal(leaf[0], &s); err != nil {
		return "", false
	}
	return s, true
}
