// Package httpfetch is the shared HTTP-plus-JSON helper the three source
// adapters use to talk to their venues, grounded on the ESPN client's
// fetch helper (game-stats-service/internal/providers/espn/client.go):
// one *http.Client, a fixed User-Agent, and a single decode path.
package httpfetch

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/derdennis123/forecise/internal/forerr"
)

const userAgent = "Mozilla/5.0 (compatible; ForeciseBot/1.0)"

// GetJSON fetches url and decodes its body into out. Non-2xx responses and
// transport failures are surfaced as forerr.RemoteUnavailable; a 2xx
// response that fails to decode is forerr.MalformedRemotePayload.
func GetJSON(ctx context.Context, client *http.Client, url string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return forerr.Internal("build request", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := client.Do(req)
	if err != nil {
		return forerr.RemoteUnavailable(fmt.Sprintf("request to %s", url), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		return forerr.RemoteUnavailable(fmt.Sprintf("status %d from %s: %s", resp.StatusCode, url, string(body)), nil)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return forerr.MalformedRemotePayload(fmt.Sprintf("decode response from %s", url), err)
	}

	return nil
}
