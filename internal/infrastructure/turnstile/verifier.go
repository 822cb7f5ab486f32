package turnstile

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/mymai1208/AntiBot/internal/domain"
)

// Result is the siteverify response body.
type Result struct {
	Success     bool     `json:"success"`
	ErrorCodes  []string `json:"error-codes"`
	ChallengeTS string   `json:"challenge_ts"`
	Hostname    string   `json:"hostname"`
	Action      string   `json:"action"`
}

// Verifier checks challenge responses against the Turnstile siteverify endpoint.
type Verifier struct {
	secret   string
	endpoint string
	client   *http.Client
}

func NewVerifier(secret, endpoint string, client *http.Client) *Verifier {
	if client == nil {
		client = http.DefaultClient
	}
	return &Verifier{secret: secret, endpoint: endpoint, client: client}
}

// Verify submits the client's challenge response. Any non-success outcome,
// including transport errors and ctx expiry, wraps domain.ErrChallengeFailed.
func (v *Verifier) Verify(ctx context.Context, response, remoteIP string) error {
	form := url.Values{
		"secret":   {v.secret},
		"response": {response},
	}
	if remoteIP != "" {
		form.Set("remoteip", remoteIP)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, v.endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("build siteverify request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := v.client.Do(req)
	if err != nil {
		return fmt.Errorf("siteverify: %v: %w", err, domain.ErrChallengeFailed)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		return fmt.Errorf("siteverify status %d: %w", resp.StatusCode, domain.ErrChallengeFailed)
	}

	var res Result
	if err := json.NewDecoder(resp.Body).Decode(&res); err != nil {
		return fmt.Errorf("decode siteverify response: %v: %w", err, domain.ErrChallengeFailed)
	}
	if !res.Success {
		return fmt.Errorf("challenge rejected %v: %w", res.ErrorCodes, domain.ErrChallengeFailed)
	}
	return nil
}
