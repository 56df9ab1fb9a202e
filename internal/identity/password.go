package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/kursattkorkmazzz/garagely/internal/apperror"
)

// ErrPasswordCheckUnavailable signals that this deployment cannot verify
// passwords (no web API key configured). Callers decide whether to fail
// closed or skip the check.
var ErrPasswordCheckUnavailable = errors.New("password verification unavailable")

const signInEndpoint = "/v1/accounts:signInWithPassword"

// RESTPasswordVerifier verifies credentials against the Identity Toolkit
// signInWithPassword endpoint. The Admin SDK cannot check passwords, so this
// is the one place the service talks to the provider's public REST surface.
type RESTPasswordVerifier struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

// NewRESTPasswordVerifier builds a verifier for the production endpoint.
// An empty apiKey produces a verifier that reports unavailability.
func NewRESTPasswordVerifier(apiKey string) *RESTPasswordVerifier {
	return &RESTPasswordVerifier{
		apiKey:  apiKey,
		baseURL: "https://identitytoolkit.googleapis.com",
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

// NewEmulatorPasswordVerifier targets a local Auth emulator host
// (e.g. "127.0.0.1:9099"). The emulator accepts any API key.
func NewEmulatorPasswordVerifier(host string) *RESTPasswordVerifier {
	return &RESTPasswordVerifier{
		apiKey:  "emulator",
		baseURL: "http://" + host + "/identitytoolkit.googleapis.com",
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

type signInRequest struct {
	Email             string `json:"email"`
	Password          string `json:"password"`
	ReturnSecureToken bool   `json:"returnSecureToken"`
}

type signInErrorResponse struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

// VerifyPassword checks the pair and maps provider rejections onto the
// application error taxonomy. Account-existence probing is prevented by
// collapsing unknown-email and wrong-password onto the same error.
func (v *RESTPasswordVerifier) VerifyPassword(ctx context.Context, email, password string) error {
	if v.apiKey == "" {
		return ErrPasswordCheckUnavailable
	}

	body, err := json.Marshal(signInRequest{Email: email, Password: password, ReturnSecureToken: true})
	if err != nil {
		return err
	}

	url := v.baseURL + signInEndpoint + "?key=" + v.apiKey
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := v.client.Do(req)
	if err != nil {
		return fmt.Errorf("sign-in request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusOK {
		return nil
	}

	var errResp signInErrorResponse
	if err := json.NewDecoder(resp.Body).Decode(&errResp); err != nil {
		return fmt.Errorf("sign-in failed with status %d", resp.StatusCode)
	}
	if errResp.Error.Message == "" {
		return fmt.Errorf("sign-in failed with status %d", resp.StatusCode)
	}
	return apperror.FromSignInCode(errResp.Error.Message)
}
