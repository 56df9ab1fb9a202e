// Package apiclient is a typed Go client for the garagely REST API. It is
// self-contained so consumers never import server internals, and it folds
// transport failures into the same error taxonomy the server speaks.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

// DefaultTimeout caps each request unless the caller supplies a client.
const DefaultTimeout = 30 * time.Second

// Client talks to the garagely API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	token      string
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) { c.httpClient = httpClient }
}

// New creates a client against baseURL (e.g. "http://localhost:3001").
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: DefaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetAuthToken attaches a bearer token to subsequent requests. An empty
// token clears it.
func (c *Client) SetAuthToken(token string) {
	c.token = token
}

// envelope mirrors the server's uniform response shape.
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Meta    *PaginationMeta `json:"meta"`
	Err     *Error          `json:"error"`
}

func (c *Client) do(ctx context.Context, method, path string, body io.Reader, contentType string, out any) (*PaginationMeta, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, err
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, transportError(err)
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, &Error{Code: CodeNetworkError, Message: "Malformed response from server"}
	}

	if !env.Success {
		if env.Err != nil {
			return nil, env.Err
		}
		return nil, &Error{Code: CodeInternal, Message: "An unexpected error occurred"}
	}

	if out != nil && len(env.Data) > 0 && string(env.Data) != "null" {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return nil, &Error{Code: CodeNetworkError, Message: "Malformed response from server"}
		}
	}
	return env.Meta, nil
}

func (c *Client) doJSON(ctx context.Context, method, path string, payload, out any) error {
	var body io.Reader
	contentType := ""
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		body = bytes.NewReader(encoded)
		contentType = "application/json"
	}
	_, err := c.do(ctx, method, path, body, contentType, out)
	return err
}

// transportError distinguishes deadline expiry from connectivity failure.
func transportError(err error) *Error {
	if errors.Is(err, context.DeadlineExceeded) || isTimeout(err) {
		return &Error{Code: CodeRequestTimeout, Message: "Request timed out"}
	}
	return &Error{Code: CodeNetworkError, Message: "Network error. Please check your connection"}
}

func isTimeout(err error) bool {
	var timeout interface{ Timeout() bool }
	return errors.As(err, &timeout) && timeout.Timeout()
}

// Register creates an account and returns the profile with a sign-in token.
func (c *Client) Register(ctx context.Context, req RegisterRequest) (*AuthResult, error) {
	var result AuthResult
	if err := c.doJSON(ctx, http.MethodPost, "/auth/register", req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Login verifies credentials and returns the profile with a sign-in token.
func (c *Client) Login(ctx context.Context, req LoginRequest) (*AuthResult, error) {
	var result AuthResult
	if err := c.doJSON(ctx, http.MethodPost, "/auth/login", req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// ChangePassword rotates the authenticated user's password.
func (c *Client) ChangePassword(ctx context.Context, req ChangePasswordRequest) error {
	return c.doJSON(ctx, http.MethodPost, "/auth/change-password", req, nil)
}

// GetMe fetches the authenticated user's profile with preferences.
func (c *Client) GetMe(ctx context.Context) (*UserWithPreferences, error) {
	var result UserWithPreferences
	if err := c.doJSON(ctx, http.MethodGet, "/users/me", nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// UpdateMe patches profile fields.
func (c *Client) UpdateMe(ctx context.Context, req UpdateUserRequest) (*User, error) {
	var result User
	if err := c.doJSON(ctx, http.MethodPatch, "/users/me", req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// DeleteMe removes the account, its documents and preferences.
func (c *Client) DeleteMe(ctx context.Context) error {
	return c.doJSON(ctx, http.MethodDelete, "/users/me", nil, nil)
}

// UpdatePreferences patches preference fields and returns the fresh profile.
func (c *Client) UpdatePreferences(ctx context.Context, req UpdatePreferencesRequest) (*UserWithPreferences, error) {
	var result UserWithPreferences
	if err := c.doJSON(ctx, http.MethodPatch, "/users/me/preferences", req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// UploadAvatar replaces the user's avatar with the supplied file.
func (c *Client) UploadAvatar(ctx context.Context, filename, contentType string, content io.Reader) (*Document, error) {
	body, formType, err := multipartBody(filename, contentType, content, nil)
	if err != nil {
		return nil, err
	}

	var result Document
	if _, err := c.do(ctx, http.MethodPost, "/users/me/avatar", body, formType, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// GetAvatar returns the current avatar, or nil when none is set.
func (c *Client) GetAvatar(ctx context.Context) (*Document, error) {
	var result Document
	if err := c.doJSON(ctx, http.MethodGet, "/users/me/avatar", nil, &result); err != nil {
		return nil, err
	}
	if result.ID == "" {
		return nil, nil
	}
	return &result, nil
}

// RemoveAvatar deletes the current avatar if one exists.
func (c *Client) RemoveAvatar(ctx context.Context) error {
	return c.doJSON(ctx, http.MethodDelete, "/users/me/avatar", nil, nil)
}

// UploadDocumentRequest describes a document upload. EntityID, when set,
// links the document to that entity in the same request.
type UploadDocumentRequest struct {
	Filename    string
	ContentType string
	Content     io.Reader
	EntityType  string
	Title       string
	EntityID    string
}

// UploadDocument stores a file and returns its record.
func (c *Client) UploadDocument(ctx context.Context, req UploadDocumentRequest) (*Document, error) {
	fields := map[string]string{"entityType": req.EntityType}
	if req.Title != "" {
		fields["title"] = req.Title
	}
	if req.EntityID != "" {
		fields["entityId"] = req.EntityID
	}

	body, formType, err := multipartBody(req.Filename, req.ContentType, req.Content, fields)
	if err != nil {
		return nil, err
	}

	var result Document
	if _, err := c.do(ctx, http.MethodPost, "/storage/upload", body, formType, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// ListDocuments returns one page of the user's documents.
func (c *Client) ListDocuments(ctx context.Context, page, limit int) ([]Document, *PaginationMeta, error) {
	query := url.Values{}
	if page > 0 {
		query.Set("page", strconv.Itoa(page))
	}
	if limit > 0 {
		query.Set("limit", strconv.Itoa(limit))
	}
	path := "/storage/documents"
	if encoded := query.Encode(); encoded != "" {
		path += "?" + encoded
	}

	var result []Document
	meta, err := c.do(ctx, http.MethodGet, path, nil, "", &result)
	if err != nil {
		return nil, nil, err
	}
	return result, meta, nil
}

// GetDocument fetches a single document record.
func (c *Client) GetDocument(ctx context.Context, id string) (*Document, error) {
	var result Document
	if err := c.doJSON(ctx, http.MethodGet, "/storage/documents/"+url.PathEscape(id), nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// DeleteDocument removes a document the user owns.
func (c *Client) DeleteDocument(ctx context.Context, id string) error {
	return c.doJSON(ctx, http.MethodDelete, "/storage/documents/"+url.PathEscape(id), nil, nil)
}

// CreateRelation links an existing document to an entity.
func (c *Client) CreateRelation(ctx context.Context, req CreateRelationRequest) (*DocumentRelation, error) {
	var result DocumentRelation
	if err := c.doJSON(ctx, http.MethodPost, "/storage/relations", req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// DeleteRelation removes a document relation.
func (c *Client) DeleteRelation(ctx context.Context, id string) error {
	return c.doJSON(ctx, http.MethodDelete, "/storage/relations/"+url.PathEscape(id), nil, nil)
}

// UploadFile is a convenience for uploading from disk.
func (c *Client) UploadFile(ctx context.Context, path, entityType, title, entityID string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	return c.UploadDocument(ctx, UploadDocumentRequest{
		Filename:    f.Name(),
		ContentType: "application/octet-stream",
		Content:     f,
		EntityType:  entityType,
		Title:       title,
		EntityID:    entityID,
	})
}

// multipartBody buffers a single-file multipart form. Uploads are bounded by
// the server's size limits, so buffering in memory is acceptable.
func multipartBody(filename, contentType string, content io.Reader, fields map[string]string) (io.Reader, string, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	header := make(map[string][]string)
	header["Content-Disposition"] = []string{fmt.Sprintf(`form-data; name="file"; filename="%s"`, filename)}
	if contentType != "" {
		header["Content-Type"] = []string{contentType}
	}
	part, err := mw.CreatePart(header)
	if err != nil {
		return nil, "", err
	}
	if _, err := io.Copy(part, content); err != nil {
		return nil, "", err
	}

	for name, value := range fields {
		if err := mw.WriteField(name, value); err != nil {
			return nil, "", err
		}
	}
	if err := mw.Close(); err != nil {
		return nil, "", err
	}
	return &buf, mw.FormDataContentType(), nil
}
