package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"time"

	"github.com/google/uuid"

	"profilecli/internal/client/models"
	"profilecli/internal/common"
	"profilecli/internal/filex"
)

// HTTPClient is the concrete Client over net/http.
type HTTPClient struct {
	baseURL string
	http    *http.Client
}

// NewHTTPClient builds a client for the service at baseURL. A zero timeout
// disables the client-side deadline (per-call contexts still apply).
func NewHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// BaseURL returns the configured service root, used to build absolute file
// URLs for stored documents.
func (c *HTTPClient) BaseURL() string { return c.baseURL }

// envelope is the union of every response body the service produces.
type envelope struct {
	Token          string              `json:"token"`
	User           *models.UserProfile `json:"user"`
	Status         string              `json:"status"`
	Error          string              `json:"error"`
	ProfilePicture string              `json:"profilePicture"`
	CV             string              `json:"cv"`
}

func (c *HTTPClient) newRequest(ctx context.Context, method, path, contentType string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, err
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set(common.RequestIDHeaderName, uuid.NewString())
	return req, nil
}

// do executes the request and decodes the response envelope, applying the
// error taxonomy. The caller inspects only the success fields.
func (c *HTTPClient) do(req *http.Request) (*envelope, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrUnavailable, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading response: %v", common.ErrUnavailable, err)
	}

	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("%w: malformed response: %v", common.ErrUnavailable, err)
	}

	// A 401 means a rejected session only on bearer-authenticated calls.
	// Login/signup carry no bearer token; their 401s are ordinary server
	// rejections and keep the server's text verbatim.
	if resp.StatusCode == http.StatusUnauthorized && req.Header.Get(common.AuthHeaderName) != "" {
		if env.Error != "" {
			return nil, fmt.Errorf("%w: %s", common.ErrUnauthorized, env.Error)
		}
		return nil, common.ErrUnauthorized
	}
	if env.Error != "" {
		return nil, &ServerError{Message: env.Error}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &ServerError{Message: fmt.Sprintf("unexpected status %d", resp.StatusCode)}
	}
	return &env, nil
}

func (c *HTTPClient) Login(ctx context.Context, email, password string) (*AuthResponse, error) {
	body, err := json.Marshal(map[string]string{"email": email, "password": password})
	if err != nil {
		return nil, err
	}

	req, err := c.newRequest(ctx, http.MethodPost, "/login", "application/json", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}

	env, err := c.do(req)
	if err != nil {
		return nil, err
	}
	return &AuthResponse{Token: env.Token, User: env.User}, nil
}

func (c *HTTPClient) Signup(ctx context.Context, sr *SignupRequest) (*AuthResponse, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	fields := map[string]string{
		"firstName":   sr.Profile.FirstName,
		"lastName":    sr.Profile.LastName,
		"email":       sr.Profile.Email,
		"phoneNumber": sr.Profile.PhoneNumber,
		"countryCode": sr.Profile.CountryCode,
		"gender":      sr.Profile.Gender,
		"dob":         sr.Profile.DateOfBirth,
		"country":     sr.Profile.Country,
		"state":       sr.Profile.State,
		"address":     sr.Profile.Address,
		"password":    sr.Password,
	}
	for name, value := range fields {
		if err := w.WriteField(name, value); err != nil {
			return nil, fmt.Errorf("writing field %s: %w", name, err)
		}
	}

	// The nested education record travels as a single JSON-encoded part.
	edu, err := json.Marshal(sr.Profile.Education)
	if err != nil {
		return nil, err
	}
	if err := w.WriteField("education", string(edu)); err != nil {
		return nil, fmt.Errorf("writing education: %w", err)
	}

	if err := writeAttachment(w, "profilePicture", sr.ProfilePicture); err != nil {
		return nil, err
	}
	if err := writeAttachment(w, "cv", sr.CV); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}

	req, err := c.newRequest(ctx, http.MethodPost, "/signup", w.FormDataContentType(), &buf)
	if err != nil {
		return nil, err
	}

	env, err := c.do(req)
	if err != nil {
		return nil, err
	}
	return &AuthResponse{Token: env.Token, User: env.User}, nil
}

func (c *HTTPClient) GetProfile(ctx context.Context, token string) (*models.UserProfile, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/profile", "", nil)
	if err != nil {
		return nil, err
	}
	setBearer(req, token)

	env, err := c.do(req)
	if err != nil {
		return nil, err
	}
	if env.User == nil {
		return nil, &ServerError{Message: "Failed to fetch user data"}
	}
	return env.User, nil
}

func (c *HTTPClient) UpdateProfile(ctx context.Context, token string, u *models.UserProfile) error {
	body, err := json.Marshal(u)
	if err != nil {
		return err
	}

	req, err := c.newRequest(ctx, http.MethodPost, "/profile/update", "application/json", bytes.NewReader(body))
	if err != nil {
		return err
	}
	setBearer(req, token)

	env, err := c.do(req)
	if err != nil {
		return err
	}
	if env.Status != "Success" {
		return &ServerError{Message: "Failed to update profile"}
	}
	return nil
}

func (c *HTTPClient) UpdateImage(ctx context.Context, token string, file *filex.Attachment) (string, error) {
	return c.upload(ctx, token, "/profile/update-image", "profilePicture", file)
}

func (c *HTTPClient) UpdateCV(ctx context.Context, token string, file *filex.Attachment) (string, error) {
	return c.upload(ctx, token, "/profile/update-cv", "cv", file)
}

// upload sends a single-part multipart body and returns the stored file
// reference the server responded with.
func (c *HTTPClient) upload(ctx context.Context, token, path, fieldName string, file *filex.Attachment) (string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	if err := writeAttachment(w, fieldName, file); err != nil {
		return "", err
	}
	if err := w.Close(); err != nil {
		return "", err
	}

	req, err := c.newRequest(ctx, http.MethodPost, path, w.FormDataContentType(), &buf)
	if err != nil {
		return "", err
	}
	setBearer(req, token)

	env, err := c.do(req)
	if err != nil {
		return "", err
	}
	if env.Status != "Success" {
		return "", &ServerError{Message: "Failed to upload " + fieldName}
	}
	if fieldName == "cv" {
		return env.CV, nil
	}
	return env.ProfilePicture, nil
}

func setBearer(req *http.Request, token string) {
	req.Header.Set(common.AuthHeaderName, "Bearer "+token)
}

// writeAttachment adds one file part with its sniffed content type. A nil
// attachment writes nothing.
func writeAttachment(w *multipart.Writer, fieldName string, a *filex.Attachment) error {
	if a == nil {
		return nil
	}

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition",
		fmt.Sprintf(`form-data; name=%q; filename=%q`, fieldName, a.Name))
	if a.ContentType != "" {
		h.Set("Content-Type", a.ContentType)
	}

	part, err := w.CreatePart(h)
	if err != nil {
		return fmt.Errorf("creating part %s: %w", fieldName, err)
	}
	if _, err := part.Write(a.Data); err != nil {
		return fmt.Errorf("writing part %s: %w", fieldName, err)
	}
	return nil
}
