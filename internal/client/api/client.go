// Package api is the HTTP client for the remote account service. It speaks
// the service's REST contract (JSON bodies, multipart uploads, bearer auth)
// and maps failures onto the project's error taxonomy: transport problems
// wrap common.ErrUnavailable, explicit error payloads become *ServerError
// carrying the server's text verbatim, and 401s map to common.ErrUnauthorized.
package api

import (
	"context"

	"profilecli/internal/client/models"
	"profilecli/internal/filex"
)

// SignupRequest is the payload of the signup endpoint: the profile fields,
// the password, and the optional binary attachments. ConfirmPassword never
// leaves the form layer.
type SignupRequest struct {
	Profile        models.UserProfile
	Password       string
	ProfilePicture *filex.Attachment
	CV             *filex.Attachment
}

// AuthResponse is the successful result of login or signup.
type AuthResponse struct {
	Token string
	User  *models.UserProfile
}

// Client is the transport interface consumed by the session manager.
type Client interface {
	// Login exchanges credentials for a token and a user snapshot.
	Login(ctx context.Context, email, password string) (*AuthResponse, error)

	// Signup creates an account from a multipart payload.
	Signup(ctx context.Context, req *SignupRequest) (*AuthResponse, error)

	// GetProfile fetches the authenticated user's profile.
	GetProfile(ctx context.Context, token string) (*models.UserProfile, error)

	// UpdateProfile sends the full edited record. A response whose status is
	// not "Success" is reported as an error even when the transport succeeded.
	UpdateProfile(ctx context.Context, token string, u *models.UserProfile) error

	// UpdateImage uploads a replacement profile picture and returns the
	// stored file reference.
	UpdateImage(ctx context.Context, token string, file *filex.Attachment) (string, error)

	// UpdateCV uploads a replacement CV document and returns the stored file
	// reference.
	UpdateCV(ctx context.Context, token string, file *filex.Attachment) (string, error)
}

// ServerError is an explicit error reported by the service in an otherwise
// well-formed response. Its text is shown to the user verbatim.
type ServerError struct {
	Message string
}

func (e *ServerError) Error() string { return e.Message }
