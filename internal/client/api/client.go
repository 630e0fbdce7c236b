// Package api implements the MediaVault backend REST contract: auth, media
// listing and mutations, multipart upload, and the storage summary. It also
// carries the transport-level unauthorized-response interceptor.
package api

import (
	"context"
	"io"

	"github.com/aleksmelnik/mediavault/internal/client/models"
)

// TokenProvider supplies the bearer token attached to authenticated
// requests. An empty token means the request goes out unauthenticated.
type TokenProvider interface {
	Token() string
}

// RegisterRequest is the payload for POST /api/auth/register.
type RegisterRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

// AuthResponse is the result of a successful register or login call.
type AuthResponse struct {
	AccessToken string      `json:"accessToken"`
	User        models.User `json:"user"`
}

// UploadRequest describes one multipart upload. SizeBytes must match the
// content length; the caller validates size and type before issuing it.
type UploadRequest struct {
	Content     io.Reader
	Filename    string
	Title       string
	ContentType string
	SizeBytes   int64
}

// UploadResponse is the created item plus the storage summary the backend
// piggybacks on upload responses. Storage may be nil.
type UploadResponse struct {
	Item    models.MediaItem
	Storage *models.StorageSummary
}

// ListQuery maps to the GET /api/media query string. Nil pointer fields are
// omitted from the request.
type ListQuery struct {
	Type      *models.MediaType
	Favorites *bool
	Trash     *bool
	Limit     int
	Skip      int
}

// Client defines the operations the backend exposes to this app.
//
// All methods honor context cancellation. Failures are returned as *Error
// carrying the display taxonomy; mutation responses that include a storage
// summary surface it so callers can refresh the quota cache without an
// extra round trip.
type Client interface {
	Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error)
	Login(ctx context.Context, email, password string) (*AuthResponse, error)
	Me(ctx context.Context) (*models.User, error)

	Upload(ctx context.Context, req UploadRequest) (*UploadResponse, error)
	ListMedia(ctx context.Context, q ListQuery) ([]models.MediaItem, error)
	SetFavorite(ctx context.Context, id string, isFavorite bool) error
	SetTrashed(ctx context.Context, id string, isDeleted bool) (*models.StorageSummary, error)
	DeleteMedia(ctx context.Context, id string) (*models.StorageSummary, error)
	GetStorageSummary(ctx context.Context) (*models.StorageSummary, error)
}
