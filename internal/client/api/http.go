package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/aleksmelnik/mediavault/internal/client/models"
	"github.com/aleksmelnik/mediavault/internal/common"
	"github.com/aleksmelnik/mediavault/internal/logging"
)

// HTTPClient is the Client implementation over net/http.
//
// Every outgoing request carries an X-Request-ID and, when the token
// provider yields one, a bearer token. The transport is wrapped with the
// unauthorized interceptor so 401 responses reach the session layer no
// matter which call produced them.
type HTTPClient struct {
	baseURL string
	http    *http.Client
	tokens  TokenProvider
	log     logging.Logger
}

// NewHTTPClient builds a client for the backend at baseURL (scheme + host,
// e.g. "http://localhost:5000"). onUnauthorized is invoked for every 401
// response observed on the wire; pass nil to disable interception.
func NewHTTPClient(baseURL string, timeout time.Duration, tokens TokenProvider, onUnauthorized func(), log logging.Logger) *HTTPClient {
	transport := &unauthorizedInterceptor{next: http.DefaultTransport, hook: onUnauthorized}
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Transport: transport, Timeout: timeout},
		tokens:  tokens,
		log:     log,
	}
}

var _ Client = (*HTTPClient)(nil)

func (c *HTTPClient) Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error) {
	var out AuthResponse
	if err := c.doJSON(ctx, http.MethodPost, "/api/auth/register", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) Login(ctx context.Context, email, password string) (*AuthResponse, error) {
	body := map[string]string{"email": email, "password": password}
	var out AuthResponse
	if err := c.doJSON(ctx, http.MethodPost, "/api/auth/login", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) Me(ctx context.Context) (*models.User, error) {
	var out struct {
		User models.User `json:"user"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/api/auth/me", nil, &out); err != nil {
		return nil, err
	}
	return &out.User, nil
}

// uploadPayload is the created item with the storage summary the backend
// attaches to the same object.
type uploadPayload struct {
	models.MediaItem
	Storage *models.StorageSummary `json:"storage"`
}

func (c *HTTPClient) Upload(ctx context.Context, req UploadRequest) (*UploadResponse, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	if err := mw.WriteField("title", req.Title); err != nil {
		return nil, fmt.Errorf("write title field: %w", err)
	}
	fw, err := mw.CreateFormFile("file", req.Filename)
	if err != nil {
		return nil, fmt.Errorf("create file part: %w", err)
	}
	if _, err := io.Copy(fw, req.Content); err != nil {
		return nil, fmt.Errorf("copy file content: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("close multipart writer: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/media/upload", &buf)
	if err != nil {
		return nil, fmt.Errorf("build upload request: %w", err)
	}
	httpReq.Header.Set("Content-Type", mw.FormDataContentType())
	c.setCommonHeaders(httpReq)

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, &Error{Kind: KindNetwork, Message: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return nil, c.decodeError(resp)
	}

	var payload uploadPayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode upload response: %w", err)
	}
	return &UploadResponse{Item: payload.MediaItem, Storage: payload.Storage}, nil
}

func (c *HTTPClient) ListMedia(ctx context.Context, q ListQuery) ([]models.MediaItem, error) {
	values := url.Values{}
	if q.Type != nil {
		values.Set("type", string(*q.Type))
	}
	if q.Favorites != nil {
		values.Set("favorites", strconv.FormatBool(*q.Favorites))
	}
	if q.Trash != nil {
		values.Set("trash", strconv.FormatBool(*q.Trash))
	}
	if q.Limit > 0 {
		values.Set("limit", strconv.Itoa(q.Limit))
	}
	if q.Skip > 0 {
		values.Set("skip", strconv.Itoa(q.Skip))
	}

	path := "/api/media"
	if encoded := values.Encode(); encoded != "" {
		path += "?" + encoded
	}

	var out struct {
		Items []models.MediaItem `json:"items"`
	}
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out.Items, nil
}

func (c *HTTPClient) SetFavorite(ctx context.Context, id string, isFavorite bool) error {
	body := map[string]bool{"isFavorite": isFavorite}
	var out struct {
		Success bool `json:"success"`
	}
	return c.doJSON(ctx, http.MethodPatch, "/api/media/"+url.PathEscape(id)+"/favorite", body, &out)
}

func (c *HTTPClient) SetTrashed(ctx context.Context, id string, isDeleted bool) (*models.StorageSummary, error) {
	body := map[string]bool{"isDeleted": isDeleted}
	var out struct {
		Success bool                   `json:"success"`
		Storage *models.StorageSummary `json:"storage"`
	}
	if err := c.doJSON(ctx, http.MethodPatch, "/api/media/"+url.PathEscape(id)+"/trash", body, &out); err != nil {
		return nil, err
	}
	return out.Storage, nil
}

func (c *HTTPClient) DeleteMedia(ctx context.Context, id string) (*models.StorageSummary, error) {
	var out struct {
		Success bool                   `json:"success"`
		Storage *models.StorageSummary `json:"storage"`
	}
	if err := c.doJSON(ctx, http.MethodDelete, "/api/media/"+url.PathEscape(id), nil, &out); err != nil {
		return nil, err
	}
	return out.Storage, nil
}

func (c *HTTPClient) GetStorageSummary(ctx context.Context) (*models.StorageSummary, error) {
	var out models.StorageSummary
	if err := c.doJSON(ctx, http.MethodGet, "/api/media/storage", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// doJSON issues one JSON request and decodes a successful response into out
// (skipped when out is nil). Error responses are mapped to *Error.
func (c *HTTPClient) doJSON(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	c.setCommonHeaders(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return &Error{Kind: KindNetwork, Message: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return c.decodeError(resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func (c *HTTPClient) setCommonHeaders(req *http.Request) {
	req.Header.Set("X-Request-ID", uuid.NewString())
	if token := c.tokens.Token(); token != "" {
		req.Header.Set(common.AuthorizationHeaderName, "Bearer "+token)
	}
}

// decodeError maps an HTTP error response onto the display taxonomy.
// The backend reports failures as {"error": "..."}.
func (c *HTTPClient) decodeError(resp *http.Response) error {
	var body struct {
		Error string `json:"error"`
	}
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
	_ = json.Unmarshal(raw, &body)
	msg := body.Error

	apiErr := &Error{StatusCode: resp.StatusCode, Message: msg}

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		apiErr.Kind = KindUnauthorized
		if msg == "" {
			apiErr.Message = "unauthorized"
		}
	case resp.StatusCode == http.StatusBadRequest || resp.StatusCode == http.StatusConflict:
		apiErr.Kind = KindValidation
		if msg == "" {
			apiErr.Message = "invalid request"
		}
	case resp.StatusCode == http.StatusRequestEntityTooLarge:
		if strings.Contains(strings.ToLower(msg), "quota") {
			apiErr.Kind = KindQuotaExceeded
		} else {
			apiErr.Kind = KindFileTooLarge
		}
	case resp.StatusCode >= http.StatusInternalServerError:
		apiErr.Kind = KindServer
		if msg == "" {
			apiErr.Message = "internal server error"
		}
	default:
		apiErr.Kind = KindServer
		if msg == "" {
			apiErr.Message = resp.Status
		}
	}

	if c.log != nil {
		c.log.Debug(resp.Request.Context(), "api request failed",
			"method", resp.Request.Method, "url", resp.Request.URL.Path, "status", resp.StatusCode)
	}
	return apiErr
}
