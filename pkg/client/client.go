// Package client talks to the memories REST service. Every method issues exactly
// one HTTP request; nothing is retried.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"memories/models"
)

// Resource paths under /api.
const (
	PlacesPath         = "/api/places"
	TravelIdeasPath    = "/api/travel_ideas"
	FinancialGoalsPath = "/api/financial_goals"
)

// StatusError is returned for any non-2xx response.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("server returned %d %s", e.Code, http.StatusText(e.Code))
	}
	return fmt.Sprintf("server returned %d: %s", e.Code, e.Message)
}

// Client is safe for concurrent use.
type Client struct {
	baseURL string
	http    *http.Client

	mu    sync.RWMutex
	token string
}

// New returns a client for the service at baseURL. A nil httpClient means
// http.DefaultClient; set its Timeout to bound requests.
func New(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), http: httpClient}
}

// SetToken sets the bearer token sent with every request.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

// Login exchanges the access password for a token and keeps it for later calls.
func (c *Client) Login(ctx context.Context, password string) (string, error) {
	var out struct {
		Token string `json:"token"`
	}
	if err := c.doJSON(ctx, http.MethodPost, "/api/login", map[string]string{"password": password}, &out); err != nil {
		return "", err
	}
	c.SetToken(out.Token)
	return out.Token, nil
}

// UploadImage sends a local image to the server-side normalizer and returns the
// resulting data URL.
func (c *Client) UploadImage(ctx context.Context, path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", filepath.Base(path))
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(part, f); err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	if err := mw.Close(); err != nil {
		return "", err
	}
	var out struct {
		ImageURL string `json:"imageUrl"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/images", &body, mw.FormDataContentType(), &out); err != nil {
		return "", err
	}
	return out.ImageURL, nil
}

func (c *Client) ListPlaces(ctx context.Context) ([]models.Place, error) {
	return list[models.Place](ctx, c, PlacesPath)
}

func (c *Client) CreatePlace(ctx context.Context, p models.PlacePatch) (models.Place, error) {
	return create[models.Place](ctx, c, PlacesPath, p)
}

func (c *Client) UpdatePlace(ctx context.Context, id uint, p models.PlacePatch) (models.Place, error) {
	return update[models.Place](ctx, c, PlacesPath, id, p)
}

func (c *Client) DeletePlace(ctx context.Context, id uint) error {
	return c.remove(ctx, PlacesPath, id)
}

func (c *Client) ListTravelIdeas(ctx context.Context) ([]models.TravelIdea, error) {
	return list[models.TravelIdea](ctx, c, TravelIdeasPath)
}

func (c *Client) CreateTravelIdea(ctx context.Context, p models.TravelIdeaPatch) (models.TravelIdea, error) {
	return create[models.TravelIdea](ctx, c, TravelIdeasPath, p)
}

func (c *Client) UpdateTravelIdea(ctx context.Context, id uint, p models.TravelIdeaPatch) (models.TravelIdea, error) {
	return update[models.TravelIdea](ctx, c, TravelIdeasPath, id, p)
}

func (c *Client) DeleteTravelIdea(ctx context.Context, id uint) error {
	return c.remove(ctx, TravelIdeasPath, id)
}

func (c *Client) ListFinancialGoals(ctx context.Context) ([]models.FinancialGoal, error) {
	return list[models.FinancialGoal](ctx, c, FinancialGoalsPath)
}

func (c *Client) CreateFinancialGoal(ctx context.Context, p models.FinancialGoalPatch) (models.FinancialGoal, error) {
	return create[models.FinancialGoal](ctx, c, FinancialGoalsPath, p)
}

func (c *Client) UpdateFinancialGoal(ctx context.Context, id uint, p models.FinancialGoalPatch) (models.FinancialGoal, error) {
	return update[models.FinancialGoal](ctx, c, FinancialGoalsPath, id, p)
}

func (c *Client) DeleteFinancialGoal(ctx context.Context, id uint) error {
	return c.remove(ctx, FinancialGoalsPath, id)
}

func list[T any](ctx context.Context, c *Client, path string) ([]T, error) {
	items := []T{}
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func create[T any](ctx context.Context, c *Client, path string, patch any) (T, error) {
	var rec T
	err := c.doJSON(ctx, http.MethodPost, path, patch, &rec)
	return rec, err
}

func update[T any](ctx context.Context, c *Client, path string, id uint, patch any) (T, error) {
	var rec T
	err := c.doJSON(ctx, http.MethodPut, itemPath(path, id), patch, &rec)
	return rec, err
}

func (c *Client) remove(ctx context.Context, path string, id uint) error {
	return c.doJSON(ctx, http.MethodDelete, itemPath(path, id), nil, nil)
}

func itemPath(path string, id uint) string {
	return path + "/" + strconv.FormatUint(uint64(id), 10)
}

func (c *Client) doJSON(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	contentType := ""
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(b)
		contentType = "application/json"
	}
	return c.do(ctx, method, path, body, contentType, out)
}

func (c *Client) do(ctx context.Context, method, path string, body io.Reader, contentType string, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")
	c.mu.RLock()
	token := c.token
	c.mu.RUnlock()
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return statusError(resp)
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}

func statusError(resp *http.Response) *StatusError {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
	var body struct {
		Error string `json:"error"`
	}
	msg := strings.TrimSpace(string(raw))
	if json.Unmarshal(raw, &body) == nil && body.Error != "" {
		msg = body.Error
	}
	return &StatusError{Code: resp.StatusCode, Message: msg}
}
