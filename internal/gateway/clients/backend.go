// Package clients talks to the remote restaurant backend REST API. Every
// method issues exactly one authenticated HTTP call and maps the three
// failure shapes the rest of the gateway cares about: a domain error with
// the server's own message, an unreachable backend, or a decode problem.
package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"restman-system/internal/orders"
)

const (
	loginPath          = "/api/auth/users/login"
	signupPath         = "/api/auth/users/signup"
	forgotPasswordPath = "/api/auth/users/forgot-password"
	// The backend mounts reset-password outside the /api prefix.
	resetPasswordPath  = "/auth/users/reset-password"
	profilePath        = "/api/auth/users/profile"
	updateProfilePath  = "/api/auth/users/update-profile"
	changePasswordPath = "/api/auth/users/change-password"

	getMenuPath    = "/api/menu/getmenu"
	createMenuPath = "/api/menu/add"
	updateMenuPath = "/api/menu/update"

	employeesPath = "/api/employees"

	generateTokenPath = "/api/tokens/generate"
	tokensByDatePath  = "/api/tokens/date"
	myTokensPath      = "/api/tokens/my-tokens"

	dashboardStatsPath = "/api/dashboard/stats"
	popularItemsPath   = "/api/dashboard/popular-items"
	recentActivityPath = "/api/dashboard/recent-activity"
)

// ErrBackendUnreachable covers every no-response failure: refused, timed
// out, DNS. Callers surface one generic retry message for all of them.
var ErrBackendUnreachable = errors.New("backend unreachable")

// UpstreamError is a domain-level failure: the backend answered with a
// non-2xx status. Message carries the server-provided text verbatim.
type UpstreamError struct {
	StatusCode int
	Message    string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("backend returned %d: %s", e.StatusCode, e.Message)
}

// Document is a binary response, e.g. a generated token PDF.
type Document struct {
	ContentType string `json:"contentType"`
	Data        []byte `json:"data"`
}

func (d *Document) IsPDF() bool {
	return strings.HasPrefix(d.ContentType, "application/pdf")
}

type BackendClient struct {
	baseURL string
	httpc   *http.Client
}

func NewBackendClient(baseURL string) *BackendClient {
	return &BackendClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpc:   &http.Client{},
	}
}

func (c *BackendClient) do(ctx context.Context, method, path, token string, body interface{}) ([]byte, string, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, "", err
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, "", err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrBackendUnreachable, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrBackendUnreachable, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, "", &UpstreamError{
			StatusCode: resp.StatusCode,
			Message:    upstreamMessage(data, resp.StatusCode),
		}
	}
	return data, resp.Header.Get("Content-Type"), nil
}

func (c *BackendClient) doJSON(ctx context.Context, method, path, token string, body, out interface{}) error {
	data, _, err := c.do(ctx, method, path, token, body)
	if err != nil {
		return err
	}
	if out == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode backend response: %w", err)
	}
	return nil
}

// upstreamMessage pulls the server-provided message out of an error body so
// handlers can surface it verbatim instead of a transport error.
func upstreamMessage(data []byte, status int) string {
	var body struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(data, &body); err == nil {
		if body.Message != "" {
			return body.Message
		}
		if body.Error != "" {
			return body.Error
		}
	}
	return http.StatusText(status)
}

// Ping reports whether the backend answers HTTP at all. Any status counts
// as reachable.
func (c *BackendClient) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/", nil)
	if err != nil {
		return err
	}
	resp, err := c.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBackendUnreachable, err)
	}
	resp.Body.Close()
	return nil
}

// --- Auth ---

// AuthResponse is the backend's auth envelope. Login puts the profile in
// "user", signup puts it in "data"; success=false may arrive with a 200.
type AuthResponse struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Token   string          `json:"token"`
	User    json.RawMessage `json:"user"`
	Data    json.RawMessage `json:"data"`
}

type MessageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type SignupPayload struct {
	FullName  string `json:"fullName"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	Phone     string `json:"phone"`
	HotelName string `json:"hotelName"`
	Address   string `json:"address"`
	Role      string `json:"role"`
}

type ProfilePayload struct {
	FullName  string `json:"fullName,omitempty"`
	Email     string `json:"email,omitempty"`
	Phone     string `json:"phone,omitempty"`
	HotelName string `json:"hotelName,omitempty"`
	Address   string `json:"address,omitempty"`
}

func (c *BackendClient) Login(ctx context.Context, email, password string) (*AuthResponse, error) {
	var out AuthResponse
	payload := map[string]string{"email": email, "password": password}
	if err := c.doJSON(ctx, http.MethodPost, loginPath, "", payload, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *BackendClient) Signup(ctx context.Context, p SignupPayload) (*AuthResponse, error) {
	var out AuthResponse
	if err := c.doJSON(ctx, http.MethodPost, signupPath, "", p, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *BackendClient) ForgotPassword(ctx context.Context, email string) (*MessageResponse, error) {
	var out MessageResponse
	payload := map[string]string{"email": email}
	if err := c.doJSON(ctx, http.MethodPost, forgotPasswordPath, "", payload, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *BackendClient) ResetPassword(ctx context.Context, resetToken, password string) (*MessageResponse, error) {
	var out MessageResponse
	payload := map[string]string{"token": resetToken, "password": password}
	if err := c.doJSON(ctx, http.MethodPost, resetPasswordPath, "", payload, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *BackendClient) Profile(ctx context.Context, token string) (json.RawMessage, error) {
	var out json.RawMessage
	if err := c.doJSON(ctx, http.MethodGet, profilePath, token, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *BackendClient) UpdateProfile(ctx context.Context, token string, p ProfilePayload) (json.RawMessage, error) {
	var out json.RawMessage
	if err := c.doJSON(ctx, http.MethodPut, updateProfilePath, token, p, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *BackendClient) ChangePassword(ctx context.Context, token, currentPassword, newPassword string) (*AuthResponse, error) {
	var out AuthResponse
	payload := map[string]string{
		"currentPassword": currentPassword,
		"newPassword":     newPassword,
	}
	if err := c.doJSON(ctx, http.MethodPost, changePasswordPath, token, payload, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// --- Menu ---

type MenuResponse struct {
	Items []orders.MenuItem `json:"items"`
}

func (c *BackendClient) GetMenu(ctx context.Context, token string) (*MenuResponse, error) {
	var out MenuResponse
	if err := c.doJSON(ctx, http.MethodGet, getMenuPath, token, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *BackendClient) CreateMenu(ctx context.Context, token string, items []orders.MenuItem) (*MessageResponse, error) {
	var out MessageResponse
	payload := map[string]interface{}{"items": items}
	if err := c.doJSON(ctx, http.MethodPost, createMenuPath, token, payload, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *BackendClient) UpdateMenu(ctx context.Context, token string, items []orders.MenuItem) (*MessageResponse, error) {
	var out MessageResponse
	payload := map[string]interface{}{"items": items}
	if err := c.doJSON(ctx, http.MethodPut, updateMenuPath, token, payload, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// --- Employees ---
// Employee records are owned by the backend; the gateway relays them without
// reshaping, so these methods move raw JSON.

func (c *BackendClient) ListEmployees(ctx context.Context, token string) (json.RawMessage, error) {
	var out json.RawMessage
	if err := c.doJSON(ctx, http.MethodGet, employeesPath, token, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *BackendClient) CreateEmployee(ctx context.Context, token string, body json.RawMessage) (json.RawMessage, error) {
	var out json.RawMessage
	if err := c.doJSON(ctx, http.MethodPost, employeesPath, token, body, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *BackendClient) GetEmployee(ctx context.Context, token, id string) (json.RawMessage, error) {
	var out json.RawMessage
	if err := c.doJSON(ctx, http.MethodGet, employeesPath+"/"+id, token, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *BackendClient) UpdateEmployee(ctx context.Context, token, id string, body json.RawMessage) (json.RawMessage, error) {
	var out json.RawMessage
	if err := c.doJSON(ctx, http.MethodPut, employeesPath+"/"+id, token, body, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *BackendClient) DeleteEmployee(ctx context.Context, token, id string) (json.RawMessage, error) {
	var out json.RawMessage
	if err := c.doJSON(ctx, http.MethodDelete, employeesPath+"/"+id, token, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *BackendClient) AddEmployeeLeave(ctx context.Context, token, id string, body json.RawMessage) (json.RawMessage, error) {
	var out json.RawMessage
	if err := c.doJSON(ctx, http.MethodPost, employeesPath+"/"+id+"/leaves", token, body, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *BackendClient) AddEmployeePayment(ctx context.Context, token, id string, body json.RawMessage) (json.RawMessage, error) {
	var out json.RawMessage
	if err := c.doJSON(ctx, http.MethodPost, employeesPath+"/"+id+"/payments", token, body, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *BackendClient) EmployeePaymentsReport(ctx context.Context, token, id string) (json.RawMessage, error) {
	var out json.RawMessage
	if err := c.doJSON(ctx, http.MethodGet, employeesPath+"/"+id+"/report/payments", token, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *BackendClient) EmployeeLeavesReport(ctx context.Context, token, id string) (json.RawMessage, error) {
	var out json.RawMessage
	if err := c.doJSON(ctx, http.MethodGet, employeesPath+"/"+id+"/report/leaves", token, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// --- Tokens (meal orders) ---

// GenerateToken submits one table form and returns whatever the backend
// produced: a PDF bill or a JSON record.
func (c *BackendClient) GenerateToken(ctx context.Context, token string, form orders.TableForm) (*Document, error) {
	data, contentType, err := c.do(ctx, http.MethodPost, generateTokenPath, token, form)
	if err != nil {
		return nil, err
	}
	return &Document{ContentType: contentType, Data: data}, nil
}

func (c *BackendClient) TokensByDate(ctx context.Context, token, year, month, day string) (json.RawMessage, error) {
	var out json.RawMessage
	path := fmt.Sprintf("%s/%s/%s/%s", tokensByDatePath, year, month, day)
	if err := c.doJSON(ctx, http.MethodGet, path, token, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *BackendClient) MyTokens(ctx context.Context, token string) (json.RawMessage, error) {
	var out json.RawMessage
	if err := c.doJSON(ctx, http.MethodGet, myTokensPath, token, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// --- Dashboard ---

func (c *BackendClient) DashboardStats(ctx context.Context, token string) (json.RawMessage, error) {
	var out json.RawMessage
	if err := c.doJSON(ctx, http.MethodGet, dashboardStatsPath, token, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *BackendClient) PopularItems(ctx context.Context, token string) (json.RawMessage, error) {
	var out json.RawMessage
	if err := c.doJSON(ctx, http.MethodGet, popularItemsPath, token, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *BackendClient) RecentActivity(ctx context.Context, token string) (json.RawMessage, error) {
	var out json.RawMessage
	if err := c.doJSON(ctx, http.MethodGet, recentActivityPath, token, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}
