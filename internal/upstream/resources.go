package upstream

import (
	"context"
	"net/http"

	"kiosk-admin-console/internal/model"
)

// Resource names, also used as cache endpoint names and URL segments.
const (
	KioskVersions = "kiosk-versions"
	SyncTasks     = "sync-tasks"
	Orders        = "orders"
	Organizations = "organizations"
	DeviceTypes   = "device-types"
	DeviceModels  = "device-models"
	Devices       = "devices"
	Workflows     = "workflows"
	Products      = "products"
)

var defaultEndpoints = map[string]string{
	KioskVersions: "/kiosk-versions",
	SyncTasks:     "/sync-tasks",
	Orders:        "/orders",
	Organizations: "/organizations",
	DeviceTypes:   "/device-types",
	DeviceModels:  "/device-models",
	Devices:       "/devices",
	Workflows:     "/workflows",
	Products:      "/products",
}

const (
	loginPath   = "/auth/login"
	refreshPath = "/auth/refresh-token"
)

func (c *Client) KioskVersions(ctx context.Context, p model.PagingParams) (*model.PagingResponse[model.KioskVersion], error) {
	return GetPaging[model.KioskVersion](ctx, c, KioskVersions, p)
}

func (c *Client) SyncTasks(ctx context.Context, p model.PagingParams) (*model.PagingResponse[model.SyncTask], error) {
	return GetPaging[model.SyncTask](ctx, c, SyncTasks, p)
}

func (c *Client) Orders(ctx context.Context, p model.PagingParams) (*model.PagingResponse[model.Order], error) {
	return GetPaging[model.Order](ctx, c, Orders, p)
}

func (c *Client) Organizations(ctx context.Context, p model.PagingParams) (*model.PagingResponse[model.Organization], error) {
	return GetPaging[model.Organization](ctx, c, Organizations, p)
}

func (c *Client) DeviceTypes(ctx context.Context, p model.PagingParams) (*model.PagingResponse[model.DeviceType], error) {
	return GetPaging[model.DeviceType](ctx, c, DeviceTypes, p)
}

func (c *Client) DeviceModels(ctx context.Context, p model.PagingParams) (*model.PagingResponse[model.DeviceModel], error) {
	return GetPaging[model.DeviceModel](ctx, c, DeviceModels, p)
}

func (c *Client) Devices(ctx context.Context, p model.PagingParams) (*model.PagingResponse[model.Device], error) {
	return GetPaging[model.Device](ctx, c, Devices, p)
}

func (c *Client) Workflows(ctx context.Context, p model.PagingParams) (*model.PagingResponse[model.Workflow], error) {
	return GetPaging[model.Workflow](ctx, c, Workflows, p)
}

func (c *Client) Products(ctx context.Context, p model.PagingParams) (*model.PagingResponse[model.Product], error) {
	return GetPaging[model.Product](ctx, c, Products, p)
}

// Tokens is the pair issued by the login and refresh endpoints.
type Tokens struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// Login exchanges operator credentials for tokens.
func (c *Client) Login(ctx context.Context, email, password string) (*Tokens, error) {
	var tokens Tokens
	payload := map[string]string{"email": email, "password": password}
	if err := c.do(ctx, http.MethodPost, loginPath, nil, payload, &tokens); err != nil {
		return nil, err
	}
	return &tokens, nil
}

// Refresh exchanges a refresh token for a new token pair.
func (c *Client) Refresh(ctx context.Context, refreshToken string) (*Tokens, error) {
	var tokens Tokens
	payload := map[string]string{"refreshToken": refreshToken}
	if err := c.do(ctx, http.MethodPost, refreshPath, nil, payload, &tokens); err != nil {
		return nil, err
	}
	return &tokens, nil
}
