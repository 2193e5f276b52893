package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/shopspring/decimal"
)

// TokenSource はリクエストに付けるBearerトークンを返す。
type TokenSource interface {
	Token() string
}

// Client は Store API の REST クライアント。
type Client struct {
	http   *resty.Client
	tokens TokenSource
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	rc := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetTimeout(timeout).
		SetHeader("Accept", "application/json")
	return &Client{http: rc}
}

// SetTokenSource はセッションを差し替える。nil ならトークンなし。
func (c *Client) SetTokenSource(ts TokenSource) {
	c.tokens = ts
}

type call struct {
	method string
	path   string
	query  map[string]string
	body   interface{}
	out    interface{}
}

func (c *Client) do(ctx context.Context, in call) error {
	req := c.http.R().SetContext(ctx)
	if c.tokens != nil {
		if tok := c.tokens.Token(); tok != "" {
			req.SetAuthToken(tok)
		}
	}
	if len(in.query) > 0 {
		req.SetQueryParams(in.query)
	}
	if in.body != nil {
		req.SetHeader("Content-Type", "application/json").SetBody(in.body)
	}

	resp, err := req.Execute(in.method, in.path)
	if err != nil {
		return &Error{Kind: KindTransient, Path: in.path, Err: err}
	}

	if resp.IsError() {
		return decodeError(in.path, resp)
	}

	if in.out == nil || len(resp.Body()) == 0 {
		return nil
	}
	if err := json.Unmarshal(resp.Body(), in.out); err != nil {
		return &Error{Kind: KindTransient, Status: resp.StatusCode(), Path: in.path, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}

func decodeError(path string, resp *resty.Response) error {
	e := &Error{
		Kind:   classify(resp.StatusCode()),
		Status: resp.StatusCode(),
		Path:   path,
	}

	var body ErrorBody
	if err := json.Unmarshal(resp.Body(), &body); err == nil {
		e.Message = body.Message
	}
	return e
}

func (c *Client) Login(ctx context.Context, email, password string) (LoginResponse, error) {
	var out LoginResponse
	err := c.do(ctx, call{
		method: http.MethodPost,
		path:   "/auth/login",
		body:   LoginRequest{Email: email, Password: password},
		out:    &out,
	})
	return out, err
}

func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, call{method: http.MethodPost, path: "/auth/logout"})
}

func (c *Client) GetCart(ctx context.Context, userID int64) (Cart, error) {
	var out Cart
	err := c.do(ctx, call{
		method: http.MethodGet,
		path:   fmt.Sprintf("/stores/cart/%d", userID),
		out:    &out,
	})
	return out, err
}

func (c *Client) AddToCart(ctx context.Context, petID int64) (Cart, error) {
	var out Cart
	err := c.do(ctx, call{
		method: http.MethodPost,
		path:   fmt.Sprintf("/stores/cart/add/%d", petID),
		out:    &out,
	})
	return out, err
}

func (c *Client) RemoveCartItem(ctx context.Context, itemID int64) error {
	return c.do(ctx, call{
		method: http.MethodDelete,
		path:   fmt.Sprintf("/stores/cart/item/%d", itemID),
	})
}

func (c *Client) ValidateDiscount(ctx context.Context, code string, total decimal.Decimal) (DiscountValidation, error) {
	var out DiscountValidation
	err := c.do(ctx, call{
		method: http.MethodGet,
		path:   "/stores/cart/discount/validate",
		query:  map[string]string{"code": code, "total": total.String()},
		out:    &out,
	})
	return out, err
}

func (c *Client) ActiveDiscounts(ctx context.Context) ([]Discount, error) {
	var out []Discount
	err := c.do(ctx, call{method: http.MethodGet, path: "/discounts/active", out: &out})
	return out, err
}

// Checkout はカートを注文に変換する。discountCode が空なら割引なし。
func (c *Client) Checkout(ctx context.Context, discountCode string) (Order, error) {
	var q map[string]string
	if discountCode != "" {
		q = map[string]string{"discountCode": discountCode}
	}

	var out Order
	err := c.do(ctx, call{
		method: http.MethodPost,
		path:   "/stores/checkout",
		query:  q,
		out:    &out,
	})
	return out, err
}

func (c *Client) GetOrder(ctx context.Context, orderID int64) (Order, error) {
	var out Order
	err := c.do(ctx, call{
		method: http.MethodGet,
		path:   fmt.Sprintf("/stores/order/%d", orderID),
		out:    &out,
	})
	return out, err
}

func (c *Client) ListOrders(ctx context.Context) ([]Order, error) {
	var out []Order
	err := c.do(ctx, call{method: http.MethodGet, path: "/stores/orders", out: &out})
	return out, err
}

// PayOrder の body は payment.Request（json.Marshaler）を想定。
func (c *Client) PayOrder(ctx context.Context, orderID int64, body json.Marshaler) (Payment, error) {
	var out Payment
	err := c.do(ctx, call{
		method: http.MethodPost,
		path:   fmt.Sprintf("/stores/order/%d/pay", orderID),
		body:   body,
		out:    &out,
	})
	return out, err
}

func (c *Client) CancelOrder(ctx context.Context, orderID int64) error {
	return c.do(ctx, call{
		method: http.MethodDelete,
		path:   fmt.Sprintf("/stores/order/%d", orderID),
	})
}

func (c *Client) ListAddresses(ctx context.Context) ([]Address, error) {
	var out []Address
	err := c.do(ctx, call{method: http.MethodGet, path: "/addresses", out: &out})
	return out, err
}

// ListPets は販売中のペット一覧（1ページ目）。
func (c *Client) ListPets(ctx context.Context, q string) ([]Pet, error) {
	query := map[string]string{"status": "AVAILABLE", "limit": "50"}
	if q != "" {
		query["q"] = q
	}
	var out PetPage
	err := c.do(ctx, call{method: http.MethodGet, path: "/pets", query: query, out: &out})
	return out.Items, err
}
