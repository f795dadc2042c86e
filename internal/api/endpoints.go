package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

// Products lists products, optionally filtered by gender and category.
// Empty filters are omitted.
func (c *Client) Products(ctx context.Context, gender, category string) ([]Product, error) {
	endpoint := "/products/"
	params := url.Values{}
	if gender != "" {
		params.Set("gender", gender)
	}
	if category != "" {
		params.Set("category", category)
	}
	if len(params) > 0 {
		endpoint += "?" + params.Encode()
	}

	var out []Product
	if err := c.getJSON(ctx, endpoint, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []Product{}
	}
	return out, nil
}

func (c *Client) Product(ctx context.Context, id int) (*Product, error) {
	var p Product
	if err := c.getJSON(ctx, fmt.Sprintf("/products/%d", id), &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *Client) Categories(ctx context.Context) ([]string, error) {
	var out struct {
		Categories []string `json:"categories"`
	}
	if err := c.getJSON(ctx, "/products/categories/list", &out); err != nil {
		return nil, err
	}
	return out.Categories, nil
}

func (c *Client) Banners(ctx context.Context) ([]Banner, error) {
	var out []Banner
	if err := c.getJSON(ctx, "/banners", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// PersonalizedImage reports the personalized image status of a product for
// the current shopper.
func (c *Client) PersonalizedImage(ctx context.Context, productID int) (*PersonalizedStatus, error) {
	var st PersonalizedStatus
	if err := c.getJSON(ctx, fmt.Sprintf("/products/%d/personalized-image", productID), &st); err != nil {
		return nil, err
	}
	return &st, nil
}

// GeneratePersonalizedImage asks the backend to start generating the
// personalized image of a product.
func (c *Client) GeneratePersonalizedImage(ctx context.Context, productID int) (*GenerationResult, error) {
	var res GenerationResult
	endpoint := fmt.Sprintf("/products/%d/generate-personalized-image", productID)
	if err := c.do(ctx, http.MethodPost, endpoint, nil, "application/json", &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// CheckPassword asks the backend to grade a password. The password is sent
// form-encoded.
func (c *Client) CheckPassword(ctx context.Context, password string) (*PasswordStrength, error) {
	form := url.Values{"password": {password}}
	var out PasswordStrength
	err := c.do(ctx, http.MethodPost, "/auth/check-password",
		strings.NewReader(form.Encode()), "application/x-www-form-urlencoded", &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Login(ctx context.Context, email, password string) (*LoginResponse, error) {
	body, err := json.Marshal(map[string]string{"email": email, "password": password})
	if err != nil {
		return nil, err
	}
	var out LoginResponse
	if err := c.do(ctx, http.MethodPost, "/auth/login", bytes.NewReader(body), "application/json", &out); err != nil {
		return nil, err
	}
	return &out, nil
}
