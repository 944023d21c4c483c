// Package httpstore talks to the storefront REST API. Requests are scoped by
// the session token; the owner id passed by the engine is only logged.
package httpstore

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/nikolayk812/techhub-cart/internal/domain"
)

const (
	cartPath   = "/api/cart"
	ordersPath = "/api/orders"

	idempotencyHeader = "Idempotency-Key"

	maxErrorBody = 4 << 10
)

type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates a storefront API client. A zero timeout leaves requests unbounded.
func NewClient(baseURL, token string, timeout time.Duration, logger *zap.Logger) (*Client, error) {
	baseURL = strings.TrimSuffix(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, fmt.Errorf("baseURL is empty")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Client{
		baseURL:    baseURL,
		token:      token,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}, nil
}

func (c *Client) ListItems(ctx context.Context, ownerID int64) ([]domain.CartItem, error) {
	var dtos []cartItemDTO
	if err := c.do(ctx, http.MethodGet, cartPath, nil, nil, &dtos); err != nil {
		return nil, err
	}

	items, err := mapCartItemsToDomain(dtos)
	if err != nil {
		return nil, fmt.Errorf("mapCartItemsToDomain: %w", err)
	}

	c.logger.Debug("cart listed", zap.Int64("owner_id", ownerID), zap.Int("items", len(items)))

	return items, nil
}

func (c *Client) AddItem(ctx context.Context, ownerID int64, productID int64, quantity int) (domain.CartItem, error) {
	req := addItemRequest{ProductID: productID, Quantity: quantity}

	var dto cartItemDTO
	if err := c.do(ctx, http.MethodPost, cartPath, nil, req, &dto); err != nil {
		return domain.CartItem{}, err
	}

	return c.confirmedItem(http.MethodPost+" "+cartPath, dto), nil
}

func (c *Client) UpdateItem(ctx context.Context, ownerID int64, lineID int64, quantity int) (domain.CartItem, error) {
	req := updateItemRequest{Quantity: quantity}

	var dto cartItemDTO
	if err := c.do(ctx, http.MethodPut, linePath(lineID), nil, req, &dto); err != nil {
		return domain.CartItem{}, err
	}

	return c.confirmedItem(http.MethodPut+" "+linePath(lineID), dto), nil
}

// confirmedItem maps a mutation answer. The write is already committed, so a
// partial body yields the line without its product snapshot instead of an error.
func (c *Client) confirmedItem(op string, dto cartItemDTO) domain.CartItem {
	item, err := mapCartItemToDomain(dto)
	if err != nil {
		c.logger.Debug("storefront returned partial cart item", zap.String("op", op), zap.Error(err))
		return domain.CartItem{ID: dto.ID, ProductID: dto.ProductID, Quantity: dto.Quantity}
	}
	return item
}

func (c *Client) DeleteItem(ctx context.Context, ownerID int64, lineID int64) error {
	return c.do(ctx, http.MethodDelete, linePath(lineID), nil, nil, nil)
}

func (c *Client) ClearCart(ctx context.Context, ownerID int64) error {
	return c.do(ctx, http.MethodDelete, cartPath, nil, nil, nil)
}

func (c *Client) SubmitOrder(ctx context.Context, order domain.OrderRequest) (int64, error) {
	header := http.Header{}
	if order.IdempotencyKey != "" {
		header.Set(idempotencyHeader, order.IdempotencyKey)
	}

	var resp orderResponse
	if err := c.do(ctx, http.MethodPost, ordersPath, header, mapOrderToDTO(order), &resp); err != nil {
		return 0, err
	}
	if resp.ID == 0 {
		return 0, domain.NewTransportError("POST "+ordersPath, errors.New("response has no order id"))
	}

	return resp.ID, nil
}

func linePath(lineID int64) string {
	return cartPath + "/" + strconv.FormatInt(lineID, 10)
}

func (c *Client) do(ctx context.Context, method, path string, header http.Header, in, out any) error {
	op := method + " " + path

	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("json.Marshal: %w", err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("http.NewRequestWithContext: %w", err)
	}
	for k, v := range header {
		req.Header[k] = v
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("storefront request failed", zap.String("op", op), zap.Error(err))
		return domain.NewTransportError(op, err)
	}
	defer resp.Body.Close()

	if err := c.checkStatus(op, resp); err != nil {
		return err
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}

	// cart writes are confirmed by the status alone; the engine refetches afterwards
	lenient := (method == http.MethodPost && path == cartPath) || method == http.MethodPut

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if lenient && (errors.Is(err, io.EOF) || isSyntaxError(err)) {
			c.logger.Debug("storefront response body ignored", zap.String("op", op), zap.Error(err))
			return nil
		}
		return domain.NewTransportError(op, fmt.Errorf("decode response: %w", err))
	}

	return nil
}

func (c *Client) checkStatus(op string, resp *http.Response) error {
	status := resp.StatusCode
	if status >= 200 && status < 300 {
		return nil
	}

	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	message := errorMessage(raw, status)

	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return domain.ErrAuthRequired
	case status >= 400 && status < 500:
		return &domain.RemoteRejection{Status: status, Kind: rejectionKind(status), Message: message}
	default:
		c.logger.Warn("storefront returned server error", zap.String("op", op), zap.Int("status", status))
		return domain.NewTransportError(op, fmt.Errorf("status %d: %s", status, message))
	}
}

func isSyntaxError(err error) bool {
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	return errors.As(err, &syntaxErr) || errors.As(err, &typeErr) || errors.Is(err, io.ErrUnexpectedEOF)
}

func rejectionKind(status int) domain.RejectionKind {
	switch status {
	case http.StatusNotFound:
		return domain.RejectNotFound
	case http.StatusConflict:
		return domain.RejectConflict
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return domain.RejectInvalid
	default:
		return domain.RejectOther
	}
}

// errorMessage prefers the API's {"message": ...} body, then the raw text.
func errorMessage(raw []byte, status int) string {
	var body struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(raw, &body); err == nil && body.Message != "" {
		return body.Message
	}
	if text := strings.TrimSpace(string(raw)); text != "" {
		return text
	}
	return http.StatusText(status)
}
