package httpstore

import (
	"fmt"
	"time"

	"github.com/nikolayk812/techhub-cart/internal/domain"
)

type productDTO struct {
	ID            int64    `json:"id"`
	Name          string   `json:"name"`
	Slug          string   `json:"slug"`
	Price         string   `json:"price"`
	DiscountPrice *string  `json:"discountPrice"`
	ImageURLs     []string `json:"imageUrls"`
	Stock         int      `json:"stock"`
}

type cartItemDTO struct {
	ID        int64      `json:"id"`
	UserID    int64      `json:"userId"`
	ProductID int64      `json:"productId"`
	Quantity  int        `json:"quantity"`
	Product   productDTO `json:"product"`
	CreatedAt *time.Time `json:"createdAt,omitempty"`
}

type addItemRequest struct {
	ProductID int64 `json:"productId"`
	Quantity  int   `json:"quantity"`
}

type updateItemRequest struct {
	Quantity int `json:"quantity"`
}

type orderItemDTO struct {
	ProductID int64  `json:"productId"`
	Quantity  int    `json:"quantity"`
	Price     string `json:"price"`
}

type orderDTO struct {
	Items           []orderItemDTO `json:"items"`
	Subtotal        string         `json:"subtotal"`
	ShippingFee     string         `json:"shippingFee"`
	Tax             string         `json:"tax"`
	Discount        string         `json:"discount"`
	PromoCode       string         `json:"promoCode,omitempty"`
	Total           string         `json:"total"`
	Currency        string         `json:"currency"`
	Status          string         `json:"status"`
	ShippingAddress string         `json:"shippingAddress"`
	ShippingCity    string         `json:"shippingCity"`
	ShippingState   string         `json:"shippingState"`
	ShippingZipCode string         `json:"shippingZipCode"`
	ShippingCountry string         `json:"shippingCountry"`
	PaymentMethod   string         `json:"paymentMethod"`
}

type orderResponse struct {
	ID int64 `json:"id"`
}

func mapCartItemToDomain(dto cartItemDTO) (domain.CartItem, error) {
	discount := ""
	if dto.Product.DiscountPrice != nil {
		discount = *dto.Product.DiscountPrice
	}

	product, err := domain.NewProduct(dto.Product.ID, dto.Product.Name, dto.Product.Slug,
		dto.Product.Price, discount, dto.Product.Stock, dto.Product.ImageURLs)
	if err != nil {
		return domain.CartItem{}, fmt.Errorf("product[%d]: %w", dto.Product.ID, err)
	}

	item := domain.CartItem{
		ID:        dto.ID,
		ProductID: dto.ProductID,
		Quantity:  dto.Quantity,
		Product:   product,
	}
	if dto.CreatedAt != nil {
		item.CreatedAt = *dto.CreatedAt
	}

	return item, nil
}

func mapCartItemsToDomain(dtos []cartItemDTO) ([]domain.CartItem, error) {
	var items []domain.CartItem

	for _, dto := range dtos {
		item, err := mapCartItemToDomain(dto)
		if err != nil {
			return nil, fmt.Errorf("mapCartItemToDomain: %w", err)
		}

		items = append(items, item)
	}

	return items, nil
}

func mapOrderToDTO(order domain.OrderRequest) orderDTO {
	items := make([]orderItemDTO, 0, len(order.Lines))
	currency := ""
	for _, line := range order.Lines {
		items = append(items, orderItemDTO{
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
			Price:     line.UnitPrice.Amount.StringFixed(2),
		})
		currency = line.UnitPrice.Currency.String()
	}

	t := order.Totals
	return orderDTO{
		Items:           items,
		Subtotal:        t.Subtotal.StringFixed(2),
		ShippingFee:     t.ShippingFee.StringFixed(2),
		Tax:             t.Tax.StringFixed(2),
		Discount:        t.Discount.StringFixed(2),
		PromoCode:       t.PromoCode,
		Total:           t.Total.StringFixed(2),
		Currency:        currency,
		Status:          order.Status,
		ShippingAddress: order.Shipping.Address,
		ShippingCity:    order.Shipping.City,
		ShippingState:   order.Shipping.State,
		ShippingZipCode: order.Shipping.ZipCode,
		ShippingCountry: order.Shipping.Country,
		PaymentMethod:   order.PaymentMethod,
	}
}
