package mapper

import (
	"github.com/marketgrid/orders-api/internal/domain"
	"github.com/shopspring/decimal"
)

const timeFormat = "2006-01-02T15:04:05Z"

// ToShopDTO converts Shop to ShopDTO
func ToShopDTO(shop *domain.Shop) domain.ShopDTO {
	return domain.ShopDTO{
		ID:     shop.ID,
		Name:   shop.Name,
		URL:    shop.URL,
		Active: shop.Active,
	}
}

// ToCategoryDTO converts Category to CategoryDTO
func ToCategoryDTO(category *domain.Category) domain.CategoryDTO {
	return domain.CategoryDTO{
		ID:   category.ID,
		Name: category.Name,
	}
}

// ToOfferDTO converts Offer to OfferDTO with its product, shop and
// parameters when loaded
func ToOfferDTO(offer *domain.Offer) domain.OfferDTO {
	dto := domain.OfferDTO{
		ID:       offer.ID,
		Name:     offer.Name,
		Quantity: offer.Quantity,
		Price:    offer.Price,
		PriceRRC: offer.PriceRRC,
	}

	if offer.Product != nil {
		dto.Product = domain.ProductDTO{
			ID:    offer.Product.ID,
			Name:  offer.Product.Name,
			Model: offer.Product.Model,
		}
		if offer.Product.Category != nil {
			dto.Product.Category = offer.Product.Category.Name
		}
	}

	if offer.Shop != nil {
		dto.Shop = ToShopDTO(offer.Shop)
	}

	for _, param := range offer.Parameters {
		p := domain.OfferParameterDTO{Value: param.Value}
		if param.Parameter != nil {
			p.Parameter = param.Parameter.Name
		}
		dto.Parameters = append(dto.Parameters, p)
	}

	return dto
}

// ToOrderItemDTO converts OrderItem to OrderItemDTO. The line total is
// computed from the current offer price.
func ToOrderItemDTO(item *domain.OrderItem) domain.OrderItemDTO {
	dto := domain.OrderItemDTO{
		ID:       item.ID,
		Quantity: item.Quantity,
	}
	if item.Offer != nil {
		dto.Offer = ToOfferDTO(item.Offer)
		dto.TotalPrice = item.Offer.Price.Mul(decimal.NewFromInt(int64(item.Quantity)))
	}
	return dto
}

// ToOrderDTO converts Order to OrderDTO with items and the recomputed total
func ToOrderDTO(order *domain.Order) domain.OrderDTO {
	dto := domain.OrderDTO{
		ID:        order.ID,
		Status:    order.Status,
		CreatedAt: order.CreatedAt.Format(timeFormat),
		UpdatedAt: order.UpdatedAt.Format(timeFormat),
		Items:     make([]domain.OrderItemDTO, len(order.Items)),
		TotalSum:  order.Total(),
	}

	for i, item := range order.Items {
		dto.Items[i] = ToOrderItemDTO(&item)
	}

	if order.Contact != nil {
		contactDTO := ToContactDTO(order.Contact)
		dto.Contact = &contactDTO
	}

	return dto
}

// ToContactDTO converts Contact to ContactDTO with the computed display value
func ToContactDTO(contact *domain.Contact) domain.ContactDTO {
	return domain.ContactDTO{
		ID:         contact.ID,
		Type:       contact.Type,
		Phone:      contact.Phone,
		City:       contact.City,
		Street:     contact.Street,
		House:      contact.House,
		Apartment:  contact.Apartment,
		PostalCode: contact.PostalCode,
		Value:      contact.DisplayValue(),
	}
}

// ToUserDTO converts User to UserDTO with contact display values when loaded
func ToUserDTO(user *domain.User) domain.UserDTO {
	dto := domain.UserDTO{
		ID:             user.ID,
		Username:       user.Username,
		Email:          user.Email,
		FirstName:      user.FirstName,
		LastName:       user.LastName,
		Type:           user.Type,
		Company:        user.Company,
		Position:       user.Position,
		EmailConfirmed: user.EmailConfirmed,
	}
	for _, contact := range user.Contacts {
		dto.Contacts = append(dto.Contacts, ToContactDTO(&contact))
	}
	return dto
}
