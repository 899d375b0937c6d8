package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Base model with common fields
type BaseModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// BeforeCreate assigns an ID when the database does not (sqlite has no
// gen_random_uuid).
func (b *BaseModel) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

// UserType separates buyers from shop suppliers
type UserType string

const (
	UserTypeBuyer    UserType = "buyer"
	UserTypeSupplier UserType = "supplier"
)

// IsValid checks if the UserType is a valid enum value
func (t UserType) IsValid() bool {
	return t == UserTypeBuyer || t == UserTypeSupplier
}

// User represents an account in the marketplace
type User struct {
	BaseModel
	Username       string    `gorm:"type:varchar(30);not null;uniqueIndex"`
	Email          string    `gorm:"type:varchar(255);not null;uniqueIndex"`
	PasswordHash   string    `gorm:"type:varchar(100);not null;column:password_hash"`
	FirstName      string    `gorm:"type:varchar(100);column:first_name"`
	LastName       string    `gorm:"type:varchar(100);column:last_name"`
	Type           UserType  `gorm:"type:varchar(10);not null;default:'buyer'"`
	Company        string    `gorm:"type:varchar(100)"`
	Position       string    `gorm:"type:varchar(100)"`
	EmailConfirmed bool      `gorm:"not null;default:false;column:email_confirmed"`
	Contacts       []Contact `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Orders         []Order   `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

// FullName returns the user's display name
func (u *User) FullName() string {
	name := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if name == "" {
		return u.Username
	}
	return name
}

// Shop represents a supplier storefront
type Shop struct {
	BaseModel
	Name       string     `gorm:"type:varchar(50);not null;uniqueIndex"`
	URL        string     `gorm:"type:varchar(500)"`
	UserID     *uuid.UUID `gorm:"type:uuid;uniqueIndex;column:user_id"`
	User       *User      `gorm:"foreignKey:UserID"`
	Active     bool       `gorm:"not null;default:true"`
	Categories []Category `gorm:"many2many:shop_categories"`
}

// Category groups products across shops
type Category struct {
	BaseModel
	Name  string `gorm:"type:varchar(40);not null;uniqueIndex"`
	Shops []Shop `gorm:"many2many:shop_categories"`
}

// Product is the catalog-level article; per-shop availability lives on Offer
type Product struct {
	BaseModel
	Name       string    `gorm:"type:varchar(80);not null;index"`
	Model      string    `gorm:"type:varchar(100)"`
	CategoryID uuid.UUID `gorm:"type:uuid;not null;index;column:category_id"`
	Category   *Category `gorm:"foreignKey:CategoryID"`
}

// Offer is a product as listed by a specific shop: price, recommended
// retail price and the sellable stock ceiling. One offer per (product, shop).
type Offer struct {
	BaseModel
	ProductID  uuid.UUID        `gorm:"type:uuid;not null;uniqueIndex:idx_offer_product_shop;column:product_id"`
	Product    *Product         `gorm:"foreignKey:ProductID"`
	ShopID     uuid.UUID        `gorm:"type:uuid;not null;uniqueIndex:idx_offer_product_shop;column:shop_id"`
	Shop       *Shop            `gorm:"foreignKey:ShopID"`
	Name       string           `gorm:"type:varchar(80);not null"`
	Quantity   int              `gorm:"not null;default:0"`
	Price      decimal.Decimal  `gorm:"type:decimal(10,2);not null"`
	PriceRRC   decimal.Decimal  `gorm:"type:decimal(10,2);not null;column:price_rrc"`
	Active     bool             `gorm:"not null;default:true"`
	Parameters []OfferParameter `gorm:"foreignKey:OfferID;constraint:OnDelete:CASCADE"`
}

// TableName keeps the table name the catalog importer writes to
func (Offer) TableName() string {
	return "product_infos"
}

// Parameter is a named product attribute (weight, color, ...)
type Parameter struct {
	BaseModel
	Name string `gorm:"type:varchar(40);not null;uniqueIndex"`
}

// OfferParameter holds an attribute value for one offer
type OfferParameter struct {
	ID          uuid.UUID  `gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	OfferID     uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_offer_parameter;column:product_info_id"`
	ParameterID uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_offer_parameter;column:parameter_id"`
	Parameter   *Parameter `gorm:"foreignKey:ParameterID"`
	Value       string     `gorm:"type:varchar(100);not null"`
}

// TableName keeps the table name the catalog importer writes to
func (OfferParameter) TableName() string {
	return "product_parameters"
}

// BeforeCreate assigns an ID when the database does not
func (p *OfferParameter) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// ContactType distinguishes delivery addresses from phone contacts
type ContactType string

const (
	ContactTypePhone   ContactType = "phone"
	ContactTypeAddress ContactType = "address"
)

// Contact is a user-owned phone number or delivery address
type Contact struct {
	BaseModel
	UserID     uuid.UUID   `gorm:"type:uuid;not null;index;column:user_id"`
	User       *User       `gorm:"foreignKey:UserID"`
	Type       ContactType `gorm:"type:varchar(10);not null"`
	Phone      string      `gorm:"type:varchar(20)"`
	City       string      `gorm:"type:varchar(50)"`
	Street     string      `gorm:"type:varchar(100)"`
	House      string      `gorm:"type:varchar(15)"`
	Apartment  string      `gorm:"type:varchar(15)"`
	PostalCode string      `gorm:"type:varchar(20);column:postal_code"`
}

// DisplayValue renders the contact as a single line. Address contacts
// join city, street, house and apartment with the markers the storefront
// uses, omitting absent parts; phone contacts are the number verbatim.
// Recomputed on every read, never stored.
func (c *Contact) DisplayValue() string {
	if c.Type == ContactTypePhone {
		return c.Phone
	}
	parts := make([]string, 0, 4)
	if c.City != "" {
		parts = append(parts, c.City)
	}
	if c.Street != "" {
		parts = append(parts, c.Street)
	}
	if c.House != "" {
		parts = append(parts, "д. "+c.House)
	}
	if c.Apartment != "" {
		parts = append(parts, "кв. "+c.Apartment)
	}
	return strings.Join(parts, ", ")
}

// OrderStatus is the order lifecycle. Only basket → confirmed is driven
// by this API; the fulfillment states are set by back-office tooling.
type OrderStatus string

const (
	OrderStatusBasket    OrderStatus = "basket"
	OrderStatusNew       OrderStatus = "new"
	OrderStatusConfirmed OrderStatus = "confirmed"
	OrderStatusAssembled OrderStatus = "assembled"
	OrderStatusSent      OrderStatus = "sent"
	OrderStatusDelivered OrderStatus = "delivered"
	OrderStatusCanceled  OrderStatus = "canceled"
)

// IsValid checks if the OrderStatus is a valid enum value
func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusBasket, OrderStatusNew, OrderStatusConfirmed,
		OrderStatusAssembled, OrderStatusSent, OrderStatusDelivered, OrderStatusCanceled:
		return true
	}
	return false
}

// Order is both the live basket (status 'basket') and the placed order.
// A partial unique index on (user_id) WHERE status = 'basket' guarantees
// at most one live basket per user.
type Order struct {
	BaseModel
	UserID    uuid.UUID   `gorm:"type:uuid;not null;index;column:user_id"`
	User      *User       `gorm:"foreignKey:UserID"`
	Status    OrderStatus `gorm:"type:varchar(15);not null;index"`
	ContactID *uuid.UUID  `gorm:"type:uuid;column:contact_id"`
	Contact   *Contact    `gorm:"foreignKey:ContactID;constraint:OnDelete:SET NULL"`
	Items     []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

// Total sums quantity × current offer price over the loaded items.
// Prices move between reads, so the total is recomputed from the offers
// and never cached on the order.
func (o *Order) Total() decimal.Decimal {
	total := decimal.Zero
	for _, item := range o.Items {
		if item.Offer == nil {
			continue
		}
		total = total.Add(item.Offer.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return total
}

// OrderItem is one offer line inside an order. One line per (order, offer);
// adding the same offer twice merges quantities instead of creating a
// duplicate line.
type OrderItem struct {
	BaseModel
	OrderID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_order_offer;column:order_id"`
	Order    *Order    `gorm:"foreignKey:OrderID"`
	OfferID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_order_offer;column:product_info_id"`
	Offer    *Offer    `gorm:"foreignKey:OfferID"`
	Quantity int       `gorm:"not null"`
}
