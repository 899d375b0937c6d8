// Package testutil provides database helpers and fixtures for tests.
// Tests run against an in-memory sqlite database migrated with the same
// models as the real schema.
package testutil

import (
	"testing"
	"time"

	"github.com/marketgrid/orders-api/internal/database"
	"github.com/marketgrid/orders-api/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// SetupTestDB creates a fresh in-memory database for one test
func SetupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	require.NoError(t, err, "failed to open in-memory database")

	require.NoError(t, database.AutoMigrate(db), "failed to migrate test schema")

	return db
}

// CreateTestUser inserts a buyer account
func CreateTestUser(t *testing.T, db *gorm.DB, username string) *domain.User {
	user := &domain.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "$2a$10$N9qo8uLOickgx2ZMRZoMye.IjdQXvbNJZxVtVv0Mh9vhfXkJGxWZa",
		FirstName:    "Test",
		LastName:     "User",
		Type:         domain.UserTypeBuyer,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

// CreateTestShop inserts an active shop
func CreateTestShop(t *testing.T, db *gorm.DB, name string) *domain.Shop {
	shop := &domain.Shop{
		Name:   name,
		URL:    "https://" + name + ".example.com",
		Active: true,
	}
	require.NoError(t, db.Create(shop).Error)
	return shop
}

// CreateTestCategory inserts a category
func CreateTestCategory(t *testing.T, db *gorm.DB, name string) *domain.Category {
	category := &domain.Category{Name: name}
	require.NoError(t, db.Create(category).Error)
	return category
}

// CreateTestProduct inserts a product in the given category
func CreateTestProduct(t *testing.T, db *gorm.DB, name string, category *domain.Category) *domain.Product {
	product := &domain.Product{
		Name:       name,
		Model:      name + "-model",
		CategoryID: category.ID,
	}
	require.NoError(t, db.Create(product).Error)
	return product
}

// CreateTestOffer inserts an active offer with the given stock and price
func CreateTestOffer(t *testing.T, db *gorm.DB, product *domain.Product, shop *domain.Shop, quantity int, price string) *domain.Offer {
	offer := &domain.Offer{
		ProductID: product.ID,
		ShopID:    shop.ID,
		Name:      product.Name,
		Quantity:  quantity,
		Price:     decimal.RequireFromString(price),
		PriceRRC:  decimal.RequireFromString(price),
		Active:    true,
	}
	require.NoError(t, db.Create(offer).Error)
	return offer
}

// CreateTestContact inserts an address contact for the user
func CreateTestContact(t *testing.T, db *gorm.DB, user *domain.User) *domain.Contact {
	contact := &domain.Contact{
		UserID: user.ID,
		Type:   domain.ContactTypeAddress,
		City:   "Moscow",
		Street: "Tverskaya",
		House:  "1",
	}
	require.NoError(t, db.Create(contact).Error)
	return contact
}

// SellableOffer is a shorthand fixture: shop, category, product and
// offer wired together.
func SellableOffer(t *testing.T, db *gorm.DB, name string, quantity int, price string) *domain.Offer {
	shop := CreateTestShop(t, db, name+"-shop")
	category := CreateTestCategory(t, db, name+"-category")
	product := CreateTestProduct(t, db, name, category)
	return CreateTestOffer(t, db, product, shop, quantity, price)
}
