package service_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/marketgrid/orders-api/internal/domain"
	"github.com/marketgrid/orders-api/internal/repository"
	"github.com/marketgrid/orders-api/internal/service"
	"github.com/marketgrid/orders-api/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newContactService(db *gorm.DB) *service.ContactService {
	return service.NewContactService(repository.NewContactRepository(db), zap.NewNop())
}

func TestContactService_Create(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := newContactService(db)
	user := testutil.CreateTestUser(t, db, "alice")
	ctx := context.Background()

	tests := []struct {
		name    string
		req     *domain.CreateContactRequest
		wantErr error
	}{
		{
			name: "phone contact",
			req: &domain.CreateContactRequest{
				Type:  domain.ContactTypePhone,
				Phone: "+7 900 123-45-67",
			},
		},
		{
			name: "address contact",
			req: &domain.CreateContactRequest{
				Type:      domain.ContactTypeAddress,
				City:      "Moscow",
				Street:    "Tverskaya",
				House:     "12",
				Apartment: "34",
			},
		},
		{
			name: "phone contact without number",
			req: &domain.CreateContactRequest{
				Type: domain.ContactTypePhone,
			},
			wantErr: service.ErrInvalidInput,
		},
		{
			name: "address contact without street",
			req: &domain.CreateContactRequest{
				Type: domain.ContactTypeAddress,
				City: "Moscow",
			},
			wantErr: service.ErrInvalidInput,
		},
		{
			name: "address contact without house",
			req: &domain.CreateContactRequest{
				Type:   domain.ContactTypeAddress,
				City:   "Moscow",
				Street: "Tverskaya",
			},
			wantErr: service.ErrInvalidInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dto, err := svc.Create(ctx, user.ID, tt.req)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.req.Type, dto.Type)
			assert.NotEmpty(t, dto.Value)
		})
	}
}

func TestContactService_DisplayValueInDTO(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := newContactService(db)
	user := testutil.CreateTestUser(t, db, "alice")
	ctx := context.Background()

	dto, err := svc.Create(ctx, user.ID, &domain.CreateContactRequest{
		Type:      domain.ContactTypeAddress,
		City:      "Moscow",
		Street:    "Tverskaya",
		House:     "12",
		Apartment: "34",
	})
	require.NoError(t, err)
	assert.Equal(t, "Moscow, Tverskaya, д. 12, кв. 34", dto.Value)
}

func TestContactService_ListScopedToOwner(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := newContactService(db)
	alice := testutil.CreateTestUser(t, db, "alice")
	bob := testutil.CreateTestUser(t, db, "bob")
	testutil.CreateTestContact(t, db, alice)
	testutil.CreateTestContact(t, db, alice)
	testutil.CreateTestContact(t, db, bob)
	ctx := context.Background()

	contacts, err := svc.List(ctx, alice.ID)
	require.NoError(t, err)
	assert.Len(t, contacts, 2)
}

func TestContactService_Update(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := newContactService(db)
	user := testutil.CreateTestUser(t, db, "alice")
	contact := testutil.CreateTestContact(t, db, user)
	ctx := context.Background()

	// Type can flip from address to phone; unrelated fields are replaced
	dto, err := svc.Update(ctx, user.ID, contact.ID, &domain.UpdateContactRequest{
		Type:  domain.ContactTypePhone,
		Phone: "+7 900 000-00-00",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.ContactTypePhone, dto.Type)
	assert.Equal(t, "+7 900 000-00-00", dto.Value)
}

func TestContactService_OwnershipScoping(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := newContactService(db)
	alice := testutil.CreateTestUser(t, db, "alice")
	mallory := testutil.CreateTestUser(t, db, "mallory")
	contact := testutil.CreateTestContact(t, db, alice)
	ctx := context.Background()

	_, err := svc.GetByID(ctx, mallory.ID, contact.ID)
	assert.ErrorIs(t, err, service.ErrContactNotFound)

	_, err = svc.Update(ctx, mallory.ID, contact.ID, &domain.UpdateContactRequest{
		Type:  domain.ContactTypePhone,
		Phone: "+7 900 000-00-00",
	})
	assert.ErrorIs(t, err, service.ErrContactNotFound)

	err = svc.Delete(ctx, mallory.ID, contact.ID)
	assert.ErrorIs(t, err, service.ErrContactNotFound)

	// Still readable by the owner
	_, err = svc.GetByID(ctx, alice.ID, contact.ID)
	assert.NoError(t, err)
}

func TestContactService_Delete(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := newContactService(db)
	user := testutil.CreateTestUser(t, db, "alice")
	contact := testutil.CreateTestContact(t, db, user)
	ctx := context.Background()

	require.NoError(t, svc.Delete(ctx, user.ID, contact.ID))

	_, err := svc.GetByID(ctx, user.ID, contact.ID)
	assert.ErrorIs(t, err, service.ErrContactNotFound)

	err = svc.Delete(ctx, user.ID, uuid.New())
	assert.ErrorIs(t, err, service.ErrContactNotFound)
}
