package core_test

import (
	"context"
	"errors"
	"testing"

	"order-portal/internal/core"
)

func TestUserService_RegisterAndAuthenticate(t *testing.T) {
	ctx := context.Background()
	users := core.NewUserService(core.NewMemoryStore(seedDocument()))

	u, err := users.Register(ctx, core.CustomerInput{
		Email:      " new@shop.test ",
		Password:   "s3cret",
		Company:    "New Shop",
		PriceLevel: 1, // ignored on self-registration
		Taxable:    true,
	})
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if u.ID != 4 || u.Role != core.RoleCustomer {
		t.Errorf("Expected customer 4, got id %d role %s", u.ID, u.Role)
	}
	if u.PriceLevel != core.DefaultPriceLevel || u.Taxable {
		t.Errorf("Expected level 3 and not taxable, got level %d taxable %v", u.PriceLevel, u.Taxable)
	}
	if u.PasswordHash != "" {
		t.Errorf("Expected the returned user to carry no password hash")
	}

	got, err := users.Authenticate(ctx, "NEW@shop.test", "s3cret")
	if err != nil {
		t.Fatalf("Authenticate failed: %v", err)
	}
	if got.ID != u.ID {
		t.Errorf("Expected user %d, got %d", u.ID, got.ID)
	}
	if _, err := users.Authenticate(ctx, "new@shop.test", "wrong"); !errors.Is(err, core.ErrInvalidLogin) {
		t.Errorf("Expected ErrInvalidLogin for a wrong password, got %v", err)
	}
	if _, err := users.Authenticate(ctx, "nobody@shop.test", "s3cret"); !errors.Is(err, core.ErrInvalidLogin) {
		t.Errorf("Expected ErrInvalidLogin for an unknown email, got %v", err)
	}

	if _, err := users.Register(ctx, core.CustomerInput{Email: "new@shop.test", Password: "x"}); !errors.Is(err, core.ErrDuplicate) {
		t.Errorf("Expected ErrDuplicate, got %v", err)
	}
}

func TestUserService_RegisterRejected(t *testing.T) {
	ctx := context.Background()
	users := core.NewUserService(core.NewMemoryStore(nil))

	tests := []struct {
		name string
		in   core.CustomerInput
	}{
		{"no email", core.CustomerInput{Password: "x"}},
		{"malformed email", core.CustomerInput{Email: "shop.test", Password: "x"}},
		{"no password", core.CustomerInput{Email: "a@shop.test"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := users.Register(ctx, tt.in); !core.IsValidation(err) {
				t.Errorf("Expected a validation error, got %v", err)
			}
		})
	}
}

func TestUserService_AdminManagesCustomers(t *testing.T) {
	ctx := context.Background()
	users := core.NewUserService(core.NewMemoryStore(seedDocument()))

	u, err := users.AddCustomer(ctx, core.CustomerInput{
		Email: "vip@shop.test", Password: "pw", Company: "Big Buyer",
		PriceLevel: 1, Taxable: true, FinalPrice: dec("0.9"),
	})
	if err != nil {
		t.Fatalf("AddCustomer failed: %v", err)
	}
	if u.PriceLevel != 1 || !u.Taxable {
		t.Errorf("Expected admin-chosen level 1 and taxable, got %+v", u)
	}
	assertDecimal(t, "finalPrice", u.FinalPrice, "0.9")

	updated, err := users.UpdateCustomer(ctx, u.ID, core.CustomerInput{
		Email: "vip@shop.test", Company: "Big Buyer LLC", PriceLevel: 2,
	})
	if err != nil {
		t.Fatalf("UpdateCustomer failed: %v", err)
	}
	if updated.Company != "Big Buyer LLC" || updated.PriceLevel != 2 || updated.Taxable {
		t.Errorf("Unexpected update result %+v", updated)
	}
	// An empty password on edit keeps the old one.
	if _, err := users.Authenticate(ctx, "vip@shop.test", "pw"); err != nil {
		t.Errorf("Expected the old password to still work, got %v", err)
	}

	if _, err := users.UpdateCustomer(ctx, u.ID, core.CustomerInput{Email: "buyer@acme.test"}); !errors.Is(err, core.ErrDuplicate) {
		t.Errorf("Expected ErrDuplicate when taking another customer's email, got %v", err)
	}

	list, _ := users.ListCustomers(ctx)
	if len(list) != 3 || list[0].Company != "Acme Widgets" || list[1].Company != "Big Buyer LLC" {
		t.Errorf("Expected customers ordered by company without the admin, got %+v", list)
	}

	if err := users.DeleteCustomer(ctx, 1); !core.IsValidation(err) {
		t.Errorf("Expected the admin account to be protected, got %v", err)
	}
	if err := users.DeleteCustomer(ctx, u.ID); err != nil {
		t.Fatalf("DeleteCustomer failed: %v", err)
	}
	if _, err := users.GetUser(ctx, u.ID); !core.IsNotFound(err) {
		t.Errorf("Expected not found after delete, got %v", err)
	}
}

func TestUserService_SeedAdmin(t *testing.T) {
	ctx := context.Background()
	users := core.NewUserService(core.NewMemoryStore(nil))

	admin, err := users.SeedAdmin(ctx, "", "changeme")
	if err != nil {
		t.Fatalf("SeedAdmin failed: %v", err)
	}
	if admin.Email != core.DefaultAdminEmail || admin.Role != core.RoleAdmin {
		t.Errorf("Expected the default admin, got %+v", admin)
	}

	again, err := users.SeedAdmin(ctx, "", "another")
	if err != nil {
		t.Fatalf("second SeedAdmin failed: %v", err)
	}
	if again.ID != admin.ID {
		t.Errorf("Expected seeding to be idempotent, got a new user %d", again.ID)
	}
	if _, err := users.Authenticate(ctx, core.DefaultAdminEmail, "changeme"); err != nil {
		t.Errorf("Expected the first password to be kept, got %v", err)
	}
}
