package core

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// DefaultAdminEmail is the account created by SeedAdmin.
const DefaultAdminEmail = "admin@example.com"

// UserService manages customer accounts and login. Returned users never
// carry the password hash.
type UserService interface {
	Register(ctx context.Context, in CustomerInput) (*User, error)
	AddCustomer(ctx context.Context, in CustomerInput) (*User, error)
	UpdateCustomer(ctx context.Context, id int, in CustomerInput) (*User, error)
	DeleteCustomer(ctx context.Context, id int) error
	GetUser(ctx context.Context, id int) (*User, error)
	ListCustomers(ctx context.Context) ([]User, error)
	Authenticate(ctx context.Context, email, password string) (*User, error)
	// SeedAdmin creates the admin account if no user has that email.
	SeedAdmin(ctx context.Context, email, password string) (*User, error)
}

type userService struct {
	store *Store
}

// NewUserService constructs a UserService over store.
func NewUserService(store *Store) UserService {
	return &userService{store: store}
}

func (d *Document) userIndexByEmail(email string) int {
	for i := range d.Users {
		if strings.EqualFold(d.Users[i].Email, email) {
			return i
		}
	}
	return -1
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

func validateCustomer(in CustomerInput, requirePassword bool) (CustomerInput, error) {
	in.Email = strings.TrimSpace(in.Email)
	in.Company = strings.TrimSpace(in.Company)
	if in.Email == "" || !strings.Contains(in.Email, "@") {
		return in, invalid(ErrInvalidInput, "a valid email is required")
	}
	if requirePassword && in.Password == "" {
		return in, invalid(ErrInvalidInput, "password is required")
	}
	if in.PriceLevel != 0 && !in.PriceLevel.Valid() {
		return in, invalid(ErrInvalidInput, "price level must be 1, 2 or 3")
	}
	if in.FinalPrice.Sign() < 0 {
		return in, invalid(ErrInvalidInput, "final price multiplier cannot be negative")
	}
	return in, nil
}

func applyCustomerInput(u *User, in CustomerInput) {
	u.Email = in.Email
	u.Company = in.Company
	u.Phone = in.Phone
	u.AddressLine1 = in.AddressLine1
	u.AddressLine2 = in.AddressLine2
	u.City = in.City
	u.State = in.State
	u.ZipCode = in.ZipCode
}

func (s *userService) create(ctx context.Context, in CustomerInput, role string, admin bool) (*User, error) {
	in, err := validateCustomer(in, true)
	if err != nil {
		return nil, err
	}
	hash, err := hashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	var out User
	err = s.store.Update(ctx, func(d *Document) error {
		if d.userIndexByEmail(in.Email) >= 0 {
			return invalid(ErrDuplicate, "an account for %s", in.Email)
		}
		u := User{
			ID:           d.nextUserID(),
			PasswordHash: hash,
			Role:         role,
			PriceLevel:   DefaultPriceLevel,
			FinalPrice:   one,
			Invoices:     []Invoice{},
		}
		applyCustomerInput(&u, in)
		if admin {
			if in.PriceLevel.Valid() {
				u.PriceLevel = in.PriceLevel
			}
			u.Taxable = in.Taxable
			if in.FinalPrice.Sign() > 0 {
				u.FinalPrice = in.FinalPrice
			}
		}
		d.Users = append(d.Users, u)
		out = u.Public()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Register creates a self-service customer at price level 3.
func (s *userService) Register(ctx context.Context, in CustomerInput) (*User, error) {
	return s.create(ctx, in, RoleCustomer, false)
}

// AddCustomer creates a customer with admin-chosen pricing and tax settings.
func (s *userService) AddCustomer(ctx context.Context, in CustomerInput) (*User, error) {
	return s.create(ctx, in, RoleCustomer, true)
}

func (s *userService) UpdateCustomer(ctx context.Context, id int, in CustomerInput) (*User, error) {
	in, err := validateCustomer(in, false)
	if err != nil {
		return nil, err
	}
	var hash string
	if in.Password != "" {
		if hash, err = hashPassword(in.Password); err != nil {
			return nil, err
		}
	}
	var out User
	err = s.store.Update(ctx, func(d *Document) error {
		i := d.userIndex(id)
		if i < 0 {
			return notFound("customer", id)
		}
		if j := d.userIndexByEmail(in.Email); j >= 0 && j != i {
			return invalid(ErrDuplicate, "an account for %s", in.Email)
		}
		u := &d.Users[i]
		applyCustomerInput(u, in)
		if in.PriceLevel.Valid() {
			u.PriceLevel = in.PriceLevel
		}
		u.Taxable = in.Taxable
		if in.FinalPrice.Sign() > 0 {
			u.FinalPrice = in.FinalPrice
		}
		if hash != "" {
			u.PasswordHash = hash
		}
		out = u.Public()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteCustomer removes a customer and their invoices. Admin accounts cannot be deleted here.
func (s *userService) DeleteCustomer(ctx context.Context, id int) error {
	return s.store.Update(ctx, func(d *Document) error {
		i := d.userIndex(id)
		if i < 0 {
			return notFound("customer", id)
		}
		if d.Users[i].Role == RoleAdmin {
			return invalid(ErrInvalidInput, "admin accounts cannot be deleted")
		}
		d.Users = append(d.Users[:i], d.Users[i+1:]...)
		return nil
	})
}

func (s *userService) GetUser(ctx context.Context, id int) (*User, error) {
	var out User
	err := s.store.View(func(d *Document) error {
		i := d.userIndex(id)
		if i < 0 {
			return notFound("user", id)
		}
		out = d.Users[i].Public()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// ListCustomers returns customers ordered by company name.
func (s *userService) ListCustomers(ctx context.Context) ([]User, error) {
	var out []User
	_ = s.store.View(func(d *Document) error {
		for _, u := range d.Users {
			if u.Role != RoleAdmin {
				out = append(out, u.Public())
			}
		}
		return nil
	})
	sort.SliceStable(out, func(i, j int) bool {
		return strings.ToLower(out[i].Company) < strings.ToLower(out[j].Company)
	})
	return out, nil
}

func (s *userService) Authenticate(ctx context.Context, email, password string) (*User, error) {
	var u User
	found := false
	_ = s.store.View(func(d *Document) error {
		if i := d.userIndexByEmail(strings.TrimSpace(email)); i >= 0 {
			u = d.Users[i]
			found = true
		}
		return nil
	})
	if !found {
		return nil, ErrInvalidLogin
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidLogin
	}
	out := u.Public()
	return &out, nil
}

func (s *userService) SeedAdmin(ctx context.Context, email, password string) (*User, error) {
	if email == "" {
		email = DefaultAdminEmail
	}
	var existing *User
	_ = s.store.View(func(d *Document) error {
		if i := d.userIndexByEmail(email); i >= 0 {
			u := d.Users[i].Public()
			existing = &u
		}
		return nil
	})
	if existing != nil {
		return existing, nil
	}
	u, err := s.create(ctx, CustomerInput{Email: email, Password: password, Company: "Administrator"}, RoleAdmin, false)
	if err != nil {
		return nil, err
	}
	log.Printf("seeded admin account %s", email)
	return u, nil
}
