package domain

import "time"

const (
	RoleVendor = "vendor"
	RoleAdmin  = "admin"
)

type User struct {
	ID        uint      `json:"id"`
	Email     string    `json:"email"`
	Password  string    `json:"-"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

func (u *User) IsVendor() bool {
	return u.Role == RoleVendor
}

// Vendor is a user with a shop profile; only vendors may register for
// events.
type Vendor struct {
	User
	ShopName string `json:"shop_name"`
	Bio      string `json:"bio"`
}

type Admin struct {
	User
}
