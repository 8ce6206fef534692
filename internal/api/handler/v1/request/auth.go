package request

import (
	"errors"

	"github.com/dlclark/regexp2"
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
)

// At least 8 characters with one letter and one digit.
const passwordPattern = `^(?=.*[A-Za-z])(?=.*\d).{8,72}$`

type SignupRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
	Name     string `json:"name" binding:"required"`
	Role     string `json:"role" binding:"required"`
	ShopName string `json:"shop_name"`
	Bio      string `json:"bio"`
}

func (req *SignupRequest) Validate() error {
	err := validation.ValidateStruct(
		req,
		validation.Field(&req.Email, validation.Required, is.Email),
		validation.Field(&req.Password, validation.Required, validation.By(validatePassword)),
		validation.Field(&req.Name, validation.Required, validation.Length(2, 50)),
		validation.Field(&req.Role, validation.Required, validation.In("vendor", "admin")),
		validation.Field(&req.ShopName, validation.Length(0, 100)),
		validation.Field(&req.Bio, validation.Length(0, 500)),
	)
	if err != nil {
		return err
	}

	if req.Role == "vendor" && req.ShopName == "" {
		return errors.New("shop_name is required for vendors")
	}

	return nil
}

func validatePassword(value interface{}) error {
	password, ok := value.(string)
	if !ok {
		return errors.New("invalid password")
	}

	re := regexp2.MustCompile(passwordPattern, regexp2.None)
	matched, err := re.MatchString(password)
	if err != nil || !matched {
		return errors.New("password must be at least 8 characters and contain a letter and a digit")
	}

	return nil
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (req *LoginRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Email, validation.Required, is.Email),
		validation.Field(&req.Password, validation.Required),
	)
}
