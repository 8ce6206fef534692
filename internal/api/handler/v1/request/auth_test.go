package request

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func validSignup() SignupRequest {
	return SignupRequest{
		Email:    "maker@example.com",
		Password: "hunter2secret1",
		Name:     "Alex Maker",
		Role:     "vendor",
		ShopName: "Birchwood Ceramics",
	}
}

func TestSignupRequestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(r *SignupRequest)
		wantErr bool
	}{
		{name: "valid vendor", mutate: func(r *SignupRequest) {}},
		{name: "valid admin without shop", mutate: func(r *SignupRequest) {
			r.Role = "admin"
			r.ShopName = ""
		}},
		{name: "bad email", mutate: func(r *SignupRequest) { r.Email = "not-an-email" }, wantErr: true},
		{name: "password too short", mutate: func(r *SignupRequest) { r.Password = "ab1" }, wantErr: true},
		{name: "password without digit", mutate: func(r *SignupRequest) { r.Password = "onlyletters" }, wantErr: true},
		{name: "password without letter", mutate: func(r *SignupRequest) { r.Password = "12345678901" }, wantErr: true},
		{name: "unknown role", mutate: func(r *SignupRequest) { r.Role = "customer" }, wantErr: true},
		{name: "vendor without shop name", mutate: func(r *SignupRequest) { r.ShopName = "" }, wantErr: true},
		{name: "name too short", mutate: func(r *SignupRequest) { r.Name = "A" }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validSignup()
			tt.mutate(&req)

			err := req.Validate()

			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestLoginRequestValidate(t *testing.T) {
	valid := LoginRequest{Email: "maker@example.com", Password: "hunter2secret1"}
	assert.NoError(t, valid.Validate())

	missing := LoginRequest{Email: "maker@example.com"}
	assert.Error(t, missing.Validate())

	badEmail := LoginRequest{Email: "nope", Password: "hunter2secret1"}
	assert.Error(t, badEmail.Validate())
}
