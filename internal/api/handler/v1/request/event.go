package request

import (
	validation "github.com/go-ozzo/ozzo-validation"
)

type CreateEventRequest struct {
	Name                 string `json:"name" binding:"required"`
	Location             string `json:"location" binding:"required"`
	Description          string `json:"description"`
	Status               string `json:"status"`
	StartDate            string `json:"start_date" binding:"required" format:"RFC3339"`
	EndDate              string `json:"end_date" binding:"required" format:"RFC3339"`
	RegistrationDeadline string `json:"registration_deadline" format:"RFC3339"`
	MaxCapacity          *int   `json:"max_capacity"`
}

func (req *CreateEventRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Name, validation.Required, validation.Length(2, 100)),
		validation.Field(&req.Location, validation.Required, validation.Length(2, 100)),
		validation.Field(&req.Description, validation.Length(0, 1000)),
		validation.Field(&req.Status, validation.In("draft", "published")),
		validation.Field(&req.StartDate, validation.Required, validation.Date(timeLayout)),
		validation.Field(&req.EndDate, validation.Required, validation.Date(timeLayout)),
		validation.Field(&req.RegistrationDeadline, validation.Date(timeLayout)),
		validation.Field(&req.MaxCapacity, validation.Min(1)),
	)
}

const timeLayout = "2006-01-02T15:04:05Z07:00"
