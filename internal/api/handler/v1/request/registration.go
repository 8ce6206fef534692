package request

import (
	validation "github.com/go-ozzo/ozzo-validation"
)

type RejectRegistrationRequest struct {
	Reason string `json:"reason"`
}

func (req *RejectRegistrationRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Reason, validation.Length(0, 500)),
	)
}

type SubmitFeedbackRequest struct {
	Rating   int    `json:"rating" binding:"required"`
	Feedback string `json:"feedback"`
}

func (req *SubmitFeedbackRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Rating, validation.Required, validation.Min(1), validation.Max(5)),
		validation.Field(&req.Feedback, validation.Length(0, 2000)),
	)
}
