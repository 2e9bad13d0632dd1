package handlers

import (
	"fmt"

	"github.com/SscSPs/bundle_wallet_app/internal/core/domain"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// MsisdnTag validates a Ghanaian mobile number in any common notation.
const MsisdnTag = "gh_msisdn"

func validateMsisdn(fl validator.FieldLevel) bool {
	return domain.IsValidPhoneNumber(fl.Field().String())
}

// RegisterValidators adds the custom binding tags to gin's validator.
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return fmt.Errorf("unexpected validator engine %T", binding.Validator.Engine())
	}
	if err := v.RegisterValidation(MsisdnTag, validateMsisdn); err != nil {
		return fmt.Errorf("failed to register %s validator: %w", MsisdnTag, err)
	}
	return nil
}
