// Package dto provides data transfer objects for HTTP request and response handling.
package dto

import (
	"fmt"

	validation "github.com/jellydator/validation"

	secretsDomain "github.com/secretdrop/secretdrop/internal/secrets/domain"
	customValidation "github.com/secretdrop/secretdrop/internal/validation"
)

// MaxPassphraseLength is the longest accepted passphrase, in characters.
const MaxPassphraseLength = 255

// CreateSecretRequest contains the parameters for storing a new one-time secret.
type CreateSecretRequest struct {
	Secret     string `json:"secret"`
	Passphrase string `json:"passphrase,omitempty"`
	TTLSeconds *int   `json:"ttl_seconds,omitempty"`
}

// Validate checks if the create secret request is valid. A non-positive maxPayloadBytes
// leaves the payload size unchecked.
func (r *CreateSecretRequest) Validate(maxPayloadBytes int) error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Secret,
			validation.Required,
			customValidation.MaxBytes(maxPayloadBytes),
		),
		validation.Field(&r.Passphrase,
			validation.RuneLength(0, MaxPassphraseLength),
		),
		validation.Field(&r.TTLSeconds,
			validation.When(r.TTLSeconds != nil, validation.By(ttlInRange)),
		),
	)
}

// DeleteSecretRequest carries the optional passphrase of a delete call. It is bound from
// the JSON body or, when the body is empty, from the passphrase query parameter.
type DeleteSecretRequest struct {
	Passphrase string `json:"passphrase" form:"passphrase"`
}

// Validate checks if the delete secret request is valid.
func (r *DeleteSecretRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Passphrase,
			validation.RuneLength(0, MaxPassphraseLength),
		),
	)
}

func ttlInRange(value interface{}) error {
	ttl, ok := value.(*int)
	if !ok || ttl == nil || *ttl <= 0 {
		return validation.NewError("validation_ttl_positive", "must be a positive number of seconds")
	}
	if *ttl > secretsDomain.MaxTTLSeconds {
		return validation.NewError(
			"validation_ttl_max",
			fmt.Sprintf("must be at most %d seconds", secretsDomain.MaxTTLSeconds),
		)
	}
	return nil
}
