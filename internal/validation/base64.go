package validation

import (
	"encoding/base64"

	validation "github.com/jellydator/validation"
)

// KMSCiphertext validates the PASSWORD_CIPHERTEXT format produced by the
// encrypt-password command: standard base64 that decodes to at least one byte.
// Empty strings pass so that Required or When decide whether the value is needed.
var KMSCiphertext = validation.NewStringRuleWithError(
	func(s string) bool {
		decoded, err := base64.StdEncoding.DecodeString(s)
		return err == nil && len(decoded) > 0
	},
	validation.NewError("validation_kms_ciphertext", "must be a base64 encoded KMS ciphertext"),
)
