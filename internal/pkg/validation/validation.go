// Package validation struct-tag-validates a parsed CSV or Kafka row
// before it is turned into a domain.Command, using the same validator
// library gin's request binding is backed by.
package validation

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var instance = validator.New(validator.WithRequiredStructEnabled())

// Row is the flat shape a CSV/Kafka record is parsed into before being
// converted to a domain.Command. Kind is validated against the five known
// command kinds; Amount is required only for deposit/withdrawal, enforced
// by the "required_if" tag rather than at the domain layer, so a malformed
// row is rejected before it ever reaches the engine. ClientID/TxID carry no
// "required" tag: 0 is a representable (if unusual) client or tx id, and
// validator's "required" treats a numeric zero value as absent.
type Row struct {
	Kind     string  `validate:"required,oneof=deposit withdrawal dispute resolve chargeback"`
	ClientID uint16  `validate:"gte=0"`
	TxID     uint32  `validate:"gte=0"`
	Amount   *string `validate:"required_if=Kind deposit,required_if=Kind withdrawal,omitempty"`
}

// ValidateRow runs struct-tag validation on row, returning a single
// human-readable error describing every failing field (joined, not just
// the first) so a caller logging a malformed CSV line sees the whole
// picture at once.
func ValidateRow(row Row) error {
	if err := instance.Struct(row); err != nil {
		validationErrs, ok := err.(validator.ValidationErrors)
		if !ok {
			return err
		}
		messages := make([]string, 0, len(validationErrs))
		for _, fe := range validationErrs {
			messages = append(messages, describeFieldError(fe))
		}
		return fmt.Errorf("invalid row: %s", strings.Join(messages, "; "))
	}
	return nil
}

func describeFieldError(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s]", fe.Field(), fe.Param())
	case "required_if":
		return fmt.Sprintf("%s is required for this transaction type", fe.Field())
	default:
		return fmt.Sprintf("%s failed %s validation", fe.Field(), fe.Tag())
	}
}
