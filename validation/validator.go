package validation

import (
	"chat-store/domain"
	"chat-store/errors"
	"fmt"
	"regexp"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
)

const MaxContentLength = 2000

// colourPattern accepts CSS colour names, variables, rgb(a), hex values and gradients.
var colourPattern = regexp.MustCompile(`(?i)^(?:[a-z ]+|var\(--[a-z\d-]+\)|rgba?\([\d, ]+\)|#[a-f0-9]+|(repeating-)?(linear|conic|radial)-gradient\(([a-z ]+|var\(--[a-z\d-]+\)|rgba?\([\d, ]+\)|#[a-f0-9]+|\d+deg)([ ]+(\d{1,3}%|0))?(,[ ]*([a-z ]+|var\(--[a-z\d-]+\)|rgba?\([\d, ]+\)|#[a-f0-9]+)([ ]+(\d{1,3}%|0))?)+\))$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("colour", func(fl validator.FieldLevel) bool {
		return colourPattern.MatchString(fl.Field().String())
	})
	return v
}

func ValidateMasquerade(masquerade domain.Masquerade) error {
	return check(masquerade)
}

func ValidateSendableEmbed(embed domain.SendableEmbed) error {
	return check(embed)
}

func ValidateRole(role domain.Role) error {
	return check(role)
}

func ValidateMember(member domain.Member) error {
	return check(member)
}

// ValidateContent bounds message content, counted in characters.
func ValidateContent(content string) error {
	if length := utf8.RuneCountInString(content); length == 0 || length > MaxContentLength {
		return fmt.Errorf("%w: content length %d out of 1..%d", errors.ErrInvalidInput, length, MaxContentLength)
	}
	return nil
}

func check(value any) error {
	if err := validate.Struct(value); err != nil {
		return fmt.Errorf("%w: %w", errors.ErrInvalidInput, err)
	}
	return nil
}
