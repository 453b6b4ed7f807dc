package noteservice

import (
	"errors"
	"fmt"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/noter/internal/apperr"
)

const maxTitleLen = 200

var errTitleChars = errors.New("must not contain path separators or start with a dot")

func titleChars(value any) error {
	s, _ := value.(string)
	if strings.ContainsAny(s, `/\`+"\x00") || strings.HasPrefix(s, ".") {
		return errTitleChars
	}
	return nil
}

// ValidateTitle reports whether title can name a note file. Failures wrap
// apperr.ErrInvalidTitle.
func ValidateTitle(title string) error {
	err := validation.Validate(title,
		validation.Required,
		validation.RuneLength(1, maxTitleLen),
		validation.By(titleChars),
	)
	if err != nil {
		return fmt.Errorf("%w: %v", apperr.ErrInvalidTitle, err)
	}
	return nil
}
