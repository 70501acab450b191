package apperror

import (
	"errors"
	"net/http"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

func formatFieldName(s string) string {
	// 1. Pisahkan kata: underscore dan camelCase (requesterId -> requester Id)
	s = strings.ReplaceAll(s, "_", " ")
	var b strings.Builder
	for i, r := range s {
		if i > 0 && unicode.IsUpper(r) {
			b.WriteRune(' ')
		}
		b.WriteRune(r)
	}
	s = b.String()

	// 2. Ubah jadi Title Case (requester id -> Requester Id)
	caser := cases.Title(language.English)
	return caser.String(s)
}

func MapValidationError(err error) error {
	var errs validator.ValidationErrors
	if errors.As(err, &errs) && len(errs) > 0 {
		// Ambil error pertama
		e := errs[0]

		// e.Field() sekarang sudah otomatis 'requesterId'
		// karena kita sudah set RegisterTagNameFunc di apperror.Init()
		fieldName := e.Field()
		humanReadableField := formatFieldName(fieldName)

		switch e.Tag() {
		case "required":
			// Memanggil fungsi RequiredField yang mengembalikan *AppError
			// Pesannya akan menjadi: "Requester Id is required"
			return RequiredField(humanReadableField)
		default:
			// Pesannya akan menjadi: "Action is invalid"
			return InvalidField(humanReadableField)
		}
	}

	return Wrap(
		err,
		CodeValidation,
		"Invalid input",
		http.StatusBadRequest,
	)
}
