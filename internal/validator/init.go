package validator

import (
	"ctchen222/tictactoe/internal/bot"
	"ctchen222/tictactoe/internal/game"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

func init() {
	// Initialize validation
	validate = validator.New(validator.WithRequiredStructEnabled())
	if err := RegisterCustom(validate); err != nil {
		panic(err)
	}
}

func GetValidator() *validator.Validate {
	return validate
}

// RegisterCustom adds the game tags to v: "mark" accepts X or O, "difficulty" accepts
// a known computer level.
func RegisterCustom(v *validator.Validate) error {
	if err := v.RegisterValidation("mark", func(fl validator.FieldLevel) bool {
		return game.Mark(fl.Field().String()).Valid()
	}); err != nil {
		return fmt.Errorf("failed to register mark validation: %w", err)
	}
	if err := v.RegisterValidation("difficulty", func(fl validator.FieldLevel) bool {
		_, err := bot.ParseDifficulty(fl.Field().String())
		return err == nil
	}); err != nil {
		return fmt.Errorf("failed to register difficulty validation: %w", err)
	}
	return nil
}

// Describe flattens validation errors into one readable line.
func Describe(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		if fe.Param() != "" {
			parts = append(parts, fmt.Sprintf("%s must satisfy %s=%s", fe.Field(), fe.Tag(), fe.Param()))
			continue
		}
		parts = append(parts, fmt.Sprintf("%s must satisfy %s", fe.Field(), fe.Tag()))
	}
	return strings.Join(parts, "; ")
}
