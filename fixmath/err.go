package fixmath

import (
	"errors"

	"github.com/asiekierka/agbabi/translate"
)

var f = translate.From

var (
	ErrDivideByZero = errors.New(f("divide by zero"))
)
