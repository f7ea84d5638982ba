package irq

import (
	"errors"

	"github.com/asiekierka/agbabi/translate"
)

var f = translate.From

var (
	ErrHandlerNil = errors.New(f("handler nil"))
	ErrHandlerSet = errors.New(f("handler already set"))
	ErrUnmasked   = errors.New(f("interrupts already unmasked"))
)
