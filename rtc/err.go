package rtc

import (
	"errors"

	"github.com/asiekierka/agbabi/translate"
)

var f = translate.From

var (
	ErrNoClock  = errors.New(f("no clock present"))
	ErrTestMode = errors.New(f("clock in test mode"))
)
