// Package translate formats user visible messages for a locale.
//
// The locale is taken from the environment the first time a message is
// formatted, unless Use has selected one.
package translate

import (
	"errors"
	"log"
	"sync"
	"sync/atomic"

	"github.com/jeandeaual/go-locale"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const (
	DEFAULT_LOCALE = "en-US" // Locale when the environment names none.
)

var (
	printer atomic.Pointer[message.Printer]
	tag     atomic.Value // language.Tag of printer.
	detect  sync.Once
)

// Detect returns the locales of the environment, most preferred first.
func Detect() (locales []string) {
	locales, err := locale.GetLocales()
	if err != nil {
		log.Printf("rmttx: locale: %v", err)
	}

	if len(locales) == 0 {
		locales = []string{DEFAULT_LOCALE}
	}

	return
}

// Use selects the best supported match for locales, and returns it.
func Use(locales ...string) language.Tag {
	if len(locales) == 0 {
		locales = []string{DEFAULT_LOCALE}
	}

	matched := message.MatchLanguage(locales...)
	tag.Store(matched)
	printer.Store(message.NewPrinter(matched))
	return matched
}

// Language is the locale messages are formatted for.
func Language() language.Tag {
	current()
	return tag.Load().(language.Tag)
}

func current() *message.Printer {
	detect.Do(func() {
		if printer.Load() == nil {
			Use(Detect()...)
		}
	})
	return printer.Load()
}

// From an en-US Sprintf() format, translate to string.
func From(key message.Reference, args ...any) string {
	return current().Sprintf(key, args...)
}

// Error creates an error from an en-US Sprintf() format.
func Error(key message.Reference, args ...any) error {
	return errors.New(From(key, args...))
}
