// Package validation registers the request rules shared by controllers on gin's
// validator/v10 engine.
package validation

import (
	"fmt"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/norseabelito-rgb/lzhub-demo-sub001/entity"
)

var phoneRO = regexp.MustCompile(`^07\d{8}$`)

// HHMM validates a 24h "HH:MM" clock time.
func HHMM(fl validator.FieldLevel) bool {
	_, err := time.Parse("15:04", fl.Field().String())
	return err == nil
}

// DateYMD validates a "YYYY-MM-DD" calendar date.
func DateYMD(fl validator.FieldLevel) bool {
	_, err := time.Parse(time.DateOnly, fl.Field().String())
	return err == nil
}

// Platform validates a social platform name.
func Platform(fl validator.FieldLevel) bool {
	return entity.ValidPlatform(fl.Field().String())
}

// PhoneRO validates a Romanian mobile number, ignoring spaces, dots and dashes.
func PhoneRO(fl validator.FieldLevel) bool {
	return phoneRO.MatchString(NormalizePhone(fl.Field().String()))
}

var phoneStrip = strings.NewReplacer(" ", "", "-", "", ".", "", "(", "", ")", "")

// NormalizePhone strips punctuation and rewrites the +40 and 0040 prefixes to the
// national 0 form, so one number has one stored spelling.
func NormalizePhone(s string) string {
	p := phoneStrip.Replace(strings.TrimSpace(s))
	for _, prefix := range []string{"+40", "0040"} {
		if rest, ok := strings.CutPrefix(p, prefix); ok {
			return "0" + rest
		}
	}
	return p
}

var (
	registerOnce sync.Once
	registerErr  error
)

// Register installs the custom rules on the gin binding validator.
func Register() error {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			registerErr = fmt.Errorf("unexpected binding validator engine %T", binding.Validator.Engine())
			return
		}
		registerErr = RegisterOn(v)
	})
	return registerErr
}

func RegisterOn(v *validator.Validate) error {
	rules := map[string]validator.Func{
		"hhmm":     HHMM,
		"date_ymd": DateYMD,
		"platform": Platform,
		"phone_ro": PhoneRO,
	}
	for tag, fn := range rules {
		if err := v.RegisterValidation(tag, fn); err != nil {
			return fmt.Errorf("register %s: %w", tag, err)
		}
	}
	return nil
}
