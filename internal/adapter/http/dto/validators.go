package dto

import (
	"html"
	"reflect"
	"strings"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// maxInputBytes bounds a decoded ciphertext or proof.
const maxInputBytes = 4096

func init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("hexbytes", validateHexBytes)
	}
}

// validateHexBytes accepts non-empty 0x-prefixed hex of at most maxInputBytes.
func validateHexBytes(fl validator.FieldLevel) bool {
	b, err := hexutil.Decode(strings.TrimSpace(fl.Field().String()))
	if err != nil {
		return false
	}
	return len(b) > 0 && len(b) <= maxInputBytes
}

// DecodeHex decodes a field already checked by the hexbytes validator.
func DecodeHex(s string) ([]byte, error) {
	return hexutil.Decode(strings.TrimSpace(s))
}

// SanitizeStruct trims whitespace and HTML-escapes every exported string
// field (including *string) of a struct pointer.
func SanitizeStruct(v interface{}) {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Ptr || rv.Elem().Kind() != reflect.Struct {
		return
	}
	sanitizeFields(rv.Elem())
}

func sanitizeFields(rv reflect.Value) {
	for i := 0; i < rv.NumField(); i++ {
		f := rv.Field(i)
		if !f.CanSet() {
			continue
		}
		switch f.Kind() {
		case reflect.String:
			f.SetString(sanitize(f.String()))
		case reflect.Ptr:
			if f.IsNil() {
				continue
			}
			elem := f.Elem()
			if elem.Kind() == reflect.String {
				elem.SetString(sanitize(elem.String()))
			}
		}
	}
}

func sanitize(s string) string {
	return html.EscapeString(strings.TrimSpace(s))
}
