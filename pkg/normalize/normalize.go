// Package normalize normaliza texto para búsquedas insensibles a acentos y
// mayúsculas (nombres de clientes y productos en español).
package normalize

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var foldTransformer = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Fold devuelve el texto en minúsculas y sin marcas diacríticas
// ("Muñoz Pérez" -> "munoz perez"). Si la transformación falla devuelve la
// entrada en minúsculas.
func Fold(s string) string {
	out, _, err := transform.String(foldTransformer, s)
	if err != nil {
		return strings.ToLower(s)
	}
	return strings.ToLower(out)
}
