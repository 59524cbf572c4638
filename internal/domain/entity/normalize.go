package entity

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// NormalizeText recorta espacios y lleva el texto a forma NFC, de modo que
// "Bodega Café" compuesto y descompuesto se consideren el mismo nombre.
func NormalizeText(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}
