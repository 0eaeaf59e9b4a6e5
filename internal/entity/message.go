package entity

import "strings"

const NamePlaceholder = "{{name}}"

// RenderMessage substitutes the customer name into every {{name}} token.
// No escaping is applied and no other token is recognised.
func RenderMessage(template, name string) string {
	return strings.ReplaceAll(template, NamePlaceholder, name)
}

type MessageVariant struct {
	ID      string `json:"id"`
	Style   string `json:"style"`
	Message string `json:"message"`
}
