package screens

import (
	"fmt"
	"strings"
)

const (
	requiredMessage = "This field is required."
	numberMessage   = "A valid number is required."
	dateMessage     = "Date has wrong format. Use YYYY-MM-DD."
)

func choiceMessage(value string) string {
	return fmt.Sprintf("\"%s\" is not a valid choice.", value)
}

func isBlank(value string) bool {
	return strings.TrimSpace(value) == ""
}

func contains(values []string, value string) bool {
	for _, v := range values {
		if v == value {
			return true
		}
	}
	return false
}
