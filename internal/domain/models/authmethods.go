// internal/domain/models/authmethods.go
package models

// Auth method values stored on users.
const (
	AuthMethodPassword = "password"
	AuthMethodGoogle   = "google"
)

// AuthMethod represents an authentication method option for the UI.
type AuthMethod struct {
	Value string // The value stored in the database
	Label string // The display label in the UI
}

// AllAuthMethods contains all supported auth methods with their display labels.
var AllAuthMethods = []AuthMethod{
	{Value: AuthMethodPassword, Label: "Password"},
	{Value: AuthMethodGoogle, Label: "Google"},
}

// IsValidAuthMethod checks if a value is a valid auth method.
func IsValidAuthMethod(value string) bool {
	for _, m := range AllAuthMethods {
		if m.Value == value {
			return true
		}
	}
	return false
}
