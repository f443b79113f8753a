// internal/workers/profile/validate-registration/models.go
package validateregistration

type Input struct {
	Username        string `json:"username"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

// Output never echoes the password fields back into the process.
type Output struct {
	Valid    bool   `json:"valid"`
	Username string `json:"username"`
	Email    string `json:"email"`
}
