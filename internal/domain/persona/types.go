// Package persona contains the minimal persona shape the client keeps cached.
package persona

// Persona is the caller's currently selected persona with display fields.
type Persona struct {
	ID        string `json:"id"`
	Name      string `json:"name,omitempty"`
	AvatarURL string `json:"avatar_url,omitempty"`
}
