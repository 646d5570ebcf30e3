package domain

// Shop is a registered seller account. Password and Remember are
// credentials and must never reach a response body.
type Shop struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Photo       string `json:"-"`
	Email       string `json:"email"`
	Password    string `json:"-"`
	Remember    string `json:"-"`
}

// PhotoURL returns the public path of the shop photo, or "" when unset.
func (s Shop) PhotoURL() string {
	if s.Photo == "" {
		return ""
	}
	return "/shops/" + s.Photo
}
