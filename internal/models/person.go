package models

// Person represents one deduplicated individual across all sources in a cycle
type Person struct {
	DisplayName  string   `json:"display_name"`
	PrimaryEmail string   `json:"primary_email"`
	AliasEmails  []string `json:"alias_emails,omitempty"`
}

// HasEmail reports whether the person carries any email address
func (p *Person) HasEmail() bool {
	return p.PrimaryEmail != ""
}
