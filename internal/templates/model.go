package templates

// Template is a named message template with three independently rendered bodies.
// Active is stored and reported but never consulted during resolution.
type Template struct {
	ID       int    `json:"TemplateId" yaml:"id"`
	Name     string `json:"Name" yaml:"name"`
	Alias    string `json:"Alias" yaml:"alias"`
	Subject  string `json:"Subject" yaml:"subject"`
	HTMLBody string `json:"HtmlBody" yaml:"html_body"`
	TextBody string `json:"TextBody" yaml:"text_body"`
	Active   bool   `json:"Active" yaml:"active"`
}

// Record is the listing view of a template.
type Record struct {
	ID     int    `json:"TemplateId"`
	Name   string `json:"Name"`
	Alias  string `json:"Alias"`
	Active bool   `json:"Active"`
}

// Record returns the listing view of t.
func (t Template) Record() Record {
	return Record{ID: t.ID, Name: t.Name, Alias: t.Alias, Active: t.Active}
}

// CreateTemplateRequest represents the request body for creating a template
type CreateTemplateRequest struct {
	Name     string `json:"Name"`
	Alias    string `json:"Alias"`
	Subject  string `json:"Subject"`
	HTMLBody string `json:"HtmlBody"`
	TextBody string `json:"TextBody"`
}

// UpdateTemplateRequest replaces a template's name, subject and bodies.
// Alias and Active are replaced only when supplied.
type UpdateTemplateRequest struct {
	Name     string  `json:"Name"`
	Subject  string  `json:"Subject"`
	HTMLBody string  `json:"HtmlBody"`
	TextBody string  `json:"TextBody"`
	Alias    *string `json:"Alias,omitempty"`
	Active   *bool   `json:"Active,omitempty"`
}

// ListTemplatesResponse is the response for listing templates
type ListTemplatesResponse struct {
	TotalCount int      `json:"TotalCount"`
	Templates  []Record `json:"Templates"`
}
