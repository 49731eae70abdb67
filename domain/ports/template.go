package ports

// TemplateEngine renders a wire definition template with host configuration values.
type TemplateEngine interface {
	Render(raw []byte, config map[string]interface{}) ([]byte, error)
}
