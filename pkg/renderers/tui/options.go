package tui

// Option configures the TUI renderer.
type Option func(*Renderer)

// WithPromptDriver overrides the prompt driver used by the renderer.
func WithPromptDriver(driver PromptDriver) Option {
	return func(r *Renderer) {
		if driver != nil {
			r.driver = driver
		}
	}
}

// WithConfirmSubmit controls whether the renderer asks for confirmation
// before submitting. Defaults to true.
func WithConfirmSubmit(confirm bool) Option {
	return func(r *Renderer) {
		r.confirmSubmit = confirm
	}
}
