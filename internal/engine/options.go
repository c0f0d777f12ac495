package engine

// Option configures an Engine at construction time.
type Option func(*Engine)

// WithSize sets the initial viewport dimensions in pixels.
func WithSize(width, height int) Option {
	return func(e *Engine) {
		if width < 0 || height < 0 {
			panic("engine: negative viewport size")
		}
		e.width, e.height = width, height
	}
}

// WithContent loads initial text into the document. The text loads in
// the unmodified state with the cursor at offset zero.
func WithContent(text string) Option {
	return func(e *Engine) {
		e.load(text, false)
	}
}
