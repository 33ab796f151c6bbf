package window

// WindowBuilderOption is a functional option for configuring an engineWindow.
// Use the With* functions to create options.
type WindowBuilderOption func(w *engineWindow)

// WithTitle sets the window title displayed in the title bar. Empty titles
// keep the default.
//
// Parameters:
//   - title: the window title text
//
// Returns:
//   - WindowBuilderOption: option function to apply
func WithTitle(title string) WindowBuilderOption {
	return func(w *engineWindow) {
		if title != "" {
			w.title = title
		}
	}
}

// WithWidth sets the initial client area width. Non-positive values keep the
// default; the final size is clamped into the resize limits.
//
// Parameters:
//   - width: initial width in pixels
//
// Returns:
//   - WindowBuilderOption: option function to apply
func WithWidth(width int) WindowBuilderOption {
	return func(w *engineWindow) {
		if width > 0 {
			w.width = width
		}
	}
}

// WithHeight sets the initial client area height. Non-positive values keep
// the default; the final size is clamped into the resize limits.
//
// Parameters:
//   - height: initial height in pixels
//
// Returns:
//   - WindowBuilderOption: option function to apply
func WithHeight(height int) WindowBuilderOption {
	return func(w *engineWindow) {
		if height > 0 {
			w.height = height
		}
	}
}

// WithSizeLimits sets the range the window can be resized within. The limits
// are enforced by the platform window itself. Invalid ranges (non-positive
// minimums, min above max) keep the defaults.
//
// Parameters:
//   - minWidth: minimum client area width in pixels
//   - minHeight: minimum client area height in pixels
//   - maxWidth: maximum client area width in pixels
//   - maxHeight: maximum client area height in pixels
//
// Returns:
//   - WindowBuilderOption: option function to apply
func WithSizeLimits(minWidth, minHeight, maxWidth, maxHeight int) WindowBuilderOption {
	return func(w *engineWindow) {
		if minWidth <= 0 || minHeight <= 0 || minWidth > maxWidth || minHeight > maxHeight {
			return
		}
		w.minWidth = minWidth
		w.minHeight = minHeight
		w.maxWidth = maxWidth
		w.maxHeight = maxHeight
	}
}
