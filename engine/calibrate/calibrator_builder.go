package calibrate

// CalibratorBuilderOption is a functional option applied to a calibrator
// during construction via NewCalibrator.
type CalibratorBuilderOption func(*calibrator)

// WithDiagnostics slows the machine to one sample step per tick so each
// distance attempt and measurement sample can be observed.
//
// Parameters:
//   - diag: true to single-step the machine
//
// Returns:
//   - CalibratorBuilderOption: a function that applies the diagnostics option
func WithDiagnostics(diag bool) CalibratorBuilderOption {
	return func(c *calibrator) {
		if diag {
			c.stepsPerTick = diagStepsPerTick
		}
	}
}
