package hal

// finishSteps bounds how long an app may take to release its objects once
// its window is gone.
const finishSteps = 16

// lostWindow is a Window that can be told its OS window no longer exists.
// Afterwards it reports close and stops touching the OS.
type lostWindow interface {
	Window
	markLost()
}

// finishApp settles a window loop that ended with runErr, or with the app's
// own stepErr. On either error the app is stepped until done so that it
// releases its GPU objects. App errors are returned as is; loop errors are
// reported as a *WindowingError.
func finishApp(app Stepper, w lostWindow, runErr, stepErr error) error {
	if runErr == nil && stepErr == nil {
		return nil
	}
	w.markLost()
	for i := 0; i < finishSteps; i++ {
		done, err := app.Step()
		if err != nil {
			Logger().Warn("app release failed", "err", err)
			break
		}
		if done {
			break
		}
	}
	if stepErr != nil {
		return stepErr
	}
	return &WindowingError{Op: "run", Err: runErr}
}
