//go:build !linux && !darwin

package bench

// Renice is a no-op on platforms without setpriority.
func Renice(niceValue int) error {
	return nil
}
