//go:build !gcloud

package config

// Validate is a no-op for local builds: the emulator URL is optional and
// its absence only disables queue dispatch.
func (c *TaskQueueConfig) Validate() error {
	return nil
}
