// Package sanitizer normalizes user input before it is validated or stored.
// Transformations are plain func(string) string values that compose with
// Apply and Compose.
package sanitizer
