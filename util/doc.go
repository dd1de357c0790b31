// Package util contains small helpers shared across ssekit packages.
package util
