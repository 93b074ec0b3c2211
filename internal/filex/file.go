// Package filex contains small filesystem helpers.
package filex

import (
	"fmt"
	"os"
)

// EnsureDir creates dir (and parents) if it does not exist yet and returns it.
func EnsureDir(dir string) (string, error) {
	if err := os.MkdirAll(dir, 0o770); err != nil {
		return "", fmt.Errorf("mkdir %s: %w", dir, err)
	}
	return dir, nil
}

// CopyFile copies src to dst verbatim. Used for seeding collections from
// bundled default datasets on first access.
func CopyFile(src, dst string) error {
	data, err := os.ReadFile(src)
	if err != nil {
		return fmt.Errorf("read %s: %w", src, err)
	}
	if err := os.WriteFile(dst, data, 0o660); err != nil {
		return fmt.Errorf("write %s: %w", dst, err)
	}
	return nil
}
