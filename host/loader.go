package host

import (
	"fmt"
	"os"
)

// ReadImage reads the module image at path into memory. The file is not held
// open after it returns.
func ReadImage(path string) ([]byte, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if !info.Mode().IsRegular() {
		return nil, fmt.Errorf("%s is not a regular file", path)
	}
	return os.ReadFile(path)
}
