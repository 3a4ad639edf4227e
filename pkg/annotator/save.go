// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package annotator

import (
	"fmt"
	"os"
)

// SaveFile creates or truncates path and writes data to it. The file is
// not locked; concurrent runs in one directory overwrite each other.
func SaveFile(path string, data []byte) error {
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("%w: %w", ErrSave, err)
	}
	return nil
}
