package fileformat

import (
	"path/filepath"
	"strings"

	"github.com/twinj/uuid"
)

// UniqueFormat turns an uploaded filename into a collision-free key while
// keeping the original extension.
func UniqueFormat(fileName string) string {
	ext := strings.ToLower(filepath.Ext(fileName))
	return uuid.NewV4().String() + ext
}
