// Package textutil sanitizes song titles for safe use as artifact file
// names.
package textutil
