package pdf

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// PathGuard confines document paths to a configured root directory
type PathGuard struct {
	root string
}

// NewPathGuard creates a guard for root. The directory need not exist yet;
// until it does, every path is accepted.
func NewPathGuard(root string) (*PathGuard, error) {
	if root == "" {
		return nil, fmt.Errorf("root directory cannot be empty")
	}
	return &PathGuard{root: root}, nil
}

// Root returns the configured root directory
func (g *PathGuard) Root() string {
	return g.root
}

// Resolve turns path into a clean absolute path inside the root. Relative
// paths are taken relative to the root.
func (g *PathGuard) Resolve(path string) (string, error) {
	path = strings.ReplaceAll(path, "\x00", "")
	if path == "" {
		return "", fmt.Errorf("path cannot be empty")
	}

	if !filepath.IsAbs(path) {
		path = filepath.Join(g.root, path)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("failed to resolve path: %w", err)
	}

	within, err := g.contains(abs)
	if err != nil {
		return "", err
	}
	if !within {
		return "", fmt.Errorf("path is outside configured directory: %s", path)
	}

	return abs, nil
}

// contains reports whether abs lies in the root, following symlinks on both
// sides
func (g *PathGuard) contains(abs string) (bool, error) {
	if _, err := os.Stat(g.root); os.IsNotExist(err) {
		return true, nil
	}

	root, err := filepath.Abs(g.root)
	if err != nil {
		return false, fmt.Errorf("failed to resolve configured directory: %w", err)
	}
	root = filepath.Clean(root)

	roots := []string{root}
	if real, err := filepath.EvalSymlinks(root); err == nil && real != root {
		roots = append(roots, real)
	}

	candidates := []string{filepath.Clean(abs)}
	if real, err := filepath.EvalSymlinks(abs); err == nil {
		candidates = append(candidates, real)
	}

	for _, candidate := range candidates {
		if !underAny(candidate, roots) {
			return false, nil
		}
	}
	return true, nil
}

func underAny(path string, roots []string) bool {
	for _, root := range roots {
		if path == root || strings.HasPrefix(path, root+string(filepath.Separator)) {
			return true
		}
	}
	return false
}
