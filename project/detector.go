package project

import (
	"bufio"
	"context"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/viant/afs"
)

// Project describes a detected project root.
type Project struct {
	Type         string // "zig", "git", or "unknown"
	Name         string
	RootPath     string
	RelativePath string
}

// Detector locates the root of a Zig project from any file or
// directory inside it, the way the teacher repository's
// inspector/repository.Detector locates Go/Java/JS/Rust project
// roots, narrowed to the markers relevant to this domain.
type Detector struct {
	markers []string
}

// NewDetector returns a Detector configured with Zig-specific project
// markers alongside the generic git marker.
func NewDetector() *Detector {
	return &Detector{
		markers: []string{
			"build.zig",
			"build.zig.zon",
			".git",
		},
	}
}

// DetectProject walks up from path looking for a marker file,
// returning the deepest directory that contains one.
func (d *Detector) DetectProject(path string) (*Project, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	startDir := absPath
	info, err := os.Stat(absPath)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		startDir = filepath.Dir(absPath)
	}

	rootPath, projectType := d.findProjectRoot(startDir)

	project := &Project{Type: "unknown", RootPath: absPath}
	if rootPath != "" {
		project.RootPath = rootPath
		project.Type = projectType
		project.Name = d.extractProjectName(rootPath, projectType)
	}

	relPath, err := filepath.Rel(project.RootPath, absPath)
	if err != nil {
		relPath = filepath.Base(absPath)
	}
	project.RelativePath = filepath.ToSlash(relPath)
	return project, nil
}

func (d *Detector) findProjectRoot(startDir string) (string, string) {
	dir := startDir
	for {
		for _, marker := range d.markers {
			if _, err := os.Stat(filepath.Join(dir, marker)); err == nil {
				return dir, projectTypeOf(marker)
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", ""
}

func projectTypeOf(marker string) string {
	switch marker {
	case "build.zig", "build.zig.zon":
		return "zig"
	case ".git":
		return "git"
	default:
		return "unknown"
	}
}

func (d *Detector) extractProjectName(rootPath, projectType string) string {
	switch projectType {
	case "zig":
		if name := extractZigModuleName(filepath.Join(rootPath, "build.zig.zon")); name != "" {
			return name
		}
		return filepath.Base(rootPath)
	case "git":
		return extractGitProjectName(rootPath)
	default:
		return filepath.Base(rootPath)
	}
}

var zigModuleNameRegex = regexp.MustCompile(`\.name\s*=\s*\.?([A-Za-z0-9_]+)`)

// extractZigModuleName reads build.zig.zon's `.name = .foo,` field.
// Tries the configured afs.Service first (so remote-backed roots work
// the same as local ones, per inspector/info/document.go's pattern),
// falling back to a direct os.ReadFile for plain local filesystems.
func extractZigModuleName(zonPath string) string {
	fs := afs.New()
	if content, err := fs.DownloadWithURL(context.Background(), zonPath); err == nil && len(content) > 0 {
		if m := zigModuleNameRegex.FindSubmatch(content); len(m) >= 2 {
			return string(m[1])
		}
	}
	data, err := os.ReadFile(zonPath)
	if err != nil {
		return ""
	}
	if m := zigModuleNameRegex.FindSubmatch(data); len(m) >= 2 {
		return string(m[1])
	}
	return ""
}

func extractGitProjectName(gitRoot string) string {
	configPath := filepath.Join(gitRoot, ".git", "config")
	file, err := os.Open(configPath)
	if err != nil {
		return filepath.Base(gitRoot)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	foundRemote := false
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if strings.Contains(line, "[remote \"origin\"]") {
			foundRemote = true
			continue
		}
		if foundRemote && strings.HasPrefix(line, "url = ") {
			url := strings.TrimSuffix(strings.TrimPrefix(line, "url = "), ".git")
			parts := strings.Split(url, "/")
			if len(parts) > 0 && parts[len(parts)-1] != "" {
				return parts[len(parts)-1]
			}
			break
		}
	}
	return filepath.Base(gitRoot)
}
