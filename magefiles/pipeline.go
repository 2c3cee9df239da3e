//go:build mage

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

// Run groups targets that drive the built binary.
type Run mg.Namespace

func binPath() string {
	return filepath.Join(binDir, binName)
}

// Analyze searches arXiv for $KEYWORDS (optionally $AUTHOR) and analyses each hit.
func (Run) Analyze() error {
	mg.Deps(Init, Build)
	keywords := os.Getenv("KEYWORDS")
	if keywords == "" {
		return fmt.Errorf("set KEYWORDS to the paper title to search for")
	}
	args := []string{"analyze", keywords}
	if author := os.Getenv("AUTHOR"); author != "" {
		args = append(args, "--author", author)
	}
	return sh.RunV(binPath(), args...)
}

// Whitepapers looks up $COMPANY whitepapers matching $KEYWORDS.
func (Run) Whitepapers() error {
	mg.Deps(Build)
	company, keywords := os.Getenv("COMPANY"), os.Getenv("KEYWORDS")
	if company == "" || keywords == "" {
		return fmt.Errorf("set COMPANY and KEYWORDS")
	}
	return sh.RunV(binPath(), "whitepapers", company, keywords)
}

// Serve starts the tool server on $ADDR (default from config).
func (Run) Serve() error {
	mg.Deps(Init, Build)
	args := []string{"serve"}
	if addr := os.Getenv("ADDR"); addr != "" {
		args = append(args, "--addr", addr)
	}
	return sh.RunV(binPath(), args...)
}

// Export writes the record archive to archive/export.yaml.
func (Run) Export() error {
	mg.Deps(Build)
	return sh.RunV(binPath(), "records", "export")
}
