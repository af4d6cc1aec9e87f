// Package isolate implements abduct (§6): copy a target, and optionally its
// neighbours, into a quarantine workspace, then optionally back-date every
// copy's mtime and lock the workspace read-only. The copy-and-walk shape is
// adapted directly from the teacher's internal/sandbox.Runner, generalised
// from sandbox's before/after diff purpose to abduct's quarantine purpose.
package isolate

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/assailsec/assail/internal/model"
)

// Scope controls how much of the target's neighbourhood is copied alongside
// it, mirroring §6's isolate command options.
type Scope string

const (
	// ScopeDirect copies only the target path itself.
	ScopeDirect Scope = "direct"
	// ScopeDirectory copies the target's entire containing directory.
	ScopeDirectory Scope = "directory"
)

// Request is abduct's input: what to quarantine and how.
type Request struct {
	Target      string
	Scope       Scope
	MtimeOffset time.Duration // applied to every copied file's mtime; zero leaves mtimes untouched
	Lock        bool          // mark the quarantine workspace (and its contents) read-only
}

// Quarantine copies req.Target (and, for ScopeDirectory, its containing
// directory) into a fresh temporary workspace, applies the requested mtime
// offset, and optionally locks the copy read-only.
func Quarantine(req Request) (model.IsolationReport, error) {
	if req.Target == "" {
		return model.IsolationReport{}, fmt.Errorf("isolate: target is required")
	}

	info, err := os.Stat(req.Target)
	if err != nil {
		return model.IsolationReport{}, fmt.Errorf("isolate: stat target: %w", err)
	}

	quarantineDir, err := os.MkdirTemp("", "assail-isolate-*")
	if err != nil {
		return model.IsolationReport{}, fmt.Errorf("isolate: creating quarantine workspace: %w", err)
	}

	var srcRoot string
	switch req.Scope {
	case ScopeDirectory:
		srcRoot = filepath.Dir(req.Target)
		if info.IsDir() {
			srcRoot = req.Target
		}
	case ScopeDirect, "":
		srcRoot = req.Target
	default:
		return model.IsolationReport{}, fmt.Errorf("isolate: unrecognised scope %q", req.Scope)
	}

	copied, err := copyTree(srcRoot, quarantineDir)
	if err != nil {
		return model.IsolationReport{}, fmt.Errorf("isolate: copying into quarantine workspace: %w", err)
	}

	if req.MtimeOffset != 0 {
		if err := offsetMtimes(copied, req.MtimeOffset); err != nil {
			return model.IsolationReport{}, fmt.Errorf("isolate: adjusting mtimes: %w", err)
		}
	}

	if req.Lock {
		if err := lockReadOnly(quarantineDir, copied); err != nil {
			return model.IsolationReport{}, fmt.Errorf("isolate: locking quarantine workspace: %w", err)
		}
	}

	return model.IsolationReport{
		QuarantinePath: quarantineDir,
		CopiedPaths:    copied,
		MtimeOffset:    req.MtimeOffset,
		Locked:         req.Lock,
	}, nil
}

// copyTree copies src (file or directory) into dst, skipping .git the same
// way the teacher's sandbox.copyDir does, and returns every destination
// path it wrote.
func copyTree(src, dst string) ([]string, error) {
	info, err := os.Stat(src)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		if err := os.MkdirAll(dst, 0o755); err != nil {
			return nil, err
		}
		dstPath := filepath.Join(dst, filepath.Base(src))
		if err := copyFile(src, dstPath, info.Mode()); err != nil {
			return nil, err
		}
		return []string{dstPath}, nil
	}

	var copied []string
	err = filepath.Walk(src, func(path string, fi os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		relPath, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		if relPath == "." {
			return nil
		}
		if fi.Name() == ".git" && fi.IsDir() {
			return filepath.SkipDir
		}

		dstPath := filepath.Join(dst, relPath)
		if fi.IsDir() {
			return os.MkdirAll(dstPath, fi.Mode())
		}
		if err := copyFile(path, dstPath, fi.Mode()); err != nil {
			return err
		}
		copied = append(copied, dstPath)
		return nil
	})
	return copied, err
}

func copyFile(src, dst string, mode os.FileMode) error {
	srcFile, err := os.Open(src)
	if err != nil {
		return err
	}
	defer srcFile.Close()

	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}

	dstFile, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, mode)
	if err != nil {
		return err
	}
	defer dstFile.Close()

	_, err = io.Copy(dstFile, srcFile)
	return err
}

// offsetMtimes shifts every copied file's mtime by offset (which may be
// negative to back-date a copy), and sets its atime to the same shifted
// time.
func offsetMtimes(paths []string, offset time.Duration) error {
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return err
		}
		newMtime := info.ModTime().Add(offset)
		if err := os.Chtimes(p, newMtime, newMtime); err != nil {
			return err
		}
	}
	return nil
}

// lockReadOnly strips write permission from every copied file and from the
// quarantine root itself, so a target run against this copy cannot mutate
// its own inputs.
func lockReadOnly(root string, paths []string) error {
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return err
		}
		if err := os.Chmod(p, info.Mode()&^0o222); err != nil {
			return err
		}
	}
	info, err := os.Stat(root)
	if err != nil {
		return err
	}
	return os.Chmod(root, info.Mode()&^0o222)
}
