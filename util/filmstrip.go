// Package util - Filmstrip artifact handling.
package util

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// FrameFile represents one filmstrip frame on disk.
type FrameFile struct {
	// Path is the path to the frame file.
	Path string
	// Data is the raw bytes of the frame file.
	Data []byte
	// Frame is the frame number parsed from the file name.
	Frame int
}

// SaveFrames writes filmstrip frames into a directory as frame-N.png, in
// slice order.
//
// Arguments:
// - dir: Destination directory, created if missing.
// - frames: PNG-encoded frames.
//
// Returns:
// - []string: Paths of the written files, in frame order.
// - error: Error if writing fails.
func SaveFrames(dir string, frames [][]byte) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrap(err, "create filmstrip directory")
	}

	paths := make([]string, 0, len(frames))
	for i, data := range frames {
		path := filepath.Join(dir, fmt.Sprintf("frame-%d.png", i))
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return nil, errors.Wrapf(err, "write frame %d", i)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// LoadFrames reads all filmstrip frames from a directory.
//
// Arguments:
// - dir: Directory path containing frame-N image files.
//
// Returns:
// - []FrameFile: Frames sorted by frame number.
// - error: Error if loading fails.
func LoadFrames(dir string) ([]FrameFile, error) {
	files, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.Wrap(err, "read filmstrip directory")
	}

	var frames []FrameFile
	for _, file := range files {
		if file.IsDir() {
			continue
		}

		ext := filepath.Ext(file.Name())
		switch ext {
		case ".png", ".jpg", ".jpeg":
			name := strings.TrimSuffix(strings.TrimPrefix(file.Name(), "frame-"), ext)
			frame, err := strconv.Atoi(name)
			if err != nil {
				// Not a filmstrip frame; reports and other artifacts share
				// the directory.
				continue
			}

			path := filepath.Join(dir, file.Name())
			data, err := os.ReadFile(path)
			if err != nil {
				return nil, errors.Wrapf(err, "read frame %s", file.Name())
			}
			frames = append(frames, FrameFile{
				Path:  path,
				Data:  data,
				Frame: frame,
			})
		}
	}

	sort.Slice(frames, func(i, j int) bool {
		return frames[i].Frame < frames[j].Frame
	})

	return frames, nil
}
