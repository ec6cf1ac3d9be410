package report

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zstd"
)

// Write serializes the report as pretty JSON to path. When compress is true
// (or the path already ends in .zst) the output is zstd-compressed and the
// returned path carries the .zst suffix.
func Write(r Report, path string, compress bool) (string, error) {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal report: %w", err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", fmt.Errorf("create report dir: %w", err)
		}
	}

	if !compress && !strings.HasSuffix(path, ".zst") {
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return "", fmt.Errorf("write report: %w", err)
		}
		return path, nil
	}

	if !strings.HasSuffix(path, ".zst") {
		path += ".zst"
	}

	dest, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create report: %w", err)
	}
	defer dest.Close()

	encoder, err := zstd.NewWriter(dest)
	if err != nil {
		return "", fmt.Errorf("create zstd encoder: %w", err)
	}

	if _, err := encoder.Write(data); err != nil {
		encoder.Close()
		return "", fmt.Errorf("compress report: %w", err)
	}

	if err := encoder.Close(); err != nil {
		return "", fmt.Errorf("finalize compression: %w", err)
	}

	return path, nil
}

// Read loads a report written by Write, transparently decompressing .zst
// files.
func Read(path string) (Report, error) {
	var r Report

	f, err := os.Open(path)
	if err != nil {
		return r, fmt.Errorf("open report: %w", err)
	}
	defer f.Close()

	var src io.Reader = f
	if strings.HasSuffix(path, ".zst") {
		decoder, err := zstd.NewReader(f)
		if err != nil {
			return r, fmt.Errorf("create zstd decoder: %w", err)
		}
		defer decoder.Close()
		src = decoder
	}

	data, err := io.ReadAll(src)
	if err != nil {
		return r, fmt.Errorf("read report: %w", err)
	}

	if err := json.Unmarshal(data, &r); err != nil {
		return r, fmt.Errorf("parse report: %w", err)
	}

	return r, nil
}
