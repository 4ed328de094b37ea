package main

import (
	"bytes"
	"fmt"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/justyntemme/shellicon/internal/icon"
)

// exportFormat picks the encoding for out: its extension when it names one,
// otherwise the configured default.
func exportFormat(out, fallback string) (string, error) {
	switch strings.ToLower(filepath.Ext(out)) {
	case ".png":
		return "png", nil
	case ".ico":
		return "ico", nil
	}
	switch fallback {
	case "", "png":
		return "png", nil
	case "ico":
		return "ico", nil
	default:
		return "", fmt.Errorf("unknown export format %q", fallback)
	}
}

// writeIcon encodes ic to out and returns the number of bytes written.
func writeIcon(out string, ic *icon.Icon, format string) (int, error) {
	if ic == nil {
		return 0, fmt.Errorf("nothing to write to %s", out)
	}

	var data []byte
	switch format {
	case "ico":
		b, err := icon.EncodeICO(ic)
		if err != nil {
			return 0, fmt.Errorf("encode ico: %w", err)
		}
		data = b
	default:
		var buf bytes.Buffer
		if err := icon.WritePNG(&buf, ic); err != nil {
			return 0, fmt.Errorf("encode png: %w", err)
		}
		data = buf.Bytes()
	}

	if dir := filepath.Dir(out); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return 0, fmt.Errorf("create output directory %q: %w", dir, err)
		}
	}
	if err := os.WriteFile(out, data, 0o644); err != nil {
		return 0, fmt.Errorf("write %s: %w", out, err)
	}
	return len(data), nil
}

// readPNG loads a PNG file as an icon, used for overlay badges that are not
// shell objects.
func readPNG(path string) (*icon.Icon, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, err := png.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return icon.FromImage(img), nil
}

func dimensions(ic *icon.Icon) string {
	if ic == nil {
		return "-"
	}
	return fmt.Sprintf("%dx%d", ic.Width(), ic.Height())
}
