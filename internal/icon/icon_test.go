package icon

import (
	"bytes"
	"encoding/binary"
	"image"
	"image/color"
	"image/png"
	"testing"
)

func TestFromImageNormalizesBounds(t *testing.T) {
	src := image.NewNRGBA(image.Rect(10, 10, 26, 26))
	src.SetNRGBA(10, 10, color.NRGBA{R: 0xFF, A: 0xFF})

	icon := FromImage(src)
	if icon.Bounds() != image.Rect(0, 0, 16, 16) {
		t.Errorf("expected bounds at origin, got %v", icon.Bounds())
	}
	if got := icon.At(0, 0); got != red {
		t.Errorf("expected red at origin, got %v", got)
	}
	if FromImage(nil) != nil {
		t.Error("expected nil for nil image")
	}
}

func TestRGBAReturnsCopy(t *testing.T) {
	icon := solid(4, 4, white)
	cp := icon.RGBA()
	cp.SetRGBA(0, 0, red)
	if got := icon.At(0, 0); got != white {
		t.Errorf("icon changed through RGBA copy: %v", got)
	}
}

func TestScale(t *testing.T) {
	testCases := []struct {
		w, h, px int
		ew, eh   int
	}{
		{32, 32, 16, 16, 16},
		{16, 16, 32, 32, 32},
		{48, 24, 16, 16, 8},
		{16, 16, 16, 16, 16},
	}

	for _, tc := range testCases {
		out := Scale(solid(tc.w, tc.h, red), tc.px)
		if out.Width() != tc.ew || out.Height() != tc.eh {
			t.Errorf("Scale(%dx%d, %d): expected %dx%d, got %dx%d",
				tc.w, tc.h, tc.px, tc.ew, tc.eh, out.Width(), out.Height())
		}
	}

	same := solid(16, 16, red)
	if Scale(same, 16) != same {
		t.Error("expected icon already at size to be returned as is")
	}
}

func TestParseSize(t *testing.T) {
	testCases := []struct {
		in       string
		expected Size
	}{
		{"large", Large},
		{"Large", Large},
		{" LARGE ", Large},
		{"small", Small},
		{"", Small},
		{"huge", Small},
	}
	for _, tc := range testCases {
		if got := ParseSize(tc.in); got != tc.expected {
			t.Errorf("ParseSize(%q): expected %s, got %s", tc.in, tc.expected, got)
		}
	}
}

func TestEncodeICO(t *testing.T) {
	data, err := EncodeICO(solid(32, 32, red))
	if err != nil {
		t.Fatalf("EncodeICO: %v", err)
	}
	if binary.LittleEndian.Uint16(data[2:]) != 1 || binary.LittleEndian.Uint16(data[4:]) != 1 {
		t.Errorf("bad ICONDIR header % x", data[:6])
	}
	if data[6] != 32 || data[7] != 32 {
		t.Errorf("expected 32x32 entry, got %dx%d", data[6], data[7])
	}
	offset := binary.LittleEndian.Uint32(data[18:])
	img, err := png.Decode(bytes.NewReader(data[offset:]))
	if err != nil {
		t.Fatalf("payload is not PNG: %v", err)
	}
	if img.Bounds().Dx() != 32 {
		t.Errorf("expected 32 wide payload, got %d", img.Bounds().Dx())
	}

	if _, err := EncodeICO(nil); err == nil {
		t.Error("expected error for nil icon")
	}
}

func TestWritePNG(t *testing.T) {
	var buf bytes.Buffer
	if err := WritePNG(&buf, solid(16, 16, white)); err != nil {
		t.Fatalf("WritePNG: %v", err)
	}
	cfg, err := png.DecodeConfig(&buf)
	if err != nil {
		t.Fatalf("DecodeConfig: %v", err)
	}
	if cfg.Width != 16 || cfg.Height != 16 {
		t.Errorf("expected 16x16, got %dx%d", cfg.Width, cfg.Height)
	}
}
