package imaging

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"testing"
)

func TestCenterOffset(t *testing.T) {
	tests := []struct {
		name    string
		base    image.Rectangle
		overlay image.Rectangle
		want    image.Point
	}{
		{"centered", image.Rect(0, 0, 100, 100), image.Rect(0, 0, 20, 20), image.Pt(40, 40)},
		{"odd remainder truncates", image.Rect(0, 0, 101, 50), image.Rect(0, 0, 20, 21), image.Pt(40, 14)},
		{"same size", image.Rect(0, 0, 30, 30), image.Rect(0, 0, 30, 30), image.Pt(0, 0)},
		{"overlay larger", image.Rect(0, 0, 10, 10), image.Rect(0, 0, 30, 20), image.Pt(-10, -5)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CenterOffset(tt.base, tt.overlay); got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestComposite_CenteredBlackSquare(t *testing.T) {
	white := color.NRGBA{255, 255, 255, 255}
	black := color.NRGBA{0, 0, 0, 255}
	base := newFilledBuffer(100, 100, white)
	overlay := newFilledBuffer(20, 20, black)

	off := CenterOffset(base.Bounds(), overlay.Bounds())
	out, err := Composite(base, overlay, off.X, off.Y, 1.0)
	if err != nil {
		t.Fatalf("Composite failed: %v", err)
	}

	for y := 0; y < 100; y++ {
		for x := 0; x < 100; x++ {
			want := white
			if x >= 40 && x < 60 && y >= 40 && y < 60 {
				want = black
			}
			if got := out.NRGBAAt(x, y); got != want {
				t.Fatalf("pixel (%d,%d): got %v, want %v", x, y, got, want)
			}
		}
	}
}

func TestComposite_ZeroOpacity(t *testing.T) {
	base := newPatternBuffer(50, 50)
	overlay := newFilledBuffer(30, 30, color.NRGBA{9, 9, 9, 255})

	out, err := Composite(base, overlay, 10, 10, 0)
	if err != nil {
		t.Fatalf("Composite failed: %v", err)
	}
	if !bytes.Equal(out.Pix, base.Pix) {
		t.Error("zero opacity changed the base")
	}
}

func TestComposite_DoesNotModifyInputs(t *testing.T) {
	base := newFilledBuffer(10, 10, color.NRGBA{255, 255, 255, 255})
	overlay := newFilledBuffer(4, 4, color.NRGBA{0, 0, 0, 255})
	baseCopy := append([]uint8(nil), base.Pix...)
	overlayCopy := append([]uint8(nil), overlay.Pix...)

	if _, err := Composite(base, overlay, 3, 3, 0.5); err != nil {
		t.Fatalf("Composite failed: %v", err)
	}
	if !bytes.Equal(base.Pix, baseCopy) {
		t.Error("Composite modified base")
	}
	if !bytes.Equal(overlay.Pix, overlayCopy) {
		t.Error("Composite modified overlay")
	}
}

func TestComposite_BlendRule(t *testing.T) {
	tests := []struct {
		name    string
		base    color.NRGBA
		overlay color.NRGBA
		opacity float64
		want    color.NRGBA
	}{
		{"half opacity black on white", color.NRGBA{255, 255, 255, 255}, color.NRGBA{0, 0, 0, 255}, 0.5, color.NRGBA{128, 128, 128, 255}},
		{"full opacity replaces", color.NRGBA{10, 20, 30, 255}, color.NRGBA{200, 100, 50, 255}, 1, color.NRGBA{200, 100, 50, 255}},
		{"transparent overlay", color.NRGBA{10, 20, 30, 255}, color.NRGBA{200, 100, 50, 0}, 1, color.NRGBA{10, 20, 30, 255}},
		{"half alpha full opacity", color.NRGBA{0, 0, 0, 255}, color.NRGBA{255, 255, 255, 102}, 1, color.NRGBA{102, 102, 102, 194}},
		{"opacity above one clamps", color.NRGBA{0, 0, 0, 255}, color.NRGBA{255, 255, 255, 255}, 3, color.NRGBA{255, 255, 255, 255}},
		{"negative opacity clamps", color.NRGBA{0, 0, 0, 255}, color.NRGBA{255, 255, 255, 255}, -1, color.NRGBA{0, 0, 0, 255}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := Composite(newFilledBuffer(3, 3, tt.base), newFilledBuffer(1, 1, tt.overlay), 1, 1, tt.opacity)
			if err != nil {
				t.Fatalf("Composite failed: %v", err)
			}
			if got := out.NRGBAAt(1, 1); got != tt.want {
				t.Errorf("blended pixel: got %v, want %v", got, tt.want)
			}
			if got := out.NRGBAAt(0, 0); got != tt.base {
				t.Errorf("uncovered pixel: got %v, want %v", got, tt.base)
			}
		})
	}
}

func TestComposite_Clipping(t *testing.T) {
	white := color.NRGBA{255, 255, 255, 255}
	black := color.NRGBA{0, 0, 0, 255}

	tests := []struct {
		name      string
		x, y      int
		wantBlack []image.Point
		wantWhite []image.Point
	}{
		{"off top-left", -5, -5, []image.Point{{0, 0}, {4, 4}}, []image.Point{{5, 5}, {9, 9}}},
		{"off bottom-right", 7, 7, []image.Point{{7, 7}, {9, 9}}, []image.Point{{6, 6}, {0, 0}}},
		{"fully outside", 20, 20, nil, []image.Point{{0, 0}, {9, 9}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := Composite(newFilledBuffer(10, 10, white), newFilledBuffer(10, 10, black), tt.x, tt.y, 1)
			if err != nil {
				t.Fatalf("Composite failed: %v", err)
			}
			for _, p := range tt.wantBlack {
				if got := out.NRGBAAt(p.X, p.Y); got != black {
					t.Errorf("pixel %v: got %v, want black", p, got)
				}
			}
			for _, p := range tt.wantWhite {
				if got := out.NRGBAAt(p.X, p.Y); got != white {
					t.Errorf("pixel %v: got %v, want white", p, got)
				}
			}
		})
	}
}

func TestComposite_LargerOverlayCentered(t *testing.T) {
	base := newFilledBuffer(10, 10, color.NRGBA{255, 255, 255, 255})
	overlay := newFilledBuffer(30, 30, color.NRGBA{0, 0, 0, 255})

	off := CenterOffset(base.Bounds(), overlay.Bounds())
	out, err := Composite(base, overlay, off.X, off.Y, 1)
	if err != nil {
		t.Fatalf("Composite failed: %v", err)
	}
	for i := 0; i < len(out.Pix); i += 4 {
		if out.Pix[i] != 0 {
			t.Fatalf("pixel at offset %d not covered by overlay", i/4)
		}
	}
}

func TestComposite_InvalidBuffers(t *testing.T) {
	valid := newFilledBuffer(4, 4, color.NRGBA{})
	broken := &image.NRGBA{Pix: make([]uint8, 3), Stride: 16, Rect: image.Rect(0, 0, 4, 4)}

	if _, err := Composite(broken, valid, 0, 0, 1); !errors.Is(err, ErrInvariant) {
		t.Errorf("broken base: got %v, want ErrInvariant", err)
	}
	if _, err := Composite(valid, broken, 0, 0, 1); !errors.Is(err, ErrInvariant) {
		t.Errorf("broken overlay: got %v, want ErrInvariant", err)
	}
	if _, err := Composite(valid, nil, 0, 0, 1); !errors.Is(err, ErrInvariant) {
		t.Errorf("nil overlay: got %v, want ErrInvariant", err)
	}
}
