package clip

import (
	"testing"

	"github.com/terraclip/terraclip/pkg/geom"
)

func TestSideOf(t *testing.T) {
	r := geom.Rect{MinX: 0, MinY: 0, MaxX: 100, MaxY: 100}

	tests := []struct {
		name string
		p    geom.Point
		want Side
	}{
		{"left edge", pt(0, 50), SideLeft},
		{"right edge", pt(100, 50), SideRight},
		{"bottom edge", pt(50, 0), SideBottom},
		{"top edge", pt(50, 100), SideTop},
		{"bottom-left corner favors left", pt(0, 0), SideLeft},
		{"top-right corner favors right", pt(100, 100), SideRight},
		{"slightly off left edge", pt(1e-7, 50), SideLeft},
		{"fallback nearest is bottom", pt(50, 2), SideBottom},
		{"fallback nearest is right", pt(97, 50), SideRight},
		{"fallback tie favors left", pt(50, 50), SideLeft},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SideOf(tt.p, r); got != tt.want {
				t.Errorf("SideOf(%v) = %v, want %v", tt.p, got, tt.want)
			}
		})
	}
}

func TestSideString(t *testing.T) {
	tests := []struct {
		side Side
		want string
	}{
		{SideLeft, "left"},
		{SideRight, "right"},
		{SideBottom, "bottom"},
		{SideTop, "top"},
		{Side(99), "unknown"},
	}

	for _, tt := range tests {
		if got := tt.side.String(); got != tt.want {
			t.Errorf("Side(%d).String() = %q, want %q", int(tt.side), got, tt.want)
		}
	}
}

func TestConnect(t *testing.T) {
	r := geom.Rect{MinX: 0, MinY: 0, MaxX: 100, MaxY: 100}

	tests := []struct {
		name  string
		exit  geom.Point
		entry geom.Point
		want  []geom.Point
	}{
		{
			name: "same side direct",
			exit: pt(0, 20), entry: pt(0, 80),
			want: []geom.Point{pt(0, 20), pt(0, 80)},
		},
		{
			name: "left to bottom one corner",
			exit: pt(0, 30), entry: pt(40, 0),
			want: []geom.Point{pt(0, 30), pt(0, 0), pt(40, 0)},
		},
		{
			name: "left to top one corner",
			exit: pt(0, 60), entry: pt(40, 100),
			want: []geom.Point{pt(0, 60), pt(0, 100), pt(40, 100)},
		},
		{
			name: "left to right via top",
			exit: pt(0, 50), entry: pt(100, 50),
			want: []geom.Point{pt(0, 50), pt(0, 100), pt(100, 100), pt(100, 50)},
		},
		{
			name: "bottom to top via left",
			exit: pt(30, 0), entry: pt(70, 100),
			want: []geom.Point{pt(30, 0), pt(0, 0), pt(0, 100), pt(70, 100)},
		},
		{
			name: "right to left via top",
			exit: pt(100, 20), entry: pt(0, 20),
			want: []geom.Point{pt(100, 20), pt(100, 100), pt(0, 100), pt(0, 20)},
		},
		{
			name: "top to bottom via left",
			exit: pt(60, 100), entry: pt(60, 0),
			want: []geom.Point{pt(60, 100), pt(0, 100), pt(0, 0), pt(60, 0)},
		},
		{
			name: "bottom to right one corner",
			exit: pt(50, 0), entry: pt(100, 40),
			want: []geom.Point{pt(50, 0), pt(100, 0), pt(100, 40)},
		},
		{
			name: "right to top one corner",
			exit: pt(100, 70), entry: pt(80, 100),
			want: []geom.Point{pt(100, 70), pt(100, 100), pt(80, 100)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Connect(tt.exit, tt.entry, r)
			if len(got) != len(tt.want) {
				t.Fatalf("Connect = %v, want %v", got, tt.want)
			}
			for i := range tt.want {
				if !samePoint(got[i], tt.want[i]) {
					t.Errorf("point %d = %v, want %v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

// Connector interior corners must themselves lie on the perimeter so that a
// stitched path never leaves the rectangle.
func TestConnectStaysOnPerimeter(t *testing.T) {
	r := geom.Rect{MinX: -10, MinY: 5, MaxX: 30, MaxY: 45}
	onEdge := func(p geom.Point) bool {
		onX := samePoint(geom.Point{X: p.X}, geom.Point{X: r.MinX}) || samePoint(geom.Point{X: p.X}, geom.Point{X: r.MaxX})
		onY := samePoint(geom.Point{Y: p.Y}, geom.Point{Y: r.MinY}) || samePoint(geom.Point{Y: p.Y}, geom.Point{Y: r.MaxY})
		return onX || onY
	}

	exits := []geom.Point{pt(-10, 20), pt(30, 20), pt(10, 5), pt(10, 45)}
	for _, exit := range exits {
		for _, entry := range exits {
			path := Connect(exit, entry, r)
			if len(path) < 2 {
				t.Errorf("Connect(%v, %v) = %v, want >= 2 points", exit, entry, path)
			}
			for _, p := range path {
				if !onEdge(p) {
					t.Errorf("Connect(%v, %v) point %v off the perimeter", exit, entry, p)
				}
			}
		}
	}
}
