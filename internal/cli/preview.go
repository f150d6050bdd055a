package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/terraclip/terraclip/pkg/contour"
	"github.com/terraclip/terraclip/pkg/geom"
	"github.com/terraclip/terraclip/pkg/pipeline"
)

// previewCommand creates the preview command.
func (c *CLI) previewCommand() *cobra.Command {
	var (
		rectSpec string
		interval float64
		elevProp string
		refresh  bool
		noCache  bool
	)

	cmd := &cobra.Command{
		Use:   "preview <input.geojson>",
		Short: "Render clipped contours in the terminal",
		Long: `Run the clipping pipeline and draw the resulting segments as a braille
line plot in the terminal. The clip rectangle, when given, is drawn
around the clipped contours.`,
		Example: `  terraclip preview contours.geojson --rect 0,0,100,100
  terraclip preview contours.geojson --interval 10`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := pipeline.Options{
				Input:             args[0],
				Interval:          interval,
				ElevationProperty: elevProp,
				Refresh:           refresh,
			}
			if rectSpec != "" {
				rect, err := parseRect(rectSpec)
				if err != nil {
					return err
				}
				opts.Rect = rect
			}

			runner := c.newRunner(noCache)
			defer runner.Close()

			spinner := newSpinnerWithContext(cmd.Context(), "Clipping contours...")
			spinner.Start()
			result, err := runner.Execute(cmd.Context(), opts)
			spinner.Stop()
			if err != nil {
				return err
			}
			if len(result.Segments) == 0 {
				printWarning("Nothing to preview: no segments inside the region")
				return nil
			}

			program := tea.NewProgram(
				newPreviewModel(result.Segments, opts.Rect),
				tea.WithAltScreen(),
				tea.WithContext(cmd.Context()),
			)
			_, err = program.Run()
			return err
		},
	}

	cmd.Flags().StringVarP(&rectSpec, "rect", "r", "", "clip rectangle as minx,miny,maxx,maxy")
	cmd.Flags().Float64VarP(&interval, "interval", "i", 0, "keep only contours on this elevation interval (0 keeps all)")
	cmd.Flags().StringVar(&elevProp, "elevation-property", "", "GeoJSON property holding the elevation value")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "bypass cached results")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the result cache")

	return cmd
}

// =============================================================================
// Preview Model
// =============================================================================

// previewModel is the bubbletea model for the contour preview.
type previewModel struct {
	segments []contour.Segment
	clip     *geom.Rect
	extent   geom.Rect

	minElev float64
	maxElev float64

	width  int
	height int

	zoom     float64
	panX     int // in cells
	panY     int
	showHelp bool
}

func newPreviewModel(segments []contour.Segment, clip *geom.Rect) previewModel {
	m := previewModel{
		segments: segments,
		clip:     clip,
		zoom:     1.0,
		showHelp: true,
	}

	if clip != nil {
		m.extent = *clip
	} else if b, ok := contour.Bounds(segments); ok {
		m.extent = b
	}

	first := true
	for _, seg := range segments {
		if first {
			m.minElev, m.maxElev = seg.Elevation, seg.Elevation
			first = false
			continue
		}
		if seg.Elevation < m.minElev {
			m.minElev = seg.Elevation
		}
		if seg.Elevation > m.maxElev {
			m.maxElev = seg.Elevation
		}
	}
	return m
}

func (m previewModel) Init() tea.Cmd { return nil }

func (m previewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		case "up":
			m.panY++
		case "down":
			m.panY--
		case "left":
			m.panX++
		case "right":
			m.panX--
		case "+", "=":
			if m.zoom < 64 {
				m.zoom *= 1.2
			}
		case "-", "_":
			if m.zoom > 0.05 {
				m.zoom /= 1.2
			}
		case "r":
			m.zoom = 1.0
			m.panX, m.panY = 0, 0
		case "h":
			m.showHelp = !m.showHelp
		}
	}
	return m, nil
}

func (m previewModel) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}

	mapHeight := m.height - 2
	if mapHeight < 4 {
		mapHeight = 4
	}
	mapWidth := m.width
	if mapWidth < 10 {
		mapWidth = 10
	}

	header := StyleTitle.Render(" terraclip ") + StyleDim.Render(fmt.Sprintf(
		"%d segments · elevation %g–%g · zoom %.2fx", len(m.segments), m.minElev, m.maxElev, m.zoom))

	canvas := newBrailleCanvas(mapWidth, mapHeight)
	for _, seg := range m.segments {
		m.plotPolyline(canvas, seg.Points)
	}
	if m.clip != nil {
		m.plotPolyline(canvas, []geom.Point{
			m.clip.BottomLeft(), m.clip.BottomRight(), m.clip.TopRight(),
			m.clip.TopLeft(), m.clip.BottomLeft(),
		})
	}

	body := strings.Join(canvas.rows(), "\n")

	footer := ""
	if m.showHelp {
		footer = StyleDim.Render("  ↑↓←→ pan  +/- zoom  r reset  h help  q quit")
	}

	return lipgloss.JoinVertical(lipgloss.Left, header, body, footer)
}

// plotPolyline draws one polyline onto the canvas in dot coordinates.
func (m previewModel) plotPolyline(canvas *brailleCanvas, points []geom.Point) {
	var prevX, prevY int
	havePrev := false
	for _, p := range points {
		dx, dy := m.project(p, canvas)
		if havePrev {
			canvas.line(prevX, prevY, dx, dy)
		}
		prevX, prevY = dx, dy
		havePrev = true
	}
}

// project maps a world point to canvas dot coordinates, applying zoom around
// the extent center and the current pan offset. Y grows upward in world
// space and downward on the canvas.
func (m previewModel) project(p geom.Point, canvas *brailleCanvas) (int, int) {
	spanX := m.extent.Width()
	if spanX <= 0 {
		spanX = 1
	}
	spanY := m.extent.Height()
	if spanY <= 0 {
		spanY = 1
	}

	nx := (p.X - m.extent.MinX) / spanX
	ny := (p.Y - m.extent.MinY) / spanY
	zx := 0.5 + (nx-0.5)*m.zoom
	zy := 0.5 + (ny-0.5)*m.zoom

	dx := int(zx*float64(canvas.dotWidth()-1)) + m.panX*2
	dy := int((1.0-zy)*float64(canvas.dotHeight()-1)) + m.panY*4
	return dx, dy
}
