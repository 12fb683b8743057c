package tui

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/astrotape/internal/fixedpoint"
	"github.com/vovakirdan/astrotape/internal/rng"
	"github.com/vovakirdan/astrotape/internal/sim"
)

// Style palette for playfield rendering.
var (
	shipStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("15")).Bold(true)
	shipInvulnStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	asteroidStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	bulletStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	saucerStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	saucerBulletStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("13"))
	hudStyle          = lipgloss.NewStyle().Foreground(lipgloss.Color("7"))
	hudAlertStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	overlayStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("15")).Bold(true)
	overlayDimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// shipGlyphs indexes into the eight compass directions of the ship's nose.
// Angle 0 points along +x and angles grow toward +y (screen down).
var shipGlyphs = [8]rune{'>', '\\', 'v', '/', '<', '\\', '^', '/'}

type cell struct {
	r     rune
	style *lipgloss.Style
}

// Renderer turns world snapshots into styled terminal frames. It owns the cell
// grid so successive frames reuse the allocation.
type Renderer struct {
	width        int
	height       int
	grid         []cell
	interpolate  bool
	showPressure bool
	cosmeticSeed uint32
}

// NewRenderer creates a renderer for the given terminal size. The cosmetic
// seed keys the per-entity outline jitter; it never touches gameplay state.
func NewRenderer(width, height int, interpolate, showPressure bool, cosmeticSeed uint32) *Renderer {
	r := &Renderer{
		interpolate:  interpolate,
		showPressure: showPressure,
		cosmeticSeed: cosmeticSeed,
	}
	r.Resize(width, height)
	return r
}

// Resize adjusts the renderer to a new terminal size.
func (r *Renderer) Resize(width, height int) {
	if width < 20 {
		width = 20
	}
	if height < 8 {
		height = 8
	}
	r.width = width
	r.height = height
	r.grid = make([]cell, width*height)
}

// Frame renders one snapshot. alpha in [0, 1) blends entity poses between the
// previous and current simulation frame when interpolation is on. A non-empty
// overlay is centered over the playfield, first line emphasized.
func (r *Renderer) Frame(snap *sim.Snapshot, alpha float64, overlay []string) string {
	for i := range r.grid {
		r.grid[i] = cell{r: ' '}
	}

	r.drawAsteroids(snap, alpha)
	r.drawSaucers(snap, alpha)
	r.drawBullets(snap.SaucerBullets, alpha, '+', &saucerBulletStyle)
	r.drawBullets(snap.Bullets, alpha, '.', &bulletStyle)
	r.drawShip(snap, alpha)
	if len(overlay) > 0 {
		r.drawOverlay(overlay)
	}

	var b strings.Builder
	b.WriteString(r.hudLine(snap))
	b.WriteByte('\n')
	r.flushGrid(&b)
	return b.String()
}

// fieldHeight is the playfield's share of the terminal; the top row is HUD.
func (r *Renderer) fieldHeight() int {
	return r.height - 1
}

// project maps a Q12.4 world position onto the cell grid, interpolating from
// the previous pose when enabled. Wrapping is toroidal on both axes.
func (r *Renderer) project(e *sim.EntitySnapshot, alpha float64) (int, int) {
	x, y := e.X, e.Y
	if r.interpolate && alpha > 0 {
		x = lerpWrapped(e.PrevX, e.X, sim.WorldWidthQ12_4, alpha)
		y = lerpWrapped(e.PrevY, e.Y, sim.WorldHeightQ12_4, alpha)
	}
	cx := int(x) * r.width / int(sim.WorldWidthQ12_4)
	cy := int(y) * r.fieldHeight() / int(sim.WorldHeightQ12_4)
	return cx, cy
}

func lerpWrapped(prev, cur, size int32, alpha float64) int32 {
	d := fixedpoint.ShortestDeltaQ12_4(prev, cur, size)
	return fixedpoint.WrapQ12_4(prev+int32(float64(d)*alpha), size)
}

func (r *Renderer) plot(cx, cy int, glyph rune, style *lipgloss.Style) {
	fh := r.fieldHeight()
	if fh <= 0 {
		return
	}
	cx = ((cx % r.width) + r.width) % r.width
	cy = ((cy % fh) + fh) % fh
	r.grid[cy*r.width+cx] = cell{r: glyph, style: style}
}

func (r *Renderer) drawShip(snap *sim.Snapshot, alpha float64) {
	ship := &snap.Ship
	if !ship.Alive {
		return
	}
	style := &shipStyle
	if ship.InvulnerableTimer > 0 {
		// Blink while invulnerable.
		if (snap.FrameCount/8)%2 == 0 {
			return
		}
		style = &shipInvulnStyle
	}
	cx, cy := r.project(&ship.EntitySnapshot, alpha)
	glyph := shipGlyphs[(uint8(ship.Angle)+16)>>5&7]
	r.plot(cx, cy, glyph, style)
}

func (r *Renderer) drawAsteroids(snap *sim.Snapshot, alpha float64) {
	for i := range snap.Asteroids {
		a := &snap.Asteroids[i]
		if !a.Alive {
			continue
		}
		cx, cy := r.project(&a.EntitySnapshot, alpha)
		jitter := rng.NewCosmetic(r.cosmeticSeed ^ a.ID)
		r.drawOutline(cx, cy, a.Radius, outlineRune(a.Size), &jitter)
	}
}

func outlineRune(size sim.AsteroidSize) rune {
	switch size {
	case sim.AsteroidLarge:
		return 'O'
	case sim.AsteroidMedium:
		return 'o'
	default:
		return 'o'
	}
}

// drawOutline plots a rough ring of glyphs around a center. Jitter comes from
// the cosmetic stream so each rock keeps a stable but irregular silhouette.
func (r *Renderer) drawOutline(cx, cy int, radiusPx int32, glyph rune, jitter *rng.Cosmetic) {
	// Radius in cells on each axis; terminal cells are roughly twice as tall
	// as they are wide.
	rx := int(radiusPx) * r.width / int(sim.WorldWidth)
	ry := int(radiusPx) * r.fieldHeight() / int(sim.WorldHeight)
	if rx < 1 && ry < 1 {
		r.plot(cx, cy, glyph, &asteroidStyle)
		return
	}
	points := 4 * (rx + ry)
	if points < 8 {
		points = 8
	}
	for i := 0; i < points; i++ {
		theta := 2 * math.Pi * float64(i) / float64(points)
		wobble := 1 + float64(jitter.NextRange(-25, 26))/100
		px := cx + int(math.Round(float64(rx)*wobble*math.Cos(theta)))
		py := cy + int(math.Round(float64(ry)*wobble*math.Sin(theta)))
		r.plot(px, py, glyph, &asteroidStyle)
	}
}

func (r *Renderer) drawSaucers(snap *sim.Snapshot, alpha float64) {
	for i := range snap.Saucers {
		s := &snap.Saucers[i]
		if !s.Alive {
			continue
		}
		cx, cy := r.project(&s.EntitySnapshot, alpha)
		if s.Small {
			r.plot(cx, cy, '&', &saucerStyle)
			continue
		}
		r.plot(cx-1, cy, '<', &saucerStyle)
		r.plot(cx, cy, 'o', &saucerStyle)
		r.plot(cx+1, cy, '>', &saucerStyle)
	}
}

func (r *Renderer) drawBullets(bullets []sim.BulletSnapshot, alpha float64, glyph rune, style *lipgloss.Style) {
	for i := range bullets {
		b := &bullets[i]
		if !b.Alive {
			continue
		}
		cx, cy := r.project(&b.EntitySnapshot, alpha)
		r.plot(cx, cy, glyph, style)
	}
}

func (r *Renderer) drawOverlay(lines []string) {
	fh := r.fieldHeight()
	startY := fh/2 - len(lines)/2
	for li, line := range lines {
		style := &overlayStyle
		if li > 0 {
			style = &overlayDimStyle
		}
		y := startY + li
		if y < 0 || y >= fh {
			continue
		}
		x := (r.width - len(line)) / 2
		for ci, ch := range line {
			r.plot(x+ci, y, ch, style)
		}
	}
}

func (r *Renderer) hudLine(snap *sim.Snapshot) string {
	lives := strings.Repeat("^", int(max32(snap.Lives, 0)))
	left := fmt.Sprintf(" SCORE %06d  SHIPS %-4s WAVE %d", snap.Score, lives, snap.Wave)
	hud := hudStyle.Render(left)
	if r.showPressure {
		bar := pressureBar(snap.Pressure)
		style := &hudStyle
		if snap.Pressure >= 75 {
			style = &hudAlertStyle
		}
		hud += style.Render(fmt.Sprintf("  HEAT %s", bar))
	}
	return padLine(hud, r.width)
}

func pressureBar(pct int32) string {
	const slots = 10
	filled := int(pct) * slots / 100
	return strings.Repeat("#", filled) + strings.Repeat("-", slots-filled)
}

// padLine pads the styled string to the full width. lipgloss.Width ignores
// ANSI escapes, unlike len.
func padLine(styled string, width int) string {
	pad := width - lipgloss.Width(styled)
	if pad > 0 {
		styled += strings.Repeat(" ", pad)
	}
	return styled
}

// flushGrid writes the playfield rows, grouping runs of identically styled
// cells so each row costs a handful of escape sequences instead of one per
// glyph.
func (r *Renderer) flushGrid(b *strings.Builder) {
	fh := r.fieldHeight()
	for y := 0; y < fh; y++ {
		row := r.grid[y*r.width : (y+1)*r.width]
		var run strings.Builder
		var runStyle *lipgloss.Style
		flush := func() {
			if run.Len() == 0 {
				return
			}
			if runStyle != nil {
				b.WriteString(runStyle.Render(run.String()))
			} else {
				b.WriteString(run.String())
			}
			run.Reset()
		}
		for _, c := range row {
			if c.style != runStyle {
				flush()
				runStyle = c.style
			}
			run.WriteRune(c.r)
		}
		flush()
		if y < fh-1 {
			b.WriteByte('\n')
		}
	}
}

func max32(v, floor int32) int32 {
	if v < floor {
		return floor
	}
	return v
}
