package telemetry

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/youryharchenko/go-forager/grid"
	"github.com/youryharchenko/go-forager/memory"
)

var (
	robotColor   = color.New(color.FgBlue, color.Bold).SprintFunc()
	targetColor  = color.New(color.FgRed).SprintFunc()
	homeColor    = color.New(color.FgWhite, color.Bold).SprintFunc()
	slowColor    = color.New(color.FgYellow).SprintFunc()
	wallColor    = color.New(color.FgHiBlack).SprintFunc()
	pathColor    = color.New(color.FgCyan).SprintFunc()
	unknownColor = color.New(color.FgHiBlack).SprintFunc()

	chosenColor = color.New(color.FgGreen, color.Bold).SprintFunc()

	batteryGreen  = color.New(color.FgGreen).SprintFunc()
	batteryOrange = color.New(color.FgYellow).SprintFunc()
	batteryRed    = color.New(color.FgRed).SprintFunc()
)

// Render малює знімок пам'яті агента з позою, шляхом і панеллю стану.
func Render(w io.Writer, s Snapshot) error {
	onPath := make(map[grid.Cell]bool, len(s.Path))
	for _, c := range s.Path {
		onPath[c] = true
	}

	var b strings.Builder
	for r, row := range s.Memory {
		for c, v := range row {
			cell := grid.Cell{Row: r, Col: c}
			switch {
			case cell == s.Cell:
				b.WriteString(robotColor(arrow(s.Facing)))
			case onPath[cell] && (v == memory.Empty || v == memory.Slow):
				b.WriteString(pathColor("*"))
			default:
				b.WriteString(cellGlyph(v))
			}
		}
		b.WriteByte('\n')
	}

	fmt.Fprintf(&b, "tick %d  state %s  action %s  battery %s\n",
		s.Tick, s.State, s.Action, batteryText(s))
	fmt.Fprintf(&b, "pos %v facing %s  inventory %d  discovered %d  remaining %d\n",
		s.Cell, s.Facing, len(s.Inventory), len(s.Discovered), s.TargetsRemaining)
	renderDecisions(&b, s.Decisions)

	_, err := io.WriteString(w, b.String())
	return err
}

// renderDecisions - панель аналізу рішень: ціль, вартість, вигода.
func renderDecisions(b *strings.Builder, ds []DecisionView) {
	if len(ds) == 0 {
		return
	}
	b.WriteString("decisions:\n")
	for _, d := range ds {
		line := fmt.Sprintf("%v cost %.1f benefit %.1f", d.Target, d.Cost, d.Benefit)
		if d.Chosen {
			b.WriteString("  > " + chosenColor(line) + "\n")
			continue
		}
		b.WriteString("    " + line + "\n")
	}
}

func cellGlyph(v memory.Value) string {
	switch v {
	case memory.Unknown:
		return unknownColor("?")
	case memory.Obstacle:
		return wallColor("#")
	case memory.Target:
		return targetColor("G")
	case memory.Home:
		return homeColor("H")
	case memory.Slow:
		return slowColor("~")
	}
	return "."
}

func arrow(facing string) string {
	switch facing {
	case "north":
		return "^"
	case "west":
		return "<"
	case "south":
		return "v"
	}
	return ">"
}

// batteryText фарбує заряд: зелений понад половину, далі помаранчевий.
func batteryText(s Snapshot) string {
	text := fmt.Sprintf("%.1f/%.0f", s.Battery, s.Capacity)
	// Червоний - на порозі розряду, коли агент уже повертається додому.
	switch {
	case s.Battery <= s.LowThreshold:
		return batteryRed(text)
	case s.BatteryRatio() > 0.5:
		return batteryGreen(text)
	default:
		return batteryOrange(text)
	}
}
