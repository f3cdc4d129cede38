// Package weightplot summarizes vertex group weights and renders a
// histogram per group.
package weightplot

import (
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"regexp"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/banshee-data/skinweights/internal/mesh"
	"github.com/banshee-data/skinweights/internal/monitoring"
	"github.com/banshee-data/skinweights/internal/vgroup"
)

// Bins is the number of histogram bins over [0, 1].
const Bins = 20

// Summary describes one group's assigned weights.
type Summary struct {
	Group    string
	Assigned int
	Mean     float64
	Min      float64
	Max      float64
}

// Summarize returns a summary per group in host order. Groups without
// assignments report zero statistics.
func Summarize(obj *mesh.Object) []Summary {
	groups := obj.Groups.Groups()
	out := make([]Summary, 0, len(groups))
	for _, g := range groups {
		w := assigned(obj.Groups, g.ID)
		s := Summary{Group: g.Name, Assigned: len(w)}
		if len(w) > 0 {
			s.Mean = stat.Mean(w, nil)
			s.Min = floats.Min(w)
			s.Max = floats.Max(w)
		}
		out = append(out, s)
	}
	return out
}

func assigned(s vgroup.Store, g vgroup.GroupID) []float64 {
	members := s.Members(g)
	w := make([]float64, 0, len(members))
	for _, v := range members {
		x, _ := s.Weight(v, g)
		w = append(w, x)
	}
	return w
}

var unsafeChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// FileName returns the PNG file name used for a group's histogram.
func FileName(object, group string) string {
	return fmt.Sprintf("%s_%s.png", unsafeChars.ReplaceAllString(object, "_"), unsafeChars.ReplaceAllString(group, "_"))
}

// SaveHistograms writes one weight histogram PNG per non-empty group of
// obj into outDir and returns the written paths.
func SaveHistograms(obj *mesh.Object, outDir string) ([]string, error) {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output dir: %w", err)
	}

	var written []string
	for _, g := range obj.Groups.Groups() {
		w := assigned(obj.Groups, g.ID)
		if len(w) == 0 {
			monitoring.Logf("weightplot: skipping empty group %q", g.Name)
			continue
		}

		p := plot.New()
		p.Title.Text = fmt.Sprintf("%s / %s (%d vertices)", obj.Name, g.Name, len(w))
		p.X.Label.Text = "Weight"
		p.Y.Label.Text = "Vertices"
		p.X.Min = 0
		p.X.Max = 1

		h, err := plotter.NewHist(plotter.Values(w), Bins)
		if err != nil {
			return written, fmt.Errorf("histogram for %q: %w", g.Name, err)
		}
		h.FillColor = color.RGBA{R: 70, G: 130, B: 180, A: 255}
		h.LineStyle.Width = vg.Points(0.5)
		p.Add(h)

		file := filepath.Join(outDir, FileName(obj.Name, g.Name))
		if err := p.Save(8*vg.Inch, 4*vg.Inch, file); err != nil {
			return written, fmt.Errorf("failed to save %s: %w", file, err)
		}
		written = append(written, file)
	}
	monitoring.Logf("weightplot: wrote %d histograms to %s", len(written), outDir)
	return written, nil
}
