/*
 * plot.go, part of topmodel
 *
 * Copyright 2025 Raul Mera A. (rmeraaatacademicosdotutadotcl)
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 */

// Package chemplot draws simple plots of per-atom properties of structural models,
// such as the deviations between two models.
package chemplot

import (
	"fmt"
	"image/color"
	"math"

	chem "github.com/rmera/topmodel"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// Size of the saved plots.
const (
	Width  = 6 * vg.Inch
	Height = 4 * vg.Inch
)

func basicPlot(title, xlabel, ylabel string) *plot.Plot {
	p := plot.New()
	p.Title.Padding = 3 * vg.Millimeter
	p.Title.Text = title
	p.X.Label.Text = xlabel
	p.Y.Label.Text = ylabel
	p.Add(plotter.NewGrid())
	return p
}

// Profile plots values against their indexes as a line and saves the plot to filename.
// The format is taken from the extension of filename (png, svg, pdf, eps, jpg...).
func Profile(values []float64, title, xlabel, ylabel, filename string) error {
	if len(values) == 0 {
		return fmt.Errorf("Profile: Given no data")
	}
	p := basicPlot(title, xlabel, ylabel)
	l, err := plotter.NewLine(xys(values, 0))
	if err != nil {
		return fmt.Errorf("Profile: %w", err)
	}
	p.Add(l)
	if err := p.Save(Width, Height, filename); err != nil {
		return fmt.Errorf("Profile: %w", err)
	}
	return nil
}

// DeviationPlot plots the distance between each atom of m and the same atom in ref, after
// superimposing m on ref if fit is true. Each chain is drawn as a line of a different color.
// The plot is saved to filename.
func DeviationPlot(m, ref chem.Modeler, fit bool, filename string) error {
	mod := m.Model()
	if mod == nil || ref.Model() == nil {
		return fmt.Errorf("DeviationPlot: Given a nil model")
	}
	devs, err := mod.Deviations(ref, fit)
	if err != nil {
		return fmt.Errorf("DeviationPlot: %w", err)
	}
	title := fmt.Sprintf("%s vs %s", mod.Code(), ref.Model().Code())
	if fit {
		title += " (fitted)"
	}
	p := basicPlot(title, "Atom", "Deviation (A)")
	chains := mod.ChainIndex()
	for i, start := range chains {
		end := len(devs)
		if i < len(chains)-1 {
			end = chains[i+1]
		}
		l, err := plotter.NewLine(xys(devs[start:end], start))
		if err != nil {
			return fmt.Errorf("DeviationPlot: %w", err)
		}
		l.LineStyle.Color = colors(i, len(chains))
		l.LineStyle.Width = vg.Points(1)
		p.Add(l)
		name := mod.Atom(start).Chain
		if name == "" {
			name = "-"
		}
		p.Legend.Add("Chain "+name, l)
	}
	if err := p.Save(Width, Height, filename); err != nil {
		return fmt.Errorf("DeviationPlot: %w", err)
	}
	return nil
}

// xys returns the points (offset+i, values[i]).
func xys(values []float64, offset int) plotter.XYs {
	pts := make(plotter.XYs, len(values))
	for i, v := range values {
		pts[i].X = float64(i + offset)
		pts[i].Y = v
	}
	return pts
}

// colors returns one of steps colors spread over the hue circle.
func colors(key, steps int) color.RGBA {
	norm := 260.0 / float64(steps)
	hp := (float64(key) * norm) + 20.0
	var h float64
	if hp < 55 {
		h = hp - 20.0
	} else {
		h = hp + 20.0
	}
	r, g, b := iHVS2RGB(h, 1.0, 1.0)
	return color.RGBA{R: r, G: g, B: b, A: 255}
}

// takes hue (0-360), v and s (0-1), returns r,g,b (0-255)
func iHVS2RGB(h, v, s float64) (uint8, uint8, uint8) {
	var i, f, p, q, t float64
	var r, g, b float64
	maxcolor := 255.0
	conversion := maxcolor * v
	if s == 0.0 {
		return uint8(conversion), uint8(conversion), uint8(conversion)
	}
	h = h / 60
	i = math.Floor(h)
	f = h - i
	p = v * (1 - s)
	q = v * (1 - s*f)
	t = v * (1 - s*(1-f))
	switch int(i) {
	case 0:
		r, g, b = v, t, p
	case 1:
		r, g, b = q, v, p
	case 2:
		r, g, b = p, v, t
	case 3:
		r, g, b = p, q, v
	case 4:
		r, g, b = t, p, v
	default: //case 5
		r, g, b = v, p, q
	}
	return uint8(r * conversion), uint8(g * conversion), uint8(b * conversion)
}
