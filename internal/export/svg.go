package export

import (
	"encoding/xml"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/philipparndt/layerprint/internal/models"
)

// ContentTypeSVG is the content type of vector layer files
const ContentTypeSVG = "image/svg+xml"

const svgNamespace = "http://www.w3.org/2000/svg"

// silhouetteFill is the color every layer takes in the background file
const silhouetteFill = "#000000"

type svgDocument struct {
	XMLName xml.Name  `xml:"svg"`
	Xmlns   string    `xml:"xmlns,attr"`
	Width   int       `xml:"width,attr"`
	Height  int       `xml:"height,attr"`
	ViewBox string    `xml:"viewBox,attr"`
	Desc    string    `xml:"desc,omitempty"`
	Paths   []svgPath `xml:"path"`
}

type svgPath struct {
	Fill     string `xml:"fill,attr"`
	Opacity  string `xml:"fill-opacity,attr,omitempty"`
	FillRule string `xml:"fill-rule,attr"`
	D        string `xml:"d,attr"`
}

// ExportSvg writes the traced layers as flat vector files: a background
// silhouette with every layer in black, named <base>_layer_background.svg,
// and one <base>_layer<n>.svg per visible layer with n counted from one.
// The image is written in its own pixel space.
func ExportSvg(img *models.TracedImage, visible []int, baseName string) ([]File, error) {
	if img == nil {
		return nil, errors.New("no traced image")
	}

	all := make([]int, len(img.Layers))
	for i := range all {
		all[i] = i
	}
	background, err := layerSVG(img, all, func(models.PaletteColor) (string, string) {
		return silhouetteFill, ""
	})
	if err != nil {
		return nil, err
	}
	files := []File{{
		Name:        baseName + "_layer_background.svg",
		ContentType: ContentTypeSVG,
		Data:        background,
	}}

	for _, idx := range visible {
		if idx < 0 || idx >= len(img.Layers) {
			continue
		}
		data, err := layerSVG(img, []int{idx}, paletteFill)
		if err != nil {
			return nil, err
		}
		files = append(files, File{
			Name:        fmt.Sprintf("%s_layer%d.svg", baseName, idx+1),
			ContentType: ContentTypeSVG,
			Data:        data,
		})
	}
	return files, nil
}

func paletteFill(c models.PaletteColor) (fill, opacity string) {
	if c.A < 255 {
		opacity = strconv.FormatFloat(float64(c.A)/255, 'f', 3, 64)
	}
	return "#" + c.Hex(), opacity
}

func layerSVG(img *models.TracedImage, layers []int, fill func(models.PaletteColor) (string, string)) ([]byte, error) {
	doc := svgDocument{
		Xmlns:   svgNamespace,
		Width:   img.Width,
		Height:  img.Height,
		ViewBox: fmt.Sprintf("0 0 %d %d", img.Width, img.Height),
		Desc:    "Created with " + Application,
	}

	for _, idx := range layers {
		var color models.PaletteColor
		if idx < len(img.Palette) {
			color = img.Palette[idx]
		}
		paint, opacity := fill(color)

		paths := img.Layers[idx].Paths
		for i, path := range paths {
			if path.IsHole {
				continue
			}
			var d strings.Builder
			writePathData(&d, path)
			for _, child := range path.HoleChildren {
				if child < 0 || child >= len(paths) || child == i {
					continue
				}
				writePathData(&d, paths[child])
			}
			if d.Len() == 0 {
				continue
			}
			doc.Paths = append(doc.Paths, svgPath{Fill: paint, Opacity: opacity, FillRule: "evenodd", D: d.String()})
		}
	}

	out, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal SVG: %w", err)
	}
	return append([]byte(xml.Header), out...), nil
}

// writePathData appends one closed subpath for the segments of path
func writePathData(d *strings.Builder, path models.VectorPath) {
	if len(path.Segments) == 0 {
		return
	}
	if d.Len() > 0 {
		d.WriteByte(' ')
	}
	first := path.Segments[0]
	fmt.Fprintf(d, "M %s %s", svgNumber(first.X1), svgNumber(first.Y1))
	for _, seg := range path.Segments {
		if seg.Type == models.SegmentQuadratic {
			fmt.Fprintf(d, " Q %s %s %s %s", svgNumber(seg.X2), svgNumber(seg.Y2), svgNumber(seg.X3), svgNumber(seg.Y3))
			continue
		}
		fmt.Fprintf(d, " L %s %s", svgNumber(seg.X2), svgNumber(seg.Y2))
	}
	d.WriteString(" Z")
}

func svgNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
