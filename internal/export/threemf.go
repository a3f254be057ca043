package export

import (
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/philipparndt/layerprint/internal/archive"
	"github.com/philipparndt/layerprint/internal/geometry"
	"github.com/philipparndt/layerprint/internal/models"
	"github.com/philipparndt/layerprint/internal/threemf"
)

// ThreeMfOptions controls optional parts of the 3MF package
type ThreeMfOptions struct {
	// UUIDs adds deterministic production extension UUIDs
	UUIDs bool
	// Bed centers the build items on the given bed when set
	Bed *models.BedConfig
	// Bambu adds Bambu Studio project settings assigning one extruder per layer
	Bambu bool
	// Date is recorded as creation date in Bambu metadata; zero omits it
	Date time.Time
}

// ExportThreeMf writes all layers into a single 3MF package
func ExportThreeMf(layers []*geometry.StackedLayer, baseName string) ([]byte, error) {
	return ExportThreeMfWith(layers, baseName, ThreeMfOptions{})
}

// ExportThreeMfWith writes all layers into a single 3MF package using opts
func ExportThreeMfWith(layers []*geometry.StackedLayer, baseName string, opts ThreeMfOptions) ([]byte, error) {
	model, settings, err := BuildThreeMfModel(layers, baseName, opts)
	if err != nil {
		return nil, err
	}

	var extra []archive.Entry
	if opts.Bambu {
		threemf.AddBambuMetadata(model, opts.Date)
		entry, err := threemf.ModelSettingsEntry(settings)
		if err != nil {
			return nil, err
		}
		extra = append(extra, entry)
	}

	data, err := threemf.NewWriter().Write(model, extra...)
	if err != nil {
		return nil, fmt.Errorf("error writing 3MF: %w", err)
	}
	return data, nil
}

// BuildThreeMfModel assembles the 3MF model document. Each layer becomes one
// object whose triangles reference the layer's entry in the base material
// table. Object ids are the layer index plus two, since id 1 belongs to the
// material table.
func BuildThreeMfModel(layers []*geometry.StackedLayer, baseName string, opts ThreeMfOptions) (*models.Model, []threemf.ObjectSettings, error) {
	layers, err := exportable(layers)
	if err != nil {
		return nil, nil, err
	}

	model := &models.Model{
		Unit:  "millimeter",
		Lang:  "en-US",
		Xmlns: models.CoreNamespace,
		Metadata: []models.Metadata{
			{Name: "Application", Value: Application},
			{Name: "Title", Value: baseName},
		},
	}
	if opts.UUIDs {
		model.XmlnsP = models.ProductionNamespace
		model.RequiredExtensions = "p"
		model.Build.UUID = stableUUID(baseName, "build")
	}

	placement := geometry.Identity()
	if opts.Bed != nil {
		placement = geometry.BedPlacement(layers, *opts.Bed)
	}

	var settings []threemf.ObjectSettings
	if len(layers) > 0 {
		model.Resources.BaseMaterials = &models.BaseMaterials{ID: strconv.Itoa(threemf.MaterialGroupID)}
	}
	for k, layer := range layers {
		id := strconv.Itoa(layer.Index + threemf.MaterialGroupID + 1)
		name := fmt.Sprintf("Layer %d", layer.Index)

		model.Resources.BaseMaterials.Bases = append(model.Resources.BaseMaterials.Bases, models.Base{
			Name:         fmt.Sprintf("Color_%d", k),
			DisplayColor: "#" + HexColor(layer.Color),
		})

		obj := models.Object{
			ID:     id,
			Name:   name,
			Type:   "model",
			PID:    strconv.Itoa(threemf.MaterialGroupID),
			PIndex: strconv.Itoa(k),
			Mesh:   threemf.BuildMeshXML(layer.Mesh, &threemf.MaterialRef{Group: threemf.MaterialGroupID, Index: k}),
		}
		item := models.Item{ObjectID: id}
		if !placement.IsIdentity() {
			item.Transform = placement.String()
		}
		if opts.UUIDs {
			obj.UUID = stableUUID(baseName, "object", id)
			item.UUID = stableUUID(baseName, "item", id)
		}

		model.Resources.Objects = append(model.Resources.Objects, obj)
		model.Build.Items = append(model.Build.Items, item)

		settings = append(settings, threemf.ObjectSettings{
			ObjectID:  id,
			Name:      name,
			Extruder:  k + 1,
			FaceCount: layer.Mesh.TriangleCount(),
			Transform: item.Transform,
		})
	}

	return model, settings, nil
}

// stableUUID derives a name based UUID so repeated exports are identical
func stableUUID(parts ...string) string {
	name := Application
	for _, p := range parts {
		name += "/" + p
	}
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(name)).String()
}
