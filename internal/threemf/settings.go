package threemf

import (
	"encoding/xml"
	"fmt"
	"strconv"
	"time"

	"github.com/philipparndt/layerprint/internal/archive"
	"github.com/philipparndt/layerprint/internal/models"
)

// SettingsPath is the Bambu Studio project settings part
const SettingsPath = "Metadata/model_settings.config"

// ObjectSettings describes one mesh object for the Bambu Studio project
// settings
type ObjectSettings struct {
	ObjectID  string
	Name      string
	Extruder  int
	FaceCount int
	Transform string
}

// ModelSettingsEntry renders the Bambu Studio model_settings.config file.
// Every object becomes a single part printed with its own extruder.
func ModelSettingsEntry(objects []ObjectSettings) (archive.Entry, error) {
	var settingsObjects []models.SettingsObject
	var modelInstances []models.ModelInstance
	var assembleItems []models.AssembleItem

	for sourceObjectID, obj := range objects {
		extruder := obj.Extruder
		if extruder < 1 {
			extruder = 1
		}

		settingsObjects = append(settingsObjects, models.SettingsObject{
			ID: obj.ObjectID,
			Metadata: []models.SettingsMetadata{
				{Key: "name", Value: obj.Name},
				{Key: "extruder", Value: strconv.Itoa(extruder)},
				{FaceCount: obj.FaceCount},
			},
			Parts: []models.Part{{
				ID:      obj.ObjectID,
				Subtype: "normal_part",
				Metadata: []models.SettingsMetadata{
					{Key: "name", Value: obj.Name},
					{Key: "matrix", Value: "1 0 0 0 0 1 0 0 0 0 1 0 0 0 0 1"},
					{Key: "source_object_id", Value: strconv.Itoa(sourceObjectID)},
					{Key: "source_volume_id", Value: "0"},
					{Key: "extruder", Value: strconv.Itoa(extruder)},
				},
				MeshStat: models.MeshStat{FaceCount: obj.FaceCount},
			}},
		})

		modelInstances = append(modelInstances, models.ModelInstance{
			Metadata: []models.SettingsMetadata{
				{Key: "object_id", Value: obj.ObjectID},
				{Key: "instance_id", Value: "0"},
				{Key: "identify_id", Value: obj.ObjectID},
			},
		})

		transform := obj.Transform
		if transform == "" {
			transform = "1 0 0 0 1 0 0 0 1 0 0 0"
		}
		assembleItems = append(assembleItems, models.AssembleItem{
			ObjectID:   obj.ObjectID,
			InstanceID: "0",
			Transform:  transform,
			Offset:     "0 0 0",
		})
	}

	settings := models.ModelSettings{
		Objects: settingsObjects,
		Plate: models.Plate{
			Metadata: []models.SettingsMetadata{
				{Key: "plater_id", Value: "1"},
				{Key: "plater_name", Value: ""},
				{Key: "locked", Value: "false"},
				{Key: "filament_map_mode", Value: "Auto For Flush"},
			},
			ModelInstances: modelInstances,
		},
		Assemble: models.Assemble{
			Items: assembleItems,
		},
	}

	settingsXML, err := xml.MarshalIndent(settings, "", "  ")
	if err != nil {
		return archive.Entry{}, fmt.Errorf("error marshaling settings XML: %w", err)
	}

	data := make([]byte, 0, len(xml.Header)+len(settingsXML))
	data = append(data, xml.Header...)
	data = append(data, settingsXML...)
	return archive.Entry{Name: SettingsPath, Data: data}, nil
}

// AddBambuMetadata adds Bambu Studio specific metadata to a model. A zero
// date leaves out the creation and modification dates.
func AddBambuMetadata(model *models.Model, date time.Time) {
	model.XmlnsBambuStudio = models.BambuNamespace

	meta := []models.Metadata{
		{Name: "BambuStudio:3mfVersion", Value: "1"},
	}
	if !date.IsZero() {
		meta = append(meta,
			models.Metadata{Name: "CreationDate", Value: date.Format("2006-01-02")},
			models.Metadata{Name: "ModificationDate", Value: date.Format("2006-01-02")},
		)
	}
	model.Metadata = append(model.Metadata, meta...)
}
