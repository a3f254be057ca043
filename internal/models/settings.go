package models

import "encoding/xml"

// ModelSettings is the Bambu Studio Metadata/model_settings.config document
type ModelSettings struct {
	XMLName  xml.Name         `xml:"config"`
	Objects  []SettingsObject `xml:"object"`
	Plate    Plate            `xml:"plate"`
	Assemble Assemble         `xml:"assemble"`
}

type SettingsObject struct {
	ID       string             `xml:"id,attr"`
	Metadata []SettingsMetadata `xml:"metadata"`
	Parts    []Part             `xml:"part"`
}

// SettingsMetadata is a key/value pair. Bambu Studio also uses a bare
// face_count attribute on object level metadata.
type SettingsMetadata struct {
	Key       string `xml:"key,attr,omitempty"`
	Value     string `xml:"value,attr,omitempty"`
	FaceCount int    `xml:"face_count,attr,omitempty"`
}

type Part struct {
	ID       string             `xml:"id,attr"`
	Subtype  string             `xml:"subtype,attr"`
	Metadata []SettingsMetadata `xml:"metadata"`
	MeshStat MeshStat           `xml:"mesh_stat"`
}

type MeshStat struct {
	FaceCount int `xml:"face_count,attr"`
}

type Plate struct {
	Metadata       []SettingsMetadata `xml:"metadata"`
	ModelInstances []ModelInstance    `xml:"model_instance"`
}

type ModelInstance struct {
	Metadata []SettingsMetadata `xml:"metadata"`
}

type Assemble struct {
	Items []AssembleItem `xml:"assemble_item"`
}

type AssembleItem struct {
	ObjectID   string `xml:"object_id,attr"`
	InstanceID string `xml:"instance_id,attr"`
	Transform  string `xml:"transform,attr"`
	Offset     string `xml:"offset,attr"`
}
