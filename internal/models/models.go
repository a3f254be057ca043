package models

import "encoding/xml"

// Namespaces used in the 3MF package
const (
	CoreNamespace       = "http://schemas.microsoft.com/3dmanufacturing/core/2015/02"
	ProductionNamespace = "http://schemas.microsoft.com/3dmanufacturing/production/2015/06"
	BambuNamespace      = "http://schemas.bambulab.com/package/2021"
)

// Model represents a 3MF model structure
type Model struct {
	XMLName            xml.Name   `xml:"model"`
	Unit               string     `xml:"unit,attr"`
	Lang               string     `xml:"xml:lang,attr,omitempty"`
	Xmlns              string     `xml:"xmlns,attr"`
	XmlnsP             string     `xml:"xmlns:p,attr,omitempty"`
	XmlnsBambuStudio   string     `xml:"xmlns:BambuStudio,attr,omitempty"`
	RequiredExtensions string     `xml:"requiredextensions,attr,omitempty"`
	Metadata           []Metadata `xml:"metadata"`
	Resources          Resources  `xml:"resources"`
	Build              Build      `xml:"build"`
}

type Metadata struct {
	Name  string `xml:"name,attr"`
	Value string `xml:",chardata"`
}

type Resources struct {
	BaseMaterials *BaseMaterials `xml:"basematerials"`
	Objects       []Object       `xml:"object"`
}

// BaseMaterials is the color table referenced by triangle pid/p1 attributes
type BaseMaterials struct {
	ID    string `xml:"id,attr"`
	Bases []Base `xml:"base"`
}

type Base struct {
	Name         string `xml:"name,attr"`
	DisplayColor string `xml:"displaycolor,attr"`
}

type Object struct {
	ID     string `xml:"id,attr"`
	Name   string `xml:"name,attr,omitempty"`
	Type   string `xml:"type,attr"`
	UUID   string `xml:"p:UUID,attr,omitempty"`
	PID    string `xml:"pid,attr,omitempty"`
	PIndex string `xml:"pindex,attr,omitempty"`
	Mesh   *Mesh  `xml:"mesh"`
}

// Mesh holds pre-rendered vertex and triangle XML
type Mesh struct {
	Vertices  *Vertices  `xml:"vertices"`
	Triangles *Triangles `xml:"triangles"`
}

type Vertices struct {
	RawContent string `xml:",innerxml"`
}

type Triangles struct {
	RawContent string `xml:",innerxml"`
}

type Build struct {
	UUID  string `xml:"p:UUID,attr,omitempty"`
	Items []Item `xml:"item"`
}

type Item struct {
	ObjectID  string `xml:"objectid,attr"`
	Transform string `xml:"transform,attr,omitempty"`
	UUID      string `xml:"p:UUID,attr,omitempty"`
	Printable string `xml:"printable,attr,omitempty"`
}
