// Package urdf parses Unified Robot Description Format files into kinematic model configurations.
package urdf

import (
	"encoding/xml"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"

	"github.com/tek2222/jsrob/kinematics"
)

// Extension is the file extension associated with URDF files.
const Extension = "urdf"

// config mirrors the supported fields of a URDF robot element.
type config struct {
	XMLName xml.Name `xml:"robot"`
	Name    string   `xml:"name,attr"`
	Links   []link   `xml:"link"`
	Joints  []joint  `xml:"joint"`
}

type link struct {
	XMLName xml.Name `xml:"link"`
	Name    string   `xml:"name,attr"`
	Visual  []visual `xml:"visual"`
}

type visual struct {
	Origin   *pose    `xml:"origin,omitempty"`
	Geometry geometry `xml:"geometry"`
}

type geometry struct {
	Mesh *mesh `xml:"mesh,omitempty"`
}

type mesh struct {
	Filename string `xml:"filename,attr"`
}

type joint struct {
	XMLName xml.Name `xml:"joint"`
	Name    string   `xml:"name,attr"`
	Type    string   `xml:"type,attr"`
	Parent  frame    `xml:"parent"`
	Child   frame    `xml:"child"`
	Origin  *pose    `xml:"origin,omitempty"`
	Axis    *axis    `xml:"axis,omitempty"`
	Limit   *limit   `xml:"limit,omitempty"`
}

type frame struct {
	Link string `xml:"link,attr"`
}

type pose struct {
	XYZ string `xml:"xyz,attr"`
	RPY string `xml:"rpy,attr"` // stored as radians
}

type axis struct {
	XYZ string `xml:"xyz,attr"`
}

type limit struct {
	Lower float64 `xml:"lower,attr"` // radians for revolute joints, length units for prismatic
	Upper float64 `xml:"upper,attr"`
}

// ParseFile reads a URDF file and builds the kinematic model it describes. If modelName is empty
// the name declared in the file is kept.
func ParseFile(filename, modelName string) (*kinematics.Model, error) {
	//nolint:gosec
	xmlData, err := os.ReadFile(filename)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read URDF file")
	}
	cfg, err := ConvertToConfig(xmlData, modelName)
	if err != nil {
		return nil, err
	}
	return kinematics.NewModel(cfg)
}

// ConvertToConfig transfers URDF XML data into an equivalent kinematics.ModelConfig. Units are
// kept as declared in the file, meters and radians, so that poses computed from the model line up
// with what a renderer consuming the same file displays.
func ConvertToConfig(xmlData []byte, modelName string) (*kinematics.ModelConfig, error) {
	// empty data probably means that the read URDF has no actionable information
	if len(xmlData) == 0 {
		return nil, kinematics.ErrNoModelInformation
	}

	urdf := &config{}
	if err := xml.Unmarshal(xmlData, urdf); err != nil {
		return nil, errors.Wrap(err, "failed to convert URDF data to equivalent config struct")
	}

	if modelName == "" {
		modelName = urdf.Name
	}

	mc := &kinematics.ModelConfig{Name: modelName}

	for _, linkElem := range urdf.Links {
		lc := kinematics.LinkConfig{ID: linkElem.Name}
		if len(linkElem.Visual) > 0 {
			vis := linkElem.Visual[0]
			vc := &kinematics.VisualConfig{Origin: originConfig(vis.Origin)}
			if vis.Geometry.Mesh != nil {
				vc.Mesh = vis.Geometry.Mesh.Filename
			}
			lc.Visual = vc
		}
		mc.Links = append(mc.Links, lc)
	}

	for _, jointElem := range urdf.Joints {
		jc := kinematics.JointConfig{
			ID:     jointElem.Name,
			Type:   kinematics.JointType(jointElem.Type),
			Parent: jointElem.Parent.Link,
			Child:  jointElem.Child.Link,
			Origin: originConfig(jointElem.Origin),
		}
		if jointElem.Axis != nil {
			if xyz := spaceDelimitedStringToFloats(jointElem.Axis.XYZ); len(xyz) == 3 {
				jc.Axis = &kinematics.AxisConfig{xyz[0], xyz[1], xyz[2]}
			}
		}
		// Continuous joints have no limit element; revolute and prismatic joints without one
		// are left unbounded, which the model tolerates.
		if jointElem.Limit != nil {
			jc.Limit = &kinematics.LimitConfig{Lower: jointElem.Limit.Lower, Upper: jointElem.Limit.Upper}
		}
		mc.Joints = append(mc.Joints, jc)
	}

	return mc, nil
}

// originConfig converts an optional URDF origin element. Missing elements and missing attributes
// default to zero, i.e. the identity transform.
func originConfig(p *pose) *kinematics.OriginConfig {
	if p == nil {
		return nil
	}
	oc := &kinematics.OriginConfig{}
	if xyz := spaceDelimitedStringToFloats(p.XYZ); len(xyz) == 3 {
		oc.XYZ = r3.Vector{X: xyz[0], Y: xyz[1], Z: xyz[2]}
	}
	if rpy := spaceDelimitedStringToFloats(p.RPY); len(rpy) == 3 {
		oc.RPY = [3]float64{rpy[0], rpy[1], rpy[2]}
	}
	return oc
}

// spaceDelimitedStringToFloats splits up space-delimited fields such as xyz or rpy attributes.
func spaceDelimitedStringToFloats(s string) []float64 {
	var converted []float64
	for _, value := range strings.Fields(s) {
		parsed, err := strconv.ParseFloat(value, 64)
		if err != nil {
			parsed = math.NaN()
		}
		converted = append(converted, parsed)
	}
	return converted
}
