package urdf

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/golang/geo/r3"
	"go.viam.com/test"

	"github.com/tek2222/jsrob/kinematics"
	"github.com/tek2222/jsrob/spatialmath"
)

func TestConvertToConfig(t *testing.T) {
	xmlData, err := os.ReadFile(filepath.Join("testdata", "gantry_arm.urdf"))
	test.That(t, err, test.ShouldBeNil)

	cfg, err := ConvertToConfig(xmlData, "")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, cfg.Name, test.ShouldEqual, "gantry_arm")
	test.That(t, cfg.Links, test.ShouldHaveLength, 6)
	test.That(t, cfg.Joints, test.ShouldHaveLength, 5)

	// a caller-supplied name wins over the declared one
	renamed, err := ConvertToConfig(xmlData, "bench_rig")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, renamed.Name, test.ShouldEqual, "bench_rig")

	// first link carries a visual with both an origin and a mesh
	base := cfg.Links[0]
	test.That(t, base.ID, test.ShouldEqual, "base_link")
	test.That(t, base.Visual, test.ShouldNotBeNil)
	test.That(t, base.Visual.Mesh, test.ShouldEqual, "meshes/base.stl")
	test.That(t, base.Visual.Origin.XYZ, test.ShouldResemble, r3.Vector{Z: 0.05})

	// a visual without an origin keeps its mesh and defaults to identity
	carriage := cfg.Links[2]
	test.That(t, carriage.Visual.Mesh, test.ShouldEqual, "meshes/carriage.stl")
	test.That(t, carriage.Visual.Origin, test.ShouldBeNil)

	// a bare link has no visual at all
	test.That(t, cfg.Links[1].Visual, test.ShouldBeNil)

	swing := cfg.Joints[2]
	test.That(t, swing.ID, test.ShouldEqual, "swing")
	test.That(t, swing.Type, test.ShouldEqual, kinematics.JointRevolute)
	test.That(t, swing.Parent, test.ShouldEqual, "carriage")
	test.That(t, swing.Child, test.ShouldEqual, "arm")
	test.That(t, swing.Origin.XYZ, test.ShouldResemble, r3.Vector{X: 0.2})
	test.That(t, swing.Origin.RPY[2], test.ShouldAlmostEqual, 1.5708)
	test.That(t, *swing.Axis, test.ShouldResemble, kinematics.AxisConfig{0, 0, 1})
	test.That(t, swing.Limit.Lower, test.ShouldAlmostEqual, -1.5708)
	test.That(t, swing.Limit.Upper, test.ShouldAlmostEqual, 1.5708)

	// continuous joints carry no limit element
	spin := cfg.Joints[3]
	test.That(t, spin.Type, test.ShouldEqual, kinematics.JointContinuous)
	test.That(t, spin.Limit, test.ShouldBeNil)
	test.That(t, *spin.Axis, test.ShouldResemble, kinematics.AxisConfig{0, 1, 0})

	lift := cfg.Joints[1]
	test.That(t, lift.Type, test.ShouldEqual, kinematics.JointPrismatic)
	test.That(t, lift.Limit.Upper, test.ShouldAlmostEqual, 0.8)
}

func TestConvertToConfigEmptyData(t *testing.T) {
	_, err := ConvertToConfig([]byte{}, "")
	test.That(t, err, test.ShouldEqual, kinematics.ErrNoModelInformation)
	_, err = ConvertToConfig(nil, "whatever")
	test.That(t, err, test.ShouldEqual, kinematics.ErrNoModelInformation)
}

func TestConvertToConfigMalformedXML(t *testing.T) {
	_, err := ConvertToConfig([]byte("<robot name='broken'"), "")
	test.That(t, err, test.ShouldNotBeNil)
}

func TestParseFile(t *testing.T) {
	m, err := ParseFile(filepath.Join("testdata", "gantry_arm.urdf"), "")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, m.Name(), test.ShouldEqual, "gantry_arm")
	test.That(t, m.Links(), test.ShouldHaveLength, 6)
	test.That(t, m.MovableJoints(), test.ShouldHaveLength, 3)
	test.That(t, m.RootLinks(), test.ShouldResemble, []string{"base_link"})

	_, err = ParseFile(filepath.Join("testdata", "does_not_exist.urdf"), "")
	test.That(t, err, test.ShouldNotBeNil)
}

func TestParsedModelForwardKinematics(t *testing.T) {
	m, err := ParseFile(filepath.Join("testdata", "gantry_arm.urdf"), "")
	test.That(t, err, test.ShouldBeNil)
	chain, err := m.Chain("tool")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, chain, test.ShouldHaveLength, 5)

	// all joints at zero: fixed base offset, swing origin offset and yaw, arm and mount lengths.
	// The 90 degree yaw at the swing origin turns both downstream X offsets toward Y.
	pose := chain.Transform(kinematics.Configuration{}, nil)
	yaw := 1.5708
	expected := r3.Vector{
		X: 0.2 + 0.6*math.Cos(yaw),
		Y: 0.6 * math.Sin(yaw),
		Z: 0.1,
	}
	test.That(t, spatialmath.R3VectorAlmostEqual(pose.Point(), expected, 1e-6), test.ShouldBeTrue)

	// raising the lift translates the whole downstream chain along Z
	raised := chain.Transform(kinematics.Configuration{"lift": 0.5}, nil)
	test.That(t, raised.Point().Z, test.ShouldAlmostEqual, expected.Z+0.5, 1e-6)
	test.That(t, raised.Point().X, test.ShouldAlmostEqual, expected.X, 1e-6)
}

func TestSpaceDelimitedStringToFloats(t *testing.T) {
	test.That(t, spaceDelimitedStringToFloats("1 -2.5 3e-2"), test.ShouldResemble, []float64{1, -2.5, 0.03})
	test.That(t, spaceDelimitedStringToFloats("  0.1   0.2  0.3 "), test.ShouldResemble, []float64{0.1, 0.2, 0.3})
	test.That(t, spaceDelimitedStringToFloats(""), test.ShouldBeNil)

	parsed := spaceDelimitedStringToFloats("1 oops 3")
	test.That(t, parsed, test.ShouldHaveLength, 3)
	test.That(t, math.IsNaN(parsed[1]), test.ShouldBeTrue)
}
