// Package urdf renders an expanded skeleton as a URDF robot description.
//
// Every node becomes a cylinder link. Every non-root node also gets a
// revolute joint to its parent; since parents precede children in the
// skeleton, the joint list is emitted in a single pass.
package urdf

import (
	"encoding/xml"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/pthm-cable/morphogen/morphology"
)

// Options holds the constants the skeleton does not encode.
type Options struct {
	RobotName     string
	JointEffort   float64
	JointVelocity float64
	JointLimit    float64 // symmetric lower/upper bound in radians
	Inertia       float64 // diagonal inertia tensor entry
}

// DefaultOptions returns the constants used when no configuration is given.
func DefaultOptions() Options {
	return Options{
		RobotName:     "Creature",
		JointEffort:   1,
		JointVelocity: 1,
		JointLimit:    3.1415,
		Inertia:       0.03,
	}
}

type robot struct {
	XMLName xml.Name `xml:"robot"`
	Name    string   `xml:"name,attr"`
	Links   []link   `xml:"link"`
	Joints  []joint  `xml:"joint"`
}

type link struct {
	Name      string   `xml:"name,attr"`
	Visual    geometry `xml:"visual>geometry"`
	Collision geometry `xml:"collision>geometry"`
	Inertial  inertial `xml:"inertial"`
}

type geometry struct {
	Cylinder cylinder `xml:"cylinder"`
}

type cylinder struct {
	Length string `xml:"length,attr"`
	Radius string `xml:"radius,attr"`
}

type inertial struct {
	Mass    valueAttr `xml:"mass"`
	Inertia inertia   `xml:"inertia"`
}

type valueAttr struct {
	Value string `xml:"value,attr"`
}

type inertia struct {
	IXX string `xml:"ixx,attr"`
	IYY string `xml:"iyy,attr"`
	IZZ string `xml:"izz,attr"`
	IXY string `xml:"ixy,attr"`
	IXZ string `xml:"ixz,attr"`
	IYZ string `xml:"iyz,attr"`
}

type joint struct {
	Name   string  `xml:"name,attr"`
	Type   string  `xml:"type,attr"`
	Parent linkRef `xml:"parent"`
	Child  linkRef `xml:"child"`
	Axis   xyzAttr `xml:"axis"`
	Limit  limit   `xml:"limit"`
	Origin origin  `xml:"origin"`
}

type linkRef struct {
	Link string `xml:"link,attr"`
}

type xyzAttr struct {
	XYZ string `xml:"xyz,attr"`
}

type limit struct {
	Effort   string `xml:"effort,attr"`
	Lower    string `xml:"lower,attr"`
	Upper    string `xml:"upper,attr"`
	Velocity string `xml:"velocity,attr"`
}

type origin struct {
	RPY string `xml:"rpy,attr"`
	XYZ string `xml:"xyz,attr"`
}

func ftoa(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func triple(a, b, c float64) string {
	return strings.Join([]string{ftoa(a), ftoa(b), ftoa(c)}, " ")
}

// Axis returns the joint axis selected by the joint-axis channel.
func Axis(v float64) string {
	switch {
	case v <= 0.33:
		return "1 0 0"
	case v <= 0.66:
		return "0 1 0"
	default:
		return "0 0 1"
	}
}

// LinkMass returns the mass of a unit-density cylinder link.
func LinkMass(n morphology.Node) float64 {
	return math.Pi * n.Radius * n.Radius * n.Length
}

func newLink(n morphology.Node, opts Options) link {
	geom := geometry{Cylinder: cylinder{Length: ftoa(n.Length), Radius: ftoa(n.Radius)}}
	diag := ftoa(opts.Inertia)
	return link{
		Name:      n.Name,
		Visual:    geom,
		Collision: geom,
		Inertial: inertial{
			Mass:    valueAttr{Value: ftoa(LinkMass(n))},
			Inertia: inertia{IXX: diag, IYY: diag, IZZ: diag, IXY: "0", IXZ: "0", IYZ: "0"},
		},
	}
}

func newJoint(n morphology.Node, opts Options) joint {
	return joint{
		Name:   n.Name + "_to_" + n.ParentName,
		Type:   "revolute",
		Parent: linkRef{Link: n.ParentName},
		Child:  linkRef{Link: n.Name},
		Axis:   xyzAttr{XYZ: Axis(n.JointAxis)},
		Limit: limit{
			Effort:   ftoa(opts.JointEffort),
			Lower:    ftoa(-opts.JointLimit),
			Upper:    ftoa(opts.JointLimit),
			Velocity: ftoa(opts.JointVelocity),
		},
		// Repeated siblings rotate about the first axis so they fan out.
		Origin: origin{
			RPY: triple(n.OriginRPY[0]*float64(n.SiblingIndex), n.OriginRPY[1], n.OriginRPY[2]),
			XYZ: triple(n.OriginXYZ[0], n.OriginXYZ[1], n.OriginXYZ[2]),
		},
	}
}

// Encode writes the URDF document for an expanded skeleton to w.
func Encode(w io.Writer, expanded []morphology.Node, opts Options) error {
	if err := morphology.Validate(expanded); err != nil {
		return fmt.Errorf("urdf: %w", err)
	}

	r := robot{
		Name:   opts.RobotName,
		Links:  make([]link, 0, len(expanded)),
		Joints: make([]joint, 0, len(expanded)-1),
	}
	for _, n := range expanded {
		r.Links = append(r.Links, newLink(n, opts))
	}
	for _, n := range expanded[1:] {
		r.Joints = append(r.Joints, newJoint(n, opts))
	}

	if _, err := io.WriteString(w, xml.Header); err != nil {
		return fmt.Errorf("urdf: %w", err)
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(r); err != nil {
		return fmt.Errorf("urdf: encoding robot: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("urdf: %w", err)
	}
	_, err := io.WriteString(w, "\n")
	return err
}

// Marshal returns the URDF document for an expanded skeleton.
func Marshal(expanded []morphology.Node, opts Options) ([]byte, error) {
	var sb strings.Builder
	if err := Encode(&sb, expanded, opts); err != nil {
		return nil, err
	}
	return []byte(sb.String()), nil
}
