// Package schema loads the two static trees that drive SchemaDrivenDecoder:
// FrameDefinition (MAC header layout) and CommandClassCatalog (command
// class / command / parameter trees). Both are loaded once at process
// start from embedded XML descriptor resources and are thereafter
// immutable.
package schema

import (
	"embed"
	"encoding/xml"
	"fmt"
)

//go:embed descriptors/*.xml
var descriptors embed.FS

// BaseHeaderParam is a bit-width parameter of a BaseHeader. Parameters may
// themselves have sub-parameters extracted by shifting within the parent
// byte (little-endian bit ordering, bit 0 = least-significant bit).
type BaseHeaderParam struct {
	Name string            `xml:"Name,attr"`
	Bits string            `xml:"Bits,attr"`
	Sub  []BaseHeaderParam `xml:"Param"`
}

// BaseHeader is a base header keyed by numeric id ("0" = classic Z-Wave).
type BaseHeader struct {
	Key   string            `xml:"Key,attr"`
	Name  string            `xml:"Name,attr"`
	Param []BaseHeaderParam `xml:"Param"`
}

// HeaderParam is a byte-width parameter of a per-header-type Header.
type HeaderParam struct {
	Name string `xml:"Name,attr"`
	Text string `xml:"Text,attr"`
	Bits string `xml:"Bits,attr"`
}

// Header is a per-header-type variant selected by the base header's
// extracted HeaderType field.
type Header struct {
	Name  string        `xml:"Name,attr"`
	Param []HeaderParam `xml:"Param"`
}

// Define is one (key, name) pair of a DefineSet enumeration.
type Define struct {
	Key  string `xml:"Key,attr"`
	Name string `xml:"Name,attr"`
}

// DefineSet maps an enumeration identifier (e.g. "HeaderType") to its
// (key, name) pairs.
type DefineSet struct {
	Name   string   `xml:"Name,attr"`
	Define []Define `xml:"Define"`
}

// FrameDefinition is the MAC header schema tree.
type FrameDefinition struct {
	XMLName    xml.Name     `xml:"FrameDefinition"`
	BaseHeader []BaseHeader `xml:"BaseHeader"`
	Header     []Header     `xml:"Header"`
	DefineSet  []DefineSet  `xml:"DefineSet"`
}

// HeaderTypeName resolves a numeric HeaderType value to its define-set
// name, or "Unknown" if unrecognized.
func (fd *FrameDefinition) HeaderTypeName(headerType uint8) string {
	for _, ds := range fd.DefineSet {
		if ds.Name != "HeaderType" {
			continue
		}
		for _, d := range ds.Define {
			key, err := parseHexOrDec(d.Key)
			if err != nil {
				continue
			}
			if key == headerType {
				return d.Name
			}
		}
	}
	return "Unknown"
}

// BaseHeaderByKey finds a base header by its key (e.g. "0" for classic
// Z-Wave).
func (fd *FrameDefinition) BaseHeaderByKey(key string) (*BaseHeader, bool) {
	for i := range fd.BaseHeader {
		if fd.BaseHeader[i].Key == key {
			return &fd.BaseHeader[i], true
		}
	}
	return nil, false
}

// HeaderByName finds a Header whose Name matches (case-sensitive; callers
// upper-case the HeaderType name first, per the decoder contract).
func (fd *FrameDefinition) HeaderByName(name string) (*Header, bool) {
	for i := range fd.Header {
		if fd.Header[i].Name == name {
			return &fd.Header[i], true
		}
	}
	return nil, false
}

// CmdParam is one parameter of a Command. ParamType carries the richer
// schema types (variant, bitmask, bitfield, fieldenum, const, arrayattrib)
// verbatim even though the current ZWaveMacDecoder renders anything other
// than BYTE as an opaque Bytes field.
type CmdParam struct {
	Name      string `xml:"name,attr"`
	ParamType string `xml:"type,attr"`
}

// VariantGroup is a named group of variant-length parameters; forwarded to
// the decoder as an opaque field, never expanded.
type VariantGroup struct {
	Name string `xml:"name,attr"`
}

// Cmd is a Command keyed by 8-bit id. Its children are Params and
// VariantGroups. encoding/xml cannot preserve exact interleaving of two
// differently-named repeated elements, so Params and VariantGroups are
// captured as two ordered lists rather than one interleaved sequence; the
// decoder consumes Params in order, which is all ZWaveMacDecoder needs.
type Cmd struct {
	Key           string         `xml:"key,attr"`
	Name          string         `xml:"name,attr"`
	Help          string         `xml:"help,attr"`
	Param         []CmdParam     `xml:"param"`
	VariantGroups []VariantGroup `xml:"variant_group"`
}

// CmdClass is a Z-Wave Command Class keyed by 8-bit id and semantic version.
type CmdClass struct {
	Key     string `xml:"key,attr"`
	Version string `xml:"version,attr"`
	Name    string `xml:"name,attr"`
	Help    string `xml:"help,attr"`
	Cmd     []Cmd  `xml:"cmd"`
}

// CommandClassCatalog is the Command Class / Command / Parameter schema
// tree.
type CommandClassCatalog struct {
	XMLName  xml.Name   `xml:"ZWClasses"`
	CmdClass []CmdClass `xml:"cmd_class"`
}

// ByID finds a CmdClass by its numeric id.
func (c *CommandClassCatalog) ByID(id uint8) (*CmdClass, bool) {
	for i := range c.CmdClass {
		key, err := parseHexOrDec(c.CmdClass[i].Key)
		if err != nil {
			continue
		}
		if key == id {
			return &c.CmdClass[i], true
		}
	}
	return nil, false
}

// ByID finds a Cmd by its numeric id within a CmdClass.
func (cc *CmdClass) ByID(id uint8) (*Cmd, bool) {
	for i := range cc.Cmd {
		key, err := parseHexOrDec(cc.Cmd[i].Key)
		if err != nil {
			continue
		}
		if key == id {
			return &cc.Cmd[i], true
		}
	}
	return nil, false
}

func parseHexOrDec(s string) (uint8, error) {
	var v uint
	s = trimHexPrefix(s)
	_, err := fmt.Sscanf(s, "%x", &v)
	return uint8(v), err
}

func trimHexPrefix(s string) string {
	if len(s) > 1 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
		return s[2:]
	}
	return s
}

// Model holds both schema trees, constructed once and shared read-only for
// the process lifetime.
type Model struct {
	FrameDefinition *FrameDefinition
	CommandClasses  *CommandClassCatalog
}

// Load parses the embedded descriptor resources into a Model.
func Load() (*Model, error) {
	fdBytes, err := descriptors.ReadFile("descriptors/frame_definition.xml")
	if err != nil {
		return nil, fmt.Errorf("schema: read frame definition: %w", err)
	}
	var fd FrameDefinition
	if err := xml.Unmarshal(fdBytes, &fd); err != nil {
		return nil, fmt.Errorf("schema: parse frame definition: %w", err)
	}

	ccBytes, err := descriptors.ReadFile("descriptors/command_classes.xml")
	if err != nil {
		return nil, fmt.Errorf("schema: read command class catalog: %w", err)
	}
	var cc CommandClassCatalog
	if err := xml.Unmarshal(ccBytes, &cc); err != nil {
		return nil, fmt.Errorf("schema: parse command class catalog: %w", err)
	}

	return &Model{FrameDefinition: &fd, CommandClasses: &cc}, nil
}
