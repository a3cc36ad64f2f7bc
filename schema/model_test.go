package schema

import "testing"

func TestLoadEmbeddedDescriptors(t *testing.T) {
	m, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(m.FrameDefinition.BaseHeader) == 0 {
		t.Fatal("no BaseHeader entries loaded")
	}
	if len(m.CommandClasses.CmdClass) == 0 {
		t.Fatal("no CmdClass entries loaded")
	}
}

func TestBaseHeaderByKey(t *testing.T) {
	m, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	base, ok := m.FrameDefinition.BaseHeaderByKey("0")
	if !ok {
		t.Fatal("BaseHeaderByKey(\"0\") not found")
	}
	if base.Name != "Classic Z-Wave" {
		t.Fatalf("Name = %q, want %q", base.Name, "Classic Z-Wave")
	}
	if _, ok := m.FrameDefinition.BaseHeaderByKey("99"); ok {
		t.Fatal("expected unknown key to fail")
	}
}

func TestHeaderTypeNameAndLookup(t *testing.T) {
	m, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	name := m.FrameDefinition.HeaderTypeName(0x1)
	if name != "Singlecast" {
		t.Fatalf("HeaderTypeName(0x1) = %q, want Singlecast", name)
	}
	if got := m.FrameDefinition.HeaderTypeName(0xFF); got != "Unknown" {
		t.Fatalf("HeaderTypeName(0xFF) = %q, want Unknown", got)
	}

	if _, ok := m.FrameDefinition.HeaderByName("SINGLECAST"); !ok {
		t.Fatal("HeaderByName(\"SINGLECAST\") not found")
	}
	if _, ok := m.FrameDefinition.HeaderByName("singlecast"); ok {
		t.Fatal("HeaderByName should be case-sensitive")
	}
}

func TestCommandClassCatalogLookup(t *testing.T) {
	m, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	cc, ok := m.CommandClasses.ByID(0x20)
	if !ok {
		t.Fatal("ByID(0x20) not found")
	}
	if cc.Name != "BASIC" {
		t.Fatalf("Name = %q, want BASIC", cc.Name)
	}
	cmd, ok := cc.ByID(0x01)
	if !ok || cmd.Name != "BASIC_SET" {
		t.Fatalf("cc.ByID(0x01) = %+v, ok=%v; want BASIC_SET", cmd, ok)
	}
	if _, ok := m.CommandClasses.ByID(0xEE); ok {
		t.Fatal("expected unknown command class id to fail")
	}
}
