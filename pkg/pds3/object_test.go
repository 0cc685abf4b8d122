package pds3

import "testing"

func TestParseObjectTreeUnclosedBlock(t *testing.T) {
	data := []byte("OBJECT = MISSION\nMISSION_NAME = \"X\"\n")
	if _, err := ParseObjectTree("bad.cat", data); err == nil {
		t.Error("ParseObjectTree() should reject an unclosed OBJECT block")
	}
}

func TestParseObjectTreeMismatchedEndObject(t *testing.T) {
	data := []byte("OBJECT = MISSION\nEND_OBJECT = INSTRUMENT\n")
	if _, err := ParseObjectTree("bad.cat", data); err == nil {
		t.Error("ParseObjectTree() should reject a mismatched END_OBJECT")
	}
}

func TestParseObjectTreeStripsComments(t *testing.T) {
	data := []byte("/* leading comment */\nOBJECT = MISSION\n  /* inline */ MISSION_NAME = \"X\"\nEND_OBJECT = MISSION\n")
	tree, err := ParseObjectTree("ok.cat", data)
	if err != nil {
		t.Fatalf("ParseObjectTree() error: %v", err)
	}
	missions := tree.ChildrenOf("MISSION")
	if len(missions) != 1 {
		t.Fatalf("len(missions) = %d, want 1", len(missions))
	}
	if missions[0].Property("MISSION_NAME").Str != "X" {
		t.Errorf("MISSION_NAME = %q", missions[0].Property("MISSION_NAME").Str)
	}
}

func TestInstrumentAcceptsAlias(t *testing.T) {
	data := []byte(`OBJECT = INSTRUMENT
  OBJECT = INSTINFO
    INSTRUMENT_ID = "MOLA"
    INSTRUMENT_HOST_ID = "MGS"
    INSTRUMENT_NAME = "MARS ORBITER LASER ALTIMETER"
  END_OBJECT = INSTINFO
END_OBJECT = INSTRUMENT
`)
	tree, err := ParseObjectTree("inst.cat", data)
	if err != nil {
		t.Fatalf("ParseObjectTree() error: %v", err)
	}
	inst, err := ParseInstrument("inst.cat", tree)
	if err != nil {
		t.Fatalf("ParseInstrument() error: %v", err)
	}
	if inst.ID != "MOLA" || inst.HostID != "MGS" {
		t.Errorf("Instrument = %+v", inst)
	}
}

func TestInstrumentHostRequiresInformation(t *testing.T) {
	data := []byte("OBJECT = INSTRUMENT_HOST\nEND_OBJECT = INSTRUMENT_HOST\n")
	tree, err := ParseObjectTree("host.cat", data)
	if err != nil {
		t.Fatalf("ParseObjectTree() error: %v", err)
	}
	if _, err := ParseInstrumentHost("host.cat", tree); err == nil {
		t.Error("ParseInstrumentHost() should fail without INSTRUMENT_HOST_INFORMATION")
	}
}

func TestParseDataSet(t *testing.T) {
	data := []byte(`OBJECT = DATA_SET
  OBJECT = DATA_SET_INFORMATION
    DATA_SET_ID = "MGS-M-MOLA-3-PEDR-L1A-V1.0"
    DATA_SET_NAME = "MGS MOLA PEDR L1A V1.0"
  END_OBJECT = DATA_SET_INFORMATION
  OBJECT = DATA_SET_TARGET
    TARGET_NAME = "MARS"
  END_OBJECT = DATA_SET_TARGET
  OBJECT = DATA_SET_HOST
    INSTRUMENT_HOST_ID = "MGS"
  END_OBJECT = DATA_SET_HOST
  OBJECT = DATA_SET_MISSION
    MISSION_NAME = "MARS GLOBAL SURVEYOR"
  END_OBJECT = DATA_SET_MISSION
END_OBJECT = DATA_SET
`)
	tree, err := ParseObjectTree("ds.cat", data)
	if err != nil {
		t.Fatalf("ParseObjectTree() error: %v", err)
	}
	ds, err := ParseDataSet("ds.cat", tree)
	if err != nil {
		t.Fatalf("ParseDataSet() error: %v", err)
	}
	if ds.ID != "MGS-M-MOLA-3-PEDR-L1A-V1.0" || ds.HostID != "MGS" || ds.MissionID != "MARS GLOBAL SURVEYOR" {
		t.Errorf("DataSet = %+v", ds)
	}
}

func TestParseReferenceMultipleRecords(t *testing.T) {
	data := []byte(`OBJECT = REFERENCE
  REFERENCE_KEY_ID = "ZUBERETAL1992"
END_OBJECT = REFERENCE
OBJECT = REFERENCE
  REFERENCE_KEY_ID = "SMITHETAL1993"
END_OBJECT = REFERENCE
`)
	tree, err := ParseObjectTree("ref.cat", data)
	if err != nil {
		t.Fatalf("ParseObjectTree() error: %v", err)
	}
	refs, err := ParseReference("ref.cat", tree)
	if err != nil {
		t.Fatalf("ParseReference() error: %v", err)
	}
	if len(refs) != 2 {
		t.Fatalf("len(refs) = %d, want 2", len(refs))
	}
}

func TestParseObjectTreeMultiLineList(t *testing.T) {
	data := []byte(`OBJECT = DATA_SET
  OBJECT = DATA_SET_TARGET
    TARGET_NAME = (MARS,
                   PHOBOS,
                   DEIMOS)
  END_OBJECT = DATA_SET_TARGET
END_OBJECT = DATA_SET
`)
	tree, err := ParseObjectTree("ds.cat", data)
	if err != nil {
		t.Fatalf("ParseObjectTree() error: %v", err)
	}
	target := tree.ChildrenOf("DATA_SET")[0].ChildrenOf("DATA_SET_TARGET")[0]
	v := target.Property("TARGET_NAME")
	if v.Kind != ValueList {
		t.Fatalf("TARGET_NAME kind = %v, want ValueList", v.Kind)
	}
	if len(v.List) != 3 {
		t.Fatalf("len(TARGET_NAME) = %d, want 3", len(v.List))
	}
	if v.List[0].Str != "MARS" || v.List[1].Str != "PHOBOS" || v.List[2].Str != "DEIMOS" {
		t.Errorf("TARGET_NAME = %+v", v.List)
	}
}

func TestParseVolumeDescriptor(t *testing.T) {
	data := []byte(`OBJECT = VOLUME
  VOLUME_ID = "MGSL_2101"
  OBJECT = DATA_PRODUCER
    INSTITUTION_NAME = "WASHINGTON UNIVERSITY"
  END_OBJECT = DATA_PRODUCER
  OBJECT = CATALOG
    MISSION_CATALOG = "MISSION.CAT"
  END_OBJECT = CATALOG
  OBJECT = DIRECTORY
    NAME = "DATA"
    OBJECT = FILE
      FILE_NAME = "PEDR0001.DAT"
    END_OBJECT = FILE
  END_OBJECT = DIRECTORY
END_OBJECT = VOLUME
`)
	tree, err := ParseObjectTree("voldesc.cat", data)
	if err != nil {
		t.Fatalf("ParseObjectTree() error: %v", err)
	}
	vd, err := ParseVolumeDescriptor("voldesc.cat", tree)
	if err != nil {
		t.Fatalf("ParseVolumeDescriptor() error: %v", err)
	}
	if vd.VolumeID != "MGSL_2101" {
		t.Errorf("VolumeID = %q", vd.VolumeID)
	}
	if len(vd.Directories) != 1 || len(vd.Directories[0].Files) != 1 {
		t.Fatalf("Directories = %+v", vd.Directories)
	}
	if vd.Directories[0].Files[0].Name != "PEDR0001.DAT" {
		t.Errorf("file name = %q", vd.Directories[0].Files[0].Name)
	}
}
