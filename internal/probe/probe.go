// Copyright (c) Elliot Nunn
// Licensed under the MIT license

// Package probe implements C8, the document-type probe: a
// side-effect-free, deterministic classifier that looks at a
// document's FinderInfo, resource-fork producer signatures, and
// data-fork magic numbers to propose a closed set of format tags
// (spec §4.8). It never opens the document for real parsing; C9's
// registry decides, from the returned tags, which parser to hand the
// document to.
package probe

import (
	"encoding/binary"

	"github.com/elliotnunn/mwawgo/internal/ole2"
	"github.com/elliotnunn/mwawgo/internal/resourcefork"
)

// Tag is a closed identifier for a document format or producer. Not
// every Tag this package can return has a registered C9 parser;
// internal/parser's Lookup reports ErrNoParser for those rather than
// treating the absence as a probe failure.
type Tag string

const (
	TagUnknown          Tag = ""
	TagClarisWorks      Tag = "ClarisWorks/AppleWorks"
	TagWord6            Tag = "Microsoft Word 6"
	TagWord8            Tag = "Microsoft Word 8"
	TagWriteNow         Tag = "WriteNow"
	TagGreatWorksText   Tag = "GreatWorks-text"
	TagHanMacJ          Tag = "HanMac-J"
	TagSimpleText       Tag = "SimpleText"
	TagPlainText        Tag = "plain text"
	TagBeagleWorks      Tag = "BeagleWorks"
	TagMarinerWrite     Tag = "Mariner Write"
	TagOLEContainer     Tag = "OLE"
	TagMicrosoftWord    Tag = "Microsoft Word"
	TagPDF              Tag = "PDF"
	TagJPEG             Tag = "JPEG"
	TagFullWrite2       Tag = "FullWrite 2"
	TagActaClassic      Tag = "Acta Classic"
)

// finderInfoTable maps (creator, type) fourcc pairs to a format tag
// (spec §4.8 step 1). This is a representative slice of the ~90-entry
// table spec.md names the canonical file.cpp list for, not the whole
// thing; entries absent here fall through to steps 2/3.
var finderInfoTable = map[[2]string]Tag{
	{"BOBO", "CWWP"}: TagClarisWorks,
	{"BOBO", "CWDB"}: TagClarisWorks,
	{"BOBO", "CWSS"}: TagClarisWorks,
	{"BOBO", "CWGR"}: TagClarisWorks,
	{"MSWD", "W6BN"}: TagWord6,
	{"MSWD", "W8BN"}: TagWord8,
	{"ZEBR", "ZWRT"}: TagGreatWorksText,
	{"HMiw", "IWDC"}: TagHanMacJ,
	{"ttxt", "TEXT"}: TagSimpleText, // demoted to TagPlainText if no styl 128
	{"nX^d", "WRT+"}: TagWriteNow,
	{"nX^2", "WRT+"}: TagWriteNow,
	{"ZBWR", "ZBWD"}: TagBeagleWorks,
	{"MNRW", "MWRT"}: TagMarinerWrite,
}

// oleSuffix is the {0000-00C0-46000000} tail shared by every CLSID in
// OLEProducerByCLSID; only the leading 32 bits vary by producer (see
// OLE::getCLSIDType in the original's ole.cpp).
var oleSuffix = [12]byte{0x00, 0x00, 0x00, 0x00, 0xC0, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x46}

// oleCLSID builds the 16-byte little-endian CLSID for an OLE producer
// whose low 32 bits are first and whose high bytes are oleSuffix.
func oleCLSID(first uint32) [16]byte {
	var c [16]byte
	binary.LittleEndian.PutUint32(c[0:4], first)
	copy(c[4:16], oleSuffix[:])
	return c
}

// OLEProducerByCLSID is the CLSID->producer table spec §4.8 names
// (OLE::getCLSIDType's switch in the original's ole.cpp). FromOLE
// consults it after resolving /CompObj's embedded CLSID; the Word
// entry maps to the registered TagMicrosoftWord identifier rather
// than a plain descriptive string so scenario S1 keeps working.
var OLEProducerByCLSID = map[[16]byte]Tag{
	oleCLSID(0x00000319): "OLE file(EMH-picture?)",
	oleCLSID(0x00020906): TagMicrosoftWord,
	oleCLSID(0x00021290): "OLE file(MSClipArtGalley2)",
	oleCLSID(0x000212f0): "OLE file(MSWordArt)",
	oleCLSID(0x00021302): "OLE file(MSWorksWPDoc)",
	oleCLSID(0x00030000): "OLE file(ExcelWorksheet)",
	oleCLSID(0x00030001): "OLE file(ExcelChart)",
	oleCLSID(0x00030002): "OLE file(ExcelMacrosheet)",
	oleCLSID(0x00030003): "OLE file(WordDocument)",
	oleCLSID(0x00030004): "OLE file(MSPowerPoint)",
	oleCLSID(0x00030005): "OLE file(MSPowerPointSho)",
	oleCLSID(0x00030006): "OLE file(MSGraph)",
	oleCLSID(0x00030007): "OLE file(MSDraw)",
	oleCLSID(0x00030008): "OLE file(Note-It)",
	oleCLSID(0x00030009): "OLE file(WordArt)",
	oleCLSID(0x0003000a): "OLE file(PBrush)",
	oleCLSID(0x0003000b): "OLE file(Microsoft Equation)",
	oleCLSID(0x0003000c): "OLE file(Package)",
	oleCLSID(0x0003000d): "OLE file(SoundRec)",
	oleCLSID(0x0003000e): "OLE file(MPlayer)",
	oleCLSID(0x0003000f): "OLE file(ServerDemo)",
	oleCLSID(0x00030010): "OLE file(Srtest)",
	oleCLSID(0x00030011): "OLE file(SrtInv)",
	oleCLSID(0x00030012): "OLE file(OleDemo)",
	oleCLSID(0x00030013): "OLE file(CoromandelIntegra)",
	oleCLSID(0x00030014): "OLE file(CoromandelObjServer)",
	oleCLSID(0x00030015): "OLE file(StanfordGraphics)",
	oleCLSID(0x00030016): "OLE file(DGraphCHART)",
	oleCLSID(0x00030017): "OLE file(DGraphDATA)",
	oleCLSID(0x00030018): "OLE file(CorelPhotoPaint)",
	oleCLSID(0x00030019): "OLE file(CorelShow)",
	oleCLSID(0x0003001a): "OLE file(CorelChart)",
	oleCLSID(0x0003001b): "OLE file(CorelDraw)",
	oleCLSID(0x0003001c): "OLE file(HJWIN1.0)",
	oleCLSID(0x0003001d): "OLE file(MarkV ObjMakerOLE)",
	oleCLSID(0x0003001e): "OLE file(IdentiTech FYI)",
	oleCLSID(0x0003001f): "OLE file(IdentiTech FYIView)",
	oleCLSID(0x00030020): "OLE file(Stickynote)",
	oleCLSID(0x00030021): "OLE file(ShapewareVISIO10)",
	oleCLSID(0x00030022): "OLE file(Shapeware ImportServer)",
	oleCLSID(0x00030023): "OLE file(SrvrTest)",
	oleCLSID(0x00030025): "OLE file(Cltest)",
	oleCLSID(0x00030026): "OLE file(MS_ClipArt_Gallery)",
	oleCLSID(0x00030027): "OLE file(MSProject)",
	oleCLSID(0x00030028): "OLE file(MSWorksChart)",
	oleCLSID(0x00030029): "OLE file(MSWorksSpreadsheet)",
	oleCLSID(0x0003002a): "OLE file(MinSvr)",
	oleCLSID(0x0003002b): "OLE file(HierarchyList)",
	oleCLSID(0x0003002c): "OLE file(BibRef)",
	oleCLSID(0x0003002d): "OLE file(MinSvrMI)",
	oleCLSID(0x0003002e): "OLE file(TestServ)",
	oleCLSID(0x0003002f): "OLE file(AmiProDocument)",
	oleCLSID(0x00030030): "OLE file(WPGraphics)",
	oleCLSID(0x00030031): "OLE file(WPCharts)",
	oleCLSID(0x00030032): "OLE file(Charisma)",
	oleCLSID(0x00030033): "OLE file(Charisma_30)",
	oleCLSID(0x00030034): "OLE file(CharPres_30)",
	oleCLSID(0x00030035): "OLE file(MicroGrafx Draw)",
	oleCLSID(0x00030036): "OLE file(MicroGrafx Designer_40)",
	oleCLSID(0x000424ca): "OLE file(StarMath)",
	oleCLSID(0x00043ad2): "OLE file(Star FontWork)",
	oleCLSID(0x000456ee): "OLE file(StarMath2)",
}

// Result is everything the probe learned; multiple tags mean the
// probe is ambiguous and the caller (or C9's registry) must try each
// in turn.
type Result struct {
	Tags []Tag
}

// FromFinderInfo runs spec §4.8 step 1: a closed table lookup on the
// (creator, type) fourcc pair. styl128Present disambiguates SimpleText
// from plain text, per the spec's worked example.
func FromFinderInfo(creator, typ [4]byte, styl128Present bool) Result {
	tag, ok := finderInfoTable[[2]string{string(creator[:]), string(typ[:])}]
	if !ok {
		return Result{}
	}
	if tag == TagSimpleText && !styl128Present {
		return Result{Tags: []Tag{TagPlainText}}
	}
	return Result{Tags: []Tag{tag}}
}

// FromResourceVersions runs spec §4.8 step 2: examine 'vers' records
// for a producer signature string. This package does not maintain an
// exhaustive producer-string table; it recognizes only the handful of
// signatures distinctive enough not to collide.
func FromResourceVersions(m *resourcefork.Map) Result {
	if m == nil {
		return Result{}
	}
	for _, v := range m.GetVersionList() {
		switch {
		case contains(v.VersionString, "ClarisWorks"), contains(v.ShortString, "ClarisWorks"):
			return Result{Tags: []Tag{TagClarisWorks}}
		case contains(v.VersionString, "WriteNow"):
			return Result{Tags: []Tag{TagWriteNow}}
		}
	}
	return Result{}
}

func contains(hay, needle string) bool {
	if len(needle) == 0 || len(hay) < len(needle) {
		return false
	}
	for i := 0; i+len(needle) <= len(hay); i++ {
		if hay[i:i+len(needle)] == needle {
			return true
		}
	}
	return false
}

// FromDataFork runs spec §4.8 step 3/4: read the first ten big-endian
// u16s and test against a closed table of magic patterns, plus a
// tail-of-file check for the formats that sign their last bytes
// instead of their first.
func FromDataFork(head []byte, tail []byte) Result {
	var words [10]uint16
	n := len(head) / 2
	if n > 10 {
		n = 10
	}
	for i := 0; i < n; i++ {
		words[i] = binary.BigEndian.Uint16(head[2*i : 2*i+2])
	}

	switch {
	case len(head) >= 8 && head[0] == 0xD0 && head[1] == 0xCF && head[2] == 0x11 && head[3] == 0xE0 &&
		head[4] == 0xA1 && head[5] == 0xB1 && head[6] == 0x1A && head[7] == 0xE1:
		return Result{Tags: []Tag{TagOLEContainer}}

	case words[4] == 0x424F && words[5] == 0x424F: // "BO" "BO" at offset 8
		return Result{Tags: []Tag{TagClarisWorks}}

	case words[0] == 0x4257 && words[1] == 0x6b73 && words[2] == 0x4257 && words[4] == 0x4257:
		return Result{Tags: []Tag{TagBeagleWorks}}

	case words[0] == 0x4646 && words[1] == 0x4646 && words[2] == 0x3030 && words[3] == 0x3030:
		return Result{Tags: []Tag{TagMarinerWrite}}

	case words[0] == 0x2550 && words[1] == 0x4446:
		return Result{Tags: []Tag{TagPDF}}

	case words[0] == 0xFFD8:
		return Result{Tags: []Tag{TagJPEG}}
	}

	if len(tail) >= 4 {
		last4 := binary.BigEndian.Uint32(tail[len(tail)-4:])
		switch last4 {
		case 0x46575254: // "FWRT"
			return Result{Tags: []Tag{TagFullWrite2}}
		case 0x4E4C544F: // "NLTO"
			return Result{Tags: []Tag{TagActaClassic}}
		}
	}

	return Result{}
}

// compObjCLSID reads the CLSID embedded in a "/CompObj" stream: a
// 12-byte reserved/version header followed by the 16-byte CLSID
// itself (OLE::getCompObjType in the original reads it as four
// sequential little-endian uint32s starting at offset 12, which is
// the same 16 bytes in the same order).
func compObjCLSID(r *ole2.Reader) ([16]byte, bool) {
	data, err := r.Open("/CompObj")
	if err != nil || len(data) < 28 {
		return [16]byte{}, false
	}
	var clsid [16]byte
	copy(clsid[:], data[12:28])
	return clsid, true
}

// FromOLE runs the CLSID re-probe spec §8 scenario S1 names: once
// FromDataFork has identified an OLE2 container, resolve /CompObj's
// producer CLSID (falling back to the root storage entry's own CLSID
// when /CompObj is missing or too short) and look it up in
// OLEProducerByCLSID for a sharper tag.
func FromOLE(r *ole2.Reader) Result {
	clsid, ok := compObjCLSID(r)
	if !ok {
		clsid = r.RootCLSID()
	}
	if tag, ok := OLEProducerByCLSID[clsid]; ok {
		return Result{Tags: []Tag{TagOLEContainer, tag}}
	}
	return Result{Tags: []Tag{TagOLEContainer}}
}
