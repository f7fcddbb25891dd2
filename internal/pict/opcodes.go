// Copyright (c) Elliot Nunn
// Licensed under the MIT license

package pict

// ArgType is one of the closed set of QuickDraw opcode argument shapes
// spec §4.5 names. Opcode dispatch is data-driven off opcodeTable
// (spec §9's design note: "a const data-driven table plus a
// closure/function per argument type").
type ArgType int

const (
	ArgNone ArgType = iota
	ArgByte
	ArgUByte
	ArgShort
	ArgUShort
	ArgFixed
	ArgPoint
	ArgRect
	ArgPattern
	ArgColor
	ArgRegion
	ArgPolygon
	ArgPString
	ArgLongString
	ArgBitmap
	ArgPackedBitmap
	ArgPixmap
	ArgPackedPixmap
	ArgColorPattern
	ArgQuickTimeBlob
	ArgVersion // opcode 0x11's one-byte sub-version number
)

// OpcodeDef names one table entry: an id, a diagnostic name, and the
// ordered argument shapes that follow it.
type OpcodeDef struct {
	ID   uint16
	Name string
	Args []ArgType
}

// opcodeTable is the closed table spec §4.5 calls for. It is keyed by
// the opcode's numeric id, shared between the 8-bit PICT v1 dispatcher
// (which zero-extends its byte id) and the 16-bit PICT v2 dispatcher.
// It does not claim to be the full ~100-entry QuickDraw set; it covers
// every opcode this package's decoder and transcoder actually handle.
var opcodeTable = map[uint16]OpcodeDef{
	0x00: {0x00, "NOP", nil},
	0x01: {0x01, "Clip", []ArgType{ArgRegion}},
	0x02: {0x02, "BkPat", []ArgType{ArgPattern}},
	0x03: {0x03, "TxFont", []ArgType{ArgShort}},
	0x04: {0x04, "TxFace", []ArgType{ArgByte}},
	0x05: {0x05, "TxMode", []ArgType{ArgShort}},
	0x06: {0x06, "SpExtra", []ArgType{ArgFixed}},
	0x07: {0x07, "PnSize", []ArgType{ArgPoint}},
	0x08: {0x08, "PnMode", []ArgType{ArgShort}},
	0x09: {0x09, "PnPattern", []ArgType{ArgPattern}},
	0x0A: {0x0A, "FillPattern", []ArgType{ArgPattern}},
	0x0B: {0x0B, "OvSize", []ArgType{ArgPoint}},
	0x0C: {0x0C, "Origin", []ArgType{ArgPoint}},
	0x0D: {0x0D, "TxSize", []ArgType{ArgShort}},
	0x0E: {0x0E, "FgColor", []ArgType{ArgFixed}},
	0x0F: {0x0F, "BkColor", []ArgType{ArgFixed}},
	0x10: {0x10, "TxRatio", []ArgType{ArgPoint, ArgPoint}},
	0x11: {0x11, "Version", []ArgType{ArgVersion}},
	0x1E: {0x1E, "NOP2", nil},
	0x20: {0x20, "Line", []ArgType{ArgPoint, ArgPoint}},
	0x21: {0x21, "LineFrom", []ArgType{ArgPoint}},
	0x22: {0x22, "ShortLine", []ArgType{ArgPoint, ArgByte, ArgByte}},
	0x23: {0x23, "ShortLineFrom", []ArgType{ArgByte, ArgByte}},
	0x28: {0x28, "LongText", []ArgType{ArgPoint, ArgPString}},
	0x29: {0x29, "DHText", []ArgType{ArgByte, ArgPString}},
	0x2A: {0x2A, "DVText", []ArgType{ArgByte, ArgPString}},
	0x2B: {0x2B, "DHDVText", []ArgType{ArgByte, ArgByte, ArgPString}},
	0x2E: {0x2E, "GlyphState", []ArgType{ArgShort}}, // dropped by the transcoder, spec §4.5
	0x30: {0x30, "FrameRect", []ArgType{ArgRect}},
	0x31: {0x31, "PaintRect", []ArgType{ArgRect}},
	0x32: {0x32, "EraseRect", []ArgType{ArgRect}},
	0x33: {0x33, "InvertRect", []ArgType{ArgRect}},
	0x34: {0x34, "FillRect", []ArgType{ArgRect}},
	0x40: {0x40, "FrameRRect", []ArgType{ArgRect}},
	0x41: {0x41, "PaintRRect", []ArgType{ArgRect}},
	0x42: {0x42, "EraseRRect", []ArgType{ArgRect}},
	0x43: {0x43, "InvertRRect", []ArgType{ArgRect}},
	0x44: {0x44, "FillRRect", []ArgType{ArgRect}},
	0x50: {0x50, "FrameOval", []ArgType{ArgRect}},
	0x51: {0x51, "PaintOval", []ArgType{ArgRect}},
	0x52: {0x52, "EraseOval", []ArgType{ArgRect}},
	0x53: {0x53, "InvertOval", []ArgType{ArgRect}},
	0x54: {0x54, "FillOval", []ArgType{ArgRect}},
	0x60: {0x60, "FrameArc", []ArgType{ArgRect, ArgShort, ArgShort}},
	0x61: {0x61, "PaintArc", []ArgType{ArgRect, ArgShort, ArgShort}},
	0x62: {0x62, "EraseArc", []ArgType{ArgRect, ArgShort, ArgShort}},
	0x63: {0x63, "InvertArc", []ArgType{ArgRect, ArgShort, ArgShort}},
	0x64: {0x64, "FillArc", []ArgType{ArgRect, ArgShort, ArgShort}},
	0x70: {0x70, "FramePoly", []ArgType{ArgPolygon}},
	0x71: {0x71, "PaintPoly", []ArgType{ArgPolygon}},
	0x72: {0x72, "ErasePoly", []ArgType{ArgPolygon}},
	0x73: {0x73, "InvertPoly", []ArgType{ArgPolygon}},
	0x74: {0x74, "FillPoly", []ArgType{ArgPolygon}},
	0x80: {0x80, "FrameRegion", []ArgType{ArgRegion}},
	0x81: {0x81, "PaintRegion", []ArgType{ArgRegion}},
	0x82: {0x82, "EraseRegion", []ArgType{ArgRegion}},
	0x83: {0x83, "InvertRegion", []ArgType{ArgRegion}},
	0x84: {0x84, "FillRegion", []ArgType{ArgRegion}},
	0x90: {0x90, "BitsRect", []ArgType{ArgBitmap}},
	0x91: {0x91, "BitsRegion", []ArgType{ArgBitmap}},
	0x98: {0x98, "PackBitsRect", []ArgType{ArgPackedBitmap}},
	0x99: {0x99, "PackBitsRegion", []ArgType{ArgPackedBitmap}},
	0x9A: {0x9A, "DirectBitsRect", []ArgType{ArgPixmap}},
	0x9B: {0x9B, "DirectBitsRegion", []ArgType{ArgPixmap}},
	0xA0: {0xA0, "Comment", []ArgType{ArgShort}},
	0xA1: {0xA1, "ShortComment", []ArgType{ArgShort}},
	0xA2: {0xA2, "LongComment", []ArgType{ArgShort, ArgLongString}},
	0xA5: {0xA5, "LongComment????", []ArgType{ArgShort, ArgLongString}}, // non-standard, dropped by the transcoder, spec §4.5
	0xFF: {0xFF, "EndOfPicture", nil},
}

// droppedByTranscoder is the v1-only opcode set spec §4.5 says the
// PICT1->PICT2 transcoder drops rather than translates.
var droppedByTranscoder = map[uint16]bool{
	0x2E: true,
	0xA5: true,
}
