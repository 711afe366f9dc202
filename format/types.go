// types.go - File layout constants shared by all packages
package format

// Sizes and constants
const (
	FileHeaderSize = 0x200 // bytes read for the file header
	HeaderFixed    = 0x20  // fixed part of the header before the block tables
	PageHeaderSize = 13    // offset(4) size(2) usize(2) usize_unabridged(2) records(2) level(1)
	PageRefUnit    = 0x100 // a page ref addresses 256-byte slots
	FileSizeAlign  = 0x40  // valid files are a multiple of 64 bytes
)

// Magic is the fixed marker at offset 14 of the file header.
var Magic = []byte("tOpS\x00\x00")

// RecordTag is the type byte that follows the table number in a record.
type RecordTag uint8

const (
	TagData            RecordTag = 0xF3
	TagMetadata        RecordTag = 0xF6
	TagTableDefinition RecordTag = 0xFA
	TagTableName       RecordTag = 0xFE
)

// FieldType is the on-disk field type tag of a table definition.
type FieldType uint8

const (
	FieldByte    FieldType = 0x01
	FieldShort   FieldType = 0x02
	FieldUShort  FieldType = 0x03
	FieldDate    FieldType = 0x04 // 0xYYYYMMDD packed
	FieldTime    FieldType = 0x05 // 0xHHMMSSHS packed
	FieldLong    FieldType = 0x06
	FieldULong   FieldType = 0x07
	FieldFloat   FieldType = 0x08
	FieldDouble  FieldType = 0x09
	FieldDecimal FieldType = 0x0A
	FieldString  FieldType = 0x12
	FieldCString FieldType = 0x13
	FieldPString FieldType = 0x14
	FieldGroup   FieldType = 0x16
)

var fieldTypeNames = map[FieldType]string{
	FieldByte:    "BYTE",
	FieldShort:   "SHORT",
	FieldUShort:  "USHORT",
	FieldDate:    "DATE",
	FieldTime:    "TIME",
	FieldLong:    "LONG",
	FieldULong:   "ULONG",
	FieldFloat:   "FLOAT",
	FieldDouble:  "DOUBLE",
	FieldDecimal: "DECIMAL",
	FieldString:  "STRING",
	FieldCString: "CSTRING",
	FieldPString: "PSTRING",
	FieldGroup:   "GROUP",
}

func (t FieldType) String() string {
	if s, ok := fieldTypeNames[t]; ok {
		return s
	}
	return "UNKNOWN"
}

// IsString reports whether fields of this type carry array element size and template.
func (t FieldType) IsString() bool {
	return t == FieldString || t == FieldCString || t == FieldPString
}
