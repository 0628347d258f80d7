package schema

import "fmt"

// Firebird RDB$FIELDS type codes.
var fieldTypeNames = map[int]string{
	7:   "SMALLINT",
	8:   "INTEGER",
	10:  "FLOAT",
	12:  "DATE",
	13:  "TIME",
	14:  "CHAR",
	16:  "BIGINT",
	27:  "DOUBLE PRECISION",
	35:  "TIMESTAMP",
	37:  "VARCHAR",
	261: "BLOB",
}

const blobSubtypeText = 1

// DecodeType maps a raw catalog field type to a canonical descriptor.
// Unknown codes decode to UNKNOWN(<code>) so that an unfamiliar type never
// aborts catalog normalization.
func DecodeType(code, subtype, length, precision, scale int) TypeDescriptor {
	name, ok := fieldTypeNames[code]
	if !ok {
		return TypeDescriptor{Name: "UNKNOWN", Qualifier: fmt.Sprintf("(%d)", code)}
	}

	var qualifier string
	switch name {
	case "CHAR", "VARCHAR":
		qualifier = fmt.Sprintf("(%d)", length)
	case "BLOB":
		if subtype == blobSubtypeText {
			qualifier = "(SUB_TYPE TEXT)"
		} else {
			qualifier = fmt.Sprintf("(SUB_TYPE %d)", subtype)
		}
	case "SMALLINT", "INTEGER", "BIGINT":
		// The catalog reports a negative scale for fixed-point columns.
		if precision != 0 {
			if scale < 0 {
				scale = -scale
			}
			qualifier = fmt.Sprintf("(%d,%d)", precision, scale)
		}
	}

	return TypeDescriptor{Name: name, Qualifier: qualifier}
}
