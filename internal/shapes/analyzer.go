package shapes

import (
	"github.com/okra-platform/tagstream/internal/layout"
	"github.com/okra-platform/tagstream/internal/value"
)

func termNode(base int) layout.Node {
	return fields(base, "type", "value", "pos", "len")
}

func termValue(t *Term, sel int) value.Value {
	switch sel {
	case 0:
		return value.String(t.Type)
	case 1:
		return value.String(t.Value)
	case 2:
		return value.UInt(uint64(t.Pos))
	case 3:
		return value.UInt(uint64(t.Len))
	}
	return value.Null()
}

func attributeNode(base int) layout.Node {
	return fields(base, "name", "value")
}

func attributeValue(a *Attribute, sel int) value.Value {
	switch sel {
	case 0:
		return value.String(a.Name)
	case 1:
		return value.String(a.Value)
	}
	return value.Null()
}

func metaDataNode(base int) layout.Node {
	return fields(base, "name", "value")
}

func metaDataValue(m *MetaData, sel int) value.Value {
	switch sel {
	case 0:
		return value.String(m.Name)
	case 1:
		return m.Value
	}
	return value.Null()
}

func dfChangeNode(base int) layout.Node {
	return fields(base, "type", "value", "increment")
}

func dfChangeValue(d *DocumentFrequencyChange, sel int) value.Value {
	switch sel {
	case 0:
		return value.String(d.Type)
	case 1:
		return value.String(d.Value)
	case 2:
		return value.Int(d.Increment)
	}
	return value.Null()
}

var (
	TermShape           = record("Term", termNode(0), termValue)
	TermArrayShape      = array("Term[]", termNode(0), termValue)
	AttributeShape      = record("Attribute", attributeNode(0), attributeValue)
	AttributeArrayShape = array("Attribute[]", attributeNode(0), attributeValue)
	MetaDataShape       = record("MetaData", metaDataNode(0), metaDataValue)
	MetaDataArrayShape  = array("MetaData[]", metaDataNode(0), metaDataValue)
)
