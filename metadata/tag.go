package metadata

import (
	"github.com/viant/tagly/format"
	"github.com/viant/tagly/format/text"
	ftime "github.com/viant/tagly/format/time"
	"reflect"
	"strings"
)

const formatTagName = "format"

type fieldTag struct {
	name       string
	explicit   bool
	omitEmpty  bool
	ignore     bool
	inline     bool
	timeLayout string
}

// parseFieldTag resolves name tag (json by default) and format tag, name tag wins over format name/case
func parseFieldTag(field reflect.StructField, tagName string) fieldTag {
	ret := fieldTag{name: field.Name}
	if raw, ok := field.Tag.Lookup(tagName); ok {
		parts := strings.Split(raw, ",")
		switch parts[0] {
		case "-":
			if len(parts) == 1 {
				ret.ignore = true
			} else {
				ret.name, ret.explicit = "-", true
			}
		case "":
		default:
			ret.name, ret.explicit = parts[0], true
		}
		for _, option := range parts[1:] {
			switch option {
			case "omitempty", "omitzero":
				ret.omitEmpty = true
			case "inline":
				ret.inline = true
			}
		}
	}
	if _, ok := field.Tag.Lookup(formatTagName); !ok {
		return ret
	}
	tag, err := format.Parse(field.Tag)
	if err != nil || tag == nil {
		return ret
	}
	ret.omitEmpty = ret.omitEmpty || tag.Omitempty
	ret.ignore = ret.ignore || tag.Ignore
	ret.inline = ret.inline || tag.Inline
	if tag.TimeLayout != "" {
		ret.timeLayout = tag.TimeLayout
	} else if tag.DateFormat != "" {
		ret.timeLayout = ftime.DateFormatToTimeLayout(tag.DateFormat)
	}
	if ret.explicit {
		return ret
	}
	if tag.Name != "" {
		ret.name, ret.explicit = tag.Name, true
	}
	if tag.CaseFormat != "" {
		ret.name, ret.explicit = formatName(ret.name, text.CaseFormat(tag.CaseFormat)), true
	}
	return ret
}

// formatName formats go field name with supplied case format
func formatName(name string, caseFormat text.CaseFormat) string {
	if caseFormat == "" {
		return name
	}
	if name == "ID" {
		switch caseFormat {
		case text.CaseFormatLower, text.CaseFormatLowerCamel, text.CaseFormatLowerUnderscore:
			return "id"
		}
	}
	src := text.DetectCaseFormat(name)
	if !src.IsDefined() {
		src = text.CaseFormatUpperCamel
	}
	return src.Format(name, caseFormat)
}
