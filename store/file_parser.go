package store

import (
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/v2"
)

type ConfigFileType string

const (
	FileTypeYAML ConfigFileType = "yaml"
	FileTypeTOML ConfigFileType = "toml"
	FileTypeJSON ConfigFileType = "json"
)

// ConfigFileExtensions lists the extensions probed during file discovery.
var ConfigFileExtensions = []string{".toml", ".yaml", ".yml", ".json"}

func (c ConfigFileType) String() string {
	return string(c)
}

func (c ConfigFileType) Parser() koanf.Parser {
	switch c {
	case FileTypeTOML:
		return toml.Parser()
	case FileTypeYAML:
		return yaml.Parser()
	default:
		return json.Parser()
	}
}

// inferConfigFiletype picks a parser from the file extension, TOML when the
// extension is unknown since that is what most service config files use.
func inferConfigFiletype(path string) ConfigFileType {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FileTypeJSON
	case ".yaml", ".yml":
		return FileTypeYAML
	default:
		return FileTypeTOML
	}
}
