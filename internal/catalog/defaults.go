package catalog

import (
	_ "embed"
)

//go:embed defaults.yaml
var defaultCatalogYAML []byte
