package catalog

import (
	_ "embed"
	"sync"
)

//go:embed core.yaml
var coreYAML []byte

var loadCore = sync.OnceValues(func() (*Memory, error) {
	return ParseYAML(coreYAML, "core.yaml")
})

// Core returns the catalog of core runtime classes: Object, String, the
// boxed primitives, Number, Math, StringBuilder, System and a few
// interfaces and exceptions. The returned catalog is shared and must not be
// modified.
func Core() *Memory {
	m, err := loadCore()
	if err != nil {
		panic("catalog: embedded core.yaml is invalid: " + err.Error())
	}
	return m
}
