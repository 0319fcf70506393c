package commands

import (
	"github.com/Serenacula/templative/pkg/registry"
)

// Remove drops the named templates from the registry. The registry is
// saved only when every name was found, so a typo removes nothing.
func Remove(names []string) error {
	reg, err := registry.Load()
	if err != nil {
		return err
	}
	for _, name := range names {
		if err := reg.Remove(name); err != nil {
			return err
		}
	}
	return reg.Save()
}
